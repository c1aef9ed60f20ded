// Package watch reports batches of filesystem changes under the
// locations the documentation index and meta cache are built from.
package watch

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/signadot/ansiblels/debug"
)

type Change struct {
	Path string
	Op   fsnotify.Op
}

// Batch is a debounced set of changes, one per path, in order of first
// occurrence.
type Batch []Change

// Docs reports whether b touches module sources, plugin routing or
// directories which may hold them.
func (b Batch) Docs() bool {
	for _, c := range b {
		switch {
		case IsMeta(c.Path):
		case strings.HasSuffix(c.Path, ".py"), IsRouting(c.Path):
			return true
		case c.Op.Has(fsnotify.Remove) || c.Op.Has(fsnotify.Rename):
			// removed directories leave no trace to stat
			if filepath.Ext(c.Path) == "" {
				return true
			}
		case isDir(c.Path):
			return true
		}
	}
	return false
}

// Meta returns the role meta files b touches.
func (b Batch) Meta() []string {
	var res []string
	for _, c := range b {
		if IsMeta(c.Path) {
			res = append(res, filepath.Clean(c.Path))
		}
	}
	return res
}

// IsMeta reports whether path is a role's meta/main.yml.
func IsMeta(path string) bool {
	base := filepath.Base(path)
	return (base == "main.yml" || base == "main.yaml") && filepath.Base(filepath.Dir(path)) == "meta"
}

// IsRouting reports whether path is a plugin routing file.
func IsRouting(path string) bool {
	switch filepath.Base(path) {
	case "runtime.yml", "ansible_builtin_runtime.yml":
		return true
	}
	return false
}

var ignore = []string{".git", "__pycache__", "*.swp", "*.tmp", "*~"}

func ignored(path string) bool {
	base := filepath.Base(path)
	for _, pat := range ignore {
		if ok, _ := filepath.Match(pat, base); ok {
			return true
		}
	}
	return false
}

func isDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}

// Watcher watches directory trees and hands debounced batches of
// changes to a handler, from a single goroutine.
type Watcher struct {
	w        *fsnotify.Watcher
	handler  func(Batch)
	debounce time.Duration

	mu    sync.Mutex
	roots map[string]bool
	once  sync.Once
}

func New(debounce time.Duration, handler func(Batch)) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		w:        w,
		handler:  handler,
		debounce: debounce,
		roots:    map[string]bool{},
	}, nil
}

// Add watches root and the directories below it.  A missing root is
// not an error.
func (w *Watcher) Add(root string) error {
	root = filepath.Clean(root)
	w.mu.Lock()
	if w.roots[root] {
		w.mu.Unlock()
		return nil
	}
	w.roots[root] = true
	w.mu.Unlock()
	err := w.addTree(root)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// AddDir watches dir alone.
func (w *Watcher) AddDir(dir string) error {
	dir = filepath.Clean(dir)
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.roots[dir] {
		return nil
	}
	if err := w.w.Add(dir); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	w.roots[dir] = true
	return nil
}

// Roots returns the roots added, sorted.
func (w *Watcher) Roots() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	res := make([]string, 0, len(w.roots))
	for r := range w.roots {
		res = append(res, r)
	}
	slices.Sort(res)
	return res
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && ignored(path) {
			return filepath.SkipDir
		}
		return w.w.Add(path)
	})
}

// Run delivers batches until ctx is done or the watcher is closed.
// Pending changes are delivered before it returns.
func (w *Watcher) Run(ctx context.Context) error {
	var (
		batch  Batch
		seen   = map[string]int{}
		timer  *time.Timer
		timerC <-chan time.Time
	)
	flush := func() {
		if timer != nil {
			timer.Stop()
			timer, timerC = nil, nil
		}
		if len(batch) == 0 {
			return
		}
		if debug.Watch() {
			debug.Logf("watch: %d changes\n", len(batch))
		}
		w.handler(batch)
		batch, seen = nil, map[string]int{}
	}
	for {
		select {
		case <-ctx.Done():
			flush()
			return ctx.Err()
		case ev, ok := <-w.w.Events:
			if !ok {
				flush()
				return nil
			}
			if ignored(ev.Name) || ev.Op == fsnotify.Chmod {
				continue
			}
			if debug.Watch() {
				debug.Logf("watch: %s\n", ev)
			}
			if ev.Has(fsnotify.Create) && isDir(ev.Name) {
				if err := w.addTree(ev.Name); err != nil && debug.Watch() {
					debug.Logf("watch: adding %s: %v\n", ev.Name, err)
				}
			}
			if i, ok := seen[ev.Name]; ok {
				batch[i].Op |= ev.Op
			} else {
				seen[ev.Name] = len(batch)
				batch = append(batch, Change{Path: ev.Name, Op: ev.Op})
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				timer.Reset(w.debounce)
			}
		case <-timerC:
			timer, timerC = nil, nil
			flush()
		case err, ok := <-w.w.Errors:
			if !ok {
				flush()
				return nil
			}
			if debug.Watch() {
				debug.Logf("watch: %v\n", err)
			}
		}
	}
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		err = w.w.Close()
	})
	return err
}
