package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/go-cmp/cmp"
)

func TestBatch(t *testing.T) {
	dir := t.TempDir()
	type batchTest struct {
		b    Batch
		docs bool
		meta []string
	}
	bts := []batchTest{
		{
			b:    Batch{{Path: "/r/roles/x/meta/main.yml", Op: fsnotify.Write}},
			meta: []string{"/r/roles/x/meta/main.yml"},
		},
		{
			b:    Batch{{Path: "/c/plugins/modules/foo.py", Op: fsnotify.Write}},
			docs: true,
		},
		{
			b:    Batch{{Path: "/c/meta/runtime.yml", Op: fsnotify.Create}},
			docs: true,
		},
		{
			b:    Batch{{Path: "/c/plugins/modules/sub", Op: fsnotify.Remove}},
			docs: true,
		},
		{
			b:    Batch{{Path: dir, Op: fsnotify.Create}},
			docs: true,
		},
		{
			b: Batch{{Path: "/p/play.yml", Op: fsnotify.Write}, {Path: "/p/README.md", Op: fsnotify.Remove}},
		},
		{
			b: Batch{
				{Path: "/r/roles/x/meta/main.yaml", Op: fsnotify.Create},
				{Path: "/c/plugins/modules/foo.py", Op: fsnotify.Remove},
			},
			docs: true,
			meta: []string{"/r/roles/x/meta/main.yaml"},
		},
	}
	for i, bt := range bts {
		if got := bt.b.Docs(); got != bt.docs {
			t.Errorf("%d: docs got %t want %t", i, got, bt.docs)
		}
		if diff := cmp.Diff(bt.meta, bt.b.Meta()); diff != "" {
			t.Errorf("%d: meta (-want +got):\n%s", i, diff)
		}
	}
}

func TestIgnored(t *testing.T) {
	for path, want := range map[string]bool{
		"/a/.git":              true,
		"/a/__pycache__":       true,
		"/a/x.py.swp":          true,
		"/a/x.py~":             true,
		"/a/plugins/modules":   false,
		"/a/modules/debug.py":  false,
	} {
		if got := ignored(path); got != want {
			t.Errorf("%s: got %t want %t", path, got, want)
		}
	}
}

func TestWatcher(t *testing.T) {
	root := t.TempDir()
	modules := filepath.Join(root, "modules")
	if err := os.MkdirAll(filepath.Join(modules, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}
	batches := make(chan Batch, 4)
	w, err := New(20*time.Millisecond, func(b Batch) { batches <- b })
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()
	if err := w.Add(modules); err != nil {
		t.Fatal(err)
	}
	if err := w.Add(filepath.Join(root, "missing")); err != nil {
		t.Errorf("missing root: %v", err)
	}
	if diff := cmp.Diff([]string{filepath.Join(root, "missing"), modules}, w.Roots()); diff != "" {
		t.Errorf("roots (-want +got):\n%s", diff)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	src := filepath.Join(modules, "sub", "ping.py")
	for range 3 {
		if err := os.WriteFile(src, []byte("DOCUMENTATION = ''''''\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	select {
	case b := <-batches:
		if !b.Docs() {
			t.Errorf("batch %v does not touch docs", b)
		}
		n := 0
		for _, c := range b {
			if c.Path == src {
				n++
			}
		}
		if n != 1 {
			t.Errorf("got %d changes for %s in %v", n, src, b)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no batch")
	}

	cancel()
	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("run returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("run did not return")
	}
}
