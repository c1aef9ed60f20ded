package docs

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	yaml3 "gopkg.in/yaml.v3"
)

// MetaPath returns the meta/main.yml file declaring the collections of
// the role file at path: the one beside the nearest tasks directory
// enclosing it.
func MetaPath(path string) (string, bool) {
	dir := filepath.Dir(filepath.Clean(path))
	for {
		if filepath.Base(dir) == "tasks" {
			return filepath.Join(filepath.Dir(dir), "meta", "main.yml"), true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// ReadMeta reads the collections declared in the meta file at path.  A
// missing file declares none.
func ReadMeta(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return ParseMeta(data)
}

// ParseMeta returns the collections declared in any document of a meta
// file.
func ParseMeta(data []byte) ([]string, error) {
	dec := yaml3.NewDecoder(bytes.NewReader(data))
	var res []string
	for {
		var doc any
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			return res, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMeta, err)
		}
		m, _ := doc.(map[string]any)
		colls, _ := m["collections"].([]any)
		for _, c := range colls {
			if s, ok := c.(string); ok {
				res = append(res, s)
			}
		}
	}
}

// MetaCache caches the collections declared by meta files.
type MetaCache struct {
	mu      sync.Mutex
	entries map[string]*metaEntry
}

type metaEntry struct {
	once  sync.Once
	colls []string
	err   error
}

func NewMetaCache() *MetaCache {
	return &MetaCache{entries: map[string]*metaEntry{}}
}

// Collections returns the collections declared for the file at path.
// Files outside a tasks directory declare none.  A malformed meta file
// declares none and its error is returned for the caller to report.
func (c *MetaCache) Collections(path string) ([]string, error) {
	mp, ok := MetaPath(path)
	if !ok {
		return nil, nil
	}
	c.mu.Lock()
	e := c.entries[mp]
	if e == nil {
		e = &metaEntry{}
		c.entries[mp] = e
	}
	c.mu.Unlock()
	e.once.Do(func() {
		e.colls, e.err = ReadMeta(mp)
	})
	return e.colls, e.err
}

// Invalidate drops the cached entry of the meta file at path.
func (c *MetaCache) Invalidate(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, filepath.Clean(path))
}

// Reset drops all cached entries.
func (c *MetaCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = map[string]*metaEntry{}
}
