package docs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
)

// Notice describes a deprecation or removal.
type Notice struct {
	WarningText    string
	RemovalDate    string
	RemovalVersion string
}

// Route is the plugin routing entry of a module.
type Route struct {
	FQCN        string
	Redirect    string
	Deprecation *Notice
	Tombstone   *Notice
}

// Removed reports whether the module was removed.
func (r *Route) Removed() bool {
	return r.Tombstone != nil
}

// ParseRouting reads the module routes of a runtime file of collection,
// keyed by FQCN.
func ParseRouting(data []byte, collection string) (map[string]*Route, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	doc = normalizeMap(doc)
	pr, _ := doc["plugin_routing"].(map[string]any)
	mods, _ := pr["modules"].(map[string]any)
	res := make(map[string]*Route, len(mods))
	for name, v := range mods {
		e, ok := v.(map[string]any)
		if !ok {
			continue
		}
		r := &Route{
			FQCN:        collection + "." + name,
			Redirect:    stringOf(e["redirect"]),
			Deprecation: noticeOf(e["deprecation"]),
			Tombstone:   noticeOf(e["tombstone"]),
		}
		res[r.FQCN] = r
	}
	return res, nil
}

func noticeOf(v any) *Notice {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	return &Notice{
		WarningText:    stringOf(m["warning_text"]),
		RemovalDate:    stringOf(m["removal_date"]),
		RemovalVersion: stringOf(m["removal_version"]),
	}
}

// ReadRouting reads the runtime file at path.  A missing file has no
// routes.
func ReadRouting(path, collection string) (map[string]*Route, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	res, err := ParseRouting(data, collection)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return res, nil
}

// CollectionRouting reads meta/runtime.yml of every collection installed
// under root.
func CollectionRouting(ctx context.Context, root string) (map[string]*Route, error) {
	files, err := filepath.Glob(filepath.Join(root, "ansible_collections", "*", "*", "meta", "runtime.yml"))
	if err != nil {
		return nil, err
	}
	res := map[string]*Route{}
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		coll := filepath.Dir(filepath.Dir(f))
		name := filepath.Base(filepath.Dir(coll)) + "." + filepath.Base(coll)
		rs, err := ReadRouting(f, name)
		if err != nil {
			return nil, err
		}
		for k, r := range rs {
			res[k] = r
		}
	}
	return res, nil
}
