package docs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/signadot/ansiblels/debug"
)

const (
	BuiltinNamespace  = "ansible"
	BuiltinCollection = "builtin"
	BuiltinPrefix     = BuiltinNamespace + "." + BuiltinCollection + "."
)

// ParseDirectory scans dir recursively for Python sources carrying a
// documentation block and returns their documentation, named in
// namespace.collection.  Files starting with '_' are skipped, as are
// sources without documentation.  Documentation which does not decode
// cleanly is kept with its Errors set.
func ParseDirectory(ctx context.Context, dir, namespace, collection string) ([]*Module, error) {
	var res []*Module
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || !isSource(d.Name()) {
			return nil
		}
		m, err := ParseFile(path, namespace, collection)
		switch {
		case errors.Is(err, ErrNoDocumentation):
			return nil
		case err != nil:
			if debug.Scan() {
				debug.Logf("skipping %s: %v\n", path, err)
			}
			return nil
		}
		res = append(res, m)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", dir, err)
	}
	if debug.Scan() {
		debug.Logf("scanned %s: %d modules\n", dir, len(res))
	}
	return res, nil
}

func isSource(name string) bool {
	return strings.HasSuffix(name, ".py") && !strings.HasPrefix(name, "_")
}

// ParseFile reads the documentation of the source file at path.
func ParseFile(path, namespace, collection string) (*Module, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSuffix(filepath.Base(path), ".py")
	return ParseSource(path, src, namespace, collection, name)
}

// ParseSource extracts the documentation of module name from src.  It
// returns ErrNoDocumentation when src has no documentation block.
func ParseSource(source string, src []byte, namespace, collection, name string) (*Module, error) {
	b, ok := findBlock(src)
	if !ok {
		return nil, fmt.Errorf("%s: %w", source, ErrNoDocumentation)
	}
	m := &Module{
		Source:     source,
		Lines:      [2]int{b.first, b.last},
		FQCN:       namespace + "." + collection + "." + name,
		Namespace:  namespace,
		Collection: collection,
		Name:       name,
	}
	m.Contents, m.Errors = decode(source, b)
	return m, nil
}

// collectionDirs returns the plugin directories of kind sub ("modules",
// "doc_fragments") of the collections installed under root, keyed by
// namespace and collection.
func collectionDirs(root, sub string) ([]collectionDir, error) {
	pattern := filepath.Join(root, "ansible_collections", "*", "*", "plugins", sub)
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, err
	}
	res := make([]collectionDir, 0, len(matches))
	for _, dir := range matches {
		coll := filepath.Dir(filepath.Dir(dir))
		res = append(res, collectionDir{
			dir:        dir,
			namespace:  filepath.Base(filepath.Dir(coll)),
			collection: filepath.Base(coll),
		})
	}
	return res, nil
}

type collectionDir struct {
	dir                   string
	namespace, collection string
}

// ParseCollections scans the plugin directories of kind sub of every
// collection installed under root.
func ParseCollections(ctx context.Context, root, sub string) ([]*Module, error) {
	dirs, err := collectionDirs(root, sub)
	if err != nil {
		return nil, err
	}
	var res []*Module
	for _, cd := range dirs {
		ms, err := ParseDirectory(ctx, cd.dir, cd.namespace, cd.collection)
		if err != nil {
			return nil, err
		}
		res = append(res, ms...)
	}
	return res, nil
}

// BuiltinFragmentsDir returns the directory holding the builtin
// documentation fragments for a builtin modules location.
func BuiltinFragmentsDir(modulesPath string) string {
	return filepath.Join(filepath.Dir(filepath.Clean(modulesPath)), "plugins", "doc_fragments")
}

// BuiltinRuntimeFile returns the builtin plugin routing file for a
// builtin modules location.
func BuiltinRuntimeFile(modulesPath string) string {
	return filepath.Join(filepath.Dir(filepath.Clean(modulesPath)), "config", "ansible_builtin_runtime.yml")
}
