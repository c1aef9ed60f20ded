package docs

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseRouting(t *testing.T) {
	routes, err := ParseRouting([]byte(builtinRuntime), "ansible.builtin")
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]*Route{
		"ansible.builtin.old_debug": {
			FQCN:     "ansible.builtin.old_debug",
			Redirect: "ansible.builtin.debug",
			Deprecation: &Notice{
				WarningText:    "Use debug instead.",
				RemovalVersion: "2.20",
			},
		},
		"ansible.builtin.gone": {
			FQCN: "ansible.builtin.gone",
			Tombstone: &Notice{
				WarningText:    "It is gone.",
				RemovalVersion: "2.10",
			},
		},
	}
	if diff := cmp.Diff(want, routes); diff != "" {
		t.Errorf("routes (-want +got):\n%s", diff)
	}

	routes, err = ParseRouting([]byte("requires_ansible: '>=2.9'\n"), "a.b")
	if err != nil || len(routes) != 0 {
		t.Errorf("got %v, %v", routes, err)
	}
	if _, err := ParseRouting([]byte("plugin_routing: [\n"), "a.b"); err == nil {
		t.Error("expected an error")
	}
}

func TestReadRouting(t *testing.T) {
	routes, err := ReadRouting(filepath.Join(t.TempDir(), "runtime.yml"), "a.b")
	if err != nil || routes != nil {
		t.Errorf("missing file: got %v, %v", routes, err)
	}
	_, colls := ansibleTree(t)
	routes, err = CollectionRouting(context.Background(), colls)
	if err != nil {
		t.Fatal(err)
	}
	r := routes["community.general.bar"]
	if r == nil || r.Redirect != "community.general.foo" || r.Removed() {
		t.Errorf("got route %+v", r)
	}
}
