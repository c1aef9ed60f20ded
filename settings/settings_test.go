package settings

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMerge(t *testing.T) {
	type mergeTest struct {
		patch string
		edit  func(*Settings)
	}
	mts := []mergeTest{
		{patch: ""},
		{patch: "{}"},
		{
			patch: `{"ansible": {"modulesPaths": ["/usr/lib/ansible/modules"]}}`,
			edit: func(s *Settings) {
				s.Ansible.ModulesPaths = []string{"/usr/lib/ansible/modules"}
			},
		},
		{
			patch: `{"completion": {"snippets": false}, "watch": {"debounce": 100}}`,
			edit: func(s *Settings) {
				s.Completion.Snippets = false
				s.Watch.Debounce = 100
			},
		},
		{
			patch: `{"ansible": {"collectionsPaths": null}, "unknown": 1}`,
			edit: func(s *Settings) {
				s.Ansible.CollectionsPaths = nil
			},
		},
	}
	for _, mt := range mts {
		want := Default()
		if mt.edit != nil {
			mt.edit(want)
		}
		got, err := Default().Merge([]byte(mt.patch))
		if err != nil {
			t.Errorf("%s: %v", mt.patch, err)
			continue
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("%s (-want +got):\n%s", mt.patch, diff)
		}
	}
}

func TestMergeErrors(t *testing.T) {
	for _, patch := range []string{
		`{"watch": {"debounce": -1}}`,
		`{"watch": {"enabled": "yes"}}`,
		`{"ansible": {"modulesPaths": [""]}}`,
		`{`,
	} {
		if _, err := Default().Merge([]byte(patch)); !errors.Is(err, ErrSettings) {
			t.Errorf("%s: got %v want ErrSettings", patch, err)
		}
	}
}

func TestMergeKeepsBase(t *testing.T) {
	base := Default()
	if _, err := base.Merge([]byte(`{"validation": {"syntax": false}}`)); err != nil {
		t.Fatal(err)
	}
	if !base.Validation.Syntax {
		t.Error("merge modified its receiver")
	}
}

func TestLoadEnv(t *testing.T) {
	t.Setenv(EnvVar, "")
	if d, err := LoadEnv(); d != nil || err != nil {
		t.Errorf("unset: got %s, %v", d, err)
	}

	t.Setenv(EnvVar, "ansible:\n  modulesPaths:\n  - /opt/ansible/modules\nwatch:\n  enabled: false\n")
	s, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	want := Default()
	want.Ansible.ModulesPaths = []string{"/opt/ansible/modules"}
	want.Watch.Enabled = false
	if diff := cmp.Diff(want, s); diff != "" {
		t.Errorf("yaml (-want +got):\n%s", diff)
	}

	t.Setenv(EnvVar, `{"validation": {"syntax": false}}`)
	s, err = Load()
	if err != nil {
		t.Fatal(err)
	}
	if s.Validation.Syntax {
		t.Error("json settings not applied")
	}

	t.Setenv(EnvVar, "a: [")
	if _, err := LoadEnv(); !errors.Is(err, ErrSettings) {
		t.Errorf("got %v want ErrSettings", err)
	}
}

func TestPaths(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip(err)
	}
	s := Default()
	want := []string{filepath.Join(home, ".ansible/collections"), "/usr/share/ansible/collections"}
	if diff := cmp.Diff(want, s.CollectionsPaths()); diff != "" {
		t.Errorf("collections paths (-want +got):\n%s", diff)
	}
	o, _ := s.Merge([]byte(`{"completion": {"snippets": false}}`))
	if !s.SamePaths(o) {
		t.Error("paths differ after an unrelated change")
	}
	o, _ = s.Merge([]byte(`{"ansible": {"modulesPaths": ["/m"]}}`))
	if s.SamePaths(o) {
		t.Error("paths equal after a path change")
	}
	if s.Watch.Interval().Milliseconds() != 500 {
		t.Errorf("got interval %v", s.Watch.Interval())
	}
}
