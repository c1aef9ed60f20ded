package ansiblels

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/ansiblels/ir"
)

func TestMayBeModule(t *testing.T) {
	if !MayBeModule(pathAt(t, debugTask, "debug")) {
		t.Errorf("top level task")
	}
	for _, k := range []string{"tasks", "pre_tasks", "post_tasks", "handlers", "block", "rescue", "always"} {
		in := fmt.Sprintf("- hosts: all\n  %s:\n  - mod_x:\n", k)
		if !MayBeModule(pathAt(t, in, "mod_x")) {
			t.Errorf("%s: not a module position", k)
		}
	}
	for _, in := range []string{
		"- hosts: all\n  vars:\n  - mod_x:\n",
		"mod_x:\n  msg: hi\n",
		"- debug:\n    mod_x: hi\n",
		"- hosts: all\n  tasks:\n    mod_x: 1\n",
	} {
		if MayBeModule(pathAt(t, in, "mod_x")) {
			t.Errorf("%q: module position", in)
		}
	}
}

func TestIsTaskParam(t *testing.T) {
	play := "- hosts: all\n  tasks:\n  - debug:\n  roles:\n  - role: foo\n"
	block := "- block:\n  - debug:\n  when: x\n"
	tests := []struct {
		in, at string
		want   bool
	}{
		{debugTask, "debug", true},
		{debugTask, "name", true},
		{debugTask, "msg", false},
		{play, "hosts", false},
		{play, "debug", true},
		{play, "role: foo", false},
		{block, "when", false},
		{block, "debug", true},
	}
	for _, tc := range tests {
		if got := IsTaskParam(pathAt(t, tc.in, tc.at)); got != tc.want {
			t.Errorf("%q at %q: got %t", tc.in, tc.at, got)
		}
	}
	if !IsRoleParam(pathAt(t, play, "role: foo")) {
		t.Errorf("role entry")
	}
	if !IsBlockParam(pathAt(t, block, "when")) {
		t.Errorf("block keyword")
	}
}

func TestIsPlayParam(t *testing.T) {
	tests := []struct {
		in, at, uri   string
		isPlay, known bool
	}{
		{"- hosts: all\n  name: p\n", "name", "", true, true},
		{"- debug:\n", "debug", "", false, false},
		{"- debug:\n", "debug", "file:///p/roles/r/tasks/main.yml", false, true},
		{"- hosts: all\n  tasks:\n  - debug:\n", "debug", "", false, true},
	}
	for _, tc := range tests {
		isPlay, known := IsPlayParam(pathAt(t, tc.in, tc.at), tc.uri)
		if isPlay != tc.isPlay || known != tc.known {
			t.Errorf("%q at %q: got %t %t", tc.in, tc.at, isPlay, known)
		}
	}
}

func TestModuleCandidates(t *testing.T) {
	in := "- name: t\n  debug:\n  when: x\n  with_items: []\n  register: r\n"
	task := docs(t, in)[0].Contents.(*ir.Sequence).Items[0].(*ir.Mapping)
	if diff := cmp.Diff([]string{"debug"}, ModuleCandidates(task)); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if got := MapKeys(nil); got != nil {
		t.Errorf("got %v", got)
	}
}

func TestDeclaredCollections(t *testing.T) {
	in := `- hosts: all
  collections:
  - community.general
  tasks:
  - block:
    - name: t
      mod_x: {}
      collections:
      - my.coll
    collections:
    - my.coll
    - other.coll
  - mod_y:
`
	got := DeclaredCollections(pathAt(t, in, "mod_x"))
	if diff := cmp.Diff([]string{"my.coll", "other.coll", "community.general"}, got); diff != "" {
		t.Errorf("nested block (-want +got):\n%s", diff)
	}
	got = DeclaredCollections(pathAt(t, in, "mod_y"))
	if diff := cmp.Diff([]string{"community.general"}, got); diff != "" {
		t.Errorf("play task (-want +got):\n%s", diff)
	}
	if got := DeclaredCollections(pathAt(t, debugTask, "debug")); len(got) != 0 {
		t.Errorf("bare task list: %v", got)
	}
}

func TestTaskParamPath(t *testing.T) {
	tests := []struct {
		in, at string
		module string
		trace  []OptionStep
	}{
		{in: debugTask, at: "debug", module: "debug"},
		{in: debugTask, at: "msg", module: "debug", trace: []OptionStep{{Name: "debug"}}},
		{
			in:     "- uri:\n    headers:\n      X-A: b\n",
			at:     "X-A",
			module: "uri",
			trace:  []OptionStep{{Name: "uri"}, {Name: "headers"}},
		},
		{
			in:     "- x:\n    rules:\n    - port: 1\n",
			at:     "port",
			module: "x",
			trace:  []OptionStep{{Name: "x"}, {Name: "rules", List: true}},
		},
	}
	for _, tc := range tests {
		kp, trace, ok := TaskParamPath(pathAt(t, tc.in, tc.at))
		if !ok {
			t.Errorf("%q at %q: not found", tc.in, tc.at)
			continue
		}
		if k, _ := kp.Last().(*ir.Scalar); k == nil || k.Value != tc.module {
			t.Errorf("%q at %q: got %s", tc.in, tc.at, kp)
		}
		if len(trace) == 0 && len(tc.trace) == 0 {
			continue
		}
		if diff := cmp.Diff(tc.trace, trace); diff != "" {
			t.Errorf("%q at %q: (-want +got):\n%s", tc.in, tc.at, diff)
		}
	}
	if _, _, ok := TaskParamPath(pathAt(t, "a:\n  b: 1\n", "b")); ok {
		t.Errorf("found a task outside a task list")
	}
}
