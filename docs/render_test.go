package docs

import (
	"strings"
	"testing"
)

func TestMarkdown(t *testing.T) {
	type mdTest struct {
		in, out string
	}
	mts := []mdTest{
		{in: "Set I(path) to C(/tmp).", out: "Set *path* to `/tmp`."},
		{in: "B(Warning) see M(ansible.builtin.copy)", out: "**Warning** see `ansible.builtin.copy`"},
		{in: "U(https://x.io) and L(the docs, https://y.io)", out: "[https://x.io](https://x.io) and [the docs](https://y.io)"},
		{in: "R(Lookups,playbooks_lookups)", out: "Lookups"},
		{in: "O(state=absent) V(true) E(HOME)", out: "`state=absent` `true` `HOME`"},
		{in: "P(ansible.builtin.file#lookup)", out: "`ansible.builtin.file`"},
		{in: "a HORIZONTALLINE b", out: "a \n\n---\n\n b"},
		{in: "TI(x) stays", out: "TI(x) stays"},
		{in: "plain", out: "plain"},
	}
	for _, mt := range mts {
		if got := Markdown(mt.in); got != mt.out {
			t.Errorf("%q: got %q want %q", mt.in, got, mt.out)
		}
	}
}

func TestDetails(t *testing.T) {
	type detailsTest struct {
		o    *Option
		want string
	}
	dts := []detailsTest{
		{o: &Option{Required: true, Type: "list", Elements: "str"}, want: "(required) list(str)"},
		{o: &Option{Type: "list"}, want: "list"},
		{o: &Option{Required: true}, want: "(required)"},
		{o: &Option{}, want: ""},
	}
	for _, dt := range dts {
		if got := Details(dt.o); got != dt.want {
			t.Errorf("%+v: got %q want %q", dt.o, got, dt.want)
		}
	}
}

func TestFormatOption(t *testing.T) {
	o := &Option{
		Name:         "state",
		Description:  []string{"One C(x).", "Two."},
		Type:         "str",
		Choices:      []any{"a", "b"},
		Default:      "b",
		Aliases:      []string{"st"},
		VersionAdded: "2.4",
	}
	want := "**state** `str`\n\nOne `x`.\n\nTwo.\n\n**Choices**: `a`, `b` (default)\n\n**Aliases**: st\n\n*Added in version 2.4*"
	if got := FormatOption(o, true); got != want {
		t.Errorf("got %q want %q", got, want)
	}
	o = &Option{Name: "n", Description: []string{"N."}, Default: int64(3)}
	want = "N.\n\n**Default**: `3`"
	if got := FormatOption(o, false); got != want {
		t.Errorf("got %q want %q", got, want)
	}
}

func TestFormatModule(t *testing.T) {
	x := ansibleIndex(t)
	m, ok := x.Lookup("old_debug", nil)
	if !ok {
		t.Fatal("old_debug not found")
	}
	got := FormatModule(m.Module, m.Route)
	for _, want := range []string{
		"**ansible.builtin.debug**",
		"*Print statements during execution*",
		"> **Deprecated** (removal in version 2.20): Use debug instead.",
		"ansible.builtin.old_debug redirects to ansible.builtin.debug",
		"This module prints statements during execution.",
		"**Notes**\n\n- Module note.",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("%q not in\n%s", want, got)
		}
	}
}
