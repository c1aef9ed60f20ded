package docs

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestCandidates(t *testing.T) {
	got := Candidates("foo", []string{"a.b", "c.d"})
	want := []string{"foo", "ansible.builtin.foo", "a.b.foo", "c.d.foo"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("candidates (-want +got):\n%s", diff)
	}
}

func TestFindModule(t *testing.T) {
	l := NewLibrary()
	l.Swap(ansibleIndex(t))

	type findTest struct {
		search string
		colls  []string
		fqcn   string
	}
	fts := []findTest{
		{search: "debug", fqcn: "ansible.builtin.debug"},
		{search: "ansible.builtin.debug", fqcn: "ansible.builtin.debug"},
		{search: "command", fqcn: "ansible.builtin.command"},
		{search: "foo"},
		{search: "foo", colls: []string{"community.general"}, fqcn: "community.general.foo"},
		{search: "community.general.foo", fqcn: "community.general.foo"},
		{search: "old_debug", fqcn: "ansible.builtin.debug"},
		{search: "bar", colls: []string{"community.general"}, fqcn: "community.general.foo"},
		{search: "bar"},
		{search: "gone"},
		{search: "_hidden"},
		{search: ""},
	}
	for _, ft := range fts {
		m := l.FindModule(ft.search, ft.colls)
		got := ""
		if m != nil {
			got = m.FQCN
		}
		if got != ft.fqcn {
			t.Errorf("find %q in %v: got %q want %q", ft.search, ft.colls, got, ft.fqcn)
		}
		if l.IsModule(ft.search, ft.colls) != (ft.fqcn != "") {
			t.Errorf("is module %q in %v: got %t", ft.search, ft.colls, !(ft.fqcn != ""))
		}
	}
}

func TestLookupRoutes(t *testing.T) {
	x := ansibleIndex(t)

	m, ok := x.Lookup("old_debug", nil)
	if !ok {
		t.Fatal("old_debug not found")
	}
	if m.FQCN != "ansible.builtin.old_debug" || m.Module.FQCN != "ansible.builtin.debug" {
		t.Errorf("got match %q -> %q", m.FQCN, m.Module.FQCN)
	}
	if m.Route == nil || m.Route.Deprecation == nil || m.Route.Deprecation.RemovalVersion != "2.20" {
		t.Errorf("got route %+v", m.Route)
	}

	m, ok = x.Lookup("gone", nil)
	if ok {
		t.Fatal("removed module found")
	}
	if m == nil || m.Route == nil || !m.Route.Removed() || m.Route.Tombstone.WarningText != "It is gone." {
		t.Errorf("got match %+v", m)
	}

	if _, ok := x.Lookup("missing", nil); ok {
		t.Error("found missing module")
	}
}

func TestResolveFragments(t *testing.T) {
	l := NewLibrary()
	l.Swap(ansibleIndex(t))

	m := l.FindModule("foo", []string{"community.general"})
	if m == nil {
		t.Fatal("foo not found")
	}
	if diff := cmp.Diff([]string{"ansible.builtin.files", "community.general.attrs"}, m.Fragments); diff != "" {
		t.Errorf("fragments (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"A", "B"}, m.Notes()); diff != "" {
		t.Errorf("notes (-want +got):\n%s", diff)
	}
	names := []string{}
	for _, o := range m.Options() {
		names = append(names, o.Name)
	}
	if diff := cmp.Diff([]string{"attributes", "mode", "name", "owner"}, names); diff != "" {
		t.Errorf("options (-want +got):\n%s", diff)
	}
	mode, _ := m.Option("mode")
	if mode == nil || mode.Type != "str" || mode.Description[0] != "Overridden mode." {
		t.Errorf("got mode %+v", mode)
	}
	if o, ok := l.ModuleOption("foo", []string{"community.general"}, "attr"); !ok || o.Name != "attributes" {
		t.Errorf("got alias lookup %+v", o)
	}

	scanned := l.Index().Module("community.general.foo")
	if scanned.Resolved() {
		t.Error("scanned module was modified")
	}
	if _, ok := scanned.Option("owner"); ok {
		t.Error("scanned module has fragment options")
	}
}

func TestResolveIdempotent(t *testing.T) {
	x := ansibleIndex(t)
	first, _ := x.Lookup("foo", []string{"community.general"})

	f := x.Fragment("files")
	f.Contents["notes"] = append(f.Contents["notes"].([]any), "C")
	opts := f.Contents["options"].(map[string]any)
	opts["group"] = map[string]any{"type": "str"}

	second, _ := x.Lookup("community.general.foo", nil)
	if diff := cmp.Diff(first.Module.Notes(), second.Module.Notes()); diff != "" {
		t.Errorf("notes changed (-first +second):\n%s", diff)
	}
	if _, ok := second.Module.Option("group"); ok {
		t.Error("resolution saw a later fragment change")
	}
	if diff := cmp.Diff([]string{"A", "B"}, second.Module.Notes()); diff != "" {
		t.Errorf("notes (-want +got):\n%s", diff)
	}
}

func TestResolveConcurrent(t *testing.T) {
	x := ansibleIndex(t)
	var wg sync.WaitGroup
	res := make([]*Module, 8)
	for i := range res {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m, _ := x.Lookup("foo", []string{"community.general"})
			res[i] = m.Module
		}()
	}
	wg.Wait()
	for _, m := range res[1:] {
		if m != res[0] {
			t.Fatal("modules resolved more than once")
		}
	}
}

func TestScenarioDebugMsg(t *testing.T) {
	l := NewLibrary()
	l.Swap(ansibleIndex(t))
	opts, ok := l.ModuleOptions("debug", nil)
	if !ok {
		t.Fatal("debug has no options")
	}
	o, ok := FindOption(opts, "msg")
	if !ok {
		t.Fatal("debug has no msg option")
	}
	if diff := cmp.Diff([]string{"The customized message that is printed."}, o.Description); diff != "" {
		t.Errorf("description (-want +got):\n%s", diff)
	}
	d, ok := l.ModuleDescription("debug", nil)
	if !ok || d[0] != "This module prints statements during execution." {
		t.Errorf("got description %v", d)
	}
	if _, ok := l.ModuleOptions("nosuch", nil); ok {
		t.Error("options for a missing module")
	}
}

func TestNames(t *testing.T) {
	x := ansibleIndex(t)
	want := []string{
		"ansible.builtin.command",
		"ansible.builtin.debug",
		"ansible.builtin.old_debug",
		"ansible.builtin.ping",
		"community.general.bar",
		"community.general.foo",
	}
	if diff := cmp.Diff(want, x.Names()); diff != "" {
		t.Errorf("names (-want +got):\n%s", diff)
	}
	if !slices.IsSorted(x.Names()) {
		t.Error("names not sorted")
	}
}

func TestLibraryReady(t *testing.T) {
	l := NewLibrary()
	if l.Ready() {
		t.Error("ready before an index")
	}
	if l.IsModule("debug", nil) {
		t.Error("empty library has modules")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := l.Wait(ctx); err == nil {
		t.Error("wait returned before an index")
	}

	modules, colls := ansibleTree(t)
	if err := l.Initialize(context.Background(), []string{modules, "/nonexistent/modules"}, []string{colls}); err != nil {
		t.Fatal(err)
	}
	if !l.Ready() {
		t.Error("not ready after initialize")
	}
	if err := l.Wait(context.Background()); err != nil {
		t.Error(err)
	}
	if !l.IsModule("ping", nil) {
		t.Error("ping not found")
	}
}

func TestShortName(t *testing.T) {
	type shortTest struct {
		fqcn  string
		colls []string
		want  string
	}
	sts := []shortTest{
		{fqcn: "ansible.builtin.debug", want: "debug"},
		{fqcn: "community.general.foo", want: "community.general.foo"},
		{fqcn: "community.general.foo", colls: []string{"community.general"}, want: "foo"},
		{fqcn: "a.b.c.d", colls: []string{"a.b"}, want: "a.b.c.d"},
	}
	for _, st := range sts {
		if got := ShortName(st.fqcn, st.colls); got != st.want {
			t.Errorf("short name %q in %v: got %q want %q", st.fqcn, st.colls, got, st.want)
		}
	}
}

func TestLibraryFailedBuild(t *testing.T) {
	l := NewLibrary()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := l.Initialize(ctx, []string{t.TempDir()}, nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v want %v", err, context.Canceled)
	}
	wctx, wcancel := context.WithTimeout(context.Background(), time.Second)
	defer wcancel()
	if err := l.Wait(wctx); err != nil {
		t.Errorf("wait after a failed build: %v", err)
	}
	if l.IsModule("debug", nil) {
		t.Error("failed build has modules")
	}
}
