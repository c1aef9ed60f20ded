package ir

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func scalar(v string) *Scalar {
	return &Scalar{Raw: v, Value: v}
}

func TestPathString(t *testing.T) {
	name := scalar("name")
	debug := scalar("debug")
	msg := scalar("msg")
	hello := scalar("hello")
	dotted := scalar("a.b")
	args := &Mapping{Pairs: []*Pair{{Key: msg, Value: hello, Colon: -1}}}
	gap := &Pair{Key: dotted, Colon: -1}
	task := &Mapping{Pairs: []*Pair{
		{Key: name, Value: scalar("x"), Colon: -1},
		{Key: debug, Value: args, Colon: -1},
		gap,
	}}
	tasks := &Sequence{Items: []Node{task}}

	tests := []struct {
		desc string
		path Path
		want string
	}{
		{"root", Path{tasks}, "$"},
		{"item", Path{tasks, task}, "$[0]"},
		{"key", Path{tasks, task, name}, "$[0].name?"},
		{"value", Path{tasks, task, args}, "$[0].debug"},
		{"nested key", Path{tasks, task, args, msg}, "$[0].debug.msg?"},
		{"nested value", Path{tasks, task, args, hello}, "$[0].debug.msg"},
		{"quoted field", Path{tasks, task, dotted}, "$[0].'a.b'?"},
		{"empty in pair", Path{tasks, task, &Empty{Pair: gap}}, "$[0].'a.b'"},
		{"empty in mapping", Path{tasks, task, &Empty{}}, "$[0][]"},
		{"empty in sequence", Path{tasks, &Empty{}}, "$[]"},
	}
	for _, tc := range tests {
		if got := tc.path.String(); got != tc.want {
			t.Errorf("%s: got %q want %q", tc.desc, got, tc.want)
		}
	}
}

func TestPathKinds(t *testing.T) {
	k := scalar("k")
	m := &Mapping{Pairs: []*Pair{{Key: k, Colon: 1}}}
	got := Path{m, k}.Kinds()
	want := []Kind{MappingKind, ScalarKind}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("kinds (-want +got):\n%s", diff)
	}
	if (Path{}).Last() != nil {
		t.Errorf("empty path has a last node")
	}
}

func TestKindText(t *testing.T) {
	for _, k := range append(Kinds(), AnyKind) {
		d, err := k.MarshalText()
		if err != nil {
			t.Fatal(err)
		}
		var got Kind
		if err := got.UnmarshalText(d); err != nil {
			t.Errorf("%s: %v", d, err)
			continue
		}
		if got != k {
			t.Errorf("%s: got %v", d, got)
		}
	}
	var k Kind
	if err := k.UnmarshalText([]byte("Alias")); !errors.Is(err, ErrKind) {
		t.Errorf("got %v want %v", err, ErrKind)
	}
}

func TestRange(t *testing.T) {
	r := Range{Start: 2, End: 5}
	tests := []struct {
		off       int
		inclusive bool
		want      bool
	}{
		{1, false, false},
		{2, false, true},
		{4, false, true},
		{5, false, false},
		{5, true, true},
		{6, true, false},
	}
	for _, tc := range tests {
		if got := r.Contains(tc.off, tc.inclusive); got != tc.want {
			t.Errorf("Contains(%d, %t): got %t", tc.off, tc.inclusive, got)
		}
	}
	if NoRange.Contains(0, true) || NoRange.Len() != 0 {
		t.Errorf("NoRange contains offsets")
	}
	if !r.Covers(Range{Start: 3, End: 5}) || r.Covers(Range{Start: 1, End: 3}) {
		t.Errorf("Covers mismatch")
	}
}
