package ansiblels

import (
	"github.com/signadot/ansiblels/debug"
	"github.com/signadot/ansiblels/ir"
)

// ResolvePath returns the ancestry path of off in the first of docs
// holding it, or nil when off lies outside every document.
//
// With inclusive set, the offset just past the end of a node counts as
// inside it, which is where an editor cursor sits after typing.
func ResolvePath(docs []*ir.Document, off int, inclusive bool) ir.Path {
	for _, doc := range docs {
		if !doc.Span.Contains(off, inclusive) {
			continue
		}
		var path ir.Path
		if doc.Contents == nil {
			path = ir.Path{&ir.Empty{}}
		} else {
			path = PathAtOffset(ir.Path{doc.Contents}, off, inclusive)
		}
		if debug.Path() {
			debug.Logf("path at %d (inclusive=%t): %s %v\n", off, inclusive, path, path.Kinds())
		}
		return path
	}
	return nil
}

// PathAtOffset extends path, whose last node is the node to search, down
// to the innermost node holding off.
//
// At a mapping, keys holding off are preferred over values, and values
// over the gap between a key and its value; the first pair in source
// order wins.  When nothing holds off the path ends with an *ir.Empty.
func PathAtOffset(path ir.Path, off int, inclusive bool) ir.Path {
	if len(path) == 0 {
		return nil
	}
	for {
		switch n := path.Last().(type) {
		case *ir.Mapping:
			if p := findPair(n, func(p *ir.Pair) bool {
				return p.Key != nil && p.Key.Range().Contains(off, inclusive)
			}); p != nil {
				path = append(path, p.Key)
				continue
			}
			if p := findPair(n, func(p *ir.Pair) bool {
				return p.Value != nil && p.Value.Range().Contains(off, inclusive)
			}); p != nil {
				path = append(path, p.Value)
				continue
			}
			if p := findPair(n, func(p *ir.Pair) bool {
				return gap(p).Contains(off, inclusive)
			}); p != nil {
				return append(path, &ir.Empty{Pair: p})
			}
		case *ir.Sequence:
			found := false
			for _, item := range n.Items {
				if item.Range().Contains(off, inclusive) {
					path = append(path, item)
					found = true
					break
				}
			}
			if found {
				continue
			}
		case *ir.Scalar:
			if n.Span.Contains(off, inclusive) {
				return path
			}
		}
		return append(path, &ir.Empty{})
	}
}

func findPair(m *ir.Mapping, f func(*ir.Pair) bool) *ir.Pair {
	for _, p := range m.Pairs {
		if f(p) {
			return p
		}
	}
	return nil
}

// gap is the range between the end of p's key and the byte before its
// value.
func gap(p *ir.Pair) ir.Range {
	if p.Key == nil || p.Value == nil {
		return ir.NoRange
	}
	kr, vr := p.Key.Range(), p.Value.Range()
	if !kr.Valid() || !vr.Valid() || kr.End <= 0 || vr.Start <= 0 {
		return ir.NoRange
	}
	return ir.Range{Start: kr.End, End: vr.Start - 1}
}
