package ansiblels

import (
	"regexp"

	"github.com/signadot/ansiblels/ir"
)

// KeyMatch matches a mapping key.
type KeyMatch func(string) bool

// Key matches the key k exactly.
func Key(k string) KeyMatch {
	return func(s string) bool { return s == k }
}

// KeyRegexp matches keys matching re.
func KeyRegexp(re *regexp.Regexp) KeyMatch {
	return re.MatchString
}

// AnyKey matches every scalar key.
var AnyKey KeyMatch = func(string) bool { return true }

// Ancestry is a cursor over an ancestry path which moves from the last
// node towards the root asserting the shape of what it passes.  Once an
// assertion fails the cursor stays invalid and every result reports
// absence, so chains like
//
//	NewAncestry(path).Parent(ir.MappingKind).Parent(ir.SequenceKind).Path()
//
// need a single check at the end.
//
// Mapping pairs are not part of ancestry paths.  Moving up from the key
// or value of a pair passes through the pair level, where the cursor
// stops only when asked for ir.PairKind or by ParentKey.
type Ancestry struct {
	path  ir.Path
	index int
	// pair is set at the pair level, between path[index] and
	// path[index+1].
	pair  *ir.Pair
	key   bool
	valid bool
}

func NewAncestry(path ir.Path) *Ancestry {
	return &Ancestry{
		path:  path,
		index: len(path) - 1,
		valid: len(path) != 0,
	}
}

// Parent moves one level up.  Unless kind is ir.PairKind the pair level
// is skipped.  A kind other than ir.AnyKind must match the node reached.
func (a *Ancestry) Parent(kind ir.Kind) *Ancestry {
	if !a.valid {
		return a
	}
	a.key = false
	if a.pair != nil {
		a.pair = nil
	} else if !a.up(kind == ir.PairKind) {
		return a
	}
	if !a.kind().Matches(kind) {
		a.valid = false
	}
	return a
}

// up moves from a node to its parent, stopping at the pair level when
// toPair is set and the parent is a mapping.
func (a *Ancestry) up(toPair bool) bool {
	a.index--
	if a.index < 0 {
		a.valid = false
		return false
	}
	if !toPair {
		return true
	}
	m, ok := a.path[a.index].(*ir.Mapping)
	if !ok {
		return true
	}
	a.pair = m.PairOf(a.path[a.index+1])
	if a.pair == nil {
		a.valid = false
		return false
	}
	return true
}

func (a *Ancestry) kind() ir.Kind {
	if a.pair != nil {
		return ir.PairKind
	}
	return a.path[a.index].Kind()
}

// ParentKey moves up to the pair level and requires the pair's key to be
// a scalar accepted by match, a nil match accepting any.  Get and Path then
// end at that key.
func (a *Ancestry) ParentKey(match KeyMatch) *Ancestry {
	if !a.valid {
		return a
	}
	if a.pair != nil {
		a.valid = false
		return a
	}
	a.key = false
	if !a.up(true) {
		return a
	}
	if a.pair == nil {
		a.valid = false
		return a
	}
	k, ok := a.pair.Key.(*ir.Scalar)
	if !ok || (match != nil && !match(k.Value)) {
		a.valid = false
		return a
	}
	a.key = true
	return a
}

// ParentOfKey requires the current node to be the key of a pair and moves
// to the mapping holding that pair.
func (a *Ancestry) ParentOfKey() *Ancestry {
	if !a.valid {
		return a
	}
	node, ok := a.Get()
	if !ok {
		return a
	}
	a.Parent(ir.PairKind)
	if !a.valid {
		return a
	}
	if a.pair.Key != node {
		a.valid = false
		return a
	}
	return a.Parent(ir.MappingKind)
}

// Get returns the node the cursor is at.
func (a *Ancestry) Get() (ir.Node, bool) {
	if !a.valid {
		return nil, false
	}
	if a.pair != nil {
		if a.key {
			return a.pair.Key, true
		}
		return a.pair, true
	}
	return a.path[a.index], true
}

// Mapping returns the mapping the cursor is at.
func (a *Ancestry) Mapping() (*ir.Mapping, bool) {
	n, ok := a.Get()
	if !ok {
		return nil, false
	}
	m, ok := n.(*ir.Mapping)
	return m, ok
}

// Path returns the ancestry path up to the cursor.  At the key of a pair
// the path ends with that key.
func (a *Ancestry) Path() (ir.Path, bool) {
	if !a.valid {
		return nil, false
	}
	res := make(ir.Path, a.index+1, a.index+2)
	copy(res, a.path[:a.index+1])
	if a.pair != nil && a.key {
		res = append(res, a.pair.Key)
	}
	return res, true
}

// next returns the pair of the mapping at the cursor leading down the
// path.
func (a *Ancestry) next() *ir.Pair {
	if !a.valid || a.pair != nil || a.index+1 >= len(a.path) {
		return nil
	}
	m, ok := a.path[a.index].(*ir.Mapping)
	if !ok {
		return nil
	}
	return m.PairOf(a.path[a.index+1])
}

// StringKey returns the key of the pair one level down the path from the
// mapping at the cursor.
func (a *Ancestry) StringKey() (string, bool) {
	p := a.next()
	if p == nil {
		return "", false
	}
	k, ok := p.Key.(*ir.Scalar)
	if !ok {
		return "", false
	}
	return k.Value, true
}

// Value returns the value of the pair one level down the path from the
// mapping at the cursor.
func (a *Ancestry) Value() (ir.Node, bool) {
	p := a.next()
	if p == nil || p.Value == nil {
		return nil, false
	}
	return p.Value, true
}

// KeyPath returns the path to the key of the pair one level down the path
// from the mapping at the cursor.
func (a *Ancestry) KeyPath() (ir.Path, bool) {
	p := a.next()
	if p == nil || p.Key == nil {
		return nil, false
	}
	res := make(ir.Path, a.index+2)
	copy(res, a.path[:a.index+1])
	res[a.index+1] = p.Key
	return res, true
}
