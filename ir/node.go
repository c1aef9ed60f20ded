package ir

// Range is a half open byte range [Start, End) into a source buffer.
type Range struct {
	Start, End int
}

// NoRange is the range of nodes which do not occupy source text.
var NoRange = Range{Start: -1, End: -1}

func (r Range) Valid() bool {
	return r.Start >= 0 && r.End >= r.Start
}

func (r Range) Len() int {
	if !r.Valid() {
		return 0
	}
	return r.End - r.Start
}

// Contains reports whether off lies in r.  When inclusive is set, the
// offset just past the end also counts, which is where an editor cursor
// sits after typing the last character of a node.
func (r Range) Contains(off int, inclusive bool) bool {
	if !r.Valid() {
		return false
	}
	return r.Start <= off && (r.End > off || (inclusive && r.End >= off))
}

func (r Range) Covers(o Range) bool {
	return r.Valid() && o.Valid() && r.Start <= o.Start && o.End <= r.End
}

// Node is one of *Mapping, *Sequence, *Scalar, *Pair or *Empty.
type Node interface {
	Kind() Kind
	Range() Range
	node()
}

type Mapping struct {
	Pairs []*Pair
	Flow  bool
	Tag   string
	Span  Range
}

// Pair joins a mapping key to its value.  Key is nil only for
// flow entries like "{: v}", Value is nil when no ':' was found
// after the key (the key is still being typed).
type Pair struct {
	Key   Node
	Value Node
	// Colon is the offset of the ':' indicator, or -1.
	Colon int
	Span  Range
}

type Sequence struct {
	Items []Node
	Flow  bool
	Tag   string
	Span  Range
}

type ScalarStyle int

const (
	PlainStyle ScalarStyle = iota
	SingleQuotedStyle
	DoubleQuotedStyle
	LiteralStyle
	FoldedStyle
)

type Scalar struct {
	// Raw is the source text of the scalar.
	Raw string
	// Value is the scalar content after unquoting and folding.
	Value string
	Style ScalarStyle
	Tag   string
	// Implicit marks scalars implied by the structure, e.g. the null
	// value of "key:".  Their span is zero width.
	Implicit bool
	Span     Range
}

// Empty marks an offset which falls in no node.  Pair is set when the
// offset is between a key and its value.
type Empty struct {
	Pair *Pair
}

func (m *Mapping) Kind() Kind  { return MappingKind }
func (s *Sequence) Kind() Kind { return SequenceKind }
func (s *Scalar) Kind() Kind   { return ScalarKind }
func (p *Pair) Kind() Kind     { return PairKind }
func (e *Empty) Kind() Kind    { return EmptyKind }

func (m *Mapping) Range() Range  { return m.Span }
func (s *Sequence) Range() Range { return s.Span }
func (s *Scalar) Range() Range   { return s.Span }
func (p *Pair) Range() Range     { return p.Span }
func (e *Empty) Range() Range    { return NoRange }

func (*Mapping) node()  {}
func (*Sequence) node() {}
func (*Scalar) node()   {}
func (*Pair) node()     {}
func (*Empty) node()    {}

// Get returns the first pair whose key is a scalar with value key.
func (m *Mapping) Get(key string) *Pair {
	for _, p := range m.Pairs {
		if KeyString(p) == key {
			return p
		}
	}
	return nil
}

// PairOf returns the pair of m holding child as its key or value.
func (m *Mapping) PairOf(child Node) *Pair {
	if e, ok := child.(*Empty); ok {
		for _, p := range m.Pairs {
			if p == e.Pair {
				return p
			}
		}
		return nil
	}
	for _, p := range m.Pairs {
		if p.Key == child || (p.Value != nil && p.Value == child) {
			return p
		}
	}
	return nil
}

// KeyString returns the value of p's key if it is a scalar.
func KeyString(p *Pair) string {
	if p == nil {
		return ""
	}
	if s, ok := p.Key.(*Scalar); ok {
		return s.Value
	}
	return ""
}

// IsNull reports whether s denotes a YAML null.
func (s *Scalar) IsNull() bool {
	if s.Style != PlainStyle {
		return false
	}
	switch s.Value {
	case "", "~", "null", "Null", "NULL":
		return true
	}
	return false
}

// Document is one document of a YAML stream.  Contents is nil for an
// empty document.
type Document struct {
	Contents Node
	Span     Range
}
