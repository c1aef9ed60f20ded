package ir

import "fmt"

// Kind identifies the concrete type of a Node.  AnyKind matches every
// kind when used as a constraint.
type Kind int

const (
	AnyKind Kind = iota
	MappingKind
	SequenceKind
	ScalarKind
	PairKind
	EmptyKind
)

func (k Kind) String() string {
	s, ok := map[Kind]string{
		AnyKind:      "Any",
		MappingKind:  "Mapping",
		SequenceKind: "Sequence",
		ScalarKind:   "Scalar",
		PairKind:     "Pair",
		EmptyKind:    "Empty",
	}[k]
	if ok {
		return s
	}
	return "<unknown kind>"
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(d []byte) error {
	kk, ok := map[string]Kind{
		"Any":      AnyKind,
		"Mapping":  MappingKind,
		"Sequence": SequenceKind,
		"Scalar":   ScalarKind,
		"Pair":     PairKind,
		"Empty":    EmptyKind,
	}[string(d)]
	if !ok {
		return fmt.Errorf("%w %q", ErrKind, d)
	}
	*k = kk
	return nil
}

func Kinds() []Kind {
	return []Kind{
		MappingKind,
		SequenceKind,
		ScalarKind,
		PairKind,
		EmptyKind,
	}
}

func (k Kind) IsLeaf() bool {
	switch k {
	case MappingKind, SequenceKind, PairKind:
		return false
	default:
		return true
	}
}

// Matches reports whether k satisfies the constraint c.
func (k Kind) Matches(c Kind) bool {
	return c == AnyKind || c == k
}
