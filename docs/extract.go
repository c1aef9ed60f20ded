package docs

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"

	"github.com/goccy/go-yaml"
	yaml3 "gopkg.in/yaml.v3"

	"github.com/signadot/ansiblels/debug"
	"github.com/signadot/ansiblels/ir"
	"github.com/signadot/ansiblels/parse"
)

// The documentation block is a Python string assignment, optionally
// raw, optionally starting with a YAML document marker.  Group 1 is
// everything before the YAML, group 2 the YAML.
var (
	docSingle = regexp.MustCompile(`(?s)([ \t]*DOCUMENTATION\s*=\s*r?'''(?:\n---)?\n?)(.*?)'''`)
	docDouble = regexp.MustCompile(`(?s)([ \t]*DOCUMENTATION\s*=\s*r?"""(?:\n---)?\n?)(.*?)"""`)
)

// fallback decodes documentation blocks go-yaml rejects.
var fallback = yaml3.Unmarshal

// block is a documentation block located in a source file.
type block struct {
	yaml []byte
	// first and last line of the YAML, 0-based
	first, last int
}

// findBlock locates the first documentation block of src.
func findBlock(src []byte) (*block, bool) {
	m := docSingle.FindSubmatchIndex(src)
	if d := docDouble.FindSubmatchIndex(src); d != nil && (m == nil || d[0] < m[0]) {
		m = d
	}
	if m == nil {
		return nil, false
	}
	first := bytes.Count(src[:m[0]], nl) + bytes.Count(src[m[2]:m[3]], nl)
	y := src[m[4]:m[5]]
	return &block{
		yaml:  y,
		first: first,
		last:  first + bytes.Count(bytes.TrimSuffix(y, nl), nl),
	}, true
}

var nl = []byte{'\n'}

// decode decodes the YAML of a documentation block.  When the YAML does
// not decode cleanly, the contents are recovered as well as possible and
// the problems are returned alongside.
func decode(source string, b *block) (map[string]any, []error) {
	var v map[string]any
	gErr := yaml.Unmarshal(b.yaml, &v)
	if gErr == nil {
		return normalizeMap(v), nil
	}
	if debug.Scan() {
		debug.Logf("%s: go-yaml: %v\n", source, gErr)
	}
	errs := []error{goyamlError(source, b.first, gErr)}
	v = nil
	if err := fallback(b.yaml, &v); err == nil {
		return normalizeMap(v), errs
	}

	s := parse.ParseAll(b.yaml)
	for _, se := range s.Errs {
		errs = append(errs, &DocError{
			Source: source,
			Line:   b.first + se.Pos.Line() + 1,
			Msg:    "recovered",
			Err:    se,
		})
	}
	if len(s.Docs) == 0 {
		return map[string]any{}, errs
	}
	res, ok := ir.ToAny(s.Docs[0].Contents).(map[string]any)
	if !ok {
		return map[string]any{}, errs
	}
	return res, errs
}

func goyamlError(source string, first int, err error) error {
	de := &DocError{Source: source, Msg: "invalid YAML", Err: fmt.Errorf("%w: %w", ErrDecode, err)}
	var yErr yaml.Error
	if errors.As(err, &yErr) {
		de.Err = fmt.Errorf("%w: %s", ErrDecode, yErr.GetMessage())
		if tk := yErr.GetToken(); tk != nil && tk.Position != nil {
			de.Line = first + tk.Position.Line
		}
	}
	return de
}

// normalizeMap makes nested mappings map[string]any whatever the decoder
// produced.
func normalizeMap(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	for k, v := range m {
		m[k] = normalize(v)
	}
	return m
}

func normalize(v any) any {
	switch x := v.(type) {
	case map[string]any:
		return normalizeMap(x)
	case map[any]any:
		res := make(map[string]any, len(x))
		for k, vv := range x {
			res[fmt.Sprint(k)] = normalize(vv)
		}
		return res
	case []any:
		for i := range x {
			x[i] = normalize(x[i])
		}
		return x
	case int:
		return int64(x)
	case uint64:
		if x <= 1<<63-1 {
			return int64(x)
		}
		return x
	default:
		return v
	}
}
