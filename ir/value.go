package ir

import (
	"math"
	"strconv"
	"strings"
)

// ToAny converts n to the plain Go values produced by YAML decoders:
// map[string]any, []any, string, bool, int64, uint64, float64 and nil.
// Scalars are resolved with the YAML 1.1 rules Ansible reads documentation
// with.
func ToAny(n Node) any {
	switch x := n.(type) {
	case nil:
		return nil
	case *Mapping:
		res := make(map[string]any, len(x.Pairs))
		for _, p := range x.Pairs {
			var k string
			switch kk := p.Key.(type) {
			case *Scalar:
				k = kk.Value
			case nil:
			default:
				k = kk.Kind().String()
			}
			res[k] = ToAny(p.Value)
		}
		return res
	case *Sequence:
		res := make([]any, len(x.Items))
		for i, item := range x.Items {
			res[i] = ToAny(item)
		}
		return res
	case *Pair:
		return map[string]any{KeyString(x): ToAny(x.Value)}
	case *Scalar:
		return scalarValue(x)
	case *Empty:
		return nil
	default:
		return nil
	}
}

func scalarValue(s *Scalar) any {
	if s.Style != PlainStyle {
		return s.Value
	}
	if s.IsNull() {
		return nil
	}
	switch s.Value {
	case "true", "True", "TRUE", "yes", "Yes", "YES", "on", "On", "ON":
		return true
	case "false", "False", "FALSE", "no", "No", "NO", "off", "Off", "OFF":
		return false
	case ".inf", ".Inf", ".INF", "+.inf", "+.Inf", "+.INF":
		return math.Inf(1)
	case "-.inf", "-.Inf", "-.INF":
		return math.Inf(-1)
	case ".nan", ".NaN", ".NAN":
		return math.NaN()
	}
	v := strings.ReplaceAll(s.Value, "_", "")
	if i, err := strconv.ParseInt(v, 0, 64); err == nil {
		return i
	}
	if u, err := strconv.ParseUint(v, 0, 64); err == nil {
		return u
	}
	if looksFloat(v) {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return s.Value
}

func looksFloat(v string) bool {
	if v == "" {
		return false
	}
	digits := false
	for _, c := range v {
		switch {
		case c >= '0' && c <= '9':
			digits = true
		case c == '.' || c == 'e' || c == 'E' || c == '+' || c == '-':
		default:
			return false
		}
	}
	return digits
}
