package token

import (
	"encoding/hex"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Quoted scans the quoted scalar whose opening quote is at off, stopping
// at limit.  It returns the offset just past the closing quote and the
// unquoted value.  An unterminated scalar is cut at the end of its first
// line and reported with ErrUnterminated.
func Quoted(d []byte, off, limit int) (int, string, error) {
	if off >= limit {
		return off, "", fmt.Errorf("%w: empty quoted scalar", ErrUnterminated)
	}
	var (
		end int
		v   string
		err error
	)
	switch d[off] {
	case '\'':
		end, v, err = singleQuoted(d, off, limit)
	case '"':
		end, v, err = doubleQuoted(d, off, limit)
	default:
		return off, "", fmt.Errorf("%w: %q is not a quote", ErrUnterminated, d[off])
	}
	if err == nil {
		return end, v, nil
	}
	le := LineEnd(d, off)
	le = min(le, limit)
	raw := string(d[off+1 : le])
	return le, strings.TrimRight(raw, " \t"), err
}

func singleQuoted(d []byte, off, limit int) (int, string, error) {
	buf := &strings.Builder{}
	i := off + 1
	for i < limit {
		c := d[i]
		switch {
		case c == '\'':
			if i+1 < limit && d[i+1] == '\'' {
				buf.WriteByte('\'')
				i += 2
				continue
			}
			return i + 1, buf.String(), nil
		case IsBreak(c):
			var ok bool
			i, ok = fold(d, i, limit, buf)
			if !ok {
				return i, "", fmt.Errorf("%w '", ErrUnterminated)
			}
		default:
			buf.WriteByte(c)
			i++
		}
	}
	return limit, "", fmt.Errorf("%w '", ErrUnterminated)
}

// fold consumes the line break at i and following blank lines and
// leading whitespace, writing the folded form to buf.  It fails when
// a document marker interrupts the scalar.
func fold(d []byte, i, limit int, buf *strings.Builder) (int, bool) {
	s := buf.String()
	t := strings.TrimRight(s, " \t")
	if len(t) != len(s) {
		buf.Reset()
		buf.WriteString(t)
	}
	breaks := 0
	for i < limit {
		i = NextLine(d, i)
		if i >= limit {
			return limit, false
		}
		if DocMarker(d, i) == DocStart || DocMarker(d, i) == DocEnd {
			return i, false
		}
		j := SkipSpace(d, i, limit)
		if j < limit && IsBreak(d[j]) {
			breaks++
			i = j
			continue
		}
		i = j
		break
	}
	if breaks == 0 {
		buf.WriteByte(' ')
	}
	for range breaks {
		buf.WriteByte('\n')
	}
	return i, true
}

func doubleQuoted(d []byte, off, limit int) (int, string, error) {
	buf := &strings.Builder{}
	i := off + 1
	for i < limit {
		c := d[i]
		switch {
		case c == '"':
			return i + 1, buf.String(), nil
		case c == '\\':
			if i+1 >= limit {
				return limit, "", fmt.Errorf("%w \"", ErrUnterminated)
			}
			e := d[i+1]
			if IsBreak(e) {
				// escaped line break: join without folding
				i = SkipSpace(d, NextLine(d, i+1), limit)
				continue
			}
			n, err := escape(d[i+1:limit], buf)
			if err != nil {
				return i, "", err
			}
			i += 1 + n
		case IsBreak(c):
			var ok bool
			i, ok = fold(d, i, limit, buf)
			if !ok {
				return i, "", fmt.Errorf("%w \"", ErrUnterminated)
			}
		default:
			buf.WriteByte(c)
			i++
		}
	}
	return limit, "", fmt.Errorf("%w \"", ErrUnterminated)
}

var simpleEscapes = map[byte]string{
	'0':  "\x00",
	'a':  "\a",
	'b':  "\b",
	't':  "\t",
	'\t': "\t",
	'n':  "\n",
	'v':  "\v",
	'f':  "\f",
	'r':  "\r",
	'e':  "\x1b",
	' ':  " ",
	'"':  "\"",
	'/':  "/",
	'\\': "\\",
	'N':  "\u0085",
	'_':  "\u00a0",
	'L':  "\u2028",
	'P':  "\u2029",
}

// escape decodes the escape sequence at the start of d (after the '\\')
// and returns its length.
func escape(d []byte, buf *strings.Builder) (int, error) {
	if s, ok := simpleEscapes[d[0]]; ok {
		buf.WriteString(s)
		return 1, nil
	}
	var n int
	switch d[0] {
	case 'x':
		n = 2
	case 'u':
		n = 4
	case 'U':
		n = 8
	default:
		return 1, fmt.Errorf("%w \\%c", ErrBadEscape, d[0])
	}
	if len(d) < n+1 {
		return len(d), fmt.Errorf("%w \\%c", ErrBadEscape, d[0])
	}
	h := string(d[1 : n+1])
	bs, err := hex.DecodeString(h)
	if err != nil {
		return n + 1, fmt.Errorf("%w: %w", ErrBadUnicode, err)
	}
	var r rune
	for _, b := range bs {
		r = r<<8 | rune(b)
	}
	if !utf8.ValidRune(r) {
		return n + 1, fmt.Errorf("%w: %x", ErrBadUnicode, r)
	}
	buf.WriteRune(r)
	return n + 1, nil
}
