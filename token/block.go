package token

import "strings"

type Chomp int

const (
	Clip Chomp = iota
	Strip
	Keep
)

// BlockScalar scans the literal ('|') or folded ('>') scalar whose
// indicator is at off.  parentIndent is the indentation of the node
// owning the scalar, -1 at the document level.  It returns the end of
// the last content line, or of the header when there is no content, and
// the value.
func BlockScalar(d []byte, off, parentIndent, limit int) (int, string) {
	folded := d[off] == '>'
	le := min(LineEnd(d, off), limit)
	i := off + 1
	chomp := Clip
	explicit := 0
Header:
	for ; i < le; i++ {
		switch c := d[i]; {
		case c == '+':
			chomp = Keep
		case c == '-':
			chomp = Strip
		case c >= '1' && c <= '9':
			explicit = int(c - '0')
		default:
			break Header
		}
	}
	end := i
	contentIndent := -1
	if explicit > 0 {
		contentIndent = max(parentIndent, 0) + explicit
	}
	var lines []string
	blanks := 0
	line := NextLine(d, off)
	for line < limit {
		if m := DocMarker(d, line); m == DocStart || m == DocEnd {
			break
		}
		ind := Indent(d, line)
		j := line + ind
		lend := min(LineEnd(d, line), limit)
		if j >= lend {
			blanks++
			line = NextLine(d, line)
			continue
		}
		if contentIndent == -1 {
			if ind <= parentIndent {
				break
			}
			contentIndent = ind
		}
		if ind < contentIndent {
			break
		}
		for range blanks {
			lines = append(lines, "")
		}
		blanks = 0
		lines = append(lines, string(d[line+contentIndent:lend]))
		end = lend
		line = NextLine(d, line)
	}
	var v string
	if folded {
		v = foldLines(lines)
	} else {
		v = strings.Join(lines, "\n")
	}
	switch chomp {
	case Clip:
		if len(lines) > 0 {
			v += "\n"
		}
	case Keep:
		if len(lines) > 0 {
			v += "\n"
		}
		v += strings.Repeat("\n", blanks)
	}
	return end, v
}

func foldLines(lines []string) string {
	buf := &strings.Builder{}
	for i, l := range lines {
		if i == 0 {
			buf.WriteString(l)
			continue
		}
		prev := lines[i-1]
		switch {
		case l == "":
			buf.WriteByte('\n')
		case prev == "":
			buf.WriteString(l)
		case moreIndented(prev) || moreIndented(l):
			buf.WriteByte('\n')
			buf.WriteString(l)
		default:
			buf.WriteByte(' ')
			buf.WriteString(l)
		}
	}
	return buf.String()
}

func moreIndented(l string) bool {
	return l != "" && IsSpace(l[0])
}
