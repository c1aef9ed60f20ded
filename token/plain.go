package token

// PlainEnd returns the end of the plain scalar starting at off, bounded
// by end and the line, with trailing whitespace and comments excluded.
// In flow context flow indicators and ": " end the scalar too.
func PlainEnd(d []byte, off, end int, flow bool) int {
	last := off
	for i := off; i < end; i++ {
		c := d[i]
		if IsBreak(c) {
			break
		}
		if c == '#' && i > off && IsSpace(d[i-1]) {
			break
		}
		if flow {
			if IsFlowIndicator(c) {
				break
			}
			if c == ':' && colonEnds(d, i+1, end, true) {
				break
			}
		}
		if !IsSpace(c) {
			last = i + 1
		}
	}
	return last
}

// KeyIndicator returns the offset of the ':' making the text at off a
// mapping key on its line, or -1.
func KeyIndicator(d []byte, off, end int, flow bool) int {
	i := off
	if i < end && (d[i] == '\'' || d[i] == '"') {
		qe, _, err := Quoted(d, i, min(end, LineEnd(d, i)))
		if err != nil {
			return -1
		}
		i = SkipSpace(d, qe, end)
		if i < end && d[i] == ':' && colonEnds(d, i+1, end, flow) {
			return i
		}
		return -1
	}
	for ; i < end; i++ {
		c := d[i]
		switch {
		case IsBreak(c):
			return -1
		case c == '#' && i > off && IsSpace(d[i-1]):
			return -1
		case c == ':' && colonEnds(d, i+1, end, flow):
			return i
		case flow && IsFlowIndicator(c):
			return -1
		}
	}
	return -1
}

func colonEnds(d []byte, i, end int, flow bool) bool {
	if i >= end {
		return true
	}
	c := d[i]
	return IsSpace(c) || IsBreak(c) || (flow && IsFlowIndicator(c))
}
