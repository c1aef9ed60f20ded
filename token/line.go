package token

// LineStart returns the offset of the start of the line holding off.
func LineStart(d []byte, off int) int {
	for off > 0 && d[off-1] != '\n' {
		off--
	}
	return off
}

// LineEnd returns the offset of the line break ending the line holding
// off, or len(d).  A "\r\n" break ends at the '\r'.
func LineEnd(d []byte, off int) int {
	for off < len(d) && d[off] != '\n' {
		off++
	}
	if off > 0 && off <= len(d) && d[off-1] == '\r' {
		off--
	}
	return off
}

// NextLine returns the offset of the start of the line after the one
// holding off, or len(d).
func NextLine(d []byte, off int) int {
	for off < len(d) && d[off] != '\n' {
		off++
	}
	if off < len(d) {
		off++
	}
	return off
}

// Indent returns the number of leading spaces of the line starting at
// lineStart.  Tabs do not indent in YAML and end the count.
func Indent(d []byte, lineStart int) int {
	i := lineStart
	for i < len(d) && d[i] == ' ' {
		i++
	}
	return i - lineStart
}

// SkipSpace returns the first offset at or after off, bounded by end, not
// holding a space or tab.
func SkipSpace(d []byte, off, end int) int {
	for off < end && IsSpace(d[off]) {
		off++
	}
	return off
}

// TrimSpaceLeft returns the offset after the last non space byte in
// [start, end).
func TrimSpaceLeft(d []byte, start, end int) int {
	for end > start && IsSpace(d[end-1]) {
		end--
	}
	return end
}

func IsSpace(c byte) bool {
	return c == ' ' || c == '\t'
}

func IsBreak(c byte) bool {
	return c == '\n' || c == '\r'
}

// IsBlank reports whether the line starting at lineStart has no content
// other than whitespace and a comment.
func IsBlank(d []byte, lineStart int) bool {
	i := SkipSpace(d, lineStart, len(d))
	return i == len(d) || IsBreak(d[i]) || d[i] == '#'
}

type Marker int

const (
	NoMarker Marker = iota
	DocStart
	DocEnd
	Directive
)

// DocMarker classifies the line starting at lineStart as a document start
// "---", a document end "..." or a directive "%...".
func DocMarker(d []byte, lineStart int) Marker {
	if lineStart >= len(d) {
		return NoMarker
	}
	if d[lineStart] == '%' {
		return Directive
	}
	if lineStart+3 > len(d) {
		return NoMarker
	}
	var m Marker
	switch string(d[lineStart : lineStart+3]) {
	case "---":
		m = DocStart
	case "...":
		m = DocEnd
	default:
		return NoMarker
	}
	if lineStart+3 == len(d) || IsSpace(d[lineStart+3]) || IsBreak(d[lineStart+3]) {
		return m
	}
	return NoMarker
}

// CommentStart returns the offset of the '#' starting a comment in
// [off, end), or end.  A '#' starts a comment at off or after whitespace.
func CommentStart(d []byte, off, end int) int {
	for i := off; i < end; i++ {
		if d[i] == '#' && (i == off || IsSpace(d[i-1])) {
			return i
		}
	}
	return end
}

// IsSeqEntry reports whether off holds a block sequence indicator "-"
// followed by whitespace or the end of the line.
func IsSeqEntry(d []byte, off int) bool {
	if off >= len(d) || d[off] != '-' {
		return false
	}
	return off+1 == len(d) || IsSpace(d[off+1]) || IsBreak(d[off+1])
}

func IsFlowIndicator(c byte) bool {
	switch c {
	case ',', '[', ']', '{', '}':
		return true
	}
	return false
}
