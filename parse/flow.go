package parse

import (
	"github.com/signadot/ansiblels/ir"
	"github.com/signadot/ansiblels/token"
)

// flow parses the flow collection opening at off.  The collection may
// span lines but ends, unterminated, at a line indented no more than
// minIndent.  It returns the node and the offset after it.
func (p *parser) flow(off, minIndent int) (ir.Node, int) {
	if p.d[off] == '[' {
		return p.flowSeq(off, minIndent)
	}
	return p.flowMap(off, minIndent)
}

// space skips whitespace, line breaks and comments inside a flow
// collection.  It fails at the document limit and at lines which end
// the collection.
func (p *parser) space(i, minIndent int) (int, bool) {
	for i < p.lim {
		c := p.d[i]
		switch {
		case token.IsSpace(c) || c == '\r':
			i++
		case c == '#' && (i == 0 || token.IsSpace(p.d[i-1]) || token.IsBreak(p.d[i-1])):
			i = token.LineEnd(p.d, i)
		case c == '\n':
			i++
			if i >= p.lim {
				return p.lim, false
			}
			if m := token.DocMarker(p.d, i); m == token.DocStart || m == token.DocEnd {
				return i, false
			}
			if !token.IsBlank(p.d, i) && token.Indent(p.d, i) <= minIndent {
				return i, false
			}
		default:
			return i, true
		}
	}
	return p.lim, false
}

func (p *parser) flowSeq(off, minIndent int) (*ir.Sequence, int) {
	s := &ir.Sequence{Flow: true, Span: ir.Range{Start: off, End: off + 1}}
	i := off + 1
	for {
		var ok bool
		i, ok = p.space(i, minIndent)
		if !ok {
			p.errorf(off, "unterminated flow sequence")
			return s, i
		}
		switch p.d[i] {
		case ']':
			s.Span.End = i + 1
			return s, i + 1
		case ',':
			i++
			continue
		case '}':
			p.errorf(i, "unexpected '}' in flow sequence")
			i++
			continue
		}
		n, pair, end := p.flowEntry(i, minIndent)
		if pair != nil {
			n = &ir.Mapping{Flow: true, Pairs: []*ir.Pair{pair}, Span: pair.Span}
		}
		s.Items = append(s.Items, n)
		s.Span.End = max(s.Span.End, end)
		if end == i {
			end++
		}
		if i, ok = p.entryEnd(end, minIndent, ']'); !ok {
			p.errorf(off, "unterminated flow sequence")
			return s, i
		}
	}
}

func (p *parser) flowMap(off, minIndent int) (*ir.Mapping, int) {
	m := &ir.Mapping{Flow: true, Span: ir.Range{Start: off, End: off + 1}}
	i := off + 1
	for {
		var ok bool
		i, ok = p.space(i, minIndent)
		if !ok {
			p.errorf(off, "unterminated flow mapping")
			return m, i
		}
		switch p.d[i] {
		case '}':
			m.Span.End = i + 1
			return m, i + 1
		case ',':
			i++
			continue
		case ']':
			p.errorf(i, "unexpected ']' in flow mapping")
			i++
			continue
		}
		n, pair, end := p.flowEntry(i, minIndent)
		if pair == nil {
			pair = &ir.Pair{Key: n, Colon: -1, Span: n.Range()}
		}
		m.Pairs = append(m.Pairs, pair)
		m.Span.End = max(m.Span.End, end)
		if end == i {
			end++
		}
		if i, ok = p.entryEnd(end, minIndent, '}'); !ok {
			p.errorf(off, "unterminated flow mapping")
			return m, i
		}
	}
}

// entryEnd checks what follows a flow entry ending at i and returns where
// scanning resumes.  It fails when the collection ends unterminated.
func (p *parser) entryEnd(i, minIndent int, closer byte) (int, bool) {
	j, ok := p.space(i, minIndent)
	if !ok {
		return j, false
	}
	switch p.d[j] {
	case ',', closer:
		return j, true
	}
	p.errorf(j, "expected ',' or %q", closer)
	return j, true
}

// flowEntry parses a flow node or "key: value" pair at i.
func (p *parser) flowEntry(i, minIndent int) (ir.Node, *ir.Pair, int) {
	var key ir.Node
	end := i
	if p.d[i] == ':' && (i+1 >= p.lim || token.IsSpace(p.d[i+1]) || token.IsBreak(p.d[i+1]) || token.IsFlowIndicator(p.d[i+1])) {
		// empty key
		key = implicitNull(i)
	} else {
		key, end = p.flowNode(i, minIndent)
	}
	j := token.SkipSpace(p.d, end, p.lineEnd(end))
	if j >= p.lim || p.d[j] != ':' {
		return key, nil, end
	}
	colon := j
	pair := &ir.Pair{Key: key, Colon: colon, Span: ir.Range{Start: key.Range().Start, End: colon + 1}}
	v, ok := p.space(colon+1, minIndent)
	if !ok || token.IsFlowIndicator(p.d[v]) && p.d[v] != '[' && p.d[v] != '{' {
		pair.Value = implicitNull(colon + 1)
		return nil, pair, colon + 1
	}
	pair.Value, end = p.flowNode(v, minIndent)
	pair.Span.End = max(pair.Span.End, end)
	return nil, pair, end
}

// flowNode parses a flow collection or scalar at i.
func (p *parser) flowNode(i, minIndent int) (ir.Node, int) {
	tag, j := p.props(i, p.lineEnd(i))
	if j != i {
		var ok bool
		j, ok = p.space(j, minIndent)
		if !ok || token.IsFlowIndicator(p.d[j]) && p.d[j] != '[' && p.d[j] != '{' {
			return &ir.Scalar{Tag: tag, Implicit: true, Span: ir.Range{Start: j, End: j}}, j
		}
		n, end := p.flowNode(j, minIndent)
		setTag(n, tag)
		return n, end
	}
	switch c := p.d[i]; c {
	case '[':
		return p.flowSeq(i, minIndent)
	case '{':
		return p.flowMap(i, minIndent)
	case '\'', '"':
		end, v, err := token.Quoted(p.d, i, p.lim)
		if err != nil {
			p.wrapErr(i, "quoted scalar", err)
		}
		style := ir.SingleQuotedStyle
		if c == '"' {
			style = ir.DoubleQuotedStyle
		}
		return &ir.Scalar{Raw: string(p.d[i:end]), Value: v, Style: style, Span: ir.Range{Start: i, End: end}}, end
	}
	end := token.PlainEnd(p.d, i, p.lineEnd(i), true)
	return &ir.Scalar{Raw: string(p.d[i:end]), Value: string(p.d[i:end]), Span: ir.Range{Start: i, End: end}}, end
}
