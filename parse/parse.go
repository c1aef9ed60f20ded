package parse

import (
	"errors"
	"fmt"

	"github.com/signadot/ansiblels/ir"
	"github.com/signadot/ansiblels/token"
)

// Stream is the result of parsing a YAML stream.
type Stream struct {
	Docs   []*ir.Document
	Errs   []*SyntaxError
	PosDoc *token.PosDoc
}

// Err joins the syntax errors of s, or returns nil.
func (s *Stream) Err() error {
	if len(s.Errs) == 0 {
		return nil
	}
	errs := make([]error, len(s.Errs))
	for i, e := range s.Errs {
		errs[i] = e
	}
	return errors.Join(errs...)
}

// ParseAll parses all documents of d.
func ParseAll(d []byte, opts ...ParseOption) *Stream {
	pOpts := &parseOpts{}
	for _, f := range opts {
		f(pOpts)
	}
	p := &parser{
		d:    d,
		pd:   token.NewPosDoc(d),
		opts: pOpts,
	}
	s := &Stream{PosDoc: p.pd}
	for _, seg := range segments(d) {
		s.Docs = append(s.Docs, p.document(seg))
	}
	s.Errs = p.errs
	return s
}

// Parse parses the first document of d and returns its contents, nil
// for an empty document.
func Parse(d []byte, opts ...ParseOption) (ir.Node, error) {
	pOpts := &parseOpts{}
	for _, f := range opts {
		f(pOpts)
	}
	s := ParseAll(d, opts...)
	if pOpts.strict && len(s.Errs) != 0 {
		return nil, s.Errs[0]
	}
	if len(s.Docs) == 0 {
		return nil, nil
	}
	return s.Docs[0].Contents, nil
}

type segment struct {
	start, content, end int
}

// segments splits d into documents at "---" and "..." markers.
func segments(d []byte) []segment {
	var res []segment
	start, content := 0, 0
	hasContent, hasMarker := false, false
	for line := 0; line < len(d); line = token.NextLine(d, line) {
		switch token.DocMarker(d, line) {
		case token.DocStart:
			if hasContent || hasMarker {
				res = append(res, segment{start: start, content: content, end: line})
				start = line
			}
			hasMarker, hasContent = true, false
			content = line + 3
		case token.DocEnd:
			res = append(res, segment{start: start, content: content, end: line})
			start = token.NextLine(d, line)
			content = start
			hasMarker, hasContent = false, false
		case token.Directive:
		default:
			if !token.IsBlank(d, line) {
				hasContent = true
			}
		}
	}
	if hasContent || hasMarker || len(res) == 0 {
		res = append(res, segment{start: start, content: content, end: len(d)})
	}
	return res
}

type parser struct {
	d    []byte
	lim  int
	pd   *token.PosDoc
	opts *parseOpts
	errs []*SyntaxError
}

func (p *parser) errorf(off int, format string, args ...any) {
	if p.opts.maxErrors > 0 && len(p.errs) >= p.opts.maxErrors {
		return
	}
	p.errs = append(p.errs, &SyntaxError{Pos: p.pd.Pos(off), Msg: fmt.Sprintf(format, args...)})
}

func (p *parser) wrapErr(off int, msg string, err error) {
	if p.opts.maxErrors > 0 && len(p.errs) >= p.opts.maxErrors {
		return
	}
	p.errs = append(p.errs, &SyntaxError{Pos: p.pd.Pos(off), Msg: msg, Err: err})
}

func (p *parser) document(seg segment) *ir.Document {
	p.lim = seg.end
	doc := &ir.Document{Span: ir.Range{Start: seg.start, End: seg.end}}
	off := -1
	if seg.content > seg.start && seg.content <= seg.end {
		// content after "---" on the marker line
		le := token.LineEnd(p.d, seg.content)
		i := token.SkipSpace(p.d, seg.content, le)
		if i < le && p.d[i] != '#' {
			off = i
		}
	}
	var next int
	if off == -1 {
		line, ok := p.nextContent(p.lineAfterMarker(seg))
		if !ok {
			return doc
		}
		off = line + token.Indent(p.d, line)
	}
	doc.Contents, next = p.node(off, -1)
	for {
		line, ok := p.nextContent(next)
		if !ok {
			break
		}
		p.errorf(line+token.Indent(p.d, line), "unexpected content after document root")
		next = token.NextLine(p.d, line)
	}
	return doc
}

func (p *parser) lineAfterMarker(seg segment) int {
	if seg.content > seg.start {
		return token.NextLine(p.d, seg.content)
	}
	return seg.content
}

// nextContent returns the start of the first line at or after the line
// start off which is neither blank nor a comment.
func (p *parser) nextContent(off int) (int, bool) {
	for off < p.lim {
		if !token.IsBlank(p.d, off) {
			return off, true
		}
		off = token.NextLine(p.d, off)
	}
	return p.lim, false
}

// lineEnd is token.LineEnd bounded by the document.
func (p *parser) lineEnd(off int) int {
	return min(token.LineEnd(p.d, off), p.lim)
}

// after returns where block parsing continues once a node ends at end:
// end itself when it is a line start, otherwise the next line.
func (p *parser) after(end int) int {
	if end >= p.lim {
		return p.lim
	}
	if end == 0 || p.d[end-1] == '\n' {
		return end
	}
	return token.NextLine(p.d, end)
}

// props scans tags and anchors at off and returns the tag and the offset
// of what follows them.
func (p *parser) props(off, end int) (string, int) {
	tag := ""
	for off < end && (p.d[off] == '!' || p.d[off] == '&') {
		j := off
		for j < end && !token.IsSpace(p.d[j]) && !token.IsBreak(p.d[j]) {
			j++
		}
		if p.d[off] == '!' {
			tag = string(p.d[off:j])
		}
		off = token.SkipSpace(p.d, j, end)
	}
	return tag, off
}

// node parses the block node whose first character is at off.  Lines
// continuing the node are indented more than parentIndent.  It returns
// the node and the start of the first line not consumed.
func (p *parser) node(off, parentIndent int) (ir.Node, int) {
	le := p.lineEnd(off)
	if token.KeyIndicator(p.d, off, le, false) != -1 && !token.IsSeqEntry(p.d, off) {
		if c := p.d[off]; c != '[' && c != '{' {
			col := off - token.LineStart(p.d, off)
			return p.blockMap(off, col)
		}
	}
	tag, i := p.props(off, le)
	if i != off {
		if i >= le || p.d[i] == '#' {
			// properties alone on their line
			line, ok := p.nextContent(token.NextLine(p.d, off))
			if ok && token.Indent(p.d, line) > parentIndent {
				n, next := p.node(line+token.Indent(p.d, line), parentIndent)
				setTag(n, tag)
				return n, next
			}
			s := &ir.Scalar{Raw: string(p.d[off:i]), Tag: tag, Implicit: true, Span: ir.Range{Start: i, End: i}}
			return s, token.NextLine(p.d, off)
		}
		n, next := p.node(i, parentIndent)
		setTag(n, tag)
		return n, next
	}
	switch c := p.d[off]; {
	case token.IsSeqEntry(p.d, off):
		return p.blockSeq(off, off-token.LineStart(p.d, off))
	case c == '|' || c == '>':
		end, v := token.BlockScalar(p.d, off, parentIndent, p.lim)
		style := ir.LiteralStyle
		if c == '>' {
			style = ir.FoldedStyle
		}
		s := &ir.Scalar{Raw: string(p.d[off:end]), Value: v, Style: style, Span: ir.Range{Start: off, End: end}}
		return s, p.after(end)
	case c == '[' || c == '{':
		n, end := p.flow(off, parentIndent)
		p.trailing(end)
		return n, p.after(end)
	case c == '\'' || c == '"':
		end, v, err := token.Quoted(p.d, off, p.lim)
		if err != nil {
			p.wrapErr(off, "quoted scalar", err)
		}
		style := ir.SingleQuotedStyle
		if c == '"' {
			style = ir.DoubleQuotedStyle
		}
		s := &ir.Scalar{Raw: string(p.d[off:end]), Value: v, Style: style, Span: ir.Range{Start: off, End: end}}
		p.trailing(end)
		return s, p.after(end)
	default:
		return p.plain(off, parentIndent)
	}
}

func setTag(n ir.Node, tag string) {
	switch x := n.(type) {
	case *ir.Mapping:
		x.Tag = tag
	case *ir.Sequence:
		x.Tag = tag
	case *ir.Scalar:
		x.Tag = tag
	}
}

// trailing reports content following a node on its last line.
func (p *parser) trailing(end int) {
	if end >= p.lim || end == 0 || p.d[end-1] == '\n' {
		return
	}
	le := p.lineEnd(end)
	i := token.SkipSpace(p.d, end, le)
	if i < le && p.d[i] != '#' {
		p.errorf(i, "unexpected %q after value", p.d[i])
	}
}

// plain parses a plain scalar at off, which may continue on lines
// indented more than parentIndent.
func (p *parser) plain(off, parentIndent int) (ir.Node, int) {
	le := p.lineEnd(off)
	end := token.PlainEnd(p.d, off, le, false)
	if end == off {
		// a lone indicator such as '#' or ':'
		end = off + 1
		p.errorf(off, "unexpected %q", p.d[off])
	}
	v := string(p.d[off:end])
	next := token.NextLine(p.d, off)
	if token.CommentStart(p.d, off, le) == le {
		blanks := 0
		for line := next; line < p.lim; line = token.NextLine(p.d, line) {
			if m := token.DocMarker(p.d, line); m == token.DocStart || m == token.DocEnd {
				break
			}
			ind := token.Indent(p.d, line)
			j := line + ind
			lend := p.lineEnd(line)
			if j >= lend {
				blanks++
				continue
			}
			if ind <= parentIndent || p.d[j] == '#' {
				break
			}
			if token.KeyIndicator(p.d, j, lend, false) != -1 || token.IsSeqEntry(p.d, j) {
				break
			}
			e := token.PlainEnd(p.d, j, lend, false)
			if blanks == 0 {
				v += " "
			}
			for range blanks {
				v += "\n"
			}
			blanks = 0
			v += string(p.d[j:e])
			end = e
			next = token.NextLine(p.d, line)
			if token.CommentStart(p.d, j, lend) != lend {
				break
			}
		}
	}
	s := &ir.Scalar{Raw: string(p.d[off:end]), Value: v, Span: ir.Range{Start: off, End: end}}
	return s, next
}

// blockSeq parses the block sequence whose first entry indicator is at
// off, in column col.
func (p *parser) blockSeq(off, col int) (*ir.Sequence, int) {
	s := &ir.Sequence{Span: ir.Range{Start: off, End: off + 1}}
	item, next := p.seqItem(off, col)
	s.Items = append(s.Items, item)
	s.Span.End = max(s.Span.End, item.Range().End)
	for {
		line, ok := p.nextContent(next)
		if !ok {
			break
		}
		ind := token.Indent(p.d, line)
		if ind < col {
			break
		}
		j := line + ind
		if ind > col {
			p.errorf(j, "unexpected indentation in sequence")
			next = token.NextLine(p.d, line)
			continue
		}
		if !token.IsSeqEntry(p.d, j) {
			break
		}
		item, next = p.seqItem(j, col)
		s.Items = append(s.Items, item)
		s.Span.End = max(s.Span.End, item.Range().End, j+1)
	}
	return s, next
}

func (p *parser) seqItem(off, col int) (ir.Node, int) {
	le := p.lineEnd(off)
	v := token.SkipSpace(p.d, off+1, le)
	if v < le && p.d[v] != '#' {
		return p.node(v, col)
	}
	line, ok := p.nextContent(token.NextLine(p.d, off))
	if ok {
		ind := token.Indent(p.d, line)
		if ind > col {
			return p.node(line+ind, col)
		}
	}
	return implicitNull(off + 1), token.NextLine(p.d, off)
}

func implicitNull(off int) *ir.Scalar {
	return &ir.Scalar{Implicit: true, Span: ir.Range{Start: off, End: off}}
}

// blockMap parses the block mapping whose first key starts at off, in
// column col.
func (p *parser) blockMap(off, col int) (*ir.Mapping, int) {
	m := &ir.Mapping{Span: ir.Range{Start: off}}
	pair, next := p.mapEntry(off, col)
	m.Pairs = append(m.Pairs, pair)
	m.Span.End = pair.Span.End
	for {
		line, ok := p.nextContent(next)
		if !ok {
			break
		}
		ind := token.Indent(p.d, line)
		if ind < col {
			break
		}
		j := line + ind
		if ind > col {
			p.errorf(j, "unexpected indentation in mapping")
			next = token.NextLine(p.d, line)
			continue
		}
		if token.IsSeqEntry(p.d, j) {
			break
		}
		pair, next = p.mapEntry(j, col)
		m.Pairs = append(m.Pairs, pair)
		m.Span.End = max(m.Span.End, pair.Span.End)
	}
	return m, next
}

// key parses the scalar key at off ending before end.
func (p *parser) key(off, end int) *ir.Scalar {
	tag, i := p.props(off, end)
	end = token.TrimSpaceLeft(p.d, i, end)
	if i < end && (p.d[i] == '\'' || p.d[i] == '"') {
		qe, v, err := token.Quoted(p.d, i, end)
		if err != nil {
			p.wrapErr(i, "quoted key", err)
		}
		style := ir.SingleQuotedStyle
		if p.d[i] == '"' {
			style = ir.DoubleQuotedStyle
		}
		return &ir.Scalar{Raw: string(p.d[i:qe]), Value: v, Style: style, Tag: tag, Span: ir.Range{Start: i, End: qe}}
	}
	return &ir.Scalar{Raw: string(p.d[i:end]), Value: string(p.d[i:end]), Tag: tag, Span: ir.Range{Start: i, End: end}}
}

func (p *parser) mapEntry(off, col int) (*ir.Pair, int) {
	le := p.lineEnd(off)
	colon := token.KeyIndicator(p.d, off, le, false)
	if colon == -1 {
		// a key still being typed
		end := token.PlainEnd(p.d, off, le, false)
		if end == off {
			end = min(off+1, le)
		}
		k := p.key(off, end)
		p.errorf(k.Span.End, "could not find expected ':'")
		return &ir.Pair{Key: k, Colon: -1, Span: k.Span}, token.NextLine(p.d, off)
	}
	k := p.key(off, colon)
	pair := &ir.Pair{Key: k, Colon: colon, Span: ir.Range{Start: k.Span.Start, End: colon + 1}}
	var next int
	v := token.SkipSpace(p.d, colon+1, le)
	switch {
	case v < le && p.d[v] != '#':
		pair.Value, next = p.node(v, col)
		if vm, ok := pair.Value.(*ir.Mapping); ok && !vm.Flow && p.lineStart(v) == p.lineStart(off) {
			p.errorf(v, "mapping values are not allowed in this context")
		}
	default:
		line, ok := p.nextContent(token.NextLine(p.d, colon))
		if ok {
			ind := token.Indent(p.d, line)
			j := line + ind
			switch {
			case ind > col:
				pair.Value, next = p.node(j, col)
			case ind == col && token.IsSeqEntry(p.d, j):
				pair.Value, next = p.blockSeq(j, col)
			}
		}
		if pair.Value == nil {
			pair.Value = implicitNull(colon + 1)
			next = token.NextLine(p.d, colon)
		}
	}
	pair.Span.End = max(pair.Span.End, pair.Value.Range().End)
	return pair, next
}

func (p *parser) lineStart(off int) int {
	return token.LineStart(p.d, off)
}
