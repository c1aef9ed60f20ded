package lsp

import (
	"context"

	"go.lsp.dev/protocol"

	"github.com/signadot/ansiblels"
	"github.com/signadot/ansiblels/docs"
	"github.com/signadot/ansiblels/ir"
)

func (s *Server) Hover(ctx context.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	d := s.docs.get(params.TextDocument.URI)
	if d == nil {
		return nil, nil
	}
	if err := s.lib.Wait(ctx); err != nil {
		return nil, nil
	}
	off, err := d.offset(params.Position)
	if err != nil {
		return nil, nil
	}
	path := ansiblels.ResolvePath(d.parsed().Docs, off, false)
	k, ok := path.Last().(*ir.Scalar)
	if !ok || !isKey(path) {
		return nil, nil
	}
	var text string
	switch {
	case ansiblels.IsTaskParam(path):
		m, ok := s.findModule(d, path)
		if !ok {
			return nil, nil
		}
		text = docs.FormatModule(m.Module, m.Route)
	default:
		o, ok := s.optionAt(d, path)
		if !ok {
			return nil, nil
		}
		text = docs.FormatOption(o, true)
	}
	r := d.lspRange(k.Span.Start, k.Span.End)
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.Markdown,
			Value: text,
		},
		Range: &r,
	}, nil
}
