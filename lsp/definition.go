package lsp

import (
	"context"

	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"

	"github.com/signadot/ansiblels"
	"github.com/signadot/ansiblels/docs"
	"github.com/signadot/ansiblels/ir"
)

// Definition locates the documentation block of the module a task names,
// from its key or from the key of any of its options.
func (s *Server) Definition(ctx context.Context, params *protocol.DefinitionParams) ([]protocol.Location, error) {
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
	if _, ok := path.Last().(*ir.Scalar); !ok || !isKey(path) {
		return nil, nil
	}
	if ansiblels.IsTaskParam(path) {
		if m, ok := s.findModule(d, path); ok {
			return moduleLocation(m.Module), nil
		}
		return nil, nil
	}
	m, _, ok := s.optionScope(d, path)
	if !ok {
		return nil, nil
	}
	return moduleLocation(m.Module), nil
}

func moduleLocation(m *docs.Module) []protocol.Location {
	if m == nil || m.Source == "" {
		return nil
	}
	return []protocol.Location{{
		URI: uri.File(m.Source),
		Range: protocol.Range{
			Start: protocol.Position{Line: uint32(m.Lines[0])},
			End:   protocol.Position{Line: uint32(m.Lines[1] + 1)},
		},
	}}
}
