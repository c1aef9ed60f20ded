package lsp

import (
	"context"
	"errors"
	"unicode/utf16"

	"github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/parser"
	"go.lsp.dev/protocol"
	"go.uber.org/zap"
)

func (s *Server) publishDiagnostics(ctx context.Context, d *document) {
	if s.client == nil {
		return
	}
	diags := []protocol.Diagnostic{}
	if s.currentSettings().Validation.Syntax {
		diags = validate(d)
	}
	err := s.client.PublishDiagnostics(ctx, &protocol.PublishDiagnosticsParams{
		URI:         d.uri,
		Version:     uint32(max(d.version, 0)),
		Diagnostics: diags,
	})
	if err != nil {
		s.logger.Warn("publishDiagnostics", zap.Error(err))
	}
}

// validate reports the first YAML syntax error of d.
func validate(d *document) []protocol.Diagnostic {
	res := []protocol.Diagnostic{}
	_, err := parser.ParseBytes(d.content, 0)
	if err == nil {
		return res
	}
	diag := protocol.Diagnostic{
		Severity: protocol.DiagnosticSeverityError,
		Source:   Name,
		Message:  err.Error(),
	}
	var yErr yaml.Error
	if errors.As(err, &yErr) {
		diag.Message = yErr.GetMessage()
		if tk := yErr.GetToken(); tk != nil && tk.Position != nil {
			line := max(tk.Position.Line-1, 0)
			col := max(tk.Position.Column-1, 0)
			width := len(utf16.Encode([]rune(tk.Value)))
			diag.Range = protocol.Range{
				Start: protocol.Position{Line: uint32(line), Character: uint32(col)},
				End:   protocol.Position{Line: uint32(line), Character: uint32(col + max(width, 1))},
			}
		}
	}
	return append(res, diag)
}
