package lsp

import (
	"context"
	"fmt"
	"regexp"
	"slices"
	"sort"
	"strings"

	"go.lsp.dev/protocol"

	"github.com/signadot/ansiblels"
	"github.com/signadot/ansiblels/docs"
	"github.com/signadot/ansiblels/ir"
	"github.com/signadot/ansiblels/token"
)

// valueLine matches the text before a cursor placed in the value of a
// block mapping entry.
var valueLine = regexp.MustCompile(`^\s*(?:-\s+)*[^\s#-][^#]*?:\s`)

func (s *Server) Completion(ctx context.Context, params *protocol.CompletionParams) (*protocol.CompletionList, error) {
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
	var items []protocol.CompletionItem
	if valueLine.Match(d.content[token.LineStart(d.content, off):off]) {
		items = s.completeValue(d, off)
	} else {
		items = s.completeKey(d, off)
	}
	if len(items) == 0 {
		return nil, nil
	}
	return &protocol.CompletionList{Items: items}, nil
}

// prepare returns d with dummy inserted at off and a trailing newline,
// so that the structure around the cursor parses as intended even when
// only indentation determines it.
func prepare(d *document, off int, dummy string) *document {
	content := make([]byte, 0, len(d.content)+len(dummy)+1)
	content = append(content, d.content[:off]...)
	content = append(content, dummy...)
	content = append(content, d.content[off:]...)
	content = append(content, '\n')
	return newDocument(d.uri, content, d.version)
}

func atEndOfLine(content []byte, off int) bool {
	return off >= len(content) || content[off] == '\n' || content[off] == '\r'
}

func (s *Server) completeKey(d *document, off int) []protocol.CompletionItem {
	p := prepare(d, off, "_:")
	path := ansiblels.ResolvePath(p.parsed().Docs, off, true)
	k, ok := path.Last().(*ir.Scalar)
	if !ok || !isKey(path) {
		return nil
	}
	st := s.currentSettings()
	eol := atEndOfLine(d.content, off)
	if ansiblels.MayBeModule(path) {
		if !st.Completion.ProvideModules {
			return nil
		}
		task, _ := ansiblels.NewAncestry(path).ParentOfKey().Mapping()
		for _, c := range ansiblels.ModuleCandidates(task) {
			if c != k.Value {
				return nil
			}
		}
		return s.moduleItems(p, path, eol)
	}
	if !st.Completion.ProvideModuleOptions {
		return nil
	}
	_, opts, ok := s.optionScope(p, path)
	if !ok {
		return nil
	}
	m, _ := ansiblels.NewAncestry(path).ParentOfKey().Mapping()
	provided := map[string]bool{}
	for _, pk := range ansiblels.MapKeys(m) {
		if pk != k.Value {
			provided[pk] = true
		}
	}
	col := k.Span.Start - token.LineStart(p.content, k.Span.Start)
	return optionItems(opts, provided, eol, st.Completion.Snippets, strings.Repeat(" ", col))
}

type optionEntry struct {
	name string
	o    *docs.Option
}

func (e optionEntry) alias() bool {
	return e.name != e.o.Name
}

// optionItems lists the options not yet provided, required ones first and
// aliases last.
func optionItems(opts []*docs.Option, provided map[string]bool, eol, snippets bool, indent string) []protocol.CompletionItem {
	var entries []optionEntry
	for _, o := range opts {
		if provided[o.Name] || slices.ContainsFunc(o.Aliases, func(a string) bool { return provided[a] }) {
			continue
		}
		entries = append(entries, optionEntry{o.Name, o})
		for _, a := range o.Aliases {
			entries = append(entries, optionEntry{a, o})
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].o.Required && !entries[j].o.Required
	})
	sort.SliceStable(entries, func(i, j int) bool {
		return !entries[i].alias() && entries[j].alias()
	})
	items := make([]protocol.CompletionItem, 0, len(entries))
	for i, e := range entries {
		item := protocol.CompletionItem{
			Label:    e.name,
			Detail:   docs.Details(e.o),
			SortText: fmt.Sprintf("%03d", i),
			Kind:     protocol.CompletionItemKindProperty,
			Documentation: protocol.MarkupContent{
				Kind:  protocol.Markdown,
				Value: docs.FormatOption(e.o, false),
			},
		}
		if e.alias() {
			item.Kind = protocol.CompletionItemKindReference
		}
		if eol {
			if snippets {
				item.InsertText = optionSnippet(e.name, e.o, indent)
				item.InsertTextFormat = protocol.InsertTextFormatSnippet
				item.InsertTextMode = protocol.InsertTextModeAsIs
			} else {
				item.InsertText = e.name + ": "
			}
		}
		items = append(items, item)
	}
	return items
}

// optionSnippet returns the snippet inserting option name with a value
// suited to its type.  indent is the indentation of the key.
func optionSnippet(name string, o *docs.Option, indent string) string {
	switch {
	case o.Type == "bool":
		return name + ": ${1|true,false|}"
	case len(o.Choices) != 0:
		cs := make([]string, len(o.Choices))
		for i, c := range o.Choices {
			cs[i] = escapeChoice(fmt.Sprint(c))
		}
		return name + ": ${1|" + strings.Join(cs, ",") + "|}"
	case o.Default != nil:
		return name + ": ${1:" + escapePlaceholder(fmt.Sprint(o.Default)) + "}"
	case o.Type == "list":
		return name + ":\n" + indent + "  - ${1}"
	case o.Type == "dict":
		return name + ":\n" + indent + "  ${1}"
	}
	return name + ": ${1}"
}

var (
	choiceEscaper      = strings.NewReplacer(`\`, `\\`, `,`, `\,`, `|`, `\|`, `$`, `\$`)
	placeholderEscaper = strings.NewReplacer(`\`, `\\`, `}`, `\}`, `$`, `\$`)
)

func escapeChoice(s string) string      { return choiceEscaper.Replace(s) }
func escapePlaceholder(s string) string { return placeholderEscaper.Replace(s) }

// moduleItems lists the modules a task may name given the collections
// declared for it.  Builtin modules take their short names first.
func (s *Server) moduleItems(d *document, path ir.Path, eol bool) []protocol.CompletionItem {
	idx := s.lib.Index()
	colls := s.collections(d, path)
	names := slices.Clone(idx.Names())
	sort.SliceStable(names, func(i, j int) bool {
		return strings.HasPrefix(names[i], docs.BuiltinPrefix) && !strings.HasPrefix(names[j], docs.BuiltinPrefix)
	})
	seen := map[string]bool{}
	var items []protocol.CompletionItem
	for _, fqcn := range names {
		label := docs.ShortName(fqcn, colls)
		if seen[label] {
			continue
		}
		seen[label] = true
		item := protocol.CompletionItem{
			Label: label,
			Kind:  protocol.CompletionItemKindModule,
			Data:  fqcn,
		}
		if label != fqcn {
			item.FilterText = label
		}
		if m := idx.Module(fqcn); m != nil {
			item.Detail = m.ShortDescription()
		}
		if r := idx.Route(fqcn); r != nil {
			if r.Redirect != "" {
				item.Detail = "redirects to " + r.Redirect
			}
			item.Deprecated = r.Deprecation != nil
		}
		if eol {
			item.InsertText = label + ":"
		}
		items = append(items, item)
	}
	return items
}

// completeValue lists the values of a bool option or one with choices.
func (s *Server) completeValue(d *document, off int) []protocol.CompletionItem {
	p := prepare(d, off, "_")
	path := ansiblels.ResolvePath(p.parsed().Docs, off, true)
	if _, ok := path.Last().(*ir.Scalar); !ok {
		return nil
	}
	keyPath, ok := valueKeyPath(path)
	if !ok {
		return nil
	}
	o, ok := s.optionAt(p, keyPath)
	if !ok {
		return nil
	}
	var values []any
	kind := protocol.CompletionItemKindEnumMember
	switch {
	case len(o.Choices) != 0:
		values = o.Choices
	case o.Type == "bool":
		values = []any{true, false}
		kind = protocol.CompletionItemKindValue
	default:
		return nil
	}
	def := ""
	if o.Default != nil {
		def = fmt.Sprint(o.Default)
	}
	items := make([]protocol.CompletionItem, 0, len(values))
	for i, v := range values {
		label := fmt.Sprint(v)
		item := protocol.CompletionItem{
			Label:    label,
			Kind:     kind,
			SortText: fmt.Sprintf("%03d", i),
		}
		if label == def {
			item.Detail = "default"
			item.Preselect = true
		}
		items = append(items, item)
	}
	return items
}

func (s *Server) CompletionResolve(ctx context.Context, params *protocol.CompletionItem) (*protocol.CompletionItem, error) {
	fqcn, ok := params.Data.(string)
	if !ok || params.Kind != protocol.CompletionItemKindModule {
		return params, nil
	}
	if err := s.lib.Wait(ctx); err != nil {
		return params, nil
	}
	m, ok := s.lib.Lookup(fqcn, nil)
	if !ok {
		return params, nil
	}
	params.Documentation = protocol.MarkupContent{
		Kind:  protocol.Markdown,
		Value: docs.FormatModule(m.Module, m.Route),
	}
	return params, nil
}
