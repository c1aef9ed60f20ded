package lsp

import (
	"strings"
	"sync"

	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"

	"github.com/signadot/ansiblels/parse"
	"github.com/signadot/ansiblels/token"
)

type documentStore struct {
	mu   sync.RWMutex
	docs map[protocol.DocumentURI]*document
}

func newDocumentStore() *documentStore {
	return &documentStore{docs: map[protocol.DocumentURI]*document{}}
}

// document is an immutable snapshot of an open text document.
type document struct {
	uri     protocol.DocumentURI
	content []byte
	version int32
	pd      *token.PosDoc

	once   sync.Once
	stream *parse.Stream
}

func newDocument(uri protocol.DocumentURI, content []byte, version int32) *document {
	return &document{
		uri:     uri,
		content: content,
		version: version,
		pd:      token.NewPosDoc(content),
	}
}

// parsed returns the parse of the document, parsing once.
func (d *document) parsed() *parse.Stream {
	d.once.Do(func() {
		d.stream = parse.ParseAll(d.content)
	})
	return d.stream
}

// offset returns the byte offset of an LSP position.
func (d *document) offset(pos protocol.Position) (int, error) {
	return d.pd.UTF16Offset(int(pos.Line), int(pos.Character))
}

func (d *document) position(off int) protocol.Position {
	line, col := d.pd.UTF16LineCol(off)
	return protocol.Position{Line: uint32(line), Character: uint32(col)}
}

func (d *document) lspRange(start, end int) protocol.Range {
	return protocol.Range{Start: d.position(start), End: d.position(end)}
}

// filename returns the local path of the document, or "" for other
// schemes.
func (d *document) filename() string {
	return filename(d.uri)
}

func filename(u protocol.DocumentURI) string {
	if !strings.HasPrefix(string(u), uri.FileScheme+"://") {
		return ""
	}
	return u.Filename()
}

func (ds *documentStore) get(uri protocol.DocumentURI) *document {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	return ds.docs[uri]
}

func (ds *documentStore) put(d *document) {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	ds.docs[d.uri] = d
}

func (ds *documentStore) remove(uri protocol.DocumentURI) {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	delete(ds.docs, uri)
}

func (ds *documentStore) all() []*document {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	res := make([]*document, 0, len(ds.docs))
	for _, d := range ds.docs {
		res = append(res, d)
	}
	return res
}

// applyChanges applies content changes to content in order.  Under full
// sync each change replaces the whole content, otherwise it replaces its
// range.
func applyChanges(content []byte, changes []protocol.TextDocumentContentChangeEvent, kind protocol.TextDocumentSyncKind) []byte {
	for _, c := range changes {
		if kind == protocol.TextDocumentSyncKindFull {
			content = []byte(c.Text)
			continue
		}
		pd := token.NewPosDoc(content)
		start, err := pd.UTF16Offset(int(c.Range.Start.Line), int(c.Range.Start.Character))
		if err != nil {
			continue
		}
		end, err := pd.UTF16Offset(int(c.Range.End.Line), int(c.Range.End.Character))
		if err != nil || end < start {
			continue
		}
		res := make([]byte, 0, len(content)-(end-start)+len(c.Text))
		res = append(res, content[:start]...)
		res = append(res, c.Text...)
		res = append(res, content[end:]...)
		content = res
	}
	return content
}
