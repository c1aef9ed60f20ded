package lsp

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"

	"github.com/signadot/ansiblels/docs"
)

type fakeClient struct {
	mu    sync.Mutex
	logs  []string
	diags map[protocol.DocumentURI][]protocol.Diagnostic
	npub  int
}

func newFakeClient() *fakeClient {
	return &fakeClient{diags: map[protocol.DocumentURI][]protocol.Diagnostic{}}
}

func (c *fakeClient) published(u protocol.DocumentURI) ([]protocol.Diagnostic, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.diags[u]
	return d, ok
}

func (c *fakeClient) Progress(ctx context.Context, params *protocol.ProgressParams) error {
	return nil
}
func (c *fakeClient) WorkDoneProgressCreate(ctx context.Context, params *protocol.WorkDoneProgressCreateParams) error {
	return nil
}
func (c *fakeClient) LogMessage(ctx context.Context, params *protocol.LogMessageParams) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logs = append(c.logs, params.Message)
	return nil
}
func (c *fakeClient) PublishDiagnostics(ctx context.Context, params *protocol.PublishDiagnosticsParams) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.diags[params.URI] = params.Diagnostics
	c.npub++
	return nil
}
func (c *fakeClient) ShowMessage(ctx context.Context, params *protocol.ShowMessageParams) error {
	return nil
}
func (c *fakeClient) ShowMessageRequest(ctx context.Context, params *protocol.ShowMessageRequestParams) (*protocol.MessageActionItem, error) {
	return nil, nil
}
func (c *fakeClient) Telemetry(ctx context.Context, params interface{}) error { return nil }
func (c *fakeClient) RegisterCapability(ctx context.Context, params *protocol.RegistrationParams) error {
	return nil
}
func (c *fakeClient) UnregisterCapability(ctx context.Context, params *protocol.UnregistrationParams) error {
	return nil
}
func (c *fakeClient) ApplyEdit(ctx context.Context, params *protocol.ApplyWorkspaceEditParams) (bool, error) {
	return false, nil
}
func (c *fakeClient) Configuration(ctx context.Context, params *protocol.ConfigurationParams) ([]interface{}, error) {
	return nil, nil
}
func (c *fakeClient) WorkspaceFolders(ctx context.Context) ([]protocol.WorkspaceFolder, error) {
	return nil, nil
}

const debugSource = `DOCUMENTATION = r'''
module: debug
short_description: Print statements during execution
options:
  msg:
    description: The customized message that is printed.
    type: str
    default: Hello world!
  var:
    description: A variable name to debug.
    type: str
  verbosity:
    description: A number that controls when the debug is run.
    type: int
    default: 0
'''
`

const fileSource = `DOCUMENTATION = r'''
module: file
short_description: Manage files and file properties
extends_documentation_fragment: [files]
options:
  path:
    description: Path to the file being managed.
    type: path
    required: true
    aliases: [dest, name]
  state:
    description: Kind of file.
    type: str
    choices: [absent, directory, file]
    default: file
  recurse:
    description: Recursively set the specified file attributes.
    type: bool
    default: false
'''
`

const filesFragment = `class ModuleDocFragment(object):
    DOCUMENTATION = r'''
options:
  mode:
    description: The permissions the resulting filesystem object should have.
    type: raw
'''
`

const thingSource = `DOCUMENTATION = r'''
module: thing
short_description: Manage things
options:
  ports:
    description: Published ports.
    type: list
    elements: dict
    suboptions:
      published:
        description: Host port.
        type: int
        required: true
      protocol:
        description: Port protocol.
        type: str
        choices: [tcp, udp]
  labels:
    description: Labels of the thing.
    type: dict
'''
`

const builtinRuntime = `plugin_routing:
  modules:
    old_debug:
      redirect: ansible.builtin.debug
      deprecation:
        removal_version: "2.20"
        warning_text: Use debug instead.
`

// testIndex builds an index of a few builtin modules and one collection
// module.
func testIndex(t *testing.T) *docs.Index {
	t.Helper()
	parse := func(src, namespace, collection, name string) *docs.Module {
		t.Helper()
		m, err := docs.ParseSource(filepath.Join("/ansible", namespace, collection, name+".py"), []byte(src), namespace, collection, name)
		if err != nil {
			t.Fatal(err)
		}
		if len(m.Errors) != 0 {
			t.Fatalf("%s: %v", name, m.Errors)
		}
		return m
	}
	modules := []*docs.Module{
		parse(debugSource, "ansible", "builtin", "debug"),
		parse(fileSource, "ansible", "builtin", "file"),
		parse(thingSource, "community", "general", "thing"),
	}
	fragments := []*docs.Module{
		parse(filesFragment, "ansible", "builtin", "files"),
	}
	routes, err := docs.ParseRouting([]byte(builtinRuntime), "ansible.builtin")
	if err != nil {
		t.Fatal(err)
	}
	return docs.NewIndex(modules, fragments, routes)
}

func testServer(t *testing.T) (*Server, *fakeClient) {
	t.Helper()
	c := newFakeClient()
	s := New(c, nil)
	s.Library().Swap(testIndex(t))
	t.Cleanup(func() { s.Shutdown(context.Background()) })
	return s, c
}

func testURI(t *testing.T, name string) protocol.DocumentURI {
	return uri.File(filepath.Join(t.TempDir(), name))
}

func open(t *testing.T, s *Server, u protocol.DocumentURI, text string) {
	t.Helper()
	err := s.DidOpen(context.Background(), &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{
			URI:        u,
			LanguageID: "ansible",
			Version:    1,
			Text:       text,
		},
	})
	if err != nil {
		t.Fatal(err)
	}
}

// posOf returns the position of the first byte of sub in text, which is
// ASCII.
func posOf(t *testing.T, text, sub string) protocol.Position {
	t.Helper()
	off := strings.Index(text, sub)
	if off == -1 {
		t.Fatalf("%q not in %q", sub, text)
	}
	return posAt(text, off)
}

func endOf(text string) protocol.Position {
	return posAt(text, len(text))
}

func posAt(text string, off int) protocol.Position {
	line := strings.Count(text[:off], "\n")
	col := off - (strings.LastIndex(text[:off], "\n") + 1)
	return protocol.Position{Line: uint32(line), Character: uint32(col)}
}
