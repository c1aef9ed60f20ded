// Package lsp implements a language server for Ansible playbooks, task
// files and roles over go.lsp.dev: hover, completion and go-to-definition
// for modules and their options, and YAML syntax diagnostics.
package lsp

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/signadot/ansiblels/debug"
	"github.com/signadot/ansiblels/docs"
	"github.com/signadot/ansiblels/settings"
	"github.com/signadot/ansiblels/watch"
)

const Name = "ansible-ls"

// syncKind is the text document sync the server advertises.
const syncKind = protocol.TextDocumentSyncKindFull

var Version = "0.1.0"

// Server implements protocol.Server.
type Server struct {
	client protocol.Client
	logger *zap.Logger

	docs *documentStore
	lib  *docs.Library
	meta *docs.MetaCache

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	settings *settings.Settings
	watcher  *watch.Watcher

	buildMu sync.Mutex

	done     chan struct{}
	exitOnce sync.Once
}

// Logger returns the protocol tracing logger: a development logger on
// stderr when ANSIBLE_LS_DEBUG_LSP is set, a no-op one otherwise.
func Logger() *zap.Logger {
	if !debug.LSP() {
		return zap.NewNop()
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{"stderr"}
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func New(client protocol.Client, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		client:   client,
		logger:   logger,
		docs:     newDocumentStore(),
		lib:      docs.NewLibrary(),
		meta:     docs.NewMetaCache(),
		ctx:      ctx,
		cancel:   cancel,
		settings: settings.Default(),
		done:     make(chan struct{}),
	}
}

// Library returns the documentation library the server answers from.
func (s *Server) Library() *docs.Library {
	return s.lib
}

func (s *Server) currentSettings() *settings.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

func (s *Server) Initialize(ctx context.Context, params *protocol.InitializeParams) (*protocol.InitializeResult, error) {
	st, err := settings.Load()
	if err != nil {
		s.logMessage(ctx, protocol.MessageTypeError, err.Error())
		st = settings.Default()
	}
	if params.InitializationOptions != nil {
		if st, err = s.applySettings(st, params.InitializationOptions); err != nil {
			s.logMessage(ctx, protocol.MessageTypeError, err.Error())
		}
	}
	s.mu.Lock()
	s.settings = st
	s.mu.Unlock()

	go s.rebuild(s.ctx)

	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				Change:    syncKind,
				OpenClose: true,
			},
			HoverProvider:      true,
			DefinitionProvider: true,
			CompletionProvider: &protocol.CompletionOptions{
				ResolveProvider: true,
			},
		},
		ServerInfo: &protocol.ServerInfo{
			Name:    Name,
			Version: Version,
		},
	}, nil
}

// applySettings merges client settings, sent as any JSON value, into st.
// On error st is returned unchanged.
func (s *Server) applySettings(st *settings.Settings, v any) (*settings.Settings, error) {
	patch, err := json.Marshal(v)
	if err != nil {
		return st, fmt.Errorf("%w: %w", settings.ErrSettings, err)
	}
	res, err := st.Merge(patch)
	if err != nil {
		return st, err
	}
	return res, nil
}

func (s *Server) Initialized(ctx context.Context, params *protocol.InitializedParams) error {
	st := s.currentSettings()
	if !st.Watch.Enabled {
		return nil
	}
	w, err := watch.New(st.Watch.Interval(), s.onChanges)
	if err != nil {
		s.logMessage(ctx, protocol.MessageTypeWarning, fmt.Sprintf("file watching disabled: %v", err))
		return nil
	}
	s.mu.Lock()
	s.watcher = w
	s.mu.Unlock()
	s.watchPaths(st)
	go func() {
		if err := w.Run(s.ctx); err != nil && debug.Watch() {
			debug.Logf("watch: %v\n", err)
		}
	}()
	return nil
}

// watchPaths watches the locations the index of st is built from.
func (s *Server) watchPaths(st *settings.Settings) {
	s.mu.Lock()
	w := s.watcher
	s.mu.Unlock()
	if w == nil {
		return
	}
	var roots []string
	for _, p := range st.ModulesPaths() {
		roots = append(roots, p, docs.BuiltinFragmentsDir(p))
		if err := w.AddDir(filepath.Dir(docs.BuiltinRuntimeFile(p))); err != nil && debug.Watch() {
			debug.Logf("watch: %v\n", err)
		}
	}
	for _, p := range st.CollectionsPaths() {
		roots = append(roots, filepath.Join(p, "ansible_collections"))
	}
	for _, r := range roots {
		if err := w.Add(r); err != nil && debug.Watch() {
			debug.Logf("watch %s: %v\n", r, err)
		}
	}
}

// onChanges handles a batch of filesystem changes.
func (s *Server) onChanges(b watch.Batch) {
	for _, mp := range b.Meta() {
		s.meta.Invalidate(mp)
	}
	if b.Docs() {
		s.rebuild(s.ctx)
	}
}

// rebuild builds a new index from the current settings and swaps it
// in.  Builds do not overlap.
func (s *Server) rebuild(ctx context.Context) {
	s.buildMu.Lock()
	defer s.buildMu.Unlock()
	st := s.currentSettings()
	start := time.Now()
	if err := s.lib.Initialize(ctx, st.ModulesPaths(), st.CollectionsPaths()); err != nil {
		s.logMessage(ctx, protocol.MessageTypeError, fmt.Sprintf("building documentation index: %v", err))
		return
	}
	n := len(s.lib.Index().Names())
	s.logMessage(ctx, protocol.MessageTypeInfo, fmt.Sprintf("indexed %d modules in %s", n, time.Since(start).Round(time.Millisecond)))
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	w := s.watcher
	s.watcher = nil
	s.mu.Unlock()
	s.cancel()
	if w != nil {
		return w.Close()
	}
	return nil
}

func (s *Server) Exit(ctx context.Context) error {
	s.cancel()
	s.exitOnce.Do(func() { close(s.done) })
	return nil
}

// Done is closed once the client asks the server to exit.
func (s *Server) Done() <-chan struct{} {
	return s.done
}

func (s *Server) DidChangeConfiguration(ctx context.Context, params *protocol.DidChangeConfigurationParams) error {
	if params.Settings == nil {
		return nil
	}
	old := s.currentSettings()
	st, err := s.applySettings(old, params.Settings)
	if err != nil {
		s.logMessage(ctx, protocol.MessageTypeError, err.Error())
		return nil
	}
	s.mu.Lock()
	s.settings = st
	s.mu.Unlock()
	if !st.SamePaths(old) {
		s.watchPaths(st)
		go s.rebuild(s.ctx)
	}
	if st.Validation.Syntax != old.Validation.Syntax {
		for _, d := range s.docs.all() {
			s.publishDiagnostics(ctx, d)
		}
	}
	return nil
}

func (s *Server) DidChangeWatchedFiles(ctx context.Context, params *protocol.DidChangeWatchedFilesParams) error {
	var b watch.Batch
	for _, ev := range params.Changes {
		if ev == nil {
			continue
		}
		p := filename(ev.URI)
		if p == "" {
			continue
		}
		c := watch.Change{Path: p}
		switch ev.Type {
		case protocol.FileChangeTypeCreated:
			c.Op = fsnotify.Create
		case protocol.FileChangeTypeDeleted:
			c.Op = fsnotify.Remove
		default:
			c.Op = fsnotify.Write
		}
		b = append(b, c)
	}
	for _, mp := range b.Meta() {
		s.meta.Invalidate(mp)
	}
	if b.Docs() {
		go s.rebuild(s.ctx)
	}
	return nil
}

func (s *Server) DidOpen(ctx context.Context, params *protocol.DidOpenTextDocumentParams) error {
	d := newDocument(params.TextDocument.URI, []byte(params.TextDocument.Text), params.TextDocument.Version)
	s.docs.put(d)
	s.watchMeta(d)
	s.publishDiagnostics(ctx, d)
	return nil
}

// watchMeta watches the meta directory of the role d belongs to.
func (s *Server) watchMeta(d *document) {
	s.mu.Lock()
	w := s.watcher
	s.mu.Unlock()
	if w == nil {
		return
	}
	fn := d.filename()
	if fn == "" {
		return
	}
	if mp, ok := docs.MetaPath(fn); ok {
		if err := w.AddDir(filepath.Dir(mp)); err != nil && debug.Watch() {
			debug.Logf("watch: %v\n", err)
		}
	}
}

func (s *Server) DidChange(ctx context.Context, params *protocol.DidChangeTextDocumentParams) error {
	old := s.docs.get(params.TextDocument.URI)
	if old == nil {
		return nil
	}
	content := applyChanges(old.content, params.ContentChanges, syncKind)
	d := newDocument(params.TextDocument.URI, content, params.TextDocument.Version)
	s.docs.put(d)
	s.publishDiagnostics(ctx, d)
	return nil
}

func (s *Server) DidClose(ctx context.Context, params *protocol.DidCloseTextDocumentParams) error {
	s.docs.remove(params.TextDocument.URI)
	if s.client != nil {
		return s.client.PublishDiagnostics(ctx, &protocol.PublishDiagnosticsParams{
			URI:         params.TextDocument.URI,
			Diagnostics: []protocol.Diagnostic{},
		})
	}
	return nil
}

func (s *Server) logMessage(ctx context.Context, typ protocol.MessageType, msg string) {
	if debug.LSP() {
		debug.Logf("%v: %s\n", typ, msg)
	}
	if s.client == nil {
		return
	}
	if err := s.client.LogMessage(ctx, &protocol.LogMessageParams{Type: typ, Message: msg}); err != nil {
		s.logger.Warn("logMessage", zap.Error(err))
	}
}
