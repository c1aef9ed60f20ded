package docs

import (
	"context"
	"errors"
	"io/fs"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/signadot/ansiblels/debug"
)

// maxRedirects bounds redirect chains in plugin routing.
const maxRedirects = 8

// Index holds the modules, documentation fragments and module routes
// found under a set of locations, keyed by FQCN.  Its maps are not
// modified once built.  Modules are resolved at most once per index.
type Index struct {
	modules   map[string]*Module
	fragments map[string]*Module
	routes    map[string]*Route
	names     []string

	mu       sync.RWMutex
	resolved map[string]*Module
}

// NewIndex builds an index.  Later modules and fragments replace earlier
// ones with the same FQCN.
func NewIndex(modules, fragments []*Module, routes map[string]*Route) *Index {
	x := &Index{
		modules:   make(map[string]*Module, len(modules)),
		fragments: make(map[string]*Module, len(fragments)),
		routes:    routes,
		resolved:  map[string]*Module{},
	}
	if x.routes == nil {
		x.routes = map[string]*Route{}
	}
	for _, m := range modules {
		x.modules[m.FQCN] = m
	}
	for _, f := range fragments {
		x.fragments[f.FQCN] = f
	}
	names := make(map[string]bool, len(x.modules))
	for k := range x.modules {
		names[k] = true
	}
	for k, r := range x.routes {
		if r.Redirect != "" && !r.Removed() {
			names[k] = true
		}
	}
	x.names = make([]string, 0, len(names))
	for k := range names {
		x.names = append(x.names, k)
	}
	sort.Strings(x.names)
	return x
}

// BuildIndex scans builtin module locations and collection roots
// concurrently.  Builtin results come first, so collections win on
// FQCN clashes.  Locations which do not exist are skipped.
func BuildIndex(ctx context.Context, modulesPaths, collectionsPaths []string) (*Index, error) {
	type result struct {
		modules, fragments []*Module
		routes             map[string]*Route
	}
	results := make([]result, len(modulesPaths)+len(collectionsPaths))
	g, ctx := errgroup.WithContext(ctx)
	for i, p := range modulesPaths {
		r := &results[i]
		g.Go(func() error {
			var err error
			if r.modules, err = ParseDirectory(ctx, p, BuiltinNamespace, BuiltinCollection); skip(err) {
				return err
			}
			if r.fragments, err = ParseDirectory(ctx, BuiltinFragmentsDir(p), BuiltinNamespace, BuiltinCollection); skip(err) {
				return err
			}
			r.routes, err = ReadRouting(BuiltinRuntimeFile(p), BuiltinNamespace+"."+BuiltinCollection)
			return err
		})
	}
	for i, p := range collectionsPaths {
		r := &results[len(modulesPaths)+i]
		g.Go(func() error {
			var err error
			if r.modules, err = ParseCollections(ctx, p, "modules"); skip(err) {
				return err
			}
			if r.fragments, err = ParseCollections(ctx, p, "doc_fragments"); skip(err) {
				return err
			}
			r.routes, err = CollectionRouting(ctx, p)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	var modules, fragments []*Module
	routes := map[string]*Route{}
	for _, r := range results {
		modules = append(modules, r.modules...)
		fragments = append(fragments, r.fragments...)
		for k, route := range r.routes {
			routes[k] = route
		}
	}
	x := NewIndex(modules, fragments, routes)
	if debug.Index() {
		debug.Logf("index: %d modules, %d fragments, %d routes\n", len(x.modules), len(x.fragments), len(x.routes))
	}
	return x, nil
}

// skip reports whether err should stop a scan; missing locations
// should not.
func skip(err error) bool {
	return err != nil && !errors.Is(err, fs.ErrNotExist)
}

// Candidates returns the FQCNs search may denote, in order of
// preference: search as given, as a builtin module, then in each
// declared collection.
func Candidates(search string, collections []string) []string {
	res := make([]string, 0, len(collections)+2)
	res = append(res, search, BuiltinPrefix+search)
	for _, c := range collections {
		res = append(res, c+"."+search)
	}
	return res
}

// Match is the result of a module lookup.
type Match struct {
	// Module is the resolved module, nil when only a route was found.
	Module *Module
	// FQCN is the candidate name which matched.
	FQCN  string
	Route *Route
}

// Lookup finds the module search denotes given the declared
// collections.  The first candidate having a route decides; a redirect
// is followed to the module it names.  Without routes the first
// candidate naming a module wins.  ok is false when no module was
// found, though the Match may still carry a route.
func (x *Index) Lookup(search string, collections []string) (*Match, bool) {
	if search == "" {
		return nil, false
	}
	cands := Candidates(search, collections)
	res := &Match{}
	for _, c := range cands {
		if r, ok := x.routes[c]; ok {
			res.FQCN, res.Route = c, r
			break
		}
	}
	var m *Module
	if res.Route != nil && res.Route.Redirect != "" {
		m = x.follow(res.Route)
	} else {
		for _, c := range cands {
			if m = x.modules[c]; m != nil {
				if res.FQCN == "" {
					res.FQCN = c
				}
				break
			}
		}
	}
	if debug.Resolve() {
		debug.Logf("lookup %q in %v: fqcn=%q found=%t\n", search, collections, res.FQCN, m != nil)
	}
	if m == nil {
		if res.FQCN == "" {
			return nil, false
		}
		return res, false
	}
	res.Module = x.resolve(m)
	return res, true
}

func (x *Index) follow(r *Route) *Module {
	for range maxRedirects {
		if m := x.modules[r.Redirect]; m != nil {
			return m
		}
		next, ok := x.routes[r.Redirect]
		if !ok || next.Redirect == "" {
			return nil
		}
		r = next
	}
	return nil
}

// resolve returns m with its documentation fragments merged in,
// merging once per index.
func (x *Index) resolve(m *Module) *Module {
	x.mu.RLock()
	r, ok := x.resolved[m.FQCN]
	x.mu.RUnlock()
	if ok {
		return r
	}
	r = x.mergeFragments(m)
	x.mu.Lock()
	defer x.mu.Unlock()
	if prev, ok := x.resolved[m.FQCN]; ok {
		return prev
	}
	x.resolved[m.FQCN] = r
	return r
}

func (x *Index) mergeFragments(m *Module) *Module {
	r := *m
	r.Fragments = []string{}
	var names []any
	switch v := m.Contents["extends_documentation_fragment"].(type) {
	case []any:
		names = v
	case string:
		names = []any{v}
	default:
		return &r
	}
	contents := map[string]any{}
	for _, n := range names {
		name, ok := n.(string)
		if !ok {
			continue
		}
		f := x.Fragment(name)
		if f == nil {
			if debug.Resolve() {
				debug.Logf("%s: fragment %q not found\n", m.FQCN, name)
			}
			continue
		}
		r.Fragments = append(r.Fragments, f.FQCN)
		Merge(contents, f.Contents)
	}
	r.Contents = Merge(contents, m.Contents)
	return &r
}

// Fragment returns the documentation fragment name refers to, as an FQCN
// or a builtin fragment name.
func (x *Index) Fragment(name string) *Module {
	if f := x.fragments[name]; f != nil {
		return f
	}
	return x.fragments[BuiltinPrefix+name]
}

// Module returns the module with FQCN fqcn as scanned, without
// fragments.
func (x *Index) Module(fqcn string) *Module {
	return x.modules[fqcn]
}

// Names returns the FQCNs of modules and live redirects, sorted.
func (x *Index) Names() []string {
	return x.names
}

// Route returns the route of fqcn.
func (x *Index) Route(fqcn string) *Route {
	return x.routes[fqcn]
}

// Library serves lookups from the latest index built.
type Library struct {
	idx   atomic.Pointer[Index]
	ready chan struct{}
	once  sync.Once
}

func NewLibrary() *Library {
	l := &Library{ready: make(chan struct{})}
	l.idx.Store(NewIndex(nil, nil, nil))
	return l
}

// Initialize builds an index of the given locations and makes it
// current.  On error the current index is kept, and waiters are released
// all the same.
func (l *Library) Initialize(ctx context.Context, modulesPaths, collectionsPaths []string) error {
	x, err := BuildIndex(ctx, modulesPaths, collectionsPaths)
	if err != nil {
		l.once.Do(func() { close(l.ready) })
		return err
	}
	l.Swap(x)
	return nil
}

// Swap makes x the current index.
func (l *Library) Swap(x *Index) {
	l.idx.Store(x)
	l.once.Do(func() { close(l.ready) })
}

// Wait blocks until the first build is over.
func (l *Library) Wait(ctx context.Context) error {
	select {
	case <-l.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Ready reports whether the first build is over.
func (l *Library) Ready() bool {
	select {
	case <-l.ready:
		return true
	default:
		return false
	}
}

// Index returns the current index.
func (l *Library) Index() *Index {
	return l.idx.Load()
}

func (l *Library) Lookup(search string, collections []string) (*Match, bool) {
	return l.Index().Lookup(search, collections)
}

// FindModule returns the resolved module search denotes, or nil.
func (l *Library) FindModule(search string, collections []string) *Module {
	m, ok := l.Lookup(search, collections)
	if !ok {
		return nil
	}
	return m.Module
}

func (l *Library) IsModule(search string, collections []string) bool {
	return l.FindModule(search, collections) != nil
}

func (l *Library) ModuleOptions(search string, collections []string) ([]*Option, bool) {
	m := l.FindModule(search, collections)
	if m == nil {
		return nil, false
	}
	opts := m.Options()
	return opts, opts != nil
}

func (l *Library) ModuleOption(search string, collections []string, option string) (*Option, bool) {
	m := l.FindModule(search, collections)
	if m == nil {
		return nil, false
	}
	return m.Option(option)
}

func (l *Library) ModuleDescription(search string, collections []string) ([]string, bool) {
	m := l.FindModule(search, collections)
	if m == nil {
		return nil, false
	}
	d := m.Description()
	return d, d != nil
}

// ShortName returns the name fqcn is written with given the declared
// collections: the module name alone for builtins and declared
// collections, fqcn otherwise.
func ShortName(fqcn string, collections []string) string {
	if name, ok := strings.CutPrefix(fqcn, BuiltinPrefix); ok {
		return name
	}
	for _, c := range collections {
		if name, ok := strings.CutPrefix(fqcn, c+"."); ok && !strings.Contains(name, ".") {
			return name
		}
	}
	return fqcn
}
