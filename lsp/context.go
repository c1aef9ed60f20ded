package lsp

import (
	"fmt"
	"sync"

	"go.lsp.dev/protocol"

	"github.com/signadot/ansiblels"
	"github.com/signadot/ansiblels/docs"
	"github.com/signadot/ansiblels/ir"
)

// metaReported records the meta files whose errors were logged.
var metaReported sync.Map

// collections returns the collections declared for the module key at
// keyPath in d: those of the role's meta/main.yml first, then those
// declared inline.
func (s *Server) collections(d *document, keyPath ir.Path) []string {
	var res []string
	if fn := d.filename(); fn != "" {
		colls, err := s.meta.Collections(fn)
		if err != nil {
			mp, _ := docs.MetaPath(fn)
			if _, dup := metaReported.LoadOrStore(mp, true); !dup {
				s.logMessage(s.ctx, protocol.MessageTypeWarning, fmt.Sprintf("%s: %v", mp, err))
			}
		}
		res = append(res, colls...)
	}
	res = append(res, ansiblels.DeclaredCollections(keyPath)...)
	return dedup(res)
}

func dedup(ss []string) []string {
	seen := map[string]bool{}
	var res []string
	for _, s := range ss {
		if !seen[s] {
			seen[s] = true
			res = append(res, s)
		}
	}
	return res
}

// findModule looks up the module named by the task parameter key at
// keyPath.
func (s *Server) findModule(d *document, keyPath ir.Path) (*docs.Match, bool) {
	k, ok := keyPath.Last().(*ir.Scalar)
	if !ok || k.Value == "" {
		return nil, false
	}
	return s.lib.Lookup(k.Value, s.collections(d, keyPath))
}

// moduleKey returns the path to the module key of the task holding the
// task parameter key at keyPath.  Options given under args belong to
// the task's module.
func moduleKey(keyPath ir.Path) (ir.Path, bool) {
	k, ok := keyPath.Last().(*ir.Scalar)
	if !ok {
		return nil, false
	}
	if k.Value != "args" {
		return keyPath, !ansiblels.IsTaskKeyword(k.Value)
	}
	a := ansiblels.NewAncestry(keyPath).ParentOfKey()
	task, ok := a.Mapping()
	if !ok {
		return nil, false
	}
	cands := ansiblels.ModuleCandidates(task)
	if len(cands) != 1 {
		return nil, false
	}
	taskPath, _ := a.Path()
	return append(taskPath, task.Get(cands[0]).Key), true
}

// optionScope returns the module of the task parameter path leads to
// and the options available at the mapping holding the key path points
// at.
func (s *Server) optionScope(d *document, path ir.Path) (*docs.Match, []*docs.Option, bool) {
	keyPath, trace, ok := ansiblels.TaskParamPath(path)
	if !ok || len(trace) == 0 {
		return nil, nil, false
	}
	if keyPath, ok = moduleKey(keyPath); !ok {
		return nil, nil, false
	}
	m, ok := s.findModule(d, keyPath)
	if !ok {
		return nil, nil, false
	}
	opts := m.Module.Options()
	for _, step := range trace[1:] {
		o, ok := docs.FindOption(opts, step.Name)
		if !ok {
			return nil, nil, false
		}
		opts = o.Options()
	}
	return m, opts, true
}

// optionAt returns the option whose key path points at.
func (s *Server) optionAt(d *document, path ir.Path) (*docs.Option, bool) {
	k, ok := path.Last().(*ir.Scalar)
	if !ok {
		return nil, false
	}
	_, opts, ok := s.optionScope(d, path)
	if !ok {
		return nil, false
	}
	return docs.FindOption(opts, k.Value)
}

// isKey reports whether path ends at the key of a pair.
func isKey(path ir.Path) bool {
	_, ok := ansiblels.NewAncestry(path).ParentOfKey().Get()
	return ok
}

// valueKeyPath returns the path to the key of the pair whose value path
// ends at.
func valueKeyPath(path ir.Path) (ir.Path, bool) {
	if len(path) < 2 {
		return nil, false
	}
	n, ok := ansiblels.NewAncestry(path).Parent(ir.PairKind).Get()
	if !ok {
		return nil, false
	}
	p, ok := n.(*ir.Pair)
	if !ok || p.Value != path.Last() || p.Key == nil {
		return nil, false
	}
	res := make(ir.Path, len(path))
	copy(res, path)
	res[len(res)-1] = p.Key
	return res, true
}
