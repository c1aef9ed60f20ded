package ansiblels

import (
	"regexp"

	"github.com/signadot/ansiblels/ir"
)

var (
	// TasksKey matches the keys holding lists of tasks.
	TasksKey = regexp.MustCompile(`^(tasks|pre_tasks|post_tasks|block|rescue|always|handlers)$`)

	blockKey = regexp.MustCompile(`^(block|rescue|always)$`)
	roleDir  = regexp.MustCompile(`/roles/[^/]+/tasks/`)
)

// MayBeModule reports whether path may point at a module name: a key of
// a mapping held in either a top level sequence or a sequence under a
// TasksKey key.
func MayBeModule(path ir.Path) bool {
	taskList, ok := NewAncestry(path).
		Parent(ir.MappingKind).
		Parent(ir.SequenceKind).
		Path()
	if !ok {
		return false
	}
	if len(taskList) == 1 {
		return true
	}
	_, ok = NewAncestry(taskList).ParentKey(KeyRegexp(TasksKey)).Get()
	return ok
}

// IsTaskParam reports whether path points at a key of a task: a module
// name or a task keyword.
func IsTaskParam(path ir.Path) bool {
	taskList, ok := NewAncestry(path).
		ParentOfKey().
		Parent(ir.SequenceKind).
		Path()
	if !ok {
		return false
	}
	if isPlay, known := IsPlayParam(path, ""); known && isPlay {
		return false
	}
	if IsBlockParam(path) || IsRoleParam(path) {
		return false
	}
	if len(taskList) == 1 {
		return true
	}
	key, ok := NewAncestry(taskList).Parent(ir.MappingKind).StringKey()
	return ok && TasksKey.MatchString(key)
}

// IsPlayParam guesses whether path points at a key of a play.  known is
// false when neither the document nor uri give a clue.
func IsPlayParam(path ir.Path, uri string) (isPlay, known bool) {
	root, ok := NewAncestry(path).ParentOfKey().Parent(ir.SequenceKind).Path()
	if !ok || len(root) != 1 {
		return false, true
	}
	m, _ := NewAncestry(path).ParentOfKey().Mapping()
	for _, k := range MapKeys(m) {
		if PlayExclusiveKeywords[k] {
			return true, true
		}
	}
	if uri != "" && roleDir.MatchString(uri) {
		return false, true
	}
	return false, false
}

// IsBlockParam reports whether path points at a key of a block.
func IsBlockParam(path ir.Path) bool {
	a := NewAncestry(path).ParentOfKey()
	m, ok := a.Mapping()
	if !ok {
		return false
	}
	if _, ok := a.Parent(ir.SequenceKind).Get(); !ok {
		return false
	}
	for _, k := range MapKeys(m) {
		if k == "block" {
			return true
		}
	}
	return false
}

// IsRoleParam reports whether path points at a key of a role entry of a
// play.
func IsRoleParam(path ir.Path) bool {
	key, ok := NewAncestry(path).
		ParentOfKey().
		Parent(ir.SequenceKind).
		Parent(ir.MappingKind).
		StringKey()
	return ok && key == "roles"
}

// MapKeys returns the scalar keys of m.
func MapKeys(m *ir.Mapping) []string {
	if m == nil {
		return nil
	}
	res := make([]string, 0, len(m.Pairs))
	for _, p := range m.Pairs {
		if k, ok := p.Key.(*ir.Scalar); ok && k.Value != "" {
			res = append(res, k.Value)
		}
	}
	return res
}

// ModuleCandidates returns the keys of a task mapping which are not task
// keywords.  There is usually at most one.
func ModuleCandidates(task *ir.Mapping) []string {
	var res []string
	for _, k := range MapKeys(task) {
		if !IsTaskKeyword(k) {
			res = append(res, k)
		}
	}
	return res
}

// DeclaredCollections returns the collections declared with the
// collections keyword on the task holding modulePath and on the blocks
// and play enclosing it, innermost first and without duplicates.
func DeclaredCollections(modulePath ir.Path) []string {
	var res []string
	task, _ := NewAncestry(modulePath).Parent(ir.MappingKind).Mapping()
	res = append(res, collectionsOf(task)...)

	path, ok := NewAncestry(modulePath).Parent(ir.MappingKind).Path()
	for ok {
		b := NewAncestry(path).Parent(ir.SequenceKind).Parent(ir.MappingKind)
		key, isKey := b.StringKey()
		if !isKey || !blockKey.MatchString(key) {
			break
		}
		m, _ := b.Mapping()
		res = append(res, collectionsOf(m)...)
		path, ok = b.Path()
	}
	play, _ := NewAncestry(path).Parent(ir.SequenceKind).Parent(ir.MappingKind).Mapping()
	res = append(res, collectionsOf(play)...)
	return dedup(res)
}

func collectionsOf(m *ir.Mapping) []string {
	if m == nil {
		return nil
	}
	p := m.Get("collections")
	if p == nil {
		return nil
	}
	seq, ok := p.Value.(*ir.Sequence)
	if !ok {
		return nil
	}
	var res []string
	for _, item := range seq.Items {
		if s, ok := item.(*ir.Scalar); ok && !s.IsNull() {
			res = append(res, s.Value)
		}
	}
	return res
}

func dedup(ss []string) []string {
	seen := make(map[string]bool, len(ss))
	res := ss[:0:0]
	for _, s := range ss {
		if seen[s] {
			continue
		}
		seen[s] = true
		res = append(res, s)
	}
	return res
}

// OptionStep is one level of nested module options between a module key
// and a cursor.  List is set when the option holds a list of
// dictionaries.
type OptionStep struct {
	Name string
	List bool
}

// TaskParamPath walks from path, which points at a key, up to the task
// parameter holding it.  It returns the path to the task parameter key
// and the keys passed on the way, outermost first, starting with the task
// parameter itself.  The trace is empty when path is a task parameter.
func TaskParamPath(path ir.Path) (ir.Path, []OptionStep, bool) {
	var trace []OptionStep
	for !IsTaskParam(path) {
		if kp, ok := NewAncestry(path).ParentOfKey().Parent(ir.MappingKind).KeyPath(); ok {
			if k, ok := kp.Last().(*ir.Scalar); ok {
				trace = append(trace, OptionStep{Name: k.Value})
				path = kp
				continue
			}
		}
		if kp, ok := NewAncestry(path).ParentOfKey().Parent(ir.SequenceKind).Parent(ir.MappingKind).KeyPath(); ok {
			if k, ok := kp.Last().(*ir.Scalar); ok {
				trace = append(trace, OptionStep{Name: k.Value, List: true})
				path = kp
				continue
			}
		}
		return nil, nil, false
	}
	for i, j := 0, len(trace)-1; i < j; i, j = i+1, j-1 {
		trace[i], trace[j] = trace[j], trace[i]
	}
	return path, trace, true
}
