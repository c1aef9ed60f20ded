package docs

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Module is the documentation of one module or documentation fragment
// as scanned from its source file.  A scanned Module is never modified;
// resolution produces a copy.
type Module struct {
	Source string
	// Lines is the 0-based range of lines of the documentation block
	// in Source, both ends inclusive.
	Lines      [2]int
	FQCN       string
	Namespace  string
	Collection string
	Name       string
	Contents   map[string]any
	// Fragments names the documentation fragments merged into Contents.
	// It is nil until the module is resolved.
	Fragments []string
	Errors    []error
}

// Resolved reports whether documentation fragments have been merged
// into m.
func (m *Module) Resolved() bool {
	return m.Fragments != nil
}

func (m *Module) ShortDescription() string {
	return stringOf(m.Contents["short_description"])
}

func (m *Module) Description() []string {
	return lines(m.Contents["description"])
}

func (m *Module) Notes() []string {
	return lines(m.Contents["notes"])
}

func (m *Module) Requirements() []string {
	return lines(m.Contents["requirements"])
}

func (m *Module) Author() []string {
	return lines(m.Contents["author"])
}

func (m *Module) VersionAdded() string {
	return stringOf(m.Contents["version_added"])
}

// Deprecated returns the deprecation notice of the documentation, if
// any.
func (m *Module) Deprecated() (*Notice, bool) {
	switch x := m.Contents["deprecated"].(type) {
	case map[string]any:
		n := &Notice{
			WarningText:    stringOf(x["why"]),
			RemovalDate:    stringOf(x["removed_at_date"]),
			RemovalVersion: stringOf(x["removed_in"]),
		}
		if alt := stringOf(x["alternative"]); alt != "" {
			n.WarningText = strings.TrimSpace(n.WarningText + " Use " + alt + " instead.")
		}
		return n, true
	case nil:
		return nil, false
	default:
		return &Notice{}, truthy(x)
	}
}

// SeeAlso returns the seealso entries which are mappings.
func (m *Module) SeeAlso() []map[string]any {
	items, _ := m.Contents["seealso"].([]any)
	var res []map[string]any
	for _, item := range items {
		if e, ok := item.(map[string]any); ok {
			res = append(res, e)
		}
	}
	return res
}

// Options returns the options of the module sorted by name.
func (m *Module) Options() []*Option {
	return OptionsOf(m.Contents["options"])
}

// Option returns the option named or aliased name.
func (m *Module) Option(name string) (*Option, bool) {
	return FindOption(m.Options(), name)
}

// Option is a view of one documented module option.
type Option struct {
	Name         string
	Description  []string
	Required     bool
	Default      any
	Choices      []any
	Type         string
	Elements     string
	Aliases      []string
	VersionAdded string
	// Suboptions holds the raw documentation of nested options for dict
	// and list of dict types.
	Suboptions map[string]any
}

// OptionsOf builds options from a raw options mapping, sorted by name.
// Entries which are not mappings are skipped.
func OptionsOf(raw any) []*Option {
	m, ok := raw.(map[string]any)
	if !ok {
		return nil
	}
	res := make([]*Option, 0, len(m))
	for name, v := range m {
		om, ok := v.(map[string]any)
		if !ok {
			continue
		}
		o := &Option{
			Name:         name,
			Description:  lines(om["description"]),
			Required:     truthy(om["required"]),
			Default:      om["default"],
			Type:         stringOf(om["type"]),
			Elements:     stringOf(om["elements"]),
			VersionAdded: stringOf(om["version_added"]),
		}
		o.Choices, _ = om["choices"].([]any)
		for _, a := range listOf(om["aliases"]) {
			o.Aliases = append(o.Aliases, stringOf(a))
		}
		o.Suboptions, _ = om["suboptions"].(map[string]any)
		res = append(res, o)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Name < res[j].Name })
	return res
}

// FindOption returns the option of opts whose name or one of whose
// aliases is name.
func FindOption(opts []*Option, name string) (*Option, bool) {
	for _, o := range opts {
		if o.Name == name {
			return o, true
		}
	}
	for _, o := range opts {
		for _, a := range o.Aliases {
			if a == name {
				return o, true
			}
		}
	}
	return nil, false
}

// Options returns the nested options of o.
func (o *Option) Options() []*Option {
	return OptionsOf(o.Suboptions)
}

// IsList reports whether the option holds a list.
func (o *Option) IsList() bool {
	return o.Type == "list"
}

func lines(v any) []string {
	switch x := v.(type) {
	case nil:
		return nil
	case string:
		return []string{x}
	case []any:
		res := make([]string, 0, len(x))
		for _, item := range x {
			res = append(res, stringOf(item))
		}
		return res
	default:
		return []string{stringOf(x)}
	}
}

func listOf(v any) []any {
	switch x := v.(type) {
	case nil:
		return nil
	case []any:
		return x
	default:
		return []any{x}
	}
}

func stringOf(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}

// truthy interprets YAML 1.1 booleans which a YAML 1.2 decoder leaves
// as strings.
func truthy(v any) bool {
	switch x := v.(type) {
	case bool:
		return x
	case string:
		switch strings.ToLower(x) {
		case "yes", "y", "true", "on":
			return true
		}
	}
	return false
}
