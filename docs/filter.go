package docs

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

func optionEnv(o *Option) map[string]any {
	aliases := o.Aliases
	if aliases == nil {
		aliases = []string{}
	}
	choices := o.Choices
	if choices == nil {
		choices = []any{}
	}
	return map[string]any{
		"name":          o.Name,
		"description":   strings.Join(o.Description, " "),
		"required":      o.Required,
		"default":       o.Default,
		"choices":       choices,
		"type":          o.Type,
		"elements":      o.Elements,
		"aliases":       aliases,
		"version_added": o.VersionAdded,
		"suboptions":    len(o.Suboptions) != 0,
	}
}

var filterOpts = []expr.Option{
	expr.Env(optionEnv(&Option{})),
	expr.AsBool(),
	expr.Function("icontains", func(params ...any) (any, error) {
		return strings.Contains(strings.ToLower(params[0].(string)), strings.ToLower(params[1].(string))), nil
	},
		new(func(string, string) bool)),
}

// CompileFilter compiles an option filter expression such as
//
//	required && type == "str"
//
// The expression sees the fields of an option by their documentation
// names.
func CompileFilter(where string) (*vm.Program, error) {
	prg, err := expr.Compile(where, filterOpts...)
	if err != nil {
		return nil, fmt.Errorf("option filter %q: %w", where, err)
	}
	return prg, nil
}

// FilterOptions returns the options of opts for which where holds.
func FilterOptions(opts []*Option, where string) ([]*Option, error) {
	prg, err := CompileFilter(where)
	if err != nil {
		return nil, err
	}
	var res []*Option
	for _, o := range opts {
		v, err := expr.Run(prg, optionEnv(o))
		if err != nil {
			return nil, fmt.Errorf("option %s: %w", o.Name, err)
		}
		if v.(bool) {
			res = append(res, o)
		}
	}
	return res, nil
}
