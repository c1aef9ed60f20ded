package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/scott-cotton/cli"
	diffpatch "github.com/sergi/go-diff/diffmatchpatch"

	"github.com/signadot/ansiblels/docs"
)

func diff(cfg *DiffConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Diff.Parse(cc, args)
	if err != nil {
		cfg.Diff.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	switch {
	case cfg.Resolved && len(args) != 1:
		return fmt.Errorf("%w: diff -resolved requires 1 module, got %v", cli.ErrUsage, args)
	case !cfg.Resolved && len(args) != 2:
		return fmt.Errorf("%w: diff requires 2 modules, got %v", cli.ErrUsage, args)
	}
	lib, err := cfg.library()
	if err != nil {
		return err
	}
	a, err := cfg.lookup(lib, args[0])
	if err != nil {
		return err
	}
	from, to := "", docs.FormatModule(a.Module, a.Route)
	if cfg.Resolved {
		from = docs.FormatModule(lib.Index().Module(a.Module.FQCN), a.Route)
	} else {
		b, err := cfg.lookup(lib, args[1])
		if err != nil {
			return err
		}
		from, to = to, docs.FormatModule(b.Module, b.Route)
	}
	if !cfg.writeDiff(cc, from, to) {
		return nil
	}
	return cli.ExitCodeErr(1)
}

// writeDiff writes a line diff of from and to, reporting whether they
// differ.
func (cfg *DiffConfig) writeDiff(cc *cli.Context, from, to string) bool {
	dmp := diffpatch.New()
	a, b, lines := dmp.DiffLinesToChars(from, to)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)
	del := cfg.paint(cc, color.FgRed)
	ins := cfg.paint(cc, color.FgGreen)
	differs := false
	for _, d := range diffs {
		prefix, paint := " ", fmt.Sprintf
		switch d.Type {
		case diffpatch.DiffDelete:
			prefix, paint, differs = "-", del, true
		case diffpatch.DiffInsert:
			prefix, paint, differs = "+", ins, true
		}
		for _, l := range strings.SplitAfter(strings.TrimSuffix(d.Text, "\n"), "\n") {
			fmt.Fprint(cc.Out, paint("%s%s\n", prefix, strings.TrimSuffix(l, "\n")))
		}
	}
	return differs
}
