package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/scott-cotton/cli"

	"github.com/signadot/ansiblels/docs"
)

func options(cfg *OptionsConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Options.Parse(cc, args)
	if err != nil {
		cfg.Options.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: options requires a module", cli.ErrUsage)
	}
	if cfg.Where != "" {
		if _, err := docs.CompileFilter(cfg.Where); err != nil {
			return fmt.Errorf("%w: %w", cli.ErrUsage, err)
		}
	}
	lib, err := cfg.library()
	if err != nil {
		return err
	}
	m, err := cfg.lookup(lib, args[0])
	if err != nil {
		return err
	}
	opts := m.Module.Options()
	for _, name := range args[1:] {
		o, ok := docs.FindOption(opts, name)
		if !ok {
			return fmt.Errorf("%s: no option %q", m.FQCN, name)
		}
		opts = o.Options()
	}
	if cfg.Where != "" {
		if opts, err = docs.FilterOptions(opts, cfg.Where); err != nil {
			return err
		}
	}
	name := cfg.paint(cc, color.FgCyan, color.Bold)
	req := cfg.paint(cc, color.FgRed)
	faint := cfg.paint(cc, color.Faint)
	for _, o := range opts {
		line := name("%s", o.Name)
		if len(o.Aliases) != 0 {
			line += " " + faint("(%s)", strings.Join(o.Aliases, ", "))
		}
		if o.Required {
			line += " " + req("required")
		}
		fmt.Fprintf(cc.Out, "%s %s\n", line, docs.Details(o))
		if cfg.Long {
			for _, l := range strings.Split(strings.TrimSpace(docs.FormatOption(o, false)), "\n") {
				fmt.Fprintf(cc.Out, "    %s\n", l)
			}
		}
	}
	return nil
}
