package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/scott-cotton/cli"
)

func list(cfg *ListConfig, cc *cli.Context, args []string) error {
	args, err := cfg.List.Parse(cc, args)
	if err != nil {
		cfg.List.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) > 1 {
		return fmt.Errorf("%w: list takes at most one prefix, got %v", cli.ErrUsage, args)
	}
	prefix := ""
	if len(args) == 1 {
		prefix = args[0]
	}
	lib, err := cfg.library()
	if err != nil {
		return err
	}
	idx := lib.Index()
	faint := cfg.paint(cc, color.Faint)
	for _, fqcn := range idx.Names() {
		if !strings.HasPrefix(fqcn, prefix) {
			continue
		}
		m := idx.Module(fqcn)
		if m == nil {
			if !cfg.Routes {
				continue
			}
			fmt.Fprintf(cc.Out, "%s %s\n", fqcn, faint("-> %s", idx.Route(fqcn).Redirect))
			continue
		}
		fmt.Fprintf(cc.Out, "%s %s\n", fqcn, faint("%s", m.ShortDescription()))
	}
	return nil
}
