package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/scott-cotton/cli"

	"github.com/signadot/ansiblels/docs"
)

func check(cfg *CheckConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Check.Parse(cc, args)
	if err != nil {
		cfg.Check.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	var modules []*docs.Module
	if len(args) == 0 {
		lib, err := cfg.library()
		if err != nil {
			return err
		}
		idx := lib.Index()
		for _, fqcn := range idx.Names() {
			if m := idx.Module(fqcn); m != nil {
				modules = append(modules, m)
			}
		}
	} else {
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
		defer cancel()
		for _, dir := range args {
			ms, err := docs.ParseDirectory(ctx, dir, docs.BuiltinNamespace, docs.BuiltinCollection)
			if err != nil {
				return err
			}
			modules = append(modules, ms...)
		}
	}
	bad := cfg.paint(cc, color.FgRed)
	n := 0
	for _, m := range modules {
		for _, e := range m.Errors {
			fmt.Fprintln(cc.Out, bad("%v", e))
			n++
		}
	}
	if n == 0 {
		return nil
	}
	fmt.Fprintf(cc.Out, "%d errors in %d modules\n", n, len(modules))
	return cli.ExitCodeErr(1)
}
