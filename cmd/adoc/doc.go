package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/glamour"
	"github.com/scott-cotton/cli"

	"github.com/signadot/ansiblels/docs"
)

func doc(cfg *DocConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Doc.Parse(cc, args)
	if err != nil {
		cfg.Doc.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: doc requires at least one module", cli.ErrUsage)
	}
	lib, err := cfg.library()
	if err != nil {
		return err
	}
	for i, name := range args {
		m, err := cfg.lookup(lib, name)
		if err != nil {
			return err
		}
		if i > 0 {
			io.WriteString(cc.Out, "\n")
		}
		if err := cfg.render(cc, docs.FormatModule(m.Module, m.Route)); err != nil {
			return fmt.Errorf("error rendering %s: %w", m.FQCN, err)
		}
	}
	return nil
}

// render writes markdown to cc.Out, styled for a terminal unless raw
// output was asked for or cc.Out is not one.
func (cfg *DocConfig) render(cc *cli.Context, md string) error {
	if cfg.Raw || !cfg.colored(cc) {
		_, err := io.WriteString(cc.Out, md)
		return err
	}
	opts := []glamour.TermRendererOption{glamour.WithAutoStyle()}
	if cfg.Width > 0 {
		opts = append(opts, glamour.WithWordWrap(cfg.Width))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return err
	}
	out, err := r.Render(md)
	if err != nil {
		return err
	}
	_, err = io.WriteString(cc.Out, out)
	return err
}
