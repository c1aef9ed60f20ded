package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"

	"github.com/signadot/ansiblels/docs"
	"github.com/signadot/ansiblels/settings"
)

type MainConfig struct {
	Color   bool `cli:"name=color desc='output with color'"`
	NoColor bool `cli:"name=nocolor desc='output without color'"`

	ModulesPaths     []string
	CollectionsPaths []string
	// Collections are declared for module lookups, as in a play's
	// collections keyword.
	Collections []string

	Main *cli.Command
}

func appendOpt(dst *[]string) cli.FuncOpt {
	return cli.FuncOpt(func(_ *cli.Context, v string) (any, error) {
		if v == "" {
			return nil, fmt.Errorf("%w: empty value", cli.ErrUsage)
		}
		*dst = append(*dst, v)
		return v, nil
	})
}

// colored reports whether output to cc.Out should be colored.
func (cfg *MainConfig) colored(cc *cli.Context) bool {
	switch {
	case cfg.NoColor:
		return false
	case cfg.Color:
		return true
	}
	f, ok := cc.Out.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

func (cfg *MainConfig) paint(cc *cli.Context, attrs ...color.Attribute) func(string, ...any) string {
	c := color.New(attrs...)
	if cfg.colored(cc) {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c.SprintfFunc()
}

// paths returns the locations to index: those given by options, falling
// back to the language server settings.
func (cfg *MainConfig) paths() ([]string, []string, error) {
	st, err := settings.Load()
	if err != nil {
		return nil, nil, err
	}
	mods, colls := cfg.ModulesPaths, cfg.CollectionsPaths
	if len(mods) == 0 {
		mods = st.ModulesPaths()
	}
	if len(colls) == 0 {
		colls = st.CollectionsPaths()
	}
	return mods, colls, nil
}

func (cfg *MainConfig) library() (*docs.Library, error) {
	mods, colls, err := cfg.paths()
	if err != nil {
		return nil, err
	}
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	lib := docs.NewLibrary()
	if err := lib.Initialize(ctx, mods, colls); err != nil {
		return nil, err
	}
	return lib, nil
}

func (cfg *MainConfig) lookup(lib *docs.Library, name string) (*docs.Match, error) {
	m, ok := lib.Lookup(name, cfg.Collections)
	if ok {
		return m, nil
	}
	if m != nil && m.Route != nil && m.Route.Removed() {
		return nil, fmt.Errorf("%s: %w: removed", m.FQCN, docs.ErrNotModule)
	}
	return nil, fmt.Errorf("%s: %w", name, docs.ErrNotModule)
}

type PathConfig struct {
	*MainConfig
	Inclusive bool `cli:"name=i desc='include the end of tokens'"`

	Path *cli.Command
}

type DocConfig struct {
	*MainConfig
	Raw   bool `cli:"name=raw desc='output markdown without rendering'"`
	Width int  `cli:"name=w desc='word wrap width'"`

	Doc *cli.Command
}

type OptionsConfig struct {
	*MainConfig
	Where string `cli:"name=where desc='expression selecting options'"`
	Long  bool   `cli:"name=l desc='include option descriptions'"`

	Options *cli.Command
}

type ListConfig struct {
	*MainConfig
	Routes bool `cli:"name=r desc='include redirects'"`

	List *cli.Command
}

type DiffConfig struct {
	*MainConfig
	Resolved bool `cli:"name=resolved desc='diff against the module without fragments'"`

	Diff *cli.Command
}

type CheckConfig struct {
	*MainConfig

	Check *cli.Command
}
