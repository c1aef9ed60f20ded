package main

import (
	"github.com/scott-cotton/cli"
)

func MainCommand() *cli.Command {
	cfg := &MainConfig{}
	sOpts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	opts := append(sOpts, []*cli.Opt{
		&cli.Opt{
			Name:        "M",
			Aliases:     []string{"modules"},
			Description: "ansible modules directory, repeatable",
			Type:        cli.NamedFuncOpt(appendOpt(&cfg.ModulesPaths), "(dir)"),
		},
		&cli.Opt{
			Name:        "C",
			Aliases:     []string{"collections"},
			Description: "collections root, repeatable",
			Type:        cli.NamedFuncOpt(appendOpt(&cfg.CollectionsPaths), "(dir)"),
		},
		&cli.Opt{
			Name:        "c",
			Description: "declare a collection for lookups, repeatable",
			Type:        cli.NamedFuncOpt(appendOpt(&cfg.Collections), "(namespace.collection)"),
		}}...)

	return cli.NewCommandAt(&cfg.Main, "adoc").
		WithSynopsis("adoc [opts] command [opts]").
		WithDescription("adoc inspects ansible module documentation and playbook structure.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return adocMain(cfg, cc, args)
		}).
		WithSubs(
			PathCommand(cfg),
			DocCommand(cfg),
			OptionsCommand(cfg),
			ListCommand(cfg),
			DiffCommand(cfg),
			CheckCommand(cfg))
}

func PathCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &PathConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Path, "path").
		WithAliases("p").
		WithSynopsis("path [-i] <file> <line:col|offset>").
		WithDescription("show the ancestry path of a position in a playbook").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return path(cfg, cc, args)
		})
}

func DocCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &DocConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Doc, "doc").
		WithAliases("d").
		WithSynopsis("doc [-raw] [-w width] <module>...").
		WithDescription("show the documentation of modules").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return doc(cfg, cc, args)
		})
}

func OptionsCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &OptionsConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Options, "options").
		WithAliases("o", "opts").
		WithSynopsis("options [-l] [-where expr] <module> [option...]").
		WithDescription("list the options of a module, or of a suboption path").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return options(cfg, cc, args)
		})
}

func ListCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ListConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.List, "list").
		WithAliases("l", "ls").
		WithSynopsis("list [-r] [prefix]").
		WithDescription("list indexed modules").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return list(cfg, cc, args)
		})
}

func DiffCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &DiffConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Diff, "diff").
		WithSynopsis("diff <module> [module] | diff -resolved <module>").
		WithDescription("diff the documentation of two modules, or of a module before and after merging its fragments").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return diff(cfg, cc, args)
		})
}

func CheckCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &CheckConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Check, "check").
		WithSynopsis("check [dir...]").
		WithDescription("report documentation blocks which fail to parse").
		WithRun(func(cc *cli.Context, args []string) error {
			return check(cfg, cc, args)
		})
}
