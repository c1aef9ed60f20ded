package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/scott-cotton/cli"

	"github.com/signadot/ansiblels"
	"github.com/signadot/ansiblels/ir"
	"github.com/signadot/ansiblels/parse"
)

func path(cfg *PathConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Path.Parse(cc, args)
	if err != nil {
		cfg.Path.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: path requires a file and a position, got %v", cli.ErrUsage, args)
	}
	var d []byte
	if args[0] == "-" {
		d, err = io.ReadAll(cc.In)
	} else {
		d, err = os.ReadFile(args[0])
	}
	if err != nil {
		return err
	}
	s := parse.ParseAll(d)
	off, err := offsetArg(s, args[1])
	if err != nil {
		return fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	for _, e := range s.Errs {
		fmt.Fprintf(cc.Out, "# %v\n", e)
	}
	p := ansiblels.ResolvePath(s.Docs, off, cfg.Inclusive)
	if len(p) == 0 {
		fmt.Fprintln(cc.Out, "no node at", args[1])
		return cli.ExitCodeErr(1)
	}
	field := cfg.paint(cc, color.FgCyan)
	val := cfg.paint(cc, color.FgYellow)
	kinds := make([]string, len(p))
	for i, k := range p.Kinds() {
		kinds[i] = k.String()
	}
	fmt.Fprintf(cc.Out, "%s %s\n", field("path"), val("%s", p))
	fmt.Fprintf(cc.Out, "%s %s\n", field("kinds"), val("%s", strings.Join(kinds, " ")))
	if !isKey(p) {
		return nil
	}
	isPlay, known := ansiblels.IsPlayParam(p, args[0])
	fmt.Fprintf(cc.Out, "%s %s\n", field("play"), val("%t (known=%t)", isPlay, known))
	fmt.Fprintf(cc.Out, "%s %s\n", field("block"), val("%t", ansiblels.IsBlockParam(p)))
	fmt.Fprintf(cc.Out, "%s %s\n", field("role"), val("%t", ansiblels.IsRoleParam(p)))
	fmt.Fprintf(cc.Out, "%s %s\n", field("module?"), val("%t", ansiblels.MayBeModule(p)))
	fmt.Fprintf(cc.Out, "%s %s\n", field("task"), val("%t", ansiblels.IsTaskParam(p)))
	kp, trace, ok := ansiblels.TaskParamPath(p)
	if !ok {
		return nil
	}
	steps := make([]string, len(trace))
	for i, st := range trace {
		steps[i] = st.Name
		if st.List {
			steps[i] += "[]"
		}
	}
	fmt.Fprintf(cc.Out, "%s %s\n", field("module"), val("%s", kp))
	if len(steps) != 0 {
		fmt.Fprintf(cc.Out, "%s %s\n", field("options"), val("%s", strings.Join(steps, ".")))
	}
	if colls := ansiblels.DeclaredCollections(kp); len(colls) != 0 {
		fmt.Fprintf(cc.Out, "%s %s\n", field("collections"), val("%s", strings.Join(colls, " ")))
	}
	return nil
}

// offsetArg reads a byte offset or a 1-based line:col position.
func offsetArg(s *parse.Stream, a string) (int, error) {
	line, col, found := strings.Cut(a, ":")
	if !found {
		off, err := strconv.Atoi(a)
		if err != nil || off < 0 || off > len(s.PosDoc.Bytes()) {
			return 0, fmt.Errorf("invalid offset %q", a)
		}
		return off, nil
	}
	l, err := strconv.Atoi(line)
	if err != nil || l < 1 {
		return 0, fmt.Errorf("invalid line in %q", a)
	}
	c, err := strconv.Atoi(col)
	if err != nil || c < 1 {
		return 0, fmt.Errorf("invalid column in %q", a)
	}
	return s.PosDoc.Offset(l-1, c-1)
}

func isKey(p ir.Path) bool {
	_, ok := ansiblels.NewAncestry(p).ParentOfKey().Get()
	return ok
}
