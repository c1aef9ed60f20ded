package debug

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

type debug struct {
	Scan    bool
	Index   bool
	Resolve bool
	Path    bool
	LSP     bool
	Watch   bool
	Env     bool
}

var d *debug

func init() {
	d = &debug{}
	d.Scan = boolEnv("ANSIBLE_LS_DEBUG_SCAN")
	d.Index = boolEnv("ANSIBLE_LS_DEBUG_INDEX")
	d.Resolve = boolEnv("ANSIBLE_LS_DEBUG_RESOLVE")
	d.Path = boolEnv("ANSIBLE_LS_DEBUG_PATH")
	d.LSP = boolEnv("ANSIBLE_LS_DEBUG_LSP")
	d.Watch = boolEnv("ANSIBLE_LS_DEBUG_WATCH")
	d.Env = boolEnv("ANSIBLE_LS_DEBUG_ENV")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Scan() bool {
	return d.Scan
}
func Index() bool {
	return d.Index
}
func Resolve() bool {
	return d.Resolve
}
func Path() bool {
	return d.Path
}
func LSP() bool {
	return d.LSP
}
func Watch() bool {
	return d.Watch
}
func Env() bool {
	return d.Env
}

func LogAny(v any) {
	d, err := json.Marshal(v)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", v)
		return
	}
	os.Stderr.Write(d)
}
