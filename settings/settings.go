// Package settings holds the configuration of the language server.
//
// Settings are layered: Default, then the JSON or YAML in the
// ANSIBLE_LS_SETTINGS environment variable, then what the client sends
// at initialization and with each configuration change.  Each layer is
// an RFC 7386 merge patch over the previous one.
package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	jsonpatch "github.com/evanphx/json-patch"
	"github.com/goccy/go-yaml"

	"github.com/signadot/ansiblels/debug"
)

const EnvVar = "ANSIBLE_LS_SETTINGS"

type Settings struct {
	Ansible    Ansible    `json:"ansible"`
	Completion Completion `json:"completion"`
	Validation Validation `json:"validation"`
	Watch      Watch      `json:"watch"`
}

type Ansible struct {
	// ModulesPaths are builtin module locations, such as
	// .../site-packages/ansible/modules.
	ModulesPaths []string `json:"modulesPaths"`
	// CollectionsPaths are roots holding ansible_collections.
	CollectionsPaths []string `json:"collectionsPaths"`
}

type Completion struct {
	ProvideModules       bool `json:"provideModules"`
	ProvideModuleOptions bool `json:"provideModuleOptions"`
	Snippets             bool `json:"snippets"`
}

type Validation struct {
	Syntax bool `json:"syntax"`
}

type Watch struct {
	Enabled bool `json:"enabled"`
	// Debounce is in milliseconds.
	Debounce int `json:"debounce"`
}

func (w Watch) Interval() time.Duration {
	return time.Duration(w.Debounce) * time.Millisecond
}

func Default() *Settings {
	return &Settings{
		Ansible: Ansible{
			ModulesPaths: []string{},
			CollectionsPaths: []string{
				"~/.ansible/collections",
				"/usr/share/ansible/collections",
			},
		},
		Completion: Completion{
			ProvideModules:       true,
			ProvideModuleOptions: true,
			Snippets:             true,
		},
		Validation: Validation{Syntax: true},
		Watch:      Watch{Enabled: true, Debounce: 500},
	}
}

// Merge applies the JSON merge patch to a copy of s.  A nil or empty
// patch leaves s as is.
func (s *Settings) Merge(patch []byte) (*Settings, error) {
	base, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	res, err := Merge(base, patch)
	if err != nil {
		return nil, err
	}
	out := &Settings{}
	if err := json.Unmarshal(res, out); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSettings, err)
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}

// Merge applies the JSON merge patch to the JSON document base.
func Merge(base, patch []byte) ([]byte, error) {
	if len(strings.TrimSpace(string(patch))) == 0 {
		return base, nil
	}
	res, err := jsonpatch.MergePatch(base, patch)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSettings, err)
	}
	return res, nil
}

func (s *Settings) Validate() error {
	if s.Watch.Debounce < 0 {
		return fmt.Errorf("%w: negative watch.debounce %d", ErrSettings, s.Watch.Debounce)
	}
	for _, p := range slices.Concat(s.Ansible.ModulesPaths, s.Ansible.CollectionsPaths) {
		if strings.TrimSpace(p) == "" {
			return fmt.Errorf("%w: empty search path", ErrSettings)
		}
	}
	return nil
}

// LoadEnv returns the settings patch held in the environment, as JSON.
// It returns nil when the variable is unset.
func LoadEnv() ([]byte, error) {
	v := os.Getenv(EnvVar)
	if strings.TrimSpace(v) == "" {
		return nil, nil
	}
	d, err := yaml.YAMLToJSON([]byte(v))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrSettings, EnvVar, err)
	}
	if debug.Env() {
		debug.Logf("%s: %s\n", EnvVar, d)
	}
	return d, nil
}

// Load returns the defaults patched by the environment.
func Load() (*Settings, error) {
	patch, err := LoadEnv()
	if err != nil {
		return nil, err
	}
	res, err := Default().Merge(patch)
	if err == nil && debug.Env() {
		debug.LogAny(res)
	}
	return res, err
}

// ModulesPaths returns the builtin module locations with '~' expanded.
func (s *Settings) ModulesPaths() []string {
	return expand(s.Ansible.ModulesPaths)
}

// CollectionsPaths returns the collection roots with '~' expanded.
func (s *Settings) CollectionsPaths() []string {
	return expand(s.Ansible.CollectionsPaths)
}

// SamePaths reports whether s and o search the same locations.
func (s *Settings) SamePaths(o *Settings) bool {
	return slices.Equal(s.Ansible.ModulesPaths, o.Ansible.ModulesPaths) &&
		slices.Equal(s.Ansible.CollectionsPaths, o.Ansible.CollectionsPaths)
}

func expand(paths []string) []string {
	home, _ := os.UserHomeDir()
	res := make([]string, 0, len(paths))
	for _, p := range paths {
		if home != "" && (p == "~" || strings.HasPrefix(p, "~/")) {
			p = filepath.Join(home, p[1:])
		}
		res = append(res, p)
	}
	return res
}
