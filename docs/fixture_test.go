package docs

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

const debugSource = `#!/usr/bin/python
# -*- coding: utf-8 -*-

DOCUMENTATION = r'''
---
module: debug
short_description: Print statements during execution
description:
- This module prints statements during execution.
options:
  msg:
    description: The customized message that is printed.
    type: str
    default: Hello world!
  var:
    description: A variable name to debug.
    type: str
  verbosity:
    description: A number that controls when the debug is run.
    type: int
    default: 0
notes:
- Module note.
'''

EXAMPLES = r'''
- debug:
    msg: hi
'''
`

const pingSource = `DOCUMENTATION = '''
module: ping
short_description: Try to connect to host
options:
  data:
    description: Data to return.
    type: str
    default: pong
'''
`

const commandSource = `DOCUMENTATION = r'''
module: command
short_description: Execute commands on targets
options:
  cmd:
    type: str
    description: The command to run.
'''
`

const filesFragment = `class ModuleDocFragment(object):
    DOCUMENTATION = r'''
options:
  mode:
    description: Mode from fragment.
    type: raw
  owner:
    description: Owner.
    type: str
notes:
  - A
'''
`

const attrsFragment = `class ModuleDocFragment(object):
    DOCUMENTATION = r'''
options:
  attributes:
    description: Attributes.
    type: str
    aliases: [attr]
'''
`

const fooSource = `from __future__ import annotations

DOCUMENTATION = """
module: foo
short_description: Foo things
extends_documentation_fragment:
  - files
  - community.general.attrs
notes:
  - B
options:
  name:
    description: Name.
    required: true
    type: str
  mode:
    description: Overridden mode.
    type: str
"""
`

const builtinRuntime = `plugin_routing:
  modules:
    old_debug:
      redirect: ansible.builtin.debug
      deprecation:
        removal_version: "2.20"
        warning_text: Use debug instead.
    gone:
      tombstone:
        removal_version: "2.10"
        warning_text: It is gone.
`

const collectionRuntime = `requires_ansible: ">=2.15"
plugin_routing:
  modules:
    bar:
      redirect: community.general.foo
`

// ansibleTree lays out a builtin modules location and a collections
// root.
func ansibleTree(t *testing.T) (modules, collections string) {
	root := writeTree(t, map[string]string{
		"lib/ansible/modules/debug.py":                          debugSource,
		"lib/ansible/modules/ping.py":                           pingSource,
		"lib/ansible/modules/_hidden.py":                        pingSource,
		"lib/ansible/modules/nodoc.py":                          "import os\n",
		"lib/ansible/modules/README.md":                         "# modules\n",
		"lib/ansible/modules/commands/command.py":               commandSource,
		"lib/ansible/plugins/doc_fragments/files.py":            filesFragment,
		"lib/ansible/config/ansible_builtin_runtime.yml":        builtinRuntime,
		"colls/ansible_collections/community/general/plugins/modules/foo.py":        fooSource,
		"colls/ansible_collections/community/general/plugins/doc_fragments/attrs.py": attrsFragment,
		"colls/ansible_collections/community/general/meta/runtime.yml":               collectionRuntime,
	})
	return filepath.Join(root, "lib", "ansible", "modules"), filepath.Join(root, "colls")
}

func ansibleIndex(t *testing.T) *Index {
	t.Helper()
	modules, colls := ansibleTree(t)
	x, err := BuildIndex(context.Background(), []string{modules}, []string{colls})
	if err != nil {
		t.Fatal(err)
	}
	return x
}
