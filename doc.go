// Package ansiblels locates a cursor inside Ansible YAML content.
//
// [ResolvePath] computes the ancestry path of an offset in a parsed
// document, [Ancestry] walks such a path upwards asserting its shape, and
// [MayBeModule] and friends classify the position as a module name, a
// task, play, block or role keyword, or a module option.
//
// Documentation lookup lives in the docs package and the language server
// in lsp.
package ansiblels
