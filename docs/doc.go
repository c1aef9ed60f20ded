// Package docs scans module documentation out of Ansible module sources
// and indexes it for lookup by name.
//
// Modules and documentation fragments are found under builtin module
// locations and collection roots.  Each source file carries its
// documentation as YAML in a DOCUMENTATION string assignment.  A module
// extending fragments is merged with them the first time it is resolved.
package docs
