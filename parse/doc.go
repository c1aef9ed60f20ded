// Package parse parses YAML text into ir nodes carrying byte ranges.
//
// # Usage
//
//	stream := parse.ParseAll(d)
//	for _, doc := range stream.Docs {
//	    ...
//	}
//
// The parser is tolerant: it never fails, and text which does not form
// valid YAML, such as a key still being typed, yields best effort nodes.
// Syntax errors are collected on the Stream.  [Parse] returns the first
// document and, with [Strict], fails on the first syntax error.
//
// The parser covers block mappings and sequences, flow collections,
// plain, quoted and block scalars, tags, anchors and multiple documents.
// Complex keys ("? ") are not supported.
package parse
