// Package token provides byte level YAML lexing support: line and
// indentation helpers, scalar extents and position translation.
//
// The helpers never fail on malformed input; they report the extent
// they could recognize and, where relevant, an error describing what was
// wrong.  The parse package builds a tolerant structural parser on top of
// them.
package token
