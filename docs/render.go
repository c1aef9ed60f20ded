package docs

import (
	"fmt"
	"regexp"
	"strings"
)

// markup matches Ansible documentation markup such as I(text) or
// L(text,url).
var markup = regexp.MustCompile(`\b([IBCMULROVEP])\(([^)]*)\)|\bHORIZONTALLINE\b`)

// Markdown translates Ansible documentation markup in s to markdown.
func Markdown(s string) string {
	return markup.ReplaceAllStringFunc(s, func(m string) string {
		if m == "HORIZONTALLINE" {
			return "\n\n---\n\n"
		}
		arg := m[2 : len(m)-1]
		switch m[0] {
		case 'I':
			return "*" + arg + "*"
		case 'B':
			return "**" + arg + "**"
		case 'C', 'M', 'O', 'V', 'E':
			return "`" + arg + "`"
		case 'P':
			name, _, _ := strings.Cut(arg, "#")
			return "`" + name + "`"
		case 'U':
			return "[" + arg + "](" + arg + ")"
		case 'L':
			text, url, ok := strings.Cut(arg, ",")
			if !ok {
				return arg
			}
			return "[" + strings.TrimSpace(text) + "](" + strings.TrimSpace(url) + ")"
		case 'R':
			text, _, _ := strings.Cut(arg, ",")
			return strings.TrimSpace(text)
		}
		return m
	})
}

func paragraphs(ls []string) string {
	res := make([]string, len(ls))
	for i, l := range ls {
		res[i] = Markdown(l)
	}
	return strings.Join(res, "\n\n")
}

// Details summarizes whether o is required and its type, as in
// "(required) list(str)".
func Details(o *Option) string {
	var parts []string
	if o.Required {
		parts = append(parts, "(required)")
	}
	switch {
	case o.Type == "list" && o.Elements != "":
		parts = append(parts, "list("+o.Elements+")")
	case o.Type != "":
		parts = append(parts, o.Type)
	}
	return strings.Join(parts, " ")
}

// FormatOption renders the documentation of o.  With details set the
// name and details line come first.
func FormatOption(o *Option, details bool) string {
	buf := &strings.Builder{}
	if details {
		fmt.Fprintf(buf, "**%s**", o.Name)
		if d := Details(o); d != "" {
			fmt.Fprintf(buf, " `%s`", d)
		}
		buf.WriteString("\n\n")
	}
	buf.WriteString(paragraphs(o.Description))
	if len(o.Choices) != 0 {
		choices := make([]string, len(o.Choices))
		for i, c := range o.Choices {
			choices[i] = "`" + stringOf(c) + "`"
			if o.Default != nil && stringOf(c) == stringOf(o.Default) {
				choices[i] += " (default)"
			}
		}
		fmt.Fprintf(buf, "\n\n**Choices**: %s", strings.Join(choices, ", "))
	} else if o.Default != nil {
		fmt.Fprintf(buf, "\n\n**Default**: `%s`", stringOf(o.Default))
	}
	if len(o.Aliases) != 0 {
		fmt.Fprintf(buf, "\n\n**Aliases**: %s", strings.Join(o.Aliases, ", "))
	}
	if o.VersionAdded != "" {
		fmt.Fprintf(buf, "\n\n*Added in version %s*", o.VersionAdded)
	}
	return strings.TrimSpace(buf.String())
}

// FormatModule renders the documentation of m.  r is the route the
// module was found through and may be nil.
func FormatModule(m *Module, r *Route) string {
	buf := &strings.Builder{}
	fmt.Fprintf(buf, "**%s**", m.FQCN)
	if sd := m.ShortDescription(); sd != "" {
		fmt.Fprintf(buf, "\n\n*%s*", Markdown(sd))
	}
	if r != nil {
		writeNotice(buf, "Removed", r.Tombstone)
		writeNotice(buf, "Deprecated", r.Deprecation)
		if r.Redirect != "" && r.FQCN != m.FQCN {
			fmt.Fprintf(buf, "\n\n%s redirects to %s", r.FQCN, m.FQCN)
		}
	}
	if n, ok := m.Deprecated(); ok {
		writeNotice(buf, "Deprecated", n)
	}
	if d := m.Description(); len(d) != 0 {
		buf.WriteString("\n\n" + paragraphs(d))
	}
	writeList(buf, "Requirements", m.Requirements())
	writeList(buf, "Notes", m.Notes())
	if v := m.VersionAdded(); v != "" {
		fmt.Fprintf(buf, "\n\n*Added in version %s*", v)
	}
	return buf.String()
}

func writeNotice(buf *strings.Builder, what string, n *Notice) {
	if n == nil {
		return
	}
	fmt.Fprintf(buf, "\n\n> **%s**", what)
	switch {
	case n.RemovalVersion != "":
		fmt.Fprintf(buf, " (removal in version %s)", n.RemovalVersion)
	case n.RemovalDate != "":
		fmt.Fprintf(buf, " (removal after %s)", n.RemovalDate)
	}
	if n.WarningText != "" {
		buf.WriteString(": " + Markdown(n.WarningText))
	}
}

func writeList(buf *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(buf, "\n\n**%s**\n", title)
	for _, item := range items {
		buf.WriteString("\n- " + Markdown(item))
	}
}
