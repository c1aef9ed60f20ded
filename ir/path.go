package ir

import (
	"strconv"
	"strings"
)

// Path is an ancestry path: nodes from a document root down to the node
// enclosing some offset.  A mapping is followed directly by the key or
// value of one of its pairs; the pair itself is not part of the path.
type Path []Node

func (p Path) Last() Node {
	if len(p) == 0 {
		return nil
	}
	return p[len(p)-1]
}

// String renders p like "$[0].debug.msg".  A trailing key position is
// rendered with a '?' suffix, a trailing empty marker as "[]".
func (p Path) String() string {
	buf := &strings.Builder{}
	buf.WriteByte('$')
	for i := 1; i < len(p); i++ {
		switch parent := p[i-1].(type) {
		case *Mapping:
			pair := parent.PairOf(p[i])
			if pair == nil {
				if _, ok := p[i].(*Empty); ok {
					buf.WriteString("[]")
				}
				continue
			}
			buf.WriteString("." + field(KeyString(pair)))
			if pair.Key == p[i] && i == len(p)-1 {
				buf.WriteByte('?')
			}
		case *Sequence:
			j := indexOf(parent.Items, p[i])
			if j == -1 {
				buf.WriteString("[]")
				continue
			}
			buf.WriteString("[" + strconv.Itoa(j) + "]")
		}
	}
	return buf.String()
}

func field(f string) string {
	if f != "" && strings.IndexAny(f, "'.*$[]? ") == -1 {
		return f
	}
	return "'" + strings.ReplaceAll(f, "'", "\\'") + "'"
}

func indexOf(items []Node, n Node) int {
	for i, item := range items {
		if item == n {
			return i
		}
	}
	return -1
}

// Kinds returns the kinds of the nodes in p.
func (p Path) Kinds() []Kind {
	res := make([]Kind, len(p))
	for i, n := range p {
		res[i] = n.Kind()
	}
	return res
}
