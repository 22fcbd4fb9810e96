package penman

import "strings"

// Encode serializes a Graph back to PENMAN text using a fixed
// configuration: single line, no indentation. Re-decoding the result
// reproduces an identical Node tree, which is what makes canonicalize
// idempotent.
func Encode(g *Graph) string {
	if g == nil || g.Root == nil {
		return ""
	}
	var b strings.Builder
	encodeNode(&b, g.Root)
	return b.String()
}

func encodeNode(b *strings.Builder, n *Node) {
	b.WriteByte('(')
	b.WriteString(n.Variable)
	if n.HasConcept {
		b.WriteString(" / ")
		b.WriteString(n.Concept)
	}
	for _, e := range n.Edges {
		b.WriteByte(' ')
		b.WriteString(e.Role)
		b.WriteByte(' ')
		if e.Target != nil {
			encodeNode(b, e.Target)
		} else if e.AtomQuoted {
			b.WriteByte('"')
			b.WriteString(e.Atom)
			b.WriteByte('"')
		} else {
			b.WriteString(e.Atom)
		}
	}
	b.WriteByte(')')
}
