package api

import "strings"

// Node is a generic parsed markup element: a tag, an attribute map and
// ordered children. The tree builder consumes Nodes; it never sees raw
// markup. Tags may carry namespace prefixes, so lookups match by suffix.
type Node struct {
	Tag      string
	Attrib   map[string]string
	Text     string
	Children []*Node
}

// Attr returns the value of the named attribute and whether it was present.
func (n *Node) Attr(key string) (string, bool) {
	v, ok := n.Attrib[key]
	return v, ok
}

// Child returns the first child whose tag ends with the given suffix,
// or nil if there is none.
func (n *Node) Child(tag string) *Node {
	for _, c := range n.Children {
		if strings.HasSuffix(c.Tag, tag) {
			return c
		}
	}
	return nil
}
