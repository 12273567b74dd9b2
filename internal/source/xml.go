// Package source turns logic tree definition files into the generic node
// trees and branch set lists the builder consumes. It knows nothing about
// logic tree semantics beyond locating the right elements.
package source

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/openhazard/logictree/api"
)

// ReadXML parses an NRML-flavored XML document into a generic node tree and
// returns its logicTree element. Namespace prefixes are dropped; only local
// tag names survive, which is why downstream matching is suffix-based.
func ReadXML(path string) (*api.Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	root, err := parseNodes(xml.NewDecoder(f))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	lt := findLogicTree(root)
	if lt == nil {
		return nil, fmt.Errorf("%s: no logicTree element", path)
	}
	return lt, nil
}

func parseNodes(dec *xml.Decoder) (*api.Node, error) {
	var root *api.Node
	var stack []*api.Node
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			n := &api.Node{Tag: t.Name.Local, Attrib: make(map[string]string, len(t.Attr))}
			for _, a := range t.Attr {
				n.Attrib[a.Name.Local] = a.Value
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, errors.New("multiple document roots")
				}
				root = n
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, n)
			}
			stack = append(stack, n)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].Text += string(t)
			}
		}
	}
	if root == nil {
		return nil, errors.New("empty document")
	}
	return root, nil
}

// findLogicTree locates the first element tagged logicTree, searching under
// an nrml wrapper element when present.
func findLogicTree(n *api.Node) *api.Node {
	if strings.HasSuffix(n.Tag, "logicTree") {
		return n
	}
	for _, c := range n.Children {
		if lt := findLogicTree(c); lt != nil {
			return lt
		}
	}
	return nil
}
