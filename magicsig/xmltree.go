package magicsig

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
)

// utf8BOM is the UTF-8 encoded byte-order mark some producers prepend.
var utf8BOM = []byte("\xef\xbb\xbf")

// node is a minimal element tree, enough to locate envelope and author
// elements by namespace and local name.
type node struct {
	name     xml.Name
	attrs    []xml.Attr
	children []*node
	text     strings.Builder
}

// attr returns the value of the unqualified attribute local.
func (n *node) attr(local string) string {
	for _, a := range n.attrs {
		if a.Name.Space == "" && a.Name.Local == local {
			return a.Value
		}
	}

	return ""
}

// descendants returns all elements below n, in document order, matching
// space and local. An empty space matches any namespace.
func (n *node) descendants(space, local string) []*node {
	var out []*node

	var walk func(*node)
	walk = func(cur *node) {
		for _, c := range cur.children {
			if c.name.Local == local && (space == "" || c.name.Space == space) {
				out = append(out, c)
			}
			walk(c)
		}
	}
	walk(n)

	return out
}

// single returns the only descendant matching space and local.
func (n *node) single(space, local string) (*node, error) {
	found := n.descendants(space, local)

	switch len(found) {
	case 1:
		return found[0], nil
	case 0:
		return nil, fmt.Errorf("%w: no %s element", ErrFormat, local)
	default:
		return nil, fmt.Errorf("%w: %d %s elements, expected exactly one", ErrFormat, len(found), local)
	}
}

// newDecoder returns an xml.Decoder that understands the charsets commonly
// declared by feeds, not just UTF-8.
func newDecoder(r io.Reader) *xml.Decoder {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel

	return dec
}

// parseTree decodes a single-rooted XML document.
func parseTree(data []byte) (*node, error) {
	dec := newDecoder(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))

	var (
		root  *node
		stack []*node
	)

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFormat, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if len(stack) == 0 && root != nil {
				return nil, fmt.Errorf("%w: multiple root elements", ErrFormat)
			}

			n := &node{name: t.Name, attrs: t.Attr}
			if len(stack) == 0 {
				root = n
			} else {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, n)
			}

			stack = append(stack, n)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text.Write(t)
			} else if len(bytes.TrimSpace(t)) > 0 {
				return nil, fmt.Errorf("%w: text outside the root element", ErrFormat)
			}
		}
	}

	if root == nil {
		return nil, fmt.Errorf("%w: no root element", ErrFormat)
	}

	if len(stack) > 0 {
		return nil, fmt.Errorf("%w: unclosed element %s", ErrFormat, stack[len(stack)-1].name.Local)
	}

	return root, nil
}
