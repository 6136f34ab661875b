// Package doctree models the parsed document tree that the translators walk.
//
// The node set mirrors the docutils doctree: every element has a kind, an
// ordered list of children and a small attribute map. Text runs are nodes of
// KindText carrying their content in Value.
package doctree

import (
	"slices"
	"strings"
)

// Node is one element of a document tree.
type Node struct {
	Kind     Kind
	Value    string
	Attrs    map[string]string
	IDs      []string
	Names    []string
	Classes  []string
	Parent   *Node
	Children []*Node
}

// New creates a detached node of the given kind.
func New(kind Kind, children ...*Node) *Node {
	n := &Node{Kind: kind}
	for _, c := range children {
		n.Append(c)
	}
	return n
}

// NewText creates a text node.
func NewText(value string) *Node {
	return &Node{Kind: KindText, Value: value}
}

// Append adds c as the last child of n and returns n.
func (n *Node) Append(c *Node) *Node {
	c.Parent = n
	n.Children = append(n.Children, c)
	return n
}

// Insert places c at position i among the children of n.
func (n *Node) Insert(i int, c *Node) {
	c.Parent = n
	n.Children = slices.Insert(n.Children, i, c)
}

// Remove detaches c from n. It reports whether c was a child of n.
func (n *Node) Remove(c *Node) bool {
	i := slices.Index(n.Children, c)
	if i < 0 {
		return false
	}
	n.Children = slices.Delete(n.Children, i, i+1)
	c.Parent = nil
	return true
}

// Index returns the position of n among its siblings, or -1 for a root.
func (n *Node) Index() int {
	if n.Parent == nil {
		return -1
	}
	return slices.Index(n.Parent.Children, n)
}

// FirstChild returns the first child of n, or nil.
func (n *Node) FirstChild() *Node {
	if len(n.Children) == 0 {
		return nil
	}
	return n.Children[0]
}

// ChildOfKind returns the first direct child with the given kind, or nil.
func (n *Node) ChildOfKind(kind Kind) *Node {
	for _, c := range n.Children {
		if c.Kind == kind {
			return c
		}
	}
	return nil
}

// Get returns an attribute value.
func (n *Node) Get(key string) (string, bool) {
	if n.Attrs == nil {
		return "", false
	}
	v, ok := n.Attrs[key]
	return v, ok
}

// Attr returns an attribute value or the empty string.
func (n *Node) Attr(key string) string {
	v, _ := n.Get(key)
	return v
}

// Set stores an attribute value and returns n.
func (n *Node) Set(key, value string) *Node {
	if n.Attrs == nil {
		n.Attrs = make(map[string]string)
	}
	n.Attrs[key] = value
	return n
}

// HasClass reports whether the author attached class c to n.
func (n *Node) HasClass(c string) bool {
	return slices.Contains(n.Classes, c)
}

// WithClasses appends classes and returns n.
func (n *Node) WithClasses(classes ...string) *Node {
	n.Classes = append(n.Classes, classes...)
	return n
}

// WithIDs appends ids and returns n.
func (n *Node) WithIDs(ids ...string) *Node {
	n.IDs = append(n.IDs, ids...)
	return n
}

// AsText returns the concatenated text content of the subtree.
func (n *Node) AsText() string {
	if n.Kind == KindText {
		return n.Value
	}
	var b strings.Builder
	n.writeText(&b)
	return b.String()
}

func (n *Node) writeText(b *strings.Builder) {
	for i, c := range n.Children {
		switch {
		case c.Kind == KindText:
			b.WriteString(c.Value)
		case c.Kind.IsBody() && i > 0:
			// block siblings are separated like docutils astext()
			b.WriteString("\n\n")
			c.writeText(b)
		default:
			c.writeText(b)
		}
	}
}

// Depth counts the ancestors of n whose kind is section.
func (n *Node) Depth() int {
	d := 0
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Kind == KindSection {
			d++
		}
	}
	return d
}
