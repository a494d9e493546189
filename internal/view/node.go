// Package view renders dashboard data into declarative node trees.
//
// Renderers are pure: no I/O, no shared state, and the current time is an
// argument. A surface (the TUI, or plain text output) decides how a tree is
// drawn.
package view

import "strings"

// Kind is the role of a node within a tree.
type Kind string

const (
	KindBox     Kind = "box"
	KindHeading Kind = "heading"
	KindText    Kind = "text"
	KindBadge   Kind = "badge"
	KindLink    Kind = "link"
	KindButton  Kind = "button"
)

// Node is one element of a rendered tree.
type Node struct {
	Kind     Kind
	Class    string
	Text     string
	Href     string
	Action   string
	Children []*Node
}

func box(class string, children ...*Node) *Node {
	return &Node{Kind: KindBox, Class: class, Children: children}
}

func text(class, s string) *Node {
	return &Node{Kind: KindText, Class: class, Text: s}
}

func heading(class, s string) *Node {
	return &Node{Kind: KindHeading, Class: class, Text: s}
}

func badge(class, s string) *Node {
	return &Node{Kind: KindBadge, Class: class, Text: s}
}

// HasClass reports whether the node's class list contains class.
func (n *Node) HasClass(class string) bool {
	if n == nil {
		return false
	}
	for _, c := range strings.Fields(n.Class) {
		if c == class {
			return true
		}
	}
	return false
}

// Walk visits n and its descendants depth-first until fn returns false.
func (n *Node) Walk(fn func(*Node) bool) bool {
	if n == nil {
		return true
	}
	if !fn(n) {
		return false
	}
	for _, c := range n.Children {
		if !c.Walk(fn) {
			return false
		}
	}
	return true
}

// Find returns the first node carrying class, or nil.
func (n *Node) Find(class string) *Node {
	var found *Node
	n.Walk(func(x *Node) bool {
		if x.HasClass(class) {
			found = x
			return false
		}
		return true
	})
	return found
}

// FindAll returns every node carrying class in tree order.
func (n *Node) FindAll(class string) []*Node {
	var out []*Node
	n.Walk(func(x *Node) bool {
		if x.HasClass(class) {
			out = append(out, x)
		}
		return true
	})
	return out
}

// Actions returns every action id in the tree in order.
func (n *Node) Actions() []string {
	var out []string
	n.Walk(func(x *Node) bool {
		if x.Action != "" {
			out = append(out, x.Action)
		}
		return true
	})
	return out
}

// PlainText flattens the tree into indented lines of text.
func (n *Node) PlainText() string {
	var b strings.Builder
	n.plain(&b, 0)
	return b.String()
}

func (n *Node) plain(b *strings.Builder, depth int) {
	if n == nil {
		return
	}
	if n.Text != "" {
		b.WriteString(strings.Repeat("  ", depth))
		switch n.Kind {
		case KindBadge:
			b.WriteString("[" + n.Text + "]")
		case KindButton:
			b.WriteString("<" + n.Text + ">")
		default:
			b.WriteString(n.Text)
		}
		if n.Href != "" {
			b.WriteString(" (" + n.Href + ")")
		}
		b.WriteByte('\n')
	}
	next := depth
	if n.Kind == KindBox && n.Text == "" {
		next = depth + 1
	}
	for _, c := range n.Children {
		c.plain(b, next)
	}
}
