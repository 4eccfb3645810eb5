// Package ast defines the tree produced by the parser for an rsx! call.
package ast

import (
	"fmt"
	"strings"
)

// NodeType identifies the concrete type behind a Node.
type NodeType int

const (
	NodeElement NodeType = iota
	NodeText
)

// Node is a child of an element or of the call root.
type Node interface {
	Type() NodeType
	String() string // debugging or printing purpose
	Position() int  // byte offset where the node starts in the source
}

var (
	_ Node = (*Element)(nil)
	_ Node = (*Text)(nil)
)

// AttributeSet is one `name: "value"` line of an element. Name is the
// template-level name exactly as written (e.g. "r#type").
type AttributeSet struct {
	Name  string
	Value Values
	Pos   int
}

func (a AttributeSet) String() string {
	return a.Name + ": " + a.Value.String()
}

// Element is a tag with its attributes and children in source order.
type Element struct {
	Tag        string
	Attributes []AttributeSet
	Children   []Node
	Pos        int
}

func (e *Element) Type() NodeType { return NodeElement }
func (e *Element) Position() int  { return e.Pos }

func (e *Element) String() string {
	result := fmt.Sprintf("Element(%s, %d attributes, %d children):\n", e.Tag, len(e.Attributes), len(e.Children))
	for _, attr := range e.Attributes {
		result += "  @" + attr.String() + "\n"
	}
	for i, child := range e.Children {
		childStr := strings.ReplaceAll(child.String(), "\n", "\n  ")
		result += fmt.Sprintf("  %d: %s\n", i, childStr)
	}
	return strings.TrimRight(result, "\n")
}

// Text is a literal used as a child node.
type Text struct {
	Value Values
	Pos   int
}

func (t *Text) Type() NodeType { return NodeText }
func (t *Text) Position() int  { return t.Pos }
func (t *Text) String() string { return "Text(" + t.Value.String() + ")" }

// RsxCall is the root of a parsed `rsx!{ ... }` invocation.
type RsxCall struct {
	Nodes []Node
	Pos   int
}

func (c *RsxCall) String() string {
	result := fmt.Sprintf("RsxCall(%d nodes):\n", len(c.Nodes))
	for i, n := range c.Nodes {
		result += fmt.Sprintf("  %d: %s\n", i, strings.ReplaceAll(n.String(), "\n", "\n  "))
	}
	return strings.TrimRight(result, "\n")
}
