package render

import (
	"strings"

	"github.com/gnolang/rsx/ast"
)

// Formatter writes the normalized text form of a call: one attribute or
// child per line, each attribute followed by a comma, Indent repeated once
// per depth.
type Formatter struct {
	Indent string // defaults to a tab
	Prefix string // written before every line but the first
}

// Format returns the normalized text of call using tab indentation.
func Format(call *ast.RsxCall) string {
	return Formatter{}.Format(call)
}

func (f Formatter) Format(call *ast.RsxCall) string {
	indent := f.Indent
	if indent == "" {
		indent = "\t"
	}

	var sb strings.Builder
	line := func(depth int, s string) {
		sb.WriteString(f.Prefix)
		sb.WriteString(strings.Repeat(indent, depth))
		sb.WriteString(s)
		sb.WriteByte('\n')
	}

	sb.WriteString("rsx! {\n")

	type frame struct {
		node    ast.Node
		depth   int
		closing bool
	}
	stack := make([]frame, 0, len(call.Nodes))
	for i := len(call.Nodes) - 1; i >= 0; i-- {
		stack = append(stack, frame{node: call.Nodes[i], depth: 1})
	}

	for len(stack) > 0 {
		fr := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch n := fr.node.(type) {
		case *ast.Text:
			line(fr.depth, n.Value.String())
		case *ast.Element:
			if fr.closing {
				line(fr.depth, "}")
				continue
			}
			line(fr.depth, n.Tag+" {")
			for _, attr := range n.Attributes {
				line(fr.depth+1, attr.Name+": "+attr.Value.String()+",")
			}
			stack = append(stack, frame{node: n, depth: fr.depth, closing: true})
			for i := len(n.Children) - 1; i >= 0; i-- {
				stack = append(stack, frame{node: n.Children[i], depth: fr.depth + 1})
			}
		}
	}

	sb.WriteString(f.Prefix)
	sb.WriteString("}")
	return sb.String()
}
