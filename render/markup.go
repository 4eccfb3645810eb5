// Package render turns a parsed call into markup or back into normalized
// rsx! text. Both walks use an explicit stack, so their depth is bounded only
// by memory.
package render

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/gnolang/rsx/ast"
	"github.com/gnolang/rsx/schema"
)

// Resolver is the schema lookup the markup renderer needs.
// *schema.Schema implements it.
type Resolver interface {
	Resolve(name, tag string) (schema.Entry, bool)
	ElementNamespace(tag string) string
}

const (
	styleNamespace = "style"
	innerHTMLAttr  = "dangerous_inner_html"
)

var voidElements = map[atom.Atom]bool{
	atom.Area: true, atom.Base: true, atom.Br: true, atom.Col: true,
	atom.Embed: true, atom.Hr: true, atom.Img: true, atom.Input: true,
	atom.Link: true, atom.Meta: true, atom.Param: true, atom.Source: true,
	atom.Track: true, atom.Wbr: true,
}

// booleanAttributes are left out entirely when their value is "false".
var booleanAttributes = map[string]bool{
	"allowfullscreen": true, "async": true, "autofocus": true, "autoplay": true,
	"checked": true, "controls": true, "default": true, "defer": true,
	"disabled": true, "formnovalidate": true, "hidden": true, "loop": true,
	"multiple": true, "muted": true, "novalidate": true, "open": true,
	"playsinline": true, "readonly": true, "required": true, "reversed": true,
	"selected": true,
}

// Renderer writes markup for calls, resolving attributes through a schema.
type Renderer struct {
	resolver Resolver
	xmlns    bool
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithXMLNS controls whether an element whose namespace differs from its
// parent's writes an xmlns attribute. It is on by default.
func WithXMLNS(on bool) Option {
	return func(r *Renderer) { r.xmlns = on }
}

func NewRenderer(r Resolver, opts ...Option) *Renderer {
	rd := &Renderer{resolver: r, xmlns: true}
	for _, opt := range opts {
		opt(rd)
	}
	return rd
}

// Markup renders call with the default renderer options.
func Markup(call *ast.RsxCall, r Resolver) string {
	return NewRenderer(r).Render(call)
}

type resolved struct {
	entry schema.Entry
	value string
}

// Render returns the markup for call. Attributes that resolve to no schema
// entry for their element are dropped.
func (r *Renderer) Render(call *ast.RsxCall) string {
	var sb strings.Builder

	type frame struct {
		node     ast.Node
		parentNS string
		closeTag string
	}
	stack := make([]frame, 0, len(call.Nodes))
	for i := len(call.Nodes) - 1; i >= 0; i-- {
		stack = append(stack, frame{node: call.Nodes[i]})
	}

	for len(stack) > 0 {
		fr := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if fr.closeTag != "" {
			sb.WriteString(fr.closeTag)
			continue
		}

		switch n := fr.node.(type) {
		case *ast.Text:
			sb.WriteString(html.EscapeString(n.Value.Text()))

		case *ast.Element:
			ns := r.resolver.ElementNamespace(n.Tag)
			sb.WriteString("<" + n.Tag)
			var xmlns string
			if r.xmlns && ns != "" && ns != fr.parentNS {
				xmlns = ns
			}
			inner, hasInner := r.writeAttributes(&sb, n, xmlns)

			if len(n.Children) == 0 && !hasInner && voidElements[atom.Lookup([]byte(n.Tag))] {
				sb.WriteString("/>")
				continue
			}
			sb.WriteString(">")
			sb.WriteString(inner)

			stack = append(stack, frame{closeTag: "</" + n.Tag + ">"})
			for i := len(n.Children) - 1; i >= 0; i-- {
				stack = append(stack, frame{node: n.Children[i], parentNS: ns})
			}
		}
	}
	return sb.String()
}

// writeAttributes writes the resolved attributes of el and returns the raw
// inner HTML if one was set. Style entries are merged into a single style
// attribute written where the first of them appears. xmlns, when not empty,
// is written first unless el sets xmlns itself.
func (r *Renderer) writeAttributes(sb *strings.Builder, el *ast.Element, xmlns string) (inner string, hasInner bool) {
	attrs := make([]resolved, 0, len(el.Attributes))
	var style strings.Builder
	for _, a := range el.Attributes {
		entry, ok := r.resolver.Resolve(a.Name, el.Tag)
		if !ok {
			continue
		}
		value := a.Value.Text()
		switch {
		case entry.Namespace == styleNamespace:
			style.WriteString(entry.OutputName() + ":" + value + ";")
		case entry.Namespace == "" && entry.OutputName() == "xmlns":
			xmlns = ""
		}
		attrs = append(attrs, resolved{entry: entry, value: value})
	}
	if xmlns != "" {
		writeAttr(sb, "xmlns", xmlns)
	}

	styleWritten := false
	for _, a := range attrs {
		name := a.entry.OutputName()
		switch {
		case a.entry.Namespace == styleNamespace:
			if !styleWritten {
				writeAttr(sb, "style", style.String())
				styleWritten = true
			}
		case name == innerHTMLAttr:
			inner, hasInner = a.value, true
		case booleanAttributes[name] && a.value == "false":
			// absent means false
		case a.entry.Namespace != "":
			writeAttr(sb, a.entry.Namespace+":"+name, a.value)
		default:
			writeAttr(sb, name, a.value)
		}
	}
	return inner, hasInner
}

func writeAttr(sb *strings.Builder, name, value string) {
	sb.WriteString(" " + name + `="` + html.EscapeString(value) + `"`)
}
