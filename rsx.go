// Package rsx parses rsx! markup, renders it to HTML and formats it back to
// normalized rsx! text.
//
//	html, err := rsx.Render(`rsx!{div{class: "card", "hello {name}"}}`)
//	// <div class="card">hello {name}</div>
package rsx

import (
	"strings"

	"github.com/gnolang/rsx/ast"
	"github.com/gnolang/rsx/parser"
	"github.com/gnolang/rsx/render"
	"github.com/gnolang/rsx/schema"
)

// Engine ties a schema to the parser and renderers.
// An Engine is safe for concurrent use.
type Engine struct {
	schema           *schema.Schema
	strictAttributes bool
	xmlns            bool
	maxDepth         int
}

// Option configures an Engine.
type Option func(*Engine)

// WithSchema replaces the builtin schema.
func WithSchema(s *schema.Schema) Option {
	return func(e *Engine) { e.schema = s }
}

// WithStrictAttributes makes Render reject attribute names missing from the
// schema instead of dropping them.
func WithStrictAttributes(strict bool) Option {
	return func(e *Engine) { e.strictAttributes = strict }
}

// WithXMLNS controls xmlns attributes on namespaced elements.
func WithXMLNS(on bool) Option {
	return func(e *Engine) { e.xmlns = on }
}

// WithMaxDepth bounds element nesting.
func WithMaxDepth(depth int) Option {
	return func(e *Engine) { e.maxDepth = depth }
}

// New creates an Engine. Without options it uses schema.Default.
func New(opts ...Option) *Engine {
	e := &Engine{xmlns: true, maxDepth: parser.DefaultMaxDepth}
	for _, opt := range opts {
		opt(e)
	}
	if e.schema == nil {
		e.schema = schema.Default()
	}
	return e
}

func (e *Engine) Schema() *schema.Schema { return e.schema }

// Parse parses src, rejecting unknown element and attribute names.
func (e *Engine) Parse(src string) (*ast.RsxCall, error) {
	return parser.Parse(src, e.schema, parser.WithMaxDepth(e.maxDepth))
}

// Render parses src and returns its markup. Unless the engine is strict,
// attribute names are not checked while parsing; attributes without a schema
// entry for their element are left out of the output.
func (e *Engine) Render(src string) (string, error) {
	opts := []parser.Option{parser.WithMaxDepth(e.maxDepth)}
	if !e.strictAttributes {
		opts = append(opts, parser.AllowUnknownAttributes())
	}
	call, err := parser.Parse(src, e.schema, opts...)
	if err != nil {
		return "", err
	}
	return render.NewRenderer(e.schema, render.WithXMLNS(e.xmlns)).Render(call), nil
}

// Format parses src, a single rsx! call, and returns its normalized text.
func (e *Engine) Format(src string) (string, error) {
	call, err := e.Parse(src)
	if err != nil {
		return "", err
	}
	return render.Format(call), nil
}

// FormatFile formats every rsx! call embedded in a host file and returns
// the updated content. Continuation lines of a call are indented like the
// line the call starts on, with four-space steps when that line is indented
// with spaces. Text outside the calls is kept as is.
func (e *Engine) FormatFile(src string) (string, error) {
	spans, err := parser.FindCalls(src)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	last := 0
	for _, span := range spans {
		call, err := e.Parse(src[span.Start:span.End])
		if err != nil {
			return "", offsetError(err, span.Start)
		}
		prefix := lineIndent(src, span.Start)
		f := render.Formatter{Prefix: prefix}
		if prefix != "" && strings.Trim(prefix, " ") == "" {
			f.Indent = "    "
		}
		sb.WriteString(src[last:span.Start])
		sb.WriteString(f.Format(call))
		last = span.End
	}
	sb.WriteString(src[last:])
	return sb.String(), nil
}

// RenderFile renders every rsx! call embedded in a host file, one call per
// output line. Text outside the calls is ignored.
func (e *Engine) RenderFile(src string) (string, error) {
	spans, err := parser.FindCalls(src)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, span := range spans {
		out, err := e.Render(src[span.Start:span.End])
		if err != nil {
			return "", offsetError(err, span.Start)
		}
		sb.WriteString(out)
		sb.WriteByte('\n')
	}
	return sb.String(), nil
}

// Render renders src with the builtin schema.
func Render(src string) (string, error) { return New().Render(src) }

// Format formats src with the builtin schema.
func Format(src string) (string, error) { return New().Format(src) }

// lineIndent returns the leading whitespace of the line holding offset.
func lineIndent(src string, offset int) string {
	start := strings.LastIndexByte(src[:offset], '\n') + 1
	end := start
	for end < offset && (src[end] == ' ' || src[end] == '\t') {
		end++
	}
	return src[start:end]
}

// offsetError shifts the position of a parser error by base so it points
// into the host file.
func offsetError(err error, base int) error {
	switch e := err.(type) {
	case *parser.LexicalError:
		shifted := *e
		shifted.Offset += base
		shifted.End += base
		return &shifted
	case *parser.ParseError:
		shifted := *e
		shifted.Token.Start += base
		shifted.Token.End += base
		return &shifted
	}
	return err
}
