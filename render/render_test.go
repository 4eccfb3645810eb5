package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/gnolang/rsx/ast"
	"github.com/gnolang/rsx/parser"
	"github.com/gnolang/rsx/schema"
)

const svgNS = "http://www.w3.org/2000/svg"

func testSchema() *schema.Schema {
	return schema.New(
		map[string]string{
			"div": "", "span": "", "p": "", "input": "", "br": "", "img": "",
			"svg": svgNS, "path": svgNS, "use": svgNS, "foreignObject": svgNS,
		},
		map[string][]schema.Entry{
			"class":                {{Scope: schema.Global(), Name: "class"}},
			"color":                {{Scope: schema.Global(), Name: "color", Namespace: "style"}},
			"font_size":            {{Scope: schema.Global(), Name: "font_size", Namespace: "style", RenameTo: "font-size"}},
			"dangerous_inner_html": {{Scope: schema.Global(), Name: "dangerous_inner_html"}},
			"hidden":               {{Scope: schema.Global(), Name: "hidden"}},
			"r#type":               {{Scope: schema.Specific("input"), Name: "type"}},
			"disabled":             {{Scope: schema.Specific("input"), Name: "disabled"}},
			"d":                    {{Scope: schema.Specific("path"), Name: "d"}},
			"xmlns":                {{Scope: schema.Specific("svg"), Name: "xmlns"}},
			"xlink_href":           {{Scope: schema.Specific("use"), Name: "href", Namespace: "xlink"}},
			"width": {
				{Scope: schema.Global(), Name: "width", Namespace: "style"},
				{Scope: schema.Specific("img"), Name: "width"},
			},
		},
	)
}

func parse(t *testing.T, src string) *ast.RsxCall {
	t.Helper()
	call, err := parser.Parse(src, testSchema(), parser.AllowUnknownAttributes())
	require.NoError(t, err)
	return call
}

func TestMarkup(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "style entries share one attribute",
			src:  `rsx!{div{width: "100px",font_size: "2em",class: "box",color: "red"}}`,
			want: `<div style="width:100px;font-size:2em;color:red;" class="box"></div>`,
		},
		{
			name: "specific entry beats global",
			src:  `rsx!{img{width: "10"}, div{width: "10px"}}`,
			want: `<img width="10"/><div style="width:10px;"></div>`,
		},
		{
			name: "unknown and out of scope attributes are dropped",
			src:  `rsx!{div{r#type: "x", nope: "y", "z"}}`,
			want: `<div>z</div>`,
		},
		{
			name: "boolean false is omitted",
			src:  `rsx!{input{disabled: "false"}, input{disabled: "true", r#type: "text"}}`,
			want: `<input/><input disabled="true" type="text"/>`,
		},
		{
			name: "inner html is raw",
			src:  `rsx!{div{dangerous_inner_html: "<b>hi</b>"}}`,
			want: `<div><b>hi</b></div>`,
		},
		{
			name: "escaping",
			src:  `rsx!{p{class: "a<b&c", "x & y"}}`,
			want: `<p class="a&lt;b&amp;c">x &amp; y</p>`,
		},
		{
			name: "variables and escaped braces",
			src:  `rsx!{p{"{{literal}} {name}"}}`,
			want: `<p>{literal} {name}</p>`,
		},
		{
			name: "error fragments render as a sentinel",
			src:  `rsx!{p{"a { b"}}`,
			want: `<p>a !error! b</p>`,
		},
		{
			name: "namespaced attribute",
			src:  `rsx!{svg{use{xlink_href: "#icon"}}}`,
			want: `<svg xmlns="http://www.w3.org/2000/svg"><use xlink:href="#icon"></use></svg>`,
		},
		{
			name: "xmlns on namespace change only",
			src:  `rsx!{div{svg{path{d: "M0"}}}}`,
			want: `<div><svg xmlns="http://www.w3.org/2000/svg"><path d="M0"></path></svg></div>`,
		},
		{
			name: "explicit xmlns is written once",
			src:  `rsx!{svg{class: "icon", xmlns: "http://www.w3.org/2000/svg"}}`,
			want: `<svg class="icon" xmlns="http://www.w3.org/2000/svg"></svg>`,
		},
		{
			name: "explicit xmlns replaces the element namespace",
			src:  `rsx!{div{svg{xmlns: "urn:custom"}}}`,
			want: `<div><svg xmlns="urn:custom"></svg></div>`,
		},
		{
			name: "void element with children is closed",
			src:  `rsx!{br{}, br{"x"}}`,
			want: `<br/><br>x</br>`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, Markup(parse(t, tc.src), testSchema()))
		})
	}
}

func TestMarkupWithoutXMLNS(t *testing.T) {
	t.Parallel()
	call := parse(t, `rsx!{svg{path{d: "M0"}}}`)
	got := NewRenderer(testSchema(), WithXMLNS(false)).Render(call)
	assert.Equal(t, `<svg><path d="M0"></path></svg>`, got)
}

func TestMarkupIsWellFormed(t *testing.T) {
	t.Parallel()
	src := `rsx!{div{class: "card",
		p{"a < b"},
		svg{path{d: "M0 0"}},
		input{r#type: "text"},
		span{color: "red", "{name}"}
	}}`
	out := Markup(parse(t, src), testSchema())

	doc, err := html.Parse(strings.NewReader(out))
	require.NoError(t, err)

	var tags []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			tags = append(tags, n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	assert.Equal(t, []string{"html", "head", "body", "div", "p", "svg", "path", "input", "span"}, tags)
}

func TestMarkupDeepNesting(t *testing.T) {
	t.Parallel()
	const depth = 2000
	var el ast.Node = &ast.Text{Value: ast.Values{Prefix: `"`, Fragments: []ast.Value{ast.Constant("x")}, Suffix: `"`}}
	for range depth {
		el = &ast.Element{Tag: "div", Children: []ast.Node{el}}
	}
	call := &ast.RsxCall{Nodes: []ast.Node{el}}

	out := Markup(call, testSchema())
	assert.Equal(t, strings.Repeat("<div>", depth)+"x"+strings.Repeat("</div>", depth), out)

	formatted := Format(call)
	assert.Equal(t, 2*depth+2, strings.Count(formatted, "\n"))
}
