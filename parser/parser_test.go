package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnolang/rsx/ast"
)

func literal(frags ...ast.Value) ast.Values {
	return ast.Values{Prefix: `"`, Fragments: frags, Suffix: `"`}
}

func TestParse(t *testing.T) {
	t.Parallel()
	src := `rsx!{div{class: "a",span{"hi {name}"}, "tail"}}`

	call, err := Parse(src, testSchema())
	require.NoError(t, err)

	want := &ast.RsxCall{
		Pos: 0,
		Nodes: []ast.Node{
			&ast.Element{
				Tag: "div",
				Pos: 5,
				Attributes: []ast.AttributeSet{
					{Name: "class", Value: literal(ast.Constant("a")), Pos: 9},
				},
				Children: []ast.Node{
					&ast.Element{
						Tag: "span",
						Pos: 20,
						Children: []ast.Node{
							&ast.Text{Value: literal(ast.Constant("hi "), ast.Variable("name")), Pos: 25},
						},
					},
					&ast.Text{Value: literal(ast.Constant("tail")), Pos: 39},
				},
			},
		},
	}
	assert.Equal(t, want, call)
}

func TestParseCommas(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		src  string
	}{
		{"empty call", `rsx!{}`},
		{"trailing attribute comma", `rsx!{input{value: "x",}}`},
		{"no attribute comma", `rsx!{input{r#type: "text" value: "x"}}`},
		{"many child commas", `rsx!{div{span{},,,span{},}}`},
		{"top level commas", `rsx!{div{},, span{},}`},
		{"whitespace everywhere", "rsx!  {\n\tdiv {\n\t\tclass: \"a\" ,\n\t}\n}\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := Parse(tc.src, testSchema())
			assert.NoError(t, err)
		})
	}
}

func TestParseErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		src      string
		err      error
		offset   int
		expected []string
	}{
		{"missing rsx", `div{}`, ErrUnexpectedToken, 0, []string{"rsx!"}},
		{"missing brace", `rsx! div{}`, ErrUnexpectedToken, 5, []string{"{"}},
		{"unclosed call", `rsx!{div{}`, ErrUnexpectedEOF, 10, []string{"element", "literal"}},
		{"unclosed element", `rsx!{div{`, ErrUnexpectedEOF, 9, []string{"attribute", "element", "literal", "}"}},
		{"attribute without value", `rsx!{div{class: span{}}}`, ErrUnexpectedToken, 16, []string{"literal"}},
		{"two commas after attribute", `rsx!{div{class: "a",,}}`, ErrUnexpectedToken, 20, []string{"attribute", "element", "literal", "}"}},
		{"trailing input", `rsx!{} div{}`, ErrUnexpectedToken, 7, []string{"end of input"}},
		{"stray pound", `rsx!{#}`, ErrUnexpectedToken, 5, []string{"element", "literal"}},
		{"question mark in element", `rsx!{div{?}}`, ErrUnexpectedToken, 9, []string{"attribute", "element", "literal", "}"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := Parse(tc.src, testSchema())
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.err)

			var parseErr *ParseError
			require.True(t, errors.As(err, &parseErr), "got %T", err)
			assert.Equal(t, tc.offset, parseErr.Token.Start)
			assert.Equal(t, tc.expected, parseErr.Expected)

			start, _, ok := Span(err)
			assert.True(t, ok)
			assert.Equal(t, tc.offset, start)
		})
	}
}

func TestParseLexicalErrorsPassThrough(t *testing.T) {
	t.Parallel()
	_, err := Parse(`rsx!{div{foo{}}}`, testSchema())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownElement)
	assert.Equal(t, `unknown element "foo" at offset 9`, err.Error())

	start, end, ok := Span(err)
	require.True(t, ok)
	assert.Equal(t, 9, start)
	assert.Equal(t, 13, end)
}

func TestParseDepth(t *testing.T) {
	t.Parallel()
	nested := func(n int) string {
		return "rsx!{" + strings.Repeat("div{", n) + strings.Repeat("}", n) + "}"
	}

	_, err := Parse(nested(DefaultMaxDepth), testSchema())
	assert.NoError(t, err)

	_, err = Parse(nested(DefaultMaxDepth+1), testSchema())
	assert.ErrorIs(t, err, ErrNestingTooDeep)

	_, err = Parse(nested(3), testSchema(), WithMaxDepth(2))
	assert.ErrorIs(t, err, ErrNestingTooDeep)

	_, err = Parse(nested(3), testSchema(), WithMaxDepth(0))
	assert.NoError(t, err)
}

func TestParserInheritsLexerOptions(t *testing.T) {
	t.Parallel()
	l := NewLexer(`rsx!{div{nope: "x"}}`, testSchema(), AllowUnknownAttributes())
	call, err := NewParser(l).Parse()
	require.NoError(t, err)

	el := call.Nodes[0].(*ast.Element)
	require.Len(t, el.Attributes, 1)
	assert.Equal(t, "nope", el.Attributes[0].Name)
}

func TestParseErrorMessage(t *testing.T) {
	t.Parallel()
	_, err := Parse(`rsx!{div{`, testSchema())
	require.Error(t, err)
	assert.Equal(t, `unexpected end of input at offset 9, expected attribute or element or literal or }`, err.Error())

	_, err = Parse(`rsx!{} ,`, testSchema())
	require.Error(t, err)
	assert.Equal(t, `unexpected token "," at offset 7, expected end of input`, err.Error())
}
