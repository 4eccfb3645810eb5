package parser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnolang/rsx/ast"
	"github.com/gnolang/rsx/schema"
)

func testSchema() *schema.Schema {
	return schema.New(
		map[string]string{"div": "", "span": "", "input": ""},
		map[string][]schema.Entry{
			"class":  {{Scope: schema.Global(), Name: "class"}},
			"r#type": {{Scope: schema.Specific("input"), Name: "type"}},
			"value":  {{Scope: schema.Specific("input"), Name: "value"}},
		},
	)
}

func TestLexer(t *testing.T) {
	t.Parallel()
	src := `rsx!{div{class: "a",}}`

	tokens, err := NewLexer(src, testSchema()).Tokenize()
	require.NoError(t, err)

	type tok struct {
		typ        TokenType
		value      string
		name       string
		start, end int
	}
	want := []tok{
		{TokenRsx, "rsx!", "", 0, 4},
		{TokenLBrace, "{", "", 4, 5},
		{TokenElement, "div{", "div", 5, 9},
		{TokenAttribute, "class:", "class", 9, 15},
		{TokenValues, `"a"`, "", 16, 19},
		{TokenComma, ",", "", 19, 20},
		{TokenRBrace, "}", "", 20, 21},
		{TokenRBrace, "}", "", 21, 22},
		{TokenEOF, "", "", 22, 22},
	}

	require.Len(t, tokens, len(want))
	for i, w := range want {
		assert.Equal(t, w.typ, tokens[i].Type, "token %d", i)
		assert.Equal(t, w.value, tokens[i].Value, "token %d", i)
		assert.Equal(t, w.name, tokens[i].Name, "token %d", i)
		assert.Equal(t, w.start, tokens[i].Start, "token %d", i)
		assert.Equal(t, w.end, tokens[i].End, "token %d", i)
	}
	assert.Equal(t, []ast.Value{ast.Constant("a")}, tokens[4].Values.Fragments)
}

func TestLexerNames(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		input string
		want  []TokenType
	}{
		{"spaces before brace", "div   {", []TokenType{TokenElement, TokenEOF}},
		{"raw identifier attribute", `r#type: "text"`, []TokenType{TokenAttribute, TokenValues, TokenEOF}},
		{"punctuation", "? # , { }", []TokenType{TokenQuestion, TokenPound, TokenComma, TokenLBrace, TokenRBrace, TokenEOF}},
		{"whitespace only", " \t\r\n\f", []TokenType{TokenEOF}},
		{"rsx with space", "rsx! {", []TokenType{TokenRsx, TokenLBrace, TokenEOF}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			tokens, err := NewLexer(tc.input, testSchema()).Tokenize()
			require.NoError(t, err)
			var got []TokenType
			for _, tok := range tokens {
				got = append(got, tok.Type)
			}
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestLexerErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		input  string
		err    error
		offset int
		text   string
	}{
		{"unknown element", "rsx!{foo{}}", ErrUnknownElement, 5, "foo"},
		{"unknown attribute", `div{ nope: "x" }`, ErrUnknownAttribute, 5, "nope"},
		{"unterminated literal", `div{ "abc`, ErrUnterminatedValue, 5, `"abc`},
		{"escaped quote does not terminate", `"a\"`, ErrUnterminatedValue, 0, `"a\"`},
		{"invalid character", "div{ ; }", ErrInvalidToken, 5, ";"},
		{"newline between name and brace", "div\n{", ErrInvalidToken, 0, "d"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewLexer(tc.input, testSchema()).Tokenize()
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.err)

			var lexErr *LexicalError
			require.True(t, errors.As(err, &lexErr))
			assert.Equal(t, tc.offset, lexErr.Offset)
			assert.Equal(t, tc.text, lexErr.Text)
		})
	}
}

func TestLexerAllowUnknownAttributes(t *testing.T) {
	t.Parallel()
	tokens, err := NewLexer(`nope: "x"`, testSchema(), AllowUnknownAttributes()).Tokenize()
	require.NoError(t, err)
	require.Len(t, tokens, 3)
	assert.Equal(t, TokenAttribute, tokens[0].Type)
	assert.Equal(t, "nope", tokens[0].Name)

	_, err = NewLexer(`foo{`, testSchema(), AllowUnknownAttributes()).Tokenize()
	assert.ErrorIs(t, err, ErrUnknownElement)
}

func TestLexerNextAfterEOF(t *testing.T) {
	t.Parallel()
	l := NewLexer("", testSchema())
	for range 3 {
		tok, err := l.Next()
		require.NoError(t, err)
		assert.Equal(t, TokenEOF, tok.Type)
	}
}

func TestLexValues(t *testing.T) {
	t.Parallel()
	tests := []struct {
		input string
		want  []ast.Value
	}{
		{"", nil},
		{"hello world", []ast.Value{ast.Constant("hello world")}},
		{"{x}", []ast.Value{ast.Variable("x")}},
		{"*{x}px", []ast.Value{ast.Constant("*"), ast.Variable("x"), ast.Constant("px")}},
		{"{{x}}px", []ast.Value{ast.Constant("{x}px")}},
		{"{a}{b}", []ast.Value{ast.Variable("a"), ast.Variable("b")}},
		{"{count:>3}", []ast.Value{ast.Variable("count")}},
		{"{_id2}", []ast.Value{ast.Variable("_id2")}},
		{"{2x}", []ast.Value{ast.ErrorValue("{"), ast.Constant("2x"), ast.ErrorValue("}")}},
		{"a { b", []ast.Value{ast.Constant("a "), ast.ErrorValue("{"), ast.Constant(" b")}},
		{"a } b", []ast.Value{ast.Constant("a "), ast.ErrorValue("}"), ast.Constant(" b")}},
		{"{{{x}", []ast.Value{ast.Constant("{"), ast.Variable("x")}},
		{"}}}", []ast.Value{ast.Constant("}"), ast.ErrorValue("}")}},
		{"{x", []ast.Value{ast.ErrorValue("{"), ast.Constant("x")}},
		{"héllo {nom}", []ast.Value{ast.Constant("héllo "), ast.Variable("nom")}},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, LexValues(tc.input), "input %q", tc.input)
	}
}

// Fragments must read back to the same fragments once written in source
// form, whatever the input.
func TestLexValuesSourceIsStable(t *testing.T) {
	t.Parallel()
	inputs := []string{
		"", "plain", "{x}", "{{", "}}", "{", "}", "{{{", "}}}", "{ {{ }", "a{b}c{{d}}e}",
		"{x:spec}", "{x:{y}}", "\\\" quoted", "{é}", "{{x}}{y}",
	}

	for _, input := range inputs {
		first := LexValues(input)
		v := ast.Values{Fragments: first}
		second := LexValues(v.Interior())
		assert.Equal(t, first, second, "input %q", input)

		for _, f := range first {
			if f.Kind == ast.ValueError {
				assert.Len(t, f.Text, 1, "error fragments cover one byte")
			}
		}
	}
}
