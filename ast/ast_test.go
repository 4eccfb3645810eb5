package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValues(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		values    Values
		text      string
		source    string
		variables []string
		hasErrors bool
	}{
		{
			name:   "constant",
			values: Values{Prefix: `"`, Fragments: []Value{Constant("100px")}, Suffix: `"`},
			text:   "100px",
			source: `"100px"`,
		},
		{
			name:      "variable between constants",
			values:    Values{Prefix: `"`, Fragments: []Value{Constant("*"), Variable("x"), Constant("px")}, Suffix: `"`},
			text:      "*{x}px",
			source:    `"*{x}px"`,
			variables: []string{"x"},
		},
		{
			name:   "decoded braces are escaped again in source",
			values: Values{Prefix: `"`, Fragments: []Value{Constant("{x}px")}, Suffix: `"`},
			text:   "{x}px",
			source: `"{{x}}px"`,
		},
		{
			name:      "error fragment",
			values:    Values{Prefix: `"`, Fragments: []Value{Constant("a "), ErrorValue("{"), Constant(" b")}, Suffix: `"`},
			text:      "a !error! b",
			source:    `"a { b"`,
			hasErrors: true,
		},
		{
			name:   "empty literal",
			values: Values{Prefix: `"`, Suffix: `"`},
			text:   "",
			source: `""`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.text, tc.values.Text())
			assert.Equal(t, tc.source, tc.values.String())
			assert.Equal(t, tc.variables, tc.values.Variables())
			assert.Equal(t, tc.hasErrors, tc.values.HasErrors())
		})
	}
}

func TestEscapeBraces(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "plain", EscapeBraces("plain"))
	assert.Equal(t, "{{}}", EscapeBraces("{}"))
	assert.Equal(t, "a{{b}}c}}", EscapeBraces("a{b}c}"))
}

func TestValueKindString(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "Constant", ValueConstant.String())
	assert.Equal(t, "Variable", ValueVariable.String())
	assert.Equal(t, "Error", ValueError.String())
	assert.Equal(t, "Unknown", ValueKind(42).String())
	assert.Equal(t, `Variable("x")`, Variable("x").GoString())
}

func TestElementString(t *testing.T) {
	t.Parallel()
	el := &Element{
		Tag: "div",
		Attributes: []AttributeSet{
			{Name: "class", Value: Values{Prefix: `"`, Fragments: []Value{Constant("x")}, Suffix: `"`}},
		},
		Children: []Node{&Text{Value: Values{Prefix: `"`, Suffix: `"`}}},
	}

	want := "Element(div, 1 attributes, 1 children):\n" +
		"  @class: \"x\"\n" +
		"  0: Text(\"\")"
	assert.Equal(t, want, el.String())
	assert.Equal(t, NodeElement, el.Type())
	assert.Equal(t, NodeText, el.Children[0].Type())
}
