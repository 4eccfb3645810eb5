package ast

import (
	"fmt"
	"strings"
)

// ValueKind tells the fragments of a literal apart.
type ValueKind int

const (
	ValueConstant ValueKind = iota // decoded constant text
	ValueVariable                  // {name} placeholder
	ValueError                     // text that is neither
)

func (k ValueKind) String() string {
	switch k {
	case ValueConstant:
		return "Constant"
	case ValueVariable:
		return "Variable"
	case ValueError:
		return "Error"
	default:
		return "Unknown"
	}
}

// ErrorSentinel replaces error fragments in rendered text.
const ErrorSentinel = "!error!"

// Value is one fragment of a literal.
//
// For a constant, Text holds the decoded text ("{{" already collapsed to "{").
// For a variable, Text holds the bare identifier. For an error, Text holds
// the raw source that failed to lex.
type Value struct {
	Kind ValueKind
	Text string
}

func Constant(text string) Value  { return Value{Kind: ValueConstant, Text: text} }
func Variable(name string) Value  { return Value{Kind: ValueVariable, Text: name} }
func ErrorValue(raw string) Value { return Value{Kind: ValueError, Text: raw} }

// Source returns the fragment as it is written inside a literal.
func (v Value) Source() string {
	switch v.Kind {
	case ValueConstant:
		return EscapeBraces(v.Text)
	case ValueVariable:
		return "{" + v.Text + "}"
	default:
		return v.Text
	}
}

// Rendered returns the fragment as it appears in output text.
func (v Value) Rendered() string {
	switch v.Kind {
	case ValueConstant:
		return v.Text
	case ValueVariable:
		return "{" + v.Text + "}"
	default:
		return ErrorSentinel
	}
}

func (v Value) GoString() string {
	return fmt.Sprintf("%s(%q)", v.Kind, v.Text)
}

// Values is one literal: its delimiters and the fragments in between.
type Values struct {
	Prefix    string
	Fragments []Value
	Suffix    string
}

// Text renders the fragments without delimiters. Constants are emitted
// decoded, variables as {name}, errors as ErrorSentinel.
func (v Values) Text() string {
	var sb strings.Builder
	for _, f := range v.Fragments {
		sb.WriteString(f.Rendered())
	}
	return sb.String()
}

// Interior returns the literal's interior in source form.
func (v Values) Interior() string {
	var sb strings.Builder
	for _, f := range v.Fragments {
		sb.WriteString(f.Source())
	}
	return sb.String()
}

// String returns the literal in source form, delimiters included.
func (v Values) String() string {
	return v.Prefix + v.Interior() + v.Suffix
}

// Variables returns the identifiers referenced by the literal, in order.
func (v Values) Variables() []string {
	var names []string
	for _, f := range v.Fragments {
		if f.Kind == ValueVariable {
			names = append(names, f.Text)
		}
	}
	return names
}

// HasErrors reports whether any fragment failed to lex.
func (v Values) HasErrors() bool {
	for _, f := range v.Fragments {
		if f.Kind == ValueError {
			return true
		}
	}
	return false
}

// EscapeBraces doubles every brace so the text reads back as a constant.
func EscapeBraces(s string) string {
	if !strings.ContainsAny(s, "{}") {
		return s
	}
	var sb strings.Builder
	sb.Grow(len(s) + 4)
	for i := 0; i < len(s); i++ {
		c := s[i]
		sb.WriteByte(c)
		if c == '{' || c == '}' {
			sb.WriteByte(c)
		}
	}
	return sb.String()
}
