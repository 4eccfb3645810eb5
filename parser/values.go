package parser

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gnolang/rsx/ast"
)

// LexValues splits the interior of a literal into fragments. The fragments
// cover the whole input in order. A variable is tried before a constant at
// every position, so "{x}" is never swallowed by the text around it.
func LexValues(input string) []ast.Value {
	var (
		frags []ast.Value
		text  strings.Builder
		pos   int
	)

	flush := func() {
		if text.Len() > 0 {
			frags = append(frags, ast.Constant(text.String()))
			text.Reset()
		}
	}

	for pos < len(input) {
		c := input[pos]
		switch {
		case c == '{':
			if name, end, ok := matchVariable(input, pos); ok {
				flush()
				frags = append(frags, ast.Variable(name))
				pos = end
				continue
			}
			if pos+1 < len(input) && input[pos+1] == '{' {
				text.WriteByte('{')
				pos += 2
				continue
			}
			flush()
			frags = append(frags, ast.ErrorValue("{"))
			pos++

		case c == '}':
			if pos+1 < len(input) && input[pos+1] == '}' {
				text.WriteByte('}')
				pos += 2
				continue
			}
			flush()
			frags = append(frags, ast.ErrorValue("}"))
			pos++

		default:
			text.WriteByte(c)
			pos++
		}
	}
	flush()

	return frags
}

// matchVariable checks whether input[pos:] starts with "{name}" or
// "{name:spec}". It returns the name and the offset just after the closing
// brace.
func matchVariable(input string, pos int) (name string, end int, ok bool) {
	i := pos + 1
	start := i
	for i < len(input) {
		r, size := utf8.DecodeRuneInString(input[i:])
		if !isWordRune(r) || (i == start && unicode.IsDigit(r)) {
			break
		}
		i += size
	}
	if i == start {
		return "", 0, false
	}
	name = input[start:i]

	if i < len(input) && input[i] == ':' {
		// the format spec runs to the closing brace and is dropped
		i++
		for i < len(input) && input[i] != '}' && input[i] != '{' {
			i++
		}
	}
	if i >= len(input) || input[i] != '}' {
		return "", 0, false
	}
	return name, i + 1, true
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
