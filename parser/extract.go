package parser

import (
	"strings"
	"unicode/utf8"
)

// CallSpan is the byte range [Start, End) of one rsx! call inside a host
// file, from "rsx!" through the matching closing brace.
type CallSpan struct {
	Start int
	End   int
}

// FindCalls locates every `rsx!{ ... }` (or `rsx! { ... }`) in a host
// source file. String, raw string and char literals and comments of the
// host are skipped, and braces inside quoted literals of a call do not
// count towards nesting. Calls using other delimiters, such as
// rsx!( ... ), are ignored.
func FindCalls(src string) ([]CallSpan, error) {
	var spans []CallSpan
	i := 0
	for i < len(src) {
		if end, ok := skipRawString(src, i); ok {
			i = end
			continue
		}
		switch {
		case strings.HasPrefix(src[i:], "//"):
			i = skipLine(src, i)
		case strings.HasPrefix(src[i:], "/*"):
			i = skipBlockComment(src, i)
		case src[i] == '\'':
			i = skipChar(src, i)
		case src[i] == '"':
			i = skipQuoted(src, i)
		case strings.HasPrefix(src[i:], "rsx!") && (i == 0 || !isIdentByte(src[i-1])):
			j := i + len("rsx!")
			for j < len(src) && isSpace(src[j]) {
				j++
			}
			if j >= len(src) || src[j] != '{' {
				i += len("rsx!")
				continue
			}
			end, err := matchBrace(src, j)
			if err != nil {
				return nil, err
			}
			spans = append(spans, CallSpan{Start: i, End: end})
			i = end
		default:
			i++
		}
	}
	return spans, nil
}

// matchBrace returns the offset just after the brace closing the one at open.
func matchBrace(src string, open int) (int, error) {
	depth := 0
	for i := open; i < len(src); {
		switch src[i] {
		case '"':
			i = skipQuoted(src, i)
			continue
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1, nil
			}
		}
		i++
	}
	return 0, &LexicalError{Offset: open, End: len(src), Text: "{", Err: ErrUnterminatedCall}
}

func skipQuoted(src string, i int) int {
	for i++; i < len(src); i++ {
		switch src[i] {
		case '\\':
			i++
		case '"':
			return i + 1
		}
	}
	return len(src)
}

// skipRawString skips r"...", r#"..."# and their b-prefixed forms starting
// at i. ok is false when no raw string starts there.
func skipRawString(src string, i int) (end int, ok bool) {
	j := i
	if j < len(src) && src[j] == 'b' {
		j++
	}
	if j >= len(src) || src[j] != 'r' || (i > 0 && isIdentByte(src[i-1])) {
		return 0, false
	}
	j++
	hashes := 0
	for j < len(src) && src[j] == '#' {
		hashes++
		j++
	}
	if j >= len(src) || src[j] != '"' {
		return 0, false
	}
	closing := "\"" + strings.Repeat("#", hashes)
	if k := strings.Index(src[j+1:], closing); k >= 0 {
		return j + 1 + k + len(closing), true
	}
	return len(src), true
}

// skipChar skips a char literal such as 'x', '\'' or '"' starting at i.
// A quote that opens no char literal, as in a lifetime 'a, is skipped alone.
func skipChar(src string, i int) int {
	if i+1 < len(src) && src[i+1] == '\\' {
		// the longest escape is '\u{10FFFF}'
		for j := i + 3; j < len(src) && j < i+12; j++ {
			if src[j] == '\'' {
				return j + 1
			}
		}
		return i + 1
	}
	_, size := utf8.DecodeRuneInString(src[i+1:])
	if end := i + 1 + size; size > 0 && end < len(src) && src[end] == '\'' {
		return end + 1
	}
	return i + 1
}

func skipLine(src string, i int) int {
	if j := strings.IndexByte(src[i:], '\n'); j >= 0 {
		return i + j + 1
	}
	return len(src)
}

func skipBlockComment(src string, i int) int {
	if j := strings.Index(src[i+2:], "*/"); j >= 0 {
		return i + 2 + j + 2
	}
	return len(src)
}

func isIdentByte(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}
