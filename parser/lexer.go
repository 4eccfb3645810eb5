package parser

import (
	"strings"
	"unicode/utf8"

	"github.com/gnolang/rsx/ast"
)

// Schema is the lookup the lexer needs to validate names.
// *schema.Schema implements it.
type Schema interface {
	HasElement(tag string) bool
	HasAttribute(name string) bool
}

// Lexer scans rsx! source and hands out tokens on demand.
type Lexer struct {
	input    string // the entire input to tokenize
	position int    // current reading position in input
	schema   Schema
	opts     options
}

// NewLexer returns a Lexer over input that validates names with s.
func NewLexer(input string, s Schema, opts ...Option) *Lexer {
	return &Lexer{
		input:  input,
		schema: s,
		opts:   newOptions(opts),
	}
}

// Next scans the next token. At the end of input it returns a TokenEOF
// token, and keeps doing so on further calls.
func (l *Lexer) Next() (Token, error) {
	l.skipWhitespace()
	if l.position >= len(l.input) {
		return Token{Type: TokenEOF, Start: len(l.input), End: len(l.input)}, nil
	}

	start := l.position
	switch c := l.input[start]; c {
	case '"':
		return l.lexValues(start)
	case '{':
		return l.single(TokenLBrace), nil
	case '}':
		return l.single(TokenRBrace), nil
	case '?':
		return l.single(TokenQuestion), nil
	case ',':
		return l.single(TokenComma), nil
	}

	if tok, ok, err := l.lexName(start); ok || err != nil {
		return tok, err
	}

	switch {
	case l.input[start] == '#':
		return l.single(TokenPound), nil
	case strings.HasPrefix(l.input[start:], "rsx!"):
		l.position += len("rsx!")
		return l.token(TokenRsx, start), nil
	}

	_, size := utf8.DecodeRuneInString(l.input[start:])
	return Token{}, &LexicalError{
		Offset: start,
		End:    start + size,
		Text:   l.input[start : start+size],
		Err:    ErrInvalidToken,
	}
}

// Tokenize scans the whole input. The last token is always TokenEOF.
func (l *Lexer) Tokenize() ([]Token, error) {
	var tokens []Token
	for {
		tok, err := l.Next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF {
			return tokens, nil
		}
	}
}

// lexName matches `name {` (element) and `name:` (attribute). Only spaces may
// sit between the name and its terminator. ok is false when the input at
// start is not shaped like either; the caller then tries other tokens.
func (l *Lexer) lexName(start int) (tok Token, ok bool, err error) {
	i := start
	for i < len(l.input) {
		r, size := utf8.DecodeRuneInString(l.input[i:])
		if r != '#' && !isWordRune(r) {
			break
		}
		i += size
	}
	if i == start {
		return Token{}, false, nil
	}
	name := l.input[start:i]

	j := i
	for j < len(l.input) && l.input[j] == ' ' {
		j++
	}
	if j >= len(l.input) {
		return Token{}, false, nil
	}

	switch l.input[j] {
	case '{':
		if !l.schema.HasElement(name) {
			return Token{}, false, &LexicalError{Offset: start, End: j + 1, Text: name, Err: ErrUnknownElement}
		}
		l.position = j + 1
		tok = l.token(TokenElement, start)
		tok.Name = name
		return tok, true, nil

	case ':':
		if !l.opts.allowUnknownAttributes && !l.schema.HasAttribute(name) {
			return Token{}, false, &LexicalError{Offset: start, End: j + 1, Text: name, Err: ErrUnknownAttribute}
		}
		l.position = j + 1
		tok = l.token(TokenAttribute, start)
		tok.Name = name
		return tok, true, nil
	}
	return Token{}, false, nil
}

// lexValues scans a double-quoted literal starting at start and splits it
// into prefix, fragments and suffix.
func (l *Lexer) lexValues(start int) (Token, error) {
	i := start + 1
	for i < len(l.input) {
		switch l.input[i] {
		case '\\':
			if i+1 < len(l.input) {
				_, size := utf8.DecodeRuneInString(l.input[i+1:])
				i += 1 + size
				continue
			}
			i++
		case '"':
			l.position = i + 1
			tok := l.token(TokenValues, start)
			tok.Values = splitLiteral(tok.Value)
			return tok, nil
		default:
			i++
		}
	}
	return Token{}, &LexicalError{
		Offset: start,
		End:    len(l.input),
		Text:   l.input[start:],
		Err:    ErrUnterminatedValue,
	}
}

// splitLiteral separates the delimiters of a literal from its interior.
// The prefix runs through the first quote, the suffix from the last one.
func splitLiteral(text string) ast.Values {
	var v ast.Values
	if i := strings.IndexByte(text, '"'); i >= 0 {
		v.Prefix = text[:i+1]
		text = text[i+1:]
	}
	if i := strings.LastIndexByte(text, '"'); i >= 0 {
		v.Suffix = text[i:]
		text = text[:i]
	}
	v.Fragments = LexValues(text)
	return v
}

func (l *Lexer) single(t TokenType) Token {
	start := l.position
	l.position++
	return l.token(t, start)
}

func (l *Lexer) token(t TokenType, start int) Token {
	return Token{
		Type:  t,
		Value: l.input[start:l.position],
		Start: start,
		End:   l.position,
	}
}

func (l *Lexer) skipWhitespace() {
	for l.position < len(l.input) {
		switch l.input[l.position] {
		case ' ', '\t', '\n', '\f', '\r':
			l.position++
		default:
			return
		}
	}
}
