package parser

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidToken      = errors.New("invalid token")
	ErrUnknownElement    = errors.New("unknown element")
	ErrUnknownAttribute  = errors.New("unknown attribute")
	ErrUnterminatedValue = errors.New("unterminated literal")
	ErrUnexpectedToken   = errors.New("unexpected token")
	ErrUnexpectedEOF     = errors.New("unexpected end of input")
	ErrNestingTooDeep    = errors.New("nesting too deep")
	ErrUnterminatedCall  = errors.New("unterminated rsx! call")
)

// LexicalError reports input at [Offset, End) that matches no token.
type LexicalError struct {
	Offset int
	End    int
	Text   string
	Err    error
}

func (e *LexicalError) Error() string {
	switch e.Err {
	case ErrUnknownElement, ErrUnknownAttribute:
		return fmt.Sprintf("%v %q at offset %d", e.Err, e.Text, e.Offset)
	default:
		return fmt.Sprintf("%v at offset %d: %q", e.Err, e.Offset, e.Text)
	}
}

func (e *LexicalError) Unwrap() error { return e.Err }

// ParseError reports a token stream that does not fit the grammar.
type ParseError struct {
	Token    Token
	Expected []string
	Err      error
}

func (e *ParseError) Error() string {
	var msg string
	if e.Token.Type == TokenEOF {
		msg = fmt.Sprintf("%v at offset %d", e.Err, e.Token.Start)
	} else {
		msg = fmt.Sprintf("%v %q at offset %d", e.Err, e.Token.Value, e.Token.Start)
	}
	if len(e.Expected) > 0 {
		msg += ", expected " + strings.Join(e.Expected, " or ")
	}
	return msg
}

func (e *ParseError) Unwrap() error { return e.Err }

// Span returns the byte range an error from this package points at.
// ok is false for errors of other origins.
func Span(err error) (start, end int, ok bool) {
	var lexErr *LexicalError
	if errors.As(err, &lexErr) {
		return lexErr.Offset, lexErr.End, true
	}
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		return parseErr.Token.Start, parseErr.Token.End, true
	}
	return 0, 0, false
}
