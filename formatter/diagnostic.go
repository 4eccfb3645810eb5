package formatter

import (
	"errors"
	"fmt"

	"github.com/lithammer/fuzzysearch/fuzzy"

	tt "github.com/gnolang/rsx/internal/types"
	"github.com/gnolang/rsx/parser"
)

// rule set
const (
	InvalidToken         = "invalid-token"
	UnknownElement       = "unknown-element"
	UnknownAttribute     = "unknown-attribute"
	UnterminatedLiteral  = "unterminated-literal"
	UnexpectedToken      = "unexpected-token"
	UnexpectedEOF        = "unexpected-eof"
	NestingTooDeep       = "nesting-too-deep"
	UnterminatedCall     = "unterminated-call"
	UnknownErrorCategory = "error"
)

// Names lists the element and attribute names known to a schema.
// *schema.Schema implements it.
type Names interface {
	Elements() []string
	Attributes() []string
}

var rules = []struct {
	err  error
	rule string
}{
	{parser.ErrUnknownElement, UnknownElement},
	{parser.ErrUnknownAttribute, UnknownAttribute},
	{parser.ErrUnterminatedValue, UnterminatedLiteral},
	{parser.ErrUnexpectedEOF, UnexpectedEOF},
	{parser.ErrUnexpectedToken, UnexpectedToken},
	{parser.ErrNestingTooDeep, NestingTooDeep},
	{parser.ErrUnterminatedCall, UnterminatedCall},
	{parser.ErrInvalidToken, InvalidToken},
}

// RuleFor returns the rule name of an error returned by the parser.
func RuleFor(err error) string {
	for _, r := range rules {
		if errors.Is(err, r.err) {
			return r.rule
		}
	}
	return UnknownErrorCategory
}

// NewDiagnostic converts a parser error on src into a Diagnostic. When names
// is not nil, unknown names get a note with the closest known name.
func NewDiagnostic(filename, src string, err error, names Names) tt.Diagnostic {
	d := tt.Diagnostic{
		Rule:     RuleFor(err),
		Severity: tt.SeverityError,
		Filename: filename,
		Message:  err.Error(),
	}

	start, end, ok := parser.Span(err)
	if !ok {
		d.Start = tt.PositionFor(src, 0)
		d.End = d.Start
		return d
	}

	d.Start = tt.PositionFor(src, start)
	d.End = d.Start
	if end > start {
		d.End = tt.PositionFor(src, end-1)
	}
	// underline only the first line of a multi-line span
	if d.End.Line != d.Start.Line {
		d.End = tt.PositionFor(src, lineEnd(src, start))
	}

	var lexErr *parser.LexicalError
	if names != nil && errors.As(err, &lexErr) {
		switch {
		case errors.Is(err, parser.ErrUnknownElement):
			d.Note = suggest(lexErr.Text, names.Elements())
		case errors.Is(err, parser.ErrUnknownAttribute):
			d.Note = suggest(lexErr.Text, names.Attributes())
		}
	}
	return d
}

func suggest(name string, candidates []string) string {
	best, bestDistance := "", -1
	for _, c := range candidates {
		dist := fuzzy.LevenshteinDistance(name, c)
		if dist > 0 && (bestDistance == -1 || dist < bestDistance) {
			best, bestDistance = c, dist
		}
	}
	if bestDistance < 0 || bestDistance > threshold(name) {
		return ""
	}
	return fmt.Sprintf("did you mean %q?", best)
}

func threshold(name string) int {
	switch {
	case len(name) >= 7:
		return 3
	case len(name) >= 4:
		return 2
	default:
		return 1
	}
}

// lineEnd returns the offset of the last byte on the line holding offset,
// or offset itself on an empty line.
func lineEnd(src string, offset int) int {
	end := offset
	for end+1 < len(src) && src[end+1] != '\n' {
		end++
	}
	return end
}
