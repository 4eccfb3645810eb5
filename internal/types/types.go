package types

import "strings"

// Severity is how serious a diagnostic is.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "ERROR"
	case SeverityWarning:
		return "WARNING"
	case SeverityInfo:
		return "INFO"
	default:
		return "UNKNOWN"
	}
}

func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Position is a location in a source file. Line and Column are 1-based,
// Column counts bytes.
type Position struct {
	Offset int `json:"offset"`
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Diagnostic is a problem found in an rsx source file.
type Diagnostic struct {
	Rule     string   `json:"rule"`
	Severity Severity `json:"severity"`
	Filename string   `json:"filename"`
	Message  string   `json:"message"`
	Note     string   `json:"note,omitempty"`
	Start    Position `json:"start"`
	End      Position `json:"end"`
}

// SourceCode stores the content of a source file split in lines.
type SourceCode struct {
	Lines []string
}

// NewSourceCode splits src into lines.
func NewSourceCode(src string) *SourceCode {
	return &SourceCode{Lines: strings.Split(src, "\n")}
}

// PositionFor converts a byte offset in src to a Position. Offsets past the
// end are clamped.
func PositionFor(src string, offset int) Position {
	if offset > len(src) {
		offset = len(src)
	}
	if offset < 0 {
		offset = 0
	}
	line := 1 + strings.Count(src[:offset], "\n")
	lineStart := strings.LastIndexByte(src[:offset], '\n') + 1
	return Position{Offset: offset, Line: line, Column: offset - lineStart + 1}
}
