package parser

import (
	"fmt"

	"github.com/gnolang/rsx/ast"
)

// TokenType defines the different kinds of tokens produced by the Lexer.
type TokenType int

const (
	TokenEOF       TokenType = iota // end of input
	TokenValues                     // "quoted literal"
	TokenAttribute                  // name:
	TokenElement                    // tag {
	TokenRsx                        // rsx!
	TokenLBrace                     // {
	TokenRBrace                     // }
	TokenQuestion                   // ?
	TokenComma                      // ,
	TokenPound                      // #
)

func (t TokenType) String() string {
	switch t {
	case TokenEOF:
		return "EOF"
	case TokenValues:
		return "literal"
	case TokenAttribute:
		return "attribute"
	case TokenElement:
		return "element"
	case TokenRsx:
		return "rsx!"
	case TokenLBrace:
		return "{"
	case TokenRBrace:
		return "}"
	case TokenQuestion:
		return "?"
	case TokenComma:
		return ","
	case TokenPound:
		return "#"
	default:
		return "unknown"
	}
}

// Token is a single lexical token and the byte range [Start, End) it spans.
type Token struct {
	Type   TokenType
	Value  string     // the exact source slice
	Name   string     // tag or attribute name, for element and attribute tokens
	Values ast.Values // decoded literal, for value tokens
	Start  int
	End    int
}

func (t Token) String() string {
	if t.Type == TokenEOF {
		return "EOF"
	}
	return fmt.Sprintf("%s %q", t.Type, t.Value)
}
