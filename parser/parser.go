package parser

import (
	"github.com/gnolang/rsx/ast"
)

// Parser pulls tokens from a Lexer and builds an ast.RsxCall.
type Parser struct {
	lexer *Lexer
	tok   Token // current lookahead
	opts  options
}

// NewParser creates a Parser reading from l.
func NewParser(l *Lexer, opts ...Option) *Parser {
	o := l.opts
	for _, opt := range opts {
		opt(&o)
	}
	return &Parser{lexer: l, opts: o}
}

// Parse lexes and parses src in one step.
func Parse(src string, s Schema, opts ...Option) (*ast.RsxCall, error) {
	return NewParser(NewLexer(src, s, opts...)).Parse()
}

// Parse consumes the whole input and returns the call it describes.
func (p *Parser) Parse() (*ast.RsxCall, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}

	start := p.tok.Start
	if err := p.expect(TokenRsx); err != nil {
		return nil, err
	}
	if err := p.expect(TokenLBrace); err != nil {
		return nil, err
	}

	call := &ast.RsxCall{Pos: start}
	for p.tok.Type != TokenRBrace {
		node, err := p.parseNode(1)
		if err != nil {
			return nil, err
		}
		call.Nodes = append(call.Nodes, node)
		if err := p.skipCommas(); err != nil {
			return nil, err
		}
	}
	if err := p.advance(); err != nil {
		return nil, err
	}

	if p.tok.Type != TokenEOF {
		return nil, p.unexpected("end of input")
	}
	return call, nil
}

// parseNode parses a single node based on the current token.
func (p *Parser) parseNode(depth int) (ast.Node, error) {
	switch p.tok.Type {
	case TokenElement:
		return p.parseElement(depth)
	case TokenValues:
		text := &ast.Text{Value: p.tok.Values, Pos: p.tok.Start}
		return text, p.advance()
	default:
		return nil, p.unexpected("element", "literal")
	}
}

// parseElement parses an element up to and including its closing brace.
func (p *Parser) parseElement(depth int) (ast.Node, error) {
	if depth > p.opts.maxDepth {
		return nil, &ParseError{Token: p.tok, Err: ErrNestingTooDeep}
	}

	el := &ast.Element{Tag: p.tok.Name, Pos: p.tok.Start}
	if err := p.advance(); err != nil {
		return nil, err
	}

	for {
		switch p.tok.Type {
		case TokenRBrace:
			return el, p.advance()

		case TokenAttribute:
			attr, err := p.parseAttribute()
			if err != nil {
				return nil, err
			}
			el.Attributes = append(el.Attributes, attr)

		case TokenElement, TokenValues:
			child, err := p.parseNode(depth + 1)
			if err != nil {
				return nil, err
			}
			el.Children = append(el.Children, child)
			if err := p.skipCommas(); err != nil {
				return nil, err
			}

		default:
			return nil, p.unexpected("attribute", "element", "literal", "}")
		}
	}
}

// parseAttribute parses `name: "value"` and at most one trailing comma.
func (p *Parser) parseAttribute() (ast.AttributeSet, error) {
	attr := ast.AttributeSet{Name: p.tok.Name, Pos: p.tok.Start}
	if err := p.advance(); err != nil {
		return attr, err
	}
	if p.tok.Type != TokenValues {
		return attr, p.unexpected("literal")
	}
	attr.Value = p.tok.Values
	if err := p.advance(); err != nil {
		return attr, err
	}
	if p.tok.Type == TokenComma {
		return attr, p.advance()
	}
	return attr, nil
}

func (p *Parser) skipCommas() error {
	for p.tok.Type == TokenComma {
		if err := p.advance(); err != nil {
			return err
		}
	}
	return nil
}

func (p *Parser) expect(t TokenType) error {
	if p.tok.Type != t {
		return p.unexpected(t.String())
	}
	return p.advance()
}

func (p *Parser) advance() error {
	tok, err := p.lexer.Next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

func (p *Parser) unexpected(expected ...string) error {
	err := ErrUnexpectedToken
	if p.tok.Type == TokenEOF {
		err = ErrUnexpectedEOF
	}
	return &ParseError{Token: p.tok, Expected: expected, Err: err}
}
