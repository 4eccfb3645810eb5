/*
Package parser turns rsx! source text into an ast.RsxCall.

# Overview

Parsing runs in three independent passes:

 1. The token lexer scans the source into typed tokens. Element and
    attribute names are checked against the schema while scanning.
 2. The value lexer splits the interior of every quoted literal into
    constant and variable fragments.
 3. The grammar parser pulls tokens from the lexer one at a time and
    builds the tree.

A parse either succeeds completely or fails with the first error; there is
no recovery.

# Tokens

  - TokenRsx: the keyword "rsx!"
  - TokenElement: an identifier followed by "{" on the same line,
    e.g. "div {". The identifier must be in the element table.
  - TokenAttribute: an identifier followed by ":", e.g. "r#type:".
    The identifier must be in the attribute table unless the lexer runs
    with AllowUnknownAttributes.
  - TokenValues: a double-quoted literal with backslash escapes.
    Raw string forms such as r#"..."# are not recognized.
  - TokenLBrace, TokenRBrace, TokenQuestion, TokenComma, TokenPound:
    the single characters "{", "}", "?", ",", "#".

Whitespace between tokens is skipped.

# Literal Fragments

Inside a literal:

  - "{name}" and "{name:spec}" produce a Variable holding only name.
  - "{{" and "}}" decode to a single brace inside a Constant.
  - any other run of text is a Constant.
  - a brace that fits neither rule becomes an Error fragment. It does not
    fail the parse; renderers print it as ast.ErrorSentinel.

# Grammar

	RsxCall       := 'rsx!' '{' (Node ','*)* '}'
	Node          := ElementNode | TextNode
	ElementNode   := ELEMENT (AttributeLine | Node ','*)* '}'
	AttributeLine := ATTRIBUTE VALUES ','?
	TextNode      := VALUES

The token class alone decides what comes next, so the parser needs a single
token of lookahead.

# Usage

	call, err := parser.Parse(src, schema.Default())
	if err != nil {
		var lexErr *parser.LexicalError
		if errors.As(err, &lexErr) {
			// lexErr.Offset points at the offending input
		}
	}
*/
package parser
