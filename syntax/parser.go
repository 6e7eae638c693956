package syntax

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"sysyc/ast"
	"sysyc/report"
)

// NOTE: All parsing functions (that are not utility/API functions) are
// commented with the EBNF notation of the grammar they parse.

// Parser is a recursive descent parser for SysY source files.  All parsing
// functions assume that they begin with the parser centered on the first token
// of their production and must consume all tokens (including the last) of
// their production, leaving the parser on the next token.  Syntax errors are
// raised by panicking and are caught by Parse.
type Parser struct {
	// lexer is the Lexer this parser is using to lex the source file.
	lexer *Lexer

	// tok is the current token the parser is positioned on.
	tok *Token

	// lookbehind is the token the parser was positioned on before tok.
	lookbehind *Token
}

// NewParser creates a new parser reading from r.
func NewParser(r io.Reader) *Parser {
	return &Parser{lexer: NewLexer(bufio.NewReader(r))}
}

// Parse parses the whole input into a compilation unit.
func (p *Parser) Parse() (cu *ast.CompUnit, err error) {
	defer report.Catch(&err)

	// move the parser onto the first token
	p.next()

	return p.parseCompUnit(), nil
}

// ParseString parses a source string.
func ParseString(src string) (*ast.CompUnit, error) {
	return NewParser(strings.NewReader(src)).Parse()
}

// -----------------------------------------------------------------------------

// next moves the parser forward one token.
func (p *Parser) next() {
	p.lookbehind = p.tok
	p.tok = p.lexer.NextToken()
}

// has returns true if the parser is on a token of a given kind.
func (p *Parser) has(kind int) bool {
	return p.tok.Kind == kind
}

// hasOneOf returns if the parser's current token kind is one of given kinds.
func (p *Parser) hasOneOf(kinds ...int) bool {
	for _, kind := range kinds {
		if p.tok.Kind == kind {
			return true
		}
	}

	return false
}

// want asserts that the parser is on a token of the given kind, moves past it
// and returns it.  The current token is rejected if it doesn't match.
func (p *Parser) want(kind int) *Token {
	if !p.has(kind) {
		p.reject()
	}

	p.next()
	return p.lookbehind
}

// -----------------------------------------------------------------------------

// reject raises an unexpected token error on the current token.
func (p *Parser) reject() {
	if p.has(TOK_EOF) {
		p.error(p.tok.Span, "unexpected end of file")
	}

	p.error(p.tok.Span, "unexpected token: `%s`", p.tok.Value)
}

// error raises a syntax error over the given span.
func (p *Parser) error(span *report.TextSpan, msg string, a ...interface{}) {
	panic(report.Raise(report.Syntax, span, fmt.Sprintf(msg, a...)))
}
