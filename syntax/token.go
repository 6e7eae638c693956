package syntax

import "sysyc/report"

// Token represents a single lexical token.
type Token struct {
	// The kind of the token.  This must be one of the enumerated token kinds.
	Kind int

	// The string value of the token.
	Value string

	// The text span over which the token exists.
	Span *report.TextSpan
}

// Enumeration of token kinds.
const (
	TOK_INT = iota
	TOK_VOID
	TOK_CONST

	TOK_IF
	TOK_ELSE
	TOK_WHILE
	TOK_BREAK
	TOK_CONTINUE
	TOK_RETURN

	TOK_PLUS
	TOK_MINUS
	TOK_STAR
	TOK_DIV
	TOK_MOD

	TOK_EQ
	TOK_NEQ
	TOK_LT
	TOK_LTEQ
	TOK_GT
	TOK_GTEQ

	TOK_LAND
	TOK_LOR
	TOK_NOT

	TOK_ASSIGN

	TOK_LPAREN
	TOK_RPAREN
	TOK_LBRACE
	TOK_RBRACE
	TOK_LBRACKET
	TOK_RBRACKET
	TOK_COMMA
	TOK_SEMI

	TOK_IDENT
	TOK_INTLIT

	TOK_EOF
)
