package koopa

import (
	"sysyc/report"
)

// token is a lexical token of Koopa IR text.
type token struct {
	kind  int
	value string
	span  *report.TextSpan
}

// Enumeration of token kinds.
const (
	tokSymbol = iota // `@name` or `%name`
	tokInt
	tokWord // keywords and operator names
	tokPunct
	tokEOF
)

// lexer tokenizes Koopa IR text.
type lexer struct {
	src []byte
	pos int

	line, col           int
	startLine, startCol int
}

func newLexer(src string) *lexer {
	return &lexer{src: []byte(src)}
}

// next returns the next token.
func (l *lexer) next() token {
	l.skipSpaceAndComments()
	l.mark()

	if l.pos >= len(l.src) {
		return l.makeToken(tokEOF, l.pos)
	}

	start := l.pos

	c := l.src[l.pos]
	switch {
	case c == '@' || c == '%':
		l.advance()
		for l.pos < len(l.src) && isNameChar(l.src[l.pos]) {
			l.advance()
		}

		if l.pos-start == 1 {
			l.raise("expected a name after `%c`", c)
		}

		return l.makeToken(tokSymbol, start)
	case c == '-' || isDigit(c):
		l.advance()
		for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
			l.advance()
		}

		if c == '-' && l.pos-start == 1 {
			l.raise("expected digits after `-`")
		}

		return l.makeToken(tokInt, start)
	case isWordChar(c):
		for l.pos < len(l.src) && (isWordChar(l.src[l.pos]) || isDigit(l.src[l.pos])) {
			l.advance()
		}

		return l.makeToken(tokWord, start)
	}

	switch c {
	case '(', ')', '[', ']', '{', '}', ',', ':', '=', '*':
		l.advance()
		return l.makeToken(tokPunct, start)
	}

	l.advance()
	l.raise("unexpected character `%c`", c)
	return token{}
}

// skipSpaceAndComments skips whitespace and `//` and `/* */` comments.
func (l *lexer) skipSpaceAndComments() {
	for l.pos < len(l.src) {
		switch c := l.src[l.pos]; {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			l.advance()
		case c == '/' && l.peekAt(1) == '/':
			for l.pos < len(l.src) && l.src[l.pos] != '\n' {
				l.advance()
			}
		case c == '/' && l.peekAt(1) == '*':
			l.mark()
			l.advance()
			l.advance()

			for l.pos < len(l.src) && !(l.src[l.pos] == '*' && l.peekAt(1) == '/') {
				l.advance()
			}

			if l.pos >= len(l.src) {
				l.raise("unclosed block comment")
			}

			l.advance()
			l.advance()
		default:
			return
		}
	}
}

// -----------------------------------------------------------------------------

func (l *lexer) peekAt(offset int) byte {
	if l.pos+offset < len(l.src) {
		return l.src[l.pos+offset]
	}

	return 0
}

func (l *lexer) advance() {
	if l.src[l.pos] == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}

	l.pos++
}

func (l *lexer) mark() {
	l.startLine = l.line
	l.startCol = l.col
}

func (l *lexer) span() *report.TextSpan {
	return &report.TextSpan{
		StartLine: l.startLine,
		StartCol:  l.startCol,
		EndLine:   l.line,
		EndCol:    l.col,
	}
}

func (l *lexer) makeToken(kind, start int) token {
	return token{kind: kind, value: string(l.src[start:l.pos]), span: l.span()}
}

func (l *lexer) raise(msg string, args ...interface{}) {
	panic(report.Raise(report.MalformedIR, l.span(), msg, args...))
}

// -----------------------------------------------------------------------------

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func isWordChar(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || c == '_'
}

func isNameChar(c byte) bool {
	return isWordChar(c) || isDigit(c)
}
