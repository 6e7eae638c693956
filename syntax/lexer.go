package syntax

import (
	"bufio"
	"io"
	"strings"
	"unicode"

	"sysyc/report"
)

// Lexer is responsible for tokenizing a source file.  Lexical errors are
// raised as compile errors of kind Syntax.
type Lexer struct {
	file    *bufio.Reader
	tokBuff *strings.Builder

	line, col           int
	startLine, startCol int
}

// NewLexer creates a new lexer for the given source file.
func NewLexer(file *bufio.Reader) *Lexer {
	return &Lexer{
		file:    file,
		tokBuff: &strings.Builder{},
	}
}

// NextToken retrieves the next token from the input file. If the file has
// ended, this will be an EOF token.
func (l *Lexer) NextToken() *Token {
	for {
		c := l.peek()
		if c == -1 {
			break
		}

		switch c {
		case '\n', '\t', ' ', '\r', '\v', '\f':
			l.skip()
		case '/':
			if tok := l.lexCommentOrDiv(); tok != nil {
				return tok
			}
		default:
			if isDecimalDigit(c) {
				return l.lexIntLit()
			} else if isFirstIdentChar(c) {
				return l.lexIdentOrKeyword()
			} else {
				return l.lexPunctOrOper()
			}
		}
	}

	l.mark()
	return l.makeToken(TOK_EOF)
}

// -----------------------------------------------------------------------------

// symbolPatterns maps symbol strings (patterns) to their punctuation/operator
// token kind.  The patterns `&` and `|` are only prefixes of `&&` and `||`.
var symbolPatterns = map[string]int{
	"+": TOK_PLUS,
	"-": TOK_MINUS,
	"*": TOK_STAR,
	// Division operator is handled with comment logic.
	"%": TOK_MOD,

	"==": TOK_EQ,
	"!=": TOK_NEQ,
	"<":  TOK_LT,
	"<=": TOK_LTEQ,
	">":  TOK_GT,
	">=": TOK_GTEQ,

	"&&": TOK_LAND,
	"||": TOK_LOR,
	"!":  TOK_NOT,

	"=": TOK_ASSIGN,

	"(": TOK_LPAREN,
	")": TOK_RPAREN,
	"{": TOK_LBRACE,
	"}": TOK_RBRACE,
	"[": TOK_LBRACKET,
	"]": TOK_RBRACKET,
	",": TOK_COMMA,
	";": TOK_SEMI,
}

// lexPunctOrOper lexes a punctuation or operator symbol.
func (l *Lexer) lexPunctOrOper() *Token {
	l.mark()
	c := l.eat()

	kind, ok := symbolPatterns[l.tokBuff.String()]
	if !ok && c != '&' && c != '|' {
		panic(report.Raise(report.Syntax, l.getSpan(), "unknown rune: `%c`", c))
	}

	for {
		c := l.peek()
		if c == -1 {
			break
		}

		if _kind, ok := symbolPatterns[l.tokBuff.String()+string(c)]; ok {
			l.eat()
			kind = _kind
		} else {
			break
		}
	}

	if s := l.tokBuff.String(); s == "&" || s == "|" {
		panic(report.Raise(report.Syntax, l.getSpan(), "unknown operator: `%s`", s))
	}

	return l.makeToken(kind)
}

// -----------------------------------------------------------------------------

// keywordPatterns maps keyword strings (patterns) to their keyword token kind.
var keywordPatterns = map[string]int{
	"int":   TOK_INT,
	"void":  TOK_VOID,
	"const": TOK_CONST,

	"if":       TOK_IF,
	"else":     TOK_ELSE,
	"while":    TOK_WHILE,
	"break":    TOK_BREAK,
	"continue": TOK_CONTINUE,
	"return":   TOK_RETURN,
}

// lexIdentOrKeyword lexes an identifier or a keyword.
func (l *Lexer) lexIdentOrKeyword() *Token {
	l.mark()
	l.eat()

	for {
		c := l.peek()
		if !isFirstIdentChar(c) && !isDecimalDigit(c) {
			break
		}

		l.eat()
	}

	if kind, ok := keywordPatterns[l.tokBuff.String()]; ok {
		return l.makeToken(kind)
	}

	return l.makeToken(TOK_IDENT)
}

// lexIntLit lexes a decimal, octal (leading `0`) or hexadecimal (leading `0x`)
// integer literal.  The literal's value is parsed by the parser.
func (l *Lexer) lexIntLit() *Token {
	l.mark()
	c := l.eat()

	isDigit := isDecimalDigit
	if c == '0' {
		switch l.peek() {
		case 'x', 'X':
			l.eat()

			if !isHexDigit(l.peek()) {
				panic(report.Raise(report.Syntax, l.getSpan(), "incomplete hexadecimal literal"))
			}

			isDigit = isHexDigit
		default:
			isDigit = isOctalDigit
		}
	}

	for isDigit(l.peek()) {
		l.eat()
	}

	// catches things like `09` and `12abc`
	if c := l.peek(); isDecimalDigit(c) || isFirstIdentChar(c) {
		l.eat()
		panic(report.Raise(report.Syntax, l.getSpan(), "malformed integer literal"))
	}

	return l.makeToken(TOK_INTLIT)
}

// -----------------------------------------------------------------------------

// lexCommentOrDiv lexes a comment or a division token.  It returns nil if a
// comment was skipped.
func (l *Lexer) lexCommentOrDiv() *Token {
	l.mark()
	l.skip()

	switch l.peek() {
	case '/':
		for c := l.skip(); c != '\n' && c != -1; c = l.skip() {
		}
	case '*':
		l.skip()

		for {
			c := l.skip()
			if c == -1 {
				panic(report.Raise(report.Syntax, l.getSpan(), "unclosed block comment"))
			}

			if c == '*' && l.peek() == '/' {
				l.skip()
				break
			}
		}
	default:
		tok := l.makeToken(TOK_DIV)
		tok.Value = "/"
		return tok
	}

	return nil
}

// -----------------------------------------------------------------------------

// mark sets the lexer's stored start line and column to its current position.
func (l *Lexer) mark() {
	l.startLine = l.line
	l.startCol = l.col
}

// makeToken produces a new token of the given kind from the lexer's state and
// resets the lexer to begin building the next token.
func (l *Lexer) makeToken(kind int) *Token {
	value := l.tokBuff.String()
	l.tokBuff.Reset()

	return &Token{
		Kind:  kind,
		Value: value,
		Span:  l.getSpan(),
	}
}

// getSpan calculates a text span based on the lexer's current state.
func (l *Lexer) getSpan() *report.TextSpan {
	return &report.TextSpan{
		StartLine: l.startLine,
		StartCol:  l.startCol,
		EndLine:   l.line,
		EndCol:    l.col,
	}
}

// -----------------------------------------------------------------------------

// eat moves the lexer forward one rune and writes the rune to the token buffer.
// If the lexer encounters an EOF, -1 is returned as the rune value.
func (l *Lexer) eat() rune {
	c := l.read()
	if c != -1 {
		l.tokBuff.WriteRune(c)
	}

	return c
}

// skip moves the lexer forward one rune but does not write the rune to the
// token buffer.  If the lexer encounters an EOF, -1 is returned as the rune
// value.
func (l *Lexer) skip() rune {
	return l.read()
}

// peek returns the next rune in the file without moving the lexer forward or
// writing the rune to the token buffer.  If the lexer encounters an EOF, -1 is
// returned as rune value.
func (l *Lexer) peek() rune {
	c, _, err := l.file.ReadRune()
	if err != nil {
		if err == io.EOF {
			return -1
		}

		panic(err)
	}

	if err = l.file.UnreadRune(); err != nil {
		panic(err)
	}

	return c
}

// read reads the next rune and updates the lexer's position.
func (l *Lexer) read() rune {
	c, _, err := l.file.ReadRune()
	if err != nil {
		if err == io.EOF {
			return -1
		}

		panic(err)
	}

	l.updatePos(c)
	return c
}

// updatePos updates the lexer's position based on input character.
func (l *Lexer) updatePos(c rune) {
	switch c {
	case '\n':
		l.line++
		l.col = 0
	case '\t':
		l.col += 4
	default:
		l.col++
	}
}

// -----------------------------------------------------------------------------

// isDecimalDigit returns whether c is a decimal digit.
func isDecimalDigit(c rune) bool {
	return '0' <= c && c <= '9'
}

// isOctalDigit returns whether c is an octal digit.
func isOctalDigit(c rune) bool {
	return '0' <= c && c <= '7'
}

// isHexDigit returns whether  c is a hexadecimal digit.
func isHexDigit(c rune) bool {
	return isDecimalDigit(c) || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

// isFirstIdentChar returns whether c could be the first rune of an identifier.
func isFirstIdentChar(c rune) bool {
	return c < unicode.MaxASCII && (unicode.IsLetter(c) || c == '_')
}
