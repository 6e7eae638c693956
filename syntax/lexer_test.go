package syntax

import (
	"bufio"
	"strings"
	"testing"

	"sysyc/report"
)

func lexAll(t *testing.T, src string) (toks []*Token, err error) {
	t.Helper()
	defer report.Catch(&err)

	l := NewLexer(bufio.NewReader(strings.NewReader(src)))
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Kind == TOK_EOF {
			return toks, nil
		}
	}
}

func TestLexKeywordsAndOperators(t *testing.T) {
	toks, err := lexAll(t, "int main() { return a<=b && !c || d != 0; }")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []int{
		TOK_INT, TOK_IDENT, TOK_LPAREN, TOK_RPAREN, TOK_LBRACE, TOK_RETURN,
		TOK_IDENT, TOK_LTEQ, TOK_IDENT, TOK_LAND, TOK_NOT, TOK_IDENT, TOK_LOR,
		TOK_IDENT, TOK_NEQ, TOK_INTLIT, TOK_SEMI, TOK_RBRACE, TOK_EOF,
	}

	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(toks), len(want))
	}

	for i, kind := range want {
		if toks[i].Kind != kind {
			t.Errorf("token %d (%q): got kind %d, want %d", i, toks[i].Value, toks[i].Kind, kind)
		}
	}
}

func TestLexComments(t *testing.T) {
	toks, err := lexAll(t, "a // line comment\n/* block\n * comment */ b / c")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var values []string
	for _, tok := range toks[:len(toks)-1] {
		values = append(values, tok.Value)
	}

	if got := strings.Join(values, " "); got != "a b / c" {
		t.Errorf("got %q", got)
	}

	if toks[1].Span.StartLine != 2 {
		t.Errorf("b should be on line 2, got %d", toks[1].Span.StartLine)
	}
}

func TestLexIntLiterals(t *testing.T) {
	toks, err := lexAll(t, "0 017 0x1F 0XaB 42")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i, want := range []string{"0", "017", "0x1F", "0XaB", "42"} {
		if toks[i].Kind != TOK_INTLIT || toks[i].Value != want {
			t.Errorf("token %d: got %q, want %q", i, toks[i].Value, want)
		}
	}
}

func TestLexErrors(t *testing.T) {
	for _, src := range []string{"09", "0x", "a & b", "a | b", "/* open", "#"} {
		_, err := lexAll(t, src)
		if !report.IsKind(err, report.Syntax) {
			t.Errorf("%q: expected a syntax error, got %v", src, err)
		}
	}
}
