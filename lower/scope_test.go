package lower

import (
	"testing"

	"sysyc/ast"
	"sysyc/report"
	"sysyc/syntax"
)

func TestNameManager(t *testing.T) {
	nm := newNameManager()
	nm.reserve("x")

	if got := nm.freshVar("x"); got != "@x_1" {
		t.Errorf("a local must not take a reserved name, got %s", got)
	}

	if got := nm.freshVar("y"); got != "@y" {
		t.Errorf("got %s", got)
	}

	if got := nm.freshVar("y"); got != "@y_1" {
		t.Errorf("got %s", got)
	}

	if a, b := nm.freshTemp(), nm.freshTemp(); a != "%0" || b != "%1" {
		t.Errorf("got %s, %s", a, b)
	}

	if a, b, c := nm.freshLabel("then"), nm.freshLabel("end"), nm.freshLabel("then"); a != "%then_1" || b != "%end_1" || c != "%then_2" {
		t.Errorf("got %s, %s, %s", a, b, c)
	}

	nm.reset()

	if got := nm.freshTemp(); got != "%0" {
		t.Errorf("temporaries restart per function, got %s", got)
	}

	if got := nm.freshVar("y"); got != "@y" {
		t.Errorf("variable names restart per function, got %s", got)
	}

	if got := nm.freshVar("x"); got != "@x_1" {
		t.Errorf("reserved names survive a reset, got %s", got)
	}
}

func resolveName(l *Lowerer, name string) (sym *Symbol, err error) {
	defer report.Catch(&err)
	return l.resolve(name, nil), nil
}

func TestScopeShadowing(t *testing.T) {
	l := NewLowerer()
	outer := l.declareVar("x", &report.TextSpan{})

	l.enterScope()
	inner := l.declareVar("x", &report.TextSpan{})

	if sym, _ := resolveName(l, "x"); sym != inner {
		t.Errorf("expected the innermost x")
	}

	if inner.IRName == outer.IRName {
		t.Errorf("shadowing variables share the IR name %s", inner.IRName)
	}

	l.exitScope()

	if sym, _ := resolveName(l, "x"); sym != outer {
		t.Errorf("expected the outer x after leaving the scope")
	}

	if _, err := resolveName(l, "y"); !report.IsKind(err, report.UnboundIdentifier) {
		t.Errorf("expected an unbound identifier error, got %v", err)
	}
}

func evalSource(t *testing.T, l *Lowerer, src string) (value int32, err error) {
	t.Helper()

	// wrap the expression in a constant declaration to get its AST
	cu, perr := syntax.ParseString("const int v = " + src + ";")
	if perr != nil {
		t.Fatalf("parse error: %v", perr)
	}

	expr := cu.Items[0].(*ast.Decl).Defs[0].Init.(*ast.InitExpr).Value

	defer report.Catch(&err)
	return l.evalConst(expr), nil
}

func TestEvalConst(t *testing.T) {
	l := NewLowerer()
	l.declareConst("N", 10, &report.TextSpan{})
	l.declareVar("v", &report.TextSpan{})

	cases := []struct {
		src  string
		want int32
	}{
		{"2 + 3 * 4", 14},
		{"(2 + 3) * 4", 20},
		{"N / 3 - N % 3", 2},
		{"-N + !0 + !N", -9},
		{"1 < 2 == 1", 1},
		{"N >= 10 && N <= 10", 1},
		{"0 && 1 / 0", 0},
		{"1 || v", 1},
		{"2147483647 + 1", -2147483648},
		{"-7 / 2", -3},
		{"-7 % 2", -1},
	}

	for _, c := range cases {
		got, err := evalSource(t, l, c.src)
		if err != nil {
			t.Errorf("%s: unexpected error %v", c.src, err)
		} else if got != c.want {
			t.Errorf("%s: got %d, want %d", c.src, got, c.want)
		}
	}

	if _, err := evalSource(t, l, "v + 1"); !report.IsKind(err, report.NotAConstant) {
		t.Errorf("expected a constant error, got %v", err)
	}

	if _, err := evalSource(t, l, "N % (N - 10)"); !report.IsKind(err, report.DivisionByZero) {
		t.Errorf("expected a division by zero error, got %v", err)
	}
}
