package syntax

import (
	"testing"

	"sysyc/ast"
	"sysyc/report"
)

func mustParse(t *testing.T, src string) *ast.CompUnit {
	t.Helper()

	cu, err := ParseString(src)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	return cu
}

func onlyFunc(t *testing.T, cu *ast.CompUnit) *ast.FuncDef {
	t.Helper()

	if len(cu.Items) != 1 {
		t.Fatalf("expected 1 top level item, got %d", len(cu.Items))
	}

	fd, ok := cu.Items[0].(*ast.FuncDef)
	if !ok {
		t.Fatalf("expected a function, got %T", cu.Items[0])
	}

	return fd
}

func TestParseMinimalMain(t *testing.T) {
	fd := onlyFunc(t, mustParse(t, "int main() { return 0; }"))

	if fd.Name != "main" || !fd.ReturnsValue || len(fd.Params) != 0 {
		t.Fatalf("unexpected function header: %+v", fd)
	}

	ret, ok := fd.Body.Items[0].(*ast.ReturnStmt)
	if !ok {
		t.Fatalf("expected a return, got %T", fd.Body.Items[0])
	}

	if lit, ok := ret.Value.(*ast.IntLit); !ok || lit.Value != 0 {
		t.Errorf("expected `return 0`, got %#v", ret.Value)
	}
}

func TestParsePrecedence(t *testing.T) {
	fd := onlyFunc(t, mustParse(t, "int main() { return 1 + 2 * 3 < 4 || 5 && !6; }"))
	ret := fd.Body.Items[0].(*ast.ReturnStmt)

	lor, ok := ret.Value.(*ast.BinaryExpr)
	if !ok || lor.Op != ast.OpLOr {
		t.Fatalf("expected `||` at the root, got %#v", ret.Value)
	}

	lt := lor.Lhs.(*ast.BinaryExpr)
	if lt.Op != ast.OpLT {
		t.Fatalf("expected `<`, got %s", lt.Op)
	}

	add := lt.Lhs.(*ast.BinaryExpr)
	if add.Op != ast.OpAdd {
		t.Fatalf("expected `+`, got %s", add.Op)
	}

	if mul := add.Rhs.(*ast.BinaryExpr); mul.Op != ast.OpMul {
		t.Errorf("expected `*`, got %s", mul.Op)
	}

	land := lor.Rhs.(*ast.BinaryExpr)
	if land.Op != ast.OpLAnd {
		t.Fatalf("expected `&&`, got %s", land.Op)
	}

	if not := land.Rhs.(*ast.UnaryExpr); not.Op != ast.OpNot {
		t.Errorf("expected `!`, got %s", not.Op)
	}
}

func TestParseLeftAssociative(t *testing.T) {
	fd := onlyFunc(t, mustParse(t, "int main() { return 8 - 4 - 2; }"))
	sub := fd.Body.Items[0].(*ast.ReturnStmt).Value.(*ast.BinaryExpr)

	inner, ok := sub.Lhs.(*ast.BinaryExpr)
	if !ok || inner.Op != ast.OpSub {
		t.Fatalf("expected (8 - 4) - 2, got %#v", sub)
	}

	if lit := sub.Rhs.(*ast.IntLit); lit.Value != 2 {
		t.Errorf("expected rhs 2, got %d", lit.Value)
	}
}

func TestParseDeclarations(t *testing.T) {
	cu := mustParse(t, `
const int N = 3, M = N * 2;
int a[N][2] = {{1, 2}, {3}}, b;
void f(int x, int arr[][3]) {}
`)

	if len(cu.Items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(cu.Items))
	}

	cdecl := cu.Items[0].(*ast.Decl)
	if !cdecl.Const || len(cdecl.Defs) != 2 {
		t.Fatalf("bad const decl: %+v", cdecl)
	}

	vdecl := cu.Items[1].(*ast.Decl)
	if vdecl.Const || len(vdecl.Defs) != 2 {
		t.Fatalf("bad var decl: %+v", vdecl)
	}

	arr := vdecl.Defs[0]
	if len(arr.Dims) != 2 {
		t.Errorf("expected 2 dims, got %d", len(arr.Dims))
	}

	list, ok := arr.Init.(*ast.InitList)
	if !ok || len(list.Items) != 2 {
		t.Fatalf("expected a nested init list, got %#v", arr.Init)
	}

	if vdecl.Defs[1].Init != nil {
		t.Errorf("b should have no initializer")
	}

	fd := cu.Items[2].(*ast.FuncDef)
	if fd.ReturnsValue || len(fd.Params) != 2 {
		t.Fatalf("bad function: %+v", fd)
	}

	if fd.Params[0].IsArray {
		t.Errorf("x should be a scalar")
	}

	if p := fd.Params[1]; !p.IsArray || len(p.Dims) != 1 {
		t.Errorf("arr should be an array with 1 trailing dim: %+v", p)
	}
}

func TestParseStatements(t *testing.T) {
	fd := onlyFunc(t, mustParse(t, `
int main() {
	int i = 0;
	while (i < 10) {
		if (i == 5) break; else continue;
		i = i + 1;
	}
	;
	putint(i);
	a[1][2] = 3;
	return;
}`))

	items := fd.Body.Items
	if len(items) != 6 {
		t.Fatalf("expected 6 block items, got %d", len(items))
	}

	while := items[1].(*ast.WhileStmt)
	body := while.Body.(*ast.Block)
	ifStmt := body.Items[0].(*ast.IfStmt)

	if _, ok := ifStmt.Then.(*ast.BreakStmt); !ok {
		t.Errorf("expected break, got %T", ifStmt.Then)
	}

	if _, ok := ifStmt.Else.(*ast.ContinueStmt); !ok {
		t.Errorf("expected continue, got %T", ifStmt.Else)
	}

	if es := items[2].(*ast.ExprStmt); es.Value != nil {
		t.Errorf("expected an empty statement")
	}

	call := items[3].(*ast.ExprStmt).Value.(*ast.CallExpr)
	if call.Callee != "putint" || len(call.Args) != 1 {
		t.Errorf("bad call: %+v", call)
	}

	assign := items[4].(*ast.AssignStmt)
	if assign.Target.Name != "a" || len(assign.Target.Indices) != 2 {
		t.Errorf("bad assignment target: %+v", assign.Target)
	}

	if ret := items[5].(*ast.ReturnStmt); ret.Value != nil {
		t.Errorf("expected a bare return")
	}
}

func TestParseDanglingElse(t *testing.T) {
	fd := onlyFunc(t, mustParse(t, "int main() { if (1) if (0) return 1; else return 2; return 3; }"))

	outer := fd.Body.Items[0].(*ast.IfStmt)
	if outer.Else != nil {
		t.Fatalf("else should bind to the inner if")
	}

	if inner := outer.Then.(*ast.IfStmt); inner.Else == nil {
		t.Errorf("inner if should have the else")
	}
}

func TestParseIntLiteralWrap(t *testing.T) {
	fd := onlyFunc(t, mustParse(t, "int main() { return -2147483648 + 0x10 + 010; }"))

	add := fd.Body.Items[0].(*ast.ReturnStmt).Value.(*ast.BinaryExpr)
	if lit := add.Rhs.(*ast.IntLit); lit.Value != 8 {
		t.Errorf("octal 010 should be 8, got %d", lit.Value)
	}

	inner := add.Lhs.(*ast.BinaryExpr)
	if lit := inner.Rhs.(*ast.IntLit); lit.Value != 16 {
		t.Errorf("hex 0x10 should be 16, got %d", lit.Value)
	}

	neg := inner.Lhs.(*ast.UnaryExpr)
	if lit := neg.Operand.(*ast.IntLit); lit.Value != -2147483648 {
		t.Errorf("2147483648 should wrap, got %d", lit.Value)
	}
}

func TestParseErrors(t *testing.T) {
	for _, src := range []string{
		"int main() { return 0 }",
		"int main( { }",
		"void x;",
		"const int a;",
		"int main() { 1 = 2; }",
		"int main() {",
		"int main() { return 99999999999; }",
	} {
		_, err := ParseString(src)
		if !report.IsKind(err, report.Syntax) {
			t.Errorf("%q: expected a syntax error, got %v", src, err)
		}
	}
}

func TestParseErrorSpan(t *testing.T) {
	_, err := ParseString("int main() {\n  return 0\n}")

	cerr, ok := err.(*report.CompileError)
	if !ok {
		t.Fatalf("expected a compile error, got %v", err)
	}

	if cerr.Span.StartLine != 2 || cerr.Span.StartCol != 0 {
		t.Errorf("expected the error on `}` at 2:0, got %d:%d", cerr.Span.StartLine, cerr.Span.StartCol)
	}
}
