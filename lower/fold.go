package lower

import (
	"strconv"

	"sysyc/ast"
	"sysyc/report"
)

// evalConst evaluates an expression at compile time.  Anything that refers to
// a runtime value fails with NotAConstant; a division or modulo by zero fails
// with DivisionByZero.
func (l *Lowerer) evalConst(expr ast.Expr) int32 {
	switch v := expr.(type) {
	case *ast.IntLit:
		return v.Value
	case *ast.ParenExpr:
		return l.evalConst(v.Inner)
	case *ast.LValue:
		return l.evalConstLValue(v)
	case *ast.CallExpr:
		panic(report.Raise(report.NotAConstant, v.Span(), "call to `%s` is not a constant expression", v.Callee))
	case *ast.UnaryExpr:
		return foldUnary(v.Op, l.evalConst(v.Operand))
	case *ast.BinaryExpr:
		lhs := l.evalConst(v.Lhs)

		// logical operators short-circuit in constant expressions too
		switch v.Op {
		case ast.OpLAnd:
			if lhs == 0 {
				return 0
			}

			return boolToInt(l.evalConst(v.Rhs) != 0)
		case ast.OpLOr:
			if lhs != 0 {
				return 1
			}

			return boolToInt(l.evalConst(v.Rhs) != 0)
		}

		rhs := l.evalConst(v.Rhs)
		if result, ok := foldBinary(v.Op, lhs, rhs); ok {
			return result
		}

		panic(report.Raise(report.DivisionByZero, v.Span(), "division by zero in constant expression"))
	}

	panic(report.Raise(report.NotAConstant, expr.Span(), "not a constant expression"))
}

// evalConstLValue evaluates a reference to a constant or an element of a
// constant array.
func (l *Lowerer) evalConstLValue(lv *ast.LValue) int32 {
	sym := l.resolve(lv.Name, lv.Span())

	switch sym.Kind {
	case SymConstant:
		if len(lv.Indices) > 0 {
			panic(report.Raise(report.ArityOrTypeMismatch, lv.Span(), "`%s` is not an array", lv.Name))
		}

		return sym.Value
	case SymArray:
		if !sym.Const {
			break
		}

		if len(lv.Indices) != len(sym.Shape) {
			panic(report.Raise(report.NotAConstant, lv.Span(), "`%s` must be fully indexed in a constant expression", lv.Name))
		}

		offset := 0
		for i, index := range lv.Indices {
			n := int(l.evalConst(index))
			if n < 0 || n >= sym.Shape[i] {
				panic(report.Raise(report.NotAConstant, index.Span(), "index %d is out of range for `%s`", n, lv.Name))
			}

			offset = offset*sym.Shape[i] + n
		}

		return sym.Values[offset]
	}

	panic(report.Raise(report.NotAConstant, lv.Span(), "`%s` is not a constant", lv.Name))
}

// evalConstAs evaluates a constant expression reporting a failure to fold as
// an error of the given kind.
func (l *Lowerer) evalConstAs(expr ast.Expr, kind report.Kind, what string) (value int32) {
	defer func() {
		if x := recover(); x != nil {
			if cerr, ok := x.(*report.CompileError); ok && cerr.Kind == report.NotAConstant {
				panic(report.Raise(kind, cerr.Span, "%s must be a constant expression: %s", what, cerr.Message))
			}

			panic(x)
		}
	}()

	return l.evalConst(expr)
}

// -----------------------------------------------------------------------------

// foldUnary applies a unary operator to a constant.
func foldUnary(op ast.Op, x int32) int32 {
	switch op {
	case ast.OpSub:
		return -x
	case ast.OpNot:
		return boolToInt(x == 0)
	default:
		return x
	}
}

// foldBinary applies a non-logical binary operator to two constants.  It fails
// on a division or modulo by zero.  Arithmetic wraps like i32.
func foldBinary(op ast.Op, a, b int32) (int32, bool) {
	switch op {
	case ast.OpAdd:
		return a + b, true
	case ast.OpSub:
		return a - b, true
	case ast.OpMul:
		return a * b, true
	case ast.OpDiv:
		if b == 0 {
			return 0, false
		}

		return a / b, true
	case ast.OpMod:
		if b == 0 {
			return 0, false
		}

		return a % b, true
	case ast.OpLT:
		return boolToInt(a < b), true
	case ast.OpLE:
		return boolToInt(a <= b), true
	case ast.OpGT:
		return boolToInt(a > b), true
	case ast.OpGE:
		return boolToInt(a >= b), true
	case ast.OpEQ:
		return boolToInt(a == b), true
	case ast.OpNE:
		return boolToInt(a != b), true
	case ast.OpLAnd:
		return boolToInt(a != 0 && b != 0), true
	case ast.OpLOr:
		return boolToInt(a != 0 || b != 0), true
	}

	return 0, false
}

func boolToInt(b bool) int32 {
	if b {
		return 1
	}

	return 0
}

// -----------------------------------------------------------------------------

// literal returns the operand text of a constant.
func literal(x int32) string {
	return strconv.Itoa(int(x))
}

// literalValue returns the value of an operand if it is an integer literal.
func literalValue(operand string) (int32, bool) {
	n, err := strconv.ParseInt(operand, 10, 32)
	if err != nil {
		return 0, false
	}

	return int32(n), true
}
