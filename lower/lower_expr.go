package lower

import (
	"sysyc/ast"
	"sysyc/koopa"
	"sysyc/report"
)

// lowerExpr lowers an expression evaluated at runtime and returns the operand
// holding its value: an integer literal or a temporary.  Operations on two
// literals are folded.
func (l *Lowerer) lowerExpr(expr ast.Expr) string {
	switch v := expr.(type) {
	case *ast.IntLit:
		return literal(v.Value)
	case *ast.ParenExpr:
		return l.lowerExpr(v.Inner)
	case *ast.LValue:
		return l.lowerLValue(v)
	case *ast.CallExpr:
		return l.lowerCall(v, true)
	case *ast.UnaryExpr:
		return l.lowerUnary(v)
	case *ast.BinaryExpr:
		switch v.Op {
		case ast.OpLAnd, ast.OpLOr:
			return l.lowerLogical(v)
		default:
			return l.lowerBinary(v)
		}
	}

	panic(report.Raise(report.Syntax, expr.Span(), "unsupported expression"))
}

// binaryOps maps arithmetic and comparison operators to IR operators.
var binaryOps = map[ast.Op]koopa.BinaryOp{
	ast.OpAdd: koopa.OpAdd,
	ast.OpSub: koopa.OpSub,
	ast.OpMul: koopa.OpMul,
	ast.OpDiv: koopa.OpDiv,
	ast.OpMod: koopa.OpMod,
	ast.OpLT:  koopa.OpLt,
	ast.OpLE:  koopa.OpLe,
	ast.OpGT:  koopa.OpGt,
	ast.OpGE:  koopa.OpGe,
	ast.OpEQ:  koopa.OpEq,
	ast.OpNE:  koopa.OpNotEq,
}

// lowerBinary lowers an arithmetic or comparison operation.
func (l *Lowerer) lowerBinary(bin *ast.BinaryExpr) string {
	lhs := l.lowerExpr(bin.Lhs)
	rhs := l.lowerExpr(bin.Rhs)

	// a division by a literal zero is left to the runtime
	if a, ok := literalValue(lhs); ok {
		if b, ok := literalValue(rhs); ok {
			if result, ok := foldBinary(bin.Op, a, b); ok {
				return literal(result)
			}
		}
	}

	return l.emitBinary(binaryOps[bin.Op], lhs, rhs)
}

// emitBinary emits a binary instruction into a fresh temporary.
func (l *Lowerer) emitBinary(op koopa.BinaryOp, lhs, rhs string) string {
	dst := l.freshTemp()
	l.funcs.Binary(dst, op, lhs, rhs)
	return dst
}

// lowerUnary lowers `+x`, `-x` and `!x`.
func (l *Lowerer) lowerUnary(unary *ast.UnaryExpr) string {
	operand := l.lowerExpr(unary.Operand)
	if x, ok := literalValue(operand); ok {
		return literal(foldUnary(unary.Op, x))
	}

	switch unary.Op {
	case ast.OpSub:
		return l.emitBinary(koopa.OpSub, "0", operand)
	case ast.OpNot:
		return l.emitBinary(koopa.OpEq, operand, "0")
	default:
		return operand
	}
}

// lowerLogical lowers `&&` and `||` with short-circuit evaluation: the right
// operand is only evaluated when the left one does not decide the result.
func (l *Lowerer) lowerLogical(bin *ast.BinaryExpr) string {
	isAnd := bin.Op == ast.OpLAnd

	lhs := l.lowerExpr(bin.Lhs)

	// a literal left operand decides at compile time whether the right
	// operand is evaluated at all
	if a, ok := literalValue(lhs); ok {
		if isAnd == (a == 0) {
			return literal(boolToInt(a != 0))
		}

		return l.normalize(l.lowerExpr(bin.Rhs))
	}

	hint, dflt := "lor", "1"
	if isAnd {
		hint = "land"
		dflt = "0"
	}

	slot := l.freshTemp()
	l.funcs.Alloc(slot, koopa.I32)
	l.funcs.Store(dflt, slot)

	rhsLabel := l.freshLabel(hint + "_rhs")
	endLabel := l.freshLabel(hint + "_end")

	if isAnd {
		l.funcs.Branch(lhs, rhsLabel, endLabel)
	} else {
		l.funcs.Branch(lhs, endLabel, rhsLabel)
	}

	l.funcs.Label(rhsLabel)
	l.funcs.Store(l.normalize(l.lowerExpr(bin.Rhs)), slot)
	l.funcs.Jump(endLabel)

	l.funcs.Label(endLabel)

	result := l.freshTemp()
	l.funcs.Load(result, slot)
	return result
}

// normalize converts a truth value to 0 or 1.
func (l *Lowerer) normalize(operand string) string {
	if x, ok := literalValue(operand); ok {
		return literal(boolToInt(x != 0))
	}

	return l.emitBinary(koopa.OpNotEq, operand, "0")
}

// -----------------------------------------------------------------------------

// lowerLValue lowers an lvalue used as a value.
func (l *Lowerer) lowerLValue(lv *ast.LValue) string {
	sym := l.resolve(lv.Name, lv.Span())

	switch sym.Kind {
	case SymConstant:
		if len(lv.Indices) > 0 {
			panic(report.Raise(report.ArityOrTypeMismatch, lv.Span(), "`%s` is not an array", lv.Name))
		}

		return literal(sym.Value)
	case SymVariable:
		if len(lv.Indices) > 0 {
			panic(report.Raise(report.ArityOrTypeMismatch, lv.Span(), "`%s` is not an array", lv.Name))
		}

		dst := l.freshTemp()
		l.funcs.Load(dst, sym.IRName)
		return dst
	case SymArray:
		if len(lv.Indices) < len(sym.Shape) {
			panic(report.Raise(report.ArityOrTypeMismatch, lv.Span(), "`%s` is an array and cannot be used as a value", lv.Name))
		}

		// an element of a constant array indexed by literals is folded
		if sym.Const {
			if value, ok := l.foldConstElement(lv, sym); ok {
				return literal(value)
			}
		}

		ptr, _ := l.lowerAddress(lv, sym)
		dst := l.freshTemp()
		l.funcs.Load(dst, ptr)
		return dst
	}

	panic(report.Raise(report.ArityOrTypeMismatch, lv.Span(), "`%s` is a function and cannot be used as a value", lv.Name))
}

// foldConstElement folds an element of a constant array if every index is a
// constant within range.  Index expressions are not evaluated when folding
// fails.
func (l *Lowerer) foldConstElement(lv *ast.LValue, sym *Symbol) (int32, bool) {
	offset := 0
	for i, index := range lv.Indices {
		n, ok := l.tryEvalConst(index)
		if !ok || n < 0 || int(n) >= sym.Shape[i] {
			return 0, false
		}

		offset = offset*sym.Shape[i] + int(n)
	}

	return sym.Values[offset], true
}

// tryEvalConst evaluates an expression at compile time if it is a constant.
func (l *Lowerer) tryEvalConst(expr ast.Expr) (value int32, ok bool) {
	defer func() {
		if x := recover(); x != nil {
			if _, isErr := x.(*report.CompileError); !isErr {
				panic(x)
			}

			value, ok = 0, false
		}
	}()

	return l.evalConst(expr), true
}

// -----------------------------------------------------------------------------

// lowerCall lowers a function call.  If needValue is set, the callee must
// return a value and the temporary holding it is returned.
func (l *Lowerer) lowerCall(call *ast.CallExpr, needValue bool) string {
	sym := l.resolve(call.Callee, call.Span())
	if sym.Kind != SymFunction {
		panic(report.Raise(report.ArityOrTypeMismatch, call.Span(), "`%s` is not a function", call.Callee))
	}

	if needValue && !sym.ReturnsValue {
		panic(report.Raise(report.ArityOrTypeMismatch, call.Span(), "`%s` does not return a value", call.Callee))
	}

	if len(call.Args) != len(sym.Params) {
		panic(report.Raise(
			report.ArityOrTypeMismatch,
			call.Span(),
			"`%s` expects %d arguments, got %d",
			call.Callee, len(sym.Params), len(call.Args),
		))
	}

	args := make([]string, len(call.Args))
	for i, arg := range call.Args {
		args[i] = l.lowerArg(arg, sym.Params[i], call.Callee, i)
	}

	if !sym.ReturnsValue {
		l.funcs.Call("", sym.IRName, args)
		return ""
	}

	dst := l.freshTemp()
	l.funcs.Call(dst, sym.IRName, args)
	return dst
}

// lowerArg lowers the i-th argument of a call to callee.
func (l *Lowerer) lowerArg(arg ast.Expr, param ParamKind, callee string, i int) string {
	lv, _ := arg.(*ast.LValue)

	var sym *Symbol
	if lv != nil {
		sym = l.resolve(lv.Name, lv.Span())
	}

	isArrayRef := sym != nil && sym.Kind == SymArray && len(lv.Indices) < len(sym.Shape)

	if !param.Array {
		if isArrayRef {
			panic(report.Raise(report.ArityOrTypeMismatch, arg.Span(), "argument %d of `%s` must be a scalar, not an array", i+1, callee))
		}

		return l.lowerExpr(arg)
	}

	if !isArrayRef {
		panic(report.Raise(report.ArityOrTypeMismatch, arg.Span(), "argument %d of `%s` must be an array", i+1, callee))
	}

	ptr, dims := l.lowerArrayRef(lv, sym)
	if !sameDims(dims, param.Dims) {
		panic(report.Raise(report.ArityOrTypeMismatch, arg.Span(), "argument %d of `%s` has mismatched array dimensions", i+1, callee))
	}

	return ptr
}

func sameDims(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}
