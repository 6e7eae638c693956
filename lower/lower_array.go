package lower

import (
	"sysyc/ast"
	"sysyc/report"
)

// evalShape evaluates the dimensions of an array declaration.
func (l *Lowerer) evalShape(dims []ast.Expr) []int {
	shape := make([]int, len(dims))
	for i, dim := range dims {
		n := l.evalConstAs(dim, report.NonConstantArrayBound, "array dimension")
		if n <= 0 {
			panic(report.Raise(report.NonConstantArrayBound, dim.Span(), "array dimension must be positive, got %d", n))
		}

		shape[i] = int(n)
	}

	return shape
}

// flattenArrayInit flattens the initializer of an array definition.
func flattenArrayInit(def *ast.Def, shape []int) []ast.Expr {
	list, ok := def.Init.(*ast.InitList)
	if !ok {
		panic(report.Raise(report.InvalidInitializer, def.Init.Span(), "array `%s` must be initialized with an initializer list", def.Name))
	}

	return flattenInit(list, shape)
}

// evalArrayInit flattens and folds the initializer of an array whose elements
// must all be constants.  A missing initializer yields all zeros.
func (l *Lowerer) evalArrayInit(def *ast.Def, shape []int, kind report.Kind) []int32 {
	values := make([]int32, product(shape))
	if def.Init == nil {
		return values
	}

	for i, expr := range flattenArrayInit(def, shape) {
		if expr != nil {
			values[i] = l.evalConstAs(expr, kind, "initializer")
		}
	}

	return values
}

// -----------------------------------------------------------------------------

// initLocalArray zero initializes a local array in bulk and then stores each
// element that is not a literal zero.
func (l *Lowerer) initLocalArray(sym *Symbol, elems []string) {
	l.funcs.Store("zeroinit", sym.IRName)

	for offset, elem := range elems {
		if value, ok := literalValue(elem); ok && value == 0 {
			continue
		}

		ptr := sym.IRName
		for _, index := range unflatten(offset, sym.Shape) {
			next := l.freshTemp()
			l.funcs.GetElemPtr(next, ptr, literal(int32(index)))
			ptr = next
		}

		l.funcs.Store(elem, ptr)
	}
}

// -----------------------------------------------------------------------------

// lowerAddress computes the address designated by an lvalue referring to an
// array.  It returns the address and the shape of what it points to: an empty
// shape for a single element.
func (l *Lowerer) lowerAddress(lv *ast.LValue, sym *Symbol) (string, []int) {
	if len(lv.Indices) > len(sym.Shape) {
		panic(report.Raise(report.ArityOrTypeMismatch, lv.Span(), "too many indices for `%s`", lv.Name))
	}

	ptr := sym.IRName
	indices := lv.Indices

	// the storage of a decayed parameter holds the pointer: the first index
	// offsets that pointer instead of indexing an array
	if sym.Decayed() {
		base := l.freshTemp()
		l.funcs.Load(base, ptr)
		ptr = base

		if len(indices) > 0 {
			index := l.lowerExpr(indices[0])
			next := l.freshTemp()
			l.funcs.GetPtr(next, ptr, index)
			ptr = next
			indices = indices[1:]
		}
	}

	for _, indexExpr := range indices {
		index := l.lowerExpr(indexExpr)
		next := l.freshTemp()
		l.funcs.GetElemPtr(next, ptr, index)
		ptr = next
	}

	return ptr, sym.Shape[len(lv.Indices):]
}

// lowerArrayRef lowers a partially indexed array to a pointer to its first
// remaining element.  It returns the pointer and the dimensions after the
// decayed one.
func (l *Lowerer) lowerArrayRef(lv *ast.LValue, sym *Symbol) (string, []int) {
	ptr, rest := l.lowerAddress(lv, sym)

	// a decayed parameter which is not indexed is already a pointer
	if sym.Decayed() && len(lv.Indices) == 0 {
		return ptr, rest[1:]
	}

	decayed := l.freshTemp()
	l.funcs.GetElemPtr(decayed, ptr, "0")
	return decayed, rest[1:]
}
