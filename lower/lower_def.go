package lower

import (
	"sysyc/ast"
	"sysyc/koopa"
	"sysyc/report"
)

// lowerGlobalDecl lowers a global declaration.  Every initializer of a global
// must fold to a constant.
func (l *Lowerer) lowerGlobalDecl(decl *ast.Decl) {
	for _, def := range decl.Defs {
		if len(def.Dims) > 0 {
			l.lowerGlobalArray(def, decl.Const)
			continue
		}

		value := l.evalScalarInit(def, decl.Const, report.NonConstantGlobalInitializer)

		if decl.Const {
			l.declareConst(def.Name, value, def.Span())
			continue
		}

		sym := l.declareVar(def.Name, def.Span())
		if def.Init == nil {
			l.decls.Global(sym.IRName, koopa.I32, "zeroinit")
		} else {
			l.decls.Global(sym.IRName, koopa.I32, literal(value))
		}
	}
}

// lowerGlobalArray lowers a global array definition to one aggregate.
func (l *Lowerer) lowerGlobalArray(def *ast.Def, isConst bool) {
	shape := l.evalShape(def.Dims)

	kind := report.NonConstantGlobalInitializer
	if isConst {
		kind = report.NotAConstant
	}

	values := l.evalArrayInit(def, shape, kind)

	sym := l.declareArray(def.Name, shape, isConst, def.Span())
	if isConst {
		sym.Values = values
	}

	l.decls.Global(sym.IRName, storageType(sym), formatAggregate(values, shape))
}

// evalScalarInit folds the initializer of a scalar definition that must be a
// constant.  A missing initializer is zero.
func (l *Lowerer) evalScalarInit(def *ast.Def, isConst bool, kind report.Kind) int32 {
	if def.Init == nil {
		return 0
	}

	init, ok := def.Init.(*ast.InitExpr)
	if !ok {
		panic(report.Raise(report.InvalidInitializer, def.Init.Span(), "scalar `%s` cannot be initialized with a list", def.Name))
	}

	if isConst {
		return l.evalConst(init.Value)
	}

	return l.evalConstAs(init.Value, kind, "global initializer")
}

// -----------------------------------------------------------------------------

// lowerLocalDecl lowers a declaration inside a function body.
func (l *Lowerer) lowerLocalDecl(decl *ast.Decl) {
	for _, def := range decl.Defs {
		switch {
		case len(def.Dims) > 0:
			l.lowerLocalArray(def, decl.Const)
		case decl.Const:
			l.declareConst(def.Name, l.evalScalarInit(def, true, report.NotAConstant), def.Span())
		default:
			l.lowerLocalVar(def)
		}
	}
}

// lowerLocalVar lowers a scalar variable definition.  The initializer is
// lowered before the variable is declared: `int x = x;` refers to an outer x.
func (l *Lowerer) lowerLocalVar(def *ast.Def) {
	var value string
	if def.Init != nil {
		init, ok := def.Init.(*ast.InitExpr)
		if !ok {
			panic(report.Raise(report.InvalidInitializer, def.Init.Span(), "scalar `%s` cannot be initialized with a list", def.Name))
		}

		value = l.lowerExpr(init.Value)
	}

	sym := l.declareVar(def.Name, def.Span())
	l.funcs.Alloc(sym.IRName, koopa.I32)

	if value != "" {
		l.funcs.Store(value, sym.IRName)
	}
}

// lowerLocalArray lowers a local array definition.
func (l *Lowerer) lowerLocalArray(def *ast.Def, isConst bool) {
	shape := l.evalShape(def.Dims)

	var elems []string
	var values []int32
	if isConst {
		values = l.evalArrayInit(def, shape, report.NotAConstant)
		for _, value := range values {
			elems = append(elems, literal(value))
		}
	} else if def.Init != nil {
		flat := flattenArrayInit(def, shape)
		elems = make([]string, len(flat))

		for i, expr := range flat {
			if expr == nil {
				elems[i] = "0"
			} else {
				elems[i] = l.lowerExpr(expr)
			}
		}
	}

	sym := l.declareArray(def.Name, shape, isConst, def.Span())
	sym.Values = values

	l.funcs.Alloc(sym.IRName, storageType(sym))

	if elems != nil {
		l.initLocalArray(sym, elems)
	}
}

// -----------------------------------------------------------------------------

// lowerFuncDef lowers a function definition.
func (l *Lowerer) lowerFuncDef(fd *ast.FuncDef) {
	params := make([]ParamKind, len(fd.Params))
	for i, param := range fd.Params {
		if param.IsArray {
			params[i] = ParamKind{Array: true, Dims: l.evalShape(param.Dims)}
		}
	}

	// the function is visible inside its own body
	l.fn = l.declareFunction(fd.Name, fd.ReturnsValue, params, fd.Span())
	l.names.reset()
	l.loops = nil

	l.enterScope()
	defer l.exitScope()

	// every parameter is copied into a fresh slot of its own
	irParams := make([]koopa.FuncParam, len(fd.Params))
	slots := make([]*Symbol, len(fd.Params))
	for i, param := range fd.Params {
		irParams[i] = koopa.FuncParam{Name: l.names.freshVar(param.Name), Type: paramType(params[i])}

		if param.IsArray {
			shape := append([]int{DecayedDim}, params[i].Dims...)
			slots[i] = l.declareArray(param.Name, shape, false, param.Span())
		} else {
			slots[i] = l.declareVar(param.Name, param.Span())
		}
	}

	ret := koopa.Unit
	if fd.ReturnsValue {
		ret = koopa.I32
	}

	l.funcs.BeginFunc(l.fn.IRName, irParams, ret)
	l.openBlock("%entry")

	for i, slot := range slots {
		l.funcs.Alloc(slot.IRName, storageType(slot))
		l.funcs.Store(irParams[i].Name, slot.IRName)
	}

	l.lowerBlock(fd.Body)

	// control falling off the end returns implicitly
	if l.open {
		if fd.ReturnsValue {
			l.funcs.Ret("0")
		} else {
			l.funcs.Ret("")
		}

		l.open = false
	}

	l.funcs.EndFunc()
}
