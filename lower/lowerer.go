package lower

import (
	"sysyc/ast"
	"sysyc/koopa"
	"sysyc/report"
)

// Lowerer lowers one compilation unit to Koopa IR text.  All of its state is
// owned by the value: independent units may be lowered concurrently with
// separate lowerers.
type Lowerer struct {
	// decls receives the library declarations and global allocations; funcs
	// receives the function definitions.  Globals precede all functions in the
	// output even though they may follow functions in the source.
	decls, funcs *koopa.Builder

	// scopes is the scope stack with the global scope first.
	scopes []map[string]*Symbol

	names *nameManager

	// loops is the stack of enclosing loops.
	loops []loopContext

	// fn is the function being lowered.
	fn *Symbol

	// open is set while the current basic block has no terminator.
	open bool
}

// loopContext holds the labels of an enclosing while loop.
type loopContext struct {
	entry, body, end string
}

// NewLowerer creates a new lowerer.
func NewLowerer() *Lowerer {
	l := &Lowerer{
		decls: &koopa.Builder{},
		funcs: &koopa.Builder{},
		names: newNameManager(),
	}

	l.enterScope()
	return l
}

// Lower lowers a compilation unit to the text of a Koopa IR program.
func Lower(cu *ast.CompUnit) (string, error) {
	return NewLowerer().Lower(cu)
}

// Lower lowers a compilation unit to the text of a Koopa IR program.  The
// first error encountered aborts lowering.
func (l *Lowerer) Lower(cu *ast.CompUnit) (text string, err error) {
	defer report.Catch(&err)

	l.declareLibrary()

	// every top level name is reserved up front so that locals of earlier
	// functions never take the name of a later global
	for _, item := range cu.Items {
		switch v := item.(type) {
		case *ast.Decl:
			for _, def := range v.Defs {
				if !v.Const || len(def.Dims) > 0 {
					l.names.reserve(def.Name)
				}
			}
		case *ast.FuncDef:
			l.names.reserve(v.Name)
		}
	}

	for _, item := range cu.Items {
		switch v := item.(type) {
		case *ast.Decl:
			l.lowerGlobalDecl(v)
		case *ast.FuncDef:
			l.lowerFuncDef(v)
		}
	}

	text = l.decls.String()
	if funcs := l.funcs.String(); funcs != "" {
		text += "\n" + funcs
	}

	return text, nil
}

// -----------------------------------------------------------------------------

// libraryRoutine is a routine provided by the SysY runtime library.
type libraryRoutine struct {
	name         string
	returnsValue bool
	params       []ParamKind
}

var (
	scalarParam = ParamKind{}
	i32PtrParam = ParamKind{Array: true}
)

// libraryRoutines are declared in every compilation unit in this order.
var libraryRoutines = []libraryRoutine{
	{name: "getint", returnsValue: true},
	{name: "getch", returnsValue: true},
	{name: "getarray", returnsValue: true, params: []ParamKind{i32PtrParam}},
	{name: "putint", params: []ParamKind{scalarParam}},
	{name: "putch", params: []ParamKind{scalarParam}},
	{name: "putarray", params: []ParamKind{scalarParam, i32PtrParam}},
	{name: "starttime"},
	{name: "stoptime"},
}

// declareLibrary emits the declarations of the library routines and defines
// their symbols in the global scope.
func (l *Lowerer) declareLibrary() {
	for _, routine := range libraryRoutines {
		sym := l.define(&Symbol{
			Name:         routine.name,
			IRName:       l.names.reserve(routine.name),
			Kind:         SymFunction,
			ReturnsValue: routine.returnsValue,
			Params:       routine.params,
		})

		l.decls.Decl(sym.IRName, funcType(sym))
	}
}

// -----------------------------------------------------------------------------

// funcType returns the IR type of a function symbol.
func funcType(sym *Symbol) *koopa.FuncType {
	ft := &koopa.FuncType{ReturnType: koopa.Unit}
	if sym.ReturnsValue {
		ft.ReturnType = koopa.I32
	}

	for _, param := range sym.Params {
		ft.Params = append(ft.Params, paramType(param))
	}

	return ft
}

// paramType returns the IR type of a parameter.
func paramType(param ParamKind) koopa.Type {
	if param.Array {
		return &koopa.PointerType{ElemType: koopa.NewArrayType(koopa.I32, param.Dims)}
	}

	return koopa.I32
}

// storageType returns the type of the value stored in a variable or array
// symbol's allocation.
func storageType(sym *Symbol) koopa.Type {
	switch {
	case sym.Decayed():
		return &koopa.PointerType{ElemType: koopa.NewArrayType(koopa.I32, sym.Shape[1:])}
	case sym.Kind == SymArray:
		return koopa.NewArrayType(koopa.I32, sym.Shape)
	default:
		return koopa.I32
	}
}
