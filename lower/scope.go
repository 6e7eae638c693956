package lower

import (
	"sysyc/report"
)

// SymbolKind is the kind of a symbol.
type SymbolKind int

// Enumeration of symbol kinds.
const (
	SymVariable SymbolKind = iota
	SymConstant
	SymFunction
	SymArray
)

// Symbol is a named entity visible in some scope.
type Symbol struct {
	Name string

	// IRName is the IR name of the storage (variables, arrays) or function.
	// Scalar constants have no storage and no IR name.
	IRName string

	Kind SymbolKind

	// Value is the value of a scalar constant.
	Value int32

	// ReturnsValue and Params describe a function.
	ReturnsValue bool
	Params       []ParamKind

	// Shape is the list of dimensions of an array outermost first.  A decayed
	// array parameter has the sentinel DecayedDim as its first dimension.
	Shape []int

	// Const marks a `const` array; Values then holds its flattened contents.
	Const  bool
	Values []int32

	// DefSpan is where the symbol is declared.  It is nil for library
	// routines.
	DefSpan *report.TextSpan
}

// DecayedDim is the sentinel outer dimension of a decayed array parameter.
const DecayedDim = -1

// Decayed returns whether the symbol is a decayed array parameter: its storage
// holds a pointer, not the array itself.
func (s *Symbol) Decayed() bool {
	return s.Kind == SymArray && len(s.Shape) > 0 && s.Shape[0] == DecayedDim
}

// ParamKind describes a function parameter.
type ParamKind struct {
	// Array is set for a pointer parameter.  Dims then lists the dimensions
	// after the omitted outermost one.
	Array bool
	Dims  []int
}

// -----------------------------------------------------------------------------

// enterScope pushes a new innermost scope.
func (l *Lowerer) enterScope() {
	l.scopes = append(l.scopes, make(map[string]*Symbol))
}

// exitScope pops the innermost scope.
func (l *Lowerer) exitScope() {
	l.scopes = l.scopes[:len(l.scopes)-1]
}

// inGlobalScope returns whether the global scope is the innermost scope.
func (l *Lowerer) inGlobalScope() bool {
	return len(l.scopes) == 1
}

// define inserts a symbol into the innermost scope.
func (l *Lowerer) define(sym *Symbol) *Symbol {
	scope := l.scopes[len(l.scopes)-1]

	if prev, ok := scope[sym.Name]; ok {
		if prev.DefSpan == nil {
			panic(report.Raise(report.Redeclared, sym.DefSpan, "`%s` is a library routine and cannot be redeclared", sym.Name))
		}

		panic(report.Raise(
			report.Redeclared,
			sym.DefSpan,
			"`%s` is already declared in this scope (at %d:%d)",
			sym.Name, prev.DefSpan.StartLine+1, prev.DefSpan.StartCol+1,
		))
	}

	scope[sym.Name] = sym
	return sym
}

// storageName returns the IR name for the storage of a new variable.
func (l *Lowerer) storageName(name string) string {
	if l.inGlobalScope() {
		return l.names.reserve(name)
	}

	return l.names.freshVar(name)
}

// declareConst declares a scalar constant.
func (l *Lowerer) declareConst(name string, value int32, span *report.TextSpan) *Symbol {
	return l.define(&Symbol{Name: name, Kind: SymConstant, Value: value, DefSpan: span})
}

// declareVar declares a scalar variable.
func (l *Lowerer) declareVar(name string, span *report.TextSpan) *Symbol {
	l.checkUnique(name, span)

	return l.define(&Symbol{
		Name:    name,
		IRName:  l.storageName(name),
		Kind:    SymVariable,
		DefSpan: span,
	})
}

// declareArray declares an array.  For a decayed parameter shape starts with
// DecayedDim.
func (l *Lowerer) declareArray(name string, shape []int, isConst bool, span *report.TextSpan) *Symbol {
	l.checkUnique(name, span)

	return l.define(&Symbol{
		Name:    name,
		IRName:  l.storageName(name),
		Kind:    SymArray,
		Shape:   shape,
		Const:   isConst,
		DefSpan: span,
	})
}

// declareFunction declares a function in the global scope.
func (l *Lowerer) declareFunction(name string, returnsValue bool, params []ParamKind, span *report.TextSpan) *Symbol {
	l.checkUnique(name, span)

	return l.define(&Symbol{
		Name:         name,
		IRName:       l.names.reserve(name),
		Kind:         SymFunction,
		ReturnsValue: returnsValue,
		Params:       params,
		DefSpan:      span,
	})
}

// checkUnique raises a redeclaration error before any IR name is fabricated.
func (l *Lowerer) checkUnique(name string, span *report.TextSpan) {
	if _, ok := l.scopes[len(l.scopes)-1][name]; ok {
		l.define(&Symbol{Name: name, DefSpan: span})
	}
}

// resolve looks up a name from the innermost scope outwards.
func (l *Lowerer) resolve(name string, span *report.TextSpan) *Symbol {
	for i := len(l.scopes) - 1; i >= 0; i-- {
		if sym, ok := l.scopes[i][name]; ok {
			return sym
		}
	}

	panic(report.Raise(report.UnboundIdentifier, span, "undefined symbol `%s`", name))
}

// freshTemp returns a new SSA temporary name.
func (l *Lowerer) freshTemp() string {
	return l.names.freshTemp()
}

// freshLabel returns a new unique label from a hint.
func (l *Lowerer) freshLabel(hint string) string {
	return l.names.freshLabel(hint)
}
