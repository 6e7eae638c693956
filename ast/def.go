package ast

// FuncDef is a function definition.
type FuncDef struct {
	ASTBase

	// Whether the function is declared `int` rather than `void`.
	ReturnsValue bool

	Name   string
	Params []*FuncParam
	Body   *Block
}

func (*FuncDef) topLevel() {}

// FuncParam is a formal function parameter.
type FuncParam struct {
	ASTBase

	Name string

	// IsArray indicates a parameter of the form `int a[][N]...`: the
	// outermost dimension is omitted and the parameter is a pointer.
	IsArray bool

	// Dims are the dimensions following the omitted `[]`.
	Dims []Expr
}

// -----------------------------------------------------------------------------

// Decl is a `const` or variable declaration of one or more names.
type Decl struct {
	ASTBase

	Const bool
	Defs  []*Def
}

func (*Decl) topLevel()  {}
func (*Decl) blockItem() {}

// Def is a single declared name inside a declaration.
type Def struct {
	ASTBase

	Name string

	// Dims is empty for scalars.
	Dims []Expr

	// Init is nil when the definition has no initializer.
	Init Initializer
}

// Initializer is the right hand side of a definition: either an *InitExpr or
// an *InitList.
type Initializer interface {
	ASTNode

	initializer()
}

// InitExpr is a single expression initializer.
type InitExpr struct {
	ASTBase

	Value Expr
}

func (*InitExpr) initializer() {}

// InitList is a braced initializer list, possibly empty or nested.
type InitList struct {
	ASTBase

	Items []Initializer
}

func (*InitList) initializer() {}
