package ast

// Expr is an expression.  All expression nodes implement it.
type Expr interface {
	ASTNode

	expr()
}

// ExprBase is the base struct for all expressions.
type ExprBase struct {
	ASTBase
}

func (ExprBase) expr() {}

// -----------------------------------------------------------------------------

// IntLit is an integer literal.  Literals outside the range of an i32 wrap.
type IntLit struct {
	ExprBase

	Value int32
}

// ParenExpr is a parenthesized expression.
type ParenExpr struct {
	ExprBase

	Inner Expr
}

// LValue is a named variable, constant or array element.
type LValue struct {
	ExprBase

	Name    string
	Indices []Expr
}

// CallExpr is a function call.
type CallExpr struct {
	ExprBase

	Callee string
	Args   []Expr
}

// UnaryExpr is a unary operator application.
type UnaryExpr struct {
	ExprBase

	Op      Op
	Operand Expr
}

// BinaryExpr is a binary operator application.  Logical `&&` and `||` are
// binary expressions as well: they are short-circuited when lowered.
type BinaryExpr struct {
	ExprBase

	Op       Op
	Lhs, Rhs Expr
}

// -----------------------------------------------------------------------------

// Op is an operator.
type Op int

// Enumeration of operators.
const (
	OpAdd Op = iota
	OpSub
	OpNot
	OpMul
	OpDiv
	OpMod
	OpLT
	OpLE
	OpGT
	OpGE
	OpEQ
	OpNE
	OpLAnd
	OpLOr
)

var opNames = [...]string{
	OpAdd:  "+",
	OpSub:  "-",
	OpNot:  "!",
	OpMul:  "*",
	OpDiv:  "/",
	OpMod:  "%",
	OpLT:   "<",
	OpLE:   "<=",
	OpGT:   ">",
	OpGE:   ">=",
	OpEQ:   "==",
	OpNE:   "!=",
	OpLAnd: "&&",
	OpLOr:  "||",
}

func (op Op) String() string {
	if int(op) < len(opNames) {
		return opNames[op]
	}

	return "?"
}
