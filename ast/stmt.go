package ast

// BlockItem is an item of a block: a *Decl or a Stmt.
type BlockItem interface {
	ASTNode

	blockItem()
}

// Stmt is a statement.
type Stmt interface {
	BlockItem

	stmt()
}

// StmtBase is the base struct for all statements.
type StmtBase struct {
	ASTBase
}

func (StmtBase) blockItem() {}
func (StmtBase) stmt()      {}

// -----------------------------------------------------------------------------

// Block is a braced sequence of block items opening a new scope.
type Block struct {
	StmtBase

	Items []BlockItem
}

// ReturnStmt is a return statement.  Value is nil for a bare `return;`.
type ReturnStmt struct {
	StmtBase

	Value Expr
}

// AssignStmt is an assignment to an lvalue.
type AssignStmt struct {
	StmtBase

	Target *LValue
	Value  Expr
}

// ExprStmt is an expression evaluated for its side effects.  Value is nil for
// the empty statement `;`.
type ExprStmt struct {
	StmtBase

	Value Expr
}

// IfStmt is an if statement with an optional else branch.
type IfStmt struct {
	StmtBase

	Cond Expr
	Then Stmt

	// Else is nil when there is no else branch.
	Else Stmt
}

// WhileStmt is a while loop.
type WhileStmt struct {
	StmtBase

	Cond Expr
	Body Stmt
}

// BreakStmt is a `break` statement.
type BreakStmt struct {
	StmtBase
}

// ContinueStmt is a `continue` statement.
type ContinueStmt struct {
	StmtBase
}
