package lower

import (
	"sysyc/ast"
	"sysyc/report"
)

// lowerBlock lowers a block in a new scope.
func (l *Lowerer) lowerBlock(block *ast.Block) {
	l.enterScope()
	defer l.exitScope()

	for _, item := range block.Items {
		// code after a terminator is unreachable and is not emitted
		if !l.open {
			return
		}

		switch v := item.(type) {
		case *ast.Decl:
			l.lowerLocalDecl(v)
		case ast.Stmt:
			l.lowerStmt(v)
		}
	}
}

// lowerStmt lowers a statement.  It is a no-op if the current block is closed.
func (l *Lowerer) lowerStmt(stmt ast.Stmt) {
	if !l.open {
		return
	}

	switch v := stmt.(type) {
	case *ast.Block:
		l.lowerBlock(v)
	case *ast.ReturnStmt:
		l.lowerReturn(v)
	case *ast.AssignStmt:
		l.lowerAssign(v)
	case *ast.ExprStmt:
		if call, ok := v.Value.(*ast.CallExpr); ok {
			l.lowerCall(call, false)
		} else if v.Value != nil {
			l.lowerExpr(v.Value)
		}
	case *ast.IfStmt:
		l.lowerIf(v)
	case *ast.WhileStmt:
		l.lowerWhile(v)
	case *ast.BreakStmt:
		if len(l.loops) == 0 {
			panic(report.Raise(report.BreakOutsideLoop, v.Span(), "`break` outside of a loop"))
		}

		l.funcs.Jump(l.loops[len(l.loops)-1].end)
		l.open = false
	case *ast.ContinueStmt:
		if len(l.loops) == 0 {
			panic(report.Raise(report.ContinueOutsideLoop, v.Span(), "`continue` outside of a loop"))
		}

		l.funcs.Jump(l.loops[len(l.loops)-1].entry)
		l.open = false
	}
}

// lowerReturn lowers a return statement.
func (l *Lowerer) lowerReturn(ret *ast.ReturnStmt) {
	switch {
	case ret.Value == nil && l.fn.ReturnsValue:
		panic(report.Raise(report.ArityOrTypeMismatch, ret.Span(), "`%s` must return a value", l.fn.Name))
	case ret.Value != nil && !l.fn.ReturnsValue:
		panic(report.Raise(report.ArityOrTypeMismatch, ret.Span(), "`%s` cannot return a value", l.fn.Name))
	case ret.Value == nil:
		l.funcs.Ret("")
	default:
		l.funcs.Ret(l.lowerExpr(ret.Value))
	}

	l.open = false
}

// lowerAssign lowers an assignment.  The value is lowered before the address.
func (l *Lowerer) lowerAssign(assign *ast.AssignStmt) {
	target := assign.Target
	sym := l.resolve(target.Name, target.Span())

	switch sym.Kind {
	case SymConstant:
		panic(report.Raise(report.InvalidAssignment, target.Span(), "cannot assign to constant `%s`", target.Name))
	case SymFunction:
		panic(report.Raise(report.InvalidAssignment, target.Span(), "cannot assign to function `%s`", target.Name))
	case SymVariable:
		if len(target.Indices) > 0 {
			panic(report.Raise(report.ArityOrTypeMismatch, target.Span(), "`%s` is not an array", target.Name))
		}

		l.funcs.Store(l.lowerExpr(assign.Value), sym.IRName)
	case SymArray:
		if sym.Const {
			panic(report.Raise(report.InvalidAssignment, target.Span(), "cannot assign to constant array `%s`", target.Name))
		} else if len(target.Indices) < len(sym.Shape) {
			panic(report.Raise(report.InvalidAssignment, target.Span(), "cannot assign to array `%s` without indexing every dimension", target.Name))
		}

		value := l.lowerExpr(assign.Value)
		ptr, _ := l.lowerAddress(target, sym)
		l.funcs.Store(value, ptr)
	}
}

// -----------------------------------------------------------------------------

// lowerIf lowers an if statement.  Labels are allocated in the order then,
// else, end.
func (l *Lowerer) lowerIf(ifStmt *ast.IfStmt) {
	cond := l.lowerExpr(ifStmt.Cond)

	thenLabel := l.freshLabel("then")

	var elseLabel string
	if ifStmt.Else != nil {
		elseLabel = l.freshLabel("else")
	}

	endLabel := l.freshLabel("end")

	if ifStmt.Else != nil {
		l.funcs.Branch(cond, thenLabel, elseLabel)
	} else {
		l.funcs.Branch(cond, thenLabel, endLabel)
	}

	l.openBlock(thenLabel)
	l.lowerStmt(ifStmt.Then)
	l.closeWithJump(endLabel)

	if ifStmt.Else != nil {
		l.openBlock(elseLabel)
		l.lowerStmt(ifStmt.Else)
		l.closeWithJump(endLabel)
	}

	l.openBlock(endLabel)
}

// lowerWhile lowers a while loop.
func (l *Lowerer) lowerWhile(while *ast.WhileStmt) {
	loop := loopContext{
		entry: l.freshLabel("while_entry"),
		body:  l.freshLabel("while_body"),
		end:   l.freshLabel("while_end"),
	}

	l.funcs.Jump(loop.entry)

	l.openBlock(loop.entry)
	cond := l.lowerExpr(while.Cond)
	l.funcs.Branch(cond, loop.body, loop.end)

	l.loops = append(l.loops, loop)

	l.openBlock(loop.body)
	l.lowerStmt(while.Body)
	l.closeWithJump(loop.entry)

	l.loops = l.loops[:len(l.loops)-1]

	l.openBlock(loop.end)
}

// openBlock starts a new basic block which accepts instructions.
func (l *Lowerer) openBlock(label string) {
	l.funcs.Label(label)
	l.open = true
}

// closeWithJump terminates the current block with a jump if it is still open.
func (l *Lowerer) closeWithJump(label string) {
	if l.open {
		l.funcs.Jump(label)
		l.open = false
	}
}
