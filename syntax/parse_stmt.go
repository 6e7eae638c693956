package syntax

import (
	"sysyc/ast"
)

// block := '{' {block_item} '}' ;
// block_item := const_decl | var_decl | stmt ;
func (p *Parser) parseBlock() *ast.Block {
	startSpan := p.want(TOK_LBRACE).Span

	var items []ast.BlockItem
	for !p.has(TOK_RBRACE) {
		switch p.tok.Kind {
		case TOK_CONST:
			items = append(items, p.parseConstDecl())
		case TOK_INT:
			items = append(items, p.parseVarDecl())
		case TOK_EOF:
			p.reject()
		default:
			items = append(items, p.parseStmt())
		}
	}

	endSpan := p.want(TOK_RBRACE).Span

	block := &ast.Block{Items: items}
	block.ASTBase = ast.NewASTBaseOver(startSpan, endSpan)
	return block
}

// stmt := block | if_stmt | while_stmt | simple_stmt ';' ;
// simple_stmt := 'break' | 'continue' | 'return' [expr] | [expr] | lvalue '=' expr ;
func (p *Parser) parseStmt() ast.Stmt {
	switch p.tok.Kind {
	case TOK_LBRACE:
		return p.parseBlock()
	case TOK_IF:
		return p.parseIfStmt()
	case TOK_WHILE:
		return p.parseWhileStmt()
	}

	var stmt ast.Stmt
	startSpan := p.tok.Span

	switch p.tok.Kind {
	case TOK_BREAK:
		p.next()
		p.want(TOK_SEMI)

		brk := &ast.BreakStmt{}
		brk.ASTBase = ast.NewASTBaseOver(startSpan, p.lookbehind.Span)
		return brk
	case TOK_CONTINUE:
		p.next()
		p.want(TOK_SEMI)

		cont := &ast.ContinueStmt{}
		cont.ASTBase = ast.NewASTBaseOver(startSpan, p.lookbehind.Span)
		return cont
	case TOK_RETURN:
		p.next()

		ret := &ast.ReturnStmt{}
		if !p.has(TOK_SEMI) {
			ret.Value = p.parseExpr()
		}

		stmt = ret
	case TOK_SEMI:
		stmt = &ast.ExprStmt{}
	default:
		expr := p.parseExpr()

		if p.has(TOK_ASSIGN) {
			target, ok := expr.(*ast.LValue)
			if !ok {
				p.error(expr.Span(), "cannot assign to an expression")
			}

			p.next()
			stmt = &ast.AssignStmt{Target: target, Value: p.parseExpr()}
		} else {
			stmt = &ast.ExprStmt{Value: expr}
		}
	}

	p.want(TOK_SEMI)
	setStmtSpan(stmt, ast.NewASTBaseOver(startSpan, p.lookbehind.Span))
	return stmt
}

// setStmtSpan sets the base of a simple statement.
func setStmtSpan(stmt ast.Stmt, base ast.ASTBase) {
	switch v := stmt.(type) {
	case *ast.ReturnStmt:
		v.ASTBase = base
	case *ast.ExprStmt:
		v.ASTBase = base
	case *ast.AssignStmt:
		v.ASTBase = base
	}
}

// if_stmt := 'if' '(' expr ')' stmt ['else' stmt] ;
func (p *Parser) parseIfStmt() *ast.IfStmt {
	startSpan := p.want(TOK_IF).Span
	p.want(TOK_LPAREN)
	cond := p.parseExpr()
	p.want(TOK_RPAREN)

	ifStmt := &ast.IfStmt{Cond: cond, Then: p.parseStmt()}

	// dangling else binds to the nearest if
	if p.has(TOK_ELSE) {
		p.next()
		ifStmt.Else = p.parseStmt()
	}

	ifStmt.ASTBase = ast.NewASTBaseOver(startSpan, p.lookbehind.Span)
	return ifStmt
}

// while_stmt := 'while' '(' expr ')' stmt ;
func (p *Parser) parseWhileStmt() *ast.WhileStmt {
	startSpan := p.want(TOK_WHILE).Span
	p.want(TOK_LPAREN)
	cond := p.parseExpr()
	p.want(TOK_RPAREN)

	body := p.parseStmt()

	whileStmt := &ast.WhileStmt{Cond: cond, Body: body}
	whileStmt.ASTBase = ast.NewASTBaseOver(startSpan, body.Span())
	return whileStmt
}
