package syntax

import (
	"sysyc/ast"
)

// expr := lor_expr ;
// lor_expr := land_expr {'||' land_expr} ;
// land_expr := eq_expr {'&&' eq_expr} ;
// eq_expr := rel_expr {('==' | '!=') rel_expr} ;
// rel_expr := add_expr {('<' | '>' | '<=' | '>=') add_expr} ;
// add_expr := mul_expr {('+' | '-') mul_expr} ;
// mul_expr := unary_expr {('*' | '/' | '%') unary_expr} ;
func (p *Parser) parseExpr() ast.Expr {
	return p.precedenceParse(p.parseUnaryExpr(), len(precTable))
}

// precTable is the operator precedence table for binary operators. The table is
// ordered highest to lowest precedence.
var precTable = [][]int{
	{TOK_STAR, TOK_DIV, TOK_MOD},
	{TOK_PLUS, TOK_MINUS},
	{TOK_LT, TOK_GT, TOK_LTEQ, TOK_GTEQ},
	{TOK_EQ, TOK_NEQ},
	{TOK_LAND},
	{TOK_LOR},
}

// binaryOps maps binary operator tokens to their AST operators.
var binaryOps = map[int]ast.Op{
	TOK_STAR:  ast.OpMul,
	TOK_DIV:   ast.OpDiv,
	TOK_MOD:   ast.OpMod,
	TOK_PLUS:  ast.OpAdd,
	TOK_MINUS: ast.OpSub,
	TOK_LT:    ast.OpLT,
	TOK_GT:    ast.OpGT,
	TOK_LTEQ:  ast.OpLE,
	TOK_GTEQ:  ast.OpGE,
	TOK_EQ:    ast.OpEQ,
	TOK_NEQ:   ast.OpNE,
	TOK_LAND:  ast.OpLAnd,
	TOK_LOR:   ast.OpLOr,
}

// precedenceParse performs operator precedence parsing for binary operators.
// All operators are left associative.
func (p *Parser) precedenceParse(lhs ast.Expr, maxPrec int) ast.Expr {
	for {
		// check to see if the lookahead matches any of the operators at or
		// above our precedence level.
		var op *Token
		var opPrec int
		for prec, precLevel := range precTable[:maxPrec] {
			if p.hasOneOf(precLevel...) {
				op = p.tok
				opPrec = prec
				break
			}
		}

		// no matching operator
		if op == nil {
			break
		}

		p.next()

		rhs := p.parseUnaryExpr()

		// bind every tighter operator to the right operand first
	nextOpLoop:
		for {
			for _, precLevel := range precTable[:opPrec] {
				if p.hasOneOf(precLevel...) {
					rhs = p.precedenceParse(rhs, opPrec)
					continue nextOpLoop
				}
			}

			break
		}

		bin := &ast.BinaryExpr{Op: binaryOps[op.Kind], Lhs: lhs, Rhs: rhs}
		bin.ASTBase = ast.NewASTBaseOver(lhs.Span(), rhs.Span())
		lhs = bin
	}

	return lhs
}

// unary_expr := ('+' | '-' | '!') unary_expr | primary_expr ;
func (p *Parser) parseUnaryExpr() ast.Expr {
	var op ast.Op
	switch p.tok.Kind {
	case TOK_PLUS:
		op = ast.OpAdd
	case TOK_MINUS:
		op = ast.OpSub
	case TOK_NOT:
		op = ast.OpNot
	default:
		return p.parsePrimaryExpr()
	}

	startSpan := p.tok.Span
	p.next()

	operand := p.parseUnaryExpr()

	unary := &ast.UnaryExpr{Op: op, Operand: operand}
	unary.ASTBase = ast.NewASTBaseOver(startSpan, operand.Span())
	return unary
}

// primary_expr := '(' expr ')' | 'INTLIT' | 'IDENT' call_args | lvalue ;
// call_args := '(' [expr {',' expr}] ')' ;
// lvalue := 'IDENT' {'[' expr ']'} ;
func (p *Parser) parsePrimaryExpr() ast.Expr {
	switch p.tok.Kind {
	case TOK_LPAREN:
		startSpan := p.want(TOK_LPAREN).Span
		inner := p.parseExpr()
		endSpan := p.want(TOK_RPAREN).Span

		paren := &ast.ParenExpr{Inner: inner}
		paren.ASTBase = ast.NewASTBaseOver(startSpan, endSpan)
		return paren
	case TOK_INTLIT:
		tok := p.want(TOK_INTLIT)

		lit := &ast.IntLit{Value: p.parseIntValue(tok)}
		lit.ASTBase = ast.NewASTBaseOn(tok.Span)
		return lit
	case TOK_IDENT:
		nameTok := p.want(TOK_IDENT)

		if p.has(TOK_LPAREN) {
			p.next()

			var args []ast.Expr
			if !p.has(TOK_RPAREN) {
				for {
					args = append(args, p.parseExpr())

					if p.has(TOK_COMMA) {
						p.next()
						continue
					}

					break
				}
			}

			endSpan := p.want(TOK_RPAREN).Span

			call := &ast.CallExpr{Callee: nameTok.Value, Args: args}
			call.ASTBase = ast.NewASTBaseOver(nameTok.Span, endSpan)
			return call
		}

		lval := &ast.LValue{Name: nameTok.Value, Indices: p.parseDims()}
		lval.ASTBase = ast.NewASTBaseOver(nameTok.Span, p.lookbehind.Span)
		return lval
	}

	p.reject()
	return nil
}
