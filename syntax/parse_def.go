package syntax

import (
	"strconv"

	"sysyc/ast"
)

// comp_unit := {decl | func_def} ;
func (p *Parser) parseCompUnit() *ast.CompUnit {
	startSpan := p.tok.Span

	var items []ast.TopLevel
	for !p.has(TOK_EOF) {
		if p.has(TOK_CONST) {
			items = append(items, p.parseConstDecl())
			continue
		}

		// both function definitions and variable declarations begin with a
		// type and a name: the token after the name decides between them
		if !p.hasOneOf(TOK_INT, TOK_VOID) {
			p.reject()
		}

		typeTok := p.tok
		p.next()
		nameTok := p.want(TOK_IDENT)

		if p.has(TOK_LPAREN) {
			items = append(items, p.parseFuncDef(typeTok, nameTok))
		} else if typeTok.Kind == TOK_VOID {
			p.error(typeTok.Span, "variables cannot be declared `void`")
		} else {
			items = append(items, p.parseVarDeclRest(typeTok, nameTok))
		}
	}

	return &ast.CompUnit{
		ASTBase: ast.NewASTBaseOver(startSpan, p.tok.Span),
		Items:   items,
	}
}

// func_def := ('int' | 'void') 'IDENT' '(' [func_params] ')' block ;
// func_params := func_param {',' func_param} ;
func (p *Parser) parseFuncDef(typeTok, nameTok *Token) *ast.FuncDef {
	p.want(TOK_LPAREN)

	var params []*ast.FuncParam
	if !p.has(TOK_RPAREN) {
		for {
			params = append(params, p.parseFuncParam())

			if p.has(TOK_COMMA) {
				p.next()
				continue
			}

			break
		}
	}

	p.want(TOK_RPAREN)

	body := p.parseBlock()

	return &ast.FuncDef{
		ASTBase:      ast.NewASTBaseOver(typeTok.Span, body.Span()),
		ReturnsValue: typeTok.Kind == TOK_INT,
		Name:         nameTok.Value,
		Params:       params,
		Body:         body,
	}
}

// func_param := 'int' 'IDENT' ['[' ']' {'[' expr ']'}] ;
func (p *Parser) parseFuncParam() *ast.FuncParam {
	startSpan := p.want(TOK_INT).Span
	nameTok := p.want(TOK_IDENT)

	param := &ast.FuncParam{Name: nameTok.Value}
	if p.has(TOK_LBRACKET) {
		p.next()
		p.want(TOK_RBRACKET)

		param.IsArray = true
		param.Dims = p.parseDims()
	}

	param.ASTBase = ast.NewASTBaseOver(startSpan, p.lookbehind.Span)
	return param
}

// -----------------------------------------------------------------------------

// const_decl := 'const' 'int' def {',' def} ';' ;
func (p *Parser) parseConstDecl() *ast.Decl {
	startSpan := p.want(TOK_CONST).Span
	p.want(TOK_INT)

	decl := &ast.Decl{Const: true}
	for {
		nameTok := p.want(TOK_IDENT)
		def := p.parseDef(nameTok)
		if def.Init == nil {
			p.error(def.Span(), "constant `%s` must be initialized", def.Name)
		}

		decl.Defs = append(decl.Defs, def)

		if p.has(TOK_COMMA) {
			p.next()
			continue
		}

		break
	}

	p.want(TOK_SEMI)
	decl.ASTBase = ast.NewASTBaseOver(startSpan, p.lookbehind.Span)
	return decl
}

// var_decl := 'int' def {',' def} ';' ;
func (p *Parser) parseVarDecl() *ast.Decl {
	typeTok := p.want(TOK_INT)
	return p.parseVarDeclRest(typeTok, p.want(TOK_IDENT))
}

// parseVarDeclRest parses the remainder of a variable declaration after the
// type and the first name have been consumed.
func (p *Parser) parseVarDeclRest(typeTok, nameTok *Token) *ast.Decl {
	decl := &ast.Decl{}
	for {
		decl.Defs = append(decl.Defs, p.parseDef(nameTok))

		if p.has(TOK_COMMA) {
			p.next()
			nameTok = p.want(TOK_IDENT)
			continue
		}

		break
	}

	p.want(TOK_SEMI)
	decl.ASTBase = ast.NewASTBaseOver(typeTok.Span, p.lookbehind.Span)
	return decl
}

// def := 'IDENT' {'[' expr ']'} ['=' initializer] ;
func (p *Parser) parseDef(nameTok *Token) *ast.Def {
	def := &ast.Def{Name: nameTok.Value, Dims: p.parseDims()}

	if p.has(TOK_ASSIGN) {
		p.next()
		def.Init = p.parseInitializer()
	}

	def.ASTBase = ast.NewASTBaseOver(nameTok.Span, p.lookbehind.Span)
	return def
}

// dims := {'[' expr ']'} ;
func (p *Parser) parseDims() []ast.Expr {
	var dims []ast.Expr
	for p.has(TOK_LBRACKET) {
		p.next()
		dims = append(dims, p.parseExpr())
		p.want(TOK_RBRACKET)
	}

	return dims
}

// initializer := expr | '{' [initializer {',' initializer}] '}' ;
func (p *Parser) parseInitializer() ast.Initializer {
	if !p.has(TOK_LBRACE) {
		expr := p.parseExpr()
		return &ast.InitExpr{
			ASTBase: ast.NewASTBaseOn(expr.Span()),
			Value:   expr,
		}
	}

	startSpan := p.want(TOK_LBRACE).Span

	var items []ast.Initializer
	if !p.has(TOK_RBRACE) {
		for {
			items = append(items, p.parseInitializer())

			if p.has(TOK_COMMA) {
				p.next()
				continue
			}

			break
		}
	}

	endSpan := p.want(TOK_RBRACE).Span

	return &ast.InitList{
		ASTBase: ast.NewASTBaseOver(startSpan, endSpan),
		Items:   items,
	}
}

// -----------------------------------------------------------------------------

// parseIntValue converts the text of an integer literal to its value.  Values
// that don't fit in an i32 wrap: `-2147483648` is the negation of 2147483648.
func (p *Parser) parseIntValue(tok *Token) int32 {
	value, err := strconv.ParseUint(tok.Value, 0, 64)
	if err != nil || value > 0xffffffff {
		p.error(tok.Span, "integer literal out of range: `%s`", tok.Value)
	}

	return int32(uint32(value))
}
