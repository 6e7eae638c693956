package koopa

import (
	"fmt"
	"strconv"

	"sysyc/report"
)

// Decode decodes the text of a Koopa IR program into its in-memory graph.
// Any structural problem in the text is a compile error of kind MalformedIR.
func Decode(text string) (prog *Program, err error) {
	defer report.Catch(&err)

	d := &decoder{
		lexer:   newLexer(text),
		prog:    &Program{},
		globals: make(map[string]*Value),
		funcs:   make(map[string]*Function),
	}

	d.next()
	d.decodeProgram()

	return d.prog, nil
}

// decoder is a recursive descent parser over Koopa IR text which builds the
// program graph as it parses.
type decoder struct {
	lexer *lexer
	tok   token

	prog    *Program
	globals map[string]*Value
	funcs   map[string]*Function

	// The state of the function being decoded.
	fn     *Function
	locals map[string]*Value
	blocks map[string]*BasicBlock
	labels map[string]bool
	block  *BasicBlock
}

// -----------------------------------------------------------------------------

func (d *decoder) next() {
	d.tok = d.lexer.next()
}

// has returns whether the current token is the given punctuation or word.
func (d *decoder) has(value string) bool {
	return (d.tok.kind == tokPunct || d.tok.kind == tokWord) && d.tok.value == value
}

// want consumes the given punctuation or word.
func (d *decoder) want(value string) {
	if !d.has(value) {
		d.reject("expected `%s`", value)
	}

	d.next()
}

// wantKind consumes and returns a token of the given kind.
func (d *decoder) wantKind(kind int, what string) token {
	if d.tok.kind != kind {
		d.reject("expected %s", what)
	}

	tok := d.tok
	d.next()
	return tok
}

func (d *decoder) reject(msg string, args ...interface{}) {
	found := d.tok.value
	if d.tok.kind == tokEOF {
		found = "end of input"
	}

	d.raise(d.tok.span, "%s, found `%s`", fmt.Sprintf(msg, args...), found)
}

func (d *decoder) raise(span *report.TextSpan, msg string, args ...interface{}) {
	panic(report.Raise(report.MalformedIR, span, msg, args...))
}

// -----------------------------------------------------------------------------

// program := {global_alloc | func_decl | func_def} ;
func (d *decoder) decodeProgram() {
	for d.tok.kind != tokEOF {
		switch {
		case d.has("global"):
			d.decodeGlobal()
		case d.has("decl"):
			d.decodeFuncDecl()
		case d.has("fun"):
			d.decodeFuncDef()
		default:
			d.reject("expected a global allocation or a function")
		}
	}
}

// global_alloc := 'global' SYMBOL '=' 'alloc' type ',' initializer ;
func (d *decoder) decodeGlobal() {
	d.want("global")
	nameTok := d.wantKind(tokSymbol, "a global name")
	if nameTok.value[0] != '@' {
		d.raise(nameTok.span, "global names must begin with `@`")
	}

	d.want("=")
	d.want("alloc")
	typ := d.decodeType()
	d.want(",")
	init := d.decodeInitializer(typ)

	d.defineGlobal(nameTok)

	global := &Value{
		Name: nameTok.value,
		Type: &PointerType{ElemType: typ},
		Kind: &GlobalAlloc{Init: init},
	}

	d.use(global)
	d.globals[global.Name] = global
	d.prog.Values = append(d.prog.Values, global)
}

// func_decl := 'decl' SYMBOL '(' [type {',' type}] ')' [':' type] ;
func (d *decoder) decodeFuncDecl() {
	d.want("decl")
	nameTok := d.wantKind(tokSymbol, "a function name")

	d.want("(")

	var params []Type
	if !d.has(")") {
		for {
			params = append(params, d.decodeType())

			if d.has(",") {
				d.next()
				continue
			}

			break
		}
	}

	d.want(")")

	d.defineFunc(nameTok, &Function{
		Name: nameTok.value,
		Type: &FuncType{Params: params, ReturnType: d.decodeReturnType()},
	})
}

// func_def := 'fun' SYMBOL '(' [SYMBOL ':' type {',' SYMBOL ':' type}] ')' [':' type] '{' {block} '}' ;
func (d *decoder) decodeFuncDef() {
	d.want("fun")
	nameTok := d.wantKind(tokSymbol, "a function name")

	d.fn = &Function{Name: nameTok.value, Type: &FuncType{}}
	d.locals = make(map[string]*Value)
	d.blocks = make(map[string]*BasicBlock)
	d.labels = make(map[string]bool)
	d.block = nil

	d.want("(")

	if !d.has(")") {
		for {
			paramTok := d.wantKind(tokSymbol, "a parameter name")
			d.want(":")
			typ := d.decodeType()

			param := &Value{
				Name: paramTok.value,
				Type: typ,
				Kind: &FuncArgRef{Index: len(d.fn.Params)},
			}

			d.defineLocal(paramTok, param)
			d.fn.Params = append(d.fn.Params, param)
			d.fn.Type.Params = append(d.fn.Type.Params, typ)

			if d.has(",") {
				d.next()
				continue
			}

			break
		}
	}

	d.want(")")
	d.fn.Type.ReturnType = d.decodeReturnType()

	// the function is visible to its own body
	d.defineFunc(nameTok, d.fn)

	d.want("{")

	for !d.has("}") {
		if d.tok.kind == tokEOF {
			d.reject("expected `}`")
		}

		d.decodeBlockItem()
	}

	endSpan := d.tok.span
	d.next()

	if len(d.fn.Blocks) == 0 {
		d.raise(endSpan, "function `%s` has no basic blocks", d.fn.Name)
	}

	for name, bb := range d.blocks {
		if !d.labels[name] {
			d.raise(endSpan, "undefined basic block `%s` in `%s`", name, d.fn.Name)
		}

		if term := bb.Terminator(); term == nil || !term.IsTerminator() {
			d.raise(endSpan, "basic block `%s` in `%s` does not end with a terminator", name, d.fn.Name)
		}
	}

	d.fn = nil
}

// decodeReturnType decodes an optional `: type` suffix.
func (d *decoder) decodeReturnType() Type {
	if d.has(":") {
		d.next()
		return d.decodeType()
	}

	return Unit
}

// -----------------------------------------------------------------------------

// type := 'i32' | '*' type | '[' type ',' INT ']' ;
func (d *decoder) decodeType() Type {
	switch {
	case d.has("i32"):
		d.next()
		return I32
	case d.has("*"):
		d.next()
		return &PointerType{ElemType: d.decodeType()}
	case d.has("["):
		d.next()
		elem := d.decodeType()
		d.want(",")

		lenTok := d.wantKind(tokInt, "an array length")
		n, err := strconv.Atoi(lenTok.value)
		if err != nil || n <= 0 {
			d.raise(lenTok.span, "invalid array length `%s`", lenTok.value)
		}

		d.want("]")
		return &ArrayType{ElemType: elem, Len: n}
	}

	d.reject("expected a type")
	return nil
}

// initializer := INT | 'undef' | 'zeroinit' | '{' initializer {',' initializer} '}' ;
func (d *decoder) decodeInitializer(typ Type) *Value {
	switch {
	case d.has("zeroinit"):
		d.next()
		return &Value{Type: typ, Kind: &ZeroInit{}}
	case d.has("undef"):
		d.next()
		return &Value{Type: typ, Kind: &Undef{}}
	case d.has("{"):
		at, ok := typ.(*ArrayType)
		if !ok {
			d.reject("aggregate initializer for non-array type `%s`", typ.Repr())
		}

		d.next()

		agg := &Aggregate{}
		for {
			agg.Elems = append(agg.Elems, d.decodeInitializer(at.ElemType))

			if d.has(",") {
				d.next()
				continue
			}

			break
		}

		if len(agg.Elems) != at.Len {
			d.reject("aggregate of %d elements for type `%s`", len(agg.Elems), typ.Repr())
		}

		d.want("}")

		v := &Value{Type: typ, Kind: agg}
		d.use(v)
		return v
	case d.tok.kind == tokInt:
		if !typ.Equals(I32) {
			d.reject("integer initializer for type `%s`", typ.Repr())
		}

		return d.decodeValue()
	}

	d.reject("expected an initializer")
	return nil
}

// value := SYMBOL | INT | 'undef' ;
func (d *decoder) decodeValue() *Value {
	switch d.tok.kind {
	case tokInt:
		n, err := strconv.ParseInt(d.tok.value, 10, 64)
		if err != nil || n < -(1<<31) || n > 1<<32-1 {
			d.reject("integer out of range")
		}

		d.next()
		return &Value{Type: I32, Kind: &Integer{Value: int32(n)}}
	case tokSymbol:
		tok := d.tok
		d.next()

		if v, ok := d.locals[tok.value]; ok {
			return v
		} else if v, ok := d.globals[tok.value]; ok {
			return v
		}

		d.raise(tok.span, "undefined value `%s`", tok.value)
	}

	if d.has("undef") {
		d.next()
		return &Value{Type: I32, Kind: &Undef{}}
	}

	d.reject("expected a value")
	return nil
}

// -----------------------------------------------------------------------------

// defineGlobal checks that a global name is not yet defined.
func (d *decoder) defineGlobal(tok token) {
	if _, ok := d.globals[tok.value]; ok {
		d.raise(tok.span, "redefinition of `%s`", tok.value)
	} else if _, ok := d.funcs[tok.value]; ok {
		d.raise(tok.span, "redefinition of `%s`", tok.value)
	}
}

func (d *decoder) defineFunc(tok token, fn *Function) {
	d.defineGlobal(tok)
	d.funcs[fn.Name] = fn
	d.prog.Funcs = append(d.prog.Funcs, fn)
}

// defineLocal binds a local name in the current function.
func (d *decoder) defineLocal(tok token, v *Value) {
	if _, ok := d.locals[tok.value]; ok {
		d.raise(tok.span, "redefinition of `%s`", tok.value)
	} else if _, ok := d.globals[tok.value]; ok {
		d.raise(tok.span, "`%s` shadows a global", tok.value)
	}

	d.locals[tok.value] = v
}

// use records v as a user of each of its operands.
func (d *decoder) use(v *Value) {
	for _, op := range v.Operands() {
		op.UsedBy = append(op.UsedBy, v)
	}
}

// getBlock returns the basic block with the given name creating it if it is
// referenced before it is defined.
func (d *decoder) getBlock(tok token) *BasicBlock {
	if tok.value[0] != '%' {
		d.raise(tok.span, "basic block names must begin with `%%`")
	}

	if bb, ok := d.blocks[tok.value]; ok {
		return bb
	}

	bb := &BasicBlock{Name: tok.value}
	d.blocks[tok.value] = bb
	return bb
}
