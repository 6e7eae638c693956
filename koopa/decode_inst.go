package koopa

// block_item := SYMBOL ':' | SYMBOL '=' value_inst | inst ;
func (d *decoder) decodeBlockItem() {
	if d.tok.kind == tokSymbol {
		nameTok := d.tok
		d.next()

		if d.has(":") {
			d.next()
			d.beginBlock(nameTok)
			return
		}

		d.want("=")

		inst := d.decodeValueInst()
		inst.Name = nameTok.value
		d.defineLocal(nameTok, inst)
		d.append(nameTok, inst)
		return
	}

	startTok := d.tok

	var inst *Value
	switch {
	case d.has("store"):
		d.next()

		dest, value := d.decodeStoreOperands()
		inst = &Value{Type: Unit, Kind: &Store{Value: value, Dest: dest}}
	case d.has("br"):
		d.next()

		cond := d.decodeValue()
		d.checkI32(startTok, cond)
		d.want(",")
		trueBB := d.getBlock(d.wantKind(tokSymbol, "a label"))
		d.want(",")
		falseBB := d.getBlock(d.wantKind(tokSymbol, "a label"))

		inst = &Value{Type: Unit, Kind: &Branch{Cond: cond, True: trueBB, False: falseBB}}
	case d.has("jump"):
		d.next()

		target := d.getBlock(d.wantKind(tokSymbol, "a label"))
		inst = &Value{Type: Unit, Kind: &Jump{Target: target}}
	case d.has("ret"):
		d.next()

		// a bare `ret` may be followed by the label of the next block
		ret := &Return{}
		if (d.tok.kind == tokSymbol || d.tok.kind == tokInt || d.has("undef")) && !d.isLabelAhead() {
			ret.Value = d.decodeValue()
		}

		d.checkReturn(startTok, ret.Value)
		inst = &Value{Type: Unit, Kind: ret}
	case d.has("call"):
		inst = d.decodeCall()
	default:
		d.reject("expected an instruction")
	}

	d.append(startTok, inst)
}

// isLabelAhead returns whether the symbol the decoder is positioned on is a
// label definition (followed by `:`).
func (d *decoder) isLabelAhead() bool {
	saved := *d.lexer
	next := d.lexer.next()
	*d.lexer = saved

	return next.kind == tokPunct && next.value == ":"
}

// value_inst := 'alloc' type | 'load' value | 'getptr' value ',' value
//
//	| 'getelemptr' value ',' value | BINOP value ',' value | call ;
func (d *decoder) decodeValueInst() *Value {
	startTok := d.tok

	switch {
	case d.has("alloc"):
		d.next()
		return &Value{Type: &PointerType{ElemType: d.decodeType()}, Kind: &Alloc{}}
	case d.has("load"):
		d.next()

		src := d.decodeValue()
		elem := PointerElem(src.Type)
		if elem == nil {
			d.raise(startTok.span, "cannot load from non-pointer `%s`", src.Type.Repr())
		}

		return &Value{Type: elem, Kind: &Load{Src: src}}
	case d.has("getptr"):
		d.next()

		src, index := d.decodeBinaryOperands()
		if PointerElem(src.Type) == nil {
			d.raise(startTok.span, "getptr on non-pointer `%s`", src.Type.Repr())
		}

		d.checkI32(startTok, index)
		return &Value{Type: src.Type, Kind: &GetPtr{Src: src, Index: index}}
	case d.has("getelemptr"):
		d.next()

		src, index := d.decodeBinaryOperands()
		at, ok := PointerElem(src.Type).(*ArrayType)
		if !ok {
			d.raise(startTok.span, "getelemptr on `%s` which is not a pointer to an array", src.Type.Repr())
		}

		d.checkI32(startTok, index)
		return &Value{Type: &PointerType{ElemType: at.ElemType}, Kind: &GetElemPtr{Src: src, Index: index}}
	case d.has("call"):
		call := d.decodeCall()
		if call.Type.Equals(Unit) {
			d.raise(startTok.span, "cannot bind the result of a call to a function returning unit")
		}

		return call
	case d.tok.kind == tokWord:
		op, ok := binaryOpsByName[d.tok.value]
		if !ok {
			break
		}

		d.next()

		lhs, rhs := d.decodeBinaryOperands()
		d.checkI32(startTok, lhs)
		d.checkI32(startTok, rhs)
		return &Value{Type: I32, Kind: &Binary{Op: op, Lhs: lhs, Rhs: rhs}}
	}

	d.reject("expected an instruction producing a value")
	return nil
}

// call := 'call' SYMBOL '(' [value {',' value}] ')' ;
func (d *decoder) decodeCall() *Value {
	startTok := d.tok
	d.want("call")

	calleeTok := d.wantKind(tokSymbol, "a function name")
	callee, ok := d.funcs[calleeTok.value]
	if !ok {
		d.raise(calleeTok.span, "undefined function `%s`", calleeTok.value)
	}

	d.want("(")

	var args []*Value
	if !d.has(")") {
		for {
			args = append(args, d.decodeValue())

			if d.has(",") {
				d.next()
				continue
			}

			break
		}
	}

	d.want(")")

	if len(args) != len(callee.Type.Params) {
		d.raise(startTok.span, "`%s` expects %d arguments, got %d", callee.Name, len(callee.Type.Params), len(args))
	}

	for i, arg := range args {
		if !arg.Type.Equals(callee.Type.Params[i]) {
			d.raise(startTok.span, "argument %d of `%s` has type `%s`, expected `%s`",
				i, callee.Name, arg.Type.Repr(), callee.Type.Params[i].Repr())
		}
	}

	return &Value{Type: callee.Type.ReturnType, Kind: &Call{Callee: callee, Args: args}}
}

// decodeBinaryOperands decodes `value ',' value`.
func (d *decoder) decodeBinaryOperands() (*Value, *Value) {
	lhs := d.decodeValue()
	d.want(",")
	return lhs, d.decodeValue()
}

// decodeStoreOperands decodes `(value | initializer) ',' value` returning the
// destination first: the type of an aggregate source depends on it.
func (d *decoder) decodeStoreOperands() (*Value, *Value) {
	startTok := d.tok

	var value *Value
	var deferredInit bool
	if d.has("zeroinit") || d.has("{") {
		deferredInit = true
	} else {
		value = d.decodeValue()
	}

	if deferredInit {
		// the initializer is typed by the destination which follows it
		saved, savedTok := *d.lexer, d.tok
		d.skipInitializer()
		d.want(",")

		dest := d.decodeValue()
		elem := PointerElem(dest.Type)
		if elem == nil {
			d.raise(startTok.span, "cannot store to non-pointer `%s`", dest.Type.Repr())
		}

		endLexer, endTok := *d.lexer, d.tok
		*d.lexer, d.tok = saved, savedTok
		value = d.decodeInitializer(elem)
		*d.lexer, d.tok = endLexer, endTok

		return dest, value
	}

	d.want(",")

	dest := d.decodeValue()
	elem := PointerElem(dest.Type)
	if elem == nil {
		d.raise(startTok.span, "cannot store to non-pointer `%s`", dest.Type.Repr())
	} else if !elem.Equals(value.Type) {
		d.raise(startTok.span, "cannot store `%s` to `%s`", value.Type.Repr(), dest.Type.Repr())
	}

	return dest, value
}

// skipInitializer moves past an initializer without decoding it.
func (d *decoder) skipInitializer() {
	if d.has("zeroinit") {
		d.next()
		return
	}

	depth := 0
	for {
		switch {
		case d.has("{"):
			depth++
		case d.has("}"):
			depth--
		case d.tok.kind == tokEOF:
			d.reject("unclosed aggregate")
		}

		d.next()

		if depth == 0 {
			return
		}
	}
}

// -----------------------------------------------------------------------------

// beginBlock starts the basic block with the given label.
func (d *decoder) beginBlock(tok token) {
	if d.labels[tok.value] {
		d.raise(tok.span, "redefinition of basic block `%s`", tok.value)
	}

	if d.block != nil {
		if term := d.block.Terminator(); term == nil || !term.IsTerminator() {
			d.raise(tok.span, "basic block `%s` does not end with a terminator", d.block.Name)
		}
	}

	bb := d.getBlock(tok)
	d.labels[tok.value] = true
	d.fn.Blocks = append(d.fn.Blocks, bb)
	d.block = bb
}

// append adds an instruction to the current basic block.
func (d *decoder) append(tok token, inst *Value) {
	if d.block == nil {
		d.raise(tok.span, "instruction outside of a basic block")
	}

	if term := d.block.Terminator(); term != nil && term.IsTerminator() {
		d.raise(tok.span, "instruction after the terminator of `%s`", d.block.Name)
	}

	d.use(inst)
	d.block.Insts = append(d.block.Insts, inst)
}

func (d *decoder) checkI32(tok token, v *Value) {
	if !v.Type.Equals(I32) {
		d.raise(tok.span, "expected an `i32` operand, got `%s`", v.Type.Repr())
	}
}

func (d *decoder) checkReturn(tok token, v *Value) {
	ret := d.fn.Type.ReturnType
	if v == nil && !ret.Equals(Unit) {
		d.raise(tok.span, "`%s` must return a value", d.fn.Name)
	} else if v != nil && !v.Type.Equals(ret) {
		d.raise(tok.span, "`%s` returns `%s`, got `%s`", d.fn.Name, ret.Repr(), v.Type.Repr())
	}
}
