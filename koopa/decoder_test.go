package koopa

import (
	"strings"
	"testing"

	"sysyc/report"
)

const sampleProgram = `decl @getint(): i32
decl @putint(i32)

global @g = alloc i32, zeroinit
global @arr = alloc [[i32, 2], 2], {{1, 2}, {3, 0}}

fun @add(@a: i32, @b: i32): i32 {
%entry:
  %0 = add @a, @b
  ret %0
}

fun @main(): i32 {
%entry:
  @x = alloc i32
  %0 = call @getint()
  store %0, @x
  %1 = load @x
  br %1, %then_1, %end_1

%then_1:
  %2 = getelemptr @arr, 1
  %3 = getelemptr %2, 0
  %4 = load %3
  %5 = call @add(%4, -1)
  call @putint(%5)
  jump %end_1

%end_1:
  ret 0
}
`

func TestDecodeProgram(t *testing.T) {
	prog, err := Decode(sampleProgram)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	if len(prog.Values) != 2 || len(prog.Funcs) != 4 {
		t.Fatalf("got %d globals and %d functions", len(prog.Values), len(prog.Funcs))
	}

	arr := prog.Values[1]
	if arr.Type.Repr() != "*[[i32, 2], 2]" {
		t.Errorf("global type %s", arr.Type.Repr())
	}

	init := arr.Kind.(*GlobalAlloc).Init
	if agg, ok := init.Kind.(*Aggregate); !ok || len(agg.Elems) != 2 {
		t.Errorf("expected a two element aggregate, got %#v", init.Kind)
	}

	getint := prog.FuncByName("@getint")
	if !getint.IsDecl() || getint.Type.Repr() != "(): i32" {
		t.Errorf("bad declaration %s%s", getint.Name, getint.Type.Repr())
	}

	add := prog.FuncByName("@add")
	if len(add.Params) != 2 || add.Type.Repr() != "(i32, i32): i32" {
		t.Fatalf("bad function %s%s", add.Name, add.Type.Repr())
	}

	if len(add.Params[0].UsedBy) != 1 {
		t.Errorf("@a should have one user, got %d", len(add.Params[0].UsedBy))
	}

	main := prog.FuncByName("@main")
	if len(main.Blocks) != 3 {
		t.Fatalf("expected 3 blocks, got %d", len(main.Blocks))
	}

	for _, bb := range main.Blocks {
		if !bb.Terminator().IsTerminator() {
			t.Errorf("block %s does not end with a terminator", bb.Name)
		}
	}

	br := main.Blocks[0].Terminator().Kind.(*Branch)
	if br.True != main.Blocks[1] || br.False != main.Blocks[2] {
		t.Errorf("branch targets are not resolved to the blocks")
	}

	gep := main.Blocks[1].Insts[0]
	if gep.Type.Repr() != "*[i32, 2]" {
		t.Errorf("getelemptr type %s", gep.Type.Repr())
	}

	call := main.Blocks[1].Insts[4]
	if c, ok := call.Kind.(*Call); !ok || c.Callee != prog.FuncByName("@putint") || !call.Type.Equals(Unit) {
		t.Errorf("bad call %#v", call.Kind)
	}

	if arg := main.Blocks[1].Insts[3].Kind.(*Call).Args[1]; arg.Kind.(*Integer).Value != -1 {
		t.Errorf("bad integer argument")
	}
}

func TestDecodeBareRetBeforeLabel(t *testing.T) {
	prog, err := Decode(`fun @f() {
%entry:
  ret

%dead:
  ret
}
`)
	if err != nil {
		t.Fatal(err)
	}

	fn := prog.FuncByName("@f")
	if len(fn.Blocks) != 2 || fn.Blocks[0].Terminator().Kind.(*Return).Value != nil {
		t.Fatalf("bare ret was not decoded")
	}
}

func TestDecodeStoreAggregate(t *testing.T) {
	prog, err := Decode(`fun @main(): i32 {
%entry:
  @a = alloc [i32, 3]
  store zeroinit, @a
  store {1, 2, 3}, @a
  ret 0
}
`)
	if err != nil {
		t.Fatal(err)
	}

	insts := prog.FuncByName("@main").Blocks[0].Insts
	store := insts[2].Kind.(*Store)
	if store.Value.Type.Repr() != "[i32, 3]" || store.Dest != insts[0] {
		t.Errorf("aggregate store typed %s", store.Value.Type.Repr())
	}
}

func TestDecodeComments(t *testing.T) {
	_, err := Decode(`// a comment
fun @main(): i32 { /* block
comment */
%entry:
  ret 0 // trailing
}
`)
	if err != nil {
		t.Fatal(err)
	}
}

func TestDecodeMalformed(t *testing.T) {
	cases := []struct {
		name, src, msg string
	}{
		{"undefined value", "fun @f(): i32 {\n%entry:\n  ret %0\n}", "undefined value"},
		{"missing terminator", "fun @f(): i32 {\n%entry:\n  %0 = add 1, 2\n}", "terminator"},
		{"undefined block", "fun @f() {\n%entry:\n  jump %nowhere\n}", "undefined basic block"},
		{"instruction after terminator", "fun @f() {\n%entry:\n  ret\n  ret\n}", "after the terminator"},
		{"redefinition", "fun @f(): i32 {\n%entry:\n  %0 = add 1, 2\n  %0 = add 1, 2\n  ret %0\n}", "redefinition"},
		{"shadows global", "global @x = alloc i32, 0\nfun @f() {\n%entry:\n  @x = alloc i32\n  ret\n}", "shadows a global"},
		{"arity", "decl @g(i32)\nfun @f() {\n%entry:\n  call @g()\n  ret\n}", "expects 1 arguments"},
		{"type", "fun @f() {\n%entry:\n  @p = alloc i32\n  %0 = add @p, 1\n  ret\n}", "expected an `i32` operand"},
		{"unit result", "decl @g()\nfun @f() {\n%entry:\n  %0 = call @g()\n  ret\n}", "returning unit"},
		{"return type", "fun @f(): i32 {\n%entry:\n  ret\n}", "must return a value"},
		{"empty function", "fun @f() {\n}", "no basic blocks"},
		{"bad aggregate", "global @a = alloc [i32, 2], {1}", "aggregate of 1 elements"},
		{"bad character", "fun @f() {\n%entry:\n  ret $\n}", ""},
		{"unknown instruction", "fun @f() {\n%entry:\n  %0 = frob 1, 2\n  ret\n}", "expected an instruction"},
	}

	for _, c := range cases {
		_, err := Decode(c.src)
		if !report.IsKind(err, report.MalformedIR) {
			t.Errorf("%s: expected an IR error, got %v", c.name, err)
			continue
		}

		if !strings.Contains(err.Error(), c.msg) {
			t.Errorf("%s: message %q does not mention %q", c.name, err.Error(), c.msg)
		}
	}
}

func TestBuilderRoundTrip(t *testing.T) {
	b := &Builder{}
	b.Decl("@putint", &FuncType{Params: []Type{I32}, ReturnType: Unit})
	b.Global("@g", NewArrayType(I32, []int{2}), "{1, 2}")

	b.BeginFunc("@main", nil, I32)
	b.Label("%entry")
	b.GetElemPtr("%0", "@g", "1")
	b.Load("%1", "%0")
	b.Binary("%2", OpMul, "%1", "3")
	b.Call("", "@putint", []string{"%2"})
	b.Jump("%exit")
	b.Label("%exit")
	b.Ret("0")
	b.EndFunc()

	want := `decl @putint(i32)

global @g = alloc [i32, 2], {1, 2}

fun @main(): i32 {
%entry:
  %0 = getelemptr @g, 1
  %1 = load %0
  %2 = mul %1, 3
  call @putint(%2)
  jump %exit

%exit:
  ret 0
}
`
	if got := b.String(); got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}

	if _, err := Decode(b.String()); err != nil {
		t.Fatal(err)
	}
}

func TestTypes(t *testing.T) {
	arr := NewArrayType(I32, []int{2, 3})
	if arr.Repr() != "[[i32, 3], 2]" || arr.Size() != 24 {
		t.Errorf("got %s of size %d", arr.Repr(), arr.Size())
	}

	if NewArrayType(I32, nil) != I32 {
		t.Errorf("no dimensions is the element type")
	}

	ptr := &PointerType{ElemType: arr}
	if !ptr.Equals(&PointerType{ElemType: NewArrayType(I32, []int{2, 3})}) || ptr.Size() != 4 {
		t.Errorf("pointer equality or size")
	}

	if PointerElem(I32) != nil {
		t.Errorf("i32 is not a pointer")
	}
}
