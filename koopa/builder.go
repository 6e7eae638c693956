package koopa

import (
	"fmt"
	"strings"
)

// Builder accumulates the text of a Koopa IR program.  Declarations, global
// allocations and functions are separated by blank lines; instructions are
// indented two spaces and labels start in column 0.
type Builder struct {
	sb strings.Builder

	// section is the kind of the last top level item written.
	section int

	// firstBlock is set while no label of the current function was written.
	firstBlock bool
}

// Enumeration of top level sections.
const (
	sectionNone = iota
	sectionDecl
	sectionGlobal
	sectionFunc
)

// String returns the text built so far.
func (b *Builder) String() string {
	return b.sb.String()
}

// enterSection separates a new top level item from the previous section.
func (b *Builder) enterSection(section int) {
	if b.section != sectionNone && (b.section != section || section == sectionFunc) {
		b.sb.WriteRune('\n')
	}

	b.section = section
}

// -----------------------------------------------------------------------------

// Decl writes an external function declaration.
func (b *Builder) Decl(name string, typ *FuncType) {
	b.enterSection(sectionDecl)
	fmt.Fprintf(&b.sb, "decl %s%s\n", name, typ.Repr())
}

// Global writes a global allocation.  init is the textual initializer.
func (b *Builder) Global(name string, typ Type, init string) {
	b.enterSection(sectionGlobal)
	fmt.Fprintf(&b.sb, "global %s = alloc %s, %s\n", name, typ.Repr(), init)
}

// FuncParam is a named function parameter.
type FuncParam struct {
	Name string
	Type Type
}

// BeginFunc writes the header of a function definition.
func (b *Builder) BeginFunc(name string, params []FuncParam, ret Type) {
	b.enterSection(sectionFunc)
	b.firstBlock = true

	b.sb.WriteString("fun ")
	b.sb.WriteString(name)
	b.sb.WriteRune('(')

	for i, param := range params {
		if i > 0 {
			b.sb.WriteString(", ")
		}

		b.sb.WriteString(param.Name)
		b.sb.WriteString(": ")
		b.sb.WriteString(param.Type.Repr())
	}

	b.sb.WriteRune(')')

	if !ret.Equals(Unit) {
		b.sb.WriteString(": ")
		b.sb.WriteString(ret.Repr())
	}

	b.sb.WriteString(" {\n")
}

// EndFunc closes the current function definition.
func (b *Builder) EndFunc() {
	b.sb.WriteString("}\n")
}

// Label starts a new basic block.
func (b *Builder) Label(name string) {
	if !b.firstBlock {
		b.sb.WriteRune('\n')
	}

	b.firstBlock = false
	b.sb.WriteString(name)
	b.sb.WriteString(":\n")
}

// -----------------------------------------------------------------------------

// inst writes one instruction.
func (b *Builder) inst(format string, args ...interface{}) {
	b.sb.WriteString("  ")
	fmt.Fprintf(&b.sb, format, args...)
	b.sb.WriteRune('\n')
}

// Alloc writes `dst = alloc typ`.
func (b *Builder) Alloc(dst string, typ Type) {
	b.inst("%s = alloc %s", dst, typ.Repr())
}

// Load writes `dst = load src`.
func (b *Builder) Load(dst, src string) {
	b.inst("%s = load %s", dst, src)
}

// Store writes `store value, dest`.
func (b *Builder) Store(value, dest string) {
	b.inst("store %s, %s", value, dest)
}

// GetElemPtr writes `dst = getelemptr src, index`.
func (b *Builder) GetElemPtr(dst, src, index string) {
	b.inst("%s = getelemptr %s, %s", dst, src, index)
}

// GetPtr writes `dst = getptr src, index`.
func (b *Builder) GetPtr(dst, src, index string) {
	b.inst("%s = getptr %s, %s", dst, src, index)
}

// Binary writes `dst = op lhs, rhs`.
func (b *Builder) Binary(dst string, op BinaryOp, lhs, rhs string) {
	b.inst("%s = %s %s, %s", dst, op, lhs, rhs)
}

// Branch writes `br cond, trueLabel, falseLabel`.
func (b *Builder) Branch(cond, trueLabel, falseLabel string) {
	b.inst("br %s, %s, %s", cond, trueLabel, falseLabel)
}

// Jump writes `jump target`.
func (b *Builder) Jump(target string) {
	b.inst("jump %s", target)
}

// Ret writes `ret value` or a bare `ret` if value is empty.
func (b *Builder) Ret(value string) {
	if value == "" {
		b.inst("ret")
	} else {
		b.inst("ret %s", value)
	}
}

// Call writes a call.  dst is empty for calls whose result is not bound.
func (b *Builder) Call(dst, callee string, args []string) {
	call := fmt.Sprintf("call %s(%s)", callee, strings.Join(args, ", "))
	if dst == "" {
		b.inst("%s", call)
	} else {
		b.inst("%s = %s", dst, call)
	}
}
