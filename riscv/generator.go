package riscv

import (
	"fmt"
	"strings"

	"sysyc/koopa"
	"sysyc/report"
)

// Options configures the backend.
type Options struct {
	// Temporaries and Arguments are how many of t0..t6 and a0..a7 the register
	// allocator may use.
	Temporaries, Arguments int
}

// DefaultOptions makes every pool register available.
func DefaultOptions() Options {
	return Options{Temporaries: NumTemporaries, Arguments: NumArguments}
}

// Generator lowers a decoded Koopa IR program to RISC-V assembly.  A generator
// holds the state of one run and must not be shared between goroutines.
type Generator struct {
	prog *koopa.Program
	opts Options

	sb strings.Builder

	// The state of the function being generated.
	fn       *koopa.Function
	fnName   string
	frame    *frameLayout
	live     *liveness
	pool     *regPool
	regs     map[*koopa.Value]Reg
	targeted map[*koopa.BasicBlock]bool

	// scratch holds the registers acquired for the current instruction only.
	scratch []Reg

	// loops counts the zero fill loops of the function for their labels.
	loops int
}

// NewGenerator creates a new generator for prog.
func NewGenerator(prog *koopa.Program, opts Options) *Generator {
	return &Generator{
		prog: prog,
		opts: opts,
		pool: newRegPool(opts.Temporaries, opts.Arguments),
	}
}

// Generate lowers prog to the text of a RISC-V assembly file.
func Generate(prog *koopa.Program, opts Options) (string, error) {
	return NewGenerator(prog, opts).Generate()
}

// Generate runs the generator.  The only error it reports is an exhausted
// register pool.
func (g *Generator) Generate() (text string, err error) {
	defer report.Catch(&err)

	for _, global := range g.prog.Values {
		g.genGlobal(global)
	}

	for _, fn := range g.prog.Funcs {
		// declarations are provided by the runtime library
		if fn.IsDecl() {
			continue
		}

		g.genFunc(fn)
	}

	return g.sb.String(), nil
}

// -----------------------------------------------------------------------------

// genGlobal emits a global allocation into the data section.
func (g *Generator) genGlobal(global *koopa.Value) {
	name := symbolName(global.Name)

	g.separate()
	g.directive(".data")
	g.directive(".globl " + name)
	g.label(name)

	init := global.Kind.(*koopa.GlobalAlloc).Init
	if _, ok := init.Kind.(*koopa.Integer); ok {
		g.directive(fmt.Sprintf(".word %d", init.Kind.(*koopa.Integer).Value))
		return
	}

	// runs of zero words collapse into one `.zero`
	zeros := 0
	for _, word := range flattenInit(init) {
		if word == 0 {
			zeros++
			continue
		}

		if zeros > 0 {
			g.directive(fmt.Sprintf(".zero %d", 4*zeros))
			zeros = 0
		}

		g.directive(fmt.Sprintf(".word %d", word))
	}

	if zeros > 0 {
		g.directive(fmt.Sprintf(".zero %d", 4*zeros))
	}
}

// flattenInit returns the words of an initializer in memory order.
func flattenInit(init *koopa.Value) []int32 {
	switch k := init.Kind.(type) {
	case *koopa.Integer:
		return []int32{k.Value}
	case *koopa.Aggregate:
		var words []int32
		for _, elem := range k.Elems {
			words = append(words, flattenInit(elem)...)
		}

		return words
	}

	// zeroinit and undef
	return make([]int32, init.Type.Size()/4)
}

// -----------------------------------------------------------------------------

// genFunc emits a function definition.
func (g *Generator) genFunc(fn *koopa.Function) {
	g.fn = fn
	g.fnName = symbolName(fn.Name)
	g.frame = layoutFrame(fn)
	g.live = analyzeLiveness(fn)
	g.regs = make(map[*koopa.Value]Reg)
	g.targeted = targetedBlocks(fn)
	g.loops = 0
	g.pool.reset()

	g.separate()
	g.directive(".text")
	g.directive(".globl " + g.fnName)
	g.label(g.fnName)

	g.genPrologue()

	for i, bb := range fn.Blocks {
		if i > 0 || g.targeted[bb] {
			if i > 0 {
				g.sb.WriteRune('\n')
			}

			g.label(g.blockLabel(bb))
		}

		for _, inst := range bb.Insts {
			g.genInst(inst)
		}
	}

	g.fn = nil
}

// genPrologue allocates the frame and binds the parameters to registers.
func (g *Generator) genPrologue() {
	if g.frame.size > 0 {
		g.adjustSP(-g.frame.size)
	}

	if g.frame.hasCalls {
		g.emit("sw", RegRA, memOperand(g.frame.raOffset, RegSP))
	}

	// register parameters move out of the argument registers first: binding a
	// later parameter may hand out the register of an earlier one
	for i, param := range g.fn.Params {
		if i >= NumArguments || !g.live.used(param) {
			continue
		}

		rd := g.define(param)
		if rd != ArgReg(i) {
			g.emit("mv", rd, ArgReg(i))
		}
	}

	// parameters beyond the eighth are in the caller's outgoing area
	for i, param := range g.fn.Params {
		if i < NumArguments || !g.live.used(param) {
			continue
		}

		rd := g.define(param)
		g.loadFrameWord(rd, g.frame.size+4*(i-NumArguments))
	}
}

// genEpilogue restores the return address and releases the frame.
func (g *Generator) genEpilogue() {
	if g.frame.hasCalls {
		g.emit("lw", RegRA, memOperand(g.frame.raOffset, RegSP))
	}

	if g.frame.size > 0 {
		g.adjustSP(g.frame.size)
	}
}

// adjustSP adds delta to the stack pointer.  t0 is free at both ends of a
// function.
func (g *Generator) adjustSP(delta int) {
	if fitsImm(delta) {
		g.emit("addi", RegSP, RegSP, delta)
	} else {
		g.emit("li", regT0, delta)
		g.emit("add", RegSP, RegSP, regT0)
	}
}

// targetedBlocks returns the blocks which are the target of a branch or jump.
func targetedBlocks(fn *koopa.Function) map[*koopa.BasicBlock]bool {
	targeted := make(map[*koopa.BasicBlock]bool)
	for _, bb := range fn.Blocks {
		switch k := bb.Terminator().Kind.(type) {
		case *koopa.Branch:
			targeted[k.True] = true
			targeted[k.False] = true
		case *koopa.Jump:
			targeted[k.Target] = true
		}
	}

	return targeted
}

// blockLabel returns the assembly label of a basic block.  Labels are prefixed
// with the function name since block names are only unique per function.
func (g *Generator) blockLabel(bb *koopa.BasicBlock) string {
	return g.fnName + "_" + strings.TrimPrefix(bb.Name, "%")
}

// symbolName returns the assembly name of a global or function.
func symbolName(name string) string {
	return strings.TrimPrefix(name, "@")
}

// -----------------------------------------------------------------------------

// define allocates the register holding the result of v.
func (g *Generator) define(v *koopa.Value) Reg {
	r, ok := g.pool.acquire()
	if !ok {
		g.exhausted()
	}

	g.regs[v] = r
	return r
}

// acquireScratch allocates a register for the current instruction only.
func (g *Generator) acquireScratch() Reg {
	r, ok := g.pool.acquire()
	if !ok {
		g.exhausted()
	}

	g.scratch = append(g.scratch, r)
	return r
}

func (g *Generator) exhausted() {
	panic(report.Raise(
		report.RegisterPoolExhausted,
		nil,
		"function `%s` needs more than %d registers",
		g.fnName, len(g.pool.usable),
	))
}

// releaseDead releases the scratch registers of the current instruction and
// the registers of its operands for which it is the last use.
func (g *Generator) releaseDead(inst *koopa.Value) {
	for _, r := range g.scratch {
		g.pool.release(r)
	}

	g.scratch = g.scratch[:0]

	pos := g.live.pos[inst]
	for _, op := range inst.Operands() {
		if r, ok := g.regs[op]; ok && g.live.lastUse[op] == pos {
			g.pool.release(r)
			delete(g.regs, op)
		}
	}
}

// -----------------------------------------------------------------------------

// separate writes a blank line between top level items.
func (g *Generator) separate() {
	if g.sb.Len() > 0 {
		g.sb.WriteRune('\n')
	}
}

func (g *Generator) directive(text string) {
	g.sb.WriteString("  ")
	g.sb.WriteString(text)
	g.sb.WriteRune('\n')
}

func (g *Generator) label(name string) {
	g.sb.WriteString(name)
	g.sb.WriteString(":\n")
}

// emit writes one instruction.  Operands are registers, integers or
// preformatted strings.
func (g *Generator) emit(op string, operands ...interface{}) {
	g.sb.WriteString("  ")
	g.sb.WriteString(op)

	for i, operand := range operands {
		if i == 0 {
			g.sb.WriteRune('\t')
		} else {
			g.sb.WriteString(", ")
		}

		fmt.Fprint(&g.sb, operand)
	}

	g.sb.WriteRune('\n')
}

// memOperand formats a memory operand `off(base)`.
func memOperand(off int, base Reg) string {
	return fmt.Sprintf("%d(%s)", off, base)
}

// fitsImm returns whether n fits a 12 bit signed immediate.
func fitsImm(n int) bool {
	return n >= -2048 && n <= 2047
}
