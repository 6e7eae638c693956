package riscv

import (
	"fmt"

	"sysyc/koopa"
	"sysyc/report"
)

// genInst lowers one instruction.
func (g *Generator) genInst(inst *koopa.Value) {
	switch k := inst.Kind.(type) {
	case *koopa.Alloc:
		// lives in the frame
	case *koopa.Load:
		g.genLoad(inst, k)
	case *koopa.Store:
		g.genStore(inst, k)
	case *koopa.GetElemPtr:
		g.genPtrOffset(inst, k.Src, k.Index)
	case *koopa.GetPtr:
		g.genPtrOffset(inst, k.Src, k.Index)
	case *koopa.Binary:
		g.genBinary(inst, k)
	case *koopa.Branch:
		g.genBranch(inst, k)
	case *koopa.Jump:
		g.emit("j", g.blockLabel(k.Target))
	case *koopa.Call:
		g.genCall(inst, k)
	case *koopa.Return:
		g.genReturn(inst, k)
	default:
		panic(report.Raise(report.MalformedIR, nil, "unexpected instruction in `%s`", g.fn.Name))
	}
}

// operand returns the register holding an operand.  Integer literals other
// than zero and addresses of allocations and globals are materialized into
// scratch registers.
func (g *Generator) operand(v *koopa.Value) Reg {
	switch k := v.Kind.(type) {
	case *koopa.Integer:
		if k.Value == 0 {
			return RegZero
		}

		r := g.acquireScratch()
		g.emit("li", r, k.Value)
		return r
	case *koopa.Undef, *koopa.ZeroInit:
		return RegZero
	case *koopa.Alloc:
		r := g.acquireScratch()
		g.addOffset(r, RegSP, g.frame.slots[v])
		return r
	case *koopa.GlobalAlloc:
		r := g.acquireScratch()
		g.emit("la", r, symbolName(v.Name))
		return r
	}

	r, ok := g.regs[v]
	if !ok {
		panic(report.Raise(report.MalformedIR, nil, "value `%s` in `%s` has no register", v.Name, g.fn.Name))
	}

	return r
}

// addOffset computes rd = base + off without clobbering base before the add.
func (g *Generator) addOffset(rd, base Reg, off int) {
	switch {
	case off == 0 && rd == base:
	case fitsImm(off):
		g.emit("addi", rd, base, off)
	default:
		tmp := rd
		if rd == base {
			tmp = g.acquireScratch()
		}

		g.emit("li", tmp, off)
		g.emit("add", rd, base, tmp)
	}
}

// loadFrameWord loads the word at off(sp) into rd.
func (g *Generator) loadFrameWord(rd Reg, off int) {
	if fitsImm(off) {
		g.emit("lw", rd, memOperand(off, RegSP))
		return
	}

	g.emit("li", rd, off)
	g.emit("add", rd, RegSP, rd)
	g.emit("lw", rd, memOperand(0, rd))
}

// address returns a base register and an immediate which together address
// `off` bytes into the object dest points to.
func (g *Generator) address(dest *koopa.Value, off int) (Reg, int) {
	if slot, ok := g.frame.slots[dest]; ok && fitsImm(slot+off) {
		return RegSP, slot + off
	}

	base := g.operand(dest)
	if fitsImm(off) {
		return base, off
	}

	r := g.acquireScratch()
	g.addOffset(r, base, off)
	return r, 0
}

// -----------------------------------------------------------------------------

func (g *Generator) genLoad(inst *koopa.Value, load *koopa.Load) {
	if !g.live.used(inst) {
		g.releaseDead(inst)
		return
	}

	switch load.Src.Kind.(type) {
	case *koopa.Alloc:
		g.releaseDead(inst)
		g.loadFrameWord(g.define(inst), g.frame.slots[load.Src])
	case *koopa.GlobalAlloc:
		g.releaseDead(inst)
		rd := g.define(inst)
		g.emit("la", rd, symbolName(load.Src.Name))
		g.emit("lw", rd, memOperand(0, rd))
	default:
		src := g.operand(load.Src)
		g.releaseDead(inst)
		g.emit("lw", g.define(inst), memOperand(0, src))
	}
}

func (g *Generator) genStore(inst *koopa.Value, store *koopa.Store) {
	switch store.Value.Kind.(type) {
	case *koopa.ZeroInit, *koopa.Aggregate:
		g.storeInit(store.Value, store.Dest)
	default:
		value := g.operand(store.Value)
		base, off := g.address(store.Dest, 0)
		g.emit("sw", value, memOperand(off, base))
	}

	g.releaseDead(inst)
}

// zeroLoopThreshold is the size in words from which a zero initializer is
// stored by a loop instead of one store per word.
const zeroLoopThreshold = 16

// storeInit stores an initializer through dest word by word.
func (g *Generator) storeInit(init, dest *koopa.Value) {
	words := flattenInit(init)

	allZero := true
	for _, word := range words {
		if word != 0 {
			allZero = false
			break
		}
	}

	if allZero && len(words) > zeroLoopThreshold {
		g.zeroLoop(dest, len(words))
		return
	}

	base, off := g.address(dest, 0)

	// once the offsets leave the immediate range a scratch cursor walks the
	// object in steps of rebaseStep bytes
	rebased := false
	for _, word := range words {
		if !fitsImm(off) {
			if rebased {
				g.emit("addi", base, base, rebaseStep)
			} else {
				cursor := g.acquireScratch()
				g.emit("addi", cursor, base, rebaseStep)
				base = cursor
				rebased = true
			}

			off -= rebaseStep
		}

		value := RegZero
		if word != 0 {
			value = g.acquireScratch()
			g.emit("li", value, word)
		}

		g.emit("sw", value, memOperand(off, base))
		off += 4

		if value != RegZero {
			g.pool.release(value)
			g.scratch = g.scratch[:len(g.scratch)-1]
		}
	}
}

const rebaseStep = 2040

// zeroLoop stores zero to n words through dest with a loop.
func (g *Generator) zeroLoop(dest *koopa.Value, n int) {
	g.loops++
	loop := fmt.Sprintf("%s_zeroinit_%d", g.fnName, g.loops)

	ptr := g.operand(dest)
	if _, ok := g.regs[dest]; ok {
		// the register of dest must survive the loop
		cursor := g.acquireScratch()
		g.emit("mv", cursor, ptr)
		ptr = cursor
	}

	end := g.acquireScratch()
	g.emit("li", end, 4*n)
	g.emit("add", end, ptr, end)

	g.label(loop)
	g.emit("sw", RegZero, memOperand(0, ptr))
	g.emit("addi", ptr, ptr, 4)
	g.emit("bltu", ptr, end, loop)
}

// -----------------------------------------------------------------------------

// genPtrOffset lowers getelemptr and getptr: both add index times the size of
// the element the result points to.
func (g *Generator) genPtrOffset(inst, src, index *koopa.Value) {
	if !g.live.used(inst) {
		g.releaseDead(inst)
		return
	}

	stride := koopa.PointerElem(inst.Type).Size()

	if n, ok := index.Kind.(*koopa.Integer); ok {
		off := int(n.Value) * stride

		// the address of a frame slot folds into one add to sp
		if slot, ok := g.frame.slots[src]; ok {
			g.releaseDead(inst)
			rd := g.define(inst)
			g.addOffset(rd, RegSP, slot+off)
			return
		}

		base := g.operand(src)

		var tmp Reg
		if !fitsImm(off) {
			tmp = g.acquireScratch()
			g.emit("li", tmp, off)
		}

		g.releaseDead(inst)
		rd := g.define(inst)

		if fitsImm(off) {
			g.emit("addi", rd, base, off)
		} else {
			g.emit("add", rd, base, tmp)
		}

		return
	}

	base := g.operand(src)
	idx := g.operand(index)

	scaled := g.acquireScratch()
	g.emit("li", scaled, stride)
	g.emit("mul", scaled, idx, scaled)

	g.releaseDead(inst)
	g.emit("add", g.define(inst), base, scaled)
}

// binaryInsts maps the operators with a direct RISC-V counterpart.
var binaryInsts = map[koopa.BinaryOp]string{
	koopa.OpAdd: "add",
	koopa.OpSub: "sub",
	koopa.OpMul: "mul",
	koopa.OpDiv: "div",
	koopa.OpMod: "rem",
	koopa.OpAnd: "and",
	koopa.OpOr:  "or",
	koopa.OpXor: "xor",
	koopa.OpShl: "sll",
	koopa.OpShr: "srl",
	koopa.OpSar: "sra",
	koopa.OpLt:  "slt",
	koopa.OpGt:  "sgt",
}

func (g *Generator) genBinary(inst *koopa.Value, bin *koopa.Binary) {
	if !g.live.used(inst) {
		g.releaseDead(inst)
		return
	}

	lhs := g.operand(bin.Lhs)
	rhs := g.operand(bin.Rhs)

	g.releaseDead(inst)
	rd := g.define(inst)

	switch bin.Op {
	case koopa.OpEq:
		g.emit("xor", rd, lhs, rhs)
		g.emit("seqz", rd, rd)
	case koopa.OpNotEq:
		g.emit("xor", rd, lhs, rhs)
		g.emit("snez", rd, rd)
	case koopa.OpLe:
		// there is no set-if-less-or-equal: a <= b is !(a > b)
		g.emit("sgt", rd, lhs, rhs)
		g.emit("seqz", rd, rd)
	case koopa.OpGe:
		g.emit("slt", rd, lhs, rhs)
		g.emit("seqz", rd, rd)
	default:
		g.emit(binaryInsts[bin.Op], rd, lhs, rhs)
	}
}

// -----------------------------------------------------------------------------

func (g *Generator) genBranch(inst *koopa.Value, br *koopa.Branch) {
	if n, ok := br.Cond.Kind.(*koopa.Integer); ok {
		target := br.False
		if n.Value != 0 {
			target = br.True
		}

		g.releaseDead(inst)
		g.emit("j", g.blockLabel(target))
		return
	}

	cond := g.operand(br.Cond)
	g.releaseDead(inst)

	g.emit("bnez", cond, g.blockLabel(br.True))
	g.emit("j", g.blockLabel(br.False))
}

func (g *Generator) genReturn(inst *koopa.Value, ret *koopa.Return) {
	if ret.Value != nil {
		switch k := ret.Value.Kind.(type) {
		case *koopa.Integer:
			g.emit("li", ArgReg(0), k.Value)
		default:
			if r := g.operand(ret.Value); r != ArgReg(0) {
				g.emit("mv", ArgReg(0), r)
			}
		}
	}

	g.releaseDead(inst)
	g.genEpilogue()
	g.emit("ret")
}

// -----------------------------------------------------------------------------

// genCall lowers a call.  Every occupied register is saved to its slot first:
// the callee may clobber all of them.  Arguments are then read back from the
// save slots so that loading one argument register never overwrites the
// source of another.
func (g *Generator) genCall(inst *koopa.Value, call *koopa.Call) {
	saved := g.pool.occupied()
	for _, r := range saved {
		g.emit("sw", r, memOperand(g.frame.saveSlot(r), RegSP))
	}

	for i, arg := range call.Args {
		if i < NumArguments {
			g.loadArg(ArgReg(i), arg)
			continue
		}

		// t0 is saved if it holds anything
		g.loadArg(regT0, arg)
		g.emit("sw", regT0, memOperand(4*(i-NumArguments), RegSP))
	}

	g.emit("call", symbolName(call.Callee.Name))

	g.releaseDead(inst)

	var rd Reg = RegZero
	if g.live.used(inst) {
		rd = g.define(inst)
		if rd != ArgReg(0) {
			g.emit("mv", rd, ArgReg(0))
		}
	}

	// only the registers which are still live come back
	for _, r := range saved {
		if r != rd && g.pool.used[r] {
			g.emit("lw", r, memOperand(g.frame.saveSlot(r), RegSP))
		}
	}
}

// loadArg loads the value of a call argument into rd.
func (g *Generator) loadArg(rd Reg, arg *koopa.Value) {
	switch k := arg.Kind.(type) {
	case *koopa.Integer:
		g.emit("li", rd, k.Value)
	case *koopa.Undef:
		g.emit("li", rd, 0)
	case *koopa.Alloc:
		g.addOffset(rd, RegSP, g.frame.slots[arg])
	case *koopa.GlobalAlloc:
		g.emit("la", rd, symbolName(arg.Name))
	default:
		r, ok := g.regs[arg]
		if !ok {
			panic(report.Raise(report.MalformedIR, nil, "value `%s` in `%s` has no register", arg.Name, g.fn.Name))
		}

		g.emit("lw", rd, memOperand(g.frame.saveSlot(r), RegSP))
	}
}
