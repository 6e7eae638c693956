package riscv

import (
	"math"

	"sysyc/koopa"
)

// frameLayout is the stack frame of a function.  From the stack pointer up it
// holds the outgoing arguments beyond the eighth, the register save area and
// the saved return address (both only if the function makes calls), and the
// slots of the function's allocs.
type frameLayout struct {
	size int

	hasCalls bool

	// saveBase and raOffset locate the register save area and the saved
	// return address.
	saveBase, raOffset int

	// slots maps each alloc to its offset.
	slots map[*koopa.Value]int
}

// layoutFrame computes the frame of a function definition.
func layoutFrame(fn *koopa.Function) *frameLayout {
	frame := &frameLayout{slots: make(map[*koopa.Value]int)}

	maxArgs := 0
	var allocs []*koopa.Value
	for _, bb := range fn.Blocks {
		for _, inst := range bb.Insts {
			switch k := inst.Kind.(type) {
			case *koopa.Call:
				frame.hasCalls = true
				if len(k.Args) > maxArgs {
					maxArgs = len(k.Args)
				}
			case *koopa.Alloc:
				allocs = append(allocs, inst)
			}
		}
	}

	offset := 0
	if maxArgs > NumArguments {
		offset = 4 * (maxArgs - NumArguments)
	}

	if frame.hasCalls {
		frame.saveBase = offset
		offset += 4 * numPoolRegs

		frame.raOffset = offset
		offset += 4
	}

	for _, alloc := range allocs {
		frame.slots[alloc] = offset
		offset += koopa.PointerElem(alloc.Type).Size()
	}

	frame.size = (offset + 15) / 16 * 16
	return frame
}

// saveSlot returns the offset at which a register is saved around calls.
func (f *frameLayout) saveSlot(r Reg) int {
	return f.saveBase + 4*int(r)
}

// -----------------------------------------------------------------------------

// pinned is the last use of a value which is live across basic blocks: its
// register is held until the end of the function.
const pinned = math.MaxInt32

// liveness numbers the instructions of a function in order and records the
// position of the last use of each value which needs a register.
type liveness struct {
	pos     map[*koopa.Value]int
	lastUse map[*koopa.Value]int
}

func analyzeLiveness(fn *koopa.Function) *liveness {
	lv := &liveness{
		pos:     make(map[*koopa.Value]int),
		lastUse: make(map[*koopa.Value]int),
	}

	blockOf := make(map[*koopa.Value]*koopa.BasicBlock)

	n := 0
	for _, bb := range fn.Blocks {
		for _, inst := range bb.Insts {
			lv.pos[inst] = n
			blockOf[inst] = bb
			n++
		}
	}

	// parameters are defined on entry ahead of every instruction
	for _, param := range fn.Params {
		lv.track(param, fn.Blocks[0], blockOf)
	}

	for _, bb := range fn.Blocks {
		for _, inst := range bb.Insts {
			if needsRegister(inst) {
				lv.track(inst, bb, blockOf)
			}
		}
	}

	return lv
}

func (lv *liveness) track(v *koopa.Value, def *koopa.BasicBlock, blockOf map[*koopa.Value]*koopa.BasicBlock) {
	for _, user := range v.UsedBy {
		if blockOf[user] != def {
			lv.lastUse[v] = pinned
			return
		}

		if last, ok := lv.lastUse[v]; !ok || lv.pos[user] > last {
			lv.lastUse[v] = lv.pos[user]
		}
	}
}

// used returns whether a value is used at all.
func (lv *liveness) used(v *koopa.Value) bool {
	_, ok := lv.lastUse[v]
	return ok
}

// needsRegister returns whether an instruction produces a value held in a
// register.  Allocs live in the frame.
func needsRegister(inst *koopa.Value) bool {
	if _, ok := inst.Kind.(*koopa.Alloc); ok {
		return false
	}

	return !inst.Type.Equals(koopa.Unit)
}
