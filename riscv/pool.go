package riscv

import "fmt"

// Reg is a physical register.  The pool registers are numbered in pool order:
// t0..t6 are 0..6 and a0..a7 are 7..14.
type Reg int

// Special registers which are never handed out by the pool.
const (
	RegZero Reg = -1 - iota
	RegSP
	RegRA
)

// regT0 doubles as the fixed scratch register of prologues, epilogues and
// stack arguments.
const regT0 Reg = 0

// NumTemporaries and NumArguments are the sizes of the two physical register
// files the pool is built from.
const (
	NumTemporaries = 7
	NumArguments   = 8
	numPoolRegs    = NumTemporaries + NumArguments
)

// ArgReg returns the i-th argument register.
func ArgReg(i int) Reg {
	return Reg(NumTemporaries + i)
}

func (r Reg) String() string {
	switch {
	case r == RegZero:
		return "x0"
	case r == RegSP:
		return "sp"
	case r == RegRA:
		return "ra"
	case r >= 0 && r < NumTemporaries:
		return fmt.Sprintf("t%d", int(r))
	case r >= NumTemporaries && r < numPoolRegs:
		return fmt.Sprintf("a%d", int(r)-NumTemporaries)
	}

	return fmt.Sprintf("<invalid register %d>", int(r))
}

// -----------------------------------------------------------------------------

// regPool hands out the lowest numbered free register.  Only the first
// `temporaries` of t0..t6 and the first `arguments` of a0..a7 are usable.
type regPool struct {
	usable []Reg
	used   [numPoolRegs]bool
}

func newRegPool(temporaries, arguments int) *regPool {
	p := &regPool{}

	for i := 0; i < temporaries; i++ {
		p.usable = append(p.usable, Reg(i))
	}

	for i := 0; i < arguments; i++ {
		p.usable = append(p.usable, ArgReg(i))
	}

	return p
}

// acquire returns a free register.  The boolean is false if every usable
// register is in use.
func (p *regPool) acquire() (Reg, bool) {
	for _, r := range p.usable {
		if !p.used[r] {
			p.used[r] = true
			return r, true
		}
	}

	return 0, false
}

// release frees a register.  Special registers are ignored.
func (p *regPool) release(r Reg) {
	if r >= 0 {
		p.used[r] = false
	}
}

// occupied returns the registers currently in use in pool order.
func (p *regPool) occupied() []Reg {
	var regs []Reg
	for r := Reg(0); r < numPoolRegs; r++ {
		if p.used[r] {
			regs = append(regs, r)
		}
	}

	return regs
}

// reset frees every register.
func (p *regPool) reset() {
	p.used = [numPoolRegs]bool{}
}
