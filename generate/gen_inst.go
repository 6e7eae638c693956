package generate

import (
	"sysyc/koopa"
	"sysyc/report"

	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// genInst generates one Koopa instruction.
func (g *Generator) genInst(inst *koopa.Value) {
	var result value.Value

	switch k := inst.Kind.(type) {
	case *koopa.Alloc:
		result = g.block.NewAlloca(g.convType(koopa.PointerElem(inst.Type)))
	case *koopa.Load:
		result = g.block.NewLoad(g.convType(inst.Type), g.genOperand(k.Src))
	case *koopa.Store:
		g.block.NewStore(g.genStoredValue(k.Value), g.genOperand(k.Dest))
	case *koopa.GetElemPtr:
		src := g.genOperand(k.Src)
		result = g.block.NewGetElementPtr(
			g.convType(koopa.PointerElem(k.Src.Type)),
			src,
			constant.NewInt(types.I32, 0),
			g.genOperand(k.Index),
		)
	case *koopa.GetPtr:
		src := g.genOperand(k.Src)
		result = g.block.NewGetElementPtr(g.convType(koopa.PointerElem(k.Src.Type)), src, g.genOperand(k.Index))
	case *koopa.Binary:
		result = g.genBinary(k)
	case *koopa.Branch:
		cond := g.block.NewICmp(enum.IPredNE, g.genOperand(k.Cond), constant.NewInt(types.I32, 0))
		g.block.NewCondBr(cond, g.blocks[k.True], g.blocks[k.False])
	case *koopa.Jump:
		g.block.NewBr(g.blocks[k.Target])
	case *koopa.Call:
		args := make([]value.Value, len(k.Args))
		for i, arg := range k.Args {
			args[i] = g.genOperand(arg)
		}

		call := g.block.NewCall(g.funcs[k.Callee], args...)
		if inst.Name != "" {
			result = call
		}
	case *koopa.Return:
		if k.Value == nil {
			g.block.NewRet(nil)
		} else {
			g.block.NewRet(g.genOperand(k.Value))
		}
	default:
		panic(report.Raise(report.MalformedIR, nil, "unexpected instruction"))
	}

	if result != nil {
		if named, ok := result.(value.Named); ok && inst.Name != "" {
			named.SetName(localName(inst.Name))
		}

		g.values[inst] = result
	}
}

// genOperand returns the LLVM value of an operand.
func (g *Generator) genOperand(v *koopa.Value) value.Value {
	switch k := v.Kind.(type) {
	case *koopa.Integer:
		return constant.NewInt(types.I32, int64(k.Value))
	case *koopa.Undef:
		return constant.NewUndef(g.convType(v.Type))
	}

	if llValue, ok := g.values[v]; ok {
		return llValue
	}

	panic(report.Raise(report.MalformedIR, nil, "value `%s` is used before it is defined", v.Name))
}

// genStoredValue returns the value of a store which may be an initializer.
func (g *Generator) genStoredValue(v *koopa.Value) value.Value {
	switch v.Kind.(type) {
	case *koopa.ZeroInit, *koopa.Aggregate:
		return g.convInit(v)
	}

	return g.genOperand(v)
}

// -----------------------------------------------------------------------------

// intPreds maps the comparison operators to LLVM predicates.
var intPreds = map[koopa.BinaryOp]enum.IPred{
	koopa.OpEq:    enum.IPredEQ,
	koopa.OpNotEq: enum.IPredNE,
	koopa.OpLt:    enum.IPredSLT,
	koopa.OpLe:    enum.IPredSLE,
	koopa.OpGt:    enum.IPredSGT,
	koopa.OpGe:    enum.IPredSGE,
}

// genBinary generates a binary operation.  Comparisons yield `i1` in LLVM and
// are widened back to `i32`.
func (g *Generator) genBinary(bin *koopa.Binary) value.Value {
	lhs, rhs := g.genOperand(bin.Lhs), g.genOperand(bin.Rhs)

	if pred, ok := intPreds[bin.Op]; ok {
		return g.block.NewZExt(g.block.NewICmp(pred, lhs, rhs), types.I32)
	}

	var result value.Value
	switch bin.Op {
	case koopa.OpAdd:
		result = g.block.NewAdd(lhs, rhs)
	case koopa.OpSub:
		result = g.block.NewSub(lhs, rhs)
	case koopa.OpMul:
		result = g.block.NewMul(lhs, rhs)
	case koopa.OpDiv:
		result = g.block.NewSDiv(lhs, rhs)
	case koopa.OpMod:
		result = g.block.NewSRem(lhs, rhs)
	case koopa.OpAnd:
		result = g.block.NewAnd(lhs, rhs)
	case koopa.OpOr:
		result = g.block.NewOr(lhs, rhs)
	case koopa.OpXor:
		result = g.block.NewXor(lhs, rhs)
	case koopa.OpShl:
		result = g.block.NewShl(lhs, rhs)
	case koopa.OpShr:
		result = g.block.NewLShr(lhs, rhs)
	case koopa.OpSar:
		result = g.block.NewAShr(lhs, rhs)
	default:
		panic(report.Raise(report.MalformedIR, nil, "unknown binary operator `%s`", bin.Op))
	}

	return result
}
