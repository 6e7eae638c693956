package generate

import (
	"strings"

	"sysyc/koopa"
	"sysyc/report"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// Generator translates a decoded Koopa IR program into an LLVM module.  The
// translation is one to one: every Koopa instruction becomes one LLVM
// instruction except comparisons and branch conditions which need an extra
// conversion between `i1` and `i32`.
type Generator struct {
	// prog is the program being translated.
	prog *koopa.Program

	// mod is the LLVM module being built.
	mod *ir.Module

	// funcs maps each Koopa function to its LLVM function.
	funcs map[*koopa.Function]*ir.Func

	// values maps each global and local Koopa value to its LLVM value.
	values map[*koopa.Value]value.Value

	// blocks maps the basic blocks of the current function.
	blocks map[*koopa.BasicBlock]*ir.Block

	// block is the block being generated.
	block *ir.Block
}

// NewGenerator creates a new generator for prog.
func NewGenerator(prog *koopa.Program) *Generator {
	return &Generator{
		prog:   prog,
		mod:    ir.NewModule(),
		funcs:  make(map[*koopa.Function]*ir.Func),
		values: make(map[*koopa.Value]value.Value),
	}
}

// Generate translates prog into an LLVM module.
func Generate(prog *koopa.Program) (*ir.Module, error) {
	return NewGenerator(prog).Generate()
}

// Generate runs the translation.  It only fails on IR the decoder should
// never have accepted.
func (g *Generator) Generate() (mod *ir.Module, err error) {
	defer report.Catch(&err)

	for _, global := range g.prog.Values {
		init := global.Kind.(*koopa.GlobalAlloc).Init
		llGlobal := g.mod.NewGlobalDef(symbolName(global.Name), g.convInit(init))
		g.values[global] = llGlobal
	}

	// every function is declared before any body so calls can refer forward
	for _, fn := range g.prog.Funcs {
		g.declareFunc(fn)
	}

	for _, fn := range g.prog.Funcs {
		if !fn.IsDecl() {
			g.genFuncBody(fn)
		}
	}

	return g.mod, nil
}

// -----------------------------------------------------------------------------

// declareFunc creates the LLVM function for fn.
func (g *Generator) declareFunc(fn *koopa.Function) {
	params := make([]*ir.Param, len(fn.Type.Params))
	for i, paramType := range fn.Type.Params {
		name := ""
		if !fn.IsDecl() {
			name = localName(fn.Params[i].Name)
		}

		params[i] = ir.NewParam(name, g.convType(paramType))
	}

	llFunc := g.mod.NewFunc(symbolName(fn.Name), g.convType(fn.Type.ReturnType), params...)
	g.funcs[fn] = llFunc

	if !fn.IsDecl() {
		for i, param := range fn.Params {
			g.values[param] = llFunc.Params[i]
		}
	}
}

// genFuncBody generates the basic blocks of a function definition.
func (g *Generator) genFuncBody(fn *koopa.Function) {
	llFunc := g.funcs[fn]

	// blocks are created up front since branches may target later blocks
	g.blocks = make(map[*koopa.BasicBlock]*ir.Block)
	for _, bb := range fn.Blocks {
		g.blocks[bb] = llFunc.NewBlock(blockName(bb.Name))
	}

	for _, bb := range fn.Blocks {
		g.block = g.blocks[bb]

		for _, inst := range bb.Insts {
			g.genInst(inst)
		}
	}
}

// -----------------------------------------------------------------------------

// Koopa IR keeps variables (`@x`), temporaries (`%0`) and labels (`%entry`)
// apart by their sigils while LLVM has a single local namespace.  Source
// identifiers never contain a dot so the prefixes below keep the three kinds
// disjoint.

// symbolName returns the LLVM name of a global or function.
func symbolName(name string) string {
	return strings.TrimPrefix(name, "@")
}

// localName returns the LLVM name of a local value.
func localName(name string) string {
	if strings.HasPrefix(name, "%") {
		return "." + name[1:]
	}

	return strings.TrimPrefix(name, "@")
}

// blockName returns the LLVM name of a basic block.
func blockName(name string) string {
	return "bb." + strings.TrimPrefix(name, "%")
}

// -----------------------------------------------------------------------------

// convType converts a Koopa type to an LLVM type.
func (g *Generator) convType(typ koopa.Type) types.Type {
	switch v := typ.(type) {
	case koopa.Int32Type:
		return types.I32
	case koopa.UnitType:
		return types.Void
	case *koopa.ArrayType:
		return types.NewArray(uint64(v.Len), g.convType(v.ElemType))
	case *koopa.PointerType:
		return types.NewPointer(g.convType(v.ElemType))
	}

	panic(report.Raise(report.MalformedIR, nil, "type `%s` has no LLVM equivalent", typ.Repr()))
}

// convInit converts a Koopa initializer to an LLVM constant.
func (g *Generator) convInit(init *koopa.Value) constant.Constant {
	switch v := init.Kind.(type) {
	case *koopa.Integer:
		return constant.NewInt(types.I32, int64(v.Value))
	case *koopa.ZeroInit:
		return constant.NewZeroInitializer(g.convType(init.Type))
	case *koopa.Undef:
		return constant.NewUndef(g.convType(init.Type))
	case *koopa.Aggregate:
		elems := make([]constant.Constant, len(v.Elems))
		for i, elem := range v.Elems {
			elems[i] = g.convInit(elem)
		}

		return constant.NewArray(g.convType(init.Type).(*types.ArrayType), elems...)
	}

	panic(report.Raise(report.MalformedIR, nil, "invalid initializer"))
}
