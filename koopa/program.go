package koopa

// Program is a decoded Koopa IR program.
type Program struct {
	// Values are the global allocations in declaration order.
	Values []*Value

	// Funcs are the functions and function declarations in declaration order.
	Funcs []*Function
}

// Function is a function definition or, when it has no blocks, an external
// function declaration.
type Function struct {
	// Name includes the leading `@`.
	Name string

	Type *FuncType

	// Params are the parameter values of a definition.  Declarations have no
	// parameter values.
	Params []*Value

	// Blocks lists the basic blocks in order.  The first block is the entry.
	Blocks []*BasicBlock
}

// IsDecl returns whether the function is an external declaration.
func (f *Function) IsDecl() bool {
	return len(f.Blocks) == 0
}

// BasicBlock is a labeled sequence of instructions ending in a terminator.
type BasicBlock struct {
	// Name includes the leading `%`.
	Name string

	Insts []*Value
}

// Terminator returns the last instruction of the block or nil if the block is
// empty.
func (bb *BasicBlock) Terminator() *Value {
	if len(bb.Insts) == 0 {
		return nil
	}

	return bb.Insts[len(bb.Insts)-1]
}

// FuncByName returns the function with the given IR name or nil.
func (p *Program) FuncByName(name string) *Function {
	for _, fn := range p.Funcs {
		if fn.Name == name {
			return fn
		}
	}

	return nil
}
