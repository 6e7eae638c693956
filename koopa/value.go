package koopa

// Value is a node of the decoded IR graph: a constant, a global allocation or
// an instruction.  Instructions which produce no result have the unit type.
type Value struct {
	// Name is the IR name of the value including its sigil (`@x`, `%0`).  It
	// is empty for constants and unnamed instructions.
	Name string

	Type Type
	Kind ValueKind

	// UsedBy lists the instructions using this value as an operand in the
	// order they were decoded.  A value used twice by one instruction appears
	// twice.
	UsedBy []*Value
}

// ValueKind is the variant of a value.
type ValueKind interface {
	valueKind()
}

// IsConst returns whether the value is a constant (not an instruction).
func (v *Value) IsConst() bool {
	switch v.Kind.(type) {
	case *Integer, *ZeroInit, *Undef, *Aggregate:
		return true
	}

	return false
}

// -----------------------------------------------------------------------------

// Integer is an i32 constant.
type Integer struct {
	Value int32
}

// ZeroInit is a zero initializer for a value of any type.
type ZeroInit struct{}

// Undef is an undefined value.
type Undef struct{}

// Aggregate is an array initializer: `{e0, e1, ...}`.
type Aggregate struct {
	Elems []*Value
}

// FuncArgRef refers to the Index-th parameter of the enclosing function.
type FuncArgRef struct {
	Index int
}

// GlobalAlloc is a global allocation with an initializer.
type GlobalAlloc struct {
	Init *Value
}

// Alloc is a local stack allocation.  Its type is a pointer to the allocated
// type.
type Alloc struct{}

// Load loads the value stored at Src.
type Load struct {
	Src *Value
}

// Store stores Value at Dest.
type Store struct {
	Value, Dest *Value
}

// GetPtr offsets the pointer Src by Index elements of its pointee type.
type GetPtr struct {
	Src, Index *Value
}

// GetElemPtr computes the address of element Index of the array pointed to by
// Src.
type GetElemPtr struct {
	Src, Index *Value
}

// Binary is a binary operation on two i32 operands.
type Binary struct {
	Op       BinaryOp
	Lhs, Rhs *Value
}

// Branch is a conditional branch: to True if Cond is nonzero, else False.
type Branch struct {
	Cond        *Value
	True, False *BasicBlock
}

// Jump is an unconditional jump.
type Jump struct {
	Target *BasicBlock
}

// Call calls a function.
type Call struct {
	Callee *Function
	Args   []*Value
}

// Return returns from a function.  Value is nil for a bare `ret`.
type Return struct {
	Value *Value
}

func (*Integer) valueKind()     {}
func (*ZeroInit) valueKind()    {}
func (*Undef) valueKind()       {}
func (*Aggregate) valueKind()   {}
func (*FuncArgRef) valueKind()  {}
func (*GlobalAlloc) valueKind() {}
func (*Alloc) valueKind()       {}
func (*Load) valueKind()        {}
func (*Store) valueKind()       {}
func (*GetPtr) valueKind()      {}
func (*GetElemPtr) valueKind()  {}
func (*Binary) valueKind()      {}
func (*Branch) valueKind()      {}
func (*Jump) valueKind()        {}
func (*Call) valueKind()        {}
func (*Return) valueKind()      {}

// -----------------------------------------------------------------------------

// BinaryOp is a binary operator.
type BinaryOp int

// Enumeration of binary operators.
const (
	OpNotEq BinaryOp = iota
	OpEq
	OpGt
	OpLt
	OpGe
	OpLe
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpAnd
	OpOr
	OpXor
	OpShl
	OpShr
	OpSar
)

var binaryOpNames = [...]string{
	OpNotEq: "ne",
	OpEq:    "eq",
	OpGt:    "gt",
	OpLt:    "lt",
	OpGe:    "ge",
	OpLe:    "le",
	OpAdd:   "add",
	OpSub:   "sub",
	OpMul:   "mul",
	OpDiv:   "div",
	OpMod:   "mod",
	OpAnd:   "and",
	OpOr:    "or",
	OpXor:   "xor",
	OpShl:   "shl",
	OpShr:   "shr",
	OpSar:   "sar",
}

func (op BinaryOp) String() string {
	return binaryOpNames[op]
}

// binaryOpsByName maps the IR name of each binary operator to the operator.
var binaryOpsByName = func() map[string]BinaryOp {
	m := make(map[string]BinaryOp, len(binaryOpNames))
	for op, name := range binaryOpNames {
		m[name] = BinaryOp(op)
	}

	return m
}()

// -----------------------------------------------------------------------------

// IsTerminator returns whether the value ends a basic block.
func (v *Value) IsTerminator() bool {
	switch v.Kind.(type) {
	case *Branch, *Jump, *Return:
		return true
	}

	return false
}

// Operands returns the values this value uses directly.  Basic block targets
// of branches are not values and aren't included.
func (v *Value) Operands() []*Value {
	switch k := v.Kind.(type) {
	case *Aggregate:
		return k.Elems
	case *GlobalAlloc:
		return []*Value{k.Init}
	case *Load:
		return []*Value{k.Src}
	case *Store:
		return []*Value{k.Value, k.Dest}
	case *GetPtr:
		return []*Value{k.Src, k.Index}
	case *GetElemPtr:
		return []*Value{k.Src, k.Index}
	case *Binary:
		return []*Value{k.Lhs, k.Rhs}
	case *Branch:
		return []*Value{k.Cond}
	case *Call:
		return k.Args
	case *Return:
		if k.Value != nil {
			return []*Value{k.Value}
		}
	}

	return nil
}
