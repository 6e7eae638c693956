package koopa

import (
	"fmt"
	"strings"
)

// Type represents a Koopa IR type.
type Type interface {
	// Repr returns the string representation of the IR type.
	Repr() string

	// Size returns the size of the type in bytes.
	Size() int

	// Equals returns whether two types are identical.
	Equals(other Type) bool
}

// -----------------------------------------------------------------------------

// Int32Type is the 32-bit integer type `i32`.
type Int32Type struct{}

func (Int32Type) Repr() string { return "i32" }
func (Int32Type) Size() int    { return 4 }

func (Int32Type) Equals(other Type) bool {
	_, ok := other.(Int32Type)
	return ok
}

// UnitType is the type of values that produce no result.
type UnitType struct{}

func (UnitType) Repr() string { return "unit" }
func (UnitType) Size() int    { return 0 }

func (UnitType) Equals(other Type) bool {
	_, ok := other.(UnitType)
	return ok
}

// I32 and Unit are the shared instances of the primitive types.
var (
	I32  Type = Int32Type{}
	Unit Type = UnitType{}
)

// -----------------------------------------------------------------------------

// ArrayType is a fixed length array `[T, N]`.
type ArrayType struct {
	ElemType Type
	Len      int
}

func (at *ArrayType) Repr() string {
	return fmt.Sprintf("[%s, %d]", at.ElemType.Repr(), at.Len)
}

func (at *ArrayType) Size() int {
	return at.ElemType.Size() * at.Len
}

func (at *ArrayType) Equals(other Type) bool {
	if oat, ok := other.(*ArrayType); ok {
		return at.Len == oat.Len && at.ElemType.Equals(oat.ElemType)
	}

	return false
}

// PointerType is a pointer `*T`.
type PointerType struct {
	ElemType Type
}

func (pt *PointerType) Repr() string {
	return "*" + pt.ElemType.Repr()
}

// Size of a pointer on RV32.
func (pt *PointerType) Size() int {
	return 4
}

func (pt *PointerType) Equals(other Type) bool {
	if opt, ok := other.(*PointerType); ok {
		return pt.ElemType.Equals(opt.ElemType)
	}

	return false
}

// FuncType is a function type `(T...): R`.
type FuncType struct {
	Params     []Type
	ReturnType Type
}

func (ft *FuncType) Repr() string {
	sb := strings.Builder{}
	sb.WriteRune('(')

	for i, param := range ft.Params {
		if i > 0 {
			sb.WriteString(", ")
		}

		sb.WriteString(param.Repr())
	}

	sb.WriteRune(')')

	if !ft.ReturnType.Equals(Unit) {
		sb.WriteString(": ")
		sb.WriteString(ft.ReturnType.Repr())
	}

	return sb.String()
}

func (ft *FuncType) Size() int {
	return 4
}

func (ft *FuncType) Equals(other Type) bool {
	oft, ok := other.(*FuncType)
	if !ok || len(ft.Params) != len(oft.Params) || !ft.ReturnType.Equals(oft.ReturnType) {
		return false
	}

	for i, param := range ft.Params {
		if !param.Equals(oft.Params[i]) {
			return false
		}
	}

	return true
}

// -----------------------------------------------------------------------------

// NewArrayType builds the nested array type with the given dimensions listed
// outermost first: [2][3] is `[[i32, 3], 2]`.
func NewArrayType(elem Type, dims []int) Type {
	typ := elem
	for i := len(dims) - 1; i >= 0; i-- {
		typ = &ArrayType{ElemType: typ, Len: dims[i]}
	}

	return typ
}

// PointerElem returns the element type of a pointer type or nil if typ is not
// a pointer.
func PointerElem(typ Type) Type {
	if pt, ok := typ.(*PointerType); ok {
		return pt.ElemType
	}

	return nil
}
