package lower

import (
	"strings"

	"sysyc/ast"
	"sysyc/report"
)

// flattenInit expands an initializer list against an array shape into a
// linear buffer of product(shape) entries.  Entries left nil are zero.
//
// A leaf fills the next slot.  A nested list fills the largest block of the
// array which is aligned to a dimension boundary at the current offset: the
// sub-array of the outermost dimension that the offset is a multiple of.
func flattenInit(list *ast.InitList, shape []int) []ast.Expr {
	buf := make([]ast.Expr, product(shape))
	fillInit(list, shape, buf)
	return buf
}

// fillInit fills buf which holds exactly one array of the given shape.
func fillInit(list *ast.InitList, shape []int, buf []ast.Expr) {
	pos := 0
	for _, item := range list.Items {
		if pos >= len(buf) {
			panic(report.Raise(report.InvalidInitializer, item.Span(), "too many initializers for array of %d elements", len(buf)))
		}

		switch v := item.(type) {
		case *ast.InitExpr:
			buf[pos] = v.Value
			pos++
		case *ast.InitList:
			k := alignedDim(shape, pos)
			if k == len(shape) {
				panic(report.Raise(report.InvalidInitializer, v.Span(), "initializer list is not aligned to a sub-array"))
			}

			size := product(shape[k:])
			fillInit(v, shape[k:], buf[pos:pos+size])
			pos += size
		}
	}
}

// alignedDim returns the outermost dimension k >= 1 such that pos is a multiple
// of the size of a sub-array of shape[k:].  It returns len(shape) if there is
// none.
func alignedDim(shape []int, pos int) int {
	for k := 1; k < len(shape); k++ {
		if pos%product(shape[k:]) == 0 {
			return k
		}
	}

	return len(shape)
}

// product returns the number of elements of an array with the given shape.
func product(shape []int) int {
	n := 1
	for _, dim := range shape {
		n *= dim
	}

	return n
}

// -----------------------------------------------------------------------------

// formatAggregate formats the flattened contents of an array as a nested
// aggregate initializer, or `zeroinit` if every element is zero.
func formatAggregate(values []int32, shape []int) string {
	allZero := true
	for _, value := range values {
		if value != 0 {
			allZero = false
			break
		}
	}

	if allZero {
		return "zeroinit"
	}

	sb := strings.Builder{}
	writeAggregate(&sb, values, shape)
	return sb.String()
}

func writeAggregate(sb *strings.Builder, values []int32, shape []int) {
	if len(shape) == 0 {
		sb.WriteString(literal(values[0]))
		return
	}

	stride := product(shape[1:])

	sb.WriteRune('{')
	for i := 0; i < shape[0]; i++ {
		if i > 0 {
			sb.WriteString(", ")
		}

		writeAggregate(sb, values[i*stride:(i+1)*stride], shape[1:])
	}

	sb.WriteRune('}')
}

// unflatten converts a linear offset into per-dimension indices.
func unflatten(offset int, shape []int) []int {
	indices := make([]int, len(shape))
	for i := len(shape) - 1; i >= 0; i-- {
		indices[i] = offset % shape[i]
		offset /= shape[i]
	}

	return indices
}
