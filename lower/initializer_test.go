package lower

import (
	"testing"

	"sysyc/ast"
	"sysyc/report"
)

func lit(n int32) ast.Initializer {
	return &ast.InitExpr{Value: &ast.IntLit{Value: n}}
}

func list(items ...ast.Initializer) *ast.InitList {
	return &ast.InitList{Items: items}
}

func flatValues(t *testing.T, init *ast.InitList, shape []int) (values []int32, err error) {
	t.Helper()
	defer report.Catch(&err)

	for _, expr := range flattenInit(init, shape) {
		if expr == nil {
			values = append(values, 0)
		} else {
			values = append(values, expr.(*ast.IntLit).Value)
		}
	}

	return
}

func TestFlattenInit(t *testing.T) {
	cases := []struct {
		name  string
		init  *ast.InitList
		shape []int
		want  []int32
	}{
		{"nested", list(list(lit(1), lit(2)), list(lit(3))), []int{2, 2}, []int32{1, 2, 3, 0}},
		{"flat", list(lit(1), lit(2), lit(3)), []int{2, 2}, []int32{1, 2, 3, 0}},
		{"empty", list(), []int{3}, []int32{0, 0, 0}},
		{"aligned inner", list(lit(1), lit(2), lit(3), lit(4), list(lit(5))), []int{2, 3, 4}, []int32{
			1, 2, 3, 4, 5, 0, 0, 0, 0, 0, 0, 0,
			0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
		}},
		{"outer block", list(list(list(lit(1)), list(lit(2)))), []int{2, 2, 2}, []int32{1, 0, 2, 0, 0, 0, 0, 0}},
	}

	for _, c := range cases {
		got, err := flatValues(t, c.init, c.shape)
		if err != nil {
			t.Errorf("%s: unexpected error %v", c.name, err)
			continue
		}

		if len(got) != len(c.want) {
			t.Errorf("%s: got %v, want %v", c.name, got, c.want)
			continue
		}

		for i := range got {
			if got[i] != c.want[i] {
				t.Errorf("%s: got %v, want %v", c.name, got, c.want)
				break
			}
		}
	}
}

func TestFlattenInitErrors(t *testing.T) {
	cases := []struct {
		name  string
		init  *ast.InitList
		shape []int
	}{
		{"too many", list(lit(1), lit(2), lit(3)), []int{2}},
		{"misaligned", list(lit(1), list(lit(2))), []int{2, 2}},
		{"innermost list", list(list(lit(1))), []int{2}},
		{"nested overflow", list(list(lit(1), lit(2), lit(3))), []int{2, 2}},
	}

	for _, c := range cases {
		_, err := flatValues(t, c.init, c.shape)
		if !report.IsKind(err, report.InvalidInitializer) {
			t.Errorf("%s: expected an initializer error, got %v", c.name, err)
		}
	}
}

func TestFormatAggregate(t *testing.T) {
	if got := formatAggregate([]int32{0, 0, 0, 0}, []int{2, 2}); got != "zeroinit" {
		t.Errorf("got %q", got)
	}

	if got := formatAggregate([]int32{1, 2, 3, 0, 0, 6}, []int{2, 3}); got != "{{1, 2, 3}, {0, 0, 6}}" {
		t.Errorf("got %q", got)
	}

	if got := formatAggregate([]int32{-1, 5}, []int{2}); got != "{-1, 5}" {
		t.Errorf("got %q", got)
	}
}

func TestUnflatten(t *testing.T) {
	got := unflatten(7, []int{2, 3, 2})
	want := []int{1, 0, 1}

	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}
