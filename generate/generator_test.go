package generate

import (
	"strings"
	"testing"

	"sysyc/koopa"
	"sysyc/lower"
	"sysyc/syntax"
)

func generateSource(t *testing.T, src string) string {
	t.Helper()

	cu, err := syntax.ParseString(src)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	text, err := lower.Lower(cu)
	if err != nil {
		t.Fatalf("lowering failed: %v", err)
	}

	prog, err := koopa.Decode(text)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	mod, err := Generate(prog)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	return mod.String()
}

func expectContains(t *testing.T, text string, wants ...string) {
	t.Helper()

	for _, want := range wants {
		if !strings.Contains(text, want) {
			t.Errorf("missing %q in:\n%s", want, text)
		}
	}
}

func TestGenerateReturn(t *testing.T) {
	got := generateSource(t, "int main() { return 1 + 2 * 3; }")

	expectContains(t, got,
		"declare i32 @getint()",
		"declare void @putint(i32",
		"declare i32 @getarray(i32*",
		"define i32 @main()",
		"bb.entry:",
		"ret i32 7",
	)
}

func TestGenerateGlobals(t *testing.T) {
	got := generateSource(t, `
int g = 5;
int z;
int arr[2][2] = {{1}, {2, 3}};
int main() { return g + arr[1][1]; }
`)

	expectContains(t, got,
		"@g = global i32 5",
		"@z = global i32 zeroinitializer",
		"@arr = global [2 x [2 x i32]] [[2 x i32] [i32 1, i32 0], [2 x i32] [i32 2, i32 3]]",
		"load i32, i32* @g",
		"getelementptr [2 x [2 x i32]], [2 x [2 x i32]]* @arr, i32 0, i32 1",
	)
}

func TestGenerateControlFlow(t *testing.T) {
	got := generateSource(t, `
int main() {
	int a = 0;
	while (a < 5) {
		a = a + 1;
		if (a == 3) break;
	}
	return a % 2;
}`)

	expectContains(t, got,
		"%a = alloca i32",
		"store i32 0, i32* %a",
		"br label %bb.while_entry_1",
		"icmp slt i32",
		"zext i1",
		"icmp eq i32",
		"br i1",
		"srem i32",
		"bb.while_end_1:",
	)
}

func TestGenerateCallsAndArrays(t *testing.T) {
	got := generateSource(t, `
int sum(int a[], int n) { return a[0] + n; }
int main() {
	int b[3] = {1, 2, 3};
	putint(sum(b, 3));
	return 0;
}`)

	expectContains(t, got,
		"define i32 @sum(i32* %a, i32 %n)",
		"%a_1 = alloca i32*",
		"getelementptr i32, i32* ",
		"%b = alloca [3 x i32]",
		"store [3 x i32] zeroinitializer, [3 x i32]* %b",
		"call i32 @sum(i32* ",
		"call void @putint(i32 ",
	)
}
