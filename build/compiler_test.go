package build

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"sysyc/logging"
	"sysyc/mods"
)

const sampleSource = `
int add(int a, int b) {
    return a + b;
}

int main() {
    int x = add(1, 2);
    putint(x);
    return 0;
}
`

func TestMain(m *testing.M) {
	logging.Initialize("silent")
	os.Exit(m.Run())
}

func compileSample(t *testing.T, src string, mode Mode) (string, bool) {
	t.Helper()

	dir := t.TempDir()
	inputPath := filepath.Join(dir, "main.sy")
	outputPath := filepath.Join(dir, "main.out")

	if err := os.WriteFile(inputPath, []byte(src), 0644); err != nil {
		t.Fatal(err)
	}

	ok := NewCompiler(mods.DefaultConfig(), mode, inputPath, outputPath).Compile()

	out, err := os.ReadFile(outputPath)
	if ok && err != nil {
		t.Fatalf("compilation succeeded but output is missing: %s", err)
	} else if !ok && err == nil {
		t.Fatal("compilation failed but an output file was written")
	}

	return string(out), ok
}

func TestParseMode(t *testing.T) {
	for flag, want := range map[string]Mode{"-koopa": ModeKoopa, "-riscv": ModeRiscV, "-llvm": ModeLLVM} {
		if mode, ok := ParseMode(flag); !ok || mode != want {
			t.Errorf("ParseMode(%q) = %v, %v", flag, mode, ok)
		}
	}

	if _, ok := ParseMode("-x86"); ok {
		t.Error("unknown mode accepted")
	}
}

func TestCompileModes(t *testing.T) {
	cases := []struct {
		mode  Mode
		wants []string
	}{
		{ModeKoopa, []string{"decl @putint(i32)", "fun @add(@a: i32, @b: i32): i32 {", "call @add(1, 2)"}},
		{ModeRiscV, []string{"  .globl main", "main:", "  call\tadd", "  call\tputint", "  ret"}},
		{ModeLLVM, []string{"declare void @putint(i32", "define i32 @add(i32", "call i32 @add(i32 1, i32 2)"}},
	}

	for _, c := range cases {
		out, ok := compileSample(t, sampleSource, c.mode)
		if !ok {
			t.Fatalf("mode %d: compilation failed", c.mode)
		}

		for _, want := range c.wants {
			if !strings.Contains(out, want) {
				t.Errorf("mode %d: output missing %q:\n%s", c.mode, want, out)
			}
		}
	}
}

func TestCompileErrors(t *testing.T) {
	sources := []string{
		"int main() { return 0 }",
		"int main() { return y; }",
		"int main() { break; }",
	}

	for _, src := range sources {
		if _, ok := compileSample(t, src, ModeRiscV); ok {
			t.Errorf("expected %q to fail", src)
		}
	}
}

func TestCompileRegisterLimit(t *testing.T) {
	conf := mods.DefaultConfig()
	conf.Temporaries, conf.Arguments = 1, 0

	dir := t.TempDir()
	inputPath := filepath.Join(dir, "main.sy")
	src := "int main() { int a = getint(); int b = getint(); return a * b + a; }"
	if err := os.WriteFile(inputPath, []byte(src), 0644); err != nil {
		t.Fatal(err)
	}

	if NewCompiler(conf, ModeRiscV, inputPath, filepath.Join(dir, "main.S")).Compile() {
		t.Error("expected the register pool to be exhausted")
	}
}

func TestCompileMissingInput(t *testing.T) {
	dir := t.TempDir()
	if NewCompiler(mods.DefaultConfig(), ModeKoopa, filepath.Join(dir, "none.sy"), filepath.Join(dir, "out")).Compile() {
		t.Error("expected a missing input file to fail")
	}
}
