package build

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"sysyc/generate"
	"sysyc/koopa"
	"sysyc/logging"
	"sysyc/lower"
	"sysyc/mods"
	"sysyc/riscv"
	"sysyc/syntax"
)

// Mode is the kind of output the compiler produces
type Mode int

// Enumeration of output modes
const (
	ModeKoopa Mode = iota // Koopa IR text
	ModeRiscV             // RISC-V assembly
	ModeLLVM              // LLVM IR text
)

// modeFlags maps command line mode flags to output modes
var modeFlags = map[string]Mode{
	"-koopa": ModeKoopa,
	"-riscv": ModeRiscV,
	"-llvm":  ModeLLVM,
}

// ParseMode converts a mode flag (eg. `-riscv`) into an output mode.
func ParseMode(flag string) (Mode, bool) {
	mode, ok := modeFlags[flag]
	return mode, ok
}

// Compiler is the data structure responsible for maintaining all high-level
// state of a single compiler invocation
type Compiler struct {
	conf *mods.Config
	mode Mode

	inputPath, outputPath string

	// lctx is the log context for all messages about the input file
	lctx *logging.LogContext
}

// NewCompiler creates a new compiler for the given configuration and paths
func NewCompiler(conf *mods.Config, mode Mode, inputPath, outputPath string) *Compiler {
	absPath, err := filepath.Abs(inputPath)
	if err != nil {
		absPath = inputPath
	}

	return &Compiler{
		conf:       conf,
		mode:       mode,
		inputPath:  inputPath,
		outputPath: outputPath,
		lctx:       &logging.LogContext{FilePath: absPath},
	}
}

// Compile runs the full compilation pipeline on the input file and writes the
// result to the output file.  It handles all compilation errors appropriately
// and returns whether or not compilation succeeded.
func (c *Compiler) Compile() bool {
	f, err := os.Open(c.inputPath)
	if err != nil {
		logging.LogConfigError("File", "error opening input file: "+err.Error())
		return false
	}
	defer f.Close()

	text, ok := c.compileReader(f)
	if !ok {
		logging.LogCompilationFinished("")
		return false
	}

	if err := os.WriteFile(c.outputPath, []byte(text), 0644); err != nil {
		logging.LogConfigError("File", "error writing output file: "+err.Error())
		return false
	}

	if c.conf.PrintOutput {
		fmt.Print(text)
	}

	logging.LogCompilationFinished(c.outputPath)
	return true
}

// compileReader runs each compilation phase over the source read from `r`.
func (c *Compiler) compileReader(r io.Reader) (string, bool) {
	logging.BeginPhase("Parsing")
	cu, err := syntax.NewParser(r).Parse()
	if !c.endPhase(err) {
		return "", false
	}

	logging.BeginPhase("Lowering")
	irText, err := lower.Lower(cu)
	if !c.endPhase(err) {
		return "", false
	}

	if c.mode == ModeKoopa {
		return irText, true
	}

	// the decoder only ever sees IR that we emitted so any error it reports
	// is a bug in lowering, not in the user's code
	logging.BeginPhase("Decoding")
	prog, err := koopa.Decode(irText)
	if err != nil {
		logging.LogFatal("lowering produced malformed IR: " + err.Error())
		return "", false
	}
	logging.EndPhase()

	logging.BeginPhase("Generating")
	var out string
	if c.mode == ModeLLVM {
		mod, genErr := generate.Generate(prog)
		if genErr == nil {
			out = mod.String()
		}
		err = genErr
	} else {
		out, err = riscv.Generate(prog, c.conf.RegisterOptions())
	}

	if !c.endPhase(err) {
		return "", false
	}

	return out, true
}

// endPhase logs the error of a phase if there is one and concludes the phase.
func (c *Compiler) endPhase(err error) bool {
	if err != nil {
		logging.LogCompileError(c.lctx, err)
	}

	logging.EndPhase()
	return err == nil
}
