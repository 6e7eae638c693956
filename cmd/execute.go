package cmd

import (
	"errors"
	"os"

	"sysyc/build"
	"sysyc/common"
	"sysyc/logging"
	"sysyc/mods"

	"github.com/ComedicChimera/olive"
)

const usage = "usage: sysyc <-koopa|-riscv|-llvm> <input-path> -o <output-path>"

// Execute runs the main `sysyc` application
func Execute() {
	// the compile invocation has a fixed shape that tooling depends on so it
	// is checked directly rather than through the CLI parser
	if len(os.Args) > 1 {
		if mode, ok := build.ParseMode(os.Args[1]); ok {
			os.Exit(execCompile(mode, os.Args))
		}
	}

	// set up the argument parser for the remaining commands
	cli := olive.NewCLI("sysyc", "sysyc is a compiler from SysY to Koopa IR, RISC-V and LLVM IR", true)

	initCmd := cli.AddSubcommand("init", "create a default config file", true)
	initCmd.AddPrimaryArg("dir-path", "the directory to create the config file in", false)

	cli.AddSubcommand("version", "print the sysyc version", false)

	// run the argument parser
	result, err := olive.ParseArgs(cli, os.Args)
	if err != nil {
		logging.PrintErrorMessage("CLI Usage Error", err)
		logging.PrintInfoMessage("Usage", usage)
		os.Exit(1)
	}

	// process the inputed command line
	subcmdName, subResult, _ := result.Subcommand()
	switch subcmdName {
	case "init":
		execInitCommand(subResult)
	case "version":
		logging.PrintInfoMessage("sysyc Version", common.Version)
	default:
		logging.PrintInfoMessage("Usage", usage)
	}
}

// execCompile executes a compile invocation and returns the exit code
func execCompile(mode build.Mode, args []string) int {
	if len(args) != 5 || args[3] != "-o" {
		logging.PrintErrorMessage("CLI Usage Error", errors.New(usage))
		return 1
	}

	conf, err := mods.FindConfig()
	if err != nil {
		logging.PrintErrorMessage("Config Error", err)
		return 1
	}

	// initialize the logger
	logging.Initialize(conf.LogLevel)

	if !build.NewCompiler(conf, mode, args[2], args[4]).Compile() {
		return 1
	}

	return 0
}

// execInitCommand executes the `init` subcommand.  It handles all errors
// related to this command.
func execInitCommand(result *olive.ArgParseResult) {
	dirPath, ok := result.PrimaryArg()
	if !ok || dirPath == "" {
		workDir, err := os.Getwd()
		if err != nil {
			logging.PrintErrorMessage("Path Error", err)
			os.Exit(1)
		}

		dirPath = workDir
	}

	if err := mods.InitConfig(dirPath); err != nil {
		logging.PrintErrorMessage("Config Init Error", err)
		os.Exit(1)
	}
}
