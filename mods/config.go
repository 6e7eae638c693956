package mods

import (
	"sysyc/common"
	"sysyc/riscv"
)

// Config is the compiler configuration: either loaded from a `sysyc.toml` file
// or the default configuration if no such file exists.
type Config struct {
	// Path is the path to the file the configuration was loaded from.  It is
	// empty for the default configuration.
	Path string

	// VersionConstraint is the semver constraint the compiler version must
	// satisfy for this configuration
	VersionConstraint string

	// LogLevel is the name of the log level to initialize the logger with
	LogLevel string

	// PrintOutput indicates whether the produced text should also be echoed
	// to standard out
	PrintOutput bool

	// Temporaries and Arguments are the number of registers from the `t` and
	// `a` banks respectively that the register allocator is allowed to use
	Temporaries, Arguments int
}

// DefaultConfig returns the configuration used in absence of a config file.
func DefaultConfig() *Config {
	return &Config{
		VersionConstraint: "^" + common.Version,
		LogLevel:          "verbose",
		Temporaries:       riscv.NumTemporaries,
		Arguments:         riscv.NumArguments,
	}
}

// RegisterOptions converts the register configuration into backend options.
func (c *Config) RegisterOptions() riscv.Options {
	return riscv.Options{
		Temporaries: c.Temporaries,
		Arguments:   c.Arguments,
	}
}

// -----------------------------------------------------------------------------

// tomlConfigFile represents the config file as it is encoded in TOML.  Fields
// are pointers so that missing keys can be told apart from zero values.
type tomlConfigFile struct {
	Compiler *tomlCompiler `toml:"compiler"`
	RiscV    *tomlRiscV    `toml:"riscv"`
}

// tomlCompiler is the `[compiler]` table
type tomlCompiler struct {
	Version     *string `toml:"version"`
	LogLevel    *string `toml:"log-level"`
	PrintOutput *bool   `toml:"print-output"`
}

// tomlRiscV is the `[riscv]` table
type tomlRiscV struct {
	Temporaries *int `toml:"temporaries"`
	Arguments   *int `toml:"arguments"`
}
