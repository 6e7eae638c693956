package mods

import (
	"errors"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"

	"sysyc/common"
	"sysyc/logging"
	"sysyc/riscv"

	"github.com/Masterminds/semver/v3"
	"github.com/pelletier/go-toml"
)

// FindConfig locates and loads the config file for the current invocation.
// The path is taken from the `SYSYC_CONFIG` environment variable if it is set
// and otherwise defaults to `sysyc.toml` in the working directory.  If no
// config file exists at the default location, the default config is returned.
func FindConfig() (*Config, error) {
	if path, ok := os.LookupEnv(common.ConfigEnvVar); ok {
		return LoadConfig(path)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	conf, err := LoadConfig(filepath.Join(workDir, common.ConfigFileName))
	if errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}

	return conf, err
}

// LoadConfig loads and validates the config file at `path`.
func LoadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buff, err := ioutil.ReadAll(f)
	if err != nil {
		return nil, err
	}

	tcf := &tomlConfigFile{}
	if err := toml.Unmarshal(buff, tcf); err != nil {
		return nil, fmt.Errorf("error decoding TOML: %s", err.Error())
	}

	conf := DefaultConfig()
	conf.Path = path

	if err := convertCompiler(conf, tcf.Compiler); err != nil {
		return nil, fmt.Errorf("%s in config %s", err.Error(), path)
	}

	if err := convertRiscV(conf, tcf.RiscV); err != nil {
		return nil, fmt.Errorf("%s in config %s", err.Error(), path)
	}

	return conf, nil
}

// logLevelNames is the set of valid log level names
var logLevelNames = map[string]struct{}{
	"silent":  {},
	"error":   {},
	"warn":    {},
	"verbose": {},
}

// convertCompiler validates the `[compiler]` table and moves it onto `conf`
func convertCompiler(conf *Config, tc *tomlCompiler) error {
	if tc == nil {
		return nil
	}

	if tc.Version != nil {
		if err := checkVersion(*tc.Version); err != nil {
			return err
		}

		conf.VersionConstraint = *tc.Version
	}

	if tc.LogLevel != nil {
		if _, ok := logLevelNames[*tc.LogLevel]; !ok {
			return fmt.Errorf("`%s` is not a valid log level", *tc.LogLevel)
		}

		conf.LogLevel = *tc.LogLevel
	}

	if tc.PrintOutput != nil {
		conf.PrintOutput = *tc.PrintOutput
	}

	return nil
}

// checkVersion checks the compiler version against a version constraint.  A
// constraint that the compiler does not satisfy only produces a warning.
func checkVersion(constraint string) error {
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return fmt.Errorf("invalid version constraint `%s`: %s", constraint, err.Error())
	}

	if !c.Check(semver.MustParse(common.Version)) {
		logging.LogConfigWarning(
			"config",
			fmt.Sprintf("compiler version (v%s) does not satisfy config version constraint `%s`", common.Version, constraint),
		)
	}

	return nil
}

// convertRiscV validates the `[riscv]` table and moves it onto `conf`
func convertRiscV(conf *Config, tr *tomlRiscV) error {
	if tr == nil {
		return nil
	}

	if tr.Temporaries != nil {
		if *tr.Temporaries < 0 || *tr.Temporaries > riscv.NumTemporaries {
			return fmt.Errorf("temporaries must be between 0 and %d", riscv.NumTemporaries)
		}

		conf.Temporaries = *tr.Temporaries
	}

	if tr.Arguments != nil {
		if *tr.Arguments < 0 || *tr.Arguments > riscv.NumArguments {
			return fmt.Errorf("arguments must be between 0 and %d", riscv.NumArguments)
		}

		conf.Arguments = *tr.Arguments
	}

	if conf.Temporaries+conf.Arguments == 0 {
		return errors.New("at least one register must be available to the allocator")
	}

	return nil
}
