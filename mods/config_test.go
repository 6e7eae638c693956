package mods

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"sysyc/common"
	"sysyc/riscv"
)

func writeConfig(t *testing.T, src string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), common.ConfigFileName)
	if err := os.WriteFile(path, []byte(src), 0644); err != nil {
		t.Fatal(err)
	}

	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
[compiler]
version = "^0.1"
log-level = "error"
print-output = true

[riscv]
temporaries = 3
arguments = 2
`)

	conf, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}

	want := Config{
		Path:              path,
		VersionConstraint: "^0.1",
		LogLevel:          "error",
		PrintOutput:       true,
		Temporaries:       3,
		Arguments:         2,
	}
	if *conf != want {
		t.Errorf("got %+v, want %+v", *conf, want)
	}

	opts := conf.RegisterOptions()
	if opts.Temporaries != 3 || opts.Arguments != 2 {
		t.Errorf("register options = %+v", opts)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfig(t, "[riscv]\narguments = 0\n")

	conf, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}

	def := DefaultConfig()
	if conf.Temporaries != riscv.NumTemporaries || conf.Arguments != 0 {
		t.Errorf("registers = %d, %d", conf.Temporaries, conf.Arguments)
	}

	if conf.LogLevel != def.LogLevel || conf.VersionConstraint != def.VersionConstraint || conf.PrintOutput {
		t.Errorf("compiler defaults not kept: %+v", *conf)
	}
}

func TestLoadConfigVersionMismatch(t *testing.T) {
	// an unsatisfied constraint is only a warning
	path := writeConfig(t, "[compiler]\nversion = \">= 9.0\"\n")

	conf, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}

	if conf.VersionConstraint != ">= 9.0" {
		t.Errorf("constraint = %q", conf.VersionConstraint)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	cases := []struct {
		name, src, msg string
	}{
		{"bad toml", "[compiler\n", "error decoding TOML"},
		{"bad constraint", "[compiler]\nversion = \"not a version\"\n", "invalid version constraint"},
		{"bad log level", "[compiler]\nlog-level = \"loud\"\n", "not a valid log level"},
		{"too many temporaries", "[riscv]\ntemporaries = 8\n", "temporaries must be between 0 and 7"},
		{"negative arguments", "[riscv]\narguments = -1\n", "arguments must be between 0 and 8"},
		{"no registers", "[riscv]\ntemporaries = 0\narguments = 0\n", "at least one register"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, c.src))
			if err == nil {
				t.Fatal("expected an error")
			}

			if !strings.Contains(err.Error(), c.msg) {
				t.Errorf("error %q does not mention %q", err, c.msg)
			}
		})
	}
}

func TestLoadConfigMissing(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), common.ConfigFileName))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected a not-exist error, got %v", err)
	}
}

func TestInitConfig(t *testing.T) {
	dir := t.TempDir()
	if err := InitConfig(dir); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(dir, common.ConfigFileName)
	conf, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}

	want := *DefaultConfig()
	want.Path = path
	if *conf != want {
		t.Errorf("got %+v, want %+v", *conf, want)
	}

	if err := InitConfig(dir); err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Errorf("second init: %v", err)
	}
}

func TestFindConfigFromEnv(t *testing.T) {
	path := writeConfig(t, "[compiler]\nlog-level = \"silent\"\n")
	t.Setenv(common.ConfigEnvVar, path)

	conf, err := FindConfig()
	if err != nil {
		t.Fatal(err)
	}

	if conf.Path != path || conf.LogLevel != "silent" {
		t.Errorf("got %+v", *conf)
	}
}
