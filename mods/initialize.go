package mods

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"sysyc/common"

	"github.com/pelletier/go-toml"
)

// InitConfig creates a new config file holding the default configuration in
// the directory at `path`
func InitConfig(path string) error {
	confFilePath := filepath.Join(path, common.ConfigFileName)

	// check to see if a config file already exists
	_, err := os.Stat(confFilePath)
	if err == nil {
		return errors.New("config file already exists")
	}

	if !os.IsNotExist(err) {
		return fmt.Errorf("config file error: %s", err.Error())
	}

	def := DefaultConfig()
	printOutput := def.PrintOutput
	tcf := &tomlConfigFile{
		Compiler: &tomlCompiler{
			Version:     &def.VersionConstraint,
			LogLevel:    &def.LogLevel,
			PrintOutput: &printOutput,
		},
		RiscV: &tomlRiscV{
			Temporaries: &def.Temporaries,
			Arguments:   &def.Arguments,
		},
	}

	// encode and save config to file
	f, err := os.Create(confFilePath)
	if err != nil {
		return fmt.Errorf("error creating config file: %s", err.Error())
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(tcf); err != nil {
		return fmt.Errorf("error encoding TOML %s", err.Error())
	}

	return nil
}
