// Package config loads the optional molpack configuration file.
//
// The file lives at $XDG_CONFIG_HOME/molpack/config.toml (falling back to
// ~/.config/molpack/config.toml) and supplies session defaults that flags
// override. A missing file is not an error.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const appName = "molpack"

// Config holds file-based defaults for the CLI.
type Config struct {
	Packmol    Packmol    `toml:"packmol"`
	ForceField ForceField `toml:"forcefield"`
	Autosize   Autosize   `toml:"autosize"`
}

// Packmol configures how the packmol subprocess is invoked.
type Packmol struct {
	// Executable is the packmol command line, whitespace-split into argv.
	Executable string `toml:"executable"`

	// Tolerance is the minimum inter-molecule distance.
	Tolerance float64 `toml:"tolerance"`

	// Output is the packed-geometry output path.
	Output string `toml:"output"`

	// NLoop caps packmol's optimization loops per molecule. Zero leaves
	// packmol's own default in place.
	NLoop int `toml:"nloop"`
}

// ForceField selects the force field for 3-D embedding and energy
// evaluation.
type ForceField struct {
	Name string `toml:"name"`
}

// Autosize configures the region-size search bounds.
type Autosize struct {
	MaxSize float64 `toml:"max_size"`
	Step    float64 `toml:"step"`
}

// Path returns the configuration file path following the XDG convention.
func Path() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// Load reads the configuration file. A missing file yields the zero
// Config; a present but malformed file is an error.
func Load() (Config, error) {
	path, err := Path()
	if err != nil {
		return Config{}, err
	}
	return LoadFile(path)
}

// LoadFile reads a specific configuration file, tolerating its absence.
func LoadFile(path string) (Config, error) {
	var cfg Config
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
