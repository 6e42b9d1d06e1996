// Package config loads optional checker defaults from a TOML file. Values
// given on the command line always win over file values; the file only
// supplies defaults for what the user did not say.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config holds the defaults a configuration file may supply. The Has* flags
// record which keys were actually present.
type Config struct {
	Verbosity    int
	HasVerbosity bool

	MaximumDepth    uint64
	HasMaximumDepth bool

	SAT    bool
	HasSAT bool

	Color    bool
	HasColor bool
}

// marshaledConfig is the raw TOML shape.
type marshaledConfig struct {
	Verbosity    int    `toml:"verbosity"`
	MaximumDepth uint64 `toml:"maximum-depth"`
	SAT          bool   `toml:"sat"`
	Color        bool   `toml:"color"`
}

// Load reads the configuration file at the given path. When required is
// false a missing file is not an error and yields an empty Config; any other
// problem (or a missing file when required) is reported.
func Load(path string, required bool) (Config, error) {
	var cfg Config

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) && !required {
			return cfg, nil
		}
		return cfg, fmt.Errorf("open config file %q: %w", path, err)
	}

	var mc marshaledConfig
	md, err := toml.DecodeFile(path, &mc)
	if err != nil {
		return cfg, fmt.Errorf("parse config file %q: %w", path, err)
	}
	for _, key := range md.Undecoded() {
		return cfg, fmt.Errorf("config file %q: unknown key %q", path, key.String())
	}

	if md.IsDefined("verbosity") {
		cfg.Verbosity = mc.Verbosity
		cfg.HasVerbosity = true
	}
	if md.IsDefined("maximum-depth") {
		cfg.MaximumDepth = mc.MaximumDepth
		cfg.HasMaximumDepth = true
	}
	if md.IsDefined("sat") {
		cfg.SAT = mc.SAT
		cfg.HasSAT = true
	}
	if md.IsDefined("color") {
		cfg.Color = mc.Color
		cfg.HasColor = true
	}

	return cfg, nil
}
