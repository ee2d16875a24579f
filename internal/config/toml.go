// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Dashboard DashboardConfig `toml:"dashboard"`
	Data      DataConfig      `toml:"data"`
}

// DashboardConfig maps the startup selection and season range.
type DashboardConfig struct {
	Year      *int    `toml:"year"`
	Circuit   *string `toml:"circuit"`
	Driver    *string `toml:"driver"`
	MinSeason *int    `toml:"min-season"`
	MaxSeason *int    `toml:"max-season"`
	Debug     *bool   `toml:"debug"`
}

// DataConfig maps dataset locations.
type DataConfig struct {
	Dir      *string `toml:"dir"`
	Snapshot *string `toml:"snapshot"`
	URL      *string `toml:"url"`
	LogFile  *string `toml:"log-file"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
