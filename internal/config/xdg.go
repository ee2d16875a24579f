// Package config provides XDG path helpers.
package config

import (
	"os"
	"path/filepath"
)

const appName = "f1dash"

// XDGConfigHome returns the XDG config home or a default fallback.
func XDGConfigHome() string {
	return xdgHome("XDG_CONFIG_HOME", ".config")
}

// XDGDataHome returns the XDG data home or a default fallback.
func XDGDataHome() string {
	return xdgHome("XDG_DATA_HOME", ".local", "share")
}

// XDGCacheHome returns the XDG cache home or a default fallback.
func XDGCacheHome() string {
	return xdgHome("XDG_CACHE_HOME", ".cache")
}

// XDGStateHome returns the XDG state home or a default fallback.
func XDGStateHome() string {
	return xdgHome("XDG_STATE_HOME", ".local", "state")
}

func xdgHome(env string, fallback ...string) string {
	if v := os.Getenv(env); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(append([]string{home}, fallback...)...)
}

// DefaultConfigPath returns the default TOML config path.
func DefaultConfigPath() string {
	return filepath.Join(XDGConfigHome(), appName, "config.toml")
}

// DefaultDataDir returns the directory holding the extracted CSV tables.
func DefaultDataDir() string {
	return filepath.Join(XDGDataHome(), appName, "csv")
}

// DefaultSnapshotPath returns the default path for the SQLite snapshot.
func DefaultSnapshotPath() string {
	return filepath.Join(XDGDataHome(), appName, appName+".db")
}

// DefaultCacheDir returns the cache directory for downloaded archives.
func DefaultCacheDir() string {
	return filepath.Join(XDGCacheHome(), appName)
}

// DefaultLogPath returns the log file path.
func DefaultLogPath() string {
	return filepath.Join(XDGStateHome(), appName, appName+".log")
}
