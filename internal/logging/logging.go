// Package logging builds the zerolog loggers used by the dashboard. Logs go
// to a file because the terminal belongs to the UI.
package logging

import (
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

const permission = 0o644

// File is a logger writing to an open log file.
type File struct {
	Logger zerolog.Logger
	file   *os.File
}

// New returns a logger writing JSON lines to w. Debug enables debug level.
func New(w io.Writer, debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// Open appends to the log file at path, creating it and its directory.
func Open(path string, debug bool) (*File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, permission)
	if err != nil {
		return nil, err
	}
	return &File{Logger: New(zerolog.SyncWriter(f), debug), file: f}, nil
}

// Close closes the log file.
func (f *File) Close() error {
	if f == nil || f.file == nil {
		return nil
	}
	return f.file.Close()
}

// Nop returns a disabled logger.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}
