// Package logger builds the zerolog logger used across the server.
package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

const permission = 0664

// Build configures where log output goes before Make constructs the logger.
type Build struct {
	writer io.Writer
	path   string
	level  zerolog.Level
}

func New() *Build {
	return &Build{level: zerolog.InfoLevel}
}

// FromPath appends log output to the file at path.
func (build *Build) FromPath(path string) *Build {
	build.path = path
	return build
}

// FromBuffer writes log output to w.
func (build *Build) FromBuffer(w io.Writer) *Build {
	build.writer = w
	return build
}

// Level sets the minimum level, parsed with zerolog.ParseLevel.
func (build *Build) Level(level string) *Build {
	if lvl, err := zerolog.ParseLevel(level); err == nil {
		build.level = lvl
	}
	return build
}

// Make constructs the logger. With no target configured it writes to stderr.
func (build *Build) Make() (zerolog.Logger, error) {
	var w io.Writer = os.Stderr
	if build.writer != nil {
		w = build.writer
	}
	if build.path != "" {
		f, err := os.OpenFile(build.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, permission)
		if err != nil {
			return zerolog.Nop(), err
		}
		w = zerolog.SyncWriter(f)
	}
	return zerolog.New(w).With().Timestamp().Logger().Level(build.level), nil
}
