// Package logger holds the process-wide structured logger.
//
// arbor logs to stderr through charmbracelet/log. The default logger is
// swapped atomically so tests and the CLI can replace it at any time.
package logger

import (
	"io"
	"os"
	"strings"
	"sync/atomic"

	charm "github.com/charmbracelet/log"
)

var defaultLogger atomic.Pointer[charm.Logger]

func init() {
	defaultLogger.Store(New(os.Stderr, charm.WarnLevel))
}

// New creates a logger writing to w at the given level.
func New(w io.Writer, level charm.Level) *charm.Logger {
	return charm.NewWithOptions(w, charm.Options{
		Level:           level,
		Prefix:          "arbor",
		ReportTimestamp: level == charm.DebugLevel,
	})
}

// Default returns the process-wide logger.
func Default() *charm.Logger {
	return defaultLogger.Load()
}

// SetDefault replaces the process-wide logger. Nil is ignored.
func SetDefault(l *charm.Logger) {
	if l != nil {
		defaultLogger.Store(l)
	}
}

// Discard returns a logger that drops everything.
func Discard() *charm.Logger {
	return charm.NewWithOptions(io.Discard, charm.Options{Level: charm.FatalLevel})
}

// ParseLevel parses a level name (case-insensitive). Unknown names map to warn.
func ParseLevel(s string) charm.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return charm.DebugLevel
	case "info":
		return charm.InfoLevel
	case "warn", "warning", "":
		return charm.WarnLevel
	case "error":
		return charm.ErrorLevel
	default:
		return charm.WarnLevel
	}
}
