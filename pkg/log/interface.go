// Package log provides the structured logging interface used across dshelpers.
//
// The Logger interface mirrors log/slog so that the backing implementation
// can be swapped. The default backend is zerolog (see NewZerologLogger);
// tests use TestLogger to capture records in memory.
//
// Example usage:
//
//	logger := log.GetLogger().With(log.ComponentKey, "frequency")
//	logger.Info("Generated frequency table for column",
//	    log.ColumnKey, "species",
//	    log.RowsKey, 3,
//	)
package log

import (
	"context"
)

// Logger defines a structured logging interface compatible with Go's log/slog.
// Fields are alternating key/value pairs.
type Logger interface {
	Debug(msg string, fields ...any)
	Info(msg string, fields ...any)
	Warn(msg string, fields ...any)
	// Error logs an error-level message. If the first field is an error
	// value it is recorded under the "error" key.
	Error(msg string, fields ...any)
	// With returns a Logger that adds fields to every record.
	With(fields ...any) Logger
	// Enabled reports whether records at level are emitted.
	Enabled(ctx context.Context, level Level) bool
}

// Level represents a logging level, compatible with slog.Level.
type Level int

// Standard logging levels, values are compatible with slog.Level.
const (
	LevelDebug Level = -4
	LevelInfo  Level = 0
	LevelWarn  Level = 4
	LevelError Level = 8
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}
