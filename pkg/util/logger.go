// Package util carries the small shared infrastructure: slog construction,
// pool sizing and the mmap-backed file cache.
package util

import (
	"io"
	"log/slog"
	"os"
)

// LogLevel names a slog level in configuration.
type LogLevel string

const (
	LevelDebug LogLevel = "debug"
	LevelInfo  LogLevel = "info"
	LevelWarn  LogLevel = "warn"
	LevelError LogLevel = "error"
)

// LogFormat selects the handler encoding.
type LogFormat string

const (
	FormatJSON LogFormat = "json"
	FormatText LogFormat = "text"
)

// LoggerConfig configures NewLogger. Unset fields fall back to info-level
// JSON on stdout.
type LoggerConfig struct {
	Level  LogLevel
	Format LogFormat
	Output io.Writer
}

// NewLogger builds a structured logger from the config.
func NewLogger(cfg LoggerConfig) *slog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	opts := &slog.HandlerOptions{Level: slogLevel(cfg.Level)}

	if cfg.Format == FormatText {
		return slog.New(slog.NewTextHandler(out, opts))
	}
	return slog.New(slog.NewJSONHandler(out, opts))
}

func slogLevel(level LogLevel) slog.Level {
	switch level {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
