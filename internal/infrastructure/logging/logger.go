// Package logging provides structured logging for the reconciler.
//
// Terminal output uses a compact bracketed format:
// [LEVEL] [system] [HH:MM:SS] message key=value
// Non-terminal or JSON-configured output falls back to slog's standard
// handlers.
package logging

import (
	"log/slog"
	"os"

	"github.com/eburton/receiptmatch/internal/infrastructure/config"
)

// NewLogger creates a structured logger based on config.
func NewLogger(cfg config.LoggingConfig) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch cfg.Format {
	case "json":
		handler = slog.NewJSONHandler(os.Stdout, opts)
	case "text":
		handler = slog.NewTextHandler(os.Stdout, opts)
	default:
		handler = NewBracketHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}

// NewLoggerWithSystem creates a logger scoped with a system prefix
// (e.g. "match", "api", "report") shown in its own bracket.
func NewLoggerWithSystem(cfg config.LoggingConfig, system string) *slog.Logger {
	return NewLogger(cfg).With("system", system)
}
