// Package logging provides structured logging infrastructure for skilzy.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// NewDefault creates a default logger writing to stderr at info level.
func NewDefault() *slog.Logger {
	return NewWithLevel(slog.LevelInfo)
}

// NewWithLevel creates a logger with the specified level.
func NewWithLevel(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewForTest creates a silent logger for tests.
func NewForTest() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

// WithSkill returns a logger with skill context.
func WithSkill(logger *slog.Logger, skill string) *slog.Logger {
	return logger.With("skill", skill)
}
