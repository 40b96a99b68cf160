// Package logging builds the structured loggers used across particlebox.
// It wraps log/slog with an environment-driven level and a quiet default for
// library code.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// EnvLevel names the environment variable read by LevelFromEnv.
const EnvLevel = "PARTICLEBOX_LOG_LEVEL"

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// New returns a logger writing to w at the given level.
// Unknown formats fall back to text.
func New(w io.Writer, format Format, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if format == FormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// NewFromEnv writes text to stderr at the level named by PARTICLEBOX_LOG_LEVEL.
func NewFromEnv() *slog.Logger {
	return New(os.Stderr, FormatText, LevelFromEnv())
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// LevelFromEnv reads PARTICLEBOX_LOG_LEVEL. Defaults to WARN so interactive
// views are not disturbed.
func LevelFromEnv() slog.Level {
	if l, ok := ParseLevel(os.Getenv(EnvLevel)); ok {
		return l
	}
	return slog.LevelWarn
}

// ParseLevel accepts DEBUG, INFO, WARN/WARNING and ERROR in any case.
func ParseLevel(s string) (slog.Level, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return slog.LevelDebug, true
	case "INFO":
		return slog.LevelInfo, true
	case "WARN", "WARNING":
		return slog.LevelWarn, true
	case "ERROR":
		return slog.LevelError, true
	}
	return slog.LevelInfo, false
}

// WrapError adds context to err, preserving it for errors.Is.
func WrapError(err error, context string, args ...any) error {
	if err == nil {
		return nil
	}
	if len(args) > 0 {
		context = fmt.Sprintf(context, args...)
	}
	return fmt.Errorf("%s: %w", context, err)
}
