// Package logging builds the process logger for the figure services.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// New returns a text logger in development and a JSON logger otherwise.
func New(env, level string) *slog.Logger {
	return newTo(os.Stderr, env, level)
}

func newTo(w io.Writer, env, level string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}
	if env == "" || env == "development" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// ParseLevel maps debug/info/warn/error; anything else is info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
