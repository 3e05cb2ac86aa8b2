// Package logger configures the process-wide structured logger.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// ParseLevel maps a case-insensitive level name to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// New builds a text or JSON logger writing to w. An unknown level falls
// back to info with a warning on the new logger.
func New(w io.Writer, level, format string) *slog.Logger {
	lvl, err := ParseLevel(level)

	opts := &slog.HandlerOptions{Level: lvl}
	var handler slog.Handler
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	l := slog.New(handler)
	if err != nil {
		l.Warn("invalid log level configured, using default level",
			"configured_level", level,
			"default_level", "info")
	}
	return l
}

// Setup installs a stderr logger as the slog default and returns it.
func Setup(level, format string) *slog.Logger {
	l := New(os.Stderr, level, format)
	slog.SetDefault(l)
	return l
}

// Discard is a logger that drops everything, for tests.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
