// Package logging builds the process-wide structured logger from
// configuration.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"aegis-hq/aegis/pkg/config"
)

// NewLogger builds a slog.Logger according to the logging configuration.
// If w is nil, os.Stderr is used.
func NewLogger(cfg config.LoggingConfig, w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}

	opts := &slog.HandlerOptions{
		Level:     ParseLevel(cfg.Level),
		AddSource: cfg.AddSource,
	}

	var handler slog.Handler
	switch cfg.Format {
	case "text":
		handler = slog.NewTextHandler(w, opts)
	default:
		handler = slog.NewJSONHandler(w, opts)
	}

	return slog.New(handler)
}

// Setup builds the configured logger and installs it as the slog default,
// so component loggers created via slog.Default() inherit it.
func Setup(cfg config.LoggingConfig) *slog.Logger {
	logger := NewLogger(cfg, nil)
	slog.SetDefault(logger)
	return logger
}

// ParseLevel maps a config level string to a slog.Level. Unknown values
// fall back to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
