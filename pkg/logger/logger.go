// Package logger owns the process-wide slog setup. Init wires the handler
// from the logging config; handlers and middleware reach the logger through
// Default or through the request context (see context.go).
package logger

import (
	"log/slog"
	"os"
)

var defaultLogger *slog.Logger

// Init builds the process logger. format selects the handler ("json" for
// machine-readable output, anything else is human-readable text) and level is
// the minimum level by name, defaulting to info when unrecognized.
func Init(format, level string) {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	defaultLogger = slog.New(handler)
	slog.SetDefault(defaultLogger)
}

// Default returns the process logger, initializing a debug text logger on
// first use if Init has not run. Tests and constructors that take a nil
// logger hit this path.
func Default() *slog.Logger {
	if defaultLogger == nil {
		Init("text", "debug")
	}
	return defaultLogger
}

func parseLevel(level string) slog.Level {
	switch level {
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
