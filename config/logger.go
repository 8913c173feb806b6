package config

import (
	"io"
	"log/slog"
	"time"

	"github.com/lmittmann/tint"
)

// SetupLogger builds the process logger: tint for "text", slog JSON for
// "json". The logger is also installed as the slog default.
func SetupLogger(cfg LoggingConfig, w io.Writer) *slog.Logger {
	level := parseLevel(cfg.Level)
	var handler slog.Handler
	switch cfg.Format {
	case "json":
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	default:
		handler = tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.TimeOnly,
		})
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)

	return logger
}

// WithComponent returns the default logger tagged with a component name.
func WithComponent(component string) *slog.Logger {
	return slog.Default().With("component", component)
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
