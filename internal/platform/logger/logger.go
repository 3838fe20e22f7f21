package logger

import (
	"log/slog"
	"os"
)

// New returns the root structured logger. Handlers and services take a
// *slog.Logger dependency rather than reaching for the default logger.
func New() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}
