package logger

import (
	"log/slog"
	"os"
)

// New returns a structured JSON logger writing to stdout. Handlers and
// middleware take *slog.Logger so tests can swap in a discard handler.
func New() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}
