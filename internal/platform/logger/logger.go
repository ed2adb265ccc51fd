package logger

import (
	"log/slog"
	"os"
)

// New returns the process logger. Text on stdout; services receive it by
// injection, never through a package-level global.
func New() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}
