package logger

import (
	"log/slog"
	"os"
)

// New returns the process-wide structured logger. Constructed once in main
// and passed down explicitly; nothing in this codebase logs through package
// state.
func New() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}
