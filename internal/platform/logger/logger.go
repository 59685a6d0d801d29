package logger

import (
	"log/slog"
	"os"
)

// New returns the process-wide structured logger. Components derive their own
// loggers from it with With(...) attrs.
func New() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
