package output

import (
	"io"
	"log/slog"
	"os"
)

// Logger carries lifecycle messages (dataset saved, results written).
// Per-request lines go through progress instead.
var Logger *slog.Logger

func init() {
	Logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
}

// SetLogger allows overriding the default logger (e.g. for testing or config changes)
func SetLogger(l *slog.Logger) {
	Logger = l
}

// NewLogger returns a text logger on w, at debug level when verbose.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
