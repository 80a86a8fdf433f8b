// Package logger configures the process-wide slog logger. The TUI owns
// stdout, so diagnostics go to a file; with no file configured they are
// discarded rather than corrupting the screen.
package logger

import (
	"io"
	"log/slog"
	"os"
)

// Setup points slog's default logger at the given file, creating it if
// needed. An empty path discards all output. The returned closer flushes
// the file at shutdown; it is a no-op for the discard case.
func Setup(path string) (func() error, error) {
	if path == "" {
		slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
		return func() error { return nil }, nil
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	handler := slog.NewTextHandler(file, &slog.HandlerOptions{Level: slog.LevelDebug})
	slog.SetDefault(slog.New(handler))
	return file.Close, nil
}
