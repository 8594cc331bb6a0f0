package logger

import (
	"io"
	"log/slog"
	"os"

	"github.com/polkiloo/atmterminal/internal/config"
)

// New creates a preconfigured slog.Logger. Records go to stderr so the
// terminal owns stdout.
func New(cfg *config.Config) *slog.Logger {
	return newWithWriter(os.Stderr, cfg.LogLevel)
}

func newWithWriter(w io.Writer, level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(handler)
}
