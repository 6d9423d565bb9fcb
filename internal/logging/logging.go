// Package logging builds the slog loggers used by the eventpage CLI.
//
// Text output goes through Handler, which colors levels and keys when the
// destination is a terminal. JSON output uses the standard slog handler.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"
)

// Format specifies the output format for log messages.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Config holds the configuration for creating a new logger.
type Config struct {
	Level  slog.Level
	Format Format
	Output io.Writer // Defaults to os.Stderr
}

// New creates a logger with the given configuration.
// Unrecognized formats fall back to FormatText.
func New(cfg Config) *slog.Logger {
	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: cfg.Level}

	var handler slog.Handler
	switch cfg.Format {
	case FormatJSON:
		handler = slog.NewJSONHandler(output, opts)
	default:
		handler = NewHandler(output, opts)
	}
	return slog.New(handler)
}

// ParseLevel maps a level name to a slog.Level. Names are case-insensitive.
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(name))); err != nil {
		return 0, fmt.Errorf("invalid log level %q (must be debug, info, warn or error)", name)
	}
	return level, nil
}

// NewDiscard creates a logger that drops every record.
func NewDiscard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// testWriter forwards log lines to t.Log.
type testWriter struct {
	t testing.TB
}

func (w *testWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(strings.TrimSuffix(string(p), "\n"))
	return len(p), nil
}

// ForTest creates a debug-level logger that writes to the test log.
func ForTest(t testing.TB) *slog.Logger {
	t.Helper()
	return New(Config{
		Level:  slog.LevelDebug,
		Format: FormatText,
		Output: &testWriter{t: t},
	})
}
