package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// NewLogger builds the process logger described by the logging section.
// Output goes to fallback unless a file is configured; the returned closer
// releases that file.
func (c *Config) NewLogger(fallback io.Writer) (*slog.Logger, io.Closer, error) {
	level, err := ParseLevel(c.Logging.Level)
	if err != nil {
		return nil, nil, err
	}

	var out io.Writer = fallback
	var closer io.Closer = nopCloser{}
	if c.Logging.File != "" {
		dir := filepath.Dir(c.Logging.File)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
		}
		f, err := os.OpenFile(c.Logging.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		out, closer = f, f
	}

	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	if c.Logging.Format == "json" {
		h = slog.NewJSONHandler(out, opts)
	} else {
		h = slog.NewTextHandler(out, opts)
	}
	return slog.New(h), closer, nil
}
