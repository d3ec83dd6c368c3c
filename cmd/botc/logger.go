package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"
)

// newHandler builds a slog handler for the requested level and format. It
// does not touch the global logger; every command invocation gets its own
// instance.
func newHandler(levelStr, formatStr string, w io.Writer) slog.Handler {
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if formatStr == "json" {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// buildLogger assembles the CLI logger. With --trace-file set, records fan
// out to both the terminal handler and a JSON file handler; the file handler
// keeps debug events regardless of the terminal level.
func (o *rootOptions) buildLogger(stderr io.Writer) (*slog.Logger, func() error, error) {
	terminal := newHandler(o.logLevel, o.logFormat, stderr)
	if o.traceFile == "" {
		return slog.New(terminal), func() error { return nil }, nil
	}

	file, err := os.OpenFile(o.traceFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open trace file: %w", err)
	}
	fileHandler := slog.NewJSONHandler(file, &slog.HandlerOptions{Level: slog.LevelDebug})
	return slog.New(slogmulti.Fanout(terminal, fileHandler)), file.Close, nil
}
