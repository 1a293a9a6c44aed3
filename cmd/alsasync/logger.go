package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// configureLogger builds the logger for the given level and format.
//
// Valid log levels are "none", "error", "warn", "info" and "debug". Logs go to stderr, so
// command output on stdout stays machine readable, unless logFile names a file. The returned
// file, if any, must be closed by the caller.
func configureLogger(level, format, logFile string) (*slog.Logger, *os.File, error) {
	var opts slog.HandlerOptions

	switch level {
	case "none":
		return slog.New(slog.NewTextHandler(io.Discard, nil)), nil, nil
	case "error":
		opts.Level = slog.LevelError
	case "warn":
		opts.Level = slog.LevelWarn
	case "info":
		opts.Level = slog.LevelInfo
	case "debug":
		opts.Level = slog.LevelDebug
	default:
		return nil, nil, fmt.Errorf("unexpected log level %q", level)
	}

	var out io.Writer = os.Stderr
	var file *os.File

	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, err
		}
		out, file = f, f
	}

	switch format {
	case "text":
		return slog.New(slog.NewTextHandler(out, &opts)), file, nil
	case "json":
		return slog.New(slog.NewJSONHandler(out, &opts)), file, nil
	default:
		if file != nil {
			_ = file.Close()
		}

		return nil, nil, fmt.Errorf("unexpected log format %q", format)
	}
}
