// Package logger wires slog for the monitor: colored text on stderr for
// interactive use, optionally duplicated to a rotating file.
package logger

import (
	"io"
	"log/slog"
	"os"

	lj "gopkg.in/natefinch/lumberjack.v2"
)

// Rotation defaults, lumberjack semantics.
const (
	DefaultMaxSizeMB  = 10
	DefaultMaxBackups = 3
	DefaultMaxAgeDays = 7
)

// Options configures the process-wide logger.
type Options struct {
	Verbose    bool   // enables debug level
	File       string // rotating log file; empty disables file logging
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// Setup builds the logger and installs it as slog's default.
func Setup(opts Options) *slog.Logger {
	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	handlerOpts := &slog.HandlerOptions{Level: level}

	var handlers []slog.Handler
	handlers = append(handlers, NewColorTextHandler(os.Stderr, handlerOpts))
	if opts.File != "" {
		handlers = append(handlers, slog.NewTextHandler(fileWriter(opts), handlerOpts))
	}

	var h slog.Handler
	if len(handlers) == 1 {
		h = handlers[0]
	} else {
		h = multiHandler(handlers)
	}
	log := slog.New(h)
	slog.SetDefault(log)
	return log
}

func fileWriter(opts Options) io.Writer {
	return &lj.Logger{
		Filename:   opts.File,
		MaxSize:    valOr(opts.MaxSizeMB, DefaultMaxSizeMB),
		MaxBackups: valOr(opts.MaxBackups, DefaultMaxBackups),
		MaxAge:     valOr(opts.MaxAgeDays, DefaultMaxAgeDays),
		Compress:   opts.Compress,
	}
}

func valOr(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
