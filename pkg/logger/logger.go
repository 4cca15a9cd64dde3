// Package logger builds the application logger.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/go-chi/httplog/v2"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Options struct {
	JSON       bool
	Level      string
	File       string // File enables size-based rotation of the log file. Empty means stdout.
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New returns a logger writing to stdout or to a rotated file. The returned
// closer releases the file and must be called after the last log call.
func New(name string, opts Options) (*httplog.Logger, io.Closer, error) {
	const op = "logger.New"

	level := slog.LevelInfo
	if opts.Level != "" {
		if err := level.UnmarshalText([]byte(opts.Level)); err != nil {
			return nil, nil, fmt.Errorf("%s: invalid log level: %w", op, err)
		}
	}

	var (
		w      io.Writer = os.Stdout
		closer io.Closer = nopCloser{}
	)

	if opts.File != "" {
		lj := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
			Compress:   true,
		}
		w, closer = lj, lj
	}

	logger := httplog.NewLogger(name, httplog.Options{
		JSON:            opts.JSON,
		LogLevel:        level,
		Concise:         !opts.JSON,
		RequestHeaders:  opts.JSON,
		QuietDownRoutes: []string{"/ping", "/metrics"},
		Writer:          w,
	})

	return logger, closer, nil
}

// Discard returns a logger that drops every record.
func Discard() *httplog.Logger {
	return httplog.NewLogger("", httplog.Options{Writer: io.Discard})
}
