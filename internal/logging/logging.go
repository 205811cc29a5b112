// Package logging builds the slog loggers used by the storefront binaries.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

type ctxKey struct{}

type Options struct {
	Component string
	Level     string
	// File enables a rotating log file next to stdout when set.
	File string
	// Output replaces stdout, mostly for tests.
	Output io.Writer
}

// New returns a JSON logger tagged with the component name.
func New(opts Options) *slog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	if opts.File != "" {
		_ = os.MkdirAll(filepath.Dir(opts.File), 0o755)
		rot := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    50, // MB
			MaxBackups: 3,
			MaxAge:     7, // days
		}
		out = io.MultiWriter(out, rot)
	}

	h := slog.NewJSONHandler(out, &slog.HandlerOptions{Level: ParseLevel(opts.Level)})
	l := slog.New(h)
	if opts.Component != "" {
		l = l.With("component", opts.Component)
	}
	return l
}

// ParseLevel maps debug/info/warn/error to a slog level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Discard is a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func WithCtx(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromCtx fetches the request-scoped logger or falls back to slog.Default.
func FromCtx(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && l != nil {
		return l
	}
	return slog.Default()
}
