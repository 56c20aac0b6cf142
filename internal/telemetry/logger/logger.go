// Package logger is the client's structured logger.
//
// Records go through log/slog. The level is process-wide so the shell can
// raise or lower it when the config file changes, and every attribute passes
// the credential redaction hook before it is written.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
)

// Logger is the logging surface used across the client.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	With(args ...any) Logger
}

// Config selects the handler. The zero value logs warnings and errors as
// text on stderr.
type Config struct {
	Level  string // debug, info, warn, error
	Format string // text, json
	Output io.Writer
	Source bool
}

var (
	level = new(slog.LevelVar)
	std   atomic.Pointer[slogLogger]
)

func init() {
	level.Set(slog.LevelWarn)
	std.Store(&slogLogger{l: slog.New(newHandler(Config{}))})
}

type slogLogger struct {
	l *slog.Logger
}

// New builds a logger from cfg and moves the process-wide level to
// cfg.Level.
func New(cfg Config) (Logger, error) {
	lvl, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	level.Set(lvl)
	return &slogLogger{l: slog.New(newHandler(cfg))}, nil
}

func newHandler(cfg Config) slog.Handler {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: cfg.Source,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			return redactSensitive(a)
		},
	}
	if strings.EqualFold(cfg.Format, "json") {
		return slog.NewJSONHandler(out, opts)
	}
	return slog.NewTextHandler(out, opts)
}

// ParseLevel accepts debug, info, warn (or warning) and error in any case.
// An empty string means warn.
func ParseLevel(s string) (slog.Level, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return slog.LevelWarn, nil
	case strings.EqualFold(s, "warning"):
		return slog.LevelWarn, nil
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("unknown log level %q", s)
	}
	return lvl, nil
}

// SetLevel changes the level of every logger. Unknown names are ignored.
func SetLevel(s string) {
	if lvl, err := ParseLevel(s); err == nil {
		level.Set(lvl)
	}
}

// GetLevel reports the current level name in lower case.
func GetLevel() string {
	return strings.ToLower(level.Level().String())
}

func (s *slogLogger) Debug(msg string, args ...any) { s.l.Debug(msg, args...) }
func (s *slogLogger) Info(msg string, args ...any) { s.l.Info(msg, args...) }
func (s *slogLogger) Warn(msg string, args ...any) { s.l.Warn(msg, args...) }
func (s *slogLogger) Error(msg string, args ...any) { s.l.Error(msg, args...) }

func (s *slogLogger) With(args ...any) Logger {
	return &slogLogger{l: s.l.With(args...)}
}

// SetDefault replaces the logger returned by Default. Loggers not built by
// New are ignored.
func SetDefault(l Logger) {
	if sl, ok := l.(*slogLogger); ok {
		std.Store(sl)
	}
}

// Default returns the process logger.
func Default() Logger {
	return std.Load()
}
