package logger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger is a scoped slog wrapper. Copies are cheap; Function and File
// return a new Logger carrying the extra scope.
type Logger struct {
	component string
	file      string
	function  string
	handler   slog.Handler
}

func New(component string) Logger {
	return Logger{component: component}
}

// Setup installs the process-wide default handler.
func Setup(level, format string) {
	slog.SetDefault(slog.New(NewHandler(os.Stdout, level, format)))
}

func NewHandler(w io.Writer, level, format string) slog.Handler {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}
	if strings.EqualFold(format, "json") {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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

// WithHandler pins the logger to a handler instead of slog.Default. Used by tests.
func (l Logger) WithHandler(h slog.Handler) Logger {
	l.handler = h
	return l
}

func (l Logger) Function(name string) Logger {
	l.function = name
	return l
}

func (l Logger) File(name string) Logger {
	l.file = name
	return l
}

func (l Logger) Debug(msg string, args ...any) {
	l.log(slog.LevelDebug, msg, args...)
}

func (l Logger) Info(msg string, args ...any) {
	l.log(slog.LevelInfo, msg, args...)
}

func (l Logger) Warn(msg string, args ...any) {
	l.log(slog.LevelWarn, msg, args...)
}

// Er logs err at error level.
func (l Logger) Er(msg string, err error, args ...any) {
	l.log(slog.LevelError, msg, append(args, "error", err)...)
}

// Err logs err and returns it wrapped with msg.
func (l Logger) Err(msg string, err error, args ...any) error {
	l.Er(msg, err, args...)
	return fmt.Errorf("%s: %w", msg, err)
}

// Error logs msg and returns it as a new error.
func (l Logger) Error(msg string, args ...any) error {
	l.log(slog.LevelError, msg, args...)
	return errors.New(msg)
}

func (l Logger) ErMsg(msg string) {
	l.log(slog.LevelError, msg)
}

func (l Logger) ErrMsg(msg string) error {
	l.ErMsg(msg)
	return errors.New(msg)
}

func (l Logger) log(level slog.Level, msg string, args ...any) {
	var base *slog.Logger
	if l.handler != nil {
		base = slog.New(l.handler)
	} else {
		base = slog.Default()
	}

	ctx := context.Background()
	if !base.Enabled(ctx, level) {
		return
	}

	attrs := make([]any, 0, len(args)+6)
	if l.component != "" {
		attrs = append(attrs, "component", l.component)
	}
	if l.file != "" {
		attrs = append(attrs, "file", l.file)
	}
	if l.function != "" {
		attrs = append(attrs, "function", l.function)
	}
	attrs = append(attrs, args...)

	base.Log(ctx, level, msg, attrs...)
}
