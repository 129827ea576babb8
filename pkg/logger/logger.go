// Package logger defines the logging interface used across the chatbot and a
// zerolog-backed implementation of it.
package logger

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/rs/zerolog"
)

// Logger is the logging interface used by the library.
type Logger interface {
	Info(msg string, obj any)
	Warn(msg string, obj any)
	Debug(msg string, obj any)
	Error(msg string, obj any)
}

// NopLogger discards all log messages.
type NopLogger struct{}

func (NopLogger) Info(string, any)  {}
func (NopLogger) Warn(string, any)  {}
func (NopLogger) Debug(string, any) {}
func (NopLogger) Error(string, any) {}

// ZeroLogger writes JSON lines through zerolog.
type ZeroLogger struct {
	zl zerolog.Logger
}

// New builds a logger that writes JSON lines to w tagged with role.
// Debug entries are dropped unless verbose is set.
func New(w io.Writer, role string, verbose bool) *ZeroLogger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	zl := zerolog.New(w).Level(level).With().
		Str("role", role).
		Timestamp().
		Logger()
	return &ZeroLogger{zl: zl}
}

// With returns a child logger carrying an extra string field.
func (l *ZeroLogger) With(key, value string) *ZeroLogger {
	return &ZeroLogger{zl: l.zl.With().Str(key, value).Logger()}
}

// WithContext attaches the underlying zerolog logger to ctx.
func (l *ZeroLogger) WithContext(ctx context.Context) context.Context {
	return l.zl.WithContext(ctx)
}

func (l *ZeroLogger) Info(msg string, obj any)  { l.write(l.zl.Info(), msg, obj) }
func (l *ZeroLogger) Warn(msg string, obj any)  { l.write(l.zl.Warn(), msg, obj) }
func (l *ZeroLogger) Debug(msg string, obj any) { l.write(l.zl.Debug(), msg, obj) }
func (l *ZeroLogger) Error(msg string, obj any) { l.write(l.zl.Error(), msg, obj) }

func (l *ZeroLogger) write(ev *zerolog.Event, msg string, obj any) {
	if ev == nil {
		return
	}
	if obj == nil {
		ev.Msg(msg)
		return
	}

	b, err := json.Marshal(obj)
	if err != nil {
		ev.Str("obj", fmt.Sprintf("%+v", obj)).Msg(msg)
		return
	}
	ev.RawJSON("obj", b).Msg(msg)
}

// FromContext returns a Logger for the zerolog logger stored in ctx, or a
// disabled one when ctx carries none.
func FromContext(ctx context.Context) Logger {
	zl := zerolog.Ctx(ctx)
	if zl == nil || zl.GetLevel() == zerolog.Disabled {
		return NopLogger{}
	}
	return &ZeroLogger{zl: *zl}
}

// Debug writes a debug log when enabled and logger is non-nil.
func Debug(enabled bool, logger Logger, msg string, obj any) {
	if !enabled || logger == nil {
		return
	}
	logger.Debug(msg, obj)
}

// Debugf is a compatibility helper for format-style debug logging.
func Debugf(enabled bool, logger Logger, format string, args ...any) {
	Debug(enabled, logger, fmt.Sprintf(format, args...), nil)
}

// Info writes an info log when logger is non-nil.
func Info(logger Logger, msg string, obj any) {
	if logger == nil {
		return
	}
	logger.Info(msg, obj)
}

// Warn writes a warning log when logger is non-nil.
func Warn(logger Logger, msg string, obj any) {
	if logger == nil {
		return
	}
	logger.Warn(msg, obj)
}

// Error writes an error log when logger is non-nil.
func Error(logger Logger, msg string, obj any) {
	if logger == nil {
		return
	}
	logger.Error(msg, obj)
}
