// Package logging provides a leveled structured logger backed by log/slog.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// Level represents log severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// slogLevel maps a Level onto the slog scale. Anything above LevelError
// silences the logger.
func (l Level) slogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelError + 4
	}
}

// ParseLevel parses a log level string.
func ParseLevel(s string) Level {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Format selects the slog handler.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseFormat parses a format string, defaulting to text.
func ParseFormat(s string) Format {
	if strings.EqualFold(s, "json") {
		return FormatJSON
	}
	return FormatText
}

// Logger is a leveled logger. Messages take alternating key/value pairs the
// way slog does. Child loggers from With share the parent's level.
type Logger struct {
	mu     sync.RWMutex
	level  *slog.LevelVar
	format Format
	attrs  []any
	sl     *slog.Logger
}

// New creates a text logger writing to stderr.
func New(level Level) *Logger {
	return NewWithFormat(level, FormatText, os.Stderr)
}

// NewWithFormat creates a logger with an explicit handler format and output.
func NewWithFormat(level Level, format Format, w io.Writer) *Logger {
	lv := new(slog.LevelVar)
	lv.Set(level.slogLevel())
	l := &Logger{level: lv, format: format}
	l.sl = slog.New(newHandler(w, format, lv))
	return l
}

func newHandler(w io.Writer, format Format, lv *slog.LevelVar) slog.Handler {
	opts := &slog.HandlerOptions{Level: lv}
	if format == FormatJSON {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// SetOutput sets the log output destination.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sl = slog.New(newHandler(w, l.format, l.level)).With(l.attrs...)
}

// SetLevel sets the minimum log level.
func (l *Logger) SetLevel(level Level) {
	l.level.Set(level.slogLevel())
}

// Enabled reports whether messages at level would be written.
func (l *Logger) Enabled(level Level) bool {
	return level.slogLevel() >= l.level.Level()
}

// With returns a child logger that adds attrs to every record.
func (l *Logger) With(args ...any) *Logger {
	l.mu.RLock()
	defer l.mu.RUnlock()
	attrs := append(append([]any{}, l.attrs...), args...)
	return &Logger{
		level:  l.level,
		format: l.format,
		attrs:  attrs,
		sl:     l.sl.With(args...),
	}
}

// Slog exposes the underlying slog logger for libraries that want one.
func (l *Logger) Slog() *slog.Logger {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.sl
}

func (l *Logger) log(level slog.Level, msg string, args ...any) {
	l.mu.RLock()
	sl := l.sl
	l.mu.RUnlock()
	sl.Log(context.Background(), level, msg, args...)
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string, args ...any) {
	l.log(slog.LevelDebug, msg, args...)
}

// Info logs an info message.
func (l *Logger) Info(msg string, args ...any) {
	l.log(slog.LevelInfo, msg, args...)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string, args ...any) {
	l.log(slog.LevelWarn, msg, args...)
}

// Error logs an error message.
func (l *Logger) Error(msg string, args ...any) {
	l.log(slog.LevelError, msg, args...)
}

// Discard returns a logger that discards all output.
func Discard() *Logger {
	return NewWithFormat(LevelError+1, FormatText, io.Discard)
}
