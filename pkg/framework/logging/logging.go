// Package logging routes plugin diagnostics to the host.
//
// Hosts may supply a log sink at instantiation. When they do not, the
// logger falls back to a basic console reporter so diagnostics are never
// silently dropped. The sink is the only place a message crosses out of
// the plugin; the real-time caller decides how much formatting it can
// afford.
package logging

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
)

// Level represents the severity of a diagnostic message.
type Level int

const (
	// LevelDebug is for detailed debugging information.
	LevelDebug Level = iota
	// LevelInfo is for general informational messages.
	LevelInfo
	// LevelWarn is for warning messages.
	LevelWarn
	// LevelError is for error messages.
	LevelError
)

// String returns the string representation of the level.
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

// Sink receives diagnostic messages. Host-supplied sinks decide where
// messages go; the plugin never performs I/O itself.
type Sink interface {
	Log(level Level, msg string)
}

// Logger prefixes and forwards diagnostics to a sink.
type Logger struct {
	sink   Sink
	prefix string
}

// New creates a logger writing to sink. A nil sink selects the console
// fallback.
func New(sink Sink, prefix string) *Logger {
	if sink == nil {
		sink = Console()
	}
	return &Logger{sink: sink, prefix: prefix}
}

// Debugf logs a debug message.
func (l *Logger) Debugf(format string, args ...any) {
	l.logf(LevelDebug, format, args...)
}

// Infof logs an informational message.
func (l *Logger) Infof(format string, args ...any) {
	l.logf(LevelInfo, format, args...)
}

// Warnf logs a warning message.
func (l *Logger) Warnf(format string, args ...any) {
	l.logf(LevelWarn, format, args...)
}

// Errorf logs an error message.
func (l *Logger) Errorf(format string, args ...any) {
	l.logf(LevelError, format, args...)
}

func (l *Logger) logf(level Level, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if l.prefix != "" {
		msg = l.prefix + ": " + msg
	}
	l.sink.Log(level, msg)
}

var (
	console     Sink
	consoleOnce sync.Once
)

// Console returns the fallback sink, a shared structured logger on
// standard error.
func Console() Sink {
	consoleOnce.Do(func() {
		console = &consoleSink{
			log: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			})),
		}
	})
	return console
}

type consoleSink struct {
	log *slog.Logger
}

func (c *consoleSink) Log(level Level, msg string) {
	c.log.Log(context.Background(), slogLevel(level), msg)
}

func slogLevel(level Level) slog.Level {
	switch level {
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelWarn:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}
