// Package logging provides the leveled, structured logger used by the
// converter and its command line tools.
package logging

import "strings"

// Logger is a leveled logger taking a message and alternating key/value
// arguments.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)

	// WithFields returns a logger that adds the given fields to every entry.
	WithFields(fields map[string]any) Logger
}

// Level is a log entry severity.
type Level uint8

// Level constants.
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
		return "INFO"
	}
}

// ParseLevel maps a level name to a Level, returning false for unknown names.
func ParseLevel(name string) (Level, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return LevelDebug, true
	case "", "info":
		return LevelInfo, true
	case "warn", "warning":
		return LevelWarn, true
	case "error":
		return LevelError, true
	default:
		return LevelInfo, false
	}
}

// Nop returns a logger that drops every entry.
func Nop() Logger { return nopLogger{} }

type nopLogger struct{}

func (nopLogger) Debug(string, ...any)               {}
func (nopLogger) Info(string, ...any)                {}
func (nopLogger) Warn(string, ...any)                {}
func (nopLogger) Error(string, ...any)               {}
func (n nopLogger) WithFields(map[string]any) Logger { return n }

// Tee returns a logger that writes every entry to all of the given loggers;
// nil loggers are skipped.
func Tee(loggers ...Logger) Logger {
	var t tee
	for _, l := range loggers {
		if l != nil {
			t = append(t, l)
		}
	}
	switch len(t) {
	case 0:
		return Nop()
	case 1:
		return t[0]
	}
	return t
}

type tee []Logger

func (t tee) Debug(msg string, args ...any) {
	for _, l := range t {
		l.Debug(msg, args...)
	}
}

func (t tee) Info(msg string, args ...any) {
	for _, l := range t {
		l.Info(msg, args...)
	}
}

func (t tee) Warn(msg string, args ...any) {
	for _, l := range t {
		l.Warn(msg, args...)
	}
}

func (t tee) Error(msg string, args ...any) {
	for _, l := range t {
		l.Error(msg, args...)
	}
}

func (t tee) WithFields(fields map[string]any) Logger {
	out := make(tee, len(t))
	for i, l := range t {
		out[i] = l.WithFields(fields)
	}
	return out
}
