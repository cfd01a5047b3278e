// Package types provides diagnostic and logging types shared across the
// loader, the run controller, and the root package.
package types

import (
	"context"
	"log/slog"
)

// LevelTrace is a custom log level more verbose than Debug, used for the
// run controller's budget-expiry message.
const LevelTrace = slog.Level(-8)

var noCtx = context.Background() //nolint:gochecknoglobals

// Logger wraps slog.Logger with nil-safe convenience methods so callers
// never have to guard every log call with a nil check.
type Logger struct {
	L *slog.Logger
}

// Enabled reports whether logging is active at the given level.
func (l *Logger) Enabled(level slog.Level) bool {
	return l.L != nil && l.L.Enabled(noCtx, level)
}

// Log emits a structured message at the given level. No-op if nil.
func (l *Logger) Log(level slog.Level, msg string, attrs ...slog.Attr) {
	if l.L != nil && l.L.Enabled(noCtx, level) {
		l.L.LogAttrs(noCtx, level, msg, attrs...)
	}
}

// Trace emits a message at LevelTrace.
func (l *Logger) Trace(msg string, attrs ...slog.Attr) {
	l.Log(LevelTrace, msg, attrs...)
}
