package testutil

import (
	"sync"

	"github.com/arloliu/simpledb/types"
)

// LogEntry is a message captured by RecordingLogger.
type LogEntry struct {
	Level         string
	Msg           string
	KeysAndValues []any
}

// Value returns the value logged for key, or nil.
func (e LogEntry) Value(key string) any {
	for i := 0; i+1 < len(e.KeysAndValues); i += 2 {
		if k, ok := e.KeysAndValues[i].(string); ok && k == key {
			return e.KeysAndValues[i+1]
		}
	}

	return nil
}

// RecordingLogger is a types.Logger that keeps every message for assertions.
type RecordingLogger struct {
	mu      sync.Mutex
	entries []LogEntry
}

// Compile-time assertion that RecordingLogger implements types.Logger.
var _ types.Logger = (*RecordingLogger)(nil)

// NewRecordingLogger creates a new recording logger.
func NewRecordingLogger() *RecordingLogger {
	return &RecordingLogger{}
}

// Debug records a debug-level message.
func (l *RecordingLogger) Debug(msg string, keysAndValues ...any) {
	l.record("debug", msg, keysAndValues)
}

// Info records an info-level message.
func (l *RecordingLogger) Info(msg string, keysAndValues ...any) {
	l.record("info", msg, keysAndValues)
}

// Warn records a warning-level message.
func (l *RecordingLogger) Warn(msg string, keysAndValues ...any) {
	l.record("warn", msg, keysAndValues)
}

// Error records an error-level message.
func (l *RecordingLogger) Error(msg string, keysAndValues ...any) {
	l.record("error", msg, keysAndValues)
}

// Entries returns the recorded messages, optionally filtered by level.
func (l *RecordingLogger) Entries(level string) []LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]LogEntry, 0, len(l.entries))
	for _, e := range l.entries {
		if level == "" || e.Level == level {
			out = append(out, e)
		}
	}

	return out
}

// Reset clears all recorded messages.
func (l *RecordingLogger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = nil
}

func (l *RecordingLogger) record(level, msg string, kv []any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, LogEntry{Level: level, Msg: msg, KeysAndValues: kv})
}
