// Package zerolog adapts a github.com/rs/zerolog logger to types.Logger.
//
//	zl := zerolog.New(os.Stderr).With().Timestamp().Logger()
//	client, _ := simpledb.New(writeFactory, nil,
//	    simpledb.WithLogger(zerologadapter.New(zl)),
//	)
package zerolog

import (
	"fmt"
	"io"
	"os"
	"strings"

	zl "github.com/rs/zerolog"

	"github.com/arloliu/simpledb/types"
)

// Formats accepted by NewWithFormat.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Logger implements types.Logger on top of a zerolog.Logger.
type Logger struct {
	l zl.Logger
}

// Compile-time assertion that Logger implements types.Logger.
var _ types.Logger = (*Logger)(nil)

// New wraps l.
func New(l zl.Logger) *Logger {
	return &Logger{l: l}
}

// NewWithFormat builds a timestamped zerolog logger writing to w.
//
// Parameters:
//   - w: Destination, os.Stderr when nil
//   - level: zerolog level name ("debug", "info", ...), "info" when empty
//   - format: FormatConsole for human output, FormatJSON for one JSON object per line
//
// Returns:
//   - *Logger: The adapter
//   - error: If level or format is unknown
func NewWithFormat(w io.Writer, level, format string) (*Logger, error) {
	if w == nil {
		w = os.Stderr
	}
	if level == "" {
		level = zl.InfoLevel.String()
	}

	lvl, err := zl.ParseLevel(strings.ToLower(level))
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	switch format {
	case "", FormatConsole:
		w = zl.ConsoleWriter{Out: w}
	case FormatJSON:
	default:
		return nil, fmt.Errorf("invalid log format %q", format)
	}

	return New(zl.New(w).Level(lvl).With().Timestamp().Logger()), nil
}

// Zerolog returns the wrapped logger.
func (l *Logger) Zerolog() zl.Logger {
	return l.l
}

// Debug logs a debug-level message.
func (l *Logger) Debug(msg string, keysAndValues ...any) {
	emit(l.l.Debug(), msg, keysAndValues)
}

// Info logs an info-level message.
func (l *Logger) Info(msg string, keysAndValues ...any) {
	emit(l.l.Info(), msg, keysAndValues)
}

// Warn logs a warning-level message.
func (l *Logger) Warn(msg string, keysAndValues ...any) {
	emit(l.l.Warn(), msg, keysAndValues)
}

// Error logs an error-level message.
func (l *Logger) Error(msg string, keysAndValues ...any) {
	emit(l.l.Error(), msg, keysAndValues)
}

// emit attaches the key/value pairs to e and sends it.
// A missing final value is logged as null; a non-string key is rendered with fmt.
func emit(e *zl.Event, msg string, kv []any) {
	if e == nil {
		return
	}

	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			key = fmt.Sprint(kv[i])
		}

		if i+1 >= len(kv) {
			e = e.Interface(key, nil)
			break
		}

		switch v := kv[i+1].(type) {
		case error:
			e = e.AnErr(key, v)
		default:
			e = e.Interface(key, v)
		}
	}

	e.Msg(msg)
}
