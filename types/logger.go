package types

// Logger is a leveled, structured logger.
//
// Messages are followed by alternating key/value pairs. The interface is
// compatible with zap.SugaredLogger's *w methods when wrapped, and with the
// zerolog adapter in contrib/logging/zerolog.
//
// Implementations must be safe for concurrent use.
type Logger interface {
	// Debug logs a debug-level message.
	Debug(msg string, keysAndValues ...any)

	// Info logs an info-level message.
	Info(msg string, keysAndValues ...any)

	// Warn logs a warning-level message.
	Warn(msg string, keysAndValues ...any)

	// Error logs an error-level message.
	Error(msg string, keysAndValues ...any)
}
