// Package logging decouples the command layer from the logging framework.
// Pipeline packages log through logrus directly; command-facing helpers take
// this interface so tests can capture output with MockLogger.
package logging

// Logger is the structured logging interface used by the command helpers.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	// WithError returns a new logger with an error field attached.
	WithError(err error) Logger
	// WithField returns a new logger with a single field attached.
	WithField(key string, value interface{}) Logger
	// WithFields returns a new logger with multiple fields attached.
	WithFields(fields ...Field) Logger

	// Fatal logs a fatal-level message and exits the program.
	Fatal(msg string, fields ...Field)
	// Fatalf logs a formatted fatal-level message and exits the program.
	Fatalf(msg string, args ...interface{})
}

// Field is one key-value pair of log context.
type Field struct {
	Key   string
	Value interface{}
}
