package logging

// NullLogger discards everything; it is the default when logging is
// not enabled.
type NullLogger struct{}

// NewNull creates a logger that discards all messages
func NewNull() *NullLogger {
	return &NullLogger{}
}

func (*NullLogger) Debug(msg string, fields Fields)            {}
func (*NullLogger) Info(msg string, fields Fields)             {}
func (*NullLogger) Warn(msg string, fields Fields)             {}
func (*NullLogger) Error(msg string, err error, fields Fields) {}

// WithFields returns the logger unchanged
func (l *NullLogger) WithFields(fields Fields) Logger { return l }

// Close is a no-op
func (*NullLogger) Close() error { return nil }
