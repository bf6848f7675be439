package logger

// NewNullLogger returns a logger without outlets.
func NewNullLogger() Logger {
	return NewLogger(NewOutlets())
}
