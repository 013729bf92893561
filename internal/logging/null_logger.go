package logging

import "github.com/vvka-141/vaxpipe/pkg/vaxpipe"

// NullLogger is a no-op logger that discards all log messages.
// Useful for tests and library callers that want silence.
type NullLogger struct{}

// NewNullLogger creates a new NullLogger.
func NewNullLogger() *NullLogger {
	return &NullLogger{}
}

func (l *NullLogger) Verbose(format string, args ...interface{}) {}
func (l *NullLogger) Info(format string, args ...interface{})    {}
func (l *NullLogger) Error(format string, args ...interface{})   {}

var (
	_ vaxpipe.Logger = (*NullLogger)(nil)
	_ vaxpipe.Logger = (*ConsoleLogger)(nil)
	_ vaxpipe.Logger = (*MemoryLogger)(nil)
)
