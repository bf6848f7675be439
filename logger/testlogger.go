package logger

import (
	"testing"
)

type testingLoggerOutlet struct {
	t testing.TB
}

func (o testingLoggerOutlet) WriteEntry(entry Entry) error {
	o.t.Logf("[%s] %s %v", entry.Level.Short(), entry.Message, entry.Fields)
	return nil
}

// NewTestLogger returns a logger that writes every entry to t.Log.
func NewTestLogger(t testing.TB) Logger {
	outlets := NewOutlets()
	outlets.Add(&testingLoggerOutlet{t}, Debug)
	return NewLogger(outlets)
}
