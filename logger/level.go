package logger

import (
	"fmt"
)

type Level int

const (
	Debug Level = iota
	Info
	Warn
	Error
)

// Levels ordered least severe to most severe
var AllLevels = []Level{Debug, Info, Warn, Error}

var levelNames = map[Level]struct{ long, short string }{
	Debug: {"debug", "DEBG"},
	Info:  {"info", "INFO"},
	Warn:  {"warn", "WARN"},
	Error: {"error", "ERRO"},
}

func (l Level) String() string {
	if n, ok := levelNames[l]; ok {
		return n.long
	}
	return fmt.Sprintf("level(%d)", int(l))
}

// Short is the fixed-width form used by the human formatter.
func (l Level) Short() string {
	if n, ok := levelNames[l]; ok {
		return n.short
	}
	return fmt.Sprintf("%d", int(l))
}

// MarshalText makes JSON and logfmt encoders emit the level name.
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}
