// Package logger implements a small leveled logger whose entries carry
// key-value fields and are written to one or more Outlets.
package logger

import (
	"fmt"
	"os"
	"sync"
	"time"
)

const (
	// The field set by WithError function
	FieldError = "err"
)

const DefaultUserFieldCapacity = 5
const InternalErrorPrefix = "github.com/edygar/interval/logger: "

type Logger interface {
	WithField(field string, val interface{}) Logger
	ReplaceField(field string, val interface{}) Logger
	WithFields(fields Fields) Logger
	WithError(err error) Logger
	Debug(msg string)
	Info(msg string)
	Warn(msg string)
	Error(msg string)
}

type loggerImpl struct {
	fields  Fields
	outlets *Outlets

	mtx *sync.Mutex
}

var _ Logger = &loggerImpl{}

func NewLogger(outlets *Outlets) Logger {
	return &loggerImpl{
		fields:  make(Fields, DefaultUserFieldCapacity),
		outlets: outlets,
		mtx:     &sync.Mutex{},
	}
}

func (l *loggerImpl) log(level Level, msg string) {

	l.mtx.Lock()
	defer l.mtx.Unlock()

	entry := Entry{level, msg, time.Now(), l.fields}

	for _, outlet := range l.outlets.forLevel(level) {
		if err := outlet.WriteEntry(entry); err != nil {
			fmt.Fprintf(os.Stderr, "%s outlet error: %s\n", InternalErrorPrefix, err)
		}
	}
}

func (l *loggerImpl) forkWith(field string, val interface{}) *loggerImpl {
	child := &loggerImpl{
		fields:  make(Fields, len(l.fields)+1),
		outlets: l.outlets,
		mtx:     l.mtx,
	}
	for k, v := range l.fields {
		child.fields[k] = v
	}
	child.fields[field] = val
	return child
}

// WithField returns a child logger with field set.
// Overwriting an existing field is reported on stderr; use ReplaceField for that.
func (l *loggerImpl) WithField(field string, val interface{}) Logger {
	l.mtx.Lock()
	defer l.mtx.Unlock()

	if _, ok := l.fields[field]; ok {
		fmt.Fprintf(os.Stderr, "%s caller overwrites field '%s'\n", InternalErrorPrefix, field)
	}
	return l.forkWith(field, val)
}

func (l *loggerImpl) ReplaceField(field string, val interface{}) Logger {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	return l.forkWith(field, val)
}

func (l *loggerImpl) WithFields(fields Fields) Logger {
	var ret Logger = l
	for field, value := range fields {
		ret = ret.WithField(field, value)
	}
	return ret
}

func (l *loggerImpl) WithError(err error) Logger {
	val := interface{}(nil)
	if err != nil {
		val = err.Error()
	}
	return l.WithField(FieldError, val)
}

func (l *loggerImpl) Debug(msg string) {
	l.log(Debug, msg)
}

func (l *loggerImpl) Info(msg string) {
	l.log(Info, msg)
}

func (l *loggerImpl) Warn(msg string) {
	l.log(Warn, msg)
}

func (l *loggerImpl) Error(msg string) {
	l.log(Error, msg)
}
