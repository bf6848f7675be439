package logging

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/fatih/color"
	"github.com/go-logfmt/logfmt"
	"github.com/pkg/errors"

	"github.com/edygar/interval/logger"
)

const (
	FieldLevel   = "level"
	FieldMessage = "msg"
	FieldTime    = "time"
)

const (
	SubsysField string = "subsystem"
	RunField    string = "run"
	TickField   string = "tick"
)

type MetadataFlags int64

const (
	MetadataTime MetadataFlags = 1 << iota
	MetadataLevel
	MetadataColor

	MetadataNone MetadataFlags = 0
	MetadataAll  MetadataFlags = ^0
)

type EntryFormatter interface {
	SetMetadataFlags(flags MetadataFlags)
	Format(e *logger.Entry) ([]byte, error)
}

func sortedFieldNames(fields logger.Fields) []string {
	names := make([]string, 0, len(fields))
	for k := range fields {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

type HumanFormatter struct {
	metadataFlags MetadataFlags
	ignoreFields  map[string]bool
}

const HumanFormatterDateFormat = time.RFC3339

var levelColors = map[logger.Level]*color.Color{
	logger.Debug: color.New(color.FgCyan),
	logger.Info:  color.New(color.FgGreen),
	logger.Warn:  color.New(color.FgYellow),
	logger.Error: color.New(color.FgRed, color.Bold),
}

func init() {
	// whether to colour is decided per outlet through MetadataColor
	for _, c := range levelColors {
		c.EnableColor()
	}
}

func (f *HumanFormatter) SetMetadataFlags(flags MetadataFlags) {
	f.metadataFlags = flags
}

func (f *HumanFormatter) SetIgnoreFields(ignore []string) {
	if ignore == nil {
		f.ignoreFields = nil
		return
	}
	f.ignoreFields = make(map[string]bool, len(ignore))

	for _, field := range ignore {
		f.ignoreFields[field] = true
	}
}

func (f *HumanFormatter) ignored(field string) bool {
	return f.ignoreFields != nil && f.ignoreFields[field]
}

func (f *HumanFormatter) Format(e *logger.Entry) (out []byte, err error) {

	var line bytes.Buffer

	if f.metadataFlags&MetadataTime != 0 {
		fmt.Fprintf(&line, "%s ", e.Time.Format(HumanFormatterDateFormat))
	}
	if f.metadataFlags&MetadataLevel != 0 {
		level := e.Level.Short()
		if c, ok := levelColors[e.Level]; ok && f.metadataFlags&MetadataColor != 0 {
			level = c.Sprint(level)
		}
		fmt.Fprintf(&line, "[%s]", level)
	}

	prefixFields := []string{SubsysField}
	prefixed := make(map[string]bool, len(prefixFields))
	for _, field := range prefixFields {
		val, ok := e.Fields[field].(string)
		if !ok {
			continue
		}
		if !f.ignored(field) {
			fmt.Fprintf(&line, "[%s]", val)
			prefixed[field] = true
		}
	}

	if line.Len() > 0 {
		fmt.Fprint(&line, ": ")
	}
	fmt.Fprint(&line, e.Message)

	first := true
	enc := logfmt.NewEncoder(&line)
	for _, field := range sortedFieldNames(e.Fields) {
		if prefixed[field] || f.ignored(field) {
			continue
		}
		if first {
			fmt.Fprint(&line, " ")
			first = false
		}
		if err := logfmtTryEncodeKeyval(enc, field, e.Fields[field]); err != nil {
			return nil, err
		}
	}

	return line.Bytes(), nil
}

type JSONFormatter struct {
	metadataFlags MetadataFlags
}

func (f *JSONFormatter) SetMetadataFlags(flags MetadataFlags) {
	f.metadataFlags = flags
}

func (f *JSONFormatter) Format(e *logger.Entry) ([]byte, error) {
	data := make(logger.Fields, len(e.Fields)+3)
	for k, v := range e.Fields {
		switch v := v.(type) {
		case error:
			// Otherwise errors are ignored by `encoding/json`
			// https://github.com/sirupsen/logrus/issues/137
			data[k] = v.Error()
		default:
			_, err := json.Marshal(v)
			if err != nil {
				return nil, errors.Errorf("field is not JSON encodable: %s", k)
			}
			data[k] = v
		}
	}

	data[FieldMessage] = e.Message
	data[FieldTime] = e.Time.Format(time.RFC3339)
	data[FieldLevel] = e.Level

	return json.Marshal(data)

}

type LogfmtFormatter struct {
	metadataFlags MetadataFlags
}

func (f *LogfmtFormatter) SetMetadataFlags(flags MetadataFlags) {
	f.metadataFlags = flags
}

func (f *LogfmtFormatter) Format(e *logger.Entry) ([]byte, error) {
	var buf bytes.Buffer
	enc := logfmt.NewEncoder(&buf)

	if f.metadataFlags&MetadataTime != 0 {
		if err := enc.EncodeKeyval(FieldTime, e.Time.Format(time.RFC3339)); err != nil {
			return nil, err
		}
	}
	if f.metadataFlags&MetadataLevel != 0 {
		if err := enc.EncodeKeyval(FieldLevel, e.Level); err != nil {
			return nil, err
		}
	}

	// at least try and put subsystem and tick in front
	prefixed := make(map[string]bool, 2)
	for _, pf := range []string{SubsysField, TickField} {
		v, ok := e.Fields[pf]
		if !ok {
			continue
		}
		if err := logfmtTryEncodeKeyval(enc, pf, v); err != nil {
			return nil, err // unlikely
		}
		prefixed[pf] = true
	}

	if err := enc.EncodeKeyval(FieldMessage, e.Message); err != nil {
		return nil, err
	}

	for _, k := range sortedFieldNames(e.Fields) {
		if !prefixed[k] {
			if err := logfmtTryEncodeKeyval(enc, k, e.Fields[k]); err != nil {
				return nil, err
			}
		}
	}

	return buf.Bytes(), nil
}

func logfmtTryEncodeKeyval(enc *logfmt.Encoder, field, value interface{}) error {

	err := enc.EncodeKeyval(field, value)
	switch err {
	case nil: // ok
		return nil
	case logfmt.ErrUnsupportedValueType:
		return enc.EncodeKeyval(field, fmt.Sprintf("<%T>", value))
	}
	return errors.Wrapf(err, "cannot encode field '%s'", field)

}
