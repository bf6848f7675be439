// Package logging builds the process logger from command line options and
// hands subsystem loggers to the packages that log through a context.
package logging

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"

	"github.com/edygar/interval/execcmd"
	"github.com/edygar/interval/logger"
	"github.com/edygar/interval/runner"
)

type Format string

const (
	FormatHuman  Format = "human"
	FormatLogfmt Format = "logfmt"
	FormatJSON   Format = "json"
)

// Options correspond to the --log-* flags.
type Options struct {
	Level  logger.Level
	Format Format
	// Force timestamps / colours even if the writer is not a terminal.
	Time  bool
	Color bool
}

func DefaultOptions() Options {
	return Options{
		Level:  logger.Warn,
		Format: FormatHuman,
	}
}

func newFormatter(format Format) (EntryFormatter, error) {
	switch format {
	case FormatHuman:
		f := &HumanFormatter{}
		f.SetIgnoreFields([]string{RunField})
		return f, nil
	case FormatLogfmt:
		return &LogfmtFormatter{}, nil
	case FormatJSON:
		return &JSONFormatter{}, nil
	default:
		return nil, errors.Errorf("invalid log format: '%s'", format)
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// NewOutlet returns an outlet writing to w according to opts.
func NewOutlet(opts Options, w io.Writer) (logger.Outlet, error) {
	formatter, err := newFormatter(opts.Format)
	if err != nil {
		return nil, err
	}

	flags := MetadataAll
	tty := isTerminal(w)
	if !tty && !opts.Time {
		flags &= ^MetadataTime
	}
	if !tty && !opts.Color {
		flags &= ^MetadataColor
	}
	formatter.SetMetadataFlags(flags)

	return NewWriterOutlet(formatter, w), nil
}

// NewLogger returns the root logger of an interval process.
// Every entry carries a random run id, which distinguishes processes that
// log to the same sink.
func NewLogger(opts Options, w io.Writer) (logger.Logger, error) {
	outlet, err := NewOutlet(opts, w)
	if err != nil {
		return nil, errors.Wrap(err, "cannot build log outlet")
	}
	outlets := logger.NewOutlets()
	outlets.Add(outlet, opts.Level)
	return logger.NewLogger(outlets).WithField(RunField, uuid.NewString()), nil
}

type Subsystem string

const (
	SubsysCLI     Subsystem = "cli"
	SubsysRunner  Subsystem = "runner"
	SubsysExecCmd Subsystem = "execcmd"
)

func WithSubsystemLoggers(ctx context.Context, log logger.Logger) context.Context {
	ctx = runner.WithLogger(ctx, LogSubsystem(log, SubsysRunner))
	ctx = execcmd.WithLogger(ctx, LogSubsystem(log, SubsysExecCmd))
	return ctx
}

func LogSubsystem(log logger.Logger, subsys Subsystem) logger.Logger {
	return log.ReplaceField(SubsysField, string(subsys))
}
