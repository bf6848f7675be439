// Package cli implements the command line of interval:
//
//	interval [flags] <time> <command> [args...]
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/edygar/interval/logger"
	"github.com/edygar/interval/logging"
	"github.com/edygar/interval/metrics"
	"github.com/edygar/interval/runner"
	"github.com/edygar/interval/timeparse"
	"github.com/edygar/interval/util/choices"
	"github.com/edygar/interval/version"
)

// UsageError reports a malformed command line.
type UsageError struct {
	Msg string
}

func (e *UsageError) Error() string { return e.Msg }

const errNoCommand = "No command was provided"

// Invocation is everything a parsed command line resolves to.
type Invocation struct {
	Interval time.Duration
	Command  runner.Command
	Log      logger.Logger
	// empty if metrics export is disabled
	MetricsTextfile string
}

// RunFunc executes a parsed Invocation. It only returns on error.
type RunFunc func(ctx context.Context, inv Invocation) error

type rootArgs struct {
	logLevel        choices.Choices
	logFormat       choices.Choices
	logTime         bool
	logColor        bool
	metricsTextfile string
}

func (a *rootArgs) setupFlags(f *pflag.FlagSet) {
	a.logLevel.Init(
		"debug", logger.Debug,
		"info", logger.Info,
		"warn", logger.Warn,
		"error", logger.Error,
	)
	a.logLevel.SetTypeString("level")
	a.logLevel.SetDefault("warn")
	a.logFormat.Init(
		"human", logging.FormatHuman,
		"logfmt", logging.FormatLogfmt,
		"json", logging.FormatJSON,
	)
	a.logFormat.SetTypeString("format")
	a.logFormat.SetDefault("human")

	f.Var(&a.logLevel, "log-level", "minimum level of diagnostics written to stderr, "+a.logLevel.Usage())
	f.Var(&a.logFormat, "log-format", "format of diagnostics, "+a.logFormat.Usage())
	f.BoolVar(&a.logTime, "log-time", false, "prefix diagnostics with a timestamp even if stderr is not a terminal")
	f.BoolVar(&a.logColor, "log-color", false, "colour diagnostics even if stderr is not a terminal")
	f.StringVar(&a.metricsTextfile, "metrics-textfile", "", "write prometheus metrics to this file after every tick")

	// everything after <time> belongs to the command
	f.SetInterspersed(false)
}

func (a *rootArgs) loggingOptions() logging.Options {
	return logging.Options{
		Level:  a.logLevel.Value().(logger.Level),
		Format: a.logFormat.Value().(logging.Format),
		Time:   a.logTime,
		Color:  a.logColor,
	}
}

// ParseArgs splits the positional arguments into interval and command.
func ParseArgs(args []string) (time.Duration, runner.Command, error) {
	if len(args) < 2 {
		return 0, nil, &UsageError{Msg: errNoCommand}
	}
	interval, err := timeparse.Parse(args[0])
	if err != nil {
		return 0, nil, err
	}
	return interval, runner.Command(append([]string(nil), args[1:]...)), nil
}

// NewRootCmd returns the cobra command of interval. run is called with the
// parsed invocation; errors it returns are reported by Execute.
func NewRootCmd(run RunFunc) *cobra.Command {
	var a rootArgs

	cmd := &cobra.Command{
		Use:   "interval [flags] <time> <command> [args...]",
		Short: "Run a command repeatedly, once per interval",
		Long: `Run <command> immediately and then again every <time>, until interval is killed.

<time> is a number of seconds or a number followed by one of the units
` + strings.Join(timeparse.Units(), ", ") + ` (case-insensitive).

The command is started without waiting for the previous one to exit,
so a command that takes longer than <time> overlaps with the next one.
Its exit status is ignored; interval only stops if the command cannot be started.`,
		Example: `  interval 10 cmd-to-execute --arg1 arg2
  interval 10s date
  interval 2m ping -c 1 example.com`,
		Version:       version.Version(),
		SilenceErrors: true,
		SilenceUsage:  true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 2 {
				return &UsageError{Msg: errNoCommand}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			interval, command, err := ParseArgs(args)
			if err != nil {
				return err
			}
			log, err := logging.NewLogger(a.loggingOptions(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			return run(cmd.Context(), Invocation{
				Interval:        interval,
				Command:         command,
				Log:             log,
				MetricsTextfile: a.metricsTextfile,
			})
		},
	}
	cmd.SetVersionTemplate(version.NewIntervalVersionInformation().String() + "\n")
	cmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &UsageError{Msg: err.Error()}
	})
	a.setupFlags(cmd.Flags())

	return cmd
}

// RunRepeatedly is the production RunFunc.
func RunRepeatedly(ctx context.Context, inv Invocation) error {
	log := logging.LogSubsystem(inv.Log, logging.SubsysCLI)
	ctx = logging.WithSubsystemLoggers(ctx, inv.Log)

	var opts []runner.Option
	if inv.MetricsTextfile != "" {
		textfile := metrics.NewTextfile(inv.MetricsTextfile, metrics.NewRegistry())
		opts = append(opts, runner.WithTickHook(func(tick uint64) {
			if err := textfile.Write(); err != nil {
				log.WithError(err).WithField(logging.TickField, tick).Warn("cannot export metrics")
			}
		}))
	}

	r, err := runner.New(inv.Interval, inv.Command, runner.ExecSpawner{}, opts...)
	if err != nil {
		return errors.Wrap(err, "invalid invocation")
	}
	log.WithField("version", version.Version()).Debug("starting")
	return r.Run(ctx)
}

// separateTimeToken inserts "--" in front of a time token that pflag would
// take for a shorthand flag, e.g. "-5s", so that it reaches the parser.
func separateTimeToken(flags *pflag.FlagSet, args []string) []string {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--" || arg == "-" || !strings.HasPrefix(arg, "-"):
			return args
		case strings.HasPrefix(arg, "--"):
			name := arg[2:]
			if strings.Contains(name, "=") {
				continue
			}
			if f := flags.Lookup(name); f != nil && f.NoOptDefVal == "" {
				i++ // the flag's value
			}
		case strings.ContainsRune("0123456789.,", rune(arg[1])):
			separated := make([]string, 0, len(args)+1)
			separated = append(separated, args[:i]...)
			separated = append(separated, "--")
			return append(separated, args[i:]...)
		default:
			if f := flags.ShorthandLookup(arg[1:2]); f != nil && f.NoOptDefVal == "" && len(arg) == 2 {
				i++
			}
		}
	}
	return args
}

// Execute runs the interval command line args (without the program name)
// and returns the process exit code. Errors are reported on stderr.
func Execute(ctx context.Context, args []string, run RunFunc, stdout, stderr io.Writer) int {
	cmd := NewRootCmd(run)
	cmd.SetArgs(separateTimeToken(cmd.Flags(), args))
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	fmt.Fprintln(stderr, err)
	var uerr *UsageError
	if errors.As(err, &uerr) {
		fmt.Fprint(stderr, cmd.UsageString())
	}
	return 1
}

// Run is Execute with the real process environment. It does not return.
func Run() {
	os.Exit(Execute(context.Background(), os.Args[1:], RunRepeatedly, os.Stdout, os.Stderr))
}
