// Package runner implements the repeat loop: spawn the command, wait for the
// interval, spawn again, until the context is done or a spawn fails.
//
// Spawning is fire-and-forget. The runner does not wait for a child to exit
// before it starts waiting for the next tick, so a child that runs longer
// than the interval overlaps with its successor.
package runner

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/edygar/interval/util/wallclock"
)

// Command is the program to run followed by its arguments.
type Command []string

func (c Command) Validate() error {
	if len(c) < 1 {
		return errors.New("command must name a program")
	}
	return nil
}

func (c Command) Program() string { return c[0] }

func (c Command) Args() []string { return c[1:] }

func (c Command) String() string { return strings.Join(c, " ") }

// SpawnError is returned when the command could not be started.
// It is fatal for the runner.
type SpawnError struct {
	Command Command
	Err     error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("cannot spawn %q: %s", e.Command.String(), e.Err)
}

func (e *SpawnError) Unwrap() error { return e.Err }

// Cause implements github.com/pkg/errors.Cause.
func (e *SpawnError) Cause() error { return e.Err }

// A Spawner starts cmd and returns once it is running.
// It must not wait for cmd to exit.
type Spawner interface {
	Spawn(ctx context.Context, cmd Command) error
}

type SleepFunc func(ctx context.Context, d time.Duration) error

type Runner struct {
	interval time.Duration
	command  Command
	spawner  Spawner
	sleep    SleepFunc
	onTick   func(tick uint64)
}

type Option func(*Runner)

// WithSleepFunc replaces the timed wait between ticks.
func WithSleepFunc(f SleepFunc) Option {
	return func(r *Runner) { r.sleep = f }
}

// WithTickHook registers f to be called after every successful spawn,
// before the runner starts waiting.
func WithTickHook(f func(tick uint64)) Option {
	return func(r *Runner) { r.onTick = f }
}

func New(interval time.Duration, command Command, spawner Spawner, opts ...Option) (*Runner, error) {
	if interval < 0 {
		return nil, errors.Errorf("interval must not be negative, got %s", interval)
	}
	if err := command.Validate(); err != nil {
		return nil, err
	}
	if spawner == nil {
		spawner = ExecSpawner{}
	}
	r := &Runner{
		interval: interval,
		command:  command,
		spawner:  spawner,
		sleep:    wallclock.Sleep,
		onTick:   func(uint64) {},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Run ticks immediately and then once per interval.
//
// It returns a *SpawnError if a spawn fails, or ctx.Err() once ctx is done.
// It does not return otherwise.
func (r *Runner) Run(ctx context.Context) error {
	log := getLogger(ctx).
		WithField("interval", r.interval.String()).
		WithField("cmd", r.command.String())

	log.Info("start repeating command")

	for tick := uint64(1); ; tick++ {
		if err := ctx.Err(); err != nil {
			log.WithError(err).Debug("context done")
			return err
		}

		tlog := log.WithField("tick", tick)
		tlog.WithFields(childFields(time.Now())).Debug("tick")
		metrics.ticks.Inc()

		if err := r.spawner.Spawn(withTick(ctx, tick), r.command); err != nil {
			metrics.spawnFailures.Inc()
			var serr *SpawnError
			if !errors.As(err, &serr) {
				err = &SpawnError{Command: r.command, Err: err}
			}
			tlog.WithError(err).Error("spawn failed, giving up")
			return err
		}
		r.onTick(tick)

		tlog.Debug("waiting for next tick")
		if err := r.sleep(ctx, r.interval); err != nil {
			log.WithError(err).Debug("wait interrupted")
			return err
		}
	}
}
