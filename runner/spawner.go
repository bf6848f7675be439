package runner

import (
	"context"
	"time"

	"github.com/edygar/interval/execcmd"
	"github.com/edygar/interval/logger"
)

// ExecSpawner starts the command as a child process with the standard
// streams of the current process and reaps it in the background.
type ExecSpawner struct {
	// Stdio overrides the inherited standard streams if non-nil.
	Stdio *execcmd.Stdio
}

var _ Spawner = ExecSpawner{}

func (s ExecSpawner) Spawn(ctx context.Context, cmd Command) error {
	if tick, ok := getTick(ctx); ok {
		ctx = execcmd.WithTick(ctx, tick)
	}
	c := execcmd.Command(ctx, cmd.Program(), cmd.Args()...)
	if s.Stdio != nil {
		c.SetStdio(*s.Stdio)
	} else {
		c.SetStdio(execcmd.InheritedStdio())
	}
	if err := c.Start(); err != nil {
		return &SpawnError{Command: cmd, Err: err}
	}
	// The exit status is only logged and measured by execcmd.
	go func() { _ = c.Wait() }()
	return nil
}

// childFields describes the children that are still running,
// for the tick log entry.
func childFields(now time.Time) logger.Fields {
	children := execcmd.Children()
	fields := logger.Fields{"active_children": len(children)}
	if len(children) > 0 {
		oldest := children[0]
		fields["oldest_child_pid"] = oldest.Pid
		fields["oldest_child_tick"] = oldest.Tick
		fields["oldest_child_age_s"] = oldest.Age(now).Seconds()
	}
	return fields
}
