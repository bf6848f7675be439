// Package execcmd wraps os/exec for the children of interval.
//
// Every Cmd logs its start and exit, is listed by Children while it runs,
// and feeds the runtime and exit code metrics.
//
// The context passed to Command only carries the logger and the tick number.
// It does not bound the lifetime of the child process.
package execcmd

import (
	"context"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"
)

type Cmd struct {
	cmd  *exec.Cmd
	ctx  context.Context
	tick uint64 // 0 if not started by the runner

	mtx       sync.Mutex
	startedAt time.Time
	waited    bool
	exitedAt  time.Time
}

func Command(ctx context.Context, name string, arg ...string) *Cmd {
	tick, _ := getTick(ctx)
	return &Cmd{cmd: exec.Command(name, arg...), ctx: ctx, tick: tick}
}

type Stdio struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// InheritedStdio hands the current process's standard streams to the child.
func InheritedStdio() Stdio {
	return Stdio{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

func (c *Cmd) SetStdio(stdio Stdio) {
	c.cmd.Stdin, c.cmd.Stdout, c.cmd.Stderr = stdio.Stdin, stdio.Stdout, stdio.Stderr
}

// String is the command line including argv[0].
func (c *Cmd) String() string {
	return strings.Join(c.cmd.Args, " ")
}

// Program is the name the command was created with, without arguments.
func (c *Cmd) Program() string {
	return c.cmd.Args[0]
}

// Pid returns 0 until Start succeeded.
func (c *Cmd) Pid() int {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	if c.startedAt.IsZero() {
		return 0
	}
	return c.cmd.Process.Pid
}

func (c *Cmd) log() Logger {
	return getLogger(c.ctx).WithField("cmd", c.String())
}

// Start starts the child. Start must be called at most once,
// and a Cmd whose Start failed must be discarded.
func (c *Cmd) Start() error {
	c.log().Debug("starting command")

	err := c.cmd.Start()
	now := time.Now()
	if err == nil {
		c.mtx.Lock()
		c.startedAt = now
		c.mtx.Unlock()
	}

	startPostReport(c, err, now)
	startPostLogging(c, err)
	startPostPrometheus(c, err)
	return err
}

// Wait blocks until the child exited. Only the first call after a
// successful Start is logged and measured.
func (c *Cmd) Wait() error {
	c.mtx.Lock()
	first := !c.waited
	c.waited = true
	c.mtx.Unlock()

	if first {
		c.log().Debug("start waiting")
	}
	err := c.cmd.Wait()
	if !first {
		return err
	}

	c.mtx.Lock()
	c.exitedAt = time.Now()
	c.mtx.Unlock()

	u := usage{totalSecs: c.Runtime().Seconds(), systemSecs: -1, userSecs: -1, exitCode: -1}
	if s := c.cmd.ProcessState; s != nil {
		u.systemSecs = s.SystemTime().Seconds()
		u.userSecs = s.UserTime().Seconds()
		u.exitCode = s.ExitCode()
	}

	waitPostReport(c)
	waitPostLogging(c, u, err)
	waitPostPrometheus(c, u)
	return err
}

type usage struct {
	totalSecs, systemSecs, userSecs float64
	exitCode                        int
}

// Runtime returns 0 if the child was not waited for yet.
func (c *Cmd) Runtime() time.Duration {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	if c.exitedAt.IsZero() {
		return 0
	}
	return c.exitedAt.Sub(c.startedAt)
}
