package runner_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/edygar/interval/execcmd"
	"github.com/edygar/interval/logger"
	"github.com/edygar/interval/runner"
)

type spawnFunc func(ctx context.Context, cmd runner.Command) error

func (f spawnFunc) Spawn(ctx context.Context, cmd runner.Command) error { return f(ctx, cmd) }

type eventLog struct {
	mtx    sync.Mutex
	events []string
}

func (l *eventLog) add(format string, args ...interface{}) {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	l.events = append(l.events, fmt.Sprintf(format, args...))
}

func (l *eventLog) get() []string {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	return append([]string(nil), l.events...)
}

func TestRun_SpawnsImmediatelyThenWaitsInterval(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ctx = runner.WithLogger(ctx, logger.NewTestLogger(t))

	var log eventLog
	spawner := spawnFunc(func(ctx context.Context, cmd runner.Command) error {
		tick, ok := runner.TickFromContext(ctx)
		require.True(t, ok)
		log.add("spawn %d %s", tick, cmd)
		return nil
	})
	sleeps := 0
	sleep := func(ctx context.Context, d time.Duration) error {
		log.add("sleep %s", d)
		sleeps++
		if sleeps == 3 {
			cancel()
		}
		return ctx.Err()
	}

	r, err := runner.New(10*time.Second, runner.Command{"echo", "hi"}, spawner, runner.WithSleepFunc(sleep))
	require.NoError(t, err)

	err = r.Run(ctx)
	require.Equal(t, context.Canceled, err)
	require.Equal(t, []string{
		"spawn 1 echo hi",
		"sleep 10s",
		"spawn 2 echo hi",
		"sleep 10s",
		"spawn 3 echo hi",
		"sleep 10s",
	}, log.get())
}

func TestRun_SpawnErrorIsFatal(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	boom := errors.New("boom")
	spawns := 0
	spawner := spawnFunc(func(ctx context.Context, cmd runner.Command) error {
		spawns++
		if spawns == 2 {
			return boom
		}
		return nil
	})
	sleeps := 0
	sleep := func(ctx context.Context, d time.Duration) error {
		sleeps++
		return nil
	}

	r, err := runner.New(time.Second, runner.Command{"date"}, spawner, runner.WithSleepFunc(sleep))
	require.NoError(t, err)

	err = r.Run(context.Background())
	var serr *runner.SpawnError
	require.True(t, errors.As(err, &serr), "%T", err)
	assert.True(t, errors.Is(err, boom))
	assert.Equal(t, runner.Command{"date"}, serr.Command)
	assert.Equal(t, 2, spawns)
	assert.Equal(t, 1, sleeps, "no wait after a failed spawn")
}

func TestRun_CancelledContextDoesNotSpawn(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	spawner := spawnFunc(func(ctx context.Context, cmd runner.Command) error {
		t.Fatal("must not spawn")
		return nil
	})
	r, err := runner.New(time.Second, runner.Command{"true"}, spawner)
	require.NoError(t, err)
	require.Equal(t, context.Canceled, r.Run(ctx))
}

func TestRun_TickHook(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var hooked []uint64
	hook := func(tick uint64) {
		hooked = append(hooked, tick)
		if tick == 2 {
			cancel()
		}
	}
	spawner := spawnFunc(func(ctx context.Context, cmd runner.Command) error { return nil })

	r, err := runner.New(0, runner.Command{"true"}, spawner, runner.WithTickHook(hook))
	require.NoError(t, err)
	require.Equal(t, context.Canceled, r.Run(ctx))
	require.Equal(t, []uint64{1, 2}, hooked)
}

func TestRun_WaitsAtLeastInterval(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	const interval = 30 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var spawnedAt []time.Time
	spawner := spawnFunc(func(ctx context.Context, cmd runner.Command) error {
		spawnedAt = append(spawnedAt, time.Now())
		if len(spawnedAt) == 3 {
			cancel()
		}
		return nil
	})

	r, err := runner.New(interval, runner.Command{"true"}, spawner)
	require.NoError(t, err)

	begin := time.Now()
	require.Equal(t, context.Canceled, r.Run(ctx))

	require.Len(t, spawnedAt, 3)
	assert.Less(t, spawnedAt[0].Sub(begin), interval, "first tick must not wait")
	for i := 1; i < len(spawnedAt); i++ {
		assert.GreaterOrEqual(t, spawnedAt[i].Sub(spawnedAt[i-1]), interval)
	}
}

func TestRun_ZeroIntervalRepeatsBackToBack(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	spawns := 0
	spawner := spawnFunc(func(ctx context.Context, cmd runner.Command) error {
		spawns++
		if spawns == 100 {
			cancel()
		}
		return nil
	})
	r, err := runner.New(0, runner.Command{"true"}, spawner)
	require.NoError(t, err)
	require.Equal(t, context.Canceled, r.Run(ctx))
	require.Equal(t, 100, spawns)
}

func TestNew_Validation(t *testing.T) {
	_, err := runner.New(time.Second, runner.Command{}, nil)
	require.Error(t, err)

	_, err = runner.New(-time.Second, runner.Command{"true"}, nil)
	require.Error(t, err)

	r, err := runner.New(0, runner.Command{"true"}, nil)
	require.NoError(t, err)
	require.NotNil(t, r)
}

func TestCommand(t *testing.T) {
	c := runner.Command{"ping", "-c", "1", "host"}
	require.NoError(t, c.Validate())
	assert.Equal(t, "ping", c.Program())
	assert.Equal(t, []string{"-c", "1", "host"}, c.Args())
	assert.Equal(t, "ping -c 1 host", c.String())
}

type syncBuffer struct {
	mtx sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	return b.buf.String()
}

func TestExecSpawner_PassesArgumentsVerbatim(t *testing.T) {
	var out syncBuffer
	s := runner.ExecSpawner{Stdio: &execcmd.Stdio{Stdout: &out, Stderr: &out}}

	err := s.Spawn(context.Background(), runner.Command{"echo", "hi", "-c", "1"})
	require.NoError(t, err)
	require.Eventually(t, func() bool { return out.String() == "hi -c 1\n" },
		5*time.Second, 10*time.Millisecond, "got %q", out.String())
}

func TestExecSpawner_NotFound(t *testing.T) {
	s := runner.ExecSpawner{}
	cmd := runner.Command{"interval-runner-test-no-such-program", "arg"}

	err := s.Spawn(context.Background(), cmd)
	var serr *runner.SpawnError
	require.True(t, errors.As(err, &serr), "%T", err)
	assert.Equal(t, cmd, serr.Command)
	assert.True(t, errors.Is(err, exec.ErrNotFound))
	assert.Contains(t, err.Error(), "interval-runner-test-no-such-program")
}

func TestRun_SpawnFailureWithExecSpawner(t *testing.T) {
	r, err := runner.New(time.Hour, runner.Command{"interval-runner-test-no-such-program"}, nil)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- r.Run(context.Background()) }()

	select {
	case err := <-done:
		var serr *runner.SpawnError
		require.True(t, errors.As(err, &serr), "%T", err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run must return on spawn failure")
	}
}

type recordingOutlet struct {
	mtx     sync.Mutex
	entries []logger.Entry
}

func (o *recordingOutlet) WriteEntry(e logger.Entry) error {
	o.mtx.Lock()
	defer o.mtx.Unlock()
	o.entries = append(o.entries, e)
	return nil
}

func (o *recordingOutlet) find(msg string, tick uint64) (logger.Entry, bool) {
	o.mtx.Lock()
	defer o.mtx.Unlock()
	for _, e := range o.entries {
		if e.Message == msg && e.Fields["tick"] == tick {
			return e, true
		}
	}
	return logger.Entry{}, false
}

// Spawning is fire-and-forget: a child slower than the interval is still
// running when the next one is started.
func TestRun_FireAndForgetChildrenOverlap(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	outlet := &recordingOutlet{}
	outlets := logger.NewOutlets()
	outlets.Add(outlet, logger.Debug)
	ctx = runner.WithLogger(ctx, logger.NewLogger(outlets))

	var overlapAtTick3 int
	hook := func(tick uint64) {
		if tick == 3 {
			overlapAtTick3 = len(execcmd.Children())
			cancel()
		}
	}

	r, err := runner.New(20*time.Millisecond, runner.Command{"sleep", "2"}, runner.ExecSpawner{}, runner.WithTickHook(hook))
	require.NoError(t, err)

	begin := time.Now()
	require.Equal(t, context.Canceled, r.Run(ctx))
	assert.Less(t, time.Since(begin), 2*time.Second, "runner must not block on child exit")
	assert.GreaterOrEqual(t, overlapAtTick3, 3)

	// the tick entry is written before the spawn, so ticks 1 and 2 are running
	e, ok := outlet.find("tick", 3)
	require.True(t, ok)
	assert.GreaterOrEqual(t, e.Fields["active_children"], 2)
	assert.NotZero(t, e.Fields["oldest_child_pid"])
	assert.Greater(t, e.Fields["oldest_child_age_s"], 0.0)
}
