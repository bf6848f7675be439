package execcmd

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// Child is a started command that was not reaped yet.
type Child struct {
	Pid       int
	Tick      uint64
	StartedAt time.Time
}

func (c Child) Age(now time.Time) time.Duration {
	return now.Sub(c.StartedAt)
}

var children = struct {
	mtx sync.Mutex
	m   map[*Cmd]Child
}{m: make(map[*Cmd]Child)}

// Children lists the running children, oldest first.
func Children() []Child {
	children.mtx.Lock()
	list := make([]Child, 0, len(children.m))
	for _, c := range children.m {
		list = append(list, c)
	}
	children.mtx.Unlock()

	sort.Slice(list, func(i, j int) bool {
		return list[i].StartedAt.Before(list[j].StartedAt)
	})
	return list
}

func startPostReport(c *Cmd, err error, now time.Time) {
	if err != nil {
		return
	}
	children.mtx.Lock()
	defer children.mtx.Unlock()
	if _, ok := children.m[c]; ok {
		panic(fmt.Sprintf("impl error: %s started twice", c))
	}
	children.m[c] = Child{Pid: c.cmd.Process.Pid, Tick: c.tick, StartedAt: now}
}

func waitPostReport(c *Cmd) {
	children.mtx.Lock()
	defer children.mtx.Unlock()
	if _, ok := children.m[c]; !ok {
		panic(fmt.Sprintf("impl error: reaped %s which was never started", c))
	}
	delete(children.m, c)
}
