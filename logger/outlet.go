package logger

import (
	"sync"
	"time"
)

type Fields map[string]interface{}

type Entry struct {
	Level   Level
	Message string
	Time    time.Time
	Fields  Fields
}

// An Outlet writes entries to some destination.
//
// The logger holds its lock while calling WriteEntry, so an implementation
// must not block for long or log through the same logger.
type Outlet interface {
	WriteEntry(entry Entry) error
}

type registeredOutlet struct {
	outlet   Outlet
	minLevel Level
}

// Outlets is the set of destinations shared by a logger and its children.
// The zero value has no outlets and discards everything.
type Outlets struct {
	mtx  sync.RWMutex
	outs []registeredOutlet
}

func NewOutlets() *Outlets {
	return &Outlets{}
}

// Add registers outlet for minLevel and every more severe level.
func (s *Outlets) Add(outlet Outlet, minLevel Level) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	s.outs = append(s.outs, registeredOutlet{outlet, minLevel})
}

func (s *Outlets) forLevel(level Level) []Outlet {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	var outs []Outlet
	for _, o := range s.outs {
		if level >= o.minLevel {
			outs = append(outs, o.outlet)
		}
	}
	return outs
}
