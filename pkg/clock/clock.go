// Package clock provides the time source for services so tests can pin it.
package clock

import (
	"sync"
	"time"
)

type Clock interface {
	Now() time.Time
}

// Stamp normalizes a time for storage: UTC with whole seconds. SQLite keeps
// times as text, and a single layout keeps them ordered.
func Stamp(t time.Time) time.Time { return t.UTC().Truncate(time.Second) }

type realClock struct{}

func Real() Clock { return realClock{} }

func (realClock) Now() time.Time { return Stamp(time.Now()) }

// Fake is a manually advanced clock.
type Fake struct {
	mu  sync.Mutex
	now time.Time
}

func NewFake(start time.Time) *Fake { return &Fake{now: Stamp(start)} }

func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = Stamp(f.now.Add(d))
	f.mu.Unlock()
}
