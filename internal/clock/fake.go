package clock

import (
	"sync"
	"time"
)

// FakeClock is a Clock pinned to a programmable instant. Tests pick a
// start time and move it forward explicitly, so date-boundary behavior
// can be exercised without sleeping.
type FakeClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewFakeClock pins the clock to t, normalized to UTC to match what the
// system clock reports.
func NewFakeClock(t time.Time) *FakeClock {
	return &FakeClock{now: t.UTC()}
}

func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d; a negative d moves it back.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
