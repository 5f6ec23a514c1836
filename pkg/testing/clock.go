package testing

import (
	"time"

	"go.uber.org/atomic"
)

var fakeEpoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// FakeClock is an async.Clock that only moves when told to. Safe for
// concurrent use, so a loader goroutine may read it while the test pumps.
type FakeClock struct {
	offset *atomic.Duration
}

// NewFakeClock returns a FakeClock reading 2024-01-01 UTC.
func NewFakeClock() *FakeClock {
	return &FakeClock{offset: atomic.NewDuration(0)}
}

// Now implements async.Clock.
func (c *FakeClock) Now() time.Time { return fakeEpoch.Add(c.offset.Load()) }

// Elapsed returns how far the clock moved past its epoch.
func (c *FakeClock) Elapsed() time.Duration { return c.offset.Load() }

// Advance moves the clock forward by d. Non-positive durations are ignored.
func (c *FakeClock) Advance(d time.Duration) {
	if d > 0 {
		c.offset.Add(d)
	}
}

// Set jumps to t.
func (c *FakeClock) Set(t time.Time) { c.offset.Store(t.Sub(fakeEpoch)) }
