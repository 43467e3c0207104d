package sim

import "time"

// Clock is the monotonic millisecond time source of the simulation.
// The simulation reads it exactly once per tick.
type Clock interface {
	NowMS() int64
}

// SystemClock reads the process monotonic clock.
type SystemClock struct {
	start time.Time
}

// NewSystemClock returns a clock whose zero is the moment of creation.
func NewSystemClock() *SystemClock {
	return &SystemClock{start: time.Now()}
}

// NowMS implements Clock.
func (c *SystemClock) NowMS() int64 {
	return time.Since(c.start).Milliseconds()
}

// ManualClock is a clock that only moves when told to.
type ManualClock struct {
	now int64
}

// NewManualClock returns a manual clock at the given time.
func NewManualClock(start int64) *ManualClock {
	return &ManualClock{now: start}
}

// NowMS implements Clock.
func (c *ManualClock) NowMS() int64 { return c.now }

// Advance moves the clock forward by ms.
func (c *ManualClock) Advance(ms int64) { c.now += ms }

// Set moves the clock to an absolute time.
func (c *ManualClock) Set(ms int64) { c.now = ms }
