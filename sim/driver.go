package sim

import (
	"time"

	"github.com/pthm-cable/spectral/config"
)

// Driver runs the simulation at a fixed timestep. It owns a ManualClock
// that advances by exactly one tick per step, so the simulation sees the
// same times regardless of host frame rate.
type Driver struct {
	sim      *Simulation
	clock    *ManualClock
	tick     time.Duration
	maxSteps int
	acc      time.Duration
}

// NewDriver creates a simulation driven by a fixed timestep.
func NewDriver(cfg *config.Config, opts ...Option) (*Driver, error) {
	clock := NewManualClock(0)
	s, err := New(cfg, append(opts, WithClock(clock))...)
	if err != nil {
		return nil, err
	}
	return newDriver(s, clock), nil
}

// RestoreDriver resumes a snapshot under a fixed-timestep driver.
func RestoreDriver(cfg *config.Config, snap *Snapshot, opts ...Option) (*Driver, error) {
	clock := NewManualClock(snap.Now)
	s, err := Restore(cfg, snap, append(opts, WithClock(clock))...)
	if err != nil {
		return nil, err
	}
	return newDriver(s, clock), nil
}

func newDriver(s *Simulation, clock *ManualClock) *Driver {
	return &Driver{
		sim:      s,
		clock:    clock,
		tick:     time.Duration(s.cfg.Simulation.TickMS) * time.Millisecond,
		maxSteps: max(s.cfg.Simulation.MaxSteps, 1),
	}
}

// Update accumulates real elapsed time and runs as many whole ticks as fit,
// up to the catch-up cap. Time beyond the cap is dropped. It returns the
// number of ticks run.
func (d *Driver) Update(elapsed time.Duration, in Input) int {
	d.acc += elapsed
	steps := 0
	for d.acc >= d.tick && steps < d.maxSteps {
		d.Step(in)
		d.acc -= d.tick
		steps++
	}
	if steps == d.maxSteps && d.acc >= d.tick {
		d.acc = 0
	}
	return steps
}

// Step advances the clock by one tick and runs it.
func (d *Driver) Step(in Input) {
	d.clock.Advance(d.tick.Milliseconds())
	d.sim.Tick(in)
}

// Sim returns the driven simulation.
func (d *Driver) Sim() *Simulation { return d.sim }

// TickDuration returns the fixed timestep.
func (d *Driver) TickDuration() time.Duration { return d.tick }
