package telemetry

import "github.com/pthm-cable/spectral/sim"

// Gauges are the state values sampled when a window closes.
type Gauges struct {
	Score       int
	Multiplier  int
	Level       int
	Energy      int
	Goal        int
	Live        int
	Phase       string
	PoolActive  int
	PoolDropped int
}

// GaugesFrom samples a simulation.
func GaugesFrom(s *sim.Simulation) Gauges {
	st := s.State()
	ps := s.PoolStats()
	return Gauges{
		Score:       st.Score,
		Multiplier:  st.Multiplier,
		Level:       st.Level,
		Energy:      st.Energy,
		Goal:        st.Goal,
		Live:        st.Spawn.Live,
		Phase:       st.PhaseName(),
		PoolActive:  ps.Acquired - ps.Released,
		PoolDropped: ps.Dropped,
	}
}

// Collector accumulates events within time windows and produces WindowStats.
// It implements sim.EventSink.
type Collector struct {
	windowTicks uint64
	tickMS      int64

	windowStart uint64
	counts      eventCounts
}

// NewCollector creates a new stats collector.
// windowSec: how long each window lasts in simulation seconds
// tickMS: milliseconds per tick
func NewCollector(windowSec float64, tickMS int64) *Collector {
	if tickMS <= 0 {
		tickMS = 16
	}
	ticks := uint64(windowSec * 1000 / float64(tickMS))
	if ticks < 1 {
		ticks = 1
	}
	return &Collector{windowTicks: ticks, tickMS: tickMS}
}

// Trigger records a simulation event.
func (c *Collector) Trigger(event string) {
	c.counts.add(event)
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(tick uint64) bool {
	return tick-c.windowStart >= c.windowTicks
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(tick uint64, g Gauges) WindowStats {
	var hitRate float64
	if c.counts.Shots > 0 {
		hitRate = float64(c.counts.Hits) / float64(c.counts.Shots)
	}

	stats := WindowStats{
		WindowStartTick: c.windowStart,
		WindowEndTick:   tick,
		SimTimeSec:      float64(tick) * float64(c.tickMS) / 1000,

		Shots:      c.counts.Shots,
		Hits:       c.counts.Hits,
		Kills:      c.counts.Explosions,
		HitRate:    hitRate,
		Pickups:    c.counts.Pickups,
		Collected:  c.counts.Collected,
		Deaths:     c.counts.Deaths,
		Respawns:   c.counts.Respawns,
		Portals:    c.counts.Portals,
		Returns:    c.counts.Returns,
		Spawns:     c.counts.Spawns,
		Rejected:   c.counts.Rejected,
		Dropped:    c.counts.Dropped,
		Unknown:    c.counts.Unknown,

		Score:       g.Score,
		Multiplier:  g.Multiplier,
		Level:       g.Level,
		Energy:      g.Energy,
		Goal:        g.Goal,
		Live:        g.Live,
		Phase:       g.Phase,
		PoolActive:  g.PoolActive,
		PoolDropped: g.PoolDropped,
	}

	c.windowStart = tick
	c.counts = eventCounts{}
	return stats
}

// WindowTicks returns the number of ticks per window.
func (c *Collector) WindowTicks() uint64 {
	return c.windowTicks
}

// Reset discards the open window and starts a new one at tick.
func (c *Collector) Reset(tick uint64) {
	c.windowStart = tick
	c.counts = eventCounts{}
}
