package telemetry

import (
	"log/slog"
	"time"

	"github.com/pthm-cable/spectral/sim"
)

// Phase names for the simulation tick, in execution order.
const (
	PhaseInput       = sim.PhaseInput
	PhaseSpawn       = sim.PhaseSpawn
	PhaseBehavior    = sim.PhaseBehavior
	PhasePhysics     = sim.PhasePhysics
	PhaseProjectiles = sim.PhaseProjectiles
	PhaseCollision   = sim.PhaseCollision
	PhaseDimension   = sim.PhaseDimension
	PhaseLifecycle   = sim.PhaseLifecycle
	PhaseRender      = sim.PhaseRender
)

const numPhases = 9

var phases = [numPhases]string{
	PhaseInput, PhaseSpawn, PhaseBehavior, PhasePhysics, PhaseProjectiles,
	PhaseCollision, PhaseDimension, PhaseLifecycle, PhaseRender,
}

func phaseIndex(name string) int {
	for i, p := range phases {
		if p == name {
			return i
		}
	}
	return -1
}

// tickSample is the timing of one tick. ran marks phases that started,
// so a phase faster than the clock resolution still shows up.
type tickSample struct {
	total  time.Duration
	phases [numPhases]time.Duration
	ran    uint16
}

// PerfCollector keeps a ring of recent tick timings. It implements
// sim.PhaseTimer; phase names it does not know are timed as gaps.
type PerfCollector struct {
	ring   []tickSample
	next   int
	filled int

	cur     tickSample
	open    int
	tickAt  time.Time
	phaseAt time.Time

	lastFrame time.Time
	frame     time.Duration

	now func() time.Time
}

// NewPerfCollector averages over the last windowSize ticks (60 if < 1).
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		ring: make([]tickSample, windowSize),
		open: -1,
		now:  time.Now,
	}
}

func (p *PerfCollector) StartTick() {
	p.tickAt = p.now()
	p.cur = tickSample{}
	p.open = -1
}

func (p *PerfCollector) StartPhase(phase string) {
	now := p.now()
	p.closePhase(now)
	p.open = phaseIndex(phase)
	if p.open >= 0 {
		p.cur.ran |= 1 << p.open
	}
	p.phaseAt = now
}

func (p *PerfCollector) EndTick() {
	now := p.now()
	p.closePhase(now)
	p.open = -1
	p.cur.total = now.Sub(p.tickAt)

	p.ring[p.next] = p.cur
	p.next = (p.next + 1) % len(p.ring)
	p.filled = min(p.filled+1, len(p.ring))
}

// Reset drops every recorded tick and the frame timing.
func (p *PerfCollector) Reset() {
	clear(p.ring)
	p.next, p.filled = 0, 0
	p.cur, p.open = tickSample{}, -1
	p.lastFrame, p.frame = time.Time{}, 0
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.open >= 0 {
		p.cur.phases[p.open] += now.Sub(p.phaseAt)
	}
}

// RecordFrame marks a presented frame. Called once per frame by the
// graphical host.
func (p *PerfCollector) RecordFrame() {
	now := p.now()
	if !p.lastFrame.IsZero() {
		p.frame = now.Sub(p.lastFrame)
	}
	p.lastFrame = now
}

// PerfStats aggregates the ring.
type PerfStats struct {
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration

	// Average duration and share of the average tick, keyed by phase name.
	PhaseAvg map[string]time.Duration
	PhasePct map[string]float64

	TicksPerSecond float64

	FrameDuration time.Duration
	FPS           float64
}

// Stats computes aggregates over the ticks currently in the ring.
func (p *PerfCollector) Stats() PerfStats {
	st := PerfStats{
		PhaseAvg:      make(map[string]time.Duration, numPhases),
		PhasePct:      make(map[string]float64, numPhases),
		FrameDuration: p.frame,
	}
	if p.frame > 0 {
		st.FPS = float64(time.Second) / float64(p.frame)
	}
	if p.filled == 0 {
		return st
	}

	var total time.Duration
	var sums [numPhases]time.Duration
	var ran uint16
	samples := p.ring[:p.filled]
	st.MinTickDuration = samples[0].total
	for i := range samples {
		s := &samples[i]
		total += s.total
		st.MinTickDuration = min(st.MinTickDuration, s.total)
		st.MaxTickDuration = max(st.MaxTickDuration, s.total)
		for j, d := range s.phases {
			sums[j] += d
		}
		ran |= s.ran
	}

	n := time.Duration(p.filled)
	st.AvgTickDuration = total / n
	if st.AvgTickDuration > 0 {
		st.TicksPerSecond = float64(time.Second) / float64(st.AvgTickDuration)
	}
	for j, name := range phases {
		if ran&(1<<j) == 0 {
			continue
		}
		avg := sums[j] / n
		st.PhaseAvg[name] = avg
		if st.AvgTickDuration > 0 {
			st.PhasePct[name] = float64(avg) / float64(st.AvgTickDuration) * 100
		}
	}
	return st
}

// LogStats logs one "perf" line. Phases under 0.1% are left out.
func (s PerfStats) LogStats(logger *slog.Logger) {
	attrs := []any{
		"avg_tick_us", s.AvgTickDuration.Microseconds(),
		"max_tick_us", s.MaxTickDuration.Microseconds(),
		"ticks_per_sec", int(s.TicksPerSecond),
	}
	if s.FPS > 0 {
		attrs = append(attrs, "fps", int(s.FPS))
	}
	for _, name := range phases {
		if pct := s.PhasePct[name]; pct > 0.1 {
			attrs = append(attrs, name+"_pct", float64(int(pct*10))/10)
		}
	}
	logger.Info("perf", attrs...)
}

// LogValue implements slog.LogValuer.
func (s PerfStats) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, 5+numPhases)
	attrs = append(attrs,
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("min_tick_us", s.MinTickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Float64("ticks_per_sec", s.TicksPerSecond),
	)
	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}
	for _, name := range phases {
		if pct, ok := s.PhasePct[name]; ok {
			attrs = append(attrs, slog.Float64(name+"_pct", pct))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is one perf.csv row.
type PerfStatsCSV struct {
	WindowEnd      uint64  `csv:"window_end"`
	AvgTickUS      int64   `csv:"avg_tick_us"`
	MinTickUS      int64   `csv:"min_tick_us"`
	MaxTickUS      int64   `csv:"max_tick_us"`
	TicksPerSec    float64 `csv:"ticks_per_sec"`
	FPS            float64 `csv:"fps"`
	InputPct       float64 `csv:"input_pct"`
	SpawnPct       float64 `csv:"spawn_pct"`
	BehaviorPct    float64 `csv:"behavior_pct"`
	PhysicsPct     float64 `csv:"physics_pct"`
	ProjectilesPct float64 `csv:"projectiles_pct"`
	CollisionPct   float64 `csv:"collision_pct"`
	DimensionPct   float64 `csv:"dimension_pct"`
	LifecyclePct   float64 `csv:"lifecycle_pct"`
	RenderPct      float64 `csv:"render_pct"`
}

// ToCSV flattens s into a row ending at tick windowEnd.
func (s PerfStats) ToCSV(windowEnd uint64) PerfStatsCSV {
	pct := s.PhasePct
	return PerfStatsCSV{
		WindowEnd:      windowEnd,
		AvgTickUS:      s.AvgTickDuration.Microseconds(),
		MinTickUS:      s.MinTickDuration.Microseconds(),
		MaxTickUS:      s.MaxTickDuration.Microseconds(),
		TicksPerSec:    s.TicksPerSecond,
		FPS:            s.FPS,
		InputPct:       pct[PhaseInput],
		SpawnPct:       pct[PhaseSpawn],
		BehaviorPct:    pct[PhaseBehavior],
		PhysicsPct:     pct[PhasePhysics],
		ProjectilesPct: pct[PhaseProjectiles],
		CollisionPct:   pct[PhaseCollision],
		DimensionPct:   pct[PhaseDimension],
		LifecyclePct:   pct[PhaseLifecycle],
		RenderPct:      pct[PhaseRender],
	}
}
