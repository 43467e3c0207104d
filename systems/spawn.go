package systems

import (
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/spectral/components"
	"github.com/pthm-cable/spectral/config"
	"github.com/pthm-cable/spectral/geom"
)

// SpawnRequest asks the simulation to create an entity.
type SpawnRequest struct {
	Archetype string
	X, Y      float64
	ViaPortal bool     // Create a timed portal that spawns the archetype later
	Knock     geom.Vec // Initial knockback (on-death hazards)
	Counted   bool     // Already added to the live-enemy counter
}

// SpawnState is the spawn director's persistent state.
type SpawnState struct {
	NextSpawn int64 `json:"next_spawn"`
	Live      int   `json:"live"` // Live enemies and hazards, including pending portals
	Spawned   int   `json:"spawned"`
	Rejected  int   `json:"rejected"`
}

// SpawnDirector schedules waves and places them away from existing entities.
type SpawnDirector struct {
	cfg    *config.SpawnConfig
	filter *ecs.Filter4[components.Position, components.Body, components.Lifetime, components.Identity]

	occupied []circle
	requests []SpawnRequest
}

type circle struct {
	pos geom.Vec
	r   float64
}

// NewSpawnDirector creates a new spawn director.
func NewSpawnDirector(w *ecs.World, cfg *config.SpawnConfig) *SpawnDirector {
	return &SpawnDirector{
		cfg:    cfg,
		filter: ecs.NewFilter4[components.Position, components.Body, components.Lifetime, components.Identity](w),
	}
}

// Start schedules the first wave.
func (d *SpawnDirector) Start(st *SpawnState, now int64) {
	st.NextSpawn = now + d.cfg.InitialDelayMS
}

// WaveSize returns the number of spawns attempted per wave at a difficulty level.
func (d *SpawnDirector) WaveSize(level int) int {
	n := 1 + level/max(d.cfg.WaveGrowthEvery, 1)
	return min(n, max(d.cfg.MaxWave, 1))
}

// Interval returns the delay before the next wave, excluding jitter.
func (d *SpawnDirector) Interval(level, live int) int64 {
	iv := float64(d.cfg.BaseIntervalMS) * math.Pow(d.cfg.IntervalDecay, float64(level))
	if live < d.cfg.RampThreshold {
		iv *= d.cfg.RampFactor
	}
	return max(int64(iv), d.cfg.MinIntervalMS)
}

// Update runs a wave when due and returns the accepted spawn requests.
// A wave with no valid placement spawns nothing but is still rescheduled.
// The returned slice is reused by the next call.
func (d *SpawnDirector) Update(f *Frame, st *SpawnState, level int) []SpawnRequest {
	d.requests = d.requests[:0]
	if f.Now < st.NextSpawn {
		return d.requests
	}

	d.snapshotOccupied()
	for i := d.WaveSize(level); i > 0; i-- {
		p, ok := d.place(f)
		if !ok {
			st.Rejected++
			f.emit(EventRejected)
			continue
		}
		d.occupied = append(d.occupied, circle{pos: p})
		d.requests = append(d.requests, SpawnRequest{
			Archetype: d.pick(f),
			X:         p.X,
			Y:         p.Y,
			ViaPortal: d.cfg.UsePortals,
			Counted:   true,
		})
		st.Live++
		st.Spawned++
		f.emit(EventSpawn)
	}

	st.NextSpawn = f.Now + d.Interval(level, st.Live) + jitterMS(f.Rand, d.cfg.JitterMS)
	return d.requests
}

// snapshotOccupied records the circles of every live entity, portals included.
func (d *SpawnDirector) snapshotOccupied() {
	d.occupied = d.occupied[:0]
	query := d.filter.Query()
	for query.Next() {
		pos, body, life, id := query.Get()
		if life.Expired() {
			continue
		}
		r := body.Radius()
		if id.Kind == components.KindPortal {
			r = max(r, d.cfg.PortalRadius)
		}
		d.occupied = append(d.occupied, circle{pos: geom.V(pos.X, pos.Y), r: r})
	}
}

// place tries up to PlacementTrials random points inside the margin.
func (d *SpawnDirector) place(f *Frame) (geom.Vec, bool) {
	m := d.cfg.Margin
	for trial := 0; trial < d.cfg.PlacementTrials; trial++ {
		p := geom.V(
			uniform(f.Rand, m, f.Bounds.Width-m),
			uniform(f.Rand, m, f.Bounds.Height-m),
		)
		if d.clear(p) {
			return p, true
		}
	}
	return geom.Vec{}, false
}

// clear reports whether no occupied circle overlaps the clearance around p.
func (d *SpawnDirector) clear(p geom.Vec) bool {
	for _, c := range d.occupied {
		if geom.CirclesOverlap(p, d.cfg.Clearance, c.pos, c.r) {
			return false
		}
	}
	return true
}

// pick chooses a hazard or a weighted enemy archetype.
func (d *SpawnDirector) pick(f *Frame) string {
	if f.Rand.Float64() < d.cfg.HazardChance {
		return d.cfg.HazardArchetype
	}
	names := d.cfg.EnemyArchetypes
	weights := d.cfg.EnemyWeights
	total := 0
	for _, w := range weights {
		total += w
	}
	if total <= 0 || len(weights) != len(names) {
		return names[f.Rand.IntN(len(names))]
	}
	r := f.Rand.IntN(total)
	for i, w := range weights {
		if r < w {
			return names[i]
		}
		r -= w
	}
	return names[len(names)-1]
}
