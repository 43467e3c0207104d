package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/spectral/components"
	"github.com/pthm-cable/spectral/config"
)

// HatchSystem grows the returnHp counter of hazards and converts them into
// enemies at their archetype's threshold.
type HatchSystem struct {
	cfg      *config.Config
	filter   *ecs.Filter4[components.Position, components.Combat, components.Lifetime, components.Identity]
	requests []SpawnRequest
}

// NewHatchSystem creates a new hatch system.
func NewHatchSystem(w *ecs.World, cfg *config.Config) *HatchSystem {
	return &HatchSystem{
		cfg:    cfg,
		filter: ecs.NewFilter4[components.Position, components.Combat, components.Lifetime, components.Identity](w),
	}
}

// Update counts hatch progress outside SPECTRAL and returns the enemies to
// spawn in place of hatched hazards. The returned slice is reused by the
// next call.
func (s *HatchSystem) Update(f *Frame) []SpawnRequest {
	s.requests = s.requests[:0]
	if f.Phase == components.Spectral {
		return s.requests
	}

	query := s.filter.Query()
	for query.Next() {
		pos, cmb, life, id := query.Get()
		if !id.Kind.IsHazard() || cmb.Dead || life.Expired() {
			continue
		}
		arch, _, ok := s.cfg.Archetype(id.Archetype)
		if !ok || arch.HatchInto == "" || arch.HatchThreshold <= 0 {
			continue
		}
		if f.Now < life.NextHatch {
			continue
		}

		life.ReturnHp++
		life.NextHatch = f.Now + arch.HatchIntervalMS
		if life.ReturnHp < arch.HatchThreshold {
			continue
		}

		life.Kill()
		s.requests = append(s.requests, SpawnRequest{
			Archetype: arch.HatchInto,
			X:         pos.X,
			Y:         pos.Y,
			Counted:   true,
		})
		f.emit(EventRespawn)
	}
	return s.requests
}
