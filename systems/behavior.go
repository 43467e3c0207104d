package systems

import (
	"math"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/spectral/components"
	"github.com/pthm-cable/spectral/config"
	"github.com/pthm-cable/spectral/geom"
	"github.com/pthm-cable/spectral/traits"
)

// Shot is a request to fire at the player, produced by shooty entities.
type Shot struct {
	From      geom.Vec
	Dir       geom.Vec
	Team      components.Team
	Dimension components.Dimension
}

// BehaviorSystem picks AI targets and shots from behavior tags.
type BehaviorSystem struct {
	filter *ecs.Filter5[components.Position, components.Motion, components.Combat, components.Behavior, components.Identity]
	cfg    *config.AIConfig
	shots  []Shot
}

// NewBehaviorSystem creates a new behavior system.
func NewBehaviorSystem(w *ecs.World, cfg *config.AIConfig) *BehaviorSystem {
	return &BehaviorSystem{
		filter: ecs.NewFilter5[components.Position, components.Motion, components.Combat, components.Behavior, components.Identity](w),
		cfg:    cfg,
	}
}

// Update retargets every AI entity and returns the shots fired this tick.
// The returned slice is reused by the next call.
func (s *BehaviorSystem) Update(f *Frame) []Shot {
	s.shots = s.shots[:0]

	query := s.filter.Query()
	for query.Next() {
		pos, mot, cmb, beh, id := query.Get()
		if id.Kind == components.KindPlayer || id.Kind == components.KindPortal {
			continue
		}
		if beh.Tags.Immovable() || cmb.Dead {
			continue
		}

		here := geom.V(pos.X, pos.Y)
		s.retarget(f, here, mot, cmb, beh)
		s.shoot(f, here, cmb, beh)
	}
	return s.shots
}

// retarget applies the chase, avoid and wander rules in priority order.
func (s *BehaviorSystem) retarget(f *Frame, here geom.Vec, mot *components.Motion, cmb *components.Combat, beh *components.Behavior) {
	sameDim := cmb.Dimension == f.PlayerDim

	if beh.Tags.Has(traits.Chase) && sameDim {
		if f.Now >= mot.NextDecision {
			offset := geom.FromAngle(f.Rand.Float64() * 2 * math.Pi)
			target := r2.Add(f.PlayerPos, r2.Scale(beh.Strafe, offset))
			mot.TargetX, mot.TargetY = target.X, target.Y
			mot.HasTarget = true
			mot.Speed = s.cfg.ChaseSpeed
			mot.NextDecision = f.Now + s.cfg.ChaseRetargetMS
		}
		return
	}

	if beh.Tags.Has(traits.Avoid) && sameDim {
		if geom.Distance(here, f.PlayerPos) < s.cfg.AvoidRadius {
			away, ok := geom.Direction(f.PlayerPos, here)
			if !ok {
				away = geom.RandomUnit(f.Rand)
			}
			target := r2.Add(here, r2.Scale(s.cfg.AvoidDistance, away))
			mot.TargetX, mot.TargetY = target.X, target.Y
			mot.HasTarget = true
			mot.Speed = s.cfg.AvoidSpeed
			// Out of range the entity wanders again without waiting.
			mot.NextDecision = f.Now
			return
		}
	}

	if beh.Tags.Has(traits.Wander) && f.Now >= mot.NextDecision {
		dir := geom.RandomUnit(f.Rand)
		dist := uniform(f.Rand, s.cfg.WanderMin, s.cfg.WanderMax)
		target := r2.Add(here, r2.Scale(dist, dir))
		mot.TargetX, mot.TargetY = target.X, target.Y
		mot.HasTarget = true
		mot.Speed = s.cfg.WanderSpeed
		mot.NextDecision = f.Now + s.cfg.WanderMS
	}
}

// shoot fires at the player when in range, in the active dimension and off cooldown.
func (s *BehaviorSystem) shoot(f *Frame, here geom.Vec, cmb *components.Combat, beh *components.Behavior) {
	if !beh.Tags.Has(traits.Shooty) || cmb.Dimension != f.Phase {
		return
	}
	if f.Now < beh.NextShot || geom.Distance(here, f.PlayerPos) > s.cfg.ShootRange {
		return
	}
	dir, ok := geom.Direction(here, f.PlayerPos)
	if !ok {
		return
	}
	s.shots = append(s.shots, Shot{From: here, Dir: dir, Team: cmb.Team, Dimension: cmb.Dimension})
	beh.NextShot = f.Now + s.cfg.ShootCooldownMS
}
