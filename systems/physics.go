package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/spectral/components"
	"github.com/pthm-cable/spectral/geom"
)

// PhysicsSystem integrates player velocity, knockback and target seeking.
type PhysicsSystem struct {
	filter *ecs.Filter4[components.Position, components.Motion, components.Behavior, components.Identity]
	decay  float64
}

// NewPhysicsSystem creates a new physics system.
func NewPhysicsSystem(w *ecs.World, knockbackDecay float64) *PhysicsSystem {
	return &PhysicsSystem{
		filter: ecs.NewFilter4[components.Position, components.Motion, components.Behavior, components.Identity](w),
		decay:  knockbackDecay,
	}
}

// Update runs the physics system.
func (s *PhysicsSystem) Update(f *Frame) {
	query := s.filter.Query()
	for query.Next() {
		pos, mot, beh, id := query.Get()

		if beh.Tags.Immovable() || id.Kind == components.KindPortal {
			mot.KnockX, mot.KnockY = 0, 0
			continue
		}

		// Direct velocity (player input)
		pos.X += mot.VX
		pos.Y += mot.VY

		// Knockback decays geometrically
		if mot.KnockX != 0 || mot.KnockY != 0 {
			pos.X += mot.KnockX
			pos.Y += mot.KnockY
			mot.KnockX = decayTiny(mot.KnockX * s.decay)
			mot.KnockY = decayTiny(mot.KnockY * s.decay)
		}

		if mot.HasTarget {
			next := geom.StepToward(geom.V(pos.X, pos.Y), geom.V(mot.TargetX, mot.TargetY), mot.Speed)
			pos.X, pos.Y = next.X, next.Y
		}
	}
}

// Knock adds a knockback impulse to an entity unless it is immovable.
func Knock(mot *components.Motion, beh *components.Behavior, dir geom.Vec, strength float64) {
	if beh.Tags.Immovable() {
		return
	}
	mot.KnockX += dir.X * strength
	mot.KnockY += dir.Y * strength
}
