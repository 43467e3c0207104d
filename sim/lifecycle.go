package sim

import (
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/spectral/components"
	"github.com/pthm-cable/spectral/geom"
	"github.com/pthm-cable/spectral/systems"
)

// prune ticks lifetimes, fires portals and on-death effects, removes expired
// entities and then creates the deferred spawns.
func (s *Simulation) prune(f *systems.Frame) {
	// First pass: collect expired entities (must complete before modifying)
	var toRemove []ecs.Entity

	query := s.filter.Query()
	for query.Next() {
		pos, _, _, cmb, _, life, id := query.Get()
		if id.Kind == components.KindPlayer {
			continue
		}
		if life.Born < f.Now {
			life.Tick(f.DT)
		}
		if !life.Expired() {
			continue
		}
		toRemove = append(toRemove, query.Entity())

		switch {
		case id.Kind == components.KindPortal:
			s.pending = append(s.pending, systems.SpawnRequest{Archetype: id.Spawns, X: pos.X, Y: pos.Y, Counted: true})
			f.Emit.Emit(systems.EventPortal)

		case cmb.Dead && !cmb.EffectDone:
			cmb.EffectDone = true
			s.onDeath(pos, cmb, id)
		}
	}

	// Second pass: remove entities (query iteration complete)
	for _, e := range toRemove {
		s.world.RemoveEntity(e)
	}

	s.applySpawns(s.pending)
	s.pending = s.pending[:0]
}

// onDeath scores a kill and queues its on-death effect. Every on-death
// effect fires exactly once, guarded by Combat.EffectDone.
func (s *Simulation) onDeath(pos *components.Position, cmb *components.Combat, id *components.Identity) {
	if cmb.Team == components.TeamEnemy {
		s.state.Kills++
		s.state.Score += s.cfg.Scoring.KillScore * s.state.Multiplier
	}

	spawnsHazard := id.OnDeath.Kind == components.EffectSpawnHazard && id.OnDeath.Archetype != ""
	if (id.Kind.IsEnemy() || id.Kind.IsHazard()) && !spawnsHazard {
		s.state.Spawn.Live = max(s.state.Spawn.Live-1, 0)
	}

	if spawnsHazard {
		dir := geom.V(cmb.DeathX, cmb.DeathY)
		s.pending = append(s.pending, systems.SpawnRequest{
			Archetype: id.OnDeath.Archetype,
			X:         pos.X,
			Y:         pos.Y,
			Knock:     r2.Scale(s.cfg.Collision.DeathKnockback, dir),
			Counted:   true,
		})
	}
	if id.Kind.IsEnemy() && len(s.cfg.Spawn.BoxArchetypes) > 0 && s.rng.Float64() < s.cfg.Spawn.BoxChance {
		box := s.cfg.Spawn.BoxArchetypes[s.rng.IntN(len(s.cfg.Spawn.BoxArchetypes))]
		s.pending = append(s.pending, systems.SpawnRequest{Archetype: box, X: pos.X, Y: pos.Y})
	}

	s.logger.Debug("entity died",
		"id", id.ID,
		"archetype", id.Archetype,
		"effect", id.OnDeath.Archetype,
	)
}
