package sim

import (
	"fmt"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/spectral/components"
	"github.com/pthm-cable/spectral/geom"
	"github.com/pthm-cable/spectral/systems"
	"github.com/pthm-cable/spectral/traits"
)

// newEntity adds an entity with the full component set.
func (s *Simulation) newEntity(pos components.Position, body components.Body, mot components.Motion, cmb components.Combat, beh components.Behavior, life components.Lifetime, id components.Identity) ecs.Entity {
	s.nextID++
	id.ID = s.nextID
	life.Born = s.lastNow
	return s.mapper.NewEntity(&pos, &body, &mot, &cmb, &beh, &life, &id)
}

// spawnPlayer creates the player from the player config.
func (s *Simulation) spawnPlayer() ecs.Entity {
	pc := &s.cfg.Player
	return s.newEntity(
		components.Position{X: pc.X, Y: pc.Y},
		components.Body{W: pc.Width, H: pc.Height},
		components.Motion{},
		components.Combat{Team: components.TeamPlayer, Dimension: components.Physical},
		components.Behavior{},
		components.Lifetime{TTL: components.Forever},
		components.Identity{Kind: components.KindPlayer, Role: pc.Role, PerDimension: true},
	)
}

// spawnArchetype creates a non-player entity from an archetype.
func (s *Simulation) spawnArchetype(name string, x, y float64, knock geom.Vec) (ecs.Entity, error) {
	arch, tags, ok := s.cfg.Archetype(name)
	if !ok {
		return ecs.Entity{}, fmt.Errorf("unknown archetype %q", name)
	}
	kind, err := components.ParseKind(arch.Kind)
	if err != nil {
		return ecs.Entity{}, err
	}
	dim, err := components.ParseDimension(arch.Dimension)
	if err != nil {
		return ecs.Entity{}, err
	}
	team, err := components.ParseTeam(arch.Team)
	if err != nil {
		return ecs.Entity{}, err
	}

	// Spawn points derived from other entities may sit closer to the edge
	// than this body allows.
	c := geom.ClampCircle(geom.V(x, y), arch.Width/2, s.bounds.Width, s.bounds.Height)
	x, y = c.X, c.Y

	now := s.lastNow
	mot := components.Motion{KnockX: knock.X, KnockY: knock.Y}
	if tags.Any(traits.Chase | traits.Avoid | traits.Wander) {
		// Hold position until the first AI decision.
		mot.TargetX, mot.TargetY = x, y
		mot.HasTarget = true
		mot.Speed = arch.Speed
		mot.NextDecision = now
	}

	beh := components.Behavior{Tags: tags, Strafe: arch.Strafe}
	if tags.Has(traits.Shooty) {
		beh.NextShot = now + s.cfg.AI.ShootCooldownMS
	}

	life := components.Lifetime{TTL: components.Forever}
	if arch.HatchThreshold > 0 {
		life.NextHatch = now + arch.HatchIntervalMS
	}

	id := components.Identity{
		Kind:         kind,
		Archetype:    arch.Name,
		Role:         arch.Role,
		PerDimension: arch.PerDimension,
		MainWeapon:   arch.MainWeapon,
		SubWeapon:    arch.SubWeapon,
	}
	if arch.OnDeath != "" {
		id.OnDeath = components.Effect{Kind: components.EffectSpawnHazard, Archetype: arch.OnDeath}
	}

	e := s.newEntity(
		components.Position{X: x, Y: y},
		components.Body{W: arch.Width, H: arch.Height},
		mot,
		components.Combat{Team: team, Dimension: dim, HP: arch.HP, HasHP: arch.HP > 0},
		beh,
		life,
		id,
	)
	s.logger.Debug("spawned", "archetype", name, "x", x, "y", y)
	return e, nil
}

// spawnPortal creates a timed portal that spawns the archetype on expiry.
func (s *Simulation) spawnPortal(archetype string, x, y float64, delayMS int64) (ecs.Entity, error) {
	if _, _, ok := s.cfg.Archetype(archetype); !ok {
		return ecs.Entity{}, fmt.Errorf("unknown portal archetype %q", archetype)
	}
	d := 2 * s.cfg.Spawn.PortalRadius
	c := geom.ClampCircle(geom.V(x, y), d/2, s.bounds.Width, s.bounds.Height)
	x, y = c.X, c.Y
	return s.newEntity(
		components.Position{X: x, Y: y},
		components.Body{W: d, H: d},
		components.Motion{},
		components.Combat{Team: components.TeamEnemy, Dimension: components.Physical},
		components.Behavior{Tags: traits.Static},
		components.Lifetime{TTL: delayMS, Span: delayMS},
		components.Identity{Kind: components.KindPortal, Role: s.cfg.Spawn.PortalRole, Spawns: archetype},
	), nil
}

// counts reports whether an archetype is tracked by the live-enemy counter.
func (s *Simulation) counts(name string) bool {
	arch, _, ok := s.cfg.Archetype(name)
	if !ok {
		return false
	}
	kind, err := components.ParseKind(arch.Kind)
	return err == nil && (kind.IsEnemy() || kind.IsHazard())
}

// applySpawns creates the requested entities. Must not run while a query is open.
func (s *Simulation) applySpawns(reqs []systems.SpawnRequest) {
	for _, r := range reqs {
		var err error
		if r.ViaPortal {
			_, err = s.spawnPortal(r.Archetype, r.X, r.Y, s.cfg.Spawn.PortalMS)
		} else {
			_, err = s.spawnArchetype(r.Archetype, r.X, r.Y, r.Knock)
		}
		if err != nil {
			// Archetype names are validated with the config; this is a bug.
			s.logger.Error("spawn failed", "archetype", r.Archetype, "error", err)
			if r.Counted {
				s.state.Spawn.Live = max(s.state.Spawn.Live-1, 0)
			}
		}
	}
}

// SpawnAt creates an archetype entity immediately, outside the spawn
// director. It returns the entity's stable id.
func (s *Simulation) SpawnAt(archetype string, x, y float64) (uint64, error) {
	e, err := s.spawnArchetype(archetype, x, y, geom.Vec{})
	if err != nil {
		return 0, err
	}
	if s.counts(archetype) {
		s.state.Spawn.Live++
	}
	return s.idMap.Get(e).ID, nil
}
