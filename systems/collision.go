package systems

import (
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/spectral/components"
	"github.com/pthm-cable/spectral/config"
	"github.com/pthm-cable/spectral/geom"
	"github.com/pthm-cable/spectral/traits"
)

// Pickup records a weapon box the player touched.
type Pickup struct {
	MainWeapon string
	SubWeapon  string
}

// CollisionReport summarizes player contacts resolved in one tick.
type CollisionReport struct {
	PlayerHit bool // Lethal contact with a physical enemy
	Collected int  // Hazards absorbed while spectral
	Strikes   int  // Spectral strikes on physical enemies
	Kills     int
	Pickups   []Pickup
}

// CollisionSystem resolves separation, player contacts and bounds clamping.
type CollisionSystem struct {
	world   *ecs.World
	filter  *ecs.Filter4[components.Position, components.Body, components.Lifetime, components.Identity]
	posMap  *ecs.Map1[components.Position]
	bodyMap *ecs.Map1[components.Body]
	motMap  *ecs.Map1[components.Motion]
	cmbMap  *ecs.Map1[components.Combat]
	behMap  *ecs.Map1[components.Behavior]
	lifeMap *ecs.Map1[components.Lifetime]
	idMap   *ecs.Map1[components.Identity]

	cfg       *config.CollisionConfig
	grid      *SpatialGrid
	bounds    Bounds
	neighbors []Neighbor
	report    CollisionReport
}

// NewCollisionSystem creates a collision system for the given world bounds.
func NewCollisionSystem(w *ecs.World, bounds Bounds, cfg *config.CollisionConfig) *CollisionSystem {
	return &CollisionSystem{
		world:   w,
		filter:  ecs.NewFilter4[components.Position, components.Body, components.Lifetime, components.Identity](w),
		posMap:  ecs.NewMap1[components.Position](w),
		bodyMap: ecs.NewMap1[components.Body](w),
		motMap:  ecs.NewMap1[components.Motion](w),
		cmbMap:  ecs.NewMap1[components.Combat](w),
		behMap:  ecs.NewMap1[components.Behavior](w),
		lifeMap: ecs.NewMap1[components.Lifetime](w),
		idMap:   ecs.NewMap1[components.Identity](w),
		cfg:     cfg,
		grid:    NewSpatialGrid(bounds.Width, bounds.Height, cfg.GridCellSize),
		bounds:  bounds,
	}
}

// Resize rebuilds the grid for new world bounds.
func (s *CollisionSystem) Resize(bounds Bounds) {
	s.bounds = bounds
	s.grid = NewSpatialGrid(bounds.Width, bounds.Height, s.cfg.GridCellSize)
}

// Update runs separation, player contacts and clamping, in that order.
// The returned report is reused by the next call.
func (s *CollisionSystem) Update(f *Frame) *CollisionReport {
	s.report = CollisionReport{Pickups: s.report.Pickups[:0]}

	s.rebuildGrid()
	s.separate(f)
	if f.Player != (ecs.Entity{}) && s.world.Alive(f.Player) && s.posMap.HasAll(f.Player) {
		s.playerContacts(f)
	}
	s.clamp()

	return &s.report
}

// rebuildGrid inserts every collidable live entity.
func (s *CollisionSystem) rebuildGrid() {
	s.grid.Clear()
	query := s.filter.Query()
	for query.Next() {
		pos, body, life, id := query.Get()
		if id.Kind == components.KindPortal || life.Expired() {
			continue
		}
		s.grid.Insert(query.Entity(), pos.X, pos.Y, body.Radius())
	}
}

// collidable reports whether e takes part in contact tests.
func (s *CollisionSystem) collidable(e ecs.Entity) bool {
	id := s.idMap.Get(e)
	return id.Kind != components.KindPortal && !s.lifeMap.Get(e).Expired()
}

// separate pushes each pushable entity away from the first same-dimension
// entity it overlaps by a fixed step.
func (s *CollisionSystem) separate(f *Frame) {
	step := s.cfg.SeparationStep
	query := s.filter.Query()
	for query.Next() {
		pos, body, life, id := query.Get()
		e := query.Entity()
		if id.Kind == components.KindPlayer || id.Kind == components.KindPortal || life.Expired() {
			continue
		}
		if s.behMap.Get(e).Tags.Immovable() {
			continue
		}
		dim := s.cmbMap.Get(e).Dimension
		r := body.Radius()

		s.neighbors = s.grid.QueryRadiusInto(s.neighbors[:0], pos.X, pos.Y, r+s.grid.MaxRadius(), e, s.posMap)
		for _, n := range s.neighbors {
			if n.E == f.Player || !s.collidable(n.E) || s.cmbMap.Get(n.E).Dimension != dim {
				continue
			}
			other := s.posMap.Get(n.E)
			ro := s.bodyMap.Get(n.E).Radius()
			if !geom.CirclesOverlap(geom.V(pos.X, pos.Y), r, geom.V(other.X, other.Y), ro) {
				continue
			}
			away, ok := geom.Direction(geom.V(other.X, other.Y), geom.V(pos.X, pos.Y))
			if ok {
				pos.X += away.X * step
				pos.Y += away.Y * step
			}
			break
		}
	}
}

// playerContacts applies the dimension-dependent contact rules.
func (s *CollisionSystem) playerContacts(f *Frame) {
	ppos := s.posMap.Get(f.Player)
	pr := s.bodyMap.Get(f.Player).Radius()
	pdim := s.cmbMap.Get(f.Player).Dimension
	display := pdim.Display()

	s.neighbors = s.grid.QueryRadiusInto(s.neighbors[:0], ppos.X, ppos.Y, pr+s.grid.MaxRadius(), f.Player, s.posMap)
	for _, n := range s.neighbors {
		if !s.collidable(n.E) {
			continue
		}
		opos := s.posMap.Get(n.E)
		ro := s.bodyMap.Get(n.E).Radius()
		here := geom.V(ppos.X, ppos.Y)
		there := geom.V(opos.X, opos.Y)
		if !geom.CirclesOverlap(here, pr, there, ro) {
			continue
		}

		id := s.idMap.Get(n.E)
		cmb := s.cmbMap.Get(n.E)
		beh := s.behMap.Get(n.E)
		life := s.lifeMap.Get(n.E)

		switch {
		case beh.Tags.Has(traits.Wall) && cmb.Dimension == display:
			// Walls block the player.
			away, ok := geom.Direction(there, here)
			if !ok {
				away = geom.V(1, 0)
			}
			pushed := r2.Add(there, r2.Scale(pr+ro, away))
			ppos.X, ppos.Y = pushed.X, pushed.Y

		case pdim == components.Physical && id.Kind == components.KindBox && cmb.Dimension == components.Physical:
			s.report.Pickups = append(s.report.Pickups, Pickup{MainWeapon: id.MainWeapon, SubWeapon: id.SubWeapon})
			life.Kill()
			f.emit(EventPickup)

		case pdim == components.Physical && id.Kind.IsEnemy() && cmb.Dimension == components.Physical && !cmb.Dead:
			if !f.Invulnerable {
				s.report.PlayerHit = true
			}

		case pdim == components.Spectral && id.Kind.IsHazard() && cmb.Dimension == components.Spectral && !cmb.Dead:
			life.Kill()
			s.report.Collected++
			f.emit(EventCollect)

		case pdim == components.Spectral && id.Kind.IsEnemy() && cmb.Dimension == components.Physical && !cmb.Dead:
			s.strike(f, n.E, here, there, cmb, beh, life)
		}
	}
}

// strike damages and knocks back a physical enemy touched by the spectral
// player. The hit flash doubles as invulnerability frames.
func (s *CollisionSystem) strike(f *Frame, e ecs.Entity, here, there geom.Vec, cmb *components.Combat, beh *components.Behavior, life *components.Lifetime) {
	if cmb.Flashing(f.Now) {
		return
	}
	dir, ok := geom.Direction(here, there)
	if !ok {
		dir = geom.RandomUnit(f.Rand)
	}

	s.report.Strikes++
	Knock(s.motMap.Get(e), beh, dir, s.cfg.StrikeKnockback)
	if beh.Tags.Has(traits.Melee) {
		pmot := s.motMap.Get(f.Player)
		pmot.KnockX -= dir.X * s.cfg.StrikeKnockback
		pmot.KnockY -= dir.Y * s.cfg.StrikeKnockback
	}

	f.emit(EventHit)
	if damage(cmb, life, s.cfg.StrikeDamage, f.Now, s.cfg.HitFlashMS, dir) {
		s.report.Kills++
		f.emit(EventExplosion)
	}
}

// clamp keeps every bounding circle inside the world rectangle.
func (s *CollisionSystem) clamp() {
	query := s.filter.Query()
	for query.Next() {
		pos, body, _, _ := query.Get()
		c := geom.ClampCircle(geom.V(pos.X, pos.Y), body.Radius(), s.bounds.Width, s.bounds.Height)
		pos.X, pos.Y = c.X, c.Y
	}
}
