package systems

import (
	"math"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/spectral/components"
	"github.com/pthm-cable/spectral/config"
	"github.com/pthm-cable/spectral/geom"
	"github.com/pthm-cable/spectral/pool"
	"github.com/pthm-cable/spectral/traits"
)

// ProjectileReport summarizes projectile resolution in one tick.
type ProjectileReport struct {
	PlayerHit bool // Enemy bullet hit the player in its dimension
	Hits      int
	Kills     int
	Absorbed  int // Bullets stopped by walls
	Expired   int
}

// ProjectileSystem fires, moves and resolves pooled projectiles.
type ProjectileSystem struct {
	pool   *pool.Pool[components.Projectile]
	filter *ecs.Filter6[components.Position, components.Body, components.Combat, components.Behavior, components.Lifetime, components.Identity]

	projCfg *config.ProjectileConfig
	colCfg  *config.CollisionConfig
	bounds  Bounds

	targets []target
	report  ProjectileReport
}

type target struct {
	pos  geom.Vec
	r    float64
	wall bool
	cmb  *components.Combat
	life *components.Lifetime
}

// NewProjectileSystem creates a projectile system around the given pool.
func NewProjectileSystem(w *ecs.World, p *pool.Pool[components.Projectile], bounds Bounds, projCfg *config.ProjectileConfig, colCfg *config.CollisionConfig) *ProjectileSystem {
	return &ProjectileSystem{
		pool:    p,
		filter:  ecs.NewFilter6[components.Position, components.Body, components.Combat, components.Behavior, components.Lifetime, components.Identity](w),
		projCfg: projCfg,
		colCfg:  colCfg,
		bounds:  bounds,
	}
}

// Pool returns the projectile pool.
func (s *ProjectileSystem) Pool() *pool.Pool[components.Projectile] { return s.pool }

// SetPool replaces the projectile pool, used when restoring a snapshot.
func (s *ProjectileSystem) SetPool(p *pool.Pool[components.Projectile]) { s.pool = p }

// Resize updates the bounds used to discard stray projectiles.
func (s *ProjectileSystem) Resize(b Bounds) { s.bounds = b }

// Fire spawns the bullets of one weapon shot. side offsets the muzzle
// perpendicular to dir by the weapon's side offset (+1 right, -1 left, 0 none).
// It returns the number of bullets placed; bullets rejected by a bounded pool
// are dropped.
func (s *ProjectileSystem) Fire(f *Frame, from, dir geom.Vec, w *config.WeaponConfig, team components.Team, dim components.Dimension, side float64) int {
	if w.SideOffset != 0 && side != 0 {
		perp := geom.V(-dir.Y, dir.X)
		from = r2.Add(from, r2.Scale(w.SideOffset*side, perp))
	}

	n := max(w.Bullets, 1)
	base := math.Atan2(dir.Y, dir.X)
	placed := 0
	for i := 0; i < n; i++ {
		angle := base
		if n > 1 {
			angle += -w.Spread/2 + w.Spread*float64(i)/float64(n-1)
		}
		_, b, err := s.pool.Acquire()
		if err != nil {
			f.emit(EventDropped)
			continue
		}
		v := r2.Scale(w.BulletSpeed, geom.FromAngle(angle))
		*b = components.Projectile{
			X: from.X, Y: from.Y,
			PrevX: from.X, PrevY: from.Y,
			VX: v.X, VY: v.Y,
			Radius:    s.projCfg.Width / 2,
			Team:      team,
			Dimension: dim,
			TTL:       s.projCfg.TTLMS,
			Damage:    max(w.Damage, 1),
		}
		placed++
	}
	if placed > 0 {
		f.emit(EventShoot)
	}
	return placed
}

// Update moves every projectile and resolves swept hits. Projectiles that
// hit, expire or leave the world are released to the pool.
func (s *ProjectileSystem) Update(f *Frame) *ProjectileReport {
	s.report = ProjectileReport{}
	if s.pool.Active() == 0 {
		return &s.report
	}
	s.collectTargets(f)

	var player *target
	for i := range s.targets {
		if s.targets[i].cmb.Team == components.TeamPlayer {
			player = &s.targets[i]
			break
		}
	}

	s.pool.Each(func(idx int, b *components.Projectile) {
		b.PrevX, b.PrevY = b.X, b.Y
		b.X += b.VX
		b.Y += b.VY
		b.TTL -= f.DT

		if s.resolve(f, b, player) {
			s.pool.Release(idx)
			return
		}
		if b.TTL <= 0 || s.outside(b) {
			s.report.Expired++
			s.pool.Release(idx)
		}
	})
	return &s.report
}

// collectTargets snapshots every live entity a projectile could hit.
func (s *ProjectileSystem) collectTargets(f *Frame) {
	s.targets = s.targets[:0]
	query := s.filter.Query()
	for query.Next() {
		pos, body, cmb, beh, life, id := query.Get()
		if life.Expired() || cmb.Dead || id.Kind == components.KindPortal {
			continue
		}
		wall := beh.Tags.Has(traits.Wall)
		if !cmb.HasHP && !wall && id.Kind != components.KindPlayer {
			continue
		}
		s.targets = append(s.targets, target{
			pos: geom.V(pos.X, pos.Y), r: body.Radius(), wall: wall,
			cmb: cmb, life: life,
		})
	}
}

// resolve finds the earliest target along the bullet's path this tick and
// applies the hit. It returns true when the bullet was consumed.
func (s *ProjectileSystem) resolve(f *Frame, b *components.Projectile, player *target) bool {
	from := geom.V(b.PrevX, b.PrevY)
	to := geom.V(b.X, b.Y)

	best := -1
	bestT := math.Inf(1)
	for i := range s.targets {
		tg := &s.targets[i]
		if tg.cmb.Dimension != b.Dimension || tg.life.Expired() {
			continue
		}
		if !tg.wall && tg.cmb.Team == b.Team {
			continue
		}
		if tg == player && f.Invulnerable {
			continue
		}
		t, d := geom.SegmentClosest(from, to, tg.pos)
		if d < tg.r+b.Radius && t < bestT {
			best, bestT = i, t
		}
	}
	if best < 0 {
		return false
	}

	tg := &s.targets[best]
	switch {
	case tg.wall:
		s.report.Absorbed++
	case tg == player:
		s.report.PlayerHit = true
		f.emit(EventHit)
	default:
		s.report.Hits++
		dir, ok := geom.Unit(geom.V(b.VX, b.VY))
		if !ok {
			dir = geom.V(0, 0)
		}
		f.emit(EventHit)
		if damage(tg.cmb, tg.life, b.Damage, f.Now, s.colCfg.HitFlashMS, dir) {
			s.report.Kills++
			f.emit(EventExplosion)
		}
	}
	return true
}

// outside reports whether the bullet's circle left the world rectangle.
func (s *ProjectileSystem) outside(b *components.Projectile) bool {
	return b.X-b.Radius < 0 || b.Y-b.Radius < 0 ||
		b.X+b.Radius > s.bounds.Width || b.Y+b.Radius > s.bounds.Height
}
