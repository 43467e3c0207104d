package systems

import (
	"math"
	"testing"

	"github.com/pthm-cable/spectral/components"
	"github.com/pthm-cable/spectral/config"
	"github.com/pthm-cable/spectral/geom"
	"github.com/pthm-cable/spectral/pool"
)

func newProjectileSystem(fx *fixture, capacity int) *ProjectileSystem {
	return NewProjectileSystem(fx.world, pool.New[components.Projectile](capacity), Bounds{Width: 640, Height: 480}, &fx.cfg.Projectile, &fx.cfg.Collision)
}

func (fx *fixture) weapon(t *testing.T, name string) *config.WeaponConfig {
	t.Helper()
	w, ok := fx.cfg.Weapon(name)
	if !ok {
		t.Fatalf("weapon %q missing from defaults", name)
	}
	return w
}

func bullets(s *ProjectileSystem) []components.Projectile {
	var out []components.Projectile
	s.Pool().Each(func(_ int, b *components.Projectile) { out = append(out, *b) })
	return out
}

func TestFireSpreadAndSideOffset(t *testing.T) {
	fx := newFixture(t)
	player := fx.addPlayer(100, 100, components.Physical)
	sys := newProjectileSystem(fx, 0)
	f := fx.frame(player, 0)

	spread := fx.weapon(t, "spread")
	if n := sys.Fire(&f, geom.V(100, 100), geom.V(1, 0), spread, components.TeamPlayer, components.Physical, 0); n != 3 {
		t.Fatalf("spread placed %d bullets, want 3", n)
	}
	bs := bullets(sys)
	wantAngles := []float64{-spread.Spread / 2, 0, spread.Spread / 2}
	for i, b := range bs {
		if got := math.Atan2(b.VY, b.VX); math.Abs(got-wantAngles[i]) > 1e-9 {
			t.Errorf("bullet %d angle = %v, want %v", i, got, wantAngles[i])
		}
		if b.TTL != fx.cfg.Projectile.TTLMS || b.Radius != fx.cfg.Projectile.Width/2 {
			t.Errorf("bullet %d ttl %d radius %v", i, b.TTL, b.Radius)
		}
	}

	sys = newProjectileSystem(fx, 0)
	twin := fx.weapon(t, "twin")
	sys.Fire(&f, geom.V(100, 100), geom.V(1, 0), twin, components.TeamPlayer, components.Physical, 1)
	b := bullets(sys)[0]
	if b.X != 100 || b.Y != 100+twin.SideOffset {
		t.Errorf("twin muzzle at (%v, %v), want (100, %v)", b.X, b.Y, 100+twin.SideOffset)
	}
	if fx.count(EventShoot) != 2 {
		t.Errorf("shoot events = %d, want 2", fx.count(EventShoot))
	}
}

func TestFireBoundedPoolDrops(t *testing.T) {
	fx := newFixture(t)
	player := fx.addPlayer(100, 100, components.Physical)
	sys := newProjectileSystem(fx, 2)
	f := fx.frame(player, 0)

	if n := sys.Fire(&f, geom.V(100, 100), geom.V(1, 0), fx.weapon(t, "spread"), components.TeamPlayer, components.Physical, 0); n != 2 {
		t.Errorf("placed %d, want 2", n)
	}
	if fx.count(EventDropped) != 1 || sys.Pool().Stats().Dropped != 1 {
		t.Errorf("dropped events %d stats %d", fx.count(EventDropped), sys.Pool().Stats().Dropped)
	}
}

func TestProjectileHitsEarliestTargetInDimension(t *testing.T) {
	fx := newFixture(t)
	player := fx.addPlayer(100, 100, components.Physical)
	ghost := fx.add(entitySpec{kind: components.KindGhostFire, x: 105, y: 100, dim: components.Spectral, hp: 1})
	far := fx.add(entitySpec{kind: components.KindBasicEnemy, x: 118, y: 100, hp: 3})
	near := fx.add(entitySpec{kind: components.KindBasicEnemy, x: 112, y: 101, hp: 3})

	sys := newProjectileSystem(fx, 0)
	f := fx.frame(player, 50)
	sys.Fire(&f, geom.V(100, 100), geom.V(1, 0), fx.weapon(t, "pistol"), components.TeamPlayer, components.Physical, 0)
	rep := sys.Update(&f)

	if rep.Hits != 1 || sys.Pool().Active() != 0 {
		t.Fatalf("report %+v active %d", *rep, sys.Pool().Active())
	}
	if fx.cmb.Get(near).HP != 2 {
		t.Errorf("near hp = %d, want 2", fx.cmb.Get(near).HP)
	}
	if fx.cmb.Get(far).HP != 3 || fx.cmb.Get(ghost).HP != 1 {
		t.Error("bullet damaged more than the earliest target")
	}
	if !fx.cmb.Get(near).Flashing(50) {
		t.Error("hit target not flashing")
	}
}

func TestProjectileKillRecordsDirection(t *testing.T) {
	fx := newFixture(t)
	player := fx.addPlayer(100, 100, components.Physical)
	e := fx.add(entitySpec{kind: components.KindBasicEnemy, x: 100, y: 115, hp: 1})

	sys := newProjectileSystem(fx, 0)
	f := fx.frame(player, 0)
	sys.Fire(&f, geom.V(100, 100), geom.V(0, 1), fx.weapon(t, "pistol"), components.TeamPlayer, components.Physical, 0)
	rep := sys.Update(&f)

	cmb := fx.cmb.Get(e)
	if rep.Kills != 1 || !cmb.Dead || math.Abs(cmb.DeathY-1) > 1e-9 {
		t.Errorf("report %+v dead %v death dir (%v, %v)", *rep, cmb.Dead, cmb.DeathX, cmb.DeathY)
	}
}

func TestProjectileWallsAndPlayer(t *testing.T) {
	tests := []struct {
		name       string
		team       components.Team
		wall       bool
		invuln     bool
		wantHit    bool
		wantAbsorb int
	}{
		{"wall absorbs player bullets", components.TeamPlayer, true, false, false, 1},
		{"wall absorbs enemy bullets", components.TeamEnemy, true, false, false, 1},
		{"enemy bullet hits player", components.TeamEnemy, false, false, true, 0},
		{"invulnerable player is missed", components.TeamEnemy, false, true, false, 0},
		{"own bullets pass the player", components.TeamPlayer, false, false, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newFixture(t)
			player := fx.addPlayer(200, 100, components.Physical)
			if tt.wall {
				fx.add(entitySpec{kind: components.KindObstacle, x: 150, y: 100, size: 32, tags: "W"})
			}
			sys := newProjectileSystem(fx, 0)
			f := fx.frame(player, 0)
			f.Invulnerable = tt.invuln
			sys.Fire(&f, geom.V(130, 100), geom.V(1, 0), fx.weapon(t, "pistol"), tt.team, components.Physical, 0)

			// Reports are per tick.
			var hit bool
			absorbed := 0
			for i := 0; i < 5; i++ {
				rep := sys.Update(&f)
				hit = hit || rep.PlayerHit
				absorbed += rep.Absorbed
			}
			if hit != tt.wantHit || absorbed != tt.wantAbsorb {
				t.Errorf("hit %v absorbed %d, want %v %d", hit, absorbed, tt.wantHit, tt.wantAbsorb)
			}
		})
	}
}

func TestProjectileExpiresAndLeavesBounds(t *testing.T) {
	fx := newFixture(t)
	player := fx.addPlayer(320, 240, components.Physical)
	sys := newProjectileSystem(fx, 0)
	f := fx.frame(player, 0)

	sys.Fire(&f, geom.V(630, 10), geom.V(1, 0), fx.weapon(t, "pistol"), components.TeamPlayer, components.Physical, 0)
	rep := sys.Update(&f)
	if rep.Expired != 1 || sys.Pool().Active() != 0 {
		t.Errorf("out of bounds: expired %d active %d", rep.Expired, sys.Pool().Active())
	}

	sys.Fire(&f, geom.V(20, 20), geom.V(0, 1), fx.weapon(t, "enemy_gun"), components.TeamPlayer, components.Physical, 0)
	f.DT = fx.cfg.Projectile.TTLMS
	rep = sys.Update(&f)
	if rep.Expired != 1 || sys.Pool().Active() != 0 {
		t.Errorf("ttl: expired %d active %d", rep.Expired, sys.Pool().Active())
	}
	if sys.Pool().Stats().Reused != 1 {
		t.Errorf("second bullet did not reuse the released slot")
	}
}
