package systems

import (
	"testing"

	"github.com/pthm-cable/spectral/components"
)

func TestHatchAfterThreshold(t *testing.T) {
	fx := newFixture(t)
	player := fx.addPlayer(10, 10, components.Physical)
	ghost := fx.add(entitySpec{kind: components.KindGhostFire, x: 300, y: 200, dim: components.Spectral, hp: 1, arch: "ghost_fire"})
	arch, _, _ := fx.cfg.Archetype("ghost_fire")

	sys := NewHatchSystem(fx.world, fx.cfg)
	f := fx.frame(player, 0)
	for i := 1; i < arch.HatchThreshold; i++ {
		if reqs := sys.Update(&f); len(reqs) != 0 {
			t.Fatalf("hatched after %d intervals", i)
		}
		f.Now += arch.HatchIntervalMS
	}
	if got := fx.life.Get(ghost).ReturnHp; got != arch.HatchThreshold-1 {
		t.Fatalf("returnHp = %d, want %d", got, arch.HatchThreshold-1)
	}

	reqs := sys.Update(&f)
	if len(reqs) != 1 || reqs[0].Archetype != arch.HatchInto || reqs[0].X != 300 || !reqs[0].Counted {
		t.Fatalf("requests = %+v", reqs)
	}
	if !fx.life.Get(ghost).Expired() || fx.cmb.Get(ghost).Dead {
		t.Error("hatched hazard must expire without dying")
	}
	if fx.count(EventRespawn) != 1 {
		t.Errorf("respawn events = %d", fx.count(EventRespawn))
	}
}

func TestHatchPausedInSpectral(t *testing.T) {
	fx := newFixture(t)
	player := fx.addPlayer(10, 10, components.Spectral)
	ghost := fx.add(entitySpec{kind: components.KindGhostFire, x: 300, y: 200, dim: components.Spectral, hp: 1, arch: "ghost_fire"})

	sys := NewHatchSystem(fx.world, fx.cfg)
	f := fx.frame(player, 0)
	for i := 0; i < 50; i++ {
		sys.Update(&f)
		f.Now += 1000
	}
	if fx.life.Get(ghost).ReturnHp != 0 {
		t.Error("hazard hatched while SPECTRAL")
	}
}

func TestHatchIgnoresEnemies(t *testing.T) {
	fx := newFixture(t)
	player := fx.addPlayer(10, 10, components.Physical)
	e := fx.add(entitySpec{kind: components.KindBasicEnemy, x: 300, y: 200, hp: 3, arch: "ghost_fire"})

	sys := NewHatchSystem(fx.world, fx.cfg)
	f := fx.frame(player, 0)
	sys.Update(&f)
	if fx.life.Get(e).ReturnHp != 0 {
		t.Error("enemy accumulated hatch progress")
	}
}
