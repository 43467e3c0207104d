package systems

import (
	"math"
	"testing"

	"github.com/pthm-cable/spectral/components"
	"github.com/pthm-cable/spectral/geom"
	"github.com/pthm-cable/spectral/traits"
)

func TestPhysicsIntegration(t *testing.T) {
	fx := newFixture(t)
	player := fx.addPlayer(100, 100, components.Physical)
	fx.mot.Get(player).VX = 3

	seeker := fx.add(entitySpec{kind: components.KindBasicEnemy, x: 0, y: 0})
	m := fx.mot.Get(seeker)
	m.TargetX, m.TargetY, m.HasTarget, m.Speed = 10, 0, true, 4

	knocked := fx.add(entitySpec{kind: components.KindBasicEnemy, x: 200, y: 200})
	fx.mot.Get(knocked).KnockX = 2

	wall := fx.add(entitySpec{kind: components.KindObstacle, x: 300, y: 300, tags: "W"})
	fx.mot.Get(wall).KnockX = 5

	sys := NewPhysicsSystem(fx.world, 0.5)
	f := fx.frame(player, 0)
	sys.Update(&f)

	if got := fx.at(player); got != geom.V(103, 100) {
		t.Errorf("player at %v, want (103, 100)", got)
	}
	if got := fx.at(seeker); got != geom.V(4, 0) {
		t.Errorf("seeker at %v, want (4, 0)", got)
	}
	if got := fx.at(knocked); got != geom.V(202, 200) {
		t.Errorf("knocked at %v, want (202, 200)", got)
	}
	if got := fx.mot.Get(knocked).KnockX; got != 1 {
		t.Errorf("knock after decay = %v, want 1", got)
	}
	if got := fx.at(wall); got != geom.V(300, 300) || fx.mot.Get(wall).KnockX != 0 {
		t.Errorf("wall moved to %v", got)
	}

	for i := 0; i < 5; i++ {
		sys.Update(&f)
	}
	if got := fx.at(seeker); got != geom.V(10, 0) {
		t.Errorf("seeker at %v, want to settle on target", got)
	}
}

func TestKnockbackDecaysToZero(t *testing.T) {
	fx := newFixture(t)
	e := fx.add(entitySpec{kind: components.KindBasicEnemy, x: 300, y: 300})
	fx.mot.Get(e).KnockY = 6

	sys := NewPhysicsSystem(fx.world, fx.cfg.AI.KnockbackDecay)
	f := fx.frame(fx.addPlayer(10, 10, components.Physical), 0)
	for i := 0; i < 200; i++ {
		sys.Update(&f)
	}
	if k := fx.mot.Get(e).KnockY; k != 0 {
		t.Errorf("knock = %v after 200 ticks, want 0", k)
	}
	// Geometric series bound: 6 / (1 - decay).
	if moved := fx.at(e).Y - 300; moved > 6/(1-fx.cfg.AI.KnockbackDecay)+1e-9 || math.IsNaN(moved) {
		t.Errorf("moved %v beyond the series bound", moved)
	}
}

func TestKnockSkipsImmovable(t *testing.T) {
	var mot components.Motion
	wall := components.Behavior{Tags: traits.MustParse("D")}
	Knock(&mot, &wall, geom.V(1, 0), 5)
	if mot.KnockX != 0 {
		t.Error("immovable entity knocked")
	}
	free := components.Behavior{}
	Knock(&mot, &free, geom.V(0, -1), 5)
	if mot.KnockY != -5 {
		t.Errorf("knock = %v, want -5", mot.KnockY)
	}
}
