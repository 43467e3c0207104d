package systems

import (
	"testing"

	"github.com/pthm-cable/spectral/components"
	"github.com/pthm-cable/spectral/geom"
)

func TestBehaviorChaseTargetsNearPlayer(t *testing.T) {
	fx := newFixture(t)
	player := fx.addPlayer(100, 100, components.Physical)
	e := fx.add(entitySpec{kind: components.KindBasicEnemy, x: 300, y: 300, tags: "<"})
	fx.beh.Get(e).Strafe = 10

	sys := NewBehaviorSystem(fx.world, &fx.cfg.AI)
	f := fx.frame(player, 0)
	sys.Update(&f)

	mot := fx.mot.Get(e)
	if !mot.HasTarget {
		t.Fatal("chaser has no target")
	}
	if d := geom.Distance(geom.V(mot.TargetX, mot.TargetY), f.PlayerPos); d > 10+1e-9 {
		t.Errorf("target %v from player, want within strafe 10", d)
	}
	if mot.Speed != fx.cfg.AI.ChaseSpeed || mot.NextDecision != fx.cfg.AI.ChaseRetargetMS {
		t.Errorf("speed %v next %d", mot.Speed, mot.NextDecision)
	}

	// No retarget before the decision time.
	before := *mot
	f.Now = fx.cfg.AI.ChaseRetargetMS - 1
	fx.pos.Get(player).X = 500
	f.PlayerPos = geom.V(500, 100)
	sys.Update(&f)
	if mot.TargetX != before.TargetX || mot.TargetY != before.TargetY {
		t.Error("chaser retargeted before its decision time")
	}
}

func TestBehaviorChaseIgnoresOtherDimension(t *testing.T) {
	fx := newFixture(t)
	player := fx.addPlayer(100, 100, components.Spectral)
	e := fx.add(entitySpec{kind: components.KindBasicEnemy, x: 300, y: 300, tags: "<"})

	sys := NewBehaviorSystem(fx.world, &fx.cfg.AI)
	f := fx.frame(player, 0)
	sys.Update(&f)
	if fx.mot.Get(e).HasTarget {
		t.Error("physical chaser targeted a spectral player")
	}
}

func TestBehaviorAvoidFleesThenWanders(t *testing.T) {
	fx := newFixture(t)
	player := fx.addPlayer(100, 100, components.Spectral)
	e := fx.add(entitySpec{kind: components.KindGhostFire, x: 150, y: 100, dim: components.Spectral, tags: ">."})

	sys := NewBehaviorSystem(fx.world, &fx.cfg.AI)
	f := fx.frame(player, 0)
	sys.Update(&f)

	mot := fx.mot.Get(e)
	want := geom.V(150+fx.cfg.AI.AvoidDistance, 100)
	if mot.TargetX != want.X || mot.TargetY != want.Y {
		t.Errorf("avoid target = (%v, %v), want %v", mot.TargetX, mot.TargetY, want)
	}
	if mot.Speed != fx.cfg.AI.AvoidSpeed {
		t.Errorf("avoid speed = %v", mot.Speed)
	}

	// Out of range: wander picks a point within the wander ring.
	fx.pos.Get(e).X = 400
	sys.Update(&f)
	d := geom.Distance(geom.V(mot.TargetX, mot.TargetY), geom.V(400, 100))
	if d < fx.cfg.AI.WanderMin || d > fx.cfg.AI.WanderMax {
		t.Errorf("wander distance %v outside [%v, %v]", d, fx.cfg.AI.WanderMin, fx.cfg.AI.WanderMax)
	}
	if mot.Speed != fx.cfg.AI.WanderSpeed {
		t.Errorf("wander speed = %v", mot.Speed)
	}
}

func TestBehaviorShooty(t *testing.T) {
	tests := []struct {
		name     string
		phase    components.Dimension
		enemyX   float64
		nextShot int64
		want     int
	}{
		{"in range", components.Physical, 200, 0, 1},
		{"cooling down", components.Physical, 200, 500, 0},
		{"out of range", components.Physical, 600, 0, 0},
		{"inactive dimension", components.Spectral, 200, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newFixture(t)
			player := fx.addPlayer(100, 100, components.Physical)
			e := fx.add(entitySpec{kind: components.KindShooterEnemy, x: tt.enemyX, y: 100, tags: "s"})
			fx.beh.Get(e).NextShot = tt.nextShot

			sys := NewBehaviorSystem(fx.world, &fx.cfg.AI)
			f := fx.frame(player, 100)
			f.Phase = tt.phase
			shots := sys.Update(&f)
			if len(shots) != tt.want {
				t.Fatalf("shots = %d, want %d", len(shots), tt.want)
			}
			if tt.want == 1 {
				if shots[0].Dir.X != -1 || shots[0].Team != components.TeamEnemy {
					t.Errorf("shot = %+v", shots[0])
				}
				if got := fx.beh.Get(e).NextShot; got != 100+fx.cfg.AI.ShootCooldownMS {
					t.Errorf("next shot = %d", got)
				}
			}
		})
	}
}

func TestBehaviorSkipsImmovableAndDead(t *testing.T) {
	fx := newFixture(t)
	player := fx.addPlayer(100, 100, components.Physical)
	wall := fx.add(entitySpec{kind: components.KindObstacle, x: 200, y: 100, tags: "W<"})
	dead := fx.add(entitySpec{kind: components.KindBasicEnemy, x: 300, y: 100, tags: "<"})
	fx.cmb.Get(dead).Dead = true

	sys := NewBehaviorSystem(fx.world, &fx.cfg.AI)
	f := fx.frame(player, 0)
	sys.Update(&f)
	if fx.mot.Get(wall).HasTarget || fx.mot.Get(dead).HasTarget {
		t.Error("immovable or dead entity was retargeted")
	}
}
