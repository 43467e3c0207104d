package systems

import (
	"math/rand/v2"
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/spectral/components"
	"github.com/pthm-cable/spectral/config"
	"github.com/pthm-cable/spectral/geom"
	"github.com/pthm-cable/spectral/traits"
)

// fixture is a small world with the full component set.
type fixture struct {
	cfg    *config.Config
	world  *ecs.World
	mapper *ecs.Map7[components.Position, components.Body, components.Motion, components.Combat, components.Behavior, components.Lifetime, components.Identity]
	pos    *ecs.Map1[components.Position]
	mot    *ecs.Map1[components.Motion]
	cmb    *ecs.Map1[components.Combat]
	beh    *ecs.Map1[components.Behavior]
	life   *ecs.Map1[components.Lifetime]
	ids    *ecs.Map1[components.Identity]
	events []string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	w := ecs.NewWorld()
	return &fixture{
		cfg:    config.Default(),
		world:  w,
		mapper: ecs.NewMap7[components.Position, components.Body, components.Motion, components.Combat, components.Behavior, components.Lifetime, components.Identity](w),
		pos:    ecs.NewMap1[components.Position](w),
		mot:    ecs.NewMap1[components.Motion](w),
		cmb:    ecs.NewMap1[components.Combat](w),
		beh:    ecs.NewMap1[components.Behavior](w),
		life:   ecs.NewMap1[components.Lifetime](w),
		ids:    ecs.NewMap1[components.Identity](w),
	}
}

func (fx *fixture) Emit(event string) { fx.events = append(fx.events, event) }

func (fx *fixture) count(event string) int {
	n := 0
	for _, e := range fx.events {
		if e == event {
			n++
		}
	}
	return n
}

// entitySpec describes a test entity.
type entitySpec struct {
	kind  components.Kind
	x, y  float64
	size  float64
	team  components.Team
	dim   components.Dimension
	hp    int
	tags  string
	arch  string
	speed float64
}

func (fx *fixture) add(s entitySpec) ecs.Entity {
	if s.size == 0 {
		s.size = 16
	}
	if s.kind != components.KindPlayer {
		s.team = components.TeamEnemy
	}
	pos := components.Position{X: s.x, Y: s.y}
	body := components.Body{W: s.size, H: s.size}
	mot := components.Motion{Speed: s.speed}
	cmb := components.Combat{Team: s.team, Dimension: s.dim, HP: s.hp, HasHP: s.hp > 0}
	beh := components.Behavior{Tags: traits.MustParse(s.tags)}
	life := components.Lifetime{TTL: components.Forever}
	id := components.Identity{Kind: s.kind, Archetype: s.arch}
	return fx.mapper.NewEntity(&pos, &body, &mot, &cmb, &beh, &life, &id)
}

func (fx *fixture) addPlayer(x, y float64, dim components.Dimension) ecs.Entity {
	return fx.add(entitySpec{kind: components.KindPlayer, x: x, y: y, team: components.TeamPlayer, dim: dim})
}

// frame builds a frame around the player entity.
func (fx *fixture) frame(player ecs.Entity, now int64) Frame {
	f := Frame{
		Now:    now,
		DT:     16,
		Player: player,
		Bounds: Bounds{Width: 640, Height: 480},
		Rand:   rand.New(rand.NewPCG(1, 2)),
		Emit:   fx,
	}
	if player != (ecs.Entity{}) {
		p := fx.pos.Get(player)
		f.PlayerPos = geom.V(p.X, p.Y)
		f.PlayerR = 8
		f.PlayerDim = fx.cmb.Get(player).Dimension
		f.Phase = f.PlayerDim
	}
	return f
}

func (fx *fixture) at(e ecs.Entity) geom.Vec {
	p := fx.pos.Get(e)
	return geom.V(p.X, p.Y)
}
