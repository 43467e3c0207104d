package systems

import (
	"testing"

	"github.com/pthm-cable/spectral/components"
	"github.com/pthm-cable/spectral/geom"
)

func TestWaveSizeAndInterval(t *testing.T) {
	fx := newFixture(t)
	sc := &fx.cfg.Spawn
	sc.BaseIntervalMS, sc.IntervalDecay, sc.MinIntervalMS = 4000, 0.5, 600
	sc.RampThreshold, sc.RampFactor = 2, 0.5
	sc.WaveGrowthEvery, sc.MaxWave = 2, 3
	d := NewSpawnDirector(fx.world, sc)

	sizes := []struct{ level, want int }{{0, 1}, {1, 1}, {2, 2}, {4, 3}, {40, 3}}
	for _, s := range sizes {
		if got := d.WaveSize(s.level); got != s.want {
			t.Errorf("WaveSize(%d) = %d, want %d", s.level, got, s.want)
		}
	}

	intervals := []struct {
		level, live int
		want        int64
	}{
		{0, 5, 4000},
		{1, 5, 2000},
		{1, 0, 1000}, // Ramped when few enemies are alive
		{5, 5, 600},  // Floor
	}
	for _, iv := range intervals {
		if got := d.Interval(iv.level, iv.live); got != iv.want {
			t.Errorf("Interval(%d, %d) = %d, want %d", iv.level, iv.live, got, iv.want)
		}
	}
}

func TestSpawnDirectorPlacesClearOfEntities(t *testing.T) {
	fx := newFixture(t)
	sc := &fx.cfg.Spawn
	sc.HazardChance = 0
	sc.MaxWave, sc.WaveGrowthEvery = 4, 1
	player := fx.addPlayer(320, 240, components.Physical)
	d := NewSpawnDirector(fx.world, sc)

	var st SpawnState
	d.Start(&st, 0)
	f := fx.frame(player, sc.InitialDelayMS-1)
	if reqs := d.Update(&f, &st, 0); len(reqs) != 0 {
		t.Fatal("spawned before the first wave was due")
	}

	f.Now = sc.InitialDelayMS
	reqs := d.Update(&f, &st, 3)
	if len(reqs) != 4 || st.Live != 4 || st.Spawned != 4 {
		t.Fatalf("requests %d live %d spawned %d, want 4", len(reqs), st.Live, st.Spawned)
	}
	for i, r := range reqs {
		if !r.ViaPortal || !r.Counted {
			t.Errorf("request %d = %+v", i, r)
		}
		p := geom.V(r.X, r.Y)
		if geom.Distance(p, f.PlayerPos) < sc.Clearance+8 {
			t.Errorf("request %d too close to the player", i)
		}
		if r.X < sc.Margin || r.X > 640-sc.Margin || r.Y < sc.Margin || r.Y > 480-sc.Margin {
			t.Errorf("request %d at %v outside margin", i, p)
		}
		for j := 0; j < i; j++ {
			if geom.Distance(p, geom.V(reqs[j].X, reqs[j].Y)) < sc.Clearance {
				t.Errorf("requests %d and %d overlap", i, j)
			}
		}
		if r.Archetype != "basic_enemy" && r.Archetype != "shooter_enemy" {
			t.Errorf("request %d archetype %q", i, r.Archetype)
		}
	}
	if st.NextSpawn <= f.Now {
		t.Error("next wave not scheduled")
	}
}

func TestSpawnDirectorRejectsFullWorld(t *testing.T) {
	fx := newFixture(t)
	sc := &fx.cfg.Spawn
	player := fx.addPlayer(320, 240, components.Physical)
	for x := 0.0; x <= 640; x += 40 {
		for y := 0.0; y <= 480; y += 40 {
			fx.add(entitySpec{kind: components.KindObstacle, x: x, y: y, size: 32, tags: "W"})
		}
	}
	d := NewSpawnDirector(fx.world, sc)

	st := SpawnState{NextSpawn: 100}
	f := fx.frame(player, 100)
	reqs := d.Update(&f, &st, 0)
	if len(reqs) != 0 || st.Live != 0 {
		t.Fatalf("spawned %d into a full world", len(reqs))
	}
	if st.Rejected != 1 || fx.count(EventRejected) != 1 {
		t.Errorf("rejected %d events %d", st.Rejected, fx.count(EventRejected))
	}
	if st.NextSpawn <= 100 {
		t.Error("rejected wave not rescheduled")
	}
}

func TestSpawnPickRespectsWeights(t *testing.T) {
	fx := newFixture(t)
	sc := &fx.cfg.Spawn
	sc.HazardChance = 0
	sc.EnemyWeights = []int{0, 1}
	d := NewSpawnDirector(fx.world, sc)
	f := fx.frame(fx.addPlayer(0, 0, components.Physical), 0)
	for i := 0; i < 50; i++ {
		if got := d.pick(&f); got != "shooter_enemy" {
			t.Fatalf("pick = %q with zero weight on basic_enemy", got)
		}
	}

	sc.HazardChance = 1
	if got := d.pick(&f); got != sc.HazardArchetype {
		t.Errorf("pick = %q, want hazard", got)
	}
}
