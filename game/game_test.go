package game

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/spectral/components"
	"github.com/pthm-cable/spectral/config"
	"github.com/pthm-cable/spectral/sim"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newHeadless(t *testing.T, opts Options) *Game {
	t.Helper()
	opts.Headless = true
	opts.Logger = quietLogger()
	if opts.Seed == 0 {
		opts.Seed = 3
	}
	g, err := NewGameWithOptions(config.Default(), opts)
	if err != nil {
		t.Fatalf("NewGameWithOptions: %v", err)
	}
	return g
}

func TestPaletteCoversConfiguredRoles(t *testing.T) {
	cfg := config.Default()
	p := Palette(cfg)

	for _, role := range []string{cfg.Player.Role, cfg.Projectile.Role, cfg.Spawn.PortalRole} {
		if _, ok := p[role]; !ok {
			t.Errorf("role %q missing", role)
		}
	}
	for _, a := range cfg.Archetypes {
		if !a.PerDimension {
			if _, ok := p[a.Role]; !ok {
				t.Errorf("role %q missing", a.Role)
			}
			continue
		}
		phys := a.Role + components.RoleSuffix(components.Physical)
		spec := a.Role + components.RoleSuffix(components.Spectral)
		if p[phys] == p[spec] {
			t.Errorf("%s: spectral variant not tinted", a.Role)
		}
	}
}

func TestRoleColorStable(t *testing.T) {
	a, b := roleColor("mysteryRole"), roleColor("mysteryRole")
	if a != b {
		t.Errorf("hashed color not stable: %v vs %v", a, b)
	}
	if roleColor("player") != roleColors["player"] {
		t.Error("known role should use its table color")
	}
}

func TestDrawableColor(t *testing.T) {
	base := rl.Color{R: 10, G: 20, B: 30, A: 255}
	tests := []struct {
		name string
		d    sim.Drawable
		want rl.Color
	}{
		{"plain", sim.Drawable{Handle: base}, base},
		{"faded", sim.Drawable{Handle: base, Faded: true}, rl.Color{R: 10, G: 20, B: 30, A: 70}},
		{"flash", sim.Drawable{Handle: base, Flash: true}, rl.White},
		{"placeholder", sim.Drawable{Placeholder: true}, placeholderColor},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := drawableColor(&tt.d); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHeadlessRunWritesOutput(t *testing.T) {
	dir := t.TempDir()
	g := newHeadless(t, Options{RunID: "test-run", StatsWindowSec: 1, OutputDir: dir, StepsPerUpdate: 50})

	for range 4 {
		if !g.UpdateHeadless() {
			break
		}
	}
	if g.Tick() == 0 {
		t.Fatal("no ticks ran")
	}
	for _, d := range g.Sim().Render().Drawables {
		if d.Placeholder {
			t.Errorf("drawable role %q has no palette entry", d.Role)
		}
	}

	flushed := len(g.Windows())
	if flushed == 0 {
		t.Fatal("no stats windows flushed")
	}
	sum := g.Unload()
	if sum.RunID != "test-run" || sum.Windows != flushed {
		t.Errorf("summary = %+v, want %d windows", sum, flushed)
	}

	for _, name := range []string{"telemetry.csv", "perf.csv", "summary.json", "config.yaml"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}
}

func TestRestartResetsRun(t *testing.T) {
	g := newHeadless(t, Options{StepsPerUpdate: 30})
	g.UpdateHeadless()
	if g.Tick() == 0 {
		t.Fatal("no ticks ran")
	}

	if err := g.Restart(); err != nil {
		t.Fatalf("Restart: %v", err)
	}
	if g.Tick() != 0 || g.restarts != 1 {
		t.Errorf("tick %d restarts %d after restart", g.Tick(), g.restarts)
	}
	if len(g.Windows()) != 0 {
		t.Error("windows carried over into the new run")
	}
	if phases := g.perfCollector.Stats().PhaseAvg; len(phases) != 0 {
		t.Errorf("perf timings carried over into the new run: %v", phases)
	}
	g.UpdateHeadless()
	if g.Tick() != 30 {
		t.Errorf("tick = %d after one update, want 30", g.Tick())
	}
}

func TestSnapshotResume(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.snap")

	g := newHeadless(t, Options{SnapshotPath: path, StepsPerUpdate: 40})
	g.UpdateHeadless()
	if g.Sim().GameOver() {
		t.Skip("run ended before the snapshot point")
	}
	want := g.Tick()
	score := g.Sim().State().Score
	g.Unload()

	resumed := newHeadless(t, Options{SnapshotPath: path, StepsPerUpdate: 40})
	defer resumed.Unload()
	if resumed.Tick() != want || resumed.Sim().State().Score != score {
		t.Errorf("resumed at tick %d score %d, want %d/%d",
			resumed.Tick(), resumed.Sim().State().Score, want, score)
	}
}
