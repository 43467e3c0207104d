// Package game hosts the simulation: a raylib window with input capture
// and drawing, or a headless loop, both feeding telemetry.
package game

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/spectral/audio"
	"github.com/pthm-cable/spectral/camera"
	"github.com/pthm-cable/spectral/config"
	"github.com/pthm-cable/spectral/sim"
	"github.com/pthm-cable/spectral/telemetry"
)

// Options configures a Game.
type Options struct {
	Seed           uint64
	RunID          string
	Logger         *slog.Logger
	LogStats       bool    // Log each stats window
	StatsWindowSec float64 // 0 = config telemetry.stats_window
	OutputDir      string  // CSV and summary output; empty disables
	SnapshotPath   string  // Resume from and save to this file; empty disables
	Headless       bool
	StepsPerUpdate int // Headless ticks per UpdateHeadless call
}

// Game owns one simulation run and everything around it.
type Game struct {
	cfg    *config.Config
	opts   Options
	logger *slog.Logger

	driver *sim.Driver
	simOpt []sim.Option

	camera      *camera.Camera
	palette     sim.AssetTable
	assetWarned map[string]bool
	player      *audio.Player

	collector     *telemetry.Collector
	perfCollector *telemetry.PerfCollector
	outputManager *telemetry.OutputManager
	windows       []telemetry.WindowStats

	// State
	paused         bool
	debugMode      bool
	stepsPerUpdate int
	restarts       int

	// Inspector selection
	selected     uint64
	hasSelection bool

	// Window dimensions
	screenWidth, screenHeight float32
}

// NewGameWithOptions creates a game. In graphical mode the raylib window
// must already be open.
func NewGameWithOptions(cfg *config.Config, opts Options) (*Game, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.RunID != "" {
		logger = logger.With("run_id", opts.RunID)
	}

	window := opts.StatsWindowSec
	if window <= 0 {
		window = cfg.Telemetry.StatsWindow
	}

	g := &Game{
		cfg:            cfg,
		opts:           opts,
		logger:         logger,
		palette:        Palette(cfg),
		assetWarned:    map[string]bool{},
		collector:      telemetry.NewCollector(window, cfg.Simulation.TickMS),
		perfCollector:  telemetry.NewPerfCollector(60),
		stepsPerUpdate: max(opts.StepsPerUpdate, 1),
	}

	if opts.OutputDir != "" {
		om, err := telemetry.NewOutputManager(opts.OutputDir)
		if err != nil {
			return nil, fmt.Errorf("output dir: %w", err)
		}
		if err := om.WriteConfig(cfg); err != nil {
			om.Close()
			return nil, err
		}
		g.outputManager = om
	}

	g.simOpt = []sim.Option{
		sim.WithLogger(logger),
		sim.WithAssets(g.palette),
		sim.WithSink(g.collector),
		sim.WithPhaseTimer(g.perfCollector),
	}
	if opts.Seed != 0 {
		g.simOpt = append(g.simOpt, sim.WithSeed(opts.Seed))
	}
	if !opts.Headless {
		g.player = audio.NewPlayer(cfg.Audio, logger)
		g.simOpt = append(g.simOpt, sim.WithSink(g.player))
	}

	d, err := g.openDriver()
	if err != nil {
		g.outputManager.Close()
		return nil, err
	}
	g.driver = d

	b := d.Sim().Bounds()
	g.screenWidth, g.screenHeight = float32(cfg.Screen.Width), float32(cfg.Screen.Height)
	g.camera = camera.New(g.screenWidth, g.screenHeight, float32(b.Width), float32(b.Height))

	return g, nil
}

// openDriver resumes from the snapshot file when one exists, otherwise
// starts fresh.
func (g *Game) openDriver() (*sim.Driver, error) {
	if g.opts.SnapshotPath == "" {
		return sim.NewDriver(g.cfg, g.simOpt...)
	}
	f, err := os.Open(g.opts.SnapshotPath)
	if os.IsNotExist(err) {
		return sim.NewDriver(g.cfg, g.simOpt...)
	}
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()

	snap, err := sim.DecodeSnapshot(f)
	if err != nil {
		return nil, err
	}
	g.logger.Info("resuming from snapshot", "path", g.opts.SnapshotPath, "tick", snap.State.Tick)
	g.collector.Reset(snap.State.Tick)
	return sim.RestoreDriver(g.cfg, snap, g.simOpt...)
}

// Update runs one graphical frame: input, fixed-step simulation, telemetry.
func (g *Game) Update() {
	g.perfCollector.RecordFrame()
	g.handleHostInput()

	s := g.driver.Sim()
	if s.GameOver() || g.paused {
		return
	}

	in := g.captureInput()
	elapsed := time.Duration(float64(rl.GetFrameTime()) * float64(time.Second))
	steps := g.driver.Update(elapsed, in)
	for range steps {
		g.flushTelemetry()
	}
}

// UpdateHeadless runs stepsPerUpdate ticks with idle input. Returns false
// once the run is over.
func (g *Game) UpdateHeadless() bool {
	for range g.stepsPerUpdate {
		if g.driver.Sim().GameOver() {
			return false
		}
		g.driver.Step(sim.Input{})
		g.flushTelemetry()
	}
	return !g.driver.Sim().GameOver()
}

// Restart starts a new run with the same configuration.
func (g *Game) Restart() error {
	g.finish()
	d, err := sim.NewDriver(g.cfg, g.simOpt...)
	if err != nil {
		return err
	}
	g.driver = d
	g.restarts++
	g.hasSelection = false
	g.logger.Info("restarted", "restarts", g.restarts)
	return nil
}

// Sim returns the running simulation.
func (g *Game) Sim() *sim.Simulation { return g.driver.Sim() }

// Tick returns the current simulation tick.
func (g *Game) Tick() uint64 { return g.driver.Sim().State().Tick }

// Unload finishes telemetry, saves the snapshot and releases audio. It
// returns the summary of the last run.
func (g *Game) Unload() telemetry.Summary {
	sum := g.finish()
	if err := g.saveSnapshot(); err != nil {
		g.logger.Error("failed to save snapshot", "error", err)
	}
	if g.player != nil {
		g.player.Close()
	}
	g.outputManager.Close()
	return sum
}

// saveSnapshot writes the current state when a snapshot path is set.
// Finished runs are not saved.
func (g *Game) saveSnapshot() error {
	if g.opts.SnapshotPath == "" || g.driver.Sim().GameOver() {
		return nil
	}
	snap, err := g.driver.Sim().Snapshot()
	if err != nil {
		return err
	}
	f, err := os.Create(g.opts.SnapshotPath)
	if err != nil {
		return err
	}
	if err := sim.EncodeSnapshot(f, snap); err != nil {
		f.Close()
		return err
	}
	g.logger.Info("snapshot saved", "path", g.opts.SnapshotPath, "tick", snap.State.Tick)
	return f.Close()
}
