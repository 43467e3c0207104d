package main

import (
	"flag"
	"log/slog"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/google/uuid"

	"github.com/pthm-cable/spectral/config"
	"github.com/pthm-cable/spectral/game"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	snapshotPath := flag.String("snapshot", "", "Resume from and save to this snapshot file")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs, summary and config")
	seed := flag.Uint64("seed", 0, "RNG seed (0 = config seed, or time-based when that is 0)")
	maxTicks := flag.Uint64("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	stepsPerUpdate := flag.Int("steps-per-update", 1, "Simulation ticks per headless update call")

	flag.Parse()

	runID := uuid.NewString()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	opts := game.Options{
		Seed:           *seed,
		RunID:          runID,
		Logger:         logger,
		LogStats:       *logStats,
		StatsWindowSec: *statsWindow,
		OutputDir:      *outputDir,
		SnapshotPath:   *snapshotPath,
		Headless:       *headless,
		StepsPerUpdate: *stepsPerUpdate,
	}

	if *headless {
		g, err := game.NewGameWithOptions(cfg, opts)
		if err != nil {
			logger.Error("failed to start", "error", err)
			os.Exit(1)
		}
		defer g.Unload()

		logger.Info("starting headless simulation",
			"run_id", runID,
			"seed", *seed,
			"max_ticks", *maxTicks,
			"steps_per_update", *stepsPerUpdate,
		)

		for g.UpdateHeadless() {
			if *maxTicks > 0 && g.Tick() >= *maxTicks {
				logger.Info("max ticks reached", "tick", g.Tick())
				return
			}
		}
		logger.Info("game over", "tick", g.Tick(), "score", g.Sim().State().Score)
		return
	}

	// Graphical mode
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Spectral")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	g, err := game.NewGameWithOptions(cfg, opts)
	if err != nil {
		logger.Error("failed to start", "error", err)
		return
	}
	defer g.Unload()

	for !rl.WindowShouldClose() {
		g.Update()
		g.Draw()

		if *maxTicks > 0 && g.Tick() >= *maxTicks {
			break
		}
	}
}
