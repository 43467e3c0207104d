// Command spectral-tui plays the simulation in a terminal.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/google/uuid"

	"github.com/pthm-cable/spectral/audio"
	"github.com/pthm-cable/spectral/config"
	"github.com/pthm-cable/spectral/sim"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	seed := flag.Uint64("seed", 0, "RNG seed (0 = config seed)")
	logPath := flag.String("log", "spectral-tui.log", "Log file (the terminal belongs to the game)")
	flag.Parse()

	if err := run(*configPath, *seed, *logPath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath string, seed uint64, logPath string) error {
	logFile, err := os.Create(logPath)
	if err != nil {
		return err
	}
	defer logFile.Close()
	logger := slog.New(slog.NewJSONHandler(logFile, nil)).With("run_id", uuid.NewString())

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()
	screen.EnableMouse()
	screen.HideCursor()

	player := audio.NewPlayer(cfg.Audio, logger)
	defer player.Close()

	opts := []sim.Option{sim.WithLogger(logger), sim.WithSink(player)}
	if seed != 0 {
		opts = append(opts, sim.WithSeed(seed))
	}
	d, err := sim.NewDriver(cfg, opts...)
	if err != nil {
		return err
	}

	b := d.Sim().Bounds()
	v := newView(screen, b.Width, b.Height)
	keys := newHoldKeys(180 * time.Millisecond)
	px, py := b.Width/2, 0.0

	quit := make(chan struct{})
	defer close(quit)
	events := pumpEvents(screen, quit)

	ticker := time.NewTicker(d.TickDuration())
	defer ticker.Stop()
	last := time.Now()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
					return nil
				}
				if ev.Key() != tcell.KeyRune {
					continue
				}
				switch ev.Rune() {
				case 'q':
					return nil
				case 'r':
					if d.Sim().GameOver() {
						if d, err = sim.NewDriver(cfg, opts...); err != nil {
							return err
						}
						keys.reset()
						logger.Info("restarted")
					}
				default:
					keys.press(ev.Rune(), ev.When())
				}
			case *tcell.EventMouse:
				px, py = v.pointer(ev.Position())
				keys.fire = ev.Buttons()&tcell.Button1 != 0
			case *tcell.EventResize:
				screen.Sync()
				v.resize()
			}
		case now := <-ticker.C:
			d.Update(now.Sub(last), keys.input(now, px, py))
			last = now
			v.draw(d.Sim().Render())
		}
	}
}

// pumpEvents forwards screen events until quit is closed or the screen is
// finalized. The returned channel is closed when forwarding stops.
func pumpEvents(screen tcell.Screen, quit <-chan struct{}) <-chan tcell.Event {
	events := make(chan tcell.Event, 100)
	go screen.ChannelEvents(events, quit)
	return events
}
