package game

import "github.com/pthm-cable/spectral/telemetry"

// flushTelemetry closes the stats window when it is due, or early when
// the run has just ended.
func (g *Game) flushTelemetry() {
	s := g.driver.Sim()
	tick := s.State().Tick
	if !g.collector.ShouldFlush(tick) && !(s.GameOver() && g.lastFlushed() < tick) {
		return
	}

	stats := g.collector.Flush(tick, telemetry.GaugesFrom(s))
	perfStats := g.perfCollector.Stats()
	g.windows = append(g.windows, stats)

	if g.opts.LogStats {
		stats.LogStats(g.logger)
		perfStats.LogStats(g.logger)
	}

	if g.outputManager != nil {
		if err := g.outputManager.WriteTelemetry(stats); err != nil {
			g.logger.Error("failed to write telemetry", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			g.logger.Error("failed to write perf", "error", err)
		}
	}
}

func (g *Game) lastFlushed() uint64 {
	if len(g.windows) == 0 {
		return 0
	}
	return g.windows[len(g.windows)-1].WindowEndTick
}

// finish logs and writes the run summary, then clears the window history.
func (g *Game) finish() telemetry.Summary {
	sum := telemetry.Summarize(g.opts.RunID, g.windows)
	g.logger.Info("run summary", "summary", sum)
	if g.outputManager != nil {
		if err := g.outputManager.WriteSummary(sum); err != nil {
			g.logger.Error("failed to write summary", "error", err)
		}
	}
	g.windows = g.windows[:0]
	g.collector.Reset(0)
	g.perfCollector.Reset()
	return sum
}

// Windows returns the stats windows flushed so far in this run.
func (g *Game) Windows() []telemetry.WindowStats { return g.windows }
