package telemetry

import (
	"math"
	"testing"

	"github.com/pthm-cable/spectral/systems"
)

func TestCollectorCountsAndResets(t *testing.T) {
	c := NewCollector(1, 16)
	if c.WindowTicks() != 62 {
		t.Fatalf("WindowTicks = %d, want 62", c.WindowTicks())
	}

	for _, e := range []string{
		systems.EventShoot, systems.EventShoot, systems.EventShoot, systems.EventShoot,
		systems.EventHit, systems.EventExplosion, systems.EventCollect,
		systems.EventRejected, systems.EventDropped, "mystery",
	} {
		c.Trigger(e)
	}
	if c.ShouldFlush(61) || !c.ShouldFlush(62) {
		t.Error("ShouldFlush boundary wrong")
	}

	w := c.Flush(62, Gauges{Score: 40, Phase: "PHYSICAL", Live: 3})
	if w.Shots != 4 || w.Hits != 1 || w.Kills != 1 || w.Collected != 1 {
		t.Errorf("counts = %+v", w)
	}
	if w.Rejected != 1 || w.Dropped != 1 || w.Unknown != 1 {
		t.Errorf("rejected %d dropped %d unknown %d", w.Rejected, w.Dropped, w.Unknown)
	}
	if math.Abs(w.HitRate-0.25) > 1e-9 {
		t.Errorf("HitRate = %v, want 0.25", w.HitRate)
	}
	if math.Abs(w.SimTimeSec-0.992) > 1e-9 || w.Score != 40 || w.Phase != "PHYSICAL" {
		t.Errorf("window end state = %+v", w)
	}

	next := c.Flush(124, Gauges{})
	if next.WindowStartTick != 62 || next.Shots != 0 || next.HitRate != 0 {
		t.Errorf("counters not reset: %+v", next)
	}
}

func TestSummarize(t *testing.T) {
	scores := []int{10, 30, 30, 60, 100}
	windows := make([]WindowStats, len(scores))
	for i, s := range scores {
		windows[i] = WindowStats{WindowEndTick: uint64(i+1) * 100, Score: s, Kills: 1, Shots: 10, Hits: 5, Phase: "PHYSICAL"}
	}
	windows[4].Phase = "GAME_OVER"

	sum := Summarize("run", windows)
	if sum.Windows != 5 || sum.Ticks != 500 || sum.FinalScore != 100 || sum.FinalPhase != "GAME_OVER" {
		t.Errorf("summary = %+v", sum)
	}
	if sum.Kills != 5 || math.Abs(sum.HitRate-0.5) > 1e-9 {
		t.Errorf("kills %d hit rate %v", sum.Kills, sum.HitRate)
	}

	// Per-window gains: 10 20 0 30 40.
	if math.Abs(sum.ScoreRateMean-20) > 1e-9 {
		t.Errorf("mean = %v, want 20", sum.ScoreRateMean)
	}
	if math.Abs(sum.ScoreRateStd-math.Sqrt(250)) > 1e-9 {
		t.Errorf("std = %v, want %v", sum.ScoreRateStd, math.Sqrt(250))
	}
	if sum.ScoreRateP50 != 20 || sum.ScoreRateP10 != 0 || sum.ScoreRateP90 != 40 {
		t.Errorf("quantiles = %v %v %v", sum.ScoreRateP10, sum.ScoreRateP50, sum.ScoreRateP90)
	}
}

func TestSummarizeEdgeCases(t *testing.T) {
	if s := Summarize("empty", nil); s.Windows != 0 || s.ScoreRateMean != 0 {
		t.Errorf("empty summary = %+v", s)
	}
	s := Summarize("one", []WindowStats{{Score: 7}})
	if s.ScoreRateMean != 7 || s.ScoreRateStd != 0 || s.ScoreRateP50 != 7 {
		t.Errorf("single window summary = %+v", s)
	}
}
