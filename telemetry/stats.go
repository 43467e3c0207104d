package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick uint64  `csv:"-" json:"window_start"`
	WindowEndTick   uint64  `csv:"window_end" json:"window_end"`
	SimTimeSec      float64 `csv:"sim_time" json:"sim_time"`

	// Events during window
	Shots     int     `csv:"shots" json:"shots"`
	Hits      int     `csv:"hits" json:"hits"`
	Kills     int     `csv:"kills" json:"kills"`
	HitRate   float64 `csv:"hit_rate" json:"hit_rate"`
	Pickups   int     `csv:"pickups" json:"pickups"`
	Collected int     `csv:"collected" json:"collected"`
	Deaths    int     `csv:"deaths" json:"deaths"`
	Respawns  int     `csv:"respawns" json:"respawns"`
	Portals   int     `csv:"portals" json:"portals"`
	Returns   int     `csv:"returns" json:"returns"`
	Spawns    int     `csv:"spawns" json:"spawns"`
	Rejected  int     `csv:"spawn_rejected" json:"spawn_rejected"`
	Dropped   int     `csv:"projectiles_dropped" json:"projectiles_dropped"`
	Unknown   int     `csv:"unknown_events" json:"unknown_events"`

	// State at window end
	Score       int    `csv:"score" json:"score"`
	Multiplier  int    `csv:"multiplier" json:"multiplier"`
	Level       int    `csv:"level" json:"level"`
	Energy      int    `csv:"energy" json:"energy"`
	Goal        int    `csv:"goal" json:"goal"`
	Live        int    `csv:"live" json:"live"`
	Phase       string `csv:"phase" json:"phase"`
	PoolActive  int    `csv:"pool_active" json:"pool_active"`
	PoolDropped int    `csv:"pool_dropped_total" json:"pool_dropped_total"`
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Uint64("window_end", s.WindowEndTick),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("shots", s.Shots),
		slog.Int("hits", s.Hits),
		slog.Int("kills", s.Kills),
		slog.Int("collected", s.Collected),
		slog.Int("deaths", s.Deaths),
		slog.Int("spawns", s.Spawns),
		slog.Int("spawn_rejected", s.Rejected),
		slog.Int("projectiles_dropped", s.Dropped),
		slog.Int("score", s.Score),
		slog.Int("level", s.Level),
		slog.Int("live", s.Live),
		slog.String("phase", s.Phase),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats(logger *slog.Logger) {
	logger.Info("stats", "window", s)
}

// Summary describes a whole run.
type Summary struct {
	RunID      string  `json:"run_id"`
	Windows    int     `json:"windows"`
	Ticks      uint64  `json:"ticks"`
	FinalScore int     `json:"final_score"`
	FinalLevel int     `json:"final_level"`
	FinalPhase string  `json:"final_phase"`
	Kills      int     `json:"kills"`
	Collected  int     `json:"collected"`
	Deaths     int     `json:"deaths"`
	Rejected   int     `json:"spawn_rejected"`
	Dropped    int     `json:"projectiles_dropped"`
	HitRate    float64 `json:"hit_rate"`

	// Score gained per window
	ScoreRateMean float64 `json:"score_rate_mean"`
	ScoreRateStd  float64 `json:"score_rate_std"`
	ScoreRateP10  float64 `json:"score_rate_p10"`
	ScoreRateP50  float64 `json:"score_rate_p50"`
	ScoreRateP90  float64 `json:"score_rate_p90"`
}

// Summarize aggregates the windows of one run.
func Summarize(runID string, windows []WindowStats) Summary {
	sum := Summary{RunID: runID, Windows: len(windows)}
	if len(windows) == 0 {
		return sum
	}

	shots, hits := 0, 0
	rates := make([]float64, len(windows))
	prev := 0
	for i, w := range windows {
		sum.Kills += w.Kills
		sum.Collected += w.Collected
		sum.Deaths += w.Deaths
		sum.Rejected += w.Rejected
		sum.Dropped += w.Dropped
		shots += w.Shots
		hits += w.Hits
		rates[i] = float64(w.Score - prev)
		prev = w.Score
	}
	last := windows[len(windows)-1]
	sum.Ticks = last.WindowEndTick
	sum.FinalScore = last.Score
	sum.FinalLevel = last.Level
	sum.FinalPhase = last.Phase
	if shots > 0 {
		sum.HitRate = float64(hits) / float64(shots)
	}

	sum.ScoreRateMean, sum.ScoreRateStd = stat.MeanStdDev(rates, nil)
	if len(rates) < 2 {
		sum.ScoreRateStd = 0
	}
	sort.Float64s(rates)
	sum.ScoreRateP10 = stat.Quantile(0.10, stat.Empirical, rates, nil)
	sum.ScoreRateP50 = stat.Quantile(0.50, stat.Empirical, rates, nil)
	sum.ScoreRateP90 = stat.Quantile(0.90, stat.Empirical, rates, nil)
	return sum
}

// LogValue implements slog.LogValuer for structured logging.
func (s Summary) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("run_id", s.RunID),
		slog.Int("windows", s.Windows),
		slog.Uint64("ticks", s.Ticks),
		slog.Int("final_score", s.FinalScore),
		slog.Int("final_level", s.FinalLevel),
		slog.String("final_phase", s.FinalPhase),
		slog.Int("kills", s.Kills),
		slog.Float64("hit_rate", s.HitRate),
		slog.Float64("score_rate_mean", s.ScoreRateMean),
		slog.Float64("score_rate_p50", s.ScoreRateP50),
	)
}
