package systems

import (
	"math"
	"math/rand/v2"
)

// jitterMS returns a uniform duration in [0, span) ms. Zero span yields 0.
func jitterMS(rng *rand.Rand, span int64) int64 {
	if span <= 0 {
		return 0
	}
	return rng.Int64N(span)
}

// uniform returns a uniform float in [lo, hi).
func uniform(rng *rand.Rand, lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + rng.Float64()*(hi-lo)
}

// decayTiny zeroes velocities that have decayed below visibility.
func decayTiny(v float64) float64 {
	if math.Abs(v) < 1e-3 {
		return 0
	}
	return v
}
