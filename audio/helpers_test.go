package audio

import (
	"time"

	"github.com/gopxl/beep"
)

// rateDuration returns a duration that is exactly n samples at rate.
func rateDuration(rate beep.SampleRate, n int) time.Duration {
	return rate.D(n)
}
