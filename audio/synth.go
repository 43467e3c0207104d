// Package audio turns simulation events into short synthesized cues.
package audio

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// Wave is an oscillator shape.
type Wave int

const (
	WaveSine Wave = iota
	WaveSquare
	WaveSaw
	WaveNoise
)

// tone is a fixed-length oscillator. A non-zero sweep glides the
// frequency linearly to freq+sweep over the tone's length.
type tone struct {
	freq  float64
	sweep float64
	wave  Wave
	rate  beep.SampleRate
	phase float64
	pos   int
	total int
}

func newTone(freq, sweep float64, wave Wave, d time.Duration, rate beep.SampleRate) *tone {
	return &tone{freq: freq, sweep: sweep, wave: wave, rate: rate, total: rate.N(d)}
}

func (t *tone) Stream(samples [][2]float64) (int, bool) {
	if t.pos >= t.total {
		return 0, false
	}
	for i := range samples {
		if t.pos >= t.total {
			return i, true
		}
		var v float64
		switch t.wave {
		case WaveSine:
			v = math.Sin(2 * math.Pi * t.phase)
		case WaveSquare:
			v = 1
			if t.phase >= 0.5 {
				v = -1
			}
		case WaveSaw:
			v = 2 * (t.phase - 0.5)
		case WaveNoise:
			v = rand.Float64()*2 - 1
		}
		samples[i][0], samples[i][1] = v, v

		f := t.freq + t.sweep*float64(t.pos)/float64(t.total)
		t.phase += f / float64(t.rate)
		t.phase -= math.Floor(t.phase)
		t.pos++
	}
	return len(samples), true
}

func (t *tone) Err() error { return nil }

// fade applies a linear attack and release to a finite streamer.
type fade struct {
	s       beep.Streamer
	pos     int
	attack  int
	release int
	total   int
}

func newFade(s beep.Streamer, d, attack, release time.Duration, rate beep.SampleRate) *fade {
	return &fade{s: s, attack: rate.N(attack), release: rate.N(release), total: rate.N(d)}
}

func (f *fade) Stream(samples [][2]float64) (int, bool) {
	n, ok := f.s.Stream(samples)
	for i := 0; i < n; i++ {
		g := 1.0
		if f.attack > 0 && f.pos < f.attack {
			g = float64(f.pos) / float64(f.attack)
		}
		if left := f.total - f.pos; f.release > 0 && left < f.release {
			g = max(float64(left)/float64(f.release), 0)
		}
		samples[i][0] *= g
		samples[i][1] *= g
		f.pos++
	}
	return n, ok
}

func (f *fade) Err() error { return f.s.Err() }

// withVolume scales by gain. Zero or negative gain is silent since
// log2(0) is -Inf.
func withVolume(s beep.Streamer, gain float64) beep.Streamer {
	if gain <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(gain)}
}
