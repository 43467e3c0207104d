package audio

import (
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"

	"github.com/pthm-cable/spectral/config"
	"github.com/pthm-cable/spectral/systems"
)

// note is one segment of a cue.
type note struct {
	freq     float64
	sweep    float64
	overtone float64 // mixed in at 0.3 gain when > 0
	wave     Wave
	dur      time.Duration
}

// cue is a sequence of notes played back to back.
type cue []note

func (c cue) duration() time.Duration {
	var d time.Duration
	for _, n := range c {
		d += n.dur
	}
	return d
}

var defaultCues = map[string]cue{
	systems.EventShoot:     {{freq: 660, sweep: -220, wave: WaveSquare, dur: 40 * time.Millisecond}},
	systems.EventHit:       {{freq: 180, wave: WaveSaw, dur: 80 * time.Millisecond}},
	systems.EventExplosion: {{wave: WaveNoise, dur: 300 * time.Millisecond}},
	systems.EventPickup: {
		{freq: 987.77, wave: WaveSquare, dur: 80 * time.Millisecond},
		{freq: 1318.51, wave: WaveSquare, dur: 160 * time.Millisecond},
	},
	systems.EventCollect: {{freq: 880, overtone: 1760, wave: WaveSine, dur: 250 * time.Millisecond}},
	systems.EventDeath:   {{freq: 220, sweep: -160, wave: WaveSaw, dur: 400 * time.Millisecond}},
	systems.EventRespawn: {{freq: 330, sweep: 110, wave: WaveSine, dur: 150 * time.Millisecond}},
	systems.EventPortal:  {{freq: 110, sweep: 330, wave: WaveSine, dur: 200 * time.Millisecond}},
	systems.EventReturn: {
		{freq: 523.25, wave: WaveSine, dur: 100 * time.Millisecond},
		{freq: 659.25, wave: WaveSine, dur: 100 * time.Millisecond},
		{freq: 783.99, overtone: 1567.98, wave: WaveSine, dur: 200 * time.Millisecond},
	},
	systems.EventGameOver: {
		{freq: 220, wave: WaveSaw, dur: 250 * time.Millisecond},
		{freq: 164.81, wave: WaveSaw, dur: 250 * time.Millisecond},
		{freq: 110, sweep: -30, wave: WaveSaw, dur: 500 * time.Millisecond},
	},
}

const (
	attack  = 5 * time.Millisecond
	release = 30 * time.Millisecond
)

// CueBank builds streamers for named simulation events.
type CueBank struct {
	rate   beep.SampleRate
	volume float64
	cues   map[string]cue
}

// NewCueBank creates a bank at the configured sample rate and volume.
func NewCueBank(cfg config.AudioConfig) *CueBank {
	rate := cfg.SampleRate
	if rate <= 0 {
		rate = 44100
	}
	return &CueBank{rate: beep.SampleRate(rate), volume: cfg.Volume, cues: defaultCues}
}

// SampleRate returns the bank's output rate.
func (b *CueBank) SampleRate() beep.SampleRate { return b.rate }

// Has reports whether the event has a cue.
func (b *CueBank) Has(event string) bool {
	_, ok := b.cues[event]
	return ok
}

// Len returns the cue length in samples, or 0 for unknown events.
func (b *CueBank) Len(event string) int {
	c, ok := b.cues[event]
	if !ok {
		return 0
	}
	n := 0
	for _, nt := range c {
		n += b.rate.N(nt.dur)
	}
	return n
}

// Duration returns the cue length, or 0 for unknown events.
func (b *CueBank) Duration(event string) time.Duration {
	return b.cues[event].duration()
}

// Streamer returns a fresh streamer for the event.
func (b *CueBank) Streamer(event string) (beep.Streamer, bool) {
	c, ok := b.cues[event]
	if !ok {
		return nil, false
	}
	parts := make([]beep.Streamer, 0, len(c))
	for _, n := range c {
		var s beep.Streamer = newFade(newTone(n.freq, n.sweep, n.wave, n.dur, b.rate), n.dur, attack, release, b.rate)
		if n.overtone > 0 {
			over := newFade(newTone(n.overtone, 0, n.wave, n.dur, b.rate), n.dur, attack, n.dur/2, b.rate)
			s = beep.Mix(withVolume(s, 0.7), withVolume(over, 0.3))
		}
		parts = append(parts, s)
	}
	return &effects.Volume{Streamer: beep.Seq(parts...), Base: 2, Volume: b.volume}, true
}
