package audio

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/pthm-cable/spectral/config"
)

// Player plays cues through the system speaker. A Player whose speaker
// could not be opened, or that was disabled in config, drops every
// trigger.
type Player struct {
	mu      sync.Mutex
	bank    *CueBank
	mixer   *beep.Mixer
	enabled bool
	logger  *slog.Logger
}

// NewPlayer opens the speaker. Failure is logged once and leaves the
// player silent.
func NewPlayer(cfg config.AudioConfig, logger *slog.Logger) *Player {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Player{bank: NewCueBank(cfg), mixer: &beep.Mixer{}, logger: logger}
	if !cfg.Enabled {
		return p
	}

	rate := p.bank.SampleRate()
	if err := speaker.Init(rate, rate.N(100*time.Millisecond)); err != nil {
		logger.Warn("audio unavailable", "error", err)
		return p
	}
	speaker.Play(p.mixer)
	p.enabled = true
	return p
}

// Enabled reports whether cues reach the speaker.
func (p *Player) Enabled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.enabled
}

// Trigger queues the cue for an event. Unknown events are ignored.
func (p *Player) Trigger(event string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.enabled {
		return
	}
	s, ok := p.bank.Streamer(event)
	if !ok {
		return
	}
	speaker.Lock()
	p.mixer.Add(s)
	speaker.Unlock()
}

// Close silences playback.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.enabled {
		return
	}
	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
	p.enabled = false
}
