package audio

import (
	"math"
	"testing"

	"github.com/gopxl/beep"

	"github.com/pthm-cable/spectral/config"
	"github.com/pthm-cable/spectral/systems"
)

func drain(t *testing.T, s beep.Streamer) (n int, peak float64) {
	t.Helper()
	buf := make([][2]float64, 512)
	for range 10000 {
		got, ok := s.Stream(buf)
		for i := 0; i < got; i++ {
			peak = max(peak, math.Abs(buf[i][0]), math.Abs(buf[i][1]))
		}
		n += got
		if !ok {
			return n, peak
		}
	}
	t.Fatal("streamer never finished")
	return n, peak
}

func TestCueBankCoversEvents(t *testing.T) {
	bank := NewCueBank(config.AudioConfig{SampleRate: 22050, Volume: -1})

	events := []string{
		systems.EventShoot, systems.EventHit, systems.EventExplosion, systems.EventPickup,
		systems.EventCollect, systems.EventDeath, systems.EventRespawn, systems.EventPortal,
		systems.EventReturn, systems.EventGameOver,
	}
	for _, e := range events {
		t.Run(e, func(t *testing.T) {
			if !bank.Has(e) {
				t.Fatalf("no cue for %q", e)
			}
			s, ok := bank.Streamer(e)
			if !ok {
				t.Fatal("Streamer returned !ok")
			}
			n, peak := drain(t, s)
			if n != bank.Len(e) {
				t.Errorf("streamed %d samples, Len = %d", n, bank.Len(e))
			}
			// Volume -1 halves the signal.
			if peak > 0.5+1e-9 {
				t.Errorf("peak = %v, want <= 0.5", peak)
			}
			if peak == 0 {
				t.Error("cue is silent")
			}
		})
	}
}

func TestCueBankUnknownEvent(t *testing.T) {
	bank := NewCueBank(config.AudioConfig{})
	if bank.SampleRate() != 44100 {
		t.Errorf("default rate = %d", bank.SampleRate())
	}
	if _, ok := bank.Streamer("spawn_rejected"); ok {
		t.Error("unexpected cue for spawn_rejected")
	}
	if bank.Len("nope") != 0 || bank.Duration("nope") != 0 {
		t.Error("unknown event should have zero length")
	}
}

func TestCueDurations(t *testing.T) {
	bank := NewCueBank(config.AudioConfig{SampleRate: 1000})
	tests := []struct {
		event string
		want  int
	}{
		{systems.EventShoot, 40},
		{systems.EventPickup, 240},
		{systems.EventGameOver, 1000},
	}
	for _, tt := range tests {
		if got := bank.Len(tt.event); got != tt.want {
			t.Errorf("Len(%q) = %d, want %d", tt.event, got, tt.want)
		}
	}
}

func TestToneShapes(t *testing.T) {
	rate := beep.SampleRate(8000)
	buf := make([][2]float64, 64)

	sq := newTone(200, 0, WaveSquare, 0, rate)
	if n, ok := sq.Stream(buf); n != 0 || ok {
		t.Errorf("zero-length tone streamed %d ok=%v", n, ok)
	}

	sq = newTone(200, 0, WaveSquare, rateDuration(rate, 64), rate)
	n, _ := sq.Stream(buf)
	for i := 0; i < n; i++ {
		if v := buf[i][0]; v != 1 && v != -1 {
			t.Fatalf("square sample %d = %v", i, v)
		}
	}

	saw := newTone(100, 400, WaveSaw, rateDuration(rate, 64), rate)
	n, _ = saw.Stream(buf)
	for i := 0; i < n; i++ {
		if v := buf[i][0]; v < -1 || v > 1 {
			t.Fatalf("saw sample %d = %v out of range", i, v)
		}
	}
}

func TestFadeRamps(t *testing.T) {
	rate := beep.SampleRate(8000)
	d := rateDuration(rate, 400)
	f := newFade(newTone(50, 0, WaveSquare, d, rate), d, rateDuration(rate, 100), rateDuration(rate, 100), rate)

	buf := make([][2]float64, 400)
	n, _ := f.Stream(buf)
	if n != 400 {
		t.Fatalf("streamed %d", n)
	}
	if math.Abs(buf[0][0]) != 0 {
		t.Errorf("first sample = %v, want 0", buf[0][0])
	}
	if math.Abs(buf[200][0]) != 1 {
		t.Errorf("sustain sample = %v, want magnitude 1", buf[200][0])
	}
	if a := math.Abs(buf[399][0]); a > 0.02 {
		t.Errorf("last sample = %v, want near 0", a)
	}
}

func TestWithVolumeSilent(t *testing.T) {
	rate := beep.SampleRate(8000)
	s := withVolume(newTone(440, 0, WaveSquare, rateDuration(rate, 100), rate), 0)
	if _, peak := drain(t, s); peak != 0 {
		t.Errorf("silent volume peak = %v", peak)
	}
}

func TestDisabledPlayerDropsTriggers(t *testing.T) {
	p := NewPlayer(config.AudioConfig{Enabled: false}, nil)
	if p.Enabled() {
		t.Fatal("disabled config produced an enabled player")
	}
	p.Trigger(systems.EventExplosion)
	p.Close()
}
