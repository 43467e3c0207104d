package main

import (
	"time"

	"github.com/pthm-cable/spectral/sim"
)

// holdKeys turns terminal key presses into held state. Terminals report
// presses and auto-repeats but never releases, so a key counts as held
// until hold has passed since its last press.
type holdKeys struct {
	hold  time.Duration
	until map[rune]time.Time

	// Cheats are edges: reported for one input, then released.
	cheat1, cheat2 bool
	fire           bool // Mouse button state, reported by tcell directly
}

func newHoldKeys(hold time.Duration) *holdKeys {
	return &holdKeys{hold: hold, until: map[rune]time.Time{}}
}

func (k *holdKeys) press(r rune, now time.Time) {
	switch r {
	case '1':
		k.cheat1 = true
	case '2':
		k.cheat2 = true
	default:
		k.until[r] = now.Add(k.hold)
	}
}

func (k *holdKeys) down(r rune, now time.Time) bool {
	return now.Before(k.until[r])
}

// input builds the simulation input at now. Cheat edges are consumed.
func (k *holdKeys) input(now time.Time, pointerX, pointerY float64) sim.Input {
	in := sim.Input{
		Up:       k.down('w', now),
		Down:     k.down('s', now),
		Left:     k.down('a', now),
		Right:    k.down('d', now),
		Fire:     k.fire || k.down(' ', now),
		Cheat1:   k.cheat1,
		Cheat2:   k.cheat2,
		PointerX: pointerX,
		PointerY: pointerY,
	}
	k.cheat1, k.cheat2 = false, false
	return in
}

// reset releases everything.
func (k *holdKeys) reset() {
	clear(k.until)
	k.cheat1, k.cheat2, k.fire = false, false, false
}
