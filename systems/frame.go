package systems

import (
	"math/rand/v2"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/spectral/components"
	"github.com/pthm-cable/spectral/geom"
)

// Bounds represents the playable rectangle [0,Width]x[0,Height].
type Bounds struct {
	Width, Height float64
}

// Frame carries the per-tick values shared by every system.
type Frame struct {
	Now   int64 // Clock ms, read once per tick
	DT    int64 // ms since the previous tick
	Phase components.Dimension

	Player    ecs.Entity
	PlayerPos geom.Vec
	PlayerR   float64
	PlayerDim components.Dimension

	Invulnerable bool
	Bounds       Bounds
	Rand         *rand.Rand
	Emit         Emitter
}

// Emitter receives named events raised during a tick.
type Emitter interface {
	Emit(event string)
}

// Event names raised by the systems.
const (
	EventShoot     = "shoot"
	EventHit       = "hit"
	EventExplosion = "explosion"
	EventPickup    = "pickup"
	EventCollect   = "collect"
	EventDeath     = "death"
	EventRespawn   = "respawn"
	EventPortal    = "portal"
	EventReturn    = "return"
	EventGameOver  = "game_over"
	EventSpawn     = "spawn"
	EventRejected  = "spawn_rejected"
	EventDropped   = "projectile_dropped"
)

// NopEmitter discards events.
type NopEmitter struct{}

// Emit implements Emitter.
func (NopEmitter) Emit(string) {}

// emit forwards to f.Emit when one is set.
func (f *Frame) emit(event string) {
	if f.Emit != nil {
		f.Emit.Emit(event)
	}
}

// kill marks an entity as killed by damage. The lifecycle pass scores it,
// fires its on-death effect and removes it.
func kill(c *components.Combat, l *components.Lifetime, dir geom.Vec) {
	if c.Dead {
		return
	}
	c.Dead = true
	c.DeathX, c.DeathY = dir.X, dir.Y
	l.Kill()
}

// damage applies hp loss and the hit flash. It returns true when the hit
// killed the entity.
func damage(c *components.Combat, l *components.Lifetime, amount int, now, flashMS int64, dir geom.Vec) bool {
	if !c.HasHP || c.Dead || l.Expired() {
		return false
	}
	c.HP -= amount
	c.HitUntil = now + flashMS
	if c.HP <= 0 {
		kill(c, l, dir)
		return true
	}
	return false
}
