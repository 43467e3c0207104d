// Package components defines ECS components for the simulation.
package components

import (
	"math"

	"github.com/pthm-cable/spectral/traits"
)

// Forever is the TTL of entities that never expire on their own.
const Forever int64 = math.MaxInt64

// Kind identifies the variant of an entity.
type Kind uint8

const (
	KindPlayer Kind = iota
	KindBasicEnemy
	KindShooterEnemy
	KindGhostFire
	KindProjectile
	KindBox
	KindPortal
	KindObstacle
)

// Team separates friend from foe for damage resolution.
type Team uint8

const (
	TeamPlayer Team = iota
	TeamEnemy
)

// Dimension is the interaction layer of an entity, or the global phase.
// The Between values are only ever held by the player and the global phase.
type Dimension uint8

const (
	Physical Dimension = iota
	Spectral
	Between1
	Between2
	Between3
)

// IsBetween reports whether d is one of the transition sub-phases.
func (d Dimension) IsBetween() bool {
	return d >= Between1 && d <= Between3
}

// Display returns the layer used to pick per-dimension images.
// The last transition sub-phase already shows the spectral layer.
func (d Dimension) Display() Dimension {
	if d == Spectral || d == Between3 {
		return Spectral
	}
	return Physical
}

// EffectKind selects an on-death effect.
type EffectKind uint8

const (
	EffectNone EffectKind = iota
	EffectSpawnHazard
)

// Effect is a data-described on-death hook interpreted by the lifecycle system.
type Effect struct {
	Kind      EffectKind
	Archetype string // Archetype spawned by EffectSpawnHazard
}

// Position represents an entity's world position (circle center).
type Position struct {
	X, Y float64
}

// Motion holds target-seeking movement and decaying knockback.
type Motion struct {
	TargetX, TargetY float64
	HasTarget        bool
	Speed            float64 // Units per tick toward the target
	NextDecision     int64   // Clock ms at which the AI picks a new target
	KnockX, KnockY   float64 // Decaying knockback velocity
	VX, VY           float64 // Direct velocity (player input)
}

// Combat holds team, dimension and health.
type Combat struct {
	Team       Team
	Dimension  Dimension
	HP         int
	HasHP      bool
	HitUntil   int64 // Clock ms until which the hit flash shows
	Dead       bool  // Killed by damage; the on-death effect is pending
	DeathX     float64
	DeathY     float64 // Knockback direction handed to the on-death effect
	EffectDone bool
}

// Flashing reports whether the hit flash is active at now.
func (c *Combat) Flashing(now int64) bool {
	return now < c.HitUntil
}

// Behavior holds the parsed behavior tags and AI timers.
type Behavior struct {
	Tags     traits.Tag
	NextShot int64   // Clock ms at which a shooty entity may fire again
	Strafe   float64 // Chase offset distance from the player
}

// Lifetime holds time-to-live and hatching state.
type Lifetime struct {
	TTL       int64 // Remaining ms; Forever for non-expiring entities
	Span      int64 // Initial TTL of timed entities (portals), for progress
	ReturnHp  int   // Hatch counter of hazards
	NextHatch int64 // Clock ms of the next returnHp increment
	Born      int64 // Clock ms the entity was created; lifetime starts on the next tick
}

// Expired reports whether the entity is due for pruning.
func (l *Lifetime) Expired() bool {
	return l.TTL <= 0
}

// Kill marks the entity for removal at the end of the tick.
func (l *Lifetime) Kill() {
	l.TTL = 0
}

// Tick consumes dt ms of lifetime.
func (l *Lifetime) Tick(dt int64) {
	if l.TTL != Forever {
		l.TTL -= dt
	}
}

// Identity holds the entity variant and data needed by its variant.
type Identity struct {
	ID           uint64 // Stable id assigned at spawn
	Kind         Kind
	Archetype    string
	Role         string // Asset role base name
	PerDimension bool   // Role has Physical/Spectral variants
	OnDeath      Effect
	Spawns       string // Portal: archetype spawned when the countdown elapses
	MainWeapon   string // Box: weapon granted on pickup
	SubWeapon    string
}

// Projectile is a pooled bullet. Projectiles live outside the ECS world.
type Projectile struct {
	X, Y         float64
	PrevX, PrevY float64 // Position at the start of the tick, for swept hits
	VX, VY       float64
	Radius       float64
	Team         Team
	Dimension    Dimension
	TTL          int64
	Damage       int
}
