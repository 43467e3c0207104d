package components

import "fmt"

// FieldDescriptor describes a component field for UI display.
type FieldDescriptor struct {
	ID     string  // Unique identifier
	Label  string  // Display name
	Format string  // Printf format (e.g., "%.2f")
	Max    float64 // Maximum value (for bars)
	IsBar  bool    // True to render as progress bar
	Group  string  // Logical grouping
}

// EntityFieldDescriptors returns metadata for the inspector panel.
// Field IDs must match the keys produced by sim.Inspect.
func EntityFieldDescriptors() []FieldDescriptor {
	return []FieldDescriptor{
		{ID: "kind", Label: "Kind", Group: "identity"},
		{ID: "archetype", Label: "Archetype", Group: "identity"},
		{ID: "dimension", Label: "Dimension", Group: "identity"},
		{ID: "tags", Label: "Tags", Group: "identity"},
		{ID: "hp", Label: "HP", Format: "%d", Max: 10, IsBar: true, Group: "combat"},
		{ID: "return_hp", Label: "Return HP", Format: "%d", Max: 12, IsBar: true, Group: "combat"},
		{ID: "speed", Label: "Speed", Format: "%.2f", Group: "motion"},
		{ID: "knock", Label: "Knockback", Format: "%.2f", Group: "motion"},
		{ID: "target", Label: "Target", Group: "motion"},
	}
}

var kindNames = [...]string{
	KindPlayer:       "player",
	KindBasicEnemy:   "basic_enemy",
	KindShooterEnemy: "shooter_enemy",
	KindGhostFire:    "ghost_fire",
	KindProjectile:   "projectile",
	KindBox:          "box",
	KindPortal:       "portal",
	KindObstacle:     "obstacle",
}

// String returns the config name of a Kind.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// ParseKind resolves a config kind name.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("unknown entity kind %q", s)
}

// IsEnemy reports whether k counts as a live enemy.
func (k Kind) IsEnemy() bool {
	return k == KindBasicEnemy || k == KindShooterEnemy
}

// IsHazard reports whether k is a collectible hazard.
func (k Kind) IsHazard() bool {
	return k == KindGhostFire
}

// String returns the display name of a Team.
func (t Team) String() string {
	if t == TeamPlayer {
		return "player"
	}
	return "enemy"
}

// ParseTeam resolves a config team name.
func ParseTeam(s string) (Team, error) {
	switch s {
	case "player":
		return TeamPlayer, nil
	case "enemy":
		return TeamEnemy, nil
	}
	return 0, fmt.Errorf("unknown team %q", s)
}

var dimensionNames = [...]string{
	Physical: "PHYSICAL",
	Spectral: "SPECTRAL",
	Between1: "BETWEEN1",
	Between2: "BETWEEN2",
	Between3: "BETWEEN3",
}

// String returns the phase name of a Dimension.
func (d Dimension) String() string {
	if int(d) < len(dimensionNames) {
		return dimensionNames[d]
	}
	return "UNKNOWN"
}

// ParseDimension resolves a config dimension name (physical or spectral).
func ParseDimension(s string) (Dimension, error) {
	switch s {
	case "physical":
		return Physical, nil
	case "spectral":
		return Spectral, nil
	}
	return 0, fmt.Errorf("unknown dimension %q", s)
}

// RoleSuffix returns the per-dimension asset suffix for d.
func RoleSuffix(d Dimension) string {
	if d.Display() == Spectral {
		return "Spectral"
	}
	return "Physical"
}
