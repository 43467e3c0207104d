package game

import (
	"hash/fnv"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/spectral/components"
	"github.com/pthm-cable/spectral/config"
	"github.com/pthm-cable/spectral/sim"
)

// Base colors by role. Spectral variants are derived.
var roleColors = map[string]rl.Color{
	"player":       {R: 240, G: 240, B: 255, A: 255},
	"bullet":       {R: 255, G: 230, B: 120, A: 255},
	"portal":       {R: 170, G: 90, B: 255, A: 255},
	"basicEnemy":   {R: 220, G: 70, B: 60, A: 255},
	"shooterEnemy": {R: 240, G: 140, B: 40, A: 255},
	"ghostFire":    {R: 90, G: 220, B: 255, A: 255},
	"box":          {R: 150, G: 110, B: 70, A: 255},
	"wall":         {R: 110, G: 110, B: 120, A: 255},
}

// Background colors per displayed layer.
var (
	physicalBackground = rl.Color{R: 24, G: 22, B: 30, A: 255}
	spectralBackground = rl.Color{R: 10, G: 20, B: 48, A: 255}
	letterboxColor     = rl.Color{R: 0, G: 0, B: 0, A: 255}
	placeholderColor   = rl.Magenta
)

// Palette builds the asset table for every role the config can draw. The
// handles are rl.Color values; the host draws shapes, not sprites.
func Palette(cfg *config.Config) sim.AssetTable {
	t := sim.AssetTable{}
	add := func(role string, perDimension bool) {
		if role == "" {
			return
		}
		base := roleColor(role)
		if !perDimension {
			t[role] = base
			return
		}
		t[role+components.RoleSuffix(components.Physical)] = base
		t[role+components.RoleSuffix(components.Spectral)] = spectralTint(base)
	}

	add(cfg.Player.Role, false)
	add(cfg.Projectile.Role, false)
	add(cfg.Spawn.PortalRole, false)
	for _, a := range cfg.Archetypes {
		add(a.Role, a.PerDimension)
	}
	return t
}

// roleColor returns the known color of a role, or a stable hashed color.
func roleColor(role string) rl.Color {
	if c, ok := roleColors[role]; ok {
		return c
	}
	h := fnv.New32a()
	h.Write([]byte(role))
	v := h.Sum32()
	return rl.Color{R: uint8(96 + v%160), G: uint8(96 + (v>>8)%160), B: uint8(96 + (v>>16)%160), A: 255}
}

// spectralTint shifts a color toward cyan for the spectral layer.
func spectralTint(c rl.Color) rl.Color {
	return rl.Color{R: c.R / 3, G: uint8((int(c.G) + 255) / 2), B: uint8((int(c.B) + 255) / 2), A: c.A}
}

// drawableColor resolves the fill color of a drawable.
func drawableColor(d *sim.Drawable) rl.Color {
	c, ok := d.Handle.(rl.Color)
	if !ok || d.Placeholder {
		c = placeholderColor
	}
	if d.Faded {
		c.A = 70
	}
	if d.Flash {
		c = rl.White
	}
	return c
}
