package game

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/spectral/components"
	"github.com/pthm-cable/spectral/sim"
)

// Draw renders the latest render snapshot and the UI.
func (g *Game) Draw() {
	r := g.driver.Sim().Render()

	rl.BeginDrawing()
	rl.ClearBackground(letterboxColor)

	fx, fy, fw, fh := g.camera.FieldRect()
	bg := physicalBackground
	if r.Display == components.Spectral {
		bg = spectralBackground
	}
	rl.DrawRectangleRec(rl.Rectangle{X: fx, Y: fy, Width: fw, Height: fh}, bg)

	// Transition wash
	if r.DimensionAlpha > 0 {
		wash := spectralBackground
		wash.A = uint8(r.DimensionAlpha * 160)
		rl.DrawRectangleRec(rl.Rectangle{X: fx, Y: fy, Width: fw, Height: fh}, wash)
	}

	for i := range r.Drawables {
		g.drawDrawable(&r.Drawables[i])
	}
	if !r.GameOver {
		g.drawAim(r)
	}

	g.drawHUD(r)
	if g.debugMode {
		g.drawDebugMenu()
	}
	if g.hasSelection {
		g.drawInspector()
	}
	if r.GameOver {
		g.drawGameOver(r)
	}

	rl.EndDrawing()
}

// drawDrawable draws one entity as a shape in its role color.
func (g *Game) drawDrawable(d *sim.Drawable) {
	sx, sy := g.camera.WorldToScreen(float32(d.X), float32(d.Y+d.BobY))
	w := g.camera.Length(float32(d.W))
	h := g.camera.Length(float32(d.H))
	c := drawableColor(d)

	switch d.Kind {
	case components.KindPortal:
		radius := max(w, h) / 2
		center := rl.Vector2{X: sx, Y: sy}
		rl.DrawCircleLinesV(center, radius, c)
		rl.DrawRing(center, radius*0.7, radius, -90, -90+360*float32(d.Progress), 36, c)
	case components.KindGhostFire:
		rl.DrawCircleV(rl.Vector2{X: sx, Y: sy}, max(w, h)/2, c)
	case components.KindPlayer, components.KindProjectile:
		rec := rl.Rectangle{X: sx, Y: sy, Width: w, Height: h}
		origin := rl.Vector2{X: w / 2, Y: h / 2}
		rl.DrawRectanglePro(rec, origin, float32(d.Rotation*180/math.Pi), c)
	default:
		rl.DrawRectangleRec(rl.Rectangle{X: sx - w/2, Y: sy - h/2, Width: w, Height: h}, c)
	}

	if d.Placeholder {
		rl.DrawRectangleLinesEx(rl.Rectangle{X: sx - w/2, Y: sy - h/2, Width: w, Height: h}, 1, rl.White)
	}
	if g.hasSelection && d.ID == g.selected && d.Kind != components.KindProjectile {
		rl.DrawCircleLinesV(rl.Vector2{X: sx, Y: sy}, max(w, h)/2+4, rl.Yellow)
	}
}

// drawAim draws the line from the player toward the pointer.
func (g *Game) drawAim(r *sim.RenderSnapshot) {
	px, py := g.camera.WorldToScreen(float32(r.Player.X), float32(r.Player.Y))
	ax, ay := g.camera.WorldToScreen(float32(r.Player.X+r.Aim.X), float32(r.Player.Y+r.Aim.Y))
	c := rl.Color{R: 255, G: 255, B: 255, A: 60}
	if r.Display == components.Spectral {
		c = rl.Color{R: 120, G: 220, B: 255, A: 80}
	}
	rl.DrawLineV(rl.Vector2{X: px, Y: py}, rl.Vector2{X: ax, Y: ay}, c)
}
