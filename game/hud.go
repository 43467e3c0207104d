package game

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/spectral/sim"
)

// drawHUD renders score, energy and the dimension countdown.
func (g *Game) drawHUD(r *sim.RenderSnapshot) {
	h := r.HUD
	rl.DrawText(fmt.Sprintf("Score: %d  x%d  Level %d", h.Score, h.Multiplier, h.Level), 10, 10, 20, rl.White)
	rl.DrawText(fmt.Sprintf("Energy: %d / %d", h.Energy, h.EnergyGoal), 10, 35, 18, rl.LightGray)

	phase := h.Phase
	if h.CountdownMS > 0 {
		phase = fmt.Sprintf("%s  %.1fs", h.Phase, float64(h.CountdownMS)/1000)
	}
	rl.DrawText(phase, 10, 58, 18, rl.SkyBlue)

	weapons := h.MainWeapon
	if h.SubWeapon != "" {
		weapons += " + " + h.SubWeapon
	}
	rl.DrawText(weapons, 10, 81, 16, rl.Gray)

	status := ""
	switch {
	case g.paused:
		status = "PAUSED"
	case h.Invulnerable:
		status = "INVULNERABLE"
	}
	if status != "" {
		rl.DrawText(status, 10, 102, 16, rl.Yellow)
	}

	for _, err := range r.AssetErrors {
		if msg := err.Error(); !g.assetWarned[msg] {
			g.assetWarned[msg] = true
			g.logger.Warn("drawing placeholder", "error", err)
		}
	}
}

// drawDebugMenu renders perf and pool stats.
func (g *Game) drawDebugMenu() {
	panelW := float32(230)
	bounds := rl.Rectangle{X: g.screenWidth - panelW - 10, Y: 10, Width: panelW, Height: 110}
	gui.Panel(bounds, "Debug [F3]")

	stats := g.perfCollector.Stats()
	ps := g.driver.Sim().PoolStats()
	x, y := int32(bounds.X)+10, int32(bounds.Y)+32
	rl.DrawText(fmt.Sprintf("Tick: %v  TPS: %.0f", stats.AvgTickDuration, stats.TicksPerSecond), x, y, 12, rl.DarkGray)
	rl.DrawText(fmt.Sprintf("FPS: %.0f", stats.FPS), x, y+18, 12, rl.DarkGray)
	rl.DrawText(fmt.Sprintf("Bullets: %d  Dropped: %d", g.driver.Sim().ActiveProjectiles(), ps.Dropped), x, y+36, 12, rl.DarkGray)
	rl.DrawText(fmt.Sprintf("Live: %d  Restarts: %d", g.driver.Sim().State().Spawn.Live, g.restarts), x, y+54, 12, rl.DarkGray)
}

// drawInspector shows the selected entity's fields.
func (g *Game) drawInspector() {
	ins, ok := g.driver.Sim().Inspect(g.selected)
	if !ok {
		g.hasSelection = false
		return
	}

	panelW := float32(240)
	height := float32(40 + 22*len(ins.Fields))
	bounds := rl.Rectangle{X: g.screenWidth - panelW - 10, Y: g.screenHeight - height - 10, Width: panelW, Height: height}
	gui.Panel(bounds, fmt.Sprintf("Entity %d  (%.0f, %.0f)", ins.ID, ins.X, ins.Y))

	y := bounds.Y + 32
	for _, f := range ins.Fields {
		row := rl.Rectangle{X: bounds.X + 90, Y: y, Width: panelW - 130, Height: 16}
		if f.Desc.IsBar {
			gui.ProgressBar(row, f.Desc.Label, f.Text, float32(f.Value), 0, float32(f.Desc.Max))
		} else {
			gui.Label(rl.Rectangle{X: bounds.X + 10, Y: y, Width: 80, Height: 16}, f.Desc.Label)
			gui.Label(row, f.Text)
		}
		y += 22
	}
}

// drawGameOver shows the final score and a restart button.
func (g *Game) drawGameOver(r *sim.RenderSnapshot) {
	w, h := float32(300), float32(150)
	bounds := rl.Rectangle{X: (g.screenWidth - w) / 2, Y: (g.screenHeight - h) / 2, Width: w, Height: h}
	gui.Panel(bounds, "GAME OVER")

	gui.Label(rl.Rectangle{X: bounds.X + 20, Y: bounds.Y + 40, Width: w - 40, Height: 20},
		fmt.Sprintf("Score %d   Level %d", r.HUD.Score, r.HUD.Level))
	gui.Label(rl.Rectangle{X: bounds.X + 20, Y: bounds.Y + 62, Width: w - 40, Height: 20},
		fmt.Sprintf("Survived %.1fs", float64(r.Now)/1000))

	if gui.Button(rl.Rectangle{X: bounds.X + (w-120)/2, Y: bounds.Y + h - 45, Width: 120, Height: 30}, "Restart") {
		g.restart()
	}
}
