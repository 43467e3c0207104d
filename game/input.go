package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/spectral/sim"
)

// captureInput reads the player controls for this frame.
func (g *Game) captureInput() sim.Input {
	mouse := rl.GetMousePosition()
	px, py, _ := g.camera.ScreenToWorld(mouse.X, mouse.Y)

	return sim.Input{
		Up:       rl.IsKeyDown(rl.KeyW) || rl.IsKeyDown(rl.KeyUp),
		Down:     rl.IsKeyDown(rl.KeyS) || rl.IsKeyDown(rl.KeyDown),
		Left:     rl.IsKeyDown(rl.KeyA) || rl.IsKeyDown(rl.KeyLeft),
		Right:    rl.IsKeyDown(rl.KeyD) || rl.IsKeyDown(rl.KeyRight),
		Fire:     rl.IsMouseButtonDown(rl.MouseButtonLeft) || rl.IsKeyDown(rl.KeySpace),
		Cheat1:   rl.IsKeyDown(rl.KeyOne),
		Cheat2:   rl.IsKeyDown(rl.KeyTwo),
		PointerX: float64(px),
		PointerY: float64(py),
	}
}

// handleHostInput processes keys that control the host rather than the
// player.
func (g *Game) handleHostInput() {
	g.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}
	if rl.IsKeyPressed(rl.KeyP) {
		g.paused = !g.paused
	}
	if rl.IsKeyPressed(rl.KeyF3) {
		g.debugMode = !g.debugMode
	}
	if rl.IsKeyPressed(rl.KeyF5) {
		if err := g.saveSnapshot(); err != nil {
			g.logger.Error("failed to save snapshot", "error", err)
		}
	}
	if g.driver.Sim().GameOver() && rl.IsKeyPressed(rl.KeyEnter) {
		g.restart()
	}

	// Inspector selection
	if rl.IsMouseButtonPressed(rl.MouseButtonRight) {
		mouse := rl.GetMousePosition()
		wx, wy, inside := g.camera.ScreenToWorld(mouse.X, mouse.Y)
		if !inside {
			g.hasSelection = false
			return
		}
		g.selected, g.hasSelection = g.driver.Sim().EntityAt(float64(wx), float64(wy))
	}
}

// restart wraps Restart for UI callers.
func (g *Game) restart() {
	if err := g.Restart(); err != nil {
		g.logger.Error("restart failed", "error", err)
	}
}

// handleResize checks for window resize and refits the camera.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == g.screenWidth && h == g.screenHeight {
		return
	}
	g.screenWidth = w
	g.screenHeight = h
	g.camera.Resize(w, h)
}
