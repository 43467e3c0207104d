package main

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/spectral/camera"
	"github.com/pthm-cable/spectral/components"
	"github.com/pthm-cable/spectral/sim"
)

// hudRows is the number of terminal rows above the field.
const hudRows = 2

var glyphs = map[components.Kind]rune{
	components.KindPlayer:       '@',
	components.KindBasicEnemy:   'e',
	components.KindShooterEnemy: 'S',
	components.KindGhostFire:    '*',
	components.KindProjectile:   '.',
	components.KindBox:          '#',
	components.KindPortal:       'O',
	components.KindObstacle:     '█',
}

func glyph(k components.Kind) rune {
	if r, ok := glyphs[k]; ok {
		return r
	}
	return '?'
}

func kindStyle(d *sim.Drawable) tcell.Style {
	st := tcell.StyleDefault
	switch d.Kind {
	case components.KindPlayer:
		st = st.Foreground(tcell.ColorWhite).Bold(true)
	case components.KindBasicEnemy:
		st = st.Foreground(tcell.ColorRed)
	case components.KindShooterEnemy:
		st = st.Foreground(tcell.ColorOrange)
	case components.KindGhostFire:
		st = st.Foreground(tcell.ColorAqua)
	case components.KindProjectile:
		st = st.Foreground(tcell.ColorYellow)
	case components.KindPortal:
		st = st.Foreground(tcell.ColorPurple)
	default:
		st = st.Foreground(tcell.ColorGray)
	}
	if d.Faded {
		st = st.Dim(true)
	}
	if d.Flash {
		st = st.Reverse(true)
	}
	return st
}

// view draws render snapshots into a terminal. A terminal cell is about
// twice as tall as wide, so the camera works in half-rows.
type view struct {
	screen tcell.Screen
	cam    *camera.Camera
}

func newView(screen tcell.Screen, worldW, worldH float64) *view {
	v := &view{screen: screen, cam: camera.New(1, 1, float32(worldW), float32(worldH))}
	v.resize()
	return v
}

func (v *view) resize() {
	cols, rows := v.screen.Size()
	v.cam.Resize(float32(cols), float32(max(rows-hudRows, 1)*2))
}

// cell maps a world point to a terminal cell.
func (v *view) cell(x, y float64) (int, int) {
	sx, sy := v.cam.WorldToScreen(float32(x), float32(y))
	return int(sx), int(sy/2) + hudRows
}

// pointer maps a terminal cell back to the world.
func (v *view) pointer(col, row int) (float64, float64) {
	wx, wy, _ := v.cam.ScreenToWorld(float32(col)+0.5, float32((row-hudRows)*2)+1)
	return float64(wx), float64(wy)
}

func (v *view) draw(r *sim.RenderSnapshot) {
	v.screen.Clear()

	x0, y0, w, h := v.cam.FieldRect()
	border := tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	if r.Display == components.Spectral {
		border = border.Foreground(tcell.ColorTeal)
	}
	left, top := int(x0), int(y0/2)+hudRows
	right, bottom := int(x0+w), int((y0+h)/2)+hudRows
	for c := left; c <= right; c++ {
		v.screen.SetContent(c, top-1, '─', nil, border)
		v.screen.SetContent(c, bottom, '─', nil, border)
	}

	for i := range r.Drawables {
		d := &r.Drawables[i]
		c, row := v.cell(d.X, d.Y+d.BobY)
		if row < hudRows {
			continue
		}
		v.screen.SetContent(c, row, glyph(d.Kind), nil, kindStyle(d))
	}

	hud := r.HUD
	v.text(0, 0, tcell.StyleDefault.Bold(true),
		fmt.Sprintf("Score %d x%d  Level %d  Energy %d/%d  %s", hud.Score, hud.Multiplier, hud.Level, hud.Energy, hud.EnergyGoal, hud.Phase))
	status := hud.MainWeapon
	if hud.SubWeapon != "" {
		status += " + " + hud.SubWeapon
	}
	if hud.Invulnerable {
		status += "  INVULNERABLE"
	}
	v.text(0, 1, tcell.StyleDefault.Foreground(tcell.ColorGray), status+"  [wasd move, mouse/space fire, 1/2 cheats, q quit]")

	if r.GameOver {
		cols, rows := v.screen.Size()
		msg := fmt.Sprintf(" GAME OVER  score %d  [r] restart  [q] quit ", hud.Score)
		v.text((cols-len(msg))/2, rows/2, tcell.StyleDefault.Reverse(true), msg)
	}
	v.screen.Show()
}

func (v *view) text(x, y int, st tcell.Style, s string) {
	for i, r := range []rune(s) {
		v.screen.SetContent(x+i, y, r, nil, st)
	}
}
