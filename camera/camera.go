// Package camera maps the bounded play field onto the window.
package camera

// Camera letterboxes the world into the viewport: the world keeps its
// aspect ratio, is scaled uniformly to fit and is centered, with bars on
// the two sides that do not fill.
type Camera struct {
	// Viewport dimensions (screen size)
	ViewportW, ViewportH float32

	// World dimensions
	WorldW, WorldH float32

	// Scale is screen pixels per world unit.
	Scale float32

	// OffsetX, OffsetY is the screen position of the world origin.
	OffsetX, OffsetY float32
}

// New creates a camera fitting a worldW x worldH field into the viewport.
func New(viewportW, viewportH, worldW, worldH float32) *Camera {
	c := &Camera{ViewportW: viewportW, ViewportH: viewportH, WorldW: worldW, WorldH: worldH}
	c.fit()
	return c
}

func (c *Camera) fit() {
	if c.WorldW <= 0 || c.WorldH <= 0 || c.ViewportW <= 0 || c.ViewportH <= 0 {
		c.Scale = 1
		c.OffsetX, c.OffsetY = 0, 0
		return
	}
	c.Scale = min(c.ViewportW/c.WorldW, c.ViewportH/c.WorldH)
	c.OffsetX = (c.ViewportW - c.WorldW*c.Scale) / 2
	c.OffsetY = (c.ViewportH - c.WorldH*c.Scale) / 2
}

// WorldToScreen converts world coordinates to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy float32) (sx, sy float32) {
	return c.OffsetX + wx*c.Scale, c.OffsetY + wy*c.Scale
}

// ScreenToWorld converts screen coordinates to world coordinates. The
// result is clamped to the field, so a pointer in the letterbox bars aims
// at the nearest edge. inside reports whether no clamping was needed.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy float32, inside bool) {
	wx = (sx - c.OffsetX) / c.Scale
	wy = (sy - c.OffsetY) / c.Scale
	cx := clamp(wx, 0, c.WorldW)
	cy := clamp(wy, 0, c.WorldH)
	return cx, cy, cx == wx && cy == wy
}

// Length converts a world distance to pixels.
func (c *Camera) Length(w float32) float32 {
	return w * c.Scale
}

// IsVisible returns true if a circle at (wx, wy) with given radius
// overlaps the field.
func (c *Camera) IsVisible(wx, wy, radius float32) bool {
	return wx+radius >= 0 && wy+radius >= 0 && wx-radius <= c.WorldW && wy-radius <= c.WorldH
}

// FieldRect returns the screen rectangle covered by the world.
func (c *Camera) FieldRect() (x, y, w, h float32) {
	return c.OffsetX, c.OffsetY, c.WorldW * c.Scale, c.WorldH * c.Scale
}

// Resize updates viewport dimensions and refits.
func (c *Camera) Resize(viewportW, viewportH float32) {
	if viewportW == c.ViewportW && viewportH == c.ViewportH {
		return
	}
	c.ViewportW = viewportW
	c.ViewportH = viewportH
	c.fit()
}

// SetWorld changes the field size and refits.
func (c *Camera) SetWorld(worldW, worldH float32) {
	c.WorldW = worldW
	c.WorldH = worldH
	c.fit()
}

// clamp restricts a value to a range.
func clamp(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
