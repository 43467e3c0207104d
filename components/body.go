package components

// Body holds the half-extents of an entity. Collision uses a circle of
// radius W/2.
type Body struct {
	W, H float64
}

// Radius returns the collision radius.
func (b Body) Radius() float64 {
	return b.W / 2
}
