// Package systems contains ECS systems for the simulation.
package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/spectral/components"
)

// Neighbor holds a nearby entity with precomputed spatial data.
type Neighbor struct {
	E      ecs.Entity
	DX, DY float64 // Delta from query origin to the neighbor
	DistSq float64
}

// SpatialGrid provides O(1) neighbor lookups using a cell-based grid over
// a bounded world. Positions outside the world fall into the edge cells.
type SpatialGrid struct {
	cellSize float64
	cols     int
	rows     int
	cells    [][]ecs.Entity // flat grid of entity lists
	maxR     float64        // largest radius inserted since Clear
}

// NewSpatialGrid creates a spatial grid covering the given world size.
func NewSpatialGrid(width, height, cellSize float64) *SpatialGrid {
	if cellSize <= 0 {
		cellSize = 64
	}
	cols := int(width/cellSize) + 1
	rows := int(height/cellSize) + 1

	cells := make([][]ecs.Entity, cols*rows)
	for i := range cells {
		cells[i] = make([]ecs.Entity, 0, 8) // pre-allocate small capacity
	}

	return &SpatialGrid{
		cellSize: cellSize,
		cols:     cols,
		rows:     rows,
		cells:    cells,
	}
}

// Clear removes all entities from the grid.
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
	g.maxR = 0
}

// Insert adds an entity with the given collision radius to the grid.
func (g *SpatialGrid) Insert(e ecs.Entity, x, y, radius float64) {
	idx := g.cellIndex(x, y)
	g.cells[idx] = append(g.cells[idx], e)
	if radius > g.maxR {
		g.maxR = radius
	}
}

// MaxRadius returns the largest radius inserted since the last Clear.
// Overlap queries widen their search by it.
func (g *SpatialGrid) MaxRadius() float64 {
	return g.maxR
}

// QueryRadiusInto finds entities whose centers lie within radius of (x, y)
// and appends them to dst in insertion order per cell. Reuse dst across
// calls to avoid allocations.
func (g *SpatialGrid) QueryRadiusInto(dst []Neighbor, x, y, radius float64, exclude ecs.Entity, posMap *ecs.Map1[components.Position]) []Neighbor {
	cellRadius := int(radius/g.cellSize) + 1

	centerCol, centerRow := g.cellCoords(x, y)
	radiusSq := radius * radius

	for dr := -cellRadius; dr <= cellRadius; dr++ {
		row := centerRow + dr
		if row < 0 || row >= g.rows {
			continue
		}
		for dc := -cellRadius; dc <= cellRadius; dc++ {
			col := centerCol + dc
			if col < 0 || col >= g.cols {
				continue
			}
			for _, e := range g.cells[row*g.cols+col] {
				if e == exclude {
					continue
				}
				pos := posMap.Get(e)
				if pos == nil {
					continue
				}

				dx := pos.X - x
				dy := pos.Y - y
				distSq := dx*dx + dy*dy
				if distSq <= radiusSq {
					dst = append(dst, Neighbor{E: e, DX: dx, DY: dy, DistSq: distSq})
				}
			}
		}
	}

	return dst
}

// cellCoords returns the clamped cell column and row for a world position.
func (g *SpatialGrid) cellCoords(x, y float64) (int, int) {
	col := int(x / g.cellSize)
	row := int(y / g.cellSize)

	// Clamp to valid range
	if col < 0 {
		col = 0
	} else if col >= g.cols {
		col = g.cols - 1
	}
	if row < 0 {
		row = 0
	} else if row >= g.rows {
		row = g.rows - 1
	}
	return col, row
}

// cellIndex returns the flat index for a world position.
func (g *SpatialGrid) cellIndex(x, y float64) int {
	col, row := g.cellCoords(x, y)
	return row*g.cols + col
}
