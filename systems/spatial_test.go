package systems

import (
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/spectral/components"
)

func TestSpatialGridQueryRadius(t *testing.T) {
	fx := newFixture(t)
	grid := NewSpatialGrid(640, 480, 64)

	near := fx.add(entitySpec{kind: components.KindBasicEnemy, x: 110, y: 100})
	far := fx.add(entitySpec{kind: components.KindBasicEnemy, x: 400, y: 300})
	self := fx.add(entitySpec{kind: components.KindBasicEnemy, x: 100, y: 100})
	edge := fx.add(entitySpec{kind: components.KindBasicEnemy, x: 700, y: -20}) // Off-world, lands in an edge cell
	for _, e := range []ecs.Entity{near, far, self, edge} {
		p := fx.pos.Get(e)
		grid.Insert(e, p.X, p.Y, 8)
	}

	got := grid.QueryRadiusInto(nil, 100, 100, 20, self, fx.pos)
	if len(got) != 1 || got[0].E != near {
		t.Fatalf("QueryRadiusInto = %+v, want only the near entity", got)
	}
	if got[0].DX != 10 || got[0].DistSq != 100 {
		t.Errorf("neighbor delta = (%v, %v), want dx 10 distSq 100", got[0].DX, got[0].DistSq)
	}

	if got := grid.QueryRadiusInto(nil, 640, 0, 100, ecs.Entity{}, fx.pos); len(got) != 1 || got[0].E != edge {
		t.Errorf("edge query = %+v, want the off-world entity", got)
	}

	if grid.MaxRadius() != 8 {
		t.Errorf("MaxRadius = %v, want 8", grid.MaxRadius())
	}
	grid.Clear()
	if got := grid.QueryRadiusInto(nil, 100, 100, 1000, ecs.Entity{}, fx.pos); len(got) != 0 {
		t.Errorf("after Clear got %d neighbors", len(got))
	}
	if grid.MaxRadius() != 0 {
		t.Errorf("MaxRadius after Clear = %v", grid.MaxRadius())
	}
}

func TestSpatialGridCellClamping(t *testing.T) {
	g := NewSpatialGrid(100, 100, 50)
	tests := []struct {
		x, y     float64
		col, row int
	}{
		{0, 0, 0, 0},
		{99, 49, 1, 0},
		{-30, 500, 0, 2},
		{1e9, 1e9, 2, 2},
	}
	for _, tt := range tests {
		col, row := g.cellCoords(tt.x, tt.y)
		if col != tt.col || row != tt.row {
			t.Errorf("cellCoords(%v, %v) = (%d, %d), want (%d, %d)", tt.x, tt.y, col, row, tt.col, tt.row)
		}
	}
}
