package terrain

import (
	"errors"
	"math"
	"testing"
)

func TestNewGrid(t *testing.T) {
	g, err := NewGrid(25, 25, 4, 2)
	if err != nil {
		t.Fatalf("NewGrid failed: %v", err)
	}

	if g.VertexCount() != 5*3 {
		t.Errorf("expected 15 vertices, got %d", g.VertexCount())
	}
	if g.Columns() != 5 || g.Rows() != 3 {
		t.Errorf("expected 5x3 vertices, got %dx%d", g.Columns(), g.Rows())
	}
	if n := len(g.Indices()); n != 4*2*6 {
		t.Errorf("expected %d indices, got %d", 4*2*6, n)
	}

	x, y := g.Position(0)
	if x != -12.5 || y != 12.5 {
		t.Errorf("first vertex at (%v, %v), want (-12.5, 12.5)", x, y)
	}
	x, y = g.Position(g.VertexCount() - 1)
	if x != 12.5 || y != -12.5 {
		t.Errorf("last vertex at (%v, %v), want (12.5, -12.5)", x, y)
	}

	u, v := g.UV(0)
	if math.Abs(u+1.25) > 1e-12 || math.Abs(v-1.25) > 1e-12 {
		t.Errorf("UV(0) = (%v, %v), want (-1.25, 1.25)", u, v)
	}
}

func TestGridIndicesInRange(t *testing.T) {
	g, err := NewGrid(10, 6, 8, 5)
	if err != nil {
		t.Fatalf("NewGrid failed: %v", err)
	}
	for i, idx := range g.Indices() {
		if int(idx) >= g.VertexCount() {
			t.Fatalf("index %d = %d out of range", i, idx)
		}
	}
}

func TestGridIndicesAreCopies(t *testing.T) {
	g, _ := NewGrid(1, 1, 1, 1)
	idx := g.Indices()
	idx[0] = 99
	if g.Indices()[0] == 99 {
		t.Error("Indices exposed internal storage")
	}
}

func TestNewGridInvalid(t *testing.T) {
	tests := []struct {
		name       string
		w, h       float64
		segX, segY int
	}{
		{"zero width", 0, 1, 1, 1},
		{"negative height", 1, -1, 1, 1},
		{"zero segments", 1, 1, 0, 1},
		{"negative segments", 1, 1, 1, -3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewGrid(tt.w, tt.h, tt.segX, tt.segY)
			if !errors.Is(err, ErrInvalidGrid) {
				t.Errorf("expected ErrInvalidGrid, got %v", err)
			}
		})
	}
}

func TestMeshBounds(t *testing.T) {
	m := &Mesh{Vertices: []Vertex{
		{Position: [3]float64{1, 2, 3}},
		{Position: [3]float64{-1, 5, -2}},
		{Position: [3]float64{0, -4, 7}},
	}}
	m.ComputeBounds()

	if m.Bounds.Min != [3]float64{-1, -4, -2} {
		t.Errorf("Min = %v", m.Bounds.Min)
	}
	if m.Bounds.Max != [3]float64{1, 5, 7} {
		t.Errorf("Max = %v", m.Bounds.Max)
	}
	lo, hi := m.ElevationRange()
	if lo != -2 || hi != 7 {
		t.Errorf("ElevationRange = (%v, %v)", lo, hi)
	}

	empty := &Mesh{}
	empty.ComputeBounds()
	if empty.Bounds != (Bounds{}) {
		t.Errorf("empty bounds = %v", empty.Bounds)
	}
}
