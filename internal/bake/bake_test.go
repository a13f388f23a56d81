package bake

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/procedural-horizon/internal/terrain"
	"github.com/Faultbox/procedural-horizon/pkg/noise"
)

var camera = mgl64.Vec3{0, -20, 10}

func setup(t *testing.T, mode string) (*Baker, *terrain.Grid, *terrain.Mode) {
	t.Helper()
	g, err := terrain.NewGrid(25, 25, 24, 20)
	if err != nil {
		t.Fatalf("NewGrid failed: %v", err)
	}
	m, err := terrain.NewMode(mode, noise.NewSimplex(9))
	if err != nil {
		t.Fatalf("NewMode failed: %v", err)
	}
	b := New(4)
	t.Cleanup(b.Close)
	return b, g, m
}

func TestBakeMatchesSerialEvaluation(t *testing.T) {
	for _, name := range terrain.ModeNames() {
		t.Run(name, func(t *testing.T) {
			b, g, m := setup(t, name)
			mesh, err := b.Bake(context.Background(), g, m, 3.5, camera)
			if err != nil {
				t.Fatalf("Bake failed: %v", err)
			}

			if len(mesh.Vertices) != g.VertexCount() {
				t.Fatalf("got %d vertices, want %d", len(mesh.Vertices), g.VertexCount())
			}
			if mesh.Mode != name || mesh.Time != 3.5 {
				t.Errorf("mesh tagged %s@%v", mesh.Mode, mesh.Time)
			}

			for i, v := range mesh.Vertices {
				want := Vertex(g, i, m, 3.5, camera)
				if v != want {
					t.Fatalf("vertex %d = %+v, want %+v", i, v, want)
				}
				x, y := g.Position(i)
				if v.Position[0] != x || v.Position[1] != y {
					t.Fatalf("vertex %d moved in plane", i)
				}
				if d := math.Abs(mgl64.Vec3(v.Normal).Len() - 1); d > 1e-4 {
					t.Fatalf("vertex %d normal not unit: %v", i, v.Normal)
				}
			}
		})
	}
}

func TestBakeBounds(t *testing.T) {
	b, g, m := setup(t, terrain.ModeMountain)
	mesh, err := b.Bake(context.Background(), g, m, 0, camera)
	if err != nil {
		t.Fatalf("Bake failed: %v", err)
	}
	lo, hi := mesh.ElevationRange()
	for _, v := range mesh.Vertices {
		if v.Elevation < lo || v.Elevation > hi {
			t.Fatalf("elevation %v outside bounds [%v, %v]", v.Elevation, lo, hi)
		}
	}
	if mesh.Bounds.Min[0] != -12.5 || mesh.Bounds.Max[0] != 12.5 {
		t.Errorf("x bounds = [%v, %v]", mesh.Bounds.Min[0], mesh.Bounds.Max[0])
	}
}

func TestBakeStaticModeRepeats(t *testing.T) {
	b, g, m := setup(t, terrain.ModeMountain)
	a, err := b.Bake(context.Background(), g, m, 0, camera)
	if err != nil {
		t.Fatalf("Bake failed: %v", err)
	}
	c, err := b.Bake(context.Background(), g, m, 10, camera)
	if err != nil {
		t.Fatalf("Bake failed: %v", err)
	}
	for i := range a.Vertices {
		if a.Vertices[i].Position != c.Vertices[i].Position {
			t.Fatalf("static terrain moved at vertex %d", i)
		}
	}
}

func TestBakeCancelled(t *testing.T) {
	b, g, m := setup(t, terrain.ModeWater)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := b.Bake(ctx, g, m, 0, camera)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestBakeNilMode(t *testing.T) {
	b, g, _ := setup(t, terrain.ModeWater)
	if _, err := b.Bake(context.Background(), g, nil, 0, camera); err == nil {
		t.Error("expected error for nil mode")
	}
}
