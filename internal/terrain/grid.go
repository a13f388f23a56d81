package terrain

import (
	"errors"
	"fmt"
)

// ErrInvalidGrid is returned by NewGrid for non-positive extents or segment counts.
var ErrInvalidGrid = errors.New("invalid grid")

// UVScale maps plane positions to texture space.
const UVScale = 0.1

// Grid is an immutable regular plane of (SegmentsX+1)*(SegmentsY+1)
// vertices centered on the origin. Rows run from +Height/2 down to
// -Height/2, columns from -Width/2 to +Width/2.
type Grid struct {
	width, height        float64
	segmentsX, segmentsY int
	positions            [][2]float64
	indices              []uint32
}

// NewGrid builds a plane grid.
func NewGrid(width, height float64, segmentsX, segmentsY int) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: extent %gx%g", ErrInvalidGrid, width, height)
	}
	if segmentsX < 1 || segmentsY < 1 {
		return nil, fmt.Errorf("%w: segments %dx%d", ErrInvalidGrid, segmentsX, segmentsY)
	}

	g := &Grid{
		width:     width,
		height:    height,
		segmentsX: segmentsX,
		segmentsY: segmentsY,
	}

	cols := segmentsX + 1
	rows := segmentsY + 1
	cellW := width / float64(segmentsX)
	cellH := height / float64(segmentsY)

	g.positions = make([][2]float64, 0, cols*rows)
	for iy := 0; iy < rows; iy++ {
		y := height/2 - float64(iy)*cellH
		for ix := 0; ix < cols; ix++ {
			x := float64(ix)*cellW - width/2
			g.positions = append(g.positions, [2]float64{x, y})
		}
	}

	g.indices = make([]uint32, 0, segmentsX*segmentsY*6)
	for iy := 0; iy < segmentsY; iy++ {
		for ix := 0; ix < segmentsX; ix++ {
			a := uint32(ix + cols*iy)
			b := uint32(ix + cols*(iy+1))
			c := uint32(ix + 1 + cols*(iy+1))
			d := uint32(ix + 1 + cols*iy)
			g.indices = append(g.indices, a, b, d, b, c, d)
		}
	}

	return g, nil
}

// Width returns the X extent.
func (g *Grid) Width() float64 { return g.width }

// Height returns the Y extent.
func (g *Grid) Height() float64 { return g.height }

// Segments returns the subdivision counts.
func (g *Grid) Segments() (x, y int) { return g.segmentsX, g.segmentsY }

// Columns returns the number of vertices per row.
func (g *Grid) Columns() int { return g.segmentsX + 1 }

// Rows returns the number of vertex rows.
func (g *Grid) Rows() int { return g.segmentsY + 1 }

// VertexCount returns the total number of vertices.
func (g *Grid) VertexCount() int { return len(g.positions) }

// Position returns the planar position of vertex i.
func (g *Grid) Position(i int) (x, y float64) {
	p := g.positions[i]
	return p[0], p[1]
}

// UV returns the texture coordinate of vertex i.
func (g *Grid) UV(i int) (u, v float64) {
	p := g.positions[i]
	return p[0] * UVScale, p[1] * UVScale
}

// Indices returns a copy of the triangle index list.
func (g *Grid) Indices() []uint32 {
	out := make([]uint32, len(g.indices))
	copy(out, g.indices)
	return out
}
