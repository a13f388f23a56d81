// Package bake runs the vertex stage: every grid vertex is displaced by the
// active height field and given its normal, slope and a per-vertex shade.
//
// Vertices are independent, so rows are split into chunks and evaluated on
// a worker pool. Each task writes only its own slice of the output.
package bake

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/Faultbox/procedural-horizon/internal/logger"
	"github.com/Faultbox/procedural-horizon/internal/terrain"
)

// Baker evaluates grids on a shared worker pool.
type Baker struct {
	pool      pond.Pool
	chunkRows int
	log       *zap.Logger
}

// New creates a Baker with the given worker count. workers <= 0 uses one
// worker per CPU.
func New(workers int) *Baker {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Baker{
		pool:      pond.NewPool(workers),
		chunkRows: 8,
		log:       logger.Named("bake"),
	}
}

// Close stops the pool after in-flight work finishes.
func (b *Baker) Close() {
	b.pool.StopAndWait()
}

// Bake evaluates every vertex of g under mode at time t. camera feeds the
// per-vertex shade. It returns ctx.Err() if cancelled before completion.
func (b *Baker) Bake(ctx context.Context, g *terrain.Grid, mode *terrain.Mode, t float64, camera mgl64.Vec3) (*terrain.Mesh, error) {
	if mode == nil {
		return nil, fmt.Errorf("bake: nil mode")
	}
	start := time.Now()

	mesh := &terrain.Mesh{
		Vertices: make([]terrain.Vertex, g.VertexCount()),
		Indices:  g.Indices(),
		Time:     t,
		Mode:     mode.Name,
	}

	cols := g.Columns()
	rows := g.Rows()
	group := b.pool.NewGroup()
	for r0 := 0; r0 < rows; r0 += b.chunkRows {
		r1 := min(r0+b.chunkRows, rows)
		group.SubmitErr(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			for i := r0 * cols; i < r1*cols; i++ {
				mesh.Vertices[i] = Vertex(g, i, mode, t, camera)
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	mesh.ComputeBounds()
	lo, hi := mesh.ElevationRange()
	b.log.Debug("baked frame",
		zap.String("mode", mode.Name),
		zap.Float64("time", t),
		zap.Int("vertices", len(mesh.Vertices)),
		zap.Float64("min_elevation", lo),
		zap.Float64("max_elevation", hi),
		zap.Duration("took", time.Since(start)),
	)

	return mesh, nil
}

// Vertex evaluates grid vertex i.
func Vertex(g *terrain.Grid, i int, mode *terrain.Mode, t float64, camera mgl64.Vec3) terrain.Vertex {
	x, y := g.Position(i)
	s := mode.Sample(x, y, t)
	f := mode.Fragment(s, x, y, t, camera)
	c := mode.Shader.Shade(f)

	return terrain.Vertex{
		Position:  [3]float64{x, y, s.Elevation},
		Normal:    s.Normal,
		TexCoord:  f.UV,
		Elevation: s.Elevation,
		Slope:     s.Slope,
		Color:     c,
	}
}
