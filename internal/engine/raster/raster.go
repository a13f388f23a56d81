// Package raster is a software rasterizer for baked terrain meshes.
//
// It mirrors a GPU pipeline: vertices are projected once, triangles are
// scan-converted with a depth buffer, and every covered pixel runs the
// mode's fragment shader on perspective-correct interpolated varyings.
// The screen is split into horizontal bands that are shaded in parallel;
// each band owns its rows of the image and depth buffer.
package raster

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"runtime"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/Faultbox/procedural-horizon/internal/engine/camera"
	"github.com/Faultbox/procedural-horizon/internal/logger"
	"github.com/Faultbox/procedural-horizon/internal/shading"
	"github.com/Faultbox/procedural-horizon/internal/terrain"
)

// DefaultBackground is the clear color.
var DefaultBackground = color.RGBA{R: 5, G: 5, B: 5, A: 255}

const bandRows = 16

// Renderer rasterizes meshes into RGBA images.
type Renderer struct {
	Width      int
	Height     int
	Background color.RGBA
	// Gouraud interpolates the baked per-vertex colors instead of running
	// the fragment shader per pixel.
	Gouraud bool

	pool pond.Pool
	log  *zap.Logger
}

// New creates a renderer. workers <= 0 uses one worker per CPU.
func New(width, height, workers int) (*Renderer, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("raster: invalid size %dx%d", width, height)
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Renderer{
		Width:      width,
		Height:     height,
		Background: DefaultBackground,
		pool:       pond.NewPool(workers),
		log:        logger.Named("raster"),
	}, nil
}

// Close stops the worker pool.
func (r *Renderer) Close() {
	r.pool.StopAndWait()
}

// Aspect returns width / height.
func (r *Renderer) Aspect() float64 {
	return float64(r.Width) / float64(r.Height)
}

// screenVertex is a projected vertex.
type screenVertex struct {
	x, y, z float64 // pixels, pixels, NDC depth
	invW    float64
	ok      bool // in front of the camera
}

type triangle struct {
	v          [3]uint32
	minX, maxX int
	minY, maxY int
}

// Render draws mesh as seen through viewProj. camera is the eye position
// passed to the fragment shader.
func (r *Renderer) Render(ctx context.Context, mesh *terrain.Mesh, shader shading.Shader, viewProj mgl64.Mat4, camera mgl64.Vec3) (*image.RGBA, error) {
	if mesh == nil {
		return nil, errors.New("raster: nil mesh")
	}
	if shader == nil && !r.Gouraud {
		return nil, errors.New("raster: nil shader")
	}
	start := time.Now()

	verts := r.project(mesh, viewProj)
	bands := r.bin(mesh.Indices, verts)

	img := image.NewRGBA(image.Rect(0, 0, r.Width, r.Height))
	group := r.pool.NewGroup()
	for b, tris := range bands {
		y0 := b * bandRows
		y1 := min(y0+bandRows, r.Height)
		group.SubmitErr(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r.drawBand(img, y0, y1, tris, mesh, verts, shader, camera)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	r.log.Debug("rendered frame",
		zap.String("mode", mesh.Mode),
		zap.Int("triangles", len(mesh.Indices)/3),
		zap.Int("width", r.Width),
		zap.Int("height", r.Height),
		zap.Duration("took", time.Since(start)),
	)
	return img, nil
}

// RenderView draws mesh with the mode's shader as seen from cam.
func (r *Renderer) RenderView(ctx context.Context, mesh *terrain.Mesh, mode *terrain.Mode, cam *camera.OrbitCamera) (*image.RGBA, error) {
	if mode == nil {
		return nil, errors.New("raster: nil mode")
	}
	return r.Render(ctx, mesh, mode.Shader, cam.ViewProjection(r.Aspect()), cam.Position())
}

func (r *Renderer) project(mesh *terrain.Mesh, viewProj mgl64.Mat4) []screenVertex {
	out := make([]screenVertex, len(mesh.Vertices))
	w, h := float64(r.Width), float64(r.Height)
	for i, v := range mesh.Vertices {
		clip := viewProj.Mul4x1(mgl64.Vec4{v.Position[0], v.Position[1], v.Position[2], 1})
		if clip[3] <= 1e-6 {
			continue
		}
		inv := 1 / clip[3]
		out[i] = screenVertex{
			x:    (clip[0]*inv*0.5 + 0.5) * w,
			y:    (0.5 - clip[1]*inv*0.5) * h,
			z:    clip[2] * inv,
			invW: inv,
			ok:   true,
		}
	}
	return out
}

// bin assigns each visible triangle to every band its bounding box touches.
func (r *Renderer) bin(indices []uint32, verts []screenVertex) [][]triangle {
	bands := make([][]triangle, (r.Height+bandRows-1)/bandRows)
	for i := 0; i+2 < len(indices); i += 3 {
		t := triangle{v: [3]uint32{indices[i], indices[i+1], indices[i+2]}}
		a, b, c := verts[t.v[0]], verts[t.v[1]], verts[t.v[2]]
		if !a.ok || !b.ok || !c.ok {
			continue
		}
		t.minX = max(int(math.Floor(min(a.x, b.x, c.x))), 0)
		t.maxX = min(int(math.Ceil(max(a.x, b.x, c.x))), r.Width-1)
		t.minY = max(int(math.Floor(min(a.y, b.y, c.y))), 0)
		t.maxY = min(int(math.Ceil(max(a.y, b.y, c.y))), r.Height-1)
		if t.minX > t.maxX || t.minY > t.maxY {
			continue
		}
		for band := t.minY / bandRows; band <= t.maxY/bandRows; band++ {
			bands[band] = append(bands[band], t)
		}
	}
	return bands
}

func edge(ax, ay, bx, by, px, py float64) float64 {
	return (bx-ax)*(py-ay) - (by-ay)*(px-ax)
}

func (r *Renderer) drawBand(img *image.RGBA, y0, y1 int, tris []triangle, mesh *terrain.Mesh, verts []screenVertex, shader shading.Shader, camera mgl64.Vec3) {
	depth := make([]float64, (y1-y0)*r.Width)
	for i := range depth {
		depth[i] = math.Inf(1)
	}
	for y := y0; y < y1; y++ {
		for x := 0; x < r.Width; x++ {
			img.SetRGBA(x, y, r.Background)
		}
	}

	for _, t := range tris {
		a, b, c := verts[t.v[0]], verts[t.v[1]], verts[t.v[2]]
		area := edge(a.x, a.y, b.x, b.y, c.x, c.y)
		if area == 0 {
			continue
		}
		// both windings are drawn; normalizing by the signed area makes
		// the barycentrics positive inside either way
		inv := 1 / area

		for y := max(t.minY, y0); y <= min(t.maxY, y1-1); y++ {
			py := float64(y) + 0.5
			for x := t.minX; x <= t.maxX; x++ {
				px := float64(x) + 0.5
				w0 := edge(b.x, b.y, c.x, c.y, px, py) * inv
				w1 := edge(c.x, c.y, a.x, a.y, px, py) * inv
				w2 := edge(a.x, a.y, b.x, b.y, px, py) * inv
				if w0 < 0 || w1 < 0 || w2 < 0 {
					continue
				}

				z := w0*a.z + w1*b.z + w2*c.z
				if z < -1 || z > 1 {
					continue
				}
				di := (y-y0)*r.Width + x
				if z >= depth[di] {
					continue
				}
				depth[di] = z

				// perspective-correct weights
				p0, p1, p2 := w0*a.invW, w1*b.invW, w2*c.invW
				s := 1 / (p0 + p1 + p2)
				p0, p1, p2 = p0*s, p1*s, p2*s

				va := &mesh.Vertices[t.v[0]]
				vb := &mesh.Vertices[t.v[1]]
				vc := &mesh.Vertices[t.v[2]]

				var col mgl64.Vec3
				if r.Gouraud {
					col = lerp3(va.Color, vb.Color, vc.Color, p0, p1, p2)
				} else {
					col = shader.Shade(fragment(va, vb, vc, p0, p1, p2, camera, mesh.Time))
				}
				img.SetRGBA(x, y, shading.ToRGBA(col))
			}
		}
	}
}

func lerp3(a, b, c [3]float64, p0, p1, p2 float64) mgl64.Vec3 {
	return mgl64.Vec3{
		a[0]*p0 + b[0]*p1 + c[0]*p2,
		a[1]*p0 + b[1]*p1 + c[1]*p2,
		a[2]*p0 + b[2]*p1 + c[2]*p2,
	}
}

func fragment(a, b, c *terrain.Vertex, p0, p1, p2 float64, camera mgl64.Vec3, t float64) shading.Fragment {
	uv := mgl64.Vec2{
		a.TexCoord[0]*p0 + b.TexCoord[0]*p1 + c.TexCoord[0]*p2,
		a.TexCoord[1]*p0 + b.TexCoord[1]*p1 + c.TexCoord[1]*p2,
	}
	return shading.Fragment{
		Elevation: a.Elevation*p0 + b.Elevation*p1 + c.Elevation*p2,
		Normal:    shading.Normalize(lerp3(a.Normal, b.Normal, c.Normal, p0, p1, p2)),
		Slope:     a.Slope*p0 + b.Slope*p1 + c.Slope*p2,
		World:     lerp3(a.Position, b.Position, c.Position, p0, p1, p2),
		UV:        uv,
		Camera:    camera,
		Time:      t,
	}
}
