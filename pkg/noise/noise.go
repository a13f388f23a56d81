// Package noise provides continuous pseudo-random scalar fields over the plane
// and fractal sums built on top of them.
package noise

import (
	"errors"
	"fmt"
	"math"

	perlin "github.com/aquilax/go-perlin"
	"github.com/ojrac/opensimplex-go"
)

// ErrUnknownSource is returned by New for an unrecognized source kind.
var ErrUnknownSource = errors.New("unknown noise source")

// Source is a deterministic, continuous scalar field over 2D coordinates.
// Eval2 must return values in [-1, 1] for every finite input.
type Source interface {
	Eval2(x, y float64) float64
}

// Simplex wraps OpenSimplex noise.
type Simplex struct {
	os opensimplex.Noise
}

// NewSimplex creates a simplex source for the given seed.
func NewSimplex(seed int64) *Simplex {
	return &Simplex{os: opensimplex.New(seed)}
}

// Eval2 returns simplex noise at (x, y).
func (s *Simplex) Eval2(x, y float64) float64 {
	return clamp(s.os.Eval2(x, y))
}

// Perlin wraps single-octave Perlin noise.
type Perlin struct {
	p *perlin.Perlin
}

// NewPerlin creates a Perlin source for the given seed.
func NewPerlin(seed int64) *Perlin {
	return &Perlin{p: perlin.NewPerlin(2, 2, 1, seed)}
}

// Eval2 returns Perlin noise at (x, y). A single 2D octave peaks at about
// 1/sqrt(2), so the raw value is rescaled to cover [-1, 1].
func (p *Perlin) Eval2(x, y float64) float64 {
	return clamp(p.p.Noise2D(x, y) * math.Sqrt2)
}

// Constant is a flat field. Useful for previews and for pinning down shading
// behavior at known elevations.
type Constant float64

// Eval2 returns the constant value, clamped to [-1, 1].
func (c Constant) Eval2(_, _ float64) float64 {
	return clamp(float64(c))
}

// Kinds lists the source kinds accepted by New.
func Kinds() []string {
	return []string{"simplex", "perlin"}
}

// New creates a source by kind name.
func New(kind string, seed int64) (Source, error) {
	switch kind {
	case "simplex", "":
		return NewSimplex(seed), nil
	case "perlin":
		return NewPerlin(seed), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, kind)
	}
}

func clamp(v float64) float64 {
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}
