// Package shading turns per-fragment terrain signals into surface colors.
//
// Every input a GPU fragment stage would read implicitly (interpolated
// varyings, camera position, time) is an explicit Fragment field, so the
// shaders are plain functions that can be evaluated anywhere.
package shading

import (
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Fragment holds the interpolated inputs for one shaded point. All vectors
// are in terrain-local space (Z up).
type Fragment struct {
	Elevation float64
	Normal    mgl64.Vec3 // unit surface normal
	Slope     float64    // |Normal . up|, 1 on flat ground
	World     mgl64.Vec3 // displaced position
	UV        mgl64.Vec2
	Camera    mgl64.Vec3
	Time      float64
}

// ViewDir returns the unit direction from the fragment toward the camera.
func (f Fragment) ViewDir() mgl64.Vec3 {
	return Normalize(f.Camera.Sub(f.World))
}

// Shader computes a linear RGB color for a fragment.
type Shader interface {
	Shade(f Fragment) mgl64.Vec3
}

// Up is the terrain-local up axis.
var Up = mgl64.Vec3{0, 0, 1}

// Smoothstep is the cubic Hermite step between edge0 and edge1.
func Smoothstep(edge0, edge1, x float64) float64 {
	t := Clamp((x-edge0)/(edge1-edge0), 0, 1)
	return t * t * (3 - 2*t)
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Mix linearly interpolates between a and b.
func Mix(a, b, t float64) float64 {
	return a + (b-a)*t
}

// MixVec linearly interpolates between two colors.
func MixVec(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

// Normalize returns v scaled to unit length, or the zero vector if v has none.
func Normalize(v mgl64.Vec3) mgl64.Vec3 {
	l := v.Len()
	if l == 0 {
		return mgl64.Vec3{}
	}
	return v.Mul(1 / l)
}

// Splat returns a vector with all components set to v.
func Splat(v float64) mgl64.Vec3 {
	return mgl64.Vec3{v, v, v}
}

// ToRGBA converts a linear color to 8-bit RGBA, clamping each channel the
// way a framebuffer write does.
func ToRGBA(c mgl64.Vec3) color.RGBA {
	return color.RGBA{
		R: channel(c[0]),
		G: channel(c[1]),
		B: channel(c[2]),
		A: 255,
	}
}

func channel(v float64) uint8 {
	if math.IsNaN(v) {
		return 0
	}
	return uint8(math.Round(Clamp(v, 0, 1) * 255))
}

func mulVec(a, b mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}
