package shading

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Water shades an animated ocean surface: depth gradient, fresnel,
// sun glints, crest foam and a back-lit subsurface term.
type Water struct {
	Light    mgl64.Vec3
	Deep     mgl64.Vec3
	Shallow  mgl64.Vec3
	Surface  mgl64.Vec3
	FoamTint mgl64.Vec3
	Glint    mgl64.Vec3
	Scatter  mgl64.Vec3

	SpecularPower float64
}

// NewWater returns the ocean palette.
func NewWater() *Water {
	return &Water{
		Light:         mgl64.Vec3{0.3, 0.5, 0.8}.Normalize(),
		Deep:          mgl64.Vec3{0.01, 0.05, 0.12},
		Shallow:       mgl64.Vec3{0.05, 0.15, 0.3},
		Surface:       mgl64.Vec3{0.2, 0.35, 0.45},
		FoamTint:      mgl64.Vec3{0.9, 0.95, 1.0},
		Glint:         mgl64.Vec3{1.0, 0.95, 0.8},
		Scatter:       mgl64.Vec3{0.1, 0.2, 0.25},
		SpecularPower: 128,
	}
}

// Fresnel grows toward 1 as the view grazes the surface.
func Fresnel(view, normal mgl64.Vec3) float64 {
	return math.Pow(1-math.Max(view.Dot(normal), 0), 3)
}

// Foam is the crest foam weight: 0 below elevation 1.5, 1 from 2.0 up.
func Foam(elevation float64) float64 {
	return Smoothstep(1.5, 2.0, elevation)
}

// Shade implements Shader.
func (w *Water) Shade(f Fragment) mgl64.Vec3 {
	n := f.Normal
	view := f.ViewDir()

	fresnel := Fresnel(view, n)
	diffuse := math.Max(n.Dot(w.Light), 0)
	half := Normalize(w.Light.Add(view))
	specular := math.Pow(math.Max(n.Dot(half), 0), w.SpecularPower)

	depth := Clamp((f.Elevation+2)*0.3, 0, 1)
	base := MixVec(w.Deep, w.Shallow, depth)
	base = MixVec(base, w.Surface, fresnel*0.5)
	base = MixVec(base, w.FoamTint, Foam(f.Elevation)*0.8)

	c := base.Mul(diffuse*0.4 + 0.6)
	c = c.Add(w.Glint.Mul(specular * 0.8))

	// light leaking through the crest comes from behind the wave
	backlight := math.Max(n.Dot(w.Light.Mul(-1)), 0)
	return c.Add(w.Scatter.Mul(backlight * 0.3))
}
