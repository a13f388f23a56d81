package terrain

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/procedural-horizon/internal/shading"
)

// DefaultNormalStep is the central-difference offset in local units.
// Smaller values catch finer detail at the cost of noisier shading.
const DefaultNormalStep = 0.08

// HeightSample is the per-vertex output of the height-field stage.
type HeightSample struct {
	Elevation float64
	Normal    mgl64.Vec3
	Slope     float64 // |Normal . up|: 1 on flat ground, 0 on vertical faces
}

// Normal reconstructs the unit surface normal of f at (x, y) from central
// differences of f itself, so lighting always agrees with displacement.
// The result faces +Z.
func Normal(f Field, x, y, t, step float64) mgl64.Vec3 {
	hL := f.Elevation(x-step, y, t)
	hR := f.Elevation(x+step, y, t)
	hD := f.Elevation(x, y-step, t)
	hU := f.Elevation(x, y+step, t)

	tangentX := mgl64.Vec3{2 * step, 0, hR - hL}
	tangentY := mgl64.Vec3{0, 2 * step, hU - hD}
	return tangentX.Cross(tangentY).Normalize()
}

// Sample evaluates elevation, normal and slope of f at (x, y).
func Sample(f Field, x, y, t, step float64) HeightSample {
	n := Normal(f, x, y, t, step)
	slope := n.Dot(shading.Up)
	if slope < 0 {
		slope = -slope
	}
	return HeightSample{
		Elevation: f.Elevation(x, y, t),
		Normal:    n,
		Slope:     slope,
	}
}
