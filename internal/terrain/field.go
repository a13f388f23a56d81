// Package terrain evaluates procedural height fields, reconstructs their
// surface normals and pairs each field with the shader that colors it.
package terrain

import (
	"github.com/Faultbox/procedural-horizon/internal/shading"
	"github.com/Faultbox/procedural-horizon/pkg/noise"
)

// Field is a scalar elevation over the terrain plane. Implementations must
// be continuous in (x, y), deterministic for fixed t and safe for
// concurrent use.
type Field interface {
	Elevation(x, y, t float64) float64
}

// Band is one fbm octave band of a layered height field.
type Band struct {
	Frequency float64
	Amplitude float64
	TimeScale float64 // multiplier on the field's scaled time; 0 for static bands
}

// eval returns fbm(p*Frequency + t*TimeScale) * Amplitude. The time offset
// is added to both axes so the pattern drifts diagonally.
func (b Band) eval(src noise.Source, x, y, t float64) float64 {
	off := t * b.TimeScale
	return noise.FBM(src, x*b.Frequency+off, y*b.Frequency+off, noise.DefaultOctaves) * b.Amplitude
}

func smoothstep(edge0, edge1, x float64) float64 {
	return shading.Smoothstep(edge0, edge1, x)
}
