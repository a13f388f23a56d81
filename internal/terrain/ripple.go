package terrain

import "math"

// RippleField is the single-band sine sheet, z = sin(x + t).
type RippleField struct{}

// Elevation implements Field.
func (RippleField) Elevation(x, _, t float64) float64 {
	return math.Sin(x + t)
}
