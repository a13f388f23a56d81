package shading

import "github.com/go-gl/mathgl/mgl64"

// Ripple is the grey height ramp used by the single-band sine preset.
type Ripple struct{}

// Shade implements Shader.
func (Ripple) Shade(f Fragment) mgl64.Vec3 {
	return Splat(f.Elevation*0.5 + 0.5)
}
