package terrain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/procedural-horizon/internal/shading"
	"github.com/Faultbox/procedural-horizon/pkg/noise"
)

// Mode names.
const (
	ModeWater    = "water"
	ModeMountain = "mountain"
	ModeRipple   = "ripple"
)

// ErrUnknownMode is returned for a mode name that has no preset.
var ErrUnknownMode = errors.New("unknown terrain mode")

// Mode pairs a height field with the shader that colors it. Grid, normal
// reconstruction and animation are shared by every mode.
type Mode struct {
	Name       string
	Field      Field
	Shader     shading.Shader
	Animated   bool    // time advances while this mode is active
	NormalStep float64 // central-difference offset
}

// NewMode builds the named preset over src.
func NewMode(name string, src noise.Source) (*Mode, error) {
	switch ParseModeName(name) {
	case ModeWater:
		return &Mode{
			Name:       ModeWater,
			Field:      NewWaterField(src),
			Shader:     shading.NewWater(),
			Animated:   true,
			NormalStep: DefaultNormalStep,
		}, nil
	case ModeMountain:
		return &Mode{
			Name:       ModeMountain,
			Field:      NewMountainField(src),
			Shader:     shading.NewMountain(src),
			NormalStep: DefaultNormalStep,
		}, nil
	case ModeRipple:
		return &Mode{
			Name:       ModeRipple,
			Field:      RippleField{},
			Shader:     shading.Ripple{},
			Animated:   true,
			NormalStep: DefaultNormalStep,
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, name)
	}
}

// ModeNames lists the available presets.
func ModeNames() []string {
	return []string{ModeWater, ModeMountain, ModeRipple}
}

// ParseModeName normalizes a user-supplied mode name.
func ParseModeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Sample evaluates the mode's field at (x, y, t).
func (m *Mode) Sample(x, y, t float64) HeightSample {
	return Sample(m.Field, x, y, t, m.NormalStep)
}

// Fragment builds the shading input for a sample at planar (x, y).
func (m *Mode) Fragment(s HeightSample, x, y, t float64, camera mgl64.Vec3) shading.Fragment {
	return shading.Fragment{
		Elevation: s.Elevation,
		Normal:    s.Normal,
		Slope:     s.Slope,
		World:     mgl64.Vec3{x, y, s.Elevation},
		UV:        mgl64.Vec2{x * UVScale, y * UVScale},
		Camera:    camera,
		Time:      t,
	}
}
