package shading

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/procedural-horizon/pkg/noise"
)

// Biome band edges, low to high.
const (
	GrassStart    = -1.0 // dirt begins turning into grass
	GrassFull     = 0.5
	RockStart     = 2.0
	RockFull      = 4.0
	RockDarkFull  = 6.0 // rock darkens linearly from RockFull
	SnowStart     = 6.0
	SnowFull      = 7.5
	RimElevation  = 5.0
	FogDistance   = 25.0
	steepRockMin  = 0.4
	steepRockFull = 0.7
	steepRockMinE = 1.0
)

// Mountain shades static mountainous terrain with elevation biome bands,
// slope-driven rock, ambient occlusion, atmospheric fog and rim light.
type Mountain struct {
	Light mgl64.Vec3

	GrassDark  mgl64.Vec3
	GrassLight mgl64.Vec3
	Rock       mgl64.Vec3
	RockDark   mgl64.Vec3
	Snow       mgl64.Vec3
	Dirt       mgl64.Vec3
	Ambient    mgl64.Vec3
	Fog        mgl64.Vec3
	Rim        mgl64.Vec3

	noise noise.Source
}

// NewMountain returns the mountain palette. src drives the grass tone and
// the fine color jitter.
func NewMountain(src noise.Source) *Mountain {
	return &Mountain{
		Light:      mgl64.Vec3{0.4, 0.3, 0.8}.Normalize(),
		GrassDark:  mgl64.Vec3{0.12, 0.18, 0.08},
		GrassLight: mgl64.Vec3{0.25, 0.35, 0.15},
		Rock:       mgl64.Vec3{0.35, 0.32, 0.28},
		RockDark:   mgl64.Vec3{0.18, 0.16, 0.14},
		Snow:       mgl64.Vec3{0.85, 0.87, 0.9},
		Dirt:       mgl64.Vec3{0.28, 0.22, 0.16},
		Ambient:    mgl64.Vec3{0.4, 0.45, 0.5}.Mul(0.3),
		Fog:        mgl64.Vec3{0.6, 0.7, 0.8},
		Rim:        mgl64.Vec3{0.8, 0.85, 0.9},
		noise:      src,
	}
}

// SnowBlend is the weight of snow over dark rock at elevation e.
func SnowBlend(e float64) float64 {
	return Smoothstep(SnowStart, SnowFull, e)
}

// RockBlend is how far steep ground is pushed toward bare rock. It is
// non-zero only when steepness exceeds 0.4 and the ground is above
// elevation 1.0.
func RockBlend(steepness, e float64) float64 {
	if steepness <= steepRockMin || e <= steepRockMinE {
		return 0
	}
	return Smoothstep(steepRockMin, steepRockFull, steepness) * 0.8
}

// Grass returns the grass tone at uv, varied by low-frequency noise.
func (m *Mountain) Grass(uv mgl64.Vec2) mgl64.Vec3 {
	t := m.noise.Eval2(uv[0]*20, uv[1]*20)*0.5 + 0.5
	return MixVec(m.GrassDark, m.GrassLight, t)
}

// Biome returns the elevation-banded material color. Each band is layered
// over the previous one, so the result is continuous in e.
func (m *Mountain) Biome(e float64, grass mgl64.Vec3) mgl64.Vec3 {
	c := MixVec(m.Dirt, grass, Smoothstep(GrassStart, GrassFull, e))
	c = MixVec(c, m.Rock, Smoothstep(RockStart, RockFull, e))
	c = MixVec(c, m.RockDark, Clamp((e-RockFull)/(RockDarkFull-RockFull), 0, 1))
	return MixVec(c, m.Snow, SnowBlend(e))
}

// Surface returns the unlit material at a fragment: biome band, steep rock
// override and high-frequency jitter.
func (m *Mountain) Surface(f Fragment) mgl64.Vec3 {
	c := m.Biome(f.Elevation, m.Grass(f.UV))
	c = MixVec(c, m.Rock, RockBlend(1-f.Slope, f.Elevation))
	detail := m.noise.Eval2(f.World[0]*3, f.World[1]*3) * 0.03
	return c.Add(Splat(detail))
}

// Occlusion approximates ambient occlusion: low ground and steep faces are darker.
func Occlusion(e, slope float64) float64 {
	ao := Smoothstep(-2, 8, e)*0.5 + 0.5
	return ao * (math.Sqrt(math.Max(slope, 0))*0.5 + 0.5)
}

// Shade implements Shader.
func (m *Mountain) Shade(f Fragment) mgl64.Vec3 {
	n := f.Normal
	base := m.Surface(f)

	diffuse := math.Max(n.Dot(m.Light), 0)
	wrapped := (diffuse + 0.5) / 1.5
	ao := Occlusion(f.Elevation, f.Slope)

	c := base.Mul((wrapped*0.7 + 0.3) * ao).Add(mulVec(m.Ambient, base))

	dist := math.Hypot(f.World[0], f.World[1])
	c = MixVec(c, m.Fog, Smoothstep(0, FogDistance, dist)*0.4)

	if f.Elevation > RimElevation {
		rim := Smoothstep(0.6, 1, 1-math.Max(f.ViewDir().Dot(n), 0))
		c = c.Add(m.Rim.Mul(rim * 0.2))
	}
	return c
}
