package terrain

import (
	"math"
	"testing"

	"github.com/Faultbox/procedural-horizon/pkg/noise"
)

func testFields() map[string]Field {
	src := noise.NewSimplex(1337)
	return map[string]Field{
		ModeWater:    NewWaterField(src),
		ModeMountain: NewMountainField(src),
		ModeRipple:   RippleField{},
	}
}

func samplePoints() [][2]float64 {
	var pts [][2]float64
	for i := 0; i < 40; i++ {
		pts = append(pts, [2]float64{
			float64(i)*0.613 - 12.5,
			float64(i%7)*3.1 - 10,
		})
	}
	return pts
}

func TestElevationDeterministicAndFinite(t *testing.T) {
	for name, f := range testFields() {
		t.Run(name, func(t *testing.T) {
			for _, p := range samplePoints() {
				for _, tm := range []float64{0, 1.5, 100} {
					a := f.Elevation(p[0], p[1], tm)
					b := f.Elevation(p[0], p[1], tm)
					if a != b {
						t.Fatalf("elevation at %v t=%v not deterministic: %v != %v", p, tm, a, b)
					}
					if math.IsNaN(a) || math.IsInf(a, 0) {
						t.Fatalf("elevation at %v t=%v not finite: %v", p, tm, a)
					}
				}
			}
		})
	}
}

func TestWaterAtOriginIsSumOfBands(t *testing.T) {
	src := noise.NewSimplex(2024)
	f := NewWaterField(src)

	want := noise.FBM(src, 0, 0, noise.DefaultOctaves)*2.0 +
		noise.FBM(src, 0, 0, noise.DefaultOctaves)*0.6 +
		noise.FBM(src, 0, 0, noise.DefaultOctaves)*0.15

	if got := f.Elevation(0, 0, 0); math.Abs(got-want) > 1e-12 {
		t.Errorf("water elevation at origin = %v, want %v", got, want)
	}
}

func TestWaterBandScaling(t *testing.T) {
	src := noise.NewSimplex(5)
	f := NewWaterField(src)
	x, y, tm := 3.2, -1.7, 12.0
	ts := tm * WaterTimeScale

	var want float64
	for _, b := range []Band{SwellBand, WaveBand, RippleBand} {
		off := ts * b.TimeScale
		want += noise.FBM(src, x*b.Frequency+off, y*b.Frequency+off, noise.DefaultOctaves) * b.Amplitude
	}
	if got := f.Elevation(x, y, tm); math.Abs(got-want) > 1e-12 {
		t.Errorf("Elevation = %v, want %v", got, want)
	}
}

func TestWaterMovesWithTime(t *testing.T) {
	f := NewWaterField(noise.NewSimplex(8))
	moved := 0
	for _, p := range samplePoints() {
		if f.Elevation(p[0], p[1], 0) != f.Elevation(p[0], p[1], 20) {
			moved++
		}
	}
	if moved == 0 {
		t.Error("water surface did not change over time")
	}
}

func TestMountainIgnoresTime(t *testing.T) {
	f := NewMountainField(noise.NewSimplex(8))
	for _, p := range samplePoints() {
		if f.Elevation(p[0], p[1], 0) != f.Elevation(p[0], p[1], 99) {
			t.Fatalf("mountain elevation at %v depends on time", p)
		}
	}
}

func TestMountainErosionScalesHills(t *testing.T) {
	tests := []struct {
		name  string
		value noise.Constant
	}{
		{"high ranges", 1},
		{"mid ranges", 0.3},
		{"valleys", -0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewMountainField(tt.value)
			fb := noise.FBM(tt.value, 0, 0, noise.DefaultOctaves)
			ranges := fb * RangeBand.Amplitude
			erosion := smoothstep(0, 1, ranges/RangeBand.Amplitude)

			if got := f.Erosion(0, 0); math.Abs(got-erosion) > 1e-12 {
				t.Errorf("Erosion = %v, want %v", got, erosion)
			}

			want := ranges + fb*HillBand.Amplitude*erosion +
				fb*RidgeBand.Amplitude + fb*RockBand.Amplitude + fb*MicroBand.Amplitude
			if got := f.Elevation(0, 0, 0); math.Abs(got-want) > 1e-12 {
				t.Errorf("Elevation = %v, want %v", got, want)
			}
		})
	}

	if e := NewMountainField(noise.Constant(-0.5)).Erosion(4, 4); e != 0 {
		t.Errorf("valley erosion = %v, want 0", e)
	}
}

func TestRippleField(t *testing.T) {
	f := RippleField{}
	if got := f.Elevation(0, 5, 0); got != 0 {
		t.Errorf("sin(0) = %v", got)
	}
	if got := f.Elevation(0, 5, math.Pi/2); math.Abs(got-1) > 1e-12 {
		t.Errorf("sin(pi/2) = %v", got)
	}
}

func TestElevationContinuous(t *testing.T) {
	const h = 1e-7
	for name, f := range testFields() {
		t.Run(name, func(t *testing.T) {
			for _, p := range samplePoints() {
				d := math.Abs(f.Elevation(p[0], p[1], 1) - f.Elevation(p[0]+h, p[1]+h, 1))
				if d > 1e-4 {
					t.Errorf("elevation jumps by %v near %v", d, p)
				}
			}
		})
	}
}
