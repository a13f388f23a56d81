package noise

// DefaultOctaves is the octave count used by FBM callers that have no
// reason to pick another.
const DefaultOctaves = 6

// FBM sums octaves of src at doubling frequency and halving amplitude,
// starting at amplitude 0.5. The result stays within [-1, 1].
func FBM(src Source, x, y float64, octaves int) float64 {
	return Fractal{Source: src, Octaves: octaves, Lacunarity: 2, Gain: 0.5}.Eval2(x, y)
}

// Fractal is a configurable fractal Brownian motion over a Source.
// It is itself a Source.
type Fractal struct {
	Source     Source
	Octaves    int
	Lacunarity float64 // frequency multiplier per octave
	Gain       float64 // amplitude multiplier per octave
}

// Eval2 evaluates the fractal sum at (x, y).
func (f Fractal) Eval2(x, y float64) float64 {
	var sum float64
	amp := 0.5
	for i := 0; i < f.Octaves; i++ {
		sum += amp * f.Source.Eval2(x, y)
		x *= f.Lacunarity
		y *= f.Lacunarity
		amp *= f.Gain
	}
	return sum
}
