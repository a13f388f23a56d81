package terrain

import "github.com/Faultbox/procedural-horizon/pkg/noise"

// Mountain band presets, lowest frequency first.
var (
	RangeBand = Band{Frequency: 0.05, Amplitude: 8.0}
	HillBand  = Band{Frequency: 0.15, Amplitude: 2.5}
	RidgeBand = Band{Frequency: 0.4, Amplitude: 0.8}
	RockBand  = Band{Frequency: 1.5, Amplitude: 0.2}
	MicroBand = Band{Frequency: 6.0, Amplitude: 0.05}
)

// MountainField is static mountainous terrain. Hills are scaled by an
// erosion factor taken from the range band, so they swell on high ground
// and flatten out in valleys.
type MountainField struct {
	Ranges, Hills, Ridges, Rocks, Micro Band
	src                                 noise.Source
}

// NewMountainField returns the five-band mountain field over src.
func NewMountainField(src noise.Source) *MountainField {
	return &MountainField{
		Ranges: RangeBand,
		Hills:  HillBand,
		Ridges: RidgeBand,
		Rocks:  RockBand,
		Micro:  MicroBand,
		src:    src,
	}
}

// RangeHeight is the range band alone at (x, y).
func (m *MountainField) RangeHeight(x, y float64) float64 {
	return m.Ranges.eval(m.src, x, y, 0)
}

// Erosion is the hill multiplier at (x, y), in [0, 1].
func (m *MountainField) Erosion(x, y float64) float64 {
	return m.erosion(m.RangeHeight(x, y))
}

func (m *MountainField) erosion(ranges float64) float64 {
	return smoothstep(0, 1, ranges/m.Ranges.Amplitude)
}

// Elevation implements Field. Time is ignored.
func (m *MountainField) Elevation(x, y, _ float64) float64 {
	ranges := m.RangeHeight(x, y)
	h := ranges
	h += m.Hills.eval(m.src, x, y, 0) * m.erosion(ranges)
	h += m.Ridges.eval(m.src, x, y, 0)
	h += m.Rocks.eval(m.src, x, y, 0)
	h += m.Micro.eval(m.src, x, y, 0)
	return h
}
