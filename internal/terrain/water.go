package terrain

import "github.com/Faultbox/procedural-horizon/pkg/noise"

// WaterTimeScale converts driver time into wave phase.
const WaterTimeScale = 0.05

// Water band presets, largest first.
var (
	SwellBand  = Band{Frequency: 0.08, Amplitude: 2.0, TimeScale: 0.3}
	WaveBand   = Band{Frequency: 0.25, Amplitude: 0.6, TimeScale: 0.5}
	RippleBand = Band{Frequency: 1.2, Amplitude: 0.15, TimeScale: 1.5}
)

// WaterField is an ocean surface: swells, medium waves and small ripples
// summed from the same fbm at different scales and speeds.
type WaterField struct {
	Bands []Band
	src   noise.Source
}

// NewWaterField returns the three-band ocean field over src.
func NewWaterField(src noise.Source) *WaterField {
	return &WaterField{
		Bands: []Band{SwellBand, WaveBand, RippleBand},
		src:   src,
	}
}

// Elevation implements Field.
func (w *WaterField) Elevation(x, y, t float64) float64 {
	t *= WaterTimeScale
	var h float64
	for _, b := range w.Bands {
		h += b.eval(w.src, x, y, t)
	}
	return h
}
