package world

import (
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// ExposureField gives every plot a hazard exposure in [0, 1] that varies
// smoothly in space and drifts from tick to tick, so shocks land on
// clusters of neighbouring plots instead of independently.
type ExposureField struct {
	noise     opensimplex.Noise
	frequency float64
	drift     float64 // Noise-space distance travelled per tick
}

// NewExposureField creates a seeded exposure field.
func NewExposureField(seed int64) *ExposureField {
	return &ExposureField{
		noise:     opensimplex.NewNormalized(seed),
		frequency: 0.15,
		drift:     0.7,
	}
}

// At returns the exposure of the plot at c during the given tick.
func (f *ExposureField) At(c HexCoord, tick uint64) float64 {
	// Hex axial → cartesian: x = q + r*0.5, y = r * sqrt(3)/2
	x := float64(c.Q) + float64(c.R)*0.5
	y := float64(c.R) * math.Sqrt(3.0) / 2.0
	z := float64(tick) * f.drift

	total, amplitude, maxVal, freq := 0.0, 1.0, 0.0, f.frequency
	for i := 0; i < 3; i++ {
		total += f.noise.Eval3(x*freq, y*freq, z) * amplitude
		maxVal += amplitude
		amplitude *= 0.5
		freq *= 2
	}
	return math.Min(1, math.Max(0, total/maxVal))
}

// HitProbability scales the community impact fraction by exposure. Mean
// exposure is about one half, so the mean probability stays close to scale.
func (f *ExposureField) HitProbability(c HexCoord, tick uint64, scale float64) float64 {
	return math.Min(1, 2*scale*f.At(c, tick))
}
