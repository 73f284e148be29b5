package composite

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/gruppe-adler/rrim-utils/internal/grid"
)

// SlopeCurve maps a slope angle to a steepness in [0, 1]
type SlopeCurve struct {
	MaxDegrees float64
	Gamma      float64 // 0 means linear
}

// Steepness is 0 for flat terrain and reaches 1 at MaxDegrees.
func (c SlopeCurve) Steepness(slope float64) float64 {
	t := clamp01(slope / c.MaxDegrees)
	if c.Gamma > 0 && c.Gamma != 1 {
		t = math.Pow(t, c.Gamma)
	}
	return t
}

// Brightness is Steepness, flipped when invert is set so flat areas are bright.
func (c SlopeCurve) Brightness(slope float64, invert bool) float64 {
	t := c.Steepness(slope)
	if invert {
		return 1 - t
	}
	return t
}

// OpennessCurve maps differential openness to a tone in [0, 1] split at
// zero: ridges land above 0.5, valleys below.
type OpennessCurve struct {
	PositiveGain float64
	NegativeGain float64
	Range        float64 // differential openness that maps to full tone at gain 1
}

func (c OpennessCurve) Tone(d float64) float64 {
	if d >= 0 {
		return 0.5 + 0.5*clamp01(d*c.PositiveGain/c.Range)
	}
	return 0.5 - 0.5*clamp01(-d*c.NegativeGain/c.Range)
}

// StretchRange returns the q-quantile of |d| over the valid cells of diff,
// or fallback if there is nothing to stretch.
func StretchRange(diff *grid.Raster, q, fallback float64) float64 {
	valid := diff.Valid()
	if len(valid) == 0 {
		return fallback
	}

	for i, v := range valid {
		valid[i] = math.Abs(v)
	}
	sort.Float64s(valid)

	r := stat.Quantile(q, stat.Empirical, valid, nil)
	if !(r > 0) {
		return fallback
	}
	return r
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Min(math.Max(v, 0), 1)
}
