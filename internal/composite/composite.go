package composite

import (
	"context"
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/gruppe-adler/rrim-utils/internal/grid"
	"github.com/gruppe-adler/rrim-utils/internal/parallel"
)

// MaxIntensity is the upper bound of every output band
const MaxIntensity = 255.0

// Mode selects the band layout of a composite
type Mode string

const (
	// SingleBand is one grey band blending slope brightness and openness tone.
	SingleBand Mode = "single_band"

	// RGBComposite is three bands R, G, B of a red-hue HSV colour: value from
	// the openness tone, saturation from the slope steepness. Flat terrain is
	// grey, steep terrain red, ridges light and valleys dark. SlopeInvert
	// only applies to SingleBand.
	RGBComposite Mode = "rgb_composite"
)

// Params configures the tone curves and band layout
type Params struct {
	Mode Mode

	SlopeMaxDegrees float64
	SlopeGamma      float64
	SlopeInvert     bool
	SlopeWeight     float64 // share of slope brightness in SingleBand

	PositiveGain      float64
	NegativeGain      float64
	OpennessRange     float64
	StretchPercentile float64 // > 0 derives OpennessRange from the data

	Parallel parallel.Options
}

// Composite is the tone-mapped output of a run
type Composite struct {
	Mode        Mode
	Rows, Cols  int
	NoDataValue float64
	Bands       []*grid.Raster

	// effective curves, after any stretch was applied
	Slope    SlopeCurve
	Openness OpennessCurve
}

func invalid(field, format string, args ...interface{}) error {
	return &grid.InvalidConfigurationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// Validate checks the tone curve and layout settings.
func (p Params) Validate() error {
	switch p.Mode {
	case SingleBand, RGBComposite:
	default:
		return invalid("output_mode", "must be %q or %q, got %q", SingleBand, RGBComposite, p.Mode)
	}
	if !(p.SlopeMaxDegrees > 0) || p.SlopeMaxDegrees > 90 {
		return invalid("slope_max_degrees", "must be in (0, 90], got %g", p.SlopeMaxDegrees)
	}
	if p.SlopeGamma < 0 || math.IsNaN(p.SlopeGamma) {
		return invalid("slope_gamma", "must not be negative, got %g", p.SlopeGamma)
	}
	if !(p.SlopeWeight >= 0 && p.SlopeWeight <= 1) {
		return invalid("slope_weight", "must be in [0, 1], got %g", p.SlopeWeight)
	}
	if p.PositiveGain < 0 || math.IsNaN(p.PositiveGain) {
		return invalid("openness_positive_gain", "must not be negative, got %g", p.PositiveGain)
	}
	if p.NegativeGain < 0 || math.IsNaN(p.NegativeGain) {
		return invalid("openness_negative_gain", "must not be negative, got %g", p.NegativeGain)
	}
	if !(p.OpennessRange > 0) || math.IsInf(p.OpennessRange, 0) {
		return invalid("openness_range_degrees", "must be positive, got %g", p.OpennessRange)
	}
	if !(p.StretchPercentile >= 0 && p.StretchPercentile <= 1) {
		return invalid("openness_stretch_percentile", "must be in [0, 1], got %g", p.StretchPercentile)
	}
	return nil
}

// Compose tone-maps slope and differential openness into the bands selected
// by p.Mode. A cell that is nodata in either input is nodata in every band.
func Compose(ctx context.Context, slope, diff *grid.Raster, p Params) (*Composite, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if slope.Rows != diff.Rows || slope.Cols != diff.Cols {
		return nil, &grid.InvalidGridError{Reason: fmt.Sprintf("slope is %dx%d but openness is %dx%d", slope.Rows, slope.Cols, diff.Rows, diff.Cols)}
	}

	rangeDeg := p.OpennessRange
	if p.StretchPercentile > 0 {
		rangeDeg = StretchRange(diff, p.StretchPercentile, p.OpennessRange)
	}

	c := &Composite{
		Mode:        p.Mode,
		Rows:        slope.Rows,
		Cols:        slope.Cols,
		NoDataValue: slope.NoDataValue,
		Slope:       SlopeCurve{MaxDegrees: p.SlopeMaxDegrees, Gamma: p.SlopeGamma},
		Openness:    OpennessCurve{PositiveGain: p.PositiveGain, NegativeGain: p.NegativeGain, Range: rangeDeg},
	}

	n := 1
	if p.Mode == RGBComposite {
		n = 3
	}
	for i := 0; i < n; i++ {
		c.Bands = append(c.Bands, grid.NewRaster(c.Rows, c.Cols, c.NoDataValue))
	}

	err := parallel.Rows(ctx, c.Rows, p.Parallel, func(start, end int) {
		for row := start; row < end; row++ {
			for col := 0; col < c.Cols; col++ {
				s, ok := slope.At(row, col)
				if !ok {
					continue
				}
				d, ok := diff.At(row, col)
				if !ok {
					continue
				}

				tone := c.Openness.Tone(d)

				if p.Mode == SingleBand {
					brightness := c.Slope.Brightness(s, p.SlopeInvert)
					base := p.SlopeWeight*brightness + (1-p.SlopeWeight)*tone
					c.Bands[0].Set(row, col, intensity(base))
					continue
				}

				rgb := colorful.Hsv(0, c.Slope.Steepness(s), tone)
				c.Bands[0].Set(row, col, intensity(rgb.R))
				c.Bands[1].Set(row, col, intensity(rgb.G))
				c.Bands[2].Set(row, col, intensity(rgb.B))
			}
		}
	})
	if err != nil {
		return nil, err
	}

	return c, nil
}

func intensity(v float64) float64 {
	return clamp01(v) * MaxIntensity
}
