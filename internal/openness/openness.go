package openness

import (
	"context"
	"fmt"
	"math"

	"github.com/gruppe-adler/rrim-utils/internal/grid"
	"github.com/gruppe-adler/rrim-utils/internal/parallel"
)

// Unobstructed is the directional openness of a ray that has no valid
// samples, and of any ray over flat terrain.
const Unobstructed = 90.0

// Units selects how Params.MaxDistance is interpreted
type Units int

const (
	Cells Units = iota
	Ground
)

// Params configures an openness run
type Params struct {
	Directions           Directions
	MaxDistance          float64
	Units                Units
	VerticalExaggeration float64 // 0 means 1
	DifferentialScale    float64 // 0 means 1
	Parallel             parallel.Options
}

// Result holds the openness grids of one run
type Result struct {
	Positive     *grid.Raster
	Negative     *grid.Raster
	Differential *grid.Raster
}

func (p Params) validate() error {
	if len(p.Directions) < MinDirections {
		return &grid.InvalidConfigurationError{
			Field:  "direction_count",
			Reason: fmt.Sprintf("must be at least %d, got %d", MinDirections, len(p.Directions)),
		}
	}
	if !(p.MaxDistance > 0) || math.IsInf(p.MaxDistance, 0) {
		return &grid.InvalidConfigurationError{Field: "max_search_distance", Reason: fmt.Sprintf("must be positive, got %g", p.MaxDistance)}
	}
	if p.VerticalExaggeration < 0 {
		return &grid.InvalidConfigurationError{Field: "vertical_exaggeration", Reason: "must not be negative"}
	}
	if p.DifferentialScale < 0 {
		return &grid.InvalidConfigurationError{Field: "differential_scale", Reason: "must not be negative"}
	}
	return nil
}

// limits converts the search distance into a ground distance per direction
func (p Params) limits(g *grid.Elevation) []float64 {
	limits := make([]float64, len(p.Directions))
	for i, dir := range p.Directions {
		if p.Units == Ground {
			limits[i] = p.MaxDistance
		} else {
			limits[i] = p.MaxDistance * stepLength(g, dir)
		}
	}
	return limits
}

func orOne(v float64) float64 {
	if v == 0 {
		return 1
	}
	return v
}

// Compute calculates positive, negative and differential openness for
// every cell of g.
func Compute(ctx context.Context, g *grid.Elevation, p Params) (*Result, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	res := &Result{
		Positive:     g.NewRaster(),
		Negative:     g.NewRaster(),
		Differential: g.NewRaster(),
	}

	limits := p.limits(g)
	ve := orOne(p.VerticalExaggeration)
	scale := orOne(p.DifferentialScale)

	err := parallel.Rows(ctx, g.Rows, p.Parallel, func(start, end int) {
		for row := start; row < end; row++ {
			for col := 0; col < g.Cols; col++ {
				pos, neg, ok := atCell(g, row, col, p.Directions, limits, ve)
				if !ok {
					continue
				}
				res.Positive.Set(row, col, pos)
				res.Negative.Set(row, col, neg)
				res.Differential.Set(row, col, scale*(pos-neg))
			}
		}
	})
	if err != nil {
		return nil, err
	}

	return res, nil
}

// At computes positive and negative openness for a single cell. ok is false
// when the cell itself is nodata.
func At(g *grid.Elevation, row, col int, p Params) (pos, neg float64, ok bool) {
	return atCell(g, row, col, p.Directions, p.limits(g), orOne(p.VerticalExaggeration))
}

func atCell(g *grid.Elevation, row, col int, dirs Directions, limits []float64, ve float64) (pos, neg float64, ok bool) {
	if _, ok := g.At(row, col); !ok {
		return 0, 0, false
	}

	var sumPos, sumNeg float64
	for i, dir := range dirs {
		p, n := Directional(g, row, col, dir, limits[i], ve)
		sumPos += p
		sumNeg += n
	}

	n := float64(len(dirs))
	return sumPos / n, sumNeg / n, true
}

// Directional returns the positive and negative openness contribution of a
// single direction, both in [0, 90] degrees. Nodata samples are skipped; a
// ray without any valid sample is Unobstructed.
func Directional(g *grid.Elevation, row, col int, dir Direction, maxDistance, ve float64) (pos, neg float64) {
	z0, ok := g.At(row, col)
	if !ok {
		return Unobstructed, Unobstructed
	}

	maxUp := math.Inf(-1)
	maxDown := math.Inf(-1)
	samples := 0

	ray := NewRay(g, row, col, dir, maxDistance)
	for s, more := ray.Next(); more; s, more = ray.Next() {
		z, ok := g.At(s.Row, s.Col)
		if !ok {
			continue
		}
		samples++

		dz := (z - z0) * ve
		maxUp = math.Max(maxUp, degrees(math.Atan2(dz, s.Distance)))
		maxDown = math.Max(maxDown, degrees(math.Atan2(-dz, s.Distance)))
	}

	if samples == 0 {
		return Unobstructed, Unobstructed
	}

	return 90 - clamp(maxUp, 0, 90), 90 - clamp(maxDown, 0, 90)
}

func degrees(rad float64) float64 { return rad * 180 / math.Pi }

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
