package slope

import (
	"context"
	"fmt"
	"math"

	"github.com/gruppe-adler/rrim-utils/internal/grid"
	"github.com/gruppe-adler/rrim-utils/internal/parallel"
)

// Params configures a slope run
type Params struct {
	ZFactor  float64 // vertical scale applied to elevations, 0 means 1
	Parallel parallel.Options
}

// Compute estimates the slope in degrees for every cell of g using Horn's
// 3x3 kernel.
func Compute(ctx context.Context, g *grid.Elevation, p Params) (*grid.Raster, error) {
	if p.ZFactor < 0 || math.IsNaN(p.ZFactor) {
		return nil, &grid.InvalidConfigurationError{Field: "z_factor", Reason: fmt.Sprintf("must not be negative, got %g", p.ZFactor)}
	}
	z := p.ZFactor
	if z == 0 {
		z = 1
	}

	out := g.NewRaster()

	err := parallel.Rows(ctx, g.Rows, p.Parallel, func(start, end int) {
		for row := start; row < end; row++ {
			for col := 0; col < g.Cols; col++ {
				if v, ok := At(g, row, col, z); ok {
					out.Set(row, col, v)
				}
			}
		}
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// Horn kernel weights for the three offsets across an axis
var hornWeights = [3]float64{1, 2, 1}

// At returns the slope angle in degrees at (row, col). Missing neighbours
// (nodata or outside the grid) are left out of the kernel; ok is false if
// the cell is nodata or has no valid neighbour at all.
func At(g *grid.Elevation, row, col int, zFactor float64) (float64, bool) {
	if _, ok := g.At(row, col); !ok {
		return 0, false
	}

	neighbours := 0
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			if _, ok := g.At(row+dr, col+dc); ok {
				neighbours++
			}
		}
	}
	if neighbours == 0 {
		return 0, false
	}

	dzdx := axisGradient(g, row, col, 0, 1, g.CellSizeX)
	dzdy := axisGradient(g, row, col, 1, 0, g.CellSizeY)

	rise := math.Hypot(dzdx, dzdy) * zFactor
	return math.Atan(rise) * 180 / math.Pi, true
}

// axisGradient is the Horn-weighted mean of the differences across the
// window along (dr, dc). For each of the three lines crossing the axis the
// central difference is used when both ends are valid, otherwise a
// one-sided difference against the middle cell of that line.
func axisGradient(g *grid.Elevation, row, col, dr, dc int, cellSize float64) float64 {
	var sum, weight float64

	for i, w := range hornWeights {
		offset := i - 1
		// shift perpendicular to the axis
		r, c := row+offset*dc, col+offset*dr

		plus, hasPlus := g.At(r+dr, c+dc)
		minus, hasMinus := g.At(r-dr, c-dc)
		mid, hasMid := g.At(r, c)

		var d float64
		switch {
		case hasPlus && hasMinus:
			d = (plus - minus) / (2 * cellSize)
		case hasPlus && hasMid:
			d = (plus - mid) / cellSize
		case hasMinus && hasMid:
			d = (mid - minus) / cellSize
		default:
			continue
		}

		sum += w * d
		weight += w
	}

	if weight == 0 {
		return 0
	}
	return sum / weight
}
