package features

import (
	"fmt"
	"math"
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/gruppe-adler/rrim-utils/internal/dem"
	"github.com/gruppe-adler/rrim-utils/internal/grid"
	"github.com/gruppe-adler/rrim-utils/internal/rrim"
)

// Kinds of extracted features
const (
	KindPeak = "peak"
	KindPit  = "pit"
)

// Options filters the extracted features
type Options struct {
	// only features whose |differential openness| is at least this are kept
	MinDifferentialOpenness float64
}

// BuildMounts finds peaks and pits: cells whose eight neighbours are all
// strictly lower (or higher). Each feature carries the elevation, slope
// and openness of its cell. Peaks are sorted highest first, pits deepest first.
func BuildMounts(raster *dem.EsriASCIIRaster, g *grid.Elevation, res *rrim.Result, opts Options) *geojson.FeatureCollection {
	var peaks, pits []*geojson.Feature

	// for all cells (except edges)
	for row := 1; row < g.Rows-1; row++ {
		for col := 1; col < g.Cols-1; col++ {
			elevation, ok := g.At(row, col)
			if !ok {
				continue
			}

			kind := classify(g, row, col, elevation)
			if kind == "" {
				continue
			}

			diff, ok := res.Differential.At(row, col)
			if !ok || math.Abs(diff) < opts.MinDifferentialOpenness {
				continue
			}

			feature := geojson.NewFeature(orb.Point{raster.X(uint(col)), raster.Y(uint(row))})
			feature.Properties["kind"] = kind
			feature.Properties["elevation"] = elevation
			feature.Properties["text"] = fmt.Sprintf("%.0f", math.Round(elevation))
			feature.Properties["differential_openness"] = diff
			feature.Properties["positive_openness"] = res.Positive.Get(row, col)
			feature.Properties["negative_openness"] = res.Negative.Get(row, col)
			if s, ok := res.Slope.At(row, col); ok {
				feature.Properties["slope"] = s
			}

			if kind == KindPeak {
				peaks = append(peaks, feature)
			} else {
				pits = append(pits, feature)
			}
		}
	}

	sortByElevation(peaks, true)
	sortByElevation(pits, false)

	fc := geojson.NewFeatureCollection()
	fc.Features = append(peaks, pits...)
	return fc
}

// classify compares a cell with all direct neighbours. A nodata neighbour or
// one with the same elevation rules the cell out, so plateaus yield nothing.
func classify(g *grid.Elevation, row, col int, elevation float64) string {
	hasHigherNeighbours := false
	hasLowerNeighbours := false

	for compareRow := row - 1; compareRow <= row+1; compareRow++ {
		for compareCol := col - 1; compareCol <= col+1; compareCol++ {
			// we don't want to compare to the reference cell
			if row == compareRow && col == compareCol {
				continue
			}

			compareElev, ok := g.At(compareRow, compareCol)
			if !ok || compareElev == elevation {
				return ""
			}

			hasHigherNeighbours = hasHigherNeighbours || compareElev > elevation
			hasLowerNeighbours = hasLowerNeighbours || compareElev < elevation

			// no peak or pit, if we have lower and higher neighbours
			if hasHigherNeighbours && hasLowerNeighbours {
				return ""
			}
		}
	}

	if hasLowerNeighbours {
		return KindPeak
	}
	return KindPit
}

func sortByElevation(features []*geojson.Feature, descending bool) {
	sort.SliceStable(features, func(i, j int) bool {
		a := features[i].Properties["elevation"].(float64)
		b := features[j].Properties["elevation"].(float64)
		if descending {
			return a > b
		}
		return a < b
	})
}
