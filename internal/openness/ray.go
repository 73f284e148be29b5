package openness

import (
	"math"

	"github.com/gruppe-adler/rrim-utils/internal/grid"
)

// Sample is one grid cell visited by a ray
type Sample struct {
	Row, Col int
	Distance float64 // horizontal ground distance from the ray origin
}

// Ray walks outward from an origin cell in unit-cell steps, visiting the
// nearest grid cell at each step. It stops at the first cell outside the
// grid or once the ground distance exceeds maxDistance.
type Ray struct {
	g           *grid.Elevation
	row, col    int
	dir         Direction
	maxDistance float64

	step           int
	lastDR, lastDC int
	done           bool
}

// NewRay returns a ray positioned at its origin
func NewRay(g *grid.Elevation, row, col int, dir Direction, maxDistance float64) Ray {
	return Ray{
		g:           g,
		row:         row,
		col:         col,
		dir:         dir,
		maxDistance: maxDistance,
	}
}

// Reset rewinds the ray to its origin.
func (r *Ray) Reset() {
	r.step = 0
	r.lastDR, r.lastDC = 0, 0
	r.done = false
}

// Next returns the next sample. ok is false once the ray has terminated.
// Nodata cells are returned like any other cell; skipping them is up to the
// caller.
func (r *Ray) Next() (s Sample, ok bool) {
	// allow for rounding in distances that land exactly on the limit
	limit := r.maxDistance * (1 + 1e-9)

	for !r.done {
		r.step++
		dr := int(math.Round(float64(r.step) * r.dir.DRow))
		dc := int(math.Round(float64(r.step) * r.dir.DCol))

		// several steps can round to the same cell on oblique rays
		if dr == r.lastDR && dc == r.lastDC {
			continue
		}
		r.lastDR, r.lastDC = dr, dc

		dist := math.Hypot(float64(dr)*r.g.CellSizeY, float64(dc)*r.g.CellSizeX)
		if dist > limit {
			r.done = true
			break
		}

		row, col := r.row+dr, r.col+dc
		if !r.g.InBounds(row, col) {
			r.done = true
			break
		}

		return Sample{Row: row, Col: col, Distance: dist}, true
	}

	return Sample{}, false
}

// stepLength is the ground length of one unit step along dir
func stepLength(g *grid.Elevation, dir Direction) float64 {
	return math.Hypot(dir.DRow*g.CellSizeY, dir.DCol*g.CellSizeX)
}
