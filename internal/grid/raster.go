package grid

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// A Raster is a same-shaped grid of derived values. Validity is tracked per
// cell, so a derived value may equal NoDataValue; the sentinel is only what
// nodata cells read as through Get and Values.
type Raster struct {
	Rows, Cols  int
	NoDataValue float64
	values      []float64
	valid       []bool
}

// NewRaster allocates a raster with every cell nodata.
func NewRaster(rows, cols int, noData float64) *Raster {
	values := make([]float64, rows*cols)
	for i := range values {
		values[i] = noData
	}

	return &Raster{
		Rows:        rows,
		Cols:        cols,
		NoDataValue: noData,
		values:      values,
		valid:       make([]bool, rows*cols),
	}
}

// Set stores a computed value. NaN is stored as nodata.
func (r *Raster) Set(row, col int, v float64) {
	i := row*r.Cols + col
	if math.IsNaN(v) {
		r.values[i], r.valid[i] = r.NoDataValue, false
		return
	}
	r.values[i], r.valid[i] = v, true
}

// SetNoData marks a cell as nodata.
func (r *Raster) SetNoData(row, col int) {
	i := row*r.Cols + col
	r.values[i], r.valid[i] = r.NoDataValue, false
}

func (r *Raster) Get(row, col int) float64 { return r.values[row*r.Cols+col] }

// At returns the value and whether it is valid.
func (r *Raster) At(row, col int) (float64, bool) {
	i := row*r.Cols + col
	return r.values[i], r.valid[i]
}

func (r *Raster) IsNoData(row, col int) bool {
	return !r.valid[row*r.Cols+col]
}

// Values exposes the backing slice in row-major order, nodata cells holding
// NoDataValue. It must be treated as read-only once the producing stage has
// returned.
func (r *Raster) Values() []float64 { return r.values }

// Valid returns a copy of all non-nodata values.
func (r *Raster) Valid() []float64 {
	valid := make([]float64, 0, len(r.values))
	for i, v := range r.values {
		if r.valid[i] {
			valid = append(valid, v)
		}
	}
	return valid
}

// Stats summarizes the valid cells of a raster
type Stats struct {
	Count          int
	Min, Max, Mean float64
	StdDev         float64
}

func (s Stats) String() string {
	if s.Count == 0 {
		return "no valid cells"
	}
	return fmt.Sprintf("n=%d min=%.3f max=%.3f mean=%.3f sd=%.3f", s.Count, s.Min, s.Max, s.Mean, s.StdDev)
}

// Stats computes summary statistics over valid cells.
func (r *Raster) Stats() Stats {
	valid := r.Valid()
	if len(valid) == 0 {
		return Stats{}
	}

	mean, std := stat.MeanStdDev(valid, nil)
	if len(valid) == 1 {
		std = 0
	}

	return Stats{
		Count:  len(valid),
		Min:    floats.Min(valid),
		Max:    floats.Max(valid),
		Mean:   mean,
		StdDev: std,
	}
}
