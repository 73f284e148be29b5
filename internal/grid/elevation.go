package grid

import (
	"fmt"
	"math"
)

// Elevation is an immutable, row-major digital elevation model
type Elevation struct {
	Rows, Cols           int
	CellSizeX, CellSizeY float64
	NoDataValue          float64
	values               []float64
}

// NewElevation validates the given dimensions and takes ownership of values.
// Callers must not modify values afterwards.
func NewElevation(rows, cols int, cellSizeX, cellSizeY, noData float64, values []float64) (*Elevation, error) {
	g := &Elevation{
		Rows:        rows,
		Cols:        cols,
		CellSizeX:   cellSizeX,
		CellSizeY:   cellSizeY,
		NoDataValue: noData,
		values:      values,
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// Validate checks the structural invariants of the grid.
func (g *Elevation) Validate() error {
	if g.Rows < 1 || g.Cols < 1 {
		return &InvalidGridError{Reason: fmt.Sprintf("dimensions must be at least 1x1, got %dx%d", g.Rows, g.Cols)}
	}
	if !(g.CellSizeX > 0) || !(g.CellSizeY > 0) || math.IsInf(g.CellSizeX, 0) || math.IsInf(g.CellSizeY, 0) {
		return &InvalidGridError{Reason: fmt.Sprintf("cell size must be positive, got %gx%g", g.CellSizeX, g.CellSizeY)}
	}
	if len(g.values) != g.Rows*g.Cols {
		return &InvalidGridError{Reason: fmt.Sprintf("expected %d values, got %d", g.Rows*g.Cols, len(g.values))}
	}
	return nil
}

// FromRows builds an Elevation from a slice of rows with a square cell size.
func FromRows(data [][]float64, cellSize, noData float64) (*Elevation, error) {
	if len(data) == 0 || len(data[0]) == 0 {
		return nil, &InvalidGridError{Reason: "grid has no cells"}
	}

	cols := len(data[0])
	values := make([]float64, 0, len(data)*cols)
	for r, row := range data {
		if len(row) != cols {
			return nil, &InvalidGridError{Reason: fmt.Sprintf("row %d has %d values, expected %d", r, len(row), cols)}
		}
		values = append(values, row...)
	}

	return NewElevation(len(data), cols, cellSize, cellSize, noData, values)
}

// InBounds tests whether (row, col) lies inside the grid
func (g *Elevation) InBounds(row, col int) bool {
	return row >= 0 && col >= 0 && row < g.Rows && col < g.Cols
}

// At returns the elevation at (row, col). ok is false for cells outside
// the grid and for nodata cells.
func (g *Elevation) At(row, col int) (v float64, ok bool) {
	if !g.InBounds(row, col) {
		return g.NoDataValue, false
	}

	v = g.values[row*g.Cols+col]
	if IsNoData(v, g.NoDataValue) {
		return g.NoDataValue, false
	}

	return v, true
}

// Value returns the elevation at (row, col) or the nodata sentinel.
func (g *Elevation) Value(row, col int) float64 {
	v, _ := g.At(row, col)
	return v
}

// NewRaster returns an output raster with the same shape and nodata sentinel.
func (g *Elevation) NewRaster() *Raster {
	return NewRaster(g.Rows, g.Cols, g.NoDataValue)
}

// IsNoData reports whether v is the sentinel. NaN always counts as nodata.
func IsNoData(v, noData float64) bool {
	return v == noData || math.IsNaN(v)
}
