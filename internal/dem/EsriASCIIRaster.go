package dem

import (
	"fmt"

	"github.com/gruppe-adler/rrim-utils/internal/grid"
)

// DefaultNoDataValue is assumed when a grid has no NODATA_VALUE header
const DefaultNoDataValue = -9999.0

// EsriASCIIRaster represents a ESRI ASCII Grid
type EsriASCIIRaster struct {
	Ncols, Nrows     uint
	Xcenter, Ycenter *float64
	Xcorner, Ycorner *float64
	CellSize         float64
	Dx, Dy           float64 // non-square cells, set instead of CellSize
	NoDataValue      float64
	Data             [][]float64
}

// Dims returns the dimensions of the grid.
func (raster EsriASCIIRaster) Dims() (c, r uint) {
	return raster.Ncols, raster.Nrows
}

// Z returns the value of a grid value at (c, r).
// It will panic if c or r are out of bounds for the grid.
func (raster EsriASCIIRaster) Z(c, r uint) float64 {
	return raster.Data[r][c]
}

// CellSizes returns the horizontal and vertical cell size
func (raster EsriASCIIRaster) CellSizes() (x, y float64) {
	if raster.Dx > 0 && raster.Dy > 0 {
		return raster.Dx, raster.Dy
	}
	return raster.CellSize, raster.CellSize
}

// X returns the coordinate of the center of column c.
func (raster EsriASCIIRaster) X(c uint) float64 {
	dx, _ := raster.CellSizes()
	x0 := 0.5 * dx
	switch {
	case raster.Xcenter != nil:
		x0 = *raster.Xcenter
	case raster.Xcorner != nil:
		x0 = *raster.Xcorner + 0.5*dx
	}
	return x0 + float64(c)*dx
}

// Y returns the coordinate of the center of row r. Row 0 is the northernmost row.
func (raster EsriASCIIRaster) Y(r uint) float64 {
	_, dy := raster.CellSizes()
	y0 := 0.5 * dy
	switch {
	case raster.Ycenter != nil:
		y0 = *raster.Ycenter
	case raster.Ycorner != nil:
		y0 = *raster.Ycorner + 0.5*dy
	}
	return y0 + float64(raster.Nrows-1-r)*dy
}

// Elevation converts the raster into an elevation grid
func (raster EsriASCIIRaster) Elevation() (*grid.Elevation, error) {
	if uint(len(raster.Data)) != raster.Nrows {
		return nil, &grid.InvalidGridError{Reason: fmt.Sprintf("expected %d rows, got %d", raster.Nrows, len(raster.Data))}
	}

	values := make([]float64, 0, raster.Nrows*raster.Ncols)
	for _, row := range raster.Data {
		values = append(values, row...)
	}

	dx, dy := raster.CellSizes()
	return grid.NewElevation(int(raster.Nrows), int(raster.Ncols), dx, dy, raster.NoDataValue, values)
}
