package composite

import (
	"image"
	"image/color"
	"math"

	"github.com/gruppe-adler/rrim-utils/internal/grid"
)

// Image renders the composite. Single band composites become grey, nodata
// cells are fully transparent.
func (c *Composite) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, c.Cols, c.Rows))

	for row := 0; row < c.Rows; row++ {
		for col := 0; col < c.Cols; col++ {
			r, ok := c.Bands[0].At(row, col)
			if !ok {
				continue
			}

			g, b := r, r
			if len(c.Bands) == 3 {
				g = c.Bands[1].Get(row, col)
				b = c.Bands[2].Get(row, col)
			}

			img.SetNRGBA(col, row, color.NRGBA{R: to8(r), G: to8(g), B: to8(b), A: 255})
		}
	}

	return img
}

// GrayImage renders a raster linearly between lo (black) and hi (white),
// leaving nodata transparent. lo may be greater than hi to invert the ramp.
func GrayImage(r *grid.Raster, lo, hi float64) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, r.Cols, r.Rows))
	span := hi - lo

	for row := 0; row < r.Rows; row++ {
		for col := 0; col < r.Cols; col++ {
			v, ok := r.At(row, col)
			if !ok {
				continue
			}

			t := 0.0
			if span != 0 {
				t = clamp01((v - lo) / span)
			}
			gray := to8(t * MaxIntensity)
			img.SetNRGBA(col, row, color.NRGBA{R: gray, G: gray, B: gray, A: 255})
		}
	}

	return img
}

func to8(v float64) uint8 {
	return uint8(math.Round(math.Min(math.Max(v, 0), MaxIntensity)))
}
