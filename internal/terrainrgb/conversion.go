package terrainrgb

import (
	"image"
	"image/color"
	"math"

	"github.com/gruppe-adler/rrim-utils/internal/grid"
)

/*
	Terrain-RGB packs a value into the 24 bits of an RGB pixel:

	value = Offset + ((R * 256 * 256 + G * 256 + B) * Scale)

	Mapbox uses Offset = -10000 and Scale = 0.1 for heights. Replacing
	(R * 256 * 256 + G * 256 + B) with x and solving for it gives
	x = (value - Offset) / Scale, which is then written as a base 256 number:
	position 2 is r, position 1 is g and position 0 is b.
*/

// maxX is the largest value 24 bits can hold
const maxX = 1<<24 - 1

// Encoding describes the linear mapping between values and pixels
type Encoding struct {
	Offset float64
	Scale  float64
}

// Mapbox is the encoding of Mapbox Terrain-RGB height tiles
var Mapbox = Encoding{Offset: -10000, Scale: 0.1}

// Degrees suits openness and slope angles: -180° to about 1497° in 0.0001° steps.
var Degrees = Encoding{Offset: -180, Scale: 0.0001}

// ToRGB encodes v, clamping to the representable range
func (e Encoding) ToRGB(v float64) color.NRGBA {
	x := int64(math.Round((v - e.Offset) / e.Scale))
	x = max(0, min(x, maxX))

	return color.NRGBA{
		R: uint8(x >> 16),
		G: uint8(x >> 8),
		B: uint8(x),
		A: 255,
	}
}

// FromRGB decodes a pixel written by ToRGB
func (e Encoding) FromRGB(c color.NRGBA) float64 {
	x := int64(c.R)<<16 | int64(c.G)<<8 | int64(c.B)
	return e.Offset + float64(x)*e.Scale
}

// Encode writes a raster as a Terrain-RGB image. Nodata cells are left
// fully transparent.
func (e Encoding) Encode(r *grid.Raster) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, r.Cols, r.Rows))

	for row := 0; row < r.Rows; row++ {
		for col := 0; col < r.Cols; col++ {
			if v, ok := r.At(row, col); ok {
				img.SetNRGBA(col, row, e.ToRGB(v))
			}
		}
	}

	return img
}

// Decode reads an image written by Encode back into a raster
func (e Encoding) Decode(img image.Image, noData float64) *grid.Raster {
	b := img.Bounds()
	r := grid.NewRaster(b.Dy(), b.Dx(), noData)

	for row := 0; row < b.Dy(); row++ {
		for col := 0; col < b.Dx(); col++ {
			c := color.NRGBAModel.Convert(img.At(b.Min.X+col, b.Min.Y+row)).(color.NRGBA)
			if c.A == 0 {
				continue
			}
			r.Set(row, col, e.FromRGB(c))
		}
	}

	return r
}
