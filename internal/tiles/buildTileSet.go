package tiles

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	"math"
	"path"
	"runtime"

	"github.com/nfnt/resize"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/gruppe-adler/rrim-utils/internal/utils"
)

// TileSize is the edge length of every tile in pixels
const TileSize = 256

// CalcMaxLod calculates the LOD at which one tile pixel covers at most one image pixel
func CalcMaxLod(img image.Image) uint8 {
	w := float64(max(img.Bounds().Dx(), img.Bounds().Dy()))

	tilesPerRowCol := math.Ceil(w / TileSize)

	return uint8(math.Ceil(math.Log2(tilesPerRowCol)))
}

// TileBounds returns the part of an image of size (width, height) covered
// by tile (col, row) at lod. Remaining pixels go to the first tiles.
func TileBounds(lod uint8, width, height, col, row int) image.Rectangle {
	tilesPerRowCol := 1 << lod

	tileWidth := width / tilesPerRowCol
	tileHeight := height / tilesPerRowCol
	widthRemainder := width % tilesPerRowCol
	heightRemainder := height % tilesPerRowCol

	x := tileWidth*col + min(col, widthRemainder)
	y := tileHeight*row + min(row, heightRemainder)
	w := tileWidth
	h := tileHeight
	if col < widthRemainder {
		w++
	}
	if row < heightRemainder {
		h++
	}

	return image.Rect(x, y, x+w, y+h)
}

// BuildTileSet writes the tiles of given LOD from img into
// outputDirectory/{lod}/{col}/{row}.png
func BuildTileSet(ctx context.Context, lod uint8, img image.Image, outputDirectory string) error {
	outputDirectory = path.Join(outputDirectory, fmt.Sprintf("%d", lod))
	tilesPerRowCol := 1 << lod

	src := toNRGBA(img)
	width := src.Bounds().Dx()
	height := src.Bounds().Dy()

	for col := 0; col < tilesPerRowCol; col++ {
		if err := utils.EnsureDirectory(path.Join(outputDirectory, fmt.Sprintf("%d", col))); err != nil {
			return err
		}
	}

	sem := semaphore.NewWeighted(int64(runtime.NumCPU()))
	g, gctx := errgroup.WithContext(ctx)

	for col := 0; col < tilesPerRowCol; col++ {
		for row := 0; row < tilesPerRowCol; row++ {
			if err := sem.Acquire(gctx, 1); err != nil {
				if werr := g.Wait(); werr != nil {
					return werr
				}
				return err
			}

			g.Go(func() error {
				defer sem.Release(1)

				rect := TileBounds(lod, width, height, col, row).Add(src.Bounds().Min)
				tilePath := path.Join(outputDirectory, fmt.Sprintf("%d", col), fmt.Sprintf("%d.png", row))
				return createTile(src, rect, tilePath)
			})
		}
	}

	return g.Wait()
}

func createTile(src *image.NRGBA, rect image.Rectangle, tilePath string) error {
	var tile image.Image = image.NewNRGBA(image.Rect(0, 0, TileSize, TileSize))

	if !rect.Empty() {
		tile = resize.Resize(TileSize, TileSize, src.SubImage(rect), resize.MitchellNetravali)
	}

	return utils.SavePNG(tilePath, tile)
}

func toNRGBA(img image.Image) *image.NRGBA {
	if nrgba, ok := img.(*image.NRGBA); ok {
		return nrgba
	}

	b := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}
