package preview

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResize(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 300, 150))

	small := Resize(img, 128)
	assert.Equal(t, 256, small.Bounds().Dx())
	assert.Equal(t, 128, small.Bounds().Dy())

	tall := Resize(image.NewNRGBA(image.Rect(0, 0, 1, 400)), 128)
	assert.Equal(t, 1, tall.Bounds().Dx())
}
