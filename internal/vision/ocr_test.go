package vision

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUsesDigitEngine(t *testing.T) {
	assert.True(t, UsesDigitEngine("0123456789/"))
	assert.True(t, UsesDigitEngine("%.5"))
	assert.False(t, UsesDigitEngine("ABCDEF"))
	assert.False(t, UsesDigitEngine(""))
}

func TestBinarize(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 3, 1))
	img.SetGray(0, 0, color.Gray{Y: 99})
	img.SetGray(1, 0, color.Gray{Y: 100})
	img.SetGray(2, 0, color.Gray{Y: 200})

	out := Binarize(img, 100)
	assert.Equal(t, []uint8{0, 255, 255}, out.Pix)
}

func TestPrepareForOCR_ResizesToHeight(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 40, 10))
	out := PrepareForOCR(img, 128, 72)
	assert.Equal(t, 72, out.Bounds().Dy())
	assert.Equal(t, 288, out.Bounds().Dx())
}

func TestRemapColors(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.Set(0, 0, color.RGBA{10, 200, 10, 255})
	img.Set(1, 0, color.RGBA{10, 10, 10, 255})

	out := RemapColors(img, []ColorRange{{Low: RGB{0, 150, 0}, High: RGB{50, 255, 50}}})
	assert.Equal(t, RGB{255, 255, 255}, ToRGB(out.At(0, 0)))
	assert.Equal(t, RGB{10, 10, 10}, ToRGB(out.At(1, 0)))
}

func TestCrop_RespectsOrigin(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	img.Set(5, 5, color.RGBA{255, 0, 0, 255})
	sub := img.SubImage(image.Rect(2, 2, 10, 10))

	out := Crop(sub, image.Rect(3, 3, 4, 4))
	assert.Equal(t, RGB{255, 0, 0}, ToRGB(out.At(0, 0)))
}
