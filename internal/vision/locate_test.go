package vision

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocate_FindsTemplate(t *testing.T) {
	frame := image.NewRGBA(image.Rect(0, 0, 120, 80))
	tpl := createTestImage(16, 12)
	draw.Draw(frame, image.Rect(70, 40, 86, 52), tpl, image.Point{}, draw.Src)

	matches := Locate(frame, tpl, image.Rectangle{}, 60, 0.03)
	require.NotEmpty(t, matches)
	assert.Equal(t, image.Pt(70, 40), matches[0])

	assert.Empty(t, Locate(frame, tpl, image.Rect(0, 0, 60, 80), 60, 0.03), "outside roi")
}

func TestLocate_TransparentPixelsAreWildcards(t *testing.T) {
	frame := image.NewRGBA(image.Rect(0, 0, 40, 40))
	draw.Draw(frame, frame.Bounds(), &image.Uniform{C: color.RGBA{200, 10, 10, 255}}, image.Point{}, draw.Src)

	tpl := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if x == 0 || y == 0 || x == 7 || y == 7 {
				tpl.Set(x, y, color.RGBA{200, 10, 10, 255})
			}
		}
	}
	assert.NotEmpty(t, Locate(frame, tpl, image.Rectangle{}, 10, 0))
}

func TestLocate_TemplateLargerThanArea(t *testing.T) {
	frame := image.NewRGBA(image.Rect(0, 0, 10, 10))
	assert.Nil(t, Locate(frame, createTestImage(16, 16), image.Rectangle{}, 60, 0.03))
}

func TestBest(t *testing.T) {
	_, ok := Best(nil, image.Pt(0, 0))
	assert.False(t, ok)

	p, ok := Best([]image.Point{image.Pt(50, 50), image.Pt(12, 9), image.Pt(90, 0)}, image.Pt(10, 10))
	assert.True(t, ok)
	assert.Equal(t, image.Pt(12, 9), p)
}
