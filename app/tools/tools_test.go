package tools

import (
	"image"
	"os"
	"path/filepath"
	"testing"

	"fyne.io/fyne/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tmarenko/mff-auto-sub000/internal/geom"
)

func TestFitContain(t *testing.T) {
	// wide view: image fits height and is centred horizontally
	v := fitContain(fyne.NewSize(800, 300), image.Pt(640, 360))
	assert.InDelta(t, 0, v.Pos.Y, 0.01)
	assert.InDelta(t, 300, v.Size.Height, 0.01)
	assert.InDelta(t, 533.33, v.Size.Width, 0.01)
	assert.InDelta(t, 133.33, v.Pos.X, 0.01)

	// tall view: image fits width
	v = fitContain(fyne.NewSize(320, 400), image.Pt(640, 360))
	assert.InDelta(t, 320, v.Size.Width, 0.01)
	assert.InDelta(t, 180, v.Size.Height, 0.01)
	assert.InDelta(t, 110, v.Pos.Y, 0.01)

	assert.Equal(t, viewRect{}, fitContain(fyne.NewSize(0, 10), image.Pt(640, 360)))
}

func TestSelectionToPixels(t *testing.T) {
	frame := image.Rect(0, 0, 640, 360)
	view := viewRect{Pos: fyne.NewPos(0, 0), Size: fyne.NewSize(320, 180)}

	// drag direction does not matter
	got := selectionToPixels(view, fyne.NewPos(60, 40), fyne.NewPos(10, 20), frame)
	assert.Equal(t, image.Rect(20, 40, 120, 80), got)

	// clipped to the drawn image
	got = selectionToPixels(view, fyne.NewPos(300, 170), fyne.NewPos(400, 260), frame)
	assert.Equal(t, image.Rect(600, 340, 640, 360), got)

	assert.True(t, selectionToPixels(view, fyne.NewPos(400, 200), fyne.NewPos(500, 300), frame).Empty())
	assert.True(t, selectionToPixels(viewRect{}, fyne.NewPos(0, 0), fyne.NewPos(5, 5), frame).Empty())
}

func TestRectLiteral(t *testing.T) {
	r := geom.FromPixels(image.Rect(64, 36, 128, 72), 640, 360)
	assert.Equal(t, "geom.R(0.1000, 0.1000, 0.2000, 0.2000)", RectLiteral(r))
}

func TestTemplateName(t *testing.T) {
	assert.Equal(t, "mission_home.png", TemplateName("MISSION_HOME"))
	assert.Equal(t, "skill_3_ready.png", TemplateName("Skill 3 (ready)"))
	assert.Equal(t, "template.png", TemplateName("??"))
}

func TestNextFreeName(t *testing.T) {
	dir := t.TempDir()
	assert.Equal(t, "home.png", nextFreeName(dir, "home.png"))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "home.png"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "home_2.png"), nil, 0o644))
	assert.Equal(t, "home_3.png", nextFreeName(dir, "home.png"))
}
