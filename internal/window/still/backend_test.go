package still

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tmarenko/mff-auto-sub000/internal/logger"
	"github.com/tmarenko/mff-auto-sub000/internal/window"
)

func TestOpen_ServesSavedFrame(t *testing.T) {
	src := imaging.New(32, 18, color.NRGBA{10, 200, 30, 255})
	path := filepath.Join(t.TempDir(), "frame.png")
	require.NoError(t, imaging.Save(src, path))

	b, err := Open(path, logger.Nop())
	require.NoError(t, err)

	a := window.New(b, logger.Nop())
	require.NoError(t, a.Attach("NoxPlayer", "ScreenBoardClassWindow", "Nox"))
	frame, err := a.Capture()
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 32, 18), frame.Bounds())

	assert.NoError(t, b.MouseDown(1, 1))
	assert.False(t, a.Restartable())
}

func TestCapture_NoFrame(t *testing.T) {
	b := New(nil, logger.Nop())
	_, err := b.Capture()
	assert.ErrorIs(t, err, window.ErrNoFrame)
}

func TestOpen_MissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.png"), logger.Nop())
	assert.Error(t, err)
}
