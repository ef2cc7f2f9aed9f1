package window

import (
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tmarenko/mff-auto-sub000/internal/logger"
	"github.com/tmarenko/mff-auto-sub000/internal/window/windowtest"
)

type fakeClock struct {
	t     time.Time
	slept time.Duration
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) sleep(d time.Duration) {
	c.slept += d
	c.t = c.t.Add(d)
}

func newTestAdapter(t *testing.T) (*Adapter, *windowtest.Backend, *fakeClock) {
	t.Helper()
	b := windowtest.NewBackend(64, 36)
	clock := &fakeClock{t: time.Unix(1000, 0)}
	a := New(b, logger.Nop())
	a.SetClock(clock.now, clock.sleep)
	require.NoError(t, a.Attach("NoxPlayer", "sub", "sub"))
	return a, b, clock
}

func TestCapture_BeforeAttach(t *testing.T) {
	a := New(windowtest.NewBackend(10, 10), logger.Nop())
	_, err := a.Capture()
	assert.ErrorIs(t, err, ErrNoFrame)
	assert.False(t, a.Initialized())
}

func TestAttach_Error(t *testing.T) {
	b := windowtest.NewBackend(10, 10)
	b.AttachErr = ErrWindowNotFound
	a := New(b, logger.Nop())
	err := a.Attach("Missing", "sub", "sub")
	assert.ErrorIs(t, err, ErrWindowNotFound)
	assert.False(t, a.Initialized())
}

func TestCapture_CachesForOneTick(t *testing.T) {
	a, b, clock := newTestAdapter(t)
	first := windowtest.Blank(64, 36, color.White)
	second := windowtest.Blank(64, 36, color.Black)
	b.Script(first, second)

	img1, err := a.Capture()
	require.NoError(t, err)
	img2, err := a.Capture()
	require.NoError(t, err)
	assert.Same(t, img1, img2)

	clock.t = clock.t.Add(60 * time.Millisecond)
	img3, err := a.Capture()
	require.NoError(t, err)
	assert.Same(t, second, img3)
}

func TestCapture_FailureFlipsInitialized(t *testing.T) {
	a, b, _ := newTestAdapter(t)
	b.CaptureErr = errors.New("print window failed")

	_, err := a.Capture()
	assert.ErrorIs(t, err, ErrNoFrame)
	assert.False(t, a.Initialized())

	b.CaptureErr = nil
	_, err = a.Capture()
	assert.ErrorIs(t, err, ErrNoFrame, "stays down until re-attached")
	assert.ErrorIs(t, a.Click(1, 1), ErrNoFrame)
}

func TestClick_InvalidatesCache(t *testing.T) {
	a, b, _ := newTestAdapter(t)
	before := windowtest.Blank(64, 36, color.White)
	after := windowtest.Blank(64, 36, color.Black)
	b.Script(before, after)

	_, err := a.Capture()
	require.NoError(t, err)
	require.NoError(t, a.Click(10, 20))

	img, err := a.Capture()
	require.NoError(t, err)
	assert.Same(t, after, img)
	assert.Equal(t, []image.Point{{10, 20}}, b.Clicks())
}

func TestDrag_InterpolatesSteps(t *testing.T) {
	a, b, clock := newTestAdapter(t)
	require.NoError(t, a.Drag(0, 0, 100, 50, time.Second, 10))

	events := b.Events()
	require.Len(t, events, 13)
	assert.Equal(t, windowtest.MouseMove, events[0].Kind)
	assert.False(t, events[0].Pressed)
	assert.Equal(t, windowtest.MouseDown, events[1].Kind)
	for i, ev := range events[2:12] {
		assert.Equal(t, windowtest.MouseMove, ev.Kind)
		assert.True(t, ev.Pressed)
		assert.Equal(t, (i+1)*10, ev.X)
		assert.Equal(t, (i+1)*5, ev.Y)
	}
	last := events[12]
	assert.Equal(t, windowtest.MouseUp, last.Kind)
	assert.Equal(t, 100, last.X)
	assert.Equal(t, time.Second, clock.slept)
}

func TestPressKey(t *testing.T) {
	a, b, _ := newTestAdapter(t)
	require.NoError(t, a.PressKey("ESCAPE", false))

	events := b.Events()
	require.Len(t, events, 2)
	assert.Equal(t, windowtest.Event{Kind: windowtest.KeyDown, Key: "ESCAPE"}, events[0])
	assert.Equal(t, windowtest.Event{Kind: windowtest.KeyUp, Key: "ESCAPE"}, events[1])
}

func TestCloseCurrentApp_RequiresReattach(t *testing.T) {
	a, b, _ := newTestAdapter(t)
	require.NoError(t, a.CloseCurrentApp())
	assert.False(t, a.Initialized())
	assert.Equal(t, 1, b.Closed())
	assert.True(t, a.Restartable())
}

func TestSaveDebugFrame(t *testing.T) {
	a, _, _ := newTestAdapter(t)
	path := filepath.Join(t.TempDir(), "frame.png")
	require.NoError(t, a.SaveDebugFrame(path))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}
