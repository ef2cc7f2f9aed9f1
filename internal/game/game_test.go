package game_test

import (
	"context"
	"image/color"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tmarenko/mff-auto-sub000/internal/constants"
	"github.com/tmarenko/mff-auto-sub000/internal/game"
	"github.com/tmarenko/mff-auto-sub000/internal/game/gametest"
	"github.com/tmarenko/mff-auto-sub000/internal/geom"
	"github.com/tmarenko/mff-auto-sub000/internal/ui"
)

var orange = color.RGBA{243, 120, 28, 255}

func TestIsTextOnScreen(t *testing.T) {
	h := gametest.New()
	repeat := h.Game.Element(ui.RepeatButton)

	assert.False(t, h.Game.IsTextOnScreen(repeat))
	h.SetText(ui.RepeatButton, "REPEAT")
	assert.True(t, h.Game.IsTextOnScreen(repeat))
	h.SetText(ui.RepeatButton, "REPFAT")
	assert.True(t, h.Game.IsTextOnScreen(repeat), "one OCR slip is tolerated")
	h.SetText(ui.RepeatButton, "RE")
	assert.False(t, h.Game.IsTextOnScreen(repeat))
	assert.Equal(t, 4, h.OCR.Calls(ui.RepeatButton))
}

func TestGetScreenText(t *testing.T) {
	h := gametest.New()
	h.SetText(ui.EnergyCounter, "85/120")
	assert.Equal(t, "85/120", h.Game.GetScreenText(h.Game.Element(ui.EnergyCounter)))
	assert.Equal(t, "", h.Game.GetScreenText(h.Game.Element(ui.HomeButton)), "no text rect")
}

func TestIsImageOnScreen(t *testing.T) {
	h := gametest.New()
	home := h.Game.Element(ui.HomeButton)

	assert.False(t, h.Game.IsImageOnScreen(home))
	h.Show(ui.HomeButton)
	assert.True(t, h.Game.IsImageOnScreen(home))
	h.Hide(ui.HomeButton)
	assert.False(t, h.Game.IsImageOnScreen(home))
}

func TestIsImageOnScreen_CopyWithCapturedImage(t *testing.T) {
	h := gametest.New()
	slot := h.Game.Element(ui.Skill(1))
	h.Paint(slot.ImageRect, gametest.Pattern(40, 40, 7))

	ready, err := h.Game.CropElement(slot)
	require.NoError(t, err)
	assert.True(t, h.Game.IsImageOnScreen(slot.WithImage(ready)))

	h.Paint(slot.ImageRect, gametest.Pattern(40, 40, 8))
	assert.False(t, h.Game.IsImageOnScreen(slot.WithImage(ready)))
}

func TestLocateElement_FindsShiftedImage(t *testing.T) {
	h := gametest.New()
	home := h.Game.Element(ui.HomeButton)

	_, ok := h.Game.LocateElement(home)
	assert.False(t, ok, "nothing painted")

	dx, dy := 8.0/gametest.Width, 5.0/gametest.Height
	moved := geom.R(home.ImageRect.X1+dx, home.ImageRect.Y1+dy, home.ImageRect.X2+dx, home.ImageRect.Y2+dy)
	h.Paint(moved, home.Image)

	got, ok := h.Game.LocateElement(home)
	require.True(t, ok)
	assert.InDelta(t, moved.X1, got.X1, 1.0/gametest.Width)
	assert.InDelta(t, moved.Y1, got.Y1, 1.0/gametest.Height)
	assert.False(t, h.Game.IsImageOnScreen(home), "the original rect no longer matches")
}

func TestLocateElement_NoImage(t *testing.T) {
	h := gametest.New()
	_, ok := h.Game.LocateElement(h.Game.Element(ui.MainMenuLabel))
	assert.False(t, ok)
}

func TestIsOnScreen_Color(t *testing.T) {
	h := gametest.New()
	spinner := h.Game.Element(ui.LoadingCircle)
	assert.False(t, h.Game.IsOnScreen(spinner))

	h.Fill(geom.R(0.9, 0.85, 1, 1), orange)
	assert.True(t, h.Game.IsOnScreen(spinner))
}

func TestClick_JitterStaysInsideRect(t *testing.T) {
	h := gametest.New()
	el := h.Game.Element(ui.RepeatButton)
	for i := 0; i < 100; i++ {
		require.NoError(t, h.Game.Click(el))
	}
	assert.Equal(t, 100, h.ClicksOn(ui.RepeatButton))

	unique := map[[2]int]bool{}
	for _, p := range h.Backend.Clicks() {
		unique[[2]int{p.X, p.Y}] = true
	}
	assert.Greater(t, len(unique), 20, "click points must vary")
}

func TestClick_ButtonOnlyIsPadded(t *testing.T) {
	h := gametest.New()
	el := h.Game.Element(ui.LobbyHomeButton)
	for i := 0; i < 50; i++ {
		require.NoError(t, h.Game.Click(el))
	}
	padded := el.ButtonRect.Padded(constants.ButtonPadding).Pixels(gametest.Width, gametest.Height).Inset(-1)
	for _, p := range h.Backend.Clicks() {
		assert.True(t, p.In(padded), "%v outside %v", p, padded)
	}
}

func TestClick_SleepsAroundClick(t *testing.T) {
	h := gametest.New()
	require.NoError(t, h.Game.Click(h.Game.Element(ui.RepeatButton)))
	assert.GreaterOrEqual(t, h.Clock.Slept, 3*constants.ClickMinDelay)
	assert.LessOrEqual(t, h.Clock.Slept, 3*constants.ClickMaxDelay)
}

func TestClick_NoClickableRect(t *testing.T) {
	h := gametest.New()
	bare := ui.Element{Name: "NOWHERE"}
	assert.Error(t, h.Game.Click(bare))
	assert.Error(t, h.Game.ClickQuick(bare, 10*time.Millisecond))
	assert.Zero(t, h.TotalClicks())
	assert.Zero(t, h.Clock.Slept)
}

func TestClick_FallsBackToTextRect(t *testing.T) {
	h := gametest.New()
	require.NoError(t, h.Game.ClickQuick(h.Game.Element(ui.MainMenuLabel), 0))
	assert.Equal(t, 1, h.ClicksOn(ui.MainMenuLabel))
}

func TestDrag(t *testing.T) {
	h := gametest.New()
	require.NoError(t, h.Game.DragWith(h.Game.Element(ui.MoveJoystick), h.Game.Element(ui.MoveDown), 300*time.Millisecond, 10))
	events := h.Backend.Events()
	require.Len(t, events, 13)
	assert.Greater(t, events[12].Y, events[1].Y)
}

func TestNetworkErrorGuard_DismissesBeforeClick(t *testing.T) {
	h := gametest.New(game.WithGuards(game.NetworkErrorGuard{}))
	h.SetText(ui.NetworkError, "NETWORK ERROR")
	h.OnClick(ui.NetworkError, func() { h.SetText(ui.NetworkError, "") })

	require.NoError(t, h.Game.Click(h.Game.Element(ui.RepeatButton)))
	assert.Equal(t, 1, h.ClicksOn(ui.NetworkError))
	assert.Equal(t, 1, h.ClicksOn(ui.RepeatButton))
	assert.Equal(t, 2, h.TotalClicks())

	require.NoError(t, h.Game.Click(h.Game.Element(ui.RepeatButton)))
	assert.Equal(t, 1, h.ClicksOn(ui.NetworkError), "modal is gone")
}

func TestLoadingCircleGuard_WaitsThenGivesUp(t *testing.T) {
	h := gametest.New(game.WithGuards(game.LoadingCircleGuard{}))
	h.Fill(geom.R(0.9, 0.85, 1, 1), orange)

	assert.False(t, h.Game.IsTextOnScreen(h.Game.Element(ui.RepeatButton)))
	assert.GreaterOrEqual(t, h.Clock.Slept, constants.LoadingCircleTimeout)
	assert.Less(t, h.Clock.Slept, constants.LoadingCircleTimeout+2*constants.LoadingCircleRetry)
}

func TestLoadingCircleGuard_NoSpinnerNoWait(t *testing.T) {
	h := gametest.New(game.WithGuards(game.DefaultGuards(true)...))
	h.SetText(ui.RepeatButton, "REPEAT")
	assert.True(t, h.Game.IsTextOnScreen(h.Game.Element(ui.RepeatButton)))
	assert.Zero(t, h.Clock.Slept)
}

func TestWaitUntil(t *testing.T) {
	h := gametest.New()
	calls := 0
	ok := h.Game.WaitUntil(context.Background(), time.Second, 100*time.Millisecond, func() bool {
		calls++
		return calls == 3
	})
	assert.True(t, ok)
	assert.Equal(t, 200*time.Millisecond, h.Clock.Slept)

	ok = h.Game.WaitUntil(context.Background(), time.Second, 100*time.Millisecond, func() bool { return false })
	assert.False(t, ok)
	assert.Equal(t, 1200*time.Millisecond, h.Clock.Slept)
}

func TestWaitUntil_Cancelled(t *testing.T) {
	h := gametest.New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.False(t, h.Game.WaitUntil(ctx, time.Minute, time.Second, func() bool { return false }))
	assert.Zero(t, h.Clock.Slept)
}

func TestClickUntilGone(t *testing.T) {
	h := gametest.New()
	h.SetText(ui.LevelUp, "LEVEL UP")
	clicks := 0
	h.OnClick(ui.LevelUp, func() {
		clicks++
		if clicks == 2 {
			h.SetText(ui.LevelUp, "")
		}
	})
	assert.True(t, h.Game.ClickUntilGone(context.Background(), h.Game.Element(ui.LevelUp), 5))
	assert.Equal(t, 2, clicks)
}
