package notifications

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tmarenko/mff-auto-sub000/internal/constants"
	"github.com/tmarenko/mff-auto-sub000/internal/game/gametest"
	"github.com/tmarenko/mff-auto-sub000/internal/ui"
)

func TestCloseOnce_ShortCircuits(t *testing.T) {
	h := gametest.New()
	h.SetText(ui.LevelUp, "LEVEL UP")
	h.SetText(ui.RankUp, "RANK UP")

	c := NewCloser(h.Game)
	assert.True(t, c.CloseOnce(MissionHandlers()))
	assert.Equal(t, 1, h.TotalClicks())
}

func TestCloseOnce_IsIdempotent(t *testing.T) {
	h := gametest.New()
	h.SetText(ui.ChallengeComplete, "CHALLENGE COMPLETE")
	h.OnClick(ui.ChallengeComplete, func() { h.SetText(ui.ChallengeComplete, "") })

	c := NewCloser(h.Game)
	first := c.CloseOnce(MissionHandlers())
	second := c.CloseOnce(MissionHandlers())
	assert.True(t, first)
	assert.False(t, second)
	assert.Equal(t, 1, h.ClicksOn(ui.ChallengeComplete))
	assert.Equal(t, 1, h.TotalClicks())
}

func TestClose_RunsForBudget(t *testing.T) {
	h := gametest.New()
	h.SetText(ui.LevelUp, "LEVEL UP")
	h.OnClick(ui.LevelUp, func() {
		h.SetText(ui.LevelUp, "")
		h.SetText(ui.ChallengeComplete, "CHALLENGE COMPLETE")
	})
	h.OnClick(ui.ChallengeComplete, func() { h.SetText(ui.ChallengeComplete, "") })

	c := NewCloser(h.Game)
	closed := c.CloseMissionNotifications(context.Background(), constants.NotificationsShortBudget)
	assert.Equal(t, 2, closed)
	assert.GreaterOrEqual(t, h.Clock.Slept, constants.NotificationsShortBudget-time.Second)
}

func TestCloseAds_AnyLayout(t *testing.T) {
	h := gametest.New()
	h.Show(ui.AdsClose(3))
	h.OnClick(ui.AdsClose(3), func() { h.Hide(ui.AdsClose(3)) })

	c := NewCloser(h.Game)
	assert.Equal(t, 1, c.CloseAds(context.Background(), time.Second))
	assert.Equal(t, 1, h.ClicksOn(ui.AdsClose(3)))
}

func TestClose_NothingToClose(t *testing.T) {
	h := gametest.New()
	c := NewCloser(h.Game)
	assert.Zero(t, c.CloseAfterMissionNotifications(context.Background(), time.Second))
	assert.Zero(t, h.TotalClicks())
}

func TestClose_Cancelled(t *testing.T) {
	h := gametest.New()
	h.SetText(ui.LevelUp, "LEVEL UP")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Zero(t, NewCloser(h.Game).CloseMissionNotifications(ctx, time.Minute))
}
