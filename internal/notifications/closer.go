// Package notifications dismisses known modal overlays that interrupt the normal flow.
package notifications

import (
	"context"
	"time"

	"github.com/tmarenko/mff-auto-sub000/internal/constants"
	"github.com/tmarenko/mff-auto-sub000/internal/game"
	"github.com/tmarenko/mff-auto-sub000/internal/logger"
	"github.com/tmarenko/mff-auto-sub000/internal/ui"
)

// Handler looks for one modal and dismisses it. TryClose reports whether it clicked.
type Handler interface {
	Name() string
	TryClose(g *game.Game) bool
}

// ElementHandler dismisses a modal detected by one element by clicking that element.
type ElementHandler struct {
	Label   string
	Element string
}

func (h ElementHandler) Name() string { return h.Label }

func (h ElementHandler) TryClose(g *game.Game) bool {
	el := g.Element(h.Element)
	if !g.IsOnScreen(el) {
		return false
	}
	if err := g.Click(el); err != nil {
		g.Log().Error("close %s: %v", h.Label, err)
		return false
	}
	return true
}

// AnyOf tries several layouts of the same modal.
type AnyOf struct {
	Label    string
	Handlers []Handler
}

func (a AnyOf) Name() string { return a.Label }

func (a AnyOf) TryClose(g *game.Game) bool {
	for _, h := range a.Handlers {
		if h.TryClose(g) {
			return true
		}
	}
	return false
}

func adsHandler() Handler {
	a := AnyOf{Label: "ads"}
	for i := 1; i <= 4; i++ {
		a.Handlers = append(a.Handlers, ElementHandler{Label: ui.AdsClose(i), Element: ui.AdsClose(i)})
	}
	return a
}

func networkErrorHandler() Handler {
	return AnyOf{Label: "network error", Handlers: []Handler{
		ElementHandler{Label: "network error", Element: ui.NetworkError},
		ElementHandler{Label: "connection lost", Element: ui.NetworkErrorReconnect},
	}}
}

// MissionHandlers are the modals that pop up between one fight and the next.
func MissionHandlers() []Handler {
	return []Handler{
		networkErrorHandler(),
		ElementHandler{Label: "level up", Element: ui.LevelUp},
		ElementHandler{Label: "rank up", Element: ui.RankUp},
		ElementHandler{Label: "challenge complete", Element: ui.ChallengeComplete},
	}
}

// AfterMissionHandlers are the modals met on the way back to the main menu.
func AfterMissionHandlers() []Handler {
	return []Handler{
		networkErrorHandler(),
		ElementHandler{Label: "daily rewards", Element: ui.DailyRewards},
		adsHandler(),
		ElementHandler{Label: "subscription selector", Element: ui.SubscriptionSelector},
		ElementHandler{Label: "alliance conquest results", Element: ui.AllianceConquest},
		ElementHandler{Label: "download update", Element: ui.DownloadUpdate},
		ElementHandler{Label: "level up", Element: ui.LevelUp},
		ElementHandler{Label: "rank up", Element: ui.RankUp},
		ElementHandler{Label: "challenge complete", Element: ui.ChallengeComplete},
	}
}

// Closer runs handler sets against the game.
type Closer struct {
	g   *game.Game
	log *logger.AppLogger
}

func NewCloser(g *game.Game) *Closer {
	return &Closer{g: g, log: g.Log().With("notifications")}
}

// CloseOnce tries the handlers in order and stops at the first one that closed something.
func (c *Closer) CloseOnce(handlers []Handler) bool {
	for _, h := range handlers {
		if h.TryClose(c.g) {
			c.log.Info("Closed notification: %s", h.Name())
			return true
		}
	}
	return false
}

// Close keeps dismissing modals until the budget runs out and returns how many were closed.
func (c *Closer) Close(ctx context.Context, handlers []Handler, budget time.Duration) int {
	clock := c.g.Clock()
	deadline := clock.Now().Add(budget)
	closed := 0
	for ctx.Err() == nil && clock.Now().Before(deadline) {
		if c.CloseOnce(handlers) {
			closed++
			continue
		}
		clock.Sleep(constants.WaitPollInterval)
	}
	return closed
}

func (c *Closer) CloseMissionNotifications(ctx context.Context, budget time.Duration) int {
	return c.Close(ctx, MissionHandlers(), budget)
}

func (c *Closer) CloseAfterMissionNotifications(ctx context.Context, budget time.Duration) int {
	return c.Close(ctx, AfterMissionHandlers(), budget)
}

func (c *Closer) CloseAds(ctx context.Context, budget time.Duration) int {
	return c.Close(ctx, []Handler{adsHandler()}, budget)
}
