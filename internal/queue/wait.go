package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/tmarenko/mff-auto-sub000/internal/constants"
	"github.com/tmarenko/mff-auto-sub000/internal/game"
	"github.com/tmarenko/mff-auto-sub000/internal/mission"
	"github.com/tmarenko/mff-auto-sub000/internal/ui"
)

// NextDailyReset returns the first reset hour strictly after now.
func NextDailyReset(now time.Time) time.Time {
	now = now.UTC()
	reset := time.Date(now.Year(), now.Month(), now.Day(), constants.DailyResetHour, 0, 0, 0, time.UTC)
	if !now.Before(reset) {
		reset = reset.AddDate(0, 0, 1)
	}
	return reset
}

// WaitForDailyResetTime sleeps until the next daily reset, checking ctx every poll.
func WaitForDailyResetTime(ctx context.Context, g *game.Game) error {
	until := NextDailyReset(g.Clock().Now())
	g.Log().Info("Waiting for daily reset at %s", until.Format(time.RFC3339))
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		left := until.Sub(g.Clock().Now())
		if left <= 0 {
			return nil
		}
		g.Sleep(min(left, constants.EnergyPollMin))
	}
}

// WaitForEnergyLevel polls the energy counter at a random 60-120 s interval until it reaches target.
func WaitForEnergyLevel(ctx context.Context, g *game.Game, target int) error {
	el := g.Element(ui.EnergyCounter)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		text := g.GetScreenText(el)
		current, maxEnergy, ok := mission.ParseStages(text)
		switch {
		case !ok:
			g.Log().Warn("Cannot read energy from %q", text)
		case current >= target:
			g.Log().Info("Energy %d/%d reached %d", current, maxEnergy, target)
			return nil
		case target > maxEnergy && maxEnergy > 0:
			return fmt.Errorf("energy target %d above cap %d", target, maxEnergy)
		default:
			g.Log().Info("Energy %d/%d, waiting for %d", current, maxEnergy, target)
		}
		g.SleepBetween(constants.EnergyPollMin, constants.EnergyPollMax)
	}
}
