package battle

import (
	"context"
	"time"

	"github.com/tmarenko/mff-auto-sub000/internal/constants"
	"github.com/tmarenko/mff-auto-sub000/internal/game"
	"github.com/tmarenko/mff-auto-sub000/internal/ui"
)

// AutoBattle leaves the fighting to the game's autoplay.
type AutoBattle struct {
	sup           *supervisor
	autoplayReady bool
}

// NewAutoBattle creates an auto fight; nil conditions select the defaults.
func NewAutoBattle(g *game.Game, over, disconnect []Condition) *AutoBattle {
	return &AutoBattle{sup: newSupervisor(g, over, disconnect, "auto-battle")}
}

// Fight runs until the battle is over.
func (a *AutoBattle) Fight(ctx context.Context) (Result, error) {
	a.sup.log.Info("Starting auto battle")
	return a.sup.run(ctx, a.act)
}

func (a *AutoBattle) act(ctx context.Context) error {
	if !a.autoplayReady {
		a.ensureAutoplay()
		a.autoplayReady = true
	}
	a.sup.g.Sleep(constants.BattleIdleSleep)
	return nil
}

// ensureAutoplay turns the toggle on if its active image is not shown.
func (a *AutoBattle) ensureAutoplay() {
	g := a.sup.g
	toggle := g.Element(ui.BattleAutoplayToggle)
	if g.IsImageOnScreen(toggle) {
		return
	}
	a.sup.log.Info("Enabling autoplay")
	if err := g.Click(toggle); err != nil {
		a.sup.log.Error("enable autoplay: %v", err)
	}
}

// WaitUntilShifterAppeared polls the shifter banners until one shows up, the pre-battle window
// passes or ctx ends.
func WaitUntilShifterAppeared(ctx context.Context, g *game.Game, window time.Duration) bool {
	banners := []string{ui.AllyShifter, ui.EnemyShifter, ui.AllyShifterWide, ui.EnemyShifterWide}
	deadline := g.Clock().Now().Add(window)
	for ctx.Err() == nil && g.Clock().Now().Before(deadline) {
		for _, name := range banners {
			if g.IsTextOnScreen(g.Element(name)) {
				g.Log().Info("Shifter appeared: %s", name)
				return true
			}
		}
		g.Sleep(constants.ShifterPollInterval)
	}
	return false
}
