package game

import (
	"github.com/tmarenko/mff-auto-sub000/internal/constants"
	"github.com/tmarenko/mff-auto-sub000/internal/ui"
)

// LoadingCircleGuard waits while the orange loading spinner is on screen.
type LoadingCircleGuard struct{}

func (LoadingCircleGuard) Name() string { return "loading circle" }

func (LoadingCircleGuard) Before(g *Game) {
	el := g.Element(ui.LoadingCircle)
	deadline := g.clock.Now().Add(constants.LoadingCircleTimeout)
	for g.IsOnScreen(el) {
		if !g.clock.Now().Before(deadline) {
			g.log.Warn("Loading circle still visible after %s", constants.LoadingCircleTimeout)
			return
		}
		g.log.Debug("Loading circle on screen, waiting")
		g.clock.Sleep(constants.LoadingCircleRetry)
	}
}

// NetworkErrorGuard dismisses the network error modals before the call goes through.
type NetworkErrorGuard struct{}

func (NetworkErrorGuard) Name() string { return "network error" }

func (NetworkErrorGuard) Before(g *Game) {
	for _, name := range []string{ui.NetworkError, ui.NetworkErrorReconnect} {
		el := g.Element(name)
		if !g.IsTextOnScreen(el) {
			continue
		}
		g.log.Info("Dismissing %s", name)
		if err := g.Click(el); err != nil {
			g.log.Error("dismiss %s: %v", name, err)
		}
	}
}

// DefaultGuards returns the loading circle guard, plus the network error guard when enabled.
func DefaultGuards(networkGuard bool) []Guard {
	gs := []Guard{LoadingCircleGuard{}}
	if networkGuard {
		gs = append(gs, NetworkErrorGuard{})
	}
	return gs
}
