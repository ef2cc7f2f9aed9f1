package game

import (
	"context"
	"fmt"
	"time"

	"github.com/tmarenko/mff-auto-sub000/internal/constants"
	"github.com/tmarenko/mff-auto-sub000/internal/geom"
	"github.com/tmarenko/mff-auto-sub000/internal/ui"
)

// Click clicks the element with the default human-like pauses.
func (g *Game) Click(el ui.Element) error {
	return g.ClickWithDelay(el, constants.ClickMinDelay, constants.ClickMaxDelay)
}

// ClickWithDelay sleeps a random duration in [minDelay, maxDelay] before the click and twice that after.
func (g *Game) ClickWithDelay(el ui.Element, minDelay, maxDelay time.Duration) error {
	g.runGuards()
	rect, bare := el.ClickRect()
	if rect.IsZero() {
		return fmt.Errorf("click %s: element has no clickable rect", el.Name)
	}
	if bare {
		rect = rect.Padded(constants.ButtonPadding)
	}
	x, y, err := g.point(rect)
	if err != nil {
		return fmt.Errorf("click %s: %w", el.Name, err)
	}

	pause := minDelay
	if maxDelay > minDelay {
		pause += time.Duration(g.rng.Int64N(int64(maxDelay - minDelay)))
	}
	g.clock.Sleep(pause)
	g.log.Info("Click %s", el.Name)
	if err := g.win.Click(x, y); err != nil {
		return fmt.Errorf("click %s: %w", el.Name, err)
	}
	g.clock.Sleep(2 * pause)
	return nil
}

// ClickQuick posts a click with a fixed pause afterwards and no pause before; used for rapid casts.
func (g *Game) ClickQuick(el ui.Element, after time.Duration) error {
	rect, bare := el.ClickRect()
	if rect.IsZero() {
		return fmt.Errorf("click %s: element has no clickable rect", el.Name)
	}
	if bare {
		rect = rect.Padded(constants.ButtonPadding)
	}
	x, y, err := g.point(rect)
	if err != nil {
		return fmt.Errorf("click %s: %w", el.Name, err)
	}
	g.log.Debug("Quick click %s", el.Name)
	if err := g.win.Click(x, y); err != nil {
		return fmt.Errorf("click %s: %w", el.Name, err)
	}
	g.clock.Sleep(after)
	return nil
}

// point draws a jittered pixel inside rect.
func (g *Game) point(rect geom.Rect) (int, int, error) {
	w, h, err := g.win.Size()
	if err != nil {
		return 0, 0, err
	}
	x, y := rect.RandomPoint(g.rng, constants.ClickSigmaDiv)
	return int(x * float64(w)), int(y * float64(h)), nil
}

// Drag drags from one element to another with the default duration and step count.
func (g *Game) Drag(from, to ui.Element) error {
	return g.DragWith(from, to, constants.DragDuration, constants.DragSteps)
}

// DragWith drags between jittered points of two elements.
func (g *Game) DragWith(from, to ui.Element, duration time.Duration, steps int) error {
	g.runGuards()
	fr, _ := from.ClickRect()
	tr, _ := to.ClickRect()
	x1, y1, err := g.point(fr)
	if err != nil {
		return fmt.Errorf("drag %s: %w", from.Name, err)
	}
	x2, y2, err := g.point(tr)
	if err != nil {
		return fmt.Errorf("drag %s: %w", to.Name, err)
	}
	g.log.Debug("Drag %s -> %s", from.Name, to.Name)
	return g.win.Drag(x1, y1, x2, y2, duration, steps)
}

// PressKey presses a key on the emulator's key handler window.
func (g *Game) PressKey(name string, system bool) error {
	g.runGuards()
	g.log.Info("Press %s", name)
	return g.win.PressKey(name, system)
}

// WaitUntil polls pred every period until it holds, the timeout elapses or ctx is cancelled.
func (g *Game) WaitUntil(ctx context.Context, timeout, period time.Duration, pred func() bool) bool {
	deadline := g.clock.Now().Add(timeout)
	for {
		if pred() {
			return true
		}
		if ctx.Err() != nil || !g.clock.Now().Before(deadline) {
			return false
		}
		g.clock.Sleep(period)
	}
}

// WaitUntilOnScreen waits for the element with the default polling period.
func (g *Game) WaitUntilOnScreen(ctx context.Context, el ui.Element, timeout time.Duration) bool {
	return g.WaitUntil(ctx, timeout, constants.WaitPollInterval, func() bool { return g.IsOnScreen(el) })
}

func (g *Game) WaitUntilText(ctx context.Context, el ui.Element, timeout time.Duration) bool {
	return g.WaitUntil(ctx, timeout, constants.WaitPollInterval, func() bool { return g.IsTextOnScreen(el) })
}

func (g *Game) WaitUntilImage(ctx context.Context, el ui.Element, timeout time.Duration) bool {
	return g.WaitUntil(ctx, timeout, constants.WaitPollInterval, func() bool { return g.IsImageOnScreen(el) })
}

// ClickUntilGone clicks el until it disappears, at most attempts times.
func (g *Game) ClickUntilGone(ctx context.Context, el ui.Element, attempts int) bool {
	for i := 0; i < attempts; i++ {
		if ctx.Err() != nil {
			return false
		}
		if !g.IsOnScreen(el) {
			return true
		}
		if err := g.Click(el); err != nil {
			g.log.Warn("click %s: %v", el.Name, err)
			return false
		}
	}
	return !g.IsOnScreen(el)
}

// ClickWhenVisible waits for el and clicks it.
func (g *Game) ClickWhenVisible(ctx context.Context, el ui.Element, timeout time.Duration) bool {
	if !g.WaitUntilOnScreen(ctx, el, timeout) {
		return false
	}
	return g.Click(el) == nil
}
