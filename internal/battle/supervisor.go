// Package battle runs a fight from the first frame to the score screen, either leaving the
// game's autoplay on or casting skills itself.
package battle

import (
	"context"
	"errors"
	"fmt"

	"github.com/tmarenko/mff-auto-sub000/internal/constants"
	"github.com/tmarenko/mff-auto-sub000/internal/game"
	"github.com/tmarenko/mff-auto-sub000/internal/logger"
	"github.com/tmarenko/mff-auto-sub000/internal/ui"
	"github.com/tmarenko/mff-auto-sub000/internal/window"
)

var ErrCancelled = errors.New("battle cancelled")

// Condition is a named predicate over the current frame.
type Condition struct {
	Name  string
	Check func(g *game.Game) bool
}

// OnScreen is a condition that holds while the named element is visible.
func OnScreen(name string) Condition {
	return Condition{Name: name, Check: func(g *game.Game) bool {
		return g.IsOnScreen(g.Element(name))
	}}
}

// DefaultOverConditions cover the score screen, the respawn prompt and the repeat/home buttons.
func DefaultOverConditions() []Condition {
	return []Condition{
		OnScreen(ui.BattleMissionComplete),
		OnScreen(ui.HomeButton),
		OnScreen(ui.RepeatButton),
		OnScreen(ui.BattleRespawn),
	}
}

// DefaultDisconnectConditions cover the co-op disconnect modal.
func DefaultDisconnectConditions() []Condition {
	return []Condition{OnScreen(ui.BattleDisconnected)}
}

// Result is what a finished fight reports to its sequencer.
type Result struct {
	Disconnected  bool
	InventoryFull bool
	Ticks         int
}

// supervisor is the loop shared by both variants.
type supervisor struct {
	g          *game.Game
	log        *logger.AppLogger
	over       []Condition
	disconnect []Condition
	cutscenes  []ui.Element

	disconnected bool
	confirmed    int
}

func newSupervisor(g *game.Game, over, disconnect []Condition, component string) *supervisor {
	if over == nil {
		over = DefaultOverConditions()
	}
	if disconnect == nil {
		disconnect = DefaultDisconnectConditions()
	}
	tap := g.Element(ui.TapTheScreen)
	return &supervisor{
		g:          g,
		log:        g.Log().With(component),
		over:       over,
		disconnect: disconnect,
		cutscenes: []ui.Element{
			g.Element(ui.SkipCutscene),
			tap.WithTextThreshold(tap.TextThreshold - constants.CutsceneThresholdShift),
			tap.WithTextThreshold(tap.TextThreshold + constants.CutsceneThresholdShift),
			g.Element(ui.FrostBeastIntro),
		},
	}
}

// isBattle holds while the melee button is visible and no one is still loading.
func (s *supervisor) isBattle() bool {
	return s.g.IsImageOnScreen(s.g.Element(ui.BattleMelee)) &&
		!s.g.IsTextOnScreen(s.g.Element(ui.BattleWaitingForPlayers))
}

func (s *supervisor) checkDisconnect() bool {
	if s.disconnected {
		return true
	}
	for _, c := range s.disconnect {
		if c.Check(s.g) {
			s.log.Warn("Disconnected: %s", c.Name)
			s.disconnected = true
			return true
		}
	}
	return false
}

func (s *supervisor) anyOver() (string, bool) {
	for _, c := range s.over {
		if c.Check(s.g) {
			return c.Name, true
		}
	}
	return "", false
}

// confirmOver needs several consecutive positive checks spaced apart before the fight counts as over.
func (s *supervisor) confirmOver() bool {
	name, ok := s.anyOver()
	if !ok {
		s.confirmed = 0
		return false
	}
	s.confirmed++
	s.log.Debug("Battle over condition %s (%d/%d)", name, s.confirmed, constants.BattleOverConfirmCount)
	if s.confirmed >= constants.BattleOverConfirmCount {
		return true
	}
	s.g.Sleep(constants.BattleOverConfirmGap)
	return false
}

// skipCutscene clicks the first cutscene overlay that is visible.
func (s *supervisor) skipCutscene() bool {
	for _, el := range s.cutscenes {
		if s.g.IsTextOnScreen(el) {
			s.log.Debug("Skipping cutscene via %s", el.Name)
			if err := s.g.Click(el); err != nil {
				s.log.Error("skip cutscene: %v", err)
			}
			return true
		}
	}
	return false
}

// run drives the loop until the fight is over, a disconnect latches or ctx is cancelled.
// act is called once per tick while the player controls a character.
func (s *supervisor) run(ctx context.Context, act func(ctx context.Context) error) (Result, error) {
	var res Result
	for {
		if err := ctx.Err(); err != nil {
			return res, fmt.Errorf("%w: %v", ErrCancelled, err)
		}
		if !s.g.Window().Initialized() {
			return res, window.ErrNoFrame
		}
		res.Ticks++
		if s.checkDisconnect() {
			break
		}
		if s.isBattle() {
			s.confirmed = 0
			if err := act(ctx); err != nil {
				return res, err
			}
			continue
		}
		if s.skipCutscene() {
			s.confirmed = 0
			continue
		}
		if s.confirmOver() {
			break
		}
		s.g.Sleep(constants.BattleIdleSleep)
	}

	s.g.Sleep(constants.BattleAnimationTail)
	res.Disconnected = s.disconnected
	if s.g.IsTextOnScreen(s.g.Element(ui.InventoryFull)) {
		s.log.Warn("Inventory is full")
		res.InventoryFull = true
	}
	s.log.Info("Battle finished after %d ticks (disconnected=%v)", res.Ticks, res.Disconnected)
	return res, nil
}
