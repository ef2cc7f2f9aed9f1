package mission

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/tmarenko/mff-auto-sub000/internal/battle"
	"github.com/tmarenko/mff-auto-sub000/internal/constants"
	"github.com/tmarenko/mff-auto-sub000/internal/game"
	"github.com/tmarenko/mff-auto-sub000/internal/logger"
	"github.com/tmarenko/mff-auto-sub000/internal/notifications"
	"github.com/tmarenko/mff-auto-sub000/internal/ui"
)

// FightFunc plays one stage from the moment the team is sent in.
type FightFunc func(ctx context.Context, def Definition, opts Options) (battle.Result, error)

// Report sums up one run of a mode.
type Report struct {
	Mode          string
	Completed     int
	Remaining     int
	InventoryFull bool
	Disconnected  bool
	Shifters      int
}

// Sequencer runs modes: board, lobby, stages, repeat or home.
type Sequencer struct {
	g      *game.Game
	board  *ContentStatusBoard
	closer *notifications.Closer
	fight  FightFunc
	log    *logger.AppLogger
}

type SequencerOption func(*Sequencer)

// WithFight replaces the battle controller.
func WithFight(f FightFunc) SequencerOption { return func(s *Sequencer) { s.fight = f } }

func NewSequencer(g *game.Game, closer *notifications.Closer, opts ...SequencerOption) *Sequencer {
	s := &Sequencer{
		g:      g,
		board:  NewContentStatusBoard(g),
		closer: closer,
		log:    g.Log().With("mission"),
	}
	s.fight = s.defaultFight
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Sequencer) defaultFight(ctx context.Context, def Definition, opts Options) (battle.Result, error) {
	if opts.Manual {
		return battle.NewManualBattle(s.g, def.OverConditions(), nil).Fight(ctx, opts.MoveAround)
	}
	return battle.NewAutoBattle(s.g, def.OverConditions(), nil).Fight(ctx)
}

// Run plays the mode's remaining stages, or opts.Times of them, and returns to the main menu.
func (s *Sequencer) Run(ctx context.Context, def Definition, opts Options) (Report, error) {
	rep := Report{Mode: def.Name}
	if err := s.GoToMainMenu(ctx); err != nil {
		return rep, err
	}
	mode, err := s.board.Find(ctx, def.Name)
	if err != nil {
		return rep, err
	}
	stages := mode.Stages
	if opts.Times > 0 && opts.Times < stages {
		stages = opts.Times
	}
	rep.Remaining = stages
	if stages == 0 {
		s.log.Info("%s: no stages left", def.Name)
		return rep, nil
	}
	s.log.Info("%s: playing %d of %d/%d stages", def.Name, stages, mode.Stages, mode.MaxStages)

	if err := s.openLobby(ctx, def, mode, opts); err != nil {
		return rep, err
	}
	if err := s.start(ctx); err != nil {
		return rep, err
	}

	bio := opts.BioFarming
	if bio && !def.Shifter {
		s.log.Warn("%s has no shifters, ignoring bio farming", def.Name)
		bio = false
	}
	for {
		if bio && battle.WaitUntilShifterAppeared(ctx, s.g, constants.ShifterWaitWindow) {
			rep.Shifters++
		}
		res, err := s.fight(ctx, def, opts)
		if err != nil {
			return rep, err
		}
		stages--
		rep.Completed++
		rep.Remaining = stages

		if res.InventoryFull {
			rep.InventoryFull, rep.Remaining = true, 0
			s.log.Warn("%s: inventory is full, leaving", def.Name)
			if err := s.g.Click(s.g.Element(ui.InventoryFull)); err != nil {
				s.log.Error("dismiss inventory full: %v", err)
			}
			return rep, s.GoToMainMenu(ctx)
		}
		if res.Disconnected {
			rep.Disconnected = true
			s.log.Warn("%s: disconnected after %d stages", def.Name, rep.Completed)
			return rep, s.GoToMainMenu(ctx)
		}

		s.closer.CloseMissionNotifications(ctx, constants.NotificationsShortBudget)
		if stages == 0 {
			break
		}
		if err := s.repeat(ctx); err != nil {
			return rep, err
		}
	}

	s.log.Info("%s: %d stages done", def.Name, rep.Completed)
	if err := s.home(ctx); err != nil {
		return rep, err
	}
	return rep, s.GoToMainMenu(ctx)
}

func (s *Sequencer) openLobby(ctx context.Context, def Definition, mode GameMode, opts Options) error {
	if err := s.board.Select(mode); err != nil {
		return err
	}
	if def.StageEntry != "" {
		if err := s.g.Click(s.g.Element(def.StageEntry)); err != nil {
			return err
		}
	}
	if def.Selector != nil && opts.Level > 0 {
		return s.SetStageLevel(ctx, *def.Selector, opts.Level)
	}
	return nil
}

// start presses Start in the lobby and again on team selection.
func (s *Sequencer) start(ctx context.Context) error {
	if !s.g.ClickWhenVisible(ctx, s.g.Element(ui.LobbyStart), constants.LongWaitTimeout) {
		return fmt.Errorf("lobby start: %w", ErrStuck)
	}
	if !s.g.ClickWhenVisible(ctx, s.g.Element(ui.TeamSelectStart), constants.LongWaitTimeout) {
		return fmt.Errorf("team select start: %w", ErrStuck)
	}
	return nil
}

func (s *Sequencer) repeat(ctx context.Context) error {
	if !s.g.ClickWhenVisible(ctx, s.g.Element(ui.RepeatButton), constants.LongWaitTimeout) {
		return fmt.Errorf("repeat: %w", ErrStuck)
	}
	// some modes go through team selection again
	team := s.g.Element(ui.TeamSelectStart)
	if s.g.WaitUntilText(ctx, team, constants.DefaultWaitTimeout) {
		return s.g.Click(team)
	}
	return nil
}

func (s *Sequencer) home(ctx context.Context) error {
	if !s.g.ClickWhenVisible(ctx, s.g.Element(ui.HomeButton), constants.LongWaitTimeout) {
		return fmt.Errorf("home: %w", ErrStuck)
	}
	return nil
}

// GoToMainMenu returns to the main menu from any lobby, dismissing whatever pops up on the way.
func (s *Sequencer) GoToMainMenu(ctx context.Context) error {
	label := s.g.Element(ui.MainMenuLabel)
	for i := 0; i < constants.MainMenuAttempts; i++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if s.g.IsTextOnScreen(label) {
			return nil
		}
		s.closer.CloseAfterMissionNotifications(ctx, constants.NotificationsShortBudget)
		if s.g.IsImageOnScreen(s.g.Element(ui.LobbyMenuButton)) {
			if err := s.g.Click(s.g.Element(ui.LobbyHomeButton)); err != nil {
				return err
			}
		}
		if s.g.WaitUntilText(ctx, label, constants.DefaultWaitTimeout) {
			return nil
		}
	}
	return fmt.Errorf("main menu: %w", ErrStuck)
}

// SetStageLevel steps the selector towards target, re-reading the level after every click.
func (s *Sequencer) SetStageLevel(ctx context.Context, sel LevelSelector, target int) error {
	current, err := s.readLevel(sel)
	if err != nil {
		return err
	}
	attempts := abs(target-current) + constants.StageSelectorSlack
	for i := 0; i < attempts && current != target; i++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		button := sel.Plus
		if target < current {
			button = sel.Minus
		}
		if err := s.g.Click(s.g.Element(button)); err != nil {
			return err
		}
		if current, err = s.readLevel(sel); err != nil {
			return err
		}
	}
	if current != target {
		return fmt.Errorf("stage level %d, want %d: %w", current, target, ErrStuck)
	}
	s.log.Info("Stage level set to %d", target)
	return nil
}

func (s *Sequencer) readLevel(sel LevelSelector) (int, error) {
	text := strings.TrimSpace(s.g.GetScreenText(s.g.Element(sel.Level)))
	n, err := strconv.Atoi(text)
	if err != nil {
		return 0, fmt.Errorf("read stage level %q: %w", text, err)
	}
	return n, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
