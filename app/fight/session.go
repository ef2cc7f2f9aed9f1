// Package fight is the Battle tab: run one fight on whatever battle is on screen.
package fight

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/tmarenko/mff-auto-sub000/internal/battle"
	"github.com/tmarenko/mff-auto-sub000/internal/game"
	"github.com/tmarenko/mff-auto-sub000/internal/logger"
)

// Settings pick the battle variant.
type Settings struct {
	Manual     bool
	MoveAround bool
}

// Session runs at most one fight at a time in the background.
type Session struct {
	g          *game.Game
	log        *logger.AppLogger
	statusFunc func(string)

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	last    battle.Result
	lastErr error
}

func NewSession(g *game.Game, log *logger.AppLogger, status func(string)) *Session {
	return &Session{g: g, log: log.With("fight"), statusFunc: status}
}

// Start returns false if a fight is already running.
func (s *Session) Start(set Settings) bool {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return false
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.running = true
	s.cancel = cancel
	s.mu.Unlock()

	s.statusFunc("Status: Fighting")
	s.wg.Add(1)
	go s.loop(ctx, set)
	return true
}

func (s *Session) loop(ctx context.Context, set Settings) {
	defer s.wg.Done()
	var res battle.Result
	var err error
	if set.Manual {
		res, err = battle.NewManualBattle(s.g, nil, nil).Fight(ctx, set.MoveAround)
	} else {
		res, err = battle.NewAutoBattle(s.g, nil, nil).Fight(ctx)
	}

	s.mu.Lock()
	s.cancel()
	s.running = false
	s.last, s.lastErr = res, err
	s.mu.Unlock()

	switch {
	case errors.Is(err, battle.ErrCancelled):
		s.statusFunc("Status: Stopped")
	case err != nil:
		s.log.Error("Fight: %v", err)
		s.statusFunc("Status: Error: " + err.Error())
	case res.Disconnected:
		s.statusFunc("Status: Disconnected")
	default:
		s.statusFunc(fmt.Sprintf("Status: Finished (%d ticks)", res.Ticks))
	}
}

// Stop cancels the fight at the next tick and waits for it.
func (s *Session) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	running := s.running
	s.mu.Unlock()
	if !running {
		return
	}
	cancel()
	s.wg.Wait()
}

func (s *Session) Wait() { s.wg.Wait() }

func (s *Session) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Last returns the result of the most recent fight.
func (s *Session) Last() (battle.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last, s.lastErr
}
