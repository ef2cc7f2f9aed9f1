package fight

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tmarenko/mff-auto-sub000/internal/battle"
	"github.com/tmarenko/mff-auto-sub000/internal/game/gametest"
	"github.com/tmarenko/mff-auto-sub000/internal/logger"
	"github.com/tmarenko/mff-auto-sub000/internal/ui"
)

type statuses struct {
	mu    sync.Mutex
	lines []string
}

func (s *statuses) set(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = append(s.lines, msg)
}

func (s *statuses) last() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lines[len(s.lines)-1]
}

func TestSession_FightEndsOnMissionComplete(t *testing.T) {
	h := gametest.New()
	h.SetText(ui.BattleMissionComplete, "MISSION COMPLETE")
	st := &statuses{}
	s := NewSession(h.Game, logger.Nop(), st.set)

	require.True(t, s.Start(Settings{}))
	s.Wait()

	res, err := s.Last()
	require.NoError(t, err)
	assert.False(t, res.Disconnected)
	assert.False(t, s.Running())
	assert.Contains(t, st.last(), "Status: Finished")
}

func TestSession_StopCancels(t *testing.T) {
	h := gametest.New()
	st := &statuses{}
	s := NewSession(h.Game, logger.Nop(), st.set)

	require.True(t, s.Start(Settings{Manual: true, MoveAround: true}))
	assert.False(t, s.Start(Settings{}), "one fight at a time")
	require.Eventually(t, func() bool { return h.OCR.Calls(ui.BattleMissionComplete) > 0 }, time.Second, time.Millisecond)

	s.Stop()
	_, err := s.Last()
	assert.ErrorIs(t, err, battle.ErrCancelled)
	assert.Equal(t, "Status: Stopped", st.last())
	assert.False(t, s.Running())
}
