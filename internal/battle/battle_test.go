package battle

import (
	"context"
	"image"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tmarenko/mff-auto-sub000/internal/constants"
	"github.com/tmarenko/mff-auto-sub000/internal/game"
	"github.com/tmarenko/mff-auto-sub000/internal/game/gametest"
	"github.com/tmarenko/mff-auto-sub000/internal/ui"
	"github.com/tmarenko/mff-auto-sub000/internal/window/windowtest"
)

func paint(h *gametest.Harness, name string, seed uint64) {
	el := h.Catalogue.MustGet(name)
	h.Paint(el.ImageRect, gametest.Pattern(96, 96, seed))
}

// fullBar paints five ready base slots with their labels plus slot 6.
func fullBar(h *gametest.Harness) {
	for i := 1; i <= 5; i++ {
		paint(h, ui.Skill(i), uint64(i))
	}
	paint(h, ui.SkillT3, 6)
	h.Show(ui.SkillLabel(4))
	h.Show(ui.SkillLabel(5))
}

// coolingBase leaves slots 1 to 3 on cooldown so only the slot under test can be cast.
func coolingBase(h *gametest.Harness) {
	for i := 1; i <= 3; i++ {
		h.SetText(ui.Skill(i), "5")
	}
}

// endAfter finishes the fight once the waiting-for-players check ran n times.
func endAfter(h *gametest.Harness, n int) {
	h.OCR.OnCall(ui.BattleWaitingForPlayers, func(call int) {
		if call == n {
			h.Hide(ui.BattleMelee)
			h.SetText(ui.BattleMissionComplete, "MISSION COMPLETE")
		}
	})
}

func TestManualBattle_PriorityOrder(t *testing.T) {
	h := gametest.New()
	fullBar(h)
	h.SetText(ui.SkillT3, "100%")

	m := NewManualBattle(h.Game, nil, nil)
	m.discover()
	require.Equal(t, Unlocked, m.tier3.lock)
	require.Equal(t, Locked, m.awakening.lock)

	want := []*Skill{m.tier3, m.base[4], m.base[3], m.base[2], m.base[1], m.base[0]}
	for _, s := range want {
		got := m.nextSkill()
		require.NotNil(t, got)
		assert.Same(t, s, got, "expected %s, got %s", s, got)
		s.setLock(Locked)
	}
	assert.Nil(t, m.nextSkill())
}

func TestManualBattle_CachedSkillFirst(t *testing.T) {
	h := gametest.New()
	fullBar(h)
	h.SetText(ui.SkillT3, "100%")

	m := NewManualBattle(h.Game, nil, nil)
	m.discover()
	m.cached = m.base[0]
	assert.Same(t, m.base[0], m.nextSkill())
	assert.Same(t, m.tier3, m.nextSkill(), "cache is consumed")
}

func TestManualBattle_CachedBeatsUltimate(t *testing.T) {
	h := gametest.New()
	fullBar(h)
	h.SetText(ui.SkillT3, "100%")
	paint(h, ui.SkillCoop, 9)
	h.SetText(ui.SkillCoopLabel, "CO-OP")

	m := NewManualBattle(h.Game, nil, nil)
	m.discover()
	require.NotNil(t, m.bonus)
	require.True(t, m.tier3.HasReady())

	m.cached = m.bonus
	assert.Same(t, m.bonus, m.nextSkill(), "cached bonus goes before T3")
	assert.Nil(t, m.cached)
	assert.Same(t, m.tier3, m.nextSkill())
}

func TestManualBattle_BonusWaitsForCooldown(t *testing.T) {
	h := gametest.New()
	coolingBase(h)
	paint(h, ui.BattleCharacterPortrait, 101)
	paint(h, ui.SkillCoop, 9)
	h.SetText(ui.SkillCoopLabel, "CO-OP")
	h.SetText(ui.SkillCoop, "25")

	m := NewManualBattle(h.Game, nil, nil)
	for i := 0; i < 5; i++ {
		require.NoError(t, m.act(context.Background()))
	}
	require.NotNil(t, m.bonus)
	assert.False(t, m.bonus.HasReady())
	assert.Greater(t, h.OCR.Calls(ui.SkillCoop), 5, "cooldown readout tracked every tick")
	assert.Zero(t, h.ClicksOn(ui.SkillCoop))

	h.SetText(ui.SkillCoop, "")
	for i := 1; i < constants.CooldownRepetitions; i++ {
		require.NoError(t, m.act(context.Background()))
		assert.Zero(t, h.ClicksOn(ui.SkillCoop), "readout cleared %d times", i)
	}
	require.NoError(t, m.act(context.Background()))
	assert.Equal(t, len(constants.CastClickDelays), h.ClicksOn(ui.SkillCoop))
}

func TestManualBattle_AwakeningWaitsForCooldown(t *testing.T) {
	h := gametest.New()
	coolingBase(h)
	paint(h, ui.SkillAwakening, 6)
	h.Show(ui.SkillAwakeningLabel)
	h.SetText(ui.SkillAwakening, "40")

	m := NewManualBattle(h.Game, nil, nil)
	m.discover()
	require.Equal(t, Unlocked, m.awakening.lock)
	assert.False(t, m.awakening.HasReady(), "cooldown digits are not a ready image")

	for i := 0; i < 5; i++ {
		assert.Nil(t, m.nextSkill())
	}
	h.SetText(ui.SkillAwakening, "")
	for i := 1; i < constants.CooldownRepetitions; i++ {
		assert.Nil(t, m.nextSkill())
	}
	assert.Same(t, m.awakening, m.nextSkill())
	assert.True(t, m.awakening.HasReady())
}

func TestManualBattle_ClassifySlot6(t *testing.T) {
	tests := []struct {
		name      string
		readout   string
		label     bool
		tier3     Lock
		awakening Lock
	}{
		{"charge percentage", "12.5%", false, Unlocked, Locked},
		{"cast prompt with label", "CAST", true, Locked, Unlocked},
		{"empty with label", "", true, Locked, Unlocked},
		{"nothing", "", false, Locked, Locked},
		{"both prefer tier3", "45%", true, Unlocked, Locked},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := gametest.New()
			h.SetText(ui.SkillT3, tt.readout)
			if tt.label {
				h.Show(ui.SkillAwakeningLabel)
			}
			m := NewManualBattle(h.Game, nil, nil)
			m.classifySlot6()
			assert.Equal(t, tt.tier3, m.tier3.lock)
			assert.Equal(t, tt.awakening, m.awakening.lock)
		})
	}
}

func TestManualBattle_DiscoverInterruptedLoading(t *testing.T) {
	h := gametest.New()
	fullBar(h)
	h.Hide(ui.SkillLabel(4))

	m := NewManualBattle(h.Game, nil, nil)
	m.discover()
	assert.True(t, m.base[3].Locked())
	assert.False(t, m.base[4].Locked())
	assert.Nil(t, m.character, "slot 4 locked under unlocked slot 5 forces rediscovery")
	assert.Equal(t, 1, m.discoveries)
}

func TestManualBattle_BonusKeptForFight(t *testing.T) {
	h := gametest.New()
	paint(h, ui.SkillCoop, 9)
	h.SetText(ui.SkillCoopLabel, "CO-OP")

	m := NewManualBattle(h.Game, nil, nil)
	m.discover()
	require.NotNil(t, m.bonus)
	assert.Equal(t, KindCoop, m.bonus.Kind)
	assert.True(t, m.bonus.HasReady())

	h.SetText(ui.SkillCoopLabel, "")
	h.SetText(ui.SkillDangerRoomLabel, "DANGER ROOM")
	m.reset()
	m.discover()
	assert.Equal(t, KindCoop, m.bonus.Kind)
}

func TestManualBattle_CastWaitsMinimum(t *testing.T) {
	h := gametest.New()
	fullBar(h)
	h.OnClick(ui.Skill(5), func() { paint(h, ui.Skill(5), 55) })

	m := NewManualBattle(h.Game, nil, nil)
	m.discover()
	s := m.nextSkill()
	require.Same(t, m.base[4], s)

	start := h.Clock.Now()
	assert.True(t, m.cast(s))
	assert.Equal(t, 3, h.ClicksOn(ui.Skill(5)))
	assert.GreaterOrEqual(t, h.Clock.Now().Sub(start), constants.CastMinSlot5)
}

func TestManualBattle_BusySkillSkippedNextTick(t *testing.T) {
	h := gametest.New()
	fullBar(h)

	m := NewManualBattle(h.Game, nil, nil)
	require.NoError(t, m.act(context.Background()))
	assert.Equal(t, 3, h.ClicksOn(ui.Skill(5)), "slot never cleared")
	assert.Same(t, m.base[4], m.busy)

	assert.Same(t, m.base[3], m.nextSkill())
	assert.Same(t, m.base[4], m.nextSkill(), "busy lasts one tick")
}

func TestManualBattle_RearmsUltimateAfterCast(t *testing.T) {
	h := gametest.New()
	fullBar(h)
	h.SetText(ui.SkillT3, "100%")

	m := NewManualBattle(h.Game, nil, nil)
	m.discover()
	require.True(t, m.tier3.HasReady())

	// ultimate drained by an earlier cast
	paint(h, ui.SkillT3, 66)
	h.SetText(ui.SkillT3, "45%")
	h.OnClick(ui.Skill(5), func() {
		paint(h, ui.Skill(5), 55)
		paint(h, ui.SkillT3, 77)
		h.SetText(ui.SkillT3, "100%")
	})

	s := m.nextSkill()
	require.Same(t, m.base[4], s)
	require.True(t, m.cast(s))
	m.afterCast(s)
	assert.Same(t, m.tier3, m.cached)
	assert.Same(t, m.tier3, m.nextSkill())
}

func TestManualBattle_MoveAroundCycles(t *testing.T) {
	h := gametest.New()
	m := NewManualBattle(h.Game, nil, nil)
	for i := 0; i < 5; i++ {
		m.move()
	}

	var ups []image.Point
	for _, ev := range h.Backend.Events() {
		if ev.Kind == windowtest.MouseUp {
			ups = append(ups, image.Pt(ev.X, ev.Y))
		}
	}
	require.Len(t, ups, 5)
	targets := []string{ui.MoveDown, ui.MoveLeft, ui.MoveUp, ui.MoveRight, ui.MoveDown}
	for i, name := range targets {
		px := h.Catalogue.MustGet(name).ButtonRect.Pixels(gametest.Width, gametest.Height).Inset(-2)
		assert.True(t, ups[i].In(px), "drag %d should end on %s, got %v", i, name, ups[i])
	}
	assert.Zero(t, h.TotalClicks())
}

func TestManualBattle_CharacterSwap(t *testing.T) {
	h := gametest.New()
	h.Show(ui.BattleMelee)
	paint(h, ui.BattleCharacterPortrait, 101)
	coolingBase(h)
	h.OCR.OnCall(ui.BattleWaitingForPlayers, func(call int) {
		if call == 20 {
			paint(h, ui.BattleCharacterPortrait, 202)
		}
	})
	endAfter(h, 30)

	m := NewManualBattle(h.Game, nil, nil)
	res, err := m.Fight(context.Background(), false)
	require.NoError(t, err)
	assert.False(t, res.Disconnected)
	assert.Equal(t, 2, m.discoveries)
	require.NotNil(t, m.character)
	portrait := h.Game.Element(ui.BattleCharacterPortrait)
	assert.True(t, h.Game.IsImageOnScreen(portrait.WithImage(m.character)), "new portrait captured")
	assert.Zero(t, h.TotalClicks())
}

func TestAutoBattle_SkipsCutscenesAndEnablesAutoplay(t *testing.T) {
	h := gametest.New()
	h.SetText(ui.SkipCutscene, "SKIP")
	skips := 0
	h.OnClick(ui.SkipCutscene, func() {
		skips++
		if skips == 3 {
			h.SetText(ui.SkipCutscene, "")
			h.Show(ui.BattleMelee)
		}
	})
	h.OnClick(ui.BattleAutoplayToggle, func() { h.Show(ui.BattleAutoplayToggle) })
	endAfter(h, 11)

	res, err := NewAutoBattle(h.Game, nil, nil).Fight(context.Background())
	require.NoError(t, err)
	assert.False(t, res.Disconnected)
	assert.False(t, res.InventoryFull)
	assert.Equal(t, 3, h.ClicksOn(ui.SkipCutscene))
	assert.Equal(t, 1, h.ClicksOn(ui.BattleAutoplayToggle))
	assert.Equal(t, 4, h.TotalClicks())
	assert.Equal(t, 11, h.OCR.Calls(ui.BattleWaitingForPlayers))
}

func TestAutoBattle_AutoplayAlreadyOn(t *testing.T) {
	h := gametest.New()
	h.Show(ui.BattleMelee)
	h.Show(ui.BattleAutoplayToggle)
	endAfter(h, 3)

	_, err := NewAutoBattle(h.Game, nil, nil).Fight(context.Background())
	require.NoError(t, err)
	assert.Zero(t, h.TotalClicks())
}

func TestBattle_DisconnectExitsNextTick(t *testing.T) {
	h := gametest.New()
	h.Show(ui.BattleMelee)
	h.Show(ui.BattleAutoplayToggle)
	h.OCR.OnCall(ui.BattleWaitingForPlayers, func(call int) {
		if call == 5 {
			h.SetText(ui.BattleDisconnected, "DISCONNECTED")
		}
	})

	res, err := NewAutoBattle(h.Game, nil, nil).Fight(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Disconnected)
	assert.Equal(t, 6, res.Ticks)
	assert.Equal(t, 5, h.OCR.Calls(ui.BattleWaitingForPlayers), "melee still visible but no further battle tick")
}

func TestSupervisor_DisconnectLatches(t *testing.T) {
	h := gametest.New()
	s := newSupervisor(h.Game, nil, nil, "test")
	assert.False(t, s.checkDisconnect())

	h.SetText(ui.BattleDisconnected, "DISCONNECTED")
	assert.True(t, s.checkDisconnect())
	h.SetText(ui.BattleDisconnected, "")
	assert.True(t, s.checkDisconnect())
}

func TestSupervisor_OverNeedsConfirmation(t *testing.T) {
	h := gametest.New()
	s := newSupervisor(h.Game, nil, nil, "test")
	h.SetText(ui.BattleMissionComplete, "MISSION COMPLETE")

	assert.False(t, s.confirmOver())
	assert.False(t, s.confirmOver())
	h.SetText(ui.BattleMissionComplete, "")
	assert.False(t, s.confirmOver(), "flicker resets the count")
	h.SetText(ui.BattleMissionComplete, "MISSION COMPLETE")
	assert.False(t, s.confirmOver())
	assert.False(t, s.confirmOver())
	assert.True(t, s.confirmOver())
}

func TestBattle_InventoryFull(t *testing.T) {
	h := gametest.New()
	h.SetText(ui.BattleMissionComplete, "MISSION COMPLETE")
	h.SetText(ui.InventoryFull, "INVENTORY FULL")

	res, err := NewAutoBattle(h.Game, nil, nil).Fight(context.Background())
	require.NoError(t, err)
	assert.True(t, res.InventoryFull)
	assert.Equal(t, constants.BattleOverConfirmCount, res.Ticks)
}

func TestBattle_Cancelled(t *testing.T) {
	h := gametest.New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewAutoBattle(h.Game, nil, nil).Fight(ctx)
	assert.ErrorIs(t, err, ErrCancelled)
}

func TestBattle_CustomOverCondition(t *testing.T) {
	h := gametest.New()
	over := []Condition{{Name: "always", Check: func(*game.Game) bool { return true }}}

	res, err := NewAutoBattle(h.Game, over, nil).Fight(context.Background())
	require.NoError(t, err)
	assert.Equal(t, constants.BattleOverConfirmCount, res.Ticks)
	assert.Zero(t, h.OCR.Calls(ui.BattleMissionComplete))
}

func TestWaitUntilShifterAppeared(t *testing.T) {
	h := gametest.New()
	start := h.Clock.Now()
	assert.False(t, WaitUntilShifterAppeared(context.Background(), h.Game, 5*time.Second))
	assert.GreaterOrEqual(t, h.Clock.Now().Sub(start), 5*time.Second)

	h.SetText(ui.EnemyShifterWide, "ENEMY SHIFTER APPEARED")
	assert.True(t, WaitUntilShifterAppeared(context.Background(), h.Game, 5*time.Second))
}
