package battle

import (
	"context"
	"image"
	"regexp"

	"github.com/tmarenko/mff-auto-sub000/internal/constants"
	"github.com/tmarenko/mff-auto-sub000/internal/game"
	"github.com/tmarenko/mff-auto-sub000/internal/ui"
)

// tier3Charge matches the charge readout shown over a Tier-3 slot.
var tier3Charge = regexp.MustCompile(`\d\d?\.?\d?\d?%?`)

// ManualBattle casts skills itself.
type ManualBattle struct {
	sup        *supervisor
	moveAround bool

	base      []*Skill // slots 1..5
	tier3     *Skill
	awakening *Skill
	bonuses   []*Skill // co-op, danger room
	bonus     *Skill   // the bonus skill this fight offers, once found

	character   image.Image // portrait signature of the controlled character
	cached      *Skill
	busy        *Skill // skipped for one tick after a cast that did not go off
	moves       int
	discoveries int
}

// NewManualBattle creates a manual fight; nil conditions select the defaults.
func NewManualBattle(g *game.Game, over, disconnect []Condition) *ManualBattle {
	return &ManualBattle{
		sup:       newSupervisor(g, over, disconnect, "manual-battle"),
		base:      baseSkills(),
		tier3:     newSkill(ui.SkillT3, "", 6, KindTier3, constants.CastMinUltimate),
		awakening: newSkill(ui.SkillAwakening, ui.SkillAwakeningLabel, 6, KindAwakening, constants.CastMinUltimate),
		bonuses: []*Skill{
			newSkill(ui.SkillCoop, ui.SkillCoopLabel, 7, KindCoop, constants.CastMinBonus),
			newSkill(ui.SkillDangerRoom, ui.SkillDangerRoomLabel, 7, KindDangerRoom, constants.CastMinBonus),
		},
	}
}

// Fight runs until the battle is over. With moveAround the character walks in a small
// square whenever no skill is available, which baits enemies into range.
func (m *ManualBattle) Fight(ctx context.Context, moveAround bool) (Result, error) {
	m.moveAround = moveAround
	m.sup.log.Info("Starting manual battle (move around: %v)", moveAround)
	return m.sup.run(ctx, m.act)
}

func (m *ManualBattle) g() *game.Game { return m.sup.g }

func (m *ManualBattle) act(ctx context.Context) error {
	g := m.g()
	switch {
	case m.character == nil:
		m.discover()
	case !m.sameCharacter():
		m.sup.log.Info("Character changed, waiting for the swap animation")
		g.Sleep(constants.CharacterSwapWait)
		m.reset()
		m.discover()
	}

	if m.bonus != nil && m.bonus.Available(g) {
		m.cast(m.bonus)
	}

	s := m.nextSkill()
	if s == nil {
		if m.moveAround {
			m.move()
		} else {
			g.Sleep(constants.BattleIdleSleep)
		}
		return nil
	}
	if m.cast(s) {
		m.afterCast(s)
	} else {
		m.busy = s
	}
	return nil
}

func (m *ManualBattle) sameCharacter() bool {
	g := m.g()
	return g.IsImageOnScreen(g.Element(ui.BattleCharacterPortrait).WithImage(m.character))
}

// reset forgets everything learnt about the previous character. The bonus skill stays for the fight.
func (m *ManualBattle) reset() {
	m.character = nil
	m.cached, m.busy = nil, nil
	for _, s := range m.allSkills() {
		if s == m.bonus {
			continue
		}
		s.setLock(LockUnknown)
		s.cooldown.Reset()
	}
}

func (m *ManualBattle) allSkills() []*Skill {
	all := append([]*Skill{m.tier3, m.awakening}, m.base...)
	return append(all, m.bonuses...)
}

// discover captures the portrait and works out which slots the character owns.
func (m *ManualBattle) discover() {
	g := m.g()
	m.discoveries++
	portrait, err := g.CropElement(g.Element(ui.BattleCharacterPortrait))
	if err != nil {
		m.sup.log.Error("capture portrait: %v", err)
		return
	}
	m.character = portrait

	highestUnlocked := 0
	lowestLocked := 0
	for i := len(m.base) - 1; i >= 0; i-- {
		s := m.base[i]
		if s.resolveLock(g) == Locked {
			lowestLocked = s.Slot
			continue
		}
		highestUnlocked = max(highestUnlocked, s.Slot)
		s.checkReady(g)
	}
	m.classifySlot6()
	m.findBonus()

	m.sup.log.Info("Skills discovered: %s", m.describe())
	if lowestLocked > 0 && lowestLocked < highestUnlocked {
		// an animation covered a label while the bar was loading
		m.sup.log.Warn("Slot %d locked below unlocked slot %d, rediscovering", lowestLocked, highestUnlocked)
		m.character = nil
	}
}

// classifySlot6 decides between Tier-3 and Awakening; at most one stays unlocked.
func (m *ManualBattle) classifySlot6() {
	g := m.g()
	readout := g.GetScreenText(g.Element(ui.SkillT3))
	isTier3 := tier3Charge.MatchString(readout)
	hasAwakening := g.IsOnScreen(g.Element(ui.SkillAwakeningLabel))

	switch {
	case isTier3:
		if hasAwakening {
			m.sup.log.Warn("Slot 6 looks like both T3 and awakening, treating it as T3")
		}
		m.tier3.setLock(Unlocked)
		m.awakening.setLock(Locked)
		m.tier3.checkReady(g)
	case hasAwakening:
		m.tier3.setLock(Locked)
		m.awakening.setLock(Unlocked)
		m.awakening.checkReady(g)
	default:
		m.tier3.setLock(Locked)
		m.awakening.setLock(Locked)
	}
}

// ultimate returns whichever slot 6 variant is unlocked.
func (m *ManualBattle) ultimate() *Skill {
	switch {
	case m.tier3.lock == Unlocked:
		return m.tier3
	case m.awakening.lock == Unlocked:
		return m.awakening
	}
	return nil
}

// findBonus picks the first bonus slot whose label is visible; once found it is kept.
func (m *ManualBattle) findBonus() {
	if m.bonus != nil {
		return
	}
	g := m.g()
	for _, s := range m.bonuses {
		if s.resolveLock(g) != Unlocked {
			continue
		}
		m.bonus = s
		s.checkReady(g)
		m.sup.log.Info("Bonus skill: %s", s)
		return
	}
}

// priority is cached, then slot 6, then 5 down to 1.
func (m *ManualBattle) priority() []*Skill {
	order := make([]*Skill, 0, 7)
	if m.cached != nil {
		order = append(order, m.cached)
	}
	if u := m.ultimate(); u != nil && u != m.cached {
		order = append(order, u)
	}
	for i := len(m.base) - 1; i >= 0; i-- {
		if m.base[i] != m.cached {
			order = append(order, m.base[i])
		}
	}
	return order
}

// nextSkill returns the first available skill in priority order.
func (m *ManualBattle) nextSkill() *Skill {
	g := m.g()
	order := m.priority()
	busy := m.busy
	m.cached, m.busy = nil, nil
	for _, s := range order {
		if s == busy || s.Locked() {
			continue
		}
		if s.Available(g) {
			return s
		}
	}
	return nil
}

// cast clicks the slot rapidly and reports whether the ready image went away.
func (m *ManualBattle) cast(s *Skill) bool {
	g := m.g()
	el := g.Element(s.Name)
	start := g.Clock().Now()
	for _, d := range constants.CastClickDelays {
		if err := g.ClickQuick(el, d); err != nil {
			m.sup.log.Error("cast %s: %v", s, err)
			return false
		}
	}
	if s.readyVisible(g) {
		m.sup.log.Debug("%s did not go off", s)
		return false
	}
	m.sup.log.Info("Cast %s", s)
	s.cooldown.Reset()
	if rest := s.CastMin - g.Clock().Now().Sub(start); rest > 0 {
		g.Sleep(rest)
	}
	return true
}

// afterCast re-probes slot 6 and the bonus slot when their ready image vanished, so a
// readiness lost to an overlay is re-armed next tick.
func (m *ManualBattle) afterCast(cast *Skill) {
	g := m.g()
	for _, s := range []*Skill{m.ultimate(), m.bonus} {
		if s == nil || s == cast || !s.HasReady() || s.readyVisible(g) {
			continue
		}
		if s.checkReady(g) {
			m.cached = s
		}
	}
}

var moveCycle = []string{ui.MoveDown, ui.MoveLeft, ui.MoveUp, ui.MoveRight}

func (m *ManualBattle) move() {
	g := m.g()
	dir := moveCycle[m.moves%len(moveCycle)]
	m.moves++
	if err := g.DragWith(g.Element(ui.MoveJoystick), g.Element(dir), constants.MoveAroundDragDuration, constants.MoveAroundDragSteps); err != nil {
		m.sup.log.Error("move %s: %v", dir, err)
	}
}

func (m *ManualBattle) describe() string {
	out := ""
	for _, s := range m.allSkills() {
		if s.lock != Unlocked {
			continue
		}
		if out != "" {
			out += ", "
		}
		out += s.String()
	}
	if out == "" {
		return "none"
	}
	return out
}
