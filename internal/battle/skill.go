package battle

import (
	"image"
	"strings"
	"time"
	"unicode"

	"github.com/tmarenko/mff-auto-sub000/internal/constants"
	"github.com/tmarenko/mff-auto-sub000/internal/game"
	"github.com/tmarenko/mff-auto-sub000/internal/ui"
)

// Kind tags what a skill slot currently represents.
type Kind int

const (
	KindBase Kind = iota
	KindTier3
	KindAwakening
	KindCoop
	KindDangerRoom
)

func (k Kind) String() string {
	switch k {
	case KindTier3:
		return "T3"
	case KindAwakening:
		return "awakening"
	case KindCoop:
		return "co-op"
	case KindDangerRoom:
		return "danger room"
	}
	return "base"
}

// Lock is the tri-state ownership of a slot by the current character.
type Lock int

const (
	LockUnknown Lock = iota
	Locked
	Unlocked
)

// Skill is one slot of the skill bar for the duration of a fight.
type Skill struct {
	Name    string // Element name
	Label   string // Optional element proving the character owns the slot
	Slot    int
	Kind    Kind
	CastMin time.Duration

	lock     Lock
	ready    image.Image // The slot as it looked when last seen ready
	cooldown *Debounce
}

func newSkill(name, label string, slot int, kind Kind, castMin time.Duration) *Skill {
	s := &Skill{
		Name:     name,
		Label:    label,
		Slot:     slot,
		Kind:     kind,
		CastMin:  castMin,
		cooldown: NewDebounce(constants.CooldownRepetitions),
	}
	if kind == KindTier3 {
		s.cooldown.cooling = chargingTier3
	}
	return s
}

func baseSkills() []*Skill {
	mins := []time.Duration{
		constants.CastMinBasic, constants.CastMinBasic, constants.CastMinBasic,
		constants.CastMinSlot4, constants.CastMinSlot5,
	}
	skills := make([]*Skill, 5)
	for i := range skills {
		label := ""
		if i >= 3 {
			label = ui.SkillLabel(i + 1)
		}
		skills[i] = newSkill(ui.Skill(i+1), label, i+1, KindBase, mins[i])
	}
	return skills
}

func (s *Skill) String() string {
	if s.Kind == KindBase {
		return s.Name
	}
	return s.Kind.String()
}

func (s *Skill) Locked() bool   { return s.lock == Locked }
func (s *Skill) HasReady() bool { return s.ready != nil }

func (s *Skill) setLock(l Lock) {
	s.lock = l
	if l == Locked {
		s.ready = nil
	}
}

// resolveLock locks the slot when its label is missing.
func (s *Skill) resolveLock(g *game.Game) Lock {
	if s.Label == "" || g.IsOnScreen(g.Element(s.Label)) {
		s.setLock(Unlocked)
	} else {
		s.setLock(Locked)
	}
	return s.lock
}

// checkReady captures the ready image when the slot shows no cooldown readout.
func (s *Skill) checkReady(g *game.Game) bool {
	if s.Locked() {
		return false
	}
	readout := g.GetScreenText(g.Element(s.Name))
	if s.cooldown.cooling(normalizeReadout(readout)) {
		return false
	}
	return s.rearm(g)
}

func (s *Skill) rearm(g *game.Game) bool {
	img, err := g.CropElement(g.Element(s.Name))
	if err != nil {
		return false
	}
	s.ready = img
	s.cooldown.Reset()
	return true
}

// readyVisible reports whether the live slot still matches the ready image.
func (s *Skill) readyVisible(g *game.Game) bool {
	if s.ready == nil {
		return false
	}
	return g.IsImageOnScreen(g.Element(s.Name).WithImage(s.ready))
}

// Available reports whether the skill can be cast right now. When the ready image is not on
// screen the cooldown readout is tracked, and a slot whose readout settles on an empty value
// is declared ready again and re-armed.
func (s *Skill) Available(g *game.Game) bool {
	if s.Locked() {
		return false
	}
	if s.readyVisible(g) {
		return true
	}
	readout := g.GetScreenText(g.Element(s.Name))
	if s.cooldown.Observe(readout) {
		g.Log().Debug("%s ready again after cooldown", s)
		return s.rearm(g)
	}
	return false
}

// Debounce declares a cooldown finished only after the same empty readout was seen
// a number of times in a row, which filters the digit flicker over skill icons.
type Debounce struct {
	reps    int
	last    string
	count   int
	seen    map[string]int
	cooling func(string) bool
}

func NewDebounce(reps int) *Debounce {
	return &Debounce{reps: max(1, reps), seen: make(map[string]int), cooling: hasDigits}
}

// Observe records a readout and reports whether the skill is ready.
func (d *Debounce) Observe(readout string) bool {
	readout = normalizeReadout(readout)
	if readout != d.last || d.count == 0 {
		d.last, d.count = readout, 0
	}
	d.count++
	d.seen[readout]++
	return !d.cooling(readout) && d.count >= d.reps
}

// Seen returns how often a readout was observed since the last reset.
func (d *Debounce) Seen(readout string) int { return d.seen[normalizeReadout(readout)] }

func (d *Debounce) Reset() {
	d.last, d.count = "", 0
	clear(d.seen)
}

func normalizeReadout(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

func hasDigits(s string) bool {
	return strings.ContainsAny(s, "0123456789")
}

// chargingTier3 holds while the Tier-3 charge reads below a full 100%.
func chargingTier3(s string) bool {
	return hasDigits(s) && !strings.HasPrefix(s, "100")
}
