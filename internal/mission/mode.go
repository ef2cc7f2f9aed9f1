// Package mission walks a game mode from the main menu through its stages and back.
package mission

import (
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/tmarenko/mff-auto-sub000/internal/battle"
	"github.com/tmarenko/mff-auto-sub000/internal/ui"
)

var (
	ErrStuck        = errors.New("no progress")
	ErrModeNotFound = errors.New("mode not on content status board")
)

// LevelSelector names the elements of a +/- difficulty picker.
type LevelSelector struct {
	Level string
	Plus  string
	Minus string
}

// Definition describes a mode entirely in catalogue element names.
type Definition struct {
	Name       string
	StageEntry string         // clicked in the mode lobby to reach the stage lobby
	Selector   *LevelSelector // optional difficulty picker
	Shifter    bool           // stages may spawn shifters (bio farming)
	Over       []string       // battle-over elements; empty uses the defaults
}

// OverConditions turns Over into battle conditions; nil selects the defaults.
func (d Definition) OverConditions() []battle.Condition {
	if len(d.Over) == 0 {
		return nil
	}
	conds := make([]battle.Condition, 0, len(d.Over))
	for _, name := range d.Over {
		conds = append(conds, battle.OnScreen(name))
	}
	return conds
}

// Registry maps mode names to definitions.
type Registry struct {
	mu   sync.RWMutex
	defs map[string]Definition
}

func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]Definition)}
}

// DefaultRegistry holds the built-in modes.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, d := range Builtins() {
		r.Register(d)
	}
	return r
}

func Builtins() []Definition {
	return []Definition{
		{Name: "EPIC QUEST", StageEntry: ui.EpicQuestStage, Shifter: true},
		{
			Name: "DIMENSION MISSION",
			Selector: &LevelSelector{
				Level: ui.DimensionLevel,
				Plus:  ui.DimensionLevelPlus,
				Minus: ui.DimensionLevelMinus,
			},
		},
		{Name: "LEGENDARY BATTLE", StageEntry: ui.LegendaryBattleStage},
	}
}

func (r *Registry) Register(d Definition) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.defs[strings.ToUpper(d.Name)] = d
}

func (r *Registry) Get(name string) (Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.defs[strings.ToUpper(name)]
	return d, ok
}

// Names returns the registered mode names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.defs))
	for _, d := range r.defs {
		names = append(names, d.Name)
	}
	sort.Strings(names)
	return names
}
