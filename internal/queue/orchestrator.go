package queue

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tmarenko/mff-auto-sub000/internal/game"
	"github.com/tmarenko/mff-auto-sub000/internal/logger"
	"github.com/tmarenko/mff-auto-sub000/internal/mission"
	"github.com/tmarenko/mff-auto-sub000/internal/window"
)

// Runner plays one mode; *mission.Sequencer satisfies it.
type Runner interface {
	Run(ctx context.Context, def mission.Definition, opts mission.Options) (mission.Report, error)
}

// Outcome is what happened to one checked item.
type Outcome struct {
	Item   Item
	Report mission.Report
	Err    error
}

// Orchestrator executes queue items in order.
type Orchestrator struct {
	g        *game.Game
	runner   Runner
	registry *mission.Registry
	log      *logger.AppLogger

	// OnOutcome, when set, is called after every item.
	OnOutcome func(i int, o Outcome)
	// DumpDir, when set, receives the frame an item got stuck on.
	DumpDir string
}

func NewOrchestrator(g *game.Game, runner Runner, registry *mission.Registry) *Orchestrator {
	return &Orchestrator{g: g, runner: runner, registry: registry, log: g.Log().With("queue")}
}

// Run executes the checked items one after another. An item's error is logged and the run goes
// on; only cancellation stops it early.
func (o *Orchestrator) Run(ctx context.Context, items []Item) ([]Outcome, error) {
	var outcomes []Outcome
	for i, it := range items {
		if !it.Checked {
			continue
		}
		if err := ctx.Err(); err != nil {
			o.log.Info("Queue stopped before %s", it)
			return outcomes, err
		}
		o.log.Info("Queue item %d: %s", i+1, it)
		out := Outcome{Item: it}
		out.Report, out.Err = o.runItem(ctx, it)
		if err := ctx.Err(); err != nil {
			o.log.Info("Queue stopped during %s", it)
			return append(outcomes, out), err
		}
		switch {
		case out.Err == nil:
		case errors.Is(out.Err, window.ErrNoFrame):
			o.log.Error("%s: emulator window lost: %v", it.Mode, out.Err)
		default:
			o.log.Error("%s: %v", it.Mode, out.Err)
			o.dumpFrame(it)
		}
		outcomes = append(outcomes, out)
		if o.OnOutcome != nil {
			o.OnOutcome(i, out)
		}
	}
	o.log.Info("Queue finished")
	return outcomes, nil
}

func (o *Orchestrator) dumpFrame(it Item) {
	if o.DumpDir == "" {
		return
	}
	name := fmt.Sprintf("%s_%s.png", strings.ReplaceAll(strings.ToLower(it.Mode), " ", "_"),
		o.g.Clock().Now().UTC().Format("20060102_150405"))
	path := filepath.Join(o.DumpDir, name)
	if err := os.MkdirAll(o.DumpDir, 0o755); err != nil {
		o.log.Warn("dump frame: %v", err)
		return
	}
	if err := o.g.Window().SaveDebugFrame(path); err != nil {
		o.log.Warn("dump frame: %v", err)
		return
	}
	o.log.Info("Saved the frame %s got stuck on to %s", it.Mode, path)
}

func (o *Orchestrator) runItem(ctx context.Context, it Item) (mission.Report, error) {
	switch it.Mode {
	case WaitForDailyReset:
		return mission.Report{Mode: it.Mode}, WaitForDailyResetTime(ctx, o.g)
	case WaitForEnergy:
		target, err := energyTarget(it.Kwargs)
		if err != nil {
			return mission.Report{Mode: it.Mode}, err
		}
		return mission.Report{Mode: it.Mode}, WaitForEnergyLevel(ctx, o.g, target)
	}
	def, ok := o.registry.Get(it.Mode)
	if !ok {
		return mission.Report{Mode: it.Mode}, fmt.Errorf("%w: %s", ErrUnknownMode, it.Mode)
	}
	opts, err := mission.OptionsFromKwargs(it.Kwargs)
	if err != nil {
		return mission.Report{Mode: it.Mode}, err
	}
	return o.runner.Run(ctx, def, opts)
}

func energyTarget(kwargs map[string]any) (int, error) {
	v, ok := kwargs["energy"]
	if !ok {
		return 0, errors.New("wait for energy needs an energy kwarg")
	}
	switch t := v.(type) {
	case int:
		return t, nil
	case float64:
		return int(t), nil
	}
	return 0, fmt.Errorf("energy kwarg %v is not a number", v)
}
