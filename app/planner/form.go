package planner

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tmarenko/mff-auto-sub000/internal/mission"
	"github.com/tmarenko/mff-auto-sub000/internal/queue"
)

// Form holds the raw values of the kwargs widgets.
type Form struct {
	Times      string
	Level      string
	Energy     string
	Manual     bool
	MoveAround bool
	BioFarming bool
}

// BuildItem turns the editor state into a checked queue row.
func BuildItem(mode string, f Form) (queue.Item, error) {
	mode = strings.TrimSpace(mode)
	if mode == "" {
		return queue.Item{}, errors.New("select a mode first")
	}
	switch mode {
	case queue.WaitForDailyReset:
		return queue.Item{Mode: mode, Checked: true}, nil
	case queue.WaitForEnergy:
		energy, err := parseCount("energy", f.Energy)
		if err != nil {
			return queue.Item{}, err
		}
		if energy == 0 {
			return queue.Item{}, errors.New("energy must be positive")
		}
		return queue.Item{Mode: mode, Kwargs: map[string]any{"energy": energy}, Checked: true}, nil
	}

	times, err := parseCount("times", f.Times)
	if err != nil {
		return queue.Item{}, err
	}
	level, err := parseCount("level", f.Level)
	if err != nil {
		return queue.Item{}, err
	}
	opts := mission.Options{
		Times:      times,
		Level:      level,
		Manual:     f.Manual,
		MoveAround: f.Manual && f.MoveAround,
		BioFarming: f.BioFarming,
	}
	return queue.Item{Mode: mode, Kwargs: opts.Kwargs(), Checked: true}, nil
}

// FormFor fills the widgets from an existing row so it can be edited.
func FormFor(it queue.Item) (Form, error) {
	if it.Mode == queue.WaitForEnergy {
		return Form{Energy: fmt.Sprint(it.Kwargs["energy"])}, nil
	}
	opts, err := mission.OptionsFromKwargs(it.Kwargs)
	if err != nil {
		return Form{}, err
	}
	f := Form{Manual: opts.Manual, MoveAround: opts.MoveAround, BioFarming: opts.BioFarming}
	if opts.Times > 0 {
		f.Times = strconv.Itoa(opts.Times)
	}
	if opts.Level > 0 {
		f.Level = strconv.Itoa(opts.Level)
	}
	return f, nil
}

func parseCount(name, s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s must be a non-negative number, got %q", name, s)
	}
	return n, nil
}

// Move returns items with row i shifted by delta, clamped to the list.
func Move(items []queue.Item, i, delta int) ([]queue.Item, int) {
	j := i + delta
	if i < 0 || i >= len(items) || j < 0 || j >= len(items) {
		return items, i
	}
	out := append([]queue.Item(nil), items...)
	out[i], out[j] = out[j], out[i]
	return out, j
}

// Remove returns items without row i.
func Remove(items []queue.Item, i int) []queue.Item {
	if i < 0 || i >= len(items) {
		return items
	}
	out := append([]queue.Item(nil), items[:i]...)
	return append(out, items[i+1:]...)
}
