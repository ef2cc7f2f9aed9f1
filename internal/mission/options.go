package mission

import (
	"fmt"
	"strconv"
	"strings"
)

// Options are the per-run knobs a queue item carries as kwargs.
type Options struct {
	Times      int  // stages to play; 0 plays every remaining stage
	Manual     bool // cast skills instead of using autoplay
	MoveAround bool
	Level      int // target difficulty for modes with a level selector; 0 keeps the current one
	BioFarming bool
}

// OptionsFromKwargs decodes the loosely typed kwargs of a queue item. Unknown keys are ignored.
func OptionsFromKwargs(kwargs map[string]any) (Options, error) {
	var o Options
	var err error
	for k, v := range kwargs {
		switch strings.ToLower(k) {
		case "times":
			o.Times, err = asInt(v)
		case "level":
			o.Level, err = asInt(v)
		case "battle":
			var s string
			s, err = asString(v)
			switch strings.ToLower(s) {
			case "", "auto":
			case "manual":
				o.Manual = true
			default:
				err = fmt.Errorf("unknown battle %q", s)
			}
		case "manual":
			o.Manual, err = asBool(v)
		case "move_around":
			o.MoveAround, err = asBool(v)
		case "bio_farming", "farm_bios":
			o.BioFarming, err = asBool(v)
		}
		if err != nil {
			return Options{}, fmt.Errorf("kwarg %s: %w", k, err)
		}
	}
	if o.Times < 0 || o.Level < 0 {
		return Options{}, fmt.Errorf("negative times or level")
	}
	return o, nil
}

// Kwargs is the inverse of OptionsFromKwargs, used when saving the queue.
func (o Options) Kwargs() map[string]any {
	kw := map[string]any{}
	if o.Times > 0 {
		kw["times"] = o.Times
	}
	if o.Level > 0 {
		kw["level"] = o.Level
	}
	if o.Manual {
		kw["battle"] = "manual"
	}
	if o.MoveAround {
		kw["move_around"] = true
	}
	if o.BioFarming {
		kw["bio_farming"] = true
	}
	return kw
}

func asInt(v any) (int, error) {
	switch t := v.(type) {
	case int:
		return t, nil
	case int64:
		return int(t), nil
	case float64:
		return int(t), nil
	case string:
		return strconv.Atoi(strings.TrimSpace(t))
	}
	return 0, fmt.Errorf("not a number: %v", v)
}

func asBool(v any) (bool, error) {
	switch t := v.(type) {
	case bool:
		return t, nil
	case string:
		return strconv.ParseBool(strings.TrimSpace(t))
	}
	return false, fmt.Errorf("not a bool: %v", v)
}

func asString(v any) (string, error) {
	if s, ok := v.(string); ok {
		return s, nil
	}
	return "", fmt.Errorf("not a string: %v", v)
}
