// Package queue runs the user's ordered list of modes one after another.
package queue

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Pseudo-modes that wait instead of playing.
const (
	WaitForEnergy     = "WAIT FOR ENERGY"
	WaitForDailyReset = "WAIT FOR DAILY RESET"
)

var ErrUnknownMode = errors.New("unknown mode")

// Item is one queue row.
type Item struct {
	Mode    string         `yaml:"mode"`
	Kwargs  map[string]any `yaml:"kwargs,omitempty"`
	Checked bool           `yaml:"checked"`
}

func (it Item) String() string {
	if len(it.Kwargs) == 0 {
		return it.Mode
	}
	return fmt.Sprintf("%s %v", it.Mode, it.Kwargs)
}

// Store keeps the queue in a YAML file.
type Store struct {
	Path string
}

func NewStore(path string) *Store { return &Store{Path: path} }

// Load returns the saved items; a missing file is an empty queue.
func (s *Store) Load() ([]Item, error) {
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read queue: %w", err)
	}
	var items []Item
	if err := yaml.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parse queue %s: %w", s.Path, err)
	}
	return items, nil
}

// Save writes items atomically.
func (s *Store) Save(items []Item) error {
	data, err := yaml.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode queue: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.Path), ".queue-*.yaml")
	if err != nil {
		return fmt.Errorf("save queue: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("save queue: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("save queue: %w", err)
	}
	return os.Rename(tmp.Name(), s.Path)
}
