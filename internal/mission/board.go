package mission

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/tmarenko/mff-auto-sub000/internal/constants"
	"github.com/tmarenko/mff-auto-sub000/internal/game"
	"github.com/tmarenko/mff-auto-sub000/internal/ui"
	"github.com/tmarenko/mff-auto-sub000/internal/vision"
)

var stagesPattern = regexp.MustCompile(`(\d+)\s*/\s*(\d+)`)

// ParseStages reads a "current/max" counter.
func ParseStages(text string) (current, maxStages int, ok bool) {
	m := stagesPattern.FindStringSubmatch(text)
	if m == nil {
		return 0, 0, false
	}
	current, _ = strconv.Atoi(m[1])
	maxStages, _ = strconv.Atoi(m[2])
	return current, maxStages, true
}

// GameMode is one entry of the Content Status Board.
type GameMode struct {
	Name      string
	Stages    int
	MaxStages int
	Button    string // tile element to click
}

// ContentStatusBoard lists every mode with its remaining stages.
type ContentStatusBoard struct {
	g *game.Game
}

func NewContentStatusBoard(g *game.Game) *ContentStatusBoard {
	return &ContentStatusBoard{g: g}
}

// Open shows the board from the main menu.
func (b *ContentStatusBoard) Open(ctx context.Context) error {
	label := b.g.Element(ui.ContentStatusLabel)
	if b.g.IsTextOnScreen(label) {
		return nil
	}
	if err := b.g.Click(b.g.Element(ui.ContentStatusOpen)); err != nil {
		return err
	}
	if !b.g.WaitUntilText(ctx, label, constants.DefaultWaitTimeout) {
		return fmt.Errorf("open content status board: %w", ErrStuck)
	}
	return nil
}

// Scan reads every tile of the visible page. Tiles with no readable name are skipped.
func (b *ContentStatusBoard) Scan() []GameMode {
	var modes []GameMode
	for i := 1; i <= ui.ContentStatusBoardEntries; i++ {
		name := strings.TrimSpace(b.g.GetScreenText(b.g.Element(ui.BoardName(i))))
		if name == "" {
			continue
		}
		mode := GameMode{Name: name, Button: ui.BoardTile(i)}
		if cur, maxStages, ok := ParseStages(b.g.GetScreenText(b.g.Element(ui.BoardStages(i)))); ok {
			mode.Stages, mode.MaxStages = cur, maxStages
		}
		modes = append(modes, mode)
	}
	b.g.Log().Debug("Content status board: %v", modes)
	return modes
}

// Find opens the board and looks for name, turning the page when needed.
func (b *ContentStatusBoard) Find(ctx context.Context, name string) (GameMode, error) {
	if err := b.Open(ctx); err != nil {
		return GameMode{}, err
	}
	for page := 0; page < constants.BoardPages; page++ {
		if page > 0 {
			if err := b.g.Drag(b.g.Element(ui.ContentStatusDragFrom), b.g.Element(ui.ContentStatusDragTo)); err != nil {
				return GameMode{}, err
			}
		}
		for _, m := range b.Scan() {
			if vision.IsStringsSimilar(name, m.Name, constants.StringOverlap) {
				return m, nil
			}
		}
	}
	return GameMode{}, fmt.Errorf("%w: %s", ErrModeNotFound, name)
}

// Select opens the mode's lobby.
func (b *ContentStatusBoard) Select(m GameMode) error {
	return b.g.Click(b.g.Element(m.Button))
}
