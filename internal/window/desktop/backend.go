// Package desktop drives the emulator through the real cursor and a desktop screenshot, for
// vendors whose render window ignores posted messages.
package desktop

import (
	"fmt"
	"image"
	"strings"

	"github.com/go-vgo/robotgo"
	"github.com/kbinani/screenshot"

	"github.com/tmarenko/mff-auto-sub000/internal/window"
)

// Backend locates the emulator process by name and works in its on-screen bounds.
type Backend struct {
	pid    int
	bounds image.Rectangle
}

var _ window.Backend = (*Backend)(nil)

func New() *Backend {
	return &Backend{}
}

// Attach looks up the emulator process; child and keyHandle are unused since input goes to the
// foreground window.
func (b *Backend) Attach(name, child, keyHandle string) error {
	ids, err := robotgo.FindIds(name)
	if err != nil {
		return fmt.Errorf("find %s: %w", name, err)
	}
	if len(ids) == 0 {
		return fmt.Errorf("%w: %s", window.ErrWindowNotFound, name)
	}
	b.pid = ids[0]
	if err := robotgo.ActivePid(b.pid); err != nil {
		return fmt.Errorf("activate %s: %w", name, err)
	}
	return b.refreshBounds()
}

func (b *Backend) refreshBounds() error {
	x, y, w, h := robotgo.GetBounds(b.pid)
	if w <= 0 || h <= 0 {
		return fmt.Errorf("%w: empty bounds for pid %d", window.ErrWindowNotFound, b.pid)
	}
	b.bounds = image.Rect(x, y, x+w, y+h)
	return nil
}

func (b *Backend) Capture() (image.Image, error) {
	if err := b.refreshBounds(); err != nil {
		return nil, err
	}
	img, err := screenshot.CaptureRect(b.bounds)
	if err != nil {
		return nil, err
	}
	return img, nil
}

func (b *Backend) move(x, y int) {
	robotgo.MoveMouse(b.bounds.Min.X+x, b.bounds.Min.Y+y)
}

func (b *Backend) MouseDown(x, y int) error {
	b.move(x, y)
	return robotgo.Toggle("left")
}

func (b *Backend) MouseMove(x, y int, pressed bool) error {
	b.move(x, y)
	return nil
}

func (b *Backend) MouseUp(x, y int) error {
	b.move(x, y)
	return robotgo.Toggle("left", "up")
}

func (b *Backend) Key(name string, system, down bool) error {
	key, ok := keyNames[strings.ToUpper(name)]
	if !ok {
		key = strings.ToLower(name)
	}
	state := "up"
	if down {
		state = "down"
	}
	if system {
		return robotgo.KeyToggle(key, state, "alt")
	}
	return robotgo.KeyToggle(key, state)
}

func (b *Backend) IsMinimized() bool { return false }

func (b *Backend) Maximize() error {
	robotgo.MaxWindow(b.pid)
	return b.refreshBounds()
}

func (b *Backend) Close() error {
	robotgo.CloseWindow(b.pid)
	return nil
}

func (b *Backend) Restartable() bool { return false }

var keyNames = map[string]string{
	window.KeyEscape:    "esc",
	window.KeyEnter:     "enter",
	window.KeySpace:     "space",
	window.KeyBackspace: "backspace",
	window.KeyTab:       "tab",
	window.KeyUp:        "up",
	window.KeyDown:      "down",
	window.KeyLeft:      "left",
	window.KeyRight:     "right",
}
