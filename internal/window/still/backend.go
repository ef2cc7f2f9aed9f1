// Package still serves a saved screenshot as the emulator frame. Input is logged and dropped.
package still

import (
	"fmt"
	"image"
	"sync"

	"github.com/disintegration/imaging"

	"github.com/tmarenko/mff-auto-sub000/internal/logger"
	"github.com/tmarenko/mff-auto-sub000/internal/window"
)

type Backend struct {
	mu    sync.Mutex
	frame image.Image
	log   *logger.AppLogger
}

var _ window.Backend = (*Backend)(nil)

func New(frame image.Image, log *logger.AppLogger) *Backend {
	return &Backend{frame: frame, log: log.With("still")}
}

// Open loads path as the frame.
func Open(path string, log *logger.AppLogger) (*Backend, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open frame: %w", err)
	}
	return New(img, log), nil
}

// SetFrame swaps the served image.
func (b *Backend) SetFrame(img image.Image) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.frame = img
}

func (b *Backend) Attach(_, _, _ string) error { return nil }

func (b *Backend) Capture() (image.Image, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.frame == nil {
		return nil, window.ErrNoFrame
	}
	return b.frame, nil
}

func (b *Backend) MouseDown(x, y int) error {
	b.log.Debug("ignored mouse down at %d,%d", x, y)
	return nil
}

func (b *Backend) MouseMove(int, int, bool) error { return nil }

func (b *Backend) MouseUp(x, y int) error {
	b.log.Debug("ignored mouse up at %d,%d", x, y)
	return nil
}

func (b *Backend) Key(name string, _, _ bool) error {
	b.log.Debug("ignored key %s", name)
	return nil
}

func (b *Backend) IsMinimized() bool { return false }
func (b *Backend) Maximize() error   { return nil }
func (b *Backend) Close() error      { return window.ErrUnsupported }
func (b *Backend) Restartable() bool { return false }
