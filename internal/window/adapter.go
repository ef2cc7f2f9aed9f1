// Package window captures the emulator frame and posts synthetic input to it.
package window

import (
	"errors"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/vcaesar/imgo"

	"github.com/tmarenko/mff-auto-sub000/internal/constants"
	"github.com/tmarenko/mff-auto-sub000/internal/logger"
)

var (
	ErrNoFrame        = errors.New("no frame")
	ErrWindowNotFound = errors.New("window not found")
	ErrUnsupported    = errors.New("backend not supported on this platform")
)

// Backend is the platform specific half of the adapter. Coordinates are child window client pixels.
type Backend interface {
	Attach(window, child, keyHandle string) error
	Capture() (image.Image, error)
	MouseDown(x, y int) error
	MouseMove(x, y int, pressed bool) error
	MouseUp(x, y int) error
	Key(name string, system, down bool) error
	IsMinimized() bool
	Maximize() error
	Close() error
	Restartable() bool
}

// Adapter serializes capture and input through one lock and caches the last frame for one tick.
type Adapter struct {
	backend Backend
	log     *logger.AppLogger

	mu          sync.Mutex
	initialized bool
	frame       image.Image
	frameAt     time.Time

	now   func() time.Time
	sleep func(time.Duration)
}

// New creates an adapter; call Attach before capturing.
func New(b Backend, log *logger.AppLogger) *Adapter {
	return &Adapter{
		backend: b,
		log:     log.With("window"),
		now:     time.Now,
		sleep:   time.Sleep,
	}
}

// SetClock replaces the time source used for the frame cache and drag pacing.
func (a *Adapter) SetClock(now func() time.Time, sleep func(time.Duration)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.now, a.sleep = now, sleep
}

// Attach locates the emulator windows.
func (a *Adapter) Attach(window, child, keyHandle string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.backend.Attach(window, child, keyHandle); err != nil {
		a.initialized = false
		return fmt.Errorf("attach %q: %w", window, err)
	}
	a.initialized = true
	a.frame = nil
	a.log.Info("Attached to %s (child %s, keys %s)", window, child, keyHandle)
	return nil
}

// Initialized is false until Attach succeeds and after any capture failure.
func (a *Adapter) Initialized() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.initialized
}

// Capture returns the current frame. Frames younger than one tick are reused.
func (a *Adapter) Capture() (image.Image, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.captureLocked()
}

func (a *Adapter) captureLocked() (image.Image, error) {
	if !a.initialized {
		return nil, ErrNoFrame
	}
	if a.frame != nil && a.now().Sub(a.frameAt) < constants.FrameCacheTTL {
		return a.frame, nil
	}
	img, err := a.backend.Capture()
	if err != nil || img == nil || img.Bounds().Empty() {
		a.initialized = false
		a.frame = nil
		a.log.Error("Capture failed: %v", err)
		if err == nil {
			return nil, ErrNoFrame
		}
		return nil, fmt.Errorf("%w: %v", ErrNoFrame, err)
	}
	a.frame, a.frameAt = img, a.now()
	return img, nil
}

// Size reports the dimensions of the current frame.
func (a *Adapter) Size() (int, int, error) {
	img, err := a.Capture()
	if err != nil {
		return 0, 0, err
	}
	return img.Bounds().Dx(), img.Bounds().Dy(), nil
}

// Invalidate drops the cached frame.
func (a *Adapter) Invalidate() {
	a.mu.Lock()
	a.frame = nil
	a.mu.Unlock()
}

// Click posts a left click. The cached frame is dropped since the screen is about to change.
func (a *Adapter) Click(x, y int) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.initialized {
		return ErrNoFrame
	}
	a.frame = nil
	if err := a.backend.MouseDown(x, y); err != nil {
		return err
	}
	return a.backend.MouseUp(x, y)
}

// Drag presses at (x1,y1), moves in steps linear increments over duration and releases at (x2,y2).
func (a *Adapter) Drag(x1, y1, x2, y2 int, duration time.Duration, steps int) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.initialized {
		return ErrNoFrame
	}
	a.frame = nil
	if steps < 1 {
		steps = 1
	}
	if err := a.backend.MouseMove(x1, y1, false); err != nil {
		return err
	}
	if err := a.backend.MouseDown(x1, y1); err != nil {
		return err
	}
	pause := duration / time.Duration(steps)
	for i := 1; i <= steps; i++ {
		x := x1 + (x2-x1)*i/steps
		y := y1 + (y2-y1)*i/steps
		if err := a.backend.MouseMove(x, y, true); err != nil {
			return err
		}
		a.sleep(pause)
	}
	return a.backend.MouseUp(x2, y2)
}

// PressKey sends key down, holds it briefly, then key up to the key handler window.
func (a *Adapter) PressKey(name string, system bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.initialized {
		return ErrNoFrame
	}
	a.frame = nil
	if err := a.backend.Key(name, system, true); err != nil {
		return err
	}
	a.sleep(constants.KeyPressHold)
	return a.backend.Key(name, system, false)
}

func (a *Adapter) IsMinimized() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.backend.IsMinimized()
}

func (a *Adapter) Maximize() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.frame = nil
	return a.backend.Maximize()
}

// CloseCurrentApp closes the emulator's foreground app; the adapter must be re-attached afterwards.
func (a *Adapter) CloseCurrentApp() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.frame = nil
	a.initialized = false
	return a.backend.Close()
}

// Restartable reports whether the backend can relaunch the game after CloseCurrentApp.
func (a *Adapter) Restartable() bool {
	return a.backend.Restartable()
}

// SaveDebugFrame writes the current frame to path.
func (a *Adapter) SaveDebugFrame(path string) error {
	img, err := a.Capture()
	if err != nil {
		return err
	}
	if err := imgo.Save(path, img); err != nil {
		return fmt.Errorf("save frame: %w", err)
	}
	a.log.Debug("Frame saved to %s", path)
	return nil
}
