// Package windowtest provides an in-memory window.Backend for tests.
package windowtest

import (
	"errors"
	"image"
	"image/color"
	"sync"
)

// EventKind tags a recorded input event.
type EventKind int

const (
	MouseDown EventKind = iota
	MouseMove
	MouseUp
	KeyDown
	KeyUp
)

// Event is one input message posted to the backend.
type Event struct {
	Kind    EventKind
	X, Y    int
	Pressed bool
	Key     string
	System  bool
}

// Backend serves scripted frames and records input. Each Capture pops the next scripted frame;
// the last one repeats.
type Backend struct {
	mu        sync.Mutex
	frames    []image.Image
	events    []Event
	attached  bool
	minimized bool
	closed    int

	AttachErr  error
	CaptureErr error
	// OnInput runs after every recorded event, with the lock released.
	OnInput func(Event)
}

// NewBackend returns a backend showing a blank frame of the given size.
func NewBackend(w, h int) *Backend {
	return &Backend{frames: []image.Image{Blank(w, h, color.Black)}}
}

// Blank returns a solid frame.
func Blank(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// SetFrame replaces the script with one frame.
func (b *Backend) SetFrame(img image.Image) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.frames = []image.Image{img}
}

// Script queues frames to be served in order.
func (b *Backend) Script(frames ...image.Image) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.frames = append([]image.Image(nil), frames...)
}

// Events returns a copy of every recorded event.
func (b *Backend) Events() []Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Event(nil), b.events...)
}

// Clicks returns the position of every mouse-up that followed a mouse-down without movement.
func (b *Backend) Clicks() []image.Point {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []image.Point
	for i := 1; i < len(b.events); i++ {
		prev, ev := b.events[i-1], b.events[i]
		if prev.Kind == MouseDown && ev.Kind == MouseUp {
			out = append(out, image.Pt(ev.X, ev.Y))
		}
	}
	return out
}

// Reset clears recorded events.
func (b *Backend) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = nil
}

func (b *Backend) Closed() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}

func (b *Backend) SetMinimized(v bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.minimized = v
}

func (b *Backend) Attach(window, child, keyHandle string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.AttachErr != nil {
		return b.AttachErr
	}
	b.attached = true
	return nil
}

func (b *Backend) Capture() (image.Image, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.attached {
		return nil, errors.New("not attached")
	}
	if b.CaptureErr != nil {
		return nil, b.CaptureErr
	}
	if len(b.frames) == 0 {
		return nil, errors.New("no frames scripted")
	}
	img := b.frames[0]
	if len(b.frames) > 1 {
		b.frames = b.frames[1:]
	}
	return img, nil
}

func (b *Backend) record(ev Event) error {
	b.mu.Lock()
	b.events = append(b.events, ev)
	hook := b.OnInput
	b.mu.Unlock()
	if hook != nil {
		hook(ev)
	}
	return nil
}

func (b *Backend) MouseDown(x, y int) error { return b.record(Event{Kind: MouseDown, X: x, Y: y}) }

func (b *Backend) MouseMove(x, y int, pressed bool) error {
	return b.record(Event{Kind: MouseMove, X: x, Y: y, Pressed: pressed})
}

func (b *Backend) MouseUp(x, y int) error { return b.record(Event{Kind: MouseUp, X: x, Y: y}) }

func (b *Backend) Key(name string, system, down bool) error {
	kind := KeyUp
	if down {
		kind = KeyDown
	}
	return b.record(Event{Kind: kind, Key: name, System: system})
}

func (b *Backend) IsMinimized() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.minimized
}

func (b *Backend) Maximize() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.minimized = false
	return nil
}

func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed++
	b.attached = false
	return nil
}

func (b *Backend) Restartable() bool { return true }
