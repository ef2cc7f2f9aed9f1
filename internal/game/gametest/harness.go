// Package gametest wires a Game to in-memory window and OCR fakes and paints synthetic frames.
package gametest

import (
	"hash/fnv"
	"image"
	"image/color"
	"image/draw"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/tmarenko/mff-auto-sub000/internal/game"
	"github.com/tmarenko/mff-auto-sub000/internal/geom"
	"github.com/tmarenko/mff-auto-sub000/internal/logger"
	"github.com/tmarenko/mff-auto-sub000/internal/ui"
	"github.com/tmarenko/mff-auto-sub000/internal/vision/visiontest"
	"github.com/tmarenko/mff-auto-sub000/internal/window"
	"github.com/tmarenko/mff-auto-sub000/internal/window/windowtest"
)

const (
	Width  = 640
	Height = 360
)

// Harness is a Game over fakes. Frame is the single mutable frame the backend serves, so
// painting is visible to the next probe without invalidating the adapter cache.
type Harness struct {
	Game      *game.Game
	Backend   *windowtest.Backend
	Adapter   *window.Adapter
	OCR       *visiontest.ScriptedRecognizer
	Clock     *game.FakeClock
	Catalogue *ui.Catalogue
	Frame     *image.RGBA

	mu      sync.Mutex
	onClick map[string][]func()
}

// New builds a harness over the default catalogue. Every element with an image file gets a
// synthetic template derived from its name.
func New(opts ...game.Option) *Harness {
	cat := ui.Default(logger.Nop())
	for _, name := range cat.Names() {
		el := cat.MustGet(name)
		if el.ImageFile == "" {
			continue
		}
		px := el.ImageRect.Pixels(Width, Height)
		_ = cat.SetImage(name, Pattern(px.Dx(), px.Dy(), seed(name)))
	}

	h := &Harness{
		Backend:   windowtest.NewBackend(Width, Height),
		OCR:       visiontest.NewScriptedRecognizer(),
		Clock:     game.NewFakeClock(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)),
		Catalogue: cat,
		Frame:     windowtest.Blank(Width, Height, color.Black),
		onClick:   make(map[string][]func()),
	}
	h.Backend.SetFrame(h.Frame)
	h.Backend.OnInput = h.dispatch

	h.Adapter = window.New(h.Backend, logger.Nop())
	h.Adapter.SetClock(h.Clock.Now, h.Clock.Sleep)
	if err := h.Adapter.Attach("NoxPlayer", "sub", "sub"); err != nil {
		panic(err)
	}

	all := append([]game.Option{
		game.WithClock(h.Clock),
		game.WithRand(rand.New(rand.NewPCG(1, 2))),
	}, opts...)
	h.Game = game.New(h.Adapter, h.OCR, cat, logger.Nop(), all...)
	return h
}

func seed(name string) uint64 {
	f := fnv.New64a()
	f.Write([]byte(name))
	return f.Sum64()
}

// Pattern returns deterministic high contrast noise; different seeds are structurally unrelated.
func Pattern(w, h int, seed uint64) *image.RGBA {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y += 2 {
		for x := 0; x < w; x += 2 {
			c := color.RGBA{uint8(rng.IntN(256)), uint8(rng.IntN(256)), uint8(rng.IntN(256)), 255}
			draw.Draw(img, image.Rect(x, y, x+2, y+2), &image.Uniform{C: c}, image.Point{}, draw.Src)
		}
	}
	return img
}

// Paint copies img into the frame at rect.
func (h *Harness) Paint(rect geom.Rect, img image.Image) {
	h.mu.Lock()
	defer h.mu.Unlock()
	px := rect.Pixels(Width, Height)
	draw.Draw(h.Frame, px, img, img.Bounds().Min, draw.Src)
}

// Fill paints rect with a solid colour.
func (h *Harness) Fill(rect geom.Rect, c color.Color) {
	h.Paint(rect, &image.Uniform{C: c})
}

// Show paints the element's reference image over its image rect.
func (h *Harness) Show(name string) {
	el := h.Catalogue.MustGet(name)
	h.Paint(el.ImageRect, el.Image)
}

// Hide blanks the element's image rect.
func (h *Harness) Hide(name string) {
	h.Fill(h.Catalogue.MustGet(name).ImageRect, color.Black)
}

// SetText makes OCR of the element read text from now on; an empty string hides it.
func (h *Harness) SetText(name, text string) {
	h.OCR.Set(name, text)
}

// OnClick runs fn whenever a click lands inside the element's click rect.
func (h *Harness) OnClick(name string, fn func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onClick[name] = append(h.onClick[name], fn)
}

func (h *Harness) dispatch(ev windowtest.Event) {
	if ev.Kind != windowtest.MouseUp {
		return
	}
	h.mu.Lock()
	var fns []func()
	for name, hooks := range h.onClick {
		if h.inside(name, image.Pt(ev.X, ev.Y)) {
			fns = append(fns, hooks...)
		}
	}
	h.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

func (h *Harness) inside(name string, p image.Point) bool {
	el, err := h.Catalogue.Get(name)
	if err != nil {
		return false
	}
	r, _ := el.ClickRect()
	// one pixel of slack for rounding at the edges
	px := r.Pixels(Width, Height).Inset(-1)
	return p.X >= px.Min.X && p.X <= px.Max.X && p.Y >= px.Min.Y && p.Y <= px.Max.Y
}

// ClicksOn counts recorded clicks inside the element's click rect.
func (h *Harness) ClicksOn(name string) int {
	n := 0
	for _, p := range h.Backend.Clicks() {
		if h.inside(name, p) {
			n++
		}
	}
	return n
}

// TotalClicks counts every recorded click.
func (h *Harness) TotalClicks() int {
	return len(h.Backend.Clicks())
}
