// Package game is the perception and actuation facade every higher layer talks to.
// Probes and clicks pass through the configured guards first.
package game

import (
	"context"
	"errors"
	"image"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"github.com/disintegration/imaging"

	"github.com/tmarenko/mff-auto-sub000/internal/constants"
	"github.com/tmarenko/mff-auto-sub000/internal/geom"
	"github.com/tmarenko/mff-auto-sub000/internal/logger"
	"github.com/tmarenko/mff-auto-sub000/internal/ui"
	"github.com/tmarenko/mff-auto-sub000/internal/vision"
	"github.com/tmarenko/mff-auto-sub000/internal/window"
)

// Guard runs before every probe and click. Guards never trigger other guards.
type Guard interface {
	Name() string
	Before(g *Game)
}

// Game wraps the window adapter with element level predicates and actions.
type Game struct {
	win     *window.Adapter
	ocr     vision.Recognizer
	cat     *ui.Catalogue
	log     *logger.AppLogger
	clock   Clock
	rng     *rand.Rand
	guards  []Guard
	guarded atomic.Bool // set while a guard is running
}

type Option func(*Game)

func WithClock(c Clock) Option { return func(g *Game) { g.clock = c } }

func WithRand(r *rand.Rand) Option { return func(g *Game) { g.rng = r } }

// WithGuards installs guards in the order given.
func WithGuards(gs ...Guard) Option {
	return func(g *Game) { g.guards = append(g.guards, gs...) }
}

// New creates the facade.
func New(win *window.Adapter, ocr vision.Recognizer, cat *ui.Catalogue, log *logger.AppLogger, opts ...Option) *Game {
	g := &Game{
		win:   win,
		ocr:   ocr,
		cat:   cat,
		log:   log.With("game"),
		clock: SystemClock(),
		rng:   rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x6d6666)),
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

func (g *Game) Catalogue() *ui.Catalogue { return g.cat }
func (g *Game) Log() *logger.AppLogger   { return g.log }
func (g *Game) Clock() Clock             { return g.clock }
func (g *Game) Window() *window.Adapter  { return g.win }
func (g *Game) Rand() *rand.Rand         { return g.rng }

// Element fetches a catalogue element that is compiled into the program.
func (g *Game) Element(name string) ui.Element { return g.cat.MustGet(name) }

func (g *Game) Sleep(d time.Duration) { g.clock.Sleep(d) }

// SleepBetween sleeps a uniformly random duration in [lo, hi].
func (g *Game) SleepBetween(lo, hi time.Duration) {
	if hi <= lo {
		g.clock.Sleep(lo)
		return
	}
	g.clock.Sleep(lo + time.Duration(g.rng.Int64N(int64(hi-lo)+1)))
}

func (g *Game) runGuards() {
	if len(g.guards) == 0 || !g.guarded.CompareAndSwap(false, true) {
		return
	}
	defer g.guarded.Store(false)
	for _, gd := range g.guards {
		gd.Before(g)
	}
}

// Capture returns the current frame; probes made in the same tick share it.
func (g *Game) Capture() (image.Image, error) {
	return g.win.Capture()
}

// Crop returns the pixels under rect in the current frame.
func (g *Game) Crop(rect geom.Rect) (image.Image, error) {
	frame, err := g.win.Capture()
	if err != nil {
		return nil, err
	}
	return cropFrame(frame, rect), nil
}

func cropFrame(frame image.Image, rect geom.Rect) image.Image {
	b := frame.Bounds()
	return vision.Crop(frame, rect.Pixels(b.Dx(), b.Dy()))
}

// CropElement captures the element's image rect, e.g. to remember a skill icon as it looks now.
func (g *Game) CropElement(el ui.Element) (image.Image, error) {
	return g.Crop(el.ImageRect)
}

// GetScreenText runs OCR over the element's text rect.
func (g *Game) GetScreenText(el ui.Element) string {
	g.runGuards()
	text, err := g.readText(el)
	if err != nil {
		g.log.Debug("text %s: %v", el.Name, err)
		return ""
	}
	g.log.Debug("text %s = %q", el.Name, text)
	return text
}

func (g *Game) readText(el ui.Element) (string, error) {
	if el.TextRect.IsZero() {
		return "", errors.New("element has no text rect")
	}
	crop, err := g.Crop(el.TextRect)
	if err != nil {
		return "", err
	}
	if len(el.ColorToConvert) > 0 {
		crop = vision.RemapColors(crop, el.ColorToConvert)
	}
	req := vision.OCRRequest{
		Label:     el.Name,
		Image:     vision.PrepareForOCR(crop, el.Threshold(), el.ResizeHeight()),
		Whitelist: el.AvailableCharacters,
	}
	return g.ocr.Recognize(context.Background(), req)
}

// IsTextOnScreen reports whether OCR of the text rect is similar to the element's text.
func (g *Game) IsTextOnScreen(el ui.Element) bool {
	g.runGuards()
	text, err := g.readText(el)
	if err != nil {
		g.log.Debug("text probe %s: %v", el.Name, err)
		return false
	}
	ok := vision.IsStringsSimilar(el.Text, text, constants.StringOverlap)
	g.log.Debug("text probe %s: %q -> %v", el.Name, text, ok)
	return ok
}

// ImageSimilarity returns the SSIM between the element's image rect and its reference image.
func (g *Game) ImageSimilarity(el ui.Element) (float64, error) {
	if el.Image == nil {
		return 0, errors.New("element has no reference image")
	}
	crop, err := g.Crop(el.ImageRect)
	if err != nil {
		return 0, err
	}
	return vision.SSIM(crop, el.Image), nil
}

// IsImageOnScreen reports whether the image rect matches the reference image.
func (g *Game) IsImageOnScreen(el ui.Element) bool {
	g.runGuards()
	score, err := g.ImageSimilarity(el)
	if err != nil {
		g.log.Debug("image probe %s: %v", el.Name, err)
		return false
	}
	ok := score >= el.SimilarityThreshold()
	g.log.Debug("image probe %s: %.3f -> %v", el.Name, score, ok)
	return ok
}

// LocateElement searches a frame-relative margin around the element's image rect for its reference image and returns
// where it actually is. Used to recalibrate rects after a layout change.
func (g *Game) LocateElement(el ui.Element) (geom.Rect, bool) {
	if !el.HasImage() {
		return geom.Rect{}, false
	}
	frame, err := g.win.Capture()
	if err != nil {
		g.log.Debug("locate %s: %v", el.Name, err)
		return geom.Rect{}, false
	}
	b := frame.Bounds()
	want := el.ImageRect.Pixels(b.Dx(), b.Dy())
	if want.Dx() == 0 || want.Dy() == 0 {
		return geom.Rect{}, false
	}
	tpl := imaging.Resize(el.Image, want.Dx(), want.Dy(), imaging.Linear)
	roi := grow(el.ImageRect, constants.LocateSlack).Pixels(b.Dx(), b.Dy()).Add(b.Min)

	matches := vision.Locate(frame, tpl, roi, constants.LocateTolerance, constants.LocateMaxFailRate)
	at, ok := vision.Best(matches, want.Min.Add(b.Min))
	if !ok {
		g.log.Debug("locate %s: no match", el.Name)
		return geom.Rect{}, false
	}
	found := image.Rectangle{Min: at, Max: at.Add(want.Size())}.Sub(b.Min)
	rect := geom.FromPixels(found, b.Dx(), b.Dy())
	g.log.Debug("locate %s: %d matches, best %s", el.Name, len(matches), rect)
	return rect, true
}

// grow widens the global rect by d of the frame on each side.
func grow(r geom.Rect, d float64) geom.Rect {
	g := r.Global()
	return geom.R(max(0, g.X1-d), max(0, g.Y1-d), min(1, g.X2+d), min(1, g.Y2+d))
}

// IsColorSimilar samples one jittered point in each rect and reports whether any matches c.
func (g *Game) IsColorSimilar(c vision.RGB, rects ...geom.Rect) bool {
	g.runGuards()
	frame, err := g.win.Capture()
	if err != nil {
		g.log.Debug("color probe: %v", err)
		return false
	}
	b := frame.Bounds()
	for _, r := range rects {
		x, y := r.RandomPoint(g.rng, constants.ClickSigmaDiv)
		px := b.Min.X + min(b.Dx()-1, int(x*float64(b.Dx())))
		py := b.Min.Y + min(b.Dy()-1, int(y*float64(b.Dy())))
		if vision.IsColorSimilar(c, vision.ToRGB(frame.At(px, py))) {
			return true
		}
	}
	return false
}

// IsOnScreen dispatches to the colour, image or text predicate, whichever the element defines.
func (g *Game) IsOnScreen(el ui.Element) bool {
	switch {
	case el.HasColor():
		rects := el.ColorRects
		if len(rects) == 0 {
			rects = []geom.Rect{el.ImageRect}
		}
		ok := g.IsColorSimilar(*el.ImageColor, rects...)
		g.log.Debug("color probe %s -> %v", el.Name, ok)
		return ok
	case el.HasImage():
		return g.IsImageOnScreen(el)
	case el.HasText():
		return g.IsTextOnScreen(el)
	}
	g.log.Debug("element %s has nothing to match", el.Name)
	return false
}

// IsMinimized, Maximize, CloseCurrentApp and Restartable pass through to the adapter.
func (g *Game) IsMinimized() bool      { return g.win.IsMinimized() }
func (g *Game) Maximize() error        { return g.win.Maximize() }
func (g *Game) CloseCurrentApp() error { return g.win.CloseCurrentApp() }
func (g *Game) Restartable() bool      { return g.win.Restartable() }
