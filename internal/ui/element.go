// Package ui holds the catalogue of named screen elements the bot perceives and clicks.
package ui

import (
	"image"
	"slices"

	"github.com/tmarenko/mff-auto-sub000/internal/constants"
	"github.com/tmarenko/mff-auto-sub000/internal/geom"
	"github.com/tmarenko/mff-auto-sub000/internal/vision"
)

// Element is a named screen region with an expected text, image or colour.
// Values are copied out of the Catalogue, so callers may tweak a copy freely.
type Element struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`

	TextRect              geom.Rect `yaml:"text_rect,omitempty"`
	Text                  string    `yaml:"text,omitempty"`
	TextThreshold         int       `yaml:"text_threshold,omitempty"`
	AvailableCharacters   string    `yaml:"available_characters,omitempty"`
	TesseractResizeHeight int       `yaml:"tesseract_resize_height,omitempty"`

	ImageRect      geom.Rect   `yaml:"image_rect,omitempty"`
	ImageFile      string      `yaml:"image_file,omitempty"`
	Image          image.Image `yaml:"-"`
	ImageThreshold float64     `yaml:"image_threshold,omitempty"`

	ButtonRect geom.Rect `yaml:"button_rect,omitempty"`

	ImageColor     *vision.RGB         `yaml:"image_color,omitempty"`
	ColorRects     []geom.Rect         `yaml:"color_rects,omitempty"` // Probe points for ImageColor
	ColorToConvert []vision.ColorRange `yaml:"color_to_convert,omitempty"`
}

// Copy returns a deep copy; the reference image is shared because images are never mutated.
func (e Element) Copy() Element {
	c := e
	c.ColorRects = slices.Clone(e.ColorRects)
	c.ColorToConvert = slices.Clone(e.ColorToConvert)
	if e.ImageColor != nil {
		col := *e.ImageColor
		c.ImageColor = &col
	}
	return c
}

// WithTextThreshold returns a copy with a different OCR threshold, clamped to 0..255.
func (e Element) WithTextThreshold(t int) Element {
	c := e.Copy()
	c.TextThreshold = min(255, max(0, t))
	return c
}

// WithImage returns a copy that matches against img instead of the catalogue template.
func (e Element) WithImage(img image.Image) Element {
	c := e.Copy()
	c.Image = img
	return c
}

func (e Element) HasText() bool  { return e.Text != "" && !e.TextRect.IsZero() }
func (e Element) HasImage() bool { return e.Image != nil && !e.ImageRect.IsZero() }
func (e Element) HasColor() bool { return e.ImageColor != nil }

// Threshold returns the OCR gray cutoff.
func (e Element) Threshold() uint8 {
	if e.TextThreshold == 0 {
		return constants.DefaultTextThreshold
	}
	return uint8(min(255, max(0, e.TextThreshold)))
}

// ResizeHeight returns the OCR target height.
func (e Element) ResizeHeight() int {
	if e.TesseractResizeHeight <= 0 {
		return constants.OCRResizeHeight
	}
	return e.TesseractResizeHeight
}

// SimilarityThreshold returns the SSIM cutoff.
func (e Element) SimilarityThreshold() float64 {
	if e.ImageThreshold == 0 {
		return constants.DefaultImageThreshold
	}
	return e.ImageThreshold
}

// ClickRect picks the region to click and reports whether it came from a bare button rect.
// Falls back to the text rect, then the image rect.
func (e Element) ClickRect() (geom.Rect, bool) {
	switch {
	case !e.ButtonRect.IsZero():
		buttonOnly := e.TextRect.IsZero() && e.ImageRect.IsZero()
		return e.ButtonRect, buttonOnly
	case !e.TextRect.IsZero():
		return e.TextRect, false
	default:
		return e.ImageRect, false
	}
}
