package vision

import (
	"context"
	"image"
	"image/color"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"
)

// OCRRequest is a binarized crop ready for tesseract.
type OCRRequest struct {
	Label     string // Element name, used for logging and scripted fakes
	Image     *image.Gray
	Whitelist string // Empty means automatic page segmentation
}

// Recognizer turns a prepared crop into text.
type Recognizer interface {
	Recognize(ctx context.Context, req OCRRequest) (string, error)
}

// UsesDigitEngine reports whether a whitelist should be read by the digit-aware engine.
func UsesDigitEngine(whitelist string) bool {
	return strings.ContainsAny(whitelist, "0123456789")
}

// Crop returns the part of img inside rect, anchored at the origin.
func Crop(img image.Image, rect image.Rectangle) *image.NRGBA {
	return imaging.Crop(img, rect.Add(img.Bounds().Min))
}

// RemapColors paints every pixel that falls in one of the ranges white.
func RemapColors(img image.Image, ranges []ColorRange) *image.NRGBA {
	out := imaging.Clone(img)
	if len(ranges) == 0 {
		return out
	}
	b := out.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := ToRGB(out.NRGBAAt(x, y))
			for _, r := range ranges {
				if r.Contains(c) {
					out.SetNRGBA(x, y, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
					break
				}
			}
		}
	}
	return out
}

// PrepareForOCR resizes img to the target height preserving aspect ratio, converts it to gray
// and binarizes it: pixels >= threshold become 255, the rest 0.
func PrepareForOCR(img image.Image, threshold uint8, height int) *image.Gray {
	if height > 0 && img.Bounds().Dy() > 0 && img.Bounds().Dy() != height {
		img = resize.Resize(0, uint(height), img, resize.Bicubic)
	}
	return Binarize(img, threshold)
}

// Binarize converts img to gray and thresholds it.
func Binarize(img image.Image, threshold uint8) *image.Gray {
	b := img.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			g := color.GrayModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.Gray)
			if g.Y >= threshold {
				out.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return out
}
