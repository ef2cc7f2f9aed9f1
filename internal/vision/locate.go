package vision

import (
	"image"
	"math"

	"github.com/tmarenko/mff-auto-sub000/internal/constants"
)

// Locate slides template over the roi of frame and returns the top-left corners of matches.
// A pixel matches when its RGB distance is within tolerance; a position matches when at most
// maxFailRate of the opaque template pixels miss. Transparent template pixels are wildcards.
// An empty roi searches the whole frame.
func Locate(frame, template image.Image, roi image.Rectangle, tolerance, maxFailRate float64) []image.Point {
	area := frame.Bounds()
	if !roi.Empty() {
		area = roi.Intersect(area)
	}
	tb := template.Bounds()
	tw, th := tb.Dx(), tb.Dy()
	if tw == 0 || th == 0 || area.Dx() < tw || area.Dy() < th {
		return nil
	}

	// corners and centre for quick rejection
	keys := []image.Point{image.Pt(0, 0), image.Pt(tw/2, th/2), image.Pt(tw-1, th-1)}

	var matches []image.Point
	for y := area.Min.Y; y <= area.Max.Y-th; y++ {
		for x := area.Min.X; x <= area.Max.X-tw; x++ {
			if !keysMatch(frame, template, keys, x, y, tolerance) {
				continue
			}
			if matchAt(frame, template, x, y, tolerance, maxFailRate) {
				matches = append(matches, image.Pt(x, y))
				x += tw / 2
			}
		}
	}
	return matches
}

func keysMatch(frame, template image.Image, keys []image.Point, x, y int, tolerance float64) bool {
	tb := template.Bounds()
	for _, k := range keys {
		tc, opaque := pixel(template, tb.Min.X+k.X, tb.Min.Y+k.Y)
		if !opaque {
			continue
		}
		fc, _ := pixel(frame, x+k.X, y+k.Y)
		if rawDistance(fc, tc) > tolerance {
			return false
		}
	}
	return true
}

func matchAt(frame, template image.Image, sx, sy int, tolerance, maxFailRate float64) bool {
	tb := template.Bounds()
	total, failed := 0, 0
	for ty := 0; ty < tb.Dy(); ty++ {
		for tx := 0; tx < tb.Dx(); tx++ {
			tc, opaque := pixel(template, tb.Min.X+tx, tb.Min.Y+ty)
			if !opaque {
				continue
			}
			total++
			fc, _ := pixel(frame, sx+tx, sy+ty)
			if rawDistance(fc, tc) <= tolerance {
				continue
			}
			failed++
			// early exit once enough pixels were seen to trust the rate
			if total > 100 && float64(failed)/float64(total) > maxFailRate {
				return false
			}
		}
	}
	return total > 0 && float64(failed)/float64(total) <= maxFailRate
}

func pixel(img image.Image, x, y int) (RGB, bool) {
	c := img.At(x, y)
	_, _, _, a := c.RGBA()
	return ToRGB(c), a > 0
}

func rawDistance(a, b RGB) float64 {
	return ColorDistance(a, b) * constants.ColorDistanceScale
}

// Best returns the match closest to want, or false when there is none.
func Best(matches []image.Point, want image.Point) (image.Point, bool) {
	if len(matches) == 0 {
		return image.Point{}, false
	}
	best, bestD := matches[0], math.Inf(1)
	for _, m := range matches {
		d := math.Hypot(float64(m.X-want.X), float64(m.Y-want.Y))
		if d < bestD {
			best, bestD = m, d
		}
	}
	return best, true
}
