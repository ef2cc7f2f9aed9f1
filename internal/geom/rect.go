package geom

import (
	"fmt"
	"image"
	"math"
	"math/rand/v2"
)

// Rect is a rectangle in normalized coordinates, optionally nested inside a parent.
// A child (a,b,c,d) inside a parent of width W and height H maps to
// (X1+aW, Y1+bH, X1+cW, Y1+dH).
type Rect struct {
	X1, Y1, X2, Y2 float64
	Parent         *Rect `yaml:"-"`
}

// R is shorthand for a root level Rect.
func R(x1, y1, x2, y2 float64) Rect {
	return Rect{X1: x1, Y1: y1, X2: x2, Y2: y2}
}

// Within returns a copy of r nested inside parent.
func (r Rect) Within(parent Rect) Rect {
	p := parent
	r.Parent = &p
	return r
}

// Width of the rect in its own coordinate space
func (r Rect) Width() float64 { return r.X2 - r.X1 }

// Height of the rect in its own coordinate space
func (r Rect) Height() float64 { return r.Y2 - r.Y1 }

// IsZero reports whether the rect was never set.
func (r Rect) IsZero() bool {
	return r.X1 == 0 && r.Y1 == 0 && r.X2 == 0 && r.Y2 == 0 && r.Parent == nil
}

// Global resolves the parent chain into window level coordinates.
func (r Rect) Global() Rect {
	if r.Parent == nil {
		return Rect{X1: r.X1, Y1: r.Y1, X2: r.X2, Y2: r.Y2}
	}
	p := r.Parent.Global()
	w, h := p.Width(), p.Height()
	return Rect{
		X1: p.X1 + r.X1*w,
		Y1: p.Y1 + r.Y1*h,
		X2: p.X1 + r.X2*w,
		Y2: p.Y1 + r.Y2*h,
	}
}

// Center of the global rect
func (r Rect) Center() (float64, float64) {
	g := r.Global()
	return (g.X1 + g.X2) / 2, (g.Y1 + g.Y2) / 2
}

// Padded shrinks the global rect by ratio of its size on each side.
func (r Rect) Padded(ratio float64) Rect {
	g := r.Global()
	dx, dy := g.Width()*ratio, g.Height()*ratio
	return Rect{X1: g.X1 + dx, Y1: g.Y1 + dy, X2: g.X2 - dx, Y2: g.Y2 - dy}
}

// Pixels converts the global rect into a pixel rectangle of a w x h frame.
func (r Rect) Pixels(w, h int) image.Rectangle {
	g := r.Global()
	return image.Rect(
		int(math.Round(g.X1*float64(w))),
		int(math.Round(g.Y1*float64(h))),
		int(math.Round(g.X2*float64(w))),
		int(math.Round(g.Y2*float64(h))),
	)
}

// Contains reports whether the normalized point lies inside the global rect.
func (r Rect) Contains(x, y float64) bool {
	g := r.Global()
	return x >= g.X1 && x <= g.X2 && y >= g.Y1 && y <= g.Y2
}

func (r Rect) String() string {
	g := r.Global()
	return fmt.Sprintf("(%.4f, %.4f, %.4f, %.4f)", g.X1, g.Y1, g.X2, g.Y2)
}

// FromPixels normalizes a pixel rectangle of a w x h frame.
func FromPixels(px image.Rectangle, w, h int) Rect {
	return Rect{
		X1: float64(px.Min.X) / float64(w),
		Y1: float64(px.Min.Y) / float64(h),
		X2: float64(px.Max.X) / float64(w),
		Y2: float64(px.Max.Y) / float64(h),
	}
}

// RandomPoint draws a point inside the global rect from a normal distribution centred on the
// middle with std deviation side/sigmaDiv, truncated to the rect.
func (r Rect) RandomPoint(rng *rand.Rand, sigmaDiv float64) (float64, float64) {
	g := r.Global()
	return truncatedNormal(rng, g.X1, g.X2, sigmaDiv), truncatedNormal(rng, g.Y1, g.Y2, sigmaDiv)
}

func truncatedNormal(rng *rand.Rand, lo, hi, sigmaDiv float64) float64 {
	if hi <= lo {
		return lo
	}
	mean := (lo + hi) / 2
	sigma := (hi - lo) / sigmaDiv
	for i := 0; i < 16; i++ {
		v := mean + rng.NormFloat64()*sigma
		if v >= lo && v <= hi {
			return v
		}
	}
	return math.Min(hi, math.Max(lo, mean))
}
