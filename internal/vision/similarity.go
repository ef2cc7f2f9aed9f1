package vision

import (
	"image/color"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"github.com/tmarenko/mff-auto-sub000/internal/constants"
)

// StringDistance is the uppercased Levenshtein distance normalized by the length of ref.
func StringDistance(ref, candidate string) float64 {
	ref, candidate = strings.ToUpper(ref), strings.ToUpper(candidate)
	n := utf8.RuneCountInString(ref)
	if n == 0 {
		if candidate == "" {
			return 0
		}
		return math.Inf(1)
	}
	return float64(levenshtein.ComputeDistance(ref, candidate)) / float64(n)
}

// IsStringsSimilar reports whether candidate is within overlap of ref.
func IsStringsSimilar(ref, candidate string, overlap float64) bool {
	return StringDistance(ref, candidate) <= overlap
}

// RGB is a plain colour triple.
type RGB struct {
	R, G, B uint8
}

// ToRGB drops alpha from any colour.
func ToRGB(c color.Color) RGB {
	r, g, b, _ := c.RGBA()
	return RGB{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)}
}

// ColorDistance is the Euclidean RGB distance divided by 510.
func ColorDistance(a, b RGB) float64 {
	dr := float64(a.R) - float64(b.R)
	dg := float64(a.G) - float64(b.G)
	db := float64(a.B) - float64(b.B)
	return math.Sqrt(dr*dr+dg*dg+db*db) / constants.ColorDistanceScale
}

// IsColorSimilar reports whether two colours are within the default tolerance.
func IsColorSimilar(a, b RGB) bool {
	return ColorDistance(a, b) <= constants.ColorTolerance
}

// ColorRange is an inclusive per-channel range.
type ColorRange struct {
	Low  RGB `yaml:"low"`
	High RGB `yaml:"high"`
}

// Contains reports whether c lies inside the range on every channel.
func (cr ColorRange) Contains(c RGB) bool {
	return c.R >= cr.Low.R && c.R <= cr.High.R &&
		c.G >= cr.Low.G && c.G <= cr.High.G &&
		c.B >= cr.Low.B && c.B <= cr.High.B
}
