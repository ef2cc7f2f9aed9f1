package vision

import (
	"image"

	"github.com/disintegration/imaging"

	"github.com/tmarenko/mff-auto-sub000/internal/constants"
)

const dataRange = 255.0

var (
	ssimC1 = (0.01 * dataRange) * (0.01 * dataRange)
	ssimC2 = (0.03 * dataRange) * (0.03 * dataRange)
)

// SSIM resizes both images to their common maximum dimensions, converts them to gray and returns
// the mean structural similarity over a sliding 7x7 window with sample covariance.
func SSIM(a, b image.Image) float64 {
	ab, bb := a.Bounds(), b.Bounds()
	w := max(ab.Dx(), bb.Dx(), constants.SSIMWindow)
	h := max(ab.Dy(), bb.Dy(), constants.SSIMWindow)

	ga := grayPlane(a, w, h)
	gb := grayPlane(b, w, h)
	return meanSSIM(ga, gb, w, h, constants.SSIMWindow)
}

// grayPlane resizes img to w x h (if needed) and returns its luminance as floats.
func grayPlane(img image.Image, w, h int) []float64 {
	b := img.Bounds()
	if b.Dx() != w || b.Dy() != h {
		img = imaging.Resize(img, w, h, imaging.Linear)
	}
	gray := imaging.Grayscale(img)
	out := make([]float64, w*h)
	for y := 0; y < h; y++ {
		row := gray.Pix[y*gray.Stride:]
		for x := 0; x < w; x++ {
			out[y*w+x] = float64(row[x*4])
		}
	}
	return out
}

// meanSSIM averages the SSIM map over every window that fits entirely inside the image.
func meanSSIM(a, b []float64, w, h, win int) float64 {
	sa := newIntegral(a, w, h)
	sb := newIntegral(b, w, h)
	saa := newIntegralPair(a, a, w, h)
	sbb := newIntegralPair(b, b, w, h)
	sab := newIntegralPair(a, b, w, h)

	np := float64(win * win)
	covNorm := np / (np - 1)

	var total float64
	var count int
	for y := 0; y+win <= h; y++ {
		for x := 0; x+win <= w; x++ {
			ux := sa.sum(x, y, win) / np
			uy := sb.sum(x, y, win) / np
			uxx := saa.sum(x, y, win) / np
			uyy := sbb.sum(x, y, win) / np
			uxy := sab.sum(x, y, win) / np

			vx := covNorm * (uxx - ux*ux)
			vy := covNorm * (uyy - uy*uy)
			vxy := covNorm * (uxy - ux*uy)

			num := (2*ux*uy + ssimC1) * (2*vxy + ssimC2)
			den := (ux*ux + uy*uy + ssimC1) * (vx + vy + ssimC2)
			total += num / den
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return total / float64(count)
}

// integral is a summed-area table with a zero row and column.
type integral struct {
	w   int
	sat []float64
}

func newIntegral(a []float64, w, h int) integral {
	return buildIntegral(w, h, func(i int) float64 { return a[i] })
}

func newIntegralPair(a, b []float64, w, h int) integral {
	return buildIntegral(w, h, func(i int) float64 { return a[i] * b[i] })
}

func buildIntegral(w, h int, value func(i int) float64) integral {
	stride := w + 1
	sat := make([]float64, stride*(h+1))
	for y := 1; y <= h; y++ {
		var rowSum float64
		for x := 1; x <= w; x++ {
			rowSum += value((y-1)*w + (x - 1))
			sat[y*stride+x] = sat[(y-1)*stride+x] + rowSum
		}
	}
	return integral{w: stride, sat: sat}
}

func (in integral) sum(x, y, win int) float64 {
	x2, y2 := x+win, y+win
	return in.sat[y2*in.w+x2] - in.sat[y*in.w+x2] - in.sat[y2*in.w+x] + in.sat[y*in.w+x]
}
