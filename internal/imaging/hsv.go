package imaging

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/parallel"
	"github.com/lucasb-eyer/go-colorful"
)

// HueBins is the number of distinct 8-bit hue values (0-179).
const HueBins = 180

// HSV is an image in hue/saturation/value space using 8-bit conventions:
//   - H: 0-179 (degrees halved)
//   - S: 0-255
//   - V: 0-255
//
// Planes are stored row-major with origin at (0,0).
type HSV struct {
	Width  int
	Height int
	H      []uint8
	S      []uint8
	V      []uint8
}

// HSVBound is an inclusive lower or upper bound on the three HSV channels.
type HSVBound struct {
	H, S, V uint8
}

// ToHSV converts an image to HSV.
//
// The image is first normalized to an origin-based NRGBA copy. Rows are
// converted in parallel.
func ToHSV(img image.Image) *HSV {
	src := ToNRGBA(img)
	w, h := src.Rect.Dx(), src.Rect.Dy()

	out := &HSV{
		Width:  w,
		Height: h,
		H:      make([]uint8, w*h),
		S:      make([]uint8, w*h),
		V:      make([]uint8, w*h),
	}

	parallel.Line(h, func(start, end int) {
		for y := start; y < end; y++ {
			row := src.Pix[y*src.Stride:]
			for x := 0; x < w; x++ {
				p := row[x*4 : x*4+3 : x*4+3]
				hh, ss, vv := hsv8(p[0], p[1], p[2])
				i := y*w + x
				out.H[i], out.S[i], out.V[i] = hh, ss, vv
			}
		}
	})

	return out
}

// hsv8 converts 8-bit RGB to 8-bit HSV.
func hsv8(r, g, b uint8) (uint8, uint8, uint8) {
	c := colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
	h, s, v := c.Hsv()

	hue := int(math.Round(h / 2))
	if hue >= HueBins {
		hue -= HueBins
	}
	return uint8(hue), uint8(math.Round(s * 255)), uint8(math.Round(v * 255))
}

// HueHistogram counts pixels per hue value.
func (m *HSV) HueHistogram() [HueBins]int {
	var hist [HueBins]int
	for _, h := range m.H {
		hist[h]++
	}
	return hist
}

// PeakHue returns the most frequent hue. The lowest hue wins ties.
func PeakHue(hist [HueBins]int) int {
	peak := 0
	for h, n := range hist {
		if n > hist[peak] {
			peak = h
		}
	}
	return peak
}

// InRange returns a mask that is 255 where every channel lies within
// [lo, hi] inclusive and 0 elsewhere.
func (m *HSV) InRange(lo, hi HSVBound) *image.Gray {
	mask := image.NewGray(image.Rect(0, 0, m.Width, m.Height))

	parallel.Line(m.Height, func(start, end int) {
		for y := start; y < end; y++ {
			for x := 0; x < m.Width; x++ {
				i := y*m.Width + x
				if m.H[i] >= lo.H && m.H[i] <= hi.H &&
					m.S[i] >= lo.S && m.S[i] <= hi.S &&
					m.V[i] >= lo.V && m.V[i] <= hi.V {
					mask.Pix[y*mask.Stride+x] = 255
				}
			}
		}
	})

	return mask
}
