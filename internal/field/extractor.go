package field

import (
	"image"

	"github.com/ironsheep/vanishing-point-mcp/internal/detection"
	"github.com/ironsheep/vanishing-point-mcp/internal/imaging"
)

const (
	// DefaultHueRange is the half-width of the hue band around the peak.
	DefaultHueRange = 10

	// DefaultMorphSize is the side of the square structuring element.
	DefaultMorphSize = 15
)

// Region is the outcome of field extraction.
type Region struct {
	// Mask is 255 inside the field and 0 elsewhere.
	Mask *image.Gray

	// PeakHue is the dominant 8-bit hue (0-179).
	PeakHue int

	// Hull is the filled polygon, or nil when no region survived cleaning
	// and Mask is the cleaned threshold mask itself.
	Hull []image.Point
}

// Extract finds the field region of img.
//
// Steps:
//  1. HSV conversion and a 180-bin hue histogram; the peak hue wins,
//     lowest hue on ties.
//  2. Threshold on hue alone to [peak-hueRange, peak+hueRange], clipped
//     to 0-179.
//  3. Morphological opening then closing with a morphSize square.
//  4. The largest external contour is simplified (epsilon 1% of its
//     perimeter), replaced by its convex hull and filled.
//
// If no contour survives step 3 the cleaned mask is returned as is.
func Extract(img image.Image, hueRange, morphSize int) *Region {
	hsv := imaging.ToHSV(img)
	peak := imaging.PeakHue(hsv.HueHistogram())

	lo := max(0, peak-hueRange)
	hi := min(imaging.HueBins-1, peak+hueRange)
	mask := hsv.InRange(
		imaging.HSVBound{H: uint8(lo), S: 0, V: 0},
		imaging.HSVBound{H: uint8(hi), S: 255, V: 255},
	)

	cleaned := imaging.Close(imaging.Open(mask, morphSize), morphSize)

	largest, ok := detection.Largest(detection.FindExternalContours(cleaned))
	if !ok {
		return &Region{Mask: cleaned, PeakHue: peak}
	}

	approx := detection.ApproxPolygon(largest, 0.01*largest.Perimeter())
	hull := detection.ConvexHull(approx)

	out := image.NewGray(cleaned.Rect)
	detection.FillConvexPolygon(out, hull, 255)

	return &Region{Mask: out, PeakHue: peak, Hull: hull}
}

// ExtractMask returns only the field mask of img.
func ExtractMask(img image.Image, hueRange, morphSize int) *image.Gray {
	return Extract(img, hueRange, morphSize).Mask
}
