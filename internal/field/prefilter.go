package field

import (
	"image"

	"github.com/ironsheep/vanishing-point-mcp/internal/imaging"
)

// HSV bands for grass and for line paint on grass.
var (
	GreenLow  = imaging.HSVBound{H: 36, S: 25, V: 5}
	GreenHigh = imaging.HSVBound{H: 86, S: 255, V: 255}
	WhiteLow  = imaging.HSVBound{H: 0, S: 0, V: 85}
	WhiteHigh = imaging.HSVBound{H: 85, S: 75, V: 255}
)

// EdgeParams configures the Canny stage of the pre-filter.
type EdgeParams struct {
	Low  float64
	High float64
	L2   bool
}

// DefaultEdgeParams returns a very permissive low threshold so that faint
// markings connect to strong ones.
func DefaultEdgeParams() EdgeParams {
	return EdgeParams{Low: 1, High: 150}
}

// PrefilterResult holds every intermediate image of the pre-filter.
// Green and White are informational; only Edges feeds line detection.
// Both bands are limited to the field mask, so saturation-free paint that
// falls outside the green band still shows up in White.
type PrefilterResult struct {
	Masked *image.NRGBA
	Green  *image.Gray
	White  *image.Gray
	Gray   *image.Gray
	Edges  *image.Gray
}

// Prefilter restricts img to fieldMask and detects edges inside it.
func Prefilter(img image.Image, fieldMask *image.Gray, p EdgeParams) *PrefilterResult {
	masked := imaging.ApplyMask(img, fieldMask)

	hsv := imaging.ToHSV(img)
	green := imaging.And(hsv.InRange(GreenLow, GreenHigh), fieldMask)
	white := imaging.And(hsv.InRange(WhiteLow, WhiteHigh), fieldMask)

	gray := imaging.ToGray(masked)
	edges := imaging.Canny(gray, p.Low, p.High, p.L2)

	return &PrefilterResult{
		Masked: masked,
		Green:  green,
		White:  white,
		Gray:   gray,
		Edges:  edges,
	}
}
