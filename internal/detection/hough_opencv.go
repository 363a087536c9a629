//go:build opencv

package detection

import (
	"image"
	"log"

	"gocv.io/x/gocv"

	"github.com/ironsheep/vanishing-point-mcp/internal/geometry"
)

// OpenCVHough detects segments with OpenCV's probabilistic Hough transform.
// It is only available in binaries built with the "opencv" tag.
type OpenCVHough struct {
	Params HoughParams
}

// Detect implements SegmentDetector.
func (oh *OpenCVHough) Detect(edges *image.Gray) []geometry.Segment {
	src, err := gocv.ImageGrayToMatGray(edges)
	if err != nil {
		log.Printf("opencv: failed to convert edge map: %v", err)
		return nil
	}
	defer src.Close()

	lines := gocv.NewMat()
	defer lines.Close()

	p := oh.Params
	gocv.HoughLinesPWithParams(src, &lines,
		float32(p.Rho), float32(p.Theta), p.Threshold,
		float32(p.MinLineLength), float32(p.MaxLineGap))

	segments := make([]geometry.Segment, 0, lines.Rows())
	for i := 0; i < lines.Rows(); i++ {
		v := lines.GetVeciAt(i, 0)
		segments = append(segments, geometry.Segment{
			X1: float64(v[0]), Y1: float64(v[1]),
			X2: float64(v[2]), Y2: float64(v[3]),
		})
	}
	return segments
}

// NewDetector returns the OpenCV-backed detector.
func NewDetector(p HoughParams) SegmentDetector {
	return &OpenCVHough{Params: p}
}
