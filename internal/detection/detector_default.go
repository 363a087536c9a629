//go:build !opencv

package detection

// NewDetector returns the pure Go probabilistic Hough detector.
func NewDetector(p HoughParams) SegmentDetector {
	return NewProbabilisticHough(p)
}
