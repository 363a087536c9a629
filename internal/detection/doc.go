// Package detection provides the shape and line primitives of the vanishing
// point pipeline.
//
// It covers two groups of algorithms:
//
//   - Region shape: external contour tracing of binary masks, contour
//     area and perimeter, Douglas-Peucker polygon approximation, convex
//     hull and convex polygon filling.
//   - Line segments: the SegmentDetector interface with a pure Go
//     progressive probabilistic Hough transform, and an OpenCV-backed
//     implementation compiled in with the "opencv" build tag.
//
// NewDetector returns whichever segment detector the binary was built with.
//
// # Coordinate System
//
// All coordinates use the standard image convention:
//   - Origin (0, 0) at top-left corner
//   - X increases rightward
//   - Y increases downward
//
// Inputs are expected to be anchored at (0,0); the imaging package
// normalizes images this way.
//
// # Limitations
//
// Contour tracing reports outer boundaries only. Holes inside a component
// are ignored, which is all the field extractor needs.
package detection
