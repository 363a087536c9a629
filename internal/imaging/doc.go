// Package imaging provides the pixel-level building blocks of the vanishing
// point pipeline.
//
// This package implements image decoding and a bounded LRU cache, HSV conversion with
// hue histograms and range thresholding, binary mask morphology, grayscale
// conversion, Canny edge detection, PNG encoding of diagnostic images, and
// overlay rendering.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with (0,0) at the top-left corner,
// X increasing rightward and Y increasing downward. Every image produced by
// this package is anchored at (0,0), whatever the bounds of its input.
//
// # Masks
//
// Binary masks are *image.Gray values: 0 is "off", 255 is "on". Consumers
// treat any non-zero value as "on".
//
// # HSV Conventions
//
// HSV values follow the common 8-bit convention:
//   - H: 0-179, degrees halved
//   - S: 0-255
//   - V: 0-255
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. All other operations are
// stateless, never modify their inputs, and can be called concurrently.
// Row loops are spread over CPUs internally.
package imaging
