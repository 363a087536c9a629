// Package vanishing estimates the vanishing point of a sports-field camera
// view.
//
// Three strategies are available:
//
//   - Exact: the intersection of the first two user-supplied lines.
//   - Averaged: the mean of all pairwise intersections of user-supplied lines.
//   - Automated: Pipeline isolates the field, detects line segments,
//     intersects every pair and takes the centroid of the densest cluster
//     of plausible intersections.
//
// # Errors and absent results
//
// Problems caused by the caller (too few lines, parallel lines, an image
// that is empty or cannot be decoded) are reported as *InputError, which
// outer layers map to client errors. The automated strategy finding no
// estimate is not an error: it returns a nil *Point.
//
// # Coordinates
//
// Points use image coordinates: origin at the top-left, y growing
// downward. A vanishing point above the top edge has a negative y.
package vanishing
