// Package field isolates the playing surface in a camera frame and
// prepares the edge map used for line detection.
//
// Extraction assumes the field is the dominant hue in the frame. The hue
// histogram peak selects a band, morphology cleans it, and the convex
// hull of the largest remaining region becomes the field mask. The
// pre-filter then restricts edge detection to that mask so that stands,
// sky and advertising boards do not contribute lines.
//
// Neither stage fails: degenerate input yields an empty or whole-frame
// mask and an empty edge map.
package field
