// Package geometry holds the line algebra shared by every vanishing point
// strategy: segments, candidate lines and intersections of infinite lines.
//
// # Coordinate System
//
// Coordinates are image pixel coordinates: origin at the top-left corner,
// X increasing rightward and Y increasing downward. Intersection points are
// not clipped to the frame; a vanishing point above the visible image has a
// negative Y.
//
// # Infinite Lines
//
// A segment from (x1,y1) to (x2,y2) defines the infinite line
//
//	A*x + B*y = C,  A = y2-y1, B = x1-x2, C = A*x1 + B*y1
//
// Two lines intersect when the determinant A1*B2 - A2*B1 is at least
// ParallelEpsilon in magnitude. Smaller determinants are treated as
// parallel and yield no point.
package geometry
