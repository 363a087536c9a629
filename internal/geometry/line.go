package geometry

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// ParallelEpsilon is the determinant magnitude below which two lines are
// considered parallel.
const ParallelEpsilon = 1e-9

// Segment is a line segment in image pixel coordinates.
type Segment struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

// Vertical reports whether the segment has an undefined slope.
func (s Segment) Vertical() bool {
	return s.X1 == s.X2
}

// Slope returns dy/dx. It is ±Inf or NaN for vertical segments.
func (s Segment) Slope() float64 {
	return (s.Y2 - s.Y1) / (s.X2 - s.X1)
}

// Length returns the Euclidean length of the segment.
func (s Segment) Length() float64 {
	return math.Hypot(s.X2-s.X1, s.Y2-s.Y1)
}

// Line returns the infinite line through both endpoints.
func (s Segment) Line() Line {
	a := s.Y2 - s.Y1
	b := s.X1 - s.X2
	return Line{A: a, B: b, C: a*s.X1 + b*s.Y1}
}

// Line is an infinite line A*x + B*y = C.
type Line struct {
	A, B, C float64
}

// Residual returns A*x + B*y - C, which is zero for points on the line.
func (l Line) Residual(p r2.Vec) float64 {
	return l.A*p.X + l.B*p.Y - l.C
}

// Determinant returns A1*B2 - A2*B1 for the pair (l, o).
func (l Line) Determinant(o Line) float64 {
	return l.A*o.B - o.A*l.B
}

// Intersect returns the intersection point of two infinite lines.
// The second return value is false when the lines are parallel or nearly so.
func Intersect(l1, l2 Line) (r2.Vec, bool) {
	det := l1.Determinant(l2)
	if math.Abs(det) < ParallelEpsilon {
		return r2.Vec{}, false
	}
	return r2.Vec{
		X: (l2.B*l1.C - l1.B*l2.C) / det,
		Y: (l1.A*l2.C - l2.A*l1.C) / det,
	}, true
}
