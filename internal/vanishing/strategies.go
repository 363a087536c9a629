package vanishing

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/stat"

	"github.com/ironsheep/vanishing-point-mcp/internal/geometry"
)

// Point is a vanishing point estimate in image coordinates.
type Point struct {
	X float64 `json:"x_van"`
	Y float64 `json:"y_van"`
}

// Vec converts p for use with r2 geometry.
func (p Point) Vec() r2.Vec {
	return r2.Vec{X: p.X, Y: p.Y}
}

func pointOf(v r2.Vec) Point {
	return Point{X: v.X, Y: v.Y}
}

// InputLine is a user-supplied line through two points. Slope is
// accepted for compatibility with existing clients but never used; it is
// always recomputed from the endpoints.
type InputLine struct {
	X1    float64  `json:"x1"`
	Y1    float64  `json:"y1"`
	X2    float64  `json:"x2"`
	Y2    float64  `json:"y2"`
	Slope *float64 `json:"slope,omitempty"`
}

// Segment returns the endpoints of l.
func (l InputLine) Segment() geometry.Segment {
	return geometry.Segment{X1: l.X1, Y1: l.Y1, X2: l.X2, Y2: l.Y2}
}

// Exact intersects the first two lines. Further lines are ignored.
//
// Fewer than two lines, parallel first two lines, or coordinates so large
// the intersection overflows, is an *InputError.
func Exact(lines []InputLine) (Point, error) {
	if len(lines) < 2 {
		return Point{}, &InputError{Err: ErrTooFewLines}
	}

	v, ok := geometry.Intersect(lines[0].Segment().Line(), lines[1].Segment().Line())
	if !ok {
		return Point{}, &InputError{Err: ErrParallelLines}
	}
	if !finite(v) {
		return Point{}, &InputError{Err: ErrNonFinite}
	}
	return pointOf(v), nil
}

// Averaged returns the mean of the intersections of every pair of lines.
// Parallel pairs are skipped.
//
// Fewer than two lines, or no intersecting pair at all, is an *InputError.
func Averaged(lines []InputLine) (Point, error) {
	if len(lines) < 2 {
		return Point{}, &InputError{Err: ErrTooFewLines}
	}

	var xs, ys []float64
	for i := 0; i < len(lines); i++ {
		li := lines[i].Segment().Line()
		for j := i + 1; j < len(lines); j++ {
			if v, ok := geometry.Intersect(li, lines[j].Segment().Line()); ok {
				xs = append(xs, v.X)
				ys = append(ys, v.Y)
			}
		}
	}
	if len(xs) == 0 {
		return Point{}, &InputError{Err: ErrNoIntersections}
	}

	p := Point{X: stat.Mean(xs, nil), Y: stat.Mean(ys, nil)}
	if !finite(p.Vec()) {
		return Point{}, &InputError{Err: ErrNonFinite}
	}
	return p, nil
}

func finite(v r2.Vec) bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) && !math.IsNaN(v.Y) && !math.IsInf(v.Y, 0)
}
