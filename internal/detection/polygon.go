package detection

import (
	"image"
	"math"
	"sort"
)

// ApproxPolygon simplifies a closed contour with the Douglas-Peucker
// algorithm. Points farther than epsilon from the simplified outline are
// kept.
//
// The contour is split at the point farthest from its first point, and
// both halves are simplified independently, so the result does not depend
// on an arbitrary choice of chord.
func ApproxPolygon(c Contour, epsilon float64) []image.Point {
	n := len(c)
	if n < 3 {
		return append([]image.Point(nil), c...)
	}

	far, farDist := 0, -1.0
	for i := 1; i < n; i++ {
		d := sqDist(c[0], c[i])
		if d > farDist {
			far, farDist = i, d
		}
	}
	if farDist == 0 {
		return []image.Point{c[0]}
	}

	first := douglasPeucker(c[:far+1], epsilon)
	second := douglasPeucker(append(append([]image.Point(nil), c[far:]...), c[0]), epsilon)

	out := make([]image.Point, 0, len(first)+len(second))
	out = append(out, first[:len(first)-1]...)
	out = append(out, second[:len(second)-1]...)
	return out
}

// douglasPeucker simplifies an open polyline, always keeping both endpoints.
func douglasPeucker(pts []image.Point, epsilon float64) []image.Point {
	if len(pts) < 3 {
		return append([]image.Point(nil), pts...)
	}

	keep := make([]bool, len(pts))
	keep[0], keep[len(pts)-1] = true, true

	type span struct{ lo, hi int }
	stack := []span{{0, len(pts) - 1}}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		idx, dmax := -1, epsilon
		for i := s.lo + 1; i < s.hi; i++ {
			if d := distToSegment(pts[i], pts[s.lo], pts[s.hi]); d > dmax {
				idx, dmax = i, d
			}
		}
		if idx < 0 {
			continue
		}
		keep[idx] = true
		stack = append(stack, span{s.lo, idx}, span{idx, s.hi})
	}

	out := make([]image.Point, 0, len(pts))
	for i, k := range keep {
		if k {
			out = append(out, pts[i])
		}
	}
	return out
}

// distToSegment is the distance from p to the line through a and b, or to
// a itself when a == b.
func distToSegment(p, a, b image.Point) float64 {
	dx, dy := float64(b.X-a.X), float64(b.Y-a.Y)
	norm := math.Hypot(dx, dy)
	if norm == 0 {
		return math.Sqrt(sqDist(p, a))
	}
	return math.Abs(dx*float64(a.Y-p.Y)-dy*float64(a.X-p.X)) / norm
}

func sqDist(a, b image.Point) float64 {
	dx, dy := float64(a.X-b.X), float64(a.Y-b.Y)
	return dx*dx + dy*dy
}

// ConvexHull returns the convex hull of points using Andrew's monotone
// chain. Collinear points on the hull boundary are dropped.
func ConvexHull(points []image.Point) []image.Point {
	if len(points) < 3 {
		return append([]image.Point(nil), points...)
	}

	pts := append([]image.Point(nil), points...)
	sort.Slice(pts, func(i, j int) bool {
		if pts[i].X != pts[j].X {
			return pts[i].X < pts[j].X
		}
		return pts[i].Y < pts[j].Y
	})

	cross := func(o, a, b image.Point) int {
		return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
	}

	hull := make([]image.Point, 0, 2*len(pts))
	for _, p := range pts {
		for len(hull) >= 2 && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}

	lower := len(hull) + 1
	for i := len(pts) - 2; i >= 0; i-- {
		p := pts[i]
		for len(hull) >= lower && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}

	// The last point repeats the first.
	return hull[:len(hull)-1]
}

// FillConvexPolygon sets every pixel of mask inside or on the boundary of
// the convex polygon to value. Degenerate polygons (a point or a segment)
// are rasterized as such. Pixels outside the mask are skipped.
func FillConvexPolygon(mask *image.Gray, poly []image.Point, value uint8) {
	w, h := mask.Rect.Dx(), mask.Rect.Dy()
	set := func(x, y int) {
		if x >= 0 && y >= 0 && x < w && y < h {
			mask.Pix[y*mask.Stride+x] = value
		}
	}

	switch len(poly) {
	case 0:
		return
	case 1:
		set(poly[0].X, poly[0].Y)
		return
	case 2:
		drawLine(poly[0], poly[1], set)
		return
	}

	minX, minY := poly[0].X, poly[0].Y
	maxX, maxY := minX, minY
	for _, p := range poly[1:] {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}
	minX, minY = max(minX, 0), max(minY, 0)
	maxX, maxY = min(maxX, w-1), min(maxY, h-1)

	n := len(poly)
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			pos, neg := false, false
			for i := 0; i < n; i++ {
				a, b := poly[i], poly[(i+1)%n]
				c := (b.X-a.X)*(y-a.Y) - (b.Y-a.Y)*(x-a.X)
				if c > 0 {
					pos = true
				} else if c < 0 {
					neg = true
				}
			}
			if !(pos && neg) {
				set(x, y)
			}
		}
	}
}

// drawLine rasterizes a segment with Bresenham's algorithm.
func drawLine(a, b image.Point, set func(x, y int)) {
	dx, dy := abs(b.X-a.X), -abs(b.Y-a.Y)
	sx, sy := 1, 1
	if a.X > b.X {
		sx = -1
	}
	if a.Y > b.Y {
		sy = -1
	}

	err := dx + dy
	x, y := a.X, a.Y
	for {
		set(x, y)
		if x == b.X && y == b.Y {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
