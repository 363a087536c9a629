package detection

import (
	"image"
	"math"
)

// Contour is the ordered outer boundary of one 8-connected foreground
// component, in pixel coordinates.
type Contour []image.Point

// moore lists the 8 neighbour offsets in clockwise order, starting east.
// Y grows downward, so "clockwise" is as seen on screen.
var moore = [8]image.Point{
	{1, 0}, {1, 1}, {0, 1}, {-1, 1},
	{-1, 0}, {-1, -1}, {0, -1}, {1, -1},
}

// FindExternalContours returns the outer boundary of every 8-connected
// component of non-zero pixels in mask, in raster order of each
// component's first pixel. Holes are not reported.
//
// # Algorithm
//
//  1. Scan in raster order. The first unlabeled foreground pixel of a
//     component is its top-most, left-most pixel.
//  2. Flood-fill the component so it is not visited again.
//  3. Trace its boundary clockwise with Moore-neighbour tracing, stopping
//     when the start pixel is re-entered in the same direction as the
//     first step.
func FindExternalContours(mask *image.Gray) []Contour {
	w, h := mask.Rect.Dx(), mask.Rect.Dy()
	fg := func(x, y int) bool {
		return x >= 0 && y >= 0 && x < w && y < h && mask.Pix[y*mask.Stride+x] != 0
	}

	visited := make([]bool, w*h)
	var contours []Contour

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if visited[y*w+x] || !fg(x, y) {
				continue
			}
			floodFill(fg, visited, w, image.Point{X: x, Y: y})
			contours = append(contours, traceBoundary(fg, image.Point{X: x, Y: y}, 4*w*h+8))
		}
	}

	return contours
}

// floodFill marks every pixel 8-connected to start as visited.
func floodFill(fg func(x, y int) bool, visited []bool, width int, start image.Point) {
	stack := []image.Point{start}
	visited[start.Y*width+start.X] = true

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for _, d := range moore {
			q := p.Add(d)
			if !fg(q.X, q.Y) || visited[q.Y*width+q.X] {
				continue
			}
			visited[q.Y*width+q.X] = true
			stack = append(stack, q)
		}
	}
}

// traceBoundary follows the outer boundary from start, which must be the
// top-most, left-most pixel of its component.
func traceBoundary(fg func(x, y int) bool, start image.Point, maxSteps int) Contour {
	contour := Contour{start}

	p := start
	from := 5 // entered from the west, so begin the sweep at north-west
	first := -1

	for step := 0; step < maxSteps; step++ {
		dir := -1
		for k := 0; k < 8; k++ {
			d := (from + k) % 8
			q := p.Add(moore[d])
			if fg(q.X, q.Y) {
				dir = d
				break
			}
		}
		if dir < 0 {
			// Isolated pixel.
			return contour
		}

		if p == start {
			if first < 0 {
				first = dir
			} else if dir == first {
				return contour
			}
		}

		p = p.Add(moore[dir])
		if p != start {
			contour = append(contour, p)
		}

		if dir%2 == 0 {
			from = (dir + 7) % 8
		} else {
			from = (dir + 6) % 8
		}
	}

	return contour
}

// Area returns the polygon area enclosed by the contour (shoelace formula).
// Collinear and single-pixel contours have zero area.
func (c Contour) Area() float64 {
	n := len(c)
	if n < 3 {
		return 0
	}

	var sum float64
	for i := 0; i < n; i++ {
		a, b := c[i], c[(i+1)%n]
		sum += float64(a.X*b.Y - b.X*a.Y)
	}
	return math.Abs(sum) / 2
}

// Perimeter returns the length of the closed polyline through the contour.
func (c Contour) Perimeter() float64 {
	n := len(c)
	if n < 2 {
		return 0
	}

	var sum float64
	for i := 0; i < n; i++ {
		a, b := c[i], c[(i+1)%n]
		sum += math.Hypot(float64(b.X-a.X), float64(b.Y-a.Y))
	}
	return sum
}

// Largest returns the contour with the greatest area. The earliest wins
// ties. ok is false when contours is empty.
func Largest(contours []Contour) (Contour, bool) {
	if len(contours) == 0 {
		return nil, false
	}

	best, bestArea := 0, contours[0].Area()
	for i := 1; i < len(contours); i++ {
		if a := contours[i].Area(); a > bestArea {
			best, bestArea = i, a
		}
	}
	return contours[best], true
}
