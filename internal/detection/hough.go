package detection

import (
	"image"
	"math"
	"math/rand/v2"

	"github.com/ironsheep/vanishing-point-mcp/internal/geometry"
)

// SegmentDetector finds straight line segments in a binary edge map.
type SegmentDetector interface {
	Detect(edges *image.Gray) []geometry.Segment
}

// HoughParams configures probabilistic Hough segment detection.
type HoughParams struct {
	// Rho is the distance resolution of the accumulator in pixels.
	Rho float64 `json:"rho"`

	// Theta is the angle resolution of the accumulator in radians.
	Theta float64 `json:"theta"`

	// Threshold is the minimum number of votes for a line.
	Threshold int `json:"threshold"`

	// MinLineLength is the minimum span of an accepted segment, measured
	// along the dominant axis.
	MinLineLength float64 `json:"min_line_length"`

	// MaxLineGap is the largest run of missing pixels bridged while
	// following a line.
	MaxLineGap int `json:"max_line_gap"`
}

// DefaultHoughParams returns parameters tuned for field markings.
func DefaultHoughParams() HoughParams {
	return HoughParams{
		Rho:           1,
		Theta:         math.Pi / 180,
		Threshold:     150,
		MinLineLength: 50,
		MaxLineGap:    50,
	}
}

// DefaultSeed fixes the pixel visiting order so detection is repeatable.
const DefaultSeed uint64 = 0x5eed

// ProbabilisticHough implements the progressive probabilistic Hough transform.
//
// # Algorithm
//
//  1. Collect every edge pixel and shuffle the visiting order.
//  2. For each pixel still present, add its votes to the (rho, theta)
//     accumulator. If the best bin for this pixel reaches Threshold, follow
//     the corresponding line through the pixel in both directions,
//     bridging at most MaxLineGap missing pixels.
//  3. Every pixel on the followed line is removed from the edge set. If
//     the line spans at least MinLineLength in x or y it is reported and
//     its pixels' votes are withdrawn.
//
// Output is deterministic for a given edge map and Seed.
type ProbabilisticHough struct {
	Params HoughParams
	Seed   uint64
}

// NewProbabilisticHough creates a detector with the default seed.
func NewProbabilisticHough(p HoughParams) *ProbabilisticHough {
	return &ProbabilisticHough{Params: p, Seed: DefaultSeed}
}

// Detect implements SegmentDetector.
func (ph *ProbabilisticHough) Detect(edges *image.Gray) []geometry.Segment {
	p := ph.Params
	w, h := edges.Rect.Dx(), edges.Rect.Dy()
	if w == 0 || h == 0 || p.Rho <= 0 || p.Theta <= 0 {
		return nil
	}

	numAngle := int(math.Round(math.Pi / p.Theta))
	if numAngle < 1 {
		numAngle = 1
	}
	numRho := int(math.Round(float64((w+h)*2+1) / p.Rho))
	offset := (numRho - 1) / 2

	cosT := make([]float64, numAngle)
	sinT := make([]float64, numAngle)
	for n := 0; n < numAngle; n++ {
		cosT[n] = math.Cos(float64(n)*p.Theta) / p.Rho
		sinT[n] = math.Sin(float64(n)*p.Theta) / p.Rho
	}

	acc := make([]int32, numAngle*numRho)
	rhoBin := func(x, y, n int) int {
		r := int(math.Round(float64(x)*cosT[n]+float64(y)*sinT[n])) + offset
		return min(max(r, 0), numRho-1)
	}

	present := make([]bool, w*h)
	var points []image.Point
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if edges.Pix[y*edges.Stride+x] != 0 {
				present[y*w+x] = true
				points = append(points, image.Point{X: x, Y: y})
			}
		}
	}

	rng := rand.New(rand.NewPCG(ph.Seed, ph.Seed^0x9e3779b97f4a7c15))
	rng.Shuffle(len(points), func(i, j int) { points[i], points[j] = points[j], points[i] })

	var segments []geometry.Segment

	for _, pt := range points {
		if !present[pt.Y*w+pt.X] {
			continue
		}

		best, bestN := int32(p.Threshold-1), -1
		for n := 0; n < numAngle; n++ {
			i := rhoBin(pt.X, pt.Y, n)*numAngle + n
			acc[i]++
			if acc[i] > best {
				best, bestN = acc[i], n
			}
		}
		if bestN < 0 {
			continue
		}

		walk := newLineWalk(pt, p.Theta*float64(bestN))

		var ends [2]image.Point
		for k := 0; k < 2; k++ {
			gap := 0
			walk.each(k, w, h, func(q image.Point) bool {
				if present[q.Y*w+q.X] {
					gap = 0
					ends[k] = q
				} else if gap++; gap > p.MaxLineGap {
					return false
				}
				return true
			})
		}

		good := float64(abs(ends[1].X-ends[0].X)) >= p.MinLineLength ||
			float64(abs(ends[1].Y-ends[0].Y)) >= p.MinLineLength

		for k := 0; k < 2; k++ {
			walk.each(k, w, h, func(q image.Point) bool {
				if i := q.Y*w + q.X; present[i] {
					if good {
						for n := 0; n < numAngle; n++ {
							acc[rhoBin(q.X, q.Y, n)*numAngle+n]--
						}
					}
					present[i] = false
				}
				return q != ends[k]
			})
		}

		if good {
			segments = append(segments, geometry.Segment{
				X1: float64(ends[0].X), Y1: float64(ends[0].Y),
				X2: float64(ends[1].X), Y2: float64(ends[1].Y),
			})
		}
	}

	return segments
}

// lineWalk steps pixel by pixel along a line through an origin pixel. The
// axis with the larger direction component advances by exactly one pixel
// per step; the other accumulates fractional steps.
type lineWalk struct {
	x0, y0 float64
	dx, dy float64
	xMajor bool
}

func newLineWalk(origin image.Point, theta float64) lineWalk {
	a, b := -math.Sin(theta), math.Cos(theta)

	lw := lineWalk{x0: float64(origin.X), y0: float64(origin.Y)}
	if math.Abs(a) > math.Abs(b) {
		lw.xMajor = true
		lw.dx = math.Copysign(1, a)
		lw.dy = b / math.Abs(a)
		lw.y0 += 0.5
	} else {
		lw.dy = math.Copysign(1, b)
		lw.dx = a / math.Abs(b)
		lw.x0 += 0.5
	}
	return lw
}

// each visits pixels starting at the origin, forward for dir 0 and
// backward for dir 1, until leaving the image or fn returns false.
func (lw lineWalk) each(dir, w, h int, fn func(image.Point) bool) {
	dx, dy := lw.dx, lw.dy
	if dir == 1 {
		dx, dy = -dx, -dy
	}

	x, y := lw.x0, lw.y0
	for {
		q := image.Point{X: int(math.Floor(x)), Y: int(math.Floor(y))}
		if q.X < 0 || q.Y < 0 || q.X >= w || q.Y >= h {
			return
		}
		if !fn(q) {
			return
		}
		x += dx
		y += dy
	}
}
