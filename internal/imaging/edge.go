package imaging

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/parallel"
)

// tan(22.5°), the boundary between horizontal and diagonal gradient sectors.
const tan22 = 0.4142135623730950488016887242097

// Canny detects edges in a grayscale image.
//
// The result is a binary mask: 255 on edges, 0 elsewhere. No smoothing is
// applied beforehand; callers that want it should blur first.
//
// # Algorithm
//
//  1. Gradient: 3x3 Sobel operators with replicated borders.
//     Magnitude is |Gx|+|Gy|, or sqrt(Gx²+Gy²) when l2 is set.
//
//  2. Non-maximum suppression: each pixel whose magnitude exceeds low is
//     compared against its two neighbors along the gradient direction,
//     quantized to 0°, 45°, 90° or 135°.
//
//  3. Hysteresis: surviving pixels above high seed edges, which then grow
//     through 8-connected surviving pixels above low.
//
// If low > high the thresholds are swapped.
func Canny(gray *image.Gray, low, high float64, l2 bool) *image.Gray {
	w, h := gray.Rect.Dx(), gray.Rect.Dy()
	out := image.NewGray(image.Rect(0, 0, w, h))
	if w == 0 || h == 0 {
		return out
	}
	if low > high {
		low, high = high, low
	}

	gx := make([]int, w*h)
	gy := make([]int, w*h)
	mag := make([]float64, w*h)

	at := func(x, y int) int {
		return int(gray.Pix[clamp(y, 0, h-1)*gray.Stride+clamp(x, 0, w-1)])
	}

	parallel.Line(h, func(start, end int) {
		for y := start; y < end; y++ {
			for x := 0; x < w; x++ {
				dx := (at(x+1, y-1) + 2*at(x+1, y) + at(x+1, y+1)) -
					(at(x-1, y-1) + 2*at(x-1, y) + at(x-1, y+1))
				dy := (at(x-1, y+1) + 2*at(x, y+1) + at(x+1, y+1)) -
					(at(x-1, y-1) + 2*at(x, y-1) + at(x+1, y-1))

				i := y*w + x
				gx[i], gy[i] = dx, dy
				if l2 {
					mag[i] = math.Sqrt(float64(dx*dx + dy*dy))
				} else {
					mag[i] = float64(abs(dx) + abs(dy))
				}
			}
		}
	})

	magAt := func(x, y int) float64 {
		if x < 0 || y < 0 || x >= w || y >= h {
			return 0
		}
		return mag[y*w+x]
	}

	// Edge states: 0 not an edge, 1 candidate, 2 confirmed.
	state := make([]uint8, w*h)
	var stack []int

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			m := mag[i]
			if m <= low {
				continue
			}

			dx, dy := gx[i], gy[i]
			xs, ys := math.Abs(float64(dx)), math.Abs(float64(dy))
			t22 := xs * tan22

			var keep bool
			switch {
			case ys < t22:
				keep = m > magAt(x-1, y) && m >= magAt(x+1, y)
			case ys > t22+2*xs:
				keep = m > magAt(x, y-1) && m >= magAt(x, y+1)
			default:
				s := 1
				if (dx < 0) != (dy < 0) {
					s = -1
				}
				keep = m > magAt(x-s, y-1) && m > magAt(x+s, y+1)
			}
			if !keep {
				continue
			}

			if m > high {
				state[i] = 2
				stack = append(stack, i)
			} else {
				state[i] = 1
			}
		}
	}

	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		x, y := i%w, i/w

		for ny := y - 1; ny <= y+1; ny++ {
			for nx := x - 1; nx <= x+1; nx++ {
				if nx < 0 || ny < 0 || nx >= w || ny >= h {
					continue
				}
				j := ny*w + nx
				if state[j] == 1 {
					state[j] = 2
					stack = append(stack, j)
				}
			}
		}
	}

	for i, s := range state {
		if s == 2 {
			out.Pix[(i/w)*out.Stride+i%w] = 255
		}
	}
	return out
}

// clamp constrains an integer value to the range [min, max].
func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
