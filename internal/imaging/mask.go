package imaging

import (
	"image"

	"github.com/anthonynsimon/bild/parallel"
)

// Binary masks in this package are *image.Gray values anchored at (0,0)
// where 0 means "off" and any non-zero value means "on". Producers always
// write 255 for "on".

// Erode applies a size×size square erosion.
//
// Pixels outside the image are ignored rather than treated as background,
// so a mask that is "on" everywhere stays "on" everywhere.
func Erode(mask *image.Gray, size int) *image.Gray {
	return morph(mask, size, func(a, b uint8) uint8 {
		if b < a {
			return b
		}
		return a
	})
}

// Dilate applies a size×size square dilation. Pixels outside the image are ignored.
func Dilate(mask *image.Gray, size int) *image.Gray {
	return morph(mask, size, func(a, b uint8) uint8 {
		if b > a {
			return b
		}
		return a
	})
}

// Open is erosion followed by dilation. It removes specks smaller than the kernel.
func Open(mask *image.Gray, size int) *image.Gray {
	return Dilate(Erode(mask, size), size)
}

// Close is dilation followed by erosion. It fills gaps smaller than the kernel.
func Close(mask *image.Gray, size int) *image.Gray {
	return Erode(Dilate(mask, size), size)
}

// morph runs a separable square rank filter: a horizontal pass then a
// vertical pass. The window spans [-anchor, size-1-anchor] with
// anchor = size/2.
func morph(mask *image.Gray, size int, pick func(a, b uint8) uint8) *image.Gray {
	w, h := mask.Rect.Dx(), mask.Rect.Dy()
	if size <= 1 || w == 0 || h == 0 {
		out := image.NewGray(image.Rect(0, 0, w, h))
		for y := 0; y < h; y++ {
			copy(out.Pix[y*out.Stride:y*out.Stride+w], mask.Pix[y*mask.Stride:])
		}
		return out
	}

	lo := -(size / 2)
	hi := size - 1 + lo

	tmp := image.NewGray(image.Rect(0, 0, w, h))
	parallel.Line(h, func(start, end int) {
		for y := start; y < end; y++ {
			src := mask.Pix[y*mask.Stride:]
			dst := tmp.Pix[y*tmp.Stride:]
			for x := 0; x < w; x++ {
				x0, x1 := max(x+lo, 0), min(x+hi, w-1)
				v := src[x0]
				for k := x0 + 1; k <= x1; k++ {
					v = pick(v, src[k])
				}
				dst[x] = v
			}
		}
	})

	out := image.NewGray(image.Rect(0, 0, w, h))
	parallel.Line(h, func(start, end int) {
		for y := start; y < end; y++ {
			y0, y1 := max(y+lo, 0), min(y+hi, h-1)
			dst := out.Pix[y*out.Stride:]
			for x := 0; x < w; x++ {
				v := tmp.Pix[y0*tmp.Stride+x]
				for k := y0 + 1; k <= y1; k++ {
					v = pick(v, tmp.Pix[k*tmp.Stride+x])
				}
				dst[x] = v
			}
		}
	})

	return out
}

// And returns the per-pixel intersection of two equally sized masks.
func And(a, b *image.Gray) *image.Gray {
	w, h := a.Rect.Dx(), a.Rect.Dy()
	out := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h && y < b.Rect.Dy(); y++ {
		for x := 0; x < w && x < b.Rect.Dx(); x++ {
			if a.Pix[y*a.Stride+x] != 0 && b.Pix[y*b.Stride+x] != 0 {
				out.Pix[y*out.Stride+x] = 255
			}
		}
	}
	return out
}

// CountNonZero returns the number of "on" pixels.
func CountNonZero(mask *image.Gray) int {
	n := 0
	w, h := mask.Rect.Dx(), mask.Rect.Dy()
	for y := 0; y < h; y++ {
		for _, v := range mask.Pix[y*mask.Stride : y*mask.Stride+w] {
			if v != 0 {
				n++
			}
		}
	}
	return n
}

// ApplyMask returns a copy of img with every pixel outside mask set to
// opaque black.
func ApplyMask(img image.Image, mask *image.Gray) *image.NRGBA {
	src := ToNRGBA(img)
	w, h := src.Rect.Dx(), src.Rect.Dy()
	out := image.NewNRGBA(image.Rect(0, 0, w, h))

	parallel.Line(h, func(start, end int) {
		for y := start; y < end; y++ {
			for x := 0; x < w; x++ {
				d := y*out.Stride + x*4
				if y < mask.Rect.Dy() && x < mask.Rect.Dx() && mask.Pix[y*mask.Stride+x] != 0 {
					copy(out.Pix[d:d+4], src.Pix[y*src.Stride+x*4:])
					continue
				}
				out.Pix[d+3] = 255
			}
		}
	})

	return out
}
