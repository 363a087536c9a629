package imaging

import (
	"image"
	"image/color"
	"testing"
)

func newMask(w, h int, on ...image.Point) *image.Gray {
	m := image.NewGray(image.Rect(0, 0, w, h))
	for _, p := range on {
		m.SetGray(p.X, p.Y, color.Gray{Y: 255})
	}
	return m
}

func fullMask(w, h int) *image.Gray {
	m := image.NewGray(image.Rect(0, 0, w, h))
	for i := range m.Pix {
		m.Pix[i] = 255
	}
	return m
}

func TestErode_FullMaskKeepsBorder(t *testing.T) {
	m := fullMask(20, 12)
	for _, size := range []int{3, 4, 15} {
		if got := CountNonZero(Erode(m, size)); got != 20*12 {
			t.Errorf("size %d: %d pixels on, want %d", size, got, 20*12)
		}
	}
}

func TestDilate_SinglePixel(t *testing.T) {
	tests := []struct {
		size int
		want int
	}{
		{1, 1},
		{3, 9},
		{4, 16},
		{5, 25},
	}

	for _, tt := range tests {
		m := newMask(20, 20, image.Point{10, 10})
		if got := CountNonZero(Dilate(m, tt.size)); got != tt.want {
			t.Errorf("size %d: %d pixels on, want %d", tt.size, got, tt.want)
		}
	}
}

func TestDilate_ClipsAtBorder(t *testing.T) {
	m := newMask(10, 10, image.Point{0, 0})
	if got := CountNonZero(Dilate(m, 3)); got != 4 {
		t.Errorf("corner dilation = %d pixels, want 4", got)
	}
}

func TestOpen_RemovesSpeck(t *testing.T) {
	m := image.NewGray(image.Rect(0, 0, 30, 30))
	// 10x10 block plus an isolated speck.
	for y := 5; y < 15; y++ {
		for x := 5; x < 15; x++ {
			m.Pix[y*m.Stride+x] = 255
		}
	}
	m.Pix[25*m.Stride+25] = 255

	out := Open(m, 3)
	if out.GrayAt(25, 25).Y != 0 {
		t.Error("speck survived opening")
	}
	if got := CountNonZero(out); got != 100 {
		t.Errorf("block has %d pixels after opening, want 100", got)
	}
}

func TestClose_FillsGap(t *testing.T) {
	m := fullMask(15, 15)
	m.Pix[7*m.Stride+7] = 0

	out := Close(m, 3)
	if out.GrayAt(7, 7).Y == 0 {
		t.Error("single-pixel hole not filled by closing")
	}
	if got := CountNonZero(out); got != 15*15 {
		t.Errorf("%d pixels on, want %d", got, 15*15)
	}
}

func TestAnd(t *testing.T) {
	a := newMask(4, 1, image.Point{0, 0}, image.Point{1, 0})
	b := newMask(4, 1, image.Point{1, 0}, image.Point{2, 0})

	out := And(a, b)
	want := []uint8{0, 255, 0, 0}
	for x, w := range want {
		if got := out.GrayAt(x, 0).Y; got != w {
			t.Errorf("pixel %d = %d, want %d", x, got, w)
		}
	}
}

func TestApplyMask(t *testing.T) {
	img := solidImage(3, 1, color.RGBA{10, 200, 30, 255})
	m := newMask(3, 1, image.Point{1, 0})

	out := ApplyMask(img, m)
	if c := out.NRGBAAt(1, 0); c != (color.NRGBA{10, 200, 30, 255}) {
		t.Errorf("kept pixel = %v", c)
	}
	for _, x := range []int{0, 2} {
		if c := out.NRGBAAt(x, 0); c != (color.NRGBA{0, 0, 0, 255}) {
			t.Errorf("masked pixel %d = %v, want opaque black", x, c)
		}
	}
}
