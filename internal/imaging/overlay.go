package imaging

import (
	"image"
	"image/color"

	"github.com/fogleman/gg"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/ironsheep/vanishing-point-mcp/internal/geometry"
)

// OverlayStyle controls how DrawOverlay renders its annotations.
type OverlayStyle struct {
	LineColor  color.Color
	PointColor color.Color
	LineWidth  float64
}

// DefaultOverlayStyle draws candidate lines in green and the vanishing
// direction in red.
var DefaultOverlayStyle = OverlayStyle{
	LineColor:  color.RGBA{0, 255, 0, 255},
	PointColor: color.RGBA{255, 0, 0, 255},
	LineWidth:  2,
}

// DrawOverlay renders segments over a copy of img. When vp is non-nil a
// line is drawn from the bottom-center of the frame towards it, and a
// marker is placed on it if it falls inside the frame.
//
// The source image is never modified.
func DrawOverlay(img image.Image, segments []geometry.Segment, vp *r2.Vec, style OverlayStyle) image.Image {
	dc := gg.NewContextForImage(ToRGBA(img))
	dc.SetLineWidth(style.LineWidth)

	dc.SetColor(style.LineColor)
	for _, s := range segments {
		dc.DrawLine(s.X1, s.Y1, s.X2, s.Y2)
		dc.Stroke()
	}

	if vp != nil {
		w, h := float64(dc.Width()), float64(dc.Height())
		dc.SetColor(style.PointColor)
		dc.DrawLine(vp.X, vp.Y, w/2, h)
		dc.Stroke()

		if vp.X >= 0 && vp.X < w && vp.Y >= 0 && vp.Y < h {
			dc.DrawCircle(vp.X, vp.Y, 3*style.LineWidth)
			dc.Fill()
		}
	}

	return dc.Image()
}
