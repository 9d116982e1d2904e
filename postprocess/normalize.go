package postprocess

import (
	"github.com/chewxy/math32"

	"github.com/framevision/go-vision/images"
)

func clampUnit(v float32) float32 {
	return math32.Min(1, math32.Max(0, v))
}

// NormalizeRect converts a raw center-format box (cx, cy, w, h in
// model-input-normalized units) into a top-left corner box clamped to the
// unit square. Width and height are re-derived from the clamped corners, so
// the result always satisfies 0 <= x <= x+w <= 1 regardless of the raw
// input magnitude.
func NormalizeRect(box images.Rect) images.Rect {
	x0 := clampUnit(box.X - box.Width/2)
	y0 := clampUnit(box.Y - box.Height/2)
	x1 := clampUnit(box.X + box.Width/2)
	y1 := clampUnit(box.Y + box.Height/2)
	// A negative raw extent can invert the corners.
	if x1 < x0 {
		x1 = x0
	}
	if y1 < y0 {
		y1 = y0
	}
	return images.Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// MaskPixelRect scales a normalized rectangle to prototype-mask pixel
// coordinates: horizontal values by the mask width, vertical by the mask
// height.
func MaskPixelRect(r images.Rect, maskWidth, maskHeight int) images.Rect {
	return images.Rect{
		X:      r.X * float32(maskWidth),
		Y:      r.Y * float32(maskHeight),
		Width:  r.Width * float32(maskWidth),
		Height: r.Height * float32(maskHeight),
	}
}
