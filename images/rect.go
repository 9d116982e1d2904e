// Package images - Geometry primitives shared by the postprocessing pipeline.
package images

import "github.com/chewxy/math32"

// Rect is an axis-aligned box: top-left corner plus extent, in whatever
// coordinate space the pipeline stage works in (raw model units, normalized
// [0,1], or mask pixels). A rectangle with a non-positive extent in either
// axis is empty and never overlaps anything.
type Rect struct {
	X, Y, Width, Height float32
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Area returns Width*Height.
func (r Rect) Area() float32 {
	return r.Width * r.Height
}

// Intersect returns the overlapping region of two rectangles, or the zero
// Rect when the computed overlap has non-positive extent in either axis.
func (r Rect) Intersect(o Rect) Rect {
	x1 := math32.Max(r.X, o.X)
	y1 := math32.Max(r.Y, o.Y)
	x2 := math32.Min(r.X+r.Width, o.X+o.Width)
	y2 := math32.Min(r.Y+r.Height, o.Y+o.Height)
	if x2 <= x1 || y2 <= y1 {
		return Rect{}
	}
	return Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

// Union returns the area covered by both rectangles combined, via
// inclusion-exclusion so the overlap is not double-counted.
func (r Rect) Union(o Rect) float32 {
	return r.Area() + o.Area() - r.Intersect(o).Area()
}

// IoU returns the intersection-over-union of two rectangles in [0, 1].
//
// IoU is the standard overlap metric for suppression and matching:
// 1.0 means identical boxes, 0.0 means disjoint. Pairs whose union has no
// area report 0 rather than dividing by zero.
func (r Rect) IoU(o Rect) float32 {
	union := r.Union(o)
	if union <= 0 {
		return 0
	}
	return r.Intersect(o).Area() / union
}

// Contains reports whether the point lies inside the rectangle, with the
// top and left edges inclusive and the bottom and right edges exclusive.
func (r Rect) Contains(x, y float32) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}
