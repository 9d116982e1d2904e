package mask

import (
	"image"
	"sort"

	"github.com/pkg/errors"

	"github.com/framevision/go-vision/images"
)

// ContourPolicy selects how the per-component contours of a detection's mask
// are merged into the single outer polygon reported for the detection.
type ContourPolicy int

const (
	// OuterLargestContour rasterizes every component contour into one bitmap,
	// retraces it, and keeps the contour enclosing the largest area. This
	// matches reference implementations built on contour-finding libraries.
	OuterLargestContour ContourPolicy = iota

	// OuterConvexHull returns the convex hull of all contour points. Cheaper
	// and tighter for convex shapes, but bridges concavities.
	OuterConvexHull
)

// Polygon is a closed contour in mask pixel coordinates. The closing edge
// from the last point back to the first is implicit.
type Polygon []image.Point

// Area returns the enclosed area via the shoelace formula, independent of
// winding direction.
func (p Polygon) Area() float64 {
	if len(p) < 3 {
		return 0
	}
	var sum float64
	for i, pt := range p {
		next := p[(i+1)%len(p)]
		sum += float64(pt.X)*float64(next.Y) - float64(next.X)*float64(pt.Y)
	}
	if sum < 0 {
		sum = -sum
	}
	return sum / 2
}

// ExtractPolygons binarizes a decoded mask, traces the boundary of every
// foreground component, clips the boundary points to the detection's region,
// and merges the surviving contours into one outer polygon per the policy.
//
// Arguments:
//   - m: decoded mask at prototype resolution.
//   - region: the detection's rectangle in mask pixel coordinates; boundary
//     points outside it are discarded before merging.
//   - threshold: binarization cutoff, strictly-greater-than.
//   - policy: outer polygon construction strategy.
//
// Returns:
//   - The outer polygon, or nil when no foreground pixel survives clipping.
//   - An error for an unknown policy.
func ExtractPolygons(m *Mask, region images.Rect, threshold float32, policy ContourPolicy) (Polygon, error) {
	bitmap := Binarize(m, threshold)
	contours := TraceContours(bitmap, m.Width, m.Height)
	if len(contours) == 0 {
		return nil, nil
	}

	var clipped [][]image.Point
	for _, contour := range contours {
		var kept []image.Point
		for _, pt := range contour {
			if region.Contains(float32(pt.X), float32(pt.Y)) {
				kept = append(kept, pt)
			}
		}
		if len(kept) > 0 {
			clipped = append(clipped, kept)
		}
	}
	if len(clipped) == 0 {
		return nil, nil
	}

	switch policy {
	case OuterLargestContour:
		return LargestRetracedContour(clipped, m.Width, m.Height), nil
	case OuterConvexHull:
		var all []image.Point
		for _, contour := range clipped {
			all = append(all, contour...)
		}
		return ConvexHull(all), nil
	default:
		return nil, errors.Errorf("mask: unknown contour policy %d", policy)
	}
}

// LargestRetracedContour merges contours by rasterizing each as a filled
// polygon into a shared bitmap, retracing the merged bitmap, and returning
// the contour with the largest enclosed area.
func LargestRetracedContour(contours [][]image.Point, width, height int) Polygon {
	bitmap := make([]bool, width*height)
	for _, contour := range contours {
		fillPolygon(bitmap, width, height, contour)
	}

	merged := TraceContours(bitmap, width, height)
	var best Polygon
	var bestArea float64 = -1
	for _, contour := range merged {
		p := Polygon(contour)
		if a := p.Area(); a > bestArea {
			best = p
			bestArea = a
		}
	}
	return best
}

// fillPolygon rasterizes a polygon into the bitmap with even-odd scanline
// filling. Degenerate polygons with fewer than three points are plotted as
// bare pixels so single-pixel components survive the merge.
func fillPolygon(bitmap []bool, width, height int, polygon []image.Point) {
	if len(polygon) < 3 {
		for _, pt := range polygon {
			if pt.X >= 0 && pt.X < width && pt.Y >= 0 && pt.Y < height {
				bitmap[pt.Y*width+pt.X] = true
			}
		}
		return
	}

	minY, maxY := polygon[0].Y, polygon[0].Y
	for _, pt := range polygon[1:] {
		if pt.Y < minY {
			minY = pt.Y
		}
		if pt.Y > maxY {
			maxY = pt.Y
		}
	}
	if minY < 0 {
		minY = 0
	}
	if maxY >= height {
		maxY = height - 1
	}

	for y := minY; y <= maxY; y++ {
		var xs []float64
		for i, pt := range polygon {
			next := polygon[(i+1)%len(polygon)]
			y0, y1 := float64(pt.Y), float64(next.Y)
			if y0 == y1 {
				continue
			}
			fy := float64(y) + 0.5
			if (fy >= y0 && fy < y1) || (fy >= y1 && fy < y0) {
				t := (fy - y0) / (y1 - y0)
				xs = append(xs, float64(pt.X)+t*(float64(next.X)-float64(pt.X)))
			}
		}
		sort.Float64s(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			x0 := int(xs[i] + 0.5)
			x1 := int(xs[i+1] + 0.5)
			if x0 < 0 {
				x0 = 0
			}
			if x1 >= width {
				x1 = width - 1
			}
			for x := x0; x <= x1; x++ {
				bitmap[y*width+x] = true
			}
		}
	}

	// Plot the boundary itself so thin features the scanline misses stay set.
	for _, pt := range polygon {
		if pt.X >= 0 && pt.X < width && pt.Y >= 0 && pt.Y < height {
			bitmap[pt.Y*width+pt.X] = true
		}
	}
}

// ConvexHull returns the convex hull of the points in counterclockwise order
// using the monotone chain algorithm. Collinear points on the hull boundary
// are dropped.
func ConvexHull(points []image.Point) Polygon {
	if len(points) <= 2 {
		hull := make(Polygon, len(points))
		copy(hull, points)
		return hull
	}

	pts := make([]image.Point, len(points))
	copy(pts, points)
	sort.Slice(pts, func(i, j int) bool {
		if pts[i].X != pts[j].X {
			return pts[i].X < pts[j].X
		}
		return pts[i].Y < pts[j].Y
	})

	cross := func(o, a, b image.Point) int {
		return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
	}

	var hull []image.Point
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
	return Polygon(hull[:len(hull)-1])
}
