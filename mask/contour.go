package mask

import "image"

// Binarize thresholds a decoded mask into a bitmap. A pixel is foreground
// when its value is strictly greater than the threshold.
func Binarize(m *Mask, threshold float32) []bool {
	bitmap := make([]bool, len(m.Data))
	for i, v := range m.Data {
		bitmap[i] = v > threshold
	}
	return bitmap
}

// Moore neighborhood in clockwise order for a y-down raster, starting west:
// W, NW, N, NE, E, SE, S, SW.
var mooreOffsets = [8]image.Point{
	{-1, 0}, {-1, -1}, {0, -1}, {1, -1},
	{1, 0}, {1, 1}, {0, 1}, {-1, 1},
}

// TraceContours finds the external boundary of every 8-connected foreground
// component in the bitmap using Moore-neighbor tracing. Components are
// discovered in raster scan order; each contour starts at the component's
// topmost-leftmost pixel and runs clockwise.
//
// Arguments:
//   - bitmap: width*height foreground flags in row-major order.
//   - width, height: raster dimensions.
//
// Returns:
//   - One point slice per component. Single-pixel components yield a
//     one-point contour.
func TraceContours(bitmap []bool, width, height int) [][]image.Point {
	if width <= 0 || height <= 0 {
		return nil
	}
	visited := make([]bool, len(bitmap))
	var contours [][]image.Point

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			idx := y*width + x
			if !bitmap[idx] || visited[idx] {
				continue
			}
			contour := traceBoundary(bitmap, width, height, image.Pt(x, y))
			contours = append(contours, contour)
			floodFill(bitmap, visited, width, height, x, y)
		}
	}
	return contours
}

// traceBoundary walks the external boundary clockwise from the start pixel.
// The start is the topmost-leftmost pixel of its component, so the pixel to
// its west is guaranteed background and serves as the initial backtrack.
func traceBoundary(bitmap []bool, width, height int, start image.Point) []image.Point {
	inBounds := func(p image.Point) bool {
		return p.X >= 0 && p.X < width && p.Y >= 0 && p.Y < height
	}
	fg := func(p image.Point) bool {
		return inBounds(p) && bitmap[p.Y*width+p.X]
	}

	contour := []image.Point{start}
	backtrack := image.Pt(start.X-1, start.Y)
	current := start

	// The walk terminates when it reproduces its first step: the same pixel
	// entered with the same backtrack. The cap guards against degenerate
	// inputs; a boundary visits each pixel at most four times.
	var firstCurrent, firstBacktrack image.Point
	maxSteps := 4 * (width*height + 1)
	for step := 0; step < maxSteps; step++ {
		// Resume the clockwise scan from the neighbor after the backtrack.
		startDir := 0
		for d, off := range mooreOffsets {
			if current.Add(off) == backtrack {
				startDir = (d + 1) % 8
				break
			}
		}

		found := false
		prev := backtrack
		for i := 0; i < 8; i++ {
			d := (startDir + i) % 8
			next := current.Add(mooreOffsets[d])
			if fg(next) {
				backtrack = prev
				current = next
				found = true
				break
			}
			prev = next
		}
		if !found {
			// Isolated pixel.
			break
		}
		if step == 0 {
			firstCurrent, firstBacktrack = current, backtrack
		} else if current == firstCurrent && backtrack == firstBacktrack {
			break
		}
		contour = append(contour, current)
	}

	// The closing step lands back on the start pixel; drop the duplicate.
	if len(contour) > 1 && contour[len(contour)-1] == start {
		contour = contour[:len(contour)-1]
	}
	return contour
}

// floodFill marks every pixel of the 8-connected component containing (x, y)
// as visited so later scan positions skip it.
func floodFill(bitmap []bool, visited []bool, width, height, x, y int) {
	stack := []image.Point{{X: x, Y: y}}
	visited[y*width+x] = true
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				nx, ny := p.X+dx, p.Y+dy
				if nx < 0 || nx >= width || ny < 0 || ny >= height {
					continue
				}
				idx := ny*width + nx
				if bitmap[idx] && !visited[idx] {
					visited[idx] = true
					stack = append(stack, image.Pt(nx, ny))
				}
			}
		}
	}
}
