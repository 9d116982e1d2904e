package mask

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bitmapFrom(rows []string) ([]bool, int, int) {
	height := len(rows)
	width := len(rows[0])
	bitmap := make([]bool, width*height)
	for y, row := range rows {
		for x, c := range row {
			bitmap[y*width+x] = c == '#'
		}
	}
	return bitmap, width, height
}

// TestTraceContoursSquare traces a solid square and checks the boundary
// covers exactly the perimeter pixels.
func TestTraceContoursSquare(t *testing.T) {
	bitmap, w, h := bitmapFrom([]string{
		".....",
		".###.",
		".###.",
		".###.",
		".....",
	})
	contours := TraceContours(bitmap, w, h)
	require.Len(t, contours, 1)

	contour := contours[0]
	assert.Equal(t, image.Pt(1, 1), contour[0], "trace starts at topmost-leftmost pixel")

	perimeter := map[image.Point]bool{}
	for _, pt := range contour {
		perimeter[pt] = true
	}
	assert.Len(t, perimeter, 8, "3x3 square has 8 boundary pixels")
	assert.False(t, perimeter[image.Pt(2, 2)], "interior pixel is not on the boundary")
}

// TestTraceContoursSinglePixel covers the isolated pixel edge case.
func TestTraceContoursSinglePixel(t *testing.T) {
	bitmap, w, h := bitmapFrom([]string{
		"...",
		".#.",
		"...",
	})
	contours := TraceContours(bitmap, w, h)
	require.Len(t, contours, 1)
	assert.Equal(t, []image.Point{{X: 1, Y: 1}}, contours[0])
}

// TestTraceContoursTwoComponents verifies diagonally separated components are
// traced independently while diagonal touches merge (8-connectivity).
func TestTraceContoursTwoComponents(t *testing.T) {
	bitmap, w, h := bitmapFrom([]string{
		"##...",
		"##...",
		"...##",
		"...##",
	})
	contours := TraceContours(bitmap, w, h)
	assert.Len(t, contours, 2)

	diag, w2, h2 := bitmapFrom([]string{
		"#..",
		".#.",
		"..#",
	})
	contours = TraceContours(diag, w2, h2)
	assert.Len(t, contours, 1, "diagonal neighbors form one 8-connected component")
}

// TestTraceContoursConcave traces an L shape and confirms the boundary walks
// into the concavity.
func TestTraceContoursConcave(t *testing.T) {
	bitmap, w, h := bitmapFrom([]string{
		"#...",
		"#...",
		"####",
	})
	contours := TraceContours(bitmap, w, h)
	require.Len(t, contours, 1)

	seen := map[image.Point]bool{}
	for _, pt := range contours[0] {
		seen[pt] = true
	}
	// Every pixel of a one-pixel-thick shape is boundary.
	for _, want := range []image.Point{{0, 0}, {0, 1}, {0, 2}, {1, 2}, {2, 2}, {3, 2}} {
		assert.True(t, seen[want], "missing boundary pixel %v", want)
	}
}

func TestTraceContoursEmpty(t *testing.T) {
	bitmap, w, h := bitmapFrom([]string{"...", "..."})
	assert.Empty(t, TraceContours(bitmap, w, h))
	assert.Nil(t, TraceContours(nil, 0, 0))
}

// TestBinarize checks the strictly-greater-than threshold convention.
func TestBinarize(t *testing.T) {
	m := &Mask{Width: 2, Height: 2, Data: []float32{0.4, 0.5, 0.6, 1.0}}
	assert.Equal(t, []bool{false, false, true, true}, Binarize(m, 0.5))
}
