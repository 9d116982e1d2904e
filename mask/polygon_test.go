package mask

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/framevision/go-vision/images"
)

// TestPolygonArea checks the shoelace formula on known shapes.
func TestPolygonArea(t *testing.T) {
	square := Polygon{{0, 0}, {4, 0}, {4, 4}, {0, 4}}
	assert.InDelta(t, 16.0, square.Area(), 1e-9)

	// Reversed winding gives the same magnitude.
	reversed := Polygon{{0, 4}, {4, 4}, {4, 0}, {0, 0}}
	assert.InDelta(t, 16.0, reversed.Area(), 1e-9)

	triangle := Polygon{{0, 0}, {4, 0}, {0, 3}}
	assert.InDelta(t, 6.0, triangle.Area(), 1e-9)

	assert.Zero(t, Polygon{{1, 1}, {2, 2}}.Area(), "degenerate polygon has no area")
	assert.Zero(t, Polygon(nil).Area())
}

// TestConvexHull validates the monotone chain construction.
func TestConvexHull(t *testing.T) {
	points := []image.Point{
		{0, 0}, {4, 0}, {4, 4}, {0, 4},
		{2, 2}, {1, 3}, {2, 0}, // interior and edge points
	}
	hull := ConvexHull(points)

	require.Len(t, hull, 4)
	want := map[image.Point]bool{
		{0, 0}: true, {4, 0}: true, {4, 4}: true, {0, 4}: true,
	}
	for _, pt := range hull {
		assert.True(t, want[pt], "unexpected hull vertex %v", pt)
	}
}

func TestConvexHullSmallInputs(t *testing.T) {
	assert.Empty(t, ConvexHull(nil))
	assert.Equal(t, Polygon{{1, 1}}, ConvexHull([]image.Point{{1, 1}}))
	assert.Len(t, ConvexHull([]image.Point{{0, 0}, {3, 3}}), 2)
}

// TestExtractPolygonsLargestContour runs the full binarize-trace-merge flow
// with two components of different size and checks the larger one wins.
func TestExtractPolygonsLargestContour(t *testing.T) {
	m := maskFrom([]string{
		"........",
		".####...",
		".####...",
		".####...",
		"......#.",
		"......#.",
		"........",
	})
	region := images.Rect{X: 0, Y: 0, Width: 8, Height: 7}

	poly, err := ExtractPolygons(m, region, DefaultThreshold, OuterLargestContour)
	require.NoError(t, err)
	require.NotEmpty(t, poly)

	// The 4x3 block has area 6 by shoelace over its boundary; the 1x2 bar
	// has none. All returned points belong to the block.
	for _, pt := range poly {
		assert.True(t, pt.X >= 1 && pt.X <= 4 && pt.Y >= 1 && pt.Y <= 3,
			"point %v outside the larger component", pt)
	}
}

// TestExtractPolygonsRegionClip confirms boundary points outside the
// detection's rectangle are dropped before merging.
func TestExtractPolygonsRegionClip(t *testing.T) {
	m := maskFrom([]string{
		"###.....",
		"###.....",
		"###.....",
		".....###",
		".....###",
		".....###",
	})

	// Region covers only the top-left component.
	region := images.Rect{X: 0, Y: 0, Width: 4, Height: 4}
	poly, err := ExtractPolygons(m, region, DefaultThreshold, OuterLargestContour)
	require.NoError(t, err)
	require.NotEmpty(t, poly)
	for _, pt := range poly {
		assert.True(t, pt.X <= 3 && pt.Y <= 3, "point %v escaped the clip region", pt)
	}

	// Region covering neither component yields no polygon.
	empty := images.Rect{X: 3, Y: 0, Width: 2, Height: 3}
	poly, err = ExtractPolygons(m, empty, DefaultThreshold, OuterLargestContour)
	require.NoError(t, err)
	assert.Empty(t, poly)
}

// TestExtractPolygonsConvexHull checks the hull policy bridges separate
// components into one convex outline.
func TestExtractPolygonsConvexHull(t *testing.T) {
	m := maskFrom([]string{
		"##....",
		"##....",
		"....##",
		"....##",
	})
	region := images.Rect{X: 0, Y: 0, Width: 6, Height: 4}

	poly, err := ExtractPolygons(m, region, DefaultThreshold, OuterConvexHull)
	require.NoError(t, err)
	require.True(t, len(poly) >= 3)
	assert.Greater(t, poly.Area(), 6.0, "hull spans both components")
}

func TestExtractPolygonsUnknownPolicy(t *testing.T) {
	m := maskFrom([]string{"#"})
	_, err := ExtractPolygons(m, images.Rect{Width: 1, Height: 1}, DefaultThreshold, ContourPolicy(99))
	assert.Error(t, err)
}

// TestExtractPolygonsFullMask checks a fully foreground mask produces one
// polygon tracing the raster's perimeter.
func TestExtractPolygonsFullMask(t *testing.T) {
	m := maskFrom([]string{
		"######",
		"######",
		"######",
		"######",
	})
	poly, err := ExtractPolygons(m, images.Rect{Width: 6, Height: 4}, DefaultThreshold, OuterLargestContour)
	require.NoError(t, err)
	require.NotEmpty(t, poly)

	assert.InDelta(t, 15.0, poly.Area(), 1e-9, "boundary encloses the 5x3 pixel-center rectangle")
	for _, pt := range poly {
		onEdge := pt.X == 0 || pt.X == 5 || pt.Y == 0 || pt.Y == 3
		assert.True(t, onEdge, "point %v is not on the perimeter", pt)
	}
}

func TestExtractPolygonsAllBackground(t *testing.T) {
	m := maskFrom([]string{"....", "...."})
	poly, err := ExtractPolygons(m, images.Rect{Width: 4, Height: 2}, DefaultThreshold, OuterLargestContour)
	require.NoError(t, err)
	assert.Empty(t, poly)
}

// maskFrom builds a decoded mask from ASCII art, '#' pixels at 1.0 and the
// rest at 0.0.
func maskFrom(rows []string) *Mask {
	height := len(rows)
	width := len(rows[0])
	data := make([]float32, width*height)
	for y, row := range rows {
		for x, c := range row {
			if c == '#' {
				data[y*width+x] = 1
			}
		}
	}
	return &Mask{Width: width, Height: height, Data: data}
}
