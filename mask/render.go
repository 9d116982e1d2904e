package mask

import (
	"image"

	"github.com/nfnt/resize"
)

// Render converts a decoded mask into an 8-bit grayscale image. Pixels above
// the threshold map to white, the rest to black.
func Render(m *Mask, threshold float32) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, m.Width, m.Height))
	for i, v := range m.Data {
		if v > threshold {
			img.Pix[i] = 0xff
		}
	}
	return img
}

// ResizeTo upscales a rendered mask to the requested resolution, typically
// the network input size or the source frame size. Nearest-neighbor keeps
// the mask binary through the resize.
func ResizeTo(img *image.Gray, width, height int) *image.Gray {
	resized := resize.Resize(uint(width), uint(height), img, resize.NearestNeighbor)
	if gray, ok := resized.(*image.Gray); ok {
		return gray
	}
	out := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			out.Set(x, y, resized.At(x, y))
		}
	}
	return out
}
