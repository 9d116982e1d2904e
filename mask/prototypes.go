// Package mask - Prototype mask decoding and polygon extraction for
// segmentation models.
//
// A segmentation head emits K low-resolution prototype masks per inference
// plus one K-length coefficient vector per detection. Reconstructing a
// detection's mask is the weighted sum of the prototypes, which this package
// computes as a dense matrix product over flat buffers.
package mask

import "github.com/pkg/errors"

// Prototypes is the shared set of low-resolution mask channels produced once
// per inference call. The data is stored channel-major, one row-major H*W
// plane per channel, so decoding a batch of detections reduces to a single
// contiguous matrix multiply.
//
// The set is read-only once built and owned by the inference call that built
// it; concurrent calls must each ingest their own tensor.
type Prototypes struct {
	channels int
	height   int
	width    int
	data     []float32 // channels*height*width, channel-major
}

// NewPrototypesNHWC ingests a prototype tensor in the export layout
// [1, H, W, K] (channels innermost) and transposes it into the channel-major
// buffer the decoder multiplies against. The input is copied; the returned
// set keeps no reference into the caller's buffer.
//
// Arguments:
//   - data: flattened prototype tensor, H*W*K values.
//   - height, width: spatial resolution of each prototype plane.
//   - channels: number of prototype channels K.
//
// Returns:
//   - The ingested prototype set.
//   - An error when the buffer length disagrees with the declared shape.
func NewPrototypesNHWC(data []float32, height, width, channels int) (*Prototypes, error) {
	if height <= 0 || width <= 0 || channels <= 0 {
		return nil, errors.Errorf("mask: invalid prototype shape %dx%dx%d", height, width, channels)
	}
	if len(data) != height*width*channels {
		return nil, errors.Errorf("mask: prototype tensor has %d values, want %d (%dx%dx%d)",
			len(data), height*width*channels, height, width, channels)
	}

	p := &Prototypes{
		channels: channels,
		height:   height,
		width:    width,
		data:     make([]float32, len(data)),
	}
	plane := height * width
	for y := 0; y < height; y++ {
		row := y * width
		for x := 0; x < width; x++ {
			src := (row + x) * channels
			for k := 0; k < channels; k++ {
				p.data[k*plane+row+x] = data[src+k]
			}
		}
	}
	return p, nil
}

// Channels returns the number of prototype channels K.
func (p *Prototypes) Channels() int { return p.channels }

// Height returns the spatial height of each prototype plane.
func (p *Prototypes) Height() int { return p.height }

// Width returns the spatial width of each prototype plane.
func (p *Prototypes) Width() int { return p.width }
