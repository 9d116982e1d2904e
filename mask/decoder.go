package mask

import (
	"github.com/chewxy/math32"
	"github.com/pkg/errors"
	"gorgonia.org/tensor"
)

// DefaultThreshold is the binarization cutoff applied to decoded mask values
// when the caller does not supply one.
const DefaultThreshold float32 = 0.5

// Mask is a single decoded instance mask at prototype resolution. Data holds
// width*height values in row-major order; values are raw prototype
// combinations unless the decoder applied a sigmoid.
type Mask struct {
	Width  int
	Height int
	Data   []float32
}

// At returns the mask value at pixel (x, y). No bounds checking.
func (m *Mask) At(x, y int) float32 {
	return m.Data[y*m.Width+x]
}

// DecodeBatch reconstructs one mask per detection by multiplying the (N, K)
// coefficient matrix against the (K, H*W) prototype planes in a single
// matrix product.
//
// Arguments:
//   - protos: the prototype set shared by all detections in the batch.
//   - coeffs: N*K coefficient values, one K-length row per detection.
//   - applySigmoid: when true, each decoded value is passed through the
//     logistic function before being returned. Exported models that fold the
//     sigmoid into the graph should leave this false.
//
// Returns:
//   - One Mask per coefficient row, in input order.
//   - An error when the coefficient buffer is not a multiple of K or the
//     multiply fails.
func DecodeBatch(protos *Prototypes, coeffs []float32, applySigmoid bool) ([]Mask, error) {
	if protos == nil {
		return nil, errors.New("mask: nil prototype set")
	}
	k := protos.channels
	if len(coeffs) == 0 {
		return nil, nil
	}
	if len(coeffs)%k != 0 {
		return nil, errors.Errorf("mask: coefficient buffer has %d values, not a multiple of %d channels",
			len(coeffs), k)
	}
	n := len(coeffs) / k
	plane := protos.height * protos.width

	coeffMat := tensor.New(
		tensor.WithShape(n, k),
		tensor.WithBacking(coeffs),
	)
	protoMat := tensor.New(
		tensor.WithShape(k, plane),
		tensor.WithBacking(protos.data),
	)

	product, err := tensor.MatMul(coeffMat, protoMat)
	if err != nil {
		return nil, errors.Wrap(err, "mask: decoding matrix multiply failed")
	}
	flat, ok := product.Data().([]float32)
	if !ok {
		return nil, errors.Errorf("mask: unexpected decode buffer type %T", product.Data())
	}

	masks := make([]Mask, n)
	for i := 0; i < n; i++ {
		data := make([]float32, plane)
		copy(data, flat[i*plane:(i+1)*plane])
		if applySigmoid {
			for j, v := range data {
				data[j] = 1 / (1 + math32.Exp(-v))
			}
		}
		masks[i] = Mask{
			Width:  protos.width,
			Height: protos.height,
			Data:   data,
		}
	}
	return masks, nil
}
