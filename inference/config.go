// Package inference - ONNX Runtime session adapter.
//
// The adapter owns the input and output tensors for a detection or
// segmentation model and hands the raw output buffers to the postprocess
// engine. It is the only package touching the runtime; the engine itself
// never depends on it.
package inference

import (
	"image"
	"runtime"

	"github.com/pkg/errors"
)

// Config describes one ONNX model session.
type Config struct {
	// ModelPath is the ONNX model file.
	ModelPath string

	// InputShape is the network input width and height. The input tensor is
	// NCHW with 3 channels.
	InputShape image.Point

	// NumAnchors is the anchor slot count of the output tensor.
	NumAnchors int

	// NumClasses is the number of class score channels.
	NumClasses int

	// MaskChannels is the number of mask coefficient channels; 0 selects a
	// detection-only session without the prototype output.
	MaskChannels int

	// MaskShape is the prototype mask resolution, required when
	// MaskChannels > 0.
	MaskShape image.Point

	// SharedLibraryPath overrides the platform-resolved onnxruntime shared
	// library location.
	SharedLibraryPath string
}

// Validate checks the session shape parameters.
func (c Config) Validate() error {
	if c.ModelPath == "" {
		return errors.New("inference: model path is required")
	}
	if c.InputShape.X <= 0 || c.InputShape.Y <= 0 {
		return errors.Errorf("inference: invalid input shape %v", c.InputShape)
	}
	if c.NumAnchors <= 0 {
		return errors.Errorf("inference: anchor count %d must be positive", c.NumAnchors)
	}
	if c.NumClasses < 1 {
		return errors.Errorf("inference: class count %d must be at least 1", c.NumClasses)
	}
	if c.MaskChannels < 0 {
		return errors.Errorf("inference: negative mask channel count %d", c.MaskChannels)
	}
	if c.MaskChannels > 0 && (c.MaskShape.X <= 0 || c.MaskShape.Y <= 0) {
		return errors.Errorf("inference: segmentation needs a mask shape, got %v", c.MaskShape)
	}
	return nil
}

// sharedLibraryPath resolves the bundled onnxruntime library for the
// current platform.
func sharedLibraryPath() string {
	switch runtime.GOOS {
	case "windows":
		return "third_party/onnxruntime.dll"
	case "darwin":
		if runtime.GOARCH == "arm64" {
			return "third_party/onnxruntime_arm64.dylib"
		}
		return "third_party/onnxruntime_amd64.dylib"
	default:
		if runtime.GOARCH == "arm64" {
			return "third_party/onnxruntime_arm64.so"
		}
		return "third_party/onnxruntime.so"
	}
}
