package postprocess

import (
	"github.com/pkg/errors"

	"github.com/framevision/go-vision/images"
)

// Proposal is one candidate detection decoded from the raw output tensor.
// Box holds the raw center-format values: X and Y are the box center, still
// in model-input-normalized units. MaskCoeffs is empty for detection-only
// models.
//
// Proposals are read-only after extraction except for in-place reordering
// during the confidence sort.
type Proposal struct {
	Box        images.Rect
	ClassIndex int
	Confidence float32
	MaskCoeffs []float32
}

// ExtractProposals decodes the raw output tensor into candidate detections.
//
// The tensor is logically [channels][numAnchors] flattened channel-major:
// the first 4 channels are cx, cy, w, h, followed by NumClasses class scores
// and MaskChannels mask coefficients. For each anchor the best class score
// is taken; anchors whose score does not exceed the confidence threshold are
// discarded.
//
// Arguments:
//   - output: the flattened output tensor.
//   - numAnchors: number of anchor slots per channel.
//   - p: parameter snapshot; NumClasses, MaskChannels and
//     ConfidenceThreshold are read.
//
// Returns:
//   - Surviving proposals in anchor order, never nil.
//   - An error when the tensor length disagrees with the declared shape.
func ExtractProposals(output []float32, numAnchors int, p Params) ([]Proposal, error) {
	if numAnchors < 0 {
		return nil, errors.Errorf("postprocess: negative anchor count %d", numAnchors)
	}
	channels := 4 + p.NumClasses + p.MaskChannels
	if len(output) != channels*numAnchors {
		return nil, errors.Errorf(
			"postprocess: output tensor has %d values, want %d (%d channels x %d anchors)",
			len(output), channels*numAnchors, channels, numAnchors)
	}

	proposals := make([]Proposal, 0, numAnchors/8)
	for i := 0; i < numAnchors; i++ {
		classIndex := 0
		confidence := output[4*numAnchors+i]
		for c := 1; c < p.NumClasses; c++ {
			if score := output[(4+c)*numAnchors+i]; score > confidence {
				confidence = score
				classIndex = c
			}
		}
		if confidence <= p.ConfidenceThreshold {
			continue
		}

		prop := Proposal{
			Box: images.Rect{
				X:      output[0*numAnchors+i],
				Y:      output[1*numAnchors+i],
				Width:  output[2*numAnchors+i],
				Height: output[3*numAnchors+i],
			},
			ClassIndex: classIndex,
			Confidence: confidence,
		}
		if p.MaskChannels > 0 {
			prop.MaskCoeffs = make([]float32, p.MaskChannels)
			base := 4 + p.NumClasses
			for k := 0; k < p.MaskChannels; k++ {
				prop.MaskCoeffs[k] = output[(base+k)*numAnchors+i]
			}
		}
		proposals = append(proposals, prop)
	}
	return proposals, nil
}
