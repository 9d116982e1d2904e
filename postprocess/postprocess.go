// Package postprocess - Detection and segmentation postprocessing engine.
//
// The engine turns a model's raw per-anchor output tensor into a
// deduplicated, geometrically decoded list of detections: proposal
// extraction with a confidence gate, descending confidence sort, greedy
// non-maximum suppression, coordinate normalization, and for segmentation
// models prototype-mask decoding with polygon extraction.
//
// Detect and Segment are pure synchronous functions of their inputs. They
// spawn no goroutines, retain no references into caller buffers past
// return, and read all thresholds from the Params snapshot passed by value,
// so concurrent inference calls with their own tensors are safe.
package postprocess

import (
	"github.com/pkg/errors"

	"github.com/framevision/go-vision/mask"
)

// Params is the per-call configuration snapshot. Callers copy it into each
// call; the engine never reads ambient mutable state.
type Params struct {
	// ConfidenceThreshold gates proposals; an anchor survives only when its
	// best class score is strictly greater. Range [0, 1].
	ConfidenceThreshold float32

	// IoUThreshold is the overlap above which NMS suppresses the
	// lower-confidence box. Range [0, 1].
	IoUThreshold float32

	// MaxItems caps the result list length. Must be positive.
	MaxItems int

	// NumClasses is the number of class score channels. Must be at least 1.
	NumClasses int

	// MaskChannels is the number of mask coefficient channels, 0 for
	// detection-only models.
	MaskChannels int

	// ClassAwareNMS restricts suppression to same-class pairs. Off by
	// default: overlapping boxes suppress each other regardless of class.
	ClassAwareNMS bool

	// SigmoidMask applies the logistic function to decoded mask values
	// before thresholding, for exports that do not fold it into the graph.
	SigmoidMask bool

	// MaskThreshold is the binarization cutoff for decoded masks. Zero
	// selects the default of 0.5.
	MaskThreshold float32

	// ContourPolicy selects how a mask's contours merge into the outer
	// polygon. The zero value keeps the largest retraced contour.
	ContourPolicy mask.ContourPolicy

	// Labels maps class indices to names in results. Nil selects the
	// built-in YOLO 80-class table.
	Labels []string
}

// Validate checks parameter ranges, failing fast before any tensor access.
func (p Params) Validate() error {
	if p.ConfidenceThreshold < 0 || p.ConfidenceThreshold > 1 {
		return errors.Errorf("postprocess: confidence threshold %v outside [0, 1]", p.ConfidenceThreshold)
	}
	if p.IoUThreshold < 0 || p.IoUThreshold > 1 {
		return errors.Errorf("postprocess: IoU threshold %v outside [0, 1]", p.IoUThreshold)
	}
	if p.MaxItems <= 0 {
		return errors.Errorf("postprocess: max items %d must be positive", p.MaxItems)
	}
	if p.NumClasses < 1 {
		return errors.Errorf("postprocess: class count %d must be at least 1", p.NumClasses)
	}
	if p.MaskChannels < 0 {
		return errors.Errorf("postprocess: negative mask channel count %d", p.MaskChannels)
	}
	if p.MaskThreshold < 0 || p.MaskThreshold > 1 {
		return errors.Errorf("postprocess: mask threshold %v outside [0, 1]", p.MaskThreshold)
	}
	return nil
}

func (p Params) maskThreshold() float32 {
	if p.MaskThreshold > 0 {
		return p.MaskThreshold
	}
	return mask.DefaultThreshold
}

func (p Params) labels() []string {
	if p.Labels != nil {
		return p.Labels
	}
	return YOLOClasses
}

// Detect runs the detection pipeline over one raw output tensor.
//
// Arguments:
//   - output: flattened [channels][numAnchors] tensor, channels =
//     4 + NumClasses + MaskChannels.
//   - numAnchors: number of anchor slots.
//   - p: parameter snapshot.
//
// Returns:
//   - Detections in descending confidence order, at most MaxItems, never
//     nil. Zero anchors or none surviving the gates is an empty list, not
//     an error.
//   - An error for invalid parameters or a malformed tensor.
func Detect(output []float32, numAnchors int, p Params) ([]Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	proposals, picked, err := selectProposals(output, numAnchors, p)
	if err != nil {
		return nil, err
	}

	labels := p.labels()
	results := make([]Result, 0, len(picked))
	for _, idx := range picked {
		prop := proposals[idx]
		results = append(results, Result{
			Box:        NormalizeRect(prop.Box),
			ClassIndex: prop.ClassIndex,
			Label:      classLabel(labels, prop.ClassIndex),
			Confidence: prop.Confidence,
		})
	}
	return results, nil
}

// Segment runs the full segmentation pipeline: detection, then per-kept-
// detection mask decoding and polygon extraction against the shared
// prototype set.
//
// Masks are decoded only for detections that survive NMS and the MaxItems
// cap, as one batched matrix product. Each polygon is extracted from the
// decoded mask restricted to the detection's own region scaled to
// prototype resolution.
//
// Returns detections with zero or one polygon each; a detection whose mask
// has no pixel above the threshold inside its region simply carries no
// polygon.
func Segment(output []float32, numAnchors int, protos *mask.Prototypes, p Params) ([]Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if p.MaskChannels <= 0 {
		return nil, errors.Errorf("postprocess: segmentation requires mask channels, got %d", p.MaskChannels)
	}
	if protos == nil {
		return nil, errors.New("postprocess: segmentation requires a prototype mask set")
	}
	if protos.Channels() != p.MaskChannels {
		return nil, errors.Errorf("postprocess: prototype set has %d channels, parameters declare %d",
			protos.Channels(), p.MaskChannels)
	}

	proposals, picked, err := selectProposals(output, numAnchors, p)
	if err != nil {
		return nil, err
	}

	coeffs := make([]float32, 0, len(picked)*p.MaskChannels)
	for _, idx := range picked {
		coeffs = append(coeffs, proposals[idx].MaskCoeffs...)
	}
	masks, err := mask.DecodeBatch(protos, coeffs, p.SigmoidMask)
	if err != nil {
		return nil, err
	}

	labels := p.labels()
	results := make([]Result, 0, len(picked))
	for i, idx := range picked {
		prop := proposals[idx]
		box := NormalizeRect(prop.Box)
		region := MaskPixelRect(box, protos.Width(), protos.Height())

		polygon, err := mask.ExtractPolygons(&masks[i], region, p.maskThreshold(), p.ContourPolicy)
		if err != nil {
			return nil, err
		}

		result := Result{
			Box:        box,
			ClassIndex: prop.ClassIndex,
			Label:      classLabel(labels, prop.ClassIndex),
			Confidence: prop.Confidence,
		}
		if len(polygon) > 0 {
			result.Polygons = []mask.Polygon{polygon}
		}
		results = append(results, result)
	}
	return results, nil
}

// selectProposals runs the shared extract, sort, suppress, cap stages.
func selectProposals(output []float32, numAnchors int, p Params) ([]Proposal, []int, error) {
	proposals, err := ExtractProposals(output, numAnchors, p)
	if err != nil {
		return nil, nil, err
	}
	SortByConfidence(proposals)
	picked := NMSSorted(proposals, p)
	if len(picked) > p.MaxItems {
		picked = picked[:p.MaxItems]
	}
	return proposals, picked, nil
}
