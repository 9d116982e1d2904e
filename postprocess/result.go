package postprocess

import (
	"github.com/framevision/go-vision/images"
	"github.com/framevision/go-vision/mask"
)

// Result is one final detection returned to the caller. Box is normalized
// to [0,1] relative to the model input. Polygons, present only for
// segmentation, are in prototype-mask pixel space; callers display them by
// rescaling to their frame size.
type Result struct {
	Box        images.Rect    `json:"rect"`
	ClassIndex int            `json:"class"`
	Label      string         `json:"label,omitempty"`
	Confidence float32        `json:"confidence"`
	Polygons   []mask.Polygon `json:"polygons,omitempty"`
}
