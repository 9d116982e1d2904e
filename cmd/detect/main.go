// Command detect runs the postprocessing pipeline over a raw output tensor
// dump and prints the detections as JSON.
//
// Tensor dumps are little-endian float32, exactly the flattened buffers the
// engine consumes: the detection tensor channel-major, the optional
// prototype tensor NHWC.
package main

import (
	"encoding/binary"
	"encoding/json"
	"flag"
	"log"
	"math"
	"os"

	"github.com/framevision/go-vision/mask"
	"github.com/framevision/go-vision/postprocess"
)

func main() {
	var (
		tensorPath = flag.String("tensor", "", "path to the raw detection tensor dump (required)")
		protosPath = flag.String("protos", "", "path to the prototype tensor dump (enables segmentation)")
		anchors    = flag.Int("anchors", 8400, "number of anchor slots")
		classes    = flag.Int("classes", 80, "number of class channels")
		maskCh     = flag.Int("mask-channels", 0, "number of mask coefficient channels")
		maskW      = flag.Int("mask-width", 160, "prototype mask width")
		maskH      = flag.Int("mask-height", 160, "prototype mask height")
		conf       = flag.Float64("conf", 0.25, "confidence threshold")
		iou        = flag.Float64("iou", 0.45, "IoU threshold")
		maxItems   = flag.Int("max", 100, "maximum detections")
		classAware = flag.Bool("class-aware", false, "restrict suppression to same-class pairs")
		sigmoid    = flag.Bool("sigmoid", false, "apply sigmoid to decoded mask values")
		maskThresh = flag.Float64("mask-threshold", 0, "mask binarization threshold (0 = default)")
		hull       = flag.Bool("hull", false, "use the convex hull contour policy")
	)
	flag.Parse()

	if *tensorPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	params := postprocess.Params{
		ConfidenceThreshold: float32(*conf),
		IoUThreshold:        float32(*iou),
		MaxItems:            *maxItems,
		NumClasses:          *classes,
		MaskChannels:        *maskCh,
		ClassAwareNMS:       *classAware,
		SigmoidMask:         *sigmoid,
		MaskThreshold:       float32(*maskThresh),
	}
	if *hull {
		params.ContourPolicy = mask.OuterConvexHull
	}

	output, err := readTensor(*tensorPath)
	if err != nil {
		log.Fatalf("reading detection tensor: %v", err)
	}

	var results []postprocess.Result
	if *protosPath != "" {
		raw, err := readTensor(*protosPath)
		if err != nil {
			log.Fatalf("reading prototype tensor: %v", err)
		}
		protos, err := mask.NewPrototypesNHWC(raw, *maskH, *maskW, *maskCh)
		if err != nil {
			log.Fatalf("ingesting prototypes: %v", err)
		}
		results, err = postprocess.Segment(output, *anchors, protos, params)
		if err != nil {
			log.Fatalf("segmentation failed: %v", err)
		}
	} else {
		results, err = postprocess.Detect(output, *anchors, params)
		if err != nil {
			log.Fatalf("detection failed: %v", err)
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		log.Fatalf("encoding results: %v", err)
	}
}

// readTensor loads a little-endian float32 dump.
func readTensor(path string) ([]float32, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	values := make([]float32, len(raw)/4)
	for i := range values {
		values[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[i*4:]))
	}
	return values, nil
}
