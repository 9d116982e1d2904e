package inference

import (
	"github.com/pkg/errors"
	ort "github.com/yalue/onnxruntime_go"

	"github.com/framevision/go-vision/mask"
	"github.com/framevision/go-vision/postprocess"
)

// Output is the raw result of one inference call, ready for the
// postprocess engine. Prototypes is nil for detection-only sessions.
type Output struct {
	Detections []float32
	NumAnchors int
	Prototypes *mask.Prototypes
}

// Session wraps an ONNX Runtime session with owned input and output
// tensors. Sessions are not safe for concurrent Run calls; use one per
// worker.
type Session struct {
	cfg     Config
	session *ort.AdvancedSession
	input   *ort.Tensor[float32]
	output  *ort.Tensor[float32]
	protos  *ort.Tensor[float32]
}

// NewSession loads the model and allocates the tensors declared by the
// config. The runtime environment is initialized lazily on the first
// session.
//
// Arguments:
//   - cfg: session configuration.
//
// Returns:
//   - The ready session; callers must Close it.
//   - An error from validation, runtime initialization, or model loading.
func NewSession(cfg Config) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := initRuntime(cfg.SharedLibraryPath); err != nil {
		return nil, err
	}

	s := &Session{cfg: cfg}
	ok := false
	defer func() {
		if !ok {
			s.Close()
		}
	}()

	var err error
	s.input, err = ort.NewEmptyTensor[float32](
		ort.NewShape(1, 3, int64(cfg.InputShape.Y), int64(cfg.InputShape.X)))
	if err != nil {
		return nil, errors.Wrap(err, "inference: allocating input tensor")
	}

	channels := 4 + cfg.NumClasses + cfg.MaskChannels
	s.output, err = ort.NewEmptyTensor[float32](
		ort.NewShape(1, int64(channels), int64(cfg.NumAnchors)))
	if err != nil {
		return nil, errors.Wrap(err, "inference: allocating output tensor")
	}

	outputNames := []string{"output0"}
	outputs := []ort.ArbitraryTensor{s.output}
	if cfg.MaskChannels > 0 {
		s.protos, err = ort.NewEmptyTensor[float32](ort.NewShape(
			1, int64(cfg.MaskShape.Y), int64(cfg.MaskShape.X), int64(cfg.MaskChannels)))
		if err != nil {
			return nil, errors.Wrap(err, "inference: allocating prototype tensor")
		}
		outputNames = append(outputNames, "output1")
		outputs = append(outputs, s.protos)
	}

	s.session, err = ort.NewAdvancedSession(
		cfg.ModelPath,
		[]string{"images"},
		outputNames,
		[]ort.ArbitraryTensor{s.input},
		outputs,
		nil,
	)
	if err != nil {
		return nil, errors.Wrapf(err, "inference: loading model %s", cfg.ModelPath)
	}
	ok = true
	return s, nil
}

func initRuntime(libraryPath string) error {
	if ort.IsInitialized() {
		return nil
	}
	if libraryPath == "" {
		libraryPath = sharedLibraryPath()
	}
	ort.SetSharedLibraryPath(libraryPath)
	return errors.Wrap(ort.InitializeEnvironment(), "inference: initializing onnxruntime")
}

// Run executes the model over one preprocessed input frame and copies the
// raw outputs out of the session-owned tensors.
//
// Arguments:
//   - input: NCHW float32 frame, 3*H*W values matching the config's input
//     shape.
//
// Returns:
//   - The raw detection tensor and, for segmentation sessions, the
//     ingested prototype set.
//   - An error for a mis-sized input or a runtime failure.
func (s *Session) Run(input []float32) (Output, error) {
	dst := s.input.GetData()
	if len(input) != len(dst) {
		return Output{}, errors.Errorf("inference: input has %d values, want %d", len(input), len(dst))
	}
	copy(dst, input)

	if err := s.session.Run(); err != nil {
		return Output{}, errors.Wrap(err, "inference: running session")
	}

	out := Output{
		Detections: append([]float32(nil), s.output.GetData()...),
		NumAnchors: s.cfg.NumAnchors,
	}
	if s.protos != nil {
		protos, err := mask.NewPrototypesNHWC(
			s.protos.GetData(), s.cfg.MaskShape.Y, s.cfg.MaskShape.X, s.cfg.MaskChannels)
		if err != nil {
			return Output{}, err
		}
		out.Prototypes = protos
	}
	return out, nil
}

// Detect runs the model and the detection postprocess in one call.
func (s *Session) Detect(input []float32, p postprocess.Params) ([]postprocess.Result, error) {
	out, err := s.Run(input)
	if err != nil {
		return nil, err
	}
	return postprocess.Detect(out.Detections, out.NumAnchors, p)
}

// Segment runs the model and the segmentation postprocess in one call.
// The session must have been configured with mask channels.
func (s *Session) Segment(input []float32, p postprocess.Params) ([]postprocess.Result, error) {
	out, err := s.Run(input)
	if err != nil {
		return nil, err
	}
	return postprocess.Segment(out.Detections, out.NumAnchors, out.Prototypes, p)
}

// Close releases the session and its tensors.
func (s *Session) Close() {
	if s.input != nil {
		s.input.Destroy()
		s.input = nil
	}
	if s.output != nil {
		s.output.Destroy()
		s.output = nil
	}
	if s.protos != nil {
		s.protos.Destroy()
		s.protos = nil
	}
	if s.session != nil {
		s.session.Destroy()
		s.session = nil
	}
}
