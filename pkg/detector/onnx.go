package detector

import (
	"PersonTracking/internal/entity"
	"PersonTracking/pkg/imaging"
	"context"
	"errors"
	"fmt"
	"image"
	"runtime"
	"sync"

	"github.com/nfnt/resize"
	ort "github.com/yalue/onnxruntime_go"
)

type ONNXConfig struct {
	ModelPath   string
	LibraryPath string
	InputSize   int
	PoolSize    int
	InputName   string
	OutputName  string
	// MinScore drops candidates before they reach the composite thresholds.
	MinScore float64
	Labels   []string
}

type onnxSession struct {
	session *ort.AdvancedSession
	input   *ort.Tensor[float32]
	output  *ort.Tensor[float32]
}

type onnxBackend struct {
	cfg        ONNXConfig
	decoder    imaging.Decoder
	sessions   chan *onnxSession
	numClasses int
	numBoxes   int
}

var (
	ortOnce sync.Once
	ortErr  error
)

func initRuntime(libraryPath string) error {
	ortOnce.Do(func() {
		if libraryPath != "" {
			ort.SetSharedLibraryPath(libraryPath)
		}
		ortErr = ort.InitializeEnvironment()
	})
	return ortErr
}

// NewONNXBackend loads a YOLO model exported to ONNX with output shape
// [1, 4+classes, boxes] and keeps a pool of pre-allocated sessions.
func NewONNXBackend(cfg ONNXConfig) (Backend, error) {
	if cfg.ModelPath == "" {
		return nil, errors.New("onnx model path is required")
	}
	if cfg.InputSize <= 0 {
		cfg.InputSize = 640
	}
	if cfg.PoolSize <= 0 {
		cfg.PoolSize = runtime.NumCPU()
	}
	if cfg.InputName == "" {
		cfg.InputName = "images"
	}
	if cfg.OutputName == "" {
		cfg.OutputName = "output0"
	}
	if len(cfg.Labels) == 0 {
		cfg.Labels = CocoLabels
	}
	if cfg.MinScore <= 0 {
		cfg.MinScore = 0.25
	}

	if err := initRuntime(cfg.LibraryPath); err != nil {
		return nil, fmt.Errorf("initialize onnxruntime: %w", err)
	}

	b := &onnxBackend{
		cfg:        cfg,
		decoder:    imaging.NewDecoder(),
		sessions:   make(chan *onnxSession, cfg.PoolSize),
		numClasses: len(cfg.Labels),
		numBoxes:   anchorCount(cfg.InputSize),
	}

	for i := 0; i < cfg.PoolSize; i++ {
		s, err := b.newSession()
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("create onnx session %d: %w", i, err)
		}
		b.sessions <- s
	}

	return b, nil
}

// anchorCount is the number of YOLO predictions for strides 8, 16 and 32.
func anchorCount(inputSize int) int {
	total := 0
	for _, stride := range []int{8, 16, 32} {
		cells := inputSize / stride
		total += cells * cells
	}
	return total
}

func (b *onnxBackend) newSession() (*onnxSession, error) {
	size := int64(b.cfg.InputSize)
	input, err := ort.NewTensor(ort.NewShape(1, 3, size, size), make([]float32, 3*size*size))
	if err != nil {
		return nil, err
	}

	output, err := ort.NewEmptyTensor[float32](ort.NewShape(1, int64(4+b.numClasses), int64(b.numBoxes)))
	if err != nil {
		input.Destroy()
		return nil, err
	}

	options, err := ort.NewSessionOptions()
	if err != nil {
		input.Destroy()
		output.Destroy()
		return nil, err
	}
	defer options.Destroy()

	options.SetIntraOpNumThreads(1)
	options.SetInterOpNumThreads(1)

	session, err := ort.NewAdvancedSession(
		b.cfg.ModelPath,
		[]string{b.cfg.InputName},
		[]string{b.cfg.OutputName},
		[]ort.ArbitraryTensor{input},
		[]ort.ArbitraryTensor{output},
		options,
	)
	if err != nil {
		input.Destroy()
		output.Destroy()
		return nil, err
	}

	return &onnxSession{session: session, input: input, output: output}, nil
}

func (b *onnxBackend) Name() string {
	return "local-onnx"
}

func (b *onnxBackend) DetectObjects(ctx context.Context, data []byte) ([]entity.DetectedObject, error) {
	img, err := b.decoder.Decode(data)
	if err != nil {
		return nil, err
	}
	width, height := imaging.Dimensions(img)
	input := prepareInput(img, b.cfg.InputSize)

	var s *onnxSession
	select {
	case s = <-b.sessions:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	copy(s.input.GetData(), input)
	runErr := s.session.Run()
	var output []float32
	if runErr == nil {
		raw := s.output.GetData()
		output = make([]float32, len(raw))
		copy(output, raw)
	}
	b.sessions <- s

	if runErr != nil {
		return nil, fmt.Errorf("onnx inference: %w", runErr)
	}

	return decodeOutput(output, decodeParams{
		numClasses: b.numClasses,
		numBoxes:   b.numBoxes,
		inputSize:  b.cfg.InputSize,
		imgWidth:   width,
		imgHeight:  height,
		minScore:   b.cfg.MinScore,
		labels:     b.cfg.Labels,
	}), nil
}

// Health reports whether an inference session frees up before ctx expires.
func (b *onnxBackend) Health(ctx context.Context) error {
	select {
	case s := <-b.sessions:
		b.sessions <- s
		return nil
	case <-ctx.Done():
		return fmt.Errorf("no idle inference session: %w", ctx.Err())
	}
}

func (b *onnxBackend) Close() {
	for {
		select {
		case s := <-b.sessions:
			s.session.Destroy()
			s.input.Destroy()
			s.output.Destroy()
		default:
			return
		}
	}
}

// prepareInput resizes to the square model input and lays pixels out as CHW in [0,1].
func prepareInput(img image.Image, size int) []float32 {
	resized := resize.Resize(uint(size), uint(size), img, resize.Bilinear)
	input := make([]float32, 3*size*size)
	stride := size * size
	bounds := resized.Bounds()

	idx := 0
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			r, g, bl, _ := resized.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			input[idx] = float32(r>>8) / 255.0
			input[idx+stride] = float32(g>>8) / 255.0
			input[idx+2*stride] = float32(bl>>8) / 255.0
			idx++
		}
	}
	return input
}

type decodeParams struct {
	numClasses int
	numBoxes   int
	inputSize  int
	imgWidth   int
	imgHeight  int
	minScore   float64
	labels     []string
}

// decodeOutput reads a [4+classes, boxes] row-major tensor of center-format
// boxes in model space and rescales them to the original image.
func decodeOutput(output []float32, p decodeParams) []entity.DetectedObject {
	if len(output) < (4+p.numClasses)*p.numBoxes {
		return []entity.DetectedObject{}
	}

	scaleX := float64(p.imgWidth) / float64(p.inputSize)
	scaleY := float64(p.imgHeight) / float64(p.inputSize)
	n := p.numBoxes

	objects := make([]entity.DetectedObject, 0)
	for i := 0; i < n; i++ {
		classID := -1
		best := float32(0)
		for c := 0; c < p.numClasses; c++ {
			if score := output[(4+c)*n+i]; score > best {
				best = score
				classID = c
			}
		}
		if classID < 0 || float64(best) < p.minScore {
			continue
		}

		cx := float64(output[i])
		cy := float64(output[n+i])
		w := float64(output[2*n+i])
		h := float64(output[3*n+i])

		label := LabelFor(p.labels, classID)
		objects = append(objects, entity.DetectedObject{
			BoundingBox: entity.BoundingBox{
				X:          (cx - w/2) * scaleX,
				Y:          (cy - h/2) * scaleY,
				Width:      w * scaleX,
				Height:     h * scaleY,
				Confidence: float64(best),
				Label:      label,
			},
			ClassID:    classID,
			ObjectType: label,
		})
	}
	return objects
}
