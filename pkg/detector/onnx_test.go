package detector

import (
	"context"
	"errors"
	"image"
	"image/color"
	"math"
	"testing"
	"time"
)

func TestAnchorCount(t *testing.T) {
	if got := anchorCount(640); got != 8400 {
		t.Errorf("anchorCount(640) = %d, want 8400", got)
	}
}

func TestDecodeOutput(t *testing.T) {
	const (
		classes = 2
		boxes   = 3
	)
	out := make([]float32, (4+classes)*boxes)
	set := func(attr, box int, v float32) { out[attr*boxes+box] = v }

	// box 0: class 0 at center (320,320), 64x128
	set(0, 0, 320)
	set(1, 0, 320)
	set(2, 0, 64)
	set(3, 0, 128)
	set(4, 0, 0.9)
	set(5, 0, 0.1)
	// box 1: below min score
	set(4, 1, 0.1)
	set(5, 1, 0.05)
	// box 2: class 1
	set(0, 2, 100)
	set(1, 2, 100)
	set(2, 2, 20)
	set(3, 2, 20)
	set(5, 2, 0.6)

	objects := decodeOutput(out, decodeParams{
		numClasses: classes,
		numBoxes:   boxes,
		inputSize:  640,
		imgWidth:   1280,
		imgHeight:  640,
		minScore:   0.25,
		labels:     []string{"person", "bicycle"},
	})

	if len(objects) != 2 {
		t.Fatalf("expected 2 objects, got %d", len(objects))
	}

	first := objects[0].BoundingBox
	if first.Label != "person" || math.Abs(first.X-576) > 1e-6 || math.Abs(first.Width-128) > 1e-6 {
		t.Errorf("unexpected scaled box: %+v", first)
	}
	if math.Abs(first.Y-256) > 1e-6 || math.Abs(first.Height-128) > 1e-6 {
		t.Errorf("unexpected vertical scale: %+v", first)
	}
	if objects[1].ObjectType != "bicycle" || objects[1].ClassID != 1 {
		t.Errorf("unexpected second object: %+v", objects[1])
	}
}

func TestDecodeOutputShortBuffer(t *testing.T) {
	objects := decodeOutput(make([]float32, 3), decodeParams{numClasses: 80, numBoxes: 8400, inputSize: 640})
	if objects == nil || len(objects) != 0 {
		t.Errorf("expected empty slice, got %v", objects)
	}
}

func TestPrepareInputLayout(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, color.RGBA{R: 255, A: 255})
		}
	}

	input := prepareInput(img, 2)
	if len(input) != 12 {
		t.Fatalf("expected 12 values, got %d", len(input))
	}
	for i := 0; i < 4; i++ {
		if input[i] != 1 || input[4+i] != 0 || input[8+i] != 0 {
			t.Fatalf("unexpected CHW layout: %v", input)
		}
	}
}

func TestONNXHealthWaitsForIdleSession(t *testing.T) {
	b := &onnxBackend{sessions: make(chan *onnxSession, 1)}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := b.Health(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Health() with every session busy = %v, want deadline exceeded", err)
	}

	b.sessions <- &onnxSession{}
	if err := b.Health(context.Background()); err != nil {
		t.Fatalf("Health() error = %v", err)
	}
	if len(b.sessions) != 1 {
		t.Errorf("Health() must return the session to the pool, pool has %d", len(b.sessions))
	}
}
