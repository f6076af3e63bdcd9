package geometry

import (
	"PersonTracking/internal/entity"
	"errors"
	"math"
	"testing"
)

func box(x, y, w, h, conf float64) entity.BoundingBox {
	return entity.BoundingBox{X: x, Y: y, Width: w, Height: h, Confidence: conf, Label: entity.PersonLabel}
}

func TestIoU(t *testing.T) {
	tests := []struct {
		name string
		a, b entity.BoundingBox
		want float64
	}{
		{"identical", box(10, 10, 100, 100, 1), box(10, 10, 100, 100, 1), 1.0},
		{"disjoint", box(0, 0, 10, 10, 1), box(50, 50, 10, 10, 1), 0.0},
		{"touching edges", box(0, 0, 10, 10, 1), box(10, 0, 10, 10, 1), 0.0},
		{"offset by 50", box(0, 0, 100, 100, 1), box(50, 50, 100, 100, 1), 2500.0 / 17500.0},
		{"zero area", box(0, 0, 0, 10, 1), box(0, 0, 10, 10, 1), 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IoU(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-6 {
				t.Errorf("IoU() = %f, want %f", got, tt.want)
			}
			if rev := IoU(tt.b, tt.a); math.Abs(rev-got) > 1e-12 {
				t.Errorf("IoU is not symmetric: %f vs %f", got, rev)
			}
		})
	}
}

func TestIntersectionArea(t *testing.T) {
	if got := IntersectionArea(box(0, 0, 100, 100, 1), box(50, 50, 100, 100, 1)); got != 2500 {
		t.Errorf("IntersectionArea() = %f, want 2500", got)
	}
}

func TestNonMaxSuppression(t *testing.T) {
	boxes := []entity.BoundingBox{
		box(100, 100, 50, 50, 0.9),
		box(105, 105, 50, 50, 0.8),
		box(300, 300, 50, 50, 0.85),
	}

	kept := NonMaxSuppression(boxes, 0.5)
	if len(kept) != 2 {
		t.Fatalf("expected 2 boxes, got %d", len(kept))
	}
	if kept[0].Confidence != 0.9 || kept[1].Confidence != 0.85 {
		t.Errorf("unexpected confidences kept: %v, %v", kept[0].Confidence, kept[1].Confidence)
	}
}

func TestNonMaxSuppressionTiesKeepInputOrder(t *testing.T) {
	boxes := []entity.BoundingBox{
		{X: 0, Y: 0, Width: 10, Height: 10, Confidence: 0.7, Label: "first"},
		{X: 1, Y: 1, Width: 10, Height: 10, Confidence: 0.7, Label: "second"},
	}

	kept := NonMaxSuppression(boxes, 0.5)
	if len(kept) != 1 || kept[0].Label != "first" {
		t.Errorf("expected the first box to survive, got %+v", kept)
	}
}

func TestNonMaxSuppressionEmpty(t *testing.T) {
	if kept := NonMaxSuppression(nil, 0.5); len(kept) != 0 {
		t.Errorf("expected empty result, got %v", kept)
	}
}

func TestExpandAndContains(t *testing.T) {
	b := Expand(box(100, 100, 100, 200, 1), 0.1)
	if b.X != 90 || b.Y != 80 || b.Width != 120 || b.Height != 240 {
		t.Errorf("unexpected expanded box %+v", b)
	}
	if !Contains(b, Point{X: 205, Y: 310}) {
		t.Error("point inside padding should be contained")
	}
	if Contains(b, Point{X: 300, Y: 300}) {
		t.Error("point outside should not be contained")
	}
}

func TestDistances(t *testing.T) {
	out, err := Distances([]Point{{0, 0}, {1, 1}}, []Point{{3, 4}, {1, 1}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out[0] != 5 || out[1] != 0 {
		t.Errorf("unexpected distances %v", out)
	}

	out, err = Distances(nil, nil)
	if err != nil || out != nil {
		t.Errorf("empty input should be a no-op, got %v %v", out, err)
	}

	if _, err := Distances([]Point{{0, 0}}, nil); !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("expected ErrLengthMismatch, got %v", err)
	}
}

func TestColorDistances(t *testing.T) {
	out, err := ColorDistances([]RGB{{0, 0, 0}}, []RGB{{255, 0, 0}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out[0] != 255 {
		t.Errorf("expected 255, got %f", out[0])
	}

	if _, err := ColorDistances([]RGB{{}}, []RGB{{}, {}}); !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("expected ErrLengthMismatch, got %v", err)
	}
}
