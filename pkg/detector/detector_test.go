package detector

import (
	"PersonTracking/internal/entity"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

type fakeBackend struct {
	name    string
	objects []entity.DetectedObject
	err     error
	delay   time.Duration
	calls   int
}

func (f *fakeBackend) Name() string { return f.name }

func (f *fakeBackend) DetectObjects(ctx context.Context, _ []byte) ([]entity.DetectedObject, error) {
	f.calls++
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.objects, f.err
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func object(label string, x, y, w, h, conf float64) entity.DetectedObject {
	return entity.DetectedObject{
		BoundingBox: entity.BoundingBox{X: x, Y: y, Width: w, Height: h, Confidence: conf, Label: label},
		ObjectType:  label,
	}
}

func TestCompositeFallsBackToNextBackend(t *testing.T) {
	primary := &fakeBackend{name: "primary", err: errors.New("connection refused")}
	fallback := &fakeBackend{name: "fallback", objects: []entity.DetectedObject{
		object("person", 10, 10, 50, 100, 0.9),
	}}

	det, err := NewComposite(quietLogger(), DefaultConfig(), primary, fallback)
	if err != nil {
		t.Fatalf("NewComposite() error = %v", err)
	}

	persons, err := det.DetectPersons(context.Background(), []byte("frame"))
	if err != nil {
		t.Fatalf("DetectPersons() error = %v", err)
	}
	if len(persons) != 1 {
		t.Fatalf("expected 1 person, got %d", len(persons))
	}
	if primary.calls != 1 || fallback.calls != 1 {
		t.Errorf("expected one call per backend, got primary=%d fallback=%d", primary.calls, fallback.calls)
	}
}

func TestCompositeAllBackendsFail(t *testing.T) {
	det, _ := NewComposite(quietLogger(), DefaultConfig(),
		&fakeBackend{name: "a", err: errors.New("down")},
		&fakeBackend{name: "b", err: errors.New("also down")},
	)

	objects, err := det.DetectObjects(context.Background(), []byte("frame"))
	if !errors.Is(err, ErrDetectionUnavailable) {
		t.Fatalf("expected ErrDetectionUnavailable, got %v", err)
	}
	if objects != nil {
		t.Errorf("expected nil objects on failure, got %v", objects)
	}
}

func TestCompositeTimeoutMovesToFallback(t *testing.T) {
	slow := &fakeBackend{name: "slow", delay: time.Second}
	fast := &fakeBackend{name: "fast", objects: []entity.DetectedObject{object("person", 0, 0, 10, 20, 0.8)}}

	cfg := DefaultConfig()
	cfg.Timeout = 20 * time.Millisecond
	det, _ := NewComposite(quietLogger(), cfg, slow, fast)

	objects, err := det.DetectObjects(context.Background(), nil)
	if err != nil {
		t.Fatalf("DetectObjects() error = %v", err)
	}
	if len(objects) != 1 {
		t.Errorf("expected 1 object from fallback, got %d", len(objects))
	}
}

func TestCompositeNormalizesOutput(t *testing.T) {
	backend := &fakeBackend{name: "raw", objects: []entity.DetectedObject{
		object("Person", 0, 0, 100, 100, 0.9),
		object("person", 5, 5, 100, 100, 0.85),
		object("person", 300, 300, 50, 50, 0.3),
		object("person", 0, 0, 0, 50, 0.99),
		object("backpack", 0, 0, 100, 100, 0.6),
		object("person", 500, 0, 40, 80, 0.7),
	}}

	det, _ := NewComposite(quietLogger(), DefaultConfig(), backend)
	objects, err := det.DetectObjects(context.Background(), nil)
	if err != nil {
		t.Fatalf("DetectObjects() error = %v", err)
	}

	want := []struct {
		label string
		conf  float64
	}{
		{"person", 0.9},
		{"person", 0.7},
		{"backpack", 0.6},
	}
	if len(objects) != len(want) {
		t.Fatalf("expected %d objects, got %d: %+v", len(want), len(objects), objects)
	}
	for i, w := range want {
		if objects[i].ObjectType != w.label || objects[i].BoundingBox.Confidence != w.conf {
			t.Errorf("object %d = %s/%.2f, want %s/%.2f", i,
				objects[i].ObjectType, objects[i].BoundingBox.Confidence, w.label, w.conf)
		}
	}
}

func TestDetectPersonsFiltersOtherClasses(t *testing.T) {
	backend := &fakeBackend{name: "raw", objects: []entity.DetectedObject{
		object("car", 0, 0, 100, 50, 0.9),
		object("handbag", 10, 10, 20, 20, 0.8),
	}}

	det, _ := NewComposite(quietLogger(), DefaultConfig(), backend)
	persons, err := det.DetectPersons(context.Background(), nil)
	if err != nil {
		t.Fatalf("DetectPersons() error = %v", err)
	}
	if persons == nil || len(persons) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", persons)
	}
}

func TestNewCompositeRequiresBackend(t *testing.T) {
	if _, err := NewComposite(quietLogger(), DefaultConfig()); err == nil {
		t.Error("expected error without backends")
	}
}

func TestHealthReportsPerBackend(t *testing.T) {
	det, _ := NewComposite(quietLogger(), DefaultConfig(), &fakeBackend{name: "plain"})
	status := det.Health(context.Background())
	if status["plain"] != "unknown" {
		t.Errorf("expected unknown status, got %q", status["plain"])
	}
}
