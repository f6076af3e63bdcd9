package detector

import (
	"PersonTracking/internal/entity"
	"PersonTracking/pkg/geometry"
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrDetectionUnavailable means every configured backend failed. It is never
// reported as an empty detection list.
var ErrDetectionUnavailable = errors.New("detection unavailable: all backends failed")

// Backend is one inference implementation. Backends return raw detections; the
// composite applies thresholds so every backend yields the same output shape.
type Backend interface {
	Name() string
	DetectObjects(ctx context.Context, image []byte) ([]entity.DetectedObject, error)
}

type HealthChecker interface {
	Health(ctx context.Context) error
}

type IDetector interface {
	DetectPersons(ctx context.Context, image []byte) ([]entity.BoundingBox, error)
	DetectObjects(ctx context.Context, image []byte) ([]entity.DetectedObject, error)
	Health(ctx context.Context) map[string]string
}

type Config struct {
	Timeout             time.Duration
	ConfidenceThreshold float64
	NMSThreshold        float64
}

func DefaultConfig() Config {
	return Config{
		Timeout:             30 * time.Second,
		ConfidenceThreshold: 0.45,
		NMSThreshold:        0.5,
	}
}

type composite struct {
	log      *logrus.Logger
	cfg      Config
	backends []Backend
}

// NewComposite tries backends in the given order, each under its own timeout.
func NewComposite(log *logrus.Logger, cfg Config, backends ...Backend) (IDetector, error) {
	if len(backends) == 0 {
		return nil, fmt.Errorf("at least one detection backend is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}

	return &composite{
		log:      log,
		cfg:      cfg,
		backends: backends,
	}, nil
}

func (c *composite) DetectPersons(ctx context.Context, image []byte) ([]entity.BoundingBox, error) {
	objects, err := c.DetectObjects(ctx, image)
	if err != nil {
		return nil, err
	}

	persons := make([]entity.BoundingBox, 0, len(objects))
	for _, obj := range objects {
		if obj.IsPerson() {
			persons = append(persons, obj.BoundingBox)
		}
	}
	return persons, nil
}

func (c *composite) DetectObjects(ctx context.Context, image []byte) ([]entity.DetectedObject, error) {
	var errs []error

	for _, backend := range c.backends {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}

		start := time.Now()
		attemptCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
		objects, err := backend.DetectObjects(attemptCtx, image)
		cancel()

		if err != nil {
			c.log.WithFields(logrus.Fields{
				"backend":    backend.Name(),
				"error":      err.Error(),
				"latency_ms": time.Since(start).Milliseconds(),
			}).Warn("Detection backend failed, trying next")
			errs = append(errs, fmt.Errorf("%s: %w", backend.Name(), err))
			continue
		}

		normalized := c.normalize(objects)
		c.log.WithFields(logrus.Fields{
			"backend":    backend.Name(),
			"raw":        len(objects),
			"kept":       len(normalized),
			"latency_ms": time.Since(start).Milliseconds(),
		}).Debug("Detection completed")
		return normalized, nil
	}

	return nil, fmt.Errorf("%w: %w", ErrDetectionUnavailable, errors.Join(errs...))
}

func (c *composite) Health(ctx context.Context) map[string]string {
	status := make(map[string]string, len(c.backends))
	for _, backend := range c.backends {
		checker, ok := backend.(HealthChecker)
		if !ok {
			status[backend.Name()] = "unknown"
			continue
		}
		if err := checker.Health(ctx); err != nil {
			status[backend.Name()] = "unhealthy: " + err.Error()
			continue
		}
		status[backend.Name()] = "healthy"
	}
	return status
}

// normalize drops degenerate and low-confidence boxes and runs per-class NMS.
func (c *composite) normalize(objects []entity.DetectedObject) []entity.DetectedObject {
	type group struct {
		classID int
		label   string
		boxes   []entity.BoundingBox
	}

	var order []string
	groups := make(map[string]*group)

	for _, obj := range objects {
		box := obj.BoundingBox
		if !box.IsValid() || math.IsNaN(box.Confidence) {
			continue
		}
		box.Confidence = math.Max(0, math.Min(1, box.Confidence))
		if box.Confidence < c.cfg.ConfidenceThreshold {
			continue
		}

		label := strings.ToLower(strings.TrimSpace(obj.ObjectType))
		if label == "" {
			label = strings.ToLower(strings.TrimSpace(box.Label))
		}
		box.Label = label

		g, ok := groups[label]
		if !ok {
			g = &group{classID: obj.ClassID, label: label}
			groups[label] = g
			order = append(order, label)
		}
		g.boxes = append(g.boxes, box)
	}

	out := make([]entity.DetectedObject, 0, len(objects))
	for _, label := range order {
		g := groups[label]
		for _, box := range geometry.NonMaxSuppression(g.boxes, c.cfg.NMSThreshold) {
			out = append(out, entity.DetectedObject{
				BoundingBox: box,
				ClassID:     g.classID,
				ObjectType:  g.label,
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].BoundingBox.Confidence > out[j].BoundingBox.Confidence
	})
	return out
}
