package detector

import (
	"PersonTracking/internal/entity"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
)

// InferenceDetection is one box in the inference server's /detect response.
type InferenceDetection struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Confidence float64 `json:"confidence"`
	Label      string  `json:"label"`
	ClassID    int     `json:"class_id"`
}

type InferenceResponse struct {
	Detections   []InferenceDetection `json:"detections"`
	Count        int                  `json:"count"`
	OriginalSize []int                `json:"original_size"`
	Error        string               `json:"error,omitempty"`
}

func (r InferenceResponse) Objects() []entity.DetectedObject {
	objects := make([]entity.DetectedObject, 0, len(r.Detections))
	for _, d := range r.Detections {
		label := d.Label
		if label == "" {
			label = LabelFor(CocoLabels, d.ClassID)
		}
		objects = append(objects, entity.DetectedObject{
			BoundingBox: entity.BoundingBox{
				X:          d.X,
				Y:          d.Y,
				Width:      d.Width,
				Height:     d.Height,
				Confidence: d.Confidence,
				Label:      label,
			},
			ClassID:    d.ClassID,
			ObjectType: label,
		})
	}
	return objects
}

type httpBackend struct {
	baseURL    string
	confidence float64
	iou        float64
}

// NewHTTPBackend talks to a remote inference server exposing POST /detect and GET /health.
func NewHTTPBackend(baseURL string, confidence, iou float64) (Backend, error) {
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid detector url %q: %w", baseURL, err)
	}

	return &httpBackend{
		baseURL:    strings.TrimRight(baseURL, "/"),
		confidence: confidence,
		iou:        iou,
	}, nil
}

func (b *httpBackend) Name() string {
	return "remote-http"
}

func (b *httpBackend) DetectObjects(ctx context.Context, image []byte) ([]entity.DetectedObject, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("confidence", strconv.FormatFloat(b.confidence, 'f', -1, 64))
	query.Set("iou", strconv.FormatFloat(b.iou, 'f', -1, 64))

	agent := fiber.Post(b.baseURL + "/detect")
	agent.QueryString(query.Encode())
	agent.ContentType("application/octet-stream")
	agent.Body(image)
	if deadline, ok := ctx.Deadline(); ok {
		agent.Timeout(time.Until(deadline))
	}

	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return nil, fmt.Errorf("send request: %w", errors.Join(errs...))
	}

	var resp InferenceResponse
	if err := jsoniter.Unmarshal(body, &resp); err != nil {
		if code != fiber.StatusOK {
			return nil, fmt.Errorf("inference failed with status: %d", code)
		}
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if code != fiber.StatusOK {
		if resp.Error != "" {
			return nil, fmt.Errorf("inference failed with status %d: %s", code, resp.Error)
		}
		return nil, fmt.Errorf("inference failed with status: %d", code)
	}

	return resp.Objects(), nil
}

func (b *httpBackend) Health(ctx context.Context) error {
	agent := fiber.Get(b.baseURL + "/health")
	agent.Timeout(5 * time.Second)
	if deadline, ok := ctx.Deadline(); ok {
		agent.Timeout(time.Until(deadline))
	}

	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	if code != fiber.StatusOK {
		return fmt.Errorf("health check returned status %d", code)
	}

	var health struct {
		Status      string `json:"status"`
		ModelLoaded bool   `json:"model_loaded"`
	}
	if err := jsoniter.Unmarshal(body, &health); err != nil {
		return fmt.Errorf("decode health response: %w", err)
	}
	if !health.ModelLoaded {
		return errors.New("model not loaded")
	}
	return nil
}
