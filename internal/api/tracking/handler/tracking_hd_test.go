package trackingHandler

import (
	"PersonTracking/internal/api/tracking"
	"PersonTracking/internal/entity"
	"PersonTracking/internal/middleware"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type fakeService struct {
	lastReq tracking.ProcessFrameRequest
	err     error
}

func (f *fakeService) ProcessFrame(ctx context.Context, req tracking.ProcessFrameRequest) (*tracking.ProcessFrameResponse, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &tracking.ProcessFrameResponse{Prompt: req.Prompt, Detections: []entity.Detection{}}, nil
}

func (f *fakeService) AnalyzeFrame(ctx context.Context, frame []byte, criteria entity.SearchCriteria) (*tracking.FrameAnalysis, error) {
	return &tracking.FrameAnalysis{}, nil
}

func (f *fakeService) ExtractCriteria(prompt string) entity.SearchCriteria {
	return entity.SearchCriteria{}
}

func (f *fakeService) GetActiveTracks(ctx context.Context) tracking.TracksResponse {
	return tracking.TracksResponse{Tracks: []entity.PersonTrack{{TrackingID: "track_1"}}, Count: 1}
}

func (f *fakeService) GetTrackByID(ctx context.Context, trackingID string) (entity.PersonTrack, error) {
	if trackingID != "track_1" {
		return entity.PersonTrack{}, tracking.ErrTrackNotFound
	}
	return entity.PersonTrack{TrackingID: trackingID}, nil
}

func (f *fakeService) DetectorHealth(ctx context.Context) tracking.DetectorHealthResponse {
	return tracking.DetectorHealthResponse{Status: "unavailable", Backends: map[string]string{}}
}

func newTestApp(svc *fakeService) *fiber.App {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	m := middleware.New(logger, middleware.DefaultConfig())
	app := fiber.New()
	app.Use(m.NewRequestIDMiddleware())
	New(logger, validator.New(), m, svc).Start(app.Group("/api/v1"))
	return app
}

func TestTrackingRoutes(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		body   string
		svcErr error
		want   int
	}{
		{"process frame", http.MethodPost, "/api/v1/tracking/frame", `{"images":["aGk="],"prompt":"red shirt"}`, nil, http.StatusOK},
		{"malformed body", http.MethodPost, "/api/v1/tracking/frame", `{"images":`, nil, http.StatusBadRequest},
		{"service validation error", http.MethodPost, "/api/v1/tracking/frame", `{"images":[],"prompt":"red"}`, tracking.ErrNoImages, http.StatusBadRequest},
		{"detection unavailable", http.MethodPost, "/api/v1/tracking/frame", `{"images":["aGk="],"prompt":"red"}`, tracking.ErrDetectionUnavailable, http.StatusServiceUnavailable},
		{"list tracks", http.MethodGet, "/api/v1/tracking/tracks", "", nil, http.StatusOK},
		{"known track", http.MethodGet, "/api/v1/tracking/tracks/track_1", "", nil, http.StatusOK},
		{"unknown track", http.MethodGet, "/api/v1/tracking/tracks/track_2", "", nil, http.StatusNotFound},
		{"detector down", http.MethodGet, "/api/v1/tracking/detector/health", "", nil, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(&fakeService{err: tt.svcErr})

			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			if tt.body != "" {
				req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
			}

			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			if resp.StatusCode != tt.want {
				body, _ := io.ReadAll(resp.Body)
				t.Errorf("expected %d, got %d: %s", tt.want, resp.StatusCode, body)
			}
		})
	}
}
