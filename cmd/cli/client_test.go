package main

import (
	"PersonTracking/internal/api/jobs"
	"PersonTracking/internal/api/tracking"
	"PersonTracking/internal/entity"
	"context"
	"errors"
	jsoniter "github.com/json-iterator/go"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = jsoniter.NewEncoder(w).Encode(v)
}

func TestClientGetJob(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/jobs/job-1":
			writeJSON(w, http.StatusOK, entity.Job{
				JobID:              "job-1",
				Kind:               entity.JobKindVideoUpload,
				Status:             entity.JobStatusProcessing,
				ProgressPercentage: 42,
			})
		default:
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "job not found"})
		}
	}))
	defer srv.Close()

	client := newAPIClient(srv.URL+"/", 5*time.Second)

	tests := []struct {
		name       string
		jobID      string
		wantStatus int
		wantErr    bool
	}{
		{name: "existing job", jobID: "job-1"},
		{name: "missing job", jobID: "nope", wantStatus: http.StatusNotFound, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job, err := client.GetJob(tt.jobID)
			if tt.wantErr {
				var apiErr *apiError
				if !errors.As(err, &apiErr) {
					t.Fatalf("expected apiError, got %v", err)
				}
				if apiErr.Status != tt.wantStatus {
					t.Errorf("status = %d, want %d", apiErr.Status, tt.wantStatus)
				}
				if apiErr.Message != "job not found" {
					t.Errorf("message = %q", apiErr.Message)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if job.JobID != tt.jobID || job.ProgressPercentage != 42 {
				t.Errorf("unexpected job: %+v", job)
			}
		})
	}
}

func TestClientProcessFrameSendsJSON(t *testing.T) {
	var got tracking.ProcessFrameRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v1/tracking/frame" {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "unexpected route"})
			return
		}
		body, _ := io.ReadAll(r.Body)
		_ = jsoniter.Unmarshal(body, &got)
		writeJSON(w, http.StatusOK, tracking.ProcessFrameResponse{RequestID: "req-1", TotalMatches: 1})
	}))
	defer srv.Close()

	client := newAPIClient(srv.URL, 5*time.Second)
	resp, err := client.ProcessFrame(tracking.ProcessFrameRequest{
		Images: []string{"aGVsbG8="},
		Prompt: "man in red shirt",
	})
	if err != nil {
		t.Fatalf("ProcessFrame: %v", err)
	}
	if resp.RequestID != "req-1" || resp.TotalMatches != 1 {
		t.Errorf("unexpected response: %+v", resp)
	}
	if got.Prompt != "man in red shirt" || len(got.Images) != 1 {
		t.Errorf("server received %+v", got)
	}
}

func TestClientUploadVideoMultipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("video")
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		defer file.Close()
		content, _ := io.ReadAll(file)
		if header.Filename != "clip.mp4" || string(content) != "fake video" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad upload"})
			return
		}
		writeJSON(w, http.StatusAccepted, jobs.JobCreatedResponse{
			JobID:  "job-9",
			Kind:   entity.JobKindVideoUpload,
			Status: entity.JobStatusPending,
		})
	}))
	defer srv.Close()

	client := newAPIClient(srv.URL, 5*time.Second)
	created, err := client.UploadVideo("clip.mp4", []byte("fake video"))
	if err != nil {
		t.Fatalf("UploadVideo: %v", err)
	}
	if created.JobID != "job-9" {
		t.Errorf("job id = %q", created.JobID)
	}
}

func TestClientNonJSONError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream broke", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := newAPIClient(srv.URL, 5*time.Second).ListVideos()
	var apiErr *apiError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected apiError, got %v", err)
	}
	if apiErr.Status != http.StatusBadGateway || apiErr.Message != "upstream broke" {
		t.Errorf("unexpected error: %+v", apiErr)
	}
}

func TestWatchJobStopsOnTerminalStatus(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		job := entity.Job{JobID: "job-1", Kind: entity.JobKindTrackByID, Status: entity.JobStatusProcessing, ProgressPercentage: 50}
		if n >= 3 {
			job.Status = entity.JobStatusCompleted
			job.ProgressPercentage = 100
		}
		writeJSON(w, http.StatusOK, job)
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := watchJob(ctx, newAPIClient(srv.URL, time.Second), "job-1", 10*time.Millisecond); err != nil {
		t.Fatalf("watchJob: %v", err)
	}
	if calls.Load() != 3 {
		t.Errorf("polled %d times, want 3", calls.Load())
	}
}

func TestWatchJobReportsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, entity.Job{
			JobID:        "job-2",
			Status:       entity.JobStatusFailed,
			ErrorMessage: "no frames stored",
		})
	}))
	defer srv.Close()

	err := watchJob(context.Background(), newAPIClient(srv.URL, time.Second), "job-2", 10*time.Millisecond)
	if err == nil {
		t.Fatal("expected failure to surface as an error")
	}
}
