package detector

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTTPBackendDetect(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/detect":
			if r.Method != http.MethodPost {
				w.WriteHeader(http.StatusMethodNotAllowed)
				return
			}
			if r.URL.Query().Get("confidence") != "0.45" {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			body, _ := io.ReadAll(r.Body)
			if string(body) != "jpeg-bytes" {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"detections":[{"x":1,"y":2,"width":30,"height":60,"confidence":0.9,"label":"person","class_id":0},{"x":5,"y":5,"width":10,"height":10,"confidence":0.7,"class_id":24}],"count":2,"original_size":[640,480]}`))
		case "/health":
			w.Write([]byte(`{"status":"healthy","model_loaded":true}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	backend, err := NewHTTPBackend(srv.URL, 0.45, 0.5)
	if err != nil {
		t.Fatalf("NewHTTPBackend() error = %v", err)
	}

	objects, err := backend.DetectObjects(context.Background(), []byte("jpeg-bytes"))
	if err != nil {
		t.Fatalf("DetectObjects() error = %v", err)
	}
	if len(objects) != 2 {
		t.Fatalf("expected 2 objects, got %d", len(objects))
	}
	if !objects[0].IsPerson() || objects[0].BoundingBox.Width != 30 {
		t.Errorf("unexpected first object: %+v", objects[0])
	}
	if objects[1].ObjectType != "backpack" {
		t.Errorf("expected label from class id, got %q", objects[1].ObjectType)
	}

	if err := backend.(HealthChecker).Health(context.Background()); err != nil {
		t.Errorf("Health() error = %v", err)
	}
}

func TestHTTPBackendServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"model crashed"}`))
	}))
	defer srv.Close()

	backend, _ := NewHTTPBackend(srv.URL, 0.45, 0.5)
	if _, err := backend.DetectObjects(context.Background(), []byte("x")); err == nil {
		t.Error("expected error on 500 response")
	}
}

func TestNewHTTPBackendRejectsBadURL(t *testing.T) {
	if _, err := NewHTTPBackend("not a url", 0.5, 0.5); err == nil {
		t.Error("expected error for invalid url")
	}
}
