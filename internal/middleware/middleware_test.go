package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

func newTestApp(cfg Config) *fiber.App {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	m := New(logger, cfg)

	app := fiber.New()
	app.Use(m.NewRequestIDMiddleware())
	app.Use(m.NewLoggingMiddleware())
	app.Use(m.NewRateLimiter)
	app.Get("/id", func(c *fiber.Ctx) error {
		return c.SendString(m.GetRequestID(c))
	})
	return app
}

func TestRequestIDIsGeneratedAndEchoed(t *testing.T) {
	app := newTestApp(DefaultConfig())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/id", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	if len(body) != 26 {
		t.Errorf("expected a ulid request id, got %q", body)
	}
	if resp.Header.Get(RequestIDKey) != string(body) {
		t.Errorf("expected header to echo request id")
	}

	req := httptest.NewRequest(http.MethodGet, "/id", nil)
	req.Header.Set(RequestIDKey, "client-id")
	resp, _ = app.Test(req)
	body, _ = io.ReadAll(resp.Body)
	if string(body) != "client-id" {
		t.Errorf("expected client supplied id, got %q", body)
	}
}

func TestRequestIDRejectsUnsafeClientValues(t *testing.T) {
	app := newTestApp(DefaultConfig())

	tests := []struct {
		name string
		id   string
	}{
		{name: "path separator", id: "../../etc"},
		{name: "whitespace", id: "two words"},
		{name: "too long", id: strings.Repeat("a", maxRequestIDLength+1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/id", nil)
			req.Header.Set(RequestIDKey, tt.id)
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			body, _ := io.ReadAll(resp.Body)
			if string(body) == tt.id || len(body) != 26 {
				t.Errorf("expected a generated id, got %q", body)
			}
		})
	}
}

func TestRateLimiter(t *testing.T) {
	app := newTestApp(Config{RequestsPerSecond: 0.001, Burst: 2})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/id", nil))
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		codes = append(codes, resp.StatusCode)
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Errorf("unexpected status sequence %v", codes)
	}
}

func TestSanitizeRequestBody(t *testing.T) {
	got := sanitizeRequestBody([]byte(`{"prompt":"red shirt","images":["aGVsbG8=","d29ybGQ="]}`))

	if strings.Contains(got, "aGVsbG8=") {
		t.Errorf("image payload leaked into log: %s", got)
	}
	if !strings.Contains(got, `"images":"[2 items]"`) || !strings.Contains(got, "red shirt") {
		t.Errorf("unexpected sanitized body %s", got)
	}

	if got := sanitizeRequestBody([]byte("not json")); got != "[non-JSON body]" {
		t.Errorf("unexpected %q", got)
	}
}
