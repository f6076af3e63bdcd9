package main

import (
	"PersonTracking/internal/api/jobs"
	"PersonTracking/internal/api/tracking"
	"PersonTracking/internal/entity"
	"PersonTracking/pkg/handlerUtil"
	"errors"
	"fmt"
	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
	"strings"
	"time"
)

// apiClient talks to the /api/v1 surface of the tracking server.
type apiClient struct {
	baseURL string
	timeout time.Duration
}

type apiError struct {
	Status  int
	Message string
	TraceID string
}

func (e *apiError) Error() string {
	if e.TraceID != "" {
		return fmt.Sprintf("server returned %d: %s (trace %s)", e.Status, e.Message, e.TraceID)
	}
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

func newAPIClient(baseURL string, timeout time.Duration) *apiClient {
	return &apiClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
	}
}

func (c *apiClient) url(path string) string {
	return c.baseURL + "/api/v1" + path
}

func (c *apiClient) do(agent *fiber.Agent, out any) error {
	if c.timeout > 0 {
		agent.Timeout(c.timeout)
	}

	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("send request: %w", errors.Join(errs...))
	}

	if code < fiber.StatusOK || code >= fiber.StatusMultipleChoices {
		var errResp handlerUtil.ErrorResponse
		if err := jsoniter.Unmarshal(body, &errResp); err != nil || errResp.Error == "" {
			return &apiError{Status: code, Message: strings.TrimSpace(string(body))}
		}
		return &apiError{Status: code, Message: errResp.Error, TraceID: errResp.TraceID}
	}

	if out == nil {
		return nil
	}
	if err := jsoniter.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *apiClient) ProcessFrame(req tracking.ProcessFrameRequest) (*tracking.ProcessFrameResponse, error) {
	agent := fiber.Post(c.url("/tracking/frame"))
	agent.JSONEncoder(jsoniter.Marshal)
	agent.JSON(req)

	var resp tracking.ProcessFrameResponse
	if err := c.do(agent, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *apiClient) UploadVideo(name string, content []byte) (*jobs.JobCreatedResponse, error) {
	agent := fiber.Post(c.url("/jobs/video"))
	agent.FileData(&fiber.FormFile{
		Fieldname: "video",
		Name:      name,
		Content:   content,
	})
	agent.MultipartForm(nil)

	var resp jobs.JobCreatedResponse
	if err := c.do(agent, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *apiClient) TrackByID(req jobs.TrackByIDRequest) (*jobs.JobCreatedResponse, error) {
	agent := fiber.Post(c.url("/jobs/track-by-id"))
	agent.JSONEncoder(jsoniter.Marshal)
	agent.JSON(req)

	var resp jobs.JobCreatedResponse
	if err := c.do(agent, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *apiClient) GetJob(jobID string) (*entity.Job, error) {
	agent := fiber.Get(c.url("/jobs/" + jobID))

	var job entity.Job
	if err := c.do(agent, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

func (c *apiClient) ListVideos() (*jobs.VideosResponse, error) {
	agent := fiber.Get(c.url("/videos"))

	var resp jobs.VideosResponse
	if err := c.do(agent, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
