package tracking

import (
	"PersonTracking/internal/entity"
	"PersonTracking/pkg/matcher"
	"image"
)

type ProcessFrameRequest struct {
	Images []string `json:"images" validate:"max=32"`
	Prompt string   `json:"prompt" validate:"max=1000"`
}

type FrameResult struct {
	ImageIndex     int                `json:"image_index"`
	Width          int                `json:"width,omitempty"`
	Height         int                `json:"height,omitempty"`
	TotalPersons   int                `json:"total_persons"`
	Detections     []entity.Detection `json:"detections"`
	AnnotatedFrame string             `json:"annotated_frame,omitempty"`
	Error          string             `json:"error,omitempty"`
}

type ProcessFrameResponse struct {
	RequestID        string                `json:"request_id"`
	Prompt           string                `json:"prompt"`
	Criteria         entity.SearchCriteria `json:"criteria"`
	CriteriaSummary  string                `json:"criteria_summary"`
	Detections       []entity.Detection    `json:"detections"`
	Frames           []FrameResult         `json:"frames"`
	TotalMatches     int                   `json:"total_matches"`
	ProcessingTimeMs int64                 `json:"processing_time_ms"`
	Warnings         []string              `json:"warnings,omitempty"`
}

// FrameAnalysis is the outcome of running the detection and matching pipeline
// over one decoded frame.
type FrameAnalysis struct {
	Image        image.Image
	TotalPersons int
	Detections   []entity.Detection
	Evaluations  []matcher.Evaluation
}

type TracksResponse struct {
	Tracks []entity.PersonTrack `json:"tracks"`
	Count  int                  `json:"count"`
}

type DetectorHealthResponse struct {
	Status   string            `json:"status"`
	Backends map[string]string `json:"backends"`
}
