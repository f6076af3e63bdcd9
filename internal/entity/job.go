package entity

import "time"

type JobStatus string

const (
	JobStatusPending    JobStatus = "Pending"
	JobStatusProcessing JobStatus = "Processing"
	JobStatusCompleted  JobStatus = "Completed"
	JobStatusFailed     JobStatus = "Failed"
)

func (s JobStatus) IsTerminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

type JobKind string

const (
	JobKindVideoUpload JobKind = "video_upload"
	JobKindTrackByID   JobKind = "track_by_id"
)

type Job struct {
	JobID              string     `json:"job_id"`
	Kind               JobKind    `json:"kind"`
	Status             JobStatus  `json:"status"`
	ProgressPercentage int        `json:"progress_percentage"`
	CurrentStep        string     `json:"current_step"`
	TotalUnits         int        `json:"total_units"`
	ProcessedUnits     int        `json:"processed_units"`
	CreatedAt          time.Time  `json:"created_at"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`
	Result             any        `json:"result,omitempty"`
	ErrorMessage       string     `json:"error_message,omitempty"`
	Warnings           []string   `json:"warnings,omitempty"`
}

type VideoUploadResult struct {
	TrackingID           string `json:"tracking_id"`
	VideoName            string `json:"video_name"`
	FrameCount           int    `json:"frame_count"`
	NewlyProcessedFrames int    `json:"newly_processed_frames"`
	FromCache            bool   `json:"from_cache"`
	BlobLocation         string `json:"blob_location,omitempty"`
}

type FrameMatch struct {
	FrameIndex int         `json:"frame_index"`
	Detections []Detection `json:"detections"`
	Error      string      `json:"error,omitempty"`
}

type TrackByIDResult struct {
	TrackingID        string       `json:"tracking_id"`
	Prompt            string       `json:"prompt"`
	Criteria          string       `json:"criteria"`
	TotalFrames       int          `json:"total_frames"`
	ProcessedFrames   int          `json:"processed_frames"`
	FramesWithMatches int          `json:"frames_with_matches"`
	Frames            []FrameMatch `json:"frames"`
}
