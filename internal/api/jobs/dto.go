package jobs

import "PersonTracking/internal/entity"

type TrackByIDRequest struct {
	TrackingID string `json:"tracking_id" validate:"required,max=64"`
	Prompt     string `json:"prompt" validate:"required,max=1000"`
}

type JobCreatedResponse struct {
	JobID     string           `json:"job_id"`
	Kind      entity.JobKind   `json:"kind"`
	Status    entity.JobStatus `json:"status"`
	StatusURL string           `json:"status_url"`
}

type JobsResponse struct {
	Jobs  []entity.Job `json:"jobs"`
	Count int          `json:"count"`
}

type VideosResponse struct {
	TrackingIDs []string `json:"tracking_ids"`
	Count       int      `json:"count"`
}
