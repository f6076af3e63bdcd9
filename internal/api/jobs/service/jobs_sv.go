package jobsService

import (
	"PersonTracking/internal/api/jobs"
	"PersonTracking/internal/api/tracking"
	"PersonTracking/internal/entity"
	contextPkg "PersonTracking/pkg/context"
	jobsPkg "PersonTracking/pkg/jobs"
	"PersonTracking/pkg/log"
	"PersonTracking/pkg/video"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/net/context"
)

func (s *jobsService) CreateVideoJob(ctx context.Context, videoName string, data []byte) (entity.Job, error) {
	videoName = strings.TrimSpace(filepath.Base(videoName))
	if videoName == "" || videoName == "." || videoName == "/" {
		return entity.Job{}, jobs.ErrVideoNameRequired
	}
	if len(data) == 0 {
		return entity.Job{}, jobs.ErrVideoRequired
	}

	job := s.orchestrator.CreateJob(entity.JobKindVideoUpload, 0)

	s.log.WithFields(log.Fields{
		"request_id": contextPkg.GetRequestID(ctx),
		"job_id":     job.JobID,
		"video_name": videoName,
		"size_bytes": len(data),
	}).Info("Video upload job created")

	s.orchestrator.Run(job.JobID, func(ctx context.Context, progress *jobsPkg.Progress) (any, error) {
		return s.ingestVideo(ctx, progress, videoName, data)
	})

	return job, nil
}

// ingestVideo splits a video into frames and stores them under a tracking id
// derived from the file name. A cached name short-circuits the whole upload
// unless its frames have disappeared from the blob store.
func (s *jobsService) ingestVideo(ctx context.Context, progress *jobsPkg.Progress, videoName string, data []byte) (*entity.VideoUploadResult, error) {
	progress.Update(0, "Checking video cache")

	cachedID, found, err := s.cache.GetTrackingID(ctx, videoName)
	if err != nil {
		progress.Warn("video cache unavailable: " + err.Error())
	}
	if found {
		stored, err := s.s3.Exists(ctx, cachedID)
		if err != nil {
			return nil, fmt.Errorf("check cached frames: %w", err)
		}
		if !stored {
			s.log.WithFields(log.Fields{
				"job_id":      progress.JobID(),
				"video_name":  videoName,
				"tracking_id": cachedID,
			}).Warn("Cached tracking id has no stored frames, processing video again")
			progress.Warn("cached frames missing for " + cachedID)
			if err := s.cache.DeleteTrackingID(ctx, videoName); err != nil {
				progress.Warn("stale cache entry not removed: " + err.Error())
			}
			found = false
		}
	}
	if found {
		s.log.WithFields(log.Fields{
			"job_id":      progress.JobID(),
			"video_name":  videoName,
			"tracking_id": cachedID,
		}).Info("Video already processed, using cached tracking id")

		return &entity.VideoUploadResult{
			TrackingID:           cachedID,
			VideoName:            videoName,
			NewlyProcessedFrames: 0,
			FromCache:            true,
		}, nil
	}

	trackingID := video.TrackingID(videoName)

	progress.Update(0, "Extracting frames")
	frames, err := s.extractor.ExtractFrames(ctx, data, s.cfg.FrameInterval)
	if err != nil {
		return nil, fmt.Errorf("extract frames: %w", err)
	}

	total := len(frames)
	progress.SetTotal(total)

	var location string
	for offset := 0; offset < total; offset += s.cfg.UploadBatch {
		end := min(offset+s.cfg.UploadBatch, total)

		location, err = s.s3.UploadFrameBatch(ctx, trackingID, offset, frames[offset:end])
		if err != nil {
			return nil, fmt.Errorf("upload frames %d-%d: %w", offset, end-1, err)
		}
		progress.Update(end, fmt.Sprintf("Uploaded %d/%d frames", end, total))
	}

	if err := s.cache.SetTrackingID(ctx, videoName, trackingID); err != nil {
		progress.Warn("tracking id not cached: " + err.Error())
	}

	return &entity.VideoUploadResult{
		TrackingID:           trackingID,
		VideoName:            videoName,
		FrameCount:           total,
		NewlyProcessedFrames: total,
		BlobLocation:         location,
	}, nil
}

func (s *jobsService) CreateTrackByIdJob(ctx context.Context, trackingID string, prompt string) (entity.Job, error) {
	trackingID = strings.TrimSpace(trackingID)
	if trackingID == "" || strings.TrimSpace(prompt) == "" {
		return entity.Job{}, jobs.ErrInvalidJobRequest
	}

	exists, err := s.s3.Exists(ctx, trackingID)
	if err != nil {
		return entity.Job{}, fmt.Errorf("check tracking id: %w", err)
	}
	if !exists {
		return entity.Job{}, jobs.ErrTrackingIDNotFound
	}

	job := s.orchestrator.CreateJob(entity.JobKindTrackByID, 0)

	s.log.WithFields(log.Fields{
		"request_id":  contextPkg.GetRequestID(ctx),
		"job_id":      job.JobID,
		"tracking_id": trackingID,
	}).Info("Track-by-id job created")

	s.orchestrator.Run(job.JobID, func(ctx context.Context, progress *jobsPkg.Progress) (any, error) {
		return s.trackFrames(ctx, progress, trackingID, prompt)
	})

	return job, nil
}

// trackFrames runs the matching pipeline over every stored frame of a video.
// Undecodable frames become warnings; an unusable detector fails the job.
func (s *jobsService) trackFrames(ctx context.Context, progress *jobsPkg.Progress, trackingID string, prompt string) (*entity.TrackByIDResult, error) {
	progress.Update(0, "Loading frames")

	frames, err := s.s3.GetFrames(ctx, trackingID)
	if err != nil {
		return nil, fmt.Errorf("load frames: %w", err)
	}

	total := len(frames)
	progress.SetTotal(total)

	criteria := s.tracking.ExtractCriteria(prompt)
	result := &entity.TrackByIDResult{
		TrackingID:  trackingID,
		Prompt:      prompt,
		Criteria:    criteria.Describe(),
		TotalFrames: total,
		Frames:      make([]entity.FrameMatch, 0, total),
	}

	for idx, frame := range frames {
		match := entity.FrameMatch{
			FrameIndex: idx,
			Detections: []entity.Detection{},
		}

		analysis, err := s.tracking.AnalyzeFrame(ctx, frame, criteria)
		switch {
		case errors.Is(err, tracking.ErrInvalidImage):
			match.Error = err.Error()
			progress.Warn(fmt.Sprintf("frame %d: %s", idx, tracking.ErrInvalidImage.Error()))
		case err != nil:
			return nil, fmt.Errorf("frame %d: %w", idx, err)
		default:
			match.Detections = analysis.Detections
			if len(analysis.Detections) > 0 {
				result.FramesWithMatches++
			}
		}

		result.Frames = append(result.Frames, match)
		result.ProcessedFrames = idx + 1
		progress.Update(idx+1, fmt.Sprintf("Analyzed frame %d/%d", idx+1, total))
	}

	log.WithJob(ctx).WithFields(log.Fields{
		"tracking_id":         trackingID,
		"frames":              total,
		"frames_with_matches": result.FramesWithMatches,
	}).Info("Track-by-id finished")

	return result, nil
}

func (s *jobsService) GetJobStatus(ctx context.Context, jobID string) (entity.Job, error) {
	job, ok := s.orchestrator.Get(jobID)
	if !ok {
		return entity.Job{}, jobs.ErrJobNotFound
	}
	return job, nil
}

func (s *jobsService) ListJobs(ctx context.Context) []entity.Job {
	return s.orchestrator.List()
}

func (s *jobsService) WatchJob(ctx context.Context, jobID string) (<-chan entity.Job, error) {
	if _, ok := s.orchestrator.Get(jobID); !ok {
		return nil, jobs.ErrJobNotFound
	}
	return s.orchestrator.Watch(ctx, jobID), nil
}

func (s *jobsService) ListVideos(ctx context.Context) ([]string, error) {
	ids, err := s.s3.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	return ids, nil
}
