package jobsService

import (
	trackingService "PersonTracking/internal/api/tracking/service"
	"PersonTracking/internal/entity"
	jobsPkg "PersonTracking/pkg/jobs"
	"PersonTracking/pkg/redis"
	"PersonTracking/pkg/s3"
	"PersonTracking/pkg/video"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

type IJobsService interface {
	CreateVideoJob(ctx context.Context, videoName string, data []byte) (entity.Job, error)
	CreateTrackByIdJob(ctx context.Context, trackingID string, prompt string) (entity.Job, error)
	GetJobStatus(ctx context.Context, jobID string) (entity.Job, error)
	ListJobs(ctx context.Context) []entity.Job
	WatchJob(ctx context.Context, jobID string) (<-chan entity.Job, error)
	ListVideos(ctx context.Context) ([]string, error)
}

type Config struct {
	// FrameInterval keeps every n-th decoded frame of an uploaded video.
	FrameInterval int
	UploadBatch   int
}

func DefaultConfig() Config {
	return Config{
		FrameInterval: 10,
		UploadBatch:   10,
	}
}

type jobsService struct {
	log          *logrus.Logger
	cfg          Config
	orchestrator jobsPkg.IOrchestrator
	cache        redis.IRedis
	s3           s3.ItfS3
	extractor    video.Extractor
	tracking     trackingService.ITrackingService
}

func NewJobsService(
	log *logrus.Logger,
	cfg Config,
	orchestrator jobsPkg.IOrchestrator,
	cache redis.IRedis,
	s3 s3.ItfS3,
	extractor video.Extractor,
	tracking trackingService.ITrackingService,
) IJobsService {
	if cfg.FrameInterval <= 0 {
		cfg.FrameInterval = DefaultConfig().FrameInterval
	}
	if cfg.UploadBatch <= 0 {
		cfg.UploadBatch = DefaultConfig().UploadBatch
	}

	return &jobsService{
		log:          log,
		cfg:          cfg,
		orchestrator: orchestrator,
		cache:        cache,
		s3:           s3,
		extractor:    extractor,
		tracking:     tracking,
	}
}
