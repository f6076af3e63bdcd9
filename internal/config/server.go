package config

import (
	jobsHandler "PersonTracking/internal/api/jobs/handler"
	jobsService "PersonTracking/internal/api/jobs/service"
	trackingHandler "PersonTracking/internal/api/tracking/handler"
	trackingService "PersonTracking/internal/api/tracking/service"
	"PersonTracking/internal/middleware"
	"PersonTracking/pkg/accessory"
	"PersonTracking/pkg/analyzer"
	"PersonTracking/pkg/detector"
	"PersonTracking/pkg/imaging"
	jobsPkg "PersonTracking/pkg/jobs"
	"PersonTracking/pkg/matcher"
	"PersonTracking/pkg/nlp"
	"PersonTracking/pkg/redis"
	"PersonTracking/pkg/s3"
	trackingPkg "PersonTracking/pkg/tracking"
	"PersonTracking/pkg/utils"
	"PersonTracking/pkg/video"
	"fmt"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type ServerOption func(*Server) error

type Server struct {
	engine     *fiber.App
	env        Env
	log        *logrus.Logger
	middleware middleware.Middleware
	validator  *validator.Validate
	utils      utils.IUtils
	handlers   []handler
	detector   detector.IDetector
	cache      redis.IRedis
	s3Client   s3.ItfS3
	extractor  video.Extractor
	registry   trackingPkg.IRegistry
}

type handler interface {
	Start(srv fiber.Router)
}

func NewServer(options ...ServerOption) (*Server, error) {
	server := &Server{}

	for _, option := range options {
		if err := option(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if server.engine == nil {
		return nil, fmt.Errorf("fiber app is required")
	}
	if server.log == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if server.detector == nil {
		return nil, fmt.Errorf("detector is required")
	}
	if server.validator == nil {
		server.validator = NewValidator()
	}
	if server.utils == nil {
		server.utils = utils.New()
	}
	if server.middleware == nil {
		server.middleware = middleware.New(server.log, middleware.Config{
			RequestsPerSecond: server.env.RateLimitPerSecond,
			Burst:             server.env.RateLimitBurst,
		})
	}
	if server.cache == nil {
		server.log.Warn("REDIS_ADDRESS not set, video cache is kept in memory")
		server.cache = redis.NewInMemory()
	}
	if server.s3Client == nil {
		server.log.Warn("AWS_BUCKET_NAME not set, frames are kept in memory")
		server.s3Client = s3.NewMemoryStore()
	}
	if server.extractor == nil {
		server.extractor = video.NewFFmpegExtractor(server.env.FFmpegBinary)
	}

	return server, nil
}

func WithFiber(fiberApp *fiber.App) ServerOption {
	return func(s *Server) error {
		s.engine = fiberApp
		return nil
	}
}

func WithEnv(env Env) ServerOption {
	return func(s *Server) error {
		s.env = env
		return nil
	}
}

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) error {
		s.log = logger
		return nil
	}
}

func WithValidator(validator *validator.Validate) ServerOption {
	return func(s *Server) error {
		s.validator = validator
		return nil
	}
}

func WithDetector(d detector.IDetector) ServerOption {
	return func(s *Server) error {
		s.detector = d
		return nil
	}
}

func WithRedisCache(cache redis.IRedis) ServerOption {
	return func(s *Server) error {
		s.cache = cache
		return nil
	}
}

func WithS3Store() ServerOption {
	return func(s *Server) error {
		client, err := s3.New()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to initialize S3 client: %v", err)
			}
			return fmt.Errorf("failed to create S3 client: %w", err)
		}
		s.s3Client = client
		return nil
	}
}

func WithVideoExtractor(extractor video.Extractor) ServerOption {
	return func(s *Server) error {
		s.extractor = extractor
		return nil
	}
}

func WithMiddleware() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before middleware")
		}
		s.middleware = middleware.New(s.log, middleware.Config{
			RequestsPerSecond: s.env.RateLimitPerSecond,
			Burst:             s.env.RateLimitBurst,
		})
		return nil
	}
}

func WithUtils() ServerOption {
	return func(s *Server) error {
		s.utils = utils.New()
		return nil
	}
}

func (s *Server) RegisterHandler() {
	// Matching pipeline
	colors := analyzer.NewColorAnalyzer()
	physical := analyzer.NewPhysicalAnalyzer(s.env.ReferenceFrameHeightM, s.env.HeightToleranceMeters)
	associator := accessory.NewAssociator(s.env.AssociationIoU, s.env.AssociationMargin)
	scorer := matcher.NewScorer(colors, physical, associator, s.env.MatchParallelism)
	s.registry = trackingPkg.NewRegistry(s.env.TrackIoU)

	// Tracking Domain
	trackingServices := trackingService.NewTrackingService(s.log, s.detector, imaging.NewDecoder(), nlp.NewExtractor(), scorer, s.registry, s.s3Client, s.utils)
	trackingHandlers := trackingHandler.New(s.log, s.validator, s.middleware, trackingServices)

	// Jobs Domain
	orchestrator := jobsPkg.NewOrchestrator(s.log)
	jobsServices := jobsService.NewJobsService(s.log, jobsService.Config{
		FrameInterval: s.env.VideoFrameInterval,
		UploadBatch:   s.env.VideoUploadBatch,
	}, orchestrator, s.cache, s.s3Client, s.extractor, trackingServices)
	jobsHandlers := jobsHandler.New(s.log, s.validator, s.middleware, jobsServices, s.utils)

	s.setupHealthCheck()
	s.handlers = append(s.handlers, trackingHandlers, jobsHandlers)
}

func (s *Server) mount() {
	s.engine.Use(s.middleware.NewRequestIDMiddleware())
	s.engine.Use(s.middleware.NewLoggingMiddleware())
	router := s.engine.Group("/api/v1")

	for _, h := range s.handlers {
		h.Start(router)
	}
}

func (s *Server) Run() error {
	s.mount()

	port := s.env.AppPort
	if port == "" {
		port = "3000"
	}

	return s.engine.Listen(fmt.Sprintf(":%s", port))
}

// Shutdown stops accepting requests and releases the cache connection.
func (s *Server) Shutdown() error {
	if err := s.engine.Shutdown(); err != nil {
		return err
	}
	if s.cache != nil {
		return s.cache.Close()
	}
	return nil
}

func (s *Server) setupHealthCheck() {
	s.engine.Get("/", func(ctx *fiber.Ctx) error {
		tracks := 0
		if s.registry != nil {
			tracks = s.registry.Len()
		}
		return ctx.JSON(fiber.Map{
			"message":       "Server is Healthy!",
			"active_tracks": tracks,
		})
	})
}
