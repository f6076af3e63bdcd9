package jobsHandler

import (
	jobsService "PersonTracking/internal/api/jobs/service"
	"PersonTracking/internal/middleware"
	"PersonTracking/pkg/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"
)

type JobsHandler struct {
	log         *logrus.Logger
	validator   *validator.Validate
	middleware  middleware.Middleware
	jobsService jobsService.IJobsService
	utils       utils.IUtils
}

func New(
	log *logrus.Logger,
	validate *validator.Validate,
	middleware middleware.Middleware,
	js jobsService.IJobsService,
	utils utils.IUtils,
) *JobsHandler {
	return &JobsHandler{
		log:         log,
		validator:   validate,
		middleware:  middleware,
		jobsService: js,
		utils:       utils,
	}
}

func (h *JobsHandler) Start(srv fiber.Router) {
	wsMiddleware := func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}

	jobs := srv.Group("/jobs")
	jobs.Post("/video", h.middleware.NewRateLimiter, h.CreateVideoJob)
	jobs.Post("/track-by-id", h.middleware.NewRateLimiter, h.CreateTrackByIdJob)
	jobs.Use("/:id/ws", wsMiddleware)
	jobs.Get("/:id/ws", websocket.New(h.handleJobWebSocket))
	jobs.Get("/:id", h.GetJobStatus)

	srv.Get("/jobs", h.ListJobs)
	srv.Get("/videos", h.ListVideos)
}
