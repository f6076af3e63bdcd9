package trackingHandler

import (
	trackingService "PersonTracking/internal/api/tracking/service"
	"PersonTracking/internal/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type TrackingHandler struct {
	log             *logrus.Logger
	validator       *validator.Validate
	middleware      middleware.Middleware
	trackingService trackingService.ITrackingService
}

func New(
	log *logrus.Logger,
	validate *validator.Validate,
	middleware middleware.Middleware,
	ts trackingService.ITrackingService,
) *TrackingHandler {
	return &TrackingHandler{
		log:             log,
		validator:       validate,
		middleware:      middleware,
		trackingService: ts,
	}
}

func (h *TrackingHandler) Start(srv fiber.Router) {
	tracking := srv.Group("/tracking")

	tracking.Post("/frame", h.middleware.NewRateLimiter, h.ProcessFrame)
	tracking.Get("/tracks", h.GetActiveTracks)
	tracking.Get("/tracks/:id", h.GetTrackByID)
	tracking.Get("/detector/health", h.DetectorHealth)
}
