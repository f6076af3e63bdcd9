package trackingHandler

import (
	"PersonTracking/internal/api/tracking"
	contextPkg "PersonTracking/pkg/context"
	"PersonTracking/pkg/handlerUtil"
	"PersonTracking/pkg/log"
	"errors"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"
	"time"
)

// Detection over a batch of frames can take several backend round trips.
const processFrameTimeout = 2 * time.Minute

func (h *TrackingHandler) ProcessFrame(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), processFrameTimeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	var req tracking.ProcessFrameRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.Handle(ctx, requestID, fiber.ErrBadRequest, ctx.Path(), "parse_request_body")
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
		"images":     len(req.Images),
	}).Debug("Processing frame request")

	result, err := h.trackingService.ProcessFrame(c, req)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "process_frame")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, result)
	}
}

func (h *TrackingHandler) GetActiveTracks(ctx *fiber.Ctx) error {
	c := contextPkg.FromFiberCtx(ctx)
	return handlerUtil.New(h.log).HandleSuccess(ctx, fiber.StatusOK, h.trackingService.GetActiveTracks(c))
}

func (h *TrackingHandler) GetTrackByID(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c := contextPkg.FromFiberCtx(ctx)
	errHandler := handlerUtil.New(h.log)

	id := ctx.Params("id")
	if id == "" {
		return errHandler.HandleValidationError(ctx, requestID, errors.New("tracking ID is required"), ctx.Path())
	}

	track, err := h.trackingService.GetTrackByID(c, id)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_track")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, track)
}

func (h *TrackingHandler) DetectorHealth(ctx *fiber.Ctx) error {
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	health := h.trackingService.DetectorHealth(c)

	status := fiber.StatusOK
	if health.Status != "available" {
		status = fiber.StatusServiceUnavailable
	}
	return handlerUtil.New(h.log).HandleSuccess(ctx, status, health)
}
