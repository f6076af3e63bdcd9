package jobsHandler

import (
	"PersonTracking/internal/api/jobs"
	"PersonTracking/internal/entity"
	contextPkg "PersonTracking/pkg/context"
	"PersonTracking/pkg/handlerUtil"
	"PersonTracking/pkg/log"
	"PersonTracking/pkg/utils"
	"errors"
	"fmt"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"
	"time"
)

func created(c *fiber.Ctx, job entity.Job) jobs.JobCreatedResponse {
	return jobs.JobCreatedResponse{
		JobID:     job.JobID,
		Kind:      job.Kind,
		Status:    job.Status,
		StatusURL: fmt.Sprintf("%s/api/v1/jobs/%s", c.BaseURL(), job.JobID),
	}
}

func (h *JobsHandler) CreateVideoJob(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 30*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	file, err := ctx.FormFile("video")
	if err != nil {
		return errHandler.Handle(ctx, requestID, jobs.ErrVideoRequired, ctx.Path(), "read_form_file")
	}

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
		"file_name":  file.Filename,
		"file_size":  file.Size,
	}).Debug("Processing video upload")

	if err := h.utils.ValidateVideoFile(file); err != nil {
		if errors.Is(err, utils.ErrFileTooLarge) {
			return errHandler.Handle(ctx, requestID, fiber.ErrRequestEntityTooLarge, ctx.Path(), "validate_video_file")
		}
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	data, err := h.utils.ReadFile(file)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "read_video_file")
	}

	job, err := h.jobsService.CreateVideoJob(c, file.Filename, data)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "create_video_job")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusAccepted, created(ctx, job))
}

func (h *JobsHandler) CreateTrackByIdJob(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	var req jobs.TrackByIDRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.Handle(ctx, requestID, fiber.ErrBadRequest, ctx.Path(), "parse_request_body")
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	job, err := h.jobsService.CreateTrackByIdJob(c, req.TrackingID, req.Prompt)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "create_track_by_id_job")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusAccepted, created(ctx, job))
}

func (h *JobsHandler) GetJobStatus(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	errHandler := handlerUtil.New(h.log)

	job, err := h.jobsService.GetJobStatus(contextPkg.FromFiberCtx(ctx), ctx.Params("id"))
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_job_status")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, job)
}

func (h *JobsHandler) ListJobs(ctx *fiber.Ctx) error {
	list := h.jobsService.ListJobs(contextPkg.FromFiberCtx(ctx))
	return handlerUtil.New(h.log).HandleSuccess(ctx, fiber.StatusOK, jobs.JobsResponse{
		Jobs:  list,
		Count: len(list),
	})
}

func (h *JobsHandler) ListVideos(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	ids, err := h.jobsService.ListVideos(c)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "list_videos")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, jobs.VideosResponse{
		TrackingIDs: ids,
		Count:       len(ids),
	})
}
