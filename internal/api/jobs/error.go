package jobs

import (
	"PersonTracking/pkg/response"
	"net/http"
)

var (
	ErrJobNotFound        = response.NewError(http.StatusNotFound, "job not found")
	ErrVideoRequired      = response.NewError(http.StatusBadRequest, "video file is required")
	ErrVideoNameRequired  = response.NewError(http.StatusBadRequest, "video file name is required")
	ErrTrackingIDNotFound = response.NewError(http.StatusNotFound, "tracking id not found")
	ErrInvalidJobRequest  = response.NewError(http.StatusBadRequest, "tracking id and prompt are required")
)
