package tracking

import (
	"PersonTracking/pkg/response"
	"net/http"
)

var (
	ErrNoImages             = response.NewError(http.StatusBadRequest, "at least one image is required")
	ErrEmptyPrompt          = response.NewError(http.StatusBadRequest, "prompt must not be empty")
	ErrInvalidImage         = response.NewErrorWithKind(http.StatusBadRequest, "INVALID_IMAGE", "invalid or unsupported image data")
	ErrTrackNotFound        = response.NewError(http.StatusNotFound, "track not found")
	ErrDetectionUnavailable = response.NewErrorWithKind(http.StatusServiceUnavailable, "DETECTION_UNAVAILABLE", "detection service unavailable")
)
