package trackingService

import (
	"PersonTracking/internal/api/tracking"
	"PersonTracking/internal/entity"
	contextPkg "PersonTracking/pkg/context"
	"PersonTracking/pkg/detector"
	"PersonTracking/pkg/imaging"
	"PersonTracking/pkg/log"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/net/context"
)

const (
	annotatedMaxSide   = 1280
	annotatedQuality   = 85
	annotationStroke   = 3
	annotatedKeyPrefix = "annotated"
)

func (s *trackingService) ExtractCriteria(prompt string) entity.SearchCriteria {
	return s.extractor.Extract(prompt)
}

func (s *trackingService) ProcessFrame(ctx context.Context, req tracking.ProcessFrameRequest) (*tracking.ProcessFrameResponse, error) {
	start := time.Now()
	requestID := contextPkg.GetRequestID(ctx)

	if len(req.Images) == 0 {
		return nil, tracking.ErrNoImages
	}
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, tracking.ErrEmptyPrompt
	}

	criteria := s.extractor.Extract(req.Prompt)

	s.log.WithFields(log.Fields{
		"request_id": requestID,
		"images":     len(req.Images),
		"criteria":   criteria.Describe(),
	}).Info("Processing frame batch")

	resp := &tracking.ProcessFrameResponse{
		RequestID:       requestID,
		Prompt:          req.Prompt,
		Criteria:        criteria,
		CriteriaSummary: criteria.Describe(),
		Detections:      []entity.Detection{},
		Frames:          make([]tracking.FrameResult, 0, len(req.Images)),
	}

	// Frames are processed in order so track identities follow the sequence.
	for idx, payload := range req.Images {
		frame := tracking.FrameResult{
			ImageIndex: idx,
			Detections: []entity.Detection{},
		}

		data, err := s.utils.DecodeBase64Image(payload)
		if err != nil {
			frame.Error = "invalid base64 image payload"
			resp.Frames = append(resp.Frames, frame)
			resp.Warnings = append(resp.Warnings, fmt.Sprintf("image %d: %s", idx, frame.Error))
			continue
		}

		analysis, err := s.AnalyzeFrame(ctx, data, criteria)
		if err != nil {
			if errors.Is(err, tracking.ErrInvalidImage) {
				frame.Error = tracking.ErrInvalidImage.Error()
				resp.Frames = append(resp.Frames, frame)
				resp.Warnings = append(resp.Warnings, fmt.Sprintf("image %d: %s", idx, frame.Error))
				continue
			}
			return nil, err
		}

		frame.Width, frame.Height = imaging.Dimensions(analysis.Image)
		frame.TotalPersons = analysis.TotalPersons
		frame.Detections = analysis.Detections

		location, err := s.uploadAnnotated(ctx, requestID, idx, analysis)
		if err != nil {
			s.log.WithFields(log.Fields{
				"request_id":  requestID,
				"image_index": idx,
				"error":       err.Error(),
			}).Warn("Failed to store annotated frame")
			resp.Warnings = append(resp.Warnings, fmt.Sprintf("image %d: annotated frame not stored", idx))
		}
		frame.AnnotatedFrame = location

		resp.Detections = append(resp.Detections, analysis.Detections...)
		resp.Frames = append(resp.Frames, frame)
	}

	rankDetections(resp.Detections)
	resp.TotalMatches = len(resp.Detections)
	resp.ProcessingTimeMs = time.Since(start).Milliseconds()

	s.log.WithFields(log.Fields{
		"request_id":    requestID,
		"matches":       resp.TotalMatches,
		"warnings":      len(resp.Warnings),
		"processing_ms": resp.ProcessingTimeMs,
	}).Info("Frame batch processed")

	return resp, nil
}

// AnalyzeFrame runs detection, matching and identity assignment for a single
// encoded frame. Only included persons are registered with the tracker.
func (s *trackingService) AnalyzeFrame(ctx context.Context, frame []byte, criteria entity.SearchCriteria) (*tracking.FrameAnalysis, error) {
	img, err := s.decoder.Decode(frame)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", tracking.ErrInvalidImage, err)
	}

	objects, err := s.detector.DetectObjects(ctx, frame)
	if err != nil {
		if errors.Is(err, detector.ErrDetectionUnavailable) {
			return nil, fmt.Errorf("%w: %v", tracking.ErrDetectionUnavailable, err)
		}
		return nil, err
	}

	persons := make([]entity.BoundingBox, 0, len(objects))
	for _, obj := range objects {
		if obj.IsPerson() {
			persons = append(persons, obj.BoundingBox)
		}
	}

	evaluations, err := s.scorer.Evaluate(ctx, img, persons, objects, criteria)
	if err != nil {
		return nil, err
	}

	detections := make([]entity.Detection, 0, len(evaluations))
	for _, e := range evaluations {
		if !e.Included {
			continue
		}
		trackingID := s.registry.Assign(e.Box, e.Description, e.Features)
		detections = append(detections, entity.Detection{
			TrackingID:      trackingID,
			BoundingBox:     e.Box,
			Description:     e.Description,
			MatchScore:      e.MatchScore,
			MatchedCriteria: e.MatchedCriteria,
		})
	}
	rankDetections(detections)

	return &tracking.FrameAnalysis{
		Image:        img,
		TotalPersons: len(persons),
		Detections:   detections,
		Evaluations:  evaluations,
	}, nil
}

// uploadAnnotated stores the frame with its boxes drawn and returns a
// presigned link to it.
func (s *trackingService) uploadAnnotated(ctx context.Context, requestID string, idx int, analysis *tracking.FrameAnalysis) (string, error) {
	if s.s3 == nil {
		return "", nil
	}

	width, _ := imaging.Dimensions(analysis.Image)
	scaled := s.utils.FitWithin(analysis.Image, annotatedMaxSide, annotatedMaxSide)
	factor := 1.0
	if scaledWidth, _ := imaging.Dimensions(scaled); width > 0 {
		factor = float64(scaledWidth) / float64(width)
	}

	annotations := make([]imaging.Annotation, 0, len(analysis.Evaluations))
	for _, e := range analysis.Evaluations {
		a := imaging.Annotation{Box: imaging.Scale(e.Box, factor), Color: imaging.OtherColor}
		if e.Included {
			a.Color = imaging.MatchColor
			a.Label = fmt.Sprintf("%.2f", e.MatchScore)
		}
		annotations = append(annotations, a)
	}

	data, err := imaging.AnnotateJPEG(scaled, annotations, annotationStroke, annotatedQuality)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("%s/%s/%d.jpg", annotatedKeyPrefix, requestID, idx)
	location, err := s.s3.UploadObject(ctx, key, data, "image/jpeg")
	if err != nil {
		return "", err
	}

	url, err := s.s3.PresignUrl(key)
	if err != nil {
		s.log.WithFields(log.Fields{
			"request_id": requestID,
			"key":        key,
			"error":      err.Error(),
		}).Warn("Failed to presign annotated frame, returning object location")
		return location, nil
	}
	return url, nil
}

func (s *trackingService) GetActiveTracks(ctx context.Context) tracking.TracksResponse {
	tracks := s.registry.ActiveTracks()
	return tracking.TracksResponse{
		Tracks: tracks,
		Count:  len(tracks),
	}
}

func (s *trackingService) GetTrackByID(ctx context.Context, trackingID string) (entity.PersonTrack, error) {
	track, ok := s.registry.Track(trackingID)
	if !ok {
		return entity.PersonTrack{}, tracking.ErrTrackNotFound
	}
	return track, nil
}

func (s *trackingService) DetectorHealth(ctx context.Context) tracking.DetectorHealthResponse {
	backends := s.detector.Health(ctx)

	status := "unavailable"
	for _, state := range backends {
		if state == "healthy" || state == "unknown" {
			status = "available"
			break
		}
	}

	return tracking.DetectorHealthResponse{
		Status:   status,
		Backends: backends,
	}
}

// rankDetections orders by match score, highest first. Equal scores keep
// their detection order.
func rankDetections(detections []entity.Detection) {
	sort.SliceStable(detections, func(i, j int) bool {
		return detections[i].MatchScore > detections[j].MatchScore
	})
}
