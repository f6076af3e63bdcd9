// Package tracking keeps person identities stable across frames.
package tracking

import (
	"PersonTracking/internal/entity"
	"PersonTracking/pkg/geometry"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

type IRegistry interface {
	Assign(box entity.BoundingBox, description string, features []string) string
	ActiveTracks() []entity.PersonTrack
	Track(trackingID string) (entity.PersonTrack, bool)
	Len() int
}

type Registry struct {
	// IoUThreshold is the minimum overlap with a track's last position to reuse it.
	IoUThreshold float64

	mu     sync.RWMutex
	tracks map[string]*entity.PersonTrack
	now    func() time.Time
	newID  func() string
}

type Option func(*Registry)

func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		r.now = now
	}
}

func WithIDGenerator(newID func() string) Option {
	return func(r *Registry) {
		r.newID = newID
	}
}

func NewRegistry(iouThreshold float64, opts ...Option) *Registry {
	r := &Registry{
		IoUThreshold: iouThreshold,
		tracks:       make(map[string]*entity.PersonTrack),
		now:          time.Now,
		newID:        newTrackID,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func newTrackID() string {
	return "track_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

// Assign reuses the track whose last known position overlaps box the most,
// provided the overlap reaches IoUThreshold, and mints a new track otherwise.
// Assignment is greedy per box; two boxes in one frame may claim the same track.
func (r *Registry) Assign(box entity.BoundingBox, description string, features []string) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()

	var best *entity.PersonTrack
	bestIoU := 0.0
	for _, track := range r.tracks {
		iou := geometry.IoU(box, track.LastKnownPosition)
		if iou <= 0 || iou < r.IoUThreshold {
			continue
		}
		if best == nil || iou > bestIoU || (iou == bestIoU && track.TrackingID < best.TrackingID) {
			best = track
			bestIoU = iou
		}
	}

	if best != nil {
		best.LastSeen = now
		best.LastKnownPosition = box
		best.Sightings++
		if description != "" {
			best.Description = description
		}
		if len(features) > 0 {
			best.Features = append([]string(nil), features...)
		}
		return best.TrackingID
	}

	id := r.newID()
	for _, exists := r.tracks[id]; exists; _, exists = r.tracks[id] {
		id = r.newID()
	}

	r.tracks[id] = &entity.PersonTrack{
		TrackingID:        id,
		FirstSeen:         now,
		LastSeen:          now,
		LastKnownPosition: box,
		Description:       description,
		Features:          append([]string(nil), features...),
		Sightings:         1,
	}
	return id
}

// ActiveTracks returns copies of every track ordered by first sighting.
func (r *Registry) ActiveTracks() []entity.PersonTrack {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tracks := make([]entity.PersonTrack, 0, len(r.tracks))
	for _, track := range r.tracks {
		tracks = append(tracks, track.Clone())
	}

	sort.Slice(tracks, func(i, j int) bool {
		if !tracks[i].FirstSeen.Equal(tracks[j].FirstSeen) {
			return tracks[i].FirstSeen.Before(tracks[j].FirstSeen)
		}
		return tracks[i].TrackingID < tracks[j].TrackingID
	})
	return tracks
}

func (r *Registry) Track(trackingID string) (entity.PersonTrack, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	track, ok := r.tracks[trackingID]
	if !ok {
		return entity.PersonTrack{}, false
	}
	return track.Clone(), true
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.tracks)
}
