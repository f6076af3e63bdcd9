package entity

import "time"

// PersonTrack is owned by the tracking registry. Callers only ever see copies.
type PersonTrack struct {
	TrackingID        string      `json:"tracking_id"`
	FirstSeen         time.Time   `json:"first_seen"`
	LastSeen          time.Time   `json:"last_seen"`
	LastKnownPosition BoundingBox `json:"last_known_position"`
	Description       string      `json:"description"`
	Features          []string    `json:"features"`
	Sightings         int         `json:"sightings"`
}

func (t PersonTrack) Clone() PersonTrack {
	clone := t
	clone.Features = append([]string(nil), t.Features...)
	return clone
}
