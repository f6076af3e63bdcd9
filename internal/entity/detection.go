package entity

import "strings"

const PersonLabel = "person"

// BoundingBox is an axis-aligned box in image pixel space.
type BoundingBox struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Confidence float64 `json:"confidence"`
	Label      string  `json:"label"`
}

func (b BoundingBox) Right() float64 {
	return b.X + b.Width
}

func (b BoundingBox) Bottom() float64 {
	return b.Y + b.Height
}

func (b BoundingBox) IsValid() bool {
	return b.Width > 0 && b.Height > 0
}

type DetectedObject struct {
	BoundingBox BoundingBox `json:"bounding_box"`
	ClassID     int         `json:"class_id"`
	ObjectType  string      `json:"object_type"`
}

func (o DetectedObject) IsPerson() bool {
	return strings.EqualFold(o.ObjectType, PersonLabel)
}

type DetectedItem struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

type AccessoryDetectionResult struct {
	Accessories   []DetectedItem `json:"accessories"`
	ClothingItems []DetectedItem `json:"clothing_items"`
}

func (r AccessoryDetectionResult) Labels() []string {
	labels := make([]string, 0, len(r.Accessories)+len(r.ClothingItems))
	for _, item := range r.ClothingItems {
		labels = append(labels, item.Label)
	}
	for _, item := range r.Accessories {
		labels = append(labels, item.Label)
	}
	return labels
}

// Detection is the final per-person output of a tracking request.
type Detection struct {
	TrackingID      string      `json:"tracking_id"`
	BoundingBox     BoundingBox `json:"bounding_box"`
	Description     string      `json:"description"`
	MatchScore      float64     `json:"match_score"`
	MatchedCriteria []string    `json:"matched_criteria"`
}
