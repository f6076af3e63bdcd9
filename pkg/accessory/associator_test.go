package accessory

import (
	"PersonTracking/internal/entity"
	"testing"
)

func obj(label string, x, y, w, h, conf float64) entity.DetectedObject {
	return entity.DetectedObject{
		BoundingBox: entity.BoundingBox{X: x, Y: y, Width: w, Height: h, Confidence: conf, Label: label},
		ObjectType:  label,
	}
}

func TestAssociate(t *testing.T) {
	person := entity.BoundingBox{X: 100, Y: 100, Width: 100, Height: 300, Confidence: 0.9, Label: "person"}
	a := NewAssociator(0.1, 0.2)

	objects := []entity.DetectedObject{
		obj("person", 100, 100, 100, 300, 0.9),
		// backpack sticking out to the side, center inside extended box
		obj("backpack", 180, 150, 40, 80, 0.7),
		// tie: tiny box, low IoU, center in upper third
		obj("tie", 145, 150, 10, 40, 0.6),
		// handbag far away
		obj("handbag", 600, 600, 30, 30, 0.9),
		// duplicate backpack with higher confidence
		obj("Backpack", 175, 160, 40, 80, 0.8),
	}

	result := a.Associate(person, objects)

	if len(result.ClothingItems) != 1 || result.ClothingItems[0].Label != "tie" {
		t.Errorf("expected tie as clothing, got %+v", result.ClothingItems)
	}
	if len(result.Accessories) != 1 {
		t.Fatalf("expected one accessory, got %+v", result.Accessories)
	}
	if result.Accessories[0].Label != "backpack" || result.Accessories[0].Confidence != 0.8 {
		t.Errorf("expected backpack with max confidence, got %+v", result.Accessories[0])
	}
}

func TestAssociateByIoUOnly(t *testing.T) {
	person := entity.BoundingBox{X: 0, Y: 0, Width: 100, Height: 100, Confidence: 0.9}
	a := NewAssociator(0.1, 0)

	// center (140,50) is outside the unpadded person box but IoU is ~0.25
	result := a.Associate(person, []entity.DetectedObject{obj("suitcase", 60, 0, 160, 100, 0.5)})
	if len(result.Accessories) != 1 {
		t.Errorf("expected suitcase associated by IoU, got %+v", result)
	}
}

func TestMatchesCriteria(t *testing.T) {
	result := entity.AccessoryDetectionResult{
		Accessories:   []entity.DetectedItem{{Label: "handbag", Confidence: 0.7}},
		ClothingItems: []entity.DetectedItem{{Label: "winter jacket", Confidence: 0.8}},
	}

	tests := []struct {
		name        string
		clothing    []string
		accessories []string
		want        bool
	}{
		{"empty criteria", nil, nil, true},
		{"partial label match", []string{"jacket"}, nil, true},
		{"case insensitive", []string{"JACKET"}, nil, true},
		{"synonym", nil, []string{"purse"}, true},
		{"generic bag", nil, []string{"bag"}, true},
		{"no match", []string{"skirt"}, []string{"umbrella"}, false},
		{"any term matches", []string{"skirt", "jacket"}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MatchesCriteria(result, tt.clothing, tt.accessories); got != tt.want {
				t.Errorf("MatchesCriteria() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMatchesCriteriaNoDetections(t *testing.T) {
	if MatchesCriteria(entity.AccessoryDetectionResult{}, []string{"hat"}, nil) {
		t.Error("expected no match without detections")
	}
}
