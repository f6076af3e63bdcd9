package entity

import (
	"fmt"
	"strings"
)

type HeightCriterion struct {
	Meters       float64 `json:"meters"`
	OriginalText string  `json:"original_text"`
}

// SearchCriteria is derived once per prompt and only read afterwards.
type SearchCriteria struct {
	Colors             []string         `json:"colors"`
	ClothingItems      []string         `json:"clothing_items"`
	Accessories        []string         `json:"accessories"`
	PhysicalAttributes []string         `json:"physical_attributes"`
	Height             *HeightCriterion `json:"height,omitempty"`
}

func (c SearchCriteria) IsEmpty() bool {
	return len(c.Colors) == 0 && len(c.ClothingItems) == 0 && len(c.Accessories) == 0 &&
		len(c.PhysicalAttributes) == 0 && c.Height == nil
}

func (c SearchCriteria) Describe() string {
	if c.IsEmpty() {
		return "any person"
	}

	parts := make([]string, 0, 5)
	if len(c.Colors) > 0 {
		parts = append(parts, "colors: "+strings.Join(c.Colors, ", "))
	}
	if len(c.ClothingItems) > 0 {
		parts = append(parts, "clothing: "+strings.Join(c.ClothingItems, ", "))
	}
	if len(c.Accessories) > 0 {
		parts = append(parts, "accessories: "+strings.Join(c.Accessories, ", "))
	}
	if len(c.PhysicalAttributes) > 0 {
		parts = append(parts, "physical: "+strings.Join(c.PhysicalAttributes, ", "))
	}
	if c.Height != nil {
		parts = append(parts, fmt.Sprintf("height: %.2fm", c.Height.Meters))
	}
	return strings.Join(parts, "; ")
}
