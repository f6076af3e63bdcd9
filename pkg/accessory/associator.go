// Package accessory attaches clothing and accessory detections to the person
// they belong to.
package accessory

import (
	"PersonTracking/internal/entity"
	"PersonTracking/pkg/geometry"
	"sort"
	"strings"
)

// clothingLabels are worn on the body. Anything else that is not a person is
// treated as an accessory, so custom models with new labels still associate.
var clothingLabels = map[string]bool{
	"tie":      true,
	"necktie":  true,
	"shirt":    true,
	"t-shirt":  true,
	"tshirt":   true,
	"blouse":   true,
	"top":      true,
	"jacket":   true,
	"coat":     true,
	"sweater":  true,
	"hoodie":   true,
	"vest":     true,
	"blazer":   true,
	"suit":     true,
	"uniform":  true,
	"pants":    true,
	"trousers": true,
	"jeans":    true,
	"shorts":   true,
	"skirt":    true,
	"dress":    true,
	"jumpsuit": true,
	"scarf":    true,
	"hat":      true,
	"cap":      true,
	"shoe":     true,
	"shoes":    true,
	"boots":    true,
	"sneakers": true,
	"gloves":   true,
}

// synonyms widen a search term to the labels detectors actually emit.
var synonyms = map[string][]string{
	"bag":        {"bag", "handbag", "backpack", "suitcase", "purse"},
	"purse":      {"purse", "handbag"},
	"handbag":    {"handbag", "purse"},
	"backpack":   {"backpack", "rucksack"},
	"rucksack":   {"rucksack", "backpack"},
	"luggage":    {"luggage", "suitcase"},
	"suitcase":   {"suitcase", "luggage"},
	"umbrella":   {"umbrella"},
	"phone":      {"phone", "cell phone"},
	"cellphone":  {"cellphone", "cell phone"},
	"laptop":     {"laptop"},
	"tie":        {"tie", "necktie"},
	"necktie":    {"necktie", "tie"},
	"t-shirt":    {"t-shirt", "tshirt", "shirt"},
	"tshirt":     {"tshirt", "t-shirt", "shirt"},
	"trousers":   {"trousers", "pants"},
	"pants":      {"pants", "trousers", "jeans"},
	"jeans":      {"jeans", "pants"},
	"cap":        {"cap", "hat"},
	"hat":        {"hat", "cap"},
	"jacket":     {"jacket", "coat", "blazer"},
	"coat":       {"coat", "jacket"},
	"sweater":    {"sweater", "hoodie", "jumper"},
	"hoodie":     {"hoodie", "sweater"},
	"glasses":    {"glasses", "sunglasses", "eyeglasses"},
	"sunglasses": {"sunglasses", "glasses"},
	"sneakers":   {"sneakers", "shoes", "shoe"},
	"shoes":      {"shoes", "shoe", "sneakers", "boots"},
}

type Associator struct {
	// AssociationThreshold is the minimum IoU with the person box.
	AssociationThreshold float64
	// ExtendedMargin pads the person box by this fraction of its width and
	// height on every side for the center-containment test.
	ExtendedMargin float64
}

func NewAssociator(threshold, margin float64) *Associator {
	return &Associator{
		AssociationThreshold: threshold,
		ExtendedMargin:       margin,
	}
}

func IsClothing(label string) bool {
	return clothingLabels[strings.ToLower(strings.TrimSpace(label))]
}

// Associate returns the clothing and accessories belonging to person. Persons
// in objects are skipped, and repeated labels keep the highest confidence.
func (a *Associator) Associate(person entity.BoundingBox, objects []entity.DetectedObject) entity.AccessoryDetectionResult {
	extended := geometry.Expand(person, a.ExtendedMargin)

	clothing := make(map[string]float64)
	accessories := make(map[string]float64)

	for _, obj := range objects {
		if obj.IsPerson() || !obj.BoundingBox.IsValid() {
			continue
		}

		iou := geometry.IoU(person, obj.BoundingBox)
		inside := geometry.Contains(extended, geometry.Center(obj.BoundingBox))
		if iou < a.AssociationThreshold && !inside {
			continue
		}

		label := strings.ToLower(strings.TrimSpace(obj.ObjectType))
		if label == "" {
			label = strings.ToLower(strings.TrimSpace(obj.BoundingBox.Label))
		}
		if label == "" {
			continue
		}

		target := accessories
		if IsClothing(label) {
			target = clothing
		}
		if current, ok := target[label]; !ok || obj.BoundingBox.Confidence > current {
			target[label] = obj.BoundingBox.Confidence
		}
	}

	return entity.AccessoryDetectionResult{
		Accessories:   toItems(accessories),
		ClothingItems: toItems(clothing),
	}
}

func toItems(m map[string]float64) []entity.DetectedItem {
	items := make([]entity.DetectedItem, 0, len(m))
	for label, conf := range m {
		items = append(items, entity.DetectedItem{Label: label, Confidence: conf})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Confidence != items[j].Confidence {
			return items[i].Confidence > items[j].Confidence
		}
		return items[i].Label < items[j].Label
	})
	return items
}

// MatchesCriteria is true when no terms are given, or when any clothing or
// accessory term (or one of its synonyms) is a case-insensitive substring of a
// detected label, so "jacket" matches "winter jacket".
func MatchesCriteria(result entity.AccessoryDetectionResult, clothingTerms, accessoryTerms []string) bool {
	if len(clothingTerms) == 0 && len(accessoryTerms) == 0 {
		return true
	}

	labels := result.Labels()
	for _, term := range append(append([]string{}, clothingTerms...), accessoryTerms...) {
		if anyLabelMatches(labels, term) {
			return true
		}
	}
	return false
}

// MatchedTerms returns the terms that matched, in input order.
func MatchedTerms(result entity.AccessoryDetectionResult, terms []string) []string {
	labels := result.Labels()
	matched := make([]string, 0, len(terms))
	for _, term := range terms {
		if anyLabelMatches(labels, term) {
			matched = append(matched, term)
		}
	}
	return matched
}

func anyLabelMatches(labels []string, term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return false
	}

	candidates, ok := synonyms[term]
	if !ok {
		candidates = []string{term}
	}

	for _, label := range labels {
		label = strings.ToLower(label)
		for _, c := range candidates {
			if strings.Contains(label, c) {
				return true
			}
		}
	}
	return false
}
