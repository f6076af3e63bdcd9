package analyzer

import (
	"PersonTracking/internal/entity"
	"PersonTracking/pkg/geometry"
	"image"
	"math"
	"strings"
)

// attributeSynonyms maps prompt phrases onto the attribute names Analyze emits.
var attributeSynonyms = map[string]string{
	"thin":         entity.BuildSlim,
	"skinny":       entity.BuildSlim,
	"slender":      entity.BuildSlim,
	"lean":         entity.BuildSlim,
	"heavyset":     entity.BuildHeavy,
	"stocky":       entity.BuildHeavy,
	"large":        entity.BuildHeavy,
	"big":          entity.BuildHeavy,
	"broad":        entity.BuildHeavy,
	"average":      entity.BuildMedium,
	"petite":       entity.HeightShort,
	"small":        entity.HeightShort,
	"long haired":  entity.HairLong,
	"long-haired":  entity.HairLong,
	"short haired": entity.HairShort,
	"short-haired": entity.HairShort,
}

type PhysicalAnalyzer struct {
	// ShortRatio and TallRatio bound the box height as a fraction of image height.
	ShortRatio float64
	TallRatio  float64
	// SlimAspect and HeavyAspect bound width/height of the box.
	SlimAspect  float64
	HeavyAspect float64
	// ReferenceFrameHeightMeters is the real-world height a full-frame box covers.
	ReferenceFrameHeightMeters float64
	HeightTolerance            float64
}

func NewPhysicalAnalyzer(referenceHeight, tolerance float64) *PhysicalAnalyzer {
	if referenceHeight <= 0 {
		referenceHeight = 2.5
	}
	if tolerance <= 0 {
		tolerance = 0.10
	}
	return &PhysicalAnalyzer{
		ShortRatio:                 0.4,
		TallRatio:                  0.7,
		SlimAspect:                 0.35,
		HeavyAspect:                0.50,
		ReferenceFrameHeightMeters: referenceHeight,
		HeightTolerance:            tolerance,
	}
}

func (p *PhysicalAnalyzer) Analyze(img image.Image, box entity.BoundingBox) entity.PhysicalAttributes {
	attrs := entity.PhysicalAttributes{
		HairLength: entity.HairUnknown,
		HairColor:  entity.HairUnknown,
	}

	imgHeight := img.Bounds().Dy()
	if box.IsValid() && imgHeight > 0 {
		ratio := box.Height / float64(imgHeight)
		switch {
		case ratio < p.ShortRatio:
			attrs.HeightCategory = entity.HeightShort
		case ratio > p.TallRatio:
			attrs.HeightCategory = entity.HeightTall
		default:
			attrs.HeightCategory = entity.HeightMedium
		}
		attrs.EstimatedHeightMeters = math.Round(ratio*p.ReferenceFrameHeightMeters*100) / 100

		attrs.AspectRatio = math.Round(box.Width/box.Height*1000) / 1000
		switch {
		case attrs.AspectRatio < p.SlimAspect:
			attrs.BuildCategory = entity.BuildSlim
		case attrs.AspectRatio > p.HeavyAspect:
			attrs.BuildCategory = entity.BuildHeavy
		default:
			attrs.BuildCategory = entity.BuildMedium
		}
	}

	if region := clip(img, box); !region.Empty() {
		attrs.HairLength, attrs.HairColor = hair(img, region)
	}

	attrs.AllAttributes = make([]string, 0, 5)
	if attrs.HeightCategory != "" {
		attrs.AllAttributes = append(attrs.AllAttributes, attrs.HeightCategory)
	}
	if attrs.BuildCategory != "" {
		attrs.AllAttributes = append(attrs.AllAttributes, attrs.BuildCategory, attrs.BuildCategory+" build")
	}
	if attrs.HairLength != entity.HairUnknown {
		attrs.AllAttributes = append(attrs.AllAttributes, attrs.HairLength)
	}
	if attrs.HairColor != entity.HairUnknown {
		attrs.AllAttributes = append(attrs.AllAttributes, attrs.HairColor+" hair")
	}

	return attrs
}

// hair samples the top band of the box as the head and compares it with the
// outer edges of the shoulder band below. Hair color reaching the shoulders
// reads as long hair.
func hair(img image.Image, region image.Rectangle) (string, string) {
	h := region.Dy()
	w := region.Dx()
	headBottom := region.Min.Y + max(1, h/8)
	cols := w / 5

	head := image.Rect(region.Min.X+cols, region.Min.Y, region.Max.X-cols, headBottom)
	if head.Empty() {
		head = image.Rect(region.Min.X, region.Min.Y, region.Max.X, headBottom)
	}

	counts := make(map[string]int)
	refs := make(map[string]geometry.RGB)
	for y := head.Min.Y; y < head.Max.Y; y++ {
		for x := head.Min.X; x < head.Max.X; x++ {
			name, ref := nearestColor(pixelRGB(img, x, y))
			counts[name]++
			refs[name] = ref
		}
	}

	hairColor := ""
	best := 0
	for name, count := range counts {
		if count > best || (count == best && name < hairColor) {
			best = count
			hairColor = name
		}
	}
	if hairColor == "" {
		return entity.HairUnknown, entity.HairUnknown
	}

	shoulderTop := headBottom
	shoulderBottom := region.Min.Y + max(2, h*3/10)
	if shoulderBottom > region.Max.Y {
		shoulderBottom = region.Max.Y
	}
	edge := max(1, w/4)

	matches, total := 0, 0
	for y := shoulderTop; y < shoulderBottom; y++ {
		for x := region.Min.X; x < region.Max.X; x++ {
			if x >= region.Min.X+edge && x < region.Max.X-edge {
				continue
			}
			name, _ := nearestColor(pixelRGB(img, x, y))
			if name == hairColor {
				matches++
			}
			total++
		}
	}

	length := entity.HairShort
	if total > 0 && float64(matches)/float64(total) >= 0.3 {
		length = entity.HairLong
	}
	return length, hairColor
}

// MatchesCriteria checks attribute terms and the height criterion with the
// analyzer's tolerance.
func (p *PhysicalAnalyzer) MatchesCriteria(attrs entity.PhysicalAttributes, terms []string, height *entity.HeightCriterion) bool {
	return MatchesPhysicalCriteria(attrs, terms, height, p.HeightTolerance)
}

// MatchesPhysicalCriteria requires every term to be among the person's
// attributes and the estimated height to lie within tolerance of the
// requested one. Empty terms and a nil height impose nothing.
func MatchesPhysicalCriteria(attrs entity.PhysicalAttributes, terms []string, height *entity.HeightCriterion, tolerance float64) bool {
	for _, term := range terms {
		if !hasAttribute(attrs, term) {
			return false
		}
	}
	if height != nil && !HeightMatches(attrs, height, tolerance) {
		return false
	}
	return true
}

func HeightMatches(attrs entity.PhysicalAttributes, height *entity.HeightCriterion, tolerance float64) bool {
	if height == nil {
		return true
	}
	if attrs.EstimatedHeightMeters <= 0 {
		return false
	}
	return math.Abs(attrs.EstimatedHeightMeters-height.Meters) <= tolerance+1e-9
}

func hasAttribute(attrs entity.PhysicalAttributes, term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if canonical, ok := attributeSynonyms[term]; ok {
		term = canonical
	}
	term = strings.TrimSuffix(term, " build")
	for _, attr := range attrs.AllAttributes {
		if strings.TrimSuffix(strings.ToLower(attr), " build") == term {
			return true
		}
	}
	return false
}

// MatchedAttributes returns the terms present among the person's attributes, in input order.
func MatchedAttributes(attrs entity.PhysicalAttributes, terms []string) []string {
	matched := make([]string, 0, len(terms))
	for _, term := range terms {
		if hasAttribute(attrs, term) {
			matched = append(matched, term)
		}
	}
	return matched
}
