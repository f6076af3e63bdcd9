// Package analyzer derives appearance features from the pixels of a person box.
package analyzer

import (
	"PersonTracking/internal/entity"
	"PersonTracking/pkg/geometry"
	"image"
	"math"
	"sort"
	"strings"
)

type ColorAnalyzer struct {
	// SampleStep is the pixel stride used in both directions.
	SampleStep int
	MaxColors  int
	// MinShare drops colors covering less than this fraction of the samples.
	MinShare float64
}

func NewColorAnalyzer() *ColorAnalyzer {
	return &ColorAnalyzer{
		SampleStep: 4,
		MaxColors:  3,
		MinShare:   0.1,
	}
}

// Analyze reports the dominant colors of the whole box and of its upper and
// lower thirds. A box that does not intersect the image yields an empty profile.
func (a *ColorAnalyzer) Analyze(img image.Image, box entity.BoundingBox) entity.PersonColorProfile {
	region := clip(img, box)
	if region.Empty() {
		return entity.PersonColorProfile{
			UpperBodyColors: []entity.ColorInfo{},
			LowerBodyColors: []entity.ColorInfo{},
			OverallColors:   []entity.ColorInfo{},
		}
	}

	third := region.Dy() / 3
	if third == 0 {
		third = 1
	}
	upper := image.Rect(region.Min.X, region.Min.Y, region.Max.X, region.Min.Y+third)
	lower := image.Rect(region.Min.X, region.Max.Y-third, region.Max.X, region.Max.Y)

	return entity.PersonColorProfile{
		UpperBodyColors: a.dominant(img, upper),
		LowerBodyColors: a.dominant(img, lower),
		OverallColors:   a.dominant(img, region),
	}
}

func (a *ColorAnalyzer) dominant(img image.Image, rect image.Rectangle) []entity.ColorInfo {
	step := a.SampleStep
	if step <= 0 {
		step = 1
	}

	counts := make(map[string]int)
	refs := make(map[string]geometry.RGB)
	total := 0

	for y := rect.Min.Y; y < rect.Max.Y; y += step {
		for x := rect.Min.X; x < rect.Max.X; x += step {
			name, ref := nearestColor(pixelRGB(img, x, y))
			counts[name]++
			if _, ok := refs[name]; !ok {
				refs[name] = ref
			}
			total++
		}
	}

	colors := make([]entity.ColorInfo, 0, len(counts))
	if total == 0 {
		return colors
	}

	for name, count := range counts {
		share := float64(count) / float64(total)
		if share < a.MinShare {
			continue
		}
		colors = append(colors, entity.ColorInfo{
			ColorName:  name,
			Confidence: math.Round(share*1000) / 1000,
			HexValue:   hexOf(refs[name]),
		})
	}

	sort.Slice(colors, func(i, j int) bool {
		if colors[i].Confidence != colors[j].Confidence {
			return colors[i].Confidence > colors[j].Confidence
		}
		return colors[i].ColorName < colors[j].ColorName
	})

	if a.MaxColors > 0 && len(colors) > a.MaxColors {
		colors = colors[:a.MaxColors]
	}
	return colors
}

// MatchesColorCriteria is true when no colors are requested or when any
// requested color appears in any of the profile's color lists.
func MatchesColorCriteria(profile entity.PersonColorProfile, colors []string) bool {
	return len(colors) == 0 || len(MatchedColors(profile, colors)) > 0
}

// MatchedColors returns the requested colors found in the profile, in input order.
func MatchedColors(profile entity.PersonColorProfile, colors []string) []string {
	lists := [][]entity.ColorInfo{profile.UpperBodyColors, profile.LowerBodyColors, profile.OverallColors}

	matched := make([]string, 0, len(colors))
	for _, requested := range colors {
		term := canonicalColor(requested)
		if term == "" {
			continue
		}
	search:
		for _, list := range lists {
			for _, c := range list {
				name := strings.ToLower(c.ColorName)
				if strings.Contains(name, term) || strings.Contains(term, name) {
					matched = append(matched, requested)
					break search
				}
			}
		}
	}
	return matched
}

func clip(img image.Image, box entity.BoundingBox) image.Rectangle {
	if !box.IsValid() {
		return image.Rectangle{}
	}
	rect := image.Rect(
		int(math.Floor(box.X)),
		int(math.Floor(box.Y)),
		int(math.Ceil(box.Right())),
		int(math.Ceil(box.Bottom())),
	)
	return rect.Intersect(img.Bounds())
}

func pixelRGB(img image.Image, x, y int) geometry.RGB {
	r, g, b, _ := img.At(x, y).RGBA()
	return geometry.RGB{R: float64(r >> 8), G: float64(g >> 8), B: float64(b >> 8)}
}
