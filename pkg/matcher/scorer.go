// Package matcher decides which persons in a frame satisfy a set of search criteria.
package matcher

import (
	"PersonTracking/internal/entity"
	"PersonTracking/pkg/accessory"
	"PersonTracking/pkg/analyzer"
	"context"
	"fmt"
	"image"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"
)

type Evaluation struct {
	Box             entity.BoundingBox              `json:"box"`
	Included        bool                            `json:"included"`
	MatchScore      float64                         `json:"match_score"`
	MatchedCriteria []string                        `json:"matched_criteria"`
	Description     string                          `json:"description"`
	Features        []string                        `json:"features"`
	Colors          entity.PersonColorProfile       `json:"colors"`
	Physical        entity.PhysicalAttributes       `json:"physical"`
	Accessories     entity.AccessoryDetectionResult `json:"accessories"`
}

type Scorer struct {
	Colors     *analyzer.ColorAnalyzer
	Physical   *analyzer.PhysicalAnalyzer
	Associator *accessory.Associator
	// Parallelism bounds concurrent person evaluations. Zero means one per CPU.
	Parallelism int
}

func NewScorer(colors *analyzer.ColorAnalyzer, physical *analyzer.PhysicalAnalyzer, associator *accessory.Associator, parallelism int) *Scorer {
	return &Scorer{
		Colors:      colors,
		Physical:    physical,
		Associator:  associator,
		Parallelism: parallelism,
	}
}

// Evaluate analyzes every person independently and returns one evaluation per
// person in input order. Persons that fail a populated criteria category are
// returned with Included false.
func (s *Scorer) Evaluate(ctx context.Context, img image.Image, persons []entity.BoundingBox, objects []entity.DetectedObject, criteria entity.SearchCriteria) ([]Evaluation, error) {
	results := make([]Evaluation, len(persons))
	if len(persons) == 0 {
		return results, nil
	}

	limit := s.Parallelism
	if limit <= 0 {
		limit = runtime.NumCPU()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, person := range persons {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = s.evaluate(img, person, objects, criteria)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Scorer) evaluate(img image.Image, person entity.BoundingBox, objects []entity.DetectedObject, criteria entity.SearchCriteria) Evaluation {
	eval := Evaluation{
		Box:         person,
		Colors:      s.Colors.Analyze(img, person),
		Physical:    s.Physical.Analyze(img, person),
		Accessories: s.Associator.Associate(person, objects),
	}

	included := analyzer.MatchesColorCriteria(eval.Colors, criteria.Colors) &&
		(len(criteria.ClothingItems) == 0 || accessory.MatchesCriteria(eval.Accessories, criteria.ClothingItems, nil)) &&
		(len(criteria.Accessories) == 0 || accessory.MatchesCriteria(eval.Accessories, nil, criteria.Accessories)) &&
		s.Physical.MatchesCriteria(eval.Physical, criteria.PhysicalAttributes, criteria.Height)

	matched := make([]string, 0)
	for _, c := range analyzer.MatchedColors(eval.Colors, criteria.Colors) {
		matched = append(matched, "color:"+c)
	}
	for _, c := range accessory.MatchedTerms(eval.Accessories, criteria.ClothingItems) {
		matched = append(matched, "clothing:"+c)
	}
	for _, a := range accessory.MatchedTerms(eval.Accessories, criteria.Accessories) {
		matched = append(matched, "accessory:"+a)
	}
	for _, p := range analyzer.MatchedAttributes(eval.Physical, criteria.PhysicalAttributes) {
		matched = append(matched, "physical:"+p)
	}
	if criteria.Height != nil && analyzer.HeightMatches(eval.Physical, criteria.Height, s.Physical.HeightTolerance) {
		matched = append(matched, fmt.Sprintf("height:%.2fm", criteria.Height.Meters))
	}

	eval.Included = included
	if included {
		eval.MatchScore = person.Confidence
	}
	eval.MatchedCriteria = matched
	eval.Description = describe(eval)
	eval.Features = features(eval)
	return eval
}

// describe renders a short human readable summary such as
// "person, red upper body, blue lower body, tall, slim build, with backpack".
func describe(e Evaluation) string {
	parts := []string{"person"}

	if names := colorNames(e.Colors.UpperBodyColors); names != "" {
		parts = append(parts, names+" upper body")
	}
	if names := colorNames(e.Colors.LowerBodyColors); names != "" {
		parts = append(parts, names+" lower body")
	}
	if e.Physical.HeightCategory != "" {
		parts = append(parts, e.Physical.HeightCategory)
	}
	if e.Physical.BuildCategory != "" {
		parts = append(parts, e.Physical.BuildCategory+" build")
	}
	if e.Physical.HairLength != "" && e.Physical.HairLength != entity.HairUnknown {
		parts = append(parts, e.Physical.HairLength)
	}
	for _, item := range e.Accessories.ClothingItems {
		parts = append(parts, "wearing "+item.Label)
	}
	for _, item := range e.Accessories.Accessories {
		parts = append(parts, "with "+item.Label)
	}
	return strings.Join(parts, ", ")
}

func colorNames(colors []entity.ColorInfo) string {
	names := make([]string, 0, len(colors))
	for _, c := range colors {
		names = append(names, c.ColorName)
	}
	return strings.Join(names, "/")
}

func features(e Evaluation) []string {
	seen := make(map[string]bool)
	out := make([]string, 0)
	add := func(f string) {
		if f == "" || seen[f] {
			return
		}
		seen[f] = true
		out = append(out, f)
	}

	for _, c := range e.Colors.OverallColors {
		add(c.ColorName)
	}
	for _, a := range e.Physical.AllAttributes {
		add(a)
	}
	for _, label := range e.Accessories.Labels() {
		add(label)
	}
	return out
}
