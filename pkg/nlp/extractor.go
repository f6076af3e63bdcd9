// Package nlp turns a free-text description of a person into search criteria.
package nlp

import (
	"PersonTracking/internal/entity"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	categoryColor = iota
	categoryClothing
	categoryAccessory
	categoryPhysical
)

type keywordPattern struct {
	category  int
	canonical string
	words     int
	re        *regexp.Regexp
}

type Extractor struct {
	patterns  []keywordPattern
	hairColor *regexp.Regexp
}

var punctuationReplacer = strings.NewReplacer(
	"’", "'", "‘", "'", "′", "'",
	"“", "\"", "”", "\"", "″", "\"",
)

func NewExtractor() IPromptExtractor {
	e := &Extractor{}

	tables := []struct {
		category int
		table    KeywordTable
	}{
		{categoryColor, colorKeywords},
		{categoryClothing, clothingKeywords},
		{categoryAccessory, accessoryKeywords},
		{categoryPhysical, physicalKeywords},
	}

	for _, t := range tables {
		for canonical, synonyms := range t.table {
			for _, synonym := range synonyms {
				cleaned := tokenize(synonym)
				e.patterns = append(e.patterns, keywordPattern{
					category:  t.category,
					canonical: canonical,
					words:     len(strings.Fields(cleaned)),
					re:        wholeWord(cleaned),
				})
			}
		}
	}

	// Longer phrases claim their words first so "short hair" never also
	// yields "short", nor "shoulder bag" a plain "bag".
	sort.SliceStable(e.patterns, func(i, j int) bool {
		if e.patterns[i].words != e.patterns[j].words {
			return e.patterns[i].words > e.patterns[j].words
		}
		return e.patterns[i].re.String() < e.patterns[j].re.String()
	})

	colors := make([]string, 0, len(hairColors))
	for word := range hairColors {
		colors = append(colors, regexp.QuoteMeta(word))
	}
	sort.Strings(colors)
	e.hairColor = regexp.MustCompile(`\b(` + strings.Join(colors, "|") + `)\s+(?:colored\s+|coloured\s+)?hair(?:ed)?\b`)

	return e
}

func wholeWord(phrase string) *regexp.Regexp {
	words := strings.Fields(phrase)
	for i, w := range words {
		words[i] = regexp.QuoteMeta(w)
	}
	return regexp.MustCompile(`\b` + strings.Join(words, `\s+`) + `\b`)
}

// Extract never fails; text that matches no table is ignored.
func (e *Extractor) Extract(prompt string) entity.SearchCriteria {
	criteria := entity.SearchCriteria{
		Colors:             []string{},
		ClothingItems:      []string{},
		Accessories:        []string{},
		PhysicalAttributes: []string{},
	}

	text := normalize(prompt)
	if text == "" {
		return criteria
	}

	height, rest := parseHeight(text)
	criteria.Height = height

	text = tokenize(rest)
	found := map[int]map[string]bool{
		categoryColor:     {},
		categoryClothing:  {},
		categoryAccessory: {},
		categoryPhysical:  {},
	}

	text = e.hairColor.ReplaceAllStringFunc(text, func(match string) string {
		word := e.hairColor.FindStringSubmatch(match)[1]
		found[categoryPhysical][hairColors[word]+" hair"] = true
		return blank(match)
	})

	for _, p := range e.patterns {
		text = p.re.ReplaceAllStringFunc(text, func(match string) string {
			found[p.category][p.canonical] = true
			return blank(match)
		})
	}

	criteria.Colors = sortedKeys(found[categoryColor])
	criteria.ClothingItems = sortedKeys(found[categoryClothing])
	criteria.Accessories = sortedKeys(found[categoryAccessory])
	criteria.PhysicalAttributes = sortedKeys(found[categoryPhysical])
	return criteria
}

// normalize lower-cases, strips diacritics and unifies typographic quotes.
func normalize(text string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(t, strings.ToLower(text))
	if err != nil {
		result = strings.ToLower(text)
	}
	return strings.TrimSpace(punctuationReplacer.Replace(result))
}

// tokenize keeps letters and digits and collapses everything else to single spaces.
func tokenize(text string) string {
	text = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, text)
	return strings.Join(strings.Fields(text), " ")
}

func blank(s string) string {
	return strings.Repeat(" ", len(s))
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
