package nlp

import (
	"PersonTracking/internal/entity"
	"math"
	"regexp"
	"strconv"
	"strings"
)

const (
	metersPerFoot       = 0.3048
	metersPerInch       = 0.0254
	metersPerCentimeter = 0.01
)

var (
	centimeterPattern = regexp.MustCompile(`\b(\d{2,3}(?:\.\d+)?)\s*(?:cm|centimet(?:er|re)s?)\b`)
	feetSymbolPattern = regexp.MustCompile(`\b(\d)\s*'\s*(?:(\d{1,2})\s*(?:"|''|in\b)?)?`)
	feetWordPattern   = regexp.MustCompile(`\b(\d)\s*(?:feet|foot|ft)\b(?:\s*(?:and\s+)?(\d{1,2})\s*(?:inches|inch|in)\b)?`)
	meterPattern      = regexp.MustCompile(`\b(\d(?:\.\d+)?)\s*(?:m|meters?|metres?)\b`)
)

// parseHeight finds the first height expression and returns it in meters
// together with the text that remains once the expression is removed.
func parseHeight(text string) (*entity.HeightCriterion, string) {
	parsers := []struct {
		re      *regexp.Regexp
		convert func(groups []string) float64
	}{
		{centimeterPattern, func(g []string) float64 {
			return parseFloat(g[1]) * metersPerCentimeter
		}},
		{feetSymbolPattern, feetAndInches},
		{feetWordPattern, feetAndInches},
		{meterPattern, func(g []string) float64 {
			return parseFloat(g[1])
		}},
	}

	for _, p := range parsers {
		loc := p.re.FindStringSubmatchIndex(text)
		if loc == nil {
			continue
		}

		groups := make([]string, len(loc)/2)
		for i := range groups {
			if loc[2*i] >= 0 {
				groups[i] = text[loc[2*i]:loc[2*i+1]]
			}
		}

		meters := p.convert(groups)
		if meters <= 0 || meters > 3 {
			continue
		}

		return &entity.HeightCriterion{
			Meters:       math.Round(meters*10000) / 10000,
			OriginalText: strings.TrimSpace(groups[0]),
		}, text[:loc[0]] + " " + text[loc[1]:]
	}

	return nil, text
}

func feetAndInches(g []string) float64 {
	meters := parseFloat(g[1]) * metersPerFoot
	if len(g) > 2 && g[2] != "" {
		meters += parseFloat(g[2]) * metersPerInch
	}
	return meters
}

func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
