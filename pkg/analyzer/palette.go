package analyzer

import (
	"PersonTracking/pkg/geometry"
	"fmt"
	"math"
	"strings"
)

type paletteColor struct {
	name string
	refs []geometry.RGB
}

// palette maps each reported color name to a handful of reference shades.
// Pixels are assigned to the name of the nearest reference.
var palette = []paletteColor{
	{"black", []geometry.RGB{{0, 0, 0}, {35, 35, 35}}},
	{"white", []geometry.RGB{{255, 255, 255}, {230, 230, 225}}},
	{"gray", []geometry.RGB{{128, 128, 128}, {90, 90, 90}, {180, 180, 180}}},
	{"red", []geometry.RGB{{200, 0, 0}, {220, 20, 60}, {139, 0, 0}}},
	{"orange", []geometry.RGB{{255, 140, 0}, {255, 165, 0}}},
	{"yellow", []geometry.RGB{{255, 255, 0}, {255, 215, 0}}},
	{"green", []geometry.RGB{{0, 128, 0}, {34, 139, 34}, {50, 205, 50}, {85, 107, 47}}},
	{"blue", []geometry.RGB{{0, 0, 255}, {0, 0, 128}, {30, 60, 180}, {70, 130, 180}, {135, 206, 235}}},
	{"purple", []geometry.RGB{{128, 0, 128}, {148, 0, 211}}},
	{"pink", []geometry.RGB{{255, 192, 203}, {255, 105, 180}}},
	{"brown", []geometry.RGB{{139, 69, 19}, {160, 82, 45}, {101, 67, 33}}},
	{"beige", []geometry.RGB{{245, 245, 220}, {210, 180, 140}}},
}

// colorAliases maps alternative spellings and shades to palette names.
var colorAliases = map[string]string{
	"grey":     "gray",
	"navy":     "blue",
	"maroon":   "red",
	"crimson":  "red",
	"burgundy": "red",
	"violet":   "purple",
	"magenta":  "pink",
	"tan":      "beige",
	"khaki":    "beige",
	"cream":    "beige",
	"olive":    "green",
	"teal":     "green",
	"silver":   "gray",
	"gold":     "yellow",
}

func nearestColor(c geometry.RGB) (string, geometry.RGB) {
	bestName := ""
	bestRef := geometry.RGB{}
	bestDist := math.MaxFloat64
	for _, entry := range palette {
		for _, ref := range entry.refs {
			if d := geometry.ColorDistance(c, ref); d < bestDist {
				bestDist = d
				bestName = entry.name
				bestRef = ref
			}
		}
	}
	return bestName, bestRef
}

func hexOf(c geometry.RGB) string {
	return fmt.Sprintf("#%02x%02x%02x", uint8(c.R), uint8(c.G), uint8(c.B))
}

// canonicalColor lower-cases a color term and resolves known aliases.
func canonicalColor(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if alias, ok := colorAliases[name]; ok {
		return alias
	}
	return name
}
