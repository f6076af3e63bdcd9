package entity

type ColorInfo struct {
	ColorName  string  `json:"color_name"`
	Confidence float64 `json:"confidence"`
	HexValue   string  `json:"hex_value"`
}

type PersonColorProfile struct {
	UpperBodyColors []ColorInfo `json:"upper_body_colors"`
	LowerBodyColors []ColorInfo `json:"lower_body_colors"`
	OverallColors   []ColorInfo `json:"overall_colors"`
}

func (p PersonColorProfile) IsEmpty() bool {
	return len(p.UpperBodyColors) == 0 && len(p.LowerBodyColors) == 0 && len(p.OverallColors) == 0
}

const (
	HeightShort  = "short"
	HeightMedium = "medium"
	HeightTall   = "tall"

	BuildSlim   = "slim"
	BuildMedium = "medium"
	BuildHeavy  = "heavy"

	HairShort   = "short hair"
	HairLong    = "long hair"
	HairUnknown = "unknown"
)

type PhysicalAttributes struct {
	HeightCategory        string   `json:"height_category"`
	BuildCategory         string   `json:"build_category"`
	HairLength            string   `json:"hair_length"`
	HairColor             string   `json:"hair_color"`
	EstimatedHeightMeters float64  `json:"estimated_height_meters"`
	AspectRatio           float64  `json:"aspect_ratio"`
	AllAttributes         []string `json:"all_attributes"`
}
