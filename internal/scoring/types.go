package scoring

import (
	"github.com/astrofauna/totemeter/internal/types"
	"github.com/astrofauna/totemeter/internal/zodiac"
)

// Config tunes the ranker's strong-match classification.
type Config struct {
	// TopK is the number of leading animals eligible for the strong-match
	// flag and returned in the top slice.
	TopK int `json:"top_k"`
	// MinPercentage is the percentage strength floor a top-K animal must
	// reach to be flagged. Zero means top-K membership alone decides.
	MinPercentage float64 `json:"min_percentage"`
	// SignaturePoints is how many of an animal's strongest points are
	// marked in its signature table.
	SignaturePoints int `json:"signature_points"`
}

// DefaultConfig mirrors the catalogue's historical defaults: top 3 animals,
// no percentage floor, 6 signature points.
func DefaultConfig() Config {
	return Config{
		TopK:            3,
		MinPercentage:   0,
		SignaturePoints: 6,
	}
}

// AnimalScore is one ranked entry: an animal's weighted total, its strength
// relative to the ranking's maximum, and its classification.
type AnimalScore struct {
	Animal      string  `json:"animal"`
	Total       float64 `json:"total_score"`
	Percentage  float64 `json:"percentage"`
	StrongMatch bool    `json:"strong_match"`
}

// Result is the full outcome of one analysis: the chart it was computed
// from, the per-point weights used, the complete ranking and the per-point
// detail for the top animals. Produced fresh per request, immutable once
// returned.
type Result struct {
	Chart            types.BirthChart               `json:"birth_chart"`
	EffectiveWeights map[zodiac.Point]float64       `json:"effective_weights"`
	Rankings         []AnimalScore                  `json:"rankings"`
	Top              []AnimalScore                  `json:"top_animals"`
	// PointStrengths holds, per top animal and per point, the animal's
	// weighted contribution as a percentage of the strongest contribution
	// any animal makes at that point. This feeds the 12-axis chart renderer.
	PointStrengths map[string]map[zodiac.Point]float64 `json:"point_strengths"`
	// SignaturePoints marks, per top animal, its strongest points.
	SignaturePoints map[string]map[zodiac.Point]bool `json:"signature_points"`
}
