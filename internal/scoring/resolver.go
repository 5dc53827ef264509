package scoring

import (
	"fmt"

	"github.com/astrofauna/totemeter/internal/catalog"
	"github.com/astrofauna/totemeter/internal/errors"
	"github.com/astrofauna/totemeter/internal/types"
	"github.com/astrofauna/totemeter/internal/zodiac"
)

// ResolveWeights computes the effective per-point weight for one chart:
// base weight times the multiplier for the sign the point occupies.
//
// Every point the catalogue scores must be present in the chart; a missing
// point fails the whole request since no total can be computed without full
// coverage. Points the chart supplies beyond the catalogue are ignored, so
// an ephemeris collaborator may return extra placements without breaking
// scoring. Pure function of its inputs.
func ResolveWeights(cat *catalog.Catalog, chart types.BirthChart) (map[zodiac.Point]float64, error) {
	for point, sign := range chart {
		if !sign.Valid() {
			return nil, errors.NewInvalidInputError(
				fmt.Sprintf("birth chart places %s in unknown sign %q", point, sign))
		}
	}

	weights := make(map[zodiac.Point]float64, len(cat.Points()))
	for _, point := range cat.Points() {
		sign, ok := chart[point]
		if !ok {
			return nil, errors.NewMissingPointError(string(point))
		}

		base, _ := cat.BaseWeight(point)
		mult, _ := cat.Multiplier(point, sign)
		weights[point] = base * mult
	}

	return weights, nil
}
