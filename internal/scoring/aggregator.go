package scoring

import (
	"github.com/astrofauna/totemeter/internal/catalog"
	"github.com/astrofauna/totemeter/internal/types"
	"github.com/astrofauna/totemeter/internal/zodiac"
)

// AggregateScores sums each animal's weighted contribution over every scored
// point: raw affinity for the sign the point occupies, times the point's
// effective weight.
//
// Summation follows the catalogue's declared point order so totals are
// reproducible bit-for-bit across runs. An all-zero effective weight set is
// a valid degenerate input and yields zero totals, not an error.
func AggregateScores(cat *catalog.Catalog, chart types.BirthChart, weights map[zodiac.Point]float64) map[string]float64 {
	totals := make(map[string]float64, len(cat.Animals()))
	for _, animal := range cat.Animals() {
		total := 0.0
		for _, point := range cat.Points() {
			weight, ok := weights[point]
			if !ok {
				continue
			}
			sign, ok := chart[point]
			if !ok {
				continue
			}
			affinity, _ := cat.Affinity(animal, sign)
			total += affinity * weight
		}
		totals[animal] = total
	}

	return totals
}

// weightedMatrix returns each animal's per-point weighted contribution. The
// ranker's per-point strength and signature tables are derived from it.
func weightedMatrix(cat *catalog.Catalog, chart types.BirthChart, weights map[zodiac.Point]float64) map[string]map[zodiac.Point]float64 {
	matrix := make(map[string]map[zodiac.Point]float64, len(cat.Animals()))
	for _, animal := range cat.Animals() {
		row := make(map[zodiac.Point]float64, len(cat.Points()))
		for _, point := range cat.Points() {
			weight, ok := weights[point]
			if !ok {
				continue
			}
			sign, ok := chart[point]
			if !ok {
				continue
			}
			affinity, _ := cat.Affinity(animal, sign)
			row[point] = affinity * weight
		}
		matrix[animal] = row
	}

	return matrix
}
