package scoring

import (
	"sort"

	"github.com/astrofauna/totemeter/internal/catalog"
	"github.com/astrofauna/totemeter/internal/zodiac"
)

// Rank orders animal totals into the final ranking: descending by total,
// ties broken by animal name ascending so the order is total and
// reproducible. Percentage strength is relative to the ranking's own
// maximum, so the leading animal reads 100% unless every total is zero, in
// which case all percentages are zero.
func Rank(totals map[string]float64, cfg Config) []AnimalScore {
	ranked := make([]AnimalScore, 0, len(totals))
	maxTotal := 0.0
	for animal, total := range totals {
		ranked = append(ranked, AnimalScore{Animal: animal, Total: total})
		if total > maxTotal {
			maxTotal = total
		}
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Total != ranked[j].Total {
			return ranked[i].Total > ranked[j].Total
		}
		return ranked[i].Animal < ranked[j].Animal
	})

	for i := range ranked {
		if maxTotal > 0 {
			ranked[i].Percentage = 100 * ranked[i].Total / maxTotal
		}
		ranked[i].StrongMatch = i < cfg.TopK && ranked[i].Percentage >= cfg.MinPercentage
	}

	return ranked
}

// pointStrengths computes, for the given animals, each point's weighted
// contribution as a percentage of the strongest contribution any animal in
// the catalogue makes at that point. A point whose column maximum is not
// positive reads 0 for everyone.
func pointStrengths(cat *catalog.Catalog, matrix map[string]map[zodiac.Point]float64, animals []string) map[string]map[zodiac.Point]float64 {
	columnMax := make(map[zodiac.Point]float64, len(cat.Points()))
	for _, point := range cat.Points() {
		for _, animal := range cat.Animals() {
			if v := matrix[animal][point]; v > columnMax[point] {
				columnMax[point] = v
			}
		}
	}

	strengths := make(map[string]map[zodiac.Point]float64, len(animals))
	for _, animal := range animals {
		row := make(map[zodiac.Point]float64, len(cat.Points()))
		for _, point := range cat.Points() {
			if max := columnMax[point]; max > 0 {
				row[point] = 100 * matrix[animal][point] / max
			} else {
				row[point] = 0
			}
		}
		strengths[animal] = row
	}

	return strengths
}

// signaturePoints marks each animal's n strongest points. Ties resolve in
// the catalogue's point order so the table is deterministic.
func signaturePoints(cat *catalog.Catalog, matrix map[string]map[zodiac.Point]float64, animals []string, n int) map[string]map[zodiac.Point]bool {
	signatures := make(map[string]map[zodiac.Point]bool, len(animals))
	for _, animal := range animals {
		order := make([]zodiac.Point, len(cat.Points()))
		copy(order, cat.Points())
		sort.SliceStable(order, func(i, j int) bool {
			return matrix[animal][order[i]] > matrix[animal][order[j]]
		})

		marked := make(map[zodiac.Point]bool, len(order))
		for i, point := range order {
			marked[point] = i < n
		}
		signatures[animal] = marked
	}

	return signatures
}
