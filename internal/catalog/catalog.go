// Package catalog holds the immutable reference tables the scoring pipeline
// runs against: the animal raw-affinity matrix, the per-point base weights and
// the per-point per-sign weight multipliers. A Catalog is built once at
// startup, fully validated, and shared read-only across requests.
package catalog

import (
	"fmt"
	"math"

	"github.com/astrofauna/totemeter/internal/errors"
	"github.com/astrofauna/totemeter/internal/zodiac"
)

// AnimalAffinity is one row of the raw-affinity matrix: an animal archetype
// and its base compatibility score for each of the twelve signs.
type AnimalAffinity struct {
	Name   string
	Scores map[zodiac.Sign]float64
}

// Catalog is the validated, immutable reference data set.
type Catalog struct {
	animals     []string
	affinities  map[string]map[zodiac.Sign]float64
	points      []zodiac.Point
	weights     map[zodiac.Point]float64
	multipliers map[zodiac.Point]map[zodiac.Sign]float64
}

// New validates the three tables and assembles a Catalog.
//
// Validation rules:
//   - every animal carries exactly one finite score in [0, 100] per sign
//   - no duplicate animal names
//   - every base weight is finite and non-negative
//   - the multiplier table covers exactly the weight table's points, each
//     with a finite multiplier for all twelve signs
//
// Schema violations return a schema error; a point-universe mismatch between
// weights and multipliers returns a consistency error.
func New(animals []AnimalAffinity, weights map[zodiac.Point]float64, multipliers map[zodiac.Point]map[zodiac.Sign]float64) (*Catalog, error) {
	if len(animals) == 0 {
		return nil, errors.NewSchemaError("affinity matrix contains no animals", nil)
	}
	if len(weights) == 0 {
		return nil, errors.NewSchemaError("weight table contains no celestial points", nil)
	}

	names := make([]string, 0, len(animals))
	affinities := make(map[string]map[zodiac.Sign]float64, len(animals))
	for _, animal := range animals {
		if animal.Name == "" {
			return nil, errors.NewSchemaError("animal with empty name in affinity matrix", nil)
		}
		if _, dup := affinities[animal.Name]; dup {
			return nil, errors.NewSchemaError(fmt.Sprintf("duplicate animal %q in affinity matrix", animal.Name), nil)
		}
		scores := make(map[zodiac.Sign]float64, len(zodiac.Signs))
		for _, sign := range zodiac.Signs {
			score, ok := animal.Scores[sign]
			if !ok {
				return nil, errors.NewSchemaError(fmt.Sprintf("animal %q has no affinity for sign %s", animal.Name, sign), nil)
			}
			if math.IsNaN(score) || math.IsInf(score, 0) || score < 0 || score > 100 {
				return nil, errors.NewSchemaError(fmt.Sprintf("animal %q has invalid affinity %v for sign %s", animal.Name, score, sign), nil)
			}
			scores[sign] = score
		}
		if len(animal.Scores) != len(zodiac.Signs) {
			for sign := range animal.Scores {
				if !sign.Valid() {
					return nil, errors.NewSchemaError(fmt.Sprintf("animal %q scored for unknown sign %q", animal.Name, sign), nil)
				}
			}
		}
		names = append(names, animal.Name)
		affinities[animal.Name] = scores
	}

	for point, weight := range weights {
		if !point.Valid() {
			return nil, errors.NewSchemaError(fmt.Sprintf("weight table references unknown point %q", point), nil)
		}
		if math.IsNaN(weight) || math.IsInf(weight, 0) || weight < 0 {
			return nil, errors.NewSchemaError(fmt.Sprintf("point %s has invalid base weight %v", point, weight), nil)
		}
	}

	for point, bySign := range multipliers {
		if !point.Valid() {
			return nil, errors.NewSchemaError(fmt.Sprintf("multiplier table references unknown point %q", point), nil)
		}
		if _, ok := weights[point]; !ok {
			return nil, errors.NewConsistencyError(
				"multiplier table covers a point the weight table does not",
				map[string]interface{}{"point": string(point)})
		}
		for _, sign := range zodiac.Signs {
			mult, ok := bySign[sign]
			if !ok {
				return nil, errors.NewSchemaError(fmt.Sprintf("point %s has no multiplier for sign %s", point, sign), nil)
			}
			if math.IsNaN(mult) || math.IsInf(mult, 0) {
				return nil, errors.NewSchemaError(fmt.Sprintf("point %s has invalid multiplier %v for sign %s", point, mult, sign), nil)
			}
		}
	}
	for point := range weights {
		if _, ok := multipliers[point]; !ok {
			return nil, errors.NewConsistencyError(
				"weight table covers a point the multiplier table does not",
				map[string]interface{}{"point": string(point)})
		}
	}

	// Fix iteration order once: traditional point order filtered down to the
	// points this catalogue declares. Aggregation sums in this order so
	// totals are reproducible bit-for-bit.
	points := make([]zodiac.Point, 0, len(weights))
	for _, point := range zodiac.Points {
		if _, ok := weights[point]; ok {
			points = append(points, point)
		}
	}

	weightsCopy := make(map[zodiac.Point]float64, len(weights))
	for point, weight := range weights {
		weightsCopy[point] = weight
	}
	multipliersCopy := make(map[zodiac.Point]map[zodiac.Sign]float64, len(multipliers))
	for point, bySign := range multipliers {
		signCopy := make(map[zodiac.Sign]float64, len(zodiac.Signs))
		for _, sign := range zodiac.Signs {
			signCopy[sign] = bySign[sign]
		}
		multipliersCopy[point] = signCopy
	}

	return &Catalog{
		animals:     names,
		affinities:  affinities,
		points:      points,
		weights:     weightsCopy,
		multipliers: multipliersCopy,
	}, nil
}

// Animals returns the animal names in matrix declaration order.
func (c *Catalog) Animals() []string {
	return c.animals
}

// Points returns the celestial points the catalogue scores, in the fixed
// iteration order used by aggregation.
func (c *Catalog) Points() []zodiac.Point {
	return c.points
}

// BaseWeight returns the base weight for a point. The second return is false
// for points the catalogue does not score.
func (c *Catalog) BaseWeight(point zodiac.Point) (float64, bool) {
	w, ok := c.weights[point]
	return w, ok
}

// Multiplier returns the sign-dependent weight multiplier for a point.
func (c *Catalog) Multiplier(point zodiac.Point, sign zodiac.Sign) (float64, bool) {
	bySign, ok := c.multipliers[point]
	if !ok {
		return 0, false
	}
	m, ok := bySign[sign]
	return m, ok
}

// Affinity returns the raw affinity between an animal and a sign.
func (c *Catalog) Affinity(animal string, sign zodiac.Sign) (float64, bool) {
	scores, ok := c.affinities[animal]
	if !ok {
		return 0, false
	}
	score, ok := scores[sign]
	return score, ok
}
