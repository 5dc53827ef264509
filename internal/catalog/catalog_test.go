package catalog

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/astrofauna/totemeter/internal/errors"
	"github.com/astrofauna/totemeter/internal/zodiac"
)

func fullScores(base float64) map[zodiac.Sign]float64 {
	scores := make(map[zodiac.Sign]float64, len(zodiac.Signs))
	for _, sign := range zodiac.Signs {
		scores[sign] = base
	}
	return scores
}

func fullMultipliers(points ...zodiac.Point) map[zodiac.Point]map[zodiac.Sign]float64 {
	multipliers := make(map[zodiac.Point]map[zodiac.Sign]float64, len(points))
	for _, point := range points {
		multipliers[point] = fullScores(1.0)
	}
	return multipliers
}

func assertCategory(t *testing.T, err error, want apperrors.ErrorCategory) {
	t.Helper()
	require.Error(t, err)
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok, "expected *AppError, got %T", err)
	assert.Equal(t, want, appErr.Category)
}

func TestNewValidCatalog(t *testing.T) {
	cat, err := New(
		[]AnimalAffinity{
			{Name: "Owl", Scores: fullScores(10)},
			{Name: "Wolf", Scores: fullScores(20)},
		},
		map[zodiac.Point]float64{zodiac.Moon: 1.5, zodiac.Sun: 2.0},
		fullMultipliers(zodiac.Sun, zodiac.Moon),
	)
	require.NoError(t, err)

	assert.Equal(t, []string{"Owl", "Wolf"}, cat.Animals())

	// Point order follows the traditional order, not map iteration.
	assert.Equal(t, []zodiac.Point{zodiac.Sun, zodiac.Moon}, cat.Points())

	weight, ok := cat.BaseWeight(zodiac.Sun)
	require.True(t, ok)
	assert.InDelta(t, 2.0, weight, 1e-9)

	_, ok = cat.BaseWeight(zodiac.Pluto)
	assert.False(t, ok)

	affinity, ok := cat.Affinity("Wolf", zodiac.Leo)
	require.True(t, ok)
	assert.InDelta(t, 20.0, affinity, 1e-9)
}

func TestNewSchemaViolations(t *testing.T) {
	validWeights := map[zodiac.Point]float64{zodiac.Sun: 1}
	validMultipliers := fullMultipliers(zodiac.Sun)

	tests := []struct {
		name        string
		animals     []AnimalAffinity
		weights     map[zodiac.Point]float64
		multipliers map[zodiac.Point]map[zodiac.Sign]float64
	}{
		{
			name:        "empty affinity matrix",
			animals:     nil,
			weights:     validWeights,
			multipliers: validMultipliers,
		},
		{
			name: "empty weight table",
			animals: []AnimalAffinity{
				{Name: "Owl", Scores: fullScores(10)},
			},
			weights:     nil,
			multipliers: validMultipliers,
		},
		{
			name: "empty animal name",
			animals: []AnimalAffinity{
				{Name: "", Scores: fullScores(10)},
			},
			weights:     validWeights,
			multipliers: validMultipliers,
		},
		{
			name: "duplicate animal name",
			animals: []AnimalAffinity{
				{Name: "Owl", Scores: fullScores(10)},
				{Name: "Owl", Scores: fullScores(20)},
			},
			weights:     validWeights,
			multipliers: validMultipliers,
		},
		{
			name: "missing sign score",
			animals: []AnimalAffinity{
				{Name: "Owl", Scores: func() map[zodiac.Sign]float64 {
					s := fullScores(10)
					delete(s, zodiac.Pisces)
					return s
				}()},
			},
			weights:     validWeights,
			multipliers: validMultipliers,
		},
		{
			name: "affinity above 100",
			animals: []AnimalAffinity{
				{Name: "Owl", Scores: func() map[zodiac.Sign]float64 {
					s := fullScores(10)
					s[zodiac.Aries] = 101
					return s
				}()},
			},
			weights:     validWeights,
			multipliers: validMultipliers,
		},
		{
			name: "negative affinity",
			animals: []AnimalAffinity{
				{Name: "Owl", Scores: func() map[zodiac.Sign]float64 {
					s := fullScores(10)
					s[zodiac.Aries] = -1
					return s
				}()},
			},
			weights:     validWeights,
			multipliers: validMultipliers,
		},
		{
			name: "NaN affinity",
			animals: []AnimalAffinity{
				{Name: "Owl", Scores: func() map[zodiac.Sign]float64 {
					s := fullScores(10)
					s[zodiac.Aries] = math.NaN()
					return s
				}()},
			},
			weights:     validWeights,
			multipliers: validMultipliers,
		},
		{
			name: "negative base weight",
			animals: []AnimalAffinity{
				{Name: "Owl", Scores: fullScores(10)},
			},
			weights:     map[zodiac.Point]float64{zodiac.Sun: -1},
			multipliers: validMultipliers,
		},
		{
			name: "unknown point in weight table",
			animals: []AnimalAffinity{
				{Name: "Owl", Scores: fullScores(10)},
			},
			weights:     map[zodiac.Point]float64{zodiac.Point("Vulcan"): 1},
			multipliers: validMultipliers,
		},
		{
			name: "multiplier missing a sign",
			animals: []AnimalAffinity{
				{Name: "Owl", Scores: fullScores(10)},
			},
			weights: validWeights,
			multipliers: map[zodiac.Point]map[zodiac.Sign]float64{
				zodiac.Sun: func() map[zodiac.Sign]float64 {
					m := fullScores(1.0)
					delete(m, zodiac.Libra)
					return m
				}(),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.animals, tt.weights, tt.multipliers)
			assertCategory(t, err, apperrors.CategorySchema)
		})
	}
}

func TestNewConsistencyViolations(t *testing.T) {
	animals := []AnimalAffinity{
		{Name: "Owl", Scores: fullScores(10)},
	}

	t.Run("multipliers cover a point weights do not", func(t *testing.T) {
		_, err := New(animals,
			map[zodiac.Point]float64{zodiac.Sun: 1},
			fullMultipliers(zodiac.Sun, zodiac.Moon),
		)
		assertCategory(t, err, apperrors.CategoryConsistency)
	})

	t.Run("weights cover a point multipliers do not", func(t *testing.T) {
		_, err := New(animals,
			map[zodiac.Point]float64{zodiac.Sun: 1, zodiac.Moon: 1},
			fullMultipliers(zodiac.Sun),
		)
		assertCategory(t, err, apperrors.CategoryConsistency)
	})
}

func TestCatalogDeepCopies(t *testing.T) {
	weights := map[zodiac.Point]float64{zodiac.Sun: 2.0}
	multipliers := fullMultipliers(zodiac.Sun)

	cat, err := New(
		[]AnimalAffinity{{Name: "Owl", Scores: fullScores(10)}},
		weights, multipliers,
	)
	require.NoError(t, err)

	// Mutating the caller's tables must not leak into the catalogue.
	weights[zodiac.Sun] = 99
	multipliers[zodiac.Sun][zodiac.Aries] = 99

	weight, _ := cat.BaseWeight(zodiac.Sun)
	assert.InDelta(t, 2.0, weight, 1e-9)

	mult, _ := cat.Multiplier(zodiac.Sun, zodiac.Aries)
	assert.InDelta(t, 1.0, mult, 1e-9)
}
