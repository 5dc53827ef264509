package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astrofauna/totemeter/internal/catalog"
	apperrors "github.com/astrofauna/totemeter/internal/errors"
	"github.com/astrofauna/totemeter/internal/types"
	"github.com/astrofauna/totemeter/internal/zodiac"
)

// uniformScores builds a full affinity row with the same score everywhere,
// then applies overrides.
func uniformScores(base float64, overrides map[zodiac.Sign]float64) map[zodiac.Sign]float64 {
	scores := make(map[zodiac.Sign]float64, len(zodiac.Signs))
	for _, sign := range zodiac.Signs {
		scores[sign] = base
	}
	for sign, score := range overrides {
		scores[sign] = score
	}
	return scores
}

func uniformMultipliers(base float64, overrides map[zodiac.Sign]float64) map[zodiac.Sign]float64 {
	return uniformScores(base, overrides)
}

// newTestCatalog scores three points for three animals:
//
//	effective weights for the test chart (Sun ARIES, Moon TAURUS, Asc LEO):
//	  Sun 2.0*2.0 = 4.0, Moon 1.5, Ascendant 1.0
//	totals:
//	  Owl  100*4 + 50*1.5 + 0*1  = 475
//	  Fox   50*4 + 50*1.5 + 50*1 = 325
//	  Wolf  20*4 + 80*1.5 + 60*1 = 260
func newTestCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()

	cat, err := catalog.New(
		[]catalog.AnimalAffinity{
			{Name: "Owl", Scores: uniformScores(10, map[zodiac.Sign]float64{
				zodiac.Aries: 100, zodiac.Taurus: 50, zodiac.Leo: 0,
			})},
			{Name: "Wolf", Scores: uniformScores(10, map[zodiac.Sign]float64{
				zodiac.Aries: 20, zodiac.Taurus: 80, zodiac.Leo: 60,
			})},
			{Name: "Fox", Scores: uniformScores(50, nil)},
		},
		map[zodiac.Point]float64{
			zodiac.Sun:       2.0,
			zodiac.Moon:      1.5,
			zodiac.Ascendant: 1.0,
		},
		map[zodiac.Point]map[zodiac.Sign]float64{
			zodiac.Sun:       uniformMultipliers(1.0, map[zodiac.Sign]float64{zodiac.Aries: 2.0}),
			zodiac.Moon:      uniformMultipliers(1.0, nil),
			zodiac.Ascendant: uniformMultipliers(1.0, nil),
		},
	)
	require.NoError(t, err)
	return cat
}

func testChart() types.BirthChart {
	return types.BirthChart{
		zodiac.Sun:       zodiac.Aries,
		zodiac.Moon:      zodiac.Taurus,
		zodiac.Ascendant: zodiac.Leo,
	}
}

func TestResolveWeights(t *testing.T) {
	cat := newTestCatalog(t)

	t.Run("applies base weight times sign multiplier", func(t *testing.T) {
		weights, err := ResolveWeights(cat, testChart())
		require.NoError(t, err)

		assert.InDelta(t, 4.0, weights[zodiac.Sun], 1e-9)
		assert.InDelta(t, 1.5, weights[zodiac.Moon], 1e-9)
		assert.InDelta(t, 1.0, weights[zodiac.Ascendant], 1e-9)
	})

	t.Run("ignores chart points the catalogue does not score", func(t *testing.T) {
		chart := testChart()
		chart[zodiac.Pluto] = zodiac.Scorpio

		weights, err := ResolveWeights(cat, chart)
		require.NoError(t, err)
		assert.Len(t, weights, 3)
		assert.NotContains(t, weights, zodiac.Pluto)
	})

	t.Run("fails the whole request on a missing point", func(t *testing.T) {
		chart := testChart()
		delete(chart, zodiac.Moon)

		_, err := ResolveWeights(cat, chart)
		require.Error(t, err)

		appErr, ok := err.(*apperrors.AppError)
		require.True(t, ok)
		assert.Equal(t, apperrors.CategoryMissingPoint, appErr.Category)
		assert.Equal(t, 422, appErr.HTTPStatus)
		assert.Contains(t, appErr.Error(), "Moon")
	})

	t.Run("rejects an unknown sign placement", func(t *testing.T) {
		chart := testChart()
		chart[zodiac.Sun] = zodiac.Sign("SNAKE")

		_, err := ResolveWeights(cat, chart)
		require.Error(t, err)

		appErr, ok := err.(*apperrors.AppError)
		require.True(t, ok)
		assert.Equal(t, apperrors.CategoryInvalidInput, appErr.Category)
	})
}

func TestAggregateScores(t *testing.T) {
	cat := newTestCatalog(t)
	chart := testChart()

	weights, err := ResolveWeights(cat, chart)
	require.NoError(t, err)

	totals := AggregateScores(cat, chart, weights)

	assert.InDelta(t, 475.0, totals["Owl"], 1e-9)
	assert.InDelta(t, 260.0, totals["Wolf"], 1e-9)
	assert.InDelta(t, 325.0, totals["Fox"], 1e-9)
}

func TestAggregateScoresZeroWeights(t *testing.T) {
	cat := newTestCatalog(t)
	chart := testChart()

	zero := map[zodiac.Point]float64{
		zodiac.Sun: 0, zodiac.Moon: 0, zodiac.Ascendant: 0,
	}

	totals := AggregateScores(cat, chart, zero)
	for animal, total := range totals {
		assert.Zero(t, total, "animal %s", animal)
	}
}

func TestRank(t *testing.T) {
	t.Run("orders by total descending with leader at 100 percent", func(t *testing.T) {
		ranked := Rank(map[string]float64{
			"Owl": 475, "Wolf": 260, "Fox": 325,
		}, DefaultConfig())

		require.Len(t, ranked, 3)
		assert.Equal(t, "Owl", ranked[0].Animal)
		assert.Equal(t, "Fox", ranked[1].Animal)
		assert.Equal(t, "Wolf", ranked[2].Animal)

		assert.InDelta(t, 100.0, ranked[0].Percentage, 1e-9)
		assert.InDelta(t, 100*325.0/475.0, ranked[1].Percentage, 1e-9)
		assert.InDelta(t, 100*260.0/475.0, ranked[2].Percentage, 1e-9)
	})

	t.Run("breaks ties by animal name ascending", func(t *testing.T) {
		ranked := Rank(map[string]float64{
			"Zebra": 100, "Antelope": 100, "Mole": 100,
		}, DefaultConfig())

		require.Len(t, ranked, 3)
		assert.Equal(t, "Antelope", ranked[0].Animal)
		assert.Equal(t, "Mole", ranked[1].Animal)
		assert.Equal(t, "Zebra", ranked[2].Animal)
	})

	t.Run("all-zero totals yield zero percentages", func(t *testing.T) {
		ranked := Rank(map[string]float64{"Owl": 0, "Wolf": 0}, DefaultConfig())

		for _, entry := range ranked {
			assert.Zero(t, entry.Percentage)
		}
	})

	t.Run("strong match requires top-K membership and the percentage floor", func(t *testing.T) {
		cfg := Config{TopK: 2, MinPercentage: 60}
		ranked := Rank(map[string]float64{
			"Owl": 100, "Fox": 50, "Wolf": 90,
		}, cfg)

		assert.True(t, ranked[0].StrongMatch)  // Owl, 100%
		assert.True(t, ranked[1].StrongMatch)  // Wolf, 90%
		assert.False(t, ranked[2].StrongMatch) // Fox, outside top-K
	})

	t.Run("top-K animal below the floor is not a strong match", func(t *testing.T) {
		cfg := Config{TopK: 2, MinPercentage: 60}
		ranked := Rank(map[string]float64{
			"Owl": 100, "Fox": 40,
		}, cfg)

		assert.True(t, ranked[0].StrongMatch)
		assert.False(t, ranked[1].StrongMatch) // in top-K but 40% < 60%
	})
}

func TestEngineAnalyze(t *testing.T) {
	cat := newTestCatalog(t)
	engine := NewEngine(cat, Config{TopK: 2, MinPercentage: 0, SignaturePoints: 2})

	result, err := engine.Analyze(testChart())
	require.NoError(t, err)

	t.Run("ranks every animal and copies the top slice", func(t *testing.T) {
		require.Len(t, result.Rankings, 3)
		require.Len(t, result.Top, 2)
		assert.Equal(t, "Owl", result.Top[0].Animal)
		assert.Equal(t, "Fox", result.Top[1].Animal)
	})

	t.Run("exposes effective weights", func(t *testing.T) {
		assert.InDelta(t, 4.0, result.EffectiveWeights[zodiac.Sun], 1e-9)
	})

	t.Run("point strengths are relative to the column maximum", func(t *testing.T) {
		// Sun column: Owl 400, Fox 200, Wolf 80; max is 400.
		owl := result.PointStrengths["Owl"]
		require.NotNil(t, owl)
		assert.InDelta(t, 100.0, owl[zodiac.Sun], 1e-9)

		fox := result.PointStrengths["Fox"]
		require.NotNil(t, fox)
		assert.InDelta(t, 50.0, fox[zodiac.Sun], 1e-9)
	})

	t.Run("signature table marks the strongest points", func(t *testing.T) {
		// Owl contributions: Sun 400, Moon 75, Ascendant 0.
		owl := result.SignaturePoints["Owl"]
		require.NotNil(t, owl)
		assert.True(t, owl[zodiac.Sun])
		assert.True(t, owl[zodiac.Moon])
		assert.False(t, owl[zodiac.Ascendant])
	})

	t.Run("identical input produces identical output", func(t *testing.T) {
		again, err := engine.Analyze(testChart())
		require.NoError(t, err)
		assert.Equal(t, result, again)
	})

	t.Run("result chart is a copy", func(t *testing.T) {
		chart := testChart()
		res, err := engine.Analyze(chart)
		require.NoError(t, err)

		chart[zodiac.Sun] = zodiac.Pisces
		assert.Equal(t, zodiac.Aries, res.Chart[zodiac.Sun])
	})
}

func TestEngineAnalyzeTopKExceedsAnimals(t *testing.T) {
	cat := newTestCatalog(t)
	engine := NewEngine(cat, Config{TopK: 10, SignaturePoints: 2})

	result, err := engine.Analyze(testChart())
	require.NoError(t, err)

	assert.Len(t, result.Top, 3)
	assert.Len(t, result.PointStrengths, 3)
}
