// Package scoring implements the compatibility pipeline: effective weight
// resolution, per-animal aggregation and ranking/normalization over the
// shared catalogue. The whole pipeline is pure, synchronous computation over
// immutable inputs; concurrent requests need no locking.
package scoring

import (
	"github.com/astrofauna/totemeter/internal/catalog"
	"github.com/astrofauna/totemeter/internal/types"
)

// Engine runs the full pipeline against one catalogue.
type Engine struct {
	cat *catalog.Catalog
	cfg Config
}

// NewEngine creates an engine over a loaded catalogue.
func NewEngine(cat *catalog.Catalog, cfg Config) *Engine {
	if cfg.TopK < 1 {
		cfg.TopK = DefaultConfig().TopK
	}
	if cfg.SignaturePoints < 1 {
		cfg.SignaturePoints = DefaultConfig().SignaturePoints
	}
	return &Engine{cat: cat, cfg: cfg}
}

// Catalog returns the engine's reference tables.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.cat
}

// Analyze scores one birth chart end to end. The result is allocated fresh
// per call; repeated calls with the same chart produce bit-identical output.
func (e *Engine) Analyze(chart types.BirthChart) (*Result, error) {
	weights, err := ResolveWeights(e.cat, chart)
	if err != nil {
		return nil, err
	}

	totals := AggregateScores(e.cat, chart, weights)
	ranked := Rank(totals, e.cfg)

	topK := e.cfg.TopK
	if topK > len(ranked) {
		topK = len(ranked)
	}
	top := make([]AnimalScore, topK)
	copy(top, ranked[:topK])

	topAnimals := make([]string, topK)
	for i, score := range top {
		topAnimals[i] = score.Animal
	}

	matrix := weightedMatrix(e.cat, chart, weights)

	chartCopy := make(types.BirthChart, len(chart))
	for point, sign := range chart {
		chartCopy[point] = sign
	}

	return &Result{
		Chart:            chartCopy,
		EffectiveWeights: weights,
		Rankings:         ranked,
		Top:              top,
		PointStrengths:   pointStrengths(e.cat, matrix, topAnimals),
		SignaturePoints:  signaturePoints(e.cat, matrix, topAnimals, e.cfg.SignaturePoints),
	}, nil
}
