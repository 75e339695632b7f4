// Package pipeline composes normalization, scoring, categorization, and
// recommendations into a single unit. The web form handler, the JSON API,
// and the sensor simulator all score readings through this one code path;
// a private copy in any caller would drift and produce plausible-looking
// but wrong scores.
package pipeline

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/ecowatch/ecoscore-service/internal/domain"
	"github.com/ecowatch/ecoscore-service/internal/observability"
)

// ValidationError reports a missing or non-numeric submission field. It
// names the offending field so callers can surface a specific message
// instead of a generic failure.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid value for %s", e.Field)
}

// Result is the outcome of one full pipeline evaluation.
type Result struct {
	Inputs          domain.FeatureVector    `json:"inputs"`
	Ecoscore        float64                 `json:"ecoscore"`
	Category        domain.Category         `json:"categoria"`
	Recommendations []domain.Recommendation `json:"recomendaciones"`
}

// Pipeline scores feature vectors with the parameters and model loaded at
// startup. Both are immutable after construction, so one Pipeline is safe
// for concurrent use from handlers and the simulator.
type Pipeline struct {
	params    *domain.NormalizationParams
	predictor domain.Predictor
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// New creates a Pipeline over the loaded normalization parameters and model.
func New(params *domain.NormalizationParams, predictor domain.Predictor, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		params:    params,
		predictor: predictor,
		logger:    logger,
		metrics:   metrics,
	}
}

// ParseInputs coerces raw submission values into a FeatureVector. Every
// feature must be present and numeric; the first offender aborts the parse
// and nothing is partially computed.
func (p *Pipeline) ParseInputs(raw map[string]string) (domain.FeatureVector, error) {
	var vals [domain.FeatureCount]float64
	for i, name := range domain.FeatureOrder {
		s, ok := raw[name]
		s = strings.TrimSpace(s)
		if !ok || s == "" {
			return domain.FeatureVector{}, &ValidationError{Field: name}
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return domain.FeatureVector{}, &ValidationError{Field: name}
		}
		vals[i] = v
	}
	return domain.VectorFromValues(vals), nil
}

// Score normalizes the reading in feature order, runs the model, and rounds
// to 3 decimals. Rounding happens here and nowhere else, so the
// categorizer, the store, and API responses all see an identical value.
func (p *Pipeline) Score(inputs domain.FeatureVector) float64 {
	start := time.Now()

	vals := inputs.Values()
	var normalized [domain.FeatureCount]float64
	for i, name := range domain.FeatureOrder {
		n, fallback := p.params.NormalizeFeature(name, vals[i])
		if fallback {
			p.logger.Warn("normalization fallback, check parameter document", "feature", name)
			p.metrics.NormalizationFallbacks.WithLabelValues(name).Inc()
		}
		normalized[i] = n
	}

	score := round3(p.predictor.Predict(normalized))

	p.metrics.PredictionDuration.Observe(time.Since(start).Seconds())
	p.metrics.LastEcoscore.Set(score)
	return score
}

// Evaluate runs the full pipeline: normalize, predict, categorize,
// recommend. Given identical inputs and unchanged artifacts, repeated
// calls produce an identical Result.
func (p *Pipeline) Evaluate(inputs domain.FeatureVector) Result {
	score := p.Score(inputs)
	return Result{
		Inputs:          inputs,
		Ecoscore:        score,
		Category:        domain.Categorize(score),
		Recommendations: domain.Recommend(inputs, score),
	}
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
