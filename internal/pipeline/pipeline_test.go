package pipeline_test

import (
	"log/slog"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecowatch/ecoscore-service/internal/domain"
	"github.com/ecowatch/ecoscore-service/internal/observability"
	"github.com/ecowatch/ecoscore-service/internal/pipeline"
)

func f64(v float64) *float64 { return &v }

// trainingParams mirrors the bounds recorded when the shipped model was
// fitted.
func trainingParams() *domain.NormalizationParams {
	return &domain.NormalizationParams{
		Method: domain.MethodMinMax,
		Columns: map[string]domain.Bounds{
			domain.FeatureGreenArea:      {VMin: f64(5), VMax: f64(35)},
			domain.FeatureTreeCover:      {VMin: f64(10), VMax: f64(45)},
			domain.FeaturePM25:           {VMin: f64(10), VMax: f64(50)},
			domain.FeaturePM10:           {VMin: f64(20), VMax: f64(90)},
			domain.FeatureUnmanagedWaste: {VMin: f64(0.2), VMax: f64(1)},
			domain.FeatureRecycling:      {VMin: f64(5), VMax: f64(50)},
			domain.FeatureCleanTransport: {VMin: f64(10), VMax: f64(60)},
		},
	}
}

func trainingModel() *domain.LinearModel {
	return &domain.LinearModel{
		Intercept:    210,
		Coefficients: [domain.FeatureCount]float64{90, 75, -110, -40, -60, 60, 65},
	}
}

func newTestPipeline() *pipeline.Pipeline {
	return pipeline.New(trainingParams(), trainingModel(), slog.Default(), observability.NewMetricsForTesting())
}

func TestEvaluate_HealthyCity(t *testing.T) {
	p := newTestPipeline()

	result := p.Evaluate(domain.FeatureVector{
		GreenAreaKm2:      30,
		TreeCoverPct:      45,
		PM25:              8,
		PM10:              15,
		UnmanagedWaste:    0.1,
		RecyclingPct:      50,
		CleanTransportPct: 60,
	})

	assert.InDelta(t, 500.857, result.Ecoscore, 0.001)
	assert.Equal(t, domain.CategoryExcelente, result.Category)

	for _, rec := range result.Recommendations[1:] {
		assert.NotEqual(t, domain.SeverityCritico, rec.Severity)
	}
}

func TestEvaluate_DegradedCity(t *testing.T) {
	p := newTestPipeline()

	result := p.Evaluate(domain.FeatureVector{
		GreenAreaKm2:      2,
		TreeCoverPct:      5,
		PM25:              55,
		PM10:              90,
		UnmanagedWaste:    1.2,
		RecyclingPct:      3,
		CleanTransportPct: 5,
	})

	assert.InDelta(t, -57.631, result.Ecoscore, 0.001)
	assert.Equal(t, domain.CategoryCritico, result.Category)

	var critical int
	for _, rec := range result.Recommendations[1:] {
		if rec.Severity == domain.SeverityCritico {
			critical++
		}
	}
	assert.Equal(t, 6, critical, "every feature with a critical tier must fire")
	assert.Len(t, result.Recommendations, 8, "score message, 6 critical, 1 moderate for pm10")
}

func TestEvaluate_Idempotent(t *testing.T) {
	p := newTestPipeline()
	inputs := domain.FeatureVector{
		GreenAreaKm2:      12.5,
		TreeCoverPct:      22.3,
		PM25:              31.7,
		PM10:              48.2,
		UnmanagedWaste:    0.45,
		RecyclingPct:      18.9,
		CleanTransportPct: 27.1,
	}

	first := p.Evaluate(inputs)
	second := p.Evaluate(inputs)

	assert.Equal(t, first.Ecoscore, second.Ecoscore)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("results differ across identical calls (-first +second):\n%s", diff)
	}
}

func TestScore_RoundedToThreeDecimals(t *testing.T) {
	p := newTestPipeline()

	score := p.Score(domain.FeatureVector{
		GreenAreaKm2:      13.7,
		TreeCoverPct:      21.1,
		PM25:              33.3,
		PM10:              47.9,
		UnmanagedWaste:    0.61,
		RecyclingPct:      14.2,
		CleanTransportPct: 29.8,
	})

	scaled := score * 1000
	assert.InDelta(t, math.Round(scaled), scaled, 1e-6)
}

func TestScore_MissingBoundsUseNeutralValue(t *testing.T) {
	params := trainingParams()
	delete(params.Columns, domain.FeaturePM25)
	p := pipeline.New(params, trainingModel(), slog.Default(), observability.NewMetricsForTesting())

	// With pm25 neutral at 0.5 its contribution is fixed at -55 regardless
	// of the raw reading.
	a := p.Score(domain.FeatureVector{PM25: 1})
	b := p.Score(domain.FeatureVector{PM25: 999})
	assert.Equal(t, a, b)
}

func TestParseInputs(t *testing.T) {
	p := newTestPipeline()

	raw := map[string]string{
		"ha_verdes_km2":                "30",
		"cobertura_arbolado_pct":       "45",
		"pm25":                         "8",
		"pm10":                         "15",
		"residuos_no_gestionados":      "0.1",
		"porcentaje_reciclaje":         "50",
		"porcentaje_transporte_limpio": "60",
	}

	got, err := p.ParseInputs(raw)
	require.NoError(t, err)
	assert.Equal(t, domain.FeatureVector{
		GreenAreaKm2:      30,
		TreeCoverPct:      45,
		PM25:              8,
		PM10:              15,
		UnmanagedWaste:    0.1,
		RecyclingPct:      50,
		CleanTransportPct: 60,
	}, got)
}

func TestParseInputs_MissingFieldNamesOffender(t *testing.T) {
	p := newTestPipeline()

	raw := map[string]string{
		"ha_verdes_km2":                "30",
		"cobertura_arbolado_pct":       "45",
		"pm10":                         "15",
		"residuos_no_gestionados":      "0.1",
		"porcentaje_reciclaje":         "50",
		"porcentaje_transporte_limpio": "60",
	}

	_, err := p.ParseInputs(raw)
	var verr *pipeline.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "pm25", verr.Field)
}

func TestParseInputs_NonNumericFieldNamesOffender(t *testing.T) {
	p := newTestPipeline()

	raw := map[string]string{
		"ha_verdes_km2":                "30",
		"cobertura_arbolado_pct":       "mucho",
		"pm25":                         "8",
		"pm10":                         "15",
		"residuos_no_gestionados":      "0.1",
		"porcentaje_reciclaje":         "50",
		"porcentaje_transporte_limpio": "60",
	}

	_, err := p.ParseInputs(raw)
	var verr *pipeline.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "cobertura_arbolado_pct", verr.Field)
}

func TestParseInputs_BlankFieldRejected(t *testing.T) {
	p := newTestPipeline()

	raw := map[string]string{
		"ha_verdes_km2":                "30",
		"cobertura_arbolado_pct":       "45",
		"pm25":                         "8",
		"pm10":                         "15",
		"residuos_no_gestionados":      "  ",
		"porcentaje_reciclaje":         "50",
		"porcentaje_transporte_limpio": "60",
	}

	_, err := p.ParseInputs(raw)
	var verr *pipeline.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "residuos_no_gestionados", verr.Field)
}
