package domain

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const artifactDoc = `{
  "model": "linear",
  "intercept": 210,
  "coefficients": {
    "ha_verdes_km2": 90,
    "cobertura_arbolado_pct": 75,
    "pm25": -110,
    "pm10": -40,
    "residuos_no_gestionados": -60,
    "porcentaje_reciclaje": 60,
    "porcentaje_transporte_limpio": 65
  }
}`

func writeArtifact(t *testing.T, doc string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	return path
}

func TestLoadLinearModel(t *testing.T) {
	m, err := LoadLinearModel(writeArtifact(t, artifactDoc))
	require.NoError(t, err)

	assert.Equal(t, 210.0, m.Intercept)
	assert.Equal(t, [FeatureCount]float64{90, 75, -110, -40, -60, 60, 65}, m.Coefficients)
}

func TestLoadLinearModel_CoefficientsBindByName(t *testing.T) {
	// The document lists coefficients out of feature order; loading must
	// still place each one at its feature's position.
	doc := `{
	  "model": "linear",
	  "intercept": 1,
	  "coefficients": {
	    "porcentaje_transporte_limpio": 65,
	    "pm25": -110,
	    "ha_verdes_km2": 90,
	    "cobertura_arbolado_pct": 75,
	    "pm10": -40,
	    "porcentaje_reciclaje": 60,
	    "residuos_no_gestionados": -60
	  }
	}`
	m, err := LoadLinearModel(writeArtifact(t, doc))
	require.NoError(t, err)
	assert.Equal(t, [FeatureCount]float64{90, 75, -110, -40, -60, 60, 65}, m.Coefficients)
}

func TestLoadLinearModel_Errors(t *testing.T) {
	_, err := LoadLinearModel(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	_, err = LoadLinearModel(writeArtifact(t, `{broken`))
	assert.Error(t, err)

	_, err = LoadLinearModel(writeArtifact(t, `{"model":"forest","coefficients":{}}`))
	assert.ErrorContains(t, err, "unsupported model type")

	_, err = LoadLinearModel(writeArtifact(t, `{"model":"linear","coefficients":{"pm25":-110}}`))
	assert.ErrorContains(t, err, "missing coefficient")
}

func TestLinearModel_Predict(t *testing.T) {
	m := &LinearModel{Intercept: 10, Coefficients: [FeatureCount]float64{1, 2, 3, 4, 5, 6, 7}}

	got := m.Predict([FeatureCount]float64{1, 1, 1, 1, 1, 1, 1})
	assert.InDelta(t, 38.0, got, 1e-9)

	got = m.Predict([FeatureCount]float64{})
	assert.InDelta(t, 10.0, got, 1e-9)
}

func TestLinearModel_PredictIsOrderSensitive(t *testing.T) {
	m := &LinearModel{Coefficients: [FeatureCount]float64{1, -1, 0, 0, 0, 0, 0}}

	a := m.Predict([FeatureCount]float64{0.9, 0.1})
	b := m.Predict([FeatureCount]float64{0.1, 0.9})
	assert.NotEqual(t, a, b)
}
