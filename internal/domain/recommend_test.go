package domain

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func healthyVector() FeatureVector {
	return FeatureVector{
		GreenAreaKm2:      30,
		TreeCoverPct:      45,
		PM25:              8,
		PM10:              15,
		UnmanagedWaste:    0.1,
		RecyclingPct:      50,
		CleanTransportPct: 60,
	}
}

func TestRecommend_ScoreMessageAlwaysFirst(t *testing.T) {
	tests := []struct {
		score float64
		want  Severity
	}{
		{100, SeverityCritico},
		{250, SeverityModerado},
		{400, SeverityBueno},
		{480, SeverityExcelente},
	}
	for _, tt := range tests {
		recs := Recommend(healthyVector(), tt.score)
		require.NotEmpty(t, recs)
		assert.Equal(t, tt.want, recs[0].Severity, "score %v", tt.score)
	}
}

func TestRecommend_HealthyInputsYieldOnlyScoreMessage(t *testing.T) {
	recs := Recommend(healthyVector(), 480)
	assert.Len(t, recs, 1)
}

func TestRecommend_DegradedInputsInCheckOrder(t *testing.T) {
	v := FeatureVector{
		GreenAreaKm2:      2,
		TreeCoverPct:      5,
		PM25:              55,
		PM10:              90,
		UnmanagedWaste:    1.2,
		RecyclingPct:      3,
		CleanTransportPct: 5,
	}

	recs := Recommend(v, -57.631)
	want := []Recommendation{
		{Text: "El ecosistema está en estado CRÍTICO. Se requiere intervención urgente.", Severity: SeverityCritico},
		{Text: "Muy pocas hectáreas verdes. Se recomienda ampliar zonas verdes.", Severity: SeverityCritico},
		{Text: "Cobertura arbórea muy baja. Urgente reforestación.", Severity: SeverityCritico},
		{Text: "PM2.5 extremadamente alto. Revisar fuentes de contaminación.", Severity: SeverityCritico},
		{Text: "PM10 elevado. Revisar fuentes de partículas.", Severity: SeverityModerado},
		{Text: "Muchos residuos sin gestionar. Mejorar manejo de basuras.", Severity: SeverityCritico},
		{Text: "Reciclaje muy bajo. Incrementarlo ayudaría mucho.", Severity: SeverityCritico},
		{Text: "Muy poco transporte limpio. Fomentar medios sostenibles.", Severity: SeverityCritico},
	}
	if diff := cmp.Diff(want, recs); diff != "" {
		t.Errorf("recommendations mismatch (-want +got):\n%s", diff)
	}
}

func TestRecommend_CriticalTierWinsOverModerate(t *testing.T) {
	v := healthyVector()
	v.GreenAreaKm2 = 2 // below both thresholds

	recs := Recommend(v, 480)
	require.Len(t, recs, 2)
	assert.Equal(t, SeverityCritico, recs[1].Severity)
	assert.Equal(t, "Muy pocas hectáreas verdes. Se recomienda ampliar zonas verdes.", recs[1].Text)
}

func TestRecommend_ModerateTier(t *testing.T) {
	v := healthyVector()
	v.RecyclingPct = 15 // moderate only

	recs := Recommend(v, 480)
	require.Len(t, recs, 2)
	assert.Equal(t, SeverityModerado, recs[1].Severity)
	assert.Equal(t, "Se puede mejorar el reciclaje.", recs[1].Text)
}

func TestRecommend_PM10HasNoCriticalTier(t *testing.T) {
	v := healthyVector()
	v.PM10 = 500

	recs := Recommend(v, 480)
	require.Len(t, recs, 2)
	assert.Equal(t, SeverityModerado, recs[1].Severity)
}
