package domain

// FeatureCount is the number of indicators the regression model consumes.
const FeatureCount = 7

// Feature names as they appear on the submission form, in the JSON API, and
// in the normalization-parameter document.
const (
	FeatureGreenArea      = "ha_verdes_km2"
	FeatureTreeCover      = "cobertura_arbolado_pct"
	FeaturePM25           = "pm25"
	FeaturePM10           = "pm10"
	FeatureUnmanagedWaste = "residuos_no_gestionados"
	FeatureRecycling      = "porcentaje_reciclaje"
	FeatureCleanTransport = "porcentaje_transporte_limpio"
)

// FeatureOrder is the fixed column order the model was trained with.
var FeatureOrder = [FeatureCount]string{
	FeatureGreenArea,
	FeatureTreeCover,
	FeaturePM25,
	FeaturePM10,
	FeatureUnmanagedWaste,
	FeatureRecycling,
	FeatureCleanTransport,
}

// FeatureVector holds one reading of the seven environmental indicators.
// A named struct rather than a map, so the serialization boundary into the
// order-sensitive model cannot be scrambled by a stray key.
type FeatureVector struct {
	GreenAreaKm2      float64 `json:"ha_verdes_km2"`
	TreeCoverPct      float64 `json:"cobertura_arbolado_pct"`
	PM25              float64 `json:"pm25"`
	PM10              float64 `json:"pm10"`
	UnmanagedWaste    float64 `json:"residuos_no_gestionados"`
	RecyclingPct      float64 `json:"porcentaje_reciclaje"`
	CleanTransportPct float64 `json:"porcentaje_transporte_limpio"`
}

// Values returns the reading in the fixed feature order.
func (v FeatureVector) Values() [FeatureCount]float64 {
	return [FeatureCount]float64{
		v.GreenAreaKm2,
		v.TreeCoverPct,
		v.PM25,
		v.PM10,
		v.UnmanagedWaste,
		v.RecyclingPct,
		v.CleanTransportPct,
	}
}

// VectorFromValues builds a FeatureVector from values in feature order.
func VectorFromValues(vals [FeatureCount]float64) FeatureVector {
	return FeatureVector{
		GreenAreaKm2:      vals[0],
		TreeCoverPct:      vals[1],
		PM25:              vals[2],
		PM10:              vals[3],
		UnmanagedWaste:    vals[4],
		RecyclingPct:      vals[5],
		CleanTransportPct: vals[6],
	}
}
