// Package domain models municipal environmental readings and the scoring
// rules derived from them.
//
// # Features
//
// A reading consists of seven indicators, always handled in the same order:
//
//	ha_verdes_km2                 green-space area (km²)
//	cobertura_arbolado_pct        tree cover (%)
//	pm25                          fine particulate matter (µg/m³)
//	pm10                          coarse particulate matter (µg/m³)
//	residuos_no_gestionados       unmanaged-waste ratio (0–1)
//	porcentaje_reciclaje          recycling rate (%)
//	porcentaje_transporte_limpio  clean-transport rate (%)
//
// The order is load-bearing: the regression model consumes a positional
// vector and performs no validation of its own, so every serialization into
// it goes through [FeatureVector.Values].
//
// # Scoring
//
// Raw readings are rescaled to [0,1] with the bounds recorded by the offline
// preprocessor ([NormalizationParams]), fed to the trained model behind the
// [Predictor] interface, and classified into four categories. The category
// boundaries (200/350/450) are the same ones the offline labeler used to
// derive ecoscores from historical data; online and offline must not drift
// apart or the model serves labels it was never trained on.
//
// # Recommendations
//
// Advisory texts are generated from the score and the raw (not normalized)
// readings. Output order is stable: one score-level message first, then
// per-feature advisories in feature order, at most one per feature.
package domain
