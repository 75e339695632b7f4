package domain

import (
	"encoding/json"
	"fmt"
	"os"
)

// Predictor wraps the externally trained regression model. The input vector
// must already be normalized and in FeatureOrder; the model has no input
// validation of its own, so this interface is the only guard.
type Predictor interface {
	Predict(normalized [FeatureCount]float64) float64
}

// LinearModel is the shipped Predictor implementation: a weighted-linear
// artifact produced by cmd/genparams from the same weights the offline
// labeler used. Other model formats can replace it behind the Predictor
// interface without touching the pipeline.
type LinearModel struct {
	Intercept    float64
	Coefficients [FeatureCount]float64
}

// linearArtifact is the on-disk JSON form of LinearModel. Coefficients are
// keyed by feature name so a reordered document cannot reorder the model.
type linearArtifact struct {
	Model        string             `json:"model"`
	Intercept    float64            `json:"intercept"`
	Coefficients map[string]float64 `json:"coefficients"`
}

// LoadLinearModel reads a regression artifact from disk. Any failure is
// fatal at startup: the service cannot score without its model.
func LoadLinearModel(path string) (*LinearModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model artifact: %w", err)
	}
	var a linearArtifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("parse model artifact: %w", err)
	}
	if a.Model != "" && a.Model != "linear" {
		return nil, fmt.Errorf("unsupported model type %q", a.Model)
	}
	m := &LinearModel{Intercept: a.Intercept}
	for i, name := range FeatureOrder {
		coef, ok := a.Coefficients[name]
		if !ok {
			return nil, fmt.Errorf("model artifact missing coefficient for %q", name)
		}
		m.Coefficients[i] = coef
	}
	return m, nil
}

// Predict evaluates the linear model over a normalized vector.
func (m *LinearModel) Predict(normalized [FeatureCount]float64) float64 {
	score := m.Intercept
	for i, x := range normalized {
		score += m.Coefficients[i] * x
	}
	return score
}
