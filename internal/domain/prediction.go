package domain

import "time"

// Prediction is the persisted result of one pipeline run. Records are
// append-only; the core never updates or deletes them.
type Prediction struct {
	ID        int64         `json:"id"`
	Inputs    FeatureVector `json:"inputs"`
	Ecoscore  float64       `json:"ecoscore"`
	Timestamp time.Time     `json:"timestamp"`
}

// NewPrediction stamps a scored reading with the current time.
func NewPrediction(inputs FeatureVector, score float64) Prediction {
	return Prediction{
		Inputs:    inputs,
		Ecoscore:  score,
		Timestamp: clock.Now(),
	}
}
