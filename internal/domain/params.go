package domain

import (
	"encoding/json"
	"fmt"
	"os"
)

// Normalization methods the offline preprocessor may record.
const (
	MethodMinMax     = "minmax"
	MethodPercentile = "percentile"
)

// neutralValue is used when a feature has no usable bounds. It sits in the
// middle of the normalized range so a broken column never drags the score
// toward either extreme.
const neutralValue = 0.5

// Bounds holds the per-feature scaling parameters recorded at training
// time. minmax uses VMin/VMax, percentile uses PLow/PHigh. Pointers
// distinguish an absent bound from a zero one.
type Bounds struct {
	VMin  *float64 `json:"vmin,omitempty"`
	VMax  *float64 `json:"vmax,omitempty"`
	PLow  *float64 `json:"p_low,omitempty"`
	PHigh *float64 `json:"p_high,omitempty"`
}

// NormalizationParams is the parameter store produced once by offline
// preprocessing. It is loaded at startup and never mutated, so concurrent
// reads from handlers and the simulator need no synchronization.
//
// Online serving must use exactly these bounds: normalizing with anything
// else produces a plausible-looking but wrong score.
type NormalizationParams struct {
	Method  string            `json:"method"`
	Columns map[string]Bounds `json:"columns"`
}

// LoadParams reads the normalization-parameter document. A missing or
// malformed file is a startup error, not a per-request one.
func LoadParams(path string) (*NormalizationParams, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read normalization params: %w", err)
	}
	var p NormalizationParams
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse normalization params: %w", err)
	}
	if p.Method == "" {
		p.Method = MethodMinMax
	}
	if p.Method != MethodMinMax && p.Method != MethodPercentile {
		return nil, fmt.Errorf("unknown normalization method %q", p.Method)
	}
	return &p, nil
}

// NormalizeFeature maps a raw reading into [0,1] using the stored bounds
// for the named feature. The second return reports whether the neutral
// fallback was used because bounds were absent or degenerate; callers log
// that as a data-quality warning.
func (p *NormalizationParams) NormalizeFeature(name string, x float64) (float64, bool) {
	b := p.Columns[name]
	if p.Method == MethodPercentile {
		return applyPercentile(x, b.PLow, b.PHigh)
	}
	return applyMinMax(x, b.VMin, b.VMax)
}

func applyMinMax(x float64, vmin, vmax *float64) (float64, bool) {
	if vmin == nil || vmax == nil || *vmax == *vmin {
		return neutralValue, true
	}
	return (x - *vmin) / (*vmax - *vmin), false
}

// applyPercentile clips to [p_low, p_high] before rescaling: readings
// beyond the recorded percentiles saturate at 0 or 1 instead of
// extrapolating.
func applyPercentile(x float64, pLow, pHigh *float64) (float64, bool) {
	if pLow == nil || pHigh == nil || *pHigh == *pLow {
		return neutralValue, true
	}
	switch {
	case x <= *pLow:
		return 0, false
	case x >= *pHigh:
		return 1, false
	}
	return (x - *pLow) / (*pHigh - *pLow), false
}
