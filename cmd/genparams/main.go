// Command genparams derives the serving artifacts from a raw training CSV:
// the normalization-parameter document (per-column minmax bounds) and the
// weighted-linear score artifact built from the same weights the offline
// labeler used. Deriving both in one place is what keeps training labels
// and served scores in agreement.
//
// Usage:
//
//	go run ./cmd/genparams \
//	  -csv data/bogota_raw.csv \
//	  -params-out artifacts/parametros_normalizados.json \
//	  -model-out artifacts/modelo_entrenado.json
package main

import (
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/ecowatch/ecoscore-service/internal/domain"
)

// ecoWeights are the per-feature contributions to the 0-500 score; they sum
// to 1. Features where more is worse enter inverted.
var ecoWeights = map[string]float64{
	domain.FeatureGreenArea:      0.18,
	domain.FeatureTreeCover:      0.15,
	domain.FeaturePM25:           0.22,
	domain.FeaturePM10:           0.08,
	domain.FeatureUnmanagedWaste: 0.12,
	domain.FeatureRecycling:      0.12,
	domain.FeatureCleanTransport: 0.13,
}

var invertedFeatures = map[string]bool{
	domain.FeaturePM25:           true,
	domain.FeaturePM10:           true,
	domain.FeatureUnmanagedWaste: true,
}

const scoreScale = 500

type modelArtifact struct {
	Model        string             `json:"model"`
	Intercept    float64            `json:"intercept"`
	Coefficients map[string]float64 `json:"coefficients"`
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	csvPath := flag.String("csv", "", "raw training data CSV")
	paramsOut := flag.String("params-out", "artifacts/parametros_normalizados.json", "output path for the normalization-parameter document")
	modelOut := flag.String("model-out", "artifacts/modelo_entrenado.json", "output path for the model artifact")
	flag.Parse()

	if *csvPath == "" {
		flag.Usage()
		return fmt.Errorf("-csv is required")
	}

	columns, err := readColumns(*csvPath)
	if err != nil {
		return err
	}

	params := domain.NormalizationParams{
		Method:  domain.MethodMinMax,
		Columns: make(map[string]domain.Bounds, domain.FeatureCount),
	}
	for _, name := range domain.FeatureOrder {
		vals := columns[name]
		if len(vals) == 0 {
			return fmt.Errorf("column %q missing or empty in %s", name, *csvPath)
		}
		lo, hi := minMax(vals)
		params.Columns[name] = domain.Bounds{VMin: &lo, VMax: &hi}
	}

	if err := writeJSON(*paramsOut, params); err != nil {
		return err
	}
	if err := writeJSON(*modelOut, buildModel()); err != nil {
		return err
	}

	fmt.Printf("wrote %s and %s\n", *paramsOut, *modelOut)
	return nil
}

// buildModel expands the eco weights into a linear artifact over normalized
// features: direct features contribute w*500*x, inverted ones w*500*(1-x).
func buildModel() modelArtifact {
	m := modelArtifact{Model: "linear", Coefficients: make(map[string]float64, domain.FeatureCount)}
	for _, name := range domain.FeatureOrder {
		w := ecoWeights[name] * scoreScale
		if invertedFeatures[name] {
			m.Intercept += w
			m.Coefficients[name] = -w
		} else {
			m.Coefficients[name] = w
		}
	}
	return m
}

// readColumns loads the feature columns by header name. Values using a
// decimal comma are accepted; blank or unparsable cells are skipped, as the
// offline preprocessor imputed them rather than failing.
func readColumns(path string) (map[string][]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open training csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}

	columns := make(map[string][]float64, domain.FeatureCount)
	for {
		record, err := r.Read()
		if err != nil {
			break
		}
		for _, name := range domain.FeatureOrder {
			i, ok := index[name]
			if !ok || i >= len(record) {
				continue
			}
			cell := strings.ReplaceAll(strings.TrimSpace(record[i]), ",", ".")
			if cell == "" {
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil || math.IsNaN(v) {
				continue
			}
			columns[name] = append(columns[name], v)
		}
	}
	return columns, nil
}

func minMax(vals []float64) (lo, hi float64) {
	lo, hi = vals[0], vals[0]
	for _, v := range vals[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
