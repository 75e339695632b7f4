package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// scoring service.
type Metrics struct {
	PredictionsTotal       *prometheus.CounterVec // labels: source={http,simulator}
	PredictionErrors       prometheus.Counter
	NormalizationFallbacks *prometheus.CounterVec // labels: feature
	PredictionDuration     prometheus.Histogram
	LastEcoscore           prometheus.Gauge

	SimulatorRunning prometheus.Gauge
	SimulatorTicks   prometheus.Counter
	SimulatorErrors  prometheus.Counter

	PersistenceErrors prometheus.Counter
	EventsPublished   prometheus.Counter
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		PredictionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ecoscore",
			Name:      "predictions_total",
			Help:      "Total pipeline evaluations by source.",
		}, []string{"source"}),
		PredictionErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ecoscore",
			Name:      "prediction_errors_total",
			Help:      "Total rejected submissions (missing or non-numeric fields).",
		}),
		NormalizationFallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ecoscore",
			Name:      "normalization_fallbacks_total",
			Help:      "Neutral-value fallbacks caused by absent or degenerate bounds.",
		}, []string{"feature"}),
		PredictionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "ecoscore",
			Name:      "prediction_duration_seconds",
			Help:      "Duration of one normalize-predict cycle.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}),
		LastEcoscore: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "ecoscore",
			Name:      "last_ecoscore",
			Help:      "Most recently computed ecoscore.",
		}),
		SimulatorRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "ecoscore",
			Name:      "simulator_running",
			Help:      "1 when the sensor simulator loop is active, 0 when stopped.",
		}),
		SimulatorTicks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ecoscore",
			Name:      "simulator_ticks_total",
			Help:      "Total synthetic readings generated.",
		}),
		SimulatorErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ecoscore",
			Name:      "simulator_errors_total",
			Help:      "Simulator ticks that failed to persist.",
		}),
		PersistenceErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ecoscore",
			Name:      "persistence_errors_total",
			Help:      "Failed prediction writes across all sources.",
		}),
		EventsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ecoscore",
			Name:      "events_published_total",
			Help:      "Predictions published to the event feed.",
		}),
	}

	prometheus.MustRegister(
		m.PredictionsTotal,
		m.PredictionErrors,
		m.NormalizationFallbacks,
		m.PredictionDuration,
		m.LastEcoscore,
		m.SimulatorRunning,
		m.SimulatorTicks,
		m.SimulatorErrors,
		m.PersistenceErrors,
		m.EventsPublished,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		PredictionsTotal:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "ecoscore", Name: "predictions_total"}, []string{"source"}),
		PredictionErrors:       prometheus.NewCounter(prometheus.CounterOpts{Namespace: "ecoscore", Name: "prediction_errors_total"}),
		NormalizationFallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "ecoscore", Name: "normalization_fallbacks_total"}, []string{"feature"}),
		PredictionDuration:     prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "ecoscore", Name: "prediction_duration_seconds"}),
		LastEcoscore:           prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "ecoscore", Name: "last_ecoscore"}),
		SimulatorRunning:       prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "ecoscore", Name: "simulator_running"}),
		SimulatorTicks:         prometheus.NewCounter(prometheus.CounterOpts{Namespace: "ecoscore", Name: "simulator_ticks_total"}),
		SimulatorErrors:        prometheus.NewCounter(prometheus.CounterOpts{Namespace: "ecoscore", Name: "simulator_errors_total"}),
		PersistenceErrors:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: "ecoscore", Name: "persistence_errors_total"}),
		EventsPublished:        prometheus.NewCounter(prometheus.CounterOpts{Namespace: "ecoscore", Name: "events_published_total"}),
	}
}
