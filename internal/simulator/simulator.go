// Package simulator feeds the prediction pipeline with synthetic sensor
// readings so the history endpoints have data even without user
// submissions.
package simulator

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/ecowatch/ecoscore-service/internal/domain"
	"github.com/ecowatch/ecoscore-service/internal/observability"
	"github.com/ecowatch/ecoscore-service/internal/pipeline"
	"github.com/ecowatch/ecoscore-service/internal/store"
)

// featureRange bounds the uniform noise for one synthetic feature. The
// ranges are deliberately wider than typical form inputs so the feed
// resembles real sensor drift.
type featureRange struct {
	lo, hi float64
}

// sensorRanges follow FeatureOrder.
var sensorRanges = [domain.FeatureCount]featureRange{
	{5, 35},   // green-space km²
	{10, 45},  // tree cover %
	{10, 50},  // pm25
	{20, 90},  // pm10
	{0.2, 1},  // unmanaged-waste ratio
	{5, 50},   // recycling %
	{10, 60},  // clean-transport %
}

// Simulator periodically synthesizes a reading, scores it through the
// shared pipeline, and appends the result to the store. A failed tick is
// logged and retried on the next interval, never immediately; the loop
// stops only when its context is cancelled.
type Simulator struct {
	pipeline *pipeline.Pipeline
	store    store.Store
	logger   *slog.Logger
	metrics  *observability.Metrics
	clock    clockwork.Clock
	interval time.Duration
	rng      *rand.Rand
}

// New creates a Simulator ticking at the given interval on the given clock.
func New(p *pipeline.Pipeline, st store.Store, logger *slog.Logger, metrics *observability.Metrics, clock clockwork.Clock, interval time.Duration) *Simulator {
	return &Simulator{
		pipeline: p,
		store:    st,
		logger:   logger,
		metrics:  metrics,
		clock:    clock,
		interval: interval,
		rng:      rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
}

// Run executes the tick loop until ctx is cancelled. The first reading is
// scored immediately so a fresh deployment has data before the first
// interval elapses.
func (s *Simulator) Run(ctx context.Context) error {
	s.logger.Info("simulator started", "interval", s.interval)
	s.metrics.SimulatorRunning.Set(1)
	defer s.metrics.SimulatorRunning.Set(0)

	ticker := s.clock.NewTicker(s.interval)
	defer ticker.Stop()

	s.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("simulator stopping", "reason", ctx.Err())
			return nil
		case <-ticker.Chan():
			s.tick(ctx)
		}
	}
}

func (s *Simulator) tick(ctx context.Context) {
	s.metrics.SimulatorTicks.Inc()

	reading := s.synthesize()
	score := s.pipeline.Score(reading)
	s.metrics.PredictionsTotal.WithLabelValues("simulator").Inc()

	if _, err := s.store.Save(ctx, domain.NewPrediction(reading, score)); err != nil {
		// Liveness over single-tick durability: drop the reading and keep
		// the feed alive.
		s.logger.Error("simulator save failed", "error", err)
		s.metrics.SimulatorErrors.Inc()
		s.metrics.PersistenceErrors.Inc()
		return
	}

	s.logger.Info("synthetic reading scored", "ecoscore", score)
}

// synthesize samples each feature uniformly from its sensor range.
func (s *Simulator) synthesize() domain.FeatureVector {
	var vals [domain.FeatureCount]float64
	for i, r := range sensorRanges {
		vals[i] = r.lo + s.rng.Float64()*(r.hi-r.lo)
	}
	return domain.VectorFromValues(vals)
}
