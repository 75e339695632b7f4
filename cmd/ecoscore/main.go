package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"

	"github.com/ecowatch/ecoscore-service/internal/adapter/events"
	"github.com/ecowatch/ecoscore-service/internal/adapter/httpapi"
	"github.com/ecowatch/ecoscore-service/internal/config"
	"github.com/ecowatch/ecoscore-service/internal/domain"
	"github.com/ecowatch/ecoscore-service/internal/observability"
	"github.com/ecowatch/ecoscore-service/internal/pipeline"
	"github.com/ecowatch/ecoscore-service/internal/simulator"
	"github.com/ecowatch/ecoscore-service/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	// The model and the training-time normalization bounds are required to
	// serve at all; refuse to start without them.
	params, err := domain.LoadParams(cfg.ParamsPath)
	if err != nil {
		logger.Error("failed to load normalization params", "error", err, "path", cfg.ParamsPath)
		os.Exit(1)
	}
	model, err := domain.LoadLinearModel(cfg.ModelPath)
	if err != nil {
		logger.Error("failed to load model artifact", "error", err, "path", cfg.ModelPath)
		os.Exit(1)
	}

	st, err := store.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		logger.Error("failed to open store", "error", err, "driver", cfg.DBDriver)
		os.Exit(1)
	}

	// Prediction event feed (feature-flagged via KAFKA_BROKERS / KAFKA_ENABLED).
	var predictionStore store.Store = st
	var publisher *events.Publisher
	if cfg.KafkaEnabled {
		publisher = events.NewPublisher(cfg, logger, metrics)
		predictionStore = events.NewPublishingStore(st, publisher, logger)
		logger.Info("prediction event feed enabled", "topic", cfg.KafkaTopic)
	} else {
		logger.Info("prediction event feed disabled")
	}

	p := pipeline.New(params, model, logger, metrics)
	srv := httpapi.NewServer(cfg.HTTPAddr, p, predictionStore, logger, metrics, cfg.APIDefaultLimit)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	if cfg.SimulatorEnabled {
		sim := simulator.New(p, predictionStore, logger, metrics, clockwork.NewRealClock(), cfg.SimulatorInterval)
		go func() {
			if err := sim.Run(ctx); err != nil {
				logger.Error("simulator error", "error", err)
			}
		}()
	}

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if publisher != nil {
		if err := publisher.Close(); err != nil {
			logger.Error("event publisher close error", "error", err)
		}
	}
	if err := st.Close(); err != nil {
		logger.Error("store close error", "error", err)
	}

	logger.Info("shutdown complete")
}
