// Package events publishes saved predictions to a Kafka feed. The feed is
// optional: when no brokers are configured the service runs with the store
// undecorated.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/ecowatch/ecoscore-service/internal/config"
	"github.com/ecowatch/ecoscore-service/internal/domain"
	"github.com/ecowatch/ecoscore-service/internal/observability"
)

// Publisher produces prediction events to the configured topic.
type Publisher struct {
	writer  *kafkago.Writer
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewPublisher creates a Kafka producer for the prediction feed.
func NewPublisher(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireOne,
	}
	return &Publisher{writer: w, logger: logger, metrics: metrics}
}

// Publish serializes one saved prediction and writes it to the feed.
func (p *Publisher) Publish(ctx context.Context, pred domain.Prediction) error {
	msg, err := serializeToMessage(pred)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return err
	}
	p.metrics.EventsPublished.Inc()
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeToMessage marshals a Prediction into a Kafka message keyed by
// its row ID.
func serializeToMessage(pred domain.Prediction) (kafkago.Message, error) {
	data, err := json.Marshal(pred)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize prediction: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(strconv.FormatInt(pred.ID, 10)),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "ecoscore", Value: []byte(strconv.FormatFloat(pred.Ecoscore, 'f', 3, 64))},
			{Key: "created_at", Value: []byte(pred.Timestamp.Format(time.RFC3339))},
		},
	}, nil
}
