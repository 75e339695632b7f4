package events

import (
	"context"
	"log/slog"

	"github.com/ecowatch/ecoscore-service/internal/domain"
	"github.com/ecowatch/ecoscore-service/internal/store"
)

// PublishingStore decorates a Store, emitting each saved prediction to the
// feed. Publish failures are logged, not returned: the row is already
// durable and the feed is best-effort.
type PublishingStore struct {
	store.Store
	publisher *Publisher
	logger    *slog.Logger
}

// NewPublishingStore wraps inner so every successful Save is also published.
func NewPublishingStore(inner store.Store, publisher *Publisher, logger *slog.Logger) *PublishingStore {
	return &PublishingStore{Store: inner, publisher: publisher, logger: logger}
}

func (s *PublishingStore) Save(ctx context.Context, p domain.Prediction) (domain.Prediction, error) {
	saved, err := s.Store.Save(ctx, p)
	if err != nil {
		return saved, err
	}
	if err := s.publisher.Publish(ctx, saved); err != nil {
		s.logger.Warn("prediction event publish failed", "error", err, "id", saved.ID)
	}
	return saved, nil
}
