// Package store persists predictions behind a driver-agnostic SQL store.
package store

import (
	"context"

	"github.com/ecowatch/ecoscore-service/internal/domain"
)

// Store is the append-only persistence boundary for predictions.
type Store interface {
	// Save inserts a prediction and returns it with its assigned ID.
	Save(ctx context.Context, p domain.Prediction) (domain.Prediction, error)
	// Latest returns up to limit predictions, most recent first.
	Latest(ctx context.Context, limit int) ([]domain.Prediction, error)
	// Last returns the most recent prediction; ok is false when the store
	// is empty.
	Last(ctx context.Context) (p domain.Prediction, ok bool, err error)
	Ping(ctx context.Context) error
	Close() error
}
