package repository

import (
	"context"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"kinship-backend/internal/domain"
)

// ResilientStore wraps a Store with a circuit breaker around saves. A
// failing persistence backend must never block interactive use of the
// already-loaded graph, so once the breaker opens, saves fail fast and
// the session keeps going; loads pass through untouched because their
// fallback (a fresh default graph) lives in the service layer.
type ResilientStore struct {
	inner   Store
	breaker *gobreaker.CircuitBreaker
	logger  *zap.Logger
}

// NewResilientStore wraps the store with default breaker settings.
func NewResilientStore(inner Store, logger *zap.Logger) *ResilientStore {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "snapshot-save",
		MaxRequests: 3,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 5 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})
	return &ResilientStore{inner: inner, breaker: cb, logger: logger}
}

// LoadSnapshot delegates to the wrapped store.
func (s *ResilientStore) LoadSnapshot(ctx context.Context, userID string) (*domain.Snapshot, error) {
	return s.inner.LoadSnapshot(ctx, userID)
}

// SaveSnapshot delegates through the breaker.
func (s *ResilientStore) SaveSnapshot(ctx context.Context, userID string, snap *domain.Snapshot) error {
	_, err := s.breaker.Execute(func() (interface{}, error) {
		return nil, s.inner.SaveSnapshot(ctx, userID, snap)
	})
	return err
}
