// Package repository persists per-user graph snapshots. The core only
// ever exchanges a plain snapshot through the Store interface; what
// backs it (memory for tests and local runs, DynamoDB in deployment)
// stays behind this boundary.
package repository

import (
	"context"
	"errors"

	"kinship-backend/internal/domain"
)

// ErrSnapshotNotFound signals that no graph has been saved for the user
// yet. Callers initialize a fresh default graph in that case.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// Store loads and saves one self-consistent snapshot per user.
type Store interface {
	LoadSnapshot(ctx context.Context, userID string) (*domain.Snapshot, error)
	SaveSnapshot(ctx context.Context, userID string, snap *domain.Snapshot) error
}
