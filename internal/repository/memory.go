package repository

import (
	"context"
	"sync"

	"kinship-backend/internal/domain"
)

// MemoryStore is an in-memory Store used in tests and local runs.
// Snapshots are deep-copied on the way in and out so callers never
// share mutable state with the store.
type MemoryStore struct {
	mu        sync.RWMutex
	snapshots map[string]*domain.Snapshot
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snapshots: make(map[string]*domain.Snapshot)}
}

// LoadSnapshot returns the user's snapshot or ErrSnapshotNotFound.
func (s *MemoryStore) LoadSnapshot(ctx context.Context, userID string) (*domain.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.snapshots[userID]
	if !ok {
		return nil, ErrSnapshotNotFound
	}
	return snap.Clone(), nil
}

// SaveSnapshot stores a copy of the snapshot for the user.
func (s *MemoryStore) SaveSnapshot(ctx context.Context, userID string, snap *domain.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshots[userID] = snap.Clone()
	return nil
}
