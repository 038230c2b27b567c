package service

import (
	"sync"
	"sync/atomic"
	"time"

	"vspheremap/internal/domain"
)

// Store holds the snapshot currently served and the status of the last
// collection. The snapshot is replaced wholesale; readers capture the
// pointer once and never observe a partial update.
type Store struct {
	snapshot   atomic.Pointer[domain.Snapshot]
	collecting atomic.Bool

	mu     sync.RWMutex
	status domain.CollectionStatus
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		status: domain.CollectionStatus{
			LastStatus:  domain.CollectionNotRun,
			LastMessage: "Data collection has not run yet.",
		},
	}
}

// Snapshot returns the current snapshot or ErrUnavailable before one has
// been published
func (s *Store) Snapshot() (*domain.Snapshot, error) {
	snap := s.snapshot.Load()
	if snap == nil {
		return nil, domain.ErrUnavailable
	}
	return snap, nil
}

// Swap publishes snap and returns the snapshot it replaced
func (s *Store) Swap(snap *domain.Snapshot) *domain.Snapshot {
	return s.snapshot.Swap(snap)
}

// TryBeginCollection marks a collection as running. It returns false when
// one is already in flight.
func (s *Store) TryBeginCollection() bool {
	return s.collecting.CompareAndSwap(false, true)
}

// EndCollection clears the running mark
func (s *Store) EndCollection() {
	s.collecting.Store(false)
}

// Collecting reports whether a collection is in flight
func (s *Store) Collecting() bool {
	return s.collecting.Load()
}

// RecordOutcome stores the result of a collection attempt. The timestamp
// only moves on success.
func (s *Store) RecordOutcome(state domain.CollectionState, message string, at time.Time, snapshotID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status.LastStatus = state
	s.status.LastMessage = message
	if state == domain.CollectionSuccess {
		ts := at.UTC()
		s.status.LastTimestamp = &ts
		s.status.SnapshotID = snapshotID
	}
}

// Status returns a copy of the status record
func (s *Store) Status() domain.CollectionStatus {
	s.mu.RLock()
	status := s.status
	s.mu.RUnlock()

	if status.LastTimestamp != nil {
		ts := *status.LastTimestamp
		status.LastTimestamp = &ts
	}
	status.Collecting = s.collecting.Load()
	return status
}
