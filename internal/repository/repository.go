package repository

import (
	"context"

	"vspheremap/internal/domain"
)

// SnapshotStore persists inventory snapshots
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, snap *domain.Snapshot) error
	// LatestSnapshot returns nil, nil when nothing is stored
	LatestSnapshot(ctx context.Context) (*domain.Snapshot, error)
	GetSnapshot(ctx context.Context, id string) (*domain.Snapshot, error)
	ListSnapshots(ctx context.Context, limit int) ([]domain.SnapshotInfo, error)
	// PruneSnapshots keeps the newest keep snapshots and reports how many
	// were removed
	PruneSnapshots(ctx context.Context, keep int) (int64, error)
}

// CollectionLog records collection attempts
type CollectionLog interface {
	RecordCollection(ctx context.Context, run domain.CollectionRun) error
	ListCollections(ctx context.Context, limit int) ([]domain.CollectionRun, error)
}

// Repository defines the interface for inventory data access
type Repository interface {
	SnapshotStore
	CollectionLog

	// Close releases resources
	Close() error
}
