package adapter

import (
	"context"

	"vspheremap/internal/domain"
)

// CollectorType defines how a collector reaches its inventory source
type CollectorType string

const (
	// CollectorTypeFile reads an export written by an external collector
	CollectorTypeFile CollectorType = "file"
)

// Collector produces inventory snapshots
type Collector interface {
	// Name identifies the collector in logs and collection records
	Name() string

	// Type returns how this collector reaches its source
	Type() CollectorType

	// Collect captures a fresh snapshot. It returns domain.ErrEmptyCollection
	// when the source holds no inventory.
	Collect(ctx context.Context) (*domain.Snapshot, error)
}

// Refresher runs a collection on behalf of a trigger such as the scheduler
// or the file watcher
type Refresher interface {
	Refresh(ctx context.Context, trigger string) error
}

// Triggers recorded with collection runs
const (
	TriggerStartup   = "startup"
	TriggerScheduled = "scheduled"
	TriggerWatch     = "watch"
	TriggerAPI       = "api"
	TriggerManual    = "manual"
)

// CollectorInfo provides read-only information about a collector
type CollectorInfo struct {
	Name         string        `json:"name"`
	Type         CollectorType `json:"type"`
	PollInterval string        `json:"poll_interval,omitempty"`
}
