package domain

import "time"

// CollectionRun records one collection attempt
type CollectionRun struct {
	ID         string          `json:"id"`
	Trigger    string          `json:"trigger"`
	Source     string          `json:"source"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt time.Time       `json:"finished_at"`
	Status     CollectionState `json:"status"`
	Message    string          `json:"message"`
	SnapshotID string          `json:"snapshot_id,omitempty"`
}

// Duration returns how long the run took
func (r CollectionRun) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// SnapshotInfo summarizes a persisted snapshot without its payload
type SnapshotInfo struct {
	ID          string    `json:"id"`
	CollectedAt time.Time `json:"collected_at"`
	Source      string    `json:"source"`
	VMCount     int       `json:"vm_count"`
	HostCount   int       `json:"host_count"`
}

// Info summarizes the snapshot
func (s *Snapshot) Info() SnapshotInfo {
	return SnapshotInfo{
		ID:          s.ID,
		CollectedAt: s.CollectedAt,
		Source:      s.Source,
		VMCount:     len(s.VMs),
		HostCount:   len(s.AllHosts()),
	}
}

// CollectionState is the outcome of the last collection attempt
type CollectionState string

const (
	CollectionNotRun    CollectionState = "Not yet run"
	CollectionSuccess   CollectionState = "Success"
	CollectionFailed    CollectionState = "Failed"
	CollectionException CollectionState = "Failed (Exception)"
)

// CollectionStatus is the status record exposed unchanged to status callers
type CollectionStatus struct {
	LastTimestamp *time.Time      `json:"last_collection_timestamp_utc"`
	LastStatus    CollectionState `json:"last_collection_status"`
	LastMessage   string          `json:"last_collection_message"`
	Collecting    bool            `json:"is_currently_collecting"`
	SnapshotID    string          `json:"snapshot_id,omitempty"`
}
