package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"vspheremap/internal/domain"
)

// Timestamps are stored as fixed-width UTC text so that lexical order
// matches chronological order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid stored timestamp %q: %w", s, err)
	}
	return t, nil
}

// nullToString safely converts sql.NullString to string
func nullToString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

// stringToNull safely converts string to sql.NullString
func stringToNull(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// collectionRow holds all columns from a collections query for scanning
type collectionRow struct {
	ID         string
	Trigger    string
	Source     sql.NullString
	StartedAt  string
	FinishedAt string
	Status     string
	Message    sql.NullString
	SnapshotID sql.NullString
}

// scanArgs returns pointers to all fields for sql.Scan(). MUST match the
// column order of ListCollections.
func (r *collectionRow) scanArgs() []interface{} {
	return []interface{}{
		&r.ID,
		&r.Trigger,
		&r.Source,
		&r.StartedAt,
		&r.FinishedAt,
		&r.Status,
		&r.Message,
		&r.SnapshotID,
	}
}

func (r *collectionRow) toDomain() (domain.CollectionRun, error) {
	started, err := parseTime(r.StartedAt)
	if err != nil {
		return domain.CollectionRun{}, err
	}
	finished, err := parseTime(r.FinishedAt)
	if err != nil {
		return domain.CollectionRun{}, err
	}
	return domain.CollectionRun{
		ID:         r.ID,
		Trigger:    r.Trigger,
		Source:     nullToString(r.Source),
		StartedAt:  started,
		FinishedAt: finished,
		Status:     domain.CollectionState(r.Status),
		Message:    nullToString(r.Message),
		SnapshotID: nullToString(r.SnapshotID),
	}, nil
}
