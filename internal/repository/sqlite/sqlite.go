// Package sqlite persists inventory snapshots and the collection history.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"vspheremap/internal/domain"
	"vspheremap/internal/repository"

	_ "modernc.org/sqlite"
)

var _ repository.Repository = (*Repository)(nil)

// Repository stores snapshots and collection runs in SQLite
type Repository struct {
	db *sql.DB
}

// New creates a new SQLite repository. ":memory:" opens a private
// in-memory database.
func New(dbPath string) (*Repository, error) {
	dsn := dbPath
	if dbPath != ":memory:" {
		sep := "?"
		if strings.Contains(dbPath, "?") {
			sep = "&"
		}
		dsn = dbPath + sep + "_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		// every connection would otherwise see its own empty database
		db.SetMaxOpenConns(1)
	}

	repo := &Repository{db: db}
	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return repo, nil
}

// Close closes the database
func (r *Repository) Close() error {
	return r.db.Close()
}

func (r *Repository) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS snapshots (
		id TEXT PRIMARY KEY,
		collected_at TEXT NOT NULL,
		source TEXT,
		vm_count INTEGER NOT NULL DEFAULT 0,
		host_count INTEGER NOT NULL DEFAULT 0,
		data JSON NOT NULL
	);

	CREATE TABLE IF NOT EXISTS collections (
		id TEXT PRIMARY KEY,
		triggered_by TEXT NOT NULL,
		source TEXT,
		started_at TEXT NOT NULL,
		finished_at TEXT NOT NULL,
		status TEXT NOT NULL,
		message TEXT,
		snapshot_id TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_snapshots_collected ON snapshots(collected_at);
	CREATE INDEX IF NOT EXISTS idx_collections_started ON collections(started_at);
	`

	_, err := r.db.Exec(schema)
	return err
}

// SaveSnapshot stores snap, replacing any snapshot with the same id
func (r *Repository) SaveSnapshot(ctx context.Context, snap *domain.Snapshot) error {
	if snap == nil || snap.ID == "" {
		return fmt.Errorf("snapshot id is required")
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	info := snap.Info()
	_, err = r.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO snapshots (id, collected_at, source, vm_count, host_count, data)
		VALUES (?, ?, ?, ?, ?, ?)
	`, info.ID, formatTime(info.CollectedAt), stringToNull(info.Source), info.VMCount, info.HostCount, string(data))
	if err != nil {
		return fmt.Errorf("failed to insert snapshot: %w", err)
	}
	return nil
}

// LatestSnapshot returns the most recently collected snapshot, or nil when
// none is stored
func (r *Repository) LatestSnapshot(ctx context.Context) (*domain.Snapshot, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT data FROM snapshots ORDER BY collected_at DESC, rowid DESC LIMIT 1
	`)
	return scanSnapshot(row)
}

// GetSnapshot returns a snapshot by id, or nil when it does not exist
func (r *Repository) GetSnapshot(ctx context.Context, id string) (*domain.Snapshot, error) {
	row := r.db.QueryRowContext(ctx, `SELECT data FROM snapshots WHERE id = ?`, id)
	return scanSnapshot(row)
}

func scanSnapshot(row *sql.Row) (*domain.Snapshot, error) {
	var data string
	if err := row.Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query snapshot: %w", err)
	}
	var snap domain.Snapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot data: %w", err)
	}
	return &snap, nil
}

// ListSnapshots returns summaries of stored snapshots, newest first
func (r *Repository) ListSnapshots(ctx context.Context, limit int) ([]domain.SnapshotInfo, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, collected_at, source, vm_count, host_count
		FROM snapshots ORDER BY collected_at DESC, rowid DESC LIMIT ?
	`, limitOrAll(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	infos := []domain.SnapshotInfo{}
	for rows.Next() {
		var (
			info        domain.SnapshotInfo
			collectedAt string
			source      sql.NullString
		)
		if err := rows.Scan(&info.ID, &collectedAt, &source, &info.VMCount, &info.HostCount); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		if info.CollectedAt, err = parseTime(collectedAt); err != nil {
			return nil, err
		}
		info.Source = nullToString(source)
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshots: %w", err)
	}
	return infos, nil
}

// PruneSnapshots keeps the newest keep snapshots and deletes the rest
func (r *Repository) PruneSnapshots(ctx context.Context, keep int) (int64, error) {
	if keep < 1 {
		return 0, fmt.Errorf("keep must be at least 1, got %d", keep)
	}
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM snapshots WHERE id NOT IN (
			SELECT id FROM snapshots ORDER BY collected_at DESC, rowid DESC LIMIT ?
		)
	`, keep)
	if err != nil {
		return 0, fmt.Errorf("failed to prune snapshots: %w", err)
	}
	return res.RowsAffected()
}

// RecordCollection stores a finished collection run
func (r *Repository) RecordCollection(ctx context.Context, run domain.CollectionRun) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO collections (id, triggered_by, source, started_at, finished_at, status, message, snapshot_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.Trigger, stringToNull(run.Source), formatTime(run.StartedAt), formatTime(run.FinishedAt),
		string(run.Status), stringToNull(run.Message), stringToNull(run.SnapshotID))
	if err != nil {
		return fmt.Errorf("failed to insert collection: %w", err)
	}
	return nil
}

// ListCollections returns recent collection runs, newest first
func (r *Repository) ListCollections(ctx context.Context, limit int) ([]domain.CollectionRun, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, triggered_by, source, started_at, finished_at, status, message, snapshot_id
		FROM collections ORDER BY started_at DESC, rowid DESC LIMIT ?
	`, limitOrAll(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to query collections: %w", err)
	}
	defer rows.Close()

	runs := []domain.CollectionRun{}
	for rows.Next() {
		var row collectionRow
		if err := rows.Scan(row.scanArgs()...); err != nil {
			return nil, fmt.Errorf("failed to scan collection: %w", err)
		}
		run, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating collections: %w", err)
	}
	return runs, nil
}

func limitOrAll(limit int) int {
	if limit <= 0 {
		return -1
	}
	return limit
}
