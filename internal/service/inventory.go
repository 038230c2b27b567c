package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"vspheremap/internal/adapter"
	"vspheremap/internal/domain"
	"vspheremap/internal/graph"
	"vspheremap/internal/metrics"
	"vspheremap/internal/query"
	"vspheremap/internal/report"
	"vspheremap/internal/repository"

	"github.com/go-logr/logr"
	"github.com/google/uuid"
)

// Repository persists snapshots and collection runs. A nil Repository
// keeps everything in memory.
type Repository interface {
	repository.SnapshotStore
	repository.CollectionLog
}

// Options configures an InventoryService
type Options struct {
	Repository    Repository
	EventBus      *EventBus
	Metrics       *metrics.Metrics
	KeepSnapshots int
	Now           func() time.Time
}

// InventoryService owns the served snapshot and everything derived from it:
// collection, persistence, graph building, reports and listings
type InventoryService struct {
	store         *Store
	collector     adapter.Collector
	repo          Repository
	eventBus      *EventBus
	metrics       *metrics.Metrics
	log           logr.Logger
	keepSnapshots int
	now           func() time.Time
	wg            sync.WaitGroup
}

// NewInventoryService creates the service around collector
func NewInventoryService(collector adapter.Collector, log logr.Logger, opts Options) *InventoryService {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &InventoryService{
		store:         NewStore(),
		collector:     collector,
		repo:          opts.Repository,
		eventBus:      opts.EventBus,
		metrics:       opts.Metrics,
		log:           log.WithName("inventory"),
		keepSnapshots: opts.KeepSnapshots,
		now:           now,
	}
}

// Store exposes the underlying snapshot store
func (s *InventoryService) Store() *Store {
	return s.store
}

// Status returns the collection status record
func (s *InventoryService) Status() domain.CollectionStatus {
	return s.store.Status()
}

// Snapshot returns the served snapshot or ErrUnavailable
func (s *InventoryService) Snapshot() (*domain.Snapshot, error) {
	return s.store.Snapshot()
}

// Restore publishes the latest persisted snapshot so requests can be served
// before the first collection finishes. It reports whether a snapshot was
// restored.
func (s *InventoryService) Restore(ctx context.Context) (bool, error) {
	if s.repo == nil {
		return false, nil
	}
	snap, err := s.repo.LatestSnapshot(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to load latest snapshot: %w", err)
	}
	if snap == nil {
		return false, nil
	}

	s.store.Swap(snap)
	s.store.RecordOutcome(domain.CollectionSuccess,
		fmt.Sprintf("Restored snapshot collected at %s", snap.CollectedAt.UTC().Format(time.RFC3339)),
		snap.CollectedAt, snap.ID)
	s.metrics.SetSnapshotTime(snap.CollectedAt)
	s.publish(EventSnapshotRestored, snap.Info())

	s.log.Info("Restored snapshot", "id", snap.ID, "collectedAt", snap.CollectedAt, "vms", len(snap.VMs))
	return true, nil
}

// Refresh runs a collection and waits for it. It returns
// ErrRefreshInProgress when another collection is running.
func (s *InventoryService) Refresh(ctx context.Context, trigger string) error {
	if !s.store.TryBeginCollection() {
		return domain.ErrRefreshInProgress
	}
	defer s.store.EndCollection()
	return s.collect(ctx, trigger)
}

// TriggerRefresh starts a collection in the background and returns at once.
// It returns ErrRefreshInProgress when another collection is running.
func (s *InventoryService) TriggerRefresh(ctx context.Context, trigger string) error {
	if !s.store.TryBeginCollection() {
		return domain.ErrRefreshInProgress
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.store.EndCollection()
		if err := s.collect(context.WithoutCancel(ctx), trigger); err != nil {
			s.log.Error(err, "Background refresh failed", "trigger", trigger)
		}
	}()
	return nil
}

// Wait blocks until background refreshes have returned
func (s *InventoryService) Wait() {
	s.wg.Wait()
}

func (s *InventoryService) collect(ctx context.Context, trigger string) error {
	run := domain.CollectionRun{
		ID:        uuid.NewString(),
		Trigger:   trigger,
		Source:    s.collector.Name(),
		StartedAt: s.now().UTC(),
	}
	s.log.Info("Starting collection", "trigger", trigger, "source", run.Source)
	s.publish(EventCollectionStarted, map[string]string{"run_id": run.ID, "trigger": trigger})

	snap, err := s.collector.Collect(ctx)
	if err == nil && snap == nil {
		err = domain.ErrEmptyCollection
	}
	run.FinishedAt = s.now().UTC()
	took := run.Duration()

	switch {
	case err == nil:
		snap.ID = uuid.NewString()
		snap.CollectedAt = run.FinishedAt
		snap.Source = run.Source
		s.store.Swap(snap)

		run.Status = domain.CollectionSuccess
		run.SnapshotID = snap.ID
		run.Message = fmt.Sprintf("Data collected successfully at %s (took %.2fs)",
			run.FinishedAt.Format(time.RFC3339), took.Seconds())
		s.persist(ctx, snap)
		s.metrics.SetSnapshotTime(snap.CollectedAt)

	case errors.Is(err, domain.ErrEmptyCollection):
		run.Status = domain.CollectionFailed
		run.Message = fmt.Sprintf("Collector returned no data at %s. Check collector logs.",
			run.FinishedAt.Format(time.RFC3339))

	default:
		run.Status = domain.CollectionException
		run.Message = fmt.Sprintf("Exception during data collection: %v (took %.2fs)", err, took.Seconds())
	}

	s.store.RecordOutcome(run.Status, run.Message, run.FinishedAt, run.SnapshotID)
	s.metrics.ObserveCollection(string(run.Status), took)
	s.record(ctx, run)

	if run.Status != domain.CollectionSuccess {
		s.log.Error(err, "Collection failed", "trigger", trigger, "status", run.Status)
		s.publish(EventCollectionFailed, run)
		return fmt.Errorf("collection failed: %w", err)
	}

	s.log.Info("Collection complete", "snapshot", snap.ID, "vms", len(snap.VMs), "took", took.String())
	s.publish(EventCollectionSucceeded, run)
	return nil
}

func (s *InventoryService) persist(ctx context.Context, snap *domain.Snapshot) {
	if s.repo == nil {
		return
	}
	if err := s.repo.SaveSnapshot(ctx, snap); err != nil {
		s.log.Error(err, "Failed to persist snapshot", "snapshot", snap.ID)
		return
	}
	if s.keepSnapshots <= 0 {
		return
	}
	pruned, err := s.repo.PruneSnapshots(ctx, s.keepSnapshots)
	if err != nil {
		s.log.Error(err, "Failed to prune snapshots")
		return
	}
	if pruned > 0 {
		s.log.V(1).Info("Pruned snapshots", "count", pruned)
	}
}

func (s *InventoryService) record(ctx context.Context, run domain.CollectionRun) {
	if s.repo == nil {
		return
	}
	if err := s.repo.RecordCollection(ctx, run); err != nil {
		s.log.Error(err, "Failed to record collection run", "run", run.ID)
	}
}

func (s *InventoryService) publish(t EventType, payload interface{}) {
	s.eventBus.Publish(Event{Type: t, Time: s.now().UTC(), Payload: payload})
}

// BuildGraph builds the dependency graph described by policy against the
// served snapshot
func (s *InventoryService) BuildGraph(ctx context.Context, policy domain.Policy) (*domain.Graph, error) {
	if err := policy.Validate(); err != nil {
		s.metrics.ObserveGraph(metrics.ResultInvalid, 0, 0)
		return nil, err
	}
	snap, err := s.store.Snapshot()
	if err != nil {
		s.metrics.ObserveGraph(metrics.ResultUnavailable, 0, 0)
		return nil, err
	}

	g, err := graph.Build(snap, policy, s.log.WithName("graph"))
	if err != nil {
		s.metrics.ObserveGraph(resultOf(err), 0, 0)
		return nil, err
	}
	s.metrics.ObserveGraph(metrics.ResultOK, len(g.Nodes), len(g.Edges))
	return g, nil
}

// Report generates the technical document of one VM
func (s *InventoryService) Report(ctx context.Context, identifier string) (*report.VMReport, error) {
	snap, err := s.store.Snapshot()
	if err != nil {
		return nil, err
	}
	return report.GenerateVMReport(snap, identifier, s.now())
}

// GetVM returns the VM matching identifier by instance UUID or name
func (s *InventoryService) GetVM(ctx context.Context, identifier string) (*domain.VM, error) {
	snap, err := s.store.Snapshot()
	if err != nil {
		return nil, err
	}
	vm, ok := snap.FindVM(identifier)
	if !ok {
		return nil, fmt.Errorf("%w: VM %q", domain.ErrNotFound, identifier)
	}
	return vm, nil
}

// List returns one page of the records of kind
func (s *InventoryService) List(ctx context.Context, kind domain.Kind, params query.Params) ([]map[string]any, error) {
	snap, err := s.store.Snapshot()
	if err != nil {
		return nil, err
	}

	switch kind {
	case domain.KindVM:
		return query.Apply(snap.VMs, params)
	case domain.KindHost:
		return query.Apply(snap.AllHosts(), params)
	case domain.KindCluster:
		return query.Apply(snap.AllClusters(), params)
	case domain.KindDatastore:
		return query.Apply(snap.Datastores, params)
	case domain.KindNetwork:
		return query.Apply(snap.AllNetworks(), params)
	default:
		return nil, fmt.Errorf("%w: kind %q", domain.ErrUnsupported, kind)
	}
}

// Collections returns recent collection runs, newest first
func (s *InventoryService) Collections(ctx context.Context, limit int) ([]domain.CollectionRun, error) {
	if s.repo == nil {
		return []domain.CollectionRun{}, nil
	}
	return s.repo.ListCollections(ctx, limit)
}

// Snapshots returns summaries of persisted snapshots, newest first
func (s *InventoryService) Snapshots(ctx context.Context, limit int) ([]domain.SnapshotInfo, error) {
	if s.repo == nil {
		return []domain.SnapshotInfo{}, nil
	}
	return s.repo.ListSnapshots(ctx, limit)
}

func resultOf(err error) string {
	switch {
	case errors.Is(err, domain.ErrUnavailable):
		return metrics.ResultUnavailable
	case errors.Is(err, domain.ErrNotFound):
		return metrics.ResultNotFound
	case errors.Is(err, domain.ErrUnsupported):
		return metrics.ResultUnsupported
	case errors.Is(err, domain.ErrInvalidPolicy):
		return metrics.ResultInvalid
	default:
		return metrics.ResultError
	}
}
