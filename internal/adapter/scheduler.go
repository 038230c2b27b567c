package adapter

import (
	"context"
	"errors"
	"sync"
	"time"

	"vspheremap/internal/domain"

	"github.com/go-logr/logr"
)

// Scheduler refreshes the inventory on a fixed interval
type Scheduler struct {
	mu        sync.Mutex
	refresher Refresher
	interval  time.Duration
	initial   bool
	log       logr.Logger
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

// NewScheduler creates a scheduler. An interval of zero disables polling;
// initial runs one refresh as soon as the scheduler starts.
func NewScheduler(refresher Refresher, interval time.Duration, initial bool, log logr.Logger) *Scheduler {
	return &Scheduler{
		refresher: refresher,
		interval:  interval,
		initial:   initial,
		log:       log.WithName("scheduler"),
	}
}

// Start begins the polling loop
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		return
	}
	ctx, s.cancel = context.WithCancel(ctx)

	if s.interval <= 0 && !s.initial {
		s.log.Info("Polling disabled")
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loop(ctx)
	}()

	if s.interval > 0 {
		s.log.Info("Started polling loop", "interval", s.interval.String())
	}
}

// Stop ends the polling loop and waits for a running refresh to return
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	s.wg.Wait()
}

func (s *Scheduler) loop(ctx context.Context) {
	if s.initial {
		s.run(ctx, TriggerStartup)
	}
	if s.interval <= 0 {
		return
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("Stopping polling loop")
			return
		case <-ticker.C:
			s.run(ctx, TriggerScheduled)
		}
	}
}

func (s *Scheduler) run(ctx context.Context, trigger string) {
	err := s.refresher.Refresh(ctx, trigger)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrRefreshInProgress):
		s.log.V(1).Info("Skipping refresh, one is already running", "trigger", trigger)
	default:
		s.log.Error(err, "Refresh failed", "trigger", trigger)
	}
}
