package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Yashvvvv/VenueSync/internal/clock"
	"github.com/Yashvvvv/VenueSync/internal/metrics"
	"github.com/Yashvvvv/VenueSync/internal/repository"
	"github.com/Yashvvvv/VenueSync/internal/service"
	"github.com/Yashvvvv/VenueSync/pkg/logger"
	"go.uber.org/zap"
)

// Sweep names used for locks, logs and metrics
const (
	SweepExpireTickets  = "expire_tickets"
	SweepCompleteEvents = "complete_events"
)

// SweepWorkerConfig contains configuration for the sweep worker
type SweepWorkerConfig struct {
	// Interval between sweep runs
	Interval time.Duration
	// InitialDelay before the first run
	InitialDelay time.Duration
	// LockTTL bounds how long one instance holds a sweep lock
	LockTTL time.Duration
}

// DefaultSweepWorkerConfig returns default configuration
func DefaultSweepWorkerConfig() *SweepWorkerConfig {
	return &SweepWorkerConfig{
		Interval:     time.Minute,
		InitialDelay: 5 * time.Second,
		LockTTL:      50 * time.Second,
	}
}

// SweepWorker periodically expires tickets of ended events and completes
// ended events. Each sweep runs under a distributed lock when one is
// configured so that only one instance does the work per tick.
type SweepWorker struct {
	expiration service.ExpirationService
	events     service.EventStatusService
	lock       repository.SweepLock
	clock      clock.Clock
	config     *SweepWorkerConfig
	log        *logger.Logger
	stopCh     chan struct{}
	wg         sync.WaitGroup
	mu         sync.Mutex
	running    bool

	// Stats
	runs             int64
	skipped          int64
	failures         int64
	totalExpired     int64
	totalCompleted   int64
	lastRunTime      time.Time
	lastExpiredCount int64
}

// NewSweepWorker creates a new sweep worker. A nil lock runs every sweep
// unlocked, which is correct for a single instance.
func NewSweepWorker(
	expiration service.ExpirationService,
	events service.EventStatusService,
	lock repository.SweepLock,
	clk clock.Clock,
	config *SweepWorkerConfig,
) *SweepWorker {
	def := DefaultSweepWorkerConfig()
	if config == nil {
		config = def
	}
	if config.Interval <= 0 {
		config.Interval = def.Interval
	}
	if config.LockTTL <= 0 {
		config.LockTTL = def.LockTTL
	}

	return &SweepWorker{
		expiration: expiration,
		events:     events,
		lock:       lock,
		clock:      clk,
		config:     config,
		log:        logger.Get(),
		stopCh:     make(chan struct{}),
	}
}

// Start starts the sweep worker
func (w *SweepWorker) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("sweep worker already running")
	}
	w.running = true
	w.mu.Unlock()

	w.log.Info("Starting sweep worker",
		zap.Duration("interval", w.config.Interval),
		zap.Duration("initial_delay", w.config.InitialDelay),
		zap.Bool("locked", w.lock != nil))

	w.wg.Add(1)
	go w.loop(ctx)

	return nil
}

// Stop stops the sweep worker and waits for a running sweep to finish
func (w *SweepWorker) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	w.log.Info("Stopping sweep worker")
	close(w.stopCh)
	w.wg.Wait()
	w.log.Info("Sweep worker stopped")
}

func (w *SweepWorker) loop(ctx context.Context) {
	defer w.wg.Done()

	if w.config.InitialDelay > 0 {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case <-time.After(w.config.InitialDelay):
		}
	}

	ticker := time.NewTicker(w.config.Interval)
	defer ticker.Stop()

	w.RunOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}

// RunOnce runs both sweeps once with the same cutoff. Tickets are expired
// before events are completed.
func (w *SweepWorker) RunOnce(ctx context.Context) {
	now := w.clock.Now()

	expired := w.sweep(ctx, SweepExpireTickets, func(ctx context.Context) (int64, error) {
		return w.expiration.ExpireEndedEventTickets(ctx, now)
	})
	completed := w.sweep(ctx, SweepCompleteEvents, func(ctx context.Context) (int64, error) {
		return w.events.CompleteEndedEvents(ctx, now)
	})

	w.mu.Lock()
	w.runs++
	w.lastRunTime = now
	w.lastExpiredCount = expired
	w.totalExpired += expired
	w.totalCompleted += completed
	w.mu.Unlock()
}

func (w *SweepWorker) sweep(ctx context.Context, name string, run func(ctx context.Context) (int64, error)) int64 {
	start := time.Now()

	if w.lock != nil {
		token, ok, err := w.lock.Acquire(ctx, name, w.config.LockTTL)
		if err != nil {
			// the sweeps are idempotent, so a lock outage only costs duplicate work
			w.log.Warn("Sweep lock unavailable, running unlocked",
				zap.String("sweep", name), zap.Error(err))
		} else if !ok {
			w.mu.Lock()
			w.skipped++
			w.mu.Unlock()
			metrics.RecordSweep(name, metrics.OutcomeSkippedLocked, 0, time.Since(start))
			w.log.Debug("Sweep held by another instance", zap.String("sweep", name))
			return 0
		} else {
			defer func() {
				if err := w.lock.Release(context.WithoutCancel(ctx), name, token); err != nil {
					w.log.Warn("Failed to release sweep lock", zap.String("sweep", name), zap.Error(err))
				}
			}()
		}
	}

	rows, err := run(ctx)
	if err != nil {
		w.mu.Lock()
		w.failures++
		w.mu.Unlock()
		metrics.RecordSweep(name, metrics.OutcomeError, 0, time.Since(start))
		w.log.Error("Sweep failed", zap.String("sweep", name), zap.Error(err))
		return 0
	}

	metrics.RecordSweep(name, metrics.OutcomeSuccess, rows, time.Since(start))
	return rows
}

// GetStats returns worker statistics
func (w *SweepWorker) GetStats() *SweepWorkerStats {
	w.mu.Lock()
	defer w.mu.Unlock()

	return &SweepWorkerStats{
		IsRunning:        w.running,
		Runs:             w.runs,
		Skipped:          w.skipped,
		Failures:         w.failures,
		TotalExpired:     w.totalExpired,
		TotalCompleted:   w.totalCompleted,
		LastRunTime:      w.lastRunTime,
		LastExpiredCount: w.lastExpiredCount,
	}
}

// SweepWorkerStats contains worker statistics
type SweepWorkerStats struct {
	IsRunning        bool      `json:"is_running"`
	Runs             int64     `json:"runs"`
	Skipped          int64     `json:"skipped"`
	Failures         int64     `json:"failures"`
	TotalExpired     int64     `json:"total_expired"`
	TotalCompleted   int64     `json:"total_completed"`
	LastRunTime      time.Time `json:"last_run_time"`
	LastExpiredCount int64     `json:"last_expired_count"`
}
