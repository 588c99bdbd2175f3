// Package scheduler runs the periodic lease maintenance jobs.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	appleasing "github.com/propdesk/backend/internal/application/leasing"
	"github.com/propdesk/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

var (
	// ErrSweepNotRunning is returned by TriggerNow before Start or after Stop
	ErrSweepNotRunning = errors.New("lease sweep scheduler is not running")

	ErrInvalidSweepHour = errors.New("sweep hour must be between 0 and 23")
)

// Sweeper applies the date-driven lease transitions
type Sweeper interface {
	Sweep(ctx context.Context, now time.Time) (*appleasing.SweepReport, error)
}

// LeaseSweepScheduler runs the lease sweep once a day at the configured hour
type LeaseSweepScheduler struct {
	sweeper   Sweeper
	logger    *zap.Logger
	config    config.SchedulerConfig
	now       func() time.Time
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewLeaseSweepScheduler creates a new lease sweep scheduler
func NewLeaseSweepScheduler(sweeper Sweeper, logger *zap.Logger, cfg config.SchedulerConfig) (*LeaseSweepScheduler, error) {
	if cfg.SweepHour < 0 || cfg.SweepHour > 23 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSweepHour, cfg.SweepHour)
	}
	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = 30 * time.Minute
	}
	return &LeaseSweepScheduler{
		sweeper: sweeper,
		logger:  logger,
		config:  cfg,
		now:     time.Now,
	}, nil
}

// Start starts the daily sweep loop
func (s *LeaseSweepScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	if !s.config.Enabled {
		s.mu.Unlock()
		s.logger.Info("Lease sweep scheduler is disabled")
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.runDaily(ctx)

	s.logger.Info("Lease sweep scheduler started", zap.Int("sweep_hour", s.config.SweepHour))
	return nil
}

// Stop gracefully stops the scheduler
func (s *LeaseSweepScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Lease sweep scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Lease sweep scheduler stop timed out")
		return ctx.Err()
	}
}

// nextRun returns the first sweep time strictly after now
func nextRun(now time.Time, hour int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

func (s *LeaseSweepScheduler) runDaily(ctx context.Context) {
	defer s.wg.Done()

	for {
		next := nextRun(s.now(), s.config.SweepHour)
		delay := time.Until(next)

		s.logger.Info("Lease sweep scheduled",
			zap.Time("next_run", next),
			zap.Duration("delay", delay),
		)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			s.logger.Debug("Lease sweep loop stopping")
			return
		case <-timer.C:
			s.execute(ctx)
		}
	}
}

func (s *LeaseSweepScheduler) execute(ctx context.Context) {
	sweepCtx, cancel := context.WithTimeout(ctx, s.config.JobTimeout)
	defer cancel()

	start := time.Now()
	report, err := s.sweeper.Sweep(sweepCtx, s.now().UTC())
	duration := time.Since(start)

	if err != nil {
		s.logger.Error("Lease sweep failed",
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return
	}

	s.logger.Info("Lease sweep completed",
		zap.Duration("duration", duration),
		zap.Int("expired_contracts", report.ExpiredContracts),
		zap.Int("overdue_payables", report.OverduePayables),
	)
}

// TriggerNow runs a sweep immediately in the background
func (s *LeaseSweepScheduler) TriggerNow(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return ErrSweepNotRunning
	}
	s.wg.Add(1)
	s.mu.Unlock()

	s.logger.Info("Triggering immediate lease sweep")

	go func() {
		defer s.wg.Done()
		s.execute(ctx)
	}()

	return nil
}

// IsRunning returns whether the scheduler is running
func (s *LeaseSweepScheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}
