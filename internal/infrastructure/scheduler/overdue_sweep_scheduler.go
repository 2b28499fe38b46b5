package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// OverdueSweeper marks unpaid installment payments past their due date as
// overdue and returns how many payments changed state.
type OverdueSweeper interface {
	SweepOverdue(ctx context.Context, now time.Time) (int, error)
}

// OverdueSweepSchedulerConfig holds configuration for the overdue sweep scheduler
type OverdueSweepSchedulerConfig struct {
	// Enabled determines if the scheduler is active
	Enabled bool

	// Interval is how often the sweep runs
	Interval time.Duration

	// SweepTimeout is the maximum time for a single sweep run
	SweepTimeout time.Duration
}

// DefaultOverdueSweepSchedulerConfig returns default configuration
func DefaultOverdueSweepSchedulerConfig() OverdueSweepSchedulerConfig {
	return OverdueSweepSchedulerConfig{
		Enabled:      true,
		Interval:     time.Hour,
		SweepTimeout: 5 * time.Minute,
	}
}

// Validate checks the configuration
func (c OverdueSweepSchedulerConfig) Validate() error {
	if c.Interval <= 0 || c.SweepTimeout <= 0 {
		return ErrInvalidConfig
	}
	return nil
}

// OverdueSweepScheduler periodically sweeps active installment plans and
// marks payments past their grace window as overdue. Due dates are
// day-grained so the sweep interval only affects detection latency.
type OverdueSweepScheduler struct {
	sweeper   OverdueSweeper
	logger    *zap.Logger
	config    OverdueSweepSchedulerConfig
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewOverdueSweepScheduler creates a new overdue sweep scheduler
func NewOverdueSweepScheduler(
	sweeper OverdueSweeper,
	logger *zap.Logger,
	config OverdueSweepSchedulerConfig,
) *OverdueSweepScheduler {
	return &OverdueSweepScheduler{
		sweeper: sweeper,
		logger:  logger,
		config:  config,
	}
}

// Start starts the overdue sweep scheduler
func (s *OverdueSweepScheduler) Start(ctx context.Context) error {
	if err := s.config.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	if !s.config.Enabled {
		s.mu.Unlock()
		s.logger.Info("Overdue sweep scheduler is disabled")
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.run(ctx)

	s.logger.Info("Overdue sweep scheduler started",
		zap.Duration("interval", s.config.Interval),
	)
	return nil
}

// Stop gracefully stops the scheduler
func (s *OverdueSweepScheduler) Stop(ctx context.Context) error {
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
		s.logger.Info("Overdue sweep scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Overdue sweep scheduler stop timed out")
		return ctx.Err()
	}
}

func (s *OverdueSweepScheduler) run(ctx context.Context) {
	defer s.wg.Done()

	// Run once at startup so a restarted server catches up immediately
	s.executeSweep(ctx)

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("Overdue sweep loop stopping")
			return
		case <-ticker.C:
			s.executeSweep(ctx)
		}
	}
}

func (s *OverdueSweepScheduler) executeSweep(ctx context.Context) {
	sweepCtx, cancel := context.WithTimeout(ctx, s.config.SweepTimeout)
	defer cancel()

	startTime := time.Now()
	marked, err := s.sweeper.SweepOverdue(sweepCtx, startTime)
	duration := time.Since(startTime)

	if err != nil {
		s.logger.Error("Overdue sweep failed",
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return
	}

	if marked > 0 {
		s.logger.Info("Overdue sweep completed",
			zap.Duration("duration", duration),
			zap.Int("marked_overdue", marked),
		)
	} else {
		s.logger.Debug("Overdue sweep completed with no changes",
			zap.Duration("duration", duration),
		)
	}
}

// TriggerImmediateSweep triggers a sweep outside the regular interval
func (s *OverdueSweepScheduler) TriggerImmediateSweep(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return ErrSchedulerNotRunning
	}
	s.wg.Add(1)
	s.mu.Unlock()

	s.logger.Info("Triggering immediate overdue sweep")

	go func() {
		defer s.wg.Done()
		s.executeSweep(ctx)
	}()

	return nil
}

// IsRunning returns whether the scheduler is running
func (s *OverdueSweepScheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}
