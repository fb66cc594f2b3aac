package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// PhaseSweeper persists derived phases for hackathons whose stored phase is
// behind the clock. *service.PhaseSynchronizer implements it.
type PhaseSweeper interface {
	Sweep(ctx context.Context) (int, error)
}

// Scheduler runs the phase sweep on a fixed interval so stored phases stay
// current even for hackathons nobody reads.
type Scheduler struct {
	sweeper  PhaseSweeper
	interval time.Duration
	timeout  time.Duration
	logger   *zap.Logger

	stopChan chan struct{}
	done     chan struct{}
	once     sync.Once
}

// NewScheduler creates a Scheduler. Each sweep is bounded by timeout, or by
// interval when timeout is not positive.
func NewScheduler(sweeper PhaseSweeper, interval, timeout time.Duration, logger *zap.Logger) *Scheduler {
	if timeout <= 0 {
		timeout = interval
	}
	return &Scheduler{
		sweeper:  sweeper,
		interval: interval,
		timeout:  timeout,
		logger:   logger,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the sweep loop. It runs one sweep immediately.
func (s *Scheduler) Start() {
	go func() {
		defer close(s.done)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.runOnce()
		for {
			select {
			case <-ticker.C:
				s.runOnce()
			case <-s.stopChan:
				return
			}
		}
	}()

	s.logger.Info("phase sweeper started", zap.Duration("interval", s.interval))
}

// Stop ends the loop and waits for an in-flight sweep. Safe to call twice.
func (s *Scheduler) Stop() {
	s.once.Do(func() {
		close(s.stopChan)
		<-s.done
		s.logger.Info("phase sweeper stopped")
	})
}

func (s *Scheduler) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	n, err := s.sweeper.Sweep(ctx)
	if err != nil {
		s.logger.Warn("phase sweep failed", zap.Error(err))
		return
	}
	if n > 0 {
		s.logger.Info("phase sweep corrected hackathons", zap.Int("count", n))
	}
}
