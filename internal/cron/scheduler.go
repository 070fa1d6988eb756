package cron

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Sweeper drops expired entries and reports how many went.
type Sweeper interface {
	Sweep(now time.Time) int
}

// Scheduler manages all cron jobs.
type Scheduler struct {
	cron   *cron.Cron
	logger *zap.Logger
	status Sweeper
	now    func() time.Time
}

// New creates a new cron scheduler.
func New(status Sweeper, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(cron.WithSeconds()),
		logger: logger,
		status: status,
		now:    time.Now,
	}
}

// Start registers and starts all cron jobs.
func (s *Scheduler) Start() error {
	s.logger.Info("Starting cron scheduler...")

	// Status cache sweep - every minute
	if _, err := s.cron.AddFunc("0 * * * * *", func() {
		defer s.recoverFromPanic("status sweep")
		s.sweepStatuses()
	}); err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("Cron scheduler started")
	return nil
}

// Stop gracefully stops the cron scheduler.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

func (s *Scheduler) sweepStatuses() int {
	if s.status == nil {
		return 0
	}
	removed := s.status.Sweep(s.now())
	if removed > 0 {
		s.logger.Debug("status cache swept", zap.Int("removed", removed))
	}
	return removed
}

func (s *Scheduler) recoverFromPanic(jobName string) {
	if r := recover(); r != nil {
		s.logger.Error("Cron job panicked", zap.String("job", jobName), zap.Any("error", r))
	}
}
