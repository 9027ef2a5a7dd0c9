// Package scheduler drives periodic scrape runs off a cron spec.
package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Runner is what the scheduler triggers on each tick. Overlap
// protection is the runner's problem, not the scheduler's.
type Runner interface {
	RunFullScrape(ctx context.Context) error
}

// Scheduler wraps robfig/cron around the scrape engine.
type Scheduler struct {
	cron   *cron.Cron
	runner Runner
	spec   string
	logger *zap.Logger
}

// New creates a scheduler firing on the given cron spec, e.g.
// "0 6 * * *" for daily at 06:00.
func New(runner Runner, spec string, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		runner: runner,
		spec:   spec,
		logger: logger,
	}
}

// Start registers the scrape job and starts the cron loop.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		if err := s.runner.RunFullScrape(ctx); err != nil {
			s.logger.Error("Scheduled scrape failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	s.logger.Info("Scrape scheduler started", zap.String("spec", s.spec))
	return nil
}

// Stop shuts the cron loop down and waits for a running job to finish.
func (s *Scheduler) Stop() {
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	s.logger.Info("Scrape scheduler stopped")
}
