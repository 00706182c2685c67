package scrape

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"
)

// runTimeout bounds a single scheduled scrape run.
const runTimeout = 5 * time.Minute

// Scheduler runs the pipeline on a fixed interval.
type Scheduler struct {
	scheduler *gocron.Scheduler
	pipeline  *Pipeline
	interval  time.Duration
	logger    *slog.Logger
}

// NewScheduler creates a Scheduler that triggers the pipeline every
// interval.
func NewScheduler(p *Pipeline, interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		pipeline:  p,
		interval:  interval,
		logger:    logger,
	}
}

// Start schedules the periodic job and starts the underlying
// scheduler in the background. The first run fires immediately, then
// every interval after that.
func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		return errors.New("scheduler interval must be positive")
	}

	_, err := s.scheduler.Every(s.interval).Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
		defer cancel()

		if _, err := s.pipeline.Run(ctx); err != nil {
			s.logger.Error("scheduled scrape failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	s.logger.Info("scrape scheduler started", "interval", s.interval)
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
