package scheduler

import (
	"fmt"
	"time"

	"carrental-backend/internal/jobs"
	"carrental-backend/internal/logger"

	"github.com/robfig/cron/v3"
)

// Scheduler manages cron job scheduling
type Scheduler struct {
	cron *cron.Cron
	jobs *jobs.JobRunner
}

// NewScheduler creates a scheduler with every job registered.
// An invalid schedule expression is returned as an error.
func NewScheduler(jobRunner *jobs.JobRunner) (*Scheduler, error) {
	// UTC timezone, seconds precision
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithSeconds(),
	)

	s := &Scheduler{
		cron: c,
		jobs: jobRunner,
	}

	if err := s.registerJobs(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scheduler) registerJobs() error {
	cfg := s.jobs.Config().Scheduler

	entries := []struct {
		name     string
		schedule string
		fn       func()
	}{
		{"CompleteEndedBookings", cfg.CompleteEndedBookings, s.jobs.CompleteEndedBookings},
		{"SendInstallmentReminders", cfg.SendInstallmentReminders, s.jobs.SendInstallmentReminders},
		{"AdvanceInstallments", cfg.AdvanceInstallments, s.jobs.AdvanceInstallments},
		{"ExpireStalePaymentSessions", cfg.ExpireStalePaymentSessions, s.jobs.ExpireStalePaymentSessions},
	}

	for _, e := range entries {
		if _, err := s.cron.AddFunc(e.schedule, e.fn); err != nil {
			logger.Error("Failed to register job", "job", e.name, "schedule", e.schedule, "error", err)
			return fmt.Errorf("register %s: %w", e.name, err)
		}
		logger.Debug("Registered job", "job", e.name, "schedule", e.schedule)
	}

	logger.Info("All cron jobs registered successfully", "count", len(entries))
	return nil
}

// Start begins the cron scheduler
func (s *Scheduler) Start() {
	logger.Info("Starting cron scheduler...")
	s.cron.Start()
	logger.Info("Cron scheduler started successfully")
}

// Stop gracefully stops the cron scheduler, waiting for running jobs
func (s *Scheduler) Stop() {
	logger.Info("Stopping cron scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("Cron scheduler stopped")
}

// Entries returns the number of registered jobs
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}
