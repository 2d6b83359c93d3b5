package jobs

import (
	"context"
	"log/slog"

	"github.com/icodeninjaX/coop-tracker-sub000/internal/core/ports/services"
	"github.com/robfig/cron/v3"
)

const flushSchedule = "@every 10m"

// Scheduler runs the background jobs: the daily penalty sweep over loaded
// snapshots and the periodic retry of snapshot saves that only reached the
// local cache.
type Scheduler struct {
	cron     *cron.Cron
	services *services.ServiceContainer
	logger   *slog.Logger
}

// NewScheduler builds the scheduler; sweepSchedule is a cron expression.
func NewScheduler(container *services.ServiceContainer, sweepSchedule string, logger *slog.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron:     cron.New(),
		services: container,
		logger:   logger,
	}

	if _, err := s.cron.AddFunc(sweepSchedule, s.sweepPenalties); err != nil {
		return nil, err
	}
	if _, err := s.cron.AddFunc(flushSchedule, s.flushDirtySnapshots); err != nil {
		return nil, err
	}
	return s, nil
}

// Start launches the cron loop in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("Background scheduler started")
}

// Stop halts the cron loop and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Background scheduler stopped")
}

// sweepPenalties assesses missed installments for every user whose snapshot
// is loaded. The assessment is idempotent, so overlap with request-driven
// assessments is harmless.
func (s *Scheduler) sweepPenalties() {
	ctx := context.Background()
	for _, userID := range s.services.Snapshot.ActiveUserIDs() {
		assessed, err := s.services.Loan.AssessPenalties(ctx, userID)
		if err != nil {
			s.logger.Error("Penalty sweep failed",
				slog.String("user_id", userID), slog.String("error", err.Error()))
			continue
		}
		if len(assessed) > 0 {
			s.logger.Info("Penalty sweep assessed new penalties",
				slog.String("user_id", userID), slog.Int("count", len(assessed)))
		}
	}
}

func (s *Scheduler) flushDirtySnapshots() {
	if err := s.services.Snapshot.FlushDirty(context.Background()); err != nil {
		s.logger.Error("Dirty snapshot flush failed", slog.String("error", err.Error()))
	}
}
