package pipeline

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"

	"ftplake/internal/config"
	"ftplake/internal/domain"
)

// Scheduler fires the sentinel trigger on a cron schedule, for deployments
// without an external trigger system.
type Scheduler struct {
	cron     *cron.Cron
	runner   Runner
	schedule *config.Schedule
	logger   *slog.Logger
}

// NewScheduler creates a scheduler around the shared pipeline runner.
func NewScheduler(runner Runner, schedule *config.Schedule, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		runner:   runner,
		schedule: schedule,
		logger:   logger,
	}
}

// Start registers the schedule and starts the cron loop.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.schedule.Cron, func() {
		res := s.runner.Run(context.Background(), domain.CommandGetFTPData, s.schedule.Attributes)
		if !res.OK() {
			s.logger.Warn("scheduled run failed", "stage", string(res.Stage), "error", res.Err)
		}
	})
	if err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info("scheduler started", "cron", s.schedule.Cron)
	return nil
}

// Stop gracefully stops the cron loop.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.logger.Info("scheduler stopped")
}
