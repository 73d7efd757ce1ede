package scheduler

import (
	"context"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Job is a unit of scheduled work
type Job interface {
	ProcessOverdue(ctx context.Context) error
}

// Scheduler runs the daily overdue sweep on a cron schedule
type Scheduler struct {
	cron   *cron.Cron
	job    Job
	logger *logrus.Logger
}

// NewScheduler creates a new Scheduler
func NewScheduler(job Job, logger *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		job:    job,
		logger: logger,
	}
}

// Start registers and starts the overdue sweep. The spec is a standard cron
// expression; the default wiring uses "0 6 * * *" (daily at 06:00).
func (s *Scheduler) Start(spec string) error {
	_, err := s.cron.AddFunc(spec, func() {
		if err := s.job.ProcessOverdue(context.Background()); err != nil {
			s.logger.Errorf("Overdue sweep failed: %v", err)
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Infof("Overdue sweep scheduled: %s", spec)

	return nil
}

// Stop stops the scheduler and waits for a running job to finish
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
