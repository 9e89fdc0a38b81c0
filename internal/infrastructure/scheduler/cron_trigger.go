package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// CronTrigger submits jobs to the scheduler on cron schedules evaluated in
// the organizational timezone
type CronTrigger struct {
	cron      *cron.Cron
	scheduler *Scheduler
	logger    *zap.Logger
}

// NewCronTrigger creates a new cron trigger
func NewCronTrigger(scheduler *Scheduler, loc *time.Location, logger *zap.Logger) *CronTrigger {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("cron")
	cronLogger := cronLogAdapter{logger.Sugar()}
	return &CronTrigger{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(cronLogger),
			cron.WithChain(cron.Recover(cronLogger)),
		),
		scheduler: scheduler,
		logger:    logger,
	}
}

// Schedule submits a job of jobType on every activation of spec, a standard
// five-field cron expression
func (c *CronTrigger) Schedule(spec string, jobType JobType) error {
	_, err := c.cron.AddFunc(spec, func() {
		job, err := c.scheduler.Submit(jobType)
		if err != nil {
			c.logger.Error("Failed to submit scheduled job",
				zap.String("job_type", string(jobType)),
				zap.Error(err),
			)
			return
		}
		c.logger.Info("Scheduled job submitted",
			zap.String("job_type", string(jobType)),
			zap.String("job_id", job.ID.String()),
		)
	})
	if err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", spec, err)
	}
	c.logger.Info("Job scheduled", zap.String("job_type", string(jobType)), zap.String("schedule", spec))
	return nil
}

// Next returns the next activation time, zero when nothing is scheduled
func (c *CronTrigger) Next() time.Time {
	var next time.Time
	for _, entry := range c.cron.Entries() {
		if next.IsZero() || (!entry.Next.IsZero() && entry.Next.Before(next)) {
			next = entry.Next
		}
	}
	return next
}

// Start starts the cron loop
func (c *CronTrigger) Start(ctx context.Context) error {
	c.cron.Start()
	c.logger.Info("Cron trigger started", zap.Int("entries", len(c.cron.Entries())))
	return nil
}

// Stop stops the cron loop and waits for running activations
func (c *CronTrigger) Stop(ctx context.Context) error {
	stopped := c.cron.Stop()
	select {
	case <-stopped.Done():
		c.logger.Info("Cron trigger stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type cronLogAdapter struct {
	logger *zap.SugaredLogger
}

func (a cronLogAdapter) Info(msg string, keysAndValues ...any) {
	a.logger.Debugw(msg, keysAndValues...)
}

func (a cronLogAdapter) Error(err error, msg string, keysAndValues ...any) {
	a.logger.Errorw(msg, append(keysAndValues, "error", err)...)
}
