package scheduler

import (
	"context"
	"time"

	appattendance "github.com/hrms/backend/internal/application/attendance"
	"github.com/hrms/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// StaleSessionSweeper closes sessions left open on past days
type StaleSessionSweeper interface {
	SweepStale(ctx context.Context) (*appattendance.SweepResult, error)
}

// SweepObserver receives the outcome and duration of each sweep
type SweepObserver func(ctx context.Context, result *appattendance.SweepResult, elapsed time.Duration)

// SweepExecutor runs STALE_SESSION_SWEEP jobs
type SweepExecutor struct {
	sweeper  StaleSessionSweeper
	observer SweepObserver
	logger   *zap.Logger
}

// NewSweepExecutor creates a new SweepExecutor
func NewSweepExecutor(sweeper StaleSessionSweeper, observer SweepObserver, logger *zap.Logger) *SweepExecutor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SweepExecutor{sweeper: sweeper, observer: observer, logger: logger}
}

// Execute runs one sweep. Individual sessions that fail to close do not fail
// the job; they are picked up by the next sweep or lazily on read.
func (e *SweepExecutor) Execute(ctx context.Context, job *Job) error {
	ctx, span := telemetry.StartSpan(ctx, "scheduler.stale_session_sweep",
		telemetry.WithSpanKind(trace.SpanKindInternal),
		telemetry.WithAttribute("job_id", job.ID.String()),
	)
	defer span.End()

	start := time.Now()
	result, err := e.sweeper.SweepStale(ctx)
	elapsed := time.Since(start)
	if result == nil {
		telemetry.RecordError(span, err)
		return err
	}
	telemetry.SetAttributes(span,
		"scanned", result.Scanned,
		"closed", result.Closed,
		"failed", result.Failed,
		"breaks_closed", result.BreaksClosed,
	)
	if err != nil {
		telemetry.AddEvent(span, "partial_failure", "error", err.Error())
		e.logger.Warn("Stale session sweep closed some sessions with errors",
			zap.String("job_id", job.ID.String()),
			zap.Error(err),
		)
	}
	if e.observer != nil {
		e.observer(ctx, result, elapsed)
	}
	e.logger.Info("Stale session sweep finished",
		zap.String("job_id", job.ID.String()),
		zap.Int("scanned", result.Scanned),
		zap.Int("closed", result.Closed),
		zap.Int("failed", result.Failed),
		zap.Int64("breaks_closed", result.BreaksClosed),
		zap.Duration("elapsed", elapsed),
	)
	telemetry.SetOK(span)
	return nil
}
