package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// Outcome labels
const (
	OutcomeSuccess = "success"
	OutcomeFailed  = "failed"
)

// AttendanceMetrics records domain-level counters for the attendance and
// payroll flows. It observes event deliveries and stale-session sweeps.
type AttendanceMetrics struct {
	logger *zap.Logger

	eventsDelivered *Counter
	sweepRuns       *Counter
	sweepClosed     *Counter
	sweepFailed     *Counter
	sweepDuration   *Histogram
	lastSweepStale  *Gauge
}

// NewAttendanceMetrics creates the attendance instruments on meter
func NewAttendanceMetrics(meter metric.Meter, logger *zap.Logger) (*AttendanceMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	m := &AttendanceMetrics{logger: logger}
	var err error

	if m.eventsDelivered, err = NewCounter(meter,
		"hrms_domain_events_delivered_total",
		"Domain event deliveries to in-process handlers",
		"{deliveries}",
	); err != nil {
		return nil, err
	}
	if m.sweepRuns, err = NewCounter(meter,
		"hrms_stale_session_sweeps_total",
		"Stale session sweep runs",
		"{runs}",
	); err != nil {
		return nil, err
	}
	if m.sweepClosed, err = NewCounter(meter,
		"hrms_stale_sessions_closed_total",
		"Sessions auto-closed by the sweep",
		"{sessions}",
	); err != nil {
		return nil, err
	}
	if m.sweepFailed, err = NewCounter(meter,
		"hrms_stale_sessions_failed_total",
		"Sessions the sweep failed to close",
		"{sessions}",
	); err != nil {
		return nil, err
	}
	if m.sweepDuration, err = NewHistogram(meter, HistogramOpts{
		Name:        "hrms_stale_session_sweep_duration_seconds",
		Description: "Stale session sweep duration",
		Unit:        "s",
		Boundaries:  JobDurationBuckets,
	}); err != nil {
		return nil, err
	}
	if m.lastSweepStale, err = NewGauge(meter,
		"hrms_stale_sessions_found",
		"Stale open sessions found by the last sweep",
		"{sessions}",
	); err != nil {
		return nil, err
	}

	return m, nil
}

// ObserveDelivery records one handler delivery. Its signature matches the
// event bus delivery observer.
func (m *AttendanceMetrics) ObserveDelivery(ctx context.Context, eventType string, err error) {
	m.eventsDelivered.Inc(ctx,
		AttrEventType.String(eventType),
		AttrOutcome.String(outcomeOf(err)),
	)
}

// ObserveSweep records the outcome of one stale-session sweep
func (m *AttendanceMetrics) ObserveSweep(ctx context.Context, scanned, closed, failed int, elapsed time.Duration) {
	outcome := OutcomeSuccess
	if failed > 0 {
		outcome = OutcomeFailed
	}
	m.sweepRuns.Inc(ctx, AttrOutcome.String(outcome))
	m.sweepClosed.Add(ctx, int64(closed))
	m.sweepFailed.Add(ctx, int64(failed))
	m.sweepDuration.RecordDuration(ctx, elapsed)
	m.lastSweepStale.Record(ctx, int64(scanned))

	if failed > 0 {
		m.logger.Debug("Recorded sweep with failures", zap.Int("failed", failed))
	}
}

func outcomeOf(err error) string {
	if err != nil {
		return OutcomeFailed
	}
	return OutcomeSuccess
}

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewAttendanceMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}
