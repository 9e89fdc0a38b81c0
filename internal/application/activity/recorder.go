package activity

import (
	"context"
	"fmt"
	"time"

	"github.com/hrms/backend/internal/domain/activity"
	"github.com/hrms/backend/internal/domain/attendance"
	"github.com/hrms/backend/internal/domain/payroll"
	"github.com/hrms/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Recorder turns attendance and payroll domain events into audit entries
type Recorder struct {
	repo   activity.Repository
	loc    *time.Location
	logger *zap.Logger
}

// NewRecorder creates a new activity Recorder. Times in messages are
// rendered in loc.
func NewRecorder(repo activity.Repository, loc *time.Location, logger *zap.Logger) *Recorder {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recorder{repo: repo, loc: loc, logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (r *Recorder) EventTypes() []string {
	types := attendance.AllEventTypes()
	return append(types, payroll.AllEventTypes()...)
}

// Handle writes one audit entry for the event
func (r *Recorder) Handle(ctx context.Context, event shared.DomainEvent) error {
	entry, ok := r.describe(event)
	if !ok {
		r.logger.Debug("Ignoring event without activity mapping",
			zap.String("event_type", event.EventType()),
		)
		return nil
	}
	if err := r.repo.Create(ctx, entry); err != nil {
		return fmt.Errorf("record activity for %s: %w", event.EventType(), err)
	}
	return nil
}

func (r *Recorder) describe(event shared.DomainEvent) (*activity.Log, bool) {
	var (
		action   string
		message  string
		metadata = map[string]any{"event_id": event.EventID().String()}
	)

	switch e := event.(type) {
	case *attendance.PunchedInEvent:
		action = "punch_in"
		message = fmt.Sprintf("Punched in at %s (%s)", r.clock(e.PunchIn), e.WorkMode)
		metadata["work_date"] = e.WorkDate.String()
		metadata["work_mode"] = e.WorkMode.String()
	case *attendance.BreakStartedEvent:
		action = "break_start"
		message = fmt.Sprintf("Started a break at %s", r.clock(e.StartTime))
		metadata["break_id"] = e.BreakID.String()
	case *attendance.WorkResumedEvent:
		action = "break_end"
		message = fmt.Sprintf("Resumed work at %s after %s", r.clock(e.EndTime), e.EndTime.Sub(e.StartTime).Round(time.Second))
		metadata["break_id"] = e.BreakID.String()
	case *attendance.PunchedOutEvent:
		action = "punch_out"
		message = fmt.Sprintf("Punched out at %s, %s hours", r.clock(e.PunchOut), e.TotalHours.StringFixed(2))
		metadata["work_date"] = e.WorkDate.String()
		metadata["total_hours"] = e.TotalHours.String()
	case *attendance.AutoClosedEvent:
		action = "auto_punch_out"
		message = fmt.Sprintf("Automatically punched out for %s", e.WorkDate)
		metadata["work_date"] = e.WorkDate.String()
		metadata["total_hours"] = e.TotalHours.String()
	case *payroll.AccrualCreatedEvent:
		action = "salary_accrued"
		message = fmt.Sprintf("Salary of %s accrued for %s", e.Amount.StringFixed(2), e.Month)
		metadata["month"] = e.Month.String()
		metadata["amount"] = e.Amount.String()
	case *payroll.AccrualPaymentAppliedEvent:
		action = "salary_paid"
		message = fmt.Sprintf("Received %s towards %s salary (%s)", e.Applied.StringFixed(2), e.Month, e.Status)
		metadata["month"] = e.Month.String()
		metadata["applied"] = e.Applied.String()
		metadata["status"] = e.Status.String()
	case *payroll.RevenueRecordedEvent:
		action = "revenue_recorded"
		message = fmt.Sprintf("Recorded revenue of %s from %s", e.Amount.StringFixed(2), e.Source)
		metadata["amount"] = e.Amount.String()
	default:
		return nil, false
	}

	return activity.NewLog(
		event.ActorID(),
		action,
		event.AggregateType(),
		event.AggregateID(),
		message,
		metadata,
		event.OccurredAt(),
	), true
}

func (r *Recorder) clock(t time.Time) string {
	return t.In(r.loc).Format("15:04")
}

var _ shared.EventHandler = (*Recorder)(nil)
