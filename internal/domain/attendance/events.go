package attendance

import (
	"time"

	"github.com/google/uuid"
	"github.com/hrms/backend/internal/domain/shared"
	"github.com/hrms/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// AggregateTypeSession is the aggregate type name used in events
const AggregateTypeSession = "AttendanceSession"

// Event type names
const (
	EventTypePunchedIn    = "AttendancePunchedIn"
	EventTypeBreakStarted = "AttendanceBreakStarted"
	EventTypeWorkResumed  = "AttendanceWorkResumed"
	EventTypePunchedOut   = "AttendancePunchedOut"
	EventTypeAutoClosed   = "AttendanceAutoClosed"
)

// AllEventTypes lists every attendance event type
func AllEventTypes() []string {
	return []string{
		EventTypePunchedIn,
		EventTypeBreakStarted,
		EventTypeWorkResumed,
		EventTypePunchedOut,
		EventTypeAutoClosed,
	}
}

// PunchedInEvent is raised when a user starts a session
type PunchedInEvent struct {
	shared.BaseDomainEvent
	SessionID uuid.UUID             `json:"session_id"`
	WorkDate  valueobject.CivilDate `json:"work_date"`
	WorkMode  WorkMode              `json:"work_mode"`
	PunchIn   time.Time             `json:"punch_in"`
}

// NewPunchedInEvent creates a PunchedInEvent
func NewPunchedInEvent(s *Session) *PunchedInEvent {
	return &PunchedInEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePunchedIn, AggregateTypeSession, s.ID, s.UserID, s.PunchIn),
		SessionID:       s.ID,
		WorkDate:        s.WorkDate,
		WorkMode:        s.WorkMode,
		PunchIn:         s.PunchIn,
	}
}

// BreakStartedEvent is raised when a user goes on break
type BreakStartedEvent struct {
	shared.BaseDomainEvent
	SessionID uuid.UUID `json:"session_id"`
	BreakID   uuid.UUID `json:"break_id"`
	StartTime time.Time `json:"start_time"`
}

// NewBreakStartedEvent creates a BreakStartedEvent
func NewBreakStartedEvent(s *Session, b *BreakInterval) *BreakStartedEvent {
	return &BreakStartedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBreakStarted, AggregateTypeSession, s.ID, s.UserID, b.StartTime),
		SessionID:       s.ID,
		BreakID:         b.ID,
		StartTime:       b.StartTime,
	}
}

// WorkResumedEvent is raised when a user ends a break
type WorkResumedEvent struct {
	shared.BaseDomainEvent
	SessionID uuid.UUID `json:"session_id"`
	BreakID   uuid.UUID `json:"break_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

// NewWorkResumedEvent creates a WorkResumedEvent. b must be closed.
func NewWorkResumedEvent(s *Session, b *BreakInterval) *WorkResumedEvent {
	end := b.StartTime
	if b.EndTime != nil {
		end = *b.EndTime
	}
	return &WorkResumedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeWorkResumed, AggregateTypeSession, s.ID, s.UserID, end),
		SessionID:       s.ID,
		BreakID:         b.ID,
		StartTime:       b.StartTime,
		EndTime:         end,
	}
}

// PunchedOutEvent is raised when a user ends a session
type PunchedOutEvent struct {
	shared.BaseDomainEvent
	SessionID  uuid.UUID             `json:"session_id"`
	WorkDate   valueobject.CivilDate `json:"work_date"`
	PunchOut   time.Time             `json:"punch_out"`
	TotalHours decimal.Decimal       `json:"total_hours"`
}

// NewPunchedOutEvent creates a PunchedOutEvent. s must be closed.
func NewPunchedOutEvent(s *Session) *PunchedOutEvent {
	return &PunchedOutEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePunchedOut, AggregateTypeSession, s.ID, s.UserID, *s.PunchOut),
		SessionID:       s.ID,
		WorkDate:        s.WorkDate,
		PunchOut:        *s.PunchOut,
		TotalHours:      *s.TotalHours,
	}
}

// AutoClosedEvent is raised when the system punches out an abandoned session
type AutoClosedEvent struct {
	shared.BaseDomainEvent
	SessionID  uuid.UUID             `json:"session_id"`
	WorkDate   valueobject.CivilDate `json:"work_date"`
	PunchOut   time.Time             `json:"punch_out"`
	TotalHours decimal.Decimal       `json:"total_hours"`
}

// NewAutoClosedEvent creates an AutoClosedEvent. s must be closed.
func NewAutoClosedEvent(s *Session) *AutoClosedEvent {
	return &AutoClosedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAutoClosed, AggregateTypeSession, s.ID, s.UserID, *s.PunchOut),
		SessionID:       s.ID,
		WorkDate:        s.WorkDate,
		PunchOut:        *s.PunchOut,
		TotalHours:      *s.TotalHours,
	}
}
