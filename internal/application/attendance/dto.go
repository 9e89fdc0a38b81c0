package attendance

import (
	"time"

	"github.com/google/uuid"
	"github.com/hrms/backend/internal/domain/attendance"
	"github.com/hrms/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// PunchInRequest represents a request to start the day
type PunchInRequest struct {
	WorkMode string `json:"work_mode" binding:"omitempty,workmode"`
	Notes    string `json:"notes" binding:"max=1000"`
}

// PunchOutRequest represents a request to end the day
type PunchOutRequest struct {
	Notes string `json:"notes" binding:"max=1000"`
}

// HistoryQuery is the date range for the history view
type HistoryQuery struct {
	From string `form:"from" binding:"required"`
	To   string `form:"to" binding:"required"`
}

// BreakResponse represents a break in API responses
type BreakResponse struct {
	ID              uuid.UUID  `json:"id"`
	StartTime       time.Time  `json:"start_time"`
	EndTime         *time.Time `json:"end_time,omitempty"`
	DurationSeconds int64      `json:"duration_seconds"`
}

// SessionResponse represents an attendance session in API responses
type SessionResponse struct {
	ID         uuid.UUID             `json:"id"`
	UserID     uuid.UUID             `json:"user_id"`
	WorkDate   valueobject.CivilDate `json:"work_date"`
	PunchIn    time.Time             `json:"punch_in"`
	PunchOut   *time.Time            `json:"punch_out,omitempty"`
	Status     string                `json:"status"`
	WorkMode   string                `json:"work_mode"`
	TotalHours *decimal.Decimal      `json:"total_hours,omitempty"`
	Notes      string                `json:"notes"`
	Breaks     []BreakResponse       `json:"breaks,omitempty"`
	Timesheet  *attendance.Timesheet `json:"timesheet,omitempty"`
}

// StatusResponse is the reconciled view of a user's day
type StatusResponse struct {
	Status     string                `json:"status"`
	Today      valueobject.CivilDate `json:"today"`
	ServerTime time.Time             `json:"server_time"`
	Session    *SessionResponse      `json:"session,omitempty"`
	// AutoClosed is set when this read closed a session left open on an earlier day
	AutoClosed *SessionResponse `json:"auto_closed,omitempty"`
}

// BreakActionResponse is returned by StartBreak and ResumeWork
type BreakActionResponse struct {
	Resumed bool           `json:"resumed"`
	Break   *BreakResponse `json:"break,omitempty"`
}

// StreakResponse is the current attendance streak
type StreakResponse struct {
	Days  int                   `json:"days"`
	Today valueobject.CivilDate `json:"today"`
}

// SweepResult reports a stale-session sweep.
// BreaksClosed counts breaks left open on punched-out sessions.
type SweepResult struct {
	Scanned      int   `json:"scanned"`
	Closed       int   `json:"closed"`
	Failed       int   `json:"failed"`
	BreaksClosed int64 `json:"breaks_closed"`
}

// ToSessionResponse converts a domain session to a response DTO
func ToSessionResponse(s *attendance.Session) SessionResponse {
	return SessionResponse{
		ID:         s.ID,
		UserID:     s.UserID,
		WorkDate:   s.WorkDate,
		PunchIn:    s.PunchIn,
		PunchOut:   s.PunchOut,
		Status:     string(s.Status),
		WorkMode:   string(s.WorkMode),
		TotalHours: s.TotalHours,
		Notes:      s.Notes,
	}
}

// ToBreakResponse converts a domain break to a response DTO
func ToBreakResponse(b *attendance.BreakInterval, now time.Time) BreakResponse {
	return BreakResponse{
		ID:              b.ID,
		StartTime:       b.StartTime,
		EndTime:         b.EndTime,
		DurationSeconds: int64(b.Duration(now) / time.Second),
	}
}

// toDetailedSessionResponse attaches the current punch-in's breaks and the
// timesheet projection
func toDetailedSessionResponse(s *attendance.Session, breaks []attendance.BreakInterval, now time.Time) SessionResponse {
	resp := ToSessionResponse(s)
	breaks = s.CurrentBreaks(breaks)
	resp.Breaks = make([]BreakResponse, len(breaks))
	for i := range breaks {
		resp.Breaks[i] = ToBreakResponse(&breaks[i], now)
	}
	ts := attendance.ComputeTimesheet(s, breaks, now)
	resp.Timesheet = &ts
	return resp
}
