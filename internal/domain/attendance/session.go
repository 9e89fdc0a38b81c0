package attendance

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hrms/backend/internal/domain/shared"
	"github.com/hrms/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// AutoCloseMarker is appended to the notes of a session closed by the system
const AutoCloseMarker = "[System: Auto Punch-out]"

// SessionStatus is the stored status tag of a session row
type SessionStatus string

const (
	SessionStatusPresent SessionStatus = "present"
)

// WorkMode records where the employee worked from
type WorkMode string

const (
	WorkModeOffice WorkMode = "office"
	WorkModeHome   WorkMode = "home"
)

// IsValid checks if the work mode is known
func (m WorkMode) IsValid() bool {
	switch m {
	case WorkModeOffice, WorkModeHome:
		return true
	}
	return false
}

// String returns the string representation of WorkMode
func (m WorkMode) String() string {
	return string(m)
}

// ParseWorkMode parses user input, defaulting to office when empty
func ParseWorkMode(s string) (WorkMode, error) {
	if s == "" {
		return WorkModeOffice, nil
	}
	mode := WorkMode(strings.ToLower(strings.TrimSpace(s)))
	if !mode.IsValid() {
		return "", ErrInvalidWorkMode
	}
	return mode, nil
}

// Session is one employee's attendance for one organizational calendar day.
// A session is open while PunchOut is nil; a user has at most one open
// session at any time, across all dates.
type Session struct {
	shared.UserAggregateRoot
	WorkDate   valueobject.CivilDate
	PunchIn    time.Time
	PunchOut   *time.Time
	Status     SessionStatus
	WorkMode   WorkMode
	TotalHours *decimal.Decimal
	Notes      string
}

// NewSession opens a session for userID on workDate at punchIn
func NewSession(userID uuid.UUID, workDate valueobject.CivilDate, punchIn time.Time, mode WorkMode, notes string) (*Session, error) {
	if userID == uuid.Nil {
		return nil, shared.ErrNotAuthenticated
	}
	if workDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATE", "Work date cannot be empty")
	}
	if !mode.IsValid() {
		return nil, ErrInvalidWorkMode
	}

	s := &Session{
		UserAggregateRoot: shared.NewUserAggregateRoot(userID, punchIn),
		WorkDate:          workDate,
		PunchIn:           punchIn,
		Status:            SessionStatusPresent,
		WorkMode:          mode,
		Notes:             strings.TrimSpace(notes),
	}
	s.AddDomainEvent(NewPunchedInEvent(s))
	return s, nil
}

// IsOpen reports whether the session has not been punched out
func (s *Session) IsOpen() bool {
	return s.PunchOut == nil
}

// IsStale reports whether the session is still open after its own day ended
func (s *Session) IsStale(today valueobject.CivilDate) bool {
	return s.IsOpen() && s.WorkDate.Before(today)
}

// OwnsBreak reports whether b belongs to the session's current punch-in.
// Breaks taken before a same-day reopen stay on the row but started before
// the current PunchIn.
func (s *Session) OwnsBreak(b *BreakInterval) bool {
	return b != nil && !b.StartTime.Before(s.PunchIn)
}

// CurrentBreaks returns the breaks taken since the current punch-in
func (s *Session) CurrentBreaks(breaks []BreakInterval) []BreakInterval {
	current := make([]BreakInterval, 0, len(breaks))
	for i := range breaks {
		if s.OwnsBreak(&breaks[i]) {
			current = append(current, breaks[i])
		}
	}
	return current
}

// StartBreak opens a break on the session. hasOpenBreak tells whether the
// session already has a break without an end time.
func (s *Session) StartBreak(at time.Time, hasOpenBreak bool) (*BreakInterval, error) {
	if !s.IsOpen() {
		return nil, ErrNoActiveSession
	}
	if hasOpenBreak {
		return nil, ErrAlreadyOnBreak
	}

	b := &BreakInterval{
		BaseEntity: shared.NewBaseEntityAt(at),
		SessionID:  s.ID,
		UserID:     s.UserID,
		StartTime:  at,
	}
	s.AddDomainEvent(NewBreakStartedEvent(s, b))
	return b, nil
}

// ResumeWork ends the given open break
func (s *Session) ResumeWork(b *BreakInterval, at time.Time) error {
	if !s.IsOpen() {
		return ErrNoActiveSession
	}
	if b.SessionID != s.ID {
		return shared.NewDomainError("BREAK_SESSION_MISMATCH", "Break does not belong to this session")
	}
	if err := b.End(at); err != nil {
		return err
	}
	s.AddDomainEvent(NewWorkResumedEvent(s, b))
	return nil
}

// PunchOutAt closes the session at the given instant. deduct is subtracted from
// the worked duration before converting to hours; pass zero to record gross
// hours. An open break is left untouched.
func (s *Session) PunchOutAt(at time.Time, deduct time.Duration, notes string) error {
	if !s.IsOpen() {
		return ErrNoOpenSession
	}
	s.close(at, deduct)
	if notes = strings.TrimSpace(notes); notes != "" {
		s.appendNote(notes)
	}
	s.AddDomainEvent(NewPunchedOutEvent(s))
	return nil
}

// AutoClose punches out an abandoned session at the given synthetic instant
// (23:55 on the session's own day) and marks the notes.
func (s *Session) AutoClose(at time.Time, deduct time.Duration) error {
	if !s.IsOpen() {
		return ErrNoOpenSession
	}
	s.close(at, deduct)
	s.appendNote(AutoCloseMarker)
	s.AddDomainEvent(NewAutoClosedEvent(s))
	return nil
}

func (s *Session) close(at time.Time, deduct time.Duration) {
	out := at
	hours := ComputeTotalHours(s.PunchIn, out, deduct)
	s.PunchOut = &out
	s.TotalHours = &hours
	s.Touch(at)
}

func (s *Session) appendNote(note string) {
	if s.Notes == "" {
		s.Notes = note
		return
	}
	s.Notes = s.Notes + " " + note
}

// ComputeTotalHours returns (out - in - deduct) in hours, floored at zero and
// rounded to two decimal places.
func ComputeTotalHours(in, out time.Time, deduct time.Duration) decimal.Decimal {
	worked := out.Sub(in) - deduct
	if worked <= 0 {
		return decimal.Zero.Round(2)
	}
	return decimal.NewFromInt(int64(worked)).
		Div(decimal.NewFromInt(int64(time.Hour))).
		Round(2)
}
