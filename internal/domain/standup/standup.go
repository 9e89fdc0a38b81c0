package standup

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hrms/backend/internal/domain/shared"
	"github.com/hrms/backend/internal/domain/shared/valueobject"
)

// ErrEmptyPlan is returned when a standup is submitted without a plan for today
var ErrEmptyPlan = shared.NewDomainError("EMPTY_STANDUP", "Today's plan cannot be empty")

// Standup is a user's daily standup note. An empty shell row is created when
// the user punches in and filled in later.
type Standup struct {
	shared.UserAggregateRoot
	WorkDate    valueobject.CivilDate
	Yesterday   string
	Today       string
	Blockers    string
	SubmittedAt *time.Time
}

// NewShell creates an unsubmitted standup for the day
func NewShell(userID uuid.UUID, workDate valueobject.CivilDate, at time.Time) *Standup {
	return &Standup{
		UserAggregateRoot: shared.NewUserAggregateRoot(userID, at),
		WorkDate:          workDate,
	}
}

// IsSubmitted reports whether the user has filled in the standup
func (s *Standup) IsSubmitted() bool {
	return s.SubmittedAt != nil
}

// Submit fills in the standup. Resubmitting overwrites the previous answers.
func (s *Standup) Submit(yesterday, today, blockers string, at time.Time) error {
	today = strings.TrimSpace(today)
	if today == "" {
		return ErrEmptyPlan
	}
	s.Yesterday = strings.TrimSpace(yesterday)
	s.Today = today
	s.Blockers = strings.TrimSpace(blockers)
	s.SubmittedAt = &at
	s.Touch(at)
	s.IncrementVersion()
	return nil
}

// Repository persists standups
type Repository interface {
	// EnsureShell inserts the row unless one exists for (user, date).
	// It reports whether a row was inserted.
	EnsureShell(ctx context.Context, s *Standup) (bool, error)
	FindByUserAndDate(ctx context.Context, userID uuid.UUID, date valueobject.CivilDate) (*Standup, error)
	FindByDate(ctx context.Context, date valueobject.CivilDate) ([]Standup, error)
	Save(ctx context.Context, s *Standup) error
}
