package standup

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/hrms/backend/internal/domain/attendance"
	"github.com/hrms/backend/internal/domain/shared"
	"github.com/hrms/backend/internal/domain/shared/valueobject"
	"github.com/hrms/backend/internal/domain/standup"
	"go.uber.org/zap"
)

// SubmitRequest represents a request to fill in a daily standup
type SubmitRequest struct {
	// Date defaults to today in the organizational timezone
	Date      string `json:"date"`
	Yesterday string `json:"yesterday" binding:"max=4000"`
	Today     string `json:"today" binding:"required,max=4000"`
	Blockers  string `json:"blockers" binding:"max=4000"`
}

// StandupResponse represents a standup in API responses
type StandupResponse struct {
	ID          uuid.UUID             `json:"id"`
	UserID      uuid.UUID             `json:"user_id"`
	WorkDate    valueobject.CivilDate `json:"work_date"`
	Yesterday   string                `json:"yesterday"`
	Today       string                `json:"today"`
	Blockers    string                `json:"blockers"`
	Submitted   bool                  `json:"submitted"`
	SubmittedAt *time.Time            `json:"submitted_at,omitempty"`
}

// ToStandupResponse converts a domain standup to a response DTO
func ToStandupResponse(s *standup.Standup) StandupResponse {
	return StandupResponse{
		ID:          s.ID,
		UserID:      s.UserID,
		WorkDate:    s.WorkDate,
		Yesterday:   s.Yesterday,
		Today:       s.Today,
		Blockers:    s.Blockers,
		Submitted:   s.IsSubmitted(),
		SubmittedAt: s.SubmittedAt,
	}
}

// Service manages daily standups
type Service struct {
	repo     standup.Repository
	calendar *attendance.Calendar
	now      func() time.Time
	logger   *zap.Logger
}

// NewService creates a new standup Service
func NewService(repo standup.Repository, calendar *attendance.Calendar, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, calendar: calendar, now: time.Now, logger: logger}
}

// SetClock overrides the time source
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Submit fills in the user's standup for a day, creating the row when the
// user never punched in that day
func (s *Service) Submit(ctx context.Context, userID uuid.UUID, req SubmitRequest) (*StandupResponse, error) {
	now := s.now()
	date, err := s.resolveDate(req.Date, now)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.EnsureShell(ctx, standup.NewShell(userID, date, now)); err != nil {
		return nil, err
	}
	st, err := s.repo.FindByUserAndDate(ctx, userID, date)
	if err != nil {
		return nil, err
	}
	if err := st.Submit(req.Yesterday, req.Today, req.Blockers, now); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, st); err != nil {
		return nil, err
	}

	s.logger.Info("Standup submitted",
		zap.String("user_id", userID.String()),
		zap.String("work_date", date.String()),
	)
	resp := ToStandupResponse(st)
	return &resp, nil
}

// Get returns the user's standup for a day. A day without a row yields an
// empty unsubmitted standup.
func (s *Service) Get(ctx context.Context, userID uuid.UUID, date string) (*StandupResponse, error) {
	now := s.now()
	day, err := s.resolveDate(date, now)
	if err != nil {
		return nil, err
	}

	st, err := s.repo.FindByUserAndDate(ctx, userID, day)
	if errors.Is(err, shared.ErrNotFound) {
		resp := StandupResponse{UserID: userID, WorkDate: day}
		return &resp, nil
	}
	if err != nil {
		return nil, err
	}
	resp := ToStandupResponse(st)
	return &resp, nil
}

// ListForDate returns every standup row for a day
func (s *Service) ListForDate(ctx context.Context, date string) ([]StandupResponse, error) {
	day, err := s.resolveDate(date, s.now())
	if err != nil {
		return nil, err
	}
	standups, err := s.repo.FindByDate(ctx, day)
	if err != nil {
		return nil, err
	}
	out := make([]StandupResponse, len(standups))
	for i := range standups {
		out[i] = ToStandupResponse(&standups[i])
	}
	return out, nil
}

func (s *Service) resolveDate(raw string, now time.Time) (valueobject.CivilDate, error) {
	if raw == "" {
		return s.calendar.DateOf(now), nil
	}
	d, err := valueobject.ParseCivilDate(raw)
	if err != nil {
		return valueobject.CivilDate{}, shared.NewDomainError("INVALID_INPUT", "date must be in YYYY-MM-DD format")
	}
	return d, nil
}
