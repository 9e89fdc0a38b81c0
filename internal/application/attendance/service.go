package attendance

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/hrms/backend/internal/domain/attendance"
	"github.com/hrms/backend/internal/domain/shared"
	"github.com/hrms/backend/internal/domain/shared/valueobject"
	"github.com/hrms/backend/internal/domain/standup"
	"github.com/hrms/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// maxHistoryDays bounds the history range a single request may ask for
const maxHistoryDays = 366

// Config holds attendance behavior switches
type Config struct {
	// SubtractBreaks records net hours (worked minus breaks) on punch-out
	// instead of gross hours
	SubtractBreaks bool
	// SweepBatchSize caps how many stale sessions one sweep closes
	SweepBatchSize int
}

// Service is the attendance controller. Every mutation runs inside a
// transaction scope; the database constraints are the final arbiter for
// concurrent requests.
type Service struct {
	sessions       attendance.SessionRepository
	breaks         attendance.BreakRepository
	txScope        TransactionScope
	calendar       *attendance.Calendar
	cfg            Config
	now            func() time.Time
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewService creates a new attendance Service
func NewService(
	sessions attendance.SessionRepository,
	breaks attendance.BreakRepository,
	txScope TransactionScope,
	calendar *attendance.Calendar,
	cfg Config,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.SweepBatchSize <= 0 {
		cfg.SweepBatchSize = 500
	}
	return &Service{
		sessions: sessions,
		breaks:   breaks,
		txScope:  txScope,
		calendar: calendar,
		cfg:      cfg,
		now:      time.Now,
		logger:   logger,
	}
}

// SetEventPublisher sets the event publisher for activity logging and dashboard invalidation
func (s *Service) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetClock overrides the time source
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Calendar returns the organizational calendar the service buckets days with
func (s *Service) Calendar() *attendance.Calendar {
	return s.calendar
}

// PunchIn starts the user's day. It fails with ALREADY_PUNCHED_IN when the
// user has any open session, whatever its date. Punching in again after
// punching out on the same day reopens that day's row.
func (s *Service) PunchIn(ctx context.Context, userID uuid.UUID, req PunchInRequest) (_ *SessionResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "attendance", "punch_in")
	defer func() {
		telemetry.RecordError(span, err)
		span.End()
	}()
	telemetry.SetAttributes(span, telemetry.SpanAttrUserID, userID.String())

	mode, err := attendance.ParseWorkMode(req.WorkMode)
	if err != nil {
		return nil, err
	}

	now := s.now()
	today := s.calendar.DateOf(now)

	var stored *attendance.Session
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		open, err := findOptional(repos.Sessions().FindLatestOpen(ctx, userID))
		if err != nil {
			return err
		}
		if open != nil {
			return attendance.ErrAlreadyPunchedIn
		}

		// A break left open at the earlier punch-out ends there
		earlier, err := findOptional(repos.Sessions().FindByUserAndDate(ctx, userID, today))
		if err != nil {
			return err
		}
		if earlier != nil && !earlier.IsOpen() {
			if _, err := repos.Breaks().EndOpen(ctx, earlier.ID, *earlier.PunchOut); err != nil {
				return err
			}
		}

		candidate, err := attendance.NewSession(userID, today, now, mode, req.Notes)
		if err != nil {
			return err
		}
		stored, err = repos.Sessions().Open(ctx, candidate)
		if err != nil {
			return err
		}

		if _, err := repos.Standups().EnsureShell(ctx, standup.NewShell(userID, today, now)); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	telemetry.SetAttributes(span,
		telemetry.SpanAttrSessionID, stored.ID.String(),
		telemetry.SpanAttrWorkDate, stored.WorkDate.String(),
		telemetry.SpanAttrWorkMode, stored.WorkMode.String(),
	)

	// The stored row may carry the id of a reopened session
	stored.AddDomainEvent(attendance.NewPunchedInEvent(stored))
	s.publish(ctx, stored)

	s.logger.Info("Punched in",
		zap.String("user_id", userID.String()),
		zap.String("session_id", stored.ID.String()),
		zap.String("work_date", stored.WorkDate.String()),
		zap.String("work_mode", stored.WorkMode.String()),
	)

	resp := toDetailedSessionResponse(stored, nil, now)
	return &resp, nil
}

// StartBreak opens a break on the user's open session
func (s *Service) StartBreak(ctx context.Context, userID uuid.UUID) (*BreakActionResponse, error) {
	now := s.now()

	var (
		session *attendance.Session
		started *attendance.BreakInterval
	)
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		session, err = s.requireOpen(ctx, repos, userID, attendance.ErrNoActiveSession)
		if err != nil {
			return err
		}

		open, err := s.currentOpenBreak(ctx, repos, session)
		if err != nil {
			return err
		}
		started, err = session.StartBreak(now, open != nil)
		if err != nil {
			return err
		}
		return repos.Breaks().Create(ctx, started)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, session)

	resp := ToBreakResponse(started, now)
	return &BreakActionResponse{Break: &resp}, nil
}

// ResumeWork ends the most recent open break. Without an open break it is a
// successful no-op that reports resumed=false.
func (s *Service) ResumeWork(ctx context.Context, userID uuid.UUID) (*BreakActionResponse, error) {
	now := s.now()

	var (
		session *attendance.Session
		ended   *attendance.BreakInterval
	)
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		session, err = s.requireOpen(ctx, repos, userID, attendance.ErrNoActiveSession)
		if err != nil {
			return err
		}

		ended, err = s.currentOpenBreak(ctx, repos, session)
		if err != nil || ended == nil {
			return err
		}
		if err := session.ResumeWork(ended, now); err != nil {
			return err
		}
		return repos.Breaks().End(ctx, ended)
	})
	if err != nil {
		return nil, err
	}
	if ended == nil {
		return &BreakActionResponse{Resumed: false}, nil
	}

	s.publish(ctx, session)

	resp := ToBreakResponse(ended, now)
	return &BreakActionResponse{Resumed: true, Break: &resp}, nil
}

// PunchOut closes the user's most recent open session. An open break stays
// open; its running time still counts in the timesheet up to punch-out.
func (s *Service) PunchOut(ctx context.Context, userID uuid.UUID, req PunchOutRequest) (_ *SessionResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "attendance", "punch_out")
	defer func() {
		telemetry.RecordError(span, err)
		span.End()
	}()
	telemetry.SetAttributes(span, telemetry.SpanAttrUserID, userID.String())

	now := s.now()

	var (
		session *attendance.Session
		breaks  []attendance.BreakInterval
	)
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		session, err = s.requireOpen(ctx, repos, userID, attendance.ErrNoOpenSession)
		if err != nil {
			return err
		}

		breaks, err = repos.Breaks().FindBySession(ctx, session.ID)
		if err != nil {
			return err
		}
		if err := session.PunchOutAt(now, s.deduction(session, breaks, now), req.Notes); err != nil {
			return err
		}
		return repos.Sessions().Close(ctx, session)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, session)

	s.logger.Info("Punched out",
		zap.String("user_id", userID.String()),
		zap.String("session_id", session.ID.String()),
		zap.String("total_hours", session.TotalHours.String()),
	)

	resp := toDetailedSessionResponse(session, breaks, now)
	return &resp, nil
}

// GetStatus reconciles the stored rows into the user's display state. An
// open session left over from an earlier day is auto-closed first, so the
// same rows always yield the same status.
func (s *Service) GetStatus(ctx context.Context, userID uuid.UUID) (*StatusResponse, error) {
	now := s.now()
	today := s.calendar.DateOf(now)
	resp := &StatusResponse{Today: today, ServerTime: now}

	open, err := findOptional(s.sessions.FindLatestOpen(ctx, userID))
	if err != nil {
		return nil, err
	}

	if open != nil && open.IsStale(today) {
		closed, breaks, err := s.AutoClose(ctx, open)
		if err != nil {
			return nil, err
		}
		if closed != nil {
			detail := toDetailedSessionResponse(closed, breaks, now)
			resp.AutoClosed = &detail
		}
		open = nil
	}

	snap := attendance.StatusSnapshot{Today: today, Open: open}
	shown := open
	if open == nil {
		todays, err := findOptional(s.sessions.FindByUserAndDate(ctx, userID, today))
		if err != nil {
			return nil, err
		}
		snap.TodaySession = todays
		shown = todays
	}

	var breaks []attendance.BreakInterval
	if shown != nil {
		breaks, err = s.breaks.FindBySession(ctx, shown.ID)
		if err != nil {
			return nil, err
		}
		if open != nil {
			snap.OpenBreak = attendance.OpenBreak(open.CurrentBreaks(breaks)) != nil
		}
		detail := toDetailedSessionResponse(shown, breaks, now)
		resp.Session = &detail
	}

	resp.Status = attendance.DeriveStatus(snap).String()
	return resp, nil
}

// AutoClose punches out a session left open past its own day at 23:55 local
// time on that day, force-closing any open break at the same instant. It
// returns a nil session when another request closed the row first.
func (s *Service) AutoClose(ctx context.Context, session *attendance.Session) (*attendance.Session, []attendance.BreakInterval, error) {
	at := s.calendar.AutoCloseInstant(session.WorkDate)
	if at.Before(session.PunchIn) {
		at = session.PunchIn
	}

	var breaks []attendance.BreakInterval
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		breaks, err = repos.Breaks().FindBySession(ctx, session.ID)
		if err != nil {
			return err
		}
		for i := range breaks {
			if !breaks[i].IsOpen() {
				continue
			}
			if err := breaks[i].End(at); err != nil {
				return err
			}
			if err := repos.Breaks().End(ctx, &breaks[i]); err != nil {
				return err
			}
		}

		if err := session.AutoClose(at, s.deduction(session, breaks, at)); err != nil {
			return err
		}
		return repos.Sessions().Close(ctx, session)
	})
	if errors.Is(err, attendance.ErrNoOpenSession) {
		session.ClearDomainEvents()
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}

	s.publish(ctx, session)

	s.logger.Info("Auto-closed stale session",
		zap.String("user_id", session.UserID.String()),
		zap.String("session_id", session.ID.String()),
		zap.String("work_date", session.WorkDate.String()),
	)
	return session, breaks, nil
}

// SweepStale auto-closes every open session dated before today
func (s *Service) SweepStale(ctx context.Context) (*SweepResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "attendance", "sweep_stale")
	defer span.End()

	today := s.calendar.DateOf(s.now())

	stale, err := s.sessions.FindStaleOpen(ctx, today, s.cfg.SweepBatchSize)
	if err != nil {
		return nil, err
	}

	result := &SweepResult{Scanned: len(stale)}
	var errs []error
	for i := range stale {
		closed, _, err := s.AutoClose(ctx, &stale[i])
		if err != nil {
			result.Failed++
			errs = append(errs, err)
			s.logger.Warn("Failed to auto-close stale session",
				zap.String("session_id", stale[i].ID.String()),
				zap.Error(err),
			)
			continue
		}
		if closed != nil {
			result.Closed++
		}
	}

	dangling, err := s.breaks.EndDangling(ctx)
	if err != nil {
		errs = append(errs, err)
		s.logger.Warn("Failed to end breaks left open at punch-out", zap.Error(err))
	}
	result.BreaksClosed = dangling

	telemetry.SetAttributes(span,
		"scanned", result.Scanned,
		"closed", result.Closed,
		"failed", result.Failed,
		"breaks_closed", result.BreaksClosed,
	)
	return result, errors.Join(errs...)
}

// History returns the user's sessions with from <= work_date <= to
func (s *Service) History(ctx context.Context, userID uuid.UUID, query HistoryQuery) ([]SessionResponse, error) {
	from, err := valueobject.ParseCivilDate(query.From)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "from must be a date in YYYY-MM-DD format")
	}
	to, err := valueobject.ParseCivilDate(query.To)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "to must be a date in YYYY-MM-DD format")
	}
	if to.Before(from) {
		return nil, shared.NewDomainError("INVALID_INPUT", "from must not be after to")
	}
	if from.AddDays(maxHistoryDays).Before(to) {
		return nil, shared.NewDomainError("INVALID_INPUT", "Date range cannot exceed one year")
	}

	sessions, err := s.sessions.FindByUserInRange(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	breaks, err := s.breaks.FindBySessions(ctx, sessionIDs(sessions))
	if err != nil {
		return nil, err
	}

	now := s.now()
	responses := make([]SessionResponse, len(sessions))
	for i := range sessions {
		responses[i] = toDetailedSessionResponse(&sessions[i], breaks[sessions[i].ID], now)
	}
	return responses, nil
}

// Streak returns the number of consecutive days with a session ending today,
// or yesterday when the user has not punched in yet today
func (s *Service) Streak(ctx context.Context, userID uuid.UUID) (*StreakResponse, error) {
	today := s.calendar.DateOf(s.now())
	dates, err := s.sessions.ListWorkDates(ctx, userID, today.AddDays(-maxHistoryDays))
	if err != nil {
		return nil, err
	}
	return &StreakResponse{Days: attendance.ComputeStreak(dates, today), Today: today}, nil
}

// MonthlySummary aggregates the user's sessions for a YYYY-MM month
func (s *Service) MonthlySummary(ctx context.Context, userID uuid.UUID, month string) (*attendance.MonthlySummary, error) {
	ym, err := valueobject.ParseYearMonth(month)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "month must be in YYYY-MM format")
	}

	sessions, err := s.sessions.FindByUserInRange(ctx, userID, ym.FirstDay(), ym.LastDay())
	if err != nil {
		return nil, err
	}
	breaks, err := s.breaks.FindBySessions(ctx, sessionIDs(sessions))
	if err != nil {
		return nil, err
	}

	summary := attendance.SummarizeMonth(ym, sessions, breaks)
	return &summary, nil
}

func (s *Service) requireOpen(ctx context.Context, repos TransactionalRepositories, userID uuid.UUID, missing error) (*attendance.Session, error) {
	session, err := findOptional(repos.Sessions().FindLatestOpen(ctx, userID))
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, missing
	}
	return session, nil
}

// currentOpenBreak returns the session's open break. An open break that
// predates the current punch-in is ended at the punch-in and not returned.
func (s *Service) currentOpenBreak(ctx context.Context, repos TransactionalRepositories, session *attendance.Session) (*attendance.BreakInterval, error) {
	open, err := findOptional(repos.Breaks().FindLatestOpen(ctx, session.ID))
	if err != nil || open == nil {
		return nil, err
	}
	if session.OwnsBreak(open) {
		return open, nil
	}
	if _, err := repos.Breaks().EndOpen(ctx, session.ID, session.PunchIn); err != nil {
		return nil, err
	}
	return nil, nil
}

func (s *Service) deduction(session *attendance.Session, breaks []attendance.BreakInterval, at time.Time) time.Duration {
	if !s.cfg.SubtractBreaks {
		return 0
	}
	return attendance.TotalBreakTime(session.CurrentBreaks(breaks), at)
}

// publish dispatches pending events. Delivery failures are logged and never
// fail the committed operation.
func (s *Service) publish(ctx context.Context, aggregate shared.AggregateRoot) {
	if err := shared.PublishAndClear(ctx, s.eventPublisher, aggregate); err != nil {
		s.logger.Warn("Failed to publish attendance events", zap.Error(err))
	}
}

// findOptional turns ErrNotFound into a nil result
func findOptional[T any](v *T, err error) (*T, error) {
	if errors.Is(err, shared.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

func sessionIDs(sessions []attendance.Session) []uuid.UUID {
	ids := make([]uuid.UUID, len(sessions))
	for i := range sessions {
		ids[i] = sessions[i].ID
	}
	return ids
}
