package attendance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hrms/backend/internal/domain/shared/valueobject"
)

// SessionRepository persists attendance sessions
type SessionRepository interface {
	// Open stores a freshly punched-in session with an atomic conditional
	// upsert on (user, work date). A completed session on the same day is
	// reopened in place; an open session anywhere yields ErrAlreadyPunchedIn.
	// The stored row is returned.
	Open(ctx context.Context, session *Session) (*Session, error)

	// FindByID finds a session by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Session, error)

	// FindLatestOpen returns the user's open session with the latest punch-in
	FindLatestOpen(ctx context.Context, userID uuid.UUID) (*Session, error)

	// FindByUserAndDate returns the user's session for a day
	FindByUserAndDate(ctx context.Context, userID uuid.UUID, date valueobject.CivilDate) (*Session, error)

	// FindByUserInRange returns sessions with from <= work_date <= to, oldest first
	FindByUserInRange(ctx context.Context, userID uuid.UUID, from, to valueobject.CivilDate) ([]Session, error)

	// FindStaleOpen returns open sessions dated before the given day
	FindStaleOpen(ctx context.Context, before valueobject.CivilDate, limit int) ([]Session, error)

	// ListWorkDates returns the user's distinct work dates on or after since, newest first
	ListWorkDates(ctx context.Context, userID uuid.UUID, since valueobject.CivilDate) ([]valueobject.CivilDate, error)

	// Close persists a punch-out. Only an open row is updated; a row closed
	// concurrently yields ErrNoOpenSession.
	Close(ctx context.Context, session *Session) error
}

// BreakRepository persists break intervals
type BreakRepository interface {
	// Create stores a new open break. A second open break on the same
	// session yields ErrAlreadyOnBreak.
	Create(ctx context.Context, b *BreakInterval) error

	// FindLatestOpen returns the session's open break with the latest start
	FindLatestOpen(ctx context.Context, sessionID uuid.UUID) (*BreakInterval, error)

	// FindBySession returns the session's breaks ordered by start
	FindBySession(ctx context.Context, sessionID uuid.UUID) ([]BreakInterval, error)

	// FindBySessions groups the breaks of several sessions by session ID
	FindBySessions(ctx context.Context, sessionIDs []uuid.UUID) (map[uuid.UUID][]BreakInterval, error)

	// End persists the end time of a break
	End(ctx context.Context, b *BreakInterval) error

	// EndOpen ends every open break of the session at the given instant and
	// returns how many were ended
	EndOpen(ctx context.Context, sessionID uuid.UUID, at time.Time) (int64, error)

	// EndDangling ends open breaks of punched-out sessions at their
	// session's punch-out and returns how many were ended
	EndDangling(ctx context.Context) (int64, error)
}
