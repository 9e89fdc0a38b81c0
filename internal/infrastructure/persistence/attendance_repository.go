package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/hrms/backend/internal/domain/attendance"
	"github.com/hrms/backend/internal/domain/shared"
	"github.com/hrms/backend/internal/domain/shared/valueobject"
	"github.com/hrms/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSessionRepository implements attendance.SessionRepository using GORM
type GormSessionRepository struct {
	db *gorm.DB
}

// NewGormSessionRepository creates a new GormSessionRepository
func NewGormSessionRepository(db *gorm.DB) *GormSessionRepository {
	return &GormSessionRepository{db: db}
}

// reopenNotesSQL keeps the day's notes and appends the new punch-in's notes
const reopenNotesSQL = `CASE
	WHEN excluded.notes = '' THEN attendance.notes
	WHEN attendance.notes = '' THEN excluded.notes
	ELSE attendance.notes || ' ' || excluded.notes
END`

// Open inserts the session, or reopens the user's completed session for the
// same day. The DO UPDATE only fires when the existing row is closed, so an
// open row for the day leaves zero rows affected; an open row on another day
// trips the partial unique index. Both surface as ErrAlreadyPunchedIn.
func (r *GormSessionRepository) Open(ctx context.Context, session *attendance.Session) (*attendance.Session, error) {
	model := models.AttendanceSessionModelFromDomain(session)

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "work_date"}},
			DoUpdates: append(clause.AssignmentColumns([]string{
				"punch_in", "punch_out", "total_hours", "work_mode", "status", "updated_at",
			}), clause.Assignment{Column: clause.Column{Name: "notes"}, Value: gorm.Expr(reopenNotesSQL)}),
			Where: clause.Where{Exprs: []clause.Expression{
				clause.Expr{SQL: "attendance.punch_out IS NOT NULL"},
			}},
		}).
		Create(model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return nil, attendance.ErrAlreadyPunchedIn
		}
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, attendance.ErrAlreadyPunchedIn
	}

	return r.FindByUserAndDate(ctx, session.UserID, session.WorkDate)
}

// FindByID finds a session by ID
func (r *GormSessionRepository) FindByID(ctx context.Context, id uuid.UUID) (*attendance.Session, error) {
	var model models.AttendanceSessionModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return model.ToDomain(), nil
}

// FindLatestOpen returns the user's open session with the latest punch-in
func (r *GormSessionRepository) FindLatestOpen(ctx context.Context, userID uuid.UUID) (*attendance.Session, error) {
	var model models.AttendanceSessionModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND punch_out IS NULL", userID).
		Order("punch_in DESC").
		First(&model).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return model.ToDomain(), nil
}

// FindByUserAndDate returns the user's session for a day
func (r *GormSessionRepository) FindByUserAndDate(ctx context.Context, userID uuid.UUID, date valueobject.CivilDate) (*attendance.Session, error) {
	var model models.AttendanceSessionModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND work_date = ?", userID, date).
		First(&model).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return model.ToDomain(), nil
}

// FindByUserInRange returns sessions with from <= work_date <= to, oldest first
func (r *GormSessionRepository) FindByUserInRange(ctx context.Context, userID uuid.UUID, from, to valueobject.CivilDate) ([]attendance.Session, error) {
	var sessionModels []models.AttendanceSessionModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND work_date >= ? AND work_date <= ?", userID, from, to).
		Order("work_date ASC").
		Find(&sessionModels).Error; err != nil {
		return nil, err
	}
	return sessionsToDomain(sessionModels), nil
}

// FindStaleOpen returns open sessions dated before the given day, oldest punch-in first
func (r *GormSessionRepository) FindStaleOpen(ctx context.Context, before valueobject.CivilDate, limit int) ([]attendance.Session, error) {
	var sessionModels []models.AttendanceSessionModel
	query := r.db.WithContext(ctx).
		Where("punch_out IS NULL AND work_date < ?", before).
		Order("punch_in ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&sessionModels).Error; err != nil {
		return nil, err
	}
	return sessionsToDomain(sessionModels), nil
}

// ListWorkDates returns the user's work dates on or after since, newest first
func (r *GormSessionRepository) ListWorkDates(ctx context.Context, userID uuid.UUID, since valueobject.CivilDate) ([]valueobject.CivilDate, error) {
	var dates []valueobject.CivilDate
	if err := r.db.WithContext(ctx).
		Model(&models.AttendanceSessionModel{}).
		Where("user_id = ? AND work_date >= ?", userID, since).
		Order("work_date DESC").
		Pluck("work_date", &dates).Error; err != nil {
		return nil, err
	}
	return dates, nil
}

// Close persists a punch-out on a still-open row
func (r *GormSessionRepository) Close(ctx context.Context, session *attendance.Session) error {
	if session.PunchOut == nil {
		return shared.NewDomainError("INVALID_STATE", "Session has no punch-out to persist")
	}

	result := r.db.WithContext(ctx).
		Model(&models.AttendanceSessionModel{}).
		Where("id = ? AND punch_out IS NULL", session.ID).
		Updates(map[string]any{
			"punch_out":   session.PunchOut.UTC(),
			"total_hours": session.TotalHours,
			"notes":       session.Notes,
			"updated_at":  session.UpdatedAt.UTC(),
			"version":     gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return attendance.ErrNoOpenSession
	}
	session.IncrementVersion()
	return nil
}

func sessionsToDomain(sessionModels []models.AttendanceSessionModel) []attendance.Session {
	sessions := make([]attendance.Session, len(sessionModels))
	for i := range sessionModels {
		sessions[i] = *sessionModels[i].ToDomain()
	}
	return sessions
}

func translateNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}
	return err
}

// GormBreakRepository implements attendance.BreakRepository using GORM
type GormBreakRepository struct {
	db *gorm.DB
}

// NewGormBreakRepository creates a new GormBreakRepository
func NewGormBreakRepository(db *gorm.DB) *GormBreakRepository {
	return &GormBreakRepository{db: db}
}

// Create stores a new open break
func (r *GormBreakRepository) Create(ctx context.Context, b *attendance.BreakInterval) error {
	if err := r.db.WithContext(ctx).Create(models.AttendanceBreakModelFromDomain(b)).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return attendance.ErrAlreadyOnBreak
		}
		return err
	}
	return nil
}

// FindLatestOpen returns the session's open break with the latest start
func (r *GormBreakRepository) FindLatestOpen(ctx context.Context, sessionID uuid.UUID) (*attendance.BreakInterval, error) {
	var model models.AttendanceBreakModel
	if err := r.db.WithContext(ctx).
		Where("attendance_id = ? AND end_time IS NULL", sessionID).
		Order("start_time DESC").
		First(&model).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return model.ToDomain(), nil
}

// FindBySession returns the session's breaks ordered by start
func (r *GormBreakRepository) FindBySession(ctx context.Context, sessionID uuid.UUID) ([]attendance.BreakInterval, error) {
	var breakModels []models.AttendanceBreakModel
	if err := r.db.WithContext(ctx).
		Where("attendance_id = ?", sessionID).
		Order("start_time ASC").
		Find(&breakModels).Error; err != nil {
		return nil, err
	}
	breaks := make([]attendance.BreakInterval, len(breakModels))
	for i := range breakModels {
		breaks[i] = *breakModels[i].ToDomain()
	}
	return breaks, nil
}

// FindBySessions groups the breaks of several sessions by session ID
func (r *GormBreakRepository) FindBySessions(ctx context.Context, sessionIDs []uuid.UUID) (map[uuid.UUID][]attendance.BreakInterval, error) {
	grouped := make(map[uuid.UUID][]attendance.BreakInterval, len(sessionIDs))
	if len(sessionIDs) == 0 {
		return grouped, nil
	}

	var breakModels []models.AttendanceBreakModel
	if err := r.db.WithContext(ctx).
		Where("attendance_id IN ?", sessionIDs).
		Order("start_time ASC").
		Find(&breakModels).Error; err != nil {
		return nil, err
	}
	for i := range breakModels {
		b := breakModels[i].ToDomain()
		grouped[b.SessionID] = append(grouped[b.SessionID], *b)
	}
	return grouped, nil
}

// End persists the end time of a still-open break
func (r *GormBreakRepository) End(ctx context.Context, b *attendance.BreakInterval) error {
	if b.EndTime == nil {
		return shared.NewDomainError("INVALID_STATE", "Break has no end time to persist")
	}

	result := r.db.WithContext(ctx).
		Model(&models.AttendanceBreakModel{}).
		Where("id = ? AND end_time IS NULL", b.ID).
		Updates(map[string]any{
			"end_time":   b.EndTime.UTC(),
			"updated_at": b.UpdatedAt.UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("BREAK_ALREADY_ENDED", "Break has already ended")
	}
	return nil
}

// EndOpen ends every open break of the session at the given instant
func (r *GormBreakRepository) EndOpen(ctx context.Context, sessionID uuid.UUID, at time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.AttendanceBreakModel{}).
		Where("attendance_id = ? AND end_time IS NULL", sessionID).
		Updates(map[string]any{
			"end_time":   at.UTC(),
			"updated_at": at.UTC(),
		})
	return result.RowsAffected, result.Error
}

// EndDangling ends open breaks whose session is already punched out, at
// that session's punch-out
func (r *GormBreakRepository) EndDangling(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.AttendanceBreakModel{}).
		Where("end_time IS NULL AND attendance_id IN (SELECT id FROM attendance WHERE punch_out IS NOT NULL)").
		Updates(map[string]any{
			"end_time":   gorm.Expr("(SELECT a.punch_out FROM attendance a WHERE a.id = attendance_breaks.attendance_id)"),
			"updated_at": time.Now().UTC(),
		})
	return result.RowsAffected, result.Error
}

// Ensure interfaces are implemented
var (
	_ attendance.SessionRepository = (*GormSessionRepository)(nil)
	_ attendance.BreakRepository   = (*GormBreakRepository)(nil)
)
