package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/hrms/backend/internal/domain/shared"
	"github.com/hrms/backend/internal/domain/shared/valueobject"
	"github.com/hrms/backend/internal/domain/standup"
	"github.com/hrms/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStandupRepository implements standup.Repository using GORM
type GormStandupRepository struct {
	db *gorm.DB
}

// NewGormStandupRepository creates a new GormStandupRepository
func NewGormStandupRepository(db *gorm.DB) *GormStandupRepository {
	return &GormStandupRepository{db: db}
}

// EnsureShell inserts an empty standup unless one exists for the user and day
func (r *GormStandupRepository) EnsureShell(ctx context.Context, s *standup.Standup) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "work_date"}},
			DoNothing: true,
		}).
		Create(models.DailyStandupModelFromDomain(s))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// FindByUserAndDate returns the user's standup for a day
func (r *GormStandupRepository) FindByUserAndDate(ctx context.Context, userID uuid.UUID, date valueobject.CivilDate) (*standup.Standup, error) {
	var model models.DailyStandupModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND work_date = ?", userID, date).
		First(&model).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return model.ToDomain(), nil
}

// FindByDate returns every standup for a day, earliest created first
func (r *GormStandupRepository) FindByDate(ctx context.Context, date valueobject.CivilDate) ([]standup.Standup, error) {
	var standupModels []models.DailyStandupModel
	if err := r.db.WithContext(ctx).
		Where("work_date = ?", date).
		Order("created_at ASC").
		Find(&standupModels).Error; err != nil {
		return nil, err
	}
	standups := make([]standup.Standup, len(standupModels))
	for i := range standupModels {
		standups[i] = *standupModels[i].ToDomain()
	}
	return standups, nil
}

// Save persists a submitted standup with an optimistic version check
func (r *GormStandupRepository) Save(ctx context.Context, s *standup.Standup) error {
	if !s.IsSubmitted() {
		return shared.ErrInvalidState
	}
	expectedVersion := s.GetVersion() - 1
	result := r.db.WithContext(ctx).
		Model(&models.DailyStandupModel{}).
		Where("id = ? AND version = ?", s.ID, expectedVersion).
		Updates(map[string]any{
			"yesterday":    s.Yesterday,
			"today":        s.Today,
			"blockers":     s.Blockers,
			"submitted_at": s.SubmittedAt.UTC(),
			"updated_at":   s.UpdatedAt.UTC(),
			"version":      s.GetVersion(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

var _ standup.Repository = (*GormStandupRepository)(nil)
