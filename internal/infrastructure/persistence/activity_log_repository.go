package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/hrms/backend/internal/domain/activity"
	"github.com/hrms/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormActivityLogRepository implements activity.Repository using GORM
type GormActivityLogRepository struct {
	db *gorm.DB
}

// NewGormActivityLogRepository creates a new GormActivityLogRepository
func NewGormActivityLogRepository(db *gorm.DB) *GormActivityLogRepository {
	return &GormActivityLogRepository{db: db}
}

// Create appends an audit entry
func (r *GormActivityLogRepository) Create(ctx context.Context, log *activity.Log) error {
	model, err := models.ActivityLogModelFromDomain(log)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(model).Error
}

// FindByUser returns the user's newest entries first
func (r *GormActivityLogRepository) FindByUser(ctx context.Context, userID uuid.UUID, limit int) ([]activity.Log, error) {
	switch {
	case limit <= 0:
		limit = 50
	case limit > 200:
		limit = 200
	}
	var logModels []models.ActivityLogModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&logModels).Error; err != nil {
		return nil, err
	}
	logs := make([]activity.Log, len(logModels))
	for i := range logModels {
		logs[i] = *logModels[i].ToDomain()
	}
	return logs, nil
}

var _ activity.Repository = (*GormActivityLogRepository)(nil)
