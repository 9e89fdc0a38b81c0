package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/hrms/backend/internal/domain/activity"
	"gorm.io/datatypes"
)

// ActivityLogModel is the persistence model for an audit entry
type ActivityLogModel struct {
	ID         uuid.UUID      `gorm:"type:uuid;primary_key"`
	UserID     uuid.UUID      `gorm:"type:uuid;not null;index:idx_activity_user_created,priority:1"`
	Action     string         `gorm:"type:varchar(64);not null;index"`
	EntityType string         `gorm:"type:varchar(64);not null"`
	EntityID   uuid.UUID      `gorm:"type:uuid"`
	Message    string         `gorm:"type:text;not null;default:''"`
	Metadata   datatypes.JSON
	CreatedAt  time.Time      `gorm:"not null;index:idx_activity_user_created,priority:2"`
}

// TableName returns the table name for GORM
func (ActivityLogModel) TableName() string {
	return "activity_logs"
}

// ToDomain converts the persistence model to a domain Log
func (m *ActivityLogModel) ToDomain() *activity.Log {
	metadata := map[string]any{}
	if len(m.Metadata) > 0 {
		_ = json.Unmarshal(m.Metadata, &metadata)
	}
	return &activity.Log{
		ID:         m.ID,
		UserID:     m.UserID,
		Action:     m.Action,
		EntityType: m.EntityType,
		EntityID:   m.EntityID,
		Message:    m.Message,
		Metadata:   metadata,
		CreatedAt:  m.CreatedAt,
	}
}

// ActivityLogModelFromDomain creates a persistence model from a domain Log
func ActivityLogModelFromDomain(l *activity.Log) (*ActivityLogModel, error) {
	raw, err := json.Marshal(l.Metadata)
	if err != nil {
		return nil, err
	}
	return &ActivityLogModel{
		ID:         l.ID,
		UserID:     l.UserID,
		Action:     l.Action,
		EntityType: l.EntityType,
		EntityID:   l.EntityID,
		Message:    l.Message,
		Metadata:   datatypes.JSON(raw),
		CreatedAt:  l.CreatedAt.UTC(),
	}, nil
}
