package activity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Log is an append-only audit entry describing something a user did
type Log struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	Action     string
	EntityType string
	EntityID   uuid.UUID
	Message    string
	Metadata   map[string]any
	CreatedAt  time.Time
}

// NewLog creates an audit entry
func NewLog(userID uuid.UUID, action, entityType string, entityID uuid.UUID, message string, metadata map[string]any, at time.Time) *Log {
	if metadata == nil {
		metadata = map[string]any{}
	}
	return &Log{
		ID:         uuid.New(),
		UserID:     userID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Message:    message,
		Metadata:   metadata,
		CreatedAt:  at,
	}
}

// Repository persists audit entries
type Repository interface {
	Create(ctx context.Context, log *Log) error
	// FindByUser returns the newest entries first
	FindByUser(ctx context.Context, userID uuid.UUID, limit int) ([]Log, error)
}
