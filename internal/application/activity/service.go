package activity

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hrms/backend/internal/domain/activity"
)

// LogResponse represents an audit entry in API responses
type LogResponse struct {
	ID         uuid.UUID      `json:"id"`
	Action     string         `json:"action"`
	EntityType string         `json:"entity_type"`
	EntityID   uuid.UUID      `json:"entity_id"`
	Message    string         `json:"message"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

// Service reads the activity log
type Service struct {
	repo activity.Repository
}

// NewService creates a new activity Service
func NewService(repo activity.Repository) *Service {
	return &Service{repo: repo}
}

// List returns the user's latest entries, newest first
func (s *Service) List(ctx context.Context, userID uuid.UUID, limit int) ([]LogResponse, error) {
	logs, err := s.repo.FindByUser(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]LogResponse, len(logs))
	for i, l := range logs {
		out[i] = LogResponse{
			ID:         l.ID,
			Action:     l.Action,
			EntityType: l.EntityType,
			EntityID:   l.EntityID,
			Message:    l.Message,
			Metadata:   l.Metadata,
			CreatedAt:  l.CreatedAt,
		}
	}
	return out, nil
}
