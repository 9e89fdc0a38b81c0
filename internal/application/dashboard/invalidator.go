// Package dashboard keeps a per-user version counter that clients poll to
// know when their dashboard data is out of date.
package dashboard

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hrms/backend/internal/domain/attendance"
	"github.com/hrms/backend/internal/domain/payroll"
	"github.com/hrms/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// VersionStore holds the dashboard version counters
type VersionStore interface {
	// Bump increments the user's version and returns the new value
	Bump(ctx context.Context, userID uuid.UUID) (int64, error)
	// Get returns the user's current version, zero when never bumped
	Get(ctx context.Context, userID uuid.UUID) (int64, error)
}

// Invalidator bumps the affected user's dashboard version whenever an
// attendance or payroll event is published
type Invalidator struct {
	store  VersionStore
	logger *zap.Logger
}

// NewInvalidator creates a new dashboard Invalidator
func NewInvalidator(store VersionStore, logger *zap.Logger) *Invalidator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Invalidator{store: store, logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (i *Invalidator) EventTypes() []string {
	types := attendance.AllEventTypes()
	return append(types, payroll.AllEventTypes()...)
}

// Handle bumps the event actor's dashboard version
func (i *Invalidator) Handle(ctx context.Context, event shared.DomainEvent) error {
	userID := event.ActorID()
	if userID == uuid.Nil {
		return nil
	}
	version, err := i.store.Bump(ctx, userID)
	if err != nil {
		return fmt.Errorf("bump dashboard version: %w", err)
	}
	i.logger.Debug("Dashboard invalidated",
		zap.String("user_id", userID.String()),
		zap.String("event_type", event.EventType()),
		zap.Int64("version", version),
	)
	return nil
}

var _ shared.EventHandler = (*Invalidator)(nil)

// VersionResponse is the dashboard version of a user
type VersionResponse struct {
	UserID  uuid.UUID `json:"user_id"`
	Version int64     `json:"version"`
}

// Service reads dashboard versions
type Service struct {
	store VersionStore
}

// NewService creates a new dashboard Service
func NewService(store VersionStore) *Service {
	return &Service{store: store}
}

// Version returns the user's dashboard version
func (s *Service) Version(ctx context.Context, userID uuid.UUID) (*VersionResponse, error) {
	v, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &VersionResponse{UserID: userID, Version: v}, nil
}
