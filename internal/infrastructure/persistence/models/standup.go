package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/hrms/backend/internal/domain/shared"
	"github.com/hrms/backend/internal/domain/shared/valueobject"
	"github.com/hrms/backend/internal/domain/standup"
)

// DailyStandupModel is the persistence model for the Standup aggregate
type DailyStandupModel struct {
	AggregateModel
	UserID      uuid.UUID             `gorm:"type:uuid;not null;uniqueIndex:idx_standup_user_date,priority:1"`
	WorkDate    valueobject.CivilDate `gorm:"type:date;not null;uniqueIndex:idx_standup_user_date,priority:2;index"`
	Yesterday   string                `gorm:"type:text;not null;default:''"`
	Today       string                `gorm:"type:text;not null;default:''"`
	Blockers    string                `gorm:"type:text;not null;default:''"`
	SubmittedAt *time.Time
}

// TableName returns the table name for GORM
func (DailyStandupModel) TableName() string {
	return "daily_standups"
}

// ToDomain converts the persistence model to a domain Standup
func (m *DailyStandupModel) ToDomain() *standup.Standup {
	return &standup.Standup{
		UserAggregateRoot: shared.UserAggregateRoot{
			BaseAggregateRoot: m.ToDomainAggregateRoot(),
			UserID:            m.UserID,
		},
		WorkDate:    m.WorkDate,
		Yesterday:   m.Yesterday,
		Today:       m.Today,
		Blockers:    m.Blockers,
		SubmittedAt: m.SubmittedAt,
	}
}

// FromDomain populates the persistence model from a domain Standup
func (m *DailyStandupModel) FromDomain(s *standup.Standup) {
	m.FromDomainAggregateRoot(s.BaseAggregateRoot)
	m.UserID = s.UserID
	m.WorkDate = s.WorkDate
	m.Yesterday = s.Yesterday
	m.Today = s.Today
	m.Blockers = s.Blockers
	m.SubmittedAt = utcPtr(s.SubmittedAt)
}

// DailyStandupModelFromDomain creates a persistence model from a domain Standup
func DailyStandupModelFromDomain(s *standup.Standup) *DailyStandupModel {
	m := &DailyStandupModel{}
	m.FromDomain(s)
	return m
}
