package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/hrms/backend/internal/domain/attendance"
	"github.com/hrms/backend/internal/domain/shared"
	"github.com/hrms/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// AttendanceSessionModel is the persistence model for the attendance Session aggregate.
// idx_attendance_open_user enforces a single open session per user.
type AttendanceSessionModel struct {
	AggregateModel
	UserID     uuid.UUID             `gorm:"type:uuid;not null;uniqueIndex:idx_attendance_user_date,priority:1;index:idx_attendance_open_user,unique,where:punch_out IS NULL"`
	WorkDate   valueobject.CivilDate `gorm:"type:date;not null;uniqueIndex:idx_attendance_user_date,priority:2"`
	PunchIn    time.Time             `gorm:"not null;index"`
	PunchOut   *time.Time
	Status     string           `gorm:"type:varchar(20);not null"`
	WorkMode   string           `gorm:"type:varchar(10);not null"`
	TotalHours *decimal.Decimal `gorm:"type:decimal(6,2)"`
	Notes      string           `gorm:"type:text;not null"`
}

// TableName returns the table name for GORM
func (AttendanceSessionModel) TableName() string {
	return "attendance"
}

// ToDomain converts the persistence model to a domain Session
func (m *AttendanceSessionModel) ToDomain() *attendance.Session {
	return &attendance.Session{
		UserAggregateRoot: shared.UserAggregateRoot{
			BaseAggregateRoot: m.ToDomainAggregateRoot(),
			UserID:            m.UserID,
		},
		WorkDate:   m.WorkDate,
		PunchIn:    m.PunchIn,
		PunchOut:   m.PunchOut,
		Status:     attendance.SessionStatus(m.Status),
		WorkMode:   attendance.WorkMode(m.WorkMode),
		TotalHours: m.TotalHours,
		Notes:      m.Notes,
	}
}

// FromDomain populates the persistence model from a domain Session
func (m *AttendanceSessionModel) FromDomain(s *attendance.Session) {
	m.FromDomainAggregateRoot(s.BaseAggregateRoot)
	m.UserID = s.UserID
	m.WorkDate = s.WorkDate
	m.PunchIn = s.PunchIn.UTC()
	m.PunchOut = utcPtr(s.PunchOut)
	m.Status = string(s.Status)
	m.WorkMode = string(s.WorkMode)
	m.TotalHours = s.TotalHours
	m.Notes = s.Notes
}

// AttendanceSessionModelFromDomain creates a persistence model from a domain Session
func AttendanceSessionModelFromDomain(s *attendance.Session) *AttendanceSessionModel {
	m := &AttendanceSessionModel{}
	m.FromDomain(s)
	return m
}

// AttendanceBreakModel is the persistence model for a BreakInterval.
// idx_attendance_breaks_open enforces a single open break per session.
type AttendanceBreakModel struct {
	BaseModel
	AttendanceID uuid.UUID `gorm:"type:uuid;not null;index;index:idx_attendance_breaks_open,unique,where:end_time IS NULL"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;index"`
	StartTime    time.Time `gorm:"not null"`
	EndTime      *time.Time
}

// TableName returns the table name for GORM
func (AttendanceBreakModel) TableName() string {
	return "attendance_breaks"
}

// ToDomain converts the persistence model to a domain BreakInterval
func (m *AttendanceBreakModel) ToDomain() *attendance.BreakInterval {
	return &attendance.BreakInterval{
		BaseEntity: m.BaseModel.ToDomain(),
		SessionID:  m.AttendanceID,
		UserID:     m.UserID,
		StartTime:  m.StartTime,
		EndTime:    m.EndTime,
	}
}

// FromDomain populates the persistence model from a domain BreakInterval
func (m *AttendanceBreakModel) FromDomain(b *attendance.BreakInterval) {
	m.FromDomainBaseEntity(b.BaseEntity)
	m.AttendanceID = b.SessionID
	m.UserID = b.UserID
	m.StartTime = b.StartTime.UTC()
	m.EndTime = utcPtr(b.EndTime)
}

// AttendanceBreakModelFromDomain creates a persistence model from a domain BreakInterval
func AttendanceBreakModelFromDomain(b *attendance.BreakInterval) *AttendanceBreakModel {
	m := &AttendanceBreakModel{}
	m.FromDomain(b)
	return m
}
