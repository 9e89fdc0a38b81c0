package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/hrms/backend/internal/domain/payroll"
	"github.com/hrms/backend/internal/domain/shared"
	"github.com/hrms/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// SalaryAccrualModel is the persistence model for the SalaryAccrual aggregate
type SalaryAccrualModel struct {
	AggregateModel
	UserID     uuid.UUID             `gorm:"type:uuid;not null;uniqueIndex:idx_accrual_user_month,priority:1"`
	Month      valueobject.YearMonth `gorm:"type:varchar(7);not null;uniqueIndex:idx_accrual_user_month,priority:2"`
	Amount     decimal.Decimal       `gorm:"type:decimal(18,2);not null"`
	PaidAmount decimal.Decimal       `gorm:"type:decimal(18,2);not null"`
	Status     string                `gorm:"type:varchar(20);not null;index"`
	Notes      string                `gorm:"type:text;not null;default:''"`
}

// TableName returns the table name for GORM
func (SalaryAccrualModel) TableName() string {
	return "salary_accruals"
}

// ToDomain converts the persistence model to a domain SalaryAccrual
func (m *SalaryAccrualModel) ToDomain() *payroll.SalaryAccrual {
	return &payroll.SalaryAccrual{
		UserAggregateRoot: shared.UserAggregateRoot{
			BaseAggregateRoot: m.ToDomainAggregateRoot(),
			UserID:            m.UserID,
		},
		Month:      m.Month,
		Amount:     m.Amount,
		PaidAmount: m.PaidAmount,
		Status:     payroll.AccrualStatus(m.Status),
		Notes:      m.Notes,
	}
}

// FromDomain populates the persistence model from a domain SalaryAccrual
func (m *SalaryAccrualModel) FromDomain(a *payroll.SalaryAccrual) {
	m.FromDomainAggregateRoot(a.BaseAggregateRoot)
	m.UserID = a.UserID
	m.Month = a.Month
	m.Amount = a.Amount
	m.PaidAmount = a.PaidAmount
	m.Status = string(a.Status)
	m.Notes = a.Notes
}

// SalaryAccrualModelFromDomain creates a persistence model from a domain SalaryAccrual
func SalaryAccrualModelFromDomain(a *payroll.SalaryAccrual) *SalaryAccrualModel {
	m := &SalaryAccrualModel{}
	m.FromDomain(a)
	return m
}

// RevenueLogModel is the persistence model for the RevenueLog aggregate
type RevenueLogModel struct {
	AggregateModel
	Source     string                `gorm:"type:varchar(200);not null"`
	Amount     decimal.Decimal       `gorm:"type:decimal(18,2);not null"`
	ReceivedOn valueobject.CivilDate `gorm:"type:date;not null;index"`
	Notes      string                `gorm:"type:text;not null;default:''"`
	RecordedBy uuid.UUID             `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (RevenueLogModel) TableName() string {
	return "revenue_logs"
}

// ToDomain converts the persistence model to a domain RevenueLog
func (m *RevenueLogModel) ToDomain() *payroll.RevenueLog {
	return &payroll.RevenueLog{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Source:            m.Source,
		Amount:            m.Amount,
		ReceivedOn:        m.ReceivedOn,
		Notes:             m.Notes,
		RecordedBy:        m.RecordedBy,
	}
}

// RevenueLogModelFromDomain creates a persistence model from a domain RevenueLog
func RevenueLogModelFromDomain(r *payroll.RevenueLog) *RevenueLogModel {
	m := &RevenueLogModel{
		Source:     r.Source,
		Amount:     r.Amount,
		ReceivedOn: r.ReceivedOn,
		Notes:      r.Notes,
		RecordedBy: r.RecordedBy,
	}
	m.FromDomainAggregateRoot(r.BaseAggregateRoot)
	return m
}

// PayoutModel is the persistence model for a Payout
type PayoutModel struct {
	BaseModel
	UserID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	AccrualID uuid.UUID       `gorm:"type:uuid;not null;index"`
	RevenueID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount    decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	PaidAt    time.Time       `gorm:"not null"`
	Note      string          `gorm:"type:text;not null;default:''"`
}

// TableName returns the table name for GORM
func (PayoutModel) TableName() string {
	return "payouts"
}

// ToDomain converts the persistence model to a domain Payout
func (m *PayoutModel) ToDomain() *payroll.Payout {
	return &payroll.Payout{
		BaseEntity: m.BaseModel.ToDomain(),
		UserID:     m.UserID,
		AccrualID:  m.AccrualID,
		RevenueID:  m.RevenueID,
		Amount:     m.Amount,
		PaidAt:     m.PaidAt,
		Note:       m.Note,
	}
}

// PayoutModelFromDomain creates a persistence model from a domain Payout
func PayoutModelFromDomain(p *payroll.Payout) *PayoutModel {
	m := &PayoutModel{
		UserID:    p.UserID,
		AccrualID: p.AccrualID,
		RevenueID: p.RevenueID,
		Amount:    p.Amount,
		PaidAt:    p.PaidAt.UTC(),
		Note:      p.Note,
	}
	m.FromDomainBaseEntity(p.BaseEntity)
	return m
}
