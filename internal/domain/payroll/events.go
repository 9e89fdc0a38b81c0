package payroll

import (
	"time"

	"github.com/hrms/backend/internal/domain/shared"
	"github.com/hrms/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Aggregate type names used in events
const (
	AggregateTypeAccrual = "SalaryAccrual"
	AggregateTypeRevenue = "RevenueLog"
)

// Event type names
const (
	EventTypeAccrualCreated        = "SalaryAccrualCreated"
	EventTypeAccrualPaymentApplied = "SalaryAccrualPaymentApplied"
	EventTypeRevenueRecorded       = "RevenueRecorded"
)

// AllEventTypes lists every payroll event type
func AllEventTypes() []string {
	return []string{EventTypeAccrualCreated, EventTypeAccrualPaymentApplied, EventTypeRevenueRecorded}
}

// AccrualCreatedEvent is raised when a monthly salary accrues
type AccrualCreatedEvent struct {
	shared.BaseDomainEvent
	Month  valueobject.YearMonth `json:"month"`
	Amount decimal.Decimal       `json:"amount"`
}

// NewAccrualCreatedEvent creates an AccrualCreatedEvent
func NewAccrualCreatedEvent(a *SalaryAccrual) *AccrualCreatedEvent {
	return &AccrualCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAccrualCreated, AggregateTypeAccrual, a.ID, a.UserID, a.CreatedAt),
		Month:           a.Month,
		Amount:          a.Amount,
	}
}

// AccrualPaymentAppliedEvent is raised when money is applied to an accrual
type AccrualPaymentAppliedEvent struct {
	shared.BaseDomainEvent
	Month      valueobject.YearMonth `json:"month"`
	Applied    decimal.Decimal       `json:"applied"`
	PaidAmount decimal.Decimal       `json:"paid_amount"`
	Status     AccrualStatus         `json:"status"`
}

// NewAccrualPaymentAppliedEvent creates an AccrualPaymentAppliedEvent
func NewAccrualPaymentAppliedEvent(a *SalaryAccrual, applied decimal.Decimal, at time.Time) *AccrualPaymentAppliedEvent {
	return &AccrualPaymentAppliedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAccrualPaymentApplied, AggregateTypeAccrual, a.ID, a.UserID, at),
		Month:           a.Month,
		Applied:         applied,
		PaidAmount:      a.PaidAmount,
		Status:          a.Status,
	}
}

// RevenueRecordedEvent is raised when revenue is logged
type RevenueRecordedEvent struct {
	shared.BaseDomainEvent
	Source string          `json:"source"`
	Amount decimal.Decimal `json:"amount"`
}

// NewRevenueRecordedEvent creates a RevenueRecordedEvent. The actor is the
// user who recorded it.
func NewRevenueRecordedEvent(r *RevenueLog) *RevenueRecordedEvent {
	return &RevenueRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRevenueRecorded, AggregateTypeRevenue, r.ID, r.RecordedBy, r.CreatedAt),
		Source:          r.Source,
		Amount:          r.Amount,
	}
}

