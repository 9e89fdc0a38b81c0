package payroll

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hrms/backend/internal/domain/shared"
	"github.com/hrms/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// RevenueLog records money received that can be distributed as salary
type RevenueLog struct {
	shared.BaseAggregateRoot
	Source     string
	Amount     decimal.Decimal
	ReceivedOn valueobject.CivilDate
	Notes      string
	RecordedBy uuid.UUID
}

// NewRevenueLog creates a revenue entry
func NewRevenueLog(source string, amount decimal.Decimal, receivedOn valueobject.CivilDate, notes string, recordedBy uuid.UUID, at time.Time) (*RevenueLog, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return nil, shared.NewDomainError("INVALID_SOURCE", "Revenue source cannot be empty")
	}
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if receivedOn.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATE", "Received date cannot be empty")
	}

	r := &RevenueLog{
		BaseAggregateRoot: shared.NewBaseAggregateRootAt(at),
		Source:            source,
		Amount:            amount,
		ReceivedOn:        receivedOn,
		Notes:             strings.TrimSpace(notes),
		RecordedBy:        recordedBy,
	}
	r.AddDomainEvent(NewRevenueRecordedEvent(r))
	return r, nil
}

// Payout is one transfer of revenue towards a user's accrual
type Payout struct {
	shared.BaseEntity
	UserID    uuid.UUID
	AccrualID uuid.UUID
	RevenueID uuid.UUID
	Amount    decimal.Decimal
	PaidAt    time.Time
	Note      string
}

// NewPayout creates a payout record
func NewPayout(accrual *SalaryAccrual, revenueID uuid.UUID, amount decimal.Decimal, note string, at time.Time) *Payout {
	return &Payout{
		BaseEntity: shared.NewBaseEntityAt(at),
		UserID:     accrual.UserID,
		AccrualID:  accrual.ID,
		RevenueID:  revenueID,
		Amount:     amount,
		PaidAt:     at,
		Note:       note,
	}
}
