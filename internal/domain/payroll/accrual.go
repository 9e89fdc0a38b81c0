package payroll

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hrms/backend/internal/domain/shared"
	"github.com/hrms/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// AccrualStatus represents how much of a monthly salary has been paid
type AccrualStatus string

const (
	AccrualStatusUnpaid        AccrualStatus = "unpaid"
	AccrualStatusPartiallyPaid AccrualStatus = "partially_paid"
	AccrualStatusPaid          AccrualStatus = "paid"
)

// IsValid checks if the status is known
func (s AccrualStatus) IsValid() bool {
	switch s {
	case AccrualStatusUnpaid, AccrualStatusPartiallyPaid, AccrualStatusPaid:
		return true
	}
	return false
}

// IsOpen reports whether more money can be applied
func (s AccrualStatus) IsOpen() bool {
	return s == AccrualStatusUnpaid || s == AccrualStatusPartiallyPaid
}

// String returns the string representation of AccrualStatus
func (s AccrualStatus) String() string {
	return string(s)
}

// SalaryAccrual is a monthly salary obligation towards one employee
type SalaryAccrual struct {
	shared.UserAggregateRoot
	Month      valueobject.YearMonth
	Amount     decimal.Decimal
	PaidAmount decimal.Decimal
	Status     AccrualStatus
	Notes      string
}

// NewSalaryAccrual creates an unpaid accrual
func NewSalaryAccrual(userID uuid.UUID, month valueobject.YearMonth, amount decimal.Decimal, notes string, at time.Time) (*SalaryAccrual, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if month.IsZero() {
		return nil, shared.NewDomainError("INVALID_MONTH", "Accrual month cannot be empty")
	}
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	a := &SalaryAccrual{
		UserAggregateRoot: shared.NewUserAggregateRoot(userID, at),
		Month:             month,
		Amount:            amount,
		PaidAmount:        decimal.Zero,
		Status:            AccrualStatusUnpaid,
		Notes:             strings.TrimSpace(notes),
	}
	a.AddDomainEvent(NewAccrualCreatedEvent(a))
	return a, nil
}

// Remaining returns the unpaid balance, never negative
func (a *SalaryAccrual) Remaining() decimal.Decimal {
	rem := a.Amount.Sub(a.PaidAmount)
	if rem.IsNegative() {
		return decimal.Zero
	}
	return rem
}

// ApplyPayment adds amount to the paid total and recomputes the status.
// The full amount is applied even when it exceeds the remaining balance.
func (a *SalaryAccrual) ApplyPayment(amount decimal.Decimal, at time.Time) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	if !a.Status.IsOpen() {
		return shared.NewDomainError(ErrAccrualSettled.Code, fmt.Sprintf("Accrual for %s is already paid", a.Month))
	}

	a.PaidAmount = a.PaidAmount.Add(amount)
	if a.PaidAmount.GreaterThanOrEqual(a.Amount) {
		a.Status = AccrualStatusPaid
	} else {
		a.Status = AccrualStatusPartiallyPaid
	}
	a.Touch(at)
	a.IncrementVersion()
	a.AddDomainEvent(NewAccrualPaymentAppliedEvent(a, amount, at))
	return nil
}

// Overpaid returns how much was paid beyond the accrual amount
func (a *SalaryAccrual) Overpaid() decimal.Decimal {
	over := a.PaidAmount.Sub(a.Amount)
	if over.IsNegative() {
		return decimal.Zero
	}
	return over
}
