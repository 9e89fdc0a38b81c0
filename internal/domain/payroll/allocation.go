package payroll

import (
	"sort"

	"github.com/google/uuid"
	"github.com/hrms/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Allocation policy names
const (
	PolicySingleOldest  = "single_oldest"
	PolicyFIFOSpillover = "fifo_spillover"
)

// Allocation is the share of a user's distribution applied to one accrual
type Allocation struct {
	AccrualID     uuid.UUID
	Month         valueobject.YearMonth
	Amount        decimal.Decimal
	BalanceBefore decimal.Decimal
	BalanceAfter  decimal.Decimal
}

// AllocationPolicy decides how an amount is spread over a user's open accruals
type AllocationPolicy interface {
	Name() string
	// Allocate splits amount over open accruals. Accruals may arrive in any order.
	Allocate(amount decimal.Decimal, open []SalaryAccrual) []Allocation
}

// PolicyByName returns the named policy; an empty name selects single_oldest
func PolicyByName(name string) (AllocationPolicy, error) {
	switch name {
	case "", PolicySingleOldest:
		return SingleOldestPolicy{}, nil
	case PolicyFIFOSpillover:
		return FIFOSpilloverPolicy{}, nil
	default:
		return nil, ErrUnknownAllocationPolicy
	}
}

func oldestFirst(open []SalaryAccrual) []SalaryAccrual {
	sorted := make([]SalaryAccrual, 0, len(open))
	for _, a := range open {
		if a.Status.IsOpen() {
			sorted = append(sorted, a)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Month.Before(sorted[j].Month)
	})
	return sorted
}

// SingleOldestPolicy applies the whole amount to the oldest open accrual.
// Any excess over its balance stays on that accrual as an overpayment.
type SingleOldestPolicy struct{}

// Name returns the policy name
func (SingleOldestPolicy) Name() string { return PolicySingleOldest }

// Allocate implements AllocationPolicy
func (SingleOldestPolicy) Allocate(amount decimal.Decimal, open []SalaryAccrual) []Allocation {
	sorted := oldestFirst(open)
	if len(sorted) == 0 || !amount.IsPositive() {
		return nil
	}
	oldest := sorted[0]
	before := oldest.Remaining()
	after := before.Sub(amount)
	if after.IsNegative() {
		after = decimal.Zero
	}
	return []Allocation{{
		AccrualID:     oldest.ID,
		Month:         oldest.Month,
		Amount:        amount,
		BalanceBefore: before,
		BalanceAfter:  after,
	}}
}

// FIFOSpilloverPolicy pays accruals oldest first, moving to the next one once
// a balance is cleared. Money left after every balance is cleared goes to the
// newest open accrual.
type FIFOSpilloverPolicy struct{}

// Name returns the policy name
func (FIFOSpilloverPolicy) Name() string { return PolicyFIFOSpillover }

// Allocate implements AllocationPolicy
func (FIFOSpilloverPolicy) Allocate(amount decimal.Decimal, open []SalaryAccrual) []Allocation {
	sorted := oldestFirst(open)
	if len(sorted) == 0 || !amount.IsPositive() {
		return nil
	}

	remaining := amount
	allocations := make([]Allocation, 0, len(sorted))
	for _, accrual := range sorted {
		if !remaining.IsPositive() {
			break
		}
		balance := accrual.Remaining()
		if !balance.IsPositive() {
			continue
		}
		applied := decimal.Min(remaining, balance)
		allocations = append(allocations, Allocation{
			AccrualID:     accrual.ID,
			Month:         accrual.Month,
			Amount:        applied,
			BalanceBefore: balance,
			BalanceAfter:  balance.Sub(applied),
		})
		remaining = remaining.Sub(applied)
	}

	if remaining.IsPositive() {
		if n := len(allocations); n > 0 && allocations[n-1].AccrualID == sorted[len(sorted)-1].ID {
			allocations[n-1].Amount = allocations[n-1].Amount.Add(remaining)
		} else {
			newest := sorted[len(sorted)-1]
			allocations = append(allocations, Allocation{
				AccrualID:     newest.ID,
				Month:         newest.Month,
				Amount:        remaining,
				BalanceBefore: newest.Remaining(),
				BalanceAfter:  decimal.Zero,
			})
		}
	}
	return allocations
}
