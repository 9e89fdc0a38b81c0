package payroll

import (
	"context"

	"github.com/google/uuid"
	"github.com/hrms/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AccrualFilter defines filtering options for accrual queries
type AccrualFilter struct {
	shared.Filter
	UserID *uuid.UUID
	Status *AccrualStatus
}

// AccrualRepository persists salary accruals
type AccrualRepository interface {
	// Create stores a new accrual; a second accrual for the same user and
	// month yields shared.ErrAlreadyExists
	Create(ctx context.Context, accrual *SalaryAccrual) error

	// FindByID finds an accrual by ID
	FindByID(ctx context.Context, id uuid.UUID) (*SalaryAccrual, error)

	// FindOpenByUser returns the user's unpaid and partially paid accruals,
	// oldest month first. Inside a transaction the rows are locked.
	FindOpenByUser(ctx context.Context, userID uuid.UUID) ([]SalaryAccrual, error)

	// FindAll lists accruals matching the filter, oldest month first
	FindAll(ctx context.Context, filter AccrualFilter) ([]SalaryAccrual, int64, error)

	// SaveWithLock persists payment changes with an optimistic version check
	SaveWithLock(ctx context.Context, accrual *SalaryAccrual) error
}

// RevenueRepository persists revenue logs
type RevenueRepository interface {
	Create(ctx context.Context, revenue *RevenueLog) error
	FindByID(ctx context.Context, id uuid.UUID) (*RevenueLog, error)
	// FindByIDForUpdate locks the revenue row until the transaction ends
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*RevenueLog, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]RevenueLog, int64, error)
}

// PayoutRepository persists payouts
type PayoutRepository interface {
	Create(ctx context.Context, payout *Payout) error
	FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]Payout, int64, error)
	FindByRevenue(ctx context.Context, revenueID uuid.UUID) ([]Payout, error)
	// SumByRevenue returns the total already paid out of a revenue log
	SumByRevenue(ctx context.Context, revenueID uuid.UUID) (decimal.Decimal, error)
}
