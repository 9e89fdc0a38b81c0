package payroll

import (
	"context"

	"github.com/hrms/backend/internal/domain/payroll"
)

// TransactionScope provides transactional access to payroll repositories
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides the payroll repositories sharing one transaction
type TransactionalRepositories interface {
	Accruals() payroll.AccrualRepository
	Revenue() payroll.RevenueRepository
	Payouts() payroll.PayoutRepository
}
