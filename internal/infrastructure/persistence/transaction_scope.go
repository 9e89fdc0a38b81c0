package persistence

import (
	"context"

	appattendance "github.com/hrms/backend/internal/application/attendance"
	apppayroll "github.com/hrms/backend/internal/application/payroll"
	"github.com/hrms/backend/internal/domain/attendance"
	"github.com/hrms/backend/internal/domain/payroll"
	"github.com/hrms/backend/internal/domain/standup"
	"gorm.io/gorm"
)

// GormAttendanceTransactionScope implements the attendance TransactionScope using GORM transactions.
type GormAttendanceTransactionScope struct {
	db *gorm.DB
}

// NewGormAttendanceTransactionScope creates a new GormAttendanceTransactionScope.
func NewGormAttendanceTransactionScope(db *gorm.DB) *GormAttendanceTransactionScope {
	return &GormAttendanceTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormAttendanceTransactionScope) Execute(ctx context.Context, fn func(repos appattendance.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormAttendanceRepositories{tx: tx})
	})
}

type gormAttendanceRepositories struct {
	tx *gorm.DB
}

func (r *gormAttendanceRepositories) Sessions() attendance.SessionRepository {
	return NewGormSessionRepository(r.tx)
}

func (r *gormAttendanceRepositories) Breaks() attendance.BreakRepository {
	return NewGormBreakRepository(r.tx)
}

func (r *gormAttendanceRepositories) Standups() standup.Repository {
	return NewGormStandupRepository(r.tx)
}

// GormPayrollTransactionScope implements the payroll TransactionScope using GORM transactions.
type GormPayrollTransactionScope struct {
	db *gorm.DB
}

// NewGormPayrollTransactionScope creates a new GormPayrollTransactionScope.
func NewGormPayrollTransactionScope(db *gorm.DB) *GormPayrollTransactionScope {
	return &GormPayrollTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormPayrollTransactionScope) Execute(ctx context.Context, fn func(repos apppayroll.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormPayrollRepositories{tx: tx})
	})
}

type gormPayrollRepositories struct {
	tx *gorm.DB
}

func (r *gormPayrollRepositories) Accruals() payroll.AccrualRepository {
	return NewGormAccrualRepository(r.tx)
}

func (r *gormPayrollRepositories) Revenue() payroll.RevenueRepository {
	return NewGormRevenueRepository(r.tx)
}

func (r *gormPayrollRepositories) Payouts() payroll.PayoutRepository {
	return NewGormPayoutRepository(r.tx)
}

// Ensure the scopes implement the application interfaces
var (
	_ appattendance.TransactionScope          = (*GormAttendanceTransactionScope)(nil)
	_ appattendance.TransactionalRepositories = (*gormAttendanceRepositories)(nil)
	_ apppayroll.TransactionScope             = (*GormPayrollTransactionScope)(nil)
	_ apppayroll.TransactionalRepositories    = (*gormPayrollRepositories)(nil)
)
