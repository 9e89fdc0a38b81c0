package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hrms/backend/internal/domain/payroll"
	"github.com/hrms/backend/internal/domain/shared"
	"github.com/hrms/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAccrual(t *testing.T, userID uuid.UUID, month string, amount int64) *payroll.SalaryAccrual {
	t.Helper()
	ym, err := valueobject.ParseYearMonth(month)
	require.NoError(t, err)
	a, err := payroll.NewSalaryAccrual(userID, ym, decimal.NewFromInt(amount), "", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return a
}

func TestGormAccrualRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewGormAccrualRepository(setupRepositoryTestDB(t))
	userID := uuid.New()

	march := newTestAccrual(t, userID, "2026-03", 3000)
	january := newTestAccrual(t, userID, "2026-01", 1000)
	february := newTestAccrual(t, userID, "2026-02", 2000)
	for _, a := range []*payroll.SalaryAccrual{march, january, february} {
		require.NoError(t, repo.Create(ctx, a))
	}
	require.NoError(t, repo.Create(ctx, newTestAccrual(t, uuid.New(), "2026-01", 500)))

	t.Run("duplicate month for a user is rejected", func(t *testing.T) {
		err := repo.Create(ctx, newTestAccrual(t, userID, "2026-02", 10))
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})

	t.Run("FindByID round-trips money and month", func(t *testing.T) {
		stored, err := repo.FindByID(ctx, february.ID)
		require.NoError(t, err)
		assert.Equal(t, "2026-02", stored.Month.String())
		assert.True(t, decimal.NewFromInt(2000).Equal(stored.Amount))
		assert.True(t, stored.PaidAmount.IsZero())
		assert.Equal(t, payroll.AccrualStatusUnpaid, stored.Status)

		_, err = repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("SaveWithLock applies a payment", func(t *testing.T) {
		stored, err := repo.FindByID(ctx, january.ID)
		require.NoError(t, err)
		require.NoError(t, stored.ApplyPayment(decimal.NewFromInt(1000), time.Now()))
		require.NoError(t, repo.SaveWithLock(ctx, stored))

		reloaded, err := repo.FindByID(ctx, january.ID)
		require.NoError(t, err)
		assert.Equal(t, payroll.AccrualStatusPaid, reloaded.Status)
		assert.Equal(t, 2, reloaded.GetVersion())
	})

	t.Run("SaveWithLock detects a stale version", func(t *testing.T) {
		stale, err := repo.FindByID(ctx, march.ID)
		require.NoError(t, err)
		fresh, err := repo.FindByID(ctx, march.ID)
		require.NoError(t, err)

		require.NoError(t, fresh.ApplyPayment(decimal.NewFromInt(100), time.Now()))
		require.NoError(t, repo.SaveWithLock(ctx, fresh))

		require.NoError(t, stale.ApplyPayment(decimal.NewFromInt(100), time.Now()))
		err = repo.SaveWithLock(ctx, stale)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "VERSION_CONFLICT", domainErr.Code)
	})

	t.Run("FindOpenByUser skips paid accruals, oldest month first", func(t *testing.T) {
		open, err := repo.FindOpenByUser(ctx, userID)
		require.NoError(t, err)
		require.Len(t, open, 2)
		assert.Equal(t, "2026-02", open[0].Month.String())
		assert.Equal(t, "2026-03", open[1].Month.String())
		assert.Equal(t, payroll.AccrualStatusPartiallyPaid, open[1].Status)
	})

	t.Run("FindAll filters and pages", func(t *testing.T) {
		all, total, err := repo.FindAll(ctx, payroll.AccrualFilter{
			Filter: shared.Filter{Page: 1, PageSize: 2, OrderBy: "month", OrderDir: "asc"},
			UserID: &userID,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		require.Len(t, all, 2)
		assert.Equal(t, "2026-01", all[0].Month.String())

		unpaid := payroll.AccrualStatusUnpaid
		filtered, total, err := repo.FindAll(ctx, payroll.AccrualFilter{Status: &unpaid})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, filtered, 2)
	})
}

func TestGormRevenueAndPayoutRepositories(t *testing.T) {
	ctx := context.Background()
	db := setupRepositoryTestDB(t)
	revenues := NewGormRevenueRepository(db)
	payouts := NewGormPayoutRepository(db)
	at := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	revenue, err := payroll.NewRevenueLog("Client A", decimal.NewFromInt(5000),
		valueobject.MustParseCivilDate("2026-03-10"), "", uuid.New(), at)
	require.NoError(t, err)
	require.NoError(t, revenues.Create(ctx, revenue))

	older, err := payroll.NewRevenueLog("Client B", decimal.NewFromInt(700),
		valueobject.MustParseCivilDate("2026-02-01"), "", uuid.New(), at)
	require.NoError(t, err)
	require.NoError(t, revenues.Create(ctx, older))

	t.Run("revenue list is newest receipt first", func(t *testing.T) {
		list, total, err := revenues.FindAll(ctx, shared.Filter{})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		require.Len(t, list, 2)
		assert.Equal(t, revenue.ID, list[0].ID)
	})

	t.Run("SumByRevenue is zero without payouts", func(t *testing.T) {
		sum, err := payouts.SumByRevenue(ctx, revenue.ID)
		require.NoError(t, err)
		assert.True(t, sum.IsZero())
	})

	accrual := newTestAccrual(t, uuid.New(), "2026-03", 3000)
	require.NoError(t, payouts.Create(ctx, payroll.NewPayout(accrual, revenue.ID, decimal.NewFromInt(1200), "", at)))
	require.NoError(t, payouts.Create(ctx, payroll.NewPayout(accrual, revenue.ID, decimal.NewFromInt(300), "", at.Add(time.Hour))))

	t.Run("SumByRevenue totals payouts", func(t *testing.T) {
		sum, err := payouts.SumByRevenue(ctx, revenue.ID)
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(1500).Equal(sum), "got %s", sum)
	})

	t.Run("FindByRevenue is oldest first", func(t *testing.T) {
		list, err := payouts.FindByRevenue(ctx, revenue.ID)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.True(t, decimal.NewFromInt(1200).Equal(list[0].Amount))
	})

	t.Run("FindByUser pages the user's payouts", func(t *testing.T) {
		list, total, err := payouts.FindByUser(ctx, accrual.UserID, shared.Filter{Page: 1, PageSize: 1})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		require.Len(t, list, 1)
		assert.True(t, decimal.NewFromInt(300).Equal(list[0].Amount))

		none, total, err := payouts.FindByUser(ctx, uuid.New(), shared.Filter{})
		require.NoError(t, err)
		assert.Zero(t, total)
		assert.Empty(t, none)
	})
}
