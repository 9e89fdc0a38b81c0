package payroll_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hrms/backend/internal/domain/payroll"
	"github.com/hrms/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func month(t *testing.T, s string) valueobject.YearMonth {
	t.Helper()
	m, err := valueobject.ParseYearMonth(s)
	require.NoError(t, err)
	return m
}

func newAccrual(t *testing.T, userID uuid.UUID, m string, amount int64) *payroll.SalaryAccrual {
	t.Helper()
	a, err := payroll.NewSalaryAccrual(userID, month(t, m), decimal.NewFromInt(amount), "", time.Now())
	require.NoError(t, err)
	return a
}

func TestNewSalaryAccrual(t *testing.T) {
	userID := uuid.New()

	t.Run("valid accrual starts unpaid", func(t *testing.T) {
		a := newAccrual(t, userID, "2026-01", 30000)
		assert.Equal(t, payroll.AccrualStatusUnpaid, a.Status)
		assert.True(t, a.PaidAmount.IsZero())
		assert.True(t, a.Remaining().Equal(decimal.NewFromInt(30000)))
		require.Len(t, a.GetDomainEvents(), 1)
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		_, err := payroll.NewSalaryAccrual(userID, month(t, "2026-01"), decimal.Zero, "", time.Now())
		assert.ErrorIs(t, err, payroll.ErrInvalidAmount)
	})

	t.Run("rejects empty user", func(t *testing.T) {
		_, err := payroll.NewSalaryAccrual(uuid.Nil, month(t, "2026-01"), decimal.NewFromInt(1), "", time.Now())
		assert.Error(t, err)
	})
}

func TestSalaryAccrual_ApplyPayment(t *testing.T) {
	userID := uuid.New()

	t.Run("partial payment", func(t *testing.T) {
		a := newAccrual(t, userID, "2026-01", 3000)
		require.NoError(t, a.ApplyPayment(decimal.NewFromInt(1000), time.Now()))
		assert.Equal(t, payroll.AccrualStatusPartiallyPaid, a.Status)
		assert.True(t, a.Remaining().Equal(decimal.NewFromInt(2000)))
		assert.Equal(t, 2, a.GetVersion())
	})

	t.Run("exact payment settles", func(t *testing.T) {
		a := newAccrual(t, userID, "2026-01", 3000)
		require.NoError(t, a.ApplyPayment(decimal.NewFromInt(3000), time.Now()))
		assert.Equal(t, payroll.AccrualStatusPaid, a.Status)
		assert.True(t, a.Overpaid().IsZero())
	})

	t.Run("overpayment keeps the full amount", func(t *testing.T) {
		a := newAccrual(t, userID, "2026-01", 3000)
		require.NoError(t, a.ApplyPayment(decimal.NewFromInt(5000), time.Now()))
		assert.Equal(t, payroll.AccrualStatusPaid, a.Status)
		assert.True(t, a.PaidAmount.Equal(decimal.NewFromInt(5000)))
		assert.True(t, a.Overpaid().Equal(decimal.NewFromInt(2000)))
		assert.True(t, a.Remaining().IsZero())
	})

	t.Run("settled accrual rejects more money", func(t *testing.T) {
		a := newAccrual(t, userID, "2026-01", 3000)
		require.NoError(t, a.ApplyPayment(decimal.NewFromInt(3000), time.Now()))
		err := a.ApplyPayment(decimal.NewFromInt(1), time.Now())
		assert.ErrorIs(t, err, payroll.ErrAccrualSettled)
	})

	t.Run("rejects zero", func(t *testing.T) {
		a := newAccrual(t, userID, "2026-01", 3000)
		assert.ErrorIs(t, a.ApplyPayment(decimal.Zero, time.Now()), payroll.ErrInvalidAmount)
	})
}

func TestNewRevenueLog(t *testing.T) {
	received := valueobject.MustParseCivilDate("2026-02-01")

	r, err := payroll.NewRevenueLog(" Client retainer ", decimal.NewFromInt(50000), received, "", uuid.New(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, "Client retainer", r.Source)

	_, err = payroll.NewRevenueLog("", decimal.NewFromInt(1), received, "", uuid.New(), time.Now())
	assert.Error(t, err)

	_, err = payroll.NewRevenueLog("x", decimal.NewFromInt(-1), received, "", uuid.New(), time.Now())
	assert.ErrorIs(t, err, payroll.ErrInvalidAmount)
}
