package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/hrms/backend/internal/domain/payroll"
	"github.com/hrms/backend/internal/domain/shared"
	"github.com/hrms/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormAccrualRepository implements payroll.AccrualRepository using GORM
type GormAccrualRepository struct {
	db *gorm.DB
}

// NewGormAccrualRepository creates a new GormAccrualRepository
func NewGormAccrualRepository(db *gorm.DB) *GormAccrualRepository {
	return &GormAccrualRepository{db: db}
}

// Create stores a new accrual
func (r *GormAccrualRepository) Create(ctx context.Context, accrual *payroll.SalaryAccrual) error {
	if err := r.db.WithContext(ctx).Create(models.SalaryAccrualModelFromDomain(accrual)).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// FindByID finds an accrual by ID
func (r *GormAccrualRepository) FindByID(ctx context.Context, id uuid.UUID) (*payroll.SalaryAccrual, error) {
	var model models.SalaryAccrualModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return model.ToDomain(), nil
}

// FindOpenByUser returns the user's unsettled accruals, oldest month first.
// Rows are locked FOR UPDATE so concurrent distributions serialize per user.
func (r *GormAccrualRepository) FindOpenByUser(ctx context.Context, userID uuid.UUID) ([]payroll.SalaryAccrual, error) {
	var accrualModels []models.SalaryAccrualModel
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND status IN ?", userID, []string{
			string(payroll.AccrualStatusUnpaid),
			string(payroll.AccrualStatusPartiallyPaid),
		}).
		Order("month ASC").
		Order("created_at ASC").
		Find(&accrualModels).Error; err != nil {
		return nil, err
	}
	return accrualsToDomain(accrualModels), nil
}

// FindAll lists accruals matching the filter
func (r *GormAccrualRepository) FindAll(ctx context.Context, filter payroll.AccrualFilter) ([]payroll.SalaryAccrual, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.SalaryAccrualModel{})
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", string(*filter.Status))
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var accrualModels []models.SalaryAccrualModel
	if err := applyPage(query, filter.Filter, AccrualSortFields, "month").
		Find(&accrualModels).Error; err != nil {
		return nil, 0, err
	}
	return accrualsToDomain(accrualModels), total, nil
}

// SaveWithLock persists a payment with an optimistic version check.
// The domain model has already incremented its version.
func (r *GormAccrualRepository) SaveWithLock(ctx context.Context, accrual *payroll.SalaryAccrual) error {
	expectedVersion := accrual.GetVersion() - 1
	result := r.db.WithContext(ctx).
		Model(&models.SalaryAccrualModel{}).
		Where("id = ? AND version = ?", accrual.ID, expectedVersion).
		Updates(map[string]any{
			"paid_amount": accrual.PaidAmount,
			"status":      string(accrual.Status),
			"updated_at":  accrual.UpdatedAt.UTC(),
			"version":     accrual.GetVersion(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("VERSION_CONFLICT", "Salary accrual has been modified by another process")
	}
	return nil
}

func accrualsToDomain(accrualModels []models.SalaryAccrualModel) []payroll.SalaryAccrual {
	accruals := make([]payroll.SalaryAccrual, len(accrualModels))
	for i := range accrualModels {
		accruals[i] = *accrualModels[i].ToDomain()
	}
	return accruals
}

// applyPage applies whitelisted ordering and pagination
func applyPage(query *gorm.DB, filter shared.Filter, allowed map[string]bool, defaultField string) *gorm.DB {
	sortField := ValidateSortField(filter.OrderBy, allowed, defaultField)
	sortOrder := ValidateSortOrder(filter.OrderDir)
	return query.
		Order(fmt.Sprintf("%s %s", sortField, sortOrder)).
		Limit(filter.Limit()).
		Offset(filter.Offset())
}

// GormRevenueRepository implements payroll.RevenueRepository using GORM
type GormRevenueRepository struct {
	db *gorm.DB
}

// NewGormRevenueRepository creates a new GormRevenueRepository
func NewGormRevenueRepository(db *gorm.DB) *GormRevenueRepository {
	return &GormRevenueRepository{db: db}
}

// Create stores a revenue log
func (r *GormRevenueRepository) Create(ctx context.Context, revenue *payroll.RevenueLog) error {
	return r.db.WithContext(ctx).Create(models.RevenueLogModelFromDomain(revenue)).Error
}

// FindByID finds a revenue log by ID
func (r *GormRevenueRepository) FindByID(ctx context.Context, id uuid.UUID) (*payroll.RevenueLog, error) {
	var model models.RevenueLogModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate reads a revenue log FOR UPDATE. Distributions out of the
// same revenue serialize on this row.
func (r *GormRevenueRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*payroll.RevenueLog, error) {
	var model models.RevenueLogModel
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return model.ToDomain(), nil
}

// FindAll lists revenue logs, newest receipt first by default
func (r *GormRevenueRepository) FindAll(ctx context.Context, filter shared.Filter) ([]payroll.RevenueLog, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.RevenueLogModel{})

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var revenueModels []models.RevenueLogModel
	if err := applyPage(query, filter, RevenueSortFields, "received_on").
		Find(&revenueModels).Error; err != nil {
		return nil, 0, err
	}
	revenues := make([]payroll.RevenueLog, len(revenueModels))
	for i := range revenueModels {
		revenues[i] = *revenueModels[i].ToDomain()
	}
	return revenues, total, nil
}

// GormPayoutRepository implements payroll.PayoutRepository using GORM
type GormPayoutRepository struct {
	db *gorm.DB
}

// NewGormPayoutRepository creates a new GormPayoutRepository
func NewGormPayoutRepository(db *gorm.DB) *GormPayoutRepository {
	return &GormPayoutRepository{db: db}
}

// Create stores a payout
func (r *GormPayoutRepository) Create(ctx context.Context, payout *payroll.Payout) error {
	return r.db.WithContext(ctx).Create(models.PayoutModelFromDomain(payout)).Error
}

// FindByUser lists a user's payouts, newest first by default
func (r *GormPayoutRepository) FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]payroll.Payout, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.PayoutModel{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var payoutModels []models.PayoutModel
	if err := applyPage(query, filter, PayoutSortFields, "paid_at").
		Find(&payoutModels).Error; err != nil {
		return nil, 0, err
	}
	return payoutsToDomain(payoutModels), total, nil
}

// FindByRevenue lists the payouts funded by a revenue log
func (r *GormPayoutRepository) FindByRevenue(ctx context.Context, revenueID uuid.UUID) ([]payroll.Payout, error) {
	var payoutModels []models.PayoutModel
	if err := r.db.WithContext(ctx).
		Where("revenue_id = ?", revenueID).
		Order("paid_at ASC").
		Find(&payoutModels).Error; err != nil {
		return nil, err
	}
	return payoutsToDomain(payoutModels), nil
}

// SumByRevenue returns the total already paid out of a revenue log
func (r *GormPayoutRepository) SumByRevenue(ctx context.Context, revenueID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	if err := r.db.WithContext(ctx).
		Model(&models.PayoutModel{}).
		Select("SUM(amount)").
		Where("revenue_id = ?", revenueID).
		Row().Scan(&total); err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

func payoutsToDomain(payoutModels []models.PayoutModel) []payroll.Payout {
	payouts := make([]payroll.Payout, len(payoutModels))
	for i := range payoutModels {
		payouts[i] = *payoutModels[i].ToDomain()
	}
	return payouts
}

// Ensure interfaces are implemented
var (
	_ payroll.AccrualRepository = (*GormAccrualRepository)(nil)
	_ payroll.RevenueRepository = (*GormRevenueRepository)(nil)
	_ payroll.PayoutRepository  = (*GormPayoutRepository)(nil)
)
