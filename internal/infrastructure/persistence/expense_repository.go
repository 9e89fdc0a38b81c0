package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/hrms/backend/internal/domain/expense"
	"github.com/hrms/backend/internal/domain/shared"
	"github.com/hrms/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormExpenseRepository implements expense.Repository using GORM
type GormExpenseRepository struct {
	db *gorm.DB
}

// NewGormExpenseRepository creates a new GormExpenseRepository
func NewGormExpenseRepository(db *gorm.DB) *GormExpenseRepository {
	return &GormExpenseRepository{db: db}
}

// Create stores an expense
func (r *GormExpenseRepository) Create(ctx context.Context, e *expense.Expense) error {
	return r.db.WithContext(ctx).Create(models.ExpenseModelFromDomain(e)).Error
}

// FindByID finds an expense by ID
func (r *GormExpenseRepository) FindByID(ctx context.Context, id uuid.UUID) (*expense.Expense, error) {
	var model models.ExpenseModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return model.ToDomain(), nil
}

// FindAll returns a page of matching expenses with the total count
func (r *GormExpenseRepository) FindAll(ctx context.Context, filter expense.Filter) ([]expense.Expense, int64, error) {
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.ExpenseModel{}), filter)

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var expenseModels []models.ExpenseModel
	if err := applyPage(query, filter.Filter, ExpenseSortFields, "spent_on").
		Find(&expenseModels).Error; err != nil {
		return nil, 0, err
	}
	return expensesToDomain(expenseModels), total, nil
}

// FindAllInRange returns every matching expense, oldest first
func (r *GormExpenseRepository) FindAllInRange(ctx context.Context, filter expense.Filter) ([]expense.Expense, error) {
	var expenseModels []models.ExpenseModel
	if err := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.ExpenseModel{}), filter).
		Order("spent_on ASC").
		Find(&expenseModels).Error; err != nil {
		return nil, err
	}
	return expensesToDomain(expenseModels), nil
}

// Delete removes an expense
func (r *GormExpenseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ExpenseModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormExpenseRepository) applyFilterWithoutPagination(query *gorm.DB, filter expense.Filter) *gorm.DB {
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Category != nil {
		query = query.Where("category = ?", string(*filter.Category))
	}
	if filter.From != nil {
		query = query.Where("spent_on >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("spent_on <= ?", *filter.To)
	}
	return query
}

func expensesToDomain(expenseModels []models.ExpenseModel) []expense.Expense {
	expenses := make([]expense.Expense, len(expenseModels))
	for i := range expenseModels {
		expenses[i] = *expenseModels[i].ToDomain()
	}
	return expenses
}

var _ expense.Repository = (*GormExpenseRepository)(nil)
