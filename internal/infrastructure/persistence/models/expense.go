package models

import (
	"github.com/hrms/backend/internal/domain/expense"
	"github.com/hrms/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ExpenseModel is the persistence model for the Expense aggregate
type ExpenseModel struct {
	UserAggregateModel
	Category    string                `gorm:"type:varchar(30);not null;index"`
	Amount      decimal.Decimal       `gorm:"type:decimal(18,2);not null"`
	SpentOn     valueobject.CivilDate `gorm:"type:date;not null;index"`
	Description string                `gorm:"type:varchar(500);not null;default:''"`
}

// TableName returns the table name for GORM
func (ExpenseModel) TableName() string {
	return "expenses"
}

// ToDomain converts the persistence model to a domain Expense
func (m *ExpenseModel) ToDomain() *expense.Expense {
	return &expense.Expense{
		UserAggregateRoot: m.ToDomainUserAggregateRoot(),
		Category:          expense.Category(m.Category),
		Amount:            m.Amount,
		SpentOn:           m.SpentOn,
		Description:       m.Description,
	}
}

// ExpenseModelFromDomain creates a persistence model from a domain Expense
func ExpenseModelFromDomain(e *expense.Expense) *ExpenseModel {
	m := &ExpenseModel{
		Category:    string(e.Category),
		Amount:      e.Amount,
		SpentOn:     e.SpentOn,
		Description: e.Description,
	}
	m.FromDomainUserAggregateRoot(e.UserAggregateRoot)
	return m
}
