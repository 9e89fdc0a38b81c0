package expense

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hrms/backend/internal/domain/shared"
	"github.com/hrms/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Category groups expenses for analytics
type Category string

const (
	CategoryTravel    Category = "travel"
	CategoryFood      Category = "food"
	CategoryOffice    Category = "office"
	CategorySoftware  Category = "software"
	CategoryUtilities Category = "utilities"
	CategoryOther     Category = "other"
)

// IsValid checks if the category is known
func (c Category) IsValid() bool {
	switch c {
	case CategoryTravel, CategoryFood, CategoryOffice, CategorySoftware, CategoryUtilities, CategoryOther:
		return true
	}
	return false
}

// Expense is money spent by an employee
type Expense struct {
	shared.UserAggregateRoot
	Category    Category
	Amount      decimal.Decimal
	SpentOn     valueobject.CivilDate
	Description string
}

// NewExpense creates an expense
func NewExpense(userID uuid.UUID, category Category, amount decimal.Decimal, spentOn valueobject.CivilDate, description string, at time.Time) (*Expense, error) {
	if userID == uuid.Nil {
		return nil, shared.ErrNotAuthenticated
	}
	if !category.IsValid() {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Unknown expense category")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount must be greater than zero")
	}
	if spentOn.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATE", "Expense date cannot be empty")
	}
	return &Expense{
		UserAggregateRoot: shared.NewUserAggregateRoot(userID, at),
		Category:          category,
		Amount:            amount,
		SpentOn:           spentOn,
		Description:       strings.TrimSpace(description),
	}, nil
}

// CategoryTotal is the spend for one category
type CategoryTotal struct {
	Category Category        `json:"category"`
	Total    decimal.Decimal `json:"total"`
	Count    int             `json:"count"`
}

// MonthTotal is the spend for one month
type MonthTotal struct {
	Month valueobject.YearMonth `json:"month"`
	Total decimal.Decimal       `json:"total"`
}

// Summary is the analytics view over a set of expenses
type Summary struct {
	Total      decimal.Decimal `json:"total"`
	Count      int             `json:"count"`
	ByCategory []CategoryTotal `json:"by_category"`
	ByMonth    []MonthTotal    `json:"by_month"`
}

// Summarize totals expenses by category (largest first) and by month (chronological)
func Summarize(expenses []Expense) Summary {
	summary := Summary{Total: decimal.Zero, ByCategory: []CategoryTotal{}, ByMonth: []MonthTotal{}}
	byCategory := make(map[Category]*CategoryTotal)
	byMonth := make(map[valueobject.YearMonth]*MonthTotal)

	for i := range expenses {
		e := &expenses[i]
		summary.Total = summary.Total.Add(e.Amount)
		summary.Count++

		ct, ok := byCategory[e.Category]
		if !ok {
			ct = &CategoryTotal{Category: e.Category, Total: decimal.Zero}
			byCategory[e.Category] = ct
		}
		ct.Total = ct.Total.Add(e.Amount)
		ct.Count++

		m := e.SpentOn.YearMonth()
		mt, ok := byMonth[m]
		if !ok {
			mt = &MonthTotal{Month: m, Total: decimal.Zero}
			byMonth[m] = mt
		}
		mt.Total = mt.Total.Add(e.Amount)
	}

	for _, ct := range byCategory {
		summary.ByCategory = append(summary.ByCategory, *ct)
	}
	sort.Slice(summary.ByCategory, func(i, j int) bool {
		a, b := summary.ByCategory[i], summary.ByCategory[j]
		if !a.Total.Equal(b.Total) {
			return a.Total.GreaterThan(b.Total)
		}
		return a.Category < b.Category
	})

	for _, mt := range byMonth {
		summary.ByMonth = append(summary.ByMonth, *mt)
	}
	sort.Slice(summary.ByMonth, func(i, j int) bool {
		return summary.ByMonth[i].Month.Before(summary.ByMonth[j].Month)
	})
	return summary
}

// Filter defines filtering options for expense queries
type Filter struct {
	shared.Filter
	UserID   *uuid.UUID
	Category *Category
	From     *valueobject.CivilDate
	To       *valueobject.CivilDate
}

// Repository persists expenses
type Repository interface {
	Create(ctx context.Context, e *Expense) error
	FindByID(ctx context.Context, id uuid.UUID) (*Expense, error)
	// FindAll returns a page of matching expenses, newest first, with the total count
	FindAll(ctx context.Context, filter Filter) ([]Expense, int64, error)
	// FindAllInRange returns every matching expense without paging
	FindAllInRange(ctx context.Context, filter Filter) ([]Expense, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
