package expense

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hrms/backend/internal/domain/attendance"
	"github.com/hrms/backend/internal/domain/expense"
	"github.com/hrms/backend/internal/domain/shared"
	"github.com/hrms/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CreateRequest represents a request to record an expense
type CreateRequest struct {
	Category    string          `json:"category" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	SpentOn     string          `json:"spent_on"`
	Description string          `json:"description" binding:"max=1000"`
}

// ListQuery filters the caller's expenses
type ListQuery struct {
	From     string `form:"from"`
	To       string `form:"to"`
	Category string `form:"category"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=200"`
}

// SummaryQuery selects the expenses to aggregate. An empty range means the
// current month.
type SummaryQuery struct {
	From   string `form:"from"`
	To     string `form:"to"`
	UserID string `form:"user_id"`
}

// ExpenseResponse represents an expense in API responses
type ExpenseResponse struct {
	ID          uuid.UUID             `json:"id"`
	UserID      uuid.UUID             `json:"user_id"`
	Category    expense.Category      `json:"category"`
	Amount      decimal.Decimal       `json:"amount"`
	SpentOn     valueobject.CivilDate `json:"spent_on"`
	Description string                `json:"description,omitempty"`
	CreatedAt   time.Time             `json:"created_at"`
}

// SummaryResponse is the expense analytics for a date range
type SummaryResponse struct {
	From valueobject.CivilDate `json:"from"`
	To   valueobject.CivilDate `json:"to"`
	expense.Summary
}

// ToExpenseResponse converts a domain expense to a response DTO
func ToExpenseResponse(e *expense.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:          e.ID,
		UserID:      e.UserID,
		Category:    e.Category,
		Amount:      e.Amount,
		SpentOn:     e.SpentOn,
		Description: e.Description,
		CreatedAt:   e.CreatedAt,
	}
}

// Service manages employee expenses
type Service struct {
	repo     expense.Repository
	calendar *attendance.Calendar
	now      func() time.Time
	logger   *zap.Logger
}

// NewService creates a new expense Service
func NewService(repo expense.Repository, calendar *attendance.Calendar, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, calendar: calendar, now: time.Now, logger: logger}
}

// SetClock overrides the time source
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Create records an expense for the user. SpentOn defaults to today.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, req CreateRequest) (*ExpenseResponse, error) {
	now := s.now()
	spentOn := s.calendar.DateOf(now)
	if req.SpentOn != "" {
		d, err := valueobject.ParseCivilDate(req.SpentOn)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_INPUT", "spent_on must be in YYYY-MM-DD format")
		}
		spentOn = d
	}

	e, err := expense.NewExpense(userID, expense.Category(req.Category), req.Amount, spentOn, req.Description, now)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return nil, err
	}

	s.logger.Info("Expense recorded",
		zap.String("expense_id", e.ID.String()),
		zap.String("user_id", userID.String()),
		zap.String("category", string(e.Category)),
		zap.String("amount", e.Amount.StringFixed(2)),
	)
	resp := ToExpenseResponse(e)
	return &resp, nil
}

// List returns the user's expenses, newest first
func (s *Service) List(ctx context.Context, userID uuid.UUID, query ListQuery) (*shared.Paginated[ExpenseResponse], error) {
	filter := expense.Filter{
		Filter: shared.Filter{Page: query.Page, PageSize: query.PageSize, OrderBy: "spent_on", OrderDir: "desc"},
		UserID: &userID,
	}
	if query.Category != "" {
		category := expense.Category(query.Category)
		if !category.IsValid() {
			return nil, shared.NewDomainError("INVALID_INPUT", "Unknown expense category")
		}
		filter.Category = &category
	}
	if query.From != "" || query.To != "" {
		from, to, err := parseRange(query.From, query.To)
		if err != nil {
			return nil, err
		}
		if !from.IsZero() {
			filter.From = &from
		}
		if !to.IsZero() {
			filter.To = &to
		}
	}

	expenses, total, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]ExpenseResponse, len(expenses))
	for i := range expenses {
		items[i] = ToExpenseResponse(&expenses[i])
	}
	page := query.Page
	if page < 1 {
		page = 1
	}
	result := shared.NewPaginated(items, total, page, filter.Limit())
	return &result, nil
}

// Delete removes one of the user's expenses. Another user's expense is
// reported as not found.
func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if e.UserID != userID {
		return shared.ErrNotFound
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Expense deleted", zap.String("expense_id", id.String()), zap.String("user_id", userID.String()))
	return nil
}

// Summary totals expenses by category and by month
func (s *Service) Summary(ctx context.Context, query SummaryQuery) (*SummaryResponse, error) {
	from, to, err := parseRange(query.From, query.To)
	if err != nil {
		return nil, err
	}
	if from.IsZero() && to.IsZero() {
		month := s.calendar.DateOf(s.now()).YearMonth()
		from, to = month.FirstDay(), month.LastDay()
	}
	if from.IsZero() || to.IsZero() {
		return nil, shared.NewDomainError("INVALID_INPUT", "from and to must be given together")
	}

	filter := expense.Filter{From: &from, To: &to}
	if query.UserID != "" {
		userID, err := uuid.Parse(query.UserID)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_INPUT", "user_id must be a UUID")
		}
		filter.UserID = &userID
	}

	expenses, err := s.repo.FindAllInRange(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &SummaryResponse{From: from, To: to, Summary: expense.Summarize(expenses)}, nil
}

func parseRange(rawFrom, rawTo string) (from, to valueobject.CivilDate, err error) {
	invalid := shared.NewDomainError("INVALID_INPUT", "from and to must be in YYYY-MM-DD format")
	if rawFrom != "" {
		if from, err = valueobject.ParseCivilDate(rawFrom); err != nil {
			return from, to, invalid
		}
	}
	if rawTo != "" {
		if to, err = valueobject.ParseCivilDate(rawTo); err != nil {
			return from, to, invalid
		}
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return from, to, shared.NewDomainError("INVALID_INPUT", "to must not be before from")
	}
	return from, to, nil
}
