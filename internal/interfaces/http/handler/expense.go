package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	expenseapp "github.com/hrms/backend/internal/application/expense"
	"github.com/hrms/backend/internal/domain/shared"
)

// ExpenseService is the expense use cases the handler drives
type ExpenseService interface {
	Create(ctx context.Context, userID uuid.UUID, req expenseapp.CreateRequest) (*expenseapp.ExpenseResponse, error)
	List(ctx context.Context, userID uuid.UUID, query expenseapp.ListQuery) (*shared.Paginated[expenseapp.ExpenseResponse], error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	Summary(ctx context.Context, query expenseapp.SummaryQuery) (*expenseapp.SummaryResponse, error)
}

// ExpenseHandler serves employee expenses
type ExpenseHandler struct {
	BaseHandler
	service ExpenseService
}

// NewExpenseHandler creates a new ExpenseHandler
func NewExpenseHandler(service ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{service: service}
}

// Create records an expense paid by the caller
// POST /api/v1/expenses
func (h *ExpenseHandler) Create(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}

	var req expenseapp.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	expense, err := h.service.Create(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, "Expense recorded", expense)
}

// List pages through the caller's expenses
// GET /api/v1/expenses
func (h *ExpenseHandler) List(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}

	var query expenseapp.ListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BindError(c, err)
		return
	}

	page, err := h.service.List(c.Request.Context(), userID, query)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Page(c, page)
}

// Delete removes one of the caller's expenses
// DELETE /api/v1/expenses/:id
func (h *ExpenseHandler) Delete(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}
	id, ok := h.parseID(c, "expense")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), userID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMessage(c, "Expense deleted", nil)
}

// Summary totals expenses by category and month
// GET /api/v1/expenses/summary?from=&to=&user_id=
func (h *ExpenseHandler) Summary(c *gin.Context) {
	if _, ok := h.requireUser(c); !ok {
		return
	}

	var query expenseapp.SummaryQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BindError(c, err)
		return
	}

	summary, err := h.service.Summary(c.Request.Context(), query)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}
