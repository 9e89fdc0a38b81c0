package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	payrollapp "github.com/hrms/backend/internal/application/payroll"
	"github.com/hrms/backend/internal/domain/shared"
)

// PayrollService is the payroll use cases the handler drives
type PayrollService interface {
	CreateAccrual(ctx context.Context, req payrollapp.CreateAccrualRequest) (*payrollapp.AccrualResponse, error)
	ListAccruals(ctx context.Context, filter payrollapp.AccrualListFilter) (*shared.Paginated[payrollapp.AccrualResponse], error)
	RecordRevenue(ctx context.Context, recordedBy uuid.UUID, req payrollapp.RecordRevenueRequest) (*payrollapp.RevenueResponse, error)
	ListRevenue(ctx context.Context, query payrollapp.PageQuery) (*shared.Paginated[payrollapp.RevenueResponse], error)
	GetRevenue(ctx context.Context, id uuid.UUID) (*payrollapp.RevenueResponse, error)
	ListPayouts(ctx context.Context, userID uuid.UUID, query payrollapp.PageQuery) (*shared.Paginated[payrollapp.PayoutResponse], error)
	Distribute(ctx context.Context, revenueID uuid.UUID, req payrollapp.DistributeRequest) (*payrollapp.DistributionResult, error)
}

// PayrollHandler serves salary accruals, revenue logs and distributions
type PayrollHandler struct {
	BaseHandler
	service PayrollService
}

// NewPayrollHandler creates a new PayrollHandler
func NewPayrollHandler(service PayrollService) *PayrollHandler {
	return &PayrollHandler{service: service}
}

// payoutQuery lists payouts of the caller unless user_id names someone else
type payoutQuery struct {
	payrollapp.PageQuery
	UserID string `form:"user_id" binding:"omitempty,uuid"`
}

// CreateAccrual records salary owed to a user for a month
// POST /api/v1/payroll/accruals
func (h *PayrollHandler) CreateAccrual(c *gin.Context) {
	if _, ok := h.requireUser(c); !ok {
		return
	}

	var req payrollapp.CreateAccrualRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	accrual, err := h.service.CreateAccrual(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, "Accrual created", accrual)
}

// ListAccruals lists accruals, optionally by user and status
// GET /api/v1/payroll/accruals
func (h *PayrollHandler) ListAccruals(c *gin.Context) {
	if _, ok := h.requireUser(c); !ok {
		return
	}

	var filter payrollapp.AccrualListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	page, err := h.service.ListAccruals(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Page(c, page)
}

// RecordRevenue logs money received by the company
// POST /api/v1/payroll/revenue
func (h *PayrollHandler) RecordRevenue(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}

	var req payrollapp.RecordRevenueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	revenue, err := h.service.RecordRevenue(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, "Revenue recorded", revenue)
}

// ListRevenue lists revenue logs, newest first
// GET /api/v1/payroll/revenue
func (h *PayrollHandler) ListRevenue(c *gin.Context) {
	if _, ok := h.requireUser(c); !ok {
		return
	}

	var query payrollapp.PageQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BindError(c, err)
		return
	}

	page, err := h.service.ListRevenue(c.Request.Context(), query)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Page(c, page)
}

// GetRevenue returns a revenue log with the payouts it funded
// GET /api/v1/payroll/revenue/:id
func (h *PayrollHandler) GetRevenue(c *gin.Context) {
	if _, ok := h.requireUser(c); !ok {
		return
	}
	id, ok := h.parseID(c, "revenue")
	if !ok {
		return
	}

	revenue, err := h.service.GetRevenue(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, revenue)
}

// Distribute pays users out of a revenue log
// POST /api/v1/payroll/revenue/:id/distribute
func (h *PayrollHandler) Distribute(c *gin.Context) {
	if _, ok := h.requireUser(c); !ok {
		return
	}
	id, ok := h.parseID(c, "revenue")
	if !ok {
		return
	}

	var req payrollapp.DistributeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.service.Distribute(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMessage(c, "Revenue distributed", result)
}

// ListPayouts lists payouts, newest first
// GET /api/v1/payroll/payouts
func (h *PayrollHandler) ListPayouts(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}

	var query payoutQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BindError(c, err)
		return
	}
	if query.UserID != "" {
		userID = uuid.MustParse(query.UserID)
	}

	page, err := h.service.ListPayouts(c.Request.Context(), userID, query.PageQuery)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Page(c, page)
}
