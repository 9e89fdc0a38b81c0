package payroll

import (
	"time"

	"github.com/google/uuid"
	"github.com/hrms/backend/internal/domain/payroll"
	"github.com/hrms/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Distribution outcomes per user
const (
	OutcomePaid    = "paid"
	OutcomeSkipped = "skipped"
	OutcomeFailed  = "failed"
)

// CreateAccrualRequest represents a request to accrue a monthly salary
type CreateAccrualRequest struct {
	UserID uuid.UUID       `json:"user_id" binding:"required"`
	Month  string          `json:"month" binding:"required"`
	Amount decimal.Decimal `json:"amount" binding:"required"`
	Notes  string          `json:"notes" binding:"max=1000"`
}

// AccrualListFilter defines filtering options for accrual list queries
type AccrualListFilter struct {
	UserID   string `form:"user_id"`
	Status   string `form:"status" binding:"omitempty,oneof=unpaid partially_paid paid"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=200"`
}

// RecordRevenueRequest represents a request to log received money
type RecordRevenueRequest struct {
	Source     string          `json:"source" binding:"required,max=200"`
	Amount     decimal.Decimal `json:"amount" binding:"required"`
	ReceivedOn string          `json:"received_on" binding:"required"`
	Notes      string          `json:"notes" binding:"max=1000"`
}

// PageQuery is a plain pagination query
type PageQuery struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=200"`
}

// UserAllocation is the amount to pay one user out of a revenue log
type UserAllocation struct {
	UserID uuid.UUID       `json:"user_id" binding:"required"`
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// DistributeRequest represents a request to distribute a revenue log as salary
type DistributeRequest struct {
	Allocations []UserAllocation `json:"allocations" binding:"required,min=1,dive"`
	Note        string           `json:"note" binding:"max=500"`
}

// AccrualResponse represents a salary accrual in API responses
type AccrualResponse struct {
	ID         uuid.UUID             `json:"id"`
	UserID     uuid.UUID             `json:"user_id"`
	Month      valueobject.YearMonth `json:"month"`
	Amount     decimal.Decimal       `json:"amount"`
	PaidAmount decimal.Decimal       `json:"paid_amount"`
	Remaining  decimal.Decimal       `json:"remaining"`
	Overpaid   decimal.Decimal       `json:"overpaid"`
	Status     string                `json:"status"`
	Notes      string                `json:"notes,omitempty"`
	CreatedAt  time.Time             `json:"created_at"`
	UpdatedAt  time.Time             `json:"updated_at"`
	Version    int                   `json:"version"`
}

// RevenueResponse represents a revenue log in API responses
type RevenueResponse struct {
	ID          uuid.UUID             `json:"id"`
	Source      string                `json:"source"`
	Amount      decimal.Decimal       `json:"amount"`
	ReceivedOn  valueobject.CivilDate `json:"received_on"`
	Notes       string                `json:"notes,omitempty"`
	RecordedBy  uuid.UUID             `json:"recorded_by"`
	Distributed *decimal.Decimal      `json:"distributed,omitempty"`
	Payouts     []PayoutResponse      `json:"payouts,omitempty"`
	CreatedAt   time.Time             `json:"created_at"`
}

// PayoutResponse represents a payout in API responses
type PayoutResponse struct {
	ID        uuid.UUID       `json:"id"`
	UserID    uuid.UUID       `json:"user_id"`
	AccrualID uuid.UUID       `json:"accrual_id"`
	RevenueID uuid.UUID       `json:"revenue_id"`
	Amount    decimal.Decimal `json:"amount"`
	PaidAt    time.Time       `json:"paid_at"`
	Note      string          `json:"note,omitempty"`
}

// UserDistribution is the outcome of one user's allocation
type UserDistribution struct {
	UserID    uuid.UUID         `json:"user_id"`
	Requested decimal.Decimal   `json:"requested"`
	Outcome   string            `json:"outcome"`
	ErrorCode string            `json:"error_code,omitempty"`
	Error     string            `json:"error,omitempty"`
	Payouts   []PayoutResponse  `json:"payouts,omitempty"`
	Accruals  []AccrualResponse `json:"accruals,omitempty"`
}

// DistributionResult summarizes a distribution run
type DistributionResult struct {
	RevenueID      uuid.UUID          `json:"revenue_id"`
	Policy         string             `json:"policy"`
	TotalRequested decimal.Decimal    `json:"total_requested"`
	TotalPaid      decimal.Decimal    `json:"total_paid"`
	Users          []UserDistribution `json:"users"`
}

// ToAccrualResponse converts a domain accrual to a response DTO
func ToAccrualResponse(a *payroll.SalaryAccrual) AccrualResponse {
	return AccrualResponse{
		ID:         a.ID,
		UserID:     a.UserID,
		Month:      a.Month,
		Amount:     a.Amount,
		PaidAmount: a.PaidAmount,
		Remaining:  a.Remaining(),
		Overpaid:   a.Overpaid(),
		Status:     a.Status.String(),
		Notes:      a.Notes,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
		Version:    a.Version,
	}
}

// ToRevenueResponse converts a domain revenue log to a response DTO
func ToRevenueResponse(r *payroll.RevenueLog) RevenueResponse {
	return RevenueResponse{
		ID:         r.ID,
		Source:     r.Source,
		Amount:     r.Amount,
		ReceivedOn: r.ReceivedOn,
		Notes:      r.Notes,
		RecordedBy: r.RecordedBy,
		CreatedAt:  r.CreatedAt,
	}
}

// ToPayoutResponse converts a domain payout to a response DTO
func ToPayoutResponse(p *payroll.Payout) PayoutResponse {
	return PayoutResponse{
		ID:        p.ID,
		UserID:    p.UserID,
		AccrualID: p.AccrualID,
		RevenueID: p.RevenueID,
		Amount:    p.Amount,
		PaidAt:    p.PaidAt,
		Note:      p.Note,
	}
}
