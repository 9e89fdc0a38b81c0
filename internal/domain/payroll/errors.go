package payroll

import "github.com/hrms/backend/internal/domain/shared"

// Payroll rule violations
var (
	ErrInvalidAmount            = shared.NewDomainError("INVALID_AMOUNT", "Amount must be greater than zero")
	ErrAllocationExceedsRevenue = shared.NewDomainError("ALLOCATION_EXCEEDS_REVENUE", "Allocations exceed the unallocated revenue")
	ErrAccrualSettled           = shared.NewDomainError("ACCRUAL_SETTLED", "Accrual is already fully paid")
	ErrUnknownAllocationPolicy  = shared.NewDomainError("UNKNOWN_ALLOCATION_POLICY", "Unknown payroll allocation policy")
)
