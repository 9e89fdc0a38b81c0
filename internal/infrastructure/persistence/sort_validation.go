package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// AccrualSortFields contains allowed sort fields for salary accruals
var AccrualSortFields = map[string]bool{
	"id":          true,
	"created_at":  true,
	"updated_at":  true,
	"month":       true,
	"amount":      true,
	"paid_amount": true,
	"status":      true,
}

// RevenueSortFields contains allowed sort fields for revenue logs
var RevenueSortFields = map[string]bool{
	"id":          true,
	"created_at":  true,
	"updated_at":  true,
	"received_on": true,
	"amount":      true,
	"source":      true,
}

// PayoutSortFields contains allowed sort fields for payouts
var PayoutSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"paid_at":    true,
	"amount":     true,
}

// ExpenseSortFields contains allowed sort fields for expenses
var ExpenseSortFields = map[string]bool{
	"id":          true,
	"created_at":  true,
	"updated_at":  true,
	"spent_on":    true,
	"category":    true,
	"amount":      true,
	"description": true,
}
