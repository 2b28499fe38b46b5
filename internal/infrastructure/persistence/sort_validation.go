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

// QueueItemSortFields contains allowed sort fields for queue items
var QueueItemSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"occurred_at":    true,
	"amount":         true,
	"status":         true,
	"finance_status": true,
	"campaign":       true,
	"customer_name":  true,
}

// ClaimSortFields contains allowed sort fields for claims
var ClaimSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"claimed_at":     true,
	"claimed_by":     true,
	"claim_type":     true,
	"finance_status": true,
}

// ObjectionSortFields contains allowed sort fields for objections
var ObjectionSortFields = map[string]bool{
	"id":          true,
	"created_at":  true,
	"updated_at":  true,
	"status":      true,
	"reason":      true,
	"resolved_at": true,
}

// InstallmentPlanSortFields contains allowed sort fields for installment plans
var InstallmentPlanSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"status":       true,
	"total_amount": true,
}
