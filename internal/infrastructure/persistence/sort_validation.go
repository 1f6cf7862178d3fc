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

// CommonSortFields contains fields common to most entities
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// StockRecordSortFields contains allowed sort fields for stock records
var StockRecordSortFields = map[string]bool{
	"id":               true,
	"created_at":       true,
	"updated_at":       true,
	"warehouse_id":     true,
	"product_id":       true,
	"quantity_on_hand": true,
	"unit_cost":        true,
	"valuation_method": true,
	"min_quantity":     true,
	"max_quantity":     true,
}

// MovementSortFields contains allowed sort fields for movements
var MovementSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"occurred_at":  true,
	"warehouse_id": true,
	"product_id":   true,
	"kind":         true,
	"quantity":     true,
	"origin_type":  true,
	"origin_id":    true,
}

// LotSortFields contains allowed sort fields for lots
var LotSortFields = map[string]bool{
	"id":                 true,
	"created_at":         true,
	"updated_at":         true,
	"lot_number":         true,
	"expiry_date":        true,
	"remaining_quantity": true,
	"status":             true,
}

// ReservationSortFields contains allowed sort fields for reservations
var ReservationSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"status":     true,
	"expires_at": true,
	"quantity":   true,
}

// TransferSortFields contains allowed sort fields for transfers
var TransferSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"code":         true,
	"status":       true,
	"shipped_at":   true,
	"completed_at": true,
}

// AdjustmentSortFields contains allowed sort fields for adjustments
var AdjustmentSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"code":         true,
	"status":       true,
	"approved_at":  true,
	"processed_at": true,
}

// PhysicalCountSortFields contains allowed sort fields for physical counts
var PhysicalCountSortFields = map[string]bool{
	"id":          true,
	"created_at":  true,
	"updated_at":  true,
	"code":        true,
	"status":      true,
	"started_at":  true,
	"finished_at": true,
}

// AlertSortFields contains allowed sort fields for stock alerts
var AlertSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"type":       true,
	"quantity":   true,
}

// ProductSortFields contains allowed sort fields for products
var ProductSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"sku":        true,
	"name":       true,
	"status":     true,
}

// WarehouseSortFields contains allowed sort fields for warehouses
var WarehouseSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"code":       true,
	"name":       true,
	"status":     true,
}
