package dto

// AuditFilter narrows the audit history query. Date takes precedence over
// item id when both are supplied.
type AuditFilter struct {
	Date   string `form:"date"    validate:"omitempty,datetime=2006-01-02"`
	ItemID string `form:"item_id" validate:"omitempty,uuid"`
}

type AuditEntryResponse struct {
	ID              string  `json:"id"`
	AuditDate       string  `json:"audit_date"`
	Timestamp       string  `json:"timestamp"`
	InventoryItemID string  `json:"inventory_item_id"`
	Action          string  `json:"action"`
	SKU             string  `json:"sku"`
	ItemName        string  `json:"item_name"`
	Category        string  `json:"category"`
	StorageLocation string  `json:"storage_location"`
	ExpirationDate  *string `json:"expiration_date,omitempty"`
	QuantityBefore  int     `json:"quantity_before"`
	QuantityAfter   int     `json:"quantity_after"`
	QuantityDelta   int     `json:"quantity_delta"`
}

type AuditListResponse struct {
	Audits []AuditEntryResponse `json:"audits"`
}
