package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

// CreateItemRequest is the payload for the create/restock endpoint. Supplier
// fields are optional; when omitted on a restock the stored values are kept.
type CreateItemRequest struct {
	SKU             string  `json:"sku"              validate:"required"`
	ItemName        string  `json:"item_name"        validate:"required"`
	Quantity        int     `json:"quantity"         validate:"min=0"`
	ExpirationDate  string  `json:"expiration_date"  validate:"required,datetime=2006-01-02"`
	StorageLocation string  `json:"storage_location" validate:"required"`
	Category        string  `json:"category"         validate:"required"`
	SupplierName    *string `json:"supplier_name"`
	SupplierPhone   *string `json:"supplier_phone"   validate:"omitempty,e164"`
}

// UpdateItemRequest carries a partial field set; nil fields are left untouched.
type UpdateItemRequest struct {
	Quantity        *int    `json:"quantity"         validate:"omitempty,min=0"`
	ItemName        *string `json:"item_name"`
	StorageLocation *string `json:"storage_location"`
	ExpirationDate  *string `json:"expiration_date"  validate:"omitempty,datetime=2006-01-02"`
	Category        *string `json:"category"`
	SupplierName    *string `json:"supplier_name"`
	SupplierPhone   *string `json:"supplier_phone"   validate:"omitempty,e164"`
}

// ─── Filters ─────────────────────────────────────────────────────────────────

// InventoryFilter narrows the GET /v1/inventory listing. At most one of the
// three is honored, in this order: id, sku, category.
type InventoryFilter struct {
	ID       string `form:"id"`
	SKU      string `form:"sku"`
	Category string `form:"category"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ItemResponse struct {
	ID              string  `json:"id"`
	SKU             string  `json:"sku"`
	ItemName        string  `json:"item_name"`
	Quantity        int     `json:"quantity"`
	ExpirationDate  string  `json:"expiration_date"`
	StorageLocation string  `json:"storage_location"`
	Category        string  `json:"category"`
	SupplierName    *string `json:"supplier_name,omitempty"`
	SupplierPhone   *string `json:"supplier_phone,omitempty"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
}

// ItemMutationResponse wraps a mutated item with a human-readable message.
type ItemMutationResponse struct {
	Message string       `json:"message"`
	Item    ItemResponse `json:"item"`
}

type InventoryListResponse struct {
	Inventory []ItemResponse `json:"inventory"`
}
