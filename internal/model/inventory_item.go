package model

import (
	"time"

	"github.com/google/uuid"
)

// InventoryItem is one tracked medical supply. SKU is the business-level
// unique key: reconciliation merges quantities into an existing row instead
// of creating a duplicate (see service.InventoryService.CreateOrRestock).
type InventoryItem struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SKU             string    `gorm:"uniqueIndex;not null"`
	ItemName        string    `gorm:"index;not null"`
	Quantity        int       `gorm:"not null;default:0"`
	ExpirationDate  string    `gorm:"type:date;not null"` // YYYY-MM-DD
	StorageLocation string    `gorm:"not null"`
	Category        string    `gorm:"index;not null"`
	SupplierName    *string
	SupplierPhone   *string // E.164 when present
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName overrides GORM's default pluralization.
func (InventoryItem) TableName() string { return "inventory_items" }
