package model

import (
	"time"

	"github.com/google/uuid"
)

// Audit actions. Exactly one audit row is written per successful mutation.
const (
	ActionCreate  = "CREATE"
	ActionUpdate  = "UPDATE"
	ActionRestock = "RESTOCK"
	ActionDelete  = "DELETE"
)

// InventoryAudit is an append-only history entry. Rows are never updated or
// deleted by the application; fields snapshot the item at event time so the
// history stays readable after the item itself changes or is removed.
type InventoryAudit struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	AuditDate       string    `gorm:"type:date;index;not null"` // YYYY-MM-DD, query partition
	Timestamp       time.Time `gorm:"not null"`
	InventoryItemID uuid.UUID `gorm:"type:uuid;index;not null"`
	Action          string    `gorm:"not null"` // CREATE | UPDATE | RESTOCK | DELETE
	SKU             string    `gorm:"not null"`
	ItemName        string    `gorm:"not null"`
	Category        string
	StorageLocation string
	ExpirationDate  *string
	QuantityBefore  int `gorm:"not null"`
	QuantityAfter   int `gorm:"not null"`
	QuantityDelta   int `gorm:"not null"`
	CreatedAt       time.Time
}

// TableName overrides GORM's default pluralization.
func (InventoryAudit) TableName() string { return "inventory_audits" }
