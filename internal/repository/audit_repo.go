package repository

import (
	"context"

	"github.com/VarunShelke/accessible-med-tracker/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuditRepository is the append-only history sink. Append returns its error
// so the contract is visible in the signature, but callers are required to
// log and discard it — audit durability never gates an inventory mutation.
type AuditRepository interface {
	Append(ctx context.Context, entry *model.InventoryAudit) error
	ListByDate(ctx context.Context, auditDate string) ([]model.InventoryAudit, error)
	ListByItem(ctx context.Context, itemID uuid.UUID) ([]model.InventoryAudit, error)
}

type auditRepo struct{ db *gorm.DB }

func NewAuditRepository(db *gorm.DB) AuditRepository { return &auditRepo{db: db} }

func (r *auditRepo) Append(ctx context.Context, entry *model.InventoryAudit) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *auditRepo) ListByDate(ctx context.Context, auditDate string) ([]model.InventoryAudit, error) {
	var entries []model.InventoryAudit
	err := r.db.WithContext(ctx).Where("audit_date = ?", auditDate).
		Order("timestamp ASC").Find(&entries).Error
	return entries, err
}

func (r *auditRepo) ListByItem(ctx context.Context, itemID uuid.UUID) ([]model.InventoryAudit, error) {
	var entries []model.InventoryAudit
	err := r.db.WithContext(ctx).Where("inventory_item_id = ?", itemID).
		Order("timestamp ASC").Find(&entries).Error
	return entries, err
}
