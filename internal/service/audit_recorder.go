package service

import (
	"context"
	"time"

	"github.com/VarunShelke/accessible-med-tracker/internal/model"
	"github.com/VarunShelke/accessible-med-tracker/internal/repository"

	"github.com/google/uuid"
)

// AuditRecorder writes one immutable history entry per successful inventory
// mutation. Record returns the append error so the fire-and-forget contract
// is explicit in the signature; callers log it and move on — a failed audit
// write never rolls back or fails the primary mutation.
type AuditRecorder struct {
	repo repository.AuditRepository
}

func NewAuditRecorder(repo repository.AuditRepository) *AuditRecorder {
	return &AuditRecorder{repo: repo}
}

// Record snapshots the item at event time under the given action.
func (r *AuditRecorder) Record(ctx context.Context, action string, item *model.InventoryItem, quantityBefore, quantityAfter int) error {
	now := time.Now().UTC()

	var expiration *string
	if item.ExpirationDate != "" {
		exp := item.ExpirationDate
		expiration = &exp
	}

	entry := &model.InventoryAudit{
		ID:              uuid.New(),
		AuditDate:       now.Format("2006-01-02"),
		Timestamp:       now,
		InventoryItemID: item.ID,
		Action:          action,
		SKU:             item.SKU,
		ItemName:        item.ItemName,
		Category:        item.Category,
		StorageLocation: item.StorageLocation,
		ExpirationDate:  expiration,
		QuantityBefore:  quantityBefore,
		QuantityAfter:   quantityAfter,
		QuantityDelta:   quantityAfter - quantityBefore,
	}

	return r.repo.Append(ctx, entry)
}
