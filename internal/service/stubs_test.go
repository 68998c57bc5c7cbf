package service

// In-memory stubs standing in for the GORM repositories. The item slice
// preserves insertion order because product resolution and the list
// endpoints depend on stable iteration order.

import (
	"context"
	"sort"

	"github.com/VarunShelke/accessible-med-tracker/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type stubInventoryRepo struct {
	items   []*model.InventoryItem
	listErr error
}

func newStubInventoryRepo() *stubInventoryRepo { return &stubInventoryRepo{} }

func (r *stubInventoryRepo) Create(_ context.Context, item *model.InventoryItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	copied := *item
	r.items = append(r.items, &copied)
	return nil
}

func (r *stubInventoryRepo) FindByID(_ context.Context, id uuid.UUID) (*model.InventoryItem, error) {
	for _, it := range r.items {
		if it.ID == id {
			copied := *it
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubInventoryRepo) FindBySKU(_ context.Context, sku string) (*model.InventoryItem, error) {
	for _, it := range r.items {
		if it.SKU == sku {
			copied := *it
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubInventoryRepo) ListByCategory(_ context.Context, category string) ([]model.InventoryItem, error) {
	var out []model.InventoryItem
	for _, it := range r.items {
		if it.Category == category {
			out = append(out, *it)
		}
	}
	return out, nil
}

func (r *stubInventoryRepo) List(_ context.Context) ([]model.InventoryItem, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]model.InventoryItem, 0, len(r.items))
	for _, it := range r.items {
		out = append(out, *it)
	}
	return out, nil
}

func (r *stubInventoryRepo) ListBelowQuantity(_ context.Context, threshold int) ([]model.InventoryItem, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []model.InventoryItem
	for _, it := range r.items {
		if it.Quantity < threshold {
			out = append(out, *it)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Quantity < out[j].Quantity })
	return out, nil
}

func (r *stubInventoryRepo) Save(_ context.Context, item *model.InventoryItem) error {
	for i, it := range r.items {
		if it.ID == item.ID {
			copied := *item
			r.items[i] = &copied
			return nil
		}
	}
	copied := *item
	r.items = append(r.items, &copied)
	return nil
}

func (r *stubInventoryRepo) UpdateFields(_ context.Context, id uuid.UUID, fields map[string]interface{}) (int64, error) {
	for _, it := range r.items {
		if it.ID != id {
			continue
		}
		if v, ok := fields["quantity"]; ok {
			it.Quantity = v.(int)
		}
		if v, ok := fields["item_name"]; ok {
			it.ItemName = v.(string)
		}
		if v, ok := fields["storage_location"]; ok {
			it.StorageLocation = v.(string)
		}
		if v, ok := fields["expiration_date"]; ok {
			it.ExpirationDate = v.(string)
		}
		if v, ok := fields["category"]; ok {
			it.Category = v.(string)
		}
		if v, ok := fields["supplier_name"]; ok {
			name := v.(string)
			it.SupplierName = &name
		}
		if v, ok := fields["supplier_phone"]; ok {
			phone := v.(string)
			it.SupplierPhone = &phone
		}
		return 1, nil
	}
	return 0, nil
}

func (r *stubInventoryRepo) Delete(_ context.Context, id uuid.UUID) error {
	for i, it := range r.items {
		if it.ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return nil
}

// ── Audit stub ───────────────────────────────────────────────────────────────

type stubAuditRepo struct {
	entries   []model.InventoryAudit
	appendErr error
}

func (r *stubAuditRepo) Append(_ context.Context, entry *model.InventoryAudit) error {
	if r.appendErr != nil {
		return r.appendErr
	}
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *stubAuditRepo) ListByDate(_ context.Context, auditDate string) ([]model.InventoryAudit, error) {
	var out []model.InventoryAudit
	for _, e := range r.entries {
		if e.AuditDate == auditDate {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *stubAuditRepo) ListByItem(_ context.Context, itemID uuid.UUID) ([]model.InventoryAudit, error) {
	var out []model.InventoryAudit
	for _, e := range r.entries {
		if e.InventoryItemID == itemID {
			out = append(out, e)
		}
	}
	return out, nil
}
