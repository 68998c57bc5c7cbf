package repository

import (
	"context"

	"github.com/VarunShelke/accessible-med-tracker/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InventoryRepository defines the data access contract for inventory items.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via in-memory stubs.
type InventoryRepository interface {
	Create(ctx context.Context, item *model.InventoryItem) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.InventoryItem, error)
	// FindBySKU is the secondary unique lookup used by reconciliation.
	FindBySKU(ctx context.Context, sku string) (*model.InventoryItem, error)
	ListByCategory(ctx context.Context, category string) ([]model.InventoryItem, error)
	// List returns every item in created_at order. Product resolution relies
	// on this order being stable: it takes the FIRST containment match.
	List(ctx context.Context) ([]model.InventoryItem, error)
	// ListBelowQuantity returns items with quantity < threshold, most urgent
	// (lowest quantity) first.
	ListBelowQuantity(ctx context.Context, threshold int) ([]model.InventoryItem, error)
	Save(ctx context.Context, item *model.InventoryItem) error
	// UpdateFields applies a partial column set to an existing row and
	// reports how many rows matched — zero means the id does not exist.
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type inventoryRepo struct{ db *gorm.DB }

func NewInventoryRepository(db *gorm.DB) InventoryRepository { return &inventoryRepo{db: db} }

func (r *inventoryRepo) Create(ctx context.Context, item *model.InventoryItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *inventoryRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.InventoryItem, error) {
	var item model.InventoryItem
	err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *inventoryRepo) FindBySKU(ctx context.Context, sku string) (*model.InventoryItem, error) {
	var item model.InventoryItem
	err := r.db.WithContext(ctx).Where("sku = ?", sku).First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *inventoryRepo) ListByCategory(ctx context.Context, category string) ([]model.InventoryItem, error) {
	var items []model.InventoryItem
	err := r.db.WithContext(ctx).Where("category = ?", category).
		Order("created_at ASC").Find(&items).Error
	return items, err
}

func (r *inventoryRepo) List(ctx context.Context) ([]model.InventoryItem, error) {
	var items []model.InventoryItem
	err := r.db.WithContext(ctx).Order("created_at ASC").Find(&items).Error
	return items, err
}

func (r *inventoryRepo) ListBelowQuantity(ctx context.Context, threshold int) ([]model.InventoryItem, error) {
	var items []model.InventoryItem
	err := r.db.WithContext(ctx).Where("quantity < ?", threshold).
		Order("quantity ASC").Find(&items).Error
	return items, err
}

func (r *inventoryRepo) Save(ctx context.Context, item *model.InventoryItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *inventoryRepo) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (int64, error) {
	result := r.db.WithContext(ctx).Model(&model.InventoryItem{}).
		Where("id = ?", id).Updates(fields)
	return result.RowsAffected, result.Error
}

func (r *inventoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.InventoryItem{}, "id = ?", id).Error
}
