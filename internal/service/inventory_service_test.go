package service

import (
	"context"
	"errors"
	"testing"

	"github.com/VarunShelke/accessible-med-tracker/internal/dto"
	"github.com/VarunShelke/accessible-med-tracker/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestInventoryService(repo *stubInventoryRepo, audit *stubAuditRepo) InventoryService {
	return NewInventoryService(repo, NewAuditRecorder(audit), 15)
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestCreateNewItem(t *testing.T) {
	repo := newStubInventoryRepo()
	audit := &stubAuditRepo{}
	svc := newTestInventoryService(repo, audit)

	resp, created, err := svc.CreateOrRestock(context.Background(), dto.CreateItemRequest{
		SKU:             "TYL-500",
		ItemName:        "Extra Strength Tylenol",
		Quantity:        4,
		ExpirationDate:  "2027-03-01",
		StorageLocation: "Cabinet B",
		Category:        "Pain Relief",
		SupplierName:    strPtr("MedSupply Co"),
		SupplierPhone:   strPtr("+12025551234"),
	})

	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "TYL-500", resp.SKU)
	assert.Equal(t, 4, resp.Quantity)

	require.Len(t, audit.entries, 1)
	entry := audit.entries[0]
	assert.Equal(t, model.ActionCreate, entry.Action)
	assert.Equal(t, 0, entry.QuantityBefore)
	assert.Equal(t, 4, entry.QuantityAfter)
	assert.Equal(t, 4, entry.QuantityDelta)
}

func TestRestockExistingSKUAccumulates(t *testing.T) {
	repo := newStubInventoryRepo()
	audit := &stubAuditRepo{}
	svc := newTestInventoryService(repo, audit)
	seedItem(repo, "Extra Strength Tylenol", "TYL-500", 5)

	resp, created, err := svc.CreateOrRestock(context.Background(), dto.CreateItemRequest{
		SKU:      "TYL-500",
		ItemName: "Extra Strength Tylenol",
		Quantity: 3,
	})

	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, 8, resp.Quantity)

	stored, err := repo.FindBySKU(context.Background(), "TYL-500")
	require.NoError(t, err)
	assert.Equal(t, 8, stored.Quantity)

	require.Len(t, audit.entries, 1)
	entry := audit.entries[0]
	assert.Equal(t, model.ActionRestock, entry.Action)
	assert.Equal(t, 5, entry.QuantityBefore)
	assert.Equal(t, 8, entry.QuantityAfter)
	assert.Equal(t, 3, entry.QuantityDelta)
}

func TestRestockOverwritesOnlyProvidedFields(t *testing.T) {
	repo := newStubInventoryRepo()
	audit := &stubAuditRepo{}
	svc := newTestInventoryService(repo, audit)

	existing := seedItem(repo, "Bandages", "BND-100", 10)
	existing.ExpirationDate = "2026-12-31"
	existing.SupplierName = strPtr("Original Supplier")
	require.NoError(t, repo.Save(context.Background(), existing))

	resp, _, err := svc.CreateOrRestock(context.Background(), dto.CreateItemRequest{
		SKU:             "BND-100",
		ItemName:        "Bandages",
		Quantity:        5,
		StorageLocation: "Drawer 3",
	})

	require.NoError(t, err)
	assert.Equal(t, 15, resp.Quantity)
	assert.Equal(t, "Drawer 3", resp.StorageLocation)
	// Omitted fields keep their stored values.
	assert.Equal(t, "2026-12-31", resp.ExpirationDate)
	require.NotNil(t, resp.SupplierName)
	assert.Equal(t, "Original Supplier", *resp.SupplierName)
}

func TestCreateSucceedsWhenAuditFails(t *testing.T) {
	repo := newStubInventoryRepo()
	audit := &stubAuditRepo{appendErr: errors.New("audit store down")}
	svc := newTestInventoryService(repo, audit)

	resp, created, err := svc.CreateOrRestock(context.Background(), dto.CreateItemRequest{
		SKU:      "GZE-10",
		ItemName: "Gauze Pads",
		Quantity: 7,
	})

	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, 7, resp.Quantity)
	assert.Empty(t, audit.entries)
}

func TestGetBySKU(t *testing.T) {
	repo := newStubInventoryRepo()
	svc := newTestInventoryService(repo, &stubAuditRepo{})
	seedItem(repo, "Advil Liqui-Gels", "ADV-200", 40)

	items, err := svc.Get(context.Background(), dto.InventoryFilter{SKU: "ADV-200"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Advil Liqui-Gels", items[0].ItemName)
}

func TestGetMissReturnsEmptyList(t *testing.T) {
	repo := newStubInventoryRepo()
	svc := newTestInventoryService(repo, &stubAuditRepo{})

	items, err := svc.Get(context.Background(), dto.InventoryFilter{SKU: "NOPE"})
	require.NoError(t, err)
	assert.Empty(t, items)

	items, err = svc.Get(context.Background(), dto.InventoryFilter{ID: uuid.NewString()})
	require.NoError(t, err)
	assert.Empty(t, items)

	// Malformed ids behave like a miss, not an error.
	items, err = svc.Get(context.Background(), dto.InventoryFilter{ID: "not-a-uuid"})
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestGetByCategory(t *testing.T) {
	repo := newStubInventoryRepo()
	svc := newTestInventoryService(repo, &stubAuditRepo{})
	seedItem(repo, "Extra Strength Tylenol", "TYL-500", 25)
	bandages := seedItem(repo, "Bandages", "BND-100", 10)
	bandages.Category = "First Aid"
	require.NoError(t, repo.Save(context.Background(), bandages))

	items, err := svc.Get(context.Background(), dto.InventoryFilter{Category: "First Aid"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Bandages", items[0].ItemName)
}

func TestUpdatePartialFields(t *testing.T) {
	repo := newStubInventoryRepo()
	audit := &stubAuditRepo{}
	svc := newTestInventoryService(repo, audit)
	item := seedItem(repo, "Aspirin", "ASP-81", 30)

	resp, err := svc.Update(context.Background(), item.ID, dto.UpdateItemRequest{
		Quantity:        intPtr(12),
		StorageLocation: strPtr("Shelf C"),
	})

	require.NoError(t, err)
	assert.Equal(t, 12, resp.Quantity)
	assert.Equal(t, "Shelf C", resp.StorageLocation)
	assert.Equal(t, "Aspirin", resp.ItemName)

	require.Len(t, audit.entries, 1)
	entry := audit.entries[0]
	assert.Equal(t, model.ActionUpdate, entry.Action)
	assert.Equal(t, 30, entry.QuantityBefore)
	assert.Equal(t, 12, entry.QuantityAfter)
	assert.Equal(t, -18, entry.QuantityDelta)
}

func TestUpdateMissingItem(t *testing.T) {
	repo := newStubInventoryRepo()
	audit := &stubAuditRepo{}
	svc := newTestInventoryService(repo, audit)

	_, err := svc.Update(context.Background(), uuid.New(), dto.UpdateItemRequest{Quantity: intPtr(1)})
	assert.ErrorIs(t, err, ErrItemNotFound)
	assert.Empty(t, audit.entries)
}

func TestDeleteRecordsFinalSnapshot(t *testing.T) {
	repo := newStubInventoryRepo()
	audit := &stubAuditRepo{}
	svc := newTestInventoryService(repo, audit)
	item := seedItem(repo, "Gauze Pads", "GZE-10", 9)

	require.NoError(t, svc.Delete(context.Background(), item.ID))

	_, err := repo.FindByID(context.Background(), item.ID)
	assert.Error(t, err)

	require.Len(t, audit.entries, 1)
	entry := audit.entries[0]
	assert.Equal(t, model.ActionDelete, entry.Action)
	assert.Equal(t, 9, entry.QuantityBefore)
	assert.Equal(t, 0, entry.QuantityAfter)
	assert.Equal(t, "Gauze Pads", entry.ItemName)
}

func TestDeleteMissingItem(t *testing.T) {
	repo := newStubInventoryRepo()
	audit := &stubAuditRepo{}
	svc := newTestInventoryService(repo, audit)

	err := svc.Delete(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrItemNotFound)
	assert.Empty(t, audit.entries)
}

func TestLowStockUsesConfiguredThreshold(t *testing.T) {
	repo := newStubInventoryRepo()
	svc := newTestInventoryService(repo, &stubAuditRepo{}) // threshold 15

	seedItem(repo, "Plenty", "PL-1", 20)
	seedItem(repo, "Borderline", "BL-1", 15)
	seedItem(repo, "Low", "LW-1", 10)
	seedItem(repo, "Critical", "CR-1", 3)

	items, err := svc.LowStock(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	// Sorted ascending by quantity; the threshold boundary is exclusive.
	assert.Equal(t, "Critical", items[0].ItemName)
	assert.Equal(t, "Low", items[1].ItemName)
}
