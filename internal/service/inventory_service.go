package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/VarunShelke/accessible-med-tracker/internal/dto"
	"github.com/VarunShelke/accessible-med-tracker/internal/model"
	"github.com/VarunShelke/accessible-med-tracker/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// InventoryService defines the business logic contract for inventory CRUD and
// SKU reconciliation.
type InventoryService interface {
	// CreateOrRestock upserts by SKU: an existing record accumulates the new
	// quantity (RESTOCK), otherwise a fresh record is created (CREATE). The
	// returned flag is true for the create branch.
	CreateOrRestock(ctx context.Context, req dto.CreateItemRequest) (*dto.ItemResponse, bool, error)
	Get(ctx context.Context, filter dto.InventoryFilter) ([]dto.ItemResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateItemRequest) (*dto.ItemResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	LowStock(ctx context.Context) ([]dto.ItemResponse, error)
}

type inventoryService struct {
	repo      repository.InventoryRepository
	audit     *AuditRecorder
	threshold int // low-stock report threshold
}

func NewInventoryService(repo repository.InventoryRepository, audit *AuditRecorder, lowStockThreshold int) InventoryService {
	return &inventoryService{repo: repo, audit: audit, threshold: lowStockThreshold}
}

// ── Create / Restock (SKU reconciliation) ────────────────────────────────────
// The SKU lookup and the subsequent write are not atomic: two concurrent ADDs
// for the same SKU can both miss and both create, or both read the same
// pre-update quantity. Known limitation of the read-then-write upsert; a
// conditional increment would close it.

func (s *inventoryService) CreateOrRestock(ctx context.Context, req dto.CreateItemRequest) (*dto.ItemResponse, bool, error) {
	existing, err := s.repo.FindBySKU(ctx, strings.TrimSpace(req.SKU))
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	if existing != nil && err == nil {
		before := existing.Quantity
		existing.Quantity += req.Quantity
		// Optional inputs overwrite only when present; omitted fields keep
		// their stored values.
		if req.StorageLocation != "" {
			existing.StorageLocation = strings.TrimSpace(req.StorageLocation)
		}
		if req.ExpirationDate != "" {
			existing.ExpirationDate = req.ExpirationDate
		}
		if req.Category != "" {
			existing.Category = strings.TrimSpace(req.Category)
		}
		if req.SupplierName != nil {
			existing.SupplierName = req.SupplierName
		}
		if req.SupplierPhone != nil {
			existing.SupplierPhone = req.SupplierPhone
		}
		existing.UpdatedAt = time.Now().UTC()

		if err := s.repo.Save(ctx, existing); err != nil {
			return nil, false, err
		}

		if err := s.audit.Record(ctx, model.ActionRestock, existing, before, existing.Quantity); err != nil {
			log.Warn().Err(err).Str("sku", existing.SKU).Msg("inventory: audit write failed")
		}
		resp := itemToResponse(existing)
		return &resp, false, nil
	}

	item := &model.InventoryItem{
		ID:              uuid.New(),
		SKU:             strings.TrimSpace(req.SKU),
		ItemName:        strings.TrimSpace(req.ItemName),
		Quantity:        req.Quantity,
		ExpirationDate:  req.ExpirationDate,
		StorageLocation: strings.TrimSpace(req.StorageLocation),
		Category:        strings.TrimSpace(req.Category),
		SupplierName:    req.SupplierName,
		SupplierPhone:   req.SupplierPhone,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, false, err
	}

	if err := s.audit.Record(ctx, model.ActionCreate, item, 0, item.Quantity); err != nil {
		log.Warn().Err(err).Str("sku", item.SKU).Msg("inventory: audit write failed")
	}
	resp := itemToResponse(item)
	return &resp, true, nil
}

// ── Read ─────────────────────────────────────────────────────────────────────

func (s *inventoryService) Get(ctx context.Context, filter dto.InventoryFilter) ([]dto.ItemResponse, error) {
	switch {
	case filter.ID != "":
		id, err := uuid.Parse(filter.ID)
		if err != nil {
			// A malformed id cannot match anything; mirror the empty result
			// of a miss instead of failing the whole listing.
			return []dto.ItemResponse{}, nil
		}
		item, err := s.repo.FindByID(ctx, id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []dto.ItemResponse{}, nil
		}
		if err != nil {
			return nil, err
		}
		return []dto.ItemResponse{itemToResponse(item)}, nil

	case filter.SKU != "":
		item, err := s.repo.FindBySKU(ctx, filter.SKU)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []dto.ItemResponse{}, nil
		}
		if err != nil {
			return nil, err
		}
		return []dto.ItemResponse{itemToResponse(item)}, nil

	case filter.Category != "":
		items, err := s.repo.ListByCategory(ctx, filter.Category)
		if err != nil {
			return nil, err
		}
		return itemsToResponses(items), nil

	default:
		items, err := s.repo.List(ctx)
		if err != nil {
			return nil, err
		}
		return itemsToResponses(items), nil
	}
}

// ── Update ───────────────────────────────────────────────────────────────────

func (s *inventoryService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	old, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{"updated_at": time.Now().UTC()}
	if req.Quantity != nil {
		fields["quantity"] = *req.Quantity
	}
	if req.ItemName != nil {
		fields["item_name"] = strings.TrimSpace(*req.ItemName)
	}
	if req.StorageLocation != nil {
		fields["storage_location"] = strings.TrimSpace(*req.StorageLocation)
	}
	if req.ExpirationDate != nil {
		fields["expiration_date"] = *req.ExpirationDate
	}
	if req.Category != nil {
		fields["category"] = strings.TrimSpace(*req.Category)
	}
	if req.SupplierName != nil {
		fields["supplier_name"] = *req.SupplierName
	}
	if req.SupplierPhone != nil {
		fields["supplier_phone"] = *req.SupplierPhone
	}

	// Conditional write: zero matched rows means the item vanished between
	// the read and the update.
	rows, err := s.repo.UpdateFields(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, ErrItemNotFound
	}

	updated, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.audit.Record(ctx, model.ActionUpdate, updated, old.Quantity, updated.Quantity); err != nil {
		log.Warn().Err(err).Str("id", id.String()).Msg("inventory: audit write failed")
	}
	resp := itemToResponse(updated)
	return &resp, nil
}

// ── Delete ───────────────────────────────────────────────────────────────────

func (s *inventoryService) Delete(ctx context.Context, id uuid.UUID) error {
	// Fetch first — the terminal audit entry needs the final snapshot.
	item, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrItemNotFound
	}
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.audit.Record(ctx, model.ActionDelete, item, item.Quantity, 0); err != nil {
		log.Warn().Err(err).Str("id", id.String()).Msg("inventory: audit write failed")
	}
	return nil
}

// ── Low-stock report ─────────────────────────────────────────────────────────

func (s *inventoryService) LowStock(ctx context.Context) ([]dto.ItemResponse, error) {
	items, err := s.repo.ListBelowQuantity(ctx, s.threshold)
	if err != nil {
		return nil, err
	}
	return itemsToResponses(items), nil
}

// ── Mapping ──────────────────────────────────────────────────────────────────

func itemToResponse(item *model.InventoryItem) dto.ItemResponse {
	return dto.ItemResponse{
		ID:              item.ID.String(),
		SKU:             item.SKU,
		ItemName:        item.ItemName,
		Quantity:        item.Quantity,
		ExpirationDate:  item.ExpirationDate,
		StorageLocation: item.StorageLocation,
		Category:        item.Category,
		SupplierName:    item.SupplierName,
		SupplierPhone:   item.SupplierPhone,
		CreatedAt:       item.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:       item.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func itemsToResponses(items []model.InventoryItem) []dto.ItemResponse {
	out := make([]dto.ItemResponse, 0, len(items))
	for i := range items {
		out = append(out, itemToResponse(&items[i]))
	}
	return out
}
