package handler

import (
	"net/http"
	"time"

	"github.com/VarunShelke/accessible-med-tracker/internal/apierror"
	"github.com/VarunShelke/accessible-med-tracker/internal/dto"
	"github.com/VarunShelke/accessible-med-tracker/internal/model"
	"github.com/VarunShelke/accessible-med-tracker/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AuditHandler serves the read-only audit history (usage charts and
// compliance reviews consume this).
type AuditHandler struct{ repo repository.AuditRepository }

func NewAuditHandler(repo repository.AuditRepository) *AuditHandler {
	return &AuditHandler{repo: repo}
}

// List handles GET /v1/audit?date=YYYY-MM-DD or ?item_id=<uuid>.
// With no filter it returns today's entries.
func (h *AuditHandler) List(c *gin.Context) {
	var filter dto.AuditFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid query parameters"))
		return
	}
	if err := validate.Struct(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid date or item_id filter"))
		return
	}

	var (
		entries []model.InventoryAudit
		err     error
	)
	switch {
	case filter.Date != "":
		entries, err = h.repo.ListByDate(c.Request.Context(), filter.Date)
	case filter.ItemID != "":
		itemID, _ := uuid.Parse(filter.ItemID) // format already validated
		entries, err = h.repo.ListByItem(c.Request.Context(), itemID)
	default:
		entries, err = h.repo.ListByDate(c.Request.Context(), time.Now().UTC().Format("2006-01-02"))
	}
	if err != nil {
		c.Error(err)
		return
	}

	out := make([]dto.AuditEntryResponse, 0, len(entries))
	for i := range entries {
		e := &entries[i]
		out = append(out, dto.AuditEntryResponse{
			ID:              e.ID.String(),
			AuditDate:       e.AuditDate,
			Timestamp:       e.Timestamp.UTC().Format(time.RFC3339),
			InventoryItemID: e.InventoryItemID.String(),
			Action:          e.Action,
			SKU:             e.SKU,
			ItemName:        e.ItemName,
			Category:        e.Category,
			StorageLocation: e.StorageLocation,
			ExpirationDate:  e.ExpirationDate,
			QuantityBefore:  e.QuantityBefore,
			QuantityAfter:   e.QuantityAfter,
			QuantityDelta:   e.QuantityDelta,
		})
	}
	c.JSON(http.StatusOK, dto.AuditListResponse{Audits: out})
}
