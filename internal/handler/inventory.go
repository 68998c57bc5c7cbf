package handler

import (
	"errors"
	"net/http"

	"github.com/VarunShelke/accessible-med-tracker/internal/apierror"
	"github.com/VarunShelke/accessible-med-tracker/internal/dto"
	"github.com/VarunShelke/accessible-med-tracker/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type InventoryHandler struct{ svc service.InventoryService }

func NewInventoryHandler(svc service.InventoryService) *InventoryHandler {
	return &InventoryHandler{svc: svc}
}

// Create handles POST /v1/inventory — create a new item or restock an
// existing SKU. 201 for a fresh record, 200 for a merge.
func (h *InventoryHandler) Create(c *gin.Context) {
	var req dto.CreateItemRequest
	if !bindAndValidate(c, &req) {
		return
	}

	resp, created, err := h.svc.CreateOrRestock(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	if created {
		c.JSON(http.StatusCreated, dto.ItemMutationResponse{Message: "Inventory item created successfully", Item: *resp})
		return
	}
	c.JSON(http.StatusOK, dto.ItemMutationResponse{Message: "Inventory item updated successfully", Item: *resp})
}

// List handles GET /v1/inventory with optional id/sku/category filters.
func (h *InventoryHandler) List(c *gin.Context) {
	var filter dto.InventoryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid query parameters"))
		return
	}

	items, err := h.svc.Get(c.Request.Context(), filter)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.InventoryListResponse{Inventory: items})
}

// LowStock handles GET /v1/inventory/low — items under the configured
// threshold, most urgent first.
func (h *InventoryHandler) LowStock(c *gin.Context) {
	items, err := h.svc.LowStock(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.InventoryListResponse{Inventory: items})
}

// Update handles PUT /v1/inventory/:id with a partial field set.
func (h *InventoryHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid item id"))
		return
	}

	var req dto.UpdateItemRequest
	if !bindAndValidate(c, &req) {
		return
	}

	resp, err := h.svc.Update(c.Request.Context(), id, req)
	if errors.Is(err, service.ErrItemNotFound) {
		c.JSON(http.StatusNotFound, apierror.New("Item not found"))
		return
	}
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.ItemMutationResponse{Message: "Item updated successfully", Item: *resp})
}

// Delete handles DELETE /v1/inventory/:id.
func (h *InventoryHandler) Delete(c *gin.Context) {
	raw := c.Param("id")
	if raw == "" {
		c.JSON(http.StatusBadRequest, apierror.New("Missing item id"))
		return
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid item id"))
		return
	}

	err = h.svc.Delete(c.Request.Context(), id)
	if errors.Is(err, service.ErrItemNotFound) {
		c.JSON(http.StatusNotFound, apierror.New("Item not found"))
		return
	}
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item deleted successfully"})
}
