package handlers

import (
	"net/http"

	"gst_invoicing_backend/internal/models"
	"gst_invoicing_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// InventoryHandler holds the inventory service.
type InventoryHandler struct {
	inventoryService services.InventoryService
}

// NewInventoryHandler creates a new InventoryHandler.
func NewInventoryHandler(is services.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryService: is}
}

func (h *InventoryHandler) CreateItem(c *gin.Context) {
	var req services.CreateItemRequest
	if !bindJSON(c, &req, "CreateItem") {
		return
	}
	item, err := h.inventoryService.CreateItem(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, "CreateItem")
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *InventoryHandler) GetItems(c *gin.Context) {
	items, err := h.inventoryService.GetItems(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "GetItems")
		return
	}
	if items == nil {
		items = []models.Item{}
	}
	c.JSON(http.StatusOK, items)
}

// UpdateItem applies the fields present in the body.
func (h *InventoryHandler) UpdateItem(c *gin.Context) {
	var req services.UpdateItemRequest
	if !bindJSON(c, &req, "UpdateItem") {
		return
	}
	item, err := h.inventoryService.UpdateItem(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondServiceError(c, err, "UpdateItem")
		return
	}
	c.JSON(http.StatusOK, item)
}

// GetLowStockItems lists items at or below their minimum stock.
func (h *InventoryHandler) GetLowStockItems(c *gin.Context) {
	items, err := h.inventoryService.GetLowStockItems(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "GetLowStockItems")
		return
	}
	c.JSON(http.StatusOK, items)
}
