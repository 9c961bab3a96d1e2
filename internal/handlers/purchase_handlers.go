package handlers

import (
	"net/http"

	"gst_invoicing_backend/internal/models"
	"gst_invoicing_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// PurchaseHandler holds the purchase service.
type PurchaseHandler struct {
	purchaseService services.PurchaseService
}

// NewPurchaseHandler creates a new PurchaseHandler.
func NewPurchaseHandler(ps services.PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{purchaseService: ps}
}

func (h *PurchaseHandler) PreviewPurchase(c *gin.Context) {
	var req services.PurchaseRequest
	if !bindJSON(c, &req, "PreviewPurchase") {
		return
	}
	draft, err := h.purchaseService.PreviewPurchase(req)
	if err != nil {
		respondServiceError(c, err, "PreviewPurchase")
		return
	}
	c.JSON(http.StatusOK, draft)
}

// CreatePurchase commits a purchase and restocks inventory.
func (h *PurchaseHandler) CreatePurchase(c *gin.Context) {
	var req services.PurchaseRequest
	if !bindJSON(c, &req, "CreatePurchase") {
		return
	}
	result, err := h.purchaseService.CreatePurchase(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, "CreatePurchase")
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h *PurchaseHandler) GetPurchases(c *gin.Context) {
	purchases, err := h.purchaseService.GetPurchases(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "GetPurchases")
		return
	}
	if purchases == nil {
		purchases = []models.Purchase{}
	}
	c.JSON(http.StatusOK, purchases)
}
