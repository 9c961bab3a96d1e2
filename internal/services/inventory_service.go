package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"gst_invoicing_backend/internal/models"
	"gst_invoicing_backend/internal/repositories"
	"gst_invoicing_backend/pkg/utils"
)

var ErrItemDescriptionExists = errors.New("an item with this description already exists")

// --- Item DTOs ---
type CreateItemRequest struct {
	Description  string   `json:"description" validate:"required"`
	Unit         string   `json:"unit"`
	HSN          string   `json:"hsn"`
	Rate         float64  `json:"rate" validate:"gte=0"`
	Category     string   `json:"category"`
	Stock        int      `json:"stock" validate:"gte=0"`
	MinStock     int      `json:"minStock" validate:"gte=0"`
	SellingRate  *float64 `json:"sellingRate" validate:"omitempty,gte=0"`
	PurchaseRate *float64 `json:"purchaseRate" validate:"omitempty,gte=0"`
}

// UpdateItemRequest changes only the fields that are present.
type UpdateItemRequest struct {
	Description  *string  `json:"description"`
	Unit         *string  `json:"unit"`
	HSN          *string  `json:"hsn"`
	Rate         *float64 `json:"rate" validate:"omitempty,gte=0"`
	Category     *string  `json:"category"`
	Stock        *int     `json:"stock" validate:"omitempty,gte=0"`
	MinStock     *int     `json:"minStock" validate:"omitempty,gte=0"`
	SellingRate  *float64 `json:"sellingRate" validate:"omitempty,gte=0"`
	PurchaseRate *float64 `json:"purchaseRate" validate:"omitempty,gte=0"`
}

// --- InventoryService Interface ---
type InventoryService interface {
	CreateItem(ctx context.Context, req CreateItemRequest) (*models.Item, error)
	UpdateItem(ctx context.Context, id string, req UpdateItemRequest) (*models.Item, error)
	GetItems(ctx context.Context) ([]models.Item, error)
	GetItemByID(ctx context.Context, id string) (*models.Item, error)
	GetLowStockItems(ctx context.Context) ([]models.Item, error)
}

type inventoryService struct {
	ledger repositories.LedgerRepository
	now    Clock
}

// NewInventoryService creates a new instance of InventoryService.
func NewInventoryService(ledger repositories.LedgerRepository, now Clock) InventoryService {
	if now == nil {
		now = SystemClock
	}
	return &inventoryService{ledger: ledger, now: now}
}

func (s *inventoryService) CreateItem(ctx context.Context, req CreateItemRequest) (*models.Item, error) {
	req.Description = strings.TrimSpace(req.Description)
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if err := s.ensureDescriptionFree(ctx, req.Description, ""); err != nil {
		return nil, err
	}

	item := models.Item{
		ID:           uuid.NewString(),
		Description:  req.Description,
		Unit:         utils.FirstNonEmpty(req.Unit, DefaultUnit),
		HSN:          req.HSN,
		Rate:         req.Rate,
		Category:     utils.FirstNonEmpty(req.Category, DefaultCategory),
		Stock:        req.Stock,
		MinStock:     req.MinStock,
		SellingRate:  req.SellingRate,
		PurchaseRate: req.PurchaseRate,
		CreatedAt:    s.now().Format(time.RFC3339),
	}
	if err := s.ledger.UpsertItem(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to save item: %w", err)
	}
	return &item, nil
}

func (s *inventoryService) UpdateItem(ctx context.Context, id string, req UpdateItemRequest) (*models.Item, error) {
	if req.Description != nil {
		trimmed := strings.TrimSpace(*req.Description)
		if trimmed == "" {
			return nil, fmt.Errorf("%w: description cannot be empty", ErrValidation)
		}
		req.Description = &trimmed
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	item, err := s.GetItemByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Description != nil && *req.Description != item.Description {
		if err := s.ensureDescriptionFree(ctx, *req.Description, item.ID); err != nil {
			return nil, err
		}
		item.Description = *req.Description
	}
	if req.Unit != nil {
		item.Unit = *req.Unit
	}
	if req.HSN != nil {
		item.HSN = *req.HSN
	}
	if req.Rate != nil {
		item.Rate = *req.Rate
	}
	if req.Category != nil {
		item.Category = *req.Category
	}
	if req.Stock != nil {
		item.Stock = *req.Stock
	}
	if req.MinStock != nil {
		item.MinStock = *req.MinStock
	}
	if req.SellingRate != nil {
		item.SellingRate = req.SellingRate
	}
	if req.PurchaseRate != nil {
		item.PurchaseRate = req.PurchaseRate
	}

	if err := s.ledger.UpsertItem(ctx, *item); err != nil {
		return nil, fmt.Errorf("failed to update item: %w", err)
	}
	return item, nil
}

// ensureDescriptionFree rejects a description used by another item, since
// freeform bill lines resolve stock by description.
func (s *inventoryService) ensureDescriptionFree(ctx context.Context, description, selfID string) error {
	other, err := s.ledger.FindItemByDescription(ctx, description)
	if err == nil && other.ID != selfID {
		return ErrItemDescriptionExists
	}
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("failed to check item description: %w", err)
	}
	return nil
}

func (s *inventoryService) GetItems(ctx context.Context) ([]models.Item, error) {
	items, err := s.ledger.ListItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get items: %w", err)
	}
	return items, nil
}

func (s *inventoryService) GetItemByID(ctx context.Context, id string) (*models.Item, error) {
	item, err := s.ledger.FindItemByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to get item by ID: %w", err)
	}
	return item, nil
}

// GetLowStockItems lists items at or below their reorder threshold.
func (s *inventoryService) GetLowStockItems(ctx context.Context) ([]models.Item, error) {
	items, err := s.GetItems(ctx)
	if err != nil {
		return nil, err
	}
	low := []models.Item{}
	for _, it := range items {
		if it.IsLowStock() {
			low = append(low, it)
		}
	}
	return low, nil
}
