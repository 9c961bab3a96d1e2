package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"gst_invoicing_backend/internal/models"
	"gst_invoicing_backend/internal/repositories"
	"gst_invoicing_backend/pkg/utils"
)

// DefaultMarkup prices a new item from its purchase rate.
var DefaultMarkup = decimal.RequireFromString("1.3")

// Defaults for items first seen on a purchase.
const (
	DefaultMinStock = 5
	DefaultUnit     = "Nos."
	DefaultCategory = "General"
)

// --- DTOs ---

// PurchaseItemInput is a purchase line as entered.
type PurchaseItemInput struct {
	InventoryItemID string  `json:"inventoryItemId"`
	Description     string  `json:"description" validate:"required"`
	HSN             string  `json:"hsn"`
	Qty             int     `json:"qty" validate:"gt=0"`
	Rate            float64 `json:"rate" validate:"gt=0"`
}

// PurchaseRequest is the full purchase form.
type PurchaseRequest struct {
	Date          string              `json:"date" validate:"omitempty,datetime=2006-01-02"`
	SupplierName  string              `json:"supplierName"`
	SupplierGSTIN string              `json:"supplierGSTIN"`
	BillNo        string              `json:"billNo"`
	IsIGST        bool                `json:"isIGST"`
	Items         []PurchaseItemInput `json:"items"`
}

// --- Draft composition ---

// NewPurchaseDraft returns an empty purchase draft.
func NewPurchaseDraft() *models.PurchaseDraft {
	return &models.PurchaseDraft{Items: []models.PurchaseItem{}}
}

// AddPurchaseItem validates and appends a line.
func AddPurchaseItem(draft *models.PurchaseDraft, in PurchaseItemInput) (models.PurchaseItem, error) {
	in.Description = strings.TrimSpace(in.Description)
	if err := validateStruct(in); err != nil {
		return models.PurchaseItem{}, err
	}
	item := models.PurchaseItem{
		ID:              uuid.NewString(),
		InventoryItemID: strings.TrimSpace(in.InventoryItemID),
		Description:     in.Description,
		HSN:             in.HSN,
		Qty:             in.Qty,
		Rate:            in.Rate,
		Amount:          lineAmount(in.Qty, in.Rate),
	}
	draft.Items = append(draft.Items, item)
	RecomputePurchaseTotals(draft)
	return item, nil
}

// RemovePurchaseItem drops the line with the given id.
func RemovePurchaseItem(draft *models.PurchaseDraft, itemID string) error {
	for i, it := range draft.Items {
		if it.ID == itemID {
			draft.Items = append(draft.Items[:i:i], draft.Items[i+1:]...)
			RecomputePurchaseTotals(draft)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrDraftItemNotFound, itemID)
}

// SetPurchaseIGST switches the tax mode and recomputes.
func SetPurchaseIGST(draft *models.PurchaseDraft, isIGST bool) {
	draft.IsIGST = isIGST
	RecomputePurchaseTotals(draft)
}

// RecomputePurchaseTotals sums lines and tax. Purchases keep paise, no rounding.
func RecomputePurchaseTotals(draft *models.PurchaseDraft) {
	subtotal := decimal.Zero
	for _, it := range draft.Items {
		subtotal = subtotal.Add(utils.Dec(it.Amount))
	}
	gst := CalculateGST(utils.Float(subtotal), draft.IsIGST)

	draft.Subtotal = utils.Float(subtotal)
	draft.CGST = gst.CGST
	draft.SGST = gst.SGST
	draft.IGST = gst.IGST
	draft.GrandTotal = utils.Float(subtotal.
		Add(utils.Dec(gst.CGST)).
		Add(utils.Dec(gst.SGST)).
		Add(utils.Dec(gst.IGST)))
}

// --- PurchaseService Interface ---
type PurchaseService interface {
	PreviewPurchase(req PurchaseRequest) (*models.PurchaseDraft, error)
	CreatePurchase(ctx context.Context, req PurchaseRequest) (*models.PurchaseCommitResult, error)
	CommitPurchase(ctx context.Context, draft models.PurchaseDraft) (*models.PurchaseCommitResult, error)
	GetPurchases(ctx context.Context) ([]models.Purchase, error)
}

type purchaseService struct {
	ledger repositories.LedgerRepository
	now    Clock
}

// NewPurchaseService creates a new instance of PurchaseService.
func NewPurchaseService(ledger repositories.LedgerRepository, now Clock) PurchaseService {
	if now == nil {
		now = SystemClock
	}
	return &purchaseService{ledger: ledger, now: now}
}

func (s *purchaseService) PreviewPurchase(req PurchaseRequest) (*models.PurchaseDraft, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	draft := NewPurchaseDraft()
	draft.Date = req.Date
	draft.SupplierName = strings.TrimSpace(req.SupplierName)
	draft.SupplierGSTIN = strings.TrimSpace(req.SupplierGSTIN)
	draft.BillNo = strings.TrimSpace(req.BillNo)
	draft.IsIGST = req.IsIGST

	for i, in := range req.Items {
		if _, err := AddPurchaseItem(draft, in); err != nil {
			return nil, fmt.Errorf("item %d: %w", i+1, err)
		}
	}
	RecomputePurchaseTotals(draft)
	return draft, nil
}

func (s *purchaseService) CreatePurchase(ctx context.Context, req PurchaseRequest) (*models.PurchaseCommitResult, error) {
	draft, err := s.PreviewPurchase(req)
	if err != nil {
		return nil, err
	}
	return s.CommitPurchase(ctx, *draft)
}

// CommitPurchase saves the purchase and books every line into inventory.
func (s *purchaseService) CommitPurchase(ctx context.Context, draft models.PurchaseDraft) (*models.PurchaseCommitResult, error) {
	if utils.IsEmpty(draft.SupplierName) {
		return nil, fmt.Errorf("%w: supplierName is required", ErrValidation)
	}
	if len(draft.Items) == 0 {
		return nil, fmt.Errorf("%w: a purchase needs at least one item", ErrValidation)
	}
	draft, err := rebuildPurchaseDraft(draft)
	if err != nil {
		return nil, err
	}

	now := s.now()
	purchase := models.Purchase{
		ID:            uuid.NewString(),
		Date:          utils.FirstNonEmpty(draft.Date, now.Format(dateLayout)),
		SupplierName:  strings.TrimSpace(draft.SupplierName),
		SupplierGSTIN: strings.TrimSpace(draft.SupplierGSTIN),
		BillNo:        draft.BillNo,
		Items:         draft.Items,
		Subtotal:      draft.Subtotal,
		CGST:          draft.CGST,
		SGST:          draft.SGST,
		IGST:          draft.IGST,
		GrandTotal:    draft.GrandTotal,
		IsIGST:        draft.IsIGST,
		CreatedAt:     now.Format(time.RFC3339),
	}

	var result *models.PurchaseCommitResult
	err = repositories.RetryOnConflict(ctx, func() error {
		var err error
		result, err = s.persistPurchase(ctx, purchase, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	utils.LogInfo("Purchase committed", map[string]interface{}{
		"purchase_id":   purchase.ID,
		"supplier":      purchase.SupplierName,
		"grand_total":   purchase.GrandTotal,
		"items_updated": len(result.UpdatedItems),
		"items_created": len(result.CreatedItems),
	})
	return result, nil
}

// persistPurchase runs one attempt of the purchase transaction.
func (s *purchaseService) persistPurchase(ctx context.Context, purchase models.Purchase, now time.Time) (*models.PurchaseCommitResult, error) {
	tx, err := s.ledger.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to start purchase transaction: %w", err)
	}
	defer tx.Rollback()

	if err := tx.UpsertPurchase(ctx, purchase); err != nil {
		return nil, fmt.Errorf("failed to save purchase: %w", err)
	}

	result := &models.PurchaseCommitResult{
		Purchase:     purchase,
		UpdatedItems: []models.Item{},
		CreatedItems: []models.Item{},
	}

	for _, line := range purchase.Items {
		item, err := resolveInventoryItem(ctx, tx, line.InventoryItemID, line.Description)
		switch {
		case err == nil:
			item.Stock += line.Qty
			item.PurchaseRate = utils.Float64Ptr(line.Rate)
			item.LastPurchaseDate = purchase.Date
			if err := tx.UpsertItem(ctx, *item); err != nil {
				return nil, fmt.Errorf("failed to update stock for %s: %w", item.Description, err)
			}
			result.UpdatedItems = append(result.UpdatedItems, *item)
		case errors.Is(err, repositories.ErrNotFound):
			created := newItemFromPurchase(line, purchase.Date, now)
			if err := tx.UpsertItem(ctx, created); err != nil {
				return nil, fmt.Errorf("failed to create item %s: %w", created.Description, err)
			}
			result.CreatedItems = append(result.CreatedItems, created)
		default:
			return nil, fmt.Errorf("failed to look up inventory item: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit purchase transaction: %w", err)
	}
	return result, nil
}

// rebuildPurchaseDraft revalidates a draft's lines and derives every amount
// and total again, so nothing computed by the caller is stored.
func rebuildPurchaseDraft(draft models.PurchaseDraft) (models.PurchaseDraft, error) {
	items := make([]models.PurchaseItem, len(draft.Items))
	for i, it := range draft.Items {
		in := PurchaseItemInput{Description: strings.TrimSpace(it.Description), Qty: it.Qty, Rate: it.Rate}
		if err := validateStruct(in); err != nil {
			return draft, fmt.Errorf("item %d: %w", i+1, err)
		}
		if it.ID == "" {
			it.ID = uuid.NewString()
		}
		it.Description = in.Description
		it.Amount = lineAmount(it.Qty, it.Rate)
		items[i] = it
	}
	draft.Items = items
	RecomputePurchaseTotals(&draft)
	return draft, nil
}

// newItemFromPurchase creates the stock item for a line that matched nothing.
// Selling rate is the purchase rate plus the default markup.
func newItemFromPurchase(line models.PurchaseItem, date string, now time.Time) models.Item {
	selling := utils.Float(utils.Dec(line.Rate).Mul(DefaultMarkup))
	return models.Item{
		ID:               uuid.NewString(),
		Description:      line.Description,
		Unit:             DefaultUnit,
		HSN:              line.HSN,
		Rate:             selling,
		Category:         DefaultCategory,
		Stock:            line.Qty,
		MinStock:         DefaultMinStock,
		SellingRate:      utils.Float64Ptr(selling),
		PurchaseRate:     utils.Float64Ptr(line.Rate),
		LastPurchaseDate: date,
		CreatedAt:        now.Format(time.RFC3339),
	}
}

func (s *purchaseService) GetPurchases(ctx context.Context) ([]models.Purchase, error) {
	purchases, err := s.ledger.ListPurchases(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get purchases: %w", err)
	}
	reverseInPlace(purchases)
	return purchases, nil
}
