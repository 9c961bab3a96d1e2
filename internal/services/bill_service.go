package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"gst_invoicing_backend/internal/models"
	"gst_invoicing_backend/internal/repositories"
	"gst_invoicing_backend/pkg/utils"
)

const dateLayout = "2006-01-02"

// Stock skip reasons.
const (
	SkipReasonNotFound          = "not_found"
	SkipReasonInsufficientStock = "insufficient_stock"
)

// --- DTOs ---

// BillItemInput is a bill line as entered. Amount is never accepted from input.
type BillItemInput struct {
	InventoryItemID string  `json:"inventoryItemId"`
	Description     string  `json:"description" validate:"required"`
	Unit            string  `json:"unit"`
	HSN             string  `json:"hsn"`
	Qty             int     `json:"qty" validate:"gt=0"`
	Rate            float64 `json:"rate" validate:"gt=0"`
}

// BillRequest is the full bill form. Items are replayed through AddBillItem.
type BillRequest struct {
	BillNo        string          `json:"billNo"`
	Date          string          `json:"date" validate:"omitempty,datetime=2006-01-02"`
	ClientID      string          `json:"clientId"`
	ClientName    string          `json:"clientName"`
	ClientGSTIN   string          `json:"clientGSTIN"`
	ClientAddress string          `json:"clientAddress"`
	PONumber      string          `json:"poNumber"`
	SiteAddress   string          `json:"siteAddress"`
	IsIGST        bool            `json:"isIGST"`
	Items         []BillItemInput `json:"items"`
}

// --- Draft composition ---

// NewBillDraft returns an empty draft with zeroed totals.
func NewBillDraft() *models.BillDraft {
	d := &models.BillDraft{Items: []models.BillItem{}}
	RecomputeBillTotals(d)
	return d
}

// AddBillItem validates a line, assigns it a fresh id and appends it.
// On rejection the draft is left untouched.
func AddBillItem(draft *models.BillDraft, in BillItemInput) (models.BillItem, error) {
	in.Description = strings.TrimSpace(in.Description)
	if err := validateStruct(in); err != nil {
		return models.BillItem{}, err
	}

	item := models.BillItem{
		ID:              uuid.NewString(),
		InventoryItemID: strings.TrimSpace(in.InventoryItemID),
		Description:     in.Description,
		Unit:            in.Unit,
		HSN:             in.HSN,
		Qty:             in.Qty,
		Rate:            in.Rate,
		Amount:          lineAmount(in.Qty, in.Rate),
	}
	draft.Items = append(draft.Items, item)
	RecomputeBillTotals(draft)
	return item, nil
}

// RemoveBillItem drops the line with the given id.
func RemoveBillItem(draft *models.BillDraft, itemID string) error {
	for i, it := range draft.Items {
		if it.ID == itemID {
			draft.Items = append(draft.Items[:i:i], draft.Items[i+1:]...)
			RecomputeBillTotals(draft)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrDraftItemNotFound, itemID)
}

// SetBillIGST switches the tax mode and recomputes.
func SetBillIGST(draft *models.BillDraft, isIGST bool) {
	draft.IsIGST = isIGST
	RecomputeBillTotals(draft)
}

// RecomputeBillTotals derives every total from the line amounts and tax mode.
// The grand total is rounded half up to whole rupees; RoundOff holds the difference.
func RecomputeBillTotals(draft *models.BillDraft) {
	subtotal := decimal.Zero
	for _, it := range draft.Items {
		subtotal = subtotal.Add(utils.Dec(it.Amount))
	}
	gst := CalculateGST(utils.Float(subtotal), draft.IsIGST)

	preRound := subtotal.
		Add(utils.Dec(gst.CGST)).
		Add(utils.Dec(gst.SGST)).
		Add(utils.Dec(gst.IGST))
	grand := roundHalfUp(preRound)

	draft.Subtotal = utils.Float(subtotal)
	draft.CGST = gst.CGST
	draft.SGST = gst.SGST
	draft.IGST = gst.IGST
	draft.GrandTotal = utils.Float(grand)
	draft.RoundOff = utils.Float(grand.Sub(preRound))
	draft.AmountInWords = ConvertToWords(grand.IntPart())
}

func lineAmount(qty int, rate float64) float64 {
	return utils.Float(decimal.NewFromInt(int64(qty)).Mul(utils.Dec(rate)))
}

// rebuildBillDraft revalidates a draft's lines and derives every amount and
// total again, so nothing computed by the caller is stored.
func rebuildBillDraft(draft models.BillDraft) (models.BillDraft, error) {
	items := make([]models.BillItem, len(draft.Items))
	for i, it := range draft.Items {
		in := BillItemInput{Description: strings.TrimSpace(it.Description), Qty: it.Qty, Rate: it.Rate}
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
	RecomputeBillTotals(&draft)
	return draft, nil
}

// roundHalfUp rounds to the nearest integer with .5 going towards +inf.
func roundHalfUp(d decimal.Decimal) decimal.Decimal {
	return d.Add(decimal.NewFromFloat(0.5)).Floor()
}

// GenerateBillNumber renders "YY-MM/NNN" with a random three digit suffix.
func GenerateBillNumber(now time.Time) string {
	return fmt.Sprintf("%s/%03d", now.Format("06-01"), rand.Intn(1000))
}

// --- BillService Interface ---
type BillService interface {
	PreviewBill(req BillRequest) (*models.BillDraft, error)
	CreateBill(ctx context.Context, req BillRequest, userID string) (*models.BillCommitResult, error)
	CommitBill(ctx context.Context, draft models.BillDraft, userID string) (*models.BillCommitResult, error)
	GetBills(ctx context.Context) ([]models.Bill, error)
	GetBillByID(ctx context.Context, id string) (*models.Bill, error)
}

type billService struct {
	ledger repositories.LedgerRepository
	now    Clock
}

// NewBillService creates a new instance of BillService.
func NewBillService(ledger repositories.LedgerRepository, now Clock) BillService {
	if now == nil {
		now = SystemClock
	}
	return &billService{ledger: ledger, now: now}
}

// PreviewBill builds a draft from the request without persisting anything.
func (s *billService) PreviewBill(req BillRequest) (*models.BillDraft, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	draft := NewBillDraft()
	draft.BillNo = strings.TrimSpace(req.BillNo)
	draft.Date = req.Date
	draft.ClientID = strings.TrimSpace(req.ClientID)
	draft.ClientName = strings.TrimSpace(req.ClientName)
	draft.ClientGSTIN = strings.TrimSpace(req.ClientGSTIN)
	draft.ClientAddress = req.ClientAddress
	draft.PONumber = req.PONumber
	draft.SiteAddress = req.SiteAddress
	draft.IsIGST = req.IsIGST

	for i, in := range req.Items {
		if _, err := AddBillItem(draft, in); err != nil {
			return nil, fmt.Errorf("item %d: %w", i+1, err)
		}
	}
	RecomputeBillTotals(draft)
	return draft, nil
}

func (s *billService) CreateBill(ctx context.Context, req BillRequest, userID string) (*models.BillCommitResult, error) {
	draft, err := s.PreviewBill(req)
	if err != nil {
		return nil, err
	}
	return s.CommitBill(ctx, *draft, userID)
}

// CommitBill persists the bill, auto-creates an unknown GSTIN client and
// decrements stock, all in one ledger transaction.
func (s *billService) CommitBill(ctx context.Context, draft models.BillDraft, userID string) (*models.BillCommitResult, error) {
	if utils.IsEmpty(draft.ClientName) {
		return nil, fmt.Errorf("%w: clientName is required", ErrValidation)
	}
	if len(draft.Items) == 0 {
		return nil, fmt.Errorf("%w: a bill needs at least one item", ErrValidation)
	}
	draft, err := rebuildBillDraft(draft)
	if err != nil {
		return nil, err
	}

	now := s.now()
	bill := models.Bill{
		ID:            uuid.NewString(),
		BillNo:        utils.FirstNonEmpty(draft.BillNo, GenerateBillNumber(now)),
		Date:          utils.FirstNonEmpty(draft.Date, now.Format(dateLayout)),
		ClientID:      draft.ClientID,
		ClientName:    strings.TrimSpace(draft.ClientName),
		ClientGSTIN:   strings.TrimSpace(draft.ClientGSTIN),
		ClientAddress: draft.ClientAddress,
		PONumber:      draft.PONumber,
		SiteAddress:   draft.SiteAddress,
		Items:         draft.Items,
		Subtotal:      draft.Subtotal,
		CGST:          draft.CGST,
		SGST:          draft.SGST,
		IGST:          draft.IGST,
		RoundOff:      draft.RoundOff,
		GrandTotal:    draft.GrandTotal,
		AmountInWords: draft.AmountInWords,
		IsIGST:        draft.IsIGST,
		UserID:        userID,
		CreatedAt:     now.Format(time.RFC3339),
	}

	var result *models.BillCommitResult
	err = repositories.RetryOnConflict(ctx, func() error {
		var err error
		result, err = s.persistBill(ctx, bill, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	created := result.CreatedClient

	for _, skip := range result.StockSkips {
		utils.LogWarn("Stock not adjusted for bill line", map[string]interface{}{
			"bill_no":     bill.BillNo,
			"description": skip.Description,
			"requested":   skip.Requested,
			"available":   skip.Available,
			"reason":      skip.Reason,
		})
	}
	fields := map[string]interface{}{
		"bill_id":     bill.ID,
		"bill_no":     bill.BillNo,
		"grand_total": bill.GrandTotal,
		"items":       len(bill.Items),
		"user_id":     userID,
	}
	if created != nil {
		fields["created_client_id"] = created.ID
	}
	utils.LogInfo("Bill committed", fields)
	return result, nil
}

// persistBill runs one attempt of the bill transaction.
func (s *billService) persistBill(ctx context.Context, bill models.Bill, now time.Time) (*models.BillCommitResult, error) {
	tx, err := s.ledger.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to start bill transaction: %w", err)
	}
	defer tx.Rollback()

	if err := tx.UpsertBill(ctx, bill); err != nil {
		return nil, fmt.Errorf("failed to save bill: %w", err)
	}

	result := &models.BillCommitResult{Bill: bill, StockSkips: []models.StockSkip{}}

	created, err := s.createClientIfNew(ctx, tx, bill, now)
	if err != nil {
		return nil, err
	}
	result.CreatedClient = created

	for _, line := range bill.Items {
		skip, err := s.decrementStock(ctx, tx, line)
		if err != nil {
			return nil, err
		}
		if skip != nil {
			result.StockSkips = append(result.StockSkips, *skip)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit bill transaction: %w", err)
	}
	return result, nil
}

// createClientIfNew saves a client snapshot when the bill names an unknown GSTIN.
func (s *billService) createClientIfNew(ctx context.Context, tx repositories.LedgerTx, bill models.Bill, now time.Time) (*models.Client, error) {
	if bill.ClientID != "" || bill.ClientGSTIN == "" {
		return nil, nil
	}
	_, err := tx.FindClientByGSTIN(ctx, bill.ClientGSTIN)
	if err == nil {
		return nil, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up client by GSTIN: %w", err)
	}

	client := models.Client{
		ID:           uuid.NewString(),
		Name:         bill.ClientName,
		GSTIN:        bill.ClientGSTIN,
		Address:      bill.ClientAddress,
		SiteAddress:  bill.SiteAddress,
		CreatedAt:    now.Format(time.RFC3339),
		LastBillDate: bill.Date,
		TotalBilled:  bill.GrandTotal,
	}
	if po := strings.TrimSpace(bill.PONumber); po != "" {
		client.PONumbers = []string{po}
	}
	if err := tx.UpsertClient(ctx, client); err != nil {
		return nil, fmt.Errorf("failed to save new client: %w", err)
	}
	return &client, nil
}

// decrementStock applies one line to inventory. A missing item or short stock
// is reported back as a skip, never as an error.
func (s *billService) decrementStock(ctx context.Context, tx repositories.LedgerTx, line models.BillItem) (*models.StockSkip, error) {
	item, err := resolveInventoryItem(ctx, tx, line.InventoryItemID, line.Description)
	if errors.Is(err, repositories.ErrNotFound) {
		return &models.StockSkip{
			LineID:          line.ID,
			Description:     line.Description,
			InventoryItemID: line.InventoryItemID,
			Requested:       line.Qty,
			Reason:          SkipReasonNotFound,
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up inventory item: %w", err)
	}

	if item.Stock < line.Qty {
		return &models.StockSkip{
			LineID:          line.ID,
			Description:     line.Description,
			InventoryItemID: item.ID,
			Requested:       line.Qty,
			Available:       item.Stock,
			Reason:          SkipReasonInsufficientStock,
		}, nil
	}

	item.Stock -= line.Qty
	if err := tx.UpsertItem(ctx, *item); err != nil {
		return nil, fmt.Errorf("failed to update stock for %s: %w", item.Description, err)
	}
	return nil, nil
}

// resolveInventoryItem finds the stock item for a line: by id when linked,
// otherwise by exact description.
func resolveInventoryItem(ctx context.Context, view repositories.LedgerView, inventoryItemID, description string) (*models.Item, error) {
	if inventoryItemID != "" {
		item, err := view.FindItemByID(ctx, inventoryItemID)
		if err == nil || !errors.Is(err, repositories.ErrNotFound) {
			return item, err
		}
	}
	return view.FindItemByDescription(ctx, description)
}

func (s *billService) GetBills(ctx context.Context) ([]models.Bill, error) {
	bills, err := s.ledger.ListBills(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get bills: %w", err)
	}
	reverseInPlace(bills)
	return bills, nil
}

func (s *billService) GetBillByID(ctx context.Context, id string) (*models.Bill, error) {
	bill, err := s.ledger.FindBillByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrBillNotFound
		}
		return nil, fmt.Errorf("failed to get bill by ID: %w", err)
	}
	return bill, nil
}

func reverseInPlace[T any](s []T) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
