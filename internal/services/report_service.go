package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"gst_invoicing_backend/internal/models"
	"gst_invoicing_backend/internal/repositories"
	"gst_invoicing_backend/pkg/utils"
)

// Report types served by ReportService.Build.
const (
	ReportSales     = "sales"
	ReportPurchases = "purchases"
	ReportInventory = "inventory"
	ReportClients   = "clients"
)

const topClientsLimit = 10

// ReportService builds tabular reports and the summary overview.
type ReportService interface {
	Build(ctx context.Context, reportType string, rng models.DateRange) (*models.ReportTable, error)
	Summary(ctx context.Context, rng models.DateRange) (*models.ReportSummary, error)
}

type reportService struct {
	ledger repositories.LedgerRepository
}

// NewReportService creates a new instance of ReportService.
func NewReportService(ledger repositories.LedgerRepository) ReportService {
	return &reportService{ledger: ledger}
}

func (s *reportService) Build(ctx context.Context, reportType string, rng models.DateRange) (*models.ReportTable, error) {
	reportType = strings.ToLower(strings.TrimSpace(reportType))
	table := &models.ReportTable{Type: reportType, Range: rng, Rows: [][]interface{}{}}

	switch reportType {
	case ReportSales:
		bills, err := s.billsInRange(ctx, rng)
		if err != nil {
			return nil, err
		}
		table.Columns = []string{"Bill No", "Date", "Client", "Subtotal", "CGST", "SGST", "IGST", "Grand Total"}
		for _, b := range bills {
			table.Rows = append(table.Rows, []interface{}{
				b.BillNo, b.Date, b.ClientName, b.Subtotal, b.CGST, b.SGST, b.IGST, b.GrandTotal,
			})
		}
	case ReportPurchases:
		purchases, err := s.purchasesInRange(ctx, rng)
		if err != nil {
			return nil, err
		}
		table.Columns = []string{"Date", "Supplier", "Bill No", "Subtotal", "CGST", "SGST", "IGST", "Grand Total"}
		for _, p := range purchases {
			table.Rows = append(table.Rows, []interface{}{
				p.Date, p.SupplierName, p.BillNo, p.Subtotal, p.CGST, p.SGST, p.IGST, p.GrandTotal,
			})
		}
	case ReportInventory:
		items, err := s.ledger.ListItems(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load items: %w", err)
		}
		table.Columns = []string{"Description", "Category", "Stock", "Min Stock", "Status", "Rate"}
		for _, it := range items {
			status := "Good"
			if it.IsLowStock() {
				status = "Low Stock"
			}
			table.Rows = append(table.Rows, []interface{}{
				it.Description, it.Category, it.Stock, it.MinStock, status, it.Rate,
			})
		}
	case ReportClients:
		bills, err := s.billsInRange(ctx, rng)
		if err != nil {
			return nil, err
		}
		clients, err := s.ledger.ListClients(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load clients: %w", err)
		}
		byID := make(map[string]models.Client, len(clients))
		for _, c := range clients {
			byID[c.ID] = c
		}
		table.Columns = []string{"Client Name", "GSTIN", "Total Orders", "Total Billed", "Phone", "Email"}
		for _, tc := range rankClients(clients, bills, topClientsLimit) {
			c := byID[tc.ClientID]
			table.Rows = append(table.Rows, []interface{}{
				c.Name, c.GSTIN, tc.Bills, tc.Total, c.Phone, c.Email,
			})
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownReportType, reportType)
	}
	return table, nil
}

func (s *reportService) Summary(ctx context.Context, rng models.DateRange) (*models.ReportSummary, error) {
	bills, err := s.billsInRange(ctx, rng)
	if err != nil {
		return nil, err
	}
	purchases, err := s.purchasesInRange(ctx, rng)
	if err != nil {
		return nil, err
	}
	clients, err := s.ledger.ListClients(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load clients: %w", err)
	}
	items, err := s.ledger.ListItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load items: %w", err)
	}

	var salesTotal, salesGST decimal.Decimal
	for _, b := range bills {
		salesTotal = salesTotal.Add(utils.Dec(b.GrandTotal))
		salesGST = salesGST.Add(utils.Dec(b.TotalGST()))
	}
	sales := models.SalesSummary{
		Total: utils.Float(salesTotal),
		Count: len(bills),
		GST:   utils.Float(salesGST),
	}
	if len(bills) > 0 {
		sales.Average = utils.Float(salesTotal.Div(decimal.NewFromInt(int64(len(bills)))).Round(2))
	}

	var purchaseTotal, purchaseGST decimal.Decimal
	for _, p := range purchases {
		purchaseTotal = purchaseTotal.Add(utils.Dec(p.GrandTotal))
		purchaseGST = purchaseGST.Add(utils.Dec(p.TotalGST()))
	}

	lowStock := []models.Item{}
	for _, it := range items {
		if it.IsLowStock() {
			lowStock = append(lowStock, it)
		}
	}

	return &models.ReportSummary{
		Range: rng,
		Sales: sales,
		Purchases: models.PurchaseSummary{
			Total: utils.Float(purchaseTotal),
			Count: len(purchases),
			GST:   utils.Float(purchaseGST),
		},
		TopClients: rankClients(clients, bills, topClientsLimit),
		TopItems:   aggregateTopItems(bills, topItemsLimit),
		LowStock:   lowStock,
	}, nil
}

func (s *reportService) billsInRange(ctx context.Context, rng models.DateRange) ([]models.Bill, error) {
	bills, err := s.ledger.ListBills(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load bills: %w", err)
	}
	out := bills[:0]
	for _, b := range bills {
		if inRange(b.Date, rng) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *reportService) purchasesInRange(ctx context.Context, rng models.DateRange) ([]models.Purchase, error) {
	purchases, err := s.ledger.ListPurchases(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load purchases: %w", err)
	}
	out := purchases[:0]
	for _, p := range purchases {
		if inRange(p.Date, rng) {
			out = append(out, p)
		}
	}
	return out, nil
}

// rankClients totals bills per client and keeps those with billing, highest first.
func rankClients(clients []models.Client, bills []models.Bill, limit int) []models.TopClient {
	ranked := make([]models.TopClient, 0, len(clients))
	for _, c := range clients {
		total := decimal.Zero
		count := 0
		for _, b := range bills {
			if billBelongsTo(b, c) {
				total = total.Add(utils.Dec(b.GrandTotal))
				count++
			}
		}
		if count == 0 || !total.IsPositive() {
			continue
		}
		ranked = append(ranked, models.TopClient{
			ClientID: c.ID,
			Name:     c.Name,
			Total:    utils.Float(total),
			Bills:    count,
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Total > ranked[j].Total })
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// billBelongsTo matches a bill to a client by id, or by GSTIN for bills that
// were saved without one.
func billBelongsTo(b models.Bill, c models.Client) bool {
	if b.ClientID != "" {
		return b.ClientID == c.ID
	}
	return c.GSTIN != "" && b.ClientGSTIN == c.GSTIN
}
