package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"gst_invoicing_backend/internal/models"
	"gst_invoicing_backend/internal/repositories"
	"gst_invoicing_backend/pkg/utils"
)

const (
	dailySeriesDays = 30
	topItemsLimit   = 10
)

// StatsService computes the dashboard snapshot.
type StatsService interface {
	ComputeStats(ctx context.Context) (*models.DashboardStats, error)
}

type statsService struct {
	ledger repositories.LedgerRepository
	now    Clock
}

// NewStatsService creates a new instance of StatsService.
func NewStatsService(ledger repositories.LedgerRepository, now Clock) StatsService {
	if now == nil {
		now = SystemClock
	}
	return &statsService{ledger: ledger, now: now}
}

// ComputeStats scans every collection. It never writes.
func (s *statsService) ComputeStats(ctx context.Context) (*models.DashboardStats, error) {
	bills, err := s.ledger.ListBills(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load bills: %w", err)
	}
	purchases, err := s.ledger.ListPurchases(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load purchases: %w", err)
	}
	clients, err := s.ledger.ListClients(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load clients: %w", err)
	}
	items, err := s.ledger.ListItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load items: %w", err)
	}
	reports, err := s.ledger.ListTechnicianReports(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load technician reports: %w", err)
	}

	now := s.now()
	loc := now.Location()
	today := now.Format(dateLayout)
	weekStart := now.AddDate(0, 0, -7)
	monthStart := now.AddDate(0, -1, 0)
	yearStart := now.AddDate(-1, 0, 0)

	var totalSales, gstOut, todaySales, weekSales, monthSales, yearSales decimal.Decimal
	for _, b := range bills {
		grand := utils.Dec(b.GrandTotal)
		totalSales = totalSales.Add(grand)
		gstOut = gstOut.Add(utils.Dec(b.CGST)).Add(utils.Dec(b.SGST)).Add(utils.Dec(b.IGST))

		if b.Date == today {
			todaySales = todaySales.Add(grand)
		}
		date, ok := parseLedgerDate(b.Date, loc)
		if !ok {
			continue
		}
		if !date.Before(weekStart) {
			weekSales = weekSales.Add(grand)
		}
		if !date.Before(monthStart) {
			monthSales = monthSales.Add(grand)
		}
		if !date.Before(yearStart) {
			yearSales = yearSales.Add(grand)
		}
	}

	var totalPurchases, gstIn decimal.Decimal
	for _, p := range purchases {
		totalPurchases = totalPurchases.Add(utils.Dec(p.GrandTotal))
		gstIn = gstIn.Add(utils.Dec(p.CGST)).Add(utils.Dec(p.SGST)).Add(utils.Dec(p.IGST))
	}

	lowStock := 0
	for _, it := range items {
		if it.IsLowStock() {
			lowStock++
		}
	}
	pending := 0
	for _, r := range reports {
		if r.IsPending() {
			pending++
		}
	}

	return &models.DashboardStats{
		TotalSales:     utils.Float(totalSales),
		TotalPurchases: utils.Float(totalPurchases),
		TotalGSTOutput: utils.Float(gstOut),
		TotalGSTInput:  utils.Float(gstIn),
		TotalClients:   len(clients),
		TotalBills:     len(bills),
		TodaySales:     utils.Float(todaySales),
		WeekSales:      utils.Float(weekSales),
		MonthSales:     utils.Float(monthSales),
		YearSales:      utils.Float(yearSales),
		DailySalesData: dailySeries(bills, now),
		TopItems:       aggregateTopItems(bills, topItemsLimit),
		LowStockItems:  lowStock,
		PendingReports: pending,
	}, nil
}

// dailySeries returns one point per day for the last 30 days, oldest first.
func dailySeries(bills []models.Bill, now time.Time) []models.DailySales {
	type bucket struct {
		sales decimal.Decimal
		count int
	}
	byDate := make(map[string]*bucket, len(bills))
	for _, b := range bills {
		bk, ok := byDate[b.Date]
		if !ok {
			bk = &bucket{}
			byDate[b.Date] = bk
		}
		bk.sales = bk.sales.Add(utils.Dec(b.GrandTotal))
		bk.count++
	}

	series := make([]models.DailySales, 0, dailySeriesDays)
	for i := dailySeriesDays - 1; i >= 0; i-- {
		day := now.AddDate(0, 0, -i).Format(dateLayout)
		point := models.DailySales{Date: day}
		if bk, ok := byDate[day]; ok {
			point.Sales = utils.Float(bk.sales)
			point.Bills = bk.count
		}
		series = append(series, point)
	}
	return series
}

// aggregateTopItems groups bill lines by inventory item id, or by line id for
// freeform lines, and ranks them by revenue.
func aggregateTopItems(bills []models.Bill, limit int) []models.TopItem {
	type acc struct {
		item    models.TopItem
		revenue decimal.Decimal
	}
	var order []string
	byKey := make(map[string]*acc)
	for _, b := range bills {
		for _, line := range b.Items {
			key := line.ID
			if line.IsLinked() {
				key = line.InventoryItemID
			}
			a, ok := byKey[key]
			if !ok {
				a = &acc{item: models.TopItem{ID: key, Description: line.Description}}
				byKey[key] = a
				order = append(order, key)
			}
			a.item.Quantity += line.Qty
			a.revenue = a.revenue.Add(utils.Dec(line.Amount))
		}
	}

	top := make([]models.TopItem, 0, len(order))
	for _, key := range order {
		a := byKey[key]
		a.item.Revenue = utils.Float(a.revenue)
		top = append(top, a.item)
	}
	sort.SliceStable(top, func(i, j int) bool { return top[i].Revenue > top[j].Revenue })
	if len(top) > limit {
		top = top[:limit]
	}
	return top
}
