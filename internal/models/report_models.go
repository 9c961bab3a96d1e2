package models

import "time"

// DailySales is one point of the 30-day sales series.
type DailySales struct {
	Date  string  `json:"date"` // YYYY-MM-DD
	Sales float64 `json:"sales"`
	Bills int     `json:"bills"`
}

// TopItem aggregates sold quantity and revenue for one item.
type TopItem struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	Revenue     float64 `json:"revenue"`
}

// DashboardStats is the snapshot shown on the dashboard.
type DashboardStats struct {
	TotalSales     float64      `json:"totalSales"`
	TotalPurchases float64      `json:"totalPurchases"`
	TotalGSTOutput float64      `json:"totalGSTOutput"`
	TotalGSTInput  float64      `json:"totalGSTInput"`
	TotalClients   int          `json:"totalClients"`
	TotalBills     int          `json:"totalBills"`
	TodaySales     float64      `json:"todaySales"`
	WeekSales      float64      `json:"weekSales"`
	MonthSales     float64      `json:"monthSales"`
	YearSales      float64      `json:"yearSales"`
	DailySalesData []DailySales `json:"dailySalesData"`
	TopItems       []TopItem    `json:"topItems"`
	LowStockItems  int          `json:"lowStockItems"`
	PendingReports int          `json:"pendingReports"`
}

// DateRange is a half-open interval [From, To).
type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// Contains reports whether t falls inside the range.
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.From) && t.Before(r.To)
}

// ReportTable is a tabular report ready for display or export.
type ReportTable struct {
	Type    string          `json:"type"`
	Range   DateRange       `json:"range"`
	Columns []string        `json:"columns"`
	Rows    [][]interface{} `json:"rows"`
}

// SalesSummary holds aggregate figures for bills in a range.
type SalesSummary struct {
	Total   float64 `json:"total"`
	Count   int     `json:"count"`
	Average float64 `json:"average"`
	GST     float64 `json:"gst"`
}

// PurchaseSummary holds aggregate figures for purchases in a range.
type PurchaseSummary struct {
	Total float64 `json:"total"`
	Count int     `json:"count"`
	GST   float64 `json:"gst"`
}

// TopClient is a client ranked by billed amount.
type TopClient struct {
	ClientID string  `json:"clientId"`
	Name     string  `json:"name"`
	Total    float64 `json:"total"`
	Bills    int     `json:"bills"`
}

// ReportSummary is the overview of a time frame.
type ReportSummary struct {
	Range      DateRange       `json:"range"`
	Sales      SalesSummary    `json:"sales"`
	Purchases  PurchaseSummary `json:"purchases"`
	TopClients []TopClient     `json:"topClients"`
	TopItems   []TopItem       `json:"topItems"`
	LowStock   []Item          `json:"lowStock"`
}

// ReportRequestParams holds the query parameters shared by report endpoints.
type ReportRequestParams struct {
	TimeFrame string `form:"time_frame"` // 1day, 30days, 90days, 1year, alltime, custom
	From      string `form:"from"`       // YYYY-MM-DD
	To        string `form:"to"`         // YYYY-MM-DD
}
