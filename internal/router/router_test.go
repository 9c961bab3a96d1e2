package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gst_invoicing_backend/internal/middleware"
	"gst_invoicing_backend/internal/models"
	"gst_invoicing_backend/internal/repositories"
)

var testNow = time.Date(2024, time.March, 13, 15, 30, 0, 0, time.UTC)

func newTestServer() *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	ledger := repositories.NewLedgerRepository(repositories.NewMemoryStore())
	profile := models.CompanyProfile{Name: "Sound Systems", GSTIN: "06ABCDE1234F1Z5", State: "Haryana"}
	Setup(engine, ledger, profile, func() time.Time { return testNow })
	return engine
}

func call(t *testing.T, r http.Handler, method, path string, body interface{}, out interface{}, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if out != nil && w.Code < 300 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
	}
	return w
}

func TestBillLifecycle(t *testing.T) {
	r := newTestServer()

	var item models.Item
	w := call(t, r, http.MethodPost, "/api/v1/items", map[string]interface{}{
		"description": "Ceiling Speaker", "rate": 500, "stock": 5, "minStock": 3,
	}, &item)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created models.BillCommitResult
	w = call(t, r, http.MethodPost, "/api/v1/bills", map[string]interface{}{
		"clientName":    "Acme Hotels",
		"clientGSTIN":   "27AAACA1234A1Z5",
		"clientAddress": "Pune",
		"items": []map[string]interface{}{
			{"inventoryItemId": item.ID, "description": "Ceiling Speaker", "qty": 2, "rate": 500},
		},
	}, &created, middleware.OperatorHeader, "op-7")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	bill := created.Bill
	assert.Equal(t, 1180.0, bill.GrandTotal)
	assert.Equal(t, "op-7", bill.UserID)
	assert.Equal(t, "2024-03-13", bill.Date)
	assert.Regexp(t, `^24-03/\d{3}$`, bill.BillNo)
	require.NotNil(t, created.CreatedClient)
	assert.Empty(t, created.StockSkips)

	var bills []models.Bill
	w = call(t, r, http.MethodGet, "/api/v1/bills", nil, &bills)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, bills, 1)
	assert.Equal(t, bill.ID, bills[0].ID)

	w = call(t, r, http.MethodGet, "/api/v1/bills/"+bill.ID+"/pdf", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))

	var items []models.Item
	call(t, r, http.MethodGet, "/api/v1/items", nil, &items)
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Stock)

	var low []models.Item
	call(t, r, http.MethodGet, "/api/v1/items/low-stock", nil, &low)
	assert.Len(t, low, 1)

	var stmt models.ClientStatement
	w = call(t, r, http.MethodGet, "/api/v1/clients/"+created.CreatedClient.ID+"/statement", nil, &stmt)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1180.0, stmt.TotalBilled)
	assert.Equal(t, 1, stmt.TotalOrders)

	var stats models.DashboardStats
	call(t, r, http.MethodGet, "/api/v1/dashboard/stats", nil, &stats)
	assert.Equal(t, 1180.0, stats.TotalSales)
	assert.Equal(t, 1180.0, stats.TodaySales)
	assert.Equal(t, 1, stats.TotalBills)
	assert.Equal(t, 1, stats.TotalClients)
	assert.Equal(t, 1, stats.LowStockItems)
}

func TestBillNotFound(t *testing.T) {
	r := newTestServer()
	w := call(t, r, http.MethodGet, "/api/v1/bills/nope", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPurchaseRestocksInventory(t *testing.T) {
	r := newTestServer()

	var res models.PurchaseCommitResult
	w := call(t, r, http.MethodPost, "/api/v1/purchases", map[string]interface{}{
		"supplierName": "Bose India",
		"items":        []map[string]interface{}{{"description": "Amplifier", "qty": 4, "rate": 1000}},
	}, &res)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, 4720.0, res.Purchase.GrandTotal)
	require.Len(t, res.CreatedItems, 1)
	assert.Equal(t, 1300.0, res.CreatedItems[0].Rate)

	var purchases []models.Purchase
	call(t, r, http.MethodGet, "/api/v1/purchases", nil, &purchases)
	assert.Len(t, purchases, 1)
}

func TestReportsByTimeFrame(t *testing.T) {
	r := newTestServer()
	w := call(t, r, http.MethodPost, "/api/v1/bills", map[string]interface{}{
		"clientName": "Walk-in",
		"items":      []map[string]interface{}{{"description": "Cable", "qty": 1, "rate": 100}},
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var table models.ReportTable
	w = call(t, r, http.MethodGet, "/api/v1/reports/sales?time_frame=30days", nil, &table)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, table.Rows, 1)

	table = models.ReportTable{}
	w = call(t, r, http.MethodGet, "/api/v1/reports/sales?time_frame=custom&from=2024-01-01&to=2024-01-31", nil, &table)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, table.Rows)

	var summary models.ReportSummary
	w = call(t, r, http.MethodGet, "/api/v1/reports/summary?time_frame=1day", nil, &summary)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, summary.Sales.Count)

	w = call(t, r, http.MethodGet, "/api/v1/reports/sales/xlsx?time_frame=alltime", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")

	w = call(t, r, http.MethodGet, "/api/v1/reports/bogus", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTechnicianReportAcknowledgement(t *testing.T) {
	r := newTestServer()

	var report models.TechnicianReport
	w := call(t, r, http.MethodPost, "/api/v1/technician-reports", map[string]interface{}{
		"technicianName": "Ravi", "clientName": "Acme Hotels", "reportType": "repair", "description": "Replaced amplifier fuse",
	}, &report)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "pending", report.Status)

	w = call(t, r, http.MethodPatch, "/api/v1/technician-reports/"+report.ID+"/status",
		map[string]string{"status": "acknowledged"}, &report, middleware.OperatorHeader, "manager")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "manager", report.AcknowledgedBy)
}

func TestCompanyProfileSetting(t *testing.T) {
	r := newTestServer()
	var profile models.CompanyProfile
	w := call(t, r, http.MethodGet, "/api/v1/settings/company", nil, &profile)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "06ABCDE1234F1Z5", profile.GSTIN)
}
