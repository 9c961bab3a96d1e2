package router

import (
	"gst_invoicing_backend/internal/handlers"

	"github.com/gin-gonic/gin"
)

// SetupBillRoutes sets up the bill routes.
func SetupBillRoutes(apiGroup *gin.RouterGroup, billHandler *handlers.BillHandler) {
	billRoutes := apiGroup.Group("/bills")
	{
		billRoutes.POST("/preview", billHandler.PreviewBill)
		billRoutes.POST("", billHandler.CreateBill)
		billRoutes.GET("", billHandler.GetBills)
		billRoutes.GET("/:id", billHandler.GetBillByID)
		billRoutes.GET("/:id/pdf", billHandler.GetBillPDF)
		billRoutes.GET("/:id/xlsx", billHandler.GetBillSpreadsheet)
	}
}

// SetupPurchaseRoutes sets up the purchase routes.
func SetupPurchaseRoutes(apiGroup *gin.RouterGroup, purchaseHandler *handlers.PurchaseHandler) {
	purchaseRoutes := apiGroup.Group("/purchases")
	{
		purchaseRoutes.POST("/preview", purchaseHandler.PreviewPurchase)
		purchaseRoutes.POST("", purchaseHandler.CreatePurchase)
		purchaseRoutes.GET("", purchaseHandler.GetPurchases)
	}
}

// SetupClientRoutes sets up the client routes.
func SetupClientRoutes(apiGroup *gin.RouterGroup, clientHandler *handlers.ClientHandler) {
	clientRoutes := apiGroup.Group("/clients")
	{
		clientRoutes.POST("", clientHandler.CreateClient)
		clientRoutes.GET("", clientHandler.GetClients)
		clientRoutes.GET("/:id", clientHandler.GetClientByID)
		clientRoutes.PUT("/:id", clientHandler.UpdateClient)
		clientRoutes.GET("/:id/statement", clientHandler.GetClientStatement)
	}
}

// SetupItemRoutes sets up the inventory item routes.
func SetupItemRoutes(apiGroup *gin.RouterGroup, inventoryHandler *handlers.InventoryHandler) {
	itemRoutes := apiGroup.Group("/items")
	{
		itemRoutes.POST("", inventoryHandler.CreateItem)
		itemRoutes.GET("", inventoryHandler.GetItems)
		itemRoutes.GET("/low-stock", inventoryHandler.GetLowStockItems)
		itemRoutes.PUT("/:id", inventoryHandler.UpdateItem)
	}
}

// SetupTechnicianReportRoutes sets up the technician report routes.
func SetupTechnicianReportRoutes(apiGroup *gin.RouterGroup, reportHandler *handlers.TechnicianReportHandler) {
	reportRoutes := apiGroup.Group("/technician-reports")
	{
		reportRoutes.POST("", reportHandler.CreateReport)
		reportRoutes.GET("", reportHandler.GetReports)
		reportRoutes.PATCH("/:id/status", reportHandler.UpdateReportStatus)
	}
}

// SetupDashboardRoutes sets up the dashboard routes.
func SetupDashboardRoutes(apiGroup *gin.RouterGroup, reportHandler *handlers.ReportHandler) {
	dashboardRoutes := apiGroup.Group("/dashboard")
	{
		dashboardRoutes.GET("/stats", reportHandler.GetDashboardStats)
		dashboardRoutes.GET("/stats/xlsx", reportHandler.ExportDashboardStats)
	}
}

// SetupReportRoutes sets up the report routes.
func SetupReportRoutes(apiGroup *gin.RouterGroup, reportHandler *handlers.ReportHandler) {
	reportRoutes := apiGroup.Group("/reports")
	{
		reportRoutes.GET("/summary", reportHandler.GetReportSummary)
		reportRoutes.GET("/:type", reportHandler.GetReport)
		reportRoutes.GET("/:type/xlsx", reportHandler.ExportReport)
	}
}

// SetupSettingsRoutes sets up the settings routes.
func SetupSettingsRoutes(apiGroup *gin.RouterGroup, settingsHandler *handlers.SettingsHandler) {
	settingsRoutes := apiGroup.Group("/settings")
	{
		settingsRoutes.GET("/company", settingsHandler.GetCompanyProfile)
	}
}
