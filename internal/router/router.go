package router

import (
	"gst_invoicing_backend/internal/handlers"
	"gst_invoicing_backend/internal/middleware"
	"gst_invoicing_backend/internal/models"
	"gst_invoicing_backend/internal/repositories"
	"gst_invoicing_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// Setup initializes the routing for the application.
// now may be nil, in which case the wall clock is used.
func Setup(engine *gin.Engine, ledger repositories.LedgerRepository, profile models.CompanyProfile, now services.Clock) {
	// Services
	billService := services.NewBillService(ledger, now)
	purchaseService := services.NewPurchaseService(ledger, now)
	clientService := services.NewClientService(ledger, now)
	inventoryService := services.NewInventoryService(ledger, now)
	technicianReportService := services.NewTechnicianReportService(ledger, now)
	statsService := services.NewStatsService(ledger, now)
	reportService := services.NewReportService(ledger)

	// Handlers
	billHandler := handlers.NewBillHandler(billService, profile)
	purchaseHandler := handlers.NewPurchaseHandler(purchaseService)
	clientHandler := handlers.NewClientHandler(clientService)
	inventoryHandler := handlers.NewInventoryHandler(inventoryService)
	technicianReportHandler := handlers.NewTechnicianReportHandler(technicianReportService)
	reportHandler := handlers.NewReportHandler(statsService, reportService, now)
	settingsHandler := handlers.NewSettingsHandler(profile)

	apiV1 := engine.Group("/api/v1")
	apiV1.Use(middleware.Operator())
	{
		SetupBillRoutes(apiV1, billHandler)
		SetupPurchaseRoutes(apiV1, purchaseHandler)
		SetupClientRoutes(apiV1, clientHandler)
		SetupItemRoutes(apiV1, inventoryHandler)
		SetupTechnicianReportRoutes(apiV1, technicianReportHandler)
		SetupDashboardRoutes(apiV1, reportHandler)
		SetupReportRoutes(apiV1, reportHandler)
		SetupSettingsRoutes(apiV1, settingsHandler)
	}
}
