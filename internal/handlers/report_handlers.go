package handlers

import (
	"bytes"
	"net/http"

	"gst_invoicing_backend/internal/exporters"
	"gst_invoicing_backend/internal/models"
	"gst_invoicing_backend/internal/services"
	"gst_invoicing_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ReportHandler serves the dashboard snapshot and the time-framed reports.
type ReportHandler struct {
	statsService  services.StatsService
	reportService services.ReportService
	now           services.Clock
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(ss services.StatsService, rs services.ReportService, now services.Clock) *ReportHandler {
	if now == nil {
		now = services.SystemClock
	}
	return &ReportHandler{statsService: ss, reportService: rs, now: now}
}

// parseReportRange reads time_frame, from and to and resolves them.
func (h *ReportHandler) parseReportRange(c *gin.Context) (models.DateRange, bool) {
	var params models.ReportRequestParams
	if err := c.ShouldBindQuery(&params); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return models.DateRange{}, false
	}
	rng, err := services.ResolveTimeFrame(params, h.now())
	if err != nil {
		respondServiceError(c, err, "ResolveTimeFrame")
		return models.DateRange{}, false
	}
	return rng, true
}

// GetDashboardStats returns the dashboard snapshot.
func (h *ReportHandler) GetDashboardStats(c *gin.Context) {
	stats, err := h.statsService.ComputeStats(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "GetDashboardStats")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// ExportDashboardStats downloads the sales summary workbook.
func (h *ReportHandler) ExportDashboardStats(c *gin.Context) {
	stats, err := h.statsService.ComputeStats(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "ExportDashboardStats")
		return
	}
	now := h.now()
	var buf bytes.Buffer
	if err := exporters.RenderSalesSummarySpreadsheet(&buf, *stats, now); err != nil {
		respondServiceError(c, err, "ExportDashboardStats")
		return
	}
	sendAttachment(c, exporters.Filename("Sales-Report", now.Format("2006-01-02"), "xlsx"), exporters.ContentTypeXLSX, buf.Bytes())
}

// GetReportSummary returns the overview for the requested time frame.
func (h *ReportHandler) GetReportSummary(c *gin.Context) {
	rng, ok := h.parseReportRange(c)
	if !ok {
		return
	}
	summary, err := h.reportService.Summary(c.Request.Context(), rng)
	if err != nil {
		respondServiceError(c, err, "GetReportSummary")
		return
	}
	c.JSON(http.StatusOK, summary)
}

// GetReport returns one report table.
func (h *ReportHandler) GetReport(c *gin.Context) {
	rng, ok := h.parseReportRange(c)
	if !ok {
		return
	}
	table, err := h.reportService.Build(c.Request.Context(), c.Param("type"), rng)
	if err != nil {
		respondServiceError(c, err, "GetReport")
		return
	}
	c.JSON(http.StatusOK, table)
}

// ExportReport downloads one report table as a workbook.
func (h *ReportHandler) ExportReport(c *gin.Context) {
	rng, ok := h.parseReportRange(c)
	if !ok {
		return
	}
	reportType := c.Param("type")
	table, err := h.reportService.Build(c.Request.Context(), reportType, rng)
	if err != nil {
		respondServiceError(c, err, "ExportReport")
		return
	}
	var buf bytes.Buffer
	if err := exporters.RenderReportSpreadsheet(&buf, *table, table.Type); err != nil {
		respondServiceError(c, err, "ExportReport")
		return
	}
	name := table.Type + "-report"
	sendAttachment(c, exporters.Filename(name, h.now().Format("2006-01-02"), "xlsx"), exporters.ContentTypeXLSX, buf.Bytes())
}
