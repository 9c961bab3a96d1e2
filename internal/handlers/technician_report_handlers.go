package handlers

import (
	"net/http"

	"gst_invoicing_backend/internal/models"
	"gst_invoicing_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// TechnicianReportHandler holds the technician report service.
type TechnicianReportHandler struct {
	reportService services.TechnicianReportService
}

// NewTechnicianReportHandler creates a new TechnicianReportHandler.
func NewTechnicianReportHandler(rs services.TechnicianReportService) *TechnicianReportHandler {
	return &TechnicianReportHandler{reportService: rs}
}

func (h *TechnicianReportHandler) CreateReport(c *gin.Context) {
	var req services.CreateTechnicianReportRequest
	if !bindJSON(c, &req, "CreateTechnicianReport") {
		return
	}
	report, err := h.reportService.CreateReport(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, "CreateTechnicianReport")
		return
	}
	c.JSON(http.StatusCreated, report)
}

func (h *TechnicianReportHandler) GetReports(c *gin.Context) {
	reports, err := h.reportService.GetReports(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "GetTechnicianReports")
		return
	}
	if reports == nil {
		reports = []models.TechnicianReport{}
	}
	c.JSON(http.StatusOK, reports)
}

// UpdateReportStatus moves a report to a new status. The operator header is
// recorded as the acknowledger when the body names nobody.
func (h *TechnicianReportHandler) UpdateReportStatus(c *gin.Context) {
	var req services.UpdateReportStatusRequest
	if !bindJSON(c, &req, "UpdateReportStatus") {
		return
	}
	report, err := h.reportService.UpdateStatus(c.Request.Context(), c.Param("id"), req, operatorID(c))
	if err != nil {
		respondServiceError(c, err, "UpdateReportStatus")
		return
	}
	c.JSON(http.StatusOK, report)
}
