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

// BillHandler holds the bill service and the seller profile printed on exports.
type BillHandler struct {
	billService services.BillService
	profile     models.CompanyProfile
}

// NewBillHandler creates a new BillHandler.
func NewBillHandler(bs services.BillService, profile models.CompanyProfile) *BillHandler {
	return &BillHandler{billService: bs, profile: profile}
}

// PreviewBill computes a draft's totals without saving it.
func (h *BillHandler) PreviewBill(c *gin.Context) {
	var req services.BillRequest
	if !bindJSON(c, &req, "PreviewBill") {
		return
	}
	draft, err := h.billService.PreviewBill(req)
	if err != nil {
		respondServiceError(c, err, "PreviewBill")
		return
	}
	c.JSON(http.StatusOK, draft)
}

// CreateBill composes and commits a bill.
func (h *BillHandler) CreateBill(c *gin.Context) {
	var req services.BillRequest
	if !bindJSON(c, &req, "CreateBill") {
		return
	}
	result, err := h.billService.CreateBill(c.Request.Context(), req, operatorID(c))
	if err != nil {
		respondServiceError(c, err, "CreateBill")
		return
	}
	c.JSON(http.StatusCreated, result)
}

// GetBills lists bills newest first.
func (h *BillHandler) GetBills(c *gin.Context) {
	bills, err := h.billService.GetBills(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "GetBills")
		return
	}
	if bills == nil {
		bills = []models.Bill{}
	}
	c.JSON(http.StatusOK, bills)
}

// GetBillByID handles fetching a single bill.
func (h *BillHandler) GetBillByID(c *gin.Context) {
	bill, err := h.billService.GetBillByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "GetBillByID")
		return
	}
	c.JSON(http.StatusOK, bill)
}

// GetBillPDF renders the bill as a PDF invoice.
func (h *BillHandler) GetBillPDF(c *gin.Context) {
	bill, err := h.billService.GetBillByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "GetBillPDF")
		return
	}
	var buf bytes.Buffer
	if err := exporters.RenderBillPDF(&buf, *bill, h.profile); err != nil {
		respondServiceError(c, err, "GetBillPDF")
		return
	}
	sendAttachment(c, exporters.Filename("Invoice", bill.BillNo, "pdf"), exporters.ContentTypePDF, buf.Bytes())
}

// GetBillSpreadsheet renders the bill as an Excel workbook.
func (h *BillHandler) GetBillSpreadsheet(c *gin.Context) {
	bill, err := h.billService.GetBillByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "GetBillSpreadsheet")
		return
	}
	var buf bytes.Buffer
	if err := exporters.RenderBillSpreadsheet(&buf, *bill, h.profile); err != nil {
		respondServiceError(c, err, "GetBillSpreadsheet")
		return
	}
	sendAttachment(c, exporters.Filename("Bill", bill.BillNo, "xlsx"), exporters.ContentTypeXLSX, buf.Bytes())
}

// sendAttachment writes a rendered document as a download.
func sendAttachment(c *gin.Context, filename, contentType string, body []byte) {
	utils.LogDebug("Sending export", map[string]interface{}{"file": filename, "bytes": len(body)})
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, body)
}
