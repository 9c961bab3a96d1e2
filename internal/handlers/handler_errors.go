package handlers

import (
	"errors"
	"net/http"

	"gst_invoicing_backend/internal/repositories"
	"gst_invoicing_backend/internal/services"
	"gst_invoicing_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// respondServiceError maps a service error to its API error. Client-side
// failures are logged at warn, everything else as an error.
func respondServiceError(c *gin.Context, err error, op string) {
	fields := map[string]interface{}{"op": op, "path": c.FullPath()}

	switch {
	case errors.Is(err, services.ErrValidation), errors.Is(err, services.ErrDraftItemNotFound):
		utils.LogWarn(op+": validation failed", fields, map[string]interface{}{"error": err.Error()})
		utils.RespondValidationFailed(c, err.Error())
	case errors.Is(err, services.ErrUnknownReportType):
		utils.LogWarn(op+": unknown report type", fields)
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Unknown report type.", err.Error()))
	case errors.Is(err, services.ErrBillNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Bill not found.", err.Error()))
	case errors.Is(err, services.ErrClientNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Client not found.", err.Error()))
	case errors.Is(err, services.ErrItemNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Inventory item not found.", err.Error()))
	case errors.Is(err, services.ErrReportNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Technician report not found.", err.Error()))
	case errors.Is(err, services.ErrGSTINExists):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "GSTIN already exists.", err.Error()))
	case errors.Is(err, services.ErrItemDescriptionExists):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Item description already exists.", err.Error()))
	case errors.Is(err, repositories.ErrConflict):
		utils.LogWarn(op+": ledger conflict", fields, map[string]interface{}{"error": err.Error()})
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "The ledger changed while saving. Please retry.", "concurrent update"))
	default:
		utils.LogError(err, op+": internal error", fields)
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Internal server error.", "Internal error"))
	}
}

// bindJSON binds the request body and answers 400 on failure.
func bindJSON(c *gin.Context, dst interface{}, op string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		utils.LogWarn(op+": failed to bind JSON", map[string]interface{}{"error": err.Error()})
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Invalid request payload: "+err.Error(), err.Error()))
		return false
	}
	return true
}

// operatorID returns the operator set by middleware.Operator, or "".
func operatorID(c *gin.Context) string {
	return c.GetString("userID")
}
