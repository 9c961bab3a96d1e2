package handlers

import (
	"net/http"

	"gst_invoicing_backend/internal/models"

	"github.com/gin-gonic/gin"
)

// SettingsHandler exposes the read-only seller profile used on documents.
type SettingsHandler struct {
	profile models.CompanyProfile
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(profile models.CompanyProfile) *SettingsHandler {
	return &SettingsHandler{profile: profile}
}

// GetCompanyProfile returns the configured seller profile.
func (h *SettingsHandler) GetCompanyProfile(c *gin.Context) {
	c.JSON(http.StatusOK, h.profile)
}
