package handlers

import (
	"net/http"

	"gst_invoicing_backend/internal/models"
	"gst_invoicing_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// ClientHandler holds the client service.
type ClientHandler struct {
	clientService services.ClientService
}

// NewClientHandler creates a new ClientHandler.
func NewClientHandler(cs services.ClientService) *ClientHandler {
	return &ClientHandler{clientService: cs}
}

// CreateClient handles the creation of a new client.
func (h *ClientHandler) CreateClient(c *gin.Context) {
	var req services.ClientRequest
	if !bindJSON(c, &req, "CreateClient") {
		return
	}
	client, err := h.clientService.CreateClient(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, "CreateClient")
		return
	}
	c.JSON(http.StatusCreated, client)
}

// GetClients handles fetching all clients, newest first.
func (h *ClientHandler) GetClients(c *gin.Context) {
	clients, err := h.clientService.GetClients(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "GetClients")
		return
	}
	if clients == nil {
		clients = []models.Client{}
	}
	c.JSON(http.StatusOK, clients)
}

// GetClientByID handles fetching a single client by ID.
func (h *ClientHandler) GetClientByID(c *gin.Context) {
	client, err := h.clientService.GetClientByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "GetClientByID")
		return
	}
	c.JSON(http.StatusOK, client)
}

// UpdateClient replaces a client's editable fields.
func (h *ClientHandler) UpdateClient(c *gin.Context) {
	var req services.ClientRequest
	if !bindJSON(c, &req, "UpdateClient") {
		return
	}
	client, err := h.clientService.UpdateClient(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondServiceError(c, err, "UpdateClient")
		return
	}
	c.JSON(http.StatusOK, client)
}

// GetClientStatement returns the client with billing recomputed from bills.
func (h *ClientHandler) GetClientStatement(c *gin.Context) {
	stmt, err := h.clientService.Statement(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "GetClientStatement")
		return
	}
	c.JSON(http.StatusOK, stmt)
}
