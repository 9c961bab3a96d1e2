package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"gst_invoicing_backend/internal/models"
	"gst_invoicing_backend/internal/repositories"
	"gst_invoicing_backend/pkg/utils"
)

// PhoneRegion is the default region for parsing client phone numbers.
const PhoneRegion = "IN"

var ErrGSTINExists = errors.New("a client with this GSTIN already exists")

// --- Client DTOs ---

// ClientRequest is used both to create and to replace a client.
type ClientRequest struct {
	Name          string   `json:"name" validate:"required"`
	GSTIN         string   `json:"gstin" validate:"required"`
	Address       string   `json:"address" validate:"required"`
	Phone         string   `json:"phone"`
	Email         string   `json:"email" validate:"omitempty,email"`
	ContactPerson string   `json:"contactPerson"`
	PONumbers     []string `json:"poNumbers"`
	SiteAddress   string   `json:"siteAddress"`
}

// --- ClientService Interface ---
type ClientService interface {
	CreateClient(ctx context.Context, req ClientRequest) (*models.Client, error)
	UpdateClient(ctx context.Context, id string, req ClientRequest) (*models.Client, error)
	GetClients(ctx context.Context) ([]models.Client, error)
	GetClientByID(ctx context.Context, id string) (*models.Client, error)
	Statement(ctx context.Context, id string) (*models.ClientStatement, error)
}

type clientService struct {
	ledger repositories.LedgerRepository
	now    Clock
}

// NewClientService creates a new instance of ClientService.
func NewClientService(ledger repositories.LedgerRepository, now Clock) ClientService {
	if now == nil {
		now = SystemClock
	}
	return &clientService{ledger: ledger, now: now}
}

func (s *clientService) normalize(req ClientRequest) (ClientRequest, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.GSTIN = strings.TrimSpace(req.GSTIN)
	req.Address = strings.TrimSpace(req.Address)
	req.Email = strings.TrimSpace(req.Email)
	pos := make([]string, 0, len(req.PONumbers))
	for _, po := range req.PONumbers {
		if po = strings.TrimSpace(po); po != "" {
			pos = append(pos, po)
		}
	}
	req.PONumbers = pos

	if err := validateStruct(req); err != nil {
		return req, err
	}
	if phone := strings.TrimSpace(req.Phone); phone != "" {
		normalized, err := utils.NormalizePhone(phone, PhoneRegion)
		if err != nil {
			return req, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		req.Phone = normalized
	}
	return req, nil
}

func (s *clientService) CreateClient(ctx context.Context, req ClientRequest) (*models.Client, error) {
	req, err := s.normalize(req)
	if err != nil {
		return nil, err
	}

	if _, err := s.ledger.FindClientByGSTIN(ctx, req.GSTIN); err == nil {
		return nil, ErrGSTINExists
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("failed to check GSTIN uniqueness: %w", err)
	}

	client := models.Client{
		ID:            uuid.NewString(),
		Name:          req.Name,
		GSTIN:         req.GSTIN,
		Address:       req.Address,
		Phone:         req.Phone,
		Email:         req.Email,
		ContactPerson: req.ContactPerson,
		PONumbers:     req.PONumbers,
		SiteAddress:   req.SiteAddress,
		CreatedAt:     s.now().Format(time.RFC3339),
	}
	if err := s.ledger.UpsertClient(ctx, client); err != nil {
		return nil, fmt.Errorf("failed to save client: %w", err)
	}
	utils.LogInfo("Client created", map[string]interface{}{"client_id": client.ID, "gstin": client.GSTIN})
	return &client, nil
}

// UpdateClient replaces the editable fields. Creation time and the stored
// billing snapshot are kept.
func (s *clientService) UpdateClient(ctx context.Context, id string, req ClientRequest) (*models.Client, error) {
	existing, err := s.GetClientByID(ctx, id)
	if err != nil {
		return nil, err
	}
	req, err = s.normalize(req)
	if err != nil {
		return nil, err
	}

	if req.GSTIN != existing.GSTIN {
		other, err := s.ledger.FindClientByGSTIN(ctx, req.GSTIN)
		if err == nil && other.ID != existing.ID {
			return nil, ErrGSTINExists
		}
		if err != nil && !errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("failed to check GSTIN uniqueness: %w", err)
		}
	}

	updated := *existing
	updated.Name = req.Name
	updated.GSTIN = req.GSTIN
	updated.Address = req.Address
	updated.Phone = req.Phone
	updated.Email = req.Email
	updated.ContactPerson = req.ContactPerson
	updated.PONumbers = req.PONumbers
	updated.SiteAddress = req.SiteAddress

	if err := s.ledger.UpsertClient(ctx, updated); err != nil {
		return nil, fmt.Errorf("failed to update client: %w", err)
	}
	return &updated, nil
}

// GetClients returns clients newest first.
func (s *clientService) GetClients(ctx context.Context) ([]models.Client, error) {
	clients, err := s.ledger.ListClients(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get clients: %w", err)
	}
	reverseInPlace(clients)
	sort.SliceStable(clients, func(i, j int) bool {
		ti, _ := time.Parse(time.RFC3339, clients[i].CreatedAt)
		tj, _ := time.Parse(time.RFC3339, clients[j].CreatedAt)
		return ti.After(tj)
	})
	return clients, nil
}

func (s *clientService) GetClientByID(ctx context.Context, id string) (*models.Client, error) {
	client, err := s.ledger.FindClientByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to get client by ID: %w", err)
	}
	return client, nil
}

// Statement recomputes the client's billing from the bill ledger.
func (s *clientService) Statement(ctx context.Context, id string) (*models.ClientStatement, error) {
	client, err := s.GetClientByID(ctx, id)
	if err != nil {
		return nil, err
	}
	bills, err := s.ledger.ListBills(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load bills: %w", err)
	}

	stmt := &models.ClientStatement{Client: *client, Bills: []models.Bill{}}
	total := decimal.Zero
	for _, b := range bills {
		if !billBelongsTo(b, *client) {
			continue
		}
		stmt.Bills = append(stmt.Bills, b)
		total = total.Add(utils.Dec(b.GrandTotal))
		if b.Date > stmt.LastBillDate {
			stmt.LastBillDate = b.Date
		}
	}
	stmt.TotalBilled = utils.Float(total)
	stmt.TotalOrders = len(stmt.Bills)
	return stmt, nil
}
