package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"gst_invoicing_backend/internal/models"
	"gst_invoicing_backend/internal/repositories"
	"gst_invoicing_backend/pkg/utils"
)

// --- Technician report DTOs ---
type CreateTechnicianReportRequest struct {
	TechnicianName string   `json:"technicianName" validate:"required"`
	ClientID       string   `json:"clientId"`
	ClientName     string   `json:"clientName" validate:"required"`
	SiteAddress    string   `json:"siteAddress"`
	ReportType     string   `json:"reportType" validate:"required,oneof=installation maintenance repair inspection"`
	Description    string   `json:"description" validate:"required"`
	Images         []string `json:"images"`
	WorkHours      float64  `json:"workHours" validate:"gte=0"`
	MaterialUsed   []string `json:"materialUsed"`
}

type UpdateReportStatusRequest struct {
	Status         string `json:"status" validate:"required,oneof=pending acknowledged completed"`
	AcknowledgedBy string `json:"acknowledgedBy"`
}

// --- TechnicianReportService Interface ---
type TechnicianReportService interface {
	CreateReport(ctx context.Context, req CreateTechnicianReportRequest) (*models.TechnicianReport, error)
	GetReports(ctx context.Context) ([]models.TechnicianReport, error)
	UpdateStatus(ctx context.Context, id string, req UpdateReportStatusRequest, operatorID string) (*models.TechnicianReport, error)
}

type technicianReportService struct {
	ledger repositories.LedgerRepository
	now    Clock
}

// NewTechnicianReportService creates a new instance of TechnicianReportService.
func NewTechnicianReportService(ledger repositories.LedgerRepository, now Clock) TechnicianReportService {
	if now == nil {
		now = SystemClock
	}
	return &technicianReportService{ledger: ledger, now: now}
}

func (s *technicianReportService) CreateReport(ctx context.Context, req CreateTechnicianReportRequest) (*models.TechnicianReport, error) {
	req.TechnicianName = strings.TrimSpace(req.TechnicianName)
	req.ClientName = strings.TrimSpace(req.ClientName)
	req.Description = strings.TrimSpace(req.Description)
	req.ReportType = strings.ToLower(strings.TrimSpace(req.ReportType))
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	if req.ClientID != "" {
		if _, err := s.ledger.FindClientByID(ctx, req.ClientID); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, ErrClientNotFound
			}
			return nil, fmt.Errorf("failed to look up client: %w", err)
		}
	}

	images := req.Images
	if images == nil {
		images = []string{}
	}
	report := models.TechnicianReport{
		ID:             uuid.NewString(),
		TechnicianName: req.TechnicianName,
		ClientID:       req.ClientID,
		ClientName:     req.ClientName,
		SiteAddress:    req.SiteAddress,
		ReportType:     req.ReportType,
		Description:    req.Description,
		Images:         images,
		Status:         models.ReportStatusPending,
		CreatedAt:      s.now().Format(time.RFC3339),
		WorkHours:      req.WorkHours,
		MaterialUsed:   req.MaterialUsed,
	}
	if err := s.ledger.UpsertTechnicianReport(ctx, report); err != nil {
		return nil, fmt.Errorf("failed to save technician report: %w", err)
	}
	return &report, nil
}

// GetReports returns reports newest first.
func (s *technicianReportService) GetReports(ctx context.Context) ([]models.TechnicianReport, error) {
	reports, err := s.ledger.ListTechnicianReports(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get technician reports: %w", err)
	}
	reverseInPlace(reports)
	return reports, nil
}

// UpdateStatus moves a report between states. Acknowledging stamps who and when.
func (s *technicianReportService) UpdateStatus(ctx context.Context, id string, req UpdateReportStatusRequest, operatorID string) (*models.TechnicianReport, error) {
	req.Status = strings.ToLower(strings.TrimSpace(req.Status))
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	report, err := s.ledger.FindTechnicianReportByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, fmt.Errorf("failed to get technician report: %w", err)
	}

	report.Status = req.Status
	switch req.Status {
	case models.ReportStatusAcknowledged:
		report.AcknowledgedBy = utils.FirstNonEmpty(req.AcknowledgedBy, operatorID)
		report.AcknowledgedAt = s.now().Format(time.RFC3339)
	case models.ReportStatusPending:
		report.AcknowledgedBy = ""
		report.AcknowledgedAt = ""
	}

	if err := s.ledger.UpsertTechnicianReport(ctx, *report); err != nil {
		return nil, fmt.Errorf("failed to update technician report: %w", err)
	}
	return report, nil
}
