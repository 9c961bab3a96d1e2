package handlers

import (
	"context"

	"github.com/stretchr/testify/mock"

	"gst_invoicing_backend/internal/models"
	"gst_invoicing_backend/internal/services"
)

type mockBillService struct {
	mock.Mock
}

func (m *mockBillService) PreviewBill(req services.BillRequest) (*models.BillDraft, error) {
	args := m.Called(req)
	draft, _ := args.Get(0).(*models.BillDraft)
	return draft, args.Error(1)
}

func (m *mockBillService) CreateBill(ctx context.Context, req services.BillRequest, userID string) (*models.BillCommitResult, error) {
	args := m.Called(ctx, req, userID)
	res, _ := args.Get(0).(*models.BillCommitResult)
	return res, args.Error(1)
}

func (m *mockBillService) CommitBill(ctx context.Context, draft models.BillDraft, userID string) (*models.BillCommitResult, error) {
	args := m.Called(ctx, draft, userID)
	res, _ := args.Get(0).(*models.BillCommitResult)
	return res, args.Error(1)
}

func (m *mockBillService) GetBills(ctx context.Context) ([]models.Bill, error) {
	args := m.Called(ctx)
	bills, _ := args.Get(0).([]models.Bill)
	return bills, args.Error(1)
}

func (m *mockBillService) GetBillByID(ctx context.Context, id string) (*models.Bill, error) {
	args := m.Called(ctx, id)
	bill, _ := args.Get(0).(*models.Bill)
	return bill, args.Error(1)
}

type mockClientService struct {
	mock.Mock
}

func (m *mockClientService) CreateClient(ctx context.Context, req services.ClientRequest) (*models.Client, error) {
	args := m.Called(ctx, req)
	client, _ := args.Get(0).(*models.Client)
	return client, args.Error(1)
}

func (m *mockClientService) UpdateClient(ctx context.Context, id string, req services.ClientRequest) (*models.Client, error) {
	args := m.Called(ctx, id, req)
	client, _ := args.Get(0).(*models.Client)
	return client, args.Error(1)
}

func (m *mockClientService) GetClients(ctx context.Context) ([]models.Client, error) {
	args := m.Called(ctx)
	clients, _ := args.Get(0).([]models.Client)
	return clients, args.Error(1)
}

func (m *mockClientService) GetClientByID(ctx context.Context, id string) (*models.Client, error) {
	args := m.Called(ctx, id)
	client, _ := args.Get(0).(*models.Client)
	return client, args.Error(1)
}

func (m *mockClientService) Statement(ctx context.Context, id string) (*models.ClientStatement, error) {
	args := m.Called(ctx, id)
	stmt, _ := args.Get(0).(*models.ClientStatement)
	return stmt, args.Error(1)
}

type mockTechnicianReportService struct {
	mock.Mock
}

func (m *mockTechnicianReportService) CreateReport(ctx context.Context, req services.CreateTechnicianReportRequest) (*models.TechnicianReport, error) {
	args := m.Called(ctx, req)
	r, _ := args.Get(0).(*models.TechnicianReport)
	return r, args.Error(1)
}

func (m *mockTechnicianReportService) GetReports(ctx context.Context) ([]models.TechnicianReport, error) {
	args := m.Called(ctx)
	r, _ := args.Get(0).([]models.TechnicianReport)
	return r, args.Error(1)
}

func (m *mockTechnicianReportService) UpdateStatus(ctx context.Context, id string, req services.UpdateReportStatusRequest, operatorID string) (*models.TechnicianReport, error) {
	args := m.Called(ctx, id, req, operatorID)
	r, _ := args.Get(0).(*models.TechnicianReport)
	return r, args.Error(1)
}
