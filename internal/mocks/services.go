package mocks

import (
	"context"
	"errors"
	"io"

	"github.com/roster-api/internal/models"
	"github.com/roster-api/internal/query"
	"github.com/roster-api/internal/service"
	"github.com/roster-api/internal/spreadsheet"
)

// ErrNotConfigured is returned by mock methods without a stub
var ErrNotConfigured = errors.New("mock: no stub configured")

// MockRosterService is a mock implementation of RosterService
type MockRosterService struct {
	ListFunc           func(ctx context.Context, criteria query.Criteria) ([]*models.Employee, error)
	GetFunc            func(ctx context.Context, id int64) (*models.Employee, error)
	ToggleExamFunc     func(ctx context.Context, id int64) (*models.Employee, error)
	ToggleContractFunc func(ctx context.Context, id int64) (*models.Employee, error)
	AdjustRateFunc     func(ctx context.Context, id int64, delta float64) (*models.Employee, error)
	CreateFunc         func(ctx context.Context, in *models.EmployeeInput) (*models.Employee, error)
	StatsFunc          func(ctx context.Context) (*models.RosterStats, error)

	Created []*models.EmployeeInput
}

// Verify interface compliance
var _ service.RosterService = (*MockRosterService)(nil)

func (m *MockRosterService) List(ctx context.Context, criteria query.Criteria) ([]*models.Employee, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, criteria)
	}
	return nil, nil
}

func (m *MockRosterService) Get(ctx context.Context, id int64) (*models.Employee, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return nil, service.ErrNotFound
}

func (m *MockRosterService) ToggleExam(ctx context.Context, id int64) (*models.Employee, error) {
	if m.ToggleExamFunc != nil {
		return m.ToggleExamFunc(ctx, id)
	}
	return nil, service.ErrNotFound
}

func (m *MockRosterService) ToggleContract(ctx context.Context, id int64) (*models.Employee, error) {
	if m.ToggleContractFunc != nil {
		return m.ToggleContractFunc(ctx, id)
	}
	return nil, service.ErrNotFound
}

func (m *MockRosterService) AdjustRate(ctx context.Context, id int64, delta float64) (*models.Employee, error) {
	if m.AdjustRateFunc != nil {
		return m.AdjustRateFunc(ctx, id, delta)
	}
	return nil, service.ErrNotFound
}

func (m *MockRosterService) Create(ctx context.Context, in *models.EmployeeInput) (*models.Employee, error) {
	m.Created = append(m.Created, in)
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, in)
	}
	return &models.Employee{ID: int64(len(m.Created)), Name: in.Name}, nil
}

func (m *MockRosterService) Stats(ctx context.Context) (*models.RosterStats, error) {
	if m.StatsFunc != nil {
		return m.StatsFunc(ctx)
	}
	return &models.RosterStats{}, nil
}

// MockImportService is a mock implementation of ImportService
type MockImportService struct {
	ImportFunc func(ctx context.Context, filename string, r io.ReaderAt, size int64) (*models.ImportReport, error)
	Uploads    []string
}

// Verify interface compliance
var _ service.ImportService = (*MockImportService)(nil)

func (m *MockImportService) ImportSpreadsheet(ctx context.Context, filename string, r io.ReaderAt, size int64) (*models.ImportReport, error) {
	m.Uploads = append(m.Uploads, filename)
	if m.ImportFunc != nil {
		return m.ImportFunc(ctx, filename, r, size)
	}
	return &models.ImportReport{Source: filename}, nil
}

func (m *MockImportService) ImportTable(ctx context.Context, source string, table *spreadsheet.Table) (*models.ImportReport, error) {
	return nil, ErrNotConfigured
}

// MockExportService is a mock implementation of ExportService
type MockExportService struct {
	StreamFunc func(ctx context.Context, w io.Writer, format string) (int, error)
}

// Verify interface compliance
var _ service.ExportService = (*MockExportService)(nil)

func (m *MockExportService) Stream(ctx context.Context, w io.Writer, format string) (int, error) {
	if m.StreamFunc != nil {
		return m.StreamFunc(ctx, w, format)
	}
	return 0, nil
}

// MockSeedService is a mock implementation of SeedService
type MockSeedService struct {
	Paths []string
}

// Verify interface compliance
var _ service.SeedService = (*MockSeedService)(nil)

func (m *MockSeedService) Bootstrap(ctx context.Context, path string) (int, error) {
	m.Paths = append(m.Paths, path)
	return 0, nil
}
