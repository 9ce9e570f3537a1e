package service

import (
	"context"
	"errors"
	"io"

	"github.com/roster-api/internal/config"
	"github.com/roster-api/internal/models"
	"github.com/roster-api/internal/query"
	"github.com/roster-api/internal/repository"
	"github.com/roster-api/internal/spreadsheet"
	"github.com/rs/zerolog"
)

var (
	// ErrNotFound is returned when a mutation targets an unknown employee
	ErrNotFound = errors.New("employee not found")
	// ErrImportRejected is returned when an upload fails the extension or size
	// checks. The roster is not touched.
	ErrImportRejected = errors.New("import rejected")
)

// RosterService defines the interface for listing and editing employees
type RosterService interface {
	List(ctx context.Context, criteria query.Criteria) ([]*models.Employee, error)
	Get(ctx context.Context, id int64) (*models.Employee, error)
	ToggleExam(ctx context.Context, id int64) (*models.Employee, error)
	ToggleContract(ctx context.Context, id int64) (*models.Employee, error)
	AdjustRate(ctx context.Context, id int64, delta float64) (*models.Employee, error)
	Create(ctx context.Context, in *models.EmployeeInput) (*models.Employee, error)
	Stats(ctx context.Context) (*models.RosterStats, error)
}

// ImportService defines the interface for replacing the roster from a spreadsheet
type ImportService interface {
	ImportSpreadsheet(ctx context.Context, filename string, r io.ReaderAt, size int64) (*models.ImportReport, error)
	ImportTable(ctx context.Context, source string, table *spreadsheet.Table) (*models.ImportReport, error)
}

// SeedService defines the interface for the first-run bootstrap
type SeedService interface {
	Bootstrap(ctx context.Context, path string) (int, error)
}

// ExportService defines the interface for export operations
type ExportService interface {
	Stream(ctx context.Context, w io.Writer, format string) (int, error)
}

// Services holds all service interfaces
type Services struct {
	Roster RosterService
	Import ImportService
	Seed   SeedService
	Export ExportService
}

// NewServices creates all services
func NewServices(repos *repository.Repositories, cfg *config.Config, log zerolog.Logger) *Services {
	return &Services{
		Roster: newRosterService(repos, log),
		Import: newImportService(repos, cfg, log),
		Seed:   newSeedService(repos, log),
		Export: newExportService(repos, log),
	}
}
