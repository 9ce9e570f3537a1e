package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/roster-api/internal/config"
	"github.com/roster-api/internal/models"
	"github.com/roster-api/internal/repository"
	"github.com/roster-api/internal/spreadsheet"
	"github.com/roster-api/internal/validation"
	"github.com/rs/zerolog"
)

// importService is the concrete implementation of ImportService
type importService struct {
	repos *repository.Repositories
	cfg   *config.Config
	log   zerolog.Logger
}

// newImportService creates a new ImportService
func newImportService(repos *repository.Repositories, cfg *config.Config, log zerolog.Logger) *importService {
	return &importService{
		repos: repos,
		cfg:   cfg,
		log:   log.With().Str("service", "import").Logger(),
	}
}

// ImportSpreadsheet checks an uploaded file and replaces the roster with its
// first sheet. Rejected uploads wrap ErrImportRejected.
func (s *importService) ImportSpreadsheet(ctx context.Context, filename string, r io.ReaderAt, size int64) (*models.ImportReport, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !s.accepts(ext) {
		s.log.Warn().Str("file", filename).Msg("Import rejected: extension not accepted")
		return nil, fmt.Errorf("%w: extension %q not accepted", ErrImportRejected, ext)
	}
	if size > s.cfg.Import.MaxUploadSize {
		s.log.Warn().Str("file", filename).Int64("size", size).Msg("Import rejected: file too large")
		return nil, fmt.Errorf("%w: file too large, max size is %d MB", ErrImportRejected, s.cfg.Import.MaxUploadSize/(1024*1024))
	}

	table, err := spreadsheet.Read(r, size, ext)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filename, err)
	}

	return s.ImportTable(ctx, filename, table)
}

// ImportTable replaces the roster with the rows of table. Every row is
// normalized before the store is touched; the swap itself is one transaction.
func (s *importService) ImportTable(ctx context.Context, source string, table *spreadsheet.Table) (*models.ImportReport, error) {
	startTime := time.Now()
	report := &models.ImportReport{
		BatchID: uuid.New().String(),
		Source:  source,
	}

	s.log.Info().
		Str("batch_id", report.BatchID).
		Str("source", source).
		Str("sheet", table.Sheet).
		Int("rows", table.Len()).
		Msg("Starting roster import")

	cols := mapColumns(table, importColumns)
	report.Columns = cols.headers

	employees := make([]*models.Employee, 0, table.Len())
	for i, row := range table.Rows {
		report.TotalRows++
		in := cols.input(table, row)
		// Line 1 is the header row
		line := i + 2
		if in.IsBlank() {
			report.SkippedRows++
			if hasData(row) {
				report.UnmappedRows++
				report.Notes = append(report.Notes, models.ValidationError{
					Line:    line,
					Field:   "row",
					Message: "row has data only in unrecognized columns, skipped",
				})
			}
			continue
		}

		e, notes := validation.Employee(in, line)
		employees = append(employees, e)
		report.Notes = append(report.Notes, notes...)
	}

	for _, n := range report.Notes {
		s.log.Debug().
			Str("batch_id", report.BatchID).
			Int("line", n.Line).
			Str("field", n.Field).
			Interface("value", n.Value).
			Msg(n.Message)
	}

	imported, err := s.repos.Employee.ReplaceAll(ctx, employees)
	if err != nil {
		s.log.Error().Err(err).Str("batch_id", report.BatchID).Msg("Import failed, roster unchanged")
		return nil, fmt.Errorf("replace roster: %w", err)
	}

	report.Imported = imported
	report.DurationMs = time.Since(startTime).Milliseconds()
	report.CompletedAt = time.Now()

	s.log.Info().
		Str("batch_id", report.BatchID).
		Int("total", report.TotalRows).
		Int("imported", report.Imported).
		Int("skipped", report.SkippedRows).
		Int("unmapped", report.UnmappedRows).
		Int("notes", len(report.Notes)).
		Int64("duration_ms", report.DurationMs).
		Msg("Import completed")

	return report, nil
}

// accepts reports whether ext is both configured and readable
func (s *importService) accepts(ext string) bool {
	if !spreadsheet.Supported(ext) {
		return false
	}
	for _, allowed := range s.cfg.Import.Extensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// hasData reports whether any cell in row holds non-blank text
func hasData(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return true
		}
	}
	return false
}
