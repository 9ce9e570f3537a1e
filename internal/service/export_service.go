package service

import (
	"bufio"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/roster-api/internal/models"
	"github.com/roster-api/internal/repository"
	"github.com/rs/zerolog"
)

// ExportFormat describes how an export is served
type ExportFormat struct {
	Name        string
	ContentType string
	Extension   string
}

var exportFormats = map[string]ExportFormat{
	"csv":    {Name: "csv", ContentType: "text/csv; charset=utf-8", Extension: ".csv"},
	"json":   {Name: "json", ContentType: "application/json", Extension: ".json"},
	"ndjson": {Name: "ndjson", ContentType: "application/x-ndjson", Extension: ".ndjson"},
}

// LookupExportFormat resolves a format name; the empty name means csv
func LookupExportFormat(name string) (ExportFormat, bool) {
	if name == "" {
		name = "csv"
	}
	f, ok := exportFormats[name]
	return f, ok
}

// flusher is satisfied by http.ResponseWriter implementations that stream
type flusher interface {
	Flush()
}

// exportService is the concrete implementation of ExportService
type exportService struct {
	repos *repository.Repositories
	log   zerolog.Logger
}

// newExportService creates a new ExportService
func newExportService(repos *repository.Repositories, log zerolog.Logger) *exportService {
	return &exportService{
		repos: repos,
		log:   log.With().Str("service", "export").Logger(),
	}
}

// Stream writes every employee to w and returns how many were written
func (s *exportService) Stream(ctx context.Context, w io.Writer, format string) (int, error) {
	f, ok := LookupExportFormat(format)
	if !ok {
		return 0, fmt.Errorf("unsupported format: %s", format)
	}

	s.log.Info().Str("format", f.Name).Msg("Starting roster export")

	var (
		count int
		err   error
	)
	switch f.Name {
	case "ndjson":
		count, err = s.streamNDJSON(ctx, w)
	case "json":
		count, err = s.streamJSON(ctx, w)
	default:
		count, err = s.streamCSV(ctx, w)
	}
	if err != nil {
		return count, err
	}

	s.log.Info().Str("format", f.Name).Int("count", count).Msg("Roster export completed")
	return count, nil
}

func (s *exportService) streamNDJSON(ctx context.Context, w io.Writer) (int, error) {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	count := 0

	err := s.repos.Employee.StreamAll(ctx, func(e *models.Employee) error {
		if err := enc.Encode(e); err != nil {
			return err
		}
		count++

		// Flush every 100 records for streaming
		if count%100 == 0 {
			return flush(bw, w)
		}
		return nil
	})
	if err != nil {
		return count, err
	}
	return count, flush(bw, w)
}

func (s *exportService) streamJSON(ctx context.Context, w io.Writer) (int, error) {
	bw := bufio.NewWriter(w)
	count := 0

	bw.WriteString("[")
	err := s.repos.Employee.StreamAll(ctx, func(e *models.Employee) error {
		if count > 0 {
			bw.WriteString(",")
		}
		data, err := json.Marshal(e)
		if err != nil {
			return err
		}
		bw.Write(data)
		count++
		return nil
	})
	if err != nil {
		return count, err
	}
	bw.WriteString("]\n")
	return count, flush(bw, w)
}

func (s *exportService) streamCSV(ctx context.Context, w io.Writer) (int, error) {
	writer := csv.NewWriter(w)
	if err := writer.Write(exportHeader); err != nil {
		return 0, err
	}

	count := 0
	err := s.repos.Employee.StreamAll(ctx, func(e *models.Employee) error {
		count++
		return writer.Write([]string{
			e.Name,
			e.Role,
			e.WorkSite,
			e.ContractType,
			string(e.ExamStatus),
			string(e.ContractStatus),
			strconv.FormatFloat(e.DailyRate, 'f', 2, 64),
		})
	})
	writer.Flush()
	if err != nil {
		return count, err
	}
	if f, ok := w.(flusher); ok {
		f.Flush()
	}
	return count, writer.Error()
}

func flush(bw *bufio.Writer, w io.Writer) error {
	if err := bw.Flush(); err != nil {
		return err
	}
	if f, ok := w.(flusher); ok {
		f.Flush()
	}
	return nil
}
