package service

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/roster-api/internal/models"
	"github.com/roster-api/internal/repository"
	"github.com/roster-api/internal/spreadsheet"
	"github.com/roster-api/internal/validation"
	"github.com/rs/zerolog"
)

// seedService is the concrete implementation of SeedService
type seedService struct {
	repos *repository.Repositories
	log   zerolog.Logger
}

// newSeedService creates a new SeedService
func newSeedService(repos *repository.Repositories, log zerolog.Logger) *seedService {
	return &seedService{
		repos: repos,
		log:   log.With().Str("service", "seed").Logger(),
	}
}

// Bootstrap loads the reference file into an empty roster. It is a no-op
// when the file is missing or the roster already has records.
func (s *seedService) Bootstrap(ctx context.Context, path string) (int, error) {
	if path == "" {
		return 0, nil
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		s.log.Debug().Str("file", path).Msg("Seed file not found, skipping")
		return 0, nil
	}

	count, err := s.repos.Employee.Count(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		s.log.Debug().Int("records", count).Msg("Roster not empty, skipping seed")
		return 0, nil
	}

	table, err := spreadsheet.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read seed file: %w", err)
	}

	cols := mapColumns(table, seedColumns)
	employees := make([]*models.Employee, 0, table.Len())
	for i, row := range table.Rows {
		in := cols.input(table, row)
		if in.IsBlank() {
			continue
		}
		e, notes := validation.Employee(in, i+2)
		for _, n := range notes {
			s.log.Debug().Int("line", n.Line).Str("field", n.Field).Interface("value", n.Value).Msg(n.Message)
		}
		employees = append(employees, e)
	}

	// Checked again inside the transaction in case another process seeded first
	inserted, err := s.repos.Employee.InsertIfEmpty(ctx, employees)
	if err != nil {
		return 0, fmt.Errorf("insert seed: %w", err)
	}

	s.log.Info().Str("file", path).Int("inserted", inserted).Msg("Roster seeded")
	return inserted, nil
}
