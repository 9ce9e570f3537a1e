package service

import (
	"context"

	"github.com/roster-api/internal/models"
	"github.com/roster-api/internal/query"
	"github.com/roster-api/internal/repository"
	"github.com/roster-api/internal/validation"
	"github.com/rs/zerolog"
)

// rosterService is the concrete implementation of RosterService
type rosterService struct {
	repos *repository.Repositories
	log   zerolog.Logger
}

// newRosterService creates a new RosterService
func newRosterService(repos *repository.Repositories, log zerolog.Logger) *rosterService {
	return &rosterService{
		repos: repos,
		log:   log.With().Str("service", "roster").Logger(),
	}
}

// List returns the employees matching criteria, sorted by name
func (s *rosterService) List(ctx context.Context, criteria query.Criteria) ([]*models.Employee, error) {
	all, err := s.repos.Employee.List(ctx)
	if err != nil {
		return nil, err
	}
	return query.Apply(all, criteria), nil
}

// Get returns one employee or ErrNotFound
func (s *rosterService) Get(ctx context.Context, id int64) (*models.Employee, error) {
	e, err := s.repos.Employee.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, ErrNotFound
	}
	return e, nil
}

// ToggleExam flips the exam flag between OK and PENDING
func (s *rosterService) ToggleExam(ctx context.Context, id int64) (*models.Employee, error) {
	e, err := s.modify(ctx, id, func(e *models.Employee) {
		e.ExamStatus = validation.Toggle(e.ExamStatus)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("employee_id", id).Str("exam_status", string(e.ExamStatus)).Msg("Exam status toggled")
	return e, nil
}

// ToggleContract flips the contract flag between OK and PENDING
func (s *rosterService) ToggleContract(ctx context.Context, id int64) (*models.Employee, error) {
	e, err := s.modify(ctx, id, func(e *models.Employee) {
		e.ContractStatus = validation.Toggle(e.ContractStatus)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("employee_id", id).Str("contract_status", string(e.ContractStatus)).Msg("Contract status toggled")
	return e, nil
}

// AdjustRate adds delta to the daily rate, clamping to the storable range
func (s *rosterService) AdjustRate(ctx context.Context, id int64, delta float64) (*models.Employee, error) {
	var previous float64
	e, err := s.modify(ctx, id, func(e *models.Employee) {
		previous = e.DailyRate
		e.DailyRate = validation.AdjustRate(e.DailyRate, delta)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Int64("employee_id", id).
		Float64("delta", delta).
		Float64("previous", previous).
		Float64("daily_rate", e.DailyRate).
		Msg("Daily rate adjusted")
	return e, nil
}

// Create adds a new hire with both compliance flags pending
func (s *rosterService) Create(ctx context.Context, in *models.EmployeeInput) (*models.Employee, error) {
	e := validation.NewHire(in)
	if err := s.repos.Employee.Create(ctx, e); err != nil {
		return nil, err
	}

	s.log.Info().Int64("employee_id", e.ID).Str("name", e.Name).Msg("Employee created")
	return e, nil
}

// Stats counts the roster by compliance state
func (s *rosterService) Stats(ctx context.Context) (*models.RosterStats, error) {
	stats := &models.RosterStats{}
	err := s.repos.Employee.StreamAll(ctx, func(e *models.Employee) error {
		stats.Total++
		if e.ExamPending() {
			stats.ExamPending++
		}
		if e.ContractPending() {
			stats.ContractPending++
		}
		if e.HasPending() {
			stats.HasPending++
		}
		stats.DailyRateSum += e.DailyRate
		return nil
	})
	if err != nil {
		return nil, err
	}
	stats.DailyRateSum = validation.Round2(stats.DailyRateSum)
	return stats, nil
}

func (s *rosterService) modify(ctx context.Context, id int64, fn func(*models.Employee)) (*models.Employee, error) {
	e, err := s.repos.Employee.Modify(ctx, id, fn)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, ErrNotFound
	}
	return e, nil
}
