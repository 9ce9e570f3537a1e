package repository

import (
	"context"

	"github.com/roster-api/internal/database"
	"github.com/roster-api/internal/models"
)

// EmployeeRepository defines the interface for roster data operations
type EmployeeRepository interface {
	Create(ctx context.Context, employee *models.Employee) error
	GetByID(ctx context.Context, id int64) (*models.Employee, error)
	List(ctx context.Context) ([]*models.Employee, error)
	Count(ctx context.Context) (int, error)
	// Modify applies fn to the stored record and saves it in one transaction.
	// It returns nil, nil when no record has that id.
	Modify(ctx context.Context, id int64, fn func(*models.Employee)) (*models.Employee, error)
	// ReplaceAll deletes every record and inserts employees atomically
	ReplaceAll(ctx context.Context, employees []*models.Employee) (int, error)
	// InsertIfEmpty inserts employees only when the table has no rows
	InsertIfEmpty(ctx context.Context, employees []*models.Employee) (int, error)
	StreamAll(ctx context.Context, callback func(*models.Employee) error) error
}

// Repositories holds all repository interfaces
type Repositories struct {
	Employee EmployeeRepository
}

// New creates all repositories with the given database connection
func New(db *database.DB) *Repositories {
	return &Repositories{
		Employee: NewEmployeeRepo(db),
	}
}
