package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/roster-api/internal/database"
	"github.com/roster-api/internal/models"
)

const employeeColumns = `id, name, role, work_site, contract_type, exam_status, contract_status, daily_rate`

// employeeRepo is the concrete implementation of EmployeeRepository.
// Queries are written with ? placeholders and rebound for the dialect.
type employeeRepo struct {
	db *database.DB
}

// NewEmployeeRepo creates a new employee repository
func NewEmployeeRepo(db *database.DB) EmployeeRepository {
	return &employeeRepo{db: db}
}

// Create inserts a new employee and sets its ID
func (r *employeeRepo) Create(ctx context.Context, e *models.Employee) error {
	query := r.db.Rebind(`
		INSERT INTO employees (name, role, work_site, contract_type, exam_status, contract_status, daily_rate)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`)
	return r.db.QueryRowxContext(ctx, query,
		e.Name, e.Role, e.WorkSite, e.ContractType, e.ExamStatus, e.ContractStatus, e.DailyRate,
	).Scan(&e.ID)
}

// GetByID retrieves an employee by ID
func (r *employeeRepo) GetByID(ctx context.Context, id int64) (*models.Employee, error) {
	query := r.db.Rebind(`SELECT ` + employeeColumns + ` FROM employees WHERE id = ?`)

	var e models.Employee
	err := r.db.GetContext(ctx, &e, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// List returns every employee ordered by name
func (r *employeeRepo) List(ctx context.Context) ([]*models.Employee, error) {
	var employees []*models.Employee
	err := r.db.SelectContext(ctx, &employees, `SELECT `+employeeColumns+` FROM employees ORDER BY name, id`)
	if err != nil {
		return nil, err
	}
	return employees, nil
}

// Count returns the total number of employees
func (r *employeeRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM employees")
	return count, err
}

// Modify loads, changes and saves one employee in a single transaction
func (r *employeeRepo) Modify(ctx context.Context, id int64, fn func(*models.Employee)) (*models.Employee, error) {
	selectQuery := `SELECT ` + employeeColumns + ` FROM employees WHERE id = ?`
	if r.db.DriverName() == database.DriverPostgres {
		selectQuery += " FOR UPDATE"
	}
	updateQuery := `
		UPDATE employees SET
			name = ?, role = ?, work_site = ?, contract_type = ?,
			exam_status = ?, contract_status = ?, daily_rate = ?
		WHERE id = ?
	`

	var updated *models.Employee
	err := r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		var e models.Employee
		err := tx.GetContext(ctx, &e, tx.Rebind(selectQuery), id)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}

		fn(&e)
		e.ID = id

		_, err = tx.ExecContext(ctx, tx.Rebind(updateQuery),
			e.Name, e.Role, e.WorkSite, e.ContractType, e.ExamStatus, e.ContractStatus, e.DailyRate, e.ID,
		)
		if err != nil {
			return err
		}
		updated = &e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// ReplaceAll deletes every employee and inserts the given set in one
// transaction. On any error the previous roster is left untouched.
// IDs of the inserted employees are not populated.
func (r *employeeRepo) ReplaceAll(ctx context.Context, employees []*models.Employee) (int, error) {
	inserted := 0
	err := r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM employees"); err != nil {
			return fmt.Errorf("delete employees: %w", err)
		}
		n, err := r.insertAll(ctx, tx, employees)
		if err != nil {
			return err
		}
		inserted = n
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

// InsertIfEmpty inserts employees only when the table has no rows. The count
// and the insert share one transaction.
func (r *employeeRepo) InsertIfEmpty(ctx context.Context, employees []*models.Employee) (int, error) {
	inserted := 0
	err := r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		if r.db.DriverName() == database.DriverPostgres {
			if _, err := tx.ExecContext(ctx, "LOCK TABLE employees IN EXCLUSIVE MODE"); err != nil {
				return err
			}
		}

		var count int
		if err := tx.GetContext(ctx, &count, "SELECT COUNT(*) FROM employees"); err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		n, err := r.insertAll(ctx, tx, employees)
		if err != nil {
			return err
		}
		inserted = n
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

// insertAll uses COPY on Postgres and a prepared INSERT elsewhere. A single
// failing row aborts the whole batch.
func (r *employeeRepo) insertAll(ctx context.Context, tx *sqlx.Tx, employees []*models.Employee) (int, error) {
	if len(employees) == 0 {
		return 0, nil
	}

	var query string
	if r.db.DriverName() == database.DriverPostgres {
		query = pq.CopyIn("employees",
			"name", "role", "work_site", "contract_type", "exam_status", "contract_status", "daily_rate",
		)
	} else {
		query = tx.Rebind(`
			INSERT INTO employees (name, role, work_site, contract_type, exam_status, contract_status, daily_rate)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`)
	}

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, e := range employees {
		_, err := stmt.ExecContext(ctx,
			e.Name, e.Role, e.WorkSite, e.ContractType, string(e.ExamStatus), string(e.ContractStatus), e.DailyRate,
		)
		if err != nil {
			return 0, fmt.Errorf("insert employee %d: %w", i+1, err)
		}
	}

	if r.db.DriverName() == database.DriverPostgres {
		// Flush the COPY buffer
		if _, err := stmt.ExecContext(ctx); err != nil {
			return 0, fmt.Errorf("copy employees: %w", err)
		}
	}

	return len(employees), nil
}

// StreamAll streams all employees for export
func (r *employeeRepo) StreamAll(ctx context.Context, callback func(*models.Employee) error) error {
	rows, err := r.db.QueryxContext(ctx, `SELECT `+employeeColumns+` FROM employees ORDER BY name, id`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var e models.Employee
		if err := rows.StructScan(&e); err != nil {
			return err
		}
		if err := callback(&e); err != nil {
			return err
		}
	}

	return rows.Err()
}
