package mocks

import (
	"context"
	"sort"
	"sync"

	"github.com/roster-api/internal/models"
	"github.com/roster-api/internal/repository"
)

// Verify interface compliance
var _ repository.EmployeeRepository = (*MockEmployeeRepository)(nil)

// MockEmployeeRepository is an in-memory EmployeeRepository. IDs are
// assigned from a counter that is never rewound, like the real tables.
type MockEmployeeRepository struct {
	mu        sync.Mutex
	Employees map[int64]*models.Employee
	nextID    int64

	InsertError  error
	ReplaceError error
	ListError    error

	ReplaceCalls       int
	InsertIfEmptyCalls int
}

func NewMockEmployeeRepository() *MockEmployeeRepository {
	return &MockEmployeeRepository{
		Employees: make(map[int64]*models.Employee),
	}
}

// Seed stores copies of employees directly, bypassing error injection
func (m *MockEmployeeRepository) Seed(employees ...*models.Employee) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range employees {
		m.store(e)
	}
}

func (m *MockEmployeeRepository) store(e *models.Employee) {
	m.nextID++
	e.ID = m.nextID
	stored := *e
	m.Employees[e.ID] = &stored
}

func (m *MockEmployeeRepository) Create(ctx context.Context, e *models.Employee) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.InsertError != nil {
		return m.InsertError
	}
	m.store(e)
	return nil
}

func (m *MockEmployeeRepository) GetByID(ctx context.Context, id int64) (*models.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.Employees[id]
	if !ok {
		return nil, nil
	}
	out := *e
	return &out, nil
}

func (m *MockEmployeeRepository) List(ctx context.Context) ([]*models.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListError != nil {
		return nil, m.ListError
	}
	return m.sorted(), nil
}

func (m *MockEmployeeRepository) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Employees), nil
}

func (m *MockEmployeeRepository) Modify(ctx context.Context, id int64, fn func(*models.Employee)) (*models.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.Employees[id]
	if !ok {
		return nil, nil
	}
	updated := *e
	fn(&updated)
	updated.ID = id
	m.Employees[id] = &updated
	out := updated
	return &out, nil
}

func (m *MockEmployeeRepository) ReplaceAll(ctx context.Context, employees []*models.Employee) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ReplaceCalls++
	if m.ReplaceError != nil {
		return 0, m.ReplaceError
	}
	m.Employees = make(map[int64]*models.Employee, len(employees))
	for _, e := range employees {
		m.store(e)
	}
	return len(employees), nil
}

func (m *MockEmployeeRepository) InsertIfEmpty(ctx context.Context, employees []*models.Employee) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.InsertIfEmptyCalls++
	if m.InsertError != nil {
		return 0, m.InsertError
	}
	if len(m.Employees) > 0 {
		return 0, nil
	}
	for _, e := range employees {
		m.store(e)
	}
	return len(employees), nil
}

func (m *MockEmployeeRepository) StreamAll(ctx context.Context, callback func(*models.Employee) error) error {
	m.mu.Lock()
	records := m.sorted()
	m.mu.Unlock()

	for _, e := range records {
		if err := callback(e); err != nil {
			return err
		}
	}
	return nil
}

// sorted returns copies ordered by name then id; callers hold mu
func (m *MockEmployeeRepository) sorted() []*models.Employee {
	out := make([]*models.Employee, 0, len(m.Employees))
	for _, e := range m.Employees {
		c := *e
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}
