package service

import (
	"context"
	"errors"

	"github.com/locvowork/employee_management_sample/crud/internal/domain"
	"github.com/locvowork/employee_management_sample/crud/internal/logger"
)

// Status tags the outcome of a record operation.
type Status int

const (
	StatusOK Status = iota
	// StatusEmpty is returned by List when the table holds no record.
	StatusEmpty
	StatusNotFound
	StatusDuplicateEmail
	// StatusFailed covers every storage error that is neither of the above.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusEmpty:
		return "empty"
	case StatusNotFound:
		return "not_found"
	case StatusDuplicateEmail:
		return "duplicate_email"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is what every operation hands back to its caller. Expected
// failures are carried in Status; Err is only set for StatusFailed.
type Result struct {
	Status    Status
	ID        int64
	Employees []domain.Employee
	Err       error
}

// OK reports whether the operation succeeded.
func (r Result) OK() bool {
	return r.Status == StatusOK
}

// EmployeeService exposes the four record operations with tagged results.
type EmployeeService struct {
	repo domain.EmployeeRepository
}

// NewEmployeeService creates a new EmployeeService instance
func NewEmployeeService(repo domain.EmployeeRepository) *EmployeeService {
	return &EmployeeService{repo: repo}
}

// Create inserts a new employee. The id assigned by storage is returned in
// Result.ID.
func (s *EmployeeService) Create(ctx context.Context, name string, age *int, email string) Result {
	e := &domain.Employee{Name: name, Age: age, Email: email}

	id, err := s.repo.Create(ctx, e)
	if err != nil {
		return s.failure(ctx, "create", err)
	}

	logger.InfoLog(ctx, "Employee %d created", id)
	return Result{Status: StatusOK, ID: id}
}

// List returns every employee in id order, or StatusEmpty when there is none.
func (s *EmployeeService) List(ctx context.Context) Result {
	employees, err := s.repo.List(ctx)
	if err != nil {
		return s.failure(ctx, "list", err)
	}

	if len(employees) == 0 {
		return Result{Status: StatusEmpty}
	}
	return Result{Status: StatusOK, Employees: employees}
}

// Update overwrites name, age and email of the employee with the given id.
func (s *EmployeeService) Update(ctx context.Context, id int64, name string, age *int, email string) Result {
	e := &domain.Employee{ID: id, Name: name, Age: age, Email: email}

	if err := s.repo.Update(ctx, e); err != nil {
		r := s.failure(ctx, "update", err)
		r.ID = id
		return r
	}

	logger.InfoLog(ctx, "Employee %d updated", id)
	return Result{Status: StatusOK, ID: id}
}

// Delete removes the employee with the given id.
func (s *EmployeeService) Delete(ctx context.Context, id int64) Result {
	if err := s.repo.Delete(ctx, id); err != nil {
		r := s.failure(ctx, "delete", err)
		r.ID = id
		return r
	}

	logger.InfoLog(ctx, "Employee %d deleted", id)
	return Result{Status: StatusOK, ID: id}
}

// DeleteAll removes every employee and reports how many were removed in ID.
func (s *EmployeeService) DeleteAll(ctx context.Context) Result {
	n, err := s.repo.DeleteAll(ctx)
	if err != nil {
		return s.failure(ctx, "delete all", err)
	}
	return Result{Status: StatusOK, ID: n}
}

func (s *EmployeeService) failure(ctx context.Context, op string, err error) Result {
	switch {
	case errors.Is(err, domain.ErrDuplicateEmail):
		logger.DebugLog(ctx, "%s rejected: %v", op, err)
		return Result{Status: StatusDuplicateEmail}
	case errors.Is(err, domain.ErrNotFound):
		logger.DebugLog(ctx, "%s rejected: %v", op, err)
		return Result{Status: StatusNotFound}
	default:
		logger.ErrorLog(ctx, "Failed to "+op+" employee: %v", err)
		return Result{Status: StatusFailed, Err: err}
	}
}
