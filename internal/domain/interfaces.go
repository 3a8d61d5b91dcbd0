package domain

import "context"

// EmployeeRepository defines the interface for employee data access
type EmployeeRepository interface {
	// Create inserts e and returns the id assigned by storage.
	Create(ctx context.Context, e *Employee) (int64, error)
	List(ctx context.Context) ([]Employee, error)
	Update(ctx context.Context, e *Employee) error
	Delete(ctx context.Context, id int64) error
	DeleteAll(ctx context.Context) (int64, error)
}
