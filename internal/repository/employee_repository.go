package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"

	"github.com/locvowork/employee_management_sample/crud/internal/domain"
	"github.com/locvowork/employee_management_sample/crud/internal/repository/builder"
)

const (
	employeesTable = "employees"
	// pgUniqueViolation is the SQLSTATE postgres reports for a unique constraint.
	pgUniqueViolation = "23505"
)

var employeeColumns = []string{"id", "name", "age", "email"}

type employeeRepository struct {
	db *sql.DB
}

// NewEmployeeRepository creates a new instance of EmployeeRepository
func NewEmployeeRepository(db *sql.DB) domain.EmployeeRepository {
	return &employeeRepository{db: db}
}

func (r *employeeRepository) Create(ctx context.Context, e *domain.Employee) (int64, error) {
	b := builder.NewSQLBuilder()
	query, args, err := b.Insert(employeesTable, "name", "age", "email").
		Values(e.Name, e.AgeValue(), e.Email).
		Returning("id").
		BuildSafe()
	if err != nil {
		return 0, fmt.Errorf("failed to build insert query: %w", err)
	}

	var id int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("failed to create employee: %w", domain.ErrDuplicateEmail)
		}
		return 0, fmt.Errorf("failed to create employee: %w", err)
	}

	e.ID = id
	return id, nil
}

func (r *employeeRepository) List(ctx context.Context) ([]domain.Employee, error) {
	b := builder.NewSQLBuilder()
	query, args, err := b.Select(employeeColumns...).
		From(employeesTable).
		OrderBy("id ASC").
		BuildSafe()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var employees []domain.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}

	return employees, nil
}

func (r *employeeRepository) Update(ctx context.Context, e *domain.Employee) error {
	b := builder.NewSQLBuilder()
	query, args, err := b.Update(employeesTable).
		Set("name", e.Name).
		Set("age", e.AgeValue()).
		Set("email", e.Email).
		Where("id = ?", e.ID).
		BuildSafe()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("failed to update employee %d: %w", e.ID, domain.ErrDuplicateEmail)
		}
		return fmt.Errorf("failed to update employee %d: %w", e.ID, err)
	}

	return checkAffected(res, e.ID)
}

func (r *employeeRepository) Delete(ctx context.Context, id int64) error {
	b := builder.NewSQLBuilder()
	query, args, err := b.Delete(employeesTable).
		Where("id = ?", id).
		BuildSafe()
	if err != nil {
		return fmt.Errorf("failed to build delete query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete employee %d: %w", id, err)
	}

	return checkAffected(res, id)
}

func (r *employeeRepository) DeleteAll(ctx context.Context) (int64, error) {
	query, args, err := builder.NewSQLBuilder().Delete(employeesTable).BuildSafe()
	if err != nil {
		return 0, fmt.Errorf("failed to build delete query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete employees: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEmployee(row rowScanner) (domain.Employee, error) {
	var (
		e     domain.Employee
		age   sql.NullInt64
		email sql.NullString
	)
	if err := row.Scan(&e.ID, &e.Name, &age, &email); err != nil {
		return domain.Employee{}, err
	}
	e.Email = email.String
	if age.Valid {
		v := int(age.Int64)
		e.Age = &v
	}
	return e, nil
}

func checkAffected(res sql.Result, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("employee %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pgUniqueViolation
	}

	return false
}
