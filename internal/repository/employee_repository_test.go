package repository

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/locvowork/employee_management_sample/crud/internal/database"
	"github.com/locvowork/employee_management_sample/crud/internal/domain"
)

func newSQLiteRepo(t *testing.T) domain.EmployeeRepository {
	t.Helper()

	db, err := database.Open(context.Background(), database.Config{
		DSN: filepath.Join(t.TempDir(), "company.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewEmployeeRepository(db.DB)
}

func TestEmployeeRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := newSQLiteRepo(t)

	alice := &domain.Employee{Name: "Alice", Age: domain.IntPtr(30), Email: "alice@co.com"}
	id, err := repo.Create(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
	assert.Equal(t, id, alice.ID)

	bob := &domain.Employee{Name: "Bob", Email: "bob@co.com"}
	_, err = repo.Create(ctx, bob)
	require.NoError(t, err)

	employees, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, employees, 2)

	assert.Equal(t, domain.Employee{ID: 1, Name: "Alice", Age: domain.IntPtr(30), Email: "alice@co.com"}, employees[0])
	assert.Equal(t, "Bob", employees[1].Name)
	assert.Nil(t, employees[1].Age)
}

func TestEmployeeRepository_ListEmpty(t *testing.T) {
	employees, err := newSQLiteRepo(t).List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, employees)
}

func TestEmployeeRepository_CreateDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := newSQLiteRepo(t)

	_, err := repo.Create(ctx, &domain.Employee{Name: "Alice", Age: domain.IntPtr(30), Email: "a@x.com"})
	require.NoError(t, err)

	_, err = repo.Create(ctx, &domain.Employee{Name: "Bob", Age: domain.IntPtr(25), Email: "a@x.com"})
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)

	employees, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, employees, 1)
}

func TestEmployeeRepository_Update(t *testing.T) {
	ctx := context.Background()
	repo := newSQLiteRepo(t)

	id, err := repo.Create(ctx, &domain.Employee{Name: "Alice", Age: domain.IntPtr(30), Email: "alice@co.com"})
	require.NoError(t, err)
	_, err = repo.Create(ctx, &domain.Employee{Name: "Bob", Age: domain.IntPtr(25), Email: "bob@co.com"})
	require.NoError(t, err)

	// order matters: each case runs against the state left by the previous one
	tests := []struct {
		desc    string
		input   domain.Employee
		wantErr error
	}{
		{"updates all fields", domain.Employee{ID: id, Name: "Alice B", Age: domain.IntPtr(31), Email: "aliceb@co.com"}, nil},
		{"same values again", domain.Employee{ID: id, Name: "Alice B", Age: domain.IntPtr(31), Email: "aliceb@co.com"}, nil},
		{"unknown id", domain.Employee{ID: 99, Name: "Ghost", Email: "ghost@co.com"}, domain.ErrNotFound},
		{"email taken by another record", domain.Employee{ID: id, Name: "Alice C", Age: domain.IntPtr(32), Email: "bob@co.com"}, domain.ErrDuplicateEmail},
	}

	for i, tc := range tests {
		input := tc.input
		err := repo.Update(ctx, &input)
		if tc.wantErr != nil {
			assert.ErrorIs(t, err, tc.wantErr, "TEST[%d], failed.\n%s", i, tc.desc)
			continue
		}
		assert.NoError(t, err, "TEST[%d], failed.\n%s", i, tc.desc)
	}

	employees, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, employees, 2)
	assert.Equal(t, domain.Employee{ID: id, Name: "Alice B", Age: domain.IntPtr(31), Email: "aliceb@co.com"}, employees[0])
}

func TestEmployeeRepository_Delete(t *testing.T) {
	ctx := context.Background()
	repo := newSQLiteRepo(t)

	first, err := repo.Create(ctx, &domain.Employee{Name: "Alice", Email: "alice@co.com"})
	require.NoError(t, err)
	_, err = repo.Create(ctx, &domain.Employee{Name: "Bob", Email: "bob@co.com"})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, first))
	assert.ErrorIs(t, repo.Delete(ctx, first), domain.ErrNotFound)

	employees, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, employees, 1)
	assert.Equal(t, "Bob", employees[0].Name)

	n, err := repo.DeleteAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestEmployeeRepository_DriverErrors(t *testing.T) {
	insertQuery := regexp.QuoteMeta("INSERT INTO employees (name, age, email) VALUES ($1, $2, $3) RETURNING id")
	updateQuery := regexp.QuoteMeta("UPDATE employees SET name = $1, age = $2, email = $3 WHERE id = $4")

	testCases := map[string]struct {
		mock    func(mock sqlmock.Sqlmock)
		call    func(repo domain.EmployeeRepository) error
		wantErr error
	}{
		"postgres unique violation on create": {
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(insertQuery).
					WithArgs("Bob", int64(25), "a@x.com").
					WillReturnError(&pq.Error{Code: "23505"})
			},
			call: func(repo domain.EmployeeRepository) error {
				_, err := repo.Create(context.Background(), &domain.Employee{Name: "Bob", Age: domain.IntPtr(25), Email: "a@x.com"})
				return err
			},
			wantErr: domain.ErrDuplicateEmail,
		},
		"sqlite unique violation on update": {
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(updateQuery).
					WithArgs("Bob", nil, "a@x.com", int64(2)).
					WillReturnError(sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintUnique})
			},
			call: func(repo domain.EmployeeRepository) error {
				return repo.Update(context.Background(), &domain.Employee{ID: 2, Name: "Bob", Email: "a@x.com"})
			},
			wantErr: domain.ErrDuplicateEmail,
		},
		"other constraint is not a duplicate": {
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(insertQuery).
					WillReturnError(sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintNotNull})
			},
			call: func(repo domain.EmployeeRepository) error {
				_, err := repo.Create(context.Background(), &domain.Employee{Name: "Bob"})
				return err
			},
		},
		"update of missing row": {
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(updateQuery).WillReturnResult(sqlmock.NewResult(0, 0))
			},
			call: func(repo domain.EmployeeRepository) error {
				return repo.Update(context.Background(), &domain.Employee{ID: 7, Name: "Ghost"})
			},
			wantErr: domain.ErrNotFound,
		},
		"list query failure": {
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT id, name, age, email FROM employees").WillReturnError(sql.ErrConnDone)
			},
			call: func(repo domain.EmployeeRepository) error {
				_, err := repo.List(context.Background())
				return err
			},
			wantErr: sql.ErrConnDone,
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tc.mock(mock)
			err = tc.call(NewEmployeeRepository(db))

			require.Error(t, err)
			if tc.wantErr != nil {
				assert.True(t, errors.Is(err, tc.wantErr), "unexpected error: %v", err)
			} else {
				assert.False(t, errors.Is(err, domain.ErrDuplicateEmail))
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
