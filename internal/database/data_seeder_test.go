package database

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/locvowork/employee_management_sample/crud/internal/domain"
	"github.com/locvowork/employee_management_sample/crud/internal/repository"
)

func newSeeder(t *testing.T) (*DataSeeder, domain.EmployeeRepository, *bytes.Buffer) {
	t.Helper()

	db, err := Open(context.Background(), Config{DSN: filepath.Join(t.TempDir(), "company.db")})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := repository.NewEmployeeRepository(db.DB)
	var out bytes.Buffer
	return NewDataSeeder(repo, &out), repo, &out
}

func TestDataSeeder_SeedAndClear(t *testing.T) {
	ctx := context.Background()
	seeder, repo, out := newSeeder(t)

	stats, err := seeder.SeedData(ctx, 15)
	require.NoError(t, err)
	assert.Equal(t, 15, stats.Created+stats.Duplicates)

	employees, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, employees, stats.Created)
	for _, e := range employees {
		assert.NotEmpty(t, e.Name)
		assert.Contains(t, e.Email, "@")
		require.NotNil(t, e.Age)
		assert.GreaterOrEqual(t, *e.Age, 18)
	}

	n, err := seeder.ClearData(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(stats.Created), n)

	employees, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, employees)
	assert.Contains(t, out.String(), "Deleted")
}

func TestDataSeeder_SeedStopsOnCancel(t *testing.T) {
	seeder, _, _ := newSeeder(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stats, err := seeder.SeedData(ctx, 5)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, stats.Created)
}

func TestDataSeeder_Export(t *testing.T) {
	ctx := context.Background()
	seeder, repo, _ := newSeeder(t)

	_, err := repo.Create(ctx, &domain.Employee{Name: "Alice", Age: domain.IntPtr(30), Email: "alice@co.com"})
	require.NoError(t, err)
	_, err = repo.Create(ctx, &domain.Employee{Name: "Bob", Email: "bob@co.com"})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "employees.xlsx")
	n, err := seeder.ExportData(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Employees")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"ID", "Name", "Age", "Email"}, rows[0])
	assert.Equal(t, []string{"1", "Alice", "30", "alice@co.com"}, rows[1])
	assert.Equal(t, "bob@co.com", rows[2][3])
}

func TestDataSeeder_ExportCSV(t *testing.T) {
	ctx := context.Background()
	seeder, repo, _ := newSeeder(t)

	_, err := repo.Create(ctx, &domain.Employee{Name: "Alice", Age: domain.IntPtr(30), Email: "alice@co.com"})
	require.NoError(t, err)
	_, err = repo.Create(ctx, &domain.Employee{Name: "Bob", Email: "bob@co.com"})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "employees.CSV")
	n, err := seeder.ExportData(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "ID,Name,Age,Email\n1,Alice,30,alice@co.com\n2,Bob,,bob@co.com\n", string(data))
}
