package database

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jaswdr/faker"

	"github.com/locvowork/employee_management_sample/crud/internal/domain"
	"github.com/locvowork/employee_management_sample/crud/pkg/simpleexcel"
)

//go:embed employees_report.yaml
var employeesReportTemplate string

// DataSeeder fills, clears and exports the employees table for demos.
type DataSeeder struct {
	repo  domain.EmployeeRepository
	out   io.Writer
	faker faker.Faker
}

func NewDataSeeder(repo domain.EmployeeRepository, out io.Writer) *DataSeeder {
	return &DataSeeder{repo: repo, out: out, faker: faker.New()}
}

// SeedStats summarizes a SeedData run.
type SeedStats struct {
	Created    int
	Duplicates int
}

// SeedData inserts count generated employees one at a time. Generated emails
// that collide with existing ones are counted and skipped.
func (ds *DataSeeder) SeedData(ctx context.Context, count int) (SeedStats, error) {
	start := time.Now()
	fmt.Fprintf(ds.out, "🚀 Seeding %d employees...\n", count)

	var stats SeedStats
	person := ds.faker.Person()
	internet := ds.faker.Internet()

	for i := 0; i < count; i++ {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		first, last := person.FirstName(), person.LastName()
		age := ds.faker.IntBetween(18, 67)
		e := &domain.Employee{
			Name:  first + " " + last,
			Age:   &age,
			Email: strings.ToLower(first+"."+last) + "@" + internet.Domain(),
		}

		if _, err := ds.repo.Create(ctx, e); err != nil {
			if errors.Is(err, domain.ErrDuplicateEmail) {
				stats.Duplicates++
				continue
			}
			return stats, fmt.Errorf("failed to insert employee %d: %w", i+1, err)
		}
		stats.Created++
	}

	fmt.Fprintf(ds.out, "✅ Created %d employees (%d duplicate emails skipped)\n", stats.Created, stats.Duplicates)
	fmt.Fprintf(ds.out, "🎉 Done in %v\n", time.Since(start))
	return stats, nil
}

// ClearData deletes every employee.
func (ds *DataSeeder) ClearData(ctx context.Context) (int64, error) {
	fmt.Fprintln(ds.out, "🗑️  Clearing data...")

	n, err := ds.repo.DeleteAll(ctx)
	if err != nil {
		return 0, err
	}

	fmt.Fprintf(ds.out, "✅ Deleted %d employees\n", n)
	return n, nil
}

// ExportData writes every employee to path. A ".csv" path gets CSV, anything
// else an Excel workbook.
func (ds *DataSeeder) ExportData(ctx context.Context, path string) (int, error) {
	employees, err := ds.repo.List(ctx)
	if err != nil {
		return 0, err
	}

	exporter, err := simpleexcel.NewDataExporterFromYamlConfig(employeesReportTemplate)
	if err != nil {
		return 0, fmt.Errorf("failed to load report template: %w", err)
	}
	exporter.BindSectionData("employees", employees)

	if strings.EqualFold(filepath.Ext(path), ".csv") {
		err = exportCSV(exporter, path)
	} else {
		err = exporter.ExportToExcel(ctx, path)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to export employees: %w", err)
	}

	fmt.Fprintf(ds.out, "📋 Exported %d employees to %s\n", len(employees), path)
	return len(employees), nil
}

func exportCSV(exporter *simpleexcel.DataExporter, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := exporter.ToCSV(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
