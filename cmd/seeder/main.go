package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/locvowork/employee_management_sample/crud/internal/bootstrap"
	"github.com/locvowork/employee_management_sample/crud/internal/database"
	"github.com/locvowork/employee_management_sample/crud/internal/logger"
	"github.com/locvowork/employee_management_sample/crud/internal/repository"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdin, os.Stdout); err != nil {
		log.Fatalf("❌ %v", err)
	}
}

// run executes one seeder action. The application is closed on every return
// path, including a failed initialization.
func run(ctx context.Context, args []string, in io.Reader, out io.Writer) error {
	// Define flags
	fs := flag.NewFlagSet("seeder", flag.ContinueOnError)
	fs.SetOutput(out)
	action := fs.String("action", "seed", "Action to perform: seed, clear, export")
	count := fs.Int("count", 20, "Number of employees to generate")
	path := fs.String("out", "employees.xlsx", "Output file for export (.xlsx, or .csv for CSV)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	fmt.Fprintln(out, "🚀 Employee Data Seeder")
	fmt.Fprintln(out, strings.Repeat("=", 50))

	app := bootstrap.NewAppWithIO(in, out)
	defer app.Close()

	if err := app.Initialize(ctx); err != nil {
		logger.ErrorLog(ctx, "Failed to initialize application: %v", err)
		return err
	}

	seeder := database.NewDataSeeder(repository.NewEmployeeRepository(app.DB.DB), out)

	var err error
	switch *action {
	case "seed":
		_, err = seeder.SeedData(ctx, *count)
	case "clear":
		err = performClear(ctx, seeder, in, out)
	case "export":
		_, err = seeder.ExportData(ctx, *path)
	default:
		fmt.Fprintf(out, "❌ Unknown action: %s\n", *action)
		fs.PrintDefaults()
		return nil
	}

	if err != nil {
		return fmt.Errorf("%s failed: %w", *action, err)
	}

	fmt.Fprintln(out, "\n✅ Done!")
	return nil
}

func performClear(ctx context.Context, seeder *database.DataSeeder, in io.Reader, out io.Writer) error {
	fmt.Fprintln(out, "⚠️  This will delete all employees!")
	fmt.Fprint(out, "Continue? (yes/no): ")

	response, _ := bufio.NewReader(in).ReadString('\n')
	if strings.TrimSpace(response) != "yes" {
		fmt.Fprintln(out, "Cancelled.")
		return nil
	}

	_, err := seeder.ClearData(ctx)
	return err
}
