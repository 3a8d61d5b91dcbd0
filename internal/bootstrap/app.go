package bootstrap

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/locvowork/employee_management_sample/crud/internal/config"
	"github.com/locvowork/employee_management_sample/crud/internal/database"
	"github.com/locvowork/employee_management_sample/crud/internal/logger"
	"github.com/locvowork/employee_management_sample/crud/internal/repository"
	"github.com/locvowork/employee_management_sample/crud/internal/service"
	"github.com/locvowork/employee_management_sample/crud/internal/shell"
)

type App struct {
	DB      *database.DB
	Service *service.EmployeeService
	Shell   *shell.Shell

	in  io.Reader
	out io.Writer
}

// NewApp creates an app bound to the process stdin and stdout.
func NewApp() *App {
	return NewAppWithIO(os.Stdin, os.Stdout)
}

// NewAppWithIO creates an app bound to the given streams.
func NewAppWithIO(in io.Reader, out io.Writer) *App {
	return &App{in: in, out: out}
}

// Initialize loads the configuration, sets up logging and opens the store.
// On success the caller owns the storage handle and must call Close.
func (a *App) Initialize(ctx context.Context) error {
	if err := config.LoadEnvConfig(); err != nil {
		return fmt.Errorf("failed to load env config: %w", err)
	}

	logger.InitLogging(config.DefaultEnvConfig.LOG_FILE_PATH, config.DefaultEnvConfig.LOG_LEVEL)
	logger.InfoLog(ctx, "Environment variables loaded successfully")

	dbConfig := database.Config{
		Driver:          config.DefaultEnvConfig.DB_DRIVER,
		DSN:             config.DefaultEnvConfig.DB_DSN,
		MaxOpenConns:    config.DefaultEnvConfig.DB_MAX_OPEN_CONNS,
		MaxIdleConns:    config.DefaultEnvConfig.DB_MAX_IDLE_CONNS,
		ConnMaxLifetime: config.DefaultEnvConfig.DB_CONN_MAX_LIFETIME,
	}

	return a.InitializeWithDB(ctx, dbConfig)
}

// InitializeWithDB opens the store described by dbConfig and wires the
// repository, service and shell on top of it.
func (a *App) InitializeWithDB(ctx context.Context, dbConfig database.Config) error {
	db, err := database.Open(ctx, dbConfig)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	a.DB = db

	empRepo := repository.NewEmployeeRepository(db.DB)
	a.Service = service.NewEmployeeService(empRepo)
	a.Shell = shell.New(a.Service, a.in, a.out)

	logger.InfoLog(ctx, "Database connection established successfully")
	return nil
}

// Run drives the interactive loop. The storage handle is released before
// Run returns, whether the loop ends normally, fails or panics.
func (a *App) Run(ctx context.Context) (err error) {
	defer func() {
		if closeErr := a.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	defer func() {
		if r := recover(); r != nil {
			logger.ErrorLog(ctx, "Interactive loop panicked: %v", r)
			panic(r)
		}
	}()

	return a.Shell.Run(ctx)
}

// Close releases the storage handle and the log file. It is safe to call
// more than once.
func (a *App) Close() error {
	var err error
	if a.DB != nil {
		err = a.DB.Close()
	}
	if logErr := logger.Close(); logErr != nil && err == nil {
		err = logErr
	}
	return err
}
