package database

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	// used for concrete implementation of the database driver.
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/locvowork/employee_management_sample/crud/internal/config"
	"github.com/locvowork/employee_management_sample/crud/internal/logger"
)

const (
	// EmployeesTable is the only table managed by the program.
	EmployeesTable = "employees"
	// DefaultSQLiteFile is the fixed backing file used when no DSN is configured.
	DefaultSQLiteFile = "company.db"
)

var schemas = map[string]string{
	config.DriverSQLite: `CREATE TABLE IF NOT EXISTS employees (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		age INTEGER,
		email TEXT UNIQUE
	)`,
	config.DriverPostgres: `CREATE TABLE IF NOT EXISTS employees (
		id SERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		age INTEGER,
		email TEXT UNIQUE
	)`,
}

type unsupportedDriver struct {
	driver string
}

func (u unsupportedDriver) Error() string {
	return fmt.Sprintf("unsupported database driver %q: supported drivers are - %s, %s",
		u.driver, config.DriverSQLite, config.DriverPostgres)
}

// Config holds what is needed to open the store.
type Config struct {
	Driver          string
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DB is the storage handle shared by all record operations.
// It is opened once and must be closed exactly once; Close is safe to call
// more than once.
type DB struct {
	*sql.DB
	driver    string
	closeOnce sync.Once
	closeErr  error
}

// Open opens (creating if absent) the store described by cfg and makes sure
// the employees table exists. It is safe to run on every startup.
func Open(ctx context.Context, cfg Config) (*DB, error) {
	if cfg.Driver == "" {
		cfg.Driver = config.DriverSQLite
	}

	schema, ok := schemas[cfg.Driver]
	if !ok {
		return nil, unsupportedDriver{driver: cfg.Driver}
	}

	if cfg.DSN == "" && cfg.Driver == config.DriverSQLite {
		cfg.DSN = DefaultSQLiteFile
	}

	sqlDB, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	configurePool(sqlDB, cfg)

	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := sqlDB.ExecContext(ctx, schema); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to create %s table: %w", EmployeesTable, err)
	}

	logger.InfoLog(ctx, "Database ready (driver=%s)", cfg.Driver)

	return &DB{DB: sqlDB, driver: cfg.Driver}, nil
}

// Driver returns the name of the driver the handle was opened with.
func (db *DB) Driver() string {
	return db.driver
}

// Close releases the underlying connection pool.
func (db *DB) Close() error {
	db.closeOnce.Do(func() {
		db.closeErr = db.DB.Close()
	})
	return db.closeErr
}

func configurePool(db *sql.DB, cfg Config) {
	// A single writer keeps SQLite away from "database is locked" errors.
	if cfg.Driver == config.DriverSQLite {
		db.SetMaxOpenConns(1)
		return
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
}
