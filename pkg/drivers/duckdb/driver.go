// Package duckdb provides a DuckDB driver for dbprime.
//
// The provisioned namespace maps onto a DuckDB schema inside the database
// file (or in-memory database) named by the target path.
package duckdb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/leapstack-labs/dbprime/pkg/core"
	"github.com/leapstack-labs/dbprime/pkg/driver"

	_ "github.com/marcboeker/go-duckdb" // duckdb driver
)

// Driver implements the driver.Driver interface for DuckDB.
type Driver struct {
	driver.BaseSQLDriver
}

// New creates a new DuckDB driver instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Driver {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Driver{
		BaseSQLDriver: driver.BaseSQLDriver{Logger: logger},
	}
}

// Name returns the driver type name.
func (d *Driver) Name() string {
	return "duckdb"
}

// Connect establishes a connection to DuckDB.
// An empty path opens an in-memory database.
func (d *Driver) Connect(ctx context.Context, cfg core.TargetConfig) error {
	d.Logger.Debug("connecting to duckdb", slog.String("path", cfg.Path))

	db, err := sql.Open("duckdb", cfg.Path)
	if err != nil {
		return fmt.Errorf("failed to open duckdb connection: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping duckdb: %w", err)
	}

	d.DB = db
	d.Cfg = cfg
	return nil
}

// ListDatabases returns the schema names in the open database.
func (d *Driver) ListDatabases(ctx context.Context) ([]string, error) {
	return d.QueryNames(ctx, `
		SELECT schema_name
		FROM information_schema.schemata
		ORDER BY schema_name
	`)
}

// CreateDatabase creates a schema. No IF NOT EXISTS; the session performs
// the existence check and the server arbitrates duplicate creates.
func (d *Driver) CreateDatabase(ctx context.Context, name string) (bool, error) {
	if err := d.Exec(ctx, fmt.Sprintf("CREATE SCHEMA %s", quoteIdent(name))); err != nil {
		return false, err
	}
	return true, nil
}

// ListTables returns the table names inside the named schema.
func (d *Driver) ListTables(ctx context.Context, db string) ([]string, error) {
	return d.QueryNames(ctx, `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = ? AND table_type = 'BASE TABLE'
		ORDER BY table_name
	`, db)
}

// CreateTable creates a table with a text id primary key.
func (d *Driver) CreateTable(ctx context.Context, db, name string) (bool, error) {
	stmt := fmt.Sprintf("CREATE TABLE %s.%s (id TEXT PRIMARY KEY)", quoteIdent(db), quoteIdent(name))
	if err := d.Exec(ctx, stmt); err != nil {
		return false, err
	}
	return true, nil
}

// quoteIdent makes an identifier safe for interpolation into DDL.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// Ensure Driver implements the driver.Driver interface
var _ driver.Driver = (*Driver)(nil)
