// Package postgres provides a PostgreSQL driver for dbprime.
//
// PostgreSQL cannot create a server-level database over the connection that
// would use it, so this driver maps the provisioned namespace onto a schema:
// the physical database to connect to comes from options["dbname"] (default
// "postgres"), and ListDatabases/CreateDatabase operate on schemas inside it.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx database/sql driver
	"github.com/leapstack-labs/dbprime/pkg/core"
	"github.com/leapstack-labs/dbprime/pkg/driver"
)

// Driver implements the driver.Driver interface for PostgreSQL.
type Driver struct {
	driver.BaseSQLDriver
}

// New creates a new PostgreSQL driver instance.
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
	return "postgres"
}

// Connect establishes a connection to PostgreSQL.
func (d *Driver) Connect(ctx context.Context, cfg core.TargetConfig) error {
	dsn := buildPostgresDSN(cfg)

	d.Logger.Debug("connecting to postgres", slog.String("host", cfg.Host), slog.String("database", cfg.Database))

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("failed to open postgres connection: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping postgres: %w", err)
	}

	d.DB = db
	d.Cfg = cfg
	return nil
}

// Use binds the namespace and points search_path at it. PostgreSQL resolves
// search_path lazily, so the schema need not exist yet.
func (d *Driver) Use(name string) {
	d.BaseSQLDriver.Use(name)
	if d.DB != nil {
		if _, err := d.DB.Exec(fmt.Sprintf("SET search_path TO %s", quoteIdent(name))); err != nil {
			d.Logger.Debug("search_path not set", slog.String("database", name), slog.Any("error", err))
		}
	}
}

// ListDatabases returns the schema names in the connected database.
func (d *Driver) ListDatabases(ctx context.Context) ([]string, error) {
	return d.QueryNames(ctx, `
		SELECT schema_name
		FROM information_schema.schemata
		ORDER BY schema_name
	`)
}

// CreateDatabase creates a schema. No IF NOT EXISTS: the existence check is
// the session's job, and a duplicate create racing another session should be
// rejected by the server, not silently absorbed.
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
		WHERE table_schema = $1 AND table_type = 'BASE TABLE'
		ORDER BY table_name
	`, db)
}

// CreateTable creates a table with a text id primary key, the implicit key
// shape documents are stored under.
func (d *Driver) CreateTable(ctx context.Context, db, name string) (bool, error) {
	stmt := fmt.Sprintf("CREATE TABLE %s.%s (id TEXT PRIMARY KEY)", quoteIdent(db), quoteIdent(name))
	if err := d.Exec(ctx, stmt); err != nil {
		return false, err
	}
	return true, nil
}

// buildPostgresDSN constructs a PostgreSQL connection string.
func buildPostgresDSN(cfg core.TargetConfig) string {
	host := cfg.Host
	if host == "" {
		host = "localhost"
	}

	port := cfg.Port
	if port == 0 {
		port = 5432
	}

	// The physical database to connect to; the provisioned namespace is a
	// schema inside it.
	dbname := "postgres"
	sslmode := "disable"
	if cfg.Options != nil {
		if v, ok := cfg.Options["dbname"]; ok {
			dbname = v
		}
		if v, ok := cfg.Options["sslmode"]; ok {
			sslmode = v
		}
	}

	dsn := fmt.Sprintf("host=%s port=%d dbname=%s sslmode=%s", host, port, dbname, sslmode)

	if cfg.User != "" {
		dsn += fmt.Sprintf(" user=%s", cfg.User)
	}
	if cfg.Password != "" {
		dsn += fmt.Sprintf(" password=%s", cfg.Password)
	}
	if cfg.ConnectTimeout > 0 {
		if secs := int(cfg.ConnectTimeout.Seconds()); secs > 0 {
			dsn += fmt.Sprintf(" connect_timeout=%d", secs)
		}
	}

	return dsn
}

// quoteIdent makes an identifier safe for interpolation into DDL.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// Ensure Driver implements the driver.Driver interface
var _ driver.Driver = (*Driver)(nil)
