// Package sqlite provides a SQLite driver for dbprime.
//
// SQLite has no server-side catalog of databases, so the provisioned
// namespace maps onto an attached database file: namespace "orders" lives in
// "orders.db" next to the primary database file named by the target path.
// A namespace exists when its file exists (or is attached on this
// connection); creating one creates the file and attaches it. With an
// in-memory primary database, namespaces are in-memory attachments that last
// for the lifetime of the connection.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/leapstack-labs/dbprime/pkg/core"
	"github.com/leapstack-labs/dbprime/pkg/driver"

	_ "modernc.org/sqlite" // sqlite driver
)

// Driver implements the driver.Driver interface for SQLite.
type Driver struct {
	driver.BaseSQLDriver
}

// New creates a new SQLite driver instance.
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
	return "sqlite"
}

// Connect opens the primary SQLite database.
// Use ":memory:" (or an empty path) for an in-memory database.
func (d *Driver) Connect(ctx context.Context, cfg core.TargetConfig) error {
	path := cfg.Path
	if path == "" {
		path = ":memory:"
	}

	d.Logger.Debug("connecting to sqlite", slog.String("path", path))

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// Attachments live on a single connection; pooling would scatter them.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	d.DB = db
	d.Cfg = cfg
	return nil
}

// inMemory reports whether the primary database is in-memory.
func (d *Driver) inMemory() bool {
	return d.Cfg.Path == "" || d.Cfg.Path == ":memory:"
}

// namespaceFile returns the file backing the named namespace.
func (d *Driver) namespaceFile(name string) string {
	return filepath.Join(filepath.Dir(d.Cfg.Path), name+".db")
}

// attachedNames returns the databases attached on this connection.
func (d *Driver) attachedNames(ctx context.Context) ([]string, error) {
	if d.DB == nil {
		return nil, fmt.Errorf("database connection not established")
	}

	rows, err := d.DB.QueryContext(ctx, "PRAGMA database_list")
	if err != nil {
		return nil, fmt.Errorf("failed to list attached databases: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var names []string
	for rows.Next() {
		var (
			seq  int
			name string
			file sql.NullString
		)
		if err := rows.Scan(&seq, &name, &file); err != nil {
			return nil, fmt.Errorf("failed to scan database list: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// ListDatabases returns namespace names: databases attached on this
// connection plus, for a file-backed primary, .db files alongside it.
func (d *Driver) ListDatabases(ctx context.Context) ([]string, error) {
	attached, err := d.attachedNames(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(attached))
	for _, name := range attached {
		seen[name] = true
	}

	if !d.inMemory() {
		entries, err := os.ReadDir(filepath.Dir(d.Cfg.Path))
		if err != nil {
			return nil, fmt.Errorf("failed to scan database directory: %w", err)
		}
		primary := filepath.Base(d.Cfg.Path)
		for _, e := range entries {
			if e.IsDir() || !strings.HasSuffix(e.Name(), ".db") || e.Name() == primary {
				continue
			}
			seen[strings.TrimSuffix(e.Name(), ".db")] = true
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// CreateDatabase creates the namespace file and attaches it. The exclusive
// create is the arbiter under concurrent provisioning: the loser of a race
// gets an already-exists error, reported as a failed outcome upstream.
func (d *Driver) CreateDatabase(ctx context.Context, name string) (bool, error) {
	if d.DB == nil {
		return false, fmt.Errorf("database connection not established")
	}

	file := ":memory:"
	if !d.inMemory() {
		file = d.namespaceFile(name)
		f, err := os.OpenFile(file, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if err != nil {
			if os.IsExist(err) {
				// Raced by a concurrent creator; nothing created by us.
				return false, nil
			}
			return false, fmt.Errorf("failed to create database file: %w", err)
		}
		_ = f.Close()
	}

	if _, err := d.DB.ExecContext(ctx, fmt.Sprintf("ATTACH DATABASE ? AS %s", quoteIdent(name)), file); err != nil {
		return false, fmt.Errorf("failed to attach database: %w", err)
	}
	return true, nil
}

// ensureAttached attaches the named namespace if its file exists but is not
// attached on this connection yet.
func (d *Driver) ensureAttached(ctx context.Context, name string) error {
	attached, err := d.attachedNames(ctx)
	if err != nil {
		return err
	}
	for _, a := range attached {
		if a == name {
			return nil
		}
	}

	if d.inMemory() {
		return fmt.Errorf("database %s does not exist", name)
	}

	file := d.namespaceFile(name)
	if _, err := os.Stat(file); err != nil {
		return fmt.Errorf("database %s does not exist", name)
	}

	_, err = d.DB.ExecContext(ctx, fmt.Sprintf("ATTACH DATABASE ? AS %s", quoteIdent(name)), file)
	if err != nil {
		return fmt.Errorf("failed to attach database: %w", err)
	}
	return nil
}

// ListTables returns the table names inside the named namespace.
func (d *Driver) ListTables(ctx context.Context, db string) ([]string, error) {
	if err := d.ensureAttached(ctx, db); err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`
		SELECT name
		FROM %s.sqlite_master
		WHERE type = 'table'
		ORDER BY name
	`, quoteIdent(db))
	return d.QueryNames(ctx, query)
}

// CreateTable creates a table with a text id primary key. The write also
// forces SQLite to materialize the namespace file header.
func (d *Driver) CreateTable(ctx context.Context, db, name string) (bool, error) {
	if err := d.ensureAttached(ctx, db); err != nil {
		return false, err
	}
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
