package driver

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/dbprime/pkg/core"
)

// BaseSQLDriver provides common database/sql functionality for drivers.
// Embed this struct in concrete driver implementations to get standard
// Close, Use, and name-listing implementations.
type BaseSQLDriver struct {
	DB     *sql.DB
	Cfg    core.TargetConfig
	Logger *slog.Logger

	// Bound is the namespace selected by Use. Selection is just
	// bookkeeping on the handle; the namespace need not exist yet.
	Bound string
}

// Use binds name as the default namespace for subsequent operations.
func (b *BaseSQLDriver) Use(name string) {
	b.Bound = name
	if b.Logger != nil {
		b.Logger.Debug("namespace bound", slog.String("database", name))
	}
}

// Close closes the database connection.
func (b *BaseSQLDriver) Close() error {
	if b.DB != nil {
		if b.Logger != nil {
			b.Logger.Debug("closing database connection")
		}
		return b.DB.Close()
	}
	return nil
}

// IsConnected returns true if the database connection is established.
func (b *BaseSQLDriver) IsConnected() bool {
	return b.DB != nil
}

// QueryNames runs a query whose result is a single string column and
// returns the values. All list operations in the SQL drivers reduce to
// this shape.
func (b *BaseSQLDriver) QueryNames(ctx context.Context, query string, args ...any) ([]string, error) {
	if b.DB == nil {
		return nil, fmt.Errorf("database connection not established")
	}

	rows, err := b.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan name: %w", err)
		}
		names = append(names, name)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating names: %w", err)
	}

	return names, nil
}

// Exec executes a SQL statement that doesn't return rows.
func (b *BaseSQLDriver) Exec(ctx context.Context, sqlStr string) error {
	if b.DB == nil {
		return fmt.Errorf("database connection not established")
	}
	_, err := b.DB.ExecContext(ctx, sqlStr)
	if err != nil {
		return fmt.Errorf("failed to execute SQL: %w", err)
	}
	return nil
}
