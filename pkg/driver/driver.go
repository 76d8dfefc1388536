// Package driver defines the database driver contract consumed by the
// session initializer, plus a registry of concrete implementations.
//
// Concrete driver implementations are in pkg/drivers/ subdirectories and
// register themselves in their init() functions.
package driver

import (
	"context"

	"github.com/leapstack-labs/dbprime/pkg/core"
)

// Driver is the surface the session initializer consumes. A Driver value
// owns at most one live connection. It is not safe for concurrent use
// within a single initialization run; the session calls it strictly
// sequentially.
type Driver interface {
	// Connect establishes a connection using the provided target config.
	Connect(ctx context.Context, cfg core.TargetConfig) error

	// Close closes the connection and releases resources.
	Close() error

	// Use binds name as the default namespace for subsequent operations.
	// Binding is optimistic: it must succeed even if the namespace does
	// not exist yet, because creation happens after selection.
	Use(name string)

	// ListDatabases returns the namespace names known to the server.
	ListDatabases(ctx context.Context) ([]string, error)

	// CreateDatabase creates a namespace. The bool mirrors the server's
	// create result: false with a nil error means the server reported
	// nothing created.
	CreateDatabase(ctx context.Context, name string) (bool, error)

	// ListTables returns the table names inside the named namespace.
	ListTables(ctx context.Context, db string) ([]string, error)

	// CreateTable creates a table inside the named namespace.
	CreateTable(ctx context.Context, db, name string) (bool, error)

	// Name returns the driver type name (e.g. "postgres").
	Name() string
}
