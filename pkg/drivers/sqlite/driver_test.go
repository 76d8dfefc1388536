package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/leapstack-labs/dbprime/pkg/core"
	"github.com/leapstack-labs/dbprime/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fileConfig(dir string) core.TargetConfig {
	return core.TargetConfig{
		Type:           "sqlite",
		Path:           filepath.Join(dir, "primary.db"),
		Database:       "default",
		Table:          "users",
		ConnectTimeout: 5 * time.Second,
	}
}

func TestDriver_Name(t *testing.T) {
	assert.Equal(t, "sqlite", New(nil).Name())
}

func TestDriver_InMemoryProvisioning(t *testing.T) {
	ctx := context.Background()
	drv := New(nil)

	cfg := core.TargetConfig{Type: "sqlite", Database: "default", Table: "users"}
	require.NoError(t, drv.Connect(ctx, cfg))
	defer func() { _ = drv.Close() }()
	drv.Use("default")

	names, err := drv.ListDatabases(ctx)
	require.NoError(t, err)
	assert.Contains(t, names, "main")
	assert.NotContains(t, names, "default")

	created, err := drv.CreateDatabase(ctx, "default")
	require.NoError(t, err)
	assert.True(t, created)

	names, err = drv.ListDatabases(ctx)
	require.NoError(t, err)
	assert.Contains(t, names, "default")

	tables, err := drv.ListTables(ctx, "default")
	require.NoError(t, err)
	assert.Empty(t, tables)

	created, err = drv.CreateTable(ctx, "default", "users")
	require.NoError(t, err)
	assert.True(t, created)

	tables, err = drv.ListTables(ctx, "default")
	require.NoError(t, err)
	assert.Equal(t, []string{"users"}, tables)
}

func TestDriver_ListTablesUnknownDatabase(t *testing.T) {
	ctx := context.Background()
	drv := New(nil)
	require.NoError(t, drv.Connect(ctx, core.TargetConfig{Type: "sqlite"}))
	defer func() { _ = drv.Close() }()

	_, err := drv.ListTables(ctx, "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestDriver_CreateDatabaseRaceLoser(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	drv := New(nil)
	require.NoError(t, drv.Connect(ctx, fileConfig(dir)))
	defer func() { _ = drv.Close() }()

	// A concurrent creator already made the file between our existence
	// check and the create attempt.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "default.db"), nil, 0o644))

	created, err := drv.CreateDatabase(ctx, "default")
	require.NoError(t, err)
	assert.False(t, created, "losing the create race reports nothing created")
}

// TestSessionRoundTrip runs the full initializer against real SQLite files:
// the first session creates database and table, the second finds the
// database present and skips the table step.
func TestSessionRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	cfg := fileConfig(dir)

	first, report, err := session.Initialize(ctx, cfg, New(nil), nil)
	require.NoError(t, err)
	assert.Equal(t, core.StatusCreated, report.Database.Status)
	assert.Equal(t, core.StatusCreated, report.Table.Status)
	require.NoError(t, first.Close())

	// The namespace is backed by a file next to the primary database.
	_, err = os.Stat(filepath.Join(dir, "default.db"))
	require.NoError(t, err)

	second, report, err := session.Initialize(ctx, cfg, New(nil), nil)
	require.NoError(t, err)
	assert.Equal(t, core.StatusExisted, report.Database.Status)
	assert.Equal(t, core.StatusSkipped, report.Table.Status)
	require.NoError(t, second.Close())
}
