package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/leapstack-labs/dbprime/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPostgresDSN(t *testing.T) {
	tests := []struct {
		name     string
		config   core.TargetConfig
		expected string
	}{
		{
			name: "basic connection",
			config: core.TargetConfig{
				Host:     "localhost",
				Port:     5432,
				User:     "user",
				Password: "pass",
			},
			expected: "host=localhost port=5432 dbname=postgres sslmode=disable user=user password=pass",
		},
		{
			name: "with custom sslmode and dbname",
			config: core.TargetConfig{
				Host:    "prod.example.com",
				Port:    5432,
				User:    "admin",
				Options: map[string]string{"sslmode": "require", "dbname": "app"},
			},
			expected: "host=prod.example.com port=5432 dbname=app sslmode=require user=admin",
		},
		{
			name:     "defaults",
			config:   core.TargetConfig{},
			expected: "host=localhost port=5432 dbname=postgres sslmode=disable",
		},
		{
			name: "connect timeout carried into the DSN",
			config: core.TargetConfig{
				Host:           "db.example.com",
				Port:           5433,
				User:           "analyst",
				ConnectTimeout: 5 * time.Second,
			},
			expected: "host=db.example.com port=5433 dbname=postgres sslmode=disable user=analyst connect_timeout=5",
		},
		{
			name: "sub-second timeout omitted",
			config: core.TargetConfig{
				Host:           "db.example.com",
				ConnectTimeout: 500 * time.Millisecond,
			},
			expected: "host=db.example.com port=5432 dbname=postgres sslmode=disable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dsn := buildPostgresDSN(tt.config)
			assert.Equal(t, tt.expected, dsn)
		})
	}
}

func TestDriver_Name(t *testing.T) {
	assert.Equal(t, "postgres", New(nil).Name())
}

func TestDriver_NotConnected(t *testing.T) {
	tests := []struct {
		name      string
		operation func(ctx context.Context, d *Driver) error
	}{
		{
			name: "list databases without connect",
			operation: func(ctx context.Context, d *Driver) error {
				_, err := d.ListDatabases(ctx)
				return err
			},
		},
		{
			name: "create database without connect",
			operation: func(ctx context.Context, d *Driver) error {
				_, err := d.CreateDatabase(ctx, "app")
				return err
			},
		},
		{
			name: "list tables without connect",
			operation: func(ctx context.Context, d *Driver) error {
				_, err := d.ListTables(ctx, "app")
				return err
			},
		},
		{
			name: "create table without connect",
			operation: func(ctx context.Context, d *Driver) error {
				_, err := d.CreateTable(ctx, "app", "users")
				return err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.operation(context.Background(), New(nil))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "not established")
		})
	}
}

// mockedDriver returns a postgres driver wired to a sqlmock database.
func mockedDriver(t *testing.T) (*Driver, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	d := New(nil)
	d.DB = db
	return d, mock
}

func TestDriver_ListDatabases(t *testing.T) {
	d, mock := mockedDriver(t)
	rows := sqlmock.NewRows([]string{"schema_name"}).AddRow("default").AddRow("public")
	mock.ExpectQuery("SELECT schema_name").WillReturnRows(rows)

	names, err := d.ListDatabases(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"default", "public"}, names)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDriver_CreateDatabase(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		d, mock := mockedDriver(t)
		mock.ExpectExec(`CREATE SCHEMA "default"`).WillReturnResult(sqlmock.NewResult(0, 0))

		created, err := d.CreateDatabase(context.Background(), "default")
		require.NoError(t, err)
		assert.True(t, created)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate create rejected by server", func(t *testing.T) {
		d, mock := mockedDriver(t)
		mock.ExpectExec(`CREATE SCHEMA "default"`).WillReturnError(assert.AnError)

		created, err := d.CreateDatabase(context.Background(), "default")
		require.Error(t, err)
		assert.False(t, created)
	})
}

func TestDriver_ListTables(t *testing.T) {
	d, mock := mockedDriver(t)
	rows := sqlmock.NewRows([]string{"table_name"}).AddRow("users")
	mock.ExpectQuery("SELECT table_name").WithArgs("default").WillReturnRows(rows)

	names, err := d.ListTables(context.Background(), "default")
	require.NoError(t, err)
	assert.Equal(t, []string{"users"}, names)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDriver_CreateTable(t *testing.T) {
	d, mock := mockedDriver(t)
	mock.ExpectExec(`CREATE TABLE "default"."users"`).WillReturnResult(sqlmock.NewResult(0, 0))

	created, err := d.CreateTable(context.Background(), "default", "users")
	require.NoError(t, err)
	assert.True(t, created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuoteIdent(t *testing.T) {
	assert.Equal(t, `"users"`, quoteIdent("users"))
	assert.Equal(t, `"we""ird"`, quoteIdent(`we"ird`))
}
