// Package postgres provides a PostgreSQL driver for dbprime.
//
// This file registers the PostgreSQL driver with the driver registry.
// Import this package with a blank identifier to register the driver:
//
//	import _ "github.com/leapstack-labs/dbprime/pkg/drivers/postgres"
package postgres

import (
	"log/slog"

	"github.com/leapstack-labs/dbprime/pkg/driver"
)

func init() {
	driver.Register("postgres", func(logger *slog.Logger) driver.Driver { return New(logger) })
}
