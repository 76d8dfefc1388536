// Package sqlite provides a SQLite driver for dbprime.
//
// This file registers the SQLite driver with the driver registry.
// Import this package with a blank identifier to register the driver:
//
//	import _ "github.com/leapstack-labs/dbprime/pkg/drivers/sqlite"
package sqlite

import (
	"log/slog"

	"github.com/leapstack-labs/dbprime/pkg/driver"
)

func init() {
	driver.Register("sqlite", func(logger *slog.Logger) driver.Driver { return New(logger) })
}
