// Package session implements the connect-and-provision sequence that
// prepares a database session for use.
//
// Initialize runs four strictly ordered steps: connect with a bounded
// timeout, bind the target database name, ensure the database exists, ensure
// the table exists. Only the connect step can fail the run; provisioning
// problems degrade to per-step outcomes that the caller inspects.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/leapstack-labs/dbprime/pkg/core"
	"github.com/leapstack-labs/dbprime/pkg/driver"
)

// ConnectionError is the fatal error class: the server could not be reached
// within the configured timeout. No provisioning step runs when it occurs.
type ConnectionError struct {
	Addr    string
	Timeout time.Duration
	Err     error
}

func (e *ConnectionError) Error() string {
	if e.Timeout > 0 {
		return fmt.Sprintf("failed to connect to %s within %s: %v", e.Addr, e.Timeout, e.Err)
	}
	return fmt.Sprintf("failed to connect to %s: %v", e.Addr, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// Session owns one live connection for its lifetime. All state is held on
// the instance; nothing is shared between sessions, so concurrent sessions
// against the same server cannot interfere through this package.
type Session struct {
	id  string
	drv driver.Driver
	cfg core.TargetConfig
}

// ID returns the session's unique identifier.
func (s *Session) ID() string { return s.id }

// Driver returns the connection handle for later row-level operations.
// The handle is bound to the session's database name.
func (s *Session) Driver() driver.Driver { return s.drv }

// Database returns the database name the session is bound to.
func (s *Session) Database() string { return s.cfg.Database }

// Close closes the session's connection.
func (s *Session) Close() error { return s.drv.Close() }

// Initialize connects to the target and provisions its database and table.
//
// The returned report carries one outcome per provisioning step. A
// *ConnectionError is returned when the connect step fails; provisioning
// failures never surface as a returned error, and nothing is retried.
//
// The table step runs only when this run created the database. An existing
// database short-circuits straight to Ready without a table check; the table
// outcome reports StatusSkipped so callers can see the gate fire.
func Initialize(ctx context.Context, cfg core.TargetConfig, drv driver.Driver, logger *slog.Logger) (*Session, core.Report, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	id := uuid.New().String()
	logger = logger.With(slog.String("session", id))
	report := core.Report{SessionID: id}

	connectCtx := ctx
	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		connectCtx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}

	if err := drv.Connect(connectCtx, cfg); err != nil {
		return nil, report, &ConnectionError{Addr: cfg.Addr(), Timeout: cfg.ConnectTimeout, Err: err}
	}

	logger.Debug("connected", slog.String("driver", drv.Name()), slog.String("addr", cfg.Addr()))

	// Optimistic selection: the database may not exist yet; creation is the
	// next step. The bound name on the handle is also the converged database
	// reference for the table step, whichever path the database step takes.
	drv.Use(cfg.Database)

	report.Database = ensureDatabase(ctx, drv, cfg.Database, logger)

	if report.Database.Created() {
		report.Table = ensureTable(ctx, drv, cfg.Database, cfg.Table, logger)
	} else {
		// A table is only provisioned by the session that just created the
		// database; every other ending of the database step skips it.
		report.Table = core.Outcome{Entity: core.EntityTable, Name: cfg.Table, Status: core.StatusSkipped}
		logger.Debug("table provisioning skipped",
			slog.String("table", cfg.Table),
			slog.String("database_status", report.Database.Status.String()))
	}

	return &Session{id: id, drv: drv, cfg: cfg}, report, nil
}

// ensureDatabase lists the server's databases and creates the target when
// absent. Any driver fault inside the step is logged and recorded as a
// failed outcome; the run continues.
func ensureDatabase(ctx context.Context, drv driver.Driver, name string, logger *slog.Logger) core.Outcome {
	out := core.Outcome{Entity: core.EntityDatabase, Name: name}

	names, err := drv.ListDatabases(ctx)
	if err != nil {
		logger.Error("database provisioning failed",
			slog.String("database", name), slog.Any("error", err))
		out.Status = core.StatusFailed
		out.Err = err
		return out
	}

	if slices.Contains(names, name) {
		logger.Debug("database already exists", slog.String("database", name))
		out.Status = core.StatusExisted
		return out
	}

	created, err := drv.CreateDatabase(ctx, name)
	switch {
	case err != nil:
		logger.Error("database creation failed",
			slog.String("database", name), slog.Any("error", err))
		out.Status = core.StatusFailed
		out.Err = err
	case !created:
		// The server reported nothing created, most likely a concurrent
		// creator won the race.
		logger.Warn("database not created", slog.String("database", name))
		out.Status = core.StatusFailed
	default:
		logger.Info("database created", slog.String("database", name))
		out.Status = core.StatusCreated
	}
	return out
}

// ensureTable lists the database's tables and creates the target when
// absent. Faults degrade to a failed outcome just like the database step.
func ensureTable(ctx context.Context, drv driver.Driver, db, name string, logger *slog.Logger) core.Outcome {
	out := core.Outcome{Entity: core.EntityTable, Name: name}

	names, err := drv.ListTables(ctx, db)
	if err != nil {
		logger.Error("table provisioning failed",
			slog.String("table", name), slog.Any("error", err))
		out.Status = core.StatusFailed
		out.Err = err
		return out
	}

	if slices.Contains(names, name) {
		logger.Debug("table already exists", slog.String("table", name))
		out.Status = core.StatusExisted
		return out
	}

	created, err := drv.CreateTable(ctx, db, name)
	switch {
	case err != nil:
		logger.Error("table creation failed",
			slog.String("table", name), slog.Any("error", err))
		out.Status = core.StatusFailed
		out.Err = err
	case !created:
		logger.Warn("table not created", slog.String("table", name))
		out.Status = core.StatusFailed
	default:
		logger.Info("table created",
			slog.String("database", db), slog.String("table", name))
		out.Status = core.StatusCreated
	}
	return out
}
